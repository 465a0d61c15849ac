package logger

import (
	"bytes"
	"encoding/json"
	"testing"
)

func TestNewWritesJSONAtLevel(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, "warn", "json")

	log.Info().Msg("hidden")
	log.Warn().Str("pin", "1234").Msg("shown")

	var line map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &line); err != nil {
		t.Fatalf("expected exactly one JSON line, got %q: %v", buf.String(), err)
	}
	if line["message"] != "shown" || line["pin"] != "1234" || line["level"] != "warn" {
		t.Fatalf("unexpected log line %v", line)
	}
}

func TestNewDefaultsToInfo(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, "nonsense", "json")
	log.Debug().Msg("hidden")
	if buf.Len() != 0 {
		t.Fatalf("expected debug suppressed, got %q", buf.String())
	}
}
