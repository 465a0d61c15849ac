package memory

import (
	"context"
	"errors"
	"strconv"
	"testing"

	"live-quiz-service/internal/app"
	"live-quiz-service/internal/domain"
)

func TestSessionStoreLifecycle(t *testing.T) {
	ctx := context.Background()
	store := NewSessionStore(nil)

	session, err := store.Create(ctx, sampleQuiz())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if len(session.Pin()) != app.DefaultPinDigits {
		t.Fatalf("expected %d digit pin, got %q", app.DefaultPinDigits, session.Pin())
	}
	if _, ok := store.Get(session.Pin()); !ok {
		t.Fatalf("expected session present")
	}
	if snap := session.Snapshot(); snap.Status != domain.StatusWaiting || snap.QuestionIndex != -1 {
		t.Fatalf("unexpected initial state %+v", snap)
	}

	if !store.Remove(ctx, session.Pin()) {
		t.Fatalf("expected remove to report present session")
	}
	if store.Remove(ctx, session.Pin()) {
		t.Fatalf("expected second remove to be a no-op")
	}
	if _, ok := store.Get(session.Pin()); ok {
		t.Fatalf("expected session removed")
	}
}

func TestSessionStorePinsAreUnique(t *testing.T) {
	ctx := context.Background()
	// Two-digit codes leave 90 slots, so collisions are guaranteed to be exercised.
	store := NewSessionStore(app.NewPinGenerator(2))

	seen := make(map[string]bool)
	for i := 0; i < 90; i++ {
		session, err := store.Create(ctx, sampleQuiz())
		if err != nil {
			t.Fatalf("create %d: %v", i, err)
		}
		if seen[session.Pin()] {
			t.Fatalf("duplicate pin %s", session.Pin())
		}
		seen[session.Pin()] = true
	}

	if _, err := store.Create(ctx, sampleQuiz()); !errors.Is(err, domain.ErrPinSpaceExhausted) {
		t.Fatalf("expected exhausted pin space, got %v", err)
	}
	if len(store.List()) != 90 {
		t.Fatalf("expected 90 sessions, got %d", len(store.List()))
	}
}

func TestSessionStoreReusesFreedPin(t *testing.T) {
	ctx := context.Background()
	next := 0
	codes := []string{"1234", "1234", "5678"}
	store := NewSessionStore(func() string {
		pin := codes[next%len(codes)]
		next++
		return pin
	})

	first, _ := store.Create(ctx, sampleQuiz())
	second, _ := store.Create(ctx, sampleQuiz())
	if first.Pin() != "1234" || second.Pin() != "5678" {
		t.Fatalf("expected rejection sampling to skip used pin, got %s and %s", first.Pin(), second.Pin())
	}

	store.Remove(ctx, "1234")
	next = 0
	third, _ := store.Create(ctx, sampleQuiz())
	if third.Pin() != "1234" {
		t.Fatalf("expected freed pin to be reusable, got %s", third.Pin())
	}
	if _, err := strconv.Atoi(third.Pin()); err != nil {
		t.Fatalf("expected numeric pin: %v", err)
	}
}
