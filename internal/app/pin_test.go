package app_test

import (
	"errors"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"live-quiz-service/internal/app"
	"live-quiz-service/internal/domain"
)

func TestPinGeneratorWidth(t *testing.T) {
	for _, digits := range []int{1, 4, 6} {
		gen := app.NewPinGenerator(digits)
		for range 200 {
			pin := gen()
			require.Len(t, pin, digits)
			n, err := strconv.Atoi(pin)
			require.NoError(t, err)
			if digits > 1 {
				assert.NotEqual(t, byte('0'), pin[0], "leading zero in %s", pin)
			}
			assert.Positive(t, n)
		}
	}
	assert.Len(t, app.NewPinGenerator(0)(), app.DefaultPinDigits)
}

func TestAllocatePin(t *testing.T) {
	codes := []string{"1111", "2222", "3333"}
	next := 0
	gen := func() string {
		pin := codes[next%len(codes)]
		next++
		return pin
	}

	taken := map[string]bool{"1111": true, "2222": true}
	pin, err := app.AllocatePin(gen, func(pin string) (bool, error) { return taken[pin], nil })
	require.NoError(t, err)
	assert.Equal(t, "3333", pin)

	taken["3333"] = true
	_, err = app.AllocatePin(gen, func(pin string) (bool, error) { return taken[pin], nil })
	assert.ErrorIs(t, err, domain.ErrPinSpaceExhausted)

	boom := errors.New("boom")
	_, err = app.AllocatePin(gen, func(string) (bool, error) { return false, boom })
	assert.ErrorIs(t, err, boom)
}
