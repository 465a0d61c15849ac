package app

import (
	"math/rand/v2"
	"strconv"

	"live-quiz-service/internal/domain"
)

// DefaultPinDigits is the width of generated join codes.
const DefaultPinDigits = 4

const maxPinAttempts = 10000

// PinGenerator produces candidate join codes.
type PinGenerator func() string

// NewPinGenerator returns a generator of fixed-width numeric codes without a leading zero.
func NewPinGenerator(digits int) PinGenerator {
	if digits <= 0 {
		digits = DefaultPinDigits
	}
	lo := 1
	for i := 1; i < digits; i++ {
		lo *= 10
	}
	hi := lo * 10
	return func() string {
		return strconv.Itoa(lo + rand.IntN(hi-lo))
	}
}

// AllocatePin samples codes from gen until taken reports a free one.
// Callers must hold whatever lock makes taken and the following insert atomic.
func AllocatePin(gen PinGenerator, taken func(pin string) (bool, error)) (string, error) {
	for range maxPinAttempts {
		pin := gen()
		used, err := taken(pin)
		if err != nil {
			return "", err
		}
		if !used {
			return pin, nil
		}
	}
	return "", domain.ErrPinSpaceExhausted
}
