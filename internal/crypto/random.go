package crypto

import (
	"crypto/rand"
	"errors"
	"io"
)

// ErrRandomGeneration is returned when the system CSPRNG fails.
var ErrRandomGeneration = errors.New("failed to generate random bytes")

// SeedSize is the length of seed material produced by RandomSeed.
const SeedSize = 16

// RandomBytes generates n cryptographically secure random bytes.
func RandomBytes(n int) ([]byte, error) {
	if n <= 0 {
		return nil, nil
	}

	b := make([]byte, n)
	_, err := io.ReadFull(rand.Reader, b)
	if err != nil {
		return nil, ErrRandomGeneration
	}
	return b, nil
}

// RandomSeed generates seed material for NewKeypair.
func RandomSeed() ([]byte, error) {
	return RandomBytes(SeedSize)
}
