package keylet

import (
	"errors"
	"fmt"

	"github.com/LeJamon/goEscrowd/internal/core/types"
	"github.com/LeJamon/goEscrowd/internal/crypto/algorithms/ed25519"
	crypto "github.com/LeJamon/goEscrowd/internal/crypto/common"
)

const (
	// MaxSeeds bounds the number of seeds in one derivation, bump included.
	MaxSeeds = 16
	// MaxSeedLength bounds every individual seed.
	MaxSeedLength = 32
)

var pdaMarker = []byte("ProgramDerivedAddress")

var (
	ErrOnCurve          = errors.New("derived address is on the ed25519 curve")
	ErrMaxSeedsExceeded = errors.New("too many seeds")
	ErrSeedTooLong      = errors.New("seed too long")
	ErrNoViableBump     = errors.New("no bump yields an off-curve address")
)

// CreateProgramAddress hashes the seeds with the owning program id. The
// result must be off the curve so that no private key can sign for it.
func CreateProgramAddress(seeds [][]byte, program types.Address) (types.Address, error) {
	if len(seeds) > MaxSeeds {
		return types.Address{}, ErrMaxSeedsExceeded
	}
	for i, s := range seeds {
		if len(s) > MaxSeedLength {
			return types.Address{}, fmt.Errorf("seed %d: %w", i, ErrSeedTooLong)
		}
	}

	inputs := make([][]byte, 0, len(seeds)+2)
	inputs = append(inputs, seeds...)
	inputs = append(inputs, program[:], pdaMarker)

	addr := types.Address(crypto.Sha256(inputs...))
	if ed25519.IsOnCurve(addr) {
		return types.Address{}, ErrOnCurve
	}
	return addr, nil
}

// FindProgramAddress appends a one-byte bump to the seeds and returns the
// first off-curve address, trying 255 down to 0.
func FindProgramAddress(seeds [][]byte, program types.Address) (types.Address, uint8, error) {
	if len(seeds) >= MaxSeeds {
		return types.Address{}, 0, ErrMaxSeedsExceeded
	}

	withBump := make([][]byte, len(seeds)+1)
	copy(withBump, seeds)
	bump := []byte{0}
	withBump[len(seeds)] = bump

	for b := 255; b >= 0; b-- {
		bump[0] = uint8(b)
		addr, err := CreateProgramAddress(withBump, program)
		if err == nil {
			return addr, uint8(b), nil
		}
		if !errors.Is(err, ErrOnCurve) {
			return types.Address{}, 0, err
		}
	}
	return types.Address{}, 0, ErrNoViableBump
}
