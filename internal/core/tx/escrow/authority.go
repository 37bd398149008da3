// Package escrow implements the offer state machine: OfferCreate locks the
// seller's tokens under a program-derived address, OfferAccept swaps them
// against the buyer's payment and OfferCancel hands them back.
package escrow

import (
	"fmt"

	"github.com/LeJamon/goEscrowd/internal/core/ledger/keylet"
	"github.com/LeJamon/goEscrowd/internal/core/tx/sle"
	"github.com/LeJamon/goEscrowd/internal/core/types"
)

// Authority is the escrow-controlled address of one offer together with the
// bump that moves it off the curve.
type Authority struct {
	Address types.Address
	Bump    uint8
	Seeds   [][]byte
}

// DeriveAuthority computes the escrow address for offer and tag under
// program. The result depends only on its inputs.
func DeriveAuthority(offer sle.OfferDescriptor, tag types.Tag, program types.Address) (Authority, error) {
	seed := offer.Seed()
	seeds := [][]byte{seed[:], tag[:]}

	addr, bump, err := keylet.FindProgramAddress(seeds, program)
	if err != nil {
		return Authority{}, fmt.Errorf("derive escrow authority: %w", err)
	}
	return Authority{Address: addr, Bump: bump, Seeds: seeds}, nil
}

// SignerSeeds returns the seeds with the bump appended, as InvokeSigned
// expects them.
func (a Authority) SignerSeeds() [][]byte {
	out := make([][]byte, 0, len(a.Seeds)+1)
	out = append(out, a.Seeds...)
	return append(out, []byte{a.Bump})
}
