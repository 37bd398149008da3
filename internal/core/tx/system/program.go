// Package system implements the system program: wallet transfers and the
// creation of rent-funded accounts owned by other programs.
package system

import (
	"math/bits"

	"github.com/LeJamon/goEscrowd/internal/core/tx"
	"github.com/LeJamon/goEscrowd/internal/core/tx/sle"
	"github.com/LeJamon/goEscrowd/internal/core/types"
)

// Program implements tx.SystemSubsystem.
type Program struct{}

var _ tx.SystemSubsystem = (*Program)(nil)

func NewProgram() *Program {
	return &Program{}
}

// CreateAccount funds address with lamports from payer and assigns it to
// owner with space zeroed data bytes.
func (p *Program) CreateAccount(ctx *tx.ApplyContext, payer, address types.Address, lamports, space uint64, owner types.Address) tx.Result {
	if !ctx.IsAuthorized(payer) || !ctx.IsAuthorized(address) {
		return tx.TecNO_AUTH
	}
	if payer == address {
		return tx.TemDST_IS_SRC
	}

	exists, res := ctx.AccountExists(address)
	if !res.IsSuccess() {
		return res
	}
	if exists {
		return tx.TecACCOUNT_EXISTS
	}

	if lamports < ctx.Rent().MinimumBalance(space) {
		return tx.TecINSUFFICIENT_RENT
	}

	src, res := ctx.ReadAccount(payer)
	if !res.IsSuccess() {
		return res
	}
	if src.Owner != ctx.Config.SystemProgramID {
		return tx.TecNO_PERMISSION
	}
	if src.Lamports < lamports {
		return tx.TecINSUFFICIENT_RENT
	}

	src.Lamports -= lamports
	if res := ctx.UpdateAccount(src); !res.IsSuccess() {
		return res
	}

	return ctx.InsertAccount(&sle.AccountRoot{
		Address:  address,
		Lamports: lamports,
		Owner:    owner,
		Sequence: sle.FirstSequence,
		Data:     make([]byte, space),
	})
}

// TransferLamports moves lamports out of a wallet. A missing destination
// becomes a new wallet.
func (p *Program) TransferLamports(ctx *tx.ApplyContext, from, to types.Address, lamports uint64) tx.Result {
	if !ctx.IsAuthorized(from) {
		return tx.TecNO_AUTH
	}
	if from == to {
		return tx.TemDST_IS_SRC
	}

	src, res := ctx.ReadAccount(from)
	if !res.IsSuccess() {
		return res
	}
	if src.Owner != ctx.Config.SystemProgramID {
		return tx.TecNO_PERMISSION
	}
	if src.Lamports < lamports {
		return tx.TecUNFUNDED_PAYMENT
	}

	dst, res := ctx.ReadAccount(to)
	created := false
	switch res {
	case tx.TesSUCCESS:
	case tx.TecNO_ENTRY:
		dst = &sle.AccountRoot{Address: to, Owner: ctx.Config.SystemProgramID, Sequence: sle.FirstSequence}
		created = true
	default:
		return res
	}

	sum, carry := bits.Add64(dst.Lamports, lamports, 0)
	if carry != 0 {
		return tx.TecOVERFLOW
	}
	src.Lamports -= lamports
	dst.Lamports = sum

	if res := ctx.UpdateAccount(src); !res.IsSuccess() {
		return res
	}
	if created {
		return ctx.InsertAccount(dst)
	}
	return ctx.UpdateAccount(dst)
}
