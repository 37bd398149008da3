package escrow

import (
	"errors"
	"fmt"

	"github.com/LeJamon/goEscrowd/internal/codec/instruction"
	"github.com/LeJamon/goEscrowd/internal/core/tx"
	"github.com/LeJamon/goEscrowd/internal/core/types"
)

// ErrNotEnoughAccounts is returned when an instruction names fewer accounts
// than its operation needs.
var ErrNotEnoughAccounts = errors.New("not enough accounts")

// Account counts per operation, in the order FromInstruction reads them.
const (
	CreateAccounts = 6 // seller, temp, receive, escrow, system, token
	AcceptAccounts = 9 // buyer, payment, buyer receive, escrow, seller, temp, receive, system, token
	CancelAccounts = 6 // seller, temp, receive, escrow, system, token
)

// FromInstruction decodes data and builds the matching transaction over the
// ordered account list. The fee payer is the first account.
func FromInstruction(data []byte, accounts []types.Address) (tx.Transaction, error) {
	ins, err := instruction.Decode(data)
	if err != nil {
		return nil, err
	}

	need := map[instruction.Opcode]int{
		instruction.OpOffer:  CreateAccounts,
		instruction.OpAccept: AcceptAccounts,
		instruction.OpCancel: CancelAccounts,
	}[ins.Op]
	if len(accounts) < need {
		return nil, fmt.Errorf("%s: %w: have %d, need %d", ins.Op, ErrNotEnoughAccounts, len(accounts), need)
	}

	switch ins.Op {
	case instruction.OpOffer:
		t := NewOfferCreate(accounts[0], accounts[1], accounts[2], accounts[3], ins.Offer, ins.Tag)
		t.SystemProgram, t.TokenProgram = accounts[4], accounts[5]
		return t, nil
	case instruction.OpAccept:
		t := NewOfferAccept(accounts[0], accounts[1], accounts[2], accounts[3], accounts[4], accounts[5], accounts[6], ins.Tag)
		t.SystemProgram, t.TokenProgram = accounts[7], accounts[8]
		return t, nil
	default:
		t := NewOfferCancel(accounts[0], accounts[1], accounts[2], accounts[3], ins.Tag)
		t.SystemProgram, t.TokenProgram = accounts[4], accounts[5]
		return t, nil
	}
}

// EncodeInstruction encodes t back into its wire form and ordered account list.
func EncodeInstruction(t tx.Transaction) ([]byte, []types.Address, error) {
	switch o := t.(type) {
	case *OfferCreate:
		return instruction.NewOffer(o.Offer, o.Tag).Encode(),
			[]types.Address{o.Seller, o.SellerTemp, o.SellerReceive, o.Escrow, o.SystemProgram, o.TokenProgram}, nil
	case *OfferAccept:
		return instruction.NewAccept(o.Tag).Encode(),
			[]types.Address{o.Buyer, o.BuyerPayment, o.BuyerReceive, o.Escrow, o.Seller, o.SellerTemp, o.SellerReceive, o.SystemProgram, o.TokenProgram}, nil
	case *OfferCancel:
		return instruction.NewCancel(o.Tag).Encode(),
			[]types.Address{o.Seller, o.SellerTemp, o.SellerReceive, o.Escrow, o.SystemProgram, o.TokenProgram}, nil
	}
	return nil, nil, fmt.Errorf("%s: %w", t.TxType(), instruction.ErrInvalidInstruction)
}
