package system

import (
	"errors"

	"github.com/LeJamon/goEscrowd/internal/core/tx"
	"github.com/LeJamon/goEscrowd/internal/core/types"
)

func init() {
	tx.Register(tx.TypeTransfer, func() tx.Transaction {
		return &Transfer{BaseTx: *tx.NewBaseTx(tx.TypeTransfer, types.Address{})}
	})
}

// Transfer moves lamports from the fee payer to Destination.
type Transfer struct {
	tx.BaseTx

	// Destination receives the lamports (required)
	Destination types.Address `json:"Destination"`

	// Lamports is the amount to move (required, positive)
	Lamports uint64 `json:"Lamports,string"`
}

// NewTransfer creates a new Transfer transaction
func NewTransfer(from, to types.Address, lamports uint64) *Transfer {
	return &Transfer{
		BaseTx:      *tx.NewBaseTx(tx.TypeTransfer, from),
		Destination: to,
		Lamports:    lamports,
	}
}

// TxType returns the transaction type
func (t *Transfer) TxType() tx.Type {
	return tx.TypeTransfer
}

// Validate validates the Transfer transaction
func (t *Transfer) Validate() error {
	if err := t.BaseTx.Validate(); err != nil {
		return err
	}
	if t.Destination.IsZero() {
		return errors.New("temMALFORMED: Destination is required")
	}
	if t.Destination == t.Account {
		return errors.New("temDST_IS_SRC: Destination may not be source")
	}
	if t.Lamports == 0 {
		return errors.New("temBAD_AMOUNT: Lamports must be positive")
	}
	return nil
}

func (t *Transfer) Accounts() []types.Address {
	return tx.UniqueAccounts(t.Account, t.Destination)
}

func (t *Transfer) ProgramID(cfg *tx.EngineConfig) types.Address {
	return cfg.SystemProgramID
}

// Apply applies a Transfer transaction
func (t *Transfer) Apply(ctx *tx.ApplyContext) tx.Result {
	return ctx.System().TransferLamports(ctx, t.Account, t.Destination, t.Lamports)
}
