package tx

import (
	"errors"
	"strconv"

	"github.com/LeJamon/goEscrowd/internal/core/types"
)

// Common errors
var (
	ErrMissingRequiredField   = errors.New("temMALFORMED: missing required field")
	ErrInvalidTransactionType = errors.New("temUNKNOWN: invalid transaction type")
	ErrInvalidAccount         = errors.New("temBAD_SRC_ACCOUNT: invalid account")
)

// Transaction is the interface that all transaction types must implement
type Transaction interface {
	// TxType returns the transaction type
	TxType() Type

	// GetCommon returns the common transaction fields
	GetCommon() *Common

	// Validate checks the transaction in isolation. Errors carry the result
	// code as a prefix, e.g. "temMALFORMED: ...".
	Validate() error

	// Accounts lists every address the transaction may read or write. The
	// engine locks them for the duration of the apply.
	Accounts() []types.Address

	// ProgramID returns the program that executes the transaction.
	ProgramID(cfg *EngineConfig) types.Address
}

// Appliable is implemented by transaction types that can apply themselves to
// account state.
type Appliable interface {
	Apply(ctx *ApplyContext) Result
}

// Signer is one ed25519 signature over the transaction's signing hash.
// The public key doubles as the signer's address.
type Signer struct {
	PublicKey types.Address `json:"PublicKey"`
	Signature string        `json:"Signature"`
}

// Common contains fields common to all transaction types
type Common struct {
	TransactionType string `json:"TransactionType"`

	// Account pays the fee and must sign.
	Account types.Address `json:"Account"`

	// Fee in lamports. Defaults to the base fee times the signature count.
	Fee string `json:"Fee,omitempty"`

	// Sequence must equal the fee payer's current account sequence.
	Sequence uint64 `json:"Sequence"`

	Memo    string   `json:"Memo,omitempty"`
	Signers []Signer `json:"Signers,omitempty"`
}

// Validate validates the common fields
func (c *Common) Validate() error {
	if c.Account.IsZero() {
		return errors.New("temBAD_SRC_ACCOUNT: Account is required")
	}
	if c.TransactionType == "" {
		return errors.New("temINVALID: TransactionType is required")
	}
	return nil
}

// FeeValue parses Fee. ok is false when Fee is absent.
func (c *Common) FeeValue() (fee uint64, ok bool, err error) {
	if c.Fee == "" {
		return 0, false, nil
	}
	fee, err = strconv.ParseUint(c.Fee, 10, 64)
	if err != nil {
		return 0, true, err
	}
	return fee, true, nil
}

// SetFee sets the fee in lamports.
func (c *Common) SetFee(lamports uint64) {
	c.Fee = strconv.FormatUint(lamports, 10)
}

// BaseTx provides a base implementation for transactions
type BaseTx struct {
	Common
	txType Type
}

// TxType returns the transaction type
func (b *BaseTx) TxType() Type {
	return b.txType
}

// GetCommon returns the common transaction fields
func (b *BaseTx) GetCommon() *Common {
	return &b.Common
}

// Validate validates the base transaction
func (b *BaseTx) Validate() error {
	return b.Common.Validate()
}

// NewBaseTx creates a new base transaction
func NewBaseTx(txType Type, account types.Address) *BaseTx {
	return &BaseTx{
		Common: Common{
			Account:         account,
			TransactionType: txType.String(),
		},
		txType: txType,
	}
}

// UniqueAccounts removes duplicates and the zero address, keeping order.
func UniqueAccounts(addrs ...types.Address) []types.Address {
	seen := make(map[types.Address]struct{}, len(addrs))
	out := make([]types.Address, 0, len(addrs))
	for _, a := range addrs {
		if a.IsZero() {
			continue
		}
		if _, ok := seen[a]; ok {
			continue
		}
		seen[a] = struct{}{}
		out = append(out, a)
	}
	return out
}
