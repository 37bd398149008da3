package testing

import (
	stded25519 "crypto/ed25519"

	"github.com/LeJamon/goEscrowd/internal/core/types"
	"github.com/LeJamon/goEscrowd/internal/crypto/algorithms/ed25519"
)

// Account represents a test account with keypair and address information.
type Account struct {
	// Name is a human-readable identifier for the account (used for debugging).
	Name string

	// Address is the ed25519 public key.
	Address types.Address

	// PrivateKey signs transactions.
	PrivateKey stded25519.PrivateKey
}

// NewAccount creates a new test account with a deterministic keypair derived from the name.
// Using the same name will always produce the same account, making tests reproducible.
func NewAccount(name string) *Account {
	pub, priv := ed25519.DeriveKeypair([]byte(name))
	return &Account{
		Name:       name,
		Address:    types.Address(pub),
		PrivateKey: priv,
	}
}

func (a *Account) String() string {
	return a.Name + "(" + a.Address.String() + ")"
}
