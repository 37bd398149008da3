package entry

import (
	"fmt"
)

// Type identifies what an account's data holds. Every state entry is an
// account root; the type is decided by the owner program and the data
// length.
type Type uint16

const (
	// TypeAccountRoot is a plain wallet: no data, owned by the system program.
	TypeAccountRoot Type = 0x0061

	// Token program accounts
	TypeMint         Type = 0x006d
	TypeTokenAccount Type = 0x0074

	// Escrow program accounts
	TypeEscrowRecord Type = 0x0075

	// TypeUnknown covers data the node cannot interpret.
	TypeUnknown Type = 0xffff
)

// String returns the string representation of the Type
func (t Type) String() string {
	switch t {
	case TypeAccountRoot:
		return "AccountRoot"
	case TypeMint:
		return "Mint"
	case TypeTokenAccount:
		return "TokenAccount"
	case TypeEscrowRecord:
		return "EscrowRecord"
	case TypeUnknown:
		return "Unknown"
	default:
		return fmt.Sprintf("Unknown(%#x)", uint16(t))
	}
}

// Entry defines the interface for all decoded account data
type Entry interface {
	Type() Type
	Validate() error
}
