package tx

import "fmt"

// Type represents a transaction type code
type Type uint16

const (
	TypeInvalid Type = 0xFFFF // Invalid/unknown type

	// System program
	TypeTransfer Type = 0

	// Token program
	TypeMintCreate         Type = 10
	TypeTokenAccountCreate Type = 11
	TypeMintTo             Type = 12
	TypeTokenTransfer      Type = 13
	TypeTokenSetAuthority  Type = 14
	TypeTokenAccountClose  Type = 15

	// Escrow program
	TypeOfferCreate Type = 20
	TypeOfferAccept Type = 21
	TypeOfferCancel Type = 22
)

var typeNames = map[Type]string{
	TypeTransfer:           "Transfer",
	TypeMintCreate:         "MintCreate",
	TypeTokenAccountCreate: "TokenAccountCreate",
	TypeMintTo:             "MintTo",
	TypeTokenTransfer:      "TokenTransfer",
	TypeTokenSetAuthority:  "TokenSetAuthority",
	TypeTokenAccountClose:  "TokenAccountClose",
	TypeOfferCreate:        "OfferCreate",
	TypeOfferAccept:        "OfferAccept",
	TypeOfferCancel:        "OfferCancel",
}

// String returns the transaction type name
func (t Type) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("Unknown(%d)", uint16(t))
}

// TypeFromName returns the Type for a transaction type name
func TypeFromName(name string) (Type, bool) {
	for t, n := range typeNames {
		if n == name {
			return t, true
		}
	}
	return TypeInvalid, false
}

// IsEscrow reports whether the type belongs to the escrow program.
func (t Type) IsEscrow() bool {
	return t >= TypeOfferCreate && t <= TypeOfferCancel
}
