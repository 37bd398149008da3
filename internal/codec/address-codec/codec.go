package addresscodec

import (
	"errors"

	"github.com/btcsuite/btcutil/base58"
)

// AddressLength is the byte length of every account address.
const AddressLength = 32

var (
	ErrInvalidAddress       = errors.New("invalid address")
	ErrInvalidAddressLength = errors.New("invalid address length")
	ErrEmptyAddress         = errors.New("empty address")
)

// EncodeAddress returns the base58 text form of a 32-byte address.
func EncodeAddress(addr [AddressLength]byte) string {
	return base58.Encode(addr[:])
}

// DecodeAddress parses the base58 text form of an address.
func DecodeAddress(s string) ([AddressLength]byte, error) {
	var out [AddressLength]byte
	if s == "" {
		return out, ErrEmptyAddress
	}

	raw := base58.Decode(s)
	if len(raw) == 0 {
		return out, ErrInvalidAddress
	}
	if len(raw) != AddressLength {
		return out, ErrInvalidAddressLength
	}
	copy(out[:], raw)
	return out, nil
}

// IsValidAddress reports whether s decodes to a 32-byte address.
func IsValidAddress(s string) bool {
	_, err := DecodeAddress(s)
	return err == nil
}
