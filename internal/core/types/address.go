package types

import (
	"bytes"
	"encoding/json"
	"fmt"

	addresscodec "github.com/LeJamon/goEscrowd/internal/codec/address-codec"
)

// Address identifies an account. For wallets it is the ed25519 public key;
// program-derived addresses have no private key.
type Address [32]byte

// ZeroAddress is also the id of the system program.
var ZeroAddress Address

func (a Address) String() string {
	return addresscodec.EncodeAddress(a)
}

func (a Address) IsZero() bool {
	return a == ZeroAddress
}

// Less orders addresses bytewise.
func (a Address) Less(b Address) bool {
	return bytes.Compare(a[:], b[:]) < 0
}

// ParseAddress decodes the base58 form of an address.
func ParseAddress(s string) (Address, error) {
	raw, err := addresscodec.DecodeAddress(s)
	if err != nil {
		return Address{}, fmt.Errorf("parse address %q: %w", s, err)
	}
	return Address(raw), nil
}

// MustParseAddress panics on invalid input. Test and init helper.
func MustParseAddress(s string) Address {
	a, err := ParseAddress(s)
	if err != nil {
		panic(err)
	}
	return a
}

func (a Address) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

func (a *Address) UnmarshalText(text []byte) error {
	parsed, err := ParseAddress(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// MarshalJSON is spelled out so that map keys and values agree.
func (a Address) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.String())
}

func (a *Address) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	return a.UnmarshalText([]byte(s))
}
