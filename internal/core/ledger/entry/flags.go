package entry

import (
	"errors"
)

// TokenState is the one-byte state field of mints and token accounts.
type TokenState uint8

const (
	TokenStateUninitialized TokenState = 0
	TokenStateInitialized   TokenState = 1
	TokenStateFrozen        TokenState = 2
)

var ErrInvalidTokenState = errors.New("invalid token state")

func (s TokenState) String() string {
	switch s {
	case TokenStateUninitialized:
		return "uninitialized"
	case TokenStateInitialized:
		return "initialized"
	case TokenStateFrozen:
		return "frozen"
	default:
		return "invalid"
	}
}

// Validate rejects state bytes outside the known range.
func (s TokenState) Validate() error {
	if s > TokenStateFrozen {
		return ErrInvalidTokenState
	}
	return nil
}
