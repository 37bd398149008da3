package types

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

// TagLength is the size of an offer disambiguation tag.
const TagLength = 28

var ErrInvalidTag = errors.New("invalid tag")

// Tag is appended to the offer seed so that one seller can hold several
// offers with identical terms. Its contents are opaque.
type Tag [TagLength]byte

func (t Tag) String() string {
	return strings.ToUpper(hex.EncodeToString(t[:]))
}

// ParseTag decodes a hex tag. Shorter input is right-padded with zeros.
func ParseTag(s string) (Tag, error) {
	var t Tag
	raw, err := hex.DecodeString(s)
	if err != nil {
		return t, fmt.Errorf("%w: %v", ErrInvalidTag, err)
	}
	if len(raw) > TagLength {
		return t, fmt.Errorf("%w: %d bytes, want at most %d", ErrInvalidTag, len(raw), TagLength)
	}
	copy(t[:], raw)
	return t, nil
}

func (t Tag) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *Tag) UnmarshalText(text []byte) error {
	parsed, err := ParseTag(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// TagFromBytes copies b into a tag, right-padding with zeros.
func TagFromBytes(b []byte) (Tag, error) {
	var t Tag
	if len(b) > TagLength {
		return t, fmt.Errorf("%w: %d bytes, want at most %d", ErrInvalidTag, len(b), TagLength)
	}
	copy(t[:], b)
	return t, nil
}
