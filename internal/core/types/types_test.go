package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddressJSON(t *testing.T) {
	var a Address
	for i := range a {
		a[i] = 1
	}

	data, err := json.Marshal(map[string]Address{"account": a})
	require.NoError(t, err)
	assert.JSONEq(t, `{"account":"4vJ9JU1bJJE96FWSJKvHsmmFADCg4gpZQff4P3bkLKi"}`, string(data))

	var decoded map[string]Address
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, a, decoded["account"])
}

func TestParseAddressRejectsGarbage(t *testing.T) {
	_, err := ParseAddress("not-an-address")
	require.Error(t, err)

	assert.Panics(t, func() { MustParseAddress("") })
}

func TestAddressOrdering(t *testing.T) {
	a := Address{0x01}
	b := Address{0x02}
	assert.True(t, a.Less(b))
	assert.False(t, b.Less(a))
	assert.False(t, a.Less(a))
	assert.True(t, ZeroAddress.IsZero())
	assert.Equal(t, "11111111111111111111111111111111", ZeroAddress.String())
}

func TestParseTag(t *testing.T) {
	tag, err := ParseTag("0102")
	require.NoError(t, err)
	assert.Equal(t, byte(1), tag[0])
	assert.Equal(t, byte(2), tag[1])
	assert.Equal(t, byte(0), tag[27])

	_, err = ParseTag("zz")
	assert.ErrorIs(t, err, ErrInvalidTag)

	long := make([]byte, 0, 58)
	for i := 0; i < 29; i++ {
		long = append(long, '0', '1')
	}
	_, err = ParseTag(string(long))
	assert.ErrorIs(t, err, ErrInvalidTag)
}

func TestTagText(t *testing.T) {
	var tag Tag
	tag[27] = 0xAB
	text, err := tag.MarshalText()
	require.NoError(t, err)

	var back Tag
	require.NoError(t, back.UnmarshalText(text))
	assert.Equal(t, tag, back)
}

func TestTagFromBytes(t *testing.T) {
	tag, err := TagFromBytes([]byte("abc"))
	require.NoError(t, err)
	assert.Equal(t, byte('c'), tag[2])
	assert.Equal(t, byte(0), tag[3])

	_, err = TagFromBytes(make([]byte, TagLength+1))
	assert.ErrorIs(t, err, ErrInvalidTag)
}
