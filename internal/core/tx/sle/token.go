package sle

import (
	"encoding/binary"
	"fmt"

	"github.com/LeJamon/goEscrowd/internal/core/ledger/entry"
	"github.com/LeJamon/goEscrowd/internal/core/types"
)

const (
	// TokenAccountSize is the data length of a token account.
	TokenAccountSize = 32 + 32 + 8 + 1
	// MintSize is the data length of a mint.
	MintSize = 32 + 8 + 1 + 1
)

// TokenAccount holds a balance of one mint. Only Authority may move the
// balance, hand the account to someone else or close it.
type TokenAccount struct {
	Mint      types.Address
	Authority types.Address
	Amount    uint64
	State     entry.TokenState
}

func (t *TokenAccount) Type() entry.Type {
	return entry.TypeTokenAccount
}

func (t *TokenAccount) Validate() error {
	return t.State.Validate()
}

func (t *TokenAccount) Encode() []byte {
	buf := make([]byte, TokenAccountSize)
	copy(buf[0:32], t.Mint[:])
	copy(buf[32:64], t.Authority[:])
	binary.LittleEndian.PutUint64(buf[64:72], t.Amount)
	buf[72] = byte(t.State)
	return buf
}

func DecodeTokenAccount(data []byte) (*TokenAccount, error) {
	if len(data) < TokenAccountSize {
		return nil, fmt.Errorf("token account: %w: have %d, need %d", ErrShortBuffer, len(data), TokenAccountSize)
	}
	t := &TokenAccount{}
	copy(t.Mint[:], data[0:32])
	copy(t.Authority[:], data[32:64])
	t.Amount = binary.LittleEndian.Uint64(data[64:72])
	t.State = entry.TokenState(data[72])
	return t, nil
}

// Mint describes a fungible asset. Its address is the asset identifier.
type Mint struct {
	MintAuthority types.Address
	Supply        uint64
	Decimals      uint8
	State         entry.TokenState
}

func (m *Mint) Type() entry.Type {
	return entry.TypeMint
}

func (m *Mint) Validate() error {
	return m.State.Validate()
}

func (m *Mint) Encode() []byte {
	buf := make([]byte, MintSize)
	copy(buf[0:32], m.MintAuthority[:])
	binary.LittleEndian.PutUint64(buf[32:40], m.Supply)
	buf[40] = m.Decimals
	buf[41] = byte(m.State)
	return buf
}

func DecodeMint(data []byte) (*Mint, error) {
	if len(data) < MintSize {
		return nil, fmt.Errorf("mint: %w: have %d, need %d", ErrShortBuffer, len(data), MintSize)
	}
	m := &Mint{}
	copy(m.MintAuthority[:], data[0:32])
	m.Supply = binary.LittleEndian.Uint64(data[32:40])
	m.Decimals = data[40]
	m.State = entry.TokenState(data[41])
	return m, nil
}
