package sle

import (
	"encoding/binary"
	"fmt"

	"github.com/LeJamon/goEscrowd/internal/core/ledger/entry"
	"github.com/LeJamon/goEscrowd/internal/core/types"
)

// accountHeaderSize covers address, lamports, owner, sequence and data length.
const accountHeaderSize = 32 + 8 + 32 + 8 + 4

// FirstSequence is the Sequence of a newly created account. A transaction
// paid by the account must carry the account's current Sequence, which then
// moves on by one.
const FirstSequence uint64 = 1

// AccountRoot is the stored form of every address. Owner is the program
// allowed to change Data and debit Lamports.
type AccountRoot struct {
	Address  types.Address
	Lamports uint64
	Owner    types.Address
	Sequence uint64
	Data     []byte
}

func (a *AccountRoot) Type() entry.Type {
	return entry.TypeAccountRoot
}

func (a *AccountRoot) Validate() error {
	return nil
}

// Encode writes address[32] ‖ lamports[8 LE] ‖ owner[32] ‖ sequence[8 LE] ‖
// data_len[4 LE] ‖ data.
func (a *AccountRoot) Encode() []byte {
	buf := make([]byte, accountHeaderSize+len(a.Data))
	copy(buf[0:32], a.Address[:])
	binary.LittleEndian.PutUint64(buf[32:40], a.Lamports)
	copy(buf[40:72], a.Owner[:])
	binary.LittleEndian.PutUint64(buf[72:80], a.Sequence)
	binary.LittleEndian.PutUint32(buf[80:84], uint32(len(a.Data)))
	copy(buf[accountHeaderSize:], a.Data)
	return buf
}

// DecodeAccountRoot parses a stored account. Data is copied.
func DecodeAccountRoot(raw []byte) (*AccountRoot, error) {
	if len(raw) < accountHeaderSize {
		return nil, fmt.Errorf("account root: %w: have %d, need %d", ErrShortBuffer, len(raw), accountHeaderSize)
	}
	a := &AccountRoot{}
	copy(a.Address[:], raw[0:32])
	a.Lamports = binary.LittleEndian.Uint64(raw[32:40])
	copy(a.Owner[:], raw[40:72])
	a.Sequence = binary.LittleEndian.Uint64(raw[72:80])
	n := binary.LittleEndian.Uint32(raw[80:84])
	if uint64(len(raw)-accountHeaderSize) != uint64(n) {
		return nil, fmt.Errorf("account root: %w: header says %d, have %d", ErrTrailingData, n, len(raw)-accountHeaderSize)
	}
	if n > 0 {
		a.Data = make([]byte, n)
		copy(a.Data, raw[accountHeaderSize:])
	}
	return a, nil
}

// Clone returns a deep copy.
func (a *AccountRoot) Clone() *AccountRoot {
	c := *a
	if a.Data != nil {
		c.Data = append([]byte(nil), a.Data...)
	}
	return &c
}
