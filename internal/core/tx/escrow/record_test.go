package escrow

import (
	"testing"

	"github.com/LeJamon/goEscrowd/internal/core/ledger/keylet"
	"github.com/LeJamon/goEscrowd/internal/core/ledger/state"
	"github.com/LeJamon/goEscrowd/internal/core/tx"
	"github.com/LeJamon/goEscrowd/internal/core/tx/sle"
	"github.com/LeJamon/goEscrowd/internal/core/types"
	"github.com/LeJamon/goEscrowd/internal/storage/database/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordAt(t *testing.T) {
	program := tx.DefaultEscrowProgramID
	store, err := state.New(memory.NewDB(), state.Config{})
	require.NoError(t, err)

	put := func(addr, owner types.Address, data []byte) {
		acct := &sle.AccountRoot{Address: addr, Lamports: 1, Owner: owner, Sequence: sle.FirstSequence, Data: data}
		require.NoError(t, store.Insert(keylet.Account(addr), acct.Encode()))
	}

	rec := &sle.EscrowRecord{
		SellerMain:    types.Address{10},
		SellerTemp:    types.Address{11},
		SellerReceive: types.Address{12},
		Offer:         testOffer(),
	}
	valid := types.Address{0x21}
	put(valid, program, rec.Encode())

	got, res := RecordAt(store, valid, program)
	require.Equal(t, tx.TesSUCCESS, res)
	assert.Equal(t, rec, got)

	t.Run("missing account", func(t *testing.T) {
		got, res := RecordAt(store, types.Address{0x22}, program)
		assert.Equal(t, tx.TecNO_ENTRY, res)
		assert.Nil(t, got)
	})
	t.Run("wrong owner", func(t *testing.T) {
		addr := types.Address{0x23}
		put(addr, tx.TokenProgramID, rec.Encode())
		_, res := RecordAt(store, addr, program)
		assert.Equal(t, tx.TecOFFER_NOT_FOUND, res)
	})
	t.Run("wrong size", func(t *testing.T) {
		addr := types.Address{0x24}
		put(addr, program, append(rec.Encode(), 0))
		_, res := RecordAt(store, addr, program)
		assert.Equal(t, tx.TecOFFER_NOT_FOUND, res)
	})
	t.Run("zeroed record", func(t *testing.T) {
		addr := types.Address{0x25}
		put(addr, program, make([]byte, sle.EscrowRecordSize))
		_, res := RecordAt(store, addr, program)
		assert.Equal(t, tx.TecOFFER_NOT_FOUND, res)
	})
}
