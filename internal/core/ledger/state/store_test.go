package state

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/LeJamon/goEscrowd/internal/core/ledger/keylet"
	"github.com/LeJamon/goEscrowd/internal/core/tx"
	"github.com/LeJamon/goEscrowd/internal/core/types"
	"github.com/LeJamon/goEscrowd/internal/storage/database"
	"github.com/LeJamon/goEscrowd/internal/storage/database/memory"
	"github.com/LeJamon/goEscrowd/internal/storage/database/pebble"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func addr(b byte) types.Address {
	var a types.Address
	a[0] = b
	return a
}

func newStore(t *testing.T, db database.DB) *Store {
	t.Helper()
	s, err := New(db, Config{CacheSize: 8})
	require.NoError(t, err)
	return s
}

func TestStoreCRUD(t *testing.T) {
	s := newStore(t, memory.NewDB())
	k := keylet.Account(addr(1))

	data, err := s.Read(k)
	require.NoError(t, err)
	assert.Nil(t, data)

	require.NoError(t, s.Insert(k, []byte("v1")))
	assert.ErrorIs(t, s.Insert(k, []byte("v2")), tx.ErrEntryExists)

	exists, err := s.Exists(k)
	require.NoError(t, err)
	assert.True(t, exists)

	require.NoError(t, s.Update(k, []byte("v2")))
	data, err = s.Read(k)
	require.NoError(t, err)
	assert.Equal(t, []byte("v2"), data)

	require.NoError(t, s.Erase(k))
	assert.ErrorIs(t, s.Erase(k), tx.ErrEntryNotFound)
	assert.ErrorIs(t, s.Update(k, []byte("v3")), tx.ErrEntryNotFound)
}

func TestStoreReadReturnsCopy(t *testing.T) {
	s := newStore(t, memory.NewDB())
	k := keylet.Account(addr(1))
	require.NoError(t, s.Insert(k, []byte("abc")))

	data, err := s.Read(k)
	require.NoError(t, err)
	data[0] = 'z'

	again, err := s.Read(k)
	require.NoError(t, err)
	assert.Equal(t, []byte("abc"), again)
}

func TestStoreCommitIsOneBatch(t *testing.T) {
	db := memory.NewDB()
	s := newStore(t, db)
	k1, k2 := keylet.Account(addr(1)), keylet.Account(addr(2))
	require.NoError(t, s.Insert(k1, []byte("one")))

	require.NoError(t, s.Commit([]tx.Change{
		{Key: k1.Key, Erase: true},
		{Key: k2.Key, Data: []byte("two")},
	}))

	exists, err := s.Exists(k1)
	require.NoError(t, err)
	assert.False(t, exists)

	data, err := s.Read(k2)
	require.NoError(t, err)
	assert.Equal(t, []byte("two"), data)
}

type failingDB struct {
	database.DB
}

func (failingDB) Apply(context.Context, database.Batch) error {
	return errors.New("disk full")
}

func TestStoreCommitFailureLeavesCacheConsistent(t *testing.T) {
	db := memory.NewDB()
	s := newStore(t, db)
	k := keylet.Account(addr(1))
	require.NoError(t, s.Insert(k, []byte("old")))

	s.db = failingDB{DB: db}
	require.Error(t, s.Commit([]tx.Change{{Key: k.Key, Data: []byte("new")}}))

	s.db = db
	data, err := s.Read(k)
	require.NoError(t, err)
	assert.Equal(t, []byte("old"), data)
}

func TestStoreForEachIsOrderedAndSkipsMeta(t *testing.T) {
	s := newStore(t, memory.NewDB())
	require.NoError(t, s.PutMeta("genesis", []byte{1}))
	for i := byte(1); i <= 5; i++ {
		require.NoError(t, s.Insert(keylet.Account(addr(i)), []byte{i}))
	}

	var keys [][32]byte
	require.NoError(t, s.ForEach(func(key [32]byte, data []byte) bool {
		keys = append(keys, key)
		return true
	}))
	require.Len(t, keys, 5)
	for i := 1; i < len(keys); i++ {
		assert.Negative(t, bytes.Compare(keys[i-1][:], keys[i][:]))
	}

	n, err := s.Count()
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	v, ok, err := s.GetMeta("genesis")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte{1}, v)

	_, ok, err = s.GetMeta("missing")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStoreForEachStopsEarly(t *testing.T) {
	s := newStore(t, memory.NewDB())
	for i := byte(1); i <= 3; i++ {
		require.NoError(t, s.Insert(keylet.Account(addr(i)), []byte{i}))
	}
	visited := 0
	require.NoError(t, s.ForEach(func([32]byte, []byte) bool {
		visited++
		return false
	}))
	assert.Equal(t, 1, visited)
}

func TestStoreHashDependsOnContent(t *testing.T) {
	a := newStore(t, memory.NewDB())
	b := newStore(t, memory.NewDB())
	for _, s := range []*Store{a, b} {
		require.NoError(t, s.Insert(keylet.Account(addr(1)), []byte("x")))
	}

	ha, err := a.Hash()
	require.NoError(t, err)
	hb, err := b.Hash()
	require.NoError(t, err)
	assert.Equal(t, ha, hb)

	require.NoError(t, b.Update(keylet.Account(addr(1)), []byte("y")))
	hb, err = b.Hash()
	require.NoError(t, err)
	assert.NotEqual(t, ha, hb)
}

func TestStorePersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	k := keylet.Account(addr(9))

	m := pebble.NewManager(dir)
	db, err := m.OpenDB("state")
	require.NoError(t, err)
	s := newStore(t, db)
	require.NoError(t, s.Insert(k, bytes.Repeat([]byte("escrow"), 50)))
	require.NoError(t, m.Close())

	m = pebble.NewManager(dir)
	t.Cleanup(func() { m.Close() })
	db, err = m.OpenDB("state")
	require.NoError(t, err)
	s = newStore(t, db)

	data, err := s.Read(k)
	require.NoError(t, err)
	assert.Equal(t, bytes.Repeat([]byte("escrow"), 50), data)
}

func TestNewRejectsUnknownCompressor(t *testing.T) {
	_, err := New(memory.NewDB(), Config{Compression: "brotli"})
	assert.Error(t, err)
}
