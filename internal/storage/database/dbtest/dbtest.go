// Package dbtest holds the behaviour every database backend must share.
package dbtest

import (
	"context"
	"testing"

	"github.com/LeJamon/goEscrowd/internal/storage/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Run exercises db against the database.DB contract. db must be empty.
func Run(t *testing.T, db database.DB) {
	t.Helper()
	ctx := context.Background()

	t.Run("GetPutDelete", func(t *testing.T) {
		key := []byte("rw-key")

		_, err := db.Get(ctx, key)
		require.ErrorIs(t, err, database.ErrKeyNotFound)
		ok, err := db.Has(ctx, key)
		require.NoError(t, err)
		assert.False(t, ok)

		require.NoError(t, db.Put(ctx, key, []byte("one")))
		require.NoError(t, db.Put(ctx, key, []byte("two")))
		got, err := db.Get(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, []byte("two"), got)
		ok, err = db.Has(ctx, key)
		require.NoError(t, err)
		assert.True(t, ok)

		// returned slices belong to the caller
		got[0] = 'X'
		again, err := db.Get(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, []byte("two"), again)

		require.NoError(t, db.Delete(ctx, key))
		_, err = db.Get(ctx, key)
		assert.ErrorIs(t, err, database.ErrKeyNotFound)
		assert.NoError(t, db.Delete(ctx, key), "deleting a missing key is not an error")
	})

	t.Run("Apply", func(t *testing.T) {
		require.NoError(t, db.Put(ctx, []byte("batch-b"), []byte("old")))

		var b database.Batch
		b.Put([]byte("batch-a"), []byte("a"))
		b.Delete([]byte("batch-b"))
		b.Put([]byte("batch-c"), []byte("c"))
		require.NoError(t, db.Apply(ctx, b))

		got, err := db.Get(ctx, []byte("batch-a"))
		require.NoError(t, err)
		assert.Equal(t, []byte("a"), got)

		_, err = db.Get(ctx, []byte("batch-b"))
		assert.ErrorIs(t, err, database.ErrKeyNotFound)

		got, err = db.Get(ctx, []byte("batch-c"))
		require.NoError(t, err)
		assert.Equal(t, []byte("c"), got)

		require.NoError(t, db.Apply(ctx, nil))
	})

	t.Run("ScanPrefix", func(t *testing.T) {
		for _, k := range []string{"p\xff", "q2", "q1", "q3", "r1"} {
			require.NoError(t, db.Put(ctx, []byte(k), []byte("v"+k)))
		}

		var keys []string
		err := db.Scan(ctx, []byte("q"), func(k, v []byte) bool {
			keys = append(keys, string(k))
			assert.Equal(t, "v"+string(k), string(v))
			return true
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"q1", "q2", "q3"}, keys)

		keys = nil
		err = db.Scan(ctx, []byte("q"), func(k, v []byte) bool {
			keys = append(keys, string(k))
			return len(keys) < 2
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"q1", "q2"}, keys)
	})

	t.Run("CancelledContext", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()

		_, err := db.Get(cctx, []byte("k"))
		assert.ErrorIs(t, err, context.Canceled)
		assert.ErrorIs(t, db.Put(cctx, []byte("k"), []byte("v")), context.Canceled)
		assert.ErrorIs(t, db.Apply(cctx, database.Batch{{Key: []byte("k")}}), context.Canceled)
		assert.ErrorIs(t, db.Scan(cctx, nil, func(k, v []byte) bool { return true }), context.Canceled)

		_, err = db.Get(ctx, []byte("k"))
		assert.ErrorIs(t, err, database.ErrKeyNotFound)
	})
}

// RunManager exercises a file-backed Manager rooted in a fresh directory.
func RunManager(t *testing.T, newManager func(dir string) database.Manager) {
	t.Helper()
	ctx := context.Background()
	dir := t.TempDir()

	m := newManager(dir)
	db, err := m.OpenDB("accounts")
	require.NoError(t, err)
	require.NoError(t, db.Put(ctx, []byte("k"), []byte("v")))

	require.NoError(t, m.CloseDB("accounts"))
	require.ErrorIs(t, m.CloseDB("accounts"), database.ErrNotOpen)
	_, err = db.Get(ctx, []byte("k"))
	assert.ErrorIs(t, err, database.ErrClosed)

	db, err = m.OpenDB("accounts")
	require.NoError(t, err)
	got, err := db.Get(ctx, []byte("k"))
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), got)
	require.NoError(t, m.Close())

	// a new manager over the same directory sees the data
	m = newManager(dir)
	t.Cleanup(func() { m.Close() })
	db, err = m.OpenDB("accounts")
	require.NoError(t, err)
	ok, err := db.Has(ctx, []byte("k"))
	require.NoError(t, err)
	assert.True(t, ok)
}
