package storage

import (
	"testing"

	"github.com/LeJamon/goEscrowd/internal/storage/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewManager(t *testing.T) {
	for _, backend := range []string{BackendPebble, BackendBbolt, BackendLevelDB, BackendMemory} {
		t.Run(backend, func(t *testing.T) {
			m, err := NewManager(backend, t.TempDir())
			require.NoError(t, err)
			t.Cleanup(func() { m.Close() })

			_, err = m.OpenDB("accounts")
			assert.NoError(t, err)
		})
	}

	_, err := NewManager("rocksdb", t.TempDir())
	assert.ErrorIs(t, err, database.ErrUnknownBackend)
}
