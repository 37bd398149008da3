package leveldb

import (
	"testing"

	"github.com/LeJamon/goEscrowd/internal/storage/database"
	"github.com/LeJamon/goEscrowd/internal/storage/database/dbtest"
	"github.com/stretchr/testify/require"
)

func TestDatabase(t *testing.T) {
	db, err := Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	dbtest.Run(t, db)
}

func TestManager(t *testing.T) {
	dbtest.RunManager(t, func(dir string) database.Manager { return NewManager(dir) })
}
