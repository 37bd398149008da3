// Package storage selects a database backend by name.
package storage

import (
	"fmt"
	"os"

	"github.com/LeJamon/goEscrowd/internal/storage/database"
	"github.com/LeJamon/goEscrowd/internal/storage/database/bbolt"
	"github.com/LeJamon/goEscrowd/internal/storage/database/leveldb"
	"github.com/LeJamon/goEscrowd/internal/storage/database/memory"
	"github.com/LeJamon/goEscrowd/internal/storage/database/pebble"
)

// Backend names accepted by NewManager.
const (
	BackendPebble  = "pebble"
	BackendBbolt   = "bbolt"
	BackendLevelDB = "leveldb"
	BackendMemory  = "memory"
)

// NewManager returns a database manager for backend rooted at path.
func NewManager(backend, path string) (database.Manager, error) {
	if backend != BackendMemory {
		if err := os.MkdirAll(path, 0o755); err != nil {
			return nil, fmt.Errorf("create data directory: %w", err)
		}
	}
	switch backend {
	case BackendPebble:
		return pebble.NewManager(path), nil
	case BackendBbolt:
		return bbolt.NewManager(path), nil
	case BackendLevelDB:
		return leveldb.NewManager(path), nil
	case BackendMemory:
		return memory.NewManager(), nil
	}
	return nil, fmt.Errorf("%w: %q", database.ErrUnknownBackend, backend)
}
