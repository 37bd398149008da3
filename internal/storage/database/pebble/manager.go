package pebble

import (
	"path/filepath"

	"github.com/LeJamon/goEscrowd/internal/storage/database"
	"github.com/cockroachdb/pebble"
)

// DefaultCacheBytes sizes the block cache shared by a manager's databases.
const DefaultCacheBytes = 64 << 20

var _ database.Manager = (*Manager)(nil)

// Manager opens pebble databases as subdirectories of one data directory.
// All of them share a block cache.
type Manager struct {
	dbs   *database.Handles[*DB]
	path  string
	cache *pebble.Cache
}

func NewManager(path string) *Manager {
	return &Manager{
		dbs:   database.NewHandles[*DB]("pebble"),
		path:  path,
		cache: pebble.NewCache(DefaultCacheBytes),
	}
}

func (m *Manager) OpenDB(name string) (database.DB, error) {
	return m.dbs.Get(name, func() (*DB, error) {
		return Open(filepath.Join(m.path, name), &pebble.Options{Cache: m.cache})
	})
}

func (m *Manager) CloseDB(name string) error {
	return m.dbs.Close(name)
}

// Close closes every database. The manager must not be used afterwards.
func (m *Manager) Close() error {
	err := m.dbs.CloseAll()
	if m.cache != nil {
		m.cache.Unref()
		m.cache = nil
	}
	return err
}
