package bbolt

import (
	"path/filepath"

	"github.com/LeJamon/goEscrowd/internal/storage/database"
)

var _ database.Manager = (*Manager)(nil)

// Manager opens one bbolt file per database name under a data directory.
type Manager struct {
	dbs  *database.Handles[*DB]
	path string
}

func NewManager(path string) *Manager {
	return &Manager{
		dbs:  database.NewHandles[*DB]("bbolt"),
		path: path,
	}
}

func (m *Manager) OpenDB(name string) (database.DB, error) {
	return m.dbs.Get(name, func() (*DB, error) {
		return Open(filepath.Join(m.path, name+".bolt"))
	})
}

func (m *Manager) CloseDB(name string) error {
	return m.dbs.Close(name)
}

func (m *Manager) Close() error {
	return m.dbs.CloseAll()
}
