// Package leveldb is the goleveldb backend of the account store.
package leveldb

import (
	"context"
	"errors"
	"path/filepath"
	"sync"

	"github.com/LeJamon/goEscrowd/internal/storage/database"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/util"
)

var _ database.DB = (*DB)(nil)

var syncWrites = &opt.WriteOptions{Sync: true}

// DB is one goleveldb directory.
type DB struct {
	mu sync.RWMutex
	db *leveldb.DB
}

// Open opens or creates a database in dir.
func Open(dir string) (*DB, error) {
	db, err := leveldb.OpenFile(dir, nil)
	if err != nil {
		return nil, err
	}
	return &DB{db: db}, nil
}

func (l *DB) use(ctx context.Context, fn func(db *leveldb.DB) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.db == nil {
		return database.ErrClosed
	}
	return fn(l.db)
}

func (l *DB) Get(ctx context.Context, key []byte) ([]byte, error) {
	var out []byte
	err := l.use(ctx, func(db *leveldb.DB) error {
		v, err := db.Get(key, nil)
		if errors.Is(err, leveldb.ErrNotFound) {
			return database.ErrKeyNotFound
		}
		out = v
		return err
	})
	return out, err
}

func (l *DB) Has(ctx context.Context, key []byte) (bool, error) {
	var ok bool
	err := l.use(ctx, func(db *leveldb.DB) error {
		var err error
		ok, err = db.Has(key, nil)
		return err
	})
	return ok, err
}

func (l *DB) Put(ctx context.Context, key, value []byte) error {
	return l.use(ctx, func(db *leveldb.DB) error {
		return db.Put(key, value, syncWrites)
	})
}

func (l *DB) Delete(ctx context.Context, key []byte) error {
	return l.use(ctx, func(db *leveldb.DB) error {
		return db.Delete(key, syncWrites)
	})
}

func (l *DB) Apply(ctx context.Context, b database.Batch) error {
	return l.use(ctx, func(db *leveldb.DB) error {
		batch := new(leveldb.Batch)
		for _, op := range b {
			if op.Delete {
				batch.Delete(op.Key)
			} else {
				batch.Put(op.Key, op.Value)
			}
		}
		return db.Write(batch, syncWrites)
	})
}

func (l *DB) Scan(ctx context.Context, prefix []byte, fn func(key, value []byte) bool) error {
	return l.use(ctx, func(db *leveldb.DB) error {
		iter := db.NewIterator(util.BytesPrefix(prefix), nil)
		defer iter.Release()

		for iter.Next() {
			if !fn(append([]byte(nil), iter.Key()...), append([]byte(nil), iter.Value()...)) {
				break
			}
		}
		return iter.Error()
	})
}

// Close waits for in-flight calls and closes the database.
func (l *DB) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.db == nil {
		return nil
	}
	err := l.db.Close()
	l.db = nil
	return err
}

// Manager opens goleveldb databases as subdirectories of a data directory.
type Manager struct {
	dbs  *database.Handles[*DB]
	path string
}

var _ database.Manager = (*Manager)(nil)

func NewManager(path string) *Manager {
	return &Manager{
		dbs:  database.NewHandles[*DB]("leveldb"),
		path: path,
	}
}

func (m *Manager) OpenDB(name string) (database.DB, error) {
	return m.dbs.Get(name, func() (*DB, error) {
		return Open(filepath.Join(m.path, name+".ldb"))
	})
}

func (m *Manager) CloseDB(name string) error {
	return m.dbs.Close(name)
}

func (m *Manager) Close() error {
	return m.dbs.CloseAll()
}
