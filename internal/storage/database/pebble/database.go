// Package pebble is the default backend of the account store.
package pebble

import (
	"context"
	"errors"
	"sync"

	"github.com/LeJamon/goEscrowd/internal/storage/database"
	"github.com/cockroachdb/pebble"
)

var _ database.DB = (*DB)(nil)

// DB is one pebble database. Writes are synced before returning.
type DB struct {
	mu sync.RWMutex
	db *pebble.DB
}

// Open opens or creates a pebble database in dir.
func Open(dir string, opts *pebble.Options) (*DB, error) {
	db, err := pebble.Open(dir, opts)
	if err != nil {
		return nil, err
	}
	return &DB{db: db}, nil
}

// use runs fn with the database held open, or fails if ctx is done or the
// database closed.
func (p *DB) use(ctx context.Context, fn func(db *pebble.DB) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.db == nil {
		return database.ErrClosed
	}
	return fn(p.db)
}

func (p *DB) Get(ctx context.Context, key []byte) ([]byte, error) {
	var out []byte
	err := p.use(ctx, func(db *pebble.DB) error {
		val, closer, err := db.Get(key)
		if errors.Is(err, pebble.ErrNotFound) {
			return database.ErrKeyNotFound
		}
		if err != nil {
			return err
		}
		out = append([]byte(nil), val...)
		return closer.Close()
	})
	return out, err
}

func (p *DB) Has(ctx context.Context, key []byte) (bool, error) {
	_, err := p.Get(ctx, key)
	if errors.Is(err, database.ErrKeyNotFound) {
		return false, nil
	}
	return err == nil, err
}

func (p *DB) Put(ctx context.Context, key, value []byte) error {
	return p.use(ctx, func(db *pebble.DB) error {
		return db.Set(key, value, pebble.Sync)
	})
}

func (p *DB) Delete(ctx context.Context, key []byte) error {
	return p.use(ctx, func(db *pebble.DB) error {
		return db.Delete(key, pebble.Sync)
	})
}

func (p *DB) Apply(ctx context.Context, b database.Batch) error {
	return p.use(ctx, func(db *pebble.DB) error {
		batch := db.NewBatch()
		defer batch.Close()

		for _, op := range b {
			var err error
			if op.Delete {
				err = batch.Delete(op.Key, nil)
			} else {
				err = batch.Set(op.Key, op.Value, nil)
			}
			if err != nil {
				return err
			}
		}
		return batch.Commit(pebble.Sync)
	})
}

func (p *DB) Scan(ctx context.Context, prefix []byte, fn func(key, value []byte) bool) error {
	return p.use(ctx, func(db *pebble.DB) error {
		iter, err := db.NewIter(&pebble.IterOptions{
			LowerBound: prefix,
			UpperBound: database.PrefixEnd(prefix),
		})
		if err != nil {
			return err
		}

		for valid := iter.First(); valid; valid = iter.Next() {
			key := append([]byte(nil), iter.Key()...)
			val := append([]byte(nil), iter.Value()...)
			if !fn(key, val) {
				break
			}
		}
		if err := iter.Error(); err != nil {
			iter.Close()
			return err
		}
		return iter.Close()
	})
}

// Close waits for in-flight calls and closes the database. Later calls
// fail with database.ErrClosed.
func (p *DB) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.db == nil {
		return nil
	}
	err := p.db.Close()
	p.db = nil
	return err
}
