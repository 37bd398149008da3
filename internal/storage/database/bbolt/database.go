// Package bbolt is the bbolt backend of the account store. Each database
// is one file holding a single bucket.
package bbolt

import (
	"bytes"
	"context"
	"sync"
	"time"

	"github.com/LeJamon/goEscrowd/internal/storage/database"
	"go.etcd.io/bbolt"
)

var _ database.DB = (*DB)(nil)

var bucketName = []byte("entries")

// DB is one bbolt file. Every write is its own fsynced transaction.
type DB struct {
	mu sync.RWMutex
	db *bbolt.DB
}

// Open opens or creates the file at path and its bucket.
func Open(path string) (*DB, error) {
	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, err
	}
	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketName)
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}
	return &DB{db: db}, nil
}

func (b *DB) view(ctx context.Context, fn func(*bbolt.Bucket) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.db == nil {
		return database.ErrClosed
	}
	return b.db.View(func(tx *bbolt.Tx) error {
		return fn(tx.Bucket(bucketName))
	})
}

func (b *DB) update(ctx context.Context, fn func(*bbolt.Bucket) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.db == nil {
		return database.ErrClosed
	}
	return b.db.Update(func(tx *bbolt.Tx) error {
		return fn(tx.Bucket(bucketName))
	})
}

func (b *DB) Get(ctx context.Context, key []byte) ([]byte, error) {
	var out []byte
	err := b.view(ctx, func(bk *bbolt.Bucket) error {
		v := bk.Get(key)
		if v == nil {
			return database.ErrKeyNotFound
		}
		// bbolt values are only valid inside the transaction
		out = append([]byte(nil), v...)
		return nil
	})
	return out, err
}

func (b *DB) Has(ctx context.Context, key []byte) (bool, error) {
	var ok bool
	err := b.view(ctx, func(bk *bbolt.Bucket) error {
		ok = bk.Get(key) != nil
		return nil
	})
	return ok, err
}

func (b *DB) Put(ctx context.Context, key, value []byte) error {
	return b.update(ctx, func(bk *bbolt.Bucket) error {
		return bk.Put(key, value)
	})
}

func (b *DB) Delete(ctx context.Context, key []byte) error {
	return b.update(ctx, func(bk *bbolt.Bucket) error {
		return bk.Delete(key)
	})
}

func (b *DB) Apply(ctx context.Context, batch database.Batch) error {
	return b.update(ctx, func(bk *bbolt.Bucket) error {
		for _, op := range batch {
			var err error
			if op.Delete {
				err = bk.Delete(op.Key)
			} else {
				err = bk.Put(op.Key, op.Value)
			}
			if err != nil {
				return err
			}
		}
		return nil
	})
}

func (b *DB) Scan(ctx context.Context, prefix []byte, fn func(key, value []byte) bool) error {
	return b.view(ctx, func(bk *bbolt.Bucket) error {
		c := bk.Cursor()
		for k, v := c.Seek(prefix); k != nil && bytes.HasPrefix(k, prefix); k, v = c.Next() {
			if !fn(append([]byte(nil), k...), append([]byte(nil), v...)) {
				break
			}
		}
		return nil
	})
}

// Close waits for in-flight calls and closes the file.
func (b *DB) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.db == nil {
		return nil
	}
	err := b.db.Close()
	b.db = nil
	return err
}
