// Package database defines the ordered key/value store accounts are
// persisted in, with one subpackage per backend.
package database

import "context"

// DB is an ordered byte-keyed store. Returned slices are copies the caller
// owns. Every method fails with the context's error once ctx is done.
type DB interface {
	Get(ctx context.Context, key []byte) ([]byte, error)
	Has(ctx context.Context, key []byte) (bool, error)
	Put(ctx context.Context, key, value []byte) error
	Delete(ctx context.Context, key []byte) error

	// Apply writes every operation of b or none of them.
	Apply(ctx context.Context, b Batch) error

	// Scan calls fn for each key starting with prefix, in key order, until
	// fn returns false. A nil prefix visits everything.
	Scan(ctx context.Context, prefix []byte, fn func(key, value []byte) bool) error
}

// Op is one write in a Batch. A Delete op ignores Value.
type Op struct {
	Key    []byte
	Value  []byte
	Delete bool
}

// Batch is an ordered list of writes applied atomically by DB.Apply.
type Batch []Op

// Put appends a write of value under key.
func (b *Batch) Put(key, value []byte) {
	*b = append(*b, Op{Key: key, Value: value})
}

// Delete appends a removal of key.
func (b *Batch) Delete(key []byte) {
	*b = append(*b, Op{Key: key, Delete: true})
}

// Manager opens named databases under one data directory.
type Manager interface {
	OpenDB(name string) (DB, error)
	CloseDB(name string) error
	Close() error
}

// PrefixEnd returns the smallest key greater than every key starting with
// prefix, or nil when no such key exists (prefix is empty or all 0xff).
func PrefixEnd(prefix []byte) []byte {
	end := append([]byte(nil), prefix...)
	for i := len(end) - 1; i >= 0; i-- {
		if end[i] < 0xff {
			end[i]++
			return end[:i+1]
		}
	}
	return nil
}
