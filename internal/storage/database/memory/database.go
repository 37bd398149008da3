// Package memory is an in-process backend for tests and standalone mode.
// Nothing survives the process.
package memory

import (
	"bytes"
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/LeJamon/goEscrowd/internal/storage/database"
)

var _ database.DB = (*DB)(nil)

type DB struct {
	mu     sync.RWMutex
	data   map[string][]byte
	closed bool
}

func NewDB() *DB {
	return &DB{data: make(map[string][]byte)}
}

func (m *DB) check(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if m.closed {
		return database.ErrClosed
	}
	return nil
}

func (m *DB) Get(ctx context.Context, key []byte) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if err := m.check(ctx); err != nil {
		return nil, err
	}
	v, ok := m.data[string(key)]
	if !ok {
		return nil, database.ErrKeyNotFound
	}
	return bytes.Clone(v), nil
}

func (m *DB) Has(ctx context.Context, key []byte) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if err := m.check(ctx); err != nil {
		return false, err
	}
	_, ok := m.data[string(key)]
	return ok, nil
}

func (m *DB) Put(ctx context.Context, key, value []byte) error {
	return m.Apply(ctx, database.Batch{{Key: key, Value: value}})
}

func (m *DB) Delete(ctx context.Context, key []byte) error {
	return m.Apply(ctx, database.Batch{{Key: key, Delete: true}})
}

func (m *DB) Apply(ctx context.Context, b database.Batch) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.check(ctx); err != nil {
		return err
	}
	for _, op := range b {
		if op.Delete {
			delete(m.data, string(op.Key))
		} else {
			m.data[string(op.Key)] = bytes.Clone(op.Value)
		}
	}
	return nil
}

// Scan visits a snapshot of the matching keys taken under the read lock, so
// fn may write to the database.
func (m *DB) Scan(ctx context.Context, prefix []byte, fn func(key, value []byte) bool) error {
	m.mu.RLock()
	if err := m.check(ctx); err != nil {
		m.mu.RUnlock()
		return err
	}
	p := string(prefix)
	keys := make([]string, 0, len(m.data))
	for k := range m.data {
		if strings.HasPrefix(k, p) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	values := make([][]byte, len(keys))
	for i, k := range keys {
		values[i] = bytes.Clone(m.data[k])
	}
	m.mu.RUnlock()

	for i, k := range keys {
		if !fn([]byte(k), values[i]) {
			break
		}
	}
	return nil
}

// Close marks the database closed; later calls fail with ErrClosed.
func (m *DB) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	m.data = nil
	return nil
}

// Manager hands out one in-memory database per name. CloseDB drops its
// contents.
type Manager struct {
	dbs *database.Handles[*DB]
}

var _ database.Manager = (*Manager)(nil)

func NewManager() *Manager {
	return &Manager{dbs: database.NewHandles[*DB]("memory")}
}

func (m *Manager) OpenDB(name string) (database.DB, error) {
	return m.dbs.Get(name, func() (*DB, error) { return NewDB(), nil })
}

func (m *Manager) CloseDB(name string) error {
	return m.dbs.Close(name)
}

func (m *Manager) Close() error {
	return m.dbs.CloseAll()
}
