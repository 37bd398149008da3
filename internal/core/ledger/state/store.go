// Package state is the account store: account entries keyed by keylet,
// compressed on disk and fronted by an lru read cache.
package state

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/LeJamon/goEscrowd/internal/core/ledger/keylet"
	"github.com/LeJamon/goEscrowd/internal/core/tx"
	crypto "github.com/LeJamon/goEscrowd/internal/crypto/common"
	"github.com/LeJamon/goEscrowd/internal/storage/compression"
	"github.com/LeJamon/goEscrowd/internal/storage/database"
	lru "github.com/hashicorp/golang-lru/v2"
	log "github.com/sirupsen/logrus"
)

const logModule = "state"

// DefaultCacheSize is the number of decoded entries kept in memory.
const DefaultCacheSize = 4096

// Key prefixes inside the backend.
var (
	entryPrefix = []byte{'s'}
	metaPrefix  = []byte{'m'}
)

// Config holds store options.
type Config struct {
	// Compression names a registered compressor ("none" or "lz4")
	Compression string

	// CacheSize bounds the read cache; zero means DefaultCacheSize
	CacheSize int
}

// Store implements tx.LedgerView and tx.Committer over a database.DB.
type Store struct {
	mu    sync.RWMutex
	db    database.DB
	comp  compression.Compressor
	cache *lru.Cache[[32]byte, []byte]
}

var (
	_ tx.LedgerView = (*Store)(nil)
	_ tx.Committer  = (*Store)(nil)
)

// New opens a store over db.
func New(db database.DB, cfg Config) (*Store, error) {
	if cfg.Compression == "" {
		cfg.Compression = "lz4"
	}
	if cfg.CacheSize <= 0 {
		cfg.CacheSize = DefaultCacheSize
	}

	comp, err := compression.Get(cfg.Compression)
	if err != nil {
		return nil, err
	}
	cache, err := lru.New[[32]byte, []byte](cfg.CacheSize)
	if err != nil {
		return nil, err
	}

	return &Store{db: db, comp: comp, cache: cache}, nil
}

func entryKey(key [32]byte) []byte {
	return append(append(make([]byte, 0, 33), entryPrefix...), key[:]...)
}

// read returns the decoded entry or nil. Callers hold mu.
func (s *Store) read(key [32]byte) ([]byte, error) {
	if v, ok := s.cache.Get(key); ok {
		return v, nil
	}

	raw, err := s.db.Get(context.Background(), entryKey(key))
	if errors.Is(err, database.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read entry %x: %w", key, err)
	}
	data, err := s.comp.Decompress(raw)
	if err != nil {
		return nil, fmt.Errorf("decode entry %x: %w", key, err)
	}
	s.cache.Add(key, data)
	return data, nil
}

func (s *Store) Read(k keylet.Keylet) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := s.read(k.Key)
	if data == nil || err != nil {
		return nil, err
	}
	return append([]byte(nil), data...), nil
}

func (s *Store) Exists(k keylet.Keylet) (bool, error) {
	data, err := s.Read(k)
	return data != nil, err
}

func (s *Store) Insert(k keylet.Keylet, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.read(k.Key)
	if err != nil {
		return err
	}
	if existing != nil {
		return tx.ErrEntryExists
	}
	return s.commitLocked([]tx.Change{{Key: k.Key, Data: data}})
}

func (s *Store) Update(k keylet.Keylet, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.read(k.Key)
	if err != nil {
		return err
	}
	if existing == nil {
		return tx.ErrEntryNotFound
	}
	return s.commitLocked([]tx.Change{{Key: k.Key, Data: data}})
}

func (s *Store) Erase(k keylet.Keylet) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.read(k.Key)
	if err != nil {
		return err
	}
	if existing == nil {
		return tx.ErrEntryNotFound
	}
	return s.commitLocked([]tx.Change{{Key: k.Key, Erase: true}})
}

// ForEach visits entries in key order over a snapshot taken at the call, so
// fn may read from the store.
func (s *Store) ForEach(fn func(key [32]byte, data []byte) bool) error {
	type kv struct {
		key  [32]byte
		data []byte
	}

	s.mu.RLock()
	var entries []kv
	var decodeErr error
	err := s.db.Scan(context.Background(), entryPrefix, func(k, v []byte) bool {
		if len(k) != 33 {
			return true
		}
		data, err := s.comp.Decompress(v)
		if err != nil {
			decodeErr = fmt.Errorf("decode entry %x: %w", k[1:], err)
			return false
		}
		var key [32]byte
		copy(key[:], k[1:])
		entries = append(entries, kv{key: key, data: data})
		return true
	})
	s.mu.RUnlock()
	if err == nil {
		err = decodeErr
	}
	if err != nil {
		return err
	}

	for _, e := range entries {
		if !fn(e.key, e.data) {
			return nil
		}
	}
	return nil
}

// Commit writes changes in one backend batch.
func (s *Store) Commit(changes []tx.Change) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.commitLocked(changes)
}

func (s *Store) commitLocked(changes []tx.Change) error {
	batch := make(database.Batch, 0, len(changes))
	for _, c := range changes {
		if c.Erase {
			batch.Delete(entryKey(c.Key))
			continue
		}
		enc, err := s.comp.Compress(c.Data)
		if err != nil {
			return fmt.Errorf("encode entry %x: %w", c.Key, err)
		}
		batch.Put(entryKey(c.Key), enc)
	}

	if err := s.db.Apply(context.Background(), batch); err != nil {
		log.WithFields(log.Fields{"module": logModule, "changes": len(changes)}).WithError(err).Error("commit failed")
		// The cache may hold entries the batch did not write.
		s.cache.Purge()
		return fmt.Errorf("commit: %w", err)
	}

	for _, c := range changes {
		if c.Erase {
			s.cache.Remove(c.Key)
		} else {
			s.cache.Add(c.Key, append([]byte(nil), c.Data...))
		}
	}
	return nil
}

// Hash digests every entry in key order. Two stores with the same entries
// have the same hash.
func (s *Store) Hash() ([32]byte, error) {
	var parts [][]byte
	err := s.ForEach(func(key [32]byte, data []byte) bool {
		k := key
		parts = append(parts, k[:], data)
		return true
	})
	if err != nil {
		return [32]byte{}, err
	}
	return crypto.Sha512Half(parts...), nil
}

// Count returns the number of stored entries.
func (s *Store) Count() (int, error) {
	n := 0
	err := s.ForEach(func([32]byte, []byte) bool {
		n++
		return true
	})
	return n, err
}

// Snapshot returns a copy of every entry, keyed by entry key.
func (s *Store) Snapshot() (map[[32]byte][]byte, error) {
	out := make(map[[32]byte][]byte)
	err := s.ForEach(func(key [32]byte, data []byte) bool {
		out[key] = data
		return true
	})
	return out, err
}

// GetMeta reads a store-level value, such as the genesis marker.
func (s *Store) GetMeta(name string) ([]byte, bool, error) {
	v, err := s.db.Get(context.Background(), append(append([]byte(nil), metaPrefix...), name...))
	if errors.Is(err, database.ErrKeyNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return v, true, nil
}

// PutMeta writes a store-level value.
func (s *Store) PutMeta(name string, value []byte) error {
	return s.db.Put(context.Background(), append(append([]byte(nil), metaPrefix...), name...), value)
}
