package tx

import (
	"bytes"
	"errors"
	"sort"
	"sync"

	"github.com/LeJamon/goEscrowd/internal/core/ledger/keylet"
	"github.com/LeJamon/goEscrowd/internal/core/tx/sle"
	"github.com/LeJamon/goEscrowd/internal/core/types"
)

// mapView is an in-memory LedgerView for tests in this package.
type mapView struct {
	mu      sync.Mutex
	entries map[[32]byte][]byte
}

func newMapView() *mapView {
	return &mapView{entries: make(map[[32]byte][]byte)}
}

func (v *mapView) Read(k keylet.Keylet) ([]byte, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	data, ok := v.entries[k.Key]
	if !ok {
		return nil, nil
	}
	return bytes.Clone(data), nil
}

func (v *mapView) Exists(k keylet.Keylet) (bool, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	_, ok := v.entries[k.Key]
	return ok, nil
}

func (v *mapView) Insert(k keylet.Keylet, data []byte) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if _, ok := v.entries[k.Key]; ok {
		return ErrEntryExists
	}
	v.entries[k.Key] = bytes.Clone(data)
	return nil
}

func (v *mapView) Update(k keylet.Keylet, data []byte) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if _, ok := v.entries[k.Key]; !ok {
		return ErrEntryNotFound
	}
	v.entries[k.Key] = bytes.Clone(data)
	return nil
}

func (v *mapView) Erase(k keylet.Keylet) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if _, ok := v.entries[k.Key]; !ok {
		return ErrEntryNotFound
	}
	delete(v.entries, k.Key)
	return nil
}

func (v *mapView) ForEach(fn func(key [32]byte, data []byte) bool) error {
	v.mu.Lock()
	keys := make([][32]byte, 0, len(v.entries))
	for k := range v.entries {
		keys = append(keys, k)
	}
	snapshot := make(map[[32]byte][]byte, len(v.entries))
	for k, d := range v.entries {
		snapshot[k] = d
	}
	v.mu.Unlock()

	sort.Slice(keys, func(i, j int) bool { return bytes.Compare(keys[i][:], keys[j][:]) < 0 })
	for _, k := range keys {
		if !fn(k, snapshot[k]) {
			return nil
		}
	}
	return nil
}

func (v *mapView) len() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.entries)
}

func (v *mapView) put(acct *sle.AccountRoot) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.entries[keylet.Account(acct.Address).Key] = acct.Encode()
}

func (v *mapView) lamports(addr types.Address) uint64 {
	acct, res := ReadAccount(v, addr)
	if !res.IsSuccess() {
		return 0
	}
	return acct.Lamports
}

// committingView adds a Committer that can be made to fail.
type committingView struct {
	*mapView
	fail    bool
	commits int
}

func (v *committingView) Commit(changes []Change) error {
	if v.fail {
		return errors.New("commit refused")
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	v.commits++
	for _, c := range changes {
		if c.Erase {
			delete(v.entries, c.Key)
			continue
		}
		v.entries[c.Key] = bytes.Clone(c.Data)
	}
	return nil
}
