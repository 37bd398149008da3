package tx

import (
	"bytes"
	"errors"
	"fmt"
	"sort"

	"github.com/LeJamon/goEscrowd/internal/core/ledger/keylet"
	"github.com/LeJamon/goEscrowd/internal/core/tx/sle"
)

var (
	ErrEntryExists   = errors.New("entry already exists")
	ErrEntryNotFound = errors.New("entry not found")
)

// entryState is what a transaction has done to one account so far.
type entryState uint8

const (
	stateRead entryState = iota
	stateCreated
	stateModified
	stateErased
)

// pending is one account as the running transaction sees it. before is the
// base bytes (nil when created here); after is the current bytes.
type pending struct {
	state  entryState
	before []byte
	after  []byte
}

func (p *pending) live() bool { return p.state != stateErased }

// ApplyStateTable is the storage accessor one transaction runs against. It
// buffers every read and write over a base LedgerView; the base only sees
// them on Apply, all at once.
type ApplyStateTable struct {
	base    LedgerView
	entries map[[32]byte]*pending
	config  *EngineConfig
}

// NewApplyStateTable starts an empty overlay on base. config is used to
// classify accounts in metadata and may be nil.
func NewApplyStateTable(base LedgerView, config *EngineConfig) *ApplyStateTable {
	return &ApplyStateTable{
		base:    base,
		entries: make(map[[32]byte]*pending),
		config:  config,
	}
}

// Read returns the account bytes at k, or nil when there is no account.
func (t *ApplyStateTable) Read(k keylet.Keylet) ([]byte, error) {
	if p, ok := t.entries[k.Key]; ok {
		if !p.live() {
			return nil, nil
		}
		return p.after, nil
	}
	data, err := t.base.Read(k)
	if err != nil || data == nil {
		return nil, err
	}
	t.entries[k.Key] = &pending{state: stateRead, before: data, after: data}
	return data, nil
}

func (t *ApplyStateTable) Exists(k keylet.Keylet) (bool, error) {
	if p, ok := t.entries[k.Key]; ok {
		return p.live(), nil
	}
	return t.base.Exists(k)
}

// Insert creates an account. Creating over one erased earlier in the same
// transaction counts as a modification of the base account.
func (t *ApplyStateTable) Insert(k keylet.Keylet, data []byte) error {
	if p, ok := t.entries[k.Key]; ok {
		if p.live() {
			return ErrEntryExists
		}
		p.state, p.after = stateModified, data
		return nil
	}
	exists, err := t.base.Exists(k)
	if err != nil {
		return err
	}
	if exists {
		return ErrEntryExists
	}
	t.entries[k.Key] = &pending{state: stateCreated, after: data}
	return nil
}

// Update replaces the bytes of an existing account.
func (t *ApplyStateTable) Update(k keylet.Keylet, data []byte) error {
	p, err := t.load(k)
	if err != nil {
		return err
	}
	if p.state == stateRead {
		p.state = stateModified
	}
	p.after = data
	return nil
}

// Erase deletes an existing account. Erasing an account created in the
// same transaction leaves no trace.
func (t *ApplyStateTable) Erase(k keylet.Keylet) error {
	p, err := t.load(k)
	if err != nil {
		return err
	}
	if p.state == stateCreated {
		delete(t.entries, k.Key)
		return nil
	}
	p.state, p.after = stateErased, nil
	return nil
}

// load returns the live entry for k, pulling it from the base if this
// transaction has not touched it yet.
func (t *ApplyStateTable) load(k keylet.Keylet) (*pending, error) {
	if p, ok := t.entries[k.Key]; ok {
		if !p.live() {
			return nil, fmt.Errorf("%w: erased in this transaction", ErrEntryNotFound)
		}
		return p, nil
	}
	data, err := t.base.Read(k)
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, ErrEntryNotFound
	}
	p := &pending{state: stateRead, before: data, after: data}
	t.entries[k.Key] = p
	return p, nil
}

// IsErased reports whether this transaction erased the account at k.
func (t *ApplyStateTable) IsErased(k keylet.Keylet) bool {
	p, ok := t.entries[k.Key]
	return ok && !p.live()
}

// ForEach walks the base with this transaction's writes laid over it.
// Accounts created here come after the base, in key order.
func (t *ApplyStateTable) ForEach(fn func(key [32]byte, data []byte) bool) error {
	stopped := false
	err := t.base.ForEach(func(key [32]byte, data []byte) bool {
		if p, ok := t.entries[key]; ok {
			if !p.live() {
				return true
			}
			data = p.after
		}
		stopped = !fn(key, data)
		return !stopped
	})
	if err != nil || stopped {
		return err
	}
	for _, key := range t.keys() {
		if p := t.entries[key]; p.state == stateCreated && !fn(key, p.after) {
			break
		}
	}
	return nil
}

func (t *ApplyStateTable) keys() [][32]byte {
	keys := make([][32]byte, 0, len(t.entries))
	for k := range t.entries {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		return bytes.Compare(keys[i][:], keys[j][:]) < 0
	})
	return keys
}

// dirty reports whether p has to be written. A modification that put the
// original bytes back is not a write.
func (p *pending) dirty() bool {
	switch p.state {
	case stateCreated, stateErased:
		return true
	case stateModified:
		return !bytes.Equal(p.before, p.after)
	}
	return false
}

// Changes returns the pending writes in key order.
func (t *ApplyStateTable) Changes() []Change {
	var changes []Change
	for _, key := range t.keys() {
		p := t.entries[key]
		if !p.dirty() {
			continue
		}
		changes = append(changes, Change{Key: key, Data: p.after, Erase: !p.live()})
	}
	return changes
}

// Apply writes the pending changes to the base and describes them. A base
// that implements Committer receives them in one call, so they land
// together or not at all.
func (t *ApplyStateTable) Apply() (*Metadata, error) {
	changes := t.Changes()
	metadata := &Metadata{AffectedNodes: make([]AffectedNode, 0, len(changes))}
	for _, c := range changes {
		metadata.AffectedNodes = append(metadata.AffectedNodes, t.describe(c.Key, t.entries[c.Key]))
	}

	if committer, ok := t.base.(Committer); ok {
		if err := committer.Commit(changes); err != nil {
			return nil, err
		}
		return metadata, nil
	}
	for _, c := range changes {
		if err := t.writeThrough(c); err != nil {
			return nil, err
		}
	}
	return metadata, nil
}

func (t *ApplyStateTable) writeThrough(c Change) error {
	k := keylet.Keylet{Key: c.Key}
	if c.Erase {
		return t.base.Erase(k)
	}
	exists, err := t.base.Exists(k)
	if err != nil {
		return err
	}
	if exists {
		return t.base.Update(k, c.Data)
	}
	return t.base.Insert(k, c.Data)
}

func (t *ApplyStateTable) describe(key [32]byte, p *pending) AffectedNode {
	node := AffectedNode{LedgerIndex: fmt.Sprintf("%X", key)}
	switch p.state {
	case stateCreated:
		node.NodeType = NodeCreated
	case stateErased:
		node.NodeType = NodeDeleted
	default:
		node.NodeType = NodeModified
	}

	before := decodeQuiet(p.before)
	after := decodeQuiet(p.after)
	if before != nil {
		lamports := before.Lamports
		node.PreviousLamports = &lamports
	}
	if after != nil {
		lamports := after.Lamports
		node.FinalLamports = &lamports
	}

	subject := after
	if subject == nil {
		subject = before
	}
	if subject != nil {
		node.Address = subject.Address
		node.Owner = subject.Owner
		node.LedgerEntryType = ClassifyAccount(subject, t.config).String()
	}
	return node
}

// decodeQuiet decodes an account for metadata; undecodable bytes yield nil.
func decodeQuiet(data []byte) *sle.AccountRoot {
	if data == nil {
		return nil
	}
	acct, err := sle.DecodeAccountRoot(data)
	if err != nil {
		return nil
	}
	return acct
}
