package relationaldb

//go:generate mockgen -source=interface.go -destination=mocks/mock_relationaldb.go -package=mocks

import (
	"context"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/LeJamon/goEscrowd/internal/core/types"
)

// Hash identifies a transaction
type Hash [32]byte

// TransactionRecord is one applied transaction as kept in history.
type TransactionRecord struct {
	// Seq is the commit order, assigned by SaveTransaction
	Seq uint64 `json:"seq"`

	Hash    Hash          `json:"hash"`
	Type    string        `json:"type"`
	Account types.Address `json:"account"`
	Result  string        `json:"result"`
	Fee     uint64        `json:"fee"`

	// RawTxn is the transaction JSON, Meta the metadata JSON
	RawTxn []byte `json:"raw_txn"`
	Meta   []byte `json:"meta,omitempty"`

	AppliedAt time.Time `json:"applied_at"`
}

// AccountTxOptions selects one page of an account's history.
type AccountTxOptions struct {
	Account types.Address

	// Marker continues a previous page. Zero starts from the newest entry,
	// or from the oldest when Forward is set.
	Marker uint64

	Limit   int
	Forward bool
}

// AccountTxResult is one page of an account's history.
type AccountTxResult struct {
	Transactions []TransactionRecord `json:"transactions"`

	// Marker is set when more results follow
	Marker uint64 `json:"marker,omitempty"`
	Limit  int    `json:"limit"`
}

// DefaultAccountTxLimit bounds pages when no limit is given.
const DefaultAccountTxLimit = 200

// TransactionRepository stores applied transactions and the accounts they
// touched.
type TransactionRepository interface {
	// SaveTransaction stores rec and indexes it under each account in one
	// database transaction, then sets rec.Seq. A hash already present
	// yields ErrDuplicateEntry.
	SaveTransaction(ctx context.Context, rec *TransactionRecord, accounts []types.Address) error

	// GetTransaction returns ErrTransactionNotFound for an unknown hash.
	GetTransaction(ctx context.Context, hash Hash) (*TransactionRecord, error)

	GetAccountTransactions(ctx context.Context, options AccountTxOptions) (*AccountTxResult, error)
	GetTransactionCount(ctx context.Context) (int64, error)
}

// SystemRepository handles system-level database operations
type SystemRepository interface {
	Ping(ctx context.Context) error
}

// RepositoryManager provides access to all repositories
type RepositoryManager interface {
	Transaction() TransactionRepository
	System() SystemRepository

	// Connection management
	Open(ctx context.Context) error
	Close(ctx context.Context) error
}

// String returns the hash as lowercase hex
func (h Hash) String() string {
	return hex.EncodeToString(h[:])
}

func (h Hash) IsZero() bool {
	return h == Hash{}
}

// ParseHash parses a hex string into a Hash
func ParseHash(s string) (Hash, error) {
	var h Hash
	if len(s) != 64 {
		return h, fmt.Errorf("%w: expected 64 hex characters, got %d", ErrInvalidTransactionHash, len(s))
	}

	decoded, err := hex.DecodeString(s)
	if err != nil {
		return h, fmt.Errorf("%w: %v", ErrInvalidTransactionHash, err)
	}

	copy(h[:], decoded)
	return h, nil
}

// NormalizeLimit clamps a requested page size.
func NormalizeLimit(limit int) int {
	if limit <= 0 || limit > DefaultAccountTxLimit {
		return DefaultAccountTxLimit
	}
	return limit
}
