// Package postgres keeps transaction history in a PostgreSQL server through
// lib/pq.
package postgres

import (
	"context"
	"database/sql"

	"github.com/LeJamon/goEscrowd/internal/storage/relationaldb"
	_ "github.com/lib/pq"
)

// RepositoryManager is the PostgreSQL history backend.
type RepositoryManager struct {
	config *relationaldb.Config
	db     *sql.DB

	txs    *TransactionRepository
	system *relationaldb.SQLSystem
}

// NewRepositoryManager validates config. The server is not contacted until
// Open.
func NewRepositoryManager(config *relationaldb.Config) (*RepositoryManager, error) {
	if err := config.Validate(); err != nil {
		return nil, relationaldb.NewConfigurationError("new_repository_manager", "invalid configuration", err)
	}
	if config.Driver != relationaldb.DriverPostgres {
		return nil, relationaldb.NewConfigurationError("new_repository_manager", "driver is not postgres", relationaldb.ErrInvalidDriver)
	}
	return &RepositoryManager{config: config}, nil
}

// Open connects with the configured pool limits, waits for the server to
// answer and brings the schema up to date.
func (rm *RepositoryManager) Open(ctx context.Context) error {
	dsn, err := rm.config.BuildConnectionString()
	if err != nil {
		return relationaldb.NewConfigurationError("open", "failed to build connection string", err)
	}
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return relationaldb.NewConnectionError("open", "failed to open database connection", err)
	}
	db.SetMaxOpenConns(rm.config.MaxOpenConns)
	db.SetMaxIdleConns(rm.config.MaxIdleConns)
	db.SetConnMaxLifetime(rm.config.ConnMaxLifetime)

	system := &relationaldb.SQLSystem{DB: db, Timeout: rm.config.DefaultTimeout}
	if err := system.Ping(ctx); err != nil {
		db.Close()
		return err
	}
	if err := relationaldb.Migrate(ctx, db, schema); err != nil {
		db.Close()
		return relationaldb.NewSchemaError("open", "failed to initialize schema", err)
	}

	rm.db = db
	rm.system = system
	rm.txs = NewTransactionRepository(db, rm.config.DefaultTimeout)
	return nil
}

func (rm *RepositoryManager) Close(context.Context) error {
	if rm.db == nil {
		return nil
	}
	db := rm.db
	rm.db, rm.txs, rm.system = nil, nil, nil
	if err := db.Close(); err != nil {
		return relationaldb.NewConnectionError("close", "failed to close database connection", err)
	}
	return nil
}

func (rm *RepositoryManager) Transaction() relationaldb.TransactionRepository {
	return rm.txs
}

func (rm *RepositoryManager) System() relationaldb.SystemRepository {
	return rm.system
}

// schema creates the history tables. Statements must be idempotent.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS transactions (
		seq BIGSERIAL PRIMARY KEY,
		hash BYTEA UNIQUE NOT NULL,
		tx_type VARCHAR(32) NOT NULL,
		account VARCHAR(64) NOT NULL,
		result VARCHAR(40) NOT NULL,
		fee BIGINT NOT NULL,
		raw_txn BYTEA NOT NULL,
		txn_meta BYTEA,
		applied_at TIMESTAMP WITH TIME ZONE NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS account_transactions (
		account VARCHAR(64) NOT NULL,
		seq BIGINT NOT NULL REFERENCES transactions(seq) ON DELETE CASCADE,
		PRIMARY KEY (account, seq)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_transactions_account ON transactions(account)`,
}
