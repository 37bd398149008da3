// Package sqlite keeps transaction history in an embedded SQLite file using
// the pure-Go modernc.org/sqlite driver.
package sqlite

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"

	"github.com/LeJamon/goEscrowd/internal/storage/relationaldb"
	_ "modernc.org/sqlite"
)

// InMemory is the database name for a private in-memory database.
const InMemory = ":memory:"

// RepositoryManager implements the RepositoryManager interface for SQLite
type RepositoryManager struct {
	db     *sql.DB
	config *relationaldb.Config

	transactionRepo *TransactionRepository
	systemRepo      *relationaldb.SQLSystem
}

// NewRepositoryManager creates a new SQLite repository manager
func NewRepositoryManager(config *relationaldb.Config) (*RepositoryManager, error) {
	if err := config.Validate(); err != nil {
		return nil, relationaldb.NewConfigurationError("new_repository_manager", "invalid configuration", err)
	}
	if config.Driver != relationaldb.DriverSQLite {
		return nil, relationaldb.NewConfigurationError("new_repository_manager", "driver is not sqlite3", relationaldb.ErrInvalidDriver)
	}
	return &RepositoryManager{config: config}, nil
}

func (rm *RepositoryManager) Open(ctx context.Context) error {
	if rm.config.Database != InMemory && rm.config.ConnectionString == "" {
		if err := os.MkdirAll(filepath.Dir(rm.config.Database), 0o755); err != nil {
			return relationaldb.NewConfigurationError("open", "failed to create database directory", err)
		}
	}

	dsn, err := rm.config.BuildConnectionString()
	if err != nil {
		return relationaldb.NewConfigurationError("open", "failed to build connection string", err)
	}

	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return relationaldb.NewConnectionError("open", "failed to open database", err)
	}
	// every connection to :memory: is a separate database, and SQLite
	// allows one writer anyway
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetConnMaxLifetime(0)

	if err := sqlDB.PingContext(ctx); err != nil {
		sqlDB.Close()
		return relationaldb.NewConnectionError("open", "failed to ping database", err)
	}
	if err := relationaldb.Migrate(ctx, sqlDB, schema); err != nil {
		sqlDB.Close()
		return relationaldb.NewSchemaError("open", "failed to initialize schema", err)
	}

	rm.db = sqlDB
	rm.transactionRepo = &TransactionRepository{db: sqlDB, timeout: rm.config.DefaultTimeout}
	rm.systemRepo = &relationaldb.SQLSystem{DB: sqlDB}
	return nil
}

func (rm *RepositoryManager) Close(ctx context.Context) error {
	if rm.db == nil {
		return nil
	}
	err := rm.db.Close()
	rm.db = nil
	if err != nil {
		return relationaldb.NewConnectionError("close", "failed to close database", err)
	}
	return nil
}

func (rm *RepositoryManager) Transaction() relationaldb.TransactionRepository {
	return rm.transactionRepo
}

func (rm *RepositoryManager) System() relationaldb.SystemRepository {
	return rm.systemRepo
}

// schema creates the history tables. Statements must be idempotent.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS transactions (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		hash BLOB NOT NULL UNIQUE,
		tx_type TEXT NOT NULL,
		account TEXT NOT NULL,
		result TEXT NOT NULL,
		fee INTEGER NOT NULL,
		raw_txn BLOB NOT NULL,
		txn_meta BLOB,
		applied_at INTEGER NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS account_transactions (
		account TEXT NOT NULL,
		seq INTEGER NOT NULL REFERENCES transactions(seq) ON DELETE CASCADE,
		PRIMARY KEY (account, seq)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_transactions_account ON transactions(account)`,
}
