package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/LeJamon/goEscrowd/internal/core/types"
	"github.com/LeJamon/goEscrowd/internal/storage/relationaldb"
)

// TransactionRepository implements the TransactionRepository interface for PostgreSQL
type TransactionRepository struct {
	db      *sql.DB
	timeout time.Duration
}

// NewTransactionRepository creates a new PostgreSQL transaction repository
func NewTransactionRepository(db *sql.DB, timeout time.Duration) *TransactionRepository {
	return &TransactionRepository{db: db, timeout: timeout}
}

const selectColumns = `t.seq, t.hash, t.tx_type, t.account, t.result, t.fee, t.raw_txn, t.txn_meta, t.applied_at`

func (r *TransactionRepository) SaveTransaction(ctx context.Context, rec *relationaldb.TransactionRecord, accounts []types.Address) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return relationaldb.NewTransactionError("save_transaction", "failed to begin transaction", err)
	}
	defer tx.Rollback()

	seq, err := insertTransaction(ctx, tx, rec)
	if err != nil {
		return err
	}
	for _, acct := range accounts {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO account_transactions (account, seq) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
			acct.String(), seq); err != nil {
			return relationaldb.NewQueryError("save_transaction", "failed to index account", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return relationaldb.NewTransactionError("save_transaction", "failed to commit", err)
	}
	rec.Seq = uint64(seq)
	return nil
}

func insertTransaction(ctx context.Context, tx *sql.Tx, rec *relationaldb.TransactionRecord) (int64, error) {
	query := `INSERT INTO transactions (hash, tx_type, account, result, fee, raw_txn, txn_meta, applied_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			  ON CONFLICT (hash) DO NOTHING
			  RETURNING seq`

	var seq int64
	err := tx.QueryRowContext(ctx, query,
		rec.Hash[:], rec.Type, rec.Account.String(), rec.Result, int64(rec.Fee),
		rec.RawTxn, rec.Meta, rec.AppliedAt.UTC()).Scan(&seq)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, relationaldb.NewConstraintError("save_transaction", "transaction already stored", relationaldb.ErrDuplicateEntry)
	}
	if err != nil {
		return 0, relationaldb.NewQueryError("save_transaction", "failed to insert transaction", err)
	}
	return seq, nil
}

func (r *TransactionRepository) GetTransaction(ctx context.Context, hash relationaldb.Hash) (*relationaldb.TransactionRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	row := r.db.QueryRowContext(ctx, `SELECT `+selectColumns+` FROM transactions t WHERE t.hash = $1`, hash[:])
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, relationaldb.NewDataError("get_transaction", hash.String(), relationaldb.ErrTransactionNotFound)
	}
	if err != nil {
		return nil, relationaldb.NewQueryError("get_transaction", "failed to query transaction", err)
	}
	return rec, nil
}

func (r *TransactionRepository) GetAccountTransactions(ctx context.Context, options relationaldb.AccountTxOptions) (*relationaldb.AccountTxResult, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	limit := relationaldb.NormalizeLimit(options.Limit)

	query := `SELECT ` + selectColumns + `
			  FROM account_transactions a JOIN transactions t ON t.seq = a.seq
			  WHERE a.account = $1 AND ($2::BIGINT = 0 OR a.seq < $2::BIGINT)
			  ORDER BY a.seq DESC LIMIT $3`
	if options.Forward {
		query = `SELECT ` + selectColumns + `
			  FROM account_transactions a JOIN transactions t ON t.seq = a.seq
			  WHERE a.account = $1 AND a.seq > $2
			  ORDER BY a.seq ASC LIMIT $3`
	}

	// one extra row tells whether another page follows
	rows, err := r.db.QueryContext(ctx, query, options.Account.String(), int64(options.Marker), limit+1)
	if err != nil {
		return nil, relationaldb.NewQueryError("get_account_transactions", "failed to query account transactions", err)
	}
	defer rows.Close()

	result := &relationaldb.AccountTxResult{Limit: limit}
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, relationaldb.NewQueryError("get_account_transactions", "failed to scan row", err)
		}
		result.Transactions = append(result.Transactions, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, relationaldb.NewQueryError("get_account_transactions", "error iterating rows", err)
	}

	if len(result.Transactions) > limit {
		result.Transactions = result.Transactions[:limit]
		result.Marker = result.Transactions[limit-1].Seq
	}
	return result, nil
}

func (r *TransactionRepository) GetTransactionCount(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var count int64
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM transactions").Scan(&count); err != nil {
		return 0, relationaldb.NewQueryError("get_transaction_count", "failed to count transactions", err)
	}
	return count, nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanRecord(s scanner) (*relationaldb.TransactionRecord, error) {
	var (
		rec       relationaldb.TransactionRecord
		seq, fee  int64
		hashBytes []byte
		account   string
		meta      []byte
	)
	if err := s.Scan(&seq, &hashBytes, &rec.Type, &account, &rec.Result, &fee, &rec.RawTxn, &meta, &rec.AppliedAt); err != nil {
		return nil, err
	}

	addr, err := types.ParseAddress(account)
	if err != nil {
		return nil, err
	}
	rec.Seq = uint64(seq)
	rec.Fee = uint64(fee)
	rec.Account = addr
	rec.Meta = meta
	copy(rec.Hash[:], hashBytes)
	return &rec, nil
}
