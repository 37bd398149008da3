package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/LeJamon/goEscrowd/internal/core/types"
	"github.com/LeJamon/goEscrowd/internal/storage/relationaldb"
)

// TransactionRepository implements the TransactionRepository interface for SQLite
type TransactionRepository struct {
	db      *sql.DB
	timeout time.Duration
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

	res, err := tx.ExecContext(ctx,
		`INSERT OR IGNORE INTO transactions (hash, tx_type, account, result, fee, raw_txn, txn_meta, applied_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.Hash[:], rec.Type, rec.Account.String(), rec.Result, int64(rec.Fee),
		rec.RawTxn, rec.Meta, rec.AppliedAt.UnixNano())
	if err != nil {
		return relationaldb.NewQueryError("save_transaction", "failed to insert transaction", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return relationaldb.NewConstraintError("save_transaction", "transaction already stored", relationaldb.ErrDuplicateEntry)
	}
	seq, err := res.LastInsertId()
	if err != nil {
		return relationaldb.NewQueryError("save_transaction", "failed to read sequence", err)
	}

	for _, acct := range accounts {
		if _, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO account_transactions (account, seq) VALUES (?, ?)`,
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

func (r *TransactionRepository) GetTransaction(ctx context.Context, hash relationaldb.Hash) (*relationaldb.TransactionRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	row := r.db.QueryRowContext(ctx, `SELECT `+selectColumns+` FROM transactions t WHERE t.hash = ?`, hash[:])
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
	marker := int64(options.Marker)

	var (
		rows *sql.Rows
		err  error
	)
	if options.Forward {
		rows, err = r.db.QueryContext(ctx, `SELECT `+selectColumns+`
			FROM account_transactions a JOIN transactions t ON t.seq = a.seq
			WHERE a.account = ? AND a.seq > ?
			ORDER BY a.seq ASC LIMIT ?`, options.Account.String(), marker, limit+1)
	} else {
		rows, err = r.db.QueryContext(ctx, `SELECT `+selectColumns+`
			FROM account_transactions a JOIN transactions t ON t.seq = a.seq
			WHERE a.account = ? AND (? = 0 OR a.seq < ?)
			ORDER BY a.seq DESC LIMIT ?`, options.Account.String(), marker, marker, limit+1)
	}
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
		rec                relationaldb.TransactionRecord
		seq, fee, appliedN int64
		hashBytes, meta    []byte
		account            string
	)
	if err := s.Scan(&seq, &hashBytes, &rec.Type, &account, &rec.Result, &fee, &rec.RawTxn, &meta, &appliedN); err != nil {
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
	rec.AppliedAt = time.Unix(0, appliedN).UTC()
	copy(rec.Hash[:], hashBytes)
	return &rec, nil
}
