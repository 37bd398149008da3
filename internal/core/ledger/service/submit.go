package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/LeJamon/goEscrowd/internal/core/tx"
	"github.com/LeJamon/goEscrowd/internal/core/types"
	"github.com/LeJamon/goEscrowd/internal/storage/relationaldb"
	"github.com/sirupsen/logrus"
)

// SubmitResult is what a client learns about a submitted transaction
type SubmitResult struct {
	Result   tx.Result
	Applied  bool
	Hash     [32]byte
	Fee      uint64
	Message  string
	Metadata *tx.Metadata
}

// Submit applies one transaction. State changes are committed before it
// returns. History and subscribers are updated for applied transactions
// only; a history failure is logged and does not undo the transaction.
func (s *Service) Submit(ctx context.Context, transaction tx.Transaction) (*SubmitResult, error) {
	if transaction == nil {
		return nil, ErrEmptyTransaction
	}
	if !s.IsRunning() {
		return nil, ErrNotStarted
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start := time.Now()
	res := s.engine.Apply(transaction)
	s.metrics.observe(transaction.TxType(), res, time.Since(start))

	if res.Applied {
		s.afterApply(ctx, transaction, res)
	}
	return toSubmitResult(res), nil
}

// SubmitBatch applies transactions concurrently. Transactions that touch
// the same accounts are serialized by the engine; results come back in
// input order. A batch in which one fee payer appears twice is applied in
// input order instead, since its sequences must be consumed in turn.
func (s *Service) SubmitBatch(ctx context.Context, transactions []tx.Transaction) ([]*SubmitResult, error) {
	if !s.IsRunning() {
		return nil, ErrNotStarted
	}

	start := time.Now()
	var (
		block *tx.BlockResult
		err   error
	)
	if sharesFeePayer(transactions) {
		if err = ctx.Err(); err != nil {
			return nil, err
		}
		block = s.processor.ApplyTransactions(transactions)
	} else {
		block, err = s.processor.ApplyConcurrent(ctx, transactions)
	}
	if block == nil {
		return nil, err
	}
	elapsed := time.Since(start) / time.Duration(max(1, len(transactions)))

	out := make([]*SubmitResult, len(block.Transactions))
	for i, r := range block.Transactions {
		s.metrics.observe(transactions[i].TxType(), r.ApplyResult, elapsed)
		if r.ApplyResult.Applied {
			s.afterApply(ctx, transactions[i], r.ApplyResult)
		}
		out[i] = toSubmitResult(r.ApplyResult)
	}
	return out, err
}

func sharesFeePayer(transactions []tx.Transaction) bool {
	seen := make(map[types.Address]struct{}, len(transactions))
	for _, t := range transactions {
		payer := t.GetCommon().Account
		if _, dup := seen[payer]; dup {
			return true
		}
		seen[payer] = struct{}{}
	}
	return false
}

func toSubmitResult(res tx.ApplyResult) *SubmitResult {
	return &SubmitResult{
		Result:   res.Result,
		Applied:  res.Applied,
		Hash:     res.Hash,
		Fee:      res.Fee,
		Message:  res.Message,
		Metadata: res.Metadata,
	}
}

// afterApply records an applied transaction and announces it.
func (s *Service) afterApply(ctx context.Context, transaction tx.Transaction, res tx.ApplyResult) {
	raw, err := tx.ToJSON(transaction)
	if err != nil {
		s.log.WithError(err).Warn("failed to encode applied transaction")
		return
	}
	accounts := s.affectedAccounts(transaction, res.Metadata)
	appliedAt := time.Now().UTC()

	if s.history != nil {
		s.recordHistory(ctx, transaction, res, raw, accounts, appliedAt)
	}

	s.publisher.PublishTransaction(TransactionEvent{
		Hash:        res.Hash,
		Type:        transaction.TxType().String(),
		Account:     transaction.GetCommon().Account,
		Result:      res.Result,
		Fee:         res.Fee,
		Accounts:    accounts,
		Transaction: raw,
		Metadata:    res.Metadata,
		AppliedAt:   appliedAt,
	})
}

func (s *Service) recordHistory(ctx context.Context, transaction tx.Transaction, res tx.ApplyResult, raw []byte, accounts []types.Address, appliedAt time.Time) {
	var meta []byte
	if res.Metadata != nil {
		var err error
		if meta, err = json.Marshal(res.Metadata); err != nil {
			s.log.WithError(err).Warn("failed to encode metadata")
		}
	}

	rec := &relationaldb.TransactionRecord{
		Hash:      res.Hash,
		Type:      transaction.TxType().String(),
		Account:   transaction.GetCommon().Account,
		Result:    res.Result.String(),
		Fee:       res.Fee,
		RawTxn:    raw,
		Meta:      meta,
		AppliedAt: appliedAt,
	}
	// the transaction is committed; a cancelled request must not lose it
	if err := s.history.SaveTransaction(context.WithoutCancel(ctx), rec, accounts); err != nil {
		s.metrics.historyErrors.Inc()
		s.log.WithError(err).WithFields(logrus.Fields{
			"hash":    relationaldb.Hash(res.Hash).String(),
			"tx_type": rec.Type,
		}).Error("failed to record transaction history")
	}
}

// affectedAccounts lists the fee payer, every account the transaction
// names and every account its metadata touched, without duplicates.
// Program ids are left out.
func (s *Service) affectedAccounts(transaction tx.Transaction, meta *tx.Metadata) []types.Address {
	cfg := s.engine.Config()
	addrs := []types.Address{transaction.GetCommon().Account}
	addrs = append(addrs, transaction.Accounts()...)
	if meta != nil {
		for _, n := range meta.AffectedNodes {
			addrs = append(addrs, n.Address)
		}
	}

	out := tx.UniqueAccounts(addrs...)
	kept := out[:0]
	for _, a := range out {
		if a == cfg.TokenProgramID || a == cfg.EscrowProgramID || a == cfg.SystemProgramID {
			continue
		}
		kept = append(kept, a)
	}
	return kept
}
