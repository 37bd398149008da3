package tx

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// DefaultWorkers bounds ApplyConcurrent when no limit is configured.
const DefaultWorkers = 8

// BlockProcessor handles batch application of transactions.
// Transactions touching disjoint accounts run in parallel; the engine's
// per-account locks serialize the rest.
type BlockProcessor struct {
	engine  *Engine
	workers int
}

// BlockTxResult contains the result of applying a single transaction in a batch
type BlockTxResult struct {
	// Index is the transaction's position in the input (0-based)
	Index int

	// ApplyResult contains the engine's result
	ApplyResult ApplyResult
}

// BlockResult contains the results of applying all transactions in a batch
type BlockResult struct {
	// Transactions contains results in input order
	Transactions []BlockTxResult

	// TotalFee is the sum of all fees charged
	TotalFee uint64

	// AppliedCount is the number of successfully applied transactions
	AppliedCount int

	// FailedCount is the number of failed transactions
	FailedCount int
}

// NewBlockProcessor creates a new BlockProcessor with the given engine
func NewBlockProcessor(engine *Engine, workers int) *BlockProcessor {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	return &BlockProcessor{
		engine:  engine,
		workers: workers,
	}
}

// ApplyTransactions applies transactions one after another, in order.
func (bp *BlockProcessor) ApplyTransactions(transactions []Transaction) *BlockResult {
	results := make([]BlockTxResult, len(transactions))
	for i, t := range transactions {
		results[i] = BlockTxResult{Index: i, ApplyResult: bp.engine.Apply(t)}
	}
	return summarize(results)
}

// ApplyConcurrent applies transactions on up to workers goroutines.
// Results are returned in input order. A cancelled context stops
// transactions that have not started; those report tefFAILURE.
func (bp *BlockProcessor) ApplyConcurrent(ctx context.Context, transactions []Transaction) (*BlockResult, error) {
	results := make([]BlockTxResult, len(transactions))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(bp.workers)

	for i, t := range transactions {
		i, t := i, t
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				results[i] = BlockTxResult{Index: i, ApplyResult: ApplyResult{Result: TefFAILURE, Message: err.Error()}}
				return nil
			}
			results[i] = BlockTxResult{Index: i, ApplyResult: bp.engine.Apply(t)}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return summarize(results), ctx.Err()
}

func summarize(results []BlockTxResult) *BlockResult {
	out := &BlockResult{Transactions: results}
	for _, r := range results {
		out.TotalFee += r.ApplyResult.Fee
		if r.ApplyResult.Applied {
			out.AppliedCount++
		} else {
			out.FailedCount++
		}
	}
	return out
}
