package testing

import "github.com/LeJamon/goEscrowd/internal/core/tx"

// TxResult represents the result of a transaction submission.
type TxResult struct {
	// Code is the transaction engine result code (e.g., "tesSUCCESS").
	Code string

	// Result is the typed result code.
	Result tx.Result

	// Success indicates whether the transaction was applied.
	Success bool

	// Message provides additional details about the result.
	Message string

	// Hash identifies the transaction; zero when preflight failed.
	Hash [32]byte

	// Fee charged, zero unless applied.
	Fee uint64

	// Metadata lists the accounts the transaction touched.
	Metadata *tx.Metadata
}

func resultFrom(r tx.ApplyResult) TxResult {
	return TxResult{
		Code:     r.Result.String(),
		Result:   r.Result,
		Success:  r.Applied,
		Message:  r.Message,
		Hash:     r.Hash,
		Fee:      r.Fee,
		Metadata: r.Metadata,
	}
}
