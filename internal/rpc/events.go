package rpc

import (
	"encoding/json"
	"time"

	"github.com/LeJamon/goEscrowd/internal/core/ledger/service"
	"github.com/LeJamon/goEscrowd/internal/rpc/rpc_handlers"
)

// TransactionStreamEvent is sent to subscribers for every applied
// transaction.
type TransactionStreamEvent struct {
	Type                string          `json:"type"` // Always "transaction"
	EngineResult        string          `json:"engine_result"`
	EngineResultCode    int             `json:"engine_result_code"`
	EngineResultMessage string          `json:"engine_result_message"`
	Hash                string          `json:"hash"`
	TransactionType     string          `json:"tx_type"`
	Account             string          `json:"account"`
	Fee                 uint64          `json:"fee,string"`
	Accounts            []string        `json:"accounts"`
	Transaction         json.RawMessage `json:"transaction"`
	Meta                json.RawMessage `json:"meta,omitempty"`
	AppliedAt           string          `json:"applied_at"`
}

// NewTransactionStreamEvent converts a service event into its wire form.
func NewTransactionStreamEvent(ev service.TransactionEvent) *TransactionStreamEvent {
	accounts := make([]string, len(ev.Accounts))
	for i, a := range ev.Accounts {
		accounts[i] = a.String()
	}

	out := &TransactionStreamEvent{
		Type:                "transaction",
		EngineResult:        ev.Result.String(),
		EngineResultCode:    int(ev.Result),
		EngineResultMessage: ev.Result.Message(),
		Hash:                rpc_handlers.FormatHash(ev.Hash),
		TransactionType:     ev.Type,
		Account:             ev.Account.String(),
		Fee:                 ev.Fee,
		Accounts:            accounts,
		Transaction:         ev.Transaction,
		AppliedAt:           ev.AppliedAt.UTC().Format(time.RFC3339Nano),
	}
	if ev.Metadata != nil {
		if meta, err := json.Marshal(ev.Metadata); err == nil {
			out.Meta = meta
		}
	}
	return out
}
