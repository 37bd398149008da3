package service

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/LeJamon/goEscrowd/internal/core/tx"
	"github.com/LeJamon/goEscrowd/internal/core/types"
)

// TransactionEvent describes one applied transaction.
type TransactionEvent struct {
	Hash    [32]byte
	Type    string
	Account types.Address
	Result  tx.Result
	Fee     uint64

	// Accounts lists every account the transaction touched
	Accounts []types.Address

	// Transaction is the transaction JSON
	Transaction json.RawMessage
	Metadata    *tx.Metadata
	AppliedAt   time.Time
}

// EventHooks provides structured callbacks for service events.
type EventHooks struct {
	// OnTransaction is called for each applied transaction on the
	// submitting goroutine. It must not block.
	OnTransaction func(event TransactionEvent)
}

// EventPublisher manages event callbacks for applied transactions.
type EventPublisher struct {
	mu    sync.RWMutex
	hooks *EventHooks
}

// NewEventPublisher creates a new event publisher.
func NewEventPublisher() *EventPublisher {
	return &EventPublisher{}
}

// SetEventHooks sets the structured event hooks.
func (p *EventPublisher) SetEventHooks(hooks *EventHooks) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.hooks = hooks
}

// GetEventHooks returns the current event hooks.
func (p *EventPublisher) GetEventHooks() *EventHooks {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.hooks
}

// HasSubscribers returns true if there are any subscribers.
func (p *EventPublisher) HasSubscribers() bool {
	hooks := p.GetEventHooks()
	return hooks != nil && hooks.OnTransaction != nil
}

// PublishTransaction publishes a transaction event via hooks.
func (p *EventPublisher) PublishTransaction(event TransactionEvent) {
	if hooks := p.GetEventHooks(); hooks != nil && hooks.OnTransaction != nil {
		hooks.OnTransaction(event)
	}
}
