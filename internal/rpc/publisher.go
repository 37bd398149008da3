package rpc

import (
	"encoding/json"

	"github.com/LeJamon/goEscrowd/internal/core/ledger/service"
	"github.com/sirupsen/logrus"
)

// Publisher forwards service events to WebSocket subscribers
type Publisher struct {
	manager *SubscriptionManager
	log     *logrus.Entry
}

// NewPublisher creates a new Publisher with the given subscription manager
func NewPublisher(manager *SubscriptionManager) *Publisher {
	return &Publisher{
		manager: manager,
		log:     logrus.WithField("module", "publisher"),
	}
}

// Attach installs the publisher as the transaction hook of events.
func (p *Publisher) Attach(events *service.EventPublisher) {
	events.SetEventHooks(&service.EventHooks{
		OnTransaction: p.PublishTransaction,
	})
}

// PublishTransaction broadcasts an applied transaction to the transactions
// stream and to subscribers of any account it touched.
func (p *Publisher) PublishTransaction(ev service.TransactionEvent) {
	if p.manager == nil {
		return
	}

	data, err := json.Marshal(NewTransactionStreamEvent(ev))
	if err != nil {
		p.log.WithError(err).Error("failed to marshal transaction event")
		return
	}
	p.manager.BroadcastTransaction(data, ev.Accounts)
}
