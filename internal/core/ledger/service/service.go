// Package service runs the transaction engine over an account store and
// exposes what the RPC layer needs: submission, account and offer queries,
// transaction history and a stream of applied transactions.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/LeJamon/goEscrowd/internal/core/tx"
	"github.com/LeJamon/goEscrowd/internal/core/tx/all"
	"github.com/LeJamon/goEscrowd/internal/core/types"
	"github.com/LeJamon/goEscrowd/internal/storage/relationaldb"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
)

// Common errors
var (
	ErrNotStarted       = errors.New("service not started")
	ErrAccountNotFound  = errors.New("account not found")
	ErrOfferNotFound    = errors.New("offer not found")
	ErrHistoryDisabled  = errors.New("transaction history is disabled")
	ErrEmptyTransaction = errors.New("no transaction given")
)

// Store is the account store the service applies transactions to.
// *state.Store implements it.
type Store interface {
	tx.LedgerView
	tx.Committer

	GetMeta(name string) ([]byte, bool, error)
	PutMeta(name string, value []byte) error
	Hash() ([32]byte, error)
	Count() (int, error)
}

// History persists applied transactions. *relationaldb.Manager implements
// it.
type History interface {
	SaveTransaction(ctx context.Context, rec *relationaldb.TransactionRecord, accounts []types.Address) error
	GetTransaction(ctx context.Context, hash relationaldb.Hash) (*relationaldb.TransactionRecord, error)
	GetAccountTransactions(ctx context.Context, options relationaldb.AccountTxOptions) (*relationaldb.AccountTxResult, error)
}

// Config holds configuration for the Service
type Config struct {
	// Engine is the engine configuration. The system and token programs are
	// wired in by New when absent.
	Engine tx.EngineConfig

	// Workers bounds SubmitBatch parallelism
	Workers int

	// Genesis accounts are funded on first start
	Genesis []GenesisAccount

	// History is optional; nil disables tx and account_tx
	History History

	// Registerer receives the service metrics. Defaults to the global
	// Prometheus registry.
	Registerer prometheus.Registerer

	// Metrics, when set, is used as is and Registerer is ignored. It lets the
	// history manager share the collectors built before the service.
	Metrics *Metrics
}

// DefaultConfig returns the default service configuration
func DefaultConfig() Config {
	return Config{
		Engine:  all.DefaultEngineConfig(),
		Workers: tx.DefaultWorkers,
	}
}

// Service owns the engine and everything around it
type Service struct {
	store     Store
	engine    *tx.Engine
	processor *tx.BlockProcessor
	history   History
	publisher *EventPublisher
	metrics   *Metrics
	genesis   []GenesisAccount
	log       *logrus.Entry

	mu        sync.RWMutex
	started   bool
	startedAt time.Time
}

// New creates a Service over store
func New(store Store, cfg Config) (*Service, error) {
	if store == nil {
		return nil, errors.New("service: nil store")
	}
	if cfg.Engine.Assets == nil || cfg.Engine.System == nil {
		cfg.Engine = all.Wire(cfg.Engine)
	}
	metrics := cfg.Metrics
	if metrics == nil {
		if cfg.Registerer == nil {
			cfg.Registerer = prometheus.DefaultRegisterer
		}
		m, err := NewMetrics(cfg.Registerer)
		if err != nil {
			return nil, fmt.Errorf("service: register metrics: %w", err)
		}
		metrics = m
	}

	engine := tx.NewEngine(store, cfg.Engine)
	return &Service{
		store:     store,
		engine:    engine,
		processor: tx.NewBlockProcessor(engine, cfg.Workers),
		history:   cfg.History,
		publisher: NewEventPublisher(),
		metrics:   metrics,
		genesis:   cfg.Genesis,
		log:       logrus.WithField("module", "service"),
	}, nil
}

// Start funds the genesis accounts if this store has never been started.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if err := s.applyGenesis(ctx); err != nil {
		return err
	}

	s.started = true
	s.startedAt = time.Now()
	s.log.WithFields(logrus.Fields{
		"escrow_program": s.engine.Config().EscrowProgramID.String(),
		"history":        s.history != nil,
	}).Info("service started")
	return nil
}

// Stop marks the service stopped. Submissions are rejected afterwards.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.started = false
}

// IsRunning reports whether Start has completed.
func (s *Service) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.started
}

// Engine returns the transaction engine.
func (s *Service) Engine() *tx.Engine {
	return s.engine
}

// EngineConfig returns the engine configuration.
func (s *Service) EngineConfig() tx.EngineConfig {
	return s.engine.Config()
}

// Events returns the publisher applied transactions are announced on.
func (s *Service) Events() *EventPublisher {
	return s.publisher
}

// Metrics returns the service metrics.
func (s *Service) Metrics() *Metrics {
	return s.metrics
}

// HistoryEnabled reports whether a history store is configured.
func (s *Service) HistoryEnabled() bool {
	return s.history != nil
}
