package relationaldb

import (
	"context"
	"sync"
	"time"

	"github.com/LeJamon/goEscrowd/internal/core/types"
	"github.com/cenkalti/backoff/v4"
	"github.com/sirupsen/logrus"
)

// Metrics receives the manager's counters and timings. The ledger service
// metrics implement it.
type Metrics interface {
	IncrementCounter(name string, tags map[string]string)
	RecordDuration(name string, duration time.Duration, tags map[string]string)
}

type noopMetrics struct{}

func (noopMetrics) IncrementCounter(string, map[string]string)                {}
func (noopMetrics) RecordDuration(string, time.Duration, map[string]string) {}

// Manager owns the history database connection, retries transient failures
// and pings the database in the background.
type Manager struct {
	repos   RepositoryManager
	config  *Config
	logger  *logrus.Entry
	metrics Metrics

	maxRetries    int
	retryDelay    time.Duration
	retryMaxDelay time.Duration

	healthEvery  time.Duration
	healthCancel context.CancelFunc
	healthDone   sync.WaitGroup

	mu        sync.RWMutex
	connected bool
	lastError error
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

func WithLogger(logger *logrus.Entry) ManagerOption {
	return func(m *Manager) { m.logger = logger }
}

func WithMetrics(metrics Metrics) ManagerOption {
	return func(m *Manager) { m.metrics = metrics }
}

// WithHealthCheckInterval sets the background ping period. Zero disables
// it.
func WithHealthCheckInterval(interval time.Duration) ManagerOption {
	return func(m *Manager) { m.healthEvery = interval }
}

// WithRetry bounds how often a retryable failure is retried and the
// exponential backoff between attempts.
func WithRetry(maxRetries int, delay, maxDelay time.Duration) ManagerOption {
	return func(m *Manager) {
		m.maxRetries = maxRetries
		m.retryDelay = delay
		m.retryMaxDelay = maxDelay
	}
}

// NewManager wraps repos. Nothing is opened until Open.
func NewManager(repos RepositoryManager, config *Config, options ...ManagerOption) *Manager {
	m := &Manager{
		repos:         repos,
		config:        config,
		logger:        logrus.WithField("module", "history"),
		metrics:       noopMetrics{},
		maxRetries:    3,
		retryDelay:    100 * time.Millisecond,
		retryMaxDelay: 5 * time.Second,
		healthEvery:   time.Minute,
	}
	for _, opt := range options {
		opt(m)
	}
	return m
}

func (m *Manager) tags() map[string]string {
	return map[string]string{"driver": m.config.Driver}
}

// Open connects, migrates and pings the database, then starts the
// background health check. Opening an open manager does nothing.
func (m *Manager) Open(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.connected {
		return nil
	}

	if err := m.repos.Open(ctx); err != nil {
		m.lastError = err
		m.metrics.IncrementCounter("db.connection.failed", m.tags())
		m.logger.WithError(err).Error("History database open failed")
		return withOperation(err, "open")
	}
	if err := m.repos.System().Ping(ctx); err != nil {
		m.lastError = err
		_ = m.repos.Close(ctx)
		m.logger.WithError(err).Error("History database unreachable after open")
		return withOperation(err, "open_ping")
	}

	m.connected = true
	m.lastError = nil
	if m.healthEvery > 0 {
		m.watchHealth()
	}

	m.logger.WithFields(logrus.Fields{
		"driver":   m.config.Driver,
		"database": m.config.Database,
		"schema":   SchemaVersion,
	}).Info("History database opened")
	return nil
}

// Close stops the health check and closes the connection. Closing a closed
// manager does nothing.
func (m *Manager) Close(ctx context.Context) error {
	m.mu.Lock()
	if !m.connected {
		m.mu.Unlock()
		return nil
	}
	m.connected = false
	m.mu.Unlock()

	// HealthCheck takes the read lock
	m.stopHealth()

	if err := m.repos.Close(ctx); err != nil {
		m.logger.WithError(err).Error("History database close failed")
		return withOperation(err, "close")
	}
	m.logger.Info("History database closed")
	return nil
}

func (m *Manager) IsConnected() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.connected
}

// LastError returns the most recent open or health check failure, nil
// once a later attempt succeeded.
func (m *Manager) LastError() error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.lastError
}

// HealthCheck pings the database and records the outcome.
func (m *Manager) HealthCheck(ctx context.Context) error {
	if !m.IsConnected() {
		return ErrDatabaseClosed
	}

	start := time.Now()
	err := m.repos.System().Ping(ctx)
	m.metrics.RecordDuration("db.health_check.duration", time.Since(start), m.tags())

	m.mu.Lock()
	m.lastError = err
	m.mu.Unlock()
	if err != nil {
		m.metrics.IncrementCounter("db.health_check.failed", m.tags())
		return withOperation(err, "health_check")
	}
	return nil
}

func (m *Manager) policy(ctx context.Context) backoff.BackOff {
	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = m.retryDelay
	exp.MaxInterval = m.retryMaxDelay
	exp.MaxElapsedTime = 0
	return backoff.WithContext(backoff.WithMaxRetries(exp, uint64(m.maxRetries)), ctx)
}

// retry runs op until it succeeds, fails with a non-retryable error, or
// maxRetries retries are spent.
func (m *Manager) retry(ctx context.Context, name string, op func() error) error {
	attempt := 0
	err := backoff.RetryNotify(func() error {
		start := time.Now()
		err := op()
		m.metrics.RecordDuration("db.operation.duration", time.Since(start), m.tags())
		attempt++
		if err != nil && !IsRetryable(err) {
			return backoff.Permanent(err)
		}
		return err
	}, m.policy(ctx), func(err error, wait time.Duration) {
		m.metrics.IncrementCounter("db.operation.retryable_error", m.tags())
		m.logger.WithError(err).WithFields(logrus.Fields{
			"operation": name,
			"attempt":   attempt,
			"wait":      wait,
		}).Debug("Retrying history operation")
	})
	if err != nil && attempt > m.maxRetries {
		m.logger.WithError(err).WithField("attempts", attempt).Error("History operation failed after retries")
	}
	return err
}

// SaveTransaction stores an applied transaction and indexes it under
// accounts.
func (m *Manager) SaveTransaction(ctx context.Context, rec *TransactionRecord, accounts []types.Address) error {
	if !m.IsConnected() {
		return ErrDatabaseClosed
	}
	return m.retry(ctx, "save_transaction", func() error {
		return m.repos.Transaction().SaveTransaction(ctx, rec, accounts)
	})
}

func (m *Manager) GetTransaction(ctx context.Context, hash Hash) (*TransactionRecord, error) {
	if !m.IsConnected() {
		return nil, ErrDatabaseClosed
	}
	var rec *TransactionRecord
	err := m.retry(ctx, "get_transaction", func() (err error) {
		rec, err = m.repos.Transaction().GetTransaction(ctx, hash)
		return err
	})
	return rec, err
}

// GetAccountTransactions returns one page of an account's history.
func (m *Manager) GetAccountTransactions(ctx context.Context, options AccountTxOptions) (*AccountTxResult, error) {
	if !m.IsConnected() {
		return nil, ErrDatabaseClosed
	}
	var page *AccountTxResult
	err := m.retry(ctx, "account_transactions", func() (err error) {
		page, err = m.repos.Transaction().GetAccountTransactions(ctx, options)
		return err
	})
	return page, err
}

func (m *Manager) GetTransactionCount(ctx context.Context) (int64, error) {
	if !m.IsConnected() {
		return 0, ErrDatabaseClosed
	}
	var n int64
	err := m.retry(ctx, "transaction_count", func() (err error) {
		n, err = m.repos.Transaction().GetTransactionCount(ctx)
		return err
	})
	return n, err
}

func (m *Manager) watchHealth() {
	ctx, cancel := context.WithCancel(context.Background())
	m.healthCancel = cancel

	m.healthDone.Add(1)
	go func() {
		defer m.healthDone.Done()
		ticker := time.NewTicker(m.healthEvery)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
				if err := m.HealthCheck(pingCtx); err != nil {
					m.logger.WithError(err).Warn("History health check failed")
				}
				cancel()
			}
		}
	}()
}

func (m *Manager) stopHealth() {
	if m.healthCancel == nil {
		return
	}
	m.healthCancel()
	m.healthDone.Wait()
	m.healthCancel = nil
}
