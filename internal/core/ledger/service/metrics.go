package service

import (
	"time"

	"github.com/LeJamon/goEscrowd/internal/core/tx"
	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "escrowd"

// Metrics are the service's Prometheus collectors. It also implements
// relationaldb.Metrics so the history manager reports through the same
// registry.
type Metrics struct {
	transactions  *prometheus.CounterVec
	applyDuration *prometheus.HistogramVec
	historyErrors prometheus.Counter
	dbOperations  *prometheus.CounterVec
	dbDuration    *prometheus.HistogramVec
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		transactions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "engine",
			Name:      "transactions_total",
			Help:      "Transactions submitted, by type and result.",
		}, []string{"type", "result"}),
		applyDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: "engine",
			Name:      "apply_seconds",
			Help:      "Time to verify, apply and commit one transaction.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
		}, []string{"type"}),
		historyErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "history",
			Name:      "write_errors_total",
			Help:      "Applied transactions that could not be written to history.",
		}),
		dbOperations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "history",
			Name:      "events_total",
			Help:      "History database events, by name and driver.",
		}, []string{"name", "driver"}),
		dbDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: "history",
			Name:      "operation_seconds",
			Help:      "History database operation latency.",
		}, []string{"name", "driver"}),
	}

	for _, c := range []prometheus.Collector{m.transactions, m.applyDuration, m.historyErrors, m.dbOperations, m.dbDuration} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) observe(t tx.Type, res tx.ApplyResult, elapsed time.Duration) {
	m.transactions.WithLabelValues(t.String(), res.Result.String()).Inc()
	m.applyDuration.WithLabelValues(t.String()).Observe(elapsed.Seconds())
}

// IncrementCounter implements relationaldb.Metrics
func (m *Metrics) IncrementCounter(name string, tags map[string]string) {
	m.dbOperations.WithLabelValues(name, tags["driver"]).Inc()
}

// RecordDuration implements relationaldb.Metrics
func (m *Metrics) RecordDuration(name string, duration time.Duration, tags map[string]string) {
	m.dbDuration.WithLabelValues(name, tags["driver"]).Observe(duration.Seconds())
}
