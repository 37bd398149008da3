package di

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/LeJamon/goEscrowd/internal/config"
	"github.com/LeJamon/goEscrowd/internal/core/ledger/service"
	"github.com/LeJamon/goEscrowd/internal/core/ledger/state"
	"github.com/LeJamon/goEscrowd/internal/logging"
	"github.com/LeJamon/goEscrowd/internal/rpc"
	"github.com/LeJamon/goEscrowd/internal/rpc/rpc_types"
	"github.com/LeJamon/goEscrowd/internal/storage"
	"github.com/LeJamon/goEscrowd/internal/storage/database"
	"github.com/LeJamon/goEscrowd/internal/storage/relationaldb"
	"github.com/LeJamon/goEscrowd/internal/storage/relationaldb/postgres"
	"github.com/LeJamon/goEscrowd/internal/storage/relationaldb/sqlite"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// accountsDB is the database name the account store lives in.
const accountsDB = "accounts"

// Telemetry is the metrics registry and the collectors shared by the
// service and the history manager.
type Telemetry struct {
	Registry *prometheus.Registry
	Service  *service.Metrics
}

// Provider configures and registers services in the container.
type Provider struct {
	container *Container
	config    *config.Config

	mu      sync.Mutex
	closers []func(ctx context.Context) error
}

// NewProvider creates a new service provider.
func NewProvider(container *Container, cfg *config.Config) *Provider {
	return &Provider{
		container: container,
		config:    cfg,
	}
}

// RegisterAll registers all services.
func (p *Provider) RegisterAll() error {
	if p.config == nil {
		return errors.New("di: nil config")
	}
	p.container.Register(ServiceConfig, p.config)

	// Register builders for lazy instantiation
	p.registerMetricsBuilders()
	p.registerStorageBuilders()
	p.registerLedgerBuilders()
	p.registerRPCBuilders()

	return nil
}

func (p *Provider) onClose(fn func(ctx context.Context) error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closers = append(p.closers, fn)
}

// Close releases everything the builders opened, newest first.
func (p *Provider) Close(ctx context.Context) error {
	p.mu.Lock()
	closers := p.closers
	p.closers = nil
	p.mu.Unlock()

	var errs []error
	for i := len(closers) - 1; i >= 0; i-- {
		if err := closers[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (p *Provider) registerMetricsBuilders() {
	p.container.RegisterBuilder(ServiceMetrics, func(c *Container) (interface{}, error) {
		reg := prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		m, err := service.NewMetrics(reg)
		if err != nil {
			return nil, err
		}
		return &Telemetry{Registry: reg, Service: m}, nil
	})
}

// registerStorageBuilders registers storage service builders.
func (p *Provider) registerStorageBuilders() {
	// NodeStore builder: the key/value database accounts are stored in
	p.container.RegisterBuilder(ServiceNodeStore, func(c *Container) (interface{}, error) {
		mgr, err := storage.NewManager(p.config.NodeDB.Type, p.config.NodeDB.Path)
		if err != nil {
			return nil, err
		}
		db, err := mgr.OpenDB(accountsDB)
		if err != nil {
			mgr.Close()
			return nil, fmt.Errorf("open %s database: %w", p.config.NodeDB.Type, err)
		}
		p.onClose(func(context.Context) error { return mgr.Close() })

		logging.WithModule("storage").WithField("backend", p.config.NodeDB.Type).
			WithField("path", p.config.NodeDB.Path).Info("account database opened")
		return db, nil
	})

	p.container.RegisterBuilder(ServiceAccountStore, func(c *Container) (interface{}, error) {
		db, err := c.Get(ServiceNodeStore)
		if err != nil {
			return nil, err
		}
		return state.New(db.(database.DB), p.config.NodeDB.StateConfig())
	})

	// RelationalDB builder: transaction history, nil when disabled
	p.container.RegisterBuilder(ServiceRelationalDB, func(c *Container) (interface{}, error) {
		if !p.config.History.Enabled {
			return (*relationaldb.Manager)(nil), nil
		}

		tel, err := Resolve[*Telemetry](c, ServiceMetrics)
		if err != nil {
			return nil, err
		}

		cfg := p.config.History.RelationalConfig()
		var rm relationaldb.RepositoryManager
		switch cfg.Driver {
		case relationaldb.DriverSQLite:
			rm, err = sqlite.NewRepositoryManager(cfg)
		default:
			rm, err = postgres.NewRepositoryManager(cfg)
		}
		if err != nil {
			return nil, err
		}

		mgr := relationaldb.NewManager(rm, cfg,
			relationaldb.WithLogger(logging.WithModule("history")),
			relationaldb.WithMetrics(tel.Service),
		)
		if err := mgr.Open(context.Background()); err != nil {
			return nil, err
		}
		p.onClose(mgr.Close)
		return mgr, nil
	})
}

// registerLedgerBuilders registers ledger service builders.
func (p *Provider) registerLedgerBuilders() {
	p.container.RegisterBuilder(ServiceLedger, func(c *Container) (interface{}, error) {
		store, err := Resolve[*state.Store](c, ServiceAccountStore)
		if err != nil {
			return nil, err
		}
		history, err := Resolve[*relationaldb.Manager](c, ServiceRelationalDB)
		if err != nil {
			return nil, err
		}
		tel, err := Resolve[*Telemetry](c, ServiceMetrics)
		if err != nil {
			return nil, err
		}

		cfg, err := p.config.ServiceConfig()
		if err != nil {
			return nil, err
		}
		cfg.Metrics = tel.Service
		if history != nil {
			cfg.History = history
		}

		svc, err := service.New(store, cfg)
		if err != nil {
			return nil, err
		}
		p.onClose(func(context.Context) error {
			svc.Stop()
			return nil
		})
		return svc, nil
	})
}

// registerRPCBuilders registers RPC service builders.
func (p *Provider) registerRPCBuilders() {
	p.container.RegisterBuilder(ServiceRPCServer, func(c *Container) (interface{}, error) {
		svc, err := Resolve[*service.Service](c, ServiceLedger)
		if err != nil {
			return nil, err
		}

		mc := rpc.MuxConfig{
			Services: &rpc_types.ServiceContainer{Ledger: svc},
			Timeout:  p.config.Server.RequestTimeout,
			WSPath:   p.config.Server.WSPath,
			Events:   svc.Events(),
		}
		if p.config.Server.EnableMetrics {
			tel, err := Resolve[*Telemetry](c, ServiceMetrics)
			if err != nil {
				return nil, err
			}
			mc.Registry = tel.Registry
		}
		return rpc.NewMux(mc)
	})
}

// History returns the history manager, or nil when history is disabled.
func (p *Provider) History() (*relationaldb.Manager, error) {
	return Resolve[*relationaldb.Manager](p.container, ServiceRelationalDB)
}

// GetLedgerService returns the ledger service from the container.
func (p *Provider) GetLedgerService() (*service.Service, error) {
	return Resolve[*service.Service](p.container, ServiceLedger)
}

// GetMux returns the HTTP handler serving RPC, WebSocket, health and metrics.
func (p *Provider) GetMux() (*rpc.Mux, error) {
	return Resolve[*rpc.Mux](p.container, ServiceRPCServer)
}

// GetConfig returns the configuration from the container.
func (p *Provider) GetConfig() *config.Config {
	return p.config
}
