package rpc

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/LeJamon/goEscrowd/internal/core/ledger/service"
	"github.com/LeJamon/goEscrowd/internal/rpc/rpc_types"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MuxConfig configures NewMux
type MuxConfig struct {
	Services *rpc_types.ServiceContainer
	Timeout  time.Duration

	// WSPath is where WebSocket clients connect. Defaults to /ws.
	WSPath string

	// Events, when set, feeds the WebSocket transactions stream
	Events *service.EventPublisher

	// Registry receives the RPC metrics and backs /metrics. Metrics are
	// disabled when nil.
	Registry *prometheus.Registry
}

// Mux is the HTTP surface of the node
type Mux struct {
	*http.ServeMux

	HTTP          *Server
	WebSocket     *WebSocketServer
	Subscriptions *SubscriptionManager
}

// NewMux wires the JSON-RPC, WebSocket, health and metrics endpoints:
//
//	/        JSON-RPC over HTTP
//	/ws      WebSocket (MuxConfig.WSPath)
//	/health  200 while the ledger service runs, 503 otherwise
//	/metrics Prometheus exposition
func NewMux(cfg MuxConfig) (*Mux, error) {
	var metrics *Metrics
	if cfg.Registry != nil {
		m, err := NewMetrics(cfg.Registry)
		if err != nil {
			return nil, err
		}
		metrics = m
	}

	subscriptions := NewSubscriptionManager()
	if cfg.Events != nil {
		NewPublisher(subscriptions).Attach(cfg.Events)
	}

	m := &Mux{
		ServeMux:      http.NewServeMux(),
		HTTP:          NewServer(cfg.Services, cfg.Timeout, metrics),
		WebSocket:     NewWebSocketServer(cfg.Services, subscriptions, cfg.Timeout, metrics),
		Subscriptions: subscriptions,
	}

	m.Handle("/", m.HTTP)
	wsPath := cfg.WSPath
	if wsPath == "" {
		wsPath = "/ws"
	}
	m.Handle(wsPath, m.WebSocket)
	m.HandleFunc("/health", healthHandler(cfg.Services))
	if cfg.Registry != nil {
		m.Handle("/metrics", promhttp.HandlerFor(cfg.Registry, promhttp.HandlerOpts{}))
	}
	return m, nil
}

func healthHandler(services *rpc_types.ServiceContainer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		status := "ok"
		code := http.StatusOK
		if services == nil || services.Ledger == nil || !services.Ledger.IsRunning() {
			status = "unavailable"
			code = http.StatusServiceUnavailable
		}
		w.WriteHeader(code)
		json.NewEncoder(w).Encode(map[string]string{"status": status})
	}
}
