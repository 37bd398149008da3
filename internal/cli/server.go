package cli

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/LeJamon/goEscrowd/internal/config"
	"github.com/LeJamon/goEscrowd/internal/di"
	"github.com/LeJamon/goEscrowd/internal/logging"
	"github.com/spf13/cobra"
)

// shutdownTimeout bounds graceful shutdown of open requests
const shutdownTimeout = 10 * time.Second

var (
	// Server flags
	port     int
	bindAddr string
)

// serverCmd represents the server command (default action)
var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the escrowd server",
	Long: `Start the escrowd server which provides:
- HTTP JSON-RPC API endpoints
- WebSocket server for method calls and transaction streams
- Health check endpoint
- Prometheus metrics

This is the default command when no subcommand is specified.`,
	RunE: runServer,
}

func init() {
	rootCmd.AddCommand(serverCmd)

	// Set server as the default command
	rootCmd.RunE = runServer

	// Server-specific flags override [server] host and port
	serverCmd.Flags().IntVarP(&port, "port", "p", 0, "port to listen on (default from config)")
	serverCmd.Flags().StringVar(&bindAddr, "bind", "", "address to bind to (default from config)")
}

func runServer(cmd *cobra.Command, args []string) error {
	if port != 0 {
		cfg.Server.Port = port
	}
	if bindAddr != "" {
		cfg.Server.Host = bindAddr
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return serve(ctx, cfg, nil)
}

// serve runs the node until ctx is cancelled. When ready is not nil it
// receives the bound listen address once the server accepts connections.
func serve(ctx context.Context, cfg *config.Config, ready chan<- string) error {
	log := logging.WithModule("server")

	provider := di.NewProvider(di.New(), cfg)
	if err := provider.RegisterAll(); err != nil {
		return err
	}
	defer func() {
		if err := provider.Close(context.Background()); err != nil {
			log.WithError(err).Warn("shutdown: failed to release resources")
		}
	}()

	svc, err := provider.GetLedgerService()
	if err != nil {
		return fmt.Errorf("ledger service: %w", err)
	}
	if err := svc.Start(ctx); err != nil {
		return fmt.Errorf("start ledger service: %w", err)
	}

	mux, err := provider.GetMux()
	if err != nil {
		return fmt.Errorf("rpc: %w", err)
	}

	listener, err := net.Listen("tcp", cfg.Server.Addr())
	if err != nil {
		return err
	}

	httpServer := &http.Server{
		Handler:     mux,
		ReadTimeout: cfg.Server.ReadTimeout,
	}

	addr := listener.Addr().String()
	if !quiet {
		fmt.Println("Starting escrowd")
		fmt.Println("================")
		fmt.Printf("  - HTTP JSON-RPC: http://%s/\n", addr)
		fmt.Printf("  - WebSocket:     ws://%s%s\n", addr, cfg.Server.WSPath)
		fmt.Printf("  - Health Check:  http://%s/health\n", addr)
		if cfg.Server.EnableMetrics {
			fmt.Printf("  - Metrics:       http://%s/metrics\n", addr)
		}
		fmt.Printf("  - Escrow program: %s\n", svc.EngineConfig().EscrowProgramID)
		fmt.Println()
	}
	log.WithField("addr", addr).Info("listening")

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpServer.Serve(listener)
	}()
	if ready != nil {
		ready <- addr
	}

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	svc.Stop()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
