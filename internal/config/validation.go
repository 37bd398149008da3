package config

import (
	"fmt"
	"strings"

	"github.com/LeJamon/goEscrowd/internal/storage"
	"github.com/LeJamon/goEscrowd/internal/storage/compression"
)

// ValidateConfig performs validation on the complete configuration
func ValidateConfig(config *Config) error {
	if err := validateServerConfig(&config.Server); err != nil {
		return fmt.Errorf("server config validation failed: %w", err)
	}
	if err := validateNodeDB(&config.NodeDB); err != nil {
		return fmt.Errorf("node_db validation failed: %w", err)
	}
	if err := validateHistory(&config.History); err != nil {
		return fmt.Errorf("history validation failed: %w", err)
	}
	if err := validateEngine(&config.Engine); err != nil {
		return fmt.Errorf("engine validation failed: %w", err)
	}
	if err := validateLogging(config); err != nil {
		return fmt.Errorf("logging validation failed: %w", err)
	}
	if _, err := config.Genesis.ServiceAccounts(); err != nil {
		return fmt.Errorf("genesis validation failed: %w", err)
	}
	return nil
}

func validateServerConfig(server *ServerConfig) error {
	if server.Port <= 0 || server.Port > 65535 {
		return fmt.Errorf("invalid port number: %d", server.Port)
	}
	if !strings.HasPrefix(server.WSPath, "/") || server.WSPath == "/" {
		return fmt.Errorf("ws_path must be an absolute path other than /: %q", server.WSPath)
	}
	if server.ReadTimeout <= 0 {
		return fmt.Errorf("read_timeout must be positive")
	}
	if server.RequestTimeout <= 0 {
		return fmt.Errorf("request_timeout must be positive")
	}
	return nil
}

func validateNodeDB(db *NodeDBConfig) error {
	db.Type = strings.ToLower(db.Type)
	switch db.Type {
	case storage.BackendPebble, storage.BackendBbolt, storage.BackendLevelDB:
		if db.Path == "" {
			return fmt.Errorf("path is required for %s", db.Type)
		}
	case storage.BackendMemory:
	default:
		return fmt.Errorf("unknown type %q (valid: pebble, bbolt, leveldb, memory)", db.Type)
	}

	if db.Compression == "" {
		db.Compression = "none"
	}
	if _, err := compression.Get(db.Compression); err != nil {
		return err
	}
	if db.CacheSize < 0 {
		return fmt.Errorf("cache_size cannot be negative")
	}
	return nil
}

func validateHistory(h *HistoryConfig) error {
	if !h.Enabled {
		return nil
	}
	cfg := h.RelationalConfig()
	if err := cfg.Validate(); err != nil {
		return err
	}
	return nil
}

func validateEngine(e *EngineConfig) error {
	if e.ExemptionYears == 0 {
		return fmt.Errorf("exemption_years must be at least 1")
	}
	if e.DedupeWindow < 0 {
		return fmt.Errorf("dedupe_window cannot be negative")
	}
	if e.Workers < 0 {
		return fmt.Errorf("workers cannot be negative")
	}
	if _, err := e.TxConfig(); err != nil {
		return err
	}
	return nil
}

func validateLogging(config *Config) error {
	switch strings.ToLower(config.Logging.Level) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal", "panic":
	default:
		return fmt.Errorf("invalid level %q", config.Logging.Level)
	}
	switch strings.ToLower(config.Logging.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("invalid format %q (valid: text, json)", config.Logging.Format)
	}
	return nil
}
