package config

import (
	"github.com/LeJamon/goEscrowd/internal/core/tx"
	"github.com/spf13/viper"
)

// setDefaults sets all default values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.host", "127.0.0.1")
	v.SetDefault("server.port", 5005)
	v.SetDefault("server.ws_path", "/ws")
	v.SetDefault("server.read_timeout", "10s")
	v.SetDefault("server.request_timeout", "30s")
	v.SetDefault("server.enable_metrics", true)

	// Account store defaults
	v.SetDefault("node_db.type", "pebble")
	v.SetDefault("node_db.path", "/var/lib/escrowd/db")
	v.SetDefault("node_db.compression", "lz4")
	v.SetDefault("node_db.cache_size", 16384)

	// History is off unless asked for
	v.SetDefault("history.enabled", false)
	v.SetDefault("history.driver", "sqlite3")
	v.SetDefault("history.path", "/var/lib/escrowd/history.db")
	v.SetDefault("history.host", "localhost")
	v.SetDefault("history.port", 5432)
	v.SetDefault("history.database", "escrowd")
	v.SetDefault("history.username", "escrowd")
	v.SetDefault("history.ssl_mode", "prefer")

	// Engine defaults
	rent := tx.DefaultRent()
	v.SetDefault("engine.base_fee", tx.DefaultBaseFee)
	v.SetDefault("engine.lamports_per_byte_year", rent.LamportsPerByteYear)
	v.SetDefault("engine.exemption_years", rent.ExemptionYears)
	v.SetDefault("engine.escrow_program_id", "")
	v.SetDefault("engine.dedupe_window", tx.DefaultDedupeWindow)
	v.SetDefault("engine.skip_signature_verification", false)
	v.SetDefault("engine.workers", tx.DefaultWorkers)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
	v.SetDefault("logging.file", "")
	v.SetDefault("logging.max_size_mb", 100)
	v.SetDefault("logging.max_backups", 5)
	v.SetDefault("logging.max_age_days", 30)
	v.SetDefault("logging.compress", true)
}
