package config

import (
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/LeJamon/goEscrowd/internal/core/ledger/service"
	"github.com/LeJamon/goEscrowd/internal/core/ledger/state"
	"github.com/LeJamon/goEscrowd/internal/core/tx"
	"github.com/LeJamon/goEscrowd/internal/core/types"
	"github.com/LeJamon/goEscrowd/internal/logging"
	"github.com/LeJamon/goEscrowd/internal/storage/relationaldb"
)

// DefaultConfigFile is read when no path is given
const DefaultConfigFile = "escrowd.toml"

// Config represents the complete escrowd configuration
type Config struct {
	Server  ServerConfig   `toml:"server" mapstructure:"server"`
	NodeDB  NodeDBConfig   `toml:"node_db" mapstructure:"node_db"`
	History HistoryConfig  `toml:"history" mapstructure:"history"`
	Engine  EngineConfig   `toml:"engine" mapstructure:"engine"`
	Logging logging.Config `toml:"logging" mapstructure:"logging"`
	Genesis GenesisConfig  `toml:"genesis" mapstructure:"genesis"`

	// Internal fields for configuration management
	configPath string `toml:"-" mapstructure:"-"`
}

// ServerConfig represents the [server] section
type ServerConfig struct {
	Host           string        `toml:"host" mapstructure:"host"`
	Port           int           `toml:"port" mapstructure:"port"`
	WSPath         string        `toml:"ws_path" mapstructure:"ws_path"`
	ReadTimeout    time.Duration `toml:"read_timeout" mapstructure:"read_timeout"`
	RequestTimeout time.Duration `toml:"request_timeout" mapstructure:"request_timeout"`
	EnableMetrics  bool          `toml:"enable_metrics" mapstructure:"enable_metrics"`
}

// Addr returns host:port for net.Listen
func (s ServerConfig) Addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

// NodeDBConfig represents the [node_db] section: where accounts live
type NodeDBConfig struct {
	Type        string `toml:"type" mapstructure:"type"`
	Path        string `toml:"path" mapstructure:"path"`
	Compression string `toml:"compression" mapstructure:"compression"`
	CacheSize   int    `toml:"cache_size" mapstructure:"cache_size"`
}

// StateConfig returns the account store options
func (n NodeDBConfig) StateConfig() state.Config {
	return state.Config{
		Compression: n.Compression,
		CacheSize:   n.CacheSize,
	}
}

// HistoryConfig represents the [history] section: the transaction history
// database
type HistoryConfig struct {
	Enabled  bool   `toml:"enabled" mapstructure:"enabled"`
	Driver   string `toml:"driver" mapstructure:"driver"`
	Path     string `toml:"path" mapstructure:"path"`
	Host     string `toml:"host" mapstructure:"host"`
	Port     int    `toml:"port" mapstructure:"port"`
	Database string `toml:"database" mapstructure:"database"`
	Username string `toml:"username" mapstructure:"username"`
	Password string `toml:"password" mapstructure:"password"`
	SSLMode  string `toml:"ssl_mode" mapstructure:"ssl_mode"`
}

// RelationalConfig converts the section into a relationaldb.Config
func (h HistoryConfig) RelationalConfig() *relationaldb.Config {
	switch h.Driver {
	case "sqlite", relationaldb.DriverSQLite:
		return relationaldb.SQLiteConfig(h.Path)
	}
	cfg := relationaldb.PostgresConfig()
	cfg.Driver = h.Driver
	cfg.Host = h.Host
	cfg.Port = h.Port
	cfg.Database = h.Database
	cfg.Username = h.Username
	cfg.Password = h.Password
	cfg.SSLMode = h.SSLMode
	return cfg
}

// EngineConfig represents the [engine] section
type EngineConfig struct {
	BaseFee                   uint64 `toml:"base_fee" mapstructure:"base_fee"`
	LamportsPerByteYear       uint64 `toml:"lamports_per_byte_year" mapstructure:"lamports_per_byte_year"`
	ExemptionYears            uint64 `toml:"exemption_years" mapstructure:"exemption_years"`
	EscrowProgramID           string `toml:"escrow_program_id" mapstructure:"escrow_program_id"`
	DedupeWindow              int    `toml:"dedupe_window" mapstructure:"dedupe_window"`
	SkipSignatureVerification bool   `toml:"skip_signature_verification" mapstructure:"skip_signature_verification"`
	Workers                   int    `toml:"workers" mapstructure:"workers"`
}

// TxConfig applies the section on top of tx.DefaultEngineConfig. The
// program collaborators are left for the caller to wire.
func (e EngineConfig) TxConfig() (tx.EngineConfig, error) {
	cfg := tx.DefaultEngineConfig()
	cfg.BaseFee = e.BaseFee
	cfg.Rent = tx.Rent{
		LamportsPerByteYear: e.LamportsPerByteYear,
		ExemptionYears:      e.ExemptionYears,
	}
	cfg.DedupeWindow = e.DedupeWindow
	cfg.SkipSignatureVerification = e.SkipSignatureVerification
	if e.EscrowProgramID != "" {
		id, err := types.ParseAddress(e.EscrowProgramID)
		if err != nil {
			return tx.EngineConfig{}, fmt.Errorf("escrow_program_id: %w", err)
		}
		cfg.EscrowProgramID = id
	}
	return cfg, nil
}

// GenesisConfig represents the [genesis] section
type GenesisConfig struct {
	Accounts []GenesisAccount `toml:"accounts" mapstructure:"accounts"`
}

// GenesisAccount is one wallet funded at first start
type GenesisAccount struct {
	Address  string `toml:"address" mapstructure:"address"`
	Lamports uint64 `toml:"lamports" mapstructure:"lamports"`
}

// ServiceAccounts parses the genesis addresses
func (g GenesisConfig) ServiceAccounts() ([]service.GenesisAccount, error) {
	out := make([]service.GenesisAccount, 0, len(g.Accounts))
	for i, a := range g.Accounts {
		addr, err := types.ParseAddress(a.Address)
		if err != nil {
			return nil, fmt.Errorf("genesis account %d: %w", i, err)
		}
		out = append(out, service.GenesisAccount{Address: addr, Lamports: a.Lamports})
	}
	return out, nil
}

// ServiceConfig assembles the ledger service configuration. History and
// the metrics registerer are left for the caller.
func (c *Config) ServiceConfig() (service.Config, error) {
	engine, err := c.Engine.TxConfig()
	if err != nil {
		return service.Config{}, err
	}
	genesis, err := c.Genesis.ServiceAccounts()
	if err != nil {
		return service.Config{}, err
	}
	return service.Config{
		Engine:  engine,
		Workers: c.Engine.Workers,
		Genesis: genesis,
	}, nil
}

// GetConfigPath returns the path to the loaded configuration file, or ""
// when only defaults and environment were used
func (c *Config) GetConfigPath() string {
	return c.configPath
}
