package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/LeJamon/goEscrowd/internal/core/tx"
	"github.com/LeJamon/goEscrowd/internal/storage/relationaldb"
	jtx "github.com/LeJamon/goEscrowd/internal/testing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "escrowd.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	config, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:5005", config.Server.Addr())
	assert.Equal(t, "/ws", config.Server.WSPath)
	assert.Equal(t, 30*time.Second, config.Server.RequestTimeout)
	assert.Equal(t, "pebble", config.NodeDB.Type)
	assert.False(t, config.History.Enabled)
	assert.Equal(t, "info", config.Logging.Level)
	assert.Empty(t, config.GetConfigPath())

	engine, err := config.Engine.TxConfig()
	require.NoError(t, err)
	assert.Equal(t, tx.DefaultEngineConfig().EscrowProgramID, engine.EscrowProgramID)
	assert.Equal(t, tx.DefaultRent(), engine.Rent)
	assert.Equal(t, uint64(tx.DefaultBaseFee), engine.BaseFee)
}

func TestLoadConfig_File(t *testing.T) {
	alice := jtx.NewAccount("alice")
	program := jtx.NewAccount("program")

	path := writeConfig(t, `
[server]
host = "0.0.0.0"
port = 6006
request_timeout = "5s"

[node_db]
type = "memory"
compression = "none"

[history]
enabled = true
driver = "sqlite3"
path = ":memory:"

[engine]
base_fee = 10
escrow_program_id = "`+program.Address.String()+`"
dedupe_window = 16
workers = 2

[logging]
level = "debug"
format = "json"

[[genesis.accounts]]
address = "`+alice.Address.String()+`"
lamports = 1000000
`)

	config, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, path, config.GetConfigPath())
	assert.Equal(t, "0.0.0.0:6006", config.Server.Addr())
	assert.Equal(t, 5*time.Second, config.Server.RequestTimeout)
	assert.Equal(t, "memory", config.NodeDB.Type)
	assert.Equal(t, "debug", config.Logging.Level)

	svcCfg, err := config.ServiceConfig()
	require.NoError(t, err)
	assert.Equal(t, uint64(10), svcCfg.Engine.BaseFee)
	assert.Equal(t, program.Address, svcCfg.Engine.EscrowProgramID)
	assert.Equal(t, 16, svcCfg.Engine.DedupeWindow)
	assert.Equal(t, 2, svcCfg.Workers)
	require.Len(t, svcCfg.Genesis, 1)
	assert.Equal(t, alice.Address, svcCfg.Genesis[0].Address)
	assert.Equal(t, uint64(1000000), svcCfg.Genesis[0].Lamports)

	hist := config.History.RelationalConfig()
	assert.Equal(t, relationaldb.DriverSQLite, hist.Driver)
	assert.Equal(t, ":memory:", hist.Database)
}

func TestLoadConfig_EnvironmentOverrides(t *testing.T) {
	path := writeConfig(t, `
[server]
port = 6006
`)
	t.Setenv("ESCROWD_SERVER_PORT", "7007")
	t.Setenv("ESCROWD_NODE_DB_TYPE", "memory")

	config, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 7007, config.Server.Port)
	assert.Equal(t, "memory", config.NodeDB.Type)
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad port", func(c *Config) { c.Server.Port = 70000 }},
		{"root ws path", func(c *Config) { c.Server.WSPath = "/" }},
		{"zero request timeout", func(c *Config) { c.Server.RequestTimeout = 0 }},
		{"unknown backend", func(c *Config) { c.NodeDB.Type = "nudb" }},
		{"backend without path", func(c *Config) { c.NodeDB.Path = "" }},
		{"unknown compression", func(c *Config) { c.NodeDB.Compression = "zstd" }},
		{"history without database", func(c *Config) {
			c.History.Enabled = true
			c.History.Driver = "sqlite3"
			c.History.Path = ""
		}},
		{"history unknown driver", func(c *Config) {
			c.History.Enabled = true
			c.History.Driver = "mysql"
		}},
		{"zero exemption", func(c *Config) { c.Engine.ExemptionYears = 0 }},
		{"bad program id", func(c *Config) { c.Engine.EscrowProgramID = "not-base58-0OIl" }},
		{"bad log level", func(c *Config) { c.Logging.Level = "loud" }},
		{"bad log format", func(c *Config) { c.Logging.Format = "xml" }},
		{"bad genesis address", func(c *Config) {
			c.Genesis.Accounts = []GenesisAccount{{Address: "nope", Lamports: 1}}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config, err := LoadConfig("")
			require.NoError(t, err)
			tt.mutate(config)
			assert.Error(t, ValidateConfig(config))
		})
	}
}

func TestSaveExampleConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "example.toml")
	require.NoError(t, SaveExampleConfig(path))

	config, err := LoadConfig(path)
	require.NoError(t, err)
	assert.True(t, config.History.Enabled)
	assert.Equal(t, "pebble", config.NodeDB.Type)
}
