package relationaldb

import (
	"fmt"
	"net/url"
	"strconv"
	"time"
)

// Driver names accepted by Validate
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite3"
)

const defaultPostgresPort = 5432

// Config describes how to reach the history database. ConnectionString,
// when set, is used verbatim and the host fields are ignored.
type Config struct {
	Driver           string
	ConnectionString string
	Host             string
	Port             int
	Database         string
	Username         string
	Password         string
	SSLMode          string

	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration

	// DefaultTimeout bounds each query
	DefaultTimeout time.Duration

	// EnableWALMode applies to SQLite only
	EnableWALMode bool
}

// NewConfig returns the postgres defaults.
func NewConfig() *Config {
	return &Config{
		Driver:          DriverPostgres,
		Host:            "localhost",
		Port:            defaultPostgresPort,
		Database:        "escrowd",
		Username:        "escrowd",
		SSLMode:         "prefer",
		MaxOpenConns:    25,
		MaxIdleConns:    5,
		ConnMaxLifetime: time.Hour,
		DefaultTimeout:  30 * time.Second,
		EnableWALMode:   true,
	}
}

func PostgresConfig() *Config {
	return NewConfig()
}

// SQLiteConfig points at the database file at path, or InMemory.
func SQLiteConfig(path string) *Config {
	c := NewConfig()
	c.Driver = DriverSQLite
	c.Database = path
	c.MaxOpenConns = 1
	c.MaxIdleConns = 1
	return c
}

// Validate normalizes the driver name and checks the fields that driver
// needs.
func (c *Config) Validate() error {
	switch c.Driver {
	case "postgres", "postgresql":
		c.Driver = DriverPostgres
	case "sqlite3", "sqlite":
		c.Driver = DriverSQLite
	default:
		return fmt.Errorf("%w: %s", ErrInvalidDriver, c.Driver)
	}

	if c.ConnectionString == "" {
		var err error
		if c.Driver == DriverPostgres {
			err = c.validateServer()
		} else if c.Database == "" {
			err = ErrMissingDatabase
		}
		if err != nil {
			return err
		}
	}
	return c.validatePool()
}

func (c *Config) validateServer() error {
	switch {
	case c.Host == "":
		return ErrMissingHost
	case c.Port <= 0 || c.Port > 65535:
		return ErrInvalidPort
	case c.Database == "":
		return ErrMissingDatabase
	case c.Username == "":
		return ErrMissingUsername
	}
	switch c.SSLMode {
	case "disable", "allow", "prefer", "require", "verify-ca", "verify-full":
		return nil
	}
	return fmt.Errorf("invalid SSL mode: %s", c.SSLMode)
}

func (c *Config) validatePool() error {
	switch {
	case c.MaxOpenConns < 0:
		return ErrInvalidMaxOpenConns
	case c.MaxIdleConns < 0:
		return ErrInvalidMaxIdleConns
	case c.MaxOpenConns > 0 && c.MaxIdleConns > c.MaxOpenConns:
		return ErrMaxIdleExceedsMaxOpen
	case c.DefaultTimeout <= 0:
		return ErrInvalidTimeout
	case c.ConnMaxLifetime < 0:
		return ErrInvalidConnMaxLifetime
	}
	return nil
}

// BuildConnectionString returns the DSN handed to sql.Open.
func (c *Config) BuildConnectionString() (string, error) {
	if c.ConnectionString != "" {
		return c.ConnectionString, nil
	}
	switch c.Driver {
	case DriverPostgres:
		return c.postgresDSN(), nil
	case DriverSQLite:
		return c.sqliteDSN(), nil
	}
	return "", fmt.Errorf("%w: %s", ErrInvalidDriver, c.Driver)
}

func (c *Config) postgresDSN() string {
	q := url.Values{}
	q.Set("sslmode", c.SSLMode)
	q.Set("connect_timeout", strconv.Itoa(int(c.DefaultTimeout/time.Second)))
	q.Set("application_name", "escrowd")

	u := url.URL{
		Scheme:   "postgres",
		Host:     c.Host,
		Path:     "/" + c.Database,
		RawQuery: q.Encode(),
	}
	if c.Port != 0 && c.Port != defaultPostgresPort {
		u.Host = c.Host + ":" + strconv.Itoa(c.Port)
	}
	switch {
	case c.Username != "" && c.Password != "":
		u.User = url.UserPassword(c.Username, c.Password)
	case c.Username != "":
		u.User = url.User(c.Username)
	}
	return u.String()
}

// sqliteDSN uses the _pragma parameters understood by modernc.org/sqlite.
func (c *Config) sqliteDSN() string {
	q := url.Values{}
	if c.EnableWALMode && c.Database != ":memory:" {
		q.Add("_pragma", "journal_mode(WAL)")
	}
	q.Add("_pragma", "busy_timeout(5000)")
	q.Add("_pragma", "synchronous(NORMAL)")
	q.Add("_pragma", "foreign_keys(1)")
	return "file:" + c.Database + "?" + q.Encode()
}

// String describes the config without credentials.
func (c *Config) String() string {
	return fmt.Sprintf("%s database %q on %s:%d", c.Driver, c.Database, c.Host, c.Port)
}
