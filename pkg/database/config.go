package database

import (
	"fmt"
	"net/url"
	"os"
	"slices"
	"strconv"
	"time"
)

const (
	// DefaultName is the database and role the portal expects out of the box.
	DefaultName = "rental_portal"

	// DefaultMigrationsTable records applied schema versions.
	DefaultMigrationsTable = "schema_migrations"
)

var sslModes = []string{"disable", "allow", "prefer", "require", "verify-ca", "verify-full"}

// Config describes the upload ledger's PostgreSQL database: where it lives,
// how the pool is sized and which table tracks migrations.
type Config struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	Name            string `toml:"name"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	SSLMode         string `toml:"ssl_mode"`
	MigrationsTable string `toml:"migrations_table"`

	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime string `toml:"conn_max_lifetime"`
	ConnTimeout     string `toml:"conn_timeout"`

	connMaxLifetime time.Duration
	connTimeout     time.Duration
}

// Env names the environment variables that override each setting. Empty
// names are skipped.
type Env struct {
	Host            string
	Port            string
	Name            string
	User            string
	Password        string
	SSLMode         string
	MigrationsTable string
	MaxOpenConns    string
	MaxIdleConns    string
	ConnMaxLifetime string
	ConnTimeout     string
}

func (c *Config) ConnMaxLifetimeDuration() time.Duration {
	return c.connMaxLifetime
}

func (c *Config) ConnTimeoutDuration() time.Duration {
	return c.connTimeout
}

// Dsn renders the config as a postgres:// URL understood by pgx.
func (c *Config) Dsn() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     c.Host + ":" + strconv.Itoa(c.Port),
		Path:     "/" + c.Name,
		RawQuery: url.Values{"sslmode": {c.SSLMode}}.Encode(),
	}
	return u.String()
}

func (c *Config) Finalize(env *Env) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	return c.validate()
}

func (c *Config) Merge(o *Config) {
	overlay(&c.Host, o.Host)
	overlay(&c.Port, o.Port)
	overlay(&c.Name, o.Name)
	overlay(&c.User, o.User)
	overlay(&c.Password, o.Password)
	overlay(&c.SSLMode, o.SSLMode)
	overlay(&c.MigrationsTable, o.MigrationsTable)
	overlay(&c.MaxOpenConns, o.MaxOpenConns)
	overlay(&c.MaxIdleConns, o.MaxIdleConns)
	overlay(&c.ConnMaxLifetime, o.ConnMaxLifetime)
	overlay(&c.ConnTimeout, o.ConnTimeout)
}

func (c *Config) loadDefaults() {
	fallback(&c.Host, "localhost")
	fallback(&c.Port, 5432)
	fallback(&c.Name, DefaultName)
	fallback(&c.User, DefaultName)
	fallback(&c.SSLMode, "disable")
	fallback(&c.MigrationsTable, DefaultMigrationsTable)
	fallback(&c.MaxOpenConns, 25)
	fallback(&c.MaxIdleConns, 5)
	fallback(&c.ConnMaxLifetime, "15m")
	fallback(&c.ConnTimeout, "5s")
}

func (c *Config) loadEnv(env *Env) {
	strs := map[string]*string{
		env.Host:            &c.Host,
		env.Name:            &c.Name,
		env.User:            &c.User,
		env.Password:        &c.Password,
		env.SSLMode:         &c.SSLMode,
		env.MigrationsTable: &c.MigrationsTable,
		env.ConnMaxLifetime: &c.ConnMaxLifetime,
		env.ConnTimeout:     &c.ConnTimeout,
	}
	for name, dst := range strs {
		if v := lookup(name); v != "" {
			*dst = v
		}
	}

	ints := map[string]*int{
		env.Port:         &c.Port,
		env.MaxOpenConns: &c.MaxOpenConns,
		env.MaxIdleConns: &c.MaxIdleConns,
	}
	for name, dst := range ints {
		if n, err := strconv.Atoi(lookup(name)); err == nil {
			*dst = n
		}
	}
}

func (c *Config) validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}
	if !slices.Contains(sslModes, c.SSLMode) {
		return fmt.Errorf("invalid ssl_mode %q", c.SSLMode)
	}
	if c.MaxIdleConns > c.MaxOpenConns {
		return fmt.Errorf("max_idle_conns (%d) exceeds max_open_conns (%d)", c.MaxIdleConns, c.MaxOpenConns)
	}

	var err error
	if c.connMaxLifetime, err = time.ParseDuration(c.ConnMaxLifetime); err != nil {
		return fmt.Errorf("invalid conn_max_lifetime: %w", err)
	}
	if c.connTimeout, err = time.ParseDuration(c.ConnTimeout); err != nil {
		return fmt.Errorf("invalid conn_timeout: %w", err)
	}
	return nil
}

func lookup(name string) string {
	if name == "" {
		return ""
	}
	return os.Getenv(name)
}

// overlay copies v into dst unless v is the zero value.
func overlay[T comparable](dst *T, v T) {
	var zero T
	if v != zero {
		*dst = v
	}
}

// fallback sets dst to v only while dst is still the zero value.
func fallback[T comparable](dst *T, v T) {
	var zero T
	if *dst == zero {
		*dst = v
	}
}
