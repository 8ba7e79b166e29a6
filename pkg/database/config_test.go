package database_test

import (
	"testing"
	"time"

	"github.com/JaimeStill/rental-portal/pkg/database"
)

var testEnv = &database.Env{
	Host:            "TEST_DB_HOST",
	Port:            "TEST_DB_PORT",
	SSLMode:         "TEST_DB_SSL_MODE",
	MigrationsTable: "TEST_DB_MIGRATIONS_TABLE",
}

func TestFinalize_Defaults(t *testing.T) {
	var cfg database.Config
	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("Finalize: %v", err)
	}

	if cfg.Name != database.DefaultName || cfg.User != database.DefaultName {
		t.Errorf("name/user = %q/%q, want %q", cfg.Name, cfg.User, database.DefaultName)
	}
	if cfg.MigrationsTable != database.DefaultMigrationsTable {
		t.Errorf("migrations table = %q, want %q", cfg.MigrationsTable, database.DefaultMigrationsTable)
	}
	if got := cfg.ConnTimeoutDuration(); got != 5*time.Second {
		t.Errorf("conn timeout = %v, want 5s", got)
	}
	if got := cfg.ConnMaxLifetimeDuration(); got != 15*time.Minute {
		t.Errorf("conn max lifetime = %v, want 15m", got)
	}
}

func TestFinalize_EnvOverrides(t *testing.T) {
	t.Setenv("TEST_DB_HOST", "db.internal")
	t.Setenv("TEST_DB_PORT", "6543")
	t.Setenv("TEST_DB_SSL_MODE", "require")
	t.Setenv("TEST_DB_MIGRATIONS_TABLE", "portal_migrations")

	cfg := database.Config{Host: "localhost", Port: 5432}
	if err := cfg.Finalize(testEnv); err != nil {
		t.Fatalf("Finalize: %v", err)
	}

	if cfg.Host != "db.internal" || cfg.Port != 6543 {
		t.Errorf("host:port = %s:%d, want db.internal:6543", cfg.Host, cfg.Port)
	}
	if cfg.SSLMode != "require" {
		t.Errorf("ssl mode = %q, want require", cfg.SSLMode)
	}
	if cfg.MigrationsTable != "portal_migrations" {
		t.Errorf("migrations table = %q, want portal_migrations", cfg.MigrationsTable)
	}
}

func TestFinalize_Invalid(t *testing.T) {
	tests := []struct {
		name string
		cfg  database.Config
	}{
		{"port out of range", database.Config{Port: 70000}},
		{"unknown ssl mode", database.Config{SSLMode: "sometimes"}},
		{"idle above open", database.Config{MaxOpenConns: 2, MaxIdleConns: 3}},
		{"bad lifetime", database.Config{ConnMaxLifetime: "forever"}},
		{"bad timeout", database.Config{ConnTimeout: "soon"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.cfg.Finalize(nil); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestMerge(t *testing.T) {
	base := database.Config{Host: "localhost", Port: 5432, Name: "a", SSLMode: "disable"}
	base.Merge(&database.Config{Port: 6000, SSLMode: "verify-full"})

	if base.Host != "localhost" || base.Name != "a" {
		t.Errorf("zero overlay fields replaced values: %+v", base)
	}
	if base.Port != 6000 || base.SSLMode != "verify-full" {
		t.Errorf("overlay not applied: %+v", base)
	}
}

func TestDsn(t *testing.T) {
	cfg := database.Config{User: "portal", Password: "p@ss word", Host: "db", Port: 5433, Name: "rental_portal", SSLMode: "require"}

	want := "postgres://portal:p%40ss%20word@db:5433/rental_portal?sslmode=require"
	if got := cfg.Dsn(); got != want {
		t.Errorf("Dsn() = %q, want %q", got, want)
	}
}
