package main

import (
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/golang-migrate/migrate/v4"
	pgxmigrate "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"github.com/JaimeStill/rental-portal/internal/config"
	"github.com/JaimeStill/rental-portal/migrations"
	"github.com/JaimeStill/rental-portal/pkg/database"
)

const EnvDatabaseDSN = "DATABASE_DSN"

func main() {
	var (
		dsn   = flag.String("dsn", "", "Database connection string (defaults to config.toml)")
		table = flag.String("table", "", "Migrations table (defaults to config.toml)")
		down  = flag.Bool("down", false, "Roll back every migration")
		steps = flag.Int("steps", 0, "Apply n migrations (negative rolls back)")
		show  = flag.Bool("version", false, "Print the current schema version")
	)
	flag.Parse()

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Fatalf("env file load failed: %v", err)
	}

	if *dsn == "" {
		*dsn = os.Getenv(EnvDatabaseDSN)
	}
	if *dsn == "" {
		cfg, err := config.Load()
		if err != nil {
			log.Fatalf("config load failed: %v", err)
		}
		*dsn = cfg.Database.Dsn()
		if *table == "" {
			*table = cfg.Database.MigrationsTable
		}
	}
	if *table == "" {
		*table = database.DefaultMigrationsTable
	}

	db, err := sql.Open("pgx", *dsn)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	m, err := newMigrator(db, *table)
	if err != nil {
		log.Fatalf("migrator init failed: %v", err)
	}

	switch {
	case *show:
		version, dirty, err := m.Version()
		if errors.Is(err, migrate.ErrNilVersion) {
			fmt.Println("no migrations applied")
			return
		}
		if err != nil {
			log.Fatalf("read version failed: %v", err)
		}
		fmt.Printf("version %d (dirty: %t)\n", version, dirty)
		return
	case *down:
		err = m.Down()
	case *steps != 0:
		err = m.Steps(*steps)
	default:
		err = m.Up()
	}

	if errors.Is(err, migrate.ErrNoChange) {
		fmt.Println("schema up to date")
		return
	}
	if err != nil {
		log.Fatalf("migration failed: %v", err)
	}
	fmt.Println("migrations applied")
}

func newMigrator(db *sql.DB, table string) (*migrate.Migrate, error) {
	src, err := iofs.New(migrations.FS, ".")
	if err != nil {
		return nil, fmt.Errorf("open migrations: %w", err)
	}

	driver, err := pgxmigrate.WithInstance(db, &pgxmigrate.Config{MigrationsTable: table})
	if err != nil {
		return nil, fmt.Errorf("database driver: %w", err)
	}

	return migrate.NewWithInstance("iofs", src, "pgx5", driver)
}
