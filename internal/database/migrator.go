package database

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/lib/pq"

	"bankledger/internal/config"
)

const (
	migrationsPath = "migrations"
	seedsPath      = "migrations/seeds"
)

// Variables so tests can shorten the readiness loop.
var (
	maxRetries    = 30
	retryInterval = 2 * time.Second
)

// MigrationRunner applies SQL migrations and optional seed files. It runs
// over a dedicated database/sql connection, separate from the gorm pool.
type MigrationRunner struct {
	db             *sql.DB
	migrationsPath string
	seedsPath      string
	logger         *slog.Logger
}

func NewMigrationRunner(db *sql.DB) *MigrationRunner {
	return &MigrationRunner{
		db:             db,
		migrationsPath: migrationsPath,
		seedsPath:      seedsPath,
		logger:         slog.Default(),
	}
}

func (mr *MigrationRunner) log() *slog.Logger {
	if mr.logger == nil {
		return slog.Default()
	}
	return mr.logger
}

// OpenMigrationDB opens a plain lib/pq connection for the migration runner.
// The caller owns the returned handle and must close it after migrating.
func OpenMigrationDB(cfg *config.DatabaseConfig) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open migration connection: %w", err)
	}
	return db, nil
}

// WaitForDatabase pings until the database answers or the retry budget runs
// out. Container orchestration may start the server before Postgres accepts
// connections.
func (mr *MigrationRunner) WaitForDatabase() error {
	mr.log().Info("Waiting for database to be ready")

	for attempt := 1; attempt <= maxRetries; attempt++ {
		if err := mr.db.Ping(); err == nil {
			mr.log().Info("Database is ready")
			return nil
		} else {
			mr.log().Warn("Database not ready",
				"attempt", attempt,
				"max_attempts", maxRetries,
				"error", err.Error(),
			)
		}
		time.Sleep(retryInterval)
	}

	return fmt.Errorf("database not ready after %d attempts", maxRetries)
}

// newMigrator builds a migrate instance reading from the migrations
// directory on disk.
func (mr *MigrationRunner) newMigrator() (*migrate.Migrate, error) {
	absPath, err := filepath.Abs(mr.migrationsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path for migrations: %w", err)
	}

	driver, err := postgres.WithInstance(mr.db, &postgres.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to create postgres driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance("file://"+absPath, "postgres", driver)
	if err != nil {
		return nil, fmt.Errorf("failed to create migration instance: %w", err)
	}
	return m, nil
}

// RunMigrations applies all pending migrations. A missing migrations
// directory is not an error; the caller falls back to AutoMigrate.
func (mr *MigrationRunner) RunMigrations() error {
	if _, err := os.Stat(mr.migrationsPath); os.IsNotExist(err) {
		mr.log().Info("Migrations directory not found, skipping migrations",
			"path", mr.migrationsPath,
		)
		return nil
	}

	mr.log().Info("Running migrations", "path", mr.migrationsPath)

	m, err := mr.newMigrator()
	if err != nil {
		return err
	}

	version, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("failed to get migration version: %w", err)
	}
	if dirty {
		// A previous run died mid-migration; force the recorded version so
		// Up() can proceed.
		mr.log().Warn("Database is in dirty state, forcing version", "version", version)
		if err := m.Force(int(version)); err != nil {
			return fmt.Errorf("failed to force version: %w", err)
		}
	}

	switch err := m.Up(); {
	case errors.Is(err, migrate.ErrNoChange):
		mr.log().Info("No new migrations to apply", "version", version)
	case err != nil:
		return fmt.Errorf("migration failed: %w", err)
	default:
		newVersion, _, err := m.Version()
		if err != nil {
			return fmt.Errorf("failed to get new migration version: %w", err)
		}
		mr.log().Info("Applied migrations", "version", newVersion)
	}

	return nil
}

// LoadSeeds executes the SQL seed files when SEED_DATABASE is enabled. A
// failing file is logged and skipped so one bad seed does not block the
// rest.
func (mr *MigrationRunner) LoadSeeds() error {
	if os.Getenv("SEED_DATABASE") != "true" {
		mr.log().Info("Seed data loading disabled (SEED_DATABASE != true)")
		return nil
	}

	if _, err := os.Stat(mr.seedsPath); os.IsNotExist(err) {
		mr.log().Info("Seeds directory not found, skipping seed data",
			"path", mr.seedsPath,
		)
		return nil
	}

	files, err := filepath.Glob(filepath.Join(mr.seedsPath, "*.sql"))
	if err != nil {
		return fmt.Errorf("failed to find seed files: %w", err)
	}
	if len(files) == 0 {
		mr.log().Info("No seed files found")
		return nil
	}

	for _, file := range files {
		content, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("failed to read seed file %s: %w", file, err)
		}

		if _, err := mr.db.Exec(string(content)); err != nil {
			mr.log().Warn("Failed to execute seed file",
				"file", filepath.Base(file),
				"error", err.Error(),
			)
			continue
		}
		mr.log().Info("Executed seed file", "file", filepath.Base(file))
	}

	return nil
}

// GetMigrationStatus reports the current schema version and dirty flag.
func (mr *MigrationRunner) GetMigrationStatus() (version uint, dirty bool, err error) {
	if _, err := os.Stat(mr.migrationsPath); os.IsNotExist(err) {
		return 0, false, fmt.Errorf("migrations directory not found")
	}

	m, err := mr.newMigrator()
	if err != nil {
		return 0, false, err
	}
	return m.Version()
}

// RunMigrationsIfEnabled is the startup entry point; it does nothing unless
// AUTO_MIGRATE is set to true.
func RunMigrationsIfEnabled(db *sql.DB) error {
	if os.Getenv("AUTO_MIGRATE") != "true" {
		slog.Info("Auto-migration disabled (AUTO_MIGRATE != true)")
		return nil
	}

	runner := NewMigrationRunner(db)

	if err := runner.WaitForDatabase(); err != nil {
		return fmt.Errorf("database readiness check failed: %w", err)
	}
	if err := runner.RunMigrations(); err != nil {
		return fmt.Errorf("migration execution failed: %w", err)
	}
	if err := runner.LoadSeeds(); err != nil {
		slog.Warn("Seed data loading failed", "error", err.Error())
	}

	if version, dirty, err := runner.GetMigrationStatus(); err != nil {
		slog.Warn("Failed to get migration status", "error", err.Error())
	} else {
		slog.Info("Migration status", "version", version, "dirty", dirty)
	}

	return nil
}
