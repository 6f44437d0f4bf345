package database

import (
	"fmt"
	"log/slog"
	"time"

	"bankledger/internal/config"
	"bankledger/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DB wraps the gorm handle together with the pool settings it was opened
// with.
type DB struct {
	*gorm.DB
	config *config.DatabaseConfig
}

// New opens the Postgres connection and verifies it with a ping.
func New(cfg *config.DatabaseConfig) (*DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger:  logger.Default.LogMode(logger.Info),
		NowFunc: func() time.Time { return time.Now().UTC() },
		// The account number unique index is the arbiter for issuance retries,
		// so duplicate-key errors must stay distinguishable.
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.MaxConnections)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{DB: db, config: cfg}, nil
}

// AutoMigrate creates the schema from the models. It is the fallback when
// the SQL migration runner is disabled or fails.
func (db *DB) AutoMigrate() error {
	return db.DB.AutoMigrate(
		&models.User{},
		&models.AuditLog{},
		&models.Account{},
		&models.Transaction{},
	)
}

func (db *DB) Close() error {
	sqlDB, err := db.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (db *DB) HealthCheck() error {
	sqlDB, err := db.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

func (db *DB) Transaction(fn func(*gorm.DB) error) error {
	return db.DB.Transaction(fn)
}

// indexStatements are applied on startup; each is idempotent. The unique
// indexes on account_number and sequence back the issuance retry loop and
// the ledger ordering guarantee.
var indexStatements = []string{
	"CREATE INDEX IF NOT EXISTS idx_users_email ON users(email)",
	"CREATE INDEX IF NOT EXISTS idx_users_locked_at ON users(locked_at) WHERE locked_at IS NOT NULL",
	"CREATE INDEX IF NOT EXISTS idx_users_deleted_at ON users(deleted_at) WHERE deleted_at IS NULL",
	"CREATE INDEX IF NOT EXISTS idx_audit_logs_user_id ON audit_logs(user_id)",
	"CREATE INDEX IF NOT EXISTS idx_audit_logs_action ON audit_logs(action)",
	"CREATE INDEX IF NOT EXISTS idx_audit_logs_created_at ON audit_logs(created_at)",
	"CREATE UNIQUE INDEX IF NOT EXISTS idx_accounts_account_number ON accounts(account_number)",
	"CREATE INDEX IF NOT EXISTS idx_accounts_user_id ON accounts(user_id)",
	"CREATE INDEX IF NOT EXISTS idx_accounts_status ON accounts(status)",
	"CREATE INDEX IF NOT EXISTS idx_accounts_closed_at ON accounts(closed_at) WHERE closed_at IS NOT NULL",
	"CREATE INDEX IF NOT EXISTS idx_transactions_account_id ON transactions(account_id)",
	"CREATE INDEX IF NOT EXISTS idx_transactions_created_at ON transactions(created_at)",
	"CREATE INDEX IF NOT EXISTS idx_transactions_reference ON transactions(reference)",
	"CREATE UNIQUE INDEX IF NOT EXISTS idx_transactions_sequence ON transactions(sequence)",
}

// CreateIndexes applies indexStatements. A failing statement is logged and
// skipped; the server can run without a missing secondary index.
func (db *DB) CreateIndexes() error {
	for _, stmt := range indexStatements {
		if err := db.DB.Exec(stmt).Error; err != nil {
			slog.Warn("Failed to create index", "query", stmt, "error", err.Error())
		}
	}
	return nil
}

// Initialize opens the database, brings the schema up to date and applies
// indexes. SQL migrations run first when enabled; GORM AutoMigrate is the
// fallback so a fresh development checkout works without migration files.
func Initialize(cfg *config.Config) (*gorm.DB, error) {
	db, err := New(&cfg.Database)
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}

	if err := RunMigrationsIfEnabled(sqlDB); err != nil {
		slog.Warn("Migration runner failed, falling back to GORM AutoMigrate", "error", err.Error())
		if err := db.AutoMigrate(); err != nil {
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	if err := db.CreateIndexes(); err != nil {
		slog.Warn("Failed to create some indexes", "error", err.Error())
	}

	slog.Info("Database initialized successfully")
	return db.DB, nil
}
