package database

import (
	"fmt"
	"sync/atomic"
	"testing"

	"bankledger/internal/config"
	"bankledger/internal/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SetupTestDB opens an in-memory SQLite database with the full schema.
// TranslateError stays on so duplicate-key handling behaves as it does
// against Postgres.
func SetupTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to connect to test database: %v", err)
	}

	testDB := &DB{
		DB: db,
		config: &config.DatabaseConfig{
			MaxConnections: 1,
			MaxIdleConns:   1,
		},
	}

	if err := testDB.AutoMigrate(); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return testDB
}

// CreateTestUser inserts a customer with placeholder names and a fake hash.
func CreateTestUser(t *testing.T, db *DB, email string) *models.User {
	t.Helper()

	user := &models.User{
		Email:        email,
		PasswordHash: "hashed_password",
		FirstName:    "Test",
		LastName:     "User",
		Role:         models.RoleCustomer,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// testAccountSeq keeps generated account numbers unique across parallel
// tests within a package run.
var testAccountSeq uint32

// CreateTestAccount opens an account for owner with a synthetic but
// well-formed account number.
func CreateTestAccount(t *testing.T, db *DB, owner *models.User, accountType string) *models.Account {
	t.Helper()

	seq := atomic.AddUint32(&testAccountSeq, 1)
	account := &models.Account{
		UserID:        owner.ID,
		AccountNumber: fmt.Sprintf("%s%08d", models.AccountNumberPrefix(accountType), seq),
		AccountType:   accountType,
	}
	if err := db.Create(account).Error; err != nil {
		t.Fatalf("failed to create test account: %v", err)
	}
	return account
}

// CleanupTestDB empties every table, children before parents so foreign
// keys do not get in the way.
func CleanupTestDB(t *testing.T, db *DB) {
	t.Helper()

	for _, table := range []string{"transactions", "accounts", "audit_logs", "users"} {
		if err := db.Exec("DELETE FROM " + table).Error; err != nil {
			t.Logf("failed to cleanup table %s: %v", table, err)
		}
	}
}
