package repositories

import (
	"time"

	"bankledger/internal/models"

	"github.com/google/uuid"
)

// AccountRepositoryInterface is the storage surface the ledger service
// depends on. Mocks are generated from this file.
type AccountRepositoryInterface interface {
	Create(account *models.Account) error
	GetByID(id uuid.UUID) (*models.Account, error)
	GetByAccountNumber(accountNumber string) (*models.Account, error)
	GetByUserID(userID uuid.UUID) ([]models.Account, error)
	Update(account *models.Account) error
	CheckAccountNumberExists(accountNumber string) (bool, error)
	CountActive() (int64, error)

	// ApplyDeposit atomically increments the account balance and records the
	// ledger entry in a single database transaction. The row is locked for
	// update for the duration of the transaction.
	ApplyDeposit(accountID uuid.UUID, entry *models.Transaction) (*models.Account, error)
}

// TransactionRepositoryInterface reads the immutable ledger entries.
type TransactionRepositoryInterface interface {
	Create(transaction *models.Transaction) error
	GetByID(id uuid.UUID) (*models.Transaction, error)
	GetByAccountID(accountID uuid.UUID, offset, limit int) ([]models.Transaction, int64, error)
	GetByReference(reference string) (*models.Transaction, error)
	GetRecentByAccountID(accountID uuid.UUID, limit int) ([]models.Transaction, error)
}

// UserRepositoryInterface stores users and their lockout state.
type UserRepositoryInterface interface {
	Create(user *models.User) error
	GetByID(id uuid.UUID) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	Update(user *models.User) error
	UpdateFailedLoginAttempts(user *models.User) error
	ResetFailedLoginAttempts(userID uuid.UUID) error
}

// AuditLogRepositoryInterface appends to and queries the audit trail.
type AuditLogRepositoryInterface interface {
	Create(log *models.AuditLog) error
	GetByUserID(userID uuid.UUID, offset, limit int) ([]*models.AuditLog, int64, error)
	GetByAction(action string, offset, limit int) ([]*models.AuditLog, int64, error)
	GetFailedLoginAttempts(email string, since time.Time) (int64, error)
}
