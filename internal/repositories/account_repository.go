package repositories

import (
	"errors"
	"fmt"

	"bankledger/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrAccountNotFound     = errors.New("account not found")
	ErrAccountNumberExists = errors.New("account number already exists")
	ErrAccountNotActive    = errors.New("account is not active")
)

// accountRepository implements AccountRepositoryInterface
type accountRepository struct {
	db *gorm.DB
}

// NewAccountRepository creates a new account repository
func NewAccountRepository(db *gorm.DB) AccountRepositoryInterface {
	return &accountRepository{
		db: db,
	}
}

// Create inserts a new account. The unique index on account_number is the
// arbiter for number collisions; a duplicate insert surfaces as
// ErrAccountNumberExists so the caller can retry with a fresh number.
func (r *accountRepository) Create(account *models.Account) error {
	if err := r.db.Create(account).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrAccountNumberExists
		}
		return fmt.Errorf("failed to create account: %w", err)
	}
	return nil
}

func (r *accountRepository) GetByID(id uuid.UUID) (*models.Account, error) {
	account := &models.Account{ID: id}
	err := r.db.First(account).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, ErrAccountNotFound
	case err != nil:
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	return account, nil
}

func (r *accountRepository) GetByAccountNumber(accountNumber string) (*models.Account, error) {
	var account models.Account
	err := r.db.Where("account_number = ?", accountNumber).First(&account).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, ErrAccountNotFound
	case err != nil:
		return nil, fmt.Errorf("failed to get account by number: %w", err)
	}
	return &account, nil
}

// GetByUserID returns all of a user's accounts, newest first.
func (r *accountRepository) GetByUserID(userID uuid.UUID) ([]models.Account, error) {
	var accounts []models.Account
	if err := r.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&accounts).Error; err != nil {
		return nil, fmt.Errorf("failed to get accounts for user: %w", err)
	}
	return accounts, nil
}

// Update updates an account
func (r *accountRepository) Update(account *models.Account) error {
	if err := r.db.Save(account).Error; err != nil {
		return fmt.Errorf("failed to update account: %w", err)
	}
	return nil
}

// CheckAccountNumberExists checks if an account number already exists
func (r *accountRepository) CheckAccountNumberExists(accountNumber string) (bool, error) {
	var count int64
	if err := r.db.Model(&models.Account{}).
		Where("account_number = ?", accountNumber).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check account number existence: %w", err)
	}
	return count > 0, nil
}

// CountActive returns the number of accounts currently in the active status.
func (r *accountRepository) CountActive() (int64, error) {
	var count int64
	if err := r.db.Model(&models.Account{}).
		Where("status = ?", models.AccountStatusActive).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count active accounts: %w", err)
	}
	return count, nil
}

// ApplyDeposit credits the account and records the ledger entry atomically.
// Either both the balance update and the entry insert commit, or neither does.
func (r *accountRepository) ApplyDeposit(accountID uuid.UUID, entry *models.Transaction) (*models.Account, error) {
	var updated *models.Account

	err := r.db.Transaction(func(tx *gorm.DB) error {
		account := &models.Account{ID: accountID}

		// Row-level lock; concurrent deposits to the same account serialize
		// here. SQLite (tests) serializes writers itself and rejects the
		// FOR UPDATE syntax.
		query := tx
		if tx.Dialector.Name() == "postgres" {
			query = tx.Clauses(clause.Locking{Strength: "UPDATE"})
		}
		err := query.First(account).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return ErrAccountNotFound
		case err != nil:
			return fmt.Errorf("failed to lock account for deposit: %w", err)
		}

		if !account.IsActive() {
			return ErrAccountNotActive
		}

		if entry.AmountMinorUnits <= 0 {
			return models.ErrInvalidAmount
		}

		newBalance := account.BalanceMinorUnits + entry.AmountMinorUnits
		if err := tx.Model(account).Update("balance_minor_units", newBalance).Error; err != nil {
			return fmt.Errorf("failed to credit account: %w", err)
		}
		account.BalanceMinorUnits = newBalance

		entry.AccountID = accountID
		if err := tx.Create(entry).Error; err != nil {
			return fmt.Errorf("failed to create ledger entry: %w", err)
		}

		updated = account
		return nil
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}
