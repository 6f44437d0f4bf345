package models

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"bankledger/internal/money"
)

const (
	AccountTypeChecking = "checking"
	AccountTypeSavings  = "savings"

	AccountStatusActive = "active"
	AccountStatusClosed = "closed"

	// Account number prefixes by type
	CheckingPrefix = "10"
	SavingsPrefix  = "20"

	AccountNumberLength = 10
)

var (
	ErrInvalidAccountType   = errors.New("invalid account type")
	ErrInvalidAccountStatus = errors.New("invalid account status")
	ErrNegativeBalance      = errors.New("balance cannot be negative")
)

// Account is a ledger account. The balance is an integer minor-unit count;
// it is mutated only by the ledger's serialized funding path and must always
// equal the exact sum of the account's transaction amounts.
type Account struct {
	ID                uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	AccountNumber     string     `gorm:"type:varchar(10);uniqueIndex;not null" json:"account_number"`
	UserID            uuid.UUID  `gorm:"type:uuid;not null;index" json:"user_id"`
	AccountType       string     `gorm:"type:varchar(20);not null" json:"account_type"`
	BalanceMinorUnits int64      `gorm:"not null;default:0" json:"balance_minor_units"`
	Status            string     `gorm:"type:varchar(20);not null;default:'active'" json:"status"`
	Currency          string     `gorm:"type:varchar(3);not null;default:'USD'" json:"currency"`
	CreatedAt         time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt         time.Time  `gorm:"not null" json:"updated_at"`
	ClosedAt          *time.Time `gorm:"index" json:"closed_at,omitempty"`

	// Associations
	User         User          `gorm:"foreignKey:UserID" json:"-"`
	Transactions []Transaction `gorm:"foreignKey:AccountID" json:"-"`
}

// BeforeCreate hook for Account
func (a *Account) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}

	if a.Status == "" {
		a.Status = AccountStatusActive
	}

	if a.Currency == "" {
		a.Currency = "USD"
	}

	// Set timestamps if not already set (for tests)
	now := time.Now()
	if a.CreatedAt.IsZero() {
		a.CreatedAt = now
	}
	if a.UpdatedAt.IsZero() {
		a.UpdatedAt = now
	}

	return a.Validate()
}

// BeforeUpdate hook for Account
func (a *Account) BeforeUpdate(tx *gorm.DB) error {
	a.UpdatedAt = time.Now()
	return a.Validate()
}

// Validate validates the account fields
func (a *Account) Validate() error {
	if a.UserID == uuid.Nil {
		return errors.New("user ID is required")
	}

	if a.AccountNumber == "" {
		return errors.New("account number is required")
	}

	if len(a.AccountNumber) != AccountNumberLength {
		return fmt.Errorf("account number must be %d digits", AccountNumberLength)
	}

	if !IsValidAccountType(a.AccountType) {
		return ErrInvalidAccountType
	}

	if !IsValidAccountStatus(a.Status) {
		return ErrInvalidAccountStatus
	}

	if a.BalanceMinorUnits < 0 {
		return ErrNegativeBalance
	}

	// The number prefix encodes the account type
	if a.AccountNumber[:2] != AccountNumberPrefix(a.AccountType) {
		return errors.New("account number prefix does not match account type")
	}

	return nil
}

// IsActive returns true if the account is active
func (a *Account) IsActive() bool {
	return a.Status == AccountStatusActive
}

// Balance returns the balance as a Money value.
func (a *Account) Balance() money.Money {
	return money.FromMinorUnits(a.BalanceMinorUnits)
}

// Close marks the account closed. Closure is a status flag; accounts are
// never physically deleted.
func (a *Account) Close() error {
	if a.Status == AccountStatusClosed {
		return errors.New("account is already closed")
	}

	a.Status = AccountStatusClosed
	now := time.Now()
	a.ClosedAt = &now
	return nil
}

// TableName returns the table name for Account
func (a *Account) TableName() string {
	return "accounts"
}

// IsValidAccountType checks if the account type is valid
func IsValidAccountType(accountType string) bool {
	switch accountType {
	case AccountTypeChecking, AccountTypeSavings:
		return true
	default:
		return false
	}
}

// IsValidAccountStatus checks if the account status is valid
func IsValidAccountStatus(status string) bool {
	switch status {
	case AccountStatusActive, AccountStatusClosed:
		return true
	default:
		return false
	}
}

// AccountNumberPrefix returns the number prefix for an account type
func AccountNumberPrefix(accountType string) string {
	switch accountType {
	case AccountTypeChecking:
		return CheckingPrefix
	case AccountTypeSavings:
		return SavingsPrefix
	default:
		return ""
	}
}
