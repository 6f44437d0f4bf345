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
	TransactionKindDeposit = "deposit"
)

var (
	ErrInvalidTransactionKind = errors.New("invalid transaction kind")
	ErrInvalidAmount          = errors.New("transaction amount must be positive")
)

// Transaction is an immutable ledger entry. Rows are only ever inserted;
// Sequence is a database-assigned monotonic counter used to break ordering
// ties between entries created within the same timestamp.
type Transaction struct {
	ID               uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Sequence         int64     `gorm:"autoIncrement;uniqueIndex;not null" json:"sequence"`
	AccountID        uuid.UUID `gorm:"type:uuid;not null;index" json:"account_id"`
	Kind             string    `gorm:"type:varchar(20);not null" json:"kind"`
	AmountMinorUnits int64     `gorm:"not null" json:"amount_minor_units"`
	Description      string    `gorm:"type:text" json:"description"`
	Reference        string    `gorm:"type:varchar(100);index" json:"reference,omitempty"`
	SourceType       string    `gorm:"type:varchar(20)" json:"source_type,omitempty"`
	SourceMasked     string    `gorm:"type:varchar(30)" json:"source_masked,omitempty"`
	CreatedAt        time.Time `gorm:"not null;index" json:"created_at"`

	// Associations
	Account Account `gorm:"foreignKey:AccountID" json:"-"`
}

// BeforeCreate hook for Transaction
func (t *Transaction) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}

	if t.Reference == "" {
		t.Reference = GenerateTransactionReference()
	}

	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now()
	}

	return t.Validate()
}

// Validate validates the transaction fields
func (t *Transaction) Validate() error {
	if t.AccountID == uuid.Nil {
		return errors.New("account ID is required")
	}

	if t.Kind != TransactionKindDeposit {
		return ErrInvalidTransactionKind
	}

	if t.AmountMinorUnits <= 0 {
		return ErrInvalidAmount
	}

	return nil
}

// Amount returns the entry amount as a Money value.
func (t *Transaction) Amount() money.Money {
	return money.FromMinorUnits(t.AmountMinorUnits)
}

// TableName returns the table name for Transaction
func (t *Transaction) TableName() string {
	return "transactions"
}

// GenerateTransactionReference generates a unique transaction reference
func GenerateTransactionReference() string {
	return fmt.Sprintf("TXN-%s-%d", uuid.New().String()[:8], time.Now().Unix())
}
