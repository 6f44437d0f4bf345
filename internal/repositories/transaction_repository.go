package repositories

import (
	"errors"
	"fmt"

	"bankledger/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrTransactionNotFound = errors.New("transaction not found")
)

// transactionRepository is the gorm-backed store for ledger entries.
// Transactions are immutable once written; the repository exposes no
// update or delete.
type transactionRepository struct {
	db *gorm.DB
}

func NewTransactionRepository(db *gorm.DB) TransactionRepositoryInterface {
	return &transactionRepository{
		db: db,
	}
}

func (r *transactionRepository) Create(transaction *models.Transaction) error {
	if err := r.db.Create(transaction).Error; err != nil {
		return fmt.Errorf("failed to create transaction: %w", err)
	}
	return nil
}

func (r *transactionRepository) GetByID(id uuid.UUID) (*models.Transaction, error) {
	transaction := &models.Transaction{ID: id}
	err := r.db.First(transaction).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, ErrTransactionNotFound
	case err != nil:
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	return transaction, nil
}

// GetByAccountID pages through an account's ledger, newest first. Sequence
// breaks ties between entries sharing a timestamp so the listing order is
// stable across requests.
func (r *transactionRepository) GetByAccountID(accountID uuid.UUID, offset, limit int) ([]models.Transaction, int64, error) {
	var transactions []models.Transaction
	var total int64

	if err := r.db.Model(&models.Transaction{}).
		Where("account_id = ?", accountID).
		Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count transactions: %w", err)
	}

	if err := r.db.Where("account_id = ?", accountID).
		Offset(offset).Limit(limit).
		Order("created_at DESC, sequence DESC").
		Find(&transactions).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to get transactions: %w", err)
	}

	return transactions, total, nil
}

// GetByReference looks up a ledger entry by its external reference.
func (r *transactionRepository) GetByReference(reference string) (*models.Transaction, error) {
	var transaction models.Transaction
	err := r.db.Where("reference = ?", reference).First(&transaction).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, ErrTransactionNotFound
	case err != nil:
		return nil, fmt.Errorf("failed to get transaction by reference: %w", err)
	}
	return &transaction, nil
}

// GetRecentByAccountID returns the newest entries for an account without
// pagination bookkeeping.
func (r *transactionRepository) GetRecentByAccountID(accountID uuid.UUID, limit int) ([]models.Transaction, error) {
	var transactions []models.Transaction
	if err := r.db.Where("account_id = ?", accountID).
		Order("created_at DESC, sequence DESC").
		Limit(limit).
		Find(&transactions).Error; err != nil {
		return nil, fmt.Errorf("failed to get recent transactions: %w", err)
	}
	return transactions, nil
}
