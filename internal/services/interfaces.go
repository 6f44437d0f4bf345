package services

import (
	"time"

	"bankledger/internal/dto"
	"bankledger/internal/funding"
	"bankledger/internal/models"
	"bankledger/internal/money"

	"github.com/google/uuid"
)

// LedgerServiceInterface defines account ledger and funding operations
type LedgerServiceInterface interface {
	CreateAccount(userID uuid.UUID, accountType string) (*models.Account, error)
	FundAccount(userID, accountID uuid.UUID, amount money.Money, source funding.Source, description string) (*models.Transaction, money.Money, error)
	GetAccountByID(accountID, userID uuid.UUID) (*models.Account, error)
	GetUserAccounts(userID uuid.UUID) ([]models.Account, error)
	GetAccountTransactions(accountID, userID uuid.UUID, offset, limit int) ([]models.Transaction, int64, error)
}

// NumberIssuerInterface produces candidate account numbers. Candidates are
// random, so uniqueness is only decided by the database unique index at
// insert time.
type NumberIssuerInterface interface {
	Generate(accountType string) (string, error)
}

type AuthServiceInterface interface {
	Register(req *dto.RegisterRequest, ipAddress, userAgent string) (*models.User, error)
	Login(req *dto.LoginRequest, ipAddress, userAgent string) (*dto.TokenResponse, error)
}

type TokenServiceInterface interface {
	GenerateAccessToken(user *models.User) (string, time.Time, error)
	ValidateAccessToken(tokenString string) (*models.AccessClaims, error)
	ExtractTokenFromHeader(authHeader string) (string, error)
}

type PasswordServiceInterface interface {
	ValidatePassword(password string) error
	HashPassword(password string) (string, error)
	ComparePassword(password, hash string) bool
}

type MetricsRecorderInterface interface {
	IncrementCounter(name string, tags map[string]string)
	RecordProcessingTime(name string, duration time.Duration)
	RecordGauge(name string, value float64, tags map[string]string)
}
