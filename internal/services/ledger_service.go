package services

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"bankledger/internal/funding"
	"bankledger/internal/models"
	"bankledger/internal/money"
	"bankledger/internal/repositories"

	"github.com/google/uuid"
)

const maxIssueAttempts = 10

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrAccountNotFound    = errors.New("account not found")
	ErrAccountClosed      = errors.New("account is closed")
	ErrInvalidAccountType = errors.New("invalid account type")
	ErrIssuerExhausted    = errors.New("could not issue a unique account number")
	ErrLedgerInternal     = errors.New("ledger internal error")
)

// ledgerService implements LedgerServiceInterface. Funding for a given
// account is serialized through a per-account mutex; reads never take the
// funding lock.
type ledgerService struct {
	accountRepo     repositories.AccountRepositoryInterface
	transactionRepo repositories.TransactionRepositoryInterface
	userRepo        repositories.UserRepositoryInterface
	auditRepo       repositories.AuditLogRepositoryInterface
	issuer          NumberIssuerInterface
	metrics         MetricsRecorderInterface
	logger          *slog.Logger

	fundingLocks sync.Map // accountID -> *sync.Mutex
}

// NewLedgerService creates the account ledger and funding engine.
func NewLedgerService(
	accountRepo repositories.AccountRepositoryInterface,
	transactionRepo repositories.TransactionRepositoryInterface,
	userRepo repositories.UserRepositoryInterface,
	auditRepo repositories.AuditLogRepositoryInterface,
	issuer NumberIssuerInterface,
	metrics MetricsRecorderInterface,
	logger *slog.Logger,
) LedgerServiceInterface {
	return &ledgerService{
		accountRepo:     accountRepo,
		transactionRepo: transactionRepo,
		userRepo:        userRepo,
		auditRepo:       auditRepo,
		issuer:          issuer,
		metrics:         metrics,
		logger:          logger,
	}
}

// CreateAccount opens a new account for a user. Number issuance is a bounded
// retry loop: the insert itself arbitrates uniqueness, and a duplicate-key
// response means draw again. After maxIssueAttempts collisions the operation
// fails rather than loop forever.
func (s *ledgerService) CreateAccount(userID uuid.UUID, accountType string) (*models.Account, error) {
	if !models.IsValidAccountType(accountType) {
		return nil, ErrInvalidAccountType
	}

	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to verify user: %w", err)
	}

	var account *models.Account
	for attempt := 1; attempt <= maxIssueAttempts; attempt++ {
		number, err := s.issuer.Generate(accountType)
		if err != nil {
			return nil, fmt.Errorf("failed to generate account number: %w", err)
		}

		// Cheap existence probe before the insert. The unique index is still
		// the arbiter; a probe miss followed by a duplicate insert is handled
		// below like any other collision.
		if exists, err := s.accountRepo.CheckAccountNumberExists(number); err == nil && exists {
			s.metrics.IncrementCounter("account_number_collisions", map[string]string{
				"account_type": accountType,
			})
			continue
		}

		candidate := &models.Account{
			UserID:        userID,
			AccountNumber: number,
			AccountType:   accountType,
			Status:        models.AccountStatusActive,
			Currency:      "USD",
		}

		err = s.accountRepo.Create(candidate)
		if err == nil {
			account = candidate
			break
		}
		if errors.Is(err, repositories.ErrAccountNumberExists) {
			s.logger.Warn("account number collision, retrying",
				"attempt", attempt, "account_type", accountType)
			s.metrics.IncrementCounter("account_number_collisions", map[string]string{
				"account_type": accountType,
			})
			continue
		}
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	if account == nil {
		s.logger.Error("account number issuance exhausted",
			"attempts", maxIssueAttempts, "account_type", accountType)
		return nil, ErrIssuerExhausted
	}

	// Read back the stored row; a create that cannot be confirmed is an
	// internal fault, not a success with a guessed result.
	stored, err := s.accountRepo.GetByID(account.ID)
	if err != nil {
		s.logger.Error("created account could not be read back", "account_id", account.ID, "error", err)
		return nil, ErrLedgerInternal
	}
	if stored.BalanceMinorUnits != 0 || stored.AccountNumber != account.AccountNumber {
		s.logger.Error("created account failed confirmation",
			"account_id", account.ID,
			"balance_minor_units", stored.BalanceMinorUnits)
		return nil, ErrLedgerInternal
	}

	if err := s.auditRepo.Create(&models.AuditLog{
		UserID:     &user.ID,
		Action:     models.AuditActionAccountCreated,
		Resource:   "account",
		ResourceID: stored.ID.String(),
		IPAddress:  "system",
		UserAgent:  "internal",
		Metadata: models.JSONBMap{
			"account_type":   accountType,
			"account_number": stored.AccountNumber,
		},
	}); err != nil {
		s.logger.Error("failed to create audit log", "error", err, "action", models.AuditActionAccountCreated)
	}

	s.metrics.IncrementCounter("accounts_created", map[string]string{
		"account_type": accountType,
	})
	if active, err := s.accountRepo.CountActive(); err != nil {
		s.logger.Warn("failed to refresh active account count", "error", err)
	} else {
		s.metrics.RecordGauge("active_accounts", float64(active), nil)
	}

	return stored, nil
}

// FundAccount credits an account after validating the funding source.
// The amount has already been parsed into exact minor units; no arithmetic
// here ever touches floating point.
func (s *ledgerService) FundAccount(
	userID, accountID uuid.UUID,
	amount money.Money,
	source funding.Source,
	description string,
) (*models.Transaction, money.Money, error) {
	started := time.Now()

	if !amount.IsPositive() {
		return nil, 0, money.ErrInvalidAmount
	}

	if err := source.Validate(); err != nil {
		return nil, 0, err
	}

	account, err := s.getOwnedAccount(accountID, userID)
	if err != nil {
		return nil, 0, err
	}
	if !account.IsActive() {
		return nil, 0, ErrAccountClosed
	}

	if description == "" {
		description = fmt.Sprintf("Deposit via %s %s", source.SourceType(), source.MaskedNumber())
	}

	entry := &models.Transaction{
		AccountID:        account.ID,
		Kind:             models.TransactionKindDeposit,
		AmountMinorUnits: amount.MinorUnits(),
		Description:      description,
		SourceType:       source.SourceType(),
		SourceMasked:     source.MaskedNumber(),
	}

	// Serialize funding per account. The database row lock already protects
	// the balance; the mutex keeps entry ordering deterministic under
	// concurrent funding of the same account.
	lock := s.lockFor(account.ID)
	lock.Lock()
	updated, err := s.accountRepo.ApplyDeposit(account.ID, entry)
	lock.Unlock()

	if err != nil {
		switch {
		case errors.Is(err, repositories.ErrAccountNotFound):
			return nil, 0, ErrAccountNotFound
		case errors.Is(err, repositories.ErrAccountNotActive):
			return nil, 0, ErrAccountClosed
		case errors.Is(err, models.ErrInvalidAmount):
			return nil, 0, money.ErrInvalidAmount
		}
		s.metrics.IncrementCounter("funding_failures", map[string]string{
			"source_type": source.SourceType(),
		})
		return nil, 0, fmt.Errorf("failed to apply deposit: %w", err)
	}

	newBalance := money.FromMinorUnits(updated.BalanceMinorUnits)

	// The audit trail records only the masked instrument; the cleartext
	// number must never be persisted.
	if err := s.auditRepo.Create(&models.AuditLog{
		UserID:     &userID,
		Action:     models.AuditActionAccountFunded,
		Resource:   "account",
		ResourceID: account.ID.String(),
		IPAddress:  "system",
		UserAgent:  "internal",
		Metadata: models.JSONBMap{
			"transaction_id":     entry.ID.String(),
			"amount_minor_units": amount.MinorUnits(),
			"source_type":        source.SourceType(),
			"source_masked":      source.MaskedNumber(),
		},
	}); err != nil {
		s.logger.Error("failed to create audit log", "error", err, "action", models.AuditActionAccountFunded)
	}

	s.metrics.IncrementCounter("funding_completed", map[string]string{
		"source_type": source.SourceType(),
	})
	s.metrics.RecordProcessingTime("funding", time.Since(started))
	value, _ := amount.Decimal().Float64()
	s.metrics.RecordGauge("funding_amount", value, nil)

	s.logger.Info("account funded",
		"account_id", account.ID,
		"transaction_id", entry.ID,
		"amount", amount.String(),
		"source_type", source.SourceType())

	return entry, newBalance, nil
}

// GetAccountByID retrieves an account, scoped to its owner. A foreign
// account is reported as not found so callers cannot probe for existence.
func (s *ledgerService) GetAccountByID(accountID, userID uuid.UUID) (*models.Account, error) {
	return s.getOwnedAccount(accountID, userID)
}

// GetUserAccounts retrieves all accounts for a user
func (s *ledgerService) GetUserAccounts(userID uuid.UUID) ([]models.Account, error) {
	accounts, err := s.accountRepo.GetByUserID(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user accounts: %w", err)
	}
	return accounts, nil
}

// GetAccountTransactions lists ledger entries for an owned account, newest
// first. Listing works for closed accounts too; only funding is blocked.
func (s *ledgerService) GetAccountTransactions(accountID, userID uuid.UUID, offset, limit int) ([]models.Transaction, int64, error) {
	if _, err := s.getOwnedAccount(accountID, userID); err != nil {
		return nil, 0, err
	}

	transactions, total, err := s.transactionRepo.GetByAccountID(accountID, offset, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get transactions: %w", err)
	}

	return transactions, total, nil
}

func (s *ledgerService) getOwnedAccount(accountID, userID uuid.UUID) (*models.Account, error) {
	account, err := s.accountRepo.GetByID(accountID)
	if err != nil {
		if errors.Is(err, repositories.ErrAccountNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to get account: %w", err)
	}

	if account.UserID != userID {
		return nil, ErrAccountNotFound
	}

	return account, nil
}

func (s *ledgerService) lockFor(accountID uuid.UUID) *sync.Mutex {
	lock, _ := s.fundingLocks.LoadOrStore(accountID, &sync.Mutex{})
	return lock.(*sync.Mutex)
}
