package services

import (
	"fmt"
	"log/slog"
	"strings"

	"bankledger/internal/funding"
	"bankledger/internal/models"
	"bankledger/internal/money"
	"bankledger/internal/repositories"

	"github.com/brianvoe/gofakeit/v6"
)

// demoPassword is the shared credential for generated demo users so the API
// can be exercised by hand after seeding.
const demoPassword = "DemoPassword123!"

// demoCardNumber passes the Luhn check, so seeded deposits go through the
// same funding path as real requests.
const demoCardNumber = "4242424242424242"

// DemoSeeder populates the database with generated users, accounts, and
// deposits. Development convenience only; it drives the real service layer
// rather than inserting rows directly.
type DemoSeeder struct {
	userRepo        repositories.UserRepositoryInterface
	ledgerService   LedgerServiceInterface
	passwordService PasswordServiceInterface
	logger          *slog.Logger
}

// NewDemoSeeder creates a demo data seeder
func NewDemoSeeder(
	userRepo repositories.UserRepositoryInterface,
	ledgerService LedgerServiceInterface,
	passwordService PasswordServiceInterface,
	logger *slog.Logger,
) *DemoSeeder {
	return &DemoSeeder{
		userRepo:        userRepo,
		ledgerService:   ledgerService,
		passwordService: passwordService,
		logger:          logger,
	}
}

// Seed creates userCount demo users, each with a checking and a savings
// account and a handful of card deposits. Users whose generated email already
// exists are skipped so reseeding is safe.
func (s *DemoSeeder) Seed(userCount int) error {
	if userCount <= 0 {
		userCount = 5
	}

	hash, err := s.passwordService.HashPassword(demoPassword)
	if err != nil {
		return fmt.Errorf("failed to hash demo password: %w", err)
	}

	created := 0
	for i := 0; i < userCount; i++ {
		user := &models.User{
			Email:        strings.ToLower(gofakeit.Email()),
			PasswordHash: hash,
			FirstName:    gofakeit.FirstName(),
			LastName:     gofakeit.LastName(),
			Role:         models.RoleCustomer,
		}

		if existing, err := s.userRepo.GetByEmail(user.Email); err == nil && existing != nil {
			continue
		}

		if err := s.userRepo.Create(user); err != nil {
			s.logger.Warn("Failed to create demo user",
				"email", user.Email,
				"error", err.Error(),
			)
			continue
		}

		if err := s.seedAccounts(user); err != nil {
			s.logger.Warn("Failed to seed accounts for demo user",
				"user_id", user.ID,
				"error", err.Error(),
			)
			continue
		}

		created++
	}

	s.logger.Info("Demo data seeded",
		"users_created", created,
		"demo_password", demoPassword,
	)
	return nil
}

func (s *DemoSeeder) seedAccounts(user *models.User) error {
	for _, accountType := range []string{models.AccountTypeChecking, models.AccountTypeSavings} {
		account, err := s.ledgerService.CreateAccount(user.ID, accountType)
		if err != nil {
			return fmt.Errorf("failed to create %s account: %w", accountType, err)
		}

		deposits := gofakeit.Number(1, 4)
		for i := 0; i < deposits; i++ {
			amount, err := money.Parse(fmt.Sprintf("%.2f", gofakeit.Price(5, 500)))
			if err != nil {
				return err
			}

			source := funding.CardSource{AccountNumber: demoCardNumber}
			if _, _, err := s.ledgerService.FundAccount(user.ID, account.ID, amount, source, gofakeit.ProductName()); err != nil {
				return fmt.Errorf("failed to seed deposit: %w", err)
			}
		}
	}

	return nil
}
