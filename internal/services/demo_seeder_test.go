package services

import (
	"errors"
	"log/slog"
	"testing"

	"bankledger/internal/models"
	"bankledger/internal/money"
	"bankledger/internal/repositories"
	"bankledger/internal/repositories/repository_mocks"
	"bankledger/internal/services/service_mocks"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
)

type DemoSeederTestSuite struct {
	suite.Suite
	ctrl     *gomock.Controller
	userRepo *repository_mocks.MockUserRepositoryInterface
	seeder   *DemoSeeder

	accountRepo     *repository_mocks.MockAccountRepositoryInterface
	transactionRepo *repository_mocks.MockTransactionRepositoryInterface
	auditRepo       *repository_mocks.MockAuditLogRepositoryInterface
}

func TestDemoSeederTestSuite(t *testing.T) {
	suite.Run(t, new(DemoSeederTestSuite))
}

func (s *DemoSeederTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.userRepo = repository_mocks.NewMockUserRepositoryInterface(s.ctrl)
	s.accountRepo = repository_mocks.NewMockAccountRepositoryInterface(s.ctrl)
	s.transactionRepo = repository_mocks.NewMockTransactionRepositoryInterface(s.ctrl)
	s.auditRepo = repository_mocks.NewMockAuditLogRepositoryInterface(s.ctrl)

	metrics := service_mocks.NewMockMetricsRecorderInterface(s.ctrl)
	metrics.EXPECT().IncrementCounter(gomock.Any(), gomock.Any()).AnyTimes()
	metrics.EXPECT().RecordProcessingTime(gomock.Any(), gomock.Any()).AnyTimes()
	metrics.EXPECT().RecordGauge(gomock.Any(), gomock.Any(), gomock.Any()).AnyTimes()

	ledger := NewLedgerService(
		s.accountRepo,
		s.transactionRepo,
		s.userRepo,
		s.auditRepo,
		NewNumberIssuer(),
		metrics,
		slog.Default(),
	)

	s.seeder = NewDemoSeeder(s.userRepo, ledger, NewPasswordService(), slog.Default())
}

func (s *DemoSeederTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *DemoSeederTestSuite) TestSeed_CreatesUsersAccountsAndDeposits() {
	// No generated email exists yet
	s.userRepo.EXPECT().GetByEmail(gomock.Any()).Return(nil, repositories.ErrUserNotFound).AnyTimes()

	s.userRepo.EXPECT().Create(gomock.Any()).DoAndReturn(func(u *models.User) error {
		u.ID = uuid.New()
		s.NotEmpty(u.Email)
		s.NotEmpty(u.PasswordHash)
		s.Equal(models.RoleCustomer, u.Role)
		return nil
	}).Times(2)

	// Ledger path for seeded accounts
	s.userRepo.EXPECT().GetByID(gomock.Any()).DoAndReturn(func(id uuid.UUID) (*models.User, error) {
		return &models.User{ID: id, Email: "seed@example.com", FirstName: "Seed", LastName: "User", Role: models.RoleCustomer}, nil
	}).AnyTimes()

	storedAccounts := make(map[uuid.UUID]*models.Account)

	s.accountRepo.EXPECT().CheckAccountNumberExists(gomock.Any()).Return(false, nil).AnyTimes()
	s.accountRepo.EXPECT().CountActive().DoAndReturn(func() (int64, error) {
		return int64(len(storedAccounts)), nil
	}).AnyTimes()
	s.accountRepo.EXPECT().Create(gomock.Any()).DoAndReturn(func(a *models.Account) error {
		a.ID = uuid.New()
		copied := *a
		storedAccounts[a.ID] = &copied
		return nil
	}).Times(4)

	s.accountRepo.EXPECT().GetByID(gomock.Any()).DoAndReturn(func(id uuid.UUID) (*models.Account, error) {
		if a, ok := storedAccounts[id]; ok {
			return a, nil
		}
		return nil, repositories.ErrAccountNotFound
	}).AnyTimes()

	s.accountRepo.EXPECT().ApplyDeposit(gomock.Any(), gomock.Any()).DoAndReturn(func(id uuid.UUID, entry *models.Transaction) (*models.Account, error) {
		a := storedAccounts[id]
		a.BalanceMinorUnits += entry.AmountMinorUnits
		s.True(money.FromMinorUnits(entry.AmountMinorUnits).IsPositive())
		return a, nil
	}).MinTimes(4)

	s.auditRepo.EXPECT().Create(gomock.Any()).Return(nil).AnyTimes()

	err := s.seeder.Seed(2)
	s.NoError(err)
	s.Len(storedAccounts, 4)
}

func (s *DemoSeederTestSuite) TestSeed_SkipsExistingEmails() {
	s.userRepo.EXPECT().GetByEmail(gomock.Any()).DoAndReturn(func(email string) (*models.User, error) {
		return &models.User{ID: uuid.New(), Email: email}, nil
	}).Times(3)

	err := s.seeder.Seed(3)
	s.NoError(err)
}

func (s *DemoSeederTestSuite) TestSeed_ContinuesAfterUserCreateFailure() {
	s.userRepo.EXPECT().GetByEmail(gomock.Any()).Return(nil, repositories.ErrUserNotFound).Times(2)
	s.userRepo.EXPECT().Create(gomock.Any()).Return(errors.New("insert failed")).Times(2)

	err := s.seeder.Seed(2)
	s.NoError(err)
}
