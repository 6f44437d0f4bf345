package repositories

import (
	"testing"
	"time"

	"bankledger/internal/database"
	"bankledger/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
)

// TransactionRepositorySuite defines the test suite for TransactionRepository
type TransactionRepositorySuite struct {
	suite.Suite
	db          *database.DB
	repo        TransactionRepositoryInterface
	testAccount *models.Account
}

// SetupTest runs before each test in the suite
func (s *TransactionRepositorySuite) SetupTest() {
	s.db = database.SetupTestDB(s.T())
	s.repo = NewTransactionRepository(s.db.DB)

	user := database.CreateTestUser(s.T(), s.db, "txtest@example.com")
	s.testAccount = database.CreateTestAccount(s.T(), s.db, user, models.AccountTypeChecking)
}

// TearDownTest runs after each test in the suite
func (s *TransactionRepositorySuite) TearDownTest() {
	database.CleanupTestDB(s.T(), s.db)
}

// TestTransactionRepositorySuite runs the test suite
func TestTransactionRepositorySuite(t *testing.T) {
	suite.Run(t, new(TransactionRepositorySuite))
}

func (s *TransactionRepositorySuite) newDeposit(amount int64, description string) *models.Transaction {
	return &models.Transaction{
		AccountID:        s.testAccount.ID,
		Kind:             models.TransactionKindDeposit,
		AmountMinorUnits: amount,
		Description:      description,
	}
}

func (s *TransactionRepositorySuite) TestCreate() {
	entry := s.newDeposit(1000, "Deposit via card ••••4242")

	err := s.repo.Create(entry)
	s.NoError(err)
	s.NotEqual(uuid.Nil, entry.ID)
	s.NotZero(entry.Sequence)
	s.NotEmpty(entry.Reference)
	s.NotZero(entry.CreatedAt)
}

func (s *TransactionRepositorySuite) TestCreate_SequenceIsMonotonic() {
	first := s.newDeposit(100, "first")
	second := s.newDeposit(200, "second")

	s.NoError(s.repo.Create(first))
	s.NoError(s.repo.Create(second))

	s.Greater(second.Sequence, first.Sequence)
}

func (s *TransactionRepositorySuite) TestGetByID() {
	entry := s.newDeposit(500, "Deposit")
	s.NoError(s.repo.Create(entry))

	found, err := s.repo.GetByID(entry.ID)
	s.NoError(err)
	s.Equal(entry.ID, found.ID)
	s.Equal(int64(500), found.AmountMinorUnits)
}

func (s *TransactionRepositorySuite) TestGetByID_NotFound() {
	_, err := s.repo.GetByID(uuid.New())
	s.ErrorIs(err, ErrTransactionNotFound)
}

func (s *TransactionRepositorySuite) TestGetByReference() {
	entry := s.newDeposit(500, "Deposit")
	s.NoError(s.repo.Create(entry))

	found, err := s.repo.GetByReference(entry.Reference)
	s.NoError(err)
	s.Equal(entry.ID, found.ID)
}

func (s *TransactionRepositorySuite) TestGetByAccountID_NewestFirst() {
	base := time.Now().Add(-time.Hour)
	for i := 0; i < 5; i++ {
		entry := s.newDeposit(int64(100*(i+1)), "Deposit")
		entry.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		s.NoError(s.repo.Create(entry))
	}

	entries, total, err := s.repo.GetByAccountID(s.testAccount.ID, 0, 10)
	s.NoError(err)
	s.Equal(int64(5), total)
	s.Len(entries, 5)

	for i := 1; i < len(entries); i++ {
		s.False(entries[i].CreatedAt.After(entries[i-1].CreatedAt),
			"entries must be ordered newest first")
	}
	s.Equal(int64(500), entries[0].AmountMinorUnits)
}

func (s *TransactionRepositorySuite) TestGetByAccountID_TiesBrokenBySequence() {
	// Same timestamp for every entry; sequence must decide the order.
	createdAt := time.Now().Truncate(time.Second)
	for i := 0; i < 4; i++ {
		entry := s.newDeposit(int64(100*(i+1)), "Deposit")
		entry.CreatedAt = createdAt
		s.NoError(s.repo.Create(entry))
	}

	entries, _, err := s.repo.GetByAccountID(s.testAccount.ID, 0, 10)
	s.NoError(err)
	s.Len(entries, 4)

	for i := 1; i < len(entries); i++ {
		s.Greater(entries[i-1].Sequence, entries[i].Sequence,
			"ties on created_at must be broken by sequence, newest first")
	}
	s.Equal(int64(400), entries[0].AmountMinorUnits)
	s.Equal(int64(100), entries[3].AmountMinorUnits)
}

func (s *TransactionRepositorySuite) TestGetByAccountID_Pagination() {
	for i := 0; i < 7; i++ {
		s.NoError(s.repo.Create(s.newDeposit(int64(i+1), "Deposit")))
	}

	page1, total, err := s.repo.GetByAccountID(s.testAccount.ID, 0, 3)
	s.NoError(err)
	s.Equal(int64(7), total)
	s.Len(page1, 3)

	page3, total, err := s.repo.GetByAccountID(s.testAccount.ID, 6, 3)
	s.NoError(err)
	s.Equal(int64(7), total)
	s.Len(page3, 1)
}

func (s *TransactionRepositorySuite) TestGetByAccountID_EmptyAccount() {
	entries, total, err := s.repo.GetByAccountID(uuid.New(), 0, 10)
	s.NoError(err)
	s.Equal(int64(0), total)
	s.Empty(entries)
}

func (s *TransactionRepositorySuite) TestGetRecentByAccountID() {
	for i := 0; i < 5; i++ {
		s.NoError(s.repo.Create(s.newDeposit(int64(100*(i+1)), "Deposit")))
	}

	entries, err := s.repo.GetRecentByAccountID(s.testAccount.ID, 3)
	s.NoError(err)
	s.Len(entries, 3)
}

func (s *TransactionRepositorySuite) TestDescriptionStoredVerbatim() {
	// Descriptions are stored as given; escaping is the consumer's concern.
	raw := `<script>alert("x")</script> & "quotes" 'n such`
	entry := s.newDeposit(100, raw)
	s.NoError(s.repo.Create(entry))

	found, err := s.repo.GetByID(entry.ID)
	s.NoError(err)
	s.Equal(raw, found.Description)
}
