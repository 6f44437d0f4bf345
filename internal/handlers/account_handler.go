package handlers

import (
	"net/http"
	"strconv"

	stderrors "errors"

	"bankledger/internal/dto"
	"bankledger/internal/errors"
	"bankledger/internal/funding"
	"bankledger/internal/money"
	"bankledger/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// AccountHandler handles account ledger HTTP requests
type AccountHandler struct {
	ledgerService services.LedgerServiceInterface
}

// NewAccountHandler creates a new account handler
func NewAccountHandler(ledgerService services.LedgerServiceInterface) *AccountHandler {
	return &AccountHandler{
		ledgerService: ledgerService,
	}
}

// CreateAccount opens a new account for the authenticated user
// @Summary Create a new account
// @Description Open a new account (checking or savings) with a zero starting balance
// @Tags Accounts
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.CreateAccountRequest true "Account creation details"
// @Success 201 {object} dto.CreateAccountResponse "Account created successfully"
// @Failure 400 {object} errors.ErrorResponse "VALIDATION_001 - Invalid request body, ACCOUNT_004 - Invalid account type"
// @Failure 401 {object} errors.ErrorResponse "AUTH_002 - Missing or invalid authentication"
// @Failure 500 {object} errors.ErrorResponse "ACCOUNT_003 - Number issuance exhausted, SYSTEM_001 - Internal server error"
// @Router /accounts [post]
func (h *AccountHandler) CreateAccount(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	var req dto.CreateAccountRequest
	if err := c.Bind(&req); err != nil {
		return SendError(c, errors.ValidationGeneral, errors.WithDetails("Invalid request body"))
	}

	if err := c.Validate(req); err != nil {
		return SendError(c, errors.ValidationGeneral, errors.WithDetails(err.Error()))
	}

	account, err := h.ledgerService.CreateAccount(userID, req.AccountType)
	if err != nil {
		switch err {
		case services.ErrInvalidAccountType:
			return SendError(c, errors.AccountInvalidType)
		case services.ErrIssuerExhausted:
			return SendError(c, errors.AccountIssuerExhausted)
		case services.ErrUserNotFound:
			return SendError(c, errors.AuthMissingToken)
		}
		return SendSystemError(c, err)
	}

	return c.JSON(http.StatusCreated, dto.CreateAccountResponse{
		Account: account,
		Message: "Account created successfully",
	})
}

// GetAccount retrieves a specific account by ID
// @Summary Get account by ID
// @Description Retrieve detailed information about a specific account belonging to the authenticated user
// @Tags Accounts
// @Security BearerAuth
// @Produce json
// @Param accountId path string true "Account ID (UUID)"
// @Success 200 {object} models.Account "Account details"
// @Failure 400 {object} errors.ErrorResponse "VALIDATION_003 - Invalid account ID format"
// @Failure 401 {object} errors.ErrorResponse "AUTH_002 - Missing or invalid authentication"
// @Failure 404 {object} errors.ErrorResponse "ACCOUNT_001 - Account not found"
// @Failure 500 {object} errors.ErrorResponse "SYSTEM_001 - Internal server error"
// @Router /accounts/{accountId} [get]
func (h *AccountHandler) GetAccount(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	accountID, err := uuid.Parse(c.Param("accountId"))
	if err != nil {
		return SendError(c, errors.ValidationInvalidFormat, errors.WithDetails("Invalid account ID"))
	}

	account, err := h.ledgerService.GetAccountByID(accountID, userID)
	if err != nil {
		if err == services.ErrAccountNotFound {
			return SendError(c, errors.AccountNotFound)
		}
		return SendSystemError(c, err)
	}

	return c.JSON(http.StatusOK, account)
}

// GetUserAccounts retrieves all accounts for the authenticated user
// @Summary Get all user accounts
// @Description Retrieve all accounts belonging to the authenticated user
// @Tags Accounts
// @Security BearerAuth
// @Produce json
// @Success 200 {object} dto.AccountListResponse "List of user's accounts"
// @Failure 401 {object} errors.ErrorResponse "AUTH_002 - Missing or invalid authentication"
// @Failure 500 {object} errors.ErrorResponse "SYSTEM_001 - Internal server error"
// @Router /accounts [get]
func (h *AccountHandler) GetUserAccounts(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	accounts, err := h.ledgerService.GetUserAccounts(userID)
	if err != nil {
		return SendSystemError(c, err)
	}

	return c.JSON(http.StatusOK, dto.AccountListResponse{
		Accounts: accounts,
		Total:    len(accounts),
	})
}

// FundAccount credits an account from an external funding source
// @Summary Fund an account
// @Description Deposit funds into an account from a card or bank funding source
// @Tags Accounts
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param accountId path string true "Account ID (UUID)"
// @Param request body dto.FundAccountRequest true "Funding details"
// @Success 201 {object} dto.FundAccountResponse "Deposit recorded successfully"
// @Failure 400 {object} errors.ErrorResponse "VALIDATION_001 - Invalid request body, FUNDING_001 - Invalid amount"
// @Failure 401 {object} errors.ErrorResponse "AUTH_002 - Missing or invalid authentication"
// @Failure 404 {object} errors.ErrorResponse "ACCOUNT_001 - Account not found"
// @Failure 422 {object} errors.ErrorResponse "ACCOUNT_002 - Account is closed, FUNDING_002 - Invalid funding instrument"
// @Failure 500 {object} errors.ErrorResponse "SYSTEM_001 - Internal server error"
// @Router /accounts/{accountId}/fund [post]
func (h *AccountHandler) FundAccount(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	accountID, err := uuid.Parse(c.Param("accountId"))
	if err != nil {
		return SendError(c, errors.ValidationInvalidFormat, errors.WithDetails("Invalid account ID"))
	}

	var req dto.FundAccountRequest
	if err := c.Bind(&req); err != nil {
		return SendError(c, errors.ValidationGeneral, errors.WithDetails("Invalid request body"))
	}

	if err := c.Validate(req); err != nil {
		return SendError(c, errors.ValidationGeneral, errors.WithDetails(err.Error()))
	}

	amount, err := money.Parse(req.Amount)
	if err != nil {
		return SendError(c, errors.FundingInvalidAmount)
	}

	source, err := funding.New(req.FundingSource.Type, req.FundingSource.AccountNumber, req.FundingSource.RoutingNumber)
	if err != nil {
		return SendError(c, errors.FundingInvalidInstrument, errors.WithDetails(err.Error()))
	}

	entry, balance, err := h.ledgerService.FundAccount(userID, accountID, amount, source, req.Description)
	if err != nil {
		return h.mapFundingErr(c, err)
	}

	return c.JSON(http.StatusCreated, dto.FundAccountResponse{
		Transaction: entry,
		Balance:     balance.String(),
		Message:     "Deposit recorded successfully",
	})
}

// GetTransactions lists ledger entries for an account, newest first
// @Summary Get account transactions
// @Description Retrieve paginated ledger entries for an account belonging to the authenticated user
// @Tags Accounts
// @Security BearerAuth
// @Produce json
// @Param accountId path string true "Account ID (UUID)"
// @Param offset query int false "Pagination offset" default(0)
// @Param limit query int false "Number of results (max 100)" default(20)
// @Success 200 {object} dto.TransactionListResponse "Ledger entries with pagination"
// @Failure 400 {object} errors.ErrorResponse "VALIDATION_003 - Invalid account ID format"
// @Failure 401 {object} errors.ErrorResponse "AUTH_002 - Missing or invalid authentication"
// @Failure 404 {object} errors.ErrorResponse "ACCOUNT_001 - Account not found"
// @Failure 500 {object} errors.ErrorResponse "SYSTEM_001 - Internal server error"
// @Router /accounts/{accountId}/transactions [get]
func (h *AccountHandler) GetTransactions(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	accountID, err := uuid.Parse(c.Param("accountId"))
	if err != nil {
		return SendError(c, errors.ValidationInvalidFormat, errors.WithDetails("Invalid account ID"))
	}

	offset, _ := strconv.Atoi(c.QueryParam("offset"))
	if offset < 0 {
		offset = 0
	}

	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	transactions, total, err := h.ledgerService.GetAccountTransactions(accountID, userID, offset, limit)
	if err != nil {
		if err == services.ErrAccountNotFound {
			return SendError(c, errors.AccountNotFound)
		}
		return SendSystemError(c, err)
	}

	return c.JSON(http.StatusOK, dto.TransactionListResponse{
		Transactions: transactions,
		Total:        total,
		Offset:       offset,
		Limit:        limit,
	})
}

func (h *AccountHandler) mapFundingErr(c echo.Context, err error) error {
	switch {
	case err == services.ErrAccountNotFound:
		return SendError(c, errors.AccountNotFound)
	case err == services.ErrAccountClosed:
		return SendError(c, errors.AccountClosed)
	case stderrors.Is(err, money.ErrInvalidAmount):
		return SendError(c, errors.FundingInvalidAmount)
	case stderrors.Is(err, funding.ErrInvalidInstrument), stderrors.Is(err, funding.ErrMalformedInstrument):
		return SendError(c, errors.FundingInvalidInstrument, errors.WithDetails(err.Error()))
	}
	return SendSystemError(c, err)
}
