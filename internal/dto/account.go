package dto

import (
	"bankledger/internal/models"
)

// Account Request DTOs

// CreateAccountRequest represents the request payload for opening a new account
type CreateAccountRequest struct {
	AccountType string `json:"account_type" validate:"required,account_type"`
}

// FundingSourcePayload carries the funding instrument presented with a
// funding request. RoutingNumber is only meaningful for bank sources.
type FundingSourcePayload struct {
	Type          string `json:"type" validate:"required,funding_source_type"`
	AccountNumber string `json:"account_number" validate:"required"`
	RoutingNumber string `json:"routing_number,omitempty"`
}

// FundAccountRequest represents the request payload for funding an account.
// Amount is a decimal string; it is parsed into exact minor units before any
// arithmetic happens.
type FundAccountRequest struct {
	Amount        string               `json:"amount" validate:"required"`
	Description   string               `json:"description,omitempty" validate:"omitempty,max=255"`
	FundingSource FundingSourcePayload `json:"funding_source" validate:"required"`
}

// Account Response DTOs

// CreateAccountResponse represents the response after opening an account
type CreateAccountResponse struct {
	Account *models.Account `json:"account"`
	Message string          `json:"message"`
}

// AccountListResponse represents a list of accounts
type AccountListResponse struct {
	Accounts []models.Account `json:"accounts"`
	Total    int              `json:"total"`
}

// FundAccountResponse represents the response after a successful deposit
type FundAccountResponse struct {
	Transaction *models.Transaction `json:"transaction"`
	Balance     string              `json:"balance"`
	Message     string              `json:"message"`
}

// TransactionListResponse represents a paginated list of ledger entries
type TransactionListResponse struct {
	Transactions []models.Transaction `json:"transactions"`
	Total        int64                `json:"total"`
	Offset       int                  `json:"offset"`
	Limit        int                  `json:"limit"`
}
