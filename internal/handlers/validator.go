package handlers

import (
	"bankledger/internal/validation"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// CustomValidator implements echo.Validator interface
type CustomValidator struct {
	validator *validator.Validate
}

// NewValidator creates a new custom validator backed by the shared
// validation rules (account number, account type, funding source tags)
func NewValidator() echo.Validator {
	return &CustomValidator{validator: validation.GetValidator().GetValidate()}
}

// Validate implements the echo.Validator interface. Validator errors pass
// through untouched so the central error handler can render per-field
// messages.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}