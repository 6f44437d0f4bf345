package validation

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validator wraps the go-playground validator with the request tags the
// account DTOs use. Amount strings deliberately carry no custom tag; they
// are parsed by the money package so a malformed amount surfaces as a
// funding error, not a generic validation failure.
type Validator struct {
	validate *validator.Validate
}

// GetValidate returns the underlying validator.Validate instance for use with Echo
func (v *Validator) GetValidate() *validator.Validate {
	return v.validate
}

// singleton instance of the validator
var instance *Validator

// GetValidator returns the singleton validator instance
func GetValidator() *Validator {
	if instance == nil {
		instance = NewValidator()
	}
	return instance
}

// NewValidator creates a new validator instance with custom rules and configuration
func NewValidator() *Validator {
	v := validator.New()

	_ = v.RegisterValidation("account_type", validateAccountType)
	_ = v.RegisterValidation("funding_source_type", validateFundingSourceType)

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &Validator{validate: v}
}

// validateAccountType validates that account type is one of the allowed types
func validateAccountType(fl validator.FieldLevel) bool {
	accountType := fl.Field().String()
	validTypes := map[string]bool{
		"checking": true,
		"savings":  true,
	}
	return validTypes[accountType]
}

// validateFundingSourceType validates the funding source discriminator
func validateFundingSourceType(fl validator.FieldLevel) bool {
	sourceType := fl.Field().String()
	validTypes := map[string]bool{
		"card": true,
		"bank": true,
	}
	return validTypes[sourceType]
}
