package errors

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// codesByPrefix enumerates every defined code under its family prefix. New
// codes must be added here for the catalog checks below to cover them.
var codesByPrefix = map[string][]ErrorCode{
	"AUTH_": {
		AuthInvalidCredentials,
		AuthMissingToken,
		AuthExpiredToken,
		AuthInvalidTokenFormat,
		AuthInsufficientPermission,
		AuthAccountLocked,
		AuthEmailAlreadyExists,
	},
	"VALIDATION_": {
		ValidationGeneral,
		ValidationRequiredField,
		ValidationInvalidFormat,
		ValidationOutOfRange,
		ValidationInvalidEmail,
	},
	"ACCOUNT_": {
		AccountNotFound,
		AccountClosed,
		AccountIssuerExhausted,
		AccountInvalidType,
	},
	"FUNDING_": {
		FundingInvalidAmount,
		FundingInvalidInstrument,
	},
	"SYSTEM_": {
		SystemInternalError,
		SystemDatabaseError,
		SystemServiceUnavailable,
		SystemConfigurationError,
		SystemRateLimitExceeded,
	},
}

func allErrorCodes() []ErrorCode {
	var codes []ErrorCode
	for _, family := range codesByPrefix {
		codes = append(codes, family...)
	}
	return codes
}

func TestGetErrorMessage_KnownCodes(t *testing.T) {
	cases := map[ErrorCode]string{
		AuthInvalidCredentials:   "Invalid email or password",
		AuthMissingToken:         "Authorization token is required",
		ValidationGeneral:        "Validation failed",
		AccountNotFound:          "Account not found",
		AccountClosed:            "Account is closed",
		FundingInvalidInstrument: "Funding source failed validation",
		SystemInternalError:      "An unexpected error occurred. Please contact support with trace ID",
	}

	for code, want := range cases {
		assert.Equal(t, want, GetErrorMessage(code), "message for %s", code)
	}
}

func TestGetErrorMessage_UnknownCodeGetsGenericMessage(t *testing.T) {
	assert.Equal(t, "An error occurred", GetErrorMessage("INVALID_CODE"))
}

func TestIsValidErrorCode(t *testing.T) {
	for _, code := range allErrorCodes() {
		assert.True(t, IsValidErrorCode(code), "%s should be valid", code)
	}

	for _, code := range []ErrorCode{"INVALID_001", "UNKNOWN_CODE", "", "AUTH_999"} {
		assert.False(t, IsValidErrorCode(code), "%q should be invalid", code)
	}
}

func TestErrorCodeCatalog(t *testing.T) {
	seen := make(map[ErrorCode]bool)
	for prefix, family := range codesByPrefix {
		for _, code := range family {
			assert.False(t, seen[code], "duplicate error code %s", code)
			seen[code] = true

			assert.True(t, strings.HasPrefix(string(code), prefix),
				"%s should carry the %s prefix", code, prefix)

			// Each code needs its own catalog message; the generic
			// fallback means the catalog entry is missing.
			msg := GetErrorMessage(code)
			assert.NotEmpty(t, msg, "no message for %s", code)
			assert.NotEqual(t, "An error occurred", msg, "no catalog entry for %s", code)
		}
	}
}
