package errors

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testTraceID = "550e8400-e29b-41d4-a716-446655440000"

func TestNewErrorResponse(t *testing.T) {
	resp := NewErrorResponse(AuthInvalidCredentials, testTraceID)

	require.NotNil(t, resp)
	assert.Equal(t, "AUTH_001", resp.Error.Code)
	assert.Equal(t, "Invalid email or password", resp.Error.Message)
	assert.Equal(t, testTraceID, resp.Error.TraceID)
	assert.Empty(t, resp.Error.Details)
}

func TestNewErrorResponse_Options(t *testing.T) {
	resp := NewErrorResponse(
		AccountNotFound,
		testTraceID,
		WithMessage("No account matches the requested id"),
		WithDetails("account_id: 3f1c", "owner mismatch"),
	)

	assert.Equal(t, "ACCOUNT_001", resp.Error.Code)
	assert.Equal(t, "No account matches the requested id", resp.Error.Message)
	assert.Equal(t, []string{"account_id: 3f1c", "owner mismatch"}, resp.Error.Details)
}

func TestNewErrorResponse_LaterOptionWins(t *testing.T) {
	resp := NewErrorResponse(
		ValidationGeneral,
		testTraceID,
		WithDetails("first"),
		WithDetails("second"),
		WithMessage("first message"),
		WithMessage("second message"),
	)

	assert.Equal(t, []string{"second"}, resp.Error.Details)
	assert.Equal(t, "second message", resp.Error.Message)
}

func TestNewValidationError(t *testing.T) {
	resp := NewValidationError(map[string]string{
		"email":               "must be a valid email address",
		"amount":              "must be greater than zero",
		"fundingSource.last4": "must match the card number",
	}, testTraceID)

	assert.Equal(t, "VALIDATION_001", resp.Error.Code)
	assert.Equal(t, "Validation failed", resp.Error.Message)
	assert.Equal(t, testTraceID, resp.Error.TraceID)
	require.Len(t, resp.Error.Details, 3)
	assert.Contains(t, resp.Error.Details, "email: must be a valid email address")
	assert.Contains(t, resp.Error.Details, "amount: must be greater than zero")
	assert.Contains(t, resp.Error.Details, "fundingSource.last4: must match the card number")
}

func TestNewValidationError_NoFields(t *testing.T) {
	resp := NewValidationError(map[string]string{}, testTraceID)

	assert.Equal(t, "VALIDATION_001", resp.Error.Code)
	assert.Empty(t, resp.Error.Details)
}

func TestWrapSystemError(t *testing.T) {
	internal := errors.New(`pq: relation "transactions" does not exist`)

	resp, original := WrapSystemError(internal, testTraceID)

	assert.Equal(t, "SYSTEM_001", resp.Error.Code)
	assert.Equal(t, testTraceID, resp.Error.TraceID)
	assert.Equal(t, internal, original, "the raw error is preserved for logging")

	// Nothing about the underlying failure may leak to the client
	payload, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.NotContains(t, string(payload), "pq:")
	assert.NotContains(t, string(payload), "transactions")
}

func TestErrorResponse_JSONShape(t *testing.T) {
	resp := NewErrorResponse(ValidationGeneral, testTraceID, WithDetails("email: invalid format"))

	payload, err := json.Marshal(resp)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(payload, &decoded))

	errObj, ok := decoded["error"].(map[string]interface{})
	require.True(t, ok)
	assert.Contains(t, errObj, "code")
	assert.Contains(t, errObj, "message")
	assert.Contains(t, errObj, "trace_id")
	assert.Contains(t, errObj, "details")
}

func TestErrorResponse_JSONOmitsEmptyDetails(t *testing.T) {
	resp := NewErrorResponse(AuthInvalidCredentials, testTraceID)

	payload, err := json.Marshal(resp)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(payload, &decoded))

	errObj := decoded["error"].(map[string]interface{})
	_, hasDetails := errObj["details"]
	assert.False(t, hasDetails, "empty details must be omitted")
}

func TestGetHTTPStatus(t *testing.T) {
	tests := []struct {
		name   string
		code   ErrorCode
		status int
	}{
		{"Validation General", ValidationGeneral, http.StatusBadRequest},
		{"Validation Required Field", ValidationRequiredField, http.StatusBadRequest},
		{"Validation Invalid Email", ValidationInvalidEmail, http.StatusBadRequest},
		{"Funding Invalid Amount", FundingInvalidAmount, http.StatusBadRequest},
		{"Account Invalid Type", AccountInvalidType, http.StatusBadRequest},

		{"Auth Invalid Credentials", AuthInvalidCredentials, http.StatusUnauthorized},
		{"Auth Missing Token", AuthMissingToken, http.StatusUnauthorized},
		{"Auth Expired Token", AuthExpiredToken, http.StatusUnauthorized},
		{"Auth Invalid Token Format", AuthInvalidTokenFormat, http.StatusUnauthorized},

		{"Auth Insufficient Permission", AuthInsufficientPermission, http.StatusForbidden},
		{"Auth Account Locked", AuthAccountLocked, http.StatusForbidden},

		{"Account Not Found", AccountNotFound, http.StatusNotFound},

		{"Email Already Exists", AuthEmailAlreadyExists, http.StatusConflict},

		{"Account Closed", AccountClosed, http.StatusUnprocessableEntity},
		{"Funding Invalid Instrument", FundingInvalidInstrument, http.StatusUnprocessableEntity},

		{"System Rate Limit Exceeded", SystemRateLimitExceeded, http.StatusTooManyRequests},

		{"System Internal Error", SystemInternalError, http.StatusInternalServerError},
		{"System Database Error", SystemDatabaseError, http.StatusInternalServerError},
		{"System Configuration Error", SystemConfigurationError, http.StatusInternalServerError},
		{"Account Issuer Exhausted", AccountIssuerExhausted, http.StatusInternalServerError},

		{"System Service Unavailable", SystemServiceUnavailable, http.StatusServiceUnavailable},

		{"Unknown code falls back to 500", ErrorCode("UNKNOWN_999"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.status, GetHTTPStatus(tt.code))
		})
	}
}

func TestErrorResponse_GetHTTPStatus(t *testing.T) {
	resp := NewErrorResponse(AuthInvalidCredentials, testTraceID)
	assert.Equal(t, http.StatusUnauthorized, resp.GetHTTPStatus())
}

func TestErrorResponse_String(t *testing.T) {
	str := NewErrorResponse(AccountNotFound, testTraceID).String()

	assert.Contains(t, str, "ACCOUNT_001")
	assert.Contains(t, str, "Account not found")
	assert.Contains(t, str, testTraceID)
}
