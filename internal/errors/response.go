package errors

import (
	"fmt"
	"net/http"
)

// ErrorResponse is the envelope every failed request returns. Handlers never
// build it by hand; they go through NewErrorResponse so the code, message and
// trace id stay consistent.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail carries the client-facing error payload.
type ErrorDetail struct {
	Code    string   `json:"code"`
	Message string   `json:"message"`
	Details []string `json:"details,omitempty"`
	TraceID string   `json:"trace_id"`
}

// ErrorOption customizes an error response at construction time.
type ErrorOption func(*ErrorResponse)

// WithDetails replaces the detail list. A later WithDetails wins over an
// earlier one.
func WithDetails(details ...string) ErrorOption {
	return func(er *ErrorResponse) {
		er.Error.Details = details
	}
}

// WithMessage overrides the catalog message for the code.
func WithMessage(message string) ErrorOption {
	return func(er *ErrorResponse) {
		er.Error.Message = message
	}
}

// NewErrorResponse builds a response for the given code with its catalog
// message and the request's trace id.
func NewErrorResponse(code ErrorCode, traceID string, opts ...ErrorOption) *ErrorResponse {
	response := &ErrorResponse{
		Error: ErrorDetail{
			Code:    string(code),
			Message: GetErrorMessage(code),
			TraceID: traceID,
			Details: []string{},
		},
	}

	for _, opt := range opts {
		opt(response)
	}

	return response
}

// NewValidationError builds a VALIDATION_001 response from per-field
// messages. Detail order follows map iteration and is not stable.
func NewValidationError(fieldErrors map[string]string, traceID string) *ErrorResponse {
	details := make([]string, 0, len(fieldErrors))
	for field, message := range fieldErrors {
		details = append(details, fmt.Sprintf("%s: %s", field, message))
	}

	return NewErrorResponse(ValidationGeneral, traceID, WithDetails(details...))
}

// WrapSystemError hides an internal error behind the generic SYSTEM_001
// message. The original error comes back to the caller for logging; nothing
// about it reaches the client beyond the trace id.
func WrapSystemError(err error, traceID string) (*ErrorResponse, error) {
	return NewErrorResponse(SystemInternalError, traceID), err
}

// httpStatusByCode maps each error code to its HTTP status. Codes absent
// here answer 500.
var httpStatusByCode = map[ErrorCode]int{
	ValidationGeneral:       http.StatusBadRequest,
	ValidationRequiredField: http.StatusBadRequest,
	ValidationInvalidFormat: http.StatusBadRequest,
	ValidationOutOfRange:    http.StatusBadRequest,
	ValidationInvalidEmail:  http.StatusBadRequest,
	FundingInvalidAmount:    http.StatusBadRequest,
	AccountInvalidType:      http.StatusBadRequest,

	AuthInvalidCredentials: http.StatusUnauthorized,
	AuthMissingToken:       http.StatusUnauthorized,
	AuthExpiredToken:       http.StatusUnauthorized,
	AuthInvalidTokenFormat: http.StatusUnauthorized,

	AuthInsufficientPermission: http.StatusForbidden,
	AuthAccountLocked:          http.StatusForbidden,

	AccountNotFound: http.StatusNotFound,

	AuthEmailAlreadyExists: http.StatusConflict,

	// Semantic failures on well-formed requests.
	AccountClosed:            http.StatusUnprocessableEntity,
	FundingInvalidInstrument: http.StatusUnprocessableEntity,

	SystemRateLimitExceeded:  http.StatusTooManyRequests,
	SystemServiceUnavailable: http.StatusServiceUnavailable,
}

// GetHTTPStatus maps an error code to its HTTP status.
func GetHTTPStatus(code ErrorCode) int {
	if status, ok := httpStatusByCode[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// GetHTTPStatus returns the HTTP status for this response's code.
func (er *ErrorResponse) GetHTTPStatus() int {
	return GetHTTPStatus(ErrorCode(er.Error.Code))
}

func (er *ErrorResponse) String() string {
	return fmt.Sprintf("[%s] %s (trace: %s)", er.Error.Code, er.Error.Message, er.Error.TraceID)
}
