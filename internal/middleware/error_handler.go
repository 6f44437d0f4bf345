package middleware

import (
	stderrors "errors"
	"fmt"
	"log/slog"
	"net/http"
	"reflect"
	"strconv"

	"bankledger/internal/errors"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var apiErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "api_errors_total",
		Help: "Total number of API errors by code, endpoint, and status",
	},
	[]string{"code", "endpoint", "status"},
)

// CustomHTTPErrorHandler is the catch-all error handler registered on the
// Echo instance. Handlers normally respond through SendError themselves;
// anything that escapes them (binder failures, echo.HTTPError from the
// router, panics re-raised as errors) lands here and still gets the
// standard code-plus-trace-id envelope.
func CustomHTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	traceID := GetTraceID(c)
	if traceID == "" {
		traceID = "unknown"
	}

	response, httpStatus := buildErrorResponse(err, traceID)

	logLevel := slog.LevelWarn
	if httpStatus >= 500 {
		logLevel = slog.LevelError
	}
	slog.Log(c.Request().Context(), logLevel, "HTTP error occurred",
		"trace_id", traceID,
		"error_code", response.Error.Code,
		"status", httpStatus,
		"message", response.Error.Message,
		"path", c.Request().URL.Path,
		"method", c.Request().Method,
		"error", err.Error(),
	)

	apiErrorsTotal.WithLabelValues(response.Error.Code, c.Path(), strconv.Itoa(httpStatus)).Inc()

	if sendErr := c.JSON(httpStatus, response); sendErr != nil {
		slog.Error("Failed to send error response",
			"trace_id", traceID,
			"error", sendErr.Error(),
		)
	}
}

// buildErrorResponse classifies an escaped error into a response body and
// HTTP status. Unrecognized errors never leak their text to the client.
func buildErrorResponse(err error, traceID string) (*errors.ErrorResponse, int) {
	var echoErr *echo.HTTPError
	if stderrors.As(err, &echoErr) {
		code := statusToErrorCode(echoErr.Code)
		response := errors.NewErrorResponse(code, traceID,
			errors.WithMessage(fmt.Sprintf("%v", echoErr.Message)))
		return response, echoErr.Code
	}

	var validationErrs validator.ValidationErrors
	if stderrors.As(err, &validationErrs) {
		fieldErrors := make(map[string]string, len(validationErrs))
		for _, fieldErr := range validationErrs {
			fieldErrors[fieldErr.Field()] = formatValidationError(fieldErr)
		}
		return errors.NewValidationError(fieldErrors, traceID), http.StatusBadRequest
	}

	response, _ := errors.WrapSystemError(err, traceID)
	return response, response.GetHTTPStatus()
}

// statusToErrorCode picks the domain error code for a bare echo.HTTPError,
// which carries only an HTTP status.
func statusToErrorCode(status int) errors.ErrorCode {
	switch status {
	case http.StatusBadRequest, http.StatusMethodNotAllowed, http.StatusUnprocessableEntity:
		return errors.ValidationGeneral
	case http.StatusUnauthorized:
		return errors.AuthMissingToken
	case http.StatusForbidden:
		return errors.AuthInsufficientPermission
	case http.StatusNotFound:
		return errors.AccountNotFound
	case http.StatusTooManyRequests:
		return errors.SystemRateLimitExceeded
	case http.StatusServiceUnavailable:
		return errors.SystemServiceUnavailable
	default:
		return errors.SystemInternalError
	}
}

// simpleValidationMessages covers the tags whose message needs no parameter.
var simpleValidationMessages = map[string]string{
	"required":            "is required",
	"email":               "must be a valid email address",
	"alpha":               "must contain only alphabetic characters",
	"alphanum":            "must contain only alphanumeric characters",
	"numeric":             "must be a valid number",
	"uuid":                "must be a valid UUID",
	"account_type":        "must be a valid account type (checking, savings)",
	"funding_source_type": "must be a valid funding source type (card, bank)",
}

// formatValidationError renders a validator.FieldError as the message the
// client sees next to the field name.
func formatValidationError(fe validator.FieldError) string {
	if msg, ok := simpleValidationMessages[fe.Tag()]; ok {
		return msg
	}

	switch fe.Tag() {
	case "min":
		return boundMessage(fe, "at least")
	case "max":
		return boundMessage(fe, "at most")
	case "len":
		return fmt.Sprintf("must be exactly %s characters long", fe.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "gte":
		return fmt.Sprintf("must be greater than or equal to %s", fe.Param())
	case "lt":
		return fmt.Sprintf("must be less than %s", fe.Param())
	case "lte":
		return fmt.Sprintf("must be less than or equal to %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	default:
		return fmt.Sprintf("failed validation for '%s'", fe.Tag())
	}
}

// boundMessage phrases min/max by the field's kind: strings talk about
// length, numbers about value.
func boundMessage(fe validator.FieldError, bound string) string {
	switch fe.Kind() {
	case reflect.String:
		return fmt.Sprintf("must be %s %s characters long", bound, fe.Param())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Float32, reflect.Float64:
		return fmt.Sprintf("must be %s %s", bound, fe.Param())
	default:
		return fmt.Sprintf("must be %s length/value of %s", bound, fe.Param())
	}
}
