package handlers

import (
	"net/http"

	"bankledger/internal/errors"

	"github.com/labstack/echo/v4"
)

// TraceIDContextKey is where the request id middleware stores the trace id.
const TraceIDContextKey = "trace_id"

// SuccessResponse is the envelope for successful responses. Meta carries
// pagination when a list endpoint uses it.
type SuccessResponse struct {
	Data    interface{} `json:"data,omitempty" swaggertype:"object"`
	Message string      `json:"message,omitempty"`
	Meta    interface{} `json:"meta,omitempty" swaggertype:"object"`
}

func getTraceID(c echo.Context) string {
	traceID, ok := c.Get(TraceIDContextKey).(string)
	if !ok {
		return ""
	}
	return traceID
}

// SendError writes the standard error envelope for a client or business
// error. The HTTP status comes from the error code mapping. Handlers use
// this instead of echo.NewHTTPError so every failure carries a code and
// trace id.
func SendError(c echo.Context, code errors.ErrorCode, opts ...errors.ErrorOption) error {
	errorResponse := errors.NewErrorResponse(code, getTraceID(c), opts...)
	return c.JSON(errorResponse.GetHTTPStatus(), errorResponse)
}

// SendSystemError answers 500 with the generic SYSTEM_001 envelope. The
// underlying error stays server-side.
func SendSystemError(c echo.Context, err error) error {
	errorResponse, _ := errors.WrapSystemError(err, getTraceID(c))
	return c.JSON(http.StatusInternalServerError, errorResponse)
}
