package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	"bankledger/internal/errors"

	"github.com/labstack/echo/v4"
)

// PanicRecovery converts handler panics into a SYSTEM_001 response so a
// single bad request cannot take the process down. The stack is logged,
// never sent to the client.
func PanicRecovery() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			defer func() {
				if r := recover(); r != nil {
					respondToPanic(c, r)
				}
			}()

			return next(c)
		}
	}
}

func respondToPanic(c echo.Context, recovered interface{}) {
	traceID := GetTraceID(c)
	if traceID == "" {
		traceID = "unknown"
	}

	slog.Error("Panic recovered",
		"trace_id", traceID,
		"panic", fmt.Sprintf("%v", recovered),
		"method", c.Request().Method,
		"path", c.Request().URL.Path,
		"stack", string(debug.Stack()),
	)

	resp := errors.NewErrorResponse(errors.SystemInternalError, traceID)
	if err := c.JSON(http.StatusInternalServerError, resp); err != nil {
		slog.Error("Failed to write panic response",
			"trace_id", traceID,
			"error", err.Error(),
		)
	}
}
