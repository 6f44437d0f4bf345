package handlers

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// ErrUnauthorized signals that the request reached a protected handler
// without a usable identity in its context.
var ErrUnauthorized = fmt.Errorf("unauthorized")

// getUserIDFromContext reads the authenticated user id placed in the
// context by the auth middleware.
func getUserIDFromContext(c echo.Context) (uuid.UUID, error) {
	userID, ok := c.Get("user_id").(uuid.UUID)
	if !ok {
		return uuid.UUID{}, ErrUnauthorized
	}
	return userID, nil
}

// getClientIP resolves the caller address for audit records. Only the
// first X-Forwarded-For entry counts; later hops are proxy-appended.
func getClientIP(c echo.Context) string {
	if xff := c.Request().Header.Get("X-Forwarded-For"); xff != "" {
		return strings.TrimSpace(strings.Split(xff, ",")[0])
	}

	if xri := c.Request().Header.Get("X-Real-IP"); xri != "" {
		return xri
	}

	return c.Request().RemoteAddr
}
