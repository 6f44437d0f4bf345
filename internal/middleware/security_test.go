package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runSecured(t *testing.T, handler echo.HandlerFunc) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/accounts", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, SecurityHeaders()(handler)(c))
	return rec
}

func TestSecurityHeaders_SetsEveryHeader(t *testing.T) {
	rec := runSecured(t, func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	assert.Equal(t, http.StatusOK, rec.Code)
	for name, value := range securityHeaders {
		assert.Equal(t, value, rec.Header().Get(name), "header %s", name)
	}
}

func TestSecurityHeaders_BalancesAreNeverCacheable(t *testing.T) {
	rec := runSecured(t, func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"balance": "100.00"})
	})

	assert.Equal(t, "no-store, no-cache, must-revalidate, private", rec.Header().Get("Cache-Control"))
	assert.Equal(t, "no-cache", rec.Header().Get("Pragma"))
	assert.Equal(t, "0", rec.Header().Get("Expires"))
}

func TestSecurityHeaders_CallsNext(t *testing.T) {
	nextCalled := false
	runSecured(t, func(c echo.Context) error {
		nextCalled = true
		return c.NoContent(http.StatusNoContent)
	})

	assert.True(t, nextCalled)
}

func TestSecurityHeaders_AppliedOnErrorsToo(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/accounts", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := SecurityHeaders()(func(c echo.Context) error {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "not found"})
	})

	require.NoError(t, handler(c))
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
}
