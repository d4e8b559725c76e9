package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

func rateLimitedRequest(t *testing.T, limiter *RateLimiter, path string) int {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, path, nil)
	req.Header.Set(echo.HeaderXRealIP, "203.0.113.7")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath(path)

	handler := limiter.RateLimit()(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	require.NoError(t, handler(c))
	return rec.Code
}

func TestLoginLimitUnaffectedByDefaultTraffic(t *testing.T) {
	limiter := NewRateLimiter()

	// Ordinary browsing must not eat into the strict login budget
	for i := 0; i < 10; i++ {
		require.Equal(t, http.StatusOK, rateLimitedRequest(t, limiter, "/api/users/profile"))
	}

	// Login burst is 5; the sixth rapid attempt is rejected
	for i := 0; i < 5; i++ {
		require.Equal(t, http.StatusOK, rateLimitedRequest(t, limiter, "/api/auth/login"),
			"login attempt %d within burst", i+1)
	}
	require.Equal(t, http.StatusTooManyRequests, rateLimitedRequest(t, limiter, "/api/auth/login"))
}

func TestUploadsExemptFromRateLimit(t *testing.T) {
	limiter := NewRateLimiter()

	for i := 0; i < 50; i++ {
		require.Equal(t, http.StatusOK, rateLimitedRequest(t, limiter, "/uploads/profiles/p.png"))
	}
}
