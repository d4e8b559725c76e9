package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndParseJWT(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	token, refreshToken, err := GenerateJWT("64f1c0a9e13db31a2c9f0b77", "admin@bdaestates.com", "admin")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	require.NotEmpty(t, refreshToken)
	require.NotEqual(t, token, refreshToken)

	claims, err := ParseJWT(token)
	require.NoError(t, err)
	require.Equal(t, "64f1c0a9e13db31a2c9f0b77", claims.UserID)
	require.Equal(t, "admin@bdaestates.com", claims.Email)
	require.Equal(t, "admin", claims.Role)

	refreshClaims, err := ParseJWT(refreshToken)
	require.NoError(t, err)
	require.Equal(t, claims.UserID, refreshClaims.UserID)
	require.Greater(t, refreshClaims.ExpiresAt, claims.ExpiresAt)
}

func TestParseJWTRejectsTamperedToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	token, _, err := GenerateJWT("64f1c0a9e13db31a2c9f0b77", "user@bdaestates.com", "user")
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)
	tampered := parts[0] + "." + parts[1] + ".AAAA" + parts[2][4:]

	_, err = ParseJWT(tampered)
	require.Error(t, err)
}

func TestGenerateJWTRequiresSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, _, err := GenerateJWT("id", "user@bdaestates.com", "user")
	require.Error(t, err)
}

func TestBlacklistToken(t *testing.T) {
	require.False(t, IsTokenBlacklisted("some-token"))

	BlacklistToken("some-token", time.Now().Add(time.Hour))
	require.True(t, IsTokenBlacklisted("some-token"))
	require.False(t, IsTokenBlacklisted("other-token"))
}

func TestJWTMiddlewareRejectsBlacklistedToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	e := echo.New()
	handler := JWTMiddleware()(func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	token, _, err := GenerateJWT("64f1c0a9e13db31a2c9f0b77", "user@bdaestates.com", "user")
	require.NoError(t, err)

	doRequest := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
		rec := httptest.NewRecorder()
		_ = handler(e.NewContext(req, rec))
		return rec
	}

	require.Equal(t, http.StatusOK, doRequest().Code)

	// A logged-out token must stop working before its expiry
	BlacklistToken(token, time.Now().Add(24*time.Hour))
	require.Equal(t, http.StatusUnauthorized, doRequest().Code)
}

func TestParseJWTRejectsWrongSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "first-secret")
	token, _, err := GenerateJWT("id", "user@bdaestates.com", "user")
	require.NoError(t, err)

	t.Setenv("JWT_SECRET", "second-secret")
	_, err = ParseJWT(token)
	require.Error(t, err)
}
