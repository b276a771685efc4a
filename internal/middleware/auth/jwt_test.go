package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

const (
	testSecret = "test-secret"
	testUserID = "4f9a2e18-7c53-4b1a-9be0-1d2f3a4b5c6d"
)

func signToken(t *testing.T, claims jwt.MapClaims, secret string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	assert.NoError(t, err)
	return signed
}

func newTestServer() (*echo.Echo, echo.HandlerFunc) {
	e := echo.New()
	handler := func(c echo.Context) error {
		user, err := GetUserFromContext(c)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "no user"})
		}
		return c.JSON(http.StatusOK, echo.Map{"user_id": user.UserID})
	}
	return e, handler
}

func TestJWTMiddleware(t *testing.T) {
	config := JWTConfig{
		Secret:    testSecret,
		Logger:    zap.NewNop(),
		SkipPaths: []string{"/health"},
	}

	t.Run("authenticates a valid bearer token", func(t *testing.T) {
		e, handler := newTestServer()
		token := signToken(t, jwt.MapClaims{
			"sub":   testUserID,
			"email": "user@example.com",
			"exp":   time.Now().Add(time.Hour).Unix(),
		}, testSecret)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/crm/connections", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		err := JWTMiddleware(config)(handler)(c)

		assert.NoError(t, err)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), testUserID)
	})

	t.Run("rejects a missing authorization header", func(t *testing.T) {
		e, handler := newTestServer()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/crm/connections", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		err := JWTMiddleware(config)(handler)(c)

		assert.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), "MISSING_AUTH_HEADER")
	})

	t.Run("rejects a non-bearer header", func(t *testing.T) {
		e, handler := newTestServer()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/crm/connections", nil)
		req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		err := JWTMiddleware(config)(handler)(c)

		assert.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), "INVALID_AUTH_FORMAT")
	})

	t.Run("rejects a token signed with another secret", func(t *testing.T) {
		e, handler := newTestServer()
		token := signToken(t, jwt.MapClaims{
			"sub": testUserID,
			"exp": time.Now().Add(time.Hour).Unix(),
		}, "other-secret")

		req := httptest.NewRequest(http.MethodGet, "/api/v1/crm/connections", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		err := JWTMiddleware(config)(handler)(c)

		assert.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), "INVALID_TOKEN")
	})

	t.Run("rejects an expired token", func(t *testing.T) {
		e, handler := newTestServer()
		token := signToken(t, jwt.MapClaims{
			"sub": testUserID,
			"exp": time.Now().Add(-time.Hour).Unix(),
		}, testSecret)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/crm/connections", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		err := JWTMiddleware(config)(handler)(c)

		assert.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("rejects a subject that is not a user id", func(t *testing.T) {
		e, handler := newTestServer()
		token := signToken(t, jwt.MapClaims{
			"sub": "not-a-uuid",
			"exp": time.Now().Add(time.Hour).Unix(),
		}, testSecret)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/crm/connections", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		err := JWTMiddleware(config)(handler)(c)

		assert.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), "INVALID_SUBJECT")
	})

	t.Run("skips validation for configured paths", func(t *testing.T) {
		e, _ := newTestServer()
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		passthrough := func(c echo.Context) error {
			return c.NoContent(http.StatusOK)
		}
		err := JWTMiddleware(config)(passthrough)(c)

		assert.NoError(t, err)
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}
