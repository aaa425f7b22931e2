package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"inkspace/internal/config"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-12345678901234567890123456789012"

func testVerifier() *TokenVerifier {
	return NewTokenVerifier(&config.Config{
		JWTSecret:   testSecret,
		JWTIssuer:   "inkspace-identity",
		JWTAudience: "inkspace-client",
	})
}

func signToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return s
}

func validClaims(userID uint, exp time.Duration) jwt.MapClaims {
	return jwt.MapClaims{
		"sub": strconv.FormatUint(uint64(userID), 10),
		"iss": "inkspace-identity",
		"aud": "inkspace-client",
		"exp": time.Now().Add(exp).Unix(),
	}
}

func TestAuthRequired(t *testing.T) {
	app := fiber.New()
	app.Get("/test", AuthRequired(testVerifier()), func(c *fiber.Ctx) error {
		userID, _ := CallerID(c)
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"userID": userID})
	})

	wrongIssuer := validClaims(5, time.Hour)
	wrongIssuer["iss"] = "someone-else"
	badSubject := validClaims(5, time.Hour)
	badSubject["sub"] = "abc"

	tests := []struct {
		name           string
		authHeader     string
		expectedStatus int
		expectedUserID uint
	}{
		{"Happy Path", "Bearer " + signToken(t, validClaims(123, time.Hour)), http.StatusOK, 123},
		{"Missing Header", "", http.StatusUnauthorized, 0},
		{"Invalid Format", "Basic dXNlcjpwYXNz", http.StatusUnauthorized, 0},
		{"Malformed Token", "Bearer malformed.token.here", http.StatusUnauthorized, 0},
		{"Expired Token", "Bearer " + signToken(t, validClaims(123, -time.Hour)), http.StatusUnauthorized, 0},
		{"Wrong Issuer", "Bearer " + signToken(t, wrongIssuer), http.StatusUnauthorized, 0},
		{"Non-numeric Subject", "Bearer " + signToken(t, badSubject), http.StatusUnauthorized, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}

			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.expectedStatus, resp.StatusCode)

			if tt.expectedStatus == http.StatusOK {
				var body map[string]interface{}
				require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
				assert.Equal(t, float64(tt.expectedUserID), body["userID"])
			}
		})
	}
}

func TestOptionalAuth(t *testing.T) {
	app := fiber.New()
	app.Get("/test", OptionalAuth(testVerifier()), func(c *fiber.Ctx) error {
		userID, ok := CallerID(c)
		return c.JSON(fiber.Map{"userID": userID, "authenticated": ok})
	})

	t.Run("anonymous passes through", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/test", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, false, body["authenticated"])
	})

	t.Run("invalid token treated as anonymous", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set("Authorization", "Bearer nope")
		resp, err := app.Test(req)
		require.NoError(t, err)

		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, false, body["authenticated"])
	})

	t.Run("valid token identifies caller", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set("Authorization", "Bearer "+signToken(t, validClaims(9, time.Hour)))
		resp, err := app.Test(req)
		require.NoError(t, err)

		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, true, body["authenticated"])
		assert.Equal(t, float64(9), body["userID"])
	})
}
