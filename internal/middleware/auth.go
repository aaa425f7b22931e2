// Package middleware provides authentication, logging, tracing, metrics and
// rate limiting middleware for the HTTP layer.
package middleware

import (
	"errors"
	"strconv"
	"strings"

	"inkspace/internal/config"
	"inkspace/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// UserIDLocal is the fiber locals key holding the authenticated caller id.
const UserIDLocal = "userID"

var (
	errMissingToken = errors.New("authorization required")
	errBadScheme    = errors.New("invalid authorization header format")
)

// TokenVerifier validates access tokens minted by the identity service.
type TokenVerifier struct {
	secret   []byte
	issuer   string
	audience string
}

// NewTokenVerifier builds a verifier from the JWT settings in cfg.
func NewTokenVerifier(cfg *config.Config) *TokenVerifier {
	return &TokenVerifier{
		secret:   []byte(cfg.JWTSecret),
		issuer:   cfg.JWTIssuer,
		audience: cfg.JWTAudience,
	}
}

// ParseUserID validates tokenString and returns the user id in its subject.
func (v *TokenVerifier) ParseUserID(tokenString string) (uint, error) {
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{"HS256", "HS384", "HS512"})}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}
	if v.audience != "" {
		opts = append(opts, jwt.WithAudience(v.audience))
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		return v.secret, nil
	}, opts...)
	if err != nil {
		return 0, err
	}

	sub, err := token.Claims.GetSubject()
	if err != nil || sub == "" {
		return 0, errors.New("invalid subject claim")
	}
	userID, err := strconv.ParseUint(sub, 10, 32)
	if err != nil || userID == 0 {
		return 0, errors.New("invalid user ID in token")
	}
	return uint(userID), nil
}

// bearerToken extracts the token from "Authorization: Bearer <token>".
func bearerToken(c *fiber.Ctx) (string, error) {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return "", errMissingToken
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", errBadScheme
	}
	return parts[1], nil
}

func setCaller(c *fiber.Ctx, userID uint) {
	c.Locals(UserIDLocal, userID)
	c.SetUserContext(WithUserID(c.UserContext(), userID))
}

// AuthRequired rejects requests without a valid bearer token.
func AuthRequired(v *TokenVerifier) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString, err := bearerToken(c)
		if err != nil {
			msg := "Authorization required"
			if errors.Is(err, errBadScheme) {
				msg = "Invalid authorization header format"
			}
			return models.RespondWithAppError(c, models.NewUnauthorizedError(msg))
		}

		userID, err := v.ParseUserID(tokenString)
		if err != nil {
			return models.RespondWithAppError(c, models.NewUnauthorizedError("Invalid or expired token"))
		}

		setCaller(c, userID)
		return c.Next()
	}
}

// OptionalAuth identifies the caller when a valid token is present and
// lets anonymous requests through otherwise.
func OptionalAuth(v *TokenVerifier) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if tokenString, err := bearerToken(c); err == nil {
			if userID, err := v.ParseUserID(tokenString); err == nil {
				setCaller(c, userID)
			}
		}
		return c.Next()
	}
}

// CallerID returns the authenticated user id stored by the auth middleware.
func CallerID(c *fiber.Ctx) (uint, bool) {
	userID, ok := c.Locals(UserIDLocal).(uint)
	return userID, ok && userID != 0
}
