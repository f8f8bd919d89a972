package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"

	"chatmarket/internal/domain/entity"
	"chatmarket/internal/infrastructure/auth"
	"chatmarket/pkg/errors"
	"chatmarket/pkg/response"
)

// Context keys set for authenticated requests.
const (
	ContextUserID = "uid"
	ContextRole   = "role"
)

type TokenVerifier interface {
	Verify(token string) (*auth.Claims, error)
}

type AuthMiddleware struct {
	verifier TokenVerifier
}

func NewAuthMiddleware(verifier TokenVerifier) *AuthMiddleware {
	return &AuthMiddleware{
		verifier: verifier,
	}
}

func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authHeader := c.Request().Header.Get("Authorization")
		if authHeader == "" {
			return response.Error(c, errors.Unauthorized("Authorization header is required", nil))
		}

		token, ok := bearerToken(authHeader)
		if !ok {
			return response.Error(c, errors.Unauthorized("Invalid authorization format", nil))
		}

		claims, err := m.verifier.Verify(token)
		if err != nil {
			return response.Error(c, errors.Unauthorized("Invalid or expired token", err))
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextRole, claims.Role)

		return next(c)
	}
}

// Identify sets the caller when a valid bearer token is present and lets
// anonymous requests through.
func (m *AuthMiddleware) Identify(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		token, ok := bearerToken(c.Request().Header.Get("Authorization"))
		if !ok {
			return next(c)
		}

		if claims, err := m.verifier.Verify(token); err == nil {
			c.Set(ContextUserID, claims.UserID)
			c.Set(ContextRole, claims.Role)
		}
		return next(c)
	}
}

// UserIDFromToken verifies a raw token, e.g. one passed as a query
// parameter on the websocket upgrade.
func (m *AuthMiddleware) UserIDFromToken(token string) (string, error) {
	claims, err := m.verifier.Verify(token)
	if err != nil {
		return "", err
	}
	return claims.UserID, nil
}

func bearerToken(header string) (string, bool) {
	parts := strings.Split(header, " ")
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

// UserID returns the caller set by Authenticate or Identify.
func UserID(c echo.Context) string {
	uid, _ := c.Get(ContextUserID).(string)
	return uid
}

func Role(c echo.Context) entity.Role {
	role, _ := c.Get(ContextRole).(entity.Role)
	return role
}
