package middleware

import (
	"github.com/labstack/echo/v4"

	"chatmarket/internal/domain/entity"
	"chatmarket/pkg/errors"
	"chatmarket/pkg/response"
)

type AccountDirectory interface {
	GetAccount(id string) (entity.Account, bool)
}

// RoleMiddleware gates routes on the caller's stored account role. It runs
// after Authenticate.
type RoleMiddleware struct {
	accounts AccountDirectory
}

func NewRoleMiddleware(accounts AccountDirectory) *RoleMiddleware {
	return &RoleMiddleware{
		accounts: accounts,
	}
}

func (m *RoleMiddleware) Require(role entity.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			uid := UserID(c)
			if uid == "" {
				return response.Error(c, errors.Unauthorized("Authentication required", nil))
			}

			account, ok := m.accounts.GetAccount(uid)
			if !ok {
				return response.Error(c, errors.Unauthorized("Account no longer exists", nil))
			}

			if account.Role != role {
				return response.Error(c, errors.Forbidden("This action requires a "+string(role)+" account", nil))
			}

			return next(c)
		}
	}
}

func (m *RoleMiddleware) SellerOnly(next echo.HandlerFunc) echo.HandlerFunc {
	return m.Require(entity.RoleSeller)(next)
}

func (m *RoleMiddleware) BuyerOnly(next echo.HandlerFunc) echo.HandlerFunc {
	return m.Require(entity.RoleBuyer)(next)
}
