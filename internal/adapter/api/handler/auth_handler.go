package handler

import (
	"time"

	"github.com/labstack/echo/v4"

	"chatmarket/internal/adapter/api/middleware"
	"chatmarket/internal/domain/entity"
	"chatmarket/internal/usecase"
	"chatmarket/pkg/errors"
	"chatmarket/pkg/response"
)

type AuthHandler struct {
	authUseCase *usecase.AuthUseCase
}

func NewAuthHandler(authUseCase *usecase.AuthUseCase) *AuthHandler {
	return &AuthHandler{
		authUseCase: authUseCase,
	}
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// accountResponse is an account without its password hash.
type accountResponse struct {
	ID        string      `json:"id"`
	Email     string      `json:"email"`
	Name      string      `json:"name"`
	Avatar    string      `json:"avatar"`
	Role      entity.Role `json:"role"`
	CreatedAt time.Time   `json:"createdAt"`
}

type authResponse struct {
	Account accountResponse `json:"account"`
	Token   string          `json:"token"`
}

func toAccountResponse(a entity.Account) accountResponse {
	return accountResponse{
		ID:        a.ID,
		Email:     a.Email,
		Name:      a.Name,
		Avatar:    a.Avatar,
		Role:      a.Role,
		CreatedAt: a.CreatedAt,
	}
}

func toAuthResponse(result *usecase.AuthResult) authResponse {
	return authResponse{
		Account: toAccountResponse(result.Account),
		Token:   result.Token,
	}
}

func (h *AuthHandler) Register(c echo.Context) error {
	var req usecase.RegisterInput
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	result, err := h.authUseCase.Register(c.Request().Context(), req)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, toAuthResponse(result))
}

func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	result, err := h.authUseCase.Authenticate(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, toAuthResponse(result))
}

func (h *AuthHandler) Logout(c echo.Context) error {
	if err := h.authUseCase.EndSession(c.Request().Context()); err != nil {
		return response.Error(c, errors.Internal("Failed to end session", err))
	}

	return response.Success(c, map[string]string{
		"message": "Logged out successfully",
	})
}

func (h *AuthHandler) Me(c echo.Context) error {
	account, ok := h.authUseCase.GetAccount(middleware.UserID(c))
	if !ok {
		return response.Error(c, errors.NotFound("Account", nil))
	}

	return response.Success(c, toAccountResponse(account))
}

// SwitchAccount signs in as another account without a password, like the
// demo user switcher.
func (h *AuthHandler) SwitchAccount(c echo.Context) error {
	result, err := h.authUseCase.SwitchAccount(c.Request().Context(), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}
	if result == nil {
		return response.Error(c, errors.NotFound("Account", nil))
	}

	return response.Success(c, toAuthResponse(result))
}

// ListAccounts feeds the account switcher.
func (h *AuthHandler) ListAccounts(c echo.Context) error {
	accounts := h.authUseCase.ListAccounts()

	out := make([]accountResponse, 0, len(accounts))
	for _, a := range accounts {
		out = append(out, toAccountResponse(a))
	}

	return response.Success(c, out)
}
