package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/elmdemo/marketplace/internal/api/metrics"
	"github.com/elmdemo/marketplace/internal/core/domain"
	"github.com/elmdemo/marketplace/internal/core/ports"
)

// AuthHandler serves the public registration and login endpoints.
type AuthHandler struct {
	accounts ports.AccountService
}

func NewAuthHandler(accounts ports.AccountService) *AuthHandler {
	return &AuthHandler{accounts: accounts}
}

// Register creates a CLIENT account.
//
// @Summary      Register a new client account
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Registration details"
// @Success      201   {object}  accountResponse
// @Failure      400   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	account, err := h.accounts.Register(c.Request().Context(), req.Username, req.Email, req.Password)
	if err != nil {
		return err
	}

	metrics.AccountsCreatedTotal.WithLabelValues(string(account.Role)).Inc()
	return c.JSON(http.StatusCreated, toAccountResponse(account))
}

// Login exchanges credentials for a bearer token.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Credentials"
// @Success      200   {object}  loginResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Router       /login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	token, _, err := h.accounts.Login(c.Request().Context(), req.Username, req.Password)
	metrics.LoginAttemptsTotal.WithLabelValues(loginResult(err)).Inc()
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, loginResponse{Token: token})
}

func loginResult(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, domain.ErrAuthenticationFailed):
		return "failed"
	case errors.Is(err, domain.ErrAccountNotActive):
		return "inactive"
	default:
		return "error"
	}
}
