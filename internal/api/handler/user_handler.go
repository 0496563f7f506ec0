package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/elmdemo/marketplace/internal/api/metrics"
	"github.com/elmdemo/marketplace/internal/core/domain"
	"github.com/elmdemo/marketplace/internal/core/ports"
)

// UserHandler serves the admin-only account management endpoints.
type UserHandler struct {
	accounts ports.AccountService
}

func NewUserHandler(accounts ports.AccountService) *UserHandler {
	return &UserHandler{accounts: accounts}
}

// Create adds an ADMIN or DEALER account.
//
// @Summary      Create an admin or dealer account
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createUserRequest  true  "Account details"
// @Success      201   {object}  accountResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Router       /users [post]
func (h *UserHandler) Create(c echo.Context) error {
	actor, err := principal(c)
	if err != nil {
		return err
	}

	var req createUserRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	account, err := h.accounts.CreatePrivileged(c.Request().Context(), actor, req.Username, req.Email, req.Password, domain.Role(req.Role))
	if err != nil {
		return err
	}

	metrics.AccountsCreatedTotal.WithLabelValues(string(account.Role)).Inc()
	return c.JSON(http.StatusCreated, toAccountResponse(account))
}

// ToggleStatus flips an account between ACTIVE and INACTIVE.
//
// @Summary      Toggle account status
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Account id"
// @Success      200  {object}  accountResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Failure      409  {object}  errorResponse
// @Router       /users/{id}/status [patch]
func (h *UserHandler) ToggleStatus(c echo.Context) error {
	actor, err := principal(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	account, err := h.accounts.ToggleAccountStatus(c.Request().Context(), actor, id)
	if err != nil {
		return err
	}

	metrics.StatusTogglesTotal.WithLabelValues("account", string(account.Status)).Inc()
	return c.JSON(http.StatusOK, toAccountResponse(account))
}
