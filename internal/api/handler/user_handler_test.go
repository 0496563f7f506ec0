package handler

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elmdemo/marketplace/internal/core/domain"
)

var adminPrincipal = &domain.Principal{AccountID: 1, Role: domain.RoleAdmin, Authorities: []string{"ADMIN"}}

func TestUserHandler_Create(t *testing.T) {
	stub := &stubAccountService{
		createFn: func(_ context.Context, actor domain.Principal, username, email, _ string, role domain.Role) (*domain.Account, error) {
			assert.Equal(t, int64(1), actor.AccountID)
			assert.Equal(t, domain.RoleDealer, role)
			return &domain.Account{ID: 5, Username: username, Email: email, Role: role, Status: domain.StatusActive}, nil
		},
	}
	h := NewUserHandler(stub)

	c, rec := newContext(http.MethodPost, "/users", strings.NewReader(`{"username":"dave","email":"dave@x.com","password":"pw-dave","role":"DEALER"}`), adminPrincipal)
	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"role":"DEALER"`)
}

func TestUserHandler_Create_RejectsClientRole(t *testing.T) {
	h := NewUserHandler(&stubAccountService{})

	c, _ := newContext(http.MethodPost, "/users", strings.NewReader(`{"username":"dave","email":"dave@x.com","password":"pw-dave","role":"CLIENT"}`), adminPrincipal)
	err := h.Create(c)
	require.ErrorIs(t, err, &domain.Error{Code: domain.CodeValidationFailed})
	assert.Contains(t, err.Error(), "role must be one of: ADMIN DEALER")
}

func TestUserHandler_Create_WithoutPrincipal(t *testing.T) {
	h := NewUserHandler(&stubAccountService{})

	c, _ := newContext(http.MethodPost, "/users", strings.NewReader(`{}`), nil)
	assert.ErrorIs(t, h.Create(c), domain.ErrAuthenticationRequired)
}

func TestUserHandler_ToggleStatus(t *testing.T) {
	stub := &stubAccountService{
		toggleFn: func(_ context.Context, actor domain.Principal, targetID int64) (*domain.Account, error) {
			assert.Equal(t, int64(1), actor.AccountID)
			assert.Equal(t, int64(42), targetID)
			return &domain.Account{ID: 42, Status: domain.StatusInactive, Role: domain.RoleClient}, nil
		},
	}
	h := NewUserHandler(stub)

	c, rec := newContext(http.MethodPatch, "/users/42/status", nil, adminPrincipal)
	c.SetParamNames("id")
	c.SetParamValues("42")

	require.NoError(t, h.ToggleStatus(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"INACTIVE"`)
}

func TestUserHandler_ToggleStatus_BadID(t *testing.T) {
	h := NewUserHandler(&stubAccountService{})

	for _, raw := range []string{"abc", "0", "-4"} {
		c, _ := newContext(http.MethodPatch, "/users/x/status", nil, adminPrincipal)
		c.SetParamNames("id")
		c.SetParamValues(raw)
		assert.ErrorIs(t, h.ToggleStatus(c), &domain.Error{Code: domain.CodeValidationFailed}, "id %q", raw)
	}
}

func TestUserHandler_ToggleStatus_Self(t *testing.T) {
	stub := &stubAccountService{
		toggleFn: func(context.Context, domain.Principal, int64) (*domain.Account, error) {
			return nil, domain.ErrOperationNotAllowed
		},
	}
	h := NewUserHandler(stub)

	c, _ := newContext(http.MethodPatch, "/users/1/status", nil, adminPrincipal)
	c.SetParamNames("id")
	c.SetParamValues("1")
	assert.ErrorIs(t, h.ToggleStatus(c), domain.ErrOperationNotAllowed)
}
