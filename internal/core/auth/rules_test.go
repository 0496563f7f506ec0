package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elmdemo/marketplace/internal/core/domain"
)

func TestResolve(t *testing.T) {
	claims := validClaims()
	claims.Subject = "17"
	claims.Role = domain.RoleDealer

	p, err := Resolve(claims)
	require.NoError(t, err)
	assert.Equal(t, int64(17), p.AccountID)
	assert.Equal(t, domain.RoleDealer, p.Role)
	assert.Equal(t, []string{"DEALER"}, p.Authorities)
	assert.True(t, p.HasAuthority("DEALER"))
	assert.False(t, p.HasAuthority("ADMIN"))

	claims.Subject = "x"
	_, err = Resolve(claims)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestRequireRole(t *testing.T) {
	admin := domain.Principal{AccountID: 1, Role: domain.RoleAdmin}
	dealer := domain.Principal{AccountID: 2, Role: domain.RoleDealer}

	assert.NoError(t, RequireRole(admin, domain.RoleAdmin))
	assert.NoError(t, RequireRole(dealer, domain.RoleAdmin, domain.RoleDealer))
	assert.ErrorIs(t, RequireRole(admin, domain.RoleDealer), domain.ErrForbidden)
	assert.ErrorIs(t, RequireRole(domain.Principal{}, domain.RoleClient), domain.ErrAuthenticationRequired)
}

func TestRequireOwnership(t *testing.T) {
	dealer := domain.Principal{AccountID: 2, Role: domain.RoleDealer}

	assert.NoError(t, RequireOwnership(dealer, 10, []int64{9, 10, 11}))
	assert.ErrorIs(t, RequireOwnership(dealer, 12, []int64{9, 10, 11}), domain.ErrNotAuthorizedToChangeProductStatus)
	assert.ErrorIs(t, RequireOwnership(dealer, 12, nil), domain.ErrNotAuthorizedToChangeProductStatus)
	assert.ErrorIs(t, RequireOwnership(domain.Principal{}, 10, []int64{10}), domain.ErrAuthenticationRequired)
}

func TestForbidSelfAction(t *testing.T) {
	admin := domain.Principal{AccountID: 1, Role: domain.RoleAdmin}

	assert.ErrorIs(t, ForbidSelfAction(admin, 1), domain.ErrOperationNotAllowed)
	assert.NoError(t, ForbidSelfAction(admin, 2))
}

func TestPrincipalContext(t *testing.T) {
	_, ok := PrincipalFrom(context.Background())
	assert.False(t, ok)

	want := domain.Principal{AccountID: 5, Role: domain.RoleClient, Authorities: []string{"CLIENT"}}
	ctx := WithPrincipal(context.Background(), want)

	got, ok := PrincipalFrom(ctx)
	require.True(t, ok)
	assert.Equal(t, want, got)
}
