package auth

import (
	"context"

	"github.com/elmdemo/marketplace/internal/core/domain"
)

type contextKey struct {
	name string
}

var principalCtxKey = &contextKey{"principal"}

// WithPrincipal returns a copy of ctx carrying p.
func WithPrincipal(ctx context.Context, p domain.Principal) context.Context {
	return context.WithValue(ctx, principalCtxKey, p)
}

// PrincipalFrom returns the principal attached to ctx, if any.
func PrincipalFrom(ctx context.Context) (domain.Principal, bool) {
	p, ok := ctx.Value(principalCtxKey).(domain.Principal)
	if !ok || p.IsZero() {
		return domain.Principal{}, false
	}
	return p, true
}
