package middleware

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/elmdemo/marketplace/internal/api/metrics"
	"github.com/elmdemo/marketplace/internal/core/auth"
	"github.com/elmdemo/marketplace/internal/core/domain"
)

const bearerPrefix = "Bearer "

// TokenVerifier checks a raw bearer token.
type TokenVerifier interface {
	ParseAndVerify(token string, now time.Time) (*auth.Claims, error)
}

// AccountFinder looks up the live account behind a token subject.
type AccountFinder interface {
	FindByID(ctx context.Context, id int64) (*domain.Account, error)
}

// Gate establishes the caller's identity from the Authorization header.
//
// A request without a bearer credential passes through anonymously; route
// policy decides later whether that is acceptable. A credential that is
// present but fails verification, or names an account that no longer exists,
// ends the request with a *domain.AuthenticationError. On success the
// principal is attached to the request context.
//
// The principal's role is taken from the token, not from the live account, so
// a role change only applies after the next login.
func Gate(tokens TokenVerifier, accounts AccountFinder, now func() time.Time, log zerolog.Logger) echo.MiddlewareFunc {
	if now == nil {
		now = time.Now
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			if !strings.HasPrefix(header, bearerPrefix) {
				return next(c)
			}

			ctx := c.Request().Context()
			if _, ok := auth.PrincipalFrom(ctx); ok {
				return next(c)
			}

			claims, err := tokens.ParseAndVerify(strings.TrimPrefix(header, bearerPrefix), now())
			if err != nil {
				result := "invalid"
				if errors.Is(err, domain.ErrTokenExpired) {
					result = "expired"
				}
				metrics.TokenVerificationsTotal.WithLabelValues(result).Inc()
				log.Debug().Err(err).Str("path", c.Path()).Msg("bearer token rejected")
				return &domain.AuthenticationError{Err: err}
			}

			principal, err := auth.Resolve(claims)
			if err != nil {
				metrics.TokenVerificationsTotal.WithLabelValues("invalid").Inc()
				return &domain.AuthenticationError{Err: err}
			}

			if _, err := accounts.FindByID(ctx, principal.AccountID); err != nil {
				if errors.Is(err, domain.ErrAccountNotFound) {
					metrics.TokenVerificationsTotal.WithLabelValues("unknown_account").Inc()
					log.Debug().Int64("account_id", principal.AccountID).Msg("token subject no longer exists")
					return &domain.AuthenticationError{Err: err}
				}
				return fmt.Errorf("load principal account %d: %w", principal.AccountID, err)
			}

			metrics.TokenVerificationsTotal.WithLabelValues("ok").Inc()
			c.SetRequest(c.Request().WithContext(auth.WithPrincipal(ctx, principal)))
			return next(c)
		}
	}
}

// Principal returns the principal the Gate attached to the request, if any.
func Principal(c echo.Context) (domain.Principal, bool) {
	return auth.PrincipalFrom(c.Request().Context())
}
