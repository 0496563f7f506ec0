package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/elmdemo/marketplace/internal/api/metrics"
	"github.com/elmdemo/marketplace/internal/core/auth"
	"github.com/elmdemo/marketplace/internal/core/domain"
)

// RequireRole admits only requests whose principal holds one of roles.
// A request without a principal fails with domain.ErrAuthenticationRequired,
// one with the wrong role with domain.ErrForbidden.
func RequireRole(roles ...domain.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			principal, _ := Principal(c)
			if err := auth.RequireRole(principal, roles...); err != nil {
				metrics.AuthorizationDenialsTotal.WithLabelValues(domain.CodeOf(err)).Inc()
				return err
			}
			return next(c)
		}
	}
}
