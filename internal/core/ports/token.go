package ports

import (
	"time"

	"github.com/elmdemo/marketplace/internal/core/auth"
)

// TokenIssuer mints signed access tokens at login.
type TokenIssuer interface {
	Issue(subject auth.Subject, now time.Time) (string, error)
}
