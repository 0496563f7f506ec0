package ports

import (
	"context"

	"github.com/elmdemo/marketplace/internal/core/domain"
)

// AccountRepository defines persistence operations for accounts.
// Lookups return domain.ErrAccountNotFound when no account matches.
type AccountRepository interface {
	FindByID(ctx context.Context, id int64) (*domain.Account, error)
	FindByUsername(ctx context.Context, username string) (*domain.Account, error)
	FindByEmail(ctx context.Context, email string) (*domain.Account, error)
	// Save inserts the account when its ID is zero and updates it otherwise.
	// The returned account carries the server-assigned ID.
	Save(ctx context.Context, account *domain.Account) (*domain.Account, error)
}
