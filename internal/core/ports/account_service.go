package ports

import (
	"context"

	"github.com/elmdemo/marketplace/internal/core/domain"
)

// AccountService defines registration, login and account status use-cases.
type AccountService interface {
	Register(ctx context.Context, username, email, password string) (*domain.Account, error)
	CreatePrivileged(ctx context.Context, actor domain.Principal, username, email, password string, role domain.Role) (*domain.Account, error)
	Login(ctx context.Context, username, password string) (string, *domain.Account, error)
	ToggleAccountStatus(ctx context.Context, actor domain.Principal, targetID int64) (*domain.Account, error)
}
