package ports

import (
	"context"

	"github.com/elmdemo/marketplace/internal/core/domain"
)

// ListProductsFilter carries the query parameters for listing products.
type ListProductsFilter struct {
	OwnerID int64         // 0 = any owner
	Status  domain.Status // empty = any status
	Page    int           // 0-based
	Limit   int
}

// ProductRepository defines persistence operations for products.
type ProductRepository interface {
	// FindByID returns domain.ErrProductNotFound when the product does not exist.
	FindByID(ctx context.Context, id int64) (*domain.Product, error)
	// ListOwnedIDs returns the ids of every product owned by the account.
	ListOwnedIDs(ctx context.Context, accountID int64) ([]int64, error)
	// Save inserts the product when its ID is zero and updates it otherwise.
	Save(ctx context.Context, product *domain.Product) (*domain.Product, error)
	// List returns a page of products matching filter and the total count.
	List(ctx context.Context, filter ListProductsFilter) ([]*domain.Product, int64, error)
}
