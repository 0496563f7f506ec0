package ports

import (
	"context"

	"github.com/elmdemo/marketplace/internal/core/domain"
)

// PageInput carries offset-based paging parameters from the transport layer.
type PageInput struct {
	Limit  int
	Offset int
}

// ProductPage is a page of products together with the total match count.
type ProductPage struct {
	Items []*domain.Product
	Total int64
	Limit int
	Page  int
}

// ProductService defines catalogue use-cases.
type ProductService interface {
	AddProduct(ctx context.Context, actor domain.Principal, name string, price float64) (*domain.Product, error)
	ToggleProductStatus(ctx context.Context, actor domain.Principal, productID int64) (*domain.Product, error)
	ListDealerProducts(ctx context.Context, actor domain.Principal, page PageInput) (*ProductPage, error)
	ListActiveProducts(ctx context.Context, page PageInput) (*ProductPage, error)
	ListAllProducts(ctx context.Context, page PageInput) (*ProductPage, error)
}
