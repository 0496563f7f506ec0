package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/elmdemo/marketplace/internal/core/auth"
	"github.com/elmdemo/marketplace/internal/core/domain"
	"github.com/elmdemo/marketplace/internal/core/ports"
)

const (
	resourceProduct = "product"

	// DefaultPageLimit is used when the caller does not ask for a page size.
	DefaultPageLimit = 10
	// MaxPageLimit caps the page size a caller may request.
	MaxPageLimit = 100
)

// ProductService implements the dealer catalogue and product status toggling.
type ProductService struct {
	products ports.ProductRepository
	accounts ports.AccountRepository
	now      func() time.Time
	activity recorder
	logger   zerolog.Logger
}

func NewProductService(
	products ports.ProductRepository,
	accounts ports.AccountRepository,
	logger zerolog.Logger,
	opts ...Option,
) *ProductService {
	o := buildOptions(opts)
	return &ProductService{
		products: products,
		accounts: accounts,
		now:      o.now,
		activity: recorder{sink: o.activity, now: o.now, logger: logger},
		logger:   logger,
	}
}

// AddProduct creates an ACTIVE product owned by actor.
func (s *ProductService) AddProduct(ctx context.Context, actor domain.Principal, name string, price float64) (*domain.Product, error) {
	if actor.IsZero() {
		return nil, domain.ErrAuthenticationRequired
	}
	name = strings.TrimSpace(name)
	if name == "" || price <= 0 {
		return nil, domain.ErrInvalidProduct
	}

	owner, err := s.accounts.FindByID(ctx, actor.AccountID)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("find owner %d: %w", actor.AccountID, err)
	}

	now := s.now()
	created, err := s.products.Save(ctx, &domain.Product{
		OwnerID:       owner.ID,
		OwnerUsername: owner.Username,
		Name:          name,
		Price:         price,
		Status:        domain.StatusActive,
		CreatedAt:     now,
		UpdatedAt:     now,
	})
	if err != nil {
		return nil, fmt.Errorf("save product: %w", err)
	}

	s.logger.Info().Int64("product_id", created.ID).Int64("owner_id", owner.ID).Msg("product created")
	s.activity.record(ctx, domain.ActivityEvent{
		Type:      domain.ActivityProductCreated,
		ActorID:   actor.AccountID,
		SubjectID: created.ID,
		Resource:  resourceProduct,
		ToStatus:  created.Status,
		Metadata:  map[string]string{"price": strconv.FormatFloat(price, 'f', -1, 64)},
	})
	return created, nil
}

// ToggleProductStatus flips a product between ACTIVE and INACTIVE. Only the
// owner may toggle it: the product id must appear in the actor's owned set.
func (s *ProductService) ToggleProductStatus(ctx context.Context, actor domain.Principal, productID int64) (*domain.Product, error) {
	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, domain.ErrProductNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("find product %d: %w", productID, err)
	}

	owned, err := s.products.ListOwnedIDs(ctx, actor.AccountID)
	if err != nil {
		return nil, fmt.Errorf("list products owned by %d: %w", actor.AccountID, err)
	}
	if err := auth.RequireOwnership(actor, product.ID, owned); err != nil {
		s.logger.Warn().
			Int64("product_id", product.ID).
			Int64("actor_id", actor.AccountID).
			Msg("product status change by non-owner rejected")
		return nil, err
	}

	from := product.Status
	product.Status = from.Toggled()
	product.UpdatedAt = s.now()

	saved, err := s.products.Save(ctx, product)
	if err != nil {
		return nil, fmt.Errorf("save product %d: %w", productID, err)
	}

	s.activity.record(ctx, domain.ActivityEvent{
		Type:       domain.ActivityProductStatusChanged,
		ActorID:    actor.AccountID,
		SubjectID:  saved.ID,
		Resource:   resourceProduct,
		FromStatus: from,
		ToStatus:   saved.Status,
	})
	return saved, nil
}

// ListDealerProducts returns a page of the actor's own products in any status.
func (s *ProductService) ListDealerProducts(ctx context.Context, actor domain.Principal, page ports.PageInput) (*ports.ProductPage, error) {
	if actor.IsZero() {
		return nil, domain.ErrAuthenticationRequired
	}
	return s.list(ctx, ports.ListProductsFilter{OwnerID: actor.AccountID}, page)
}

// ListActiveProducts returns a page of ACTIVE products from every dealer.
func (s *ProductService) ListActiveProducts(ctx context.Context, page ports.PageInput) (*ports.ProductPage, error) {
	return s.list(ctx, ports.ListProductsFilter{Status: domain.StatusActive}, page)
}

// ListAllProducts returns a page of every product.
func (s *ProductService) ListAllProducts(ctx context.Context, page ports.PageInput) (*ports.ProductPage, error) {
	return s.list(ctx, ports.ListProductsFilter{}, page)
}

func (s *ProductService) list(ctx context.Context, filter ports.ListProductsFilter, in ports.PageInput) (*ports.ProductPage, error) {
	filter.Limit, filter.Page = NormalizePage(in)

	items, total, err := s.products.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	if items == nil {
		items = []*domain.Product{}
	}
	return &ports.ProductPage{
		Items: items,
		Total: total,
		Limit: filter.Limit,
		Page:  filter.Page,
	}, nil
}

// NormalizePage turns an offset/limit pair into a page size and 0-based page
// index. The offset rounds down to the start of its page.
func NormalizePage(in ports.PageInput) (limit, page int) {
	limit = in.Limit
	switch {
	case limit <= 0:
		limit = DefaultPageLimit
	case limit > MaxPageLimit:
		limit = MaxPageLimit
	}
	offset := max(in.Offset, 0)
	return limit, offset / limit
}
