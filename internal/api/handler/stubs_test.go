package handler

import (
	"context"
	"io"
	"net/http/httptest"

	"github.com/labstack/echo/v4"

	"github.com/elmdemo/marketplace/internal/core/auth"
	"github.com/elmdemo/marketplace/internal/core/domain"
	"github.com/elmdemo/marketplace/internal/core/ports"
)

type stubAccountService struct {
	registerFn func(ctx context.Context, username, email, password string) (*domain.Account, error)
	createFn   func(ctx context.Context, actor domain.Principal, username, email, password string, role domain.Role) (*domain.Account, error)
	loginFn    func(ctx context.Context, username, password string) (string, *domain.Account, error)
	toggleFn   func(ctx context.Context, actor domain.Principal, targetID int64) (*domain.Account, error)
}

func (s *stubAccountService) Register(ctx context.Context, username, email, password string) (*domain.Account, error) {
	return s.registerFn(ctx, username, email, password)
}

func (s *stubAccountService) CreatePrivileged(ctx context.Context, actor domain.Principal, username, email, password string, role domain.Role) (*domain.Account, error) {
	return s.createFn(ctx, actor, username, email, password, role)
}

func (s *stubAccountService) Login(ctx context.Context, username, password string) (string, *domain.Account, error) {
	return s.loginFn(ctx, username, password)
}

func (s *stubAccountService) ToggleAccountStatus(ctx context.Context, actor domain.Principal, targetID int64) (*domain.Account, error) {
	return s.toggleFn(ctx, actor, targetID)
}

type stubProductService struct {
	addFn        func(ctx context.Context, actor domain.Principal, name string, price float64) (*domain.Product, error)
	toggleFn     func(ctx context.Context, actor domain.Principal, productID int64) (*domain.Product, error)
	listDealerFn func(ctx context.Context, actor domain.Principal, page ports.PageInput) (*ports.ProductPage, error)
	listActiveFn func(ctx context.Context, page ports.PageInput) (*ports.ProductPage, error)
	listAllFn    func(ctx context.Context, page ports.PageInput) (*ports.ProductPage, error)
}

func (s *stubProductService) AddProduct(ctx context.Context, actor domain.Principal, name string, price float64) (*domain.Product, error) {
	return s.addFn(ctx, actor, name, price)
}

func (s *stubProductService) ToggleProductStatus(ctx context.Context, actor domain.Principal, productID int64) (*domain.Product, error) {
	return s.toggleFn(ctx, actor, productID)
}

func (s *stubProductService) ListDealerProducts(ctx context.Context, actor domain.Principal, page ports.PageInput) (*ports.ProductPage, error) {
	return s.listDealerFn(ctx, actor, page)
}

func (s *stubProductService) ListActiveProducts(ctx context.Context, page ports.PageInput) (*ports.ProductPage, error) {
	return s.listActiveFn(ctx, page)
}

func (s *stubProductService) ListAllProducts(ctx context.Context, page ports.PageInput) (*ports.ProductPage, error) {
	return s.listAllFn(ctx, page)
}

// newContext builds an echo context for target with an optional JSON body and
// an optional principal already attached, as the gate would leave it.
func newContext(method, target string, body io.Reader, p *domain.Principal) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()
	req := httptest.NewRequest(method, target, body)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if p != nil {
		req = req.WithContext(auth.WithPrincipal(req.Context(), *p))
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}
