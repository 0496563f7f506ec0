package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/elmdemo/marketplace/internal/api/metrics"
	"github.com/elmdemo/marketplace/internal/core/ports"
)

// ProductHandler serves the catalogue endpoints.
type ProductHandler struct {
	products ports.ProductService
}

func NewProductHandler(products ports.ProductService) *ProductHandler {
	return &ProductHandler{products: products}
}

// ListOwn handles GET /products.
//
// @Summary      List the caller's products
// @Tags         products
// @Produce      json
// @Security     BearerAuth
// @Param        limit   query     int  false  "Page size (default 10, max 100)"
// @Param        offset  query     int  false  "Offset of the first item"
// @Success      200     {object}  productsResponse
// @Header       200     {integer} X-TOTAL-COUNT "Total number of matching products"
// @Failure      401     {object}  errorResponse
// @Failure      403     {object}  errorResponse
// @Router       /products [get]
func (h *ProductHandler) ListOwn(c echo.Context) error {
	actor, err := principal(c)
	if err != nil {
		return err
	}
	in, err := pageInput(c)
	if err != nil {
		return err
	}

	page, err := h.products.ListDealerProducts(c.Request().Context(), actor, in)
	if err != nil {
		return err
	}
	return renderPage(c, page, dealerView)
}

// Create handles POST /products.
//
// @Summary      Add a product
// @Tags         products
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createProductRequest  true  "Product details"
// @Success      201   {object}  productResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Router       /products [post]
func (h *ProductHandler) Create(c echo.Context) error {
	actor, err := principal(c)
	if err != nil {
		return err
	}

	var req createProductRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	product, err := h.products.AddProduct(c.Request().Context(), actor, req.Name, req.Price)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, adminView.render(product))
}

// ToggleStatus handles PATCH /products/:id/status.
//
// @Summary      Toggle product status
// @Tags         products
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Product id"
// @Success      200  {object}  productResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /products/{id}/status [patch]
func (h *ProductHandler) ToggleStatus(c echo.Context) error {
	actor, err := principal(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	product, err := h.products.ToggleProductStatus(c.Request().Context(), actor, id)
	if err != nil {
		return err
	}

	metrics.StatusTogglesTotal.WithLabelValues("product", string(product.Status)).Inc()
	return c.JSON(http.StatusOK, dealerView.render(product))
}

// ListActive handles GET /products/active.
//
// @Summary      List active products
// @Tags         products
// @Produce      json
// @Security     BearerAuth
// @Param        limit   query     int  false  "Page size (default 10, max 100)"
// @Param        offset  query     int  false  "Offset of the first item"
// @Success      200     {object}  productsResponse
// @Header       200     {integer} X-TOTAL-COUNT "Total number of matching products"
// @Failure      401     {object}  errorResponse
// @Failure      403     {object}  errorResponse
// @Router       /products/active [get]
func (h *ProductHandler) ListActive(c echo.Context) error {
	in, err := pageInput(c)
	if err != nil {
		return err
	}

	page, err := h.products.ListActiveProducts(c.Request().Context(), in)
	if err != nil {
		return err
	}
	return renderPage(c, page, clientView)
}

// ListAll handles GET /products/all.
//
// @Summary      List every product
// @Tags         products
// @Produce      json
// @Security     BearerAuth
// @Param        limit   query     int  false  "Page size (default 10, max 100)"
// @Param        offset  query     int  false  "Offset of the first item"
// @Success      200     {object}  productsResponse
// @Header       200     {integer} X-TOTAL-COUNT "Total number of matching products"
// @Failure      401     {object}  errorResponse
// @Failure      403     {object}  errorResponse
// @Router       /products/all [get]
func (h *ProductHandler) ListAll(c echo.Context) error {
	in, err := pageInput(c)
	if err != nil {
		return err
	}

	page, err := h.products.ListAllProducts(c.Request().Context(), in)
	if err != nil {
		return err
	}
	return renderPage(c, page, adminView)
}
