package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/elmdemo/marketplace/internal/api/middleware"
	"github.com/elmdemo/marketplace/internal/core/domain"
	"github.com/elmdemo/marketplace/internal/core/ports"
)

// XTotalCountHeader carries the total match count of a listing.
const XTotalCountHeader = "X-TOTAL-COUNT"

// principal returns the caller attached by the authentication gate. Routes
// are role-gated, so a missing principal means the route was misconfigured.
func principal(c echo.Context) (domain.Principal, error) {
	p, ok := middleware.Principal(c)
	if !ok {
		return domain.Principal{}, domain.ErrAuthenticationRequired
	}
	return p, nil
}

// bindAndValidate decodes the request body into req and validates it.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	return c.Validate(req)
}

// pathID parses a positive integer path parameter.
func pathID(c echo.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, &domain.Error{Code: domain.CodeValidationFailed, Message: name + " must be a positive integer"}
	}
	return id, nil
}

// pageInput reads the limit and offset query parameters.
func pageInput(c echo.Context) (ports.PageInput, error) {
	var q pageQuery
	if err := (&echo.DefaultBinder{}).BindQueryParams(c, &q); err != nil {
		return ports.PageInput{}, &domain.Error{Code: domain.CodeValidationFailed, Message: "limit and offset must be integers"}
	}
	return ports.PageInput{Limit: q.Limit, Offset: q.Offset}, nil
}

func renderPage(c echo.Context, page *ports.ProductPage, view productView) error {
	out := productsResponse{
		Products: make([]productResponse, 0, len(page.Items)),
		Total:    page.Total,
		Limit:    page.Limit,
		Page:     page.Page,
	}
	for _, p := range page.Items {
		out.Products = append(out.Products, view.render(p))
	}
	c.Response().Header().Set(XTotalCountHeader, strconv.FormatInt(page.Total, 10))
	return c.JSON(http.StatusOK, out)
}
