package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/elmdemo/marketplace/internal/api/metrics"
	"github.com/elmdemo/marketplace/internal/core/domain"
)

const codeInternal = "INTERNAL"

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// statusByCode maps business error codes to HTTP status classes.
var statusByCode = map[string]int{
	domain.CodeInvalidToken:                 http.StatusUnauthorized,
	domain.CodeTokenExpired:                 http.StatusUnauthorized,
	domain.CodeAuthenticationFailed:         http.StatusUnauthorized,
	domain.CodeAuthenticationRequired:       http.StatusUnauthorized,
	domain.CodeAccountNotActive:             http.StatusForbidden,
	domain.CodeNotAuthorizedToChangeProduct: http.StatusForbidden,
	domain.CodeForbidden:                    http.StatusForbidden,
	domain.CodeAccountAlreadyExists:         http.StatusBadRequest,
	domain.CodeValidationFailed:             http.StatusBadRequest,
	domain.CodeAccountNotFound:              http.StatusNotFound,
	domain.CodeProductNotFound:              http.StatusNotFound,
	domain.CodeOperationNotAllowed:          http.StatusConflict,
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Answers every failure raised by the authentication gate with 401.
//   - Maps business errors to their status class and stable code.
//   - Logs unexpected errors internally without leaking details to the client.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status, body := resolveError(err, log, c)
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(status)
			return
		}
		_ = c.JSON(status, body)
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, errorResponse) {
	var authErr *domain.AuthenticationError
	if errors.As(err, &authErr) {
		code := domain.CodeOf(authErr.Err)
		if code == "" {
			code = domain.CodeInvalidToken
		}
		return http.StatusUnauthorized, errorResponse{Error: rootMessage(authErr.Err), Code: code}
	}

	var de *domain.Error
	if errors.As(err, &de) {
		status, ok := statusByCode[de.Code]
		if ok {
			if de.Code == domain.CodeNotAuthorizedToChangeProduct || de.Code == domain.CodeOperationNotAllowed {
				metrics.AuthorizationDenialsTotal.WithLabelValues(de.Code).Inc()
			}
			return status, errorResponse{Error: de.Message, Code: de.Code}
		}
	}

	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, errorResponse{Error: fmt.Sprintf("%v", he.Message), Code: codeFromStatus(he.Code)}
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, errorResponse{Error: "internal server error", Code: codeInternal}
}

// rootMessage returns the message of the business error inside err, so the
// token library's wording never reaches the client.
func rootMessage(err error) string {
	var de *domain.Error
	if errors.As(err, &de) {
		return de.Message
	}
	return domain.ErrInvalidToken.Message
}

func codeFromStatus(status int) string {
	text := http.StatusText(status)
	if text == "" {
		return codeInternal
	}
	return strings.ToUpper(strings.ReplaceAll(text, " ", "_"))
}
