package domain

import "errors"

// Stable error codes surfaced to API callers.
const (
	CodeInvalidToken                 = "INVALID_TOKEN"
	CodeTokenExpired                 = "TOKEN_EXPIRED"
	CodeAuthenticationFailed         = "AUTHENTICATION_FAILED"
	CodeAccountNotActive             = "ACCOUNT_NOT_ACTIVE"
	CodeAccountAlreadyExists         = "ACCOUNT_ALREADY_EXISTS"
	CodeAccountNotFound              = "ACCOUNT_NOT_FOUND"
	CodeProductNotFound              = "PRODUCT_NOT_FOUND"
	CodeNotAuthorizedToChangeProduct = "NOT_AUTHORIZED_TO_CHANGE_PRODUCT_STATUS"
	CodeOperationNotAllowed          = "OPERATION_NOT_ALLOWED"
	CodeAuthenticationRequired       = "AUTHENTICATION_REQUIRED"
	CodeForbidden                    = "FORBIDDEN"
	CodeValidationFailed             = "VALIDATION_FAILED"
)

// Error is a business failure with a stable code. Two errors with the same
// code match under errors.Is even when their messages differ.
type Error struct {
	Code    string
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// Is matches any *Error carrying the same code.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return e.Code == t.Code
}

func newError(code, message string) *Error {
	return &Error{Code: code, Message: message}
}

var (
	ErrInvalidToken = newError(CodeInvalidToken, "invalid token")
	ErrTokenExpired = newError(CodeTokenExpired, "token is expired")

	// ErrAuthenticationFailed deliberately covers both an unknown username and
	// a wrong password.
	ErrAuthenticationFailed = newError(CodeAuthenticationFailed, "username or password wrong")
	ErrAccountNotActive     = newError(CodeAccountNotActive, "user is not active")

	ErrAccountAlreadyExists = newError(CodeAccountAlreadyExists, "user already exists")
	ErrEmailTaken           = newError(CodeAccountAlreadyExists, "email already exists")
	ErrUsernameTaken        = newError(CodeAccountAlreadyExists, "username already exists")

	ErrAccountNotFound = newError(CodeAccountNotFound, "user not found")
	ErrProductNotFound = newError(CodeProductNotFound, "product not found")

	ErrNotAuthorizedToChangeProductStatus = newError(CodeNotAuthorizedToChangeProduct, "not authorized to change this product status")
	ErrOperationNotAllowed                = newError(CodeOperationNotAllowed, "admin cannot change their own status")

	ErrAuthenticationRequired = newError(CodeAuthenticationRequired, "authentication required")
	ErrForbidden              = newError(CodeForbidden, "access forbidden")
	ErrInvalidRole            = newError(CodeValidationFailed, "role is not allowed for this operation")
	ErrMissingAccountFields   = newError(CodeValidationFailed, "username, email and password are required")
	ErrInvalidProduct         = newError(CodeValidationFailed, "product name and a positive price are required")
	ErrPasswordTooLong        = newError(CodeValidationFailed, "password must be at most 72 bytes")
)

// AuthenticationError marks a failure raised while establishing the caller's
// identity. Whatever the wrapped kind, it terminates the request as unauthorized.
type AuthenticationError struct {
	Err error
}

func (e *AuthenticationError) Error() string {
	return "authentication failed: " + e.Err.Error()
}

func (e *AuthenticationError) Unwrap() error {
	return e.Err
}

// CodeOf returns the stable code of err, or "" when err is not a business error.
func CodeOf(err error) string {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}
