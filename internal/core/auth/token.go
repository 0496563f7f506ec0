package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/elmdemo/marketplace/internal/core/domain"
)

// DefaultTokenTTL is the lifetime of an issued token.
const DefaultTokenTTL = 24 * time.Hour

// ErrMissingSigningKey is returned when the codec is built without a secret.
var ErrMissingSigningKey = errors.New("auth: signing key must not be empty")

// Claims is the payload signed into every access token.
// The subject is the decimal account id.
type Claims struct {
	jwt.RegisteredClaims
	Role domain.Role `json:"role"`
	Name string      `json:"name,omitempty"`
}

// AccountID decodes the subject claim.
func (c *Claims) AccountID() (int64, error) {
	id, err := strconv.ParseInt(c.Subject, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: subject %q is not an account id", domain.ErrInvalidToken, c.Subject)
	}
	return id, nil
}

// Subject is what gets embedded into a token at login.
type Subject struct {
	AccountID int64
	Role      domain.Role
	Username  string
}

// TokenCodec issues and verifies HS256 tokens with a process-wide secret.
type TokenCodec struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenCodec returns a codec signing with secret. A non-positive ttl falls
// back to DefaultTokenTTL.
func NewTokenCodec(secret []byte, ttl time.Duration) (*TokenCodec, error) {
	if len(secret) == 0 {
		return nil, ErrMissingSigningKey
	}
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	key := make([]byte, len(secret))
	copy(key, secret)
	return &TokenCodec{secret: key, ttl: ttl}, nil
}

// TTL returns the configured token lifetime.
func (c *TokenCodec) TTL() time.Duration {
	return c.ttl
}

// Issue signs a token for s. Timestamps have whole-second resolution, so the
// same subject and second always produce the same token.
func (c *TokenCodec) Issue(s Subject, now time.Time) (string, error) {
	issuedAt := now.UTC().Truncate(time.Second)
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(s.AccountID, 10),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(c.ttl)),
		},
		Role: s.Role,
		Name: s.Username,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// ParseAndVerify checks the signature and expiry of token as of now.
// It fails with domain.ErrTokenExpired once now reaches the expiry and with
// domain.ErrInvalidToken for every other defect.
func (c *TokenCodec) ParseAndVerify(token string, now time.Time) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(token, claims, c.keyFunc,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithStrictDecoding(),
		jwt.WithTimeFunc(func() time.Time { return now }),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("%w: %v", domain.ErrTokenExpired, err)
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidToken, err)
	}

	if _, err := claims.AccountID(); err != nil {
		return nil, err
	}
	if !claims.Role.IsValid() {
		return nil, fmt.Errorf("%w: unknown role %q", domain.ErrInvalidToken, claims.Role)
	}
	return claims, nil
}

// Extract verifies token and projects a single value out of its claims.
func Extract[T any](c *TokenCodec, token string, now time.Time, selector func(*Claims) T) (T, error) {
	var zero T
	claims, err := c.ParseAndVerify(token, now)
	if err != nil {
		return zero, err
	}
	return selector(claims), nil
}

func (c *TokenCodec) keyFunc(t *jwt.Token) (any, error) {
	if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
	}
	return c.secret, nil
}
