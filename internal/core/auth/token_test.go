package auth

import (
	"encoding/base64"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elmdemo/marketplace/internal/core/domain"
)

var testSecret = []byte("2ECCD48E35ADF9C17813D4C22B4672ECCD48E35ADF9C17813D4C22B467")

// t0 has whole-second resolution, matching the token's own precision.
var t0 = time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)

func newTestCodec(t *testing.T) *TokenCodec {
	t.Helper()
	codec, err := NewTokenCodec(testSecret, 0)
	require.NoError(t, err)
	return codec
}

func TestNewTokenCodec_RequiresSecret(t *testing.T) {
	_, err := NewTokenCodec(nil, time.Hour)
	assert.ErrorIs(t, err, ErrMissingSigningKey)

	codec, err := NewTokenCodec([]byte("k"), -time.Second)
	require.NoError(t, err)
	assert.Equal(t, DefaultTokenTTL, codec.TTL())
}

func TestTokenCodec_IssueEmbedsClaims(t *testing.T) {
	codec := newTestCodec(t)

	token, err := codec.Issue(Subject{AccountID: 42, Role: domain.RoleDealer, Username: "dan"}, t0)
	require.NoError(t, err)

	claims, err := codec.ParseAndVerify(token, t0)
	require.NoError(t, err)
	assert.Equal(t, "42", claims.Subject)
	assert.Equal(t, domain.RoleDealer, claims.Role)
	assert.Equal(t, "dan", claims.Name)
	assert.True(t, t0.Equal(claims.IssuedAt.Time))
	assert.True(t, t0.Add(24*time.Hour).Equal(claims.ExpiresAt.Time))

	id, err := claims.AccountID()
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)
}

func TestTokenCodec_IssueIsDeterministic(t *testing.T) {
	codec := newTestCodec(t)
	s := Subject{AccountID: 7, Role: domain.RoleClient, Username: "alice"}

	a, err := codec.Issue(s, t0)
	require.NoError(t, err)
	b, err := codec.Issue(s, t0.Add(400*time.Millisecond))
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestTokenCodec_ExpiryBoundary(t *testing.T) {
	codec := newTestCodec(t)
	token, err := codec.Issue(Subject{AccountID: 1, Role: domain.RoleAdmin}, t0)
	require.NoError(t, err)

	cases := []struct {
		name    string
		delta   time.Duration
		expired bool
	}{
		{"at issuance", 0, false},
		{"one hour later", time.Hour, false},
		{"one second before expiry", 24*time.Hour - time.Second, false},
		{"one nanosecond before expiry", 24*time.Hour - time.Nanosecond, false},
		{"exactly at expiry", 24 * time.Hour, true},
		{"a day after expiry", 48 * time.Hour, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := codec.ParseAndVerify(token, t0.Add(tc.delta))
			if tc.expired {
				assert.ErrorIs(t, err, domain.ErrTokenExpired)
				assert.NotErrorIs(t, err, domain.ErrInvalidToken)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestTokenCodec_TamperedSignatureIsInvalid(t *testing.T) {
	codec := newTestCodec(t)
	token, err := codec.Issue(Subject{AccountID: 3, Role: domain.RoleClient}, t0)
	require.NoError(t, err)

	sigStart := strings.LastIndex(token, ".") + 1
	for i := sigStart; i < len(token); i++ {
		replacement := byte('A')
		if token[i] == 'A' {
			replacement = 'B'
		}
		tampered := token[:i] + string(replacement) + token[i+1:]

		_, err := codec.ParseAndVerify(tampered, t0)
		assert.ErrorIs(t, err, domain.ErrInvalidToken, "byte %d", i-sigStart)
	}
}

func TestTokenCodec_TamperedSignatureOnExpiredTokenIsInvalid(t *testing.T) {
	codec := newTestCodec(t)
	token, err := codec.Issue(Subject{AccountID: 3, Role: domain.RoleClient}, t0)
	require.NoError(t, err)

	tampered := token[:len(token)-5] + "AAAAA"
	if tampered == token {
		tampered = token[:len(token)-5] + "BBBBB"
	}
	_, err = codec.ParseAndVerify(tampered, t0.Add(72*time.Hour))
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestTokenCodec_RejectsForeignTokens(t *testing.T) {
	codec := newTestCodec(t)
	other, err := NewTokenCodec([]byte("another-secret"), 0)
	require.NoError(t, err)

	foreign, err := other.Issue(Subject{AccountID: 1, Role: domain.RoleAdmin}, t0)
	require.NoError(t, err)

	cases := map[string]string{
		"empty":           "",
		"garbage":         "not-a-token",
		"two segments":    "a.b",
		"wrong secret":    foreign,
		"unsigned (none)": signUnsafe(t, jwt.SigningMethodNone, jwt.UnsafeAllowNoneSignatureType, validClaims()),
	}
	for name, token := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := codec.ParseAndVerify(token, t0)
			assert.ErrorIs(t, err, domain.ErrInvalidToken)
		})
	}
}

func TestTokenCodec_RejectsUnparsableClaims(t *testing.T) {
	codec := newTestCodec(t)

	badSubject := validClaims()
	badSubject.Subject = "alice"
	noExpiry := validClaims()
	noExpiry.ExpiresAt = nil
	badRole := validClaims()
	badRole.Role = "SUPERUSER"

	cases := map[string]*Claims{
		"non numeric subject": badSubject,
		"missing expiry":      noExpiry,
		"unknown role":        badRole,
	}
	for name, claims := range cases {
		t.Run(name, func(t *testing.T) {
			token := signUnsafe(t, jwt.SigningMethodHS256, testSecret, claims)
			_, err := codec.ParseAndVerify(token, t0)
			assert.ErrorIs(t, err, domain.ErrInvalidToken)
		})
	}
}

func TestTokenCodec_RejectsOtherHMACAlgorithms(t *testing.T) {
	codec := newTestCodec(t)
	token := signUnsafe(t, jwt.SigningMethodHS512, testSecret, validClaims())

	_, err := codec.ParseAndVerify(token, t0)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestExtract(t *testing.T) {
	codec := newTestCodec(t)
	token, err := codec.Issue(Subject{AccountID: 99, Role: domain.RoleClient}, t0)
	require.NoError(t, err)

	sub, err := Extract(codec, token, t0, func(c *Claims) string { return c.Subject })
	require.NoError(t, err)
	assert.Equal(t, "99", sub)

	exp, err := Extract(codec, token, t0, func(c *Claims) time.Time { return c.ExpiresAt.Time })
	require.NoError(t, err)
	assert.True(t, exp.Equal(t0.Add(24*time.Hour)))

	_, err = Extract(codec, token, t0.Add(25*time.Hour), func(c *Claims) string { return c.Subject })
	assert.ErrorIs(t, err, domain.ErrTokenExpired)
}

func TestTokenCodec_SubjectIsDecimalString(t *testing.T) {
	codec := newTestCodec(t)
	token, err := codec.Issue(Subject{AccountID: 1234567890123, Role: domain.RoleClient}, t0)
	require.NoError(t, err)

	payload := strings.Split(token, ".")[1]
	raw, err := base64.RawURLEncoding.DecodeString(payload)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"sub":"1234567890123"`)
	assert.Contains(t, string(raw), `"role":"CLIENT"`)
}

func validClaims() *Claims {
	return &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "5",
			IssuedAt:  jwt.NewNumericDate(t0),
			ExpiresAt: jwt.NewNumericDate(t0.Add(time.Hour)),
		},
		Role: domain.RoleClient,
	}
}

func signUnsafe(t *testing.T, method jwt.SigningMethod, key any, claims *Claims) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return signed
}
