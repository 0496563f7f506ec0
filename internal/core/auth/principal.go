package auth

import "github.com/elmdemo/marketplace/internal/core/domain"

// Resolve turns verified claims into a principal. The single authority is the
// role claim itself; the live account record is not consulted.
func Resolve(claims *Claims) (domain.Principal, error) {
	id, err := claims.AccountID()
	if err != nil {
		return domain.Principal{}, err
	}
	return domain.Principal{
		AccountID:   id,
		Role:        claims.Role,
		Authorities: []string{string(claims.Role)},
	}, nil
}
