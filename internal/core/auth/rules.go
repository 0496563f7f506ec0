package auth

import (
	"slices"

	"github.com/elmdemo/marketplace/internal/core/domain"
)

// RequireRole allows p when its role exactly matches one of roles.
// Roles are not hierarchical: an ADMIN does not satisfy a DEALER requirement.
func RequireRole(p domain.Principal, roles ...domain.Role) error {
	if p.IsZero() {
		return domain.ErrAuthenticationRequired
	}
	if slices.Contains(roles, p.Role) {
		return nil
	}
	return domain.ErrForbidden
}

// RequireOwnership allows p when resourceID is among ownedIDs, the ids of the
// resources p holds.
func RequireOwnership(p domain.Principal, resourceID int64, ownedIDs []int64) error {
	if p.IsZero() {
		return domain.ErrAuthenticationRequired
	}
	if slices.Contains(ownedIDs, resourceID) {
		return nil
	}
	return domain.ErrNotAuthorizedToChangeProductStatus
}

// ForbidSelfAction denies p acting on its own account.
func ForbidSelfAction(p domain.Principal, targetAccountID int64) error {
	if p.IsZero() {
		return domain.ErrAuthenticationRequired
	}
	if p.AccountID == targetAccountID {
		return domain.ErrOperationNotAllowed
	}
	return nil
}
