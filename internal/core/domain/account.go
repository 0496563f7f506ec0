package domain

import "time"

// Role is the single authority an account holds.
type Role string

const (
	RoleAdmin  Role = "ADMIN"
	RoleDealer Role = "DEALER"
	RoleClient Role = "CLIENT"
)

// DefaultRole is assigned to self-registered accounts.
const DefaultRole = RoleClient

// MaxPasswordBytes is the longest password bcrypt accepts, counted in bytes.
const MaxPasswordBytes = 72

// IsValid reports whether r is one of the known roles.
func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleDealer, RoleClient:
		return true
	default:
		return false
	}
}

// IsPrivileged reports whether r may only be granted by an administrator.
func (r Role) IsPrivileged() bool {
	return r == RoleAdmin || r == RoleDealer
}

// Account models a registered marketplace user.
type Account struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Status       Status    `json:"status"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// IsActive reports whether the account may log in.
func (a *Account) IsActive() bool {
	return a.Status.IsActive()
}
