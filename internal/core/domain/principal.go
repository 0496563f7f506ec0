package domain

// Principal is the authenticated identity attached to a single request.
// It is built once by the authentication gate and passed by value, so later
// stages can read it but never change the caller's identity.
type Principal struct {
	AccountID   int64
	Role        Role
	Authorities []string
}

// IsZero reports whether p carries no identity.
func (p Principal) IsZero() bool {
	return p.AccountID == 0 && p.Role == ""
}

// HasAuthority reports whether the principal was granted the named authority.
func (p Principal) HasAuthority(name string) bool {
	for _, a := range p.Authorities {
		if a == name {
			return true
		}
	}
	return false
}
