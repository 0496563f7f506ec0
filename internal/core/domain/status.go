package domain

// Status is the two-state lifecycle shared by accounts and products.
type Status string

const (
	StatusActive   Status = "ACTIVE"
	StatusInactive Status = "INACTIVE"
)

// toggles defines the only transitions a status may take.
var toggles = map[Status]Status{
	StatusActive:   StatusInactive,
	StatusInactive: StatusActive,
}

// Toggled returns the opposite status. Anything that is not ACTIVE is treated
// as INACTIVE so a corrupted record always converges to a known state.
func (s Status) Toggled() Status {
	if next, ok := toggles[s]; ok {
		return next
	}
	return StatusActive
}

// IsActive reports whether the status is ACTIVE.
func (s Status) IsActive() bool {
	return s == StatusActive
}
