package domain

import "time"

// ActivityType enumerates the lifecycle events recorded to the activity trail.
type ActivityType string

const (
	ActivityAccountRegistered    ActivityType = "account.registered"
	ActivityAccountCreated       ActivityType = "account.created"
	ActivityLoginSuccess         ActivityType = "auth.login.success"
	ActivityLoginFailure         ActivityType = "auth.login.failure"
	ActivityAccountStatusChanged ActivityType = "account.status.changed"
	ActivityProductCreated       ActivityType = "product.created"
	ActivityProductStatusChanged ActivityType = "product.status.changed"
)

// ActivityEvent is an audit record of something that happened to an account or product.
type ActivityEvent struct {
	ID         string
	Type       ActivityType
	ActorID    int64 // 0 when the actor is anonymous (registration, failed login)
	SubjectID  int64 // account or product id the event is about
	Resource   string
	FromStatus Status
	ToStatus   Status
	Metadata   map[string]string
	OccurredAt time.Time
}
