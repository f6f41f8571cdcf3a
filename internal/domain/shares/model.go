package shares

import "time"

type Scope string

const (
	ScopePlanRead Scope = "plan:read"
	ScopePlanEdit Scope = "plan:edit"
)

type Status string

const (
	StatusInvited Status = "invited"
	StatusActive  Status = "active"
	StatusRevoked Status = "revoked"
)

// Share da acceso a un plan de salida a un amigo.
type Share struct {
	ID     string
	PlanID string

	OwnerUserID   string // dueño del plan
	GranteeUserID string // amigo invitado

	Scopes []Scope
	Status Status

	CreatedAt time.Time
	UpdatedAt time.Time
	RevokedAt *time.Time
}

// HasScope valida si el share incluye un scope. plan:edit implica plan:read.
func HasScope(s Share, scope Scope) bool {
	for _, have := range s.Scopes {
		if have == scope {
			return true
		}
		if scope == ScopePlanRead && have == ScopePlanEdit {
			return true
		}
	}
	return false
}
