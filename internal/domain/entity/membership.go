package entity

import "time"

// Estados de ciclo de vida de Membership. Nunca se borra en duro mientras otros
// datos la referencien; la remoción es un cambio de estado.
const (
	MembershipStatusActive      = "active"
	MembershipStatusDeactivated = "deactivated"
)

// Membership vincula un User con una Organization. Única por par (user, org).
// Solo las memberships activas cuentan contra maxUsers.
type Membership struct {
	ID             string
	UserID         string
	OrganizationID string
	Status         string // active, deactivated
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// IsActive informa si la membership otorga acceso actualmente.
func (m *Membership) IsActive() bool {
	return m.Status == MembershipStatusActive
}
