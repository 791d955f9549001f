package entity

import "time"

// Estados de ciclo de vida de Organization. La desactivación es suave: la fila
// persiste porque memberships y entitlements la referencian.
const (
	OrgStatusActive      = "active"
	OrgStatusDeactivated = "deactivated"
	OrgStatusSuspended   = "suspended"
)

// Organization es la frontera de tenant. Los cupos nil significan "sin límite";
// ExpiresAt nil significa sin vencimiento duro del tenant.
type Organization struct {
	ID              string
	Name            string
	Slug            string
	Status          string // active, deactivated, suspended
	MaxUsers        *int
	MaxEmployees    *int
	ExpiresAt       *time.Time
	CurrentBundleID *string // bundle asignado actualmente; nil = sin bundle
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
