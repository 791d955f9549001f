package entity

import "time"

// Estados de ciclo de vida de User.
const (
	UserStatusActive    = "active"
	UserStatusInactive  = "inactive"
	UserStatusSuspended = "suspended"
)

// User representa una identidad global del sistema. El acceso a cada organización
// se otorga vía Membership; un super admin opera fuera de cualquier organización.
type User struct {
	ID           string
	Email        string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Name         string
	SuperAdmin   bool   // bypass total de permisos y licenciamiento
	Status       string // active, inactive, suspended
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
