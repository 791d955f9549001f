package entity

import (
	"strings"
	"time"
)

// Roles globales predefinidos (sin namespace de módulo).
const (
	RoleOwner  = "owner"
	RoleAdmin  = "admin"
	RoleMember = "member"
)

// Role es un paquete nombrado de permisos. OrganizationID nil = rol global del
// sistema; no nil = rol definido por esa organización. Los roles se atan a
// Memberships vía la tabla membership_roles.
type Role struct {
	ID             string
	OrganizationID *string
	Key            string // "owner", "admin", "hr.manager", ...
	Name           string
	CreatedAt      time.Time
}

// ModuleKey devuelve el prefijo de módulo del rol ("hr" en "hr.manager").
// Un rol sin punto es global/de organización y devuelve cadena vacía.
func (r *Role) ModuleKey() string {
	if i := strings.IndexByte(r.Key, '.'); i > 0 {
		return r.Key[:i]
	}
	return ""
}

// Permission es una capacidad atómica ("hr.employees.view"). Se ata a Roles vía
// la tabla role_permissions.
type Permission struct {
	ID          string
	Key         string
	Description string
}
