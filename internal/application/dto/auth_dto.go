package dto

import "time"

// LoginRequest credenciales de ingreso. OrganizationID es opcional: si el usuario
// pertenece a una sola organización se resuelve sola; si pertenece a varias, es
// obligatorio para elegir el tenant del token.
type LoginRequest struct {
	Email          string `json:"email"`
	Password       string `json:"password"`
	OrganizationID string `json:"organization_id,omitempty"`
}

// RegisterRequest alta de un usuario suelto (sin organización). El acceso a un
// tenant llega después, vía invitación o alta de organización.
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// UserResponse representación pública de un usuario.
type UserResponse struct {
	ID         string    `json:"id"`
	Email      string    `json:"email"`
	Name       string    `json:"name"`
	SuperAdmin bool      `json:"super_admin"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// LoginResponse token + usuario autenticado.
type LoginResponse struct {
	Token          string       `json:"token"`
	OrganizationID string       `json:"organization_id,omitempty"`
	User           UserResponse `json:"user"`
}

// MeResponse estado completo del actor en su organización: roles, permisos
// resueltos al momento de la llamada y licenciamiento por módulo.
type MeResponse struct {
	User           UserResponse            `json:"user"`
	OrganizationID string                  `json:"organization_id,omitempty"`
	Roles          []string                `json:"roles"`
	Permissions    []string                `json:"permissions"`
	Modules        []ModuleLicenseResponse `json:"modules"`
}
