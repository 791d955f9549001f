package dto

import "time"

// CreateOrganizationRequest alta de organización (signup). Crea también el
// usuario owner con su membership y siembra los módulos por defecto en trial.
type CreateOrganizationRequest struct {
	Name          string `json:"name"`
	Slug          string `json:"slug"`
	OwnerEmail    string `json:"owner_email"`
	OwnerName     string `json:"owner_name"`
	OwnerPassword string `json:"owner_password"`
}

// OrganizationResponse representación pública de una organización.
type OrganizationResponse struct {
	ID              string     `json:"id"`
	Name            string     `json:"name"`
	Slug            string     `json:"slug"`
	Status          string     `json:"status"`
	MaxUsers        *int       `json:"max_users"`
	MaxEmployees    *int       `json:"max_employees"`
	ExpiresAt       *time.Time `json:"expires_at,omitempty"`
	CurrentBundleID *string    `json:"current_bundle_id,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// InviteMemberRequest invita (o reactiva) un usuario en la organización.
// RoleKey por defecto "member".
type InviteMemberRequest struct {
	Email   string `json:"email"`
	Name    string `json:"name"`
	RoleKey string `json:"role_key,omitempty"`
}

// MembershipResponse representación pública de una membership.
type MembershipResponse struct {
	ID             string    `json:"id"`
	UserID         string    `json:"user_id"`
	OrganizationID string    `json:"organization_id"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"created_at"`
}

// CreateEmployeeRequest alta individual de empleado.
type CreateEmployeeRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Position string `json:"position"`
}

// BulkCreateEmployeesRequest alta masiva; el chequeo de cupo cubre el lote completo.
type BulkCreateEmployeesRequest struct {
	Employees []CreateEmployeeRequest `json:"employees"`
}

// EmployeeResponse representación pública de un empleado.
type EmployeeResponse struct {
	ID             string    `json:"id"`
	OrganizationID string    `json:"organization_id"`
	Name           string    `json:"name"`
	Email          string    `json:"email,omitempty"`
	Position       string    `json:"position,omitempty"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"created_at"`
}

// UpdateCapsRequest cambio de cupos de la organización. nil = sin límite.
type UpdateCapsRequest struct {
	MaxUsers     *int `json:"max_users"`
	MaxEmployees *int `json:"max_employees"`
}

// LimitViolationResponse cuerpo de error 422 cuando se supera un cupo.
type LimitViolationResponse struct {
	Code         string `json:"code"`
	Message      string `json:"message"`
	Resource     string `json:"resource"`
	CurrentCount int    `json:"current_count"`
	Cap          int    `json:"cap"`
}
