package entity

import "time"

// Estados de Employee.
const (
	EmployeeStatusActive      = "active"
	EmployeeStatusDeactivated = "deactivated"
)

// Employee es un registro de RRHH por organización. Solo los activos cuentan
// contra maxEmployees.
type Employee struct {
	ID             string
	OrganizationID string
	Name           string
	Email          string
	Position       string
	Status         string // active, deactivated
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
