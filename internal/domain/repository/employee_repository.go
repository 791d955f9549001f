package repository

import (
	"context"

	"github.com/tu-usuario/suite-pro/internal/domain/entity"
)

// EmployeeRepository define el puerto de persistencia para Employee.
type EmployeeRepository interface {
	Create(ctx context.Context, e *entity.Employee) error
	ListByOrg(ctx context.Context, orgID string, limit, offset int) ([]*entity.Employee, error)
	// CountActiveByOrg cuenta empleados activos del tenant; mismo contrato de
	// transaccionalidad que MembershipRepository.CountActiveByOrg.
	CountActiveByOrg(ctx context.Context, orgID string) (int, error)
}
