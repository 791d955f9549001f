package postgres

import (
	"context"
	"fmt"

	"github.com/tu-usuario/suite-pro/internal/domain/entity"
	"github.com/tu-usuario/suite-pro/internal/domain/repository"
)

var _ repository.EmployeeRepository = (*EmployeeRepo)(nil)

// EmployeeRepo implementación del puerto EmployeeRepository sobre PostgreSQL.
type EmployeeRepo struct {
	q Querier
}

// NewEmployeeRepository construye el adaptador. Pasar pool o tx (Querier).
func NewEmployeeRepository(q Querier) *EmployeeRepo {
	return &EmployeeRepo{q: q}
}

// Create persiste un nuevo empleado.
func (r *EmployeeRepo) Create(ctx context.Context, e *entity.Employee) error {
	query := `
		INSERT INTO employees (id, organization_id, name, email, position, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query,
		e.ID, e.OrganizationID, e.Name, e.Email, e.Position, e.Status,
		e.CreatedAt, e.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert employee: %w", err)
	}
	return nil
}

// ListByOrg devuelve empleados de una organización con paginación.
func (r *EmployeeRepo) ListByOrg(ctx context.Context, orgID string, limit, offset int) ([]*entity.Employee, error) {
	query := `
		SELECT id, organization_id, name, email, position, status, created_at, updated_at
		FROM employees WHERE organization_id = $1
		ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, orgID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list employees: %w", err)
	}
	defer rows.Close()

	var list []*entity.Employee
	for rows.Next() {
		var e entity.Employee
		if err := rows.Scan(&e.ID, &e.OrganizationID, &e.Name, &e.Email, &e.Position, &e.Status, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan employee: %w", err)
		}
		list = append(list, &e)
	}
	return list, rows.Err()
}

// CountActiveByOrg cuenta empleados activos del tenant. Ejecutar dentro de la
// misma tx que bloqueó la fila de la organización para que el cupo sea correcto.
func (r *EmployeeRepo) CountActiveByOrg(ctx context.Context, orgID string) (int, error) {
	query := `SELECT count(*) FROM employees WHERE organization_id = $1 AND status = 'active'`
	var count int
	if err := r.q.QueryRow(ctx, query, orgID).Scan(&count); err != nil {
		return 0, fmt.Errorf("count active employees: %w", err)
	}
	return count, nil
}
