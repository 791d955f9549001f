package postgres

import (
	"context"
	"fmt"

	"github.com/tu-usuario/suite-pro/internal/domain/entity"
	"github.com/tu-usuario/suite-pro/internal/domain/repository"
)

var _ repository.RoleRepository = (*RoleRepo)(nil)

// RoleRepo implementación del puerto RoleRepository sobre PostgreSQL.
type RoleRepo struct {
	q Querier
}

// NewRoleRepository construye el adaptador. Pasar pool o tx (Querier).
func NewRoleRepository(q Querier) *RoleRepo {
	return &RoleRepo{q: q}
}

// Create persiste un nuevo rol.
func (r *RoleRepo) Create(ctx context.Context, role *entity.Role) error {
	query := `
		INSERT INTO roles (id, organization_id, key, name, created_at)
		VALUES ($1, $2, $3, $4, $5)`
	_, err := r.q.Exec(ctx, query,
		role.ID, role.OrganizationID, role.Key, role.Name, role.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert role: %w", err)
	}
	return nil
}

// GetGlobalByKey busca un rol global (organization_id IS NULL) por key.
func (r *RoleRepo) GetGlobalByKey(ctx context.Context, key string) (*entity.Role, error) {
	query := `
		SELECT id, organization_id, key, name, created_at
		FROM roles WHERE key = $1 AND organization_id IS NULL`
	var role entity.Role
	err := r.q.QueryRow(ctx, query, key).Scan(
		&role.ID, &role.OrganizationID, &role.Key, &role.Name, &role.CreatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get global role: %w", err)
	}
	return &role, nil
}

// ListByMembership devuelve los roles atados a una membership.
func (r *RoleRepo) ListByMembership(ctx context.Context, membershipID string) ([]*entity.Role, error) {
	query := `
		SELECT ro.id, ro.organization_id, ro.key, ro.name, ro.created_at
		FROM membership_roles mr
		JOIN roles ro ON ro.id = mr.role_id
		WHERE mr.membership_id = $1
		ORDER BY ro.key`
	rows, err := r.q.Query(ctx, query, membershipID)
	if err != nil {
		return nil, fmt.Errorf("list roles by membership: %w", err)
	}
	defer rows.Close()

	var list []*entity.Role
	for rows.Next() {
		var role entity.Role
		if err := rows.Scan(&role.ID, &role.OrganizationID, &role.Key, &role.Name, &role.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan role: %w", err)
		}
		list = append(list, &role)
	}
	return list, rows.Err()
}

// PermissionKeysForMembership resuelve la unión de permisos de todos los roles
// de la membership en una sola consulta (join + DISTINCT). Una lectura, una foto.
func (r *RoleRepo) PermissionKeysForMembership(ctx context.Context, membershipID string) ([]string, error) {
	query := `
		SELECT DISTINCT rp.permission_key
		FROM membership_roles mr
		JOIN role_permissions rp ON rp.role_id = mr.role_id
		WHERE mr.membership_id = $1`
	rows, err := r.q.Query(ctx, query, membershipID)
	if err != nil {
		return nil, fmt.Errorf("permission keys for membership: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("scan permission key: %w", err)
		}
		keys = append(keys, key)
	}
	return keys, rows.Err()
}

// Attach ata un rol a una membership. Idempotente (ON CONFLICT DO NOTHING).
func (r *RoleRepo) Attach(ctx context.Context, membershipID, roleID string) error {
	query := `
		INSERT INTO membership_roles (membership_id, role_id)
		VALUES ($1, $2)
		ON CONFLICT (membership_id, role_id) DO NOTHING`
	_, err := r.q.Exec(ctx, query, membershipID, roleID)
	if err != nil {
		return fmt.Errorf("attach role: %w", err)
	}
	return nil
}

// Detach desata un rol de una membership.
func (r *RoleRepo) Detach(ctx context.Context, membershipID, roleID string) error {
	query := `DELETE FROM membership_roles WHERE membership_id = $1 AND role_id = $2`
	_, err := r.q.Exec(ctx, query, membershipID, roleID)
	if err != nil {
		return fmt.Errorf("detach role: %w", err)
	}
	return nil
}
