package postgres

import (
	"context"
	"fmt"

	"github.com/tu-usuario/suite-pro/internal/domain/entity"
	"github.com/tu-usuario/suite-pro/internal/domain/repository"
)

var _ repository.OrgModuleRepository = (*OrgModuleRepo)(nil)

// OrgModuleRepo implementación del puerto OrgModuleRepository sobre PostgreSQL.
// La unicidad del par (organization_id, module_id) la garantiza un índice único;
// todos los upserts conflictúan sobre él.
type OrgModuleRepo struct {
	q Querier
}

// NewOrgModuleRepository construye el adaptador. Pasar pool o tx (Querier).
func NewOrgModuleRepository(q Querier) *OrgModuleRepo {
	return &OrgModuleRepo{q: q}
}

const orgModuleColumns = `id, organization_id, module_id, is_enabled, plan, seats, expires_at, trial_ends_at, created_at, updated_at`

// GetByOrgAndModule obtiene el entitlement del par (org, módulo).
func (r *OrgModuleRepo) GetByOrgAndModule(ctx context.Context, orgID, moduleID string) (*entity.OrgModule, error) {
	query := `SELECT ` + orgModuleColumns + ` FROM org_modules WHERE organization_id = $1 AND module_id = $2`
	var om entity.OrgModule
	err := r.q.QueryRow(ctx, query, orgID, moduleID).Scan(
		&om.ID, &om.OrganizationID, &om.ModuleID, &om.IsEnabled, &om.Plan,
		&om.Seats, &om.ExpiresAt, &om.TrialEndsAt, &om.CreatedAt, &om.UpdatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get org module: %w", err)
	}
	return &om, nil
}

// ListByOrg devuelve todos los entitlements de una organización.
func (r *OrgModuleRepo) ListByOrg(ctx context.Context, orgID string) ([]*entity.OrgModule, error) {
	query := `SELECT ` + orgModuleColumns + ` FROM org_modules WHERE organization_id = $1`
	rows, err := r.q.Query(ctx, query, orgID)
	if err != nil {
		return nil, fmt.Errorf("list org modules: %w", err)
	}
	defer rows.Close()

	var list []*entity.OrgModule
	for rows.Next() {
		var om entity.OrgModule
		if err := rows.Scan(
			&om.ID, &om.OrganizationID, &om.ModuleID, &om.IsEnabled, &om.Plan,
			&om.Seats, &om.ExpiresAt, &om.TrialEndsAt, &om.CreatedAt, &om.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan org module: %w", err)
		}
		list = append(list, &om)
	}
	return list, rows.Err()
}

// Upsert inserta o reemplaza el registro completo del par (org, módulo).
func (r *OrgModuleRepo) Upsert(ctx context.Context, om *entity.OrgModule) error {
	query := `
		INSERT INTO org_modules (id, organization_id, module_id, is_enabled, plan, seats, expires_at, trial_ends_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (organization_id, module_id)
		DO UPDATE SET is_enabled = EXCLUDED.is_enabled, plan = EXCLUDED.plan, seats = EXCLUDED.seats,
		              expires_at = EXCLUDED.expires_at, trial_ends_at = EXCLUDED.trial_ends_at, updated_at = now()`
	_, err := r.q.Exec(ctx, query,
		om.ID, om.OrganizationID, om.ModuleID, om.IsEnabled, om.Plan,
		om.Seats, om.ExpiresAt, om.TrialEndsAt, om.CreatedAt, om.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert org module: %w", err)
	}
	return nil
}

// ApplyPlan habilita el módulo y fija el plan, preservando seats y fechas de un
// registro existente (fan-out de bundles).
func (r *OrgModuleRepo) ApplyPlan(ctx context.Context, orgID, moduleID, plan string) error {
	query := `
		INSERT INTO org_modules (id, organization_id, module_id, is_enabled, plan, created_at, updated_at)
		VALUES (gen_random_uuid(), $1, $2, true, $3, now(), now())
		ON CONFLICT (organization_id, module_id)
		DO UPDATE SET is_enabled = true, plan = EXCLUDED.plan, updated_at = now()`
	_, err := r.q.Exec(ctx, query, orgID, moduleID, plan)
	if err != nil {
		return fmt.Errorf("apply plan: %w", err)
	}
	return nil
}

// SetEnabled escribe el flag con valor absoluto (idempotente): activación
// perezosa de trials y cancelación inmediata convergen bajo concurrencia.
func (r *OrgModuleRepo) SetEnabled(ctx context.Context, orgID, moduleID string, enabled bool) error {
	query := `UPDATE org_modules SET is_enabled = $3, updated_at = now() WHERE organization_id = $1 AND module_id = $2`
	_, err := r.q.Exec(ctx, query, orgID, moduleID, enabled)
	if err != nil {
		return fmt.Errorf("set org module enabled: %w", err)
	}
	return nil
}
