package repository

import (
	"context"

	"github.com/tu-usuario/suite-pro/internal/domain/entity"
)

// OrgModuleRepository define el puerto de persistencia para los entitlements
// por (organización, módulo). La unicidad del par la garantiza un índice único;
// los upserts usan ON CONFLICT sobre ese índice.
type OrgModuleRepository interface {
	GetByOrgAndModule(ctx context.Context, orgID, moduleID string) (*entity.OrgModule, error)
	ListByOrg(ctx context.Context, orgID string) ([]*entity.OrgModule, error)
	// Upsert inserta o reemplaza el registro completo (enabled, plan, seats, fechas).
	Upsert(ctx context.Context, om *entity.OrgModule) error
	// ApplyPlan habilita el módulo y fija el plan preservando seats y fechas
	// existentes. Es la operación de fan-out de bundles.
	ApplyPlan(ctx context.Context, orgID, moduleID, plan string) error
	// SetEnabled escribe el flag con valor absoluto. Idempotente: dos escrituras
	// concurrentes convergen al mismo estado (activación perezosa de trials,
	// cancelación inmediata).
	SetEnabled(ctx context.Context, orgID, moduleID string, enabled bool) error
}
