package postgres

import (
	"context"
	"fmt"

	"github.com/tu-usuario/suite-pro/internal/domain/entity"
	"github.com/tu-usuario/suite-pro/internal/domain/repository"
)

var _ repository.SubscriptionRepository = (*SubscriptionRepo)(nil)

// SubscriptionRepo implementación del puerto SubscriptionRepository sobre PostgreSQL.
type SubscriptionRepo struct {
	q Querier
}

// NewSubscriptionRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSubscriptionRepository(q Querier) *SubscriptionRepo {
	return &SubscriptionRepo{q: q}
}

const subscriptionColumns = `id, organization_id, module_id, status, plan, current_period_start, current_period_end, cancel_at_period_end, created_at, updated_at`

// GetByID obtiene una suscripción por ID.
func (r *SubscriptionRepo) GetByID(ctx context.Context, id string) (*entity.Subscription, error) {
	query := `SELECT ` + subscriptionColumns + ` FROM subscriptions WHERE id = $1`
	var s entity.Subscription
	err := r.q.QueryRow(ctx, query, id).Scan(
		&s.ID, &s.OrganizationID, &s.ModuleID, &s.Status, &s.Plan,
		&s.CurrentPeriodStart, &s.CurrentPeriodEnd, &s.CancelAtPeriodEnd, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get subscription: %w", err)
	}
	return &s, nil
}

// GetByOrgAndModule obtiene la suscripción vigente del par (org, módulo).
func (r *SubscriptionRepo) GetByOrgAndModule(ctx context.Context, orgID, moduleID string) (*entity.Subscription, error) {
	query := `SELECT ` + subscriptionColumns + ` FROM subscriptions WHERE organization_id = $1 AND module_id = $2`
	var s entity.Subscription
	err := r.q.QueryRow(ctx, query, orgID, moduleID).Scan(
		&s.ID, &s.OrganizationID, &s.ModuleID, &s.Status, &s.Plan,
		&s.CurrentPeriodStart, &s.CurrentPeriodEnd, &s.CancelAtPeriodEnd, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get subscription by org and module: %w", err)
	}
	return &s, nil
}

// Upsert inserta o reemplaza la suscripción del par (org, módulo): un solo
// registro vigente gobierna cada OrgModule.
func (r *SubscriptionRepo) Upsert(ctx context.Context, s *entity.Subscription) error {
	query := `
		INSERT INTO subscriptions (id, organization_id, module_id, status, plan, current_period_start, current_period_end, cancel_at_period_end, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (organization_id, module_id)
		DO UPDATE SET status = EXCLUDED.status, plan = EXCLUDED.plan,
		              current_period_start = EXCLUDED.current_period_start,
		              current_period_end = EXCLUDED.current_period_end,
		              cancel_at_period_end = EXCLUDED.cancel_at_period_end,
		              updated_at = now()`
	_, err := r.q.Exec(ctx, query,
		s.ID, s.OrganizationID, s.ModuleID, s.Status, s.Plan,
		s.CurrentPeriodStart, s.CurrentPeriodEnd, s.CancelAtPeriodEnd, s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert subscription: %w", err)
	}
	return nil
}

// Update actualiza una suscripción existente.
func (r *SubscriptionRepo) Update(ctx context.Context, s *entity.Subscription) error {
	query := `
		UPDATE subscriptions
		SET status = $2, plan = $3, current_period_start = $4, current_period_end = $5,
		    cancel_at_period_end = $6, updated_at = $7
		WHERE id = $1`
	_, err := r.q.Exec(ctx, query,
		s.ID, s.Status, s.Plan, s.CurrentPeriodStart, s.CurrentPeriodEnd,
		s.CancelAtPeriodEnd, s.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update subscription: %w", err)
	}
	return nil
}

// ListByOrg devuelve las suscripciones de una organización.
func (r *SubscriptionRepo) ListByOrg(ctx context.Context, orgID string) ([]*entity.Subscription, error) {
	query := `SELECT ` + subscriptionColumns + ` FROM subscriptions WHERE organization_id = $1 ORDER BY created_at DESC`
	rows, err := r.q.Query(ctx, query, orgID)
	if err != nil {
		return nil, fmt.Errorf("list subscriptions: %w", err)
	}
	defer rows.Close()

	var list []*entity.Subscription
	for rows.Next() {
		var s entity.Subscription
		if err := rows.Scan(
			&s.ID, &s.OrganizationID, &s.ModuleID, &s.Status, &s.Plan,
			&s.CurrentPeriodStart, &s.CurrentPeriodEnd, &s.CancelAtPeriodEnd, &s.CreatedAt, &s.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan subscription: %w", err)
		}
		list = append(list, &s)
	}
	return list, rows.Err()
}
