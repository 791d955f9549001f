package postgres

import (
	"context"
	"fmt"

	"github.com/tu-usuario/suite-pro/internal/domain"
	"github.com/tu-usuario/suite-pro/internal/domain/entity"
	"github.com/tu-usuario/suite-pro/internal/domain/repository"
)

var _ repository.ModulePriceRepository = (*ModulePriceRepo)(nil)

// ModulePriceRepo implementación de la lista de precios sobre PostgreSQL.
// Los montos NUMERIC escanean a shopspring/decimal vía el codec registrado en el pool.
type ModulePriceRepo struct {
	q Querier
}

// NewModulePriceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewModulePriceRepository(q Querier) *ModulePriceRepo {
	return &ModulePriceRepo{q: q}
}

// Get obtiene el precio de la tripla (módulo, plan, período).
func (r *ModulePriceRepo) Get(ctx context.Context, moduleID, plan, billingPeriod string) (*entity.ModulePrice, error) {
	query := `
		SELECT id, module_id, plan, billing_period, amount, currency, created_at
		FROM module_prices WHERE module_id = $1 AND plan = $2 AND billing_period = $3`
	var p entity.ModulePrice
	err := r.q.QueryRow(ctx, query, moduleID, plan, billingPeriod).Scan(
		&p.ID, &p.ModuleID, &p.Plan, &p.BillingPeriod, &p.Amount, &p.Currency, &p.CreatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get module price: %w", err)
	}
	return &p, nil
}

// ListByModule devuelve todos los precios de un módulo.
func (r *ModulePriceRepo) ListByModule(ctx context.Context, moduleID string) ([]*entity.ModulePrice, error) {
	query := `
		SELECT id, module_id, plan, billing_period, amount, currency, created_at
		FROM module_prices WHERE module_id = $1 ORDER BY plan, billing_period`
	rows, err := r.q.Query(ctx, query, moduleID)
	if err != nil {
		return nil, fmt.Errorf("list module prices: %w", err)
	}
	defer rows.Close()

	var list []*entity.ModulePrice
	for rows.Next() {
		var p entity.ModulePrice
		if err := rows.Scan(&p.ID, &p.ModuleID, &p.Plan, &p.BillingPeriod, &p.Amount, &p.Currency, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan module price: %w", err)
		}
		list = append(list, &p)
	}
	return list, rows.Err()
}

// Create agrega una entrada a la lista de precios. Una tripla repetida es domain.ErrDuplicate.
func (r *ModulePriceRepo) Create(ctx context.Context, p *entity.ModulePrice) error {
	query := `
		INSERT INTO module_prices (id, module_id, plan, billing_period, amount, currency, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(ctx, query,
		p.ID, p.ModuleID, p.Plan, p.BillingPeriod, p.Amount, p.Currency, p.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert module price: %w", err)
	}
	return nil
}
