package postgres

import (
	"context"
	"fmt"

	"github.com/tu-usuario/suite-pro/internal/domain"
	"github.com/tu-usuario/suite-pro/internal/domain/entity"
	"github.com/tu-usuario/suite-pro/internal/domain/repository"
)

var _ repository.PaymentRepository = (*PaymentRepo)(nil)

// PaymentRepo implementación del puerto PaymentRepository sobre PostgreSQL.
type PaymentRepo struct {
	q Querier
}

// NewPaymentRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPaymentRepository(q Querier) *PaymentRepo {
	return &PaymentRepo{q: q}
}

// Create persiste un pago pendiente. Un provider_ref repetido es domain.ErrDuplicate.
func (r *PaymentRepo) Create(ctx context.Context, p *entity.Payment) error {
	query := `
		INSERT INTO payments (id, organization_id, module_id, plan, billing_period, provider_ref, status, amount, currency, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(ctx, query,
		p.ID, p.OrganizationID, p.ModuleID, p.Plan, p.BillingPeriod,
		p.ProviderRef, p.Status, p.Amount, p.Currency, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert payment: %w", err)
	}
	return nil
}

// GetByProviderRef obtiene un pago por la referencia del proveedor externo.
func (r *PaymentRepo) GetByProviderRef(ctx context.Context, providerRef string) (*entity.Payment, error) {
	query := `
		SELECT id, organization_id, module_id, plan, billing_period, provider_ref, status, amount, currency, created_at, updated_at
		FROM payments WHERE provider_ref = $1`
	var p entity.Payment
	err := r.q.QueryRow(ctx, query, providerRef).Scan(
		&p.ID, &p.OrganizationID, &p.ModuleID, &p.Plan, &p.BillingPeriod,
		&p.ProviderRef, &p.Status, &p.Amount, &p.Currency, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get payment by provider ref: %w", err)
	}
	return &p, nil
}

// MarkConfirmed pasa el pago de pending a confirmed de forma condicional.
// Devuelve false si otro callback ya lo confirmó (idempotencia del webhook).
func (r *PaymentRepo) MarkConfirmed(ctx context.Context, id string) (bool, error) {
	query := `UPDATE payments SET status = 'confirmed', updated_at = now() WHERE id = $1 AND status = 'pending'`
	cmd, err := r.q.Exec(ctx, query, id)
	if err != nil {
		return false, fmt.Errorf("mark payment confirmed: %w", err)
	}
	return cmd.RowsAffected() > 0, nil
}
