package repository

import (
	"context"

	"github.com/tu-usuario/suite-pro/internal/domain/entity"
)

// PaymentRepository define el puerto de persistencia para pagos pendientes.
type PaymentRepository interface {
	Create(ctx context.Context, p *entity.Payment) error
	GetByProviderRef(ctx context.Context, providerRef string) (*entity.Payment, error)
	// MarkConfirmed pasa el pago de pending a confirmed de forma condicional
	// (WHERE status='pending'). Devuelve false si otro callback ya lo confirmó:
	// la clave de la idempotencia del webhook.
	MarkConfirmed(ctx context.Context, id string) (bool, error)
}
