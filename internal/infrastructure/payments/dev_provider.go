// Package payments contiene adaptadores hacia proveedores de pago externos.
package payments

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/tu-usuario/suite-pro/internal/application/subscription"
	"github.com/tu-usuario/suite-pro/pkg/logger"
)

var _ subscription.PaymentProvider = (*DevProvider)(nil)

// DevProvider pasarela simulada para desarrollo: genera una referencia única y
// una URL de checkout falsa. El cobro queda pendiente hasta que el webhook de
// confirmación llegue (en dev se dispara a mano contra /billing/webhook).
type DevProvider struct {
	checkoutBase string
	log          *logger.Logger
}

// NewDevProvider construye la pasarela simulada.
func NewDevProvider(checkoutBase string, log *logger.Logger) *DevProvider {
	return &DevProvider{checkoutBase: checkoutBase, log: log}
}

// CreateCheckout crea la sesión de cobro simulada.
func (p *DevProvider) CreateCheckout(ctx context.Context, in subscription.CheckoutInput) (*subscription.CheckoutSession, error) {
	ref := uuid.New().String()
	p.log.Info().
		Str("org_id", in.OrganizationID).
		Str("module", in.ModuleKey).
		Str("plan", in.Plan).
		Str("provider_ref", ref).
		Str("amount", in.Amount.String()).
		Msg("checkout simulado creado")
	return &subscription.CheckoutSession{
		ProviderRef: ref,
		RedirectURL: fmt.Sprintf("%s/%s", p.checkoutBase, ref),
	}, nil
}
