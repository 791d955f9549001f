package subscription

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/tu-usuario/suite-pro/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando los
// repositorios del motor de asignación atados a esa tx. Garantiza el todo-o-nada
// de las operaciones multi-registro: caps de la organización + filas OrgModule,
// Subscription + OrgModule, fan-out completo de un bundle.
type TxRunner interface {
	RunAssignment(ctx context.Context, fn func(
		orgRepo repository.OrganizationRepository,
		membershipRepo repository.MembershipRepository,
		employeeRepo repository.EmployeeRepository,
		omRepo repository.OrgModuleRepository,
		subRepo repository.SubscriptionRepository,
		payRepo repository.PaymentRepository,
	) error) error
}

// CheckoutInput datos para crear el cobro en el proveedor externo.
type CheckoutInput struct {
	OrganizationID string
	ModuleKey      string
	Plan           string
	BillingPeriod  string
	Amount         decimal.Decimal
	Currency       string
}

// CheckoutSession referencia y URL de redirección devueltas por el proveedor.
type CheckoutSession struct {
	ProviderRef string
	RedirectURL string
}

// PaymentProvider es el puerto hacia el proveedor de pagos. Con provider nil el
// motor usa el camino de activación directa (fallback/dev); con provider, la
// activación se difiere al callback confirmado (ConfirmPayment).
type PaymentProvider interface {
	CreateCheckout(ctx context.Context, in CheckoutInput) (*CheckoutSession, error)
}
