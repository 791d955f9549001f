package subscription

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/tu-usuario/suite-pro/internal/application/dto"
	"github.com/tu-usuario/suite-pro/internal/domain"
	"github.com/tu-usuario/suite-pro/internal/domain/entity"
	"github.com/tu-usuario/suite-pro/internal/domain/repository"
	"github.com/tu-usuario/suite-pro/pkg/logger"
)

// Engine es el motor de asignación: subscribe, cancel, asignación de bundles y
// extensión de trials. Toda operación que toca más de un registro corre dentro
// de una única transacción vía TxRunner; un error a mitad de camino no deja
// nada aplicado.
type Engine struct {
	tx         TxRunner
	moduleRepo repository.ModuleRepository
	priceRepo  repository.ModulePriceRepository
	bundleRepo repository.BundleRepository
	payRepo    repository.PaymentRepository
	provider   PaymentProvider // nil = activación directa (dev)
	log        *logger.Logger
	now        func() time.Time
}

// NewEngine construye el motor. provider puede ser nil: en ese caso subscribe
// activa de inmediato sin pasar por el proveedor de pagos.
func NewEngine(
	tx TxRunner,
	moduleRepo repository.ModuleRepository,
	priceRepo repository.ModulePriceRepository,
	bundleRepo repository.BundleRepository,
	payRepo repository.PaymentRepository,
	provider PaymentProvider,
	log *logger.Logger,
) *Engine {
	return &Engine{
		tx:         tx,
		moduleRepo: moduleRepo,
		priceRepo:  priceRepo,
		bundleRepo: bundleRepo,
		payRepo:    payRepo,
		provider:   provider,
		log:        log,
		now:        time.Now,
	}
}

// SubscribeInput parámetros de una suscripción.
type SubscribeInput struct {
	OrganizationID string
	ModuleKey      string
	Plan           string
	BillingPeriod  string
}

// Subscribe suscribe la organización a un módulo. Busca el precio de la tripla
// (módulo, plan, período); devuelve domain.ErrNotFound si el módulo o el tier
// no existen. Con proveedor de pagos configurado crea un Payment pendiente y
// devuelve la referencia + URL de redirección; la activación ocurre recién en
// ConfirmPayment. Sin proveedor, activa de inmediato en una transacción.
func (e *Engine) Subscribe(ctx context.Context, in SubscribeInput) (*dto.SubscribeResponse, error) {
	if in.BillingPeriod != entity.BillingPeriodMonthly && in.BillingPeriod != entity.BillingPeriodYearly {
		return nil, fmt.Errorf("%w: billing_period debe ser monthly o yearly", domain.ErrInvalidInput)
	}
	module, err := e.moduleRepo.GetByKey(ctx, in.ModuleKey)
	if err != nil {
		return nil, err
	}
	if module == nil || !module.IsActive {
		return nil, domain.ErrNotFound
	}
	price, err := e.priceRepo.Get(ctx, module.ID, in.Plan, in.BillingPeriod)
	if err != nil {
		return nil, err
	}
	if price == nil {
		return nil, domain.ErrNotFound
	}

	if e.provider != nil {
		session, err := e.provider.CreateCheckout(ctx, CheckoutInput{
			OrganizationID: in.OrganizationID,
			ModuleKey:      in.ModuleKey,
			Plan:           in.Plan,
			BillingPeriod:  in.BillingPeriod,
			Amount:         price.Amount,
			Currency:       price.Currency,
		})
		if err != nil {
			return nil, fmt.Errorf("crear checkout: %w", err)
		}
		now := e.now()
		payment := &entity.Payment{
			ID:             uuid.New().String(),
			OrganizationID: in.OrganizationID,
			ModuleID:       module.ID,
			Plan:           in.Plan,
			BillingPeriod:  in.BillingPeriod,
			ProviderRef:    session.ProviderRef,
			Status:         entity.PaymentStatusPending,
			Amount:         price.Amount,
			Currency:       price.Currency,
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		if err := e.payRepo.Create(ctx, payment); err != nil {
			return nil, fmt.Errorf("registrar pago pendiente: %w", err)
		}
		e.log.Info().
			Str("org_id", in.OrganizationID).
			Str("module", in.ModuleKey).
			Str("provider_ref", session.ProviderRef).
			Msg("suscripción pendiente de pago")
		return &dto.SubscribeResponse{
			Pending:     true,
			PaymentRef:  session.ProviderRef,
			RedirectURL: session.RedirectURL,
		}, nil
	}

	// Camino directo (fallback/dev): sin proveedor, la activación es inmediata.
	var out *entity.Subscription
	err = e.tx.RunAssignment(ctx, func(
		_ repository.OrganizationRepository,
		_ repository.MembershipRepository,
		_ repository.EmployeeRepository,
		omRepo repository.OrgModuleRepository,
		subRepo repository.SubscriptionRepository,
		_ repository.PaymentRepository,
	) error {
		sub, err := e.activate(ctx, in.OrganizationID, module.ID, in.Plan, in.BillingPeriod, omRepo, subRepo)
		if err != nil {
			return err
		}
		out = sub
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &dto.SubscribeResponse{Subscription: toSubscriptionResponse(out)}, nil
}

// ConfirmPayment es el callback confirmado del proveedor (webhook) y también el
// cierre del camino dev. Idempotente por referencia: el pase pending→confirmed
// es condicional dentro de la transacción, así que callbacks repetidos no
// re-activan ni duplican suscripciones.
func (e *Engine) ConfirmPayment(ctx context.Context, providerRef string) error {
	payment, err := e.payRepo.GetByProviderRef(ctx, providerRef)
	if err != nil {
		return err
	}
	if payment == nil {
		return domain.ErrNotFound
	}
	if payment.Status == entity.PaymentStatusConfirmed {
		return nil // ya procesado
	}
	return e.tx.RunAssignment(ctx, func(
		_ repository.OrganizationRepository,
		_ repository.MembershipRepository,
		_ repository.EmployeeRepository,
		omRepo repository.OrgModuleRepository,
		subRepo repository.SubscriptionRepository,
		payRepo repository.PaymentRepository,
	) error {
		changed, err := payRepo.MarkConfirmed(ctx, payment.ID)
		if err != nil {
			return err
		}
		if !changed {
			// Otro callback ganó la carrera; nada que hacer.
			return nil
		}
		if _, err := e.activate(ctx, payment.OrganizationID, payment.ModuleID, payment.Plan, payment.BillingPeriod, omRepo, subRepo); err != nil {
			return err
		}
		e.log.Info().
			Str("org_id", payment.OrganizationID).
			Str("provider_ref", providerRef).
			Msg("pago confirmado, suscripción activada")
		return nil
	})
}

// activate aplica la transición trial/disabled → active sobre Subscription y
// OrgModule. Debe correr dentro de la transacción del caller: ambos upserts van
// juntos o ninguno.
func (e *Engine) activate(
	ctx context.Context,
	orgID, moduleID, plan, billingPeriod string,
	omRepo repository.OrgModuleRepository,
	subRepo repository.SubscriptionRepository,
) (*entity.Subscription, error) {
	now := e.now()
	periodEnd := now.AddDate(0, 1, 0)
	if billingPeriod == entity.BillingPeriodYearly {
		periodEnd = now.AddDate(1, 0, 0)
	}

	sub, err := subRepo.GetByOrgAndModule(ctx, orgID, moduleID)
	if err != nil {
		return nil, err
	}
	if sub == nil {
		sub = &entity.Subscription{
			ID:             uuid.New().String(),
			OrganizationID: orgID,
			ModuleID:       moduleID,
			CreatedAt:      now,
		}
	}
	sub.Status = entity.SubscriptionStatusActive
	sub.Plan = plan
	sub.CurrentPeriodStart = now
	sub.CurrentPeriodEnd = periodEnd
	sub.CancelAtPeriodEnd = false
	sub.UpdatedAt = now
	if err := subRepo.Upsert(ctx, sub); err != nil {
		return nil, err
	}

	om, err := omRepo.GetByOrgAndModule(ctx, orgID, moduleID)
	if err != nil {
		return nil, err
	}
	if om == nil {
		om = &entity.OrgModule{
			ID:             uuid.New().String(),
			OrganizationID: orgID,
			ModuleID:       moduleID,
			CreatedAt:      now,
		}
	}
	// Suscripción activa: se limpia el trial y el vencimiento duro; el ciclo de
	// facturación queda gobernado por la Subscription.
	om.IsEnabled = true
	om.Plan = plan
	om.ExpiresAt = nil
	om.TrialEndsAt = nil
	om.UpdatedAt = now
	if err := omRepo.Upsert(ctx, om); err != nil {
		return nil, err
	}
	return sub, nil
}

// Cancel cancela una suscripción de la organización. Inmediata: suscripción
// canceled + módulo deshabilitado, atómico. Diferida: solo marca
// cancelAtPeriodEnd y no toca el entitlement (el cierre al fin del período es
// tarea de un scheduler externo). Una suscripción de otra organización es
// ErrNotFound, nunca Forbidden: no se filtra existencia entre tenants.
func (e *Engine) Cancel(ctx context.Context, orgID, subscriptionID string, atPeriodEnd bool) error {
	return e.tx.RunAssignment(ctx, func(
		_ repository.OrganizationRepository,
		_ repository.MembershipRepository,
		_ repository.EmployeeRepository,
		omRepo repository.OrgModuleRepository,
		subRepo repository.SubscriptionRepository,
		_ repository.PaymentRepository,
	) error {
		sub, err := subRepo.GetByID(ctx, subscriptionID)
		if err != nil {
			return err
		}
		if sub == nil || sub.OrganizationID != orgID {
			return domain.ErrNotFound
		}
		now := e.now()
		if atPeriodEnd {
			sub.CancelAtPeriodEnd = true
			sub.UpdatedAt = now
			return subRepo.Update(ctx, sub)
		}
		sub.Status = entity.SubscriptionStatusCanceled
		sub.UpdatedAt = now
		if err := subRepo.Update(ctx, sub); err != nil {
			return err
		}
		return omRepo.SetEnabled(ctx, orgID, sub.ModuleID, false)
	})
}

func toSubscriptionResponse(s *entity.Subscription) *dto.SubscriptionResponse {
	if s == nil {
		return nil
	}
	return &dto.SubscriptionResponse{
		ID:                 s.ID,
		OrganizationID:     s.OrganizationID,
		ModuleID:           s.ModuleID,
		Status:             s.Status,
		Plan:               s.Plan,
		CurrentPeriodStart: s.CurrentPeriodStart,
		CurrentPeriodEnd:   s.CurrentPeriodEnd,
		CancelAtPeriodEnd:  s.CancelAtPeriodEnd,
	}
}
