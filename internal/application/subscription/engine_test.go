package subscription

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/suite-pro/internal/application/apptest"
	"github.com/tu-usuario/suite-pro/internal/domain"
	"github.com/tu-usuario/suite-pro/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

var engineNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

const (
	orgID    = "org-1"
	moduleID = "mod-hr"
)

func newEngine(s *apptest.Store, provider PaymentProvider) *Engine {
	e := NewEngine(
		&apptest.FakeTxRunner{S: s},
		apptest.ModuleRepo{S: s},
		apptest.PriceRepo{S: s},
		apptest.BundleRepo{S: s},
		apptest.PaymentRepo{S: s},
		provider,
		apptest.QuietLogger(),
	)
	e.now = func() time.Time { return engineNow }
	return e
}

func seedCatalog(s *apptest.Store) {
	s.Orgs[orgID] = entity.Organization{ID: orgID, Slug: "acme", Status: entity.OrgStatusActive}
	s.Modules[moduleID] = entity.Module{ID: moduleID, Key: entity.ModuleHR, Name: "RRHH", IsActive: true}
	price := entity.ModulePrice{
		ID: "price-1", ModuleID: moduleID, Plan: entity.PlanBasic,
		BillingPeriod: entity.BillingPeriodMonthly,
		Amount:        decimal.NewFromInt(29), Currency: "USD",
	}
	_ = apptest.PriceRepo{S: s}.Create(context.Background(), &price)
	yearly := price
	yearly.ID = "price-2"
	yearly.BillingPeriod = entity.BillingPeriodYearly
	yearly.Amount = decimal.NewFromInt(290)
	_ = apptest.PriceRepo{S: s}.Create(context.Background(), &yearly)
}

// fakeProvider pasarela de pruebas con referencia fija.
type fakeProvider struct{ ref string }

func (p fakeProvider) CreateCheckout(ctx context.Context, in CheckoutInput) (*CheckoutSession, error) {
	return &CheckoutSession{ProviderRef: p.ref, RedirectURL: "https://checkout.test/" + p.ref}, nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests Subscribe
// ──────────────────────────────────────────────────────────────────────────────

// Camino directo (sin proveedor): la suscripción queda activa de inmediato y el
// módulo habilitado con el trial limpiado.
func TestSubscribe_CaminoDirectoActivaInmediato(t *testing.T) {
	store := apptest.NewStore()
	seedCatalog(store)
	trialEnd := engineNow.AddDate(0, 0, 2)
	store.OrgModules[orgID+"/"+moduleID] = entity.OrgModule{
		ID: "om-1", OrganizationID: orgID, ModuleID: moduleID,
		IsEnabled: true, Plan: entity.PlanTrial, TrialEndsAt: &trialEnd,
	}

	out, err := newEngine(store, nil).Subscribe(context.Background(), SubscribeInput{
		OrganizationID: orgID, ModuleKey: entity.ModuleHR,
		Plan: entity.PlanBasic, BillingPeriod: entity.BillingPeriodMonthly,
	})
	require.NoError(t, err)
	assert.False(t, out.Pending)
	require.NotNil(t, out.Subscription)
	assert.Equal(t, entity.SubscriptionStatusActive, out.Subscription.Status)
	assert.Equal(t, engineNow.AddDate(0, 1, 0), out.Subscription.CurrentPeriodEnd,
		"período mensual termina en now+1 mes")

	om := store.OrgModules[orgID+"/"+moduleID]
	assert.True(t, om.IsEnabled)
	assert.Equal(t, entity.PlanBasic, om.Plan)
	assert.Nil(t, om.TrialEndsAt, "la suscripción activa limpia el trial")
	assert.Nil(t, om.ExpiresAt)
}

// Período anual: fin de período en now+1 año.
func TestSubscribe_PeriodoAnual(t *testing.T) {
	store := apptest.NewStore()
	seedCatalog(store)

	out, err := newEngine(store, nil).Subscribe(context.Background(), SubscribeInput{
		OrganizationID: orgID, ModuleKey: entity.ModuleHR,
		Plan: entity.PlanBasic, BillingPeriod: entity.BillingPeriodYearly,
	})
	require.NoError(t, err)
	assert.Equal(t, engineNow.AddDate(1, 0, 0), out.Subscription.CurrentPeriodEnd)
}

// Un tier sin precio en la lista es NotFound.
func TestSubscribe_TierInexistente(t *testing.T) {
	store := apptest.NewStore()
	seedCatalog(store)

	_, err := newEngine(store, nil).Subscribe(context.Background(), SubscribeInput{
		OrganizationID: orgID, ModuleKey: entity.ModuleHR,
		Plan: entity.PlanPro, BillingPeriod: entity.BillingPeriodMonthly,
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// billing_period desconocido se rechaza antes de tocar nada.
func TestSubscribe_PeriodoInvalido(t *testing.T) {
	store := apptest.NewStore()
	seedCatalog(store)

	_, err := newEngine(store, nil).Subscribe(context.Background(), SubscribeInput{
		OrganizationID: orgID, ModuleKey: entity.ModuleHR,
		Plan: entity.PlanBasic, BillingPeriod: "weekly",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// Con proveedor: nada se activa, queda un Payment pendiente y el caller recibe
// la URL de redirección.
func TestSubscribe_ConProveedorQuedaPendiente(t *testing.T) {
	store := apptest.NewStore()
	seedCatalog(store)

	out, err := newEngine(store, fakeProvider{ref: "ref-123"}).Subscribe(context.Background(), SubscribeInput{
		OrganizationID: orgID, ModuleKey: entity.ModuleHR,
		Plan: entity.PlanBasic, BillingPeriod: entity.BillingPeriodMonthly,
	})
	require.NoError(t, err)
	assert.True(t, out.Pending)
	assert.Equal(t, "ref-123", out.PaymentRef)
	assert.NotEmpty(t, out.RedirectURL)
	assert.Nil(t, out.Subscription)

	assert.Empty(t, store.Subscriptions, "sin confirmación no hay suscripción")
	_, hasOM := store.OrgModules[orgID+"/"+moduleID]
	assert.False(t, hasOM, "sin confirmación no hay entitlement")

	payment, err := apptest.PaymentRepo{S: store}.GetByProviderRef(context.Background(), "ref-123")
	require.NoError(t, err)
	require.NotNil(t, payment)
	assert.Equal(t, entity.PaymentStatusPending, payment.Status)
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests ConfirmPayment
// ──────────────────────────────────────────────────────────────────────────────

// El callback confirmado activa la suscripción; repetirlo no re-activa nada.
func TestConfirmPayment_ActivaYEsIdempotente(t *testing.T) {
	store := apptest.NewStore()
	seedCatalog(store)
	engine := newEngine(store, fakeProvider{ref: "ref-9"})

	_, err := engine.Subscribe(context.Background(), SubscribeInput{
		OrganizationID: orgID, ModuleKey: entity.ModuleHR,
		Plan: entity.PlanBasic, BillingPeriod: entity.BillingPeriodMonthly,
	})
	require.NoError(t, err)

	require.NoError(t, engine.ConfirmPayment(context.Background(), "ref-9"))
	assert.Len(t, store.Subscriptions, 1)
	assert.True(t, store.OrgModules[orgID+"/"+moduleID].IsEnabled)

	payment, _ := apptest.PaymentRepo{S: store}.GetByProviderRef(context.Background(), "ref-9")
	assert.Equal(t, entity.PaymentStatusConfirmed, payment.Status)

	// Segundo callback con la misma referencia: no-op.
	require.NoError(t, engine.ConfirmPayment(context.Background(), "ref-9"))
	assert.Len(t, store.Subscriptions, 1, "la confirmación repetida no duplica suscripciones")
}

// Una referencia desconocida es NotFound.
func TestConfirmPayment_ReferenciaDesconocida(t *testing.T) {
	store := apptest.NewStore()
	seedCatalog(store)

	err := newEngine(store, nil).ConfirmPayment(context.Background(), "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests Cancel
// ──────────────────────────────────────────────────────────────────────────────

func seedActiveSubscription(s *apptest.Store) string {
	sub := entity.Subscription{
		ID: "sub-1", OrganizationID: orgID, ModuleID: moduleID,
		Status: entity.SubscriptionStatusActive, Plan: entity.PlanBasic,
		CurrentPeriodStart: engineNow.AddDate(0, -1, 0), CurrentPeriodEnd: engineNow.AddDate(0, 1, 0),
	}
	s.Subscriptions[sub.ID] = sub
	s.OrgModules[orgID+"/"+moduleID] = entity.OrgModule{
		ID: "om-1", OrganizationID: orgID, ModuleID: moduleID,
		IsEnabled: true, Plan: entity.PlanBasic,
	}
	return sub.ID
}

// Cancelación inmediata: suscripción canceled y módulo deshabilitado, juntos.
func TestCancel_InmediataDeshabilitaModulo(t *testing.T) {
	store := apptest.NewStore()
	seedCatalog(store)
	subID := seedActiveSubscription(store)

	require.NoError(t, newEngine(store, nil).Cancel(context.Background(), orgID, subID, false))
	assert.Equal(t, entity.SubscriptionStatusCanceled, store.Subscriptions[subID].Status)
	assert.False(t, store.OrgModules[orgID+"/"+moduleID].IsEnabled)
}

// Cancelación diferida: solo la marca; el entitlement no se toca.
func TestCancel_DiferidaNoTocaEntitlement(t *testing.T) {
	store := apptest.NewStore()
	seedCatalog(store)
	subID := seedActiveSubscription(store)

	require.NoError(t, newEngine(store, nil).Cancel(context.Background(), orgID, subID, true))
	sub := store.Subscriptions[subID]
	assert.Equal(t, entity.SubscriptionStatusActive, sub.Status)
	assert.True(t, sub.CancelAtPeriodEnd)
	assert.True(t, store.OrgModules[orgID+"/"+moduleID].IsEnabled,
		"la cancelación diferida deja el módulo usable hasta el fin del período")
}

// Una suscripción de otra organización es NotFound: no se filtra existencia.
func TestCancel_OtraOrganizacionNotFound(t *testing.T) {
	store := apptest.NewStore()
	seedCatalog(store)
	subID := seedActiveSubscription(store)

	err := newEngine(store, nil).Cancel(context.Background(), "org-ajena", subID, false)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, entity.SubscriptionStatusActive, store.Subscriptions[subID].Status)
}
