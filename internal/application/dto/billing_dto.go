package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// SubscribeRequest alta de suscripción de un módulo para la organización del actor.
type SubscribeRequest struct {
	ModuleKey     string `json:"module_key"`
	Plan          string `json:"plan"`
	BillingPeriod string `json:"billing_period"` // monthly | yearly
}

// SubscribeResponse resultado de subscribe. Si hay proveedor de pagos configurado
// la activación queda pendiente y se devuelve la URL de redirección; si no,
// la suscripción queda activa de inmediato (camino directo/dev).
type SubscribeResponse struct {
	Pending      bool                  `json:"pending"`
	PaymentRef   string                `json:"payment_ref,omitempty"`
	RedirectURL  string                `json:"redirect_url,omitempty"`
	Subscription *SubscriptionResponse `json:"subscription,omitempty"`
}

// SubscriptionResponse representación pública de una suscripción.
type SubscriptionResponse struct {
	ID                 string    `json:"id"`
	OrganizationID     string    `json:"organization_id"`
	ModuleID           string    `json:"module_id"`
	Status             string    `json:"status"`
	Plan               string    `json:"plan"`
	CurrentPeriodStart time.Time `json:"current_period_start"`
	CurrentPeriodEnd   time.Time `json:"current_period_end"`
	CancelAtPeriodEnd  bool      `json:"cancel_at_period_end"`
}

// CancelSubscriptionRequest cancelación inmediata o al fin del período.
type CancelSubscriptionRequest struct {
	CancelAtPeriodEnd bool `json:"cancel_at_period_end"`
}

// AssignBundleRequest asigna un bundle a la organización. BundleID nil desasigna
// (solo limpia current_bundle_id, no revoca entitlements ya otorgados).
type AssignBundleRequest struct {
	BundleID *string `json:"bundle_id"`
}

// ExtendTrialRequest extiende el trial de todos los módulos habilitados.
type ExtendTrialRequest struct {
	Days int `json:"days"`
}

// PaymentWebhookRequest callback del proveedor de pagos. Idempotente por ProviderRef.
type PaymentWebhookRequest struct {
	ProviderRef string `json:"provider_ref"`
	Status      string `json:"status"`
}

// ModulePriceResponse entrada de la lista de precios.
type ModulePriceResponse struct {
	ModuleKey     string          `json:"module_key"`
	Plan          string          `json:"plan"`
	BillingPeriod string          `json:"billing_period"`
	Amount        decimal.Decimal `json:"amount"`
	Currency      string          `json:"currency"`
}
