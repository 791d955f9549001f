package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de Subscription.
const (
	SubscriptionStatusActive   = "active"
	SubscriptionStatusCanceled = "canceled"
)

// Períodos de facturación soportados.
const (
	BillingPeriodMonthly = "monthly"
	BillingPeriodYearly  = "yearly"
)

// Planes conocidos. "trial" es el plan por defecto de módulos sembrados en alta.
const (
	PlanTrial = "trial"
	PlanBasic = "basic"
	PlanPro   = "pro"
)

// Subscription es el registro de ciclo de facturación por (organización, módulo).
// Una suscripción activa gobierna el estado enabled del OrgModule correspondiente.
type Subscription struct {
	ID                 string
	OrganizationID     string
	ModuleID           string
	Status             string // active, canceled
	Plan               string
	CurrentPeriodStart time.Time
	CurrentPeriodEnd   time.Time
	CancelAtPeriodEnd  bool
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// Bundle es un paquete nombrado de (módulo, plan) asignable a una organización
// en una sola operación. Los cupos no nil pisan los de la organización al asignar.
type Bundle struct {
	ID           string
	Key          string
	Name         string
	IsActive     bool
	MaxUsers     *int
	MaxEmployees *int
	CreatedAt    time.Time
}

// BundleModule es una entrada del bundle: qué módulo y con qué plan.
type BundleModule struct {
	BundleID string
	ModuleID string
	Plan     string
}

// ModulePrice es la lista de precios por (módulo, plan, período). Entrada de solo
// lectura del motor de asignación. Única por tripla.
type ModulePrice struct {
	ID            string
	ModuleID      string
	Plan          string
	BillingPeriod string // monthly, yearly
	Amount        decimal.Decimal
	Currency      string
	CreatedAt     time.Time
}

// Estados de Payment.
const (
	PaymentStatusPending   = "pending"
	PaymentStatusConfirmed = "confirmed"
)

// Payment registra un cobro pendiente ante el proveedor externo. ProviderRef es
// la clave de idempotencia del callback: confirmaciones repetidas con la misma
// referencia no deben re-activar nada.
type Payment struct {
	ID             string
	OrganizationID string
	ModuleID       string
	Plan           string
	BillingPeriod  string
	ProviderRef    string
	Status         string // pending, confirmed
	Amount         decimal.Decimal
	Currency       string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
