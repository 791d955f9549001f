package entity

import "time"

// Módulos de la suite (deben coincidir con el catálogo de la tabla modules).
const (
	ModuleHR          = "hr"
	ModuleTicketing   = "ticketing"
	ModuleProjects    = "projects"
	ModuleMarketplace = "marketplace"
	ModuleBilling     = "billing"
)

// Module es una entrada del catálogo global de módulos licenciables.
// IsActive es el kill-switch global: apagado, ningún tenant puede usarlo.
type Module struct {
	ID        string
	Key       string // ver constantes Module*
	Name      string
	IsActive  bool
	CreatedAt time.Time
}

// OrgModule es el registro de entitlement por (organización, módulo). Único por
// par. IsEnabled es el único flag almacenado; isTrial e isExpired se derivan
// SIEMPRE de TrialEndsAt/ExpiresAt contra "now" al momento de evaluar.
type OrgModule struct {
	ID             string
	OrganizationID string
	ModuleID       string
	IsEnabled      bool
	Plan           string // "", "trial", "basic", "pro"
	Seats          *int   // nil = sin límite de puestos
	ExpiresAt      *time.Time
	TrialEndsAt    *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Entitlement es la usabilidad derivada de un OrgModule en un instante dado.
// Nunca se persiste: se calcula en cada lectura.
type Entitlement struct {
	IsTrial   bool
	IsExpired bool
	Usable    bool
}

// Entitlement evalúa el estado derivado del registro contra now.
// Determinista y sin efectos; la activación perezosa de trials es responsabilidad
// del caller (ver NeedsTrialActivation).
func (om *OrgModule) Entitlement(now time.Time) Entitlement {
	isExpired := om.ExpiresAt != nil && om.ExpiresAt.Before(now)
	isTrial := om.TrialEndsAt != nil && !om.TrialEndsAt.Before(now)
	return Entitlement{
		IsTrial:   isTrial,
		IsExpired: isExpired,
		Usable:    om.IsEnabled && !isExpired,
	}
}

// NeedsTrialActivation informa si el registro tiene un trial vigente aún no
// habilitado. La primera lectura que lo observe debe escribir IsEnabled=true
// (escritura absoluta e idempotente; segura ante carreras).
func (om *OrgModule) NeedsTrialActivation(now time.Time) bool {
	return !om.IsEnabled && om.TrialEndsAt != nil && !om.TrialEndsAt.Before(now)
}
