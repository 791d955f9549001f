package dto

import "time"

// ModuleLicenseResponse es el bloque de licenciamiento de un módulo para una
// organización. IsExpired e IsTrial son derivados al momento de la respuesta,
// nunca leídos de un flag almacenado.
type ModuleLicenseResponse struct {
	ModuleKey   string     `json:"module_key"`
	ModuleName  string     `json:"module_name"`
	IsEnabled   bool       `json:"is_enabled"`
	Plan        string     `json:"plan,omitempty"`
	Seats       *int       `json:"seats,omitempty"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
	TrialEndsAt *time.Time `json:"trial_ends_at,omitempty"`
	IsExpired   bool       `json:"is_expired"`
	IsTrial     bool       `json:"is_trial"`
	Usable      bool       `json:"usable"`
}

// SidebarItemResponse entrada de sidebar ya filtrada por permisos.
type SidebarItemResponse struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Path  string `json:"path"`
}

// WidgetResponse widget de dashboard ya filtrado por permisos.
type WidgetResponse struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

// ModuleManifestResponse manifiesto de un módulo (filtrado) con su bloque de
// licenciamiento. Respuesta de GET /api/me/modules.
type ModuleManifestResponse struct {
	ModuleKey string                `json:"module_key"`
	Sidebar   []SidebarItemResponse `json:"sidebar"`
	Widgets   []WidgetResponse      `json:"widgets"`
	License   ModuleLicenseResponse `json:"license"`
}
