package entitlement

import (
	"context"
	"fmt"
	"time"

	"github.com/tu-usuario/suite-pro/internal/application/dto"
	"github.com/tu-usuario/suite-pro/internal/domain/entity"
	"github.com/tu-usuario/suite-pro/internal/domain/repository"
	"github.com/tu-usuario/suite-pro/pkg/logger"
)

// Service es el camino de lectura del licenciamiento por organización. Es el
// único lugar que evalúa entitlements y el único que ejecuta la activación
// perezosa de trials: la primera lectura que observa un trial vigente con
// isEnabled=false escribe isEnabled=true (valor absoluto, idempotente) y lo
// registra. Nunca deshabilita nada: el vencimiento se observa, no se aplica.
type Service struct {
	moduleRepo repository.ModuleRepository
	omRepo     repository.OrgModuleRepository
	log        *logger.Logger
	now        func() time.Time
}

// NewService construye el servicio de entitlements.
func NewService(moduleRepo repository.ModuleRepository, omRepo repository.OrgModuleRepository, log *logger.Logger) *Service {
	return &Service{moduleRepo: moduleRepo, omRepo: omRepo, log: log, now: time.Now}
}

// Usable informa si la organización puede usar el módulo ahora mismo: módulo
// activo en el catálogo global, entitlement habilitado y no vencido.
// Devuelve false (sin error) si no hay entitlement; error solo ante fallos de
// infraestructura.
func (s *Service) Usable(ctx context.Context, orgID, moduleKey string) (bool, error) {
	if orgID == "" || moduleKey == "" {
		return false, fmt.Errorf("entitlement: orgID y moduleKey son obligatorios")
	}
	module, err := s.moduleRepo.GetByKey(ctx, moduleKey)
	if err != nil {
		return false, err
	}
	if module == nil || !module.IsActive {
		// Kill-switch global: el módulo no existe o está apagado para todos.
		return false, nil
	}
	om, err := s.omRepo.GetByOrgAndModule(ctx, orgID, module.ID)
	if err != nil {
		return false, err
	}
	if om == nil {
		return false, nil
	}
	now := s.now()
	om = s.lazyActivate(ctx, om, now)
	return om.Entitlement(now).Usable, nil
}

// LicensingForOrg devuelve el bloque de licenciamiento de cada módulo del
// catálogo para la organización, con los derivados calculados contra now.
// Módulos sin entitlement aparecen deshabilitados.
func (s *Service) LicensingForOrg(ctx context.Context, orgID string) ([]dto.ModuleLicenseResponse, error) {
	modules, err := s.moduleRepo.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	oms, err := s.omRepo.ListByOrg(ctx, orgID)
	if err != nil {
		return nil, err
	}
	byModule := make(map[string]*entity.OrgModule, len(oms))
	for _, om := range oms {
		byModule[om.ModuleID] = om
	}

	now := s.now()
	out := make([]dto.ModuleLicenseResponse, 0, len(modules))
	for _, module := range modules {
		om := byModule[module.ID]
		if om == nil {
			out = append(out, dto.ModuleLicenseResponse{ModuleKey: module.Key, ModuleName: module.Name})
			continue
		}
		om = s.lazyActivate(ctx, om, now)
		out = append(out, toLicense(module, om, now))
	}
	return out, nil
}

// lazyActivate habilita un trial vigente aún apagado. La escritura es un valor
// absoluto: dos lecturas concurrentes convergen al mismo estado. Si la escritura
// falla se loguea y se devuelve el registro sin tocar (la lectura no se cae).
func (s *Service) lazyActivate(ctx context.Context, om *entity.OrgModule, now time.Time) *entity.OrgModule {
	if !om.NeedsTrialActivation(now) {
		return om
	}
	if err := s.omRepo.SetEnabled(ctx, om.OrganizationID, om.ModuleID, true); err != nil {
		s.log.Warn().Err(err).
			Str("org_id", om.OrganizationID).
			Str("module_id", om.ModuleID).
			Msg("activación perezosa de trial falló")
		return om
	}
	s.log.Info().
		Str("org_id", om.OrganizationID).
		Str("module_id", om.ModuleID).
		Time("trial_ends_at", *om.TrialEndsAt).
		Msg("trial activado en primera lectura")
	om.IsEnabled = true
	return om
}

func toLicense(module *entity.Module, om *entity.OrgModule, now time.Time) dto.ModuleLicenseResponse {
	e := om.Entitlement(now)
	return dto.ModuleLicenseResponse{
		ModuleKey:   module.Key,
		ModuleName:  module.Name,
		IsEnabled:   om.IsEnabled,
		Plan:        om.Plan,
		Seats:       om.Seats,
		ExpiresAt:   om.ExpiresAt,
		TrialEndsAt: om.TrialEndsAt,
		IsExpired:   e.IsExpired,
		IsTrial:     e.IsTrial,
		Usable:      e.Usable,
	}
}
