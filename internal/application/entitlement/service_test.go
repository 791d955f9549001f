package entitlement

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/suite-pro/internal/application/apptest"
	"github.com/tu-usuario/suite-pro/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

var evalNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

const (
	orgID    = "org-1"
	moduleID = "mod-hr"
)

func newService(s *apptest.Store) *Service {
	svc := NewService(apptest.ModuleRepo{S: s}, apptest.OrgModuleRepo{S: s}, apptest.QuietLogger())
	svc.now = func() time.Time { return evalNow }
	return svc
}

func seedModule(s *apptest.Store, active bool) {
	s.Modules[moduleID] = entity.Module{ID: moduleID, Key: entity.ModuleHR, Name: "RRHH", IsActive: active}
}

func seedOrgModule(s *apptest.Store, om entity.OrgModule) {
	om.ID = orgID + "/" + moduleID
	om.OrganizationID = orgID
	om.ModuleID = moduleID
	s.OrgModules[orgID+"/"+moduleID] = om
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests Usable
// ──────────────────────────────────────────────────────────────────────────────

// El kill-switch global apaga el módulo para todos los tenants, tengan o no
// entitlement habilitado.
func TestUsable_KillSwitchGlobal(t *testing.T) {
	store := apptest.NewStore()
	seedModule(store, false)
	seedOrgModule(store, entity.OrgModule{IsEnabled: true, Plan: entity.PlanPro})

	usable, err := newService(store).Usable(context.Background(), orgID, entity.ModuleHR)
	require.NoError(t, err)
	assert.False(t, usable)
}

// Sin entitlement el módulo no es usable, sin error.
func TestUsable_SinEntitlement(t *testing.T) {
	store := apptest.NewStore()
	seedModule(store, true)

	usable, err := newService(store).Usable(context.Background(), orgID, entity.ModuleHR)
	require.NoError(t, err)
	assert.False(t, usable)
}

// Un trial vigente con isEnabled=false se activa en la primera lectura:
// escritura absoluta, y la lectura ya devuelve usable.
func TestUsable_ActivacionPerezosaDeTrial(t *testing.T) {
	store := apptest.NewStore()
	seedModule(store, true)
	trialEnd := evalNow.AddDate(0, 0, 5)
	seedOrgModule(store, entity.OrgModule{IsEnabled: false, Plan: entity.PlanTrial, TrialEndsAt: &trialEnd})

	svc := newService(store)
	usable, err := svc.Usable(context.Background(), orgID, entity.ModuleHR)
	require.NoError(t, err)
	assert.True(t, usable, "la primera lectura de un trial vigente ya es usable")
	assert.True(t, store.OrgModules[orgID+"/"+moduleID].IsEnabled,
		"la activación debe persistirse")

	// Segunda lectura: idempotente, mismo resultado.
	usable, err = svc.Usable(context.Background(), orgID, entity.ModuleHR)
	require.NoError(t, err)
	assert.True(t, usable)
}

// Un trial ya vencido NO se activa: sigue apagado y no usable.
func TestUsable_TrialVencidoNoSeActiva(t *testing.T) {
	store := apptest.NewStore()
	seedModule(store, true)
	trialEnd := evalNow.AddDate(0, 0, -1)
	seedOrgModule(store, entity.OrgModule{IsEnabled: false, Plan: entity.PlanTrial, TrialEndsAt: &trialEnd})

	usable, err := newService(store).Usable(context.Background(), orgID, entity.ModuleHR)
	require.NoError(t, err)
	assert.False(t, usable)
	assert.False(t, store.OrgModules[orgID+"/"+moduleID].IsEnabled,
		"un trial vencido nunca dispara la activación")
}

// El vencimiento se observa al leer, nunca se escribe: el registro queda
// habilitado en la DB aunque la respuesta diga no usable.
func TestUsable_VencimientoObservadoNoAplicado(t *testing.T) {
	store := apptest.NewStore()
	seedModule(store, true)
	expired := evalNow.AddDate(0, 0, -3)
	seedOrgModule(store, entity.OrgModule{IsEnabled: true, Plan: entity.PlanBasic, ExpiresAt: &expired})

	usable, err := newService(store).Usable(context.Background(), orgID, entity.ModuleHR)
	require.NoError(t, err)
	assert.False(t, usable, "vencido no es usable")
	assert.True(t, store.OrgModules[orgID+"/"+moduleID].IsEnabled,
		"la lectura nunca deshabilita: el vencimiento se deriva, no se persiste")
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests LicensingForOrg
// ──────────────────────────────────────────────────────────────────────────────

// Cada módulo del catálogo aparece una vez; sin entitlement aparece deshabilitado.
func TestLicensingForOrg_CatalogoCompleto(t *testing.T) {
	store := apptest.NewStore()
	seedModule(store, true)
	store.Modules["mod-tk"] = entity.Module{ID: "mod-tk", Key: entity.ModuleTicketing, Name: "Tickets", IsActive: true}
	trialEnd := evalNow.AddDate(0, 0, 4)
	seedOrgModule(store, entity.OrgModule{IsEnabled: true, Plan: entity.PlanTrial, TrialEndsAt: &trialEnd})

	out, err := newService(store).LicensingForOrg(context.Background(), orgID)
	require.NoError(t, err)
	require.Len(t, out, 2)

	byKey := map[string]int{}
	for i, lic := range out {
		byKey[lic.ModuleKey] = i
	}
	hr := out[byKey[entity.ModuleHR]]
	assert.True(t, hr.IsEnabled)
	assert.True(t, hr.IsTrial, "trial vigente debe derivar is_trial=true")
	assert.False(t, hr.IsExpired)
	assert.True(t, hr.Usable)

	tk := out[byKey[entity.ModuleTicketing]]
	assert.False(t, tk.IsEnabled, "módulo sin entitlement aparece deshabilitado")
	assert.False(t, tk.Usable)
}

// La activación perezosa también corre en el listado de licenciamiento.
func TestLicensingForOrg_ActivaTrialsVigentes(t *testing.T) {
	store := apptest.NewStore()
	seedModule(store, true)
	trialEnd := evalNow.AddDate(0, 0, 2)
	seedOrgModule(store, entity.OrgModule{IsEnabled: false, Plan: entity.PlanTrial, TrialEndsAt: &trialEnd})

	out, err := newService(store).LicensingForOrg(context.Background(), orgID)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.True(t, out[0].Usable)
	assert.True(t, store.OrgModules[orgID+"/"+moduleID].IsEnabled)
}
