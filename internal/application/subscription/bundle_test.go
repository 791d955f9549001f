package subscription

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/suite-pro/internal/application/apptest"
	"github.com/tu-usuario/suite-pro/internal/domain"
	"github.com/tu-usuario/suite-pro/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const bundleID = "bundle-pro"

func intPtr(n int) *int { return &n }

// seedBundle arma el bundle "pro" con dos módulos (hr pro, ticketing basic) y
// cupos 10/50.
func seedBundle(s *apptest.Store) {
	s.Modules[moduleID] = entity.Module{ID: moduleID, Key: entity.ModuleHR, Name: "RRHH", IsActive: true}
	s.Modules["mod-tk"] = entity.Module{ID: "mod-tk", Key: entity.ModuleTicketing, Name: "Tickets", IsActive: true}
	s.Bundles[bundleID] = entity.Bundle{
		ID: bundleID, Key: "pro", Name: "Suite Pro", IsActive: true,
		MaxUsers: intPtr(10), MaxEmployees: intPtr(50),
	}
	s.BundleModules[bundleID] = []entity.BundleModule{
		{BundleID: bundleID, ModuleID: moduleID, Plan: entity.PlanPro},
		{BundleID: bundleID, ModuleID: "mod-tk", Plan: entity.PlanBasic},
	}
}

func seedOrg(s *apptest.Store, maxUsers, maxEmployees *int) {
	s.Orgs[orgID] = entity.Organization{
		ID: orgID, Name: "Acme", Slug: "acme", Status: entity.OrgStatusActive,
		MaxUsers: maxUsers, MaxEmployees: maxEmployees,
	}
}

func seedActiveMembers(s *apptest.Store, n int) {
	for i := 0; i < n; i++ {
		id := "memb-" + string(rune('a'+i))
		s.Memberships[id] = entity.Membership{
			ID: id, UserID: "user-" + string(rune('a'+i)), OrganizationID: orgID,
			Status: entity.MembershipStatusActive,
		}
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests AssignBundle
// ──────────────────────────────────────────────────────────────────────────────

// Asignación exitosa: caps pisados por los del bundle, current_bundle_id fijado
// y todos los módulos del bundle aplicados.
func TestAssignBundle_AplicaCaposYModulos(t *testing.T) {
	store := apptest.NewStore()
	seedBundle(store)
	seedOrg(store, intPtr(3), nil)
	seedActiveMembers(store, 2)

	id := bundleID
	org, err := newEngine(store, nil).AssignBundle(context.Background(), orgID, &id)
	require.NoError(t, err)

	require.NotNil(t, org.CurrentBundleID)
	assert.Equal(t, bundleID, *org.CurrentBundleID)
	require.NotNil(t, org.MaxUsers)
	assert.Equal(t, 10, *org.MaxUsers, "el cupo del bundle pisa al de la organización")
	require.NotNil(t, org.MaxEmployees)
	assert.Equal(t, 50, *org.MaxEmployees)

	hr := store.OrgModules[orgID+"/"+moduleID]
	assert.True(t, hr.IsEnabled)
	assert.Equal(t, entity.PlanPro, hr.Plan)
	tk := store.OrgModules[orgID+"/mod-tk"]
	assert.True(t, tk.IsEnabled)
	assert.Equal(t, entity.PlanBasic, tk.Plan)
}

// Cupos nil en el bundle conservan los de la organización.
func TestAssignBundle_CupoNilConservaElActual(t *testing.T) {
	store := apptest.NewStore()
	seedBundle(store)
	b := store.Bundles[bundleID]
	b.MaxUsers = nil
	store.Bundles[bundleID] = b
	seedOrg(store, intPtr(5), nil)

	id := bundleID
	org, err := newEngine(store, nil).AssignBundle(context.Background(), orgID, &id)
	require.NoError(t, err)
	require.NotNil(t, org.MaxUsers)
	assert.Equal(t, 5, *org.MaxUsers, "cupo nil del bundle no pisa el de la organización")
}

// El cupo prospectivo por debajo del conteo activo rechaza con
// LimitViolationError y no aplica NADA.
func TestAssignBundle_CupoProspectivoInsuficiente(t *testing.T) {
	store := apptest.NewStore()
	seedBundle(store)
	seedOrg(store, nil, nil)
	seedActiveMembers(store, 12) // 12 activos > cap 10 del bundle

	id := bundleID
	_, err := newEngine(store, nil).AssignBundle(context.Background(), orgID, &id)

	var limitErr *domain.LimitViolationError
	require.ErrorAs(t, err, &limitErr)
	assert.Equal(t, domain.LimitResourceUsers, limitErr.Resource)
	assert.Equal(t, 12, limitErr.Current)
	assert.Equal(t, 10, limitErr.Cap)

	org := store.Orgs[orgID]
	assert.Nil(t, org.CurrentBundleID, "el rechazo no deja nada aplicado")
	assert.Nil(t, org.MaxUsers)
	assert.Empty(t, store.OrgModules, "ningún módulo del bundle debe quedar aplicado")
}

// Fallo a mitad del fan-out: la transacción revierte caps y el primer módulo
// aplicado. Todo-o-nada.
func TestAssignBundle_FalloEnFanOutReviertaTodo(t *testing.T) {
	store := apptest.NewStore()
	seedBundle(store)
	seedOrg(store, intPtr(3), nil)

	boom := errors.New("fallo simulado")
	store.ApplyPlanErr = func(org, module string) error {
		if module == "mod-tk" { // segundo módulo del bundle
			return boom
		}
		return nil
	}

	id := bundleID
	_, err := newEngine(store, nil).AssignBundle(context.Background(), orgID, &id)
	require.ErrorIs(t, err, boom)

	org := store.Orgs[orgID]
	assert.Nil(t, org.CurrentBundleID, "los caps deben revertirse con el fan-out")
	require.NotNil(t, org.MaxUsers)
	assert.Equal(t, 3, *org.MaxUsers)
	assert.Empty(t, store.OrgModules, "el primer módulo aplicado también se revierte")
}

// Desasignar (bundleID nil) limpia current_bundle_id y nada más.
func TestAssignBundle_DesasignarSoloLimpiaReferencia(t *testing.T) {
	store := apptest.NewStore()
	seedBundle(store)
	seedOrg(store, intPtr(10), intPtr(50))
	org := store.Orgs[orgID]
	id := bundleID
	org.CurrentBundleID = &id
	store.Orgs[orgID] = org
	store.OrgModules[orgID+"/"+moduleID] = entity.OrgModule{
		ID: "om-1", OrganizationID: orgID, ModuleID: moduleID, IsEnabled: true, Plan: entity.PlanPro,
	}

	out, err := newEngine(store, nil).AssignBundle(context.Background(), orgID, nil)
	require.NoError(t, err)
	assert.Nil(t, out.CurrentBundleID)
	require.NotNil(t, out.MaxUsers)
	assert.Equal(t, 10, *out.MaxUsers, "desasignar no restaura cupos")
	assert.True(t, store.OrgModules[orgID+"/"+moduleID].IsEnabled,
		"desasignar no revoca entitlements ya otorgados")
}

// Bundle inexistente o inactivo.
func TestAssignBundle_BundleInvalido(t *testing.T) {
	store := apptest.NewStore()
	seedBundle(store)
	seedOrg(store, nil, nil)
	engine := newEngine(store, nil)

	ghost := "no-existe"
	_, err := engine.AssignBundle(context.Background(), orgID, &ghost)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	b := store.Bundles[bundleID]
	b.IsActive = false
	store.Bundles[bundleID] = b
	id := bundleID
	_, err = engine.AssignBundle(context.Background(), orgID, &id)
	assert.ErrorIs(t, err, domain.ErrConflict)
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests ExtendTrial
// ──────────────────────────────────────────────────────────────────────────────

// Solo los módulos habilitados se extienden; los apagados quedan intactos.
func TestExtendTrial_SoloModulosHabilitados(t *testing.T) {
	store := apptest.NewStore()
	seedBundle(store)
	seedOrg(store, nil, nil)
	store.OrgModules[orgID+"/"+moduleID] = entity.OrgModule{
		ID: "om-1", OrganizationID: orgID, ModuleID: moduleID, IsEnabled: true, Plan: entity.PlanBasic,
	}
	store.OrgModules[orgID+"/mod-tk"] = entity.OrgModule{
		ID: "om-2", OrganizationID: orgID, ModuleID: "mod-tk", IsEnabled: false,
	}

	extended, err := newEngine(store, nil).ExtendTrial(context.Background(), orgID, 14)
	require.NoError(t, err)
	assert.Equal(t, 1, extended)

	hr := store.OrgModules[orgID+"/"+moduleID]
	require.NotNil(t, hr.TrialEndsAt)
	assert.Equal(t, engineNow.AddDate(0, 0, 14), *hr.TrialEndsAt)
	assert.Equal(t, entity.PlanBasic, hr.Plan, "un plan existente no se pisa")

	tk := store.OrgModules[orgID+"/mod-tk"]
	assert.Nil(t, tk.TrialEndsAt, "los módulos apagados no se extienden")
}

// Un módulo habilitado sin plan queda en trial.
func TestExtendTrial_PlanVacioQuedaEnTrial(t *testing.T) {
	store := apptest.NewStore()
	seedOrg(store, nil, nil)
	store.OrgModules[orgID+"/"+moduleID] = entity.OrgModule{
		ID: "om-1", OrganizationID: orgID, ModuleID: moduleID, IsEnabled: true,
	}

	_, err := newEngine(store, nil).ExtendTrial(context.Background(), orgID, 7)
	require.NoError(t, err)
	assert.Equal(t, entity.PlanTrial, store.OrgModules[orgID+"/"+moduleID].Plan)
}

// days no positivo se rechaza.
func TestExtendTrial_DiasInvalidos(t *testing.T) {
	store := apptest.NewStore()
	seedOrg(store, nil, nil)

	_, err := newEngine(store, nil).ExtendTrial(context.Background(), orgID, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = newEngine(store, nil).ExtendTrial(context.Background(), orgID, -3)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
