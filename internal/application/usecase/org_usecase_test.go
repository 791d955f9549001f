package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/suite-pro/internal/application/apptest"
	"github.com/tu-usuario/suite-pro/internal/application/dto"
	"github.com/tu-usuario/suite-pro/internal/domain"
	"github.com/tu-usuario/suite-pro/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

var ucNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newOrgUC(s *apptest.Store, notifier *apptest.NopNotifier) *OrgUseCase {
	uc := NewOrgUseCase(
		&apptest.FakeTxRunner{S: s},
		apptest.OrgRepo{S: s},
		apptest.ModuleRepo{S: s},
		notifier,
		apptest.QuietLogger(),
		7,
	)
	uc.now = func() time.Time { return ucNow }
	return uc
}

func seedCatalogModules(s *apptest.Store) {
	s.Modules["mod-hr"] = entity.Module{ID: "mod-hr", Key: entity.ModuleHR, Name: "RRHH", IsActive: true}
	s.Modules["mod-tk"] = entity.Module{ID: "mod-tk", Key: entity.ModuleTicketing, Name: "Tickets", IsActive: true}
	s.Modules["mod-off"] = entity.Module{ID: "mod-off", Key: entity.ModuleProjects, Name: "Proyectos", IsActive: false}
}

func validSignup() dto.CreateOrganizationRequest {
	return dto.CreateOrganizationRequest{
		Name:          "Acme",
		Slug:          "acme",
		OwnerEmail:    "owner@acme.test",
		OwnerPassword: "secreta123",
		OwnerName:     "Ana Owner",
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests Create
// ──────────────────────────────────────────────────────────────────────────────

// El alta siembra org + owner + membership + rol owner + trials habilitados de
// todos los módulos activos, y despacha la bienvenida.
func TestOrgCreate_SiembraCompleta(t *testing.T) {
	store := apptest.NewStore()
	seedCatalogModules(store)
	notifier := &apptest.NopNotifier{}

	out, err := newOrgUC(store, notifier).Create(context.Background(), validSignup())
	require.NoError(t, err)
	assert.Equal(t, "acme", out.Slug)
	assert.Equal(t, entity.OrgStatusActive, out.Status)

	require.Len(t, store.Users, 1)
	require.Len(t, store.Memberships, 1)
	for _, m := range store.Memberships {
		assert.Equal(t, entity.MembershipStatusActive, m.Status)
		assert.Equal(t, out.ID, m.OrganizationID)
		require.Len(t, store.MembershipRoles[m.ID], 1, "el owner arranca con el rol owner adjunto")
	}

	// Solo los módulos activos del catálogo se siembran, en trial de 7 días.
	require.Len(t, store.OrgModules, 2, "los módulos con kill-switch no se siembran")
	for _, om := range store.OrgModules {
		assert.True(t, om.IsEnabled)
		assert.Equal(t, entity.PlanTrial, om.Plan)
		require.NotNil(t, om.TrialEndsAt)
		assert.Equal(t, ucNow.AddDate(0, 0, 7), *om.TrialEndsAt)
	}

	assert.Equal(t, []string{"owner@acme.test"}, notifier.Sent)
}

// Slug duplicado: ErrDuplicate y ninguna fila sembrada (rollback).
func TestOrgCreate_SlugDuplicadoRevierte(t *testing.T) {
	store := apptest.NewStore()
	seedCatalogModules(store)
	store.Orgs["org-previa"] = entity.Organization{ID: "org-previa", Slug: "acme", Status: entity.OrgStatusActive}
	notifier := &apptest.NopNotifier{}

	_, err := newOrgUC(store, notifier).Create(context.Background(), validSignup())
	assert.ErrorIs(t, err, domain.ErrDuplicate)
	assert.Len(t, store.Orgs, 1, "solo la organización preexistente")
	assert.Empty(t, store.Users)
	assert.Empty(t, store.OrgModules)
	assert.Empty(t, notifier.Sent, "sin commit no hay bienvenida")
}

// Email del owner ya registrado: ErrEmailAlreadyExists.
func TestOrgCreate_EmailExistente(t *testing.T) {
	store := apptest.NewStore()
	seedCatalogModules(store)
	store.Users["user-previo"] = entity.User{ID: "user-previo", Email: "owner@acme.test", Status: entity.UserStatusActive}

	_, err := newOrgUC(store, &apptest.NopNotifier{}).Create(context.Background(), validSignup())
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
	assert.Empty(t, store.Orgs)
}

// Campos requeridos faltantes.
func TestOrgCreate_CamposRequeridos(t *testing.T) {
	store := apptest.NewStore()
	uc := newOrgUC(store, &apptest.NopNotifier{})

	in := validSignup()
	in.Slug = ""
	_, err := uc.Create(context.Background(), in)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	in = validSignup()
	in.OwnerPassword = ""
	_, err = uc.Create(context.Background(), in)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests UpdateCaps
// ──────────────────────────────────────────────────────────────────────────────

// Bajar el cupo por debajo del conteo activo se rechaza con los números reales.
func TestUpdateCaps_PorDebajoDelConteoActivo(t *testing.T) {
	store := apptest.NewStore()
	store.Orgs["org-1"] = entity.Organization{ID: "org-1", Slug: "acme", Status: entity.OrgStatusActive}
	for _, id := range []string{"m1", "m2", "m3"} {
		store.Memberships[id] = entity.Membership{
			ID: id, UserID: "u-" + id, OrganizationID: "org-1",
			Status: entity.MembershipStatusActive,
		}
	}

	maxUsers := 2
	_, err := newOrgUC(store, &apptest.NopNotifier{}).UpdateCaps(context.Background(), "org-1",
		dto.UpdateCapsRequest{MaxUsers: &maxUsers})

	var limitErr *domain.LimitViolationError
	require.ErrorAs(t, err, &limitErr)
	assert.Equal(t, domain.LimitResourceUsers, limitErr.Resource)
	assert.Equal(t, 3, limitErr.Current)
	assert.Equal(t, 2, limitErr.Cap)
	assert.Nil(t, store.Orgs["org-1"].MaxUsers, "el rechazo no escribe el cupo")
}

// Cupos válidos se aplican; nil significa "sin límite".
func TestUpdateCaps_Aplica(t *testing.T) {
	store := apptest.NewStore()
	store.Orgs["org-1"] = entity.Organization{ID: "org-1", Slug: "acme", Status: entity.OrgStatusActive}

	maxUsers := 25
	out, err := newOrgUC(store, &apptest.NopNotifier{}).UpdateCaps(context.Background(), "org-1",
		dto.UpdateCapsRequest{MaxUsers: &maxUsers})
	require.NoError(t, err)
	require.NotNil(t, out.MaxUsers)
	assert.Equal(t, 25, *out.MaxUsers)
	assert.Nil(t, out.MaxEmployees)
}

// Organización inexistente.
func TestUpdateCaps_OrgInexistente(t *testing.T) {
	store := apptest.NewStore()

	_, err := newOrgUC(store, &apptest.NopNotifier{}).UpdateCaps(context.Background(), "fantasma", dto.UpdateCapsRequest{})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
