package auth_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/tu-usuario/suite-pro/internal/application/apptest"
	"github.com/tu-usuario/suite-pro/internal/application/auth"
	"github.com/tu-usuario/suite-pro/internal/application/dto"
	"github.com/tu-usuario/suite-pro/internal/domain"
	"github.com/tu-usuario/suite-pro/internal/domain/entity"
	"github.com/tu-usuario/suite-pro/pkg/jwt"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	testSecret   = "secreto-de-test"
	testPassword = "secreta123"
)

func newAuthUC(s *apptest.Store) *auth.AuthUseCase {
	return auth.NewAuthUseCase(s, apptest.MembershipRepo{S: s}, auth.JWTConfig{
		Secret:     testSecret,
		ExpMinutes: 60,
		Issuer:     "suite-pro-test",
	})
}

func seedUser(s *apptest.Store, id, email string, superAdmin bool) {
	hash, _ := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	s.Users[id] = entity.User{
		ID: id, Email: email, PasswordHash: string(hash),
		Name: "Ana", SuperAdmin: superAdmin, Status: entity.UserStatusActive,
	}
}

func seedActiveMembership(s *apptest.Store, id, userID, orgID string) {
	s.Memberships[id] = entity.Membership{
		ID: id, UserID: userID, OrganizationID: orgID,
		Status: entity.MembershipStatusActive,
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests Login
// ──────────────────────────────────────────────────────────────────────────────

// Login exitoso con una sola membership: la organización se resuelve sola y el
// token transporta identidad + tenant.
func TestLogin_UnicaMembershipResuelveOrg(t *testing.T) {
	store := apptest.NewStore()
	seedUser(store, "user-1", "ana@acme.test", false)
	seedActiveMembership(store, "m1", "user-1", "org-1")

	out, err := newAuthUC(store).Login(context.Background(), dto.LoginRequest{
		Email: "ana@acme.test", Password: testPassword,
	})
	require.NoError(t, err)
	assert.Equal(t, "org-1", out.OrganizationID)
	assert.Equal(t, "ana@acme.test", out.User.Email)

	userID, orgID, superAdmin, err := jwt.Parse(testSecret, out.Token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", userID)
	assert.Equal(t, "org-1", orgID)
	assert.False(t, superAdmin)
}

// Password incorrecto y email desconocido responden igual: Unauthorized.
func TestLogin_CredencialesInvalidas(t *testing.T) {
	store := apptest.NewStore()
	seedUser(store, "user-1", "ana@acme.test", false)
	uc := newAuthUC(store)

	_, err := uc.Login(context.Background(), dto.LoginRequest{Email: "ana@acme.test", Password: "mala"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = uc.Login(context.Background(), dto.LoginRequest{Email: "nadie@acme.test", Password: testPassword})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

// Un usuario desactivado no entra aunque la credencial sea correcta.
func TestLogin_UsuarioInactivo(t *testing.T) {
	store := apptest.NewStore()
	seedUser(store, "user-1", "ana@acme.test", false)
	u := store.Users["user-1"]
	u.Status = entity.UserStatusSuspended
	store.Users["user-1"] = u

	_, err := newAuthUC(store).Login(context.Background(), dto.LoginRequest{
		Email: "ana@acme.test", Password: testPassword,
	})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

// Con varias memberships el request debe elegir la organización.
func TestLogin_VariasMembershipsRequierenOrg(t *testing.T) {
	store := apptest.NewStore()
	seedUser(store, "user-1", "ana@acme.test", false)
	seedActiveMembership(store, "m1", "user-1", "org-1")
	seedActiveMembership(store, "m2", "user-1", "org-2")
	uc := newAuthUC(store)

	_, err := uc.Login(context.Background(), dto.LoginRequest{
		Email: "ana@acme.test", Password: testPassword,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	// Eligiendo una de las dos, entra.
	out, err := uc.Login(context.Background(), dto.LoginRequest{
		Email: "ana@acme.test", Password: testPassword, OrganizationID: "org-2",
	})
	require.NoError(t, err)
	assert.Equal(t, "org-2", out.OrganizationID)
}

// Pedir una organización sin membership activa es Unauthorized.
func TestLogin_OrgSinMembership(t *testing.T) {
	store := apptest.NewStore()
	seedUser(store, "user-1", "ana@acme.test", false)
	seedActiveMembership(store, "m1", "user-1", "org-1")

	_, err := newAuthUC(store).Login(context.Background(), dto.LoginRequest{
		Email: "ana@acme.test", Password: testPassword, OrganizationID: "org-ajena",
	})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

// Un super admin entra sin memberships (token sin organización) y puede pedir
// cualquier organización.
func TestLogin_SuperAdminSinMembership(t *testing.T) {
	store := apptest.NewStore()
	seedUser(store, "root-1", "root@suite.test", true)
	uc := newAuthUC(store)

	out, err := uc.Login(context.Background(), dto.LoginRequest{
		Email: "root@suite.test", Password: testPassword,
	})
	require.NoError(t, err)
	assert.Empty(t, out.OrganizationID)

	_, orgID, superAdmin, err := jwt.Parse(testSecret, out.Token)
	require.NoError(t, err)
	assert.Empty(t, orgID)
	assert.True(t, superAdmin)

	// Con organización explícita, el token la transporta aunque no haya membership.
	out, err = uc.Login(context.Background(), dto.LoginRequest{
		Email: "root@suite.test", Password: testPassword, OrganizationID: "org-1",
	})
	require.NoError(t, err)
	assert.Equal(t, "org-1", out.OrganizationID)
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests Register
// ──────────────────────────────────────────────────────────────────────────────

// El registro crea un usuario activo sin organización, listo para loguearse.
func TestRegister_CreaUsuarioActivo(t *testing.T) {
	store := apptest.NewStore()
	uc := newAuthUC(store)

	out, err := uc.Register(context.Background(), dto.RegisterRequest{
		Email: "ana@acme.test", Password: testPassword, Name: "Ana",
	})
	require.NoError(t, err)
	assert.Equal(t, entity.UserStatusActive, out.Status)
	assert.False(t, out.SuperAdmin)
	require.Len(t, store.Users, 1)

	// La credencial queda hasheada y sirve para el login (si hubiera membership).
	for _, u := range store.Users {
		assert.NotEqual(t, testPassword, u.PasswordHash)
	}
}

// Email ya registrado.
func TestRegister_EmailDuplicado(t *testing.T) {
	store := apptest.NewStore()
	seedUser(store, "user-1", "ana@acme.test", false)

	_, err := newAuthUC(store).Register(context.Background(), dto.RegisterRequest{
		Email: "ana@acme.test", Password: testPassword,
	})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
}

// Campos requeridos.
func TestRegister_CamposRequeridos(t *testing.T) {
	store := apptest.NewStore()

	_, err := newAuthUC(store).Register(context.Background(), dto.RegisterRequest{Email: "ana@acme.test"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests del token
// ──────────────────────────────────────────────────────────────────────────────

// Un token firmado con otro secreto no valida.
func TestToken_FirmaIncorrecta(t *testing.T) {
	token, err := jwt.Generate("otro-secreto", "user-1", "org-1", false, "suite-pro-test", 60)
	require.NoError(t, err)

	_, _, _, err = jwt.Parse(testSecret, token)
	assert.Error(t, err)
}

// Un token vencido no valida.
func TestToken_Vencido(t *testing.T) {
	token, err := jwt.Generate(testSecret, "user-1", "org-1", false, "suite-pro-test", -5)
	require.NoError(t, err)

	_, _, _, err = jwt.Parse(testSecret, token)
	assert.Error(t, err)
}
