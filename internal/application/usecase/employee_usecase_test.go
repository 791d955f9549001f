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

func newEmployeeUC(s *apptest.Store) *EmployeeUseCase {
	uc := NewEmployeeUseCase(&apptest.FakeTxRunner{S: s}, apptest.EmployeeRepo{S: s}, apptest.QuietLogger())
	uc.now = func() time.Time { return ucNow }
	return uc
}

func seedEmployeeOrg(s *apptest.Store, maxEmployees *int) {
	s.Orgs["org-1"] = entity.Organization{
		ID: "org-1", Name: "Acme", Slug: "acme",
		Status: entity.OrgStatusActive, MaxEmployees: maxEmployees,
	}
}

func seedEmployees(s *apptest.Store, n int, status string) {
	for i := 0; i < n; i++ {
		id := "emp-" + string(rune('a'+i))
		s.Employees[id] = entity.Employee{
			ID: id, OrganizationID: "org-1", Name: "Empleado " + id, Status: status,
		}
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests
// ──────────────────────────────────────────────────────────────────────────────

// El alta simple dentro del cupo crea el empleado activo.
func TestEmployeeCreate_DentroDelCupo(t *testing.T) {
	store := apptest.NewStore()
	maxEmployees := 5
	seedEmployeeOrg(store, &maxEmployees)
	seedEmployees(store, 3, entity.EmployeeStatusActive)

	emp, err := newEmployeeUC(store).Create(context.Background(), "org-1",
		dto.CreateEmployeeRequest{Name: "Carla", Email: "carla@acme.test", Position: "Analista"})
	require.NoError(t, err)
	assert.Equal(t, entity.EmployeeStatusActive, emp.Status)
	assert.Len(t, store.Employees, 4)
}

// El lote completo se valida contra el cupo ANTES de insertar: si no entra,
// ninguna fila queda.
func TestEmployeeBulkCreate_LoteExcedeCupo(t *testing.T) {
	store := apptest.NewStore()
	maxEmployees := 5
	seedEmployeeOrg(store, &maxEmployees)
	seedEmployees(store, 4, entity.EmployeeStatusActive)

	_, err := newEmployeeUC(store).BulkCreate(context.Background(), "org-1", dto.BulkCreateEmployeesRequest{
		Employees: []dto.CreateEmployeeRequest{
			{Name: "Uno"}, {Name: "Dos"},
		},
	})

	var limitErr *domain.LimitViolationError
	require.ErrorAs(t, err, &limitErr)
	assert.Equal(t, domain.LimitResourceEmployees, limitErr.Resource)
	assert.Equal(t, 4, limitErr.Current)
	assert.Equal(t, 5, limitErr.Cap)
	assert.Len(t, store.Employees, 4, "ningún empleado del lote debe quedar creado")
}

// Lote que entra justo en el cupo: todo-o-nada exitoso.
func TestEmployeeBulkCreate_LoteJustoEnElCupo(t *testing.T) {
	store := apptest.NewStore()
	maxEmployees := 5
	seedEmployeeOrg(store, &maxEmployees)
	seedEmployees(store, 3, entity.EmployeeStatusActive)

	created, err := newEmployeeUC(store).BulkCreate(context.Background(), "org-1", dto.BulkCreateEmployeesRequest{
		Employees: []dto.CreateEmployeeRequest{
			{Name: "Uno"}, {Name: "Dos"},
		},
	})
	require.NoError(t, err)
	assert.Len(t, created, 2)
	assert.Len(t, store.Employees, 5)
}

// Los desactivados no cuentan contra el cupo.
func TestEmployeeBulkCreate_DesactivadosNoCuentan(t *testing.T) {
	store := apptest.NewStore()
	maxEmployees := 3
	seedEmployeeOrg(store, &maxEmployees)
	seedEmployees(store, 3, entity.EmployeeStatusDeactivated)

	created, err := newEmployeeUC(store).BulkCreate(context.Background(), "org-1", dto.BulkCreateEmployeesRequest{
		Employees: []dto.CreateEmployeeRequest{{Name: "Uno"}, {Name: "Dos"}, {Name: "Tres"}},
	})
	require.NoError(t, err)
	assert.Len(t, created, 3)
}

// Lote vacío y nombres faltantes se rechazan.
func TestEmployeeBulkCreate_Validaciones(t *testing.T) {
	store := apptest.NewStore()
	seedEmployeeOrg(store, nil)
	uc := newEmployeeUC(store)

	_, err := uc.BulkCreate(context.Background(), "org-1", dto.BulkCreateEmployeesRequest{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.BulkCreate(context.Background(), "org-1", dto.BulkCreateEmployeesRequest{
		Employees: []dto.CreateEmployeeRequest{{Name: "Ok"}, {Name: ""}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Empty(t, store.Employees)
}

// Organización inexistente.
func TestEmployeeCreate_OrgInexistente(t *testing.T) {
	store := apptest.NewStore()

	_, err := newEmployeeUC(store).Create(context.Background(), "fantasma",
		dto.CreateEmployeeRequest{Name: "Carla"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
