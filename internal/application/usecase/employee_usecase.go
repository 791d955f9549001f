package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/tu-usuario/suite-pro/internal/application/dto"
	"github.com/tu-usuario/suite-pro/internal/domain"
	"github.com/tu-usuario/suite-pro/internal/domain/entity"
	"github.com/tu-usuario/suite-pro/internal/domain/repository"
	"github.com/tu-usuario/suite-pro/pkg/logger"
)

// EmployeeUseCase altas de empleados con chequeo de maxEmployees. El alta
// masiva valida el lote completo contra el cupo antes de insertar; si algo
// falla, ninguna fila queda.
type EmployeeUseCase struct {
	tx           IdentityTxRunner
	employeeRepo repository.EmployeeRepository
	log          *logger.Logger
	now          func() time.Time
}

// NewEmployeeUseCase construye el caso de uso.
func NewEmployeeUseCase(tx IdentityTxRunner, employeeRepo repository.EmployeeRepository, log *logger.Logger) *EmployeeUseCase {
	return &EmployeeUseCase{tx: tx, employeeRepo: employeeRepo, log: log, now: time.Now}
}

// Create da de alta un empleado. Chequeo de cupo con fila bloqueada, dentro de
// la transacción de la escritura.
func (uc *EmployeeUseCase) Create(ctx context.Context, orgID string, in dto.CreateEmployeeRequest) (*entity.Employee, error) {
	created, err := uc.bulkCreate(ctx, orgID, []dto.CreateEmployeeRequest{in})
	if err != nil {
		return nil, err
	}
	return created[0], nil
}

// BulkCreate alta masiva de empleados, todo-o-nada.
func (uc *EmployeeUseCase) BulkCreate(ctx context.Context, orgID string, in dto.BulkCreateEmployeesRequest) ([]*entity.Employee, error) {
	if len(in.Employees) == 0 {
		return nil, fmt.Errorf("%w: lote vacío", domain.ErrInvalidInput)
	}
	return uc.bulkCreate(ctx, orgID, in.Employees)
}

func (uc *EmployeeUseCase) bulkCreate(ctx context.Context, orgID string, batch []dto.CreateEmployeeRequest) ([]*entity.Employee, error) {
	for _, e := range batch {
		if e.Name == "" {
			return nil, fmt.Errorf("%w: name es requerido en todos los empleados", domain.ErrInvalidInput)
		}
	}

	var created []*entity.Employee
	err := uc.tx.RunIdentity(ctx, func(
		orgRepo repository.OrganizationRepository,
		_ repository.UserRepository,
		_ repository.MembershipRepository,
		_ repository.RoleRepository,
		employeeRepo repository.EmployeeRepository,
		_ repository.OrgModuleRepository,
	) error {
		org, err := orgRepo.GetByIDForUpdate(ctx, orgID)
		if err != nil {
			return err
		}
		if org == nil {
			return domain.ErrNotFound
		}
		if org.MaxEmployees != nil {
			count, err := employeeRepo.CountActiveByOrg(ctx, orgID)
			if err != nil {
				return err
			}
			if count+len(batch) > *org.MaxEmployees {
				return &domain.LimitViolationError{Resource: domain.LimitResourceEmployees, Current: count, Cap: *org.MaxEmployees}
			}
		}
		now := uc.now()
		for _, e := range batch {
			emp := &entity.Employee{
				ID:             uuid.New().String(),
				OrganizationID: orgID,
				Name:           e.Name,
				Email:          e.Email,
				Position:       e.Position,
				Status:         entity.EmployeeStatusActive,
				CreatedAt:      now,
				UpdatedAt:      now,
			}
			if err := employeeRepo.Create(ctx, emp); err != nil {
				return err
			}
			created = append(created, emp)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("org_id", orgID).Int("count", len(created)).Msg("empleados creados")
	return created, nil
}

// List lista empleados de la organización con paginación.
func (uc *EmployeeUseCase) List(ctx context.Context, orgID string, limit, offset int) ([]*entity.Employee, error) {
	return uc.employeeRepo.ListByOrg(ctx, orgID, limit, offset)
}
