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
	"golang.org/x/crypto/bcrypt"
)

// DefaultTrialDays ventana de trial sembrada en el alta de organización.
const DefaultTrialDays = 7

// OrgUseCase casos de uso de organizaciones: alta con siembra de trials,
// consulta y cambio de cupos.
type OrgUseCase struct {
	tx         IdentityTxRunner
	orgRepo    repository.OrganizationRepository
	moduleRepo repository.ModuleRepository
	notifier   Notifier
	log        *logger.Logger
	trialDays  int
	now        func() time.Time
}

// NewOrgUseCase construye el caso de uso. trialDays <= 0 usa DefaultTrialDays.
func NewOrgUseCase(
	tx IdentityTxRunner,
	orgRepo repository.OrganizationRepository,
	moduleRepo repository.ModuleRepository,
	notifier Notifier,
	log *logger.Logger,
	trialDays int,
) *OrgUseCase {
	if trialDays <= 0 {
		trialDays = DefaultTrialDays
	}
	return &OrgUseCase{
		tx:         tx,
		orgRepo:    orgRepo,
		moduleRepo: moduleRepo,
		notifier:   notifier,
		log:        log,
		trialDays:  trialDays,
		now:        time.Now,
	}
}

// Create da de alta la organización con su usuario owner: org + user +
// membership + rol owner + siembra de módulos por defecto (trial de 7 días,
// habilitados), todo en una transacción. La notificación de bienvenida se
// despacha después del commit y nunca hace fallar el alta.
func (uc *OrgUseCase) Create(ctx context.Context, in dto.CreateOrganizationRequest) (*dto.OrganizationResponse, error) {
	if in.Name == "" || in.Slug == "" || in.OwnerEmail == "" || in.OwnerPassword == "" {
		return nil, fmt.Errorf("%w: name, slug, owner_email y owner_password son requeridos", domain.ErrInvalidInput)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.OwnerPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	modules, err := uc.moduleRepo.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	now := uc.now()
	trialEnd := now.AddDate(0, 0, uc.trialDays)
	ownerName := in.OwnerName
	if ownerName == "" {
		ownerName = in.OwnerEmail
	}

	org := &entity.Organization{
		ID:        uuid.New().String(),
		Name:      in.Name,
		Slug:      in.Slug,
		Status:    entity.OrgStatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err = uc.tx.RunIdentity(ctx, func(
		orgRepo repository.OrganizationRepository,
		userRepo repository.UserRepository,
		membershipRepo repository.MembershipRepository,
		roleRepo repository.RoleRepository,
		_ repository.EmployeeRepository,
		omRepo repository.OrgModuleRepository,
	) error {
		existing, err := orgRepo.GetBySlug(ctx, in.Slug)
		if err != nil {
			return err
		}
		if existing != nil {
			return domain.ErrDuplicate
		}
		if existingUser, err := userRepo.GetByEmail(ctx, in.OwnerEmail); err != nil {
			return err
		} else if existingUser != nil {
			return domain.ErrEmailAlreadyExists
		}

		if err := orgRepo.Create(ctx, org); err != nil {
			return err
		}
		owner := &entity.User{
			ID:           uuid.New().String(),
			Email:        in.OwnerEmail,
			PasswordHash: string(hash),
			Name:         ownerName,
			Status:       entity.UserStatusActive,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if err := userRepo.Create(ctx, owner); err != nil {
			return err
		}
		membership := &entity.Membership{
			ID:             uuid.New().String(),
			UserID:         owner.ID,
			OrganizationID: org.ID,
			Status:         entity.MembershipStatusActive,
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		if err := membershipRepo.Create(ctx, membership); err != nil {
			return err
		}
		ownerRole, err := ensureGlobalRole(ctx, roleRepo, entity.RoleOwner, "Owner", now)
		if err != nil {
			return err
		}
		if err := roleRepo.Attach(ctx, membership.ID, ownerRole.ID); err != nil {
			return err
		}

		// Siembra: todos los módulos activos del catálogo arrancan habilitados
		// con trial de uc.trialDays días (transición disabled → trial).
		for _, module := range modules {
			end := trialEnd
			om := &entity.OrgModule{
				ID:             uuid.New().String(),
				OrganizationID: org.ID,
				ModuleID:       module.ID,
				IsEnabled:      true,
				Plan:           entity.PlanTrial,
				TrialEndsAt:    &end,
				CreatedAt:      now,
				UpdatedAt:      now,
			}
			if err := omRepo.Upsert(ctx, om); err != nil {
				return fmt.Errorf("sembrar módulo %s: %w", module.Key, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().
		Str("org_id", org.ID).
		Str("slug", org.Slug).
		Int("seeded_modules", len(modules)).
		Msg("organización creada")
	uc.notifier.Send(ctx, in.OwnerEmail, "Bienvenido a la suite",
		fmt.Sprintf("Tu organización %s quedó creada con %d días de prueba.", in.Name, uc.trialDays))

	return toOrgResponse(org), nil
}

// GetByID obtiene una organización por ID.
func (uc *OrgUseCase) GetByID(ctx context.Context, id string) (*dto.OrganizationResponse, error) {
	org, err := uc.orgRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if org == nil {
		return nil, nil
	}
	return toOrgResponse(org), nil
}

// UpdateCaps cambia los cupos de la organización. Bajar un cupo por debajo del
// conteo activo actual se rechaza con LimitViolationError; el chequeo corre con
// la fila bloqueada, en la misma transacción que la escritura.
func (uc *OrgUseCase) UpdateCaps(ctx context.Context, orgID string, in dto.UpdateCapsRequest) (*dto.OrganizationResponse, error) {
	var out *entity.Organization
	err := uc.tx.RunIdentity(ctx, func(
		orgRepo repository.OrganizationRepository,
		_ repository.UserRepository,
		membershipRepo repository.MembershipRepository,
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
		if in.MaxUsers != nil {
			count, err := membershipRepo.CountActiveByOrg(ctx, orgID)
			if err != nil {
				return err
			}
			if count > *in.MaxUsers {
				return &domain.LimitViolationError{Resource: domain.LimitResourceUsers, Current: count, Cap: *in.MaxUsers}
			}
		}
		if in.MaxEmployees != nil {
			count, err := employeeRepo.CountActiveByOrg(ctx, orgID)
			if err != nil {
				return err
			}
			if count > *in.MaxEmployees {
				return &domain.LimitViolationError{Resource: domain.LimitResourceEmployees, Current: count, Cap: *in.MaxEmployees}
			}
		}
		org.MaxUsers = in.MaxUsers
		org.MaxEmployees = in.MaxEmployees
		org.UpdatedAt = uc.now()
		if err := orgRepo.Update(ctx, org); err != nil {
			return err
		}
		out = org
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toOrgResponse(out), nil
}

// ensureGlobalRole obtiene el rol global por key, creándolo si aún no existe.
func ensureGlobalRole(ctx context.Context, roleRepo repository.RoleRepository, key, name string, now time.Time) (*entity.Role, error) {
	role, err := roleRepo.GetGlobalByKey(ctx, key)
	if err != nil {
		return nil, err
	}
	if role != nil {
		return role, nil
	}
	role = &entity.Role{
		ID:        uuid.New().String(),
		Key:       key,
		Name:      name,
		CreatedAt: now,
	}
	if err := roleRepo.Create(ctx, role); err != nil {
		return nil, err
	}
	return role, nil
}

func toOrgResponse(o *entity.Organization) *dto.OrganizationResponse {
	if o == nil {
		return nil
	}
	return &dto.OrganizationResponse{
		ID:              o.ID,
		Name:            o.Name,
		Slug:            o.Slug,
		Status:          o.Status,
		MaxUsers:        o.MaxUsers,
		MaxEmployees:    o.MaxEmployees,
		ExpiresAt:       o.ExpiresAt,
		CurrentBundleID: o.CurrentBundleID,
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
	}
}
