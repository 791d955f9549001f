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

// MemberUseCase casos de uso de memberships: invitar, desactivar, listar.
type MemberUseCase struct {
	tx             IdentityTxRunner
	membershipRepo repository.MembershipRepository
	log            *logger.Logger
	now            func() time.Time
}

// NewMemberUseCase construye el caso de uso.
func NewMemberUseCase(tx IdentityTxRunner, membershipRepo repository.MembershipRepository, log *logger.Logger) *MemberUseCase {
	return &MemberUseCase{tx: tx, membershipRepo: membershipRepo, log: log, now: time.Now}
}

// Invite incorpora (o reactiva) un usuario en la organización con el rol
// indicado (por defecto "member"). El chequeo de maxUsers corre con la fila de
// la organización bloqueada, en la misma transacción que la escritura: dos
// invitaciones concurrentes no pueden pasar ambas con un conteo viejo.
func (uc *MemberUseCase) Invite(ctx context.Context, orgID string, in dto.InviteMemberRequest) (*dto.MembershipResponse, error) {
	if in.Email == "" {
		return nil, fmt.Errorf("%w: email es requerido", domain.ErrInvalidInput)
	}
	roleKey := in.RoleKey
	if roleKey == "" {
		roleKey = entity.RoleMember
	}

	var out *entity.Membership
	err := uc.tx.RunIdentity(ctx, func(
		orgRepo repository.OrganizationRepository,
		userRepo repository.UserRepository,
		membershipRepo repository.MembershipRepository,
		roleRepo repository.RoleRepository,
		_ repository.EmployeeRepository,
		_ repository.OrgModuleRepository,
	) error {
		org, err := orgRepo.GetByIDForUpdate(ctx, orgID)
		if err != nil {
			return err
		}
		if org == nil {
			return domain.ErrNotFound
		}
		if org.Status != entity.OrgStatusActive {
			return fmt.Errorf("%w: la organización no está activa", domain.ErrConflict)
		}
		if org.MaxUsers != nil {
			count, err := membershipRepo.CountActiveByOrg(ctx, orgID)
			if err != nil {
				return err
			}
			if count >= *org.MaxUsers {
				return &domain.LimitViolationError{Resource: domain.LimitResourceUsers, Current: count, Cap: *org.MaxUsers}
			}
		}

		now := uc.now()
		user, err := userRepo.GetByEmail(ctx, in.Email)
		if err != nil {
			return err
		}
		if user == nil {
			// Usuario nuevo: credencial provisoria aleatoria; el alta de
			// contraseña real es un flujo aparte.
			hash, err := bcrypt.GenerateFromPassword([]byte(uuid.New().String()), bcrypt.DefaultCost)
			if err != nil {
				return err
			}
			name := in.Name
			if name == "" {
				name = in.Email
			}
			user = &entity.User{
				ID:           uuid.New().String(),
				Email:        in.Email,
				PasswordHash: string(hash),
				Name:         name,
				Status:       entity.UserStatusActive,
				CreatedAt:    now,
				UpdatedAt:    now,
			}
			if err := userRepo.Create(ctx, user); err != nil {
				return err
			}
		}

		m, err := membershipRepo.GetByUserAndOrg(ctx, user.ID, orgID)
		if err != nil {
			return err
		}
		switch {
		case m == nil:
			m = &entity.Membership{
				ID:             uuid.New().String(),
				UserID:         user.ID,
				OrganizationID: orgID,
				Status:         entity.MembershipStatusActive,
				CreatedAt:      now,
				UpdatedAt:      now,
			}
			if err := membershipRepo.Create(ctx, m); err != nil {
				return err
			}
		case m.IsActive():
			return domain.ErrDuplicate
		default:
			// Reactivación: pasa por el mismo chequeo de cupo de arriba.
			m.Status = entity.MembershipStatusActive
			m.UpdatedAt = now
			if err := membershipRepo.Update(ctx, m); err != nil {
				return err
			}
		}

		role, err := ensureGlobalRole(ctx, roleRepo, roleKey, roleKey, now)
		if err != nil {
			return err
		}
		if err := roleRepo.Attach(ctx, m.ID, role.ID); err != nil {
			return err
		}
		out = m
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("org_id", orgID).Str("membership_id", out.ID).Str("role", roleKey).Msg("miembro incorporado")
	return toMembershipResponse(out), nil
}

// Deactivate desactiva una membership (remoción suave; la fila persiste).
// Una membership de otra organización es ErrNotFound.
func (uc *MemberUseCase) Deactivate(ctx context.Context, orgID, membershipID string) error {
	m, err := uc.membershipRepo.GetByID(ctx, membershipID)
	if err != nil {
		return err
	}
	if m == nil || m.OrganizationID != orgID {
		return domain.ErrNotFound
	}
	if !m.IsActive() {
		return nil // ya desactivada
	}
	m.Status = entity.MembershipStatusDeactivated
	m.UpdatedAt = uc.now()
	return uc.membershipRepo.Update(ctx, m)
}

// List lista memberships de la organización con paginación.
func (uc *MemberUseCase) List(ctx context.Context, orgID string, limit, offset int) ([]dto.MembershipResponse, error) {
	list, err := uc.membershipRepo.ListByOrg(ctx, orgID, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.MembershipResponse, 0, len(list))
	for _, m := range list {
		items = append(items, *toMembershipResponse(m))
	}
	return items, nil
}

func toMembershipResponse(m *entity.Membership) *dto.MembershipResponse {
	if m == nil {
		return nil
	}
	return &dto.MembershipResponse{
		ID:             m.ID,
		UserID:         m.UserID,
		OrganizationID: m.OrganizationID,
		Status:         m.Status,
		CreatedAt:      m.CreatedAt,
	}
}
