package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/tu-usuario/suite-pro/internal/application/dto"
	"github.com/tu-usuario/suite-pro/internal/domain"
	"github.com/tu-usuario/suite-pro/internal/domain/entity"
	"github.com/tu-usuario/suite-pro/internal/domain/repository"
	"github.com/tu-usuario/suite-pro/pkg/jwt"
	"golang.org/x/crypto/bcrypt"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// AuthUseCase caso de uso de autenticación. Emite tokens que solo llevan
// identidad + tenant + flag de super admin: roles y permisos se re-resuelven
// contra la DB en cada request.
type AuthUseCase struct {
	userRepo       repository.UserRepository
	membershipRepo repository.MembershipRepository
	jwtCfg         JWTConfig
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(userRepo repository.UserRepository, membershipRepo repository.MembershipRepository, jwtCfg JWTConfig) *AuthUseCase {
	return &AuthUseCase{userRepo: userRepo, membershipRepo: membershipRepo, jwtCfg: jwtCfg}
}

// Register da de alta un usuario global sin organización: el acceso a un tenant
// llega por invitación o por alta de organización. Email duplicado devuelve
// domain.ErrEmailAlreadyExists.
func (uc *AuthUseCase) Register(ctx context.Context, in dto.RegisterRequest) (*dto.UserResponse, error) {
	if in.Email == "" || in.Password == "" {
		return nil, fmt.Errorf("%w: email y password son requeridos", domain.ErrInvalidInput)
	}
	existing, err := uc.userRepo.GetByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrEmailAlreadyExists
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	name := in.Name
	if name == "" {
		name = in.Email
	}
	now := time.Now()
	user := &entity.User{
		ID:           uuid.New().String(),
		Email:        in.Email,
		PasswordHash: string(hash),
		Name:         name,
		Status:       entity.UserStatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return ToUserResponse(user), nil
}

// Login verifica email/password y emite el JWT. La organización del token se
// resuelve así: la pedida en el request (debe haber membership activa), o la
// única membership activa del usuario; con varias memberships el request debe
// elegir. Un super admin puede loguearse sin organización.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := uc.userRepo.GetByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	if user.Status != entity.UserStatusActive {
		return nil, domain.ErrForbidden
	}

	orgID, err := uc.resolveOrg(ctx, user, in.OrganizationID)
	if err != nil {
		return nil, err
	}

	token, err := jwt.Generate(uc.jwtCfg.Secret, user.ID, orgID, user.SuperAdmin, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		Token:          token,
		OrganizationID: orgID,
		User:           *ToUserResponse(user),
	}, nil
}

func (uc *AuthUseCase) resolveOrg(ctx context.Context, user *entity.User, requested string) (string, error) {
	if requested != "" {
		m, err := uc.membershipRepo.GetByUserAndOrg(ctx, user.ID, requested)
		if err != nil {
			return "", err
		}
		if (m == nil || !m.IsActive()) && !user.SuperAdmin {
			return "", domain.ErrUnauthorized
		}
		return requested, nil
	}
	memberships, err := uc.membershipRepo.ListActiveByUser(ctx, user.ID)
	if err != nil {
		return "", err
	}
	switch len(memberships) {
	case 0:
		if user.SuperAdmin {
			return "", nil
		}
		return "", domain.ErrUnauthorized
	case 1:
		return memberships[0].OrganizationID, nil
	default:
		return "", fmt.Errorf("%w: organization_id es requerido (el usuario pertenece a varias organizaciones)", domain.ErrInvalidInput)
	}
}

// ToUserResponse convierte la entidad a su representación pública.
func ToUserResponse(u *entity.User) *dto.UserResponse {
	if u == nil {
		return nil
	}
	return &dto.UserResponse{
		ID:         u.ID,
		Email:      u.Email,
		Name:       u.Name,
		SuperAdmin: u.SuperAdmin,
		Status:     u.Status,
		CreatedAt:  u.CreatedAt,
		UpdatedAt:  u.UpdatedAt,
	}
}
