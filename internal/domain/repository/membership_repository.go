package repository

import (
	"context"

	"github.com/tu-usuario/suite-pro/internal/domain/entity"
)

// MembershipRepository define el puerto de persistencia para Membership.
type MembershipRepository interface {
	Create(ctx context.Context, m *entity.Membership) error
	GetByID(ctx context.Context, id string) (*entity.Membership, error)
	GetByUserAndOrg(ctx context.Context, userID, orgID string) (*entity.Membership, error)
	Update(ctx context.Context, m *entity.Membership) error
	ListByOrg(ctx context.Context, orgID string, limit, offset int) ([]*entity.Membership, error)
	ListActiveByUser(ctx context.Context, userID string) ([]*entity.Membership, error)
	// CountActiveByOrg cuenta memberships activas del tenant. Para que el chequeo
	// de cupo sea correcto bajo concurrencia debe ejecutarse dentro de la misma
	// transacción que bloqueó la fila de la organización.
	CountActiveByOrg(ctx context.Context, orgID string) (int, error)
}
