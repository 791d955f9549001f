package repository

import (
	"context"

	"github.com/tu-usuario/suite-pro/internal/domain/entity"
)

// RoleRepository define el puerto de persistencia para roles y permisos.
type RoleRepository interface {
	Create(ctx context.Context, role *entity.Role) error
	// GetGlobalByKey busca un rol global (organization_id IS NULL) por key.
	GetGlobalByKey(ctx context.Context, key string) (*entity.Role, error)
	ListByMembership(ctx context.Context, membershipID string) ([]*entity.Role, error)
	// PermissionKeysForMembership resuelve en UNA sola consulta (join + DISTINCT)
	// la unión de permisos de todos los roles de la membership. Una sola lectura
	// garantiza que la decisión de autorización no mezcle dos fotos del estado.
	PermissionKeysForMembership(ctx context.Context, membershipID string) ([]string, error)
	Attach(ctx context.Context, membershipID, roleID string) error
	Detach(ctx context.Context, membershipID, roleID string) error
}
