package authz

import (
	"context"
	"fmt"

	"github.com/tu-usuario/suite-pro/internal/domain/entity"
	"github.com/tu-usuario/suite-pro/internal/domain/repository"
)

// PermissionSet conjunto de keys de permiso, deduplicado.
type PermissionSet map[string]struct{}

// Has informa si el permiso está en el conjunto.
func (s PermissionSet) Has(key string) bool {
	_, ok := s[key]
	return ok
}

// Keys devuelve las keys del conjunto como slice (orden no garantizado).
func (s PermissionSet) Keys() []string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	return keys
}

// Resolver calcula el conjunto de permisos de una membership: la unión
// deduplicada de los permisos de todos sus roles. Es el único punto de la
// aplicación que conoce esa resolución.
type Resolver struct {
	membershipRepo repository.MembershipRepository
	roleRepo       repository.RoleRepository
}

// NewResolver construye el resolver con sus puertos de persistencia.
func NewResolver(membershipRepo repository.MembershipRepository, roleRepo repository.RoleRepository) *Resolver {
	return &Resolver{membershipRepo: membershipRepo, roleRepo: roleRepo}
}

// PermissionsFor resuelve los permisos de (user, org). Una membership inexistente
// o desactivada produce conjunto vacío SIN error: el caller trata "sin membership"
// como "sin permiso", nunca como fallo fatal. Error solo ante fallos de
// infraestructura (DB caída, timeout).
func (r *Resolver) PermissionsFor(ctx context.Context, userID, orgID string) (PermissionSet, error) {
	if userID == "" || orgID == "" {
		return PermissionSet{}, nil
	}
	m, err := r.membershipRepo.GetByUserAndOrg(ctx, userID, orgID)
	if err != nil {
		return nil, fmt.Errorf("resolver membership: %w", err)
	}
	if m == nil || !m.IsActive() {
		return PermissionSet{}, nil
	}
	return r.PermissionsForMembership(ctx, m.ID)
}

// PermissionsForMembership resuelve los permisos de una membership ya conocida.
// La consulta subyacente es un único join deduplicado: una decisión de
// autorización nunca mezcla dos lecturas del estado de roles.
func (r *Resolver) PermissionsForMembership(ctx context.Context, membershipID string) (PermissionSet, error) {
	keys, err := r.roleRepo.PermissionKeysForMembership(ctx, membershipID)
	if err != nil {
		return nil, fmt.Errorf("resolver permisos: %w", err)
	}
	set := make(PermissionSet, len(keys))
	for _, k := range keys {
		set[k] = struct{}{}
	}
	return set, nil
}

// RolesFor devuelve los roles de (user, org); vacío si no hay membership activa.
func (r *Resolver) RolesFor(ctx context.Context, userID, orgID string) ([]*entity.Role, error) {
	m, err := r.membershipRepo.GetByUserAndOrg(ctx, userID, orgID)
	if err != nil {
		return nil, fmt.Errorf("resolver membership: %w", err)
	}
	if m == nil || !m.IsActive() {
		return nil, nil
	}
	return r.roleRepo.ListByMembership(ctx, m.ID)
}
