package authz

import (
	"context"
	"fmt"

	"github.com/tu-usuario/suite-pro/internal/domain"
)

// Actor es el contexto autenticado que entrega el emisor de sesiones por request.
// El motor confía en él y nunca re-verifica credenciales.
type Actor struct {
	UserID         string
	OrganizationID string // vacío para super admins sin tenant
	SuperAdmin     bool
}

// moduleChecker es el contrato mínimo que necesita el Gate para consultar el
// licenciamiento. Lo implementa *entitlement.Service; la interfaz evita el
// import circular y deja el camino de evaluación (con activación perezosa de
// trials) en un solo lugar.
type moduleChecker interface {
	Usable(ctx context.Context, orgID, moduleKey string) (bool, error)
}

// Gate es el chequeo de autorización por request: permiso + licenciamiento.
// Todo request debe pasar por aquí antes de llegar a cualquier handler CRUD.
type Gate struct {
	resolver *Resolver
	modules  moduleChecker
}

// NewGate construye el gate con el resolver y el verificador de módulos.
func NewGate(resolver *Resolver, modules moduleChecker) *Gate {
	return &Gate{resolver: resolver, modules: modules}
}

// Authorize decide el acceso del actor. moduleKey vacío omite el chequeo de
// licenciamiento. Devuelve:
//   - nil si el acceso procede;
//   - domain.ErrUnauthorized si no hay membership activa en la organización;
//   - domain.ErrForbidden si falta el permiso;
//   - domain.ErrModuleUnavailable si el módulo está deshabilitado o vencido
//     (código distinto de Forbidden: el usuario puede tener el permiso y aun
//     así la licencia del tenant estar caída).
//
// Un super admin pasa incondicionalmente, sin consultar permisos ni licencias.
func (g *Gate) Authorize(ctx context.Context, actor Actor, permission, moduleKey string) error {
	if actor.SuperAdmin {
		return nil
	}
	if actor.UserID == "" || actor.OrganizationID == "" {
		return domain.ErrUnauthorized
	}

	m, err := g.resolver.membershipRepo.GetByUserAndOrg(ctx, actor.UserID, actor.OrganizationID)
	if err != nil {
		return fmt.Errorf("gate: %w", err)
	}
	if m == nil || !m.IsActive() {
		return domain.ErrUnauthorized
	}

	if permission != "" {
		perms, err := g.resolver.PermissionsForMembership(ctx, m.ID)
		if err != nil {
			return fmt.Errorf("gate: %w", err)
		}
		// Membership sin roles resuelve conjunto vacío: default-deny.
		if !perms.Has(permission) {
			return domain.ErrForbidden
		}
	}

	if moduleKey != "" {
		usable, err := g.modules.Usable(ctx, actor.OrganizationID, moduleKey)
		if err != nil {
			return fmt.Errorf("gate: verificar módulo %s: %w", moduleKey, err)
		}
		if !usable {
			return domain.ErrModuleUnavailable
		}
	}
	return nil
}
