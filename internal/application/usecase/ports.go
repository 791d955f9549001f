package usecase

import (
	"context"

	"github.com/tu-usuario/suite-pro/internal/domain/repository"
)

// IdentityTxRunner ejecuta una función dentro de una transacción con los
// repositorios de identidad atados a esa tx. Lo usan el alta de organización
// (org + owner + membership + rol + siembra de módulos) y los flujos con
// chequeo de cupo (invitar miembro, crear empleados): el chequeo y la escritura
// que incrementa el conteo deben compartir transacción para que el cupo se
// sostenga bajo concurrencia.
type IdentityTxRunner interface {
	RunIdentity(ctx context.Context, fn func(
		orgRepo repository.OrganizationRepository,
		userRepo repository.UserRepository,
		membershipRepo repository.MembershipRepository,
		roleRepo repository.RoleRepository,
		employeeRepo repository.EmployeeRepository,
		omRepo repository.OrgModuleRepository,
	) error) error
}

// Notifier es el despachador de notificaciones (email). Fire-and-forget: la
// implementación loguea fallos y nunca bloquea ni hace fallar la operación
// principal.
type Notifier interface {
	Send(ctx context.Context, to, subject, body string)
}
