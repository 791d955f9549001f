package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tu-usuario/suite-pro/internal/application/subscription"
	"github.com/tu-usuario/suite-pro/internal/application/usecase"
	"github.com/tu-usuario/suite-pro/internal/domain/repository"
)

// Ensure TxRunner implements usecase.IdentityTxRunner and subscription.TxRunner.
var _ usecase.IdentityTxRunner = (*TxRunner)(nil)
var _ subscription.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// RunIdentity inicia una transacción con los repos del dominio de identidad
// (altas de organización, invitaciones, cupos) y hace Commit o Rollback.
func (r *TxRunner) RunIdentity(ctx context.Context, fn func(
	orgRepo repository.OrganizationRepository,
	userRepo repository.UserRepository,
	membershipRepo repository.MembershipRepository,
	roleRepo repository.RoleRepository,
	employeeRepo repository.EmployeeRepository,
	omRepo repository.OrgModuleRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	orgRepo := NewOrganizationRepository(tx)
	userRepo := NewUserRepository(tx)
	membershipRepo := NewMembershipRepository(tx)
	roleRepo := NewRoleRepository(tx)
	employeeRepo := NewEmployeeRepository(tx)
	omRepo := NewOrgModuleRepository(tx)

	if err := fn(orgRepo, userRepo, membershipRepo, roleRepo, employeeRepo, omRepo); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// RunAssignment inicia una transacción con los repos del motor de asignación
// (suscripciones, bundles, pagos) y hace Commit o Rollback.
func (r *TxRunner) RunAssignment(ctx context.Context, fn func(
	orgRepo repository.OrganizationRepository,
	membershipRepo repository.MembershipRepository,
	employeeRepo repository.EmployeeRepository,
	omRepo repository.OrgModuleRepository,
	subRepo repository.SubscriptionRepository,
	payRepo repository.PaymentRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	orgRepo := NewOrganizationRepository(tx)
	membershipRepo := NewMembershipRepository(tx)
	employeeRepo := NewEmployeeRepository(tx)
	omRepo := NewOrgModuleRepository(tx)
	subRepo := NewSubscriptionRepository(tx)
	payRepo := NewPaymentRepository(tx)

	if err := fn(orgRepo, membershipRepo, employeeRepo, omRepo, subRepo, payRepo); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
