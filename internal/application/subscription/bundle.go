package subscription

import (
	"context"
	"fmt"

	"github.com/tu-usuario/suite-pro/internal/domain"
	"github.com/tu-usuario/suite-pro/internal/domain/entity"
	"github.com/tu-usuario/suite-pro/internal/domain/repository"
)

// AssignBundle asigna (o desasigna, con bundleID nil) un bundle a la
// organización. La asignación es todo-o-nada: caps + current_bundle_id + el
// fan-out de OrgModules van en una transacción. Los cupos prospectivos son los
// del bundle cuando no son nil, si no los actuales de la organización; si el
// cupo prospectivo queda por debajo del conteo activo, la operación se rechaza
// con LimitViolationError sin aplicar nada.
//
// Desasignar solo limpia current_bundle_id: no revoca entitlements ya otorgados
// ni restaura cupos.
func (e *Engine) AssignBundle(ctx context.Context, orgID string, bundleID *string) (*entity.Organization, error) {
	if bundleID == nil {
		return e.unassignBundle(ctx, orgID)
	}

	bundle, err := e.bundleRepo.GetByID(ctx, *bundleID)
	if err != nil {
		return nil, err
	}
	if bundle == nil {
		return nil, domain.ErrNotFound
	}
	if !bundle.IsActive {
		return nil, fmt.Errorf("%w: el bundle %s no está activo", domain.ErrConflict, bundle.Key)
	}
	bundleModules, err := e.bundleRepo.ListModules(ctx, bundle.ID)
	if err != nil {
		return nil, err
	}

	var out *entity.Organization
	err = e.tx.RunAssignment(ctx, func(
		orgRepo repository.OrganizationRepository,
		membershipRepo repository.MembershipRepository,
		employeeRepo repository.EmployeeRepository,
		omRepo repository.OrgModuleRepository,
		_ repository.SubscriptionRepository,
		_ repository.PaymentRepository,
	) error {
		// El lock de la fila serializa este chequeo con cualquier alta de
		// membership/empleado concurrente sobre el mismo tenant.
		org, err := orgRepo.GetByIDForUpdate(ctx, orgID)
		if err != nil {
			return err
		}
		if org == nil {
			return domain.ErrNotFound
		}

		maxUsers := coalesce(bundle.MaxUsers, org.MaxUsers)
		maxEmployees := coalesce(bundle.MaxEmployees, org.MaxEmployees)

		if maxUsers != nil {
			count, err := membershipRepo.CountActiveByOrg(ctx, orgID)
			if err != nil {
				return err
			}
			if count > *maxUsers {
				return &domain.LimitViolationError{Resource: domain.LimitResourceUsers, Current: count, Cap: *maxUsers}
			}
		}
		if maxEmployees != nil {
			count, err := employeeRepo.CountActiveByOrg(ctx, orgID)
			if err != nil {
				return err
			}
			if count > *maxEmployees {
				return &domain.LimitViolationError{Resource: domain.LimitResourceEmployees, Current: count, Cap: *maxEmployees}
			}
		}

		org.CurrentBundleID = &bundle.ID
		org.MaxUsers = maxUsers
		org.MaxEmployees = maxEmployees
		org.UpdatedAt = e.now()
		if err := orgRepo.Update(ctx, org); err != nil {
			return err
		}

		for _, bm := range bundleModules {
			if err := omRepo.ApplyPlan(ctx, orgID, bm.ModuleID, bm.Plan); err != nil {
				return fmt.Errorf("aplicar módulo %s del bundle: %w", bm.ModuleID, err)
			}
		}
		out = org
		return nil
	})
	if err != nil {
		return nil, err
	}
	e.log.Info().
		Str("org_id", orgID).
		Str("bundle", bundle.Key).
		Int("modules", len(bundleModules)).
		Msg("bundle asignado")
	return out, nil
}

func (e *Engine) unassignBundle(ctx context.Context, orgID string) (*entity.Organization, error) {
	var out *entity.Organization
	err := e.tx.RunAssignment(ctx, func(
		orgRepo repository.OrganizationRepository,
		_ repository.MembershipRepository,
		_ repository.EmployeeRepository,
		_ repository.OrgModuleRepository,
		_ repository.SubscriptionRepository,
		_ repository.PaymentRepository,
	) error {
		org, err := orgRepo.GetByIDForUpdate(ctx, orgID)
		if err != nil {
			return err
		}
		if org == nil {
			return domain.ErrNotFound
		}
		org.CurrentBundleID = nil
		org.UpdatedAt = e.now()
		if err := orgRepo.Update(ctx, org); err != nil {
			return err
		}
		out = org
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ExtendTrial extiende el trial de TODOS los módulos habilitados de la
// organización a now+days, y fija plan "trial" donde no haya plan. Aplica en
// una sola transacción: si una actualización falla, ninguna queda. Devuelve
// cuántos módulos se extendieron.
func (e *Engine) ExtendTrial(ctx context.Context, orgID string, days int) (int, error) {
	if days <= 0 {
		return 0, fmt.Errorf("%w: days debe ser positivo", domain.ErrInvalidInput)
	}
	now := e.now()
	trialEnd := now.AddDate(0, 0, days)

	extended := 0
	err := e.tx.RunAssignment(ctx, func(
		_ repository.OrganizationRepository,
		_ repository.MembershipRepository,
		_ repository.EmployeeRepository,
		omRepo repository.OrgModuleRepository,
		_ repository.SubscriptionRepository,
		_ repository.PaymentRepository,
	) error {
		oms, err := omRepo.ListByOrg(ctx, orgID)
		if err != nil {
			return err
		}
		for _, om := range oms {
			if !om.IsEnabled {
				continue
			}
			end := trialEnd
			om.TrialEndsAt = &end
			if om.Plan == "" {
				om.Plan = entity.PlanTrial
			}
			om.UpdatedAt = now
			if err := omRepo.Upsert(ctx, om); err != nil {
				return fmt.Errorf("extender trial del módulo %s: %w", om.ModuleID, err)
			}
			extended++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	e.log.Info().Str("org_id", orgID).Int("modules", extended).Int("days", days).Msg("trial extendido")
	return extended, nil
}

// coalesce devuelve override si no es nil, si no current (regla de cupos de
// bundle: el override del bundle pisa al de la organización).
func coalesce(override, current *int) *int {
	if override != nil {
		return override
	}
	return current
}
