package repository

import (
	"context"

	"github.com/tu-usuario/suite-pro/internal/domain/entity"
)

// SubscriptionRepository define el puerto de persistencia para Subscription.
type SubscriptionRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Subscription, error)
	GetByOrgAndModule(ctx context.Context, orgID, moduleID string) (*entity.Subscription, error)
	// Upsert inserta o reemplaza la suscripción del par (org, módulo): un solo
	// registro vigente gobierna cada OrgModule.
	Upsert(ctx context.Context, sub *entity.Subscription) error
	Update(ctx context.Context, sub *entity.Subscription) error
	ListByOrg(ctx context.Context, orgID string) ([]*entity.Subscription, error)
}
