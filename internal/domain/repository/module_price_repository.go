package repository

import (
	"context"

	"github.com/tu-usuario/suite-pro/internal/domain/entity"
)

// ModulePriceRepository define el puerto de la lista de precios. El motor de
// asignación solo la lee; Create existe para administración del catálogo y debe
// devolver domain.ErrDuplicate ante una tripla (módulo, plan, período) repetida.
type ModulePriceRepository interface {
	Get(ctx context.Context, moduleID, plan, billingPeriod string) (*entity.ModulePrice, error)
	ListByModule(ctx context.Context, moduleID string) ([]*entity.ModulePrice, error)
	Create(ctx context.Context, price *entity.ModulePrice) error
}
