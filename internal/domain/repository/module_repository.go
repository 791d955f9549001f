package repository

import (
	"context"

	"github.com/tu-usuario/suite-pro/internal/domain/entity"
)

// ModuleRepository define el puerto de lectura del catálogo global de módulos.
type ModuleRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Module, error)
	GetByKey(ctx context.Context, key string) (*entity.Module, error)
	ListActive(ctx context.Context) ([]*entity.Module, error)
}
