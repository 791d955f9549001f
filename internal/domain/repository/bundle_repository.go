package repository

import (
	"context"

	"github.com/tu-usuario/suite-pro/internal/domain/entity"
)

// BundleRepository define el puerto de lectura de bundles y sus módulos.
type BundleRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Bundle, error)
	List(ctx context.Context) ([]*entity.Bundle, error)
	ListModules(ctx context.Context, bundleID string) ([]*entity.BundleModule, error)
}
