package postgres

import (
	"context"
	"fmt"

	"github.com/tu-usuario/suite-pro/internal/domain/entity"
	"github.com/tu-usuario/suite-pro/internal/domain/repository"
)

var _ repository.ModuleRepository = (*ModuleRepo)(nil)

// ModuleRepo implementación del catálogo global de módulos sobre PostgreSQL.
type ModuleRepo struct {
	q Querier
}

// NewModuleRepository construye el adaptador. Pasar pool o tx (Querier).
func NewModuleRepository(q Querier) *ModuleRepo {
	return &ModuleRepo{q: q}
}

// GetByID obtiene un módulo del catálogo por ID.
func (r *ModuleRepo) GetByID(ctx context.Context, id string) (*entity.Module, error) {
	query := `SELECT id, key, name, is_active, created_at FROM modules WHERE id = $1`
	var m entity.Module
	err := r.q.QueryRow(ctx, query, id).Scan(&m.ID, &m.Key, &m.Name, &m.IsActive, &m.CreatedAt)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get module: %w", err)
	}
	return &m, nil
}

// GetByKey obtiene un módulo del catálogo por key ("hr", "ticketing", ...).
func (r *ModuleRepo) GetByKey(ctx context.Context, key string) (*entity.Module, error) {
	query := `SELECT id, key, name, is_active, created_at FROM modules WHERE key = $1`
	var m entity.Module
	err := r.q.QueryRow(ctx, query, key).Scan(&m.ID, &m.Key, &m.Name, &m.IsActive, &m.CreatedAt)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get module by key: %w", err)
	}
	return &m, nil
}

// ListActive devuelve los módulos con el kill-switch global encendido.
func (r *ModuleRepo) ListActive(ctx context.Context) ([]*entity.Module, error) {
	query := `SELECT id, key, name, is_active, created_at FROM modules WHERE is_active ORDER BY key`
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list active modules: %w", err)
	}
	defer rows.Close()

	var list []*entity.Module
	for rows.Next() {
		var m entity.Module
		if err := rows.Scan(&m.ID, &m.Key, &m.Name, &m.IsActive, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan module: %w", err)
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}
