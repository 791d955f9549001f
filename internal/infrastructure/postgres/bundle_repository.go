package postgres

import (
	"context"
	"fmt"

	"github.com/tu-usuario/suite-pro/internal/domain/entity"
	"github.com/tu-usuario/suite-pro/internal/domain/repository"
)

var _ repository.BundleRepository = (*BundleRepo)(nil)

// BundleRepo implementación de lectura de bundles sobre PostgreSQL.
type BundleRepo struct {
	q Querier
}

// NewBundleRepository construye el adaptador. Pasar pool o tx (Querier).
func NewBundleRepository(q Querier) *BundleRepo {
	return &BundleRepo{q: q}
}

// GetByID obtiene un bundle por ID.
func (r *BundleRepo) GetByID(ctx context.Context, id string) (*entity.Bundle, error) {
	query := `
		SELECT id, key, name, is_active, max_users, max_employees, created_at
		FROM bundles WHERE id = $1`
	var b entity.Bundle
	err := r.q.QueryRow(ctx, query, id).Scan(
		&b.ID, &b.Key, &b.Name, &b.IsActive, &b.MaxUsers, &b.MaxEmployees, &b.CreatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get bundle: %w", err)
	}
	return &b, nil
}

// List devuelve todos los bundles.
func (r *BundleRepo) List(ctx context.Context) ([]*entity.Bundle, error) {
	query := `
		SELECT id, key, name, is_active, max_users, max_employees, created_at
		FROM bundles ORDER BY key`
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list bundles: %w", err)
	}
	defer rows.Close()

	var list []*entity.Bundle
	for rows.Next() {
		var b entity.Bundle
		if err := rows.Scan(&b.ID, &b.Key, &b.Name, &b.IsActive, &b.MaxUsers, &b.MaxEmployees, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan bundle: %w", err)
		}
		list = append(list, &b)
	}
	return list, rows.Err()
}

// ListModules devuelve las entradas (módulo, plan) de un bundle.
func (r *BundleRepo) ListModules(ctx context.Context, bundleID string) ([]*entity.BundleModule, error) {
	query := `SELECT bundle_id, module_id, plan FROM bundle_modules WHERE bundle_id = $1`
	rows, err := r.q.Query(ctx, query, bundleID)
	if err != nil {
		return nil, fmt.Errorf("list bundle modules: %w", err)
	}
	defer rows.Close()

	var list []*entity.BundleModule
	for rows.Next() {
		var bm entity.BundleModule
		if err := rows.Scan(&bm.BundleID, &bm.ModuleID, &bm.Plan); err != nil {
			return nil, fmt.Errorf("scan bundle module: %w", err)
		}
		list = append(list, &bm)
	}
	return list, rows.Err()
}
