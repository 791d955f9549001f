package postgres

import (
	"context"
	"fmt"

	"github.com/tu-usuario/suite-pro/internal/domain"
	"github.com/tu-usuario/suite-pro/internal/domain/entity"
	"github.com/tu-usuario/suite-pro/internal/domain/repository"
)

var _ repository.MembershipRepository = (*MembershipRepo)(nil)

// MembershipRepo implementación del puerto MembershipRepository sobre PostgreSQL.
type MembershipRepo struct {
	q Querier
}

// NewMembershipRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMembershipRepository(q Querier) *MembershipRepo {
	return &MembershipRepo{q: q}
}

// Create persiste una nueva membership. El par (user, org) repetido es domain.ErrDuplicate.
func (r *MembershipRepo) Create(ctx context.Context, m *entity.Membership) error {
	query := `
		INSERT INTO memberships (id, user_id, organization_id, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(ctx, query,
		m.ID, m.UserID, m.OrganizationID, m.Status, m.CreatedAt, m.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert membership: %w", err)
	}
	return nil
}

// GetByID obtiene una membership por ID.
func (r *MembershipRepo) GetByID(ctx context.Context, id string) (*entity.Membership, error) {
	query := `
		SELECT id, user_id, organization_id, status, created_at, updated_at
		FROM memberships WHERE id = $1`
	var m entity.Membership
	err := r.q.QueryRow(ctx, query, id).Scan(
		&m.ID, &m.UserID, &m.OrganizationID, &m.Status, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get membership: %w", err)
	}
	return &m, nil
}

// GetByUserAndOrg obtiene la membership del par (user, org).
func (r *MembershipRepo) GetByUserAndOrg(ctx context.Context, userID, orgID string) (*entity.Membership, error) {
	query := `
		SELECT id, user_id, organization_id, status, created_at, updated_at
		FROM memberships WHERE user_id = $1 AND organization_id = $2`
	var m entity.Membership
	err := r.q.QueryRow(ctx, query, userID, orgID).Scan(
		&m.ID, &m.UserID, &m.OrganizationID, &m.Status, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get membership by user and org: %w", err)
	}
	return &m, nil
}

// Update actualiza una membership existente.
func (r *MembershipRepo) Update(ctx context.Context, m *entity.Membership) error {
	query := `
		UPDATE memberships SET status = $2, updated_at = $3
		WHERE id = $1`
	_, err := r.q.Exec(ctx, query, m.ID, m.Status, m.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update membership: %w", err)
	}
	return nil
}

// ListByOrg devuelve memberships de una organización con paginación.
func (r *MembershipRepo) ListByOrg(ctx context.Context, orgID string, limit, offset int) ([]*entity.Membership, error) {
	query := `
		SELECT id, user_id, organization_id, status, created_at, updated_at
		FROM memberships WHERE organization_id = $1
		ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, orgID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list memberships: %w", err)
	}
	defer rows.Close()

	var list []*entity.Membership
	for rows.Next() {
		var m entity.Membership
		if err := rows.Scan(&m.ID, &m.UserID, &m.OrganizationID, &m.Status, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan membership: %w", err)
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}

// ListActiveByUser devuelve las memberships activas de un usuario (selector de organización en login).
func (r *MembershipRepo) ListActiveByUser(ctx context.Context, userID string) ([]*entity.Membership, error) {
	query := `
		SELECT id, user_id, organization_id, status, created_at, updated_at
		FROM memberships WHERE user_id = $1 AND status = 'active'
		ORDER BY created_at`
	rows, err := r.q.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list active memberships by user: %w", err)
	}
	defer rows.Close()

	var list []*entity.Membership
	for rows.Next() {
		var m entity.Membership
		if err := rows.Scan(&m.ID, &m.UserID, &m.OrganizationID, &m.Status, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan membership: %w", err)
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}

// CountActiveByOrg cuenta memberships activas del tenant. Ejecutar dentro de la
// misma tx que bloqueó la fila de la organización para que el cupo sea correcto.
func (r *MembershipRepo) CountActiveByOrg(ctx context.Context, orgID string) (int, error) {
	query := `SELECT count(*) FROM memberships WHERE organization_id = $1 AND status = 'active'`
	var count int
	if err := r.q.QueryRow(ctx, query, orgID).Scan(&count); err != nil {
		return 0, fmt.Errorf("count active memberships: %w", err)
	}
	return count, nil
}
