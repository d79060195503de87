package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/AnkitRegmi1/TruSwap/internal/domain"
)

type GroupRepository struct {
	pool *pgxpool.Pool
}

func NewGroupRepository(pool *pgxpool.Pool) *GroupRepository {
	return &GroupRepository{pool: pool}
}

func (r *GroupRepository) CreateGroup(ctx context.Context, group domain.Group) error {
	const stmt = `
INSERT INTO groups (id, name, description, created_by, creator_name, creator_email, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.pool.Exec(ctx, stmt,
		group.ID,
		group.Name,
		group.Description,
		group.CreatedBy,
		group.CreatorName,
		group.CreatorEmail,
		group.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create group: %w", err)
	}
	return nil
}

func (r *GroupRepository) GetGroup(ctx context.Context, id string) (domain.Group, error) {
	const query = `
SELECT id, name, description, created_by, creator_name, creator_email, created_at
FROM groups
WHERE id = $1`

	var g domain.Group
	err := r.pool.QueryRow(ctx, query, id).
		Scan(&g.ID, &g.Name, &g.Description, &g.CreatedBy, &g.CreatorName, &g.CreatorEmail, &g.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return domain.Group{}, domain.ErrGroupNotFound
		}
		return domain.Group{}, fmt.Errorf("get group: %w", err)
	}
	return g, nil
}

func (r *GroupRepository) ListGroups(ctx context.Context) ([]domain.Group, error) {
	const query = `
SELECT id, name, description, created_by, creator_name, creator_email, created_at
FROM groups
ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list groups: %w", err)
	}
	defer rows.Close()
	return collectGroups(rows)
}

func (r *GroupRepository) ListByCreator(ctx context.Context, createdBy string) ([]domain.Group, error) {
	const query = `
SELECT id, name, description, created_by, creator_name, creator_email, created_at
FROM groups
WHERE created_by = $1
ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, createdBy)
	if err != nil {
		return nil, fmt.Errorf("list groups by creator: %w", err)
	}
	defer rows.Close()
	return collectGroups(rows)
}

func collectGroups(rows pgx.Rows) ([]domain.Group, error) {
	var groups []domain.Group
	for rows.Next() {
		var g domain.Group
		if err := rows.Scan(&g.ID, &g.Name, &g.Description, &g.CreatedBy, &g.CreatorName, &g.CreatorEmail, &g.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan group: %w", err)
		}
		groups = append(groups, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate groups: %w", err)
	}
	return groups, nil
}
