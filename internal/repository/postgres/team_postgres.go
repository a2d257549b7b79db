package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kabaddi-live/scoring-service/internal/model"
	"github.com/kabaddi-live/scoring-service/internal/repository"
)

type teamRepository struct{ pool *pgxpool.Pool }

func NewTeamRepository(pool *pgxpool.Pool) repository.TeamRepository {
	return &teamRepository{pool: pool}
}

func (r *teamRepository) GetByID(ctx context.Context, id int64) (model.Team, error) {
	if err := ensurePool(r.pool); err != nil {
		return model.Team{}, err
	}
	exec := getQ(ctx, r.pool)
	row := exec.QueryRow(ctx,
		`SELECT id, name, COALESCE(emblem, ''), created_at, updated_at FROM teams WHERE id = $1`, id)
	var t model.Team
	if err := row.Scan(&t.ID, &t.Name, &t.Emblem, &t.CreatedAt, &t.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Team{}, repository.ErrNotFound
		}
		return model.Team{}, repository.MapPgError(err)
	}
	return t, nil
}

func (r *teamRepository) List(ctx context.Context, p repository.Page) (repository.PageResult[model.Team], error) {
	if err := ensurePool(r.pool); err != nil {
		return repository.PageResult[model.Team]{}, err
	}
	p = p.Normalized()
	exec := getQ(ctx, r.pool)

	var total int
	if err := exec.QueryRow(ctx, `SELECT COUNT(*) FROM teams`).Scan(&total); err != nil {
		return repository.PageResult[model.Team]{}, repository.MapPgError(err)
	}

	rows, err := exec.Query(ctx,
		`SELECT id, name, COALESCE(emblem, ''), created_at, updated_at
		 FROM teams ORDER BY id LIMIT $1 OFFSET $2`, p.Limit, p.Offset)
	if err != nil {
		return repository.PageResult[model.Team]{}, repository.MapPgError(err)
	}
	defer rows.Close()

	items := make([]model.Team, 0, p.Limit)
	for rows.Next() {
		var t model.Team
		if err := rows.Scan(&t.ID, &t.Name, &t.Emblem, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return repository.PageResult[model.Team]{}, repository.MapPgError(err)
		}
		items = append(items, t)
	}
	return repository.PageResult[model.Team]{Items: items, Total: total}, rows.Err()
}

var _ repository.TeamRepository = (*teamRepository)(nil)
