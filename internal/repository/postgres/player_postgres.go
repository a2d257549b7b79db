package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kabaddi-live/scoring-service/internal/model"
	"github.com/kabaddi-live/scoring-service/internal/repository"
)

type playerRepository struct{ pool *pgxpool.Pool }

func NewPlayerRepository(pool *pgxpool.Pool) repository.PlayerRepository {
	return &playerRepository{pool: pool}
}

func (r *playerRepository) GetByID(ctx context.Context, id int64) (model.Player, error) {
	if err := ensurePool(r.pool); err != nil {
		return model.Player{}, err
	}
	exec := getQ(ctx, r.pool)
	row := exec.QueryRow(ctx,
		`SELECT id, team_id, name, jersey_number, created_at, updated_at FROM players WHERE id = $1`, id)
	var p model.Player
	if err := row.Scan(&p.ID, &p.TeamID, &p.Name, &p.JerseyNumber, &p.CreatedAt, &p.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Player{}, repository.ErrNotFound
		}
		return model.Player{}, repository.MapPgError(err)
	}
	return p, nil
}

func (r *playerRepository) ListByTeam(ctx context.Context, teamID int64) ([]model.Player, error) {
	if err := ensurePool(r.pool); err != nil {
		return nil, err
	}
	exec := getQ(ctx, r.pool)
	rows, err := exec.Query(ctx,
		`SELECT id, team_id, name, jersey_number, created_at, updated_at
		 FROM players WHERE team_id = $1 ORDER BY jersey_number, id`, teamID)
	if err != nil {
		return nil, repository.MapPgError(err)
	}
	defer rows.Close()

	res := make([]model.Player, 0, 12)
	for rows.Next() {
		var p model.Player
		if err := rows.Scan(&p.ID, &p.TeamID, &p.Name, &p.JerseyNumber, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, repository.MapPgError(err)
		}
		res = append(res, p)
	}
	return res, rows.Err()
}

var _ repository.PlayerRepository = (*playerRepository)(nil)
