package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kabaddi-live/scoring-service/internal/model"
	"github.com/kabaddi-live/scoring-service/internal/repository"
)

type matchRepository struct{ pool *pgxpool.Pool }

func NewMatchRepository(pool *pgxpool.Pool) repository.MatchRepository {
	return &matchRepository{pool: pool}
}

const matchColumns = `id, team_a_id, team_b_id, status,
	half_duration, number_of_halves, raid_duration, break_duration, timeouts_per_half,
	team_a_score, team_b_score, current_half, raiding_team_id, out_player_ids,
	team_a_empty_raids, team_b_empty_raids, team_a_timeouts, team_b_timeouts,
	created_at, updated_at`

func (r *matchRepository) GetByID(ctx context.Context, id int64) (model.Match, error) {
	if err := ensurePool(r.pool); err != nil {
		return model.Match{}, err
	}
	exec := getQ(ctx, r.pool)
	row := exec.QueryRow(ctx, `SELECT `+matchColumns+` FROM matches WHERE id = $1`, id)
	m, err := scanMatch(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Match{}, repository.ErrNotFound
		}
		return model.Match{}, repository.MapPgError(err)
	}
	return m, nil
}

func (r *matchRepository) List(ctx context.Context, p repository.Page) (repository.PageResult[model.Match], error) {
	if err := ensurePool(r.pool); err != nil {
		return repository.PageResult[model.Match]{}, err
	}
	p = p.Normalized()
	exec := getQ(ctx, r.pool)

	var total int
	if err := exec.QueryRow(ctx, `SELECT COUNT(*) FROM matches`).Scan(&total); err != nil {
		return repository.PageResult[model.Match]{}, repository.MapPgError(err)
	}

	rows, err := exec.Query(ctx,
		`SELECT `+matchColumns+` FROM matches ORDER BY id LIMIT $1 OFFSET $2`, p.Limit, p.Offset)
	if err != nil {
		return repository.PageResult[model.Match]{}, repository.MapPgError(err)
	}
	defer rows.Close()

	items := make([]model.Match, 0, p.Limit)
	for rows.Next() {
		m, err := scanMatch(rows)
		if err != nil {
			return repository.PageResult[model.Match]{}, repository.MapPgError(err)
		}
		items = append(items, m)
	}
	return repository.PageResult[model.Match]{Items: items, Total: total}, rows.Err()
}

// UpdateDerived overwrites the cached live fields. The event log stays the
// source of truth; this write never touches identity or settings columns.
func (r *matchRepository) UpdateDerived(ctx context.Context, m model.Match) error {
	if err := ensurePool(r.pool); err != nil {
		return err
	}
	exec := getQ(ctx, r.pool)
	tag, err := exec.Exec(ctx,
		`UPDATE matches SET
			team_a_score = $2, team_b_score = $3, current_half = $4,
			raiding_team_id = $5, out_player_ids = $6,
			team_a_empty_raids = $7, team_b_empty_raids = $8,
			team_a_timeouts = $9, team_b_timeouts = $10,
			updated_at = NOW()
		 WHERE id = $1`,
		m.ID, m.TeamAScore, m.TeamBScore, m.CurrentHalf,
		m.RaidingTeamID, m.OutPlayerIDs,
		m.TeamAEmpty, m.TeamBEmpty, m.TeamATimeouts, m.TeamBTimeouts,
	)
	if err != nil {
		return repository.MapPgError(err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func scanMatch(row pgx.Row) (model.Match, error) {
	var m model.Match
	err := row.Scan(
		&m.ID, &m.TeamAID, &m.TeamBID, &m.Status,
		&m.Settings.HalfDuration, &m.Settings.NumberOfHalves, &m.Settings.RaidDuration,
		&m.Settings.BreakDuration, &m.Settings.TimeoutsPerHalf,
		&m.TeamAScore, &m.TeamBScore, &m.CurrentHalf, &m.RaidingTeamID, &m.OutPlayerIDs,
		&m.TeamAEmpty, &m.TeamBEmpty, &m.TeamATimeouts, &m.TeamBTimeouts,
		&m.CreatedAt, &m.UpdatedAt,
	)
	return m, err
}

var _ repository.MatchRepository = (*matchRepository)(nil)
