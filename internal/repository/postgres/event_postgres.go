package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kabaddi-live/scoring-service/internal/model"
	"github.com/kabaddi-live/scoring-service/internal/repository"
)

type eventRepository struct{ pool *pgxpool.Pool }

func NewEventRepository(pool *pgxpool.Pool) repository.EventRepository {
	return &eventRepository{pool: pool}
}

func (r *eventRepository) Append(ctx context.Context, ev model.MatchEvent) (model.MatchEvent, error) {
	if err := ensurePool(r.pool); err != nil {
		return model.MatchEvent{}, err
	}
	payload, err := json.Marshal(ev.Payload)
	if err != nil {
		return model.MatchEvent{}, fmt.Errorf("marshal event payload: %w", err)
	}
	exec := getQ(ctx, r.pool)
	row := exec.QueryRow(ctx,
		`INSERT INTO match_events (id, match_id, type, team_id, player_id, points, payload)
		 VALUES ($1,$2,$3,$4,$5,$6,$7)
		 RETURNING seq, created_at`,
		ev.ID, ev.MatchID, ev.Type, ev.TeamID, ev.PlayerID, ev.Points, payload,
	)
	if err := row.Scan(&ev.Seq, &ev.CreatedAt); err != nil {
		return model.MatchEvent{}, repository.MapPgError(err)
	}
	return ev, nil
}

func (r *eventRepository) ListByMatch(ctx context.Context, matchID int64) ([]model.MatchEvent, error) {
	if err := ensurePool(r.pool); err != nil {
		return nil, err
	}
	exec := getQ(ctx, r.pool)
	rows, err := exec.Query(ctx,
		`SELECT id, match_id, seq, type, team_id, player_id, points, payload, created_at
		 FROM match_events WHERE match_id = $1 ORDER BY seq`, matchID,
	)
	if err != nil {
		return nil, repository.MapPgError(err)
	}
	defer rows.Close()
	res := make([]model.MatchEvent, 0, 64)
	for rows.Next() {
		var it model.MatchEvent
		var payload []byte
		if err := rows.Scan(&it.ID, &it.MatchID, &it.Seq, &it.Type, &it.TeamID, &it.PlayerID, &it.Points, &payload, &it.CreatedAt); err != nil {
			return nil, repository.MapPgError(err)
		}
		if len(payload) > 0 {
			if err := json.Unmarshal(payload, &it.Payload); err != nil {
				return nil, fmt.Errorf("unmarshal event payload: %w", err)
			}
		}
		res = append(res, it)
	}
	return res, rows.Err()
}

// DeleteLast removes the newest event only when its id still matches.
// Anything else means the log moved on and the caller gets ErrConflict.
func (r *eventRepository) DeleteLast(ctx context.Context, matchID int64, eventID string) error {
	if err := ensurePool(r.pool); err != nil {
		return err
	}
	exec := getQ(ctx, r.pool)
	tag, err := exec.Exec(ctx,
		`DELETE FROM match_events
		 WHERE match_id = $1 AND id = $2
		   AND seq = (SELECT MAX(seq) FROM match_events WHERE match_id = $1)`,
		matchID, eventID,
	)
	if err != nil {
		return repository.MapPgError(err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrConflict
	}
	return nil
}

var _ repository.EventRepository = (*eventRepository)(nil)
