package repository

import (
	"context"

	"github.com/kabaddi-live/scoring-service/internal/model"
)

// Pinger represents a minimal readiness probe capability.
// I use it to decouple health checks from storage implementation details.
type Pinger interface {
	Ping(ctx context.Context) error
}

// TxFunc is the unit of work executed within a transaction boundary.
// I pass context through so nested calls can honor cancellations and deadlines.
type TxFunc func(ctx context.Context) error

// TxManager abstracts transactional execution for repositories that support it.
// I prefer a single entry point to keep transaction boundaries explicit and testable.
type TxManager interface {
	WithinTx(ctx context.Context, fn TxFunc) error
}

// EventRepository is the append-only event store collaborator. Events are
// immutable once written; the only removal is the scorer's local undo, which
// pops the newest entry and nothing else.
type EventRepository interface {
	Append(ctx context.Context, ev model.MatchEvent) (model.MatchEvent, error)
	// ListByMatch returns the complete event history in insertion order.
	ListByMatch(ctx context.Context, matchID int64) ([]model.MatchEvent, error)
	// DeleteLast removes the newest event of a match, but only if its id
	// still matches eventID; otherwise it returns ErrConflict. This is the
	// guard that makes undo safe against a log that moved on.
	DeleteLast(ctx context.Context, matchID int64, eventID string) error
}

// MatchRepository reads match records and writes back the materialized
// derived state. Status transitions are issued externally and only observed
// here; the engine never completes a match itself.
type MatchRepository interface {
	GetByID(ctx context.Context, id int64) (model.Match, error)
	List(ctx context.Context, p Page) (PageResult[model.Match], error)
	// UpdateDerived overwrites the cached live fields after a confirmed
	// raid. The cache is convenience only: it must always be rebuildable
	// from events alone.
	UpdateDerived(ctx context.Context, m model.Match) error
}

// TeamRepository reads team records. Team management is an external concern.
type TeamRepository interface {
	GetByID(ctx context.Context, id int64) (model.Team, error)
	List(ctx context.Context, p Page) (PageResult[model.Team], error)
}

// PlayerRepository reads roster records. Roster edits are an external concern.
type PlayerRepository interface {
	GetByID(ctx context.Context, id int64) (model.Player, error)
	ListByTeam(ctx context.Context, teamID int64) ([]model.Player, error)
}
