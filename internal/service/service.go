// Package service holds business logic orchestration across repositories and handlers.
// Kept intentionally lean: only use-case coordination, validation and domain error shaping.
package service

import (
	"context"
	"errors"

	"github.com/kabaddi-live/scoring-service/internal/model"
	"github.com/kabaddi-live/scoring-service/internal/replay"
	"github.com/kabaddi-live/scoring-service/internal/repository"
	"github.com/kabaddi-live/scoring-service/internal/rules"
)

// ErrInvalidInput is the marker error for aggregated validation failures (maps to HTTP 400).
// Field-level details are retrieved via FieldErrors(err).
var ErrInvalidInput = errors.New("invalid input")

// FieldError describes a single invalid field in a client request.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// invalidInputError aggregates multiple FieldError instances and unwraps to ErrInvalidInput.
type invalidInputError struct {
	fields []FieldError
}

func (e *invalidInputError) Error() string        { return ErrInvalidInput.Error() }
func (e *invalidInputError) Unwrap() error        { return ErrInvalidInput }
func (e *invalidInputError) Fields() []FieldError { return e.fields }

// NewInvalidInputError builds an aggregated validation error if any field errors are present.
func NewInvalidInputError(fe []FieldError) error {
	if len(fe) == 0 { // protective case
		return nil
	}
	return &invalidInputError{fields: fe}
}

// FieldErrors extracts field errors from an aggregated validation error.
func FieldErrors(err error) []FieldError {
	if err == nil {
		return nil
	}
	type feIface interface{ Fields() []FieldError }
	if v, ok := err.(feIface); ok && errors.Is(err, ErrInvalidInput) {
		return v.Fields()
	}
	return nil
}

// TimelineEntry is an event plus its presentation label for the play feed.
type TimelineEntry struct {
	model.MatchEvent
	Label string `json:"label"`
}

// MatchService defines the live-scoring use cases: the raid lifecycle, the
// event timeline, and reconstruction-backed reads.
type MatchService interface {
	GetMatch(ctx context.Context, id int64) (model.Match, error)
	ListMatches(ctx context.Context, page repository.Page) (repository.PageResult[model.Match], error)
	// Snapshot re-runs full reconstruction over the complete log. Called on
	// every read; a change notification never carries trusted state.
	Snapshot(ctx context.Context, matchID int64) (replay.Snapshot, error)
	Timeline(ctx context.Context, matchID int64) ([]TimelineEntry, error)

	StartRaid(ctx context.Context, matchID, raiderID int64) (model.MatchEvent, error)
	CancelRaid(ctx context.Context, matchID int64) error
	ResolveRaid(ctx context.Context, matchID int64, action model.RaidAction) (rules.Result, error)
	ConfirmRaid(ctx context.Context, matchID int64) (model.MatchEvent, error)
	TechnicalPoint(ctx context.Context, matchID, teamID int64, points int) (model.MatchEvent, error)
	Timeout(ctx context.Context, matchID, teamID int64) (model.MatchEvent, error)
	Undo(ctx context.Context, matchID int64) error
	Redo(ctx context.Context, matchID int64) error
}

// TeamService serves the read-only team and roster surfaces. Team and player
// management is an external concern; the scoring service only reads them.
type TeamService interface {
	GetTeam(ctx context.Context, id int64) (model.Team, error)
	ListTeams(ctx context.Context, page repository.Page) (repository.PageResult[model.Team], error)
	TeamRoster(ctx context.Context, teamID int64) ([]model.Player, error)
	GetPlayer(ctx context.Context, id int64) (model.Player, error)
}

// ShootoutService drives the tie-breaker setup wizard and the fixed raid
// sequence that follows it.
type ShootoutService interface {
	Begin(ctx context.Context, matchID int64) error
	TogglePlayer(ctx context.Context, matchID, playerID int64) error
	ToggleRaider(ctx context.Context, matchID, playerID int64) error
	Advance(ctx context.Context, matchID int64) (string, error)
	Toss(ctx context.Context, matchID int64) (int64, error)
	Choose(ctx context.Context, matchID int64, raidFirst bool) (model.ShootoutSetup, error)
	RecordRaid(ctx context.Context, matchID int64, points int) error
	State(ctx context.Context, matchID int64) (ShootoutState, error)
}

// ShootoutState is the read model for the tie-breaker surfaces.
type ShootoutState struct {
	Step    string               `json:"step"`
	Setup   *model.ShootoutSetup `json:"setup,omitempty"`
	Raids   []ShootoutRaidView   `json:"raids,omitempty"`
	Scores  map[int64]int        `json:"scores,omitempty"`
	NextUp  *ShootoutRaidView    `json:"next_up,omitempty"`
	Started bool                 `json:"started"`
}

// ShootoutRaidView mirrors one entry of the fixed raid order.
type ShootoutRaidView struct {
	TeamID   int64 `json:"team_id"`
	RaiderID int64 `json:"raider_id"`
	Points   int   `json:"points"`
	Done     bool  `json:"done"`
}
