package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/kabaddi-live/scoring-service/internal/engine"
	"github.com/kabaddi-live/scoring-service/internal/model"
	"github.com/kabaddi-live/scoring-service/internal/replay"
	"github.com/kabaddi-live/scoring-service/internal/repository"
	"github.com/kabaddi-live/scoring-service/internal/rules"
)

// now is swapped out in tests that pin the wall clock.
var now = time.Now

type matchService struct {
	matches repository.MatchRepository
	players repository.PlayerRepository
	events  repository.EventRepository
	tx      repository.TxManager
	rules   rules.Config
	rotate  engine.RotationPolicy
	log     zerolog.Logger

	mu       sync.Mutex
	sessions map[int64]*engine.Session
}

// NewMatchService wires the live-scoring use cases. One engine session is
// lazily created per live match and kept for the scorer's undo/redo stack.
func NewMatchService(matches repository.MatchRepository, players repository.PlayerRepository, events repository.EventRepository, tx repository.TxManager, cfg rules.Config, rotate engine.RotationPolicy, logger zerolog.Logger) MatchService {
	l := logger.With().Str("module", "service").Str("component", "match").Logger()
	return &matchService{
		matches:  matches,
		players:  players,
		events:   events,
		tx:       tx,
		rules:    cfg,
		rotate:   rotate,
		log:      l,
		sessions: make(map[int64]*engine.Session),
	}
}

func (s *matchService) GetMatch(ctx context.Context, id int64) (model.Match, error) {
	if id <= 0 {
		return model.Match{}, NewInvalidInputError([]FieldError{{Field: "id", Message: "must be > 0"}})
	}
	return s.matches.GetByID(ctx, id)
}

func (s *matchService) ListMatches(ctx context.Context, page repository.Page) (repository.PageResult[model.Match], error) {
	res, err := s.matches.List(ctx, page.Normalized())
	if err != nil {
		s.log.Error().Err(err).Msg("list matches failed")
		return repository.PageResult[model.Match]{}, err
	}
	return res, nil
}

// Snapshot is the observer path: fetch the whole log, replay it. The same
// pure function the scorer's session uses, so both views always agree.
func (s *matchService) Snapshot(ctx context.Context, matchID int64) (replay.Snapshot, error) {
	m, err := s.GetMatch(ctx, matchID)
	if err != nil {
		return replay.Snapshot{}, err
	}
	events, err := s.events.ListByMatch(ctx, matchID)
	if err != nil {
		return replay.Snapshot{}, err
	}
	return replay.Rebuild(m.TeamAID, m.TeamBID, m.Settings, events, now()), nil
}

func (s *matchService) Timeline(ctx context.Context, matchID int64) ([]TimelineEntry, error) {
	if matchID <= 0 {
		return nil, NewInvalidInputError([]FieldError{{Field: "id", Message: "must be > 0"}})
	}
	events, err := s.events.ListByMatch(ctx, matchID)
	if err != nil {
		return nil, err
	}
	entries := make([]TimelineEntry, 0, len(events))
	for _, ev := range events {
		if ev.Type == model.EventRaidStart {
			// raid_start is timer bookkeeping, not feed material
			continue
		}
		entries = append(entries, TimelineEntry{MatchEvent: ev, Label: replay.Label(ev)})
	}
	return entries, nil
}

func (s *matchService) StartRaid(ctx context.Context, matchID, raiderID int64) (model.MatchEvent, error) {
	sess, err := s.session(ctx, matchID)
	if err != nil {
		return model.MatchEvent{}, err
	}
	ev, err := sess.StartRaid(ctx, raiderID)
	if err != nil {
		return model.MatchEvent{}, mapRulesErr(err)
	}
	return ev, nil
}

func (s *matchService) CancelRaid(ctx context.Context, matchID int64) error {
	sess, err := s.session(ctx, matchID)
	if err != nil {
		return err
	}
	return sess.Cancel()
}

// ResolveRaid walks RAIDING → OUTCOME → CONFIRM in one call: declare the
// outcome type, hand the details to the rules engine, park the result.
func (s *matchService) ResolveRaid(ctx context.Context, matchID int64, action model.RaidAction) (rules.Result, error) {
	sess, err := s.session(ctx, matchID)
	if err != nil {
		return rules.Result{}, err
	}
	if sess.Phase() == engine.PhaseRaiding {
		if err := sess.ChooseOutcome(action.Outcome); err != nil {
			return rules.Result{}, err
		}
	}
	res, err := sess.Compose(action)
	if err != nil {
		return rules.Result{}, mapRulesErr(err)
	}
	return res, nil
}

func (s *matchService) ConfirmRaid(ctx context.Context, matchID int64) (model.MatchEvent, error) {
	sess, err := s.session(ctx, matchID)
	if err != nil {
		return model.MatchEvent{}, err
	}
	return sess.Confirm(ctx)
}

func (s *matchService) TechnicalPoint(ctx context.Context, matchID, teamID int64, points int) (model.MatchEvent, error) {
	if points < 0 {
		return model.MatchEvent{}, NewInvalidInputError([]FieldError{{Field: "points", Message: "must be >= 0"}})
	}
	sess, err := s.session(ctx, matchID)
	if err != nil {
		return model.MatchEvent{}, err
	}
	return sess.Technical(ctx, teamID, points)
}

func (s *matchService) Timeout(ctx context.Context, matchID, teamID int64) (model.MatchEvent, error) {
	sess, err := s.session(ctx, matchID)
	if err != nil {
		return model.MatchEvent{}, err
	}
	ev, err := sess.Timeout(ctx, teamID)
	if err != nil {
		if errors.Is(err, engine.ErrUnknownTeam) {
			return model.MatchEvent{}, NewInvalidInputError([]FieldError{{Field: "team_id", Message: err.Error()}})
		}
		return model.MatchEvent{}, err
	}
	return ev, nil
}

func (s *matchService) Undo(ctx context.Context, matchID int64) error {
	sess, err := s.session(ctx, matchID)
	if err != nil {
		return err
	}
	return sess.Undo(ctx)
}

func (s *matchService) Redo(ctx context.Context, matchID int64) error {
	sess, err := s.session(ctx, matchID)
	if err != nil {
		return err
	}
	return sess.Redo(ctx)
}

// session returns the live session for a match, creating it on first use.
// The match must be live; completed or upcoming matches take no raids.
func (s *matchService) session(ctx context.Context, matchID int64) (*engine.Session, error) {
	if matchID <= 0 {
		return nil, NewInvalidInputError([]FieldError{{Field: "id", Message: "must be > 0"}})
	}
	s.mu.Lock()
	if sess, ok := s.sessions[matchID]; ok {
		s.mu.Unlock()
		return sess, nil
	}
	s.mu.Unlock()

	m, err := s.matches.GetByID(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if m.Status != model.StatusLive {
		return nil, engine.ErrMatchNotLive
	}
	rosterA, err := s.roster(ctx, m.TeamAID)
	if err != nil {
		return nil, err
	}
	rosterB, err := s.roster(ctx, m.TeamBID)
	if err != nil {
		return nil, err
	}
	sess, err := engine.NewSession(ctx, m, rosterA, rosterB, s.events, s.matches, s.tx, s.rules, s.rotate, s.log)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.sessions[matchID]; ok {
		return existing, nil
	}
	s.sessions[matchID] = sess
	return sess, nil
}

func (s *matchService) roster(ctx context.Context, teamID int64) ([]int64, error) {
	players, err := s.players.ListByTeam(ctx, teamID)
	if err != nil {
		return nil, err
	}
	ids := make([]int64, 0, len(players))
	for _, p := range players {
		ids = append(ids, p.ID)
	}
	return ids, nil
}

// mapRulesErr turns rules validation sentinels into field-level messages the
// scorer can act on. Everything else passes through untouched.
func mapRulesErr(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, rules.ErrRaiderUnknown), errors.Is(err, rules.ErrRaiderOut):
		return NewInvalidInputError([]FieldError{{Field: "raider_id", Message: err.Error()}})
	case errors.Is(err, rules.ErrDefenderUnknown), errors.Is(err, rules.ErrDefenderOut), errors.Is(err, rules.ErrDuplicateDefender):
		return NewInvalidInputError([]FieldError{{Field: "defenders_out", Message: err.Error()}})
	case errors.Is(err, rules.ErrTouchMismatch):
		return NewInvalidInputError([]FieldError{{Field: "touch_points", Message: err.Error()}})
	case errors.Is(err, rules.ErrTacklerRequired), errors.Is(err, rules.ErrTacklerUnknown), errors.Is(err, rules.ErrTacklerOut):
		return NewInvalidInputError([]FieldError{{Field: "tackler_id", Message: err.Error()}})
	case errors.Is(err, rules.ErrUnknownOutcome):
		return NewInvalidInputError([]FieldError{{Field: "outcome", Message: err.Error()}})
	default:
		return err
	}
}
