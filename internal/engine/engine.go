// Package engine drives the raid lifecycle for one live match: raider
// selection, outcome capture, confirmation, undo/redo, and the tie-breaker
// setup wizard. All mutation is expressed as appending one event at a time;
// derived state always comes from replaying the log, never from in-place
// bookkeeping, so the scorer and every spectator agree by construction.
package engine

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/kabaddi-live/scoring-service/internal/model"
	"github.com/kabaddi-live/scoring-service/internal/replay"
	"github.com/kabaddi-live/scoring-service/internal/repository"
	"github.com/kabaddi-live/scoring-service/internal/rules"
)

// Phase is the raid state machine position.
type Phase string

const (
	PhaseIdle    Phase = "idle"    // no raider chosen
	PhaseRaiding Phase = "raiding" // raider chosen, raid_start appended, timer running
	PhaseOutcome Phase = "outcome" // scorer composing the result
	PhaseConfirm Phase = "confirm" // result computed, awaiting final submit
)

// RotationPolicy decides whose turn follows a confirmed raid. The rulebook
// observation is that turns always alternate; the shootout fixes its own
// order, so the policy stays configurable rather than hard-coded.
type RotationPolicy string

const (
	RotateAlternate RotationPolicy = "alternate" // turn flips after every raid
	RotateFixed     RotationPolicy = "fixed"     // order is imposed externally
)

// Session is the scorer's handle on one live match. Single-writer per match:
// external authorization guarantees only the assigned scorer drives it, the
// mutex only protects against accidental concurrent HTTP calls.
type Session struct {
	log      zerolog.Logger
	rules    rules.Config
	rotation RotationPolicy
	events   repository.EventRepository
	matches  repository.MatchRepository
	tx       repository.TxManager
	clock    func() time.Time

	match   model.Match
	rosterA []int64
	rosterB []int64

	mu      sync.Mutex
	phase   Phase
	raider  int64
	action  model.RaidAction
	pending *rules.Result
	history []model.MatchEvent
	redo    []model.MatchEvent
}

// NewSession builds a session over an already-fetched match record and
// rosters, replaying the existing log so a reconnecting scorer resumes
// exactly where the events left off.
func NewSession(ctx context.Context, m model.Match, rosterA, rosterB []int64, events repository.EventRepository, matches repository.MatchRepository, tx repository.TxManager, cfg rules.Config, rotation RotationPolicy, logger zerolog.Logger) (*Session, error) {
	history, err := events.ListByMatch(ctx, m.ID)
	if err != nil {
		return nil, err
	}
	if rotation == "" {
		rotation = RotateAlternate
	}
	s := &Session{
		log:      logger.With().Str("module", "engine").Int64("match_id", m.ID).Logger(),
		rules:    cfg,
		rotation: rotation,
		events:   events,
		matches:  matches,
		tx:       tx,
		clock:    time.Now,
		match:    m,
		rosterA:  rosterA,
		rosterB:  rosterB,
		phase:    PhaseIdle,
		history:  history,
	}
	// Timer recovery: a dangling raid_start at the log tail means the raid
	// never resolved before the reload; pick it back up mid-raid.
	if snap := s.rebuild(); snap.Clock.InProgress {
		s.phase = PhaseRaiding
		s.raider = snap.Clock.RaiderID
	}
	return s, nil
}

// WithClock replaces the wall-clock source, for tests.
func (s *Session) WithClock(now func() time.Time) *Session {
	s.clock = now
	return s
}

// Phase returns the current state machine position.
func (s *Session) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

// Snapshot materializes the current derived state from the local log copy.
func (s *Session) Snapshot() replay.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rebuild()
}

func (s *Session) rebuild() replay.Snapshot {
	return replay.Rebuild(s.match.TeamAID, s.match.TeamBID, s.match.Settings, s.history, s.clock())
}

// RaidingTeam derives whose turn it is from the last raid in the log and
// the rotation policy. Before the first raid it is the match record's pick.
func (s *Session) RaidingTeam() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.raidingTeamLocked(s.rebuild())
}

func (s *Session) raidingTeamLocked(snap replay.Snapshot) int64 {
	last := snap.LastRaidTeamID
	if last == 0 {
		return s.match.RaidingTeamID
	}
	if snap.Clock.InProgress {
		// mid-raid the turn belongs to whoever started it
		return last
	}
	if s.rotation == RotateFixed {
		return last
	}
	if last == s.match.TeamAID {
		return s.match.TeamBID
	}
	return s.match.TeamAID
}

// StartRaid selects a raider and opens the raid window. Appends a
// raid_start event carrying the configured raid duration.
func (s *Session) StartRaid(ctx context.Context, raiderID int64) (model.MatchEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.match.Status != model.StatusLive {
		return model.MatchEvent{}, ErrMatchNotLive
	}
	if s.phase != PhaseIdle {
		return model.MatchEvent{}, ErrBadTransition
	}
	snap := s.rebuild()
	team := s.raidingTeamLocked(snap)
	if !contains(s.roster(team), raiderID) {
		return model.MatchEvent{}, rules.ErrRaiderUnknown
	}
	if snap.Out(raiderID) {
		return model.MatchEvent{}, rules.ErrRaiderOut
	}

	ev := model.MatchEvent{
		ID:      uuid.NewString(),
		MatchID: s.match.ID,
		Type:    model.EventRaidStart,
		TeamID:  team,
		PlayerID: func() *int64 {
			id := raiderID
			return &id
		}(),
		Payload: model.EventPayload{
			RaiderID:     raiderID,
			Half:         snap.CurrentHalf,
			RaidDuration: s.match.Settings.RaidDuration,
		},
		CreatedAt: s.clock(),
	}
	stored, err := s.events.Append(ctx, ev)
	if err != nil {
		s.log.Error().Err(err).Int64("raider_id", raiderID).Msg("append raid_start failed")
		return model.MatchEvent{}, err
	}
	s.history = append(s.history, stored)
	s.redo = nil
	s.phase = PhaseRaiding
	s.raider = raiderID
	s.log.Info().Int64("raider_id", raiderID).Int64("team_id", team).Msg("raid started")
	return stored, nil
}

// Cancel discards an in-progress raid without a scoring event. The dangling
// raid_start is tolerated by reconstruction and superseded by whatever
// lands in the log next.
func (s *Session) Cancel() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase != PhaseRaiding && s.phase != PhaseOutcome {
		return ErrBadTransition
	}
	s.phase = PhaseIdle
	s.raider = 0
	s.pending = nil
	s.log.Info().Msg("raid cancelled")
	return nil
}

// ChooseOutcome moves RAIDING to OUTCOME. When the raid window has already
// expired the choice is forced to empty, matching the automatic transition.
func (s *Session) ChooseOutcome(outcome model.RaidOutcome) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase != PhaseRaiding {
		return ErrBadTransition
	}
	if s.expiredLocked() {
		outcome = model.OutcomeEmpty
	}
	s.action = model.RaidAction{RaiderID: s.raider, Outcome: outcome}
	s.phase = PhaseOutcome
	return nil
}

// Compose supplies the outcome detail, runs the rules engine, and parks the
// computed result for confirmation. Validation errors leave the phase as-is
// so the scorer can correct the selection.
func (s *Session) Compose(action model.RaidAction) (rules.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase != PhaseOutcome {
		return rules.Result{}, ErrBadTransition
	}
	action.RaiderID = s.raider
	if action.Outcome == "" {
		action.Outcome = s.action.Outcome
	}
	// An expired window allows no claimed outcome, whatever the scorer sends.
	if s.expiredLocked() {
		action.Outcome = model.OutcomeEmpty
	}

	snap := s.rebuild()
	team := s.raidTeamOfCurrent(snap)
	rc := rules.RaidContext{
		RaidingTeamID:   team,
		DefendingTeamID: s.other(team),
		Raiders:         s.roster(team),
		Defenders:       s.roster(s.other(team)),
		Out:             snap.OutSet(),
		EmptyRaids:      snap.EmptyRaids[team],
	}
	res, err := rules.Resolve(s.rules, rc, action)
	if err != nil {
		return rules.Result{}, err
	}
	s.action = action
	s.pending = &res
	s.phase = PhaseConfirm
	return res, nil
}

// Confirm appends the scoring event, hands the turn over per the rotation
// policy, writes the materialized state back to the match record cache, and
// returns to IDLE.
func (s *Session) Confirm(ctx context.Context) (model.MatchEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase != PhaseConfirm || s.pending == nil {
		return model.MatchEvent{}, ErrBadTransition
	}
	res := *s.pending
	snap := s.rebuild()

	ev := model.MatchEvent{
		ID:       uuid.NewString(),
		MatchID:  s.match.ID,
		Type:     res.EventType,
		TeamID:   res.ScoringTeamID,
		PlayerID: res.PlayerID,
		Points:   res.Points,
		Payload: model.EventPayload{
			RaiderID:     s.action.RaiderID,
			TouchPoints:  res.TouchPoints,
			BonusPoint:   res.BonusPoint,
			DefendersOut: s.action.DefendersOut,
			RaiderOut:    res.RaiderOut,
			DoOrDie:      res.DoOrDie,
			RevivedIDs:   res.Revived,
			Half:         snap.CurrentHalf,
			RaidDuration: s.match.Settings.RaidDuration,
		},
		CreatedAt: s.clock(),
	}
	if res.EventType == model.EventTackle && res.PlayerID != nil {
		ev.Payload.TacklerID = *res.PlayerID
	}

	stored, err := s.appendAndCache(ctx, ev)
	if err != nil {
		s.log.Error().Err(err).Str("event_type", string(res.EventType)).Msg("append scoring event failed")
		return model.MatchEvent{}, err
	}
	s.redo = nil
	s.phase = PhaseIdle
	s.raider = 0
	s.pending = nil
	s.action = model.RaidAction{}

	s.log.Info().
		Str("event_type", string(stored.Type)).
		Int("points", stored.Points).
		Int64("team_id", stored.TeamID).
		Msg("raid confirmed")
	return stored, nil
}

// Technical records a direct point to either team while IDLE. It changes no
// raider selection, no turn, no empty-raid counter.
func (s *Session) Technical(ctx context.Context, teamID int64, points int) (model.MatchEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.match.Status != model.StatusLive {
		return model.MatchEvent{}, ErrMatchNotLive
	}
	if s.phase != PhaseIdle {
		return model.MatchEvent{}, ErrBadTransition
	}
	res := rules.Technical(teamID, points)
	snap := s.rebuild()
	ev := model.MatchEvent{
		ID:      uuid.NewString(),
		MatchID: s.match.ID,
		Type:    model.EventTechnical,
		TeamID:  teamID,
		Points:  res.Points,
		Payload: model.EventPayload{
			Half: snap.CurrentHalf,
		},
		CreatedAt: s.clock(),
	}
	stored, err := s.appendAndCache(ctx, ev)
	if err != nil {
		return model.MatchEvent{}, err
	}
	s.redo = nil
	return stored, nil
}

// Timeout records a team timeout while IDLE. Each side gets
// Settings.TimeoutsPerHalf per half; the allowance resets at the break.
func (s *Session) Timeout(ctx context.Context, teamID int64) (model.MatchEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.match.Status != model.StatusLive {
		return model.MatchEvent{}, ErrMatchNotLive
	}
	if s.phase != PhaseIdle {
		return model.MatchEvent{}, ErrBadTransition
	}
	if teamID != s.match.TeamAID && teamID != s.match.TeamBID {
		return model.MatchEvent{}, ErrUnknownTeam
	}
	snap := s.rebuild()
	if limit := s.match.Settings.TimeoutsPerHalf; limit > 0 && snap.Timeouts[teamID] >= limit {
		return model.MatchEvent{}, ErrTimeoutsExhausted
	}
	ev := model.MatchEvent{
		ID:      uuid.NewString(),
		MatchID: s.match.ID,
		Type:    model.EventTimeout,
		TeamID:  teamID,
		Payload: model.EventPayload{
			Half: snap.CurrentHalf,
		},
		CreatedAt: s.clock(),
	}
	stored, err := s.appendAndCache(ctx, ev)
	if err != nil {
		return model.MatchEvent{}, err
	}
	s.redo = nil
	s.log.Info().Int64("team_id", teamID).Int("half", snap.CurrentHalf).Msg("timeout recorded")
	return stored, nil
}

// Undo pops the newest event from the log; derived state follows by replay.
// Local to this scorer's session until the next forward action.
func (s *Session) Undo(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase != PhaseIdle {
		return ErrBadTransition
	}
	if len(s.history) == 0 {
		return ErrNothingToUndo
	}
	last := s.history[len(s.history)-1]
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.events.DeleteLast(ctx, s.match.ID, last.ID); err != nil {
			return err
		}
		return s.matches.UpdateDerived(ctx, s.deriveMatch(s.history[:len(s.history)-1]))
	})
	if err != nil {
		return err
	}
	s.history = s.history[:len(s.history)-1]
	s.redo = append(s.redo, last)
	s.log.Info().Str("event_id", last.ID).Str("event_type", string(last.Type)).Msg("event undone")
	return nil
}

// Redo re-appends the most recently undone event. It refuses with
// ErrRedoConflict if the log advanced since the undo.
func (s *Session) Redo(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase != PhaseIdle {
		return ErrBadTransition
	}
	if len(s.redo) == 0 {
		return ErrNothingToRedo
	}

	current, err := s.events.ListByMatch(ctx, s.match.ID)
	if err != nil {
		return err
	}
	if tailDiverged(current, s.history) {
		s.history = current
		s.redo = nil
		return ErrRedoConflict
	}

	ev := s.redo[len(s.redo)-1]
	stored, err := s.appendAndCache(ctx, ev)
	if err != nil {
		return err
	}
	s.redo = s.redo[:len(s.redo)-1]
	s.log.Info().Str("event_id", stored.ID).Msg("event redone")
	return nil
}

// Resync replaces the local log copy with the store's, used when a push
// notification says something changed for this match.
func (s *Session) Resync(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	history, err := s.events.ListByMatch(ctx, s.match.ID)
	if err != nil {
		return err
	}
	s.history = history
	return nil
}

// RaidRemaining reports seconds left in the current raid window, derived
// from the raid_start timestamp and the wall clock.
func (s *Session) RaidRemaining() (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := s.rebuild()
	if !snap.Clock.InProgress {
		return 0, false
	}
	return snap.Clock.Remaining, true
}

func (s *Session) expiredLocked() bool {
	snap := s.rebuild()
	return snap.Clock.InProgress && snap.Clock.Remaining == 0
}

// raidTeamOfCurrent attributes the in-flight raid: the open raid_start if
// there is one, else whoever's turn the log says it is.
func (s *Session) raidTeamOfCurrent(snap replay.Snapshot) int64 {
	if snap.Clock.InProgress {
		return snap.Clock.TeamID
	}
	return s.raidingTeamLocked(snap)
}

// appendAndCache writes one event and the refreshed match-record cache in a
// single transaction, so readers of the cached record never see a score that
// the event log cannot reproduce. The local history copy advances only after
// the commit.
func (s *Session) appendAndCache(ctx context.Context, ev model.MatchEvent) (model.MatchEvent, error) {
	var stored model.MatchEvent
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		stored, err = s.events.Append(ctx, ev)
		if err != nil {
			return err
		}
		return s.matches.UpdateDerived(ctx, s.deriveMatch(append(s.history, stored)))
	})
	if err != nil {
		return model.MatchEvent{}, err
	}
	s.history = append(s.history, stored)
	return stored, nil
}

// deriveMatch materializes the match record's cached fields from a replay of
// the given event list.
func (s *Session) deriveMatch(events []model.MatchEvent) model.Match {
	snap := replay.Rebuild(s.match.TeamAID, s.match.TeamBID, s.match.Settings, events, s.clock())
	m := s.match
	m.TeamAScore = snap.TeamA.Score
	m.TeamBScore = snap.TeamB.Score
	m.CurrentHalf = snap.CurrentHalf
	m.RaidingTeamID = s.raidingTeamLocked(snap)
	m.OutPlayerIDs = append([]int64(nil), snap.OutPlayerIDs...)
	m.TeamAEmpty = snap.EmptyRaids[m.TeamAID]
	m.TeamBEmpty = snap.EmptyRaids[m.TeamBID]
	m.TeamATimeouts = snap.Timeouts[m.TeamAID]
	m.TeamBTimeouts = snap.Timeouts[m.TeamBID]
	return m
}

func (s *Session) roster(teamID int64) []int64 {
	if teamID == s.match.TeamBID {
		return s.rosterB
	}
	return s.rosterA
}

func (s *Session) other(teamID int64) int64 {
	if teamID == s.match.TeamAID {
		return s.match.TeamBID
	}
	return s.match.TeamAID
}

// tailDiverged reports whether the stored log no longer matches the local
// copy, comparing length and tail id only; the log is append-only so that
// is enough to detect a foreign append.
func tailDiverged(stored, local []model.MatchEvent) bool {
	if len(stored) != len(local) {
		return true
	}
	if len(stored) == 0 {
		return false
	}
	return stored[len(stored)-1].ID != local[len(local)-1].ID
}

func contains(ids []int64, id int64) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
