package service

import (
	"context"
	"errors"
	"math/rand"
	"sync"

	"github.com/rs/zerolog"

	"github.com/kabaddi-live/scoring-service/internal/engine"
	"github.com/kabaddi-live/scoring-service/internal/model"
	"github.com/kabaddi-live/scoring-service/internal/repository"
)

// ErrNoShootout is returned when tie-breaker actions arrive for a match
// that never began one.
var ErrNoShootout = errors.New("no shootout in progress for match")

type shootoutService struct {
	matches repository.MatchRepository
	players repository.PlayerRepository
	rng     *rand.Rand
	log     zerolog.Logger

	mu       sync.Mutex
	wizards  map[int64]*engine.ShootoutWizard
	runs     map[int64]*engine.Shootout
	setups   map[int64]model.ShootoutSetup
	teamPair map[int64][2]int64
}

// NewShootoutService wires the tie-breaker wizard and run state, both
// ephemeral: a restart before the shootout finishes means setting it up
// again, which matches how the wizard is used courtside.
func NewShootoutService(matches repository.MatchRepository, players repository.PlayerRepository, rng *rand.Rand, logger zerolog.Logger) ShootoutService {
	l := logger.With().Str("module", "service").Str("component", "shootout").Logger()
	return &shootoutService{
		matches:  matches,
		players:  players,
		rng:      rng,
		log:      l,
		wizards:  make(map[int64]*engine.ShootoutWizard),
		runs:     make(map[int64]*engine.Shootout),
		setups:   make(map[int64]model.ShootoutSetup),
		teamPair: make(map[int64][2]int64),
	}
}

func (s *shootoutService) Begin(ctx context.Context, matchID int64) error {
	m, err := s.matches.GetByID(ctx, matchID)
	if err != nil {
		return err
	}
	if m.Status != model.StatusLive {
		return engine.ErrMatchNotLive
	}
	rosterA, err := s.roster(ctx, m.TeamAID)
	if err != nil {
		return err
	}
	rosterB, err := s.roster(ctx, m.TeamBID)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.wizards[matchID] = engine.NewShootoutWizard(m.TeamAID, m.TeamBID, rosterA, rosterB, s.rng)
	delete(s.runs, matchID)
	delete(s.setups, matchID)
	s.teamPair[matchID] = [2]int64{m.TeamAID, m.TeamBID}
	s.log.Info().Int64("match_id", matchID).Msg("shootout setup started")
	return nil
}

func (s *shootoutService) TogglePlayer(_ context.Context, matchID, playerID int64) error {
	w, err := s.wizard(matchID)
	if err != nil {
		return err
	}
	return w.TogglePlayer(playerID)
}

func (s *shootoutService) ToggleRaider(_ context.Context, matchID, playerID int64) error {
	w, err := s.wizard(matchID)
	if err != nil {
		return err
	}
	return w.ToggleRaider(playerID)
}

func (s *shootoutService) Advance(_ context.Context, matchID int64) (string, error) {
	w, err := s.wizard(matchID)
	if err != nil {
		return "", err
	}
	if err := w.Next(); err != nil {
		return "", err
	}
	return string(w.Step()), nil
}

func (s *shootoutService) Toss(_ context.Context, matchID int64) (int64, error) {
	w, err := s.wizard(matchID)
	if err != nil {
		return 0, err
	}
	winner, err := w.Toss()
	if err != nil {
		return 0, err
	}
	s.log.Info().Int64("match_id", matchID).Int64("toss_winner", winner).Msg("shootout toss")
	return winner, nil
}

// Choose completes the wizard and lays out the fixed raid order.
func (s *shootoutService) Choose(_ context.Context, matchID int64, raidFirst bool) (model.ShootoutSetup, error) {
	w, err := s.wizard(matchID)
	if err != nil {
		return model.ShootoutSetup{}, err
	}
	if err := w.Choose(raidFirst); err != nil {
		return model.ShootoutSetup{}, err
	}
	setup, err := w.Setup()
	if err != nil {
		return model.ShootoutSetup{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	pair := s.teamPair[matchID]
	s.setups[matchID] = setup
	s.runs[matchID] = engine.NewShootout(pair[0], pair[1], setup)
	delete(s.wizards, matchID)
	return setup, nil
}

func (s *shootoutService) RecordRaid(_ context.Context, matchID int64, points int) error {
	s.mu.Lock()
	run, ok := s.runs[matchID]
	s.mu.Unlock()
	if !ok {
		return ErrNoShootout
	}
	return run.Record(points)
}

func (s *shootoutService) State(_ context.Context, matchID int64) (ShootoutState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if w, ok := s.wizards[matchID]; ok {
		return ShootoutState{Step: string(w.Step())}, nil
	}
	run, ok := s.runs[matchID]
	if !ok {
		return ShootoutState{}, ErrNoShootout
	}
	setup := s.setups[matchID]
	st := ShootoutState{
		Step:    string(engine.StepReady),
		Setup:   &setup,
		Scores:  run.Scores(),
		Started: true,
	}
	for _, r := range run.Raids() {
		st.Raids = append(st.Raids, ShootoutRaidView(r))
	}
	if cur, ok := run.Current(); ok {
		v := ShootoutRaidView(cur)
		st.NextUp = &v
	}
	return st, nil
}

func (s *shootoutService) wizard(matchID int64) (*engine.ShootoutWizard, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, ok := s.wizards[matchID]
	if !ok {
		return nil, ErrNoShootout
	}
	return w, nil
}

func (s *shootoutService) roster(ctx context.Context, teamID int64) ([]int64, error) {
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
