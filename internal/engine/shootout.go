package engine

import (
	"errors"
	"math/rand"
	"sync"

	"github.com/kabaddi-live/scoring-service/internal/model"
)

// Shootout wizard sizes. Seven on court, five raids per side.
const (
	ShootoutPlayers = 7
	ShootoutRaiders = 5
)

// WizardStep is the tie-breaker setup position. Strictly linear.
type WizardStep string

const (
	StepPlayersA WizardStep = "players_a"
	StepPlayersB WizardStep = "players_b"
	StepRaidersA WizardStep = "raiders_a"
	StepRaidersB WizardStep = "raiders_b"
	StepToss     WizardStep = "toss"
	StepChoice   WizardStep = "choice"
	StepReady    WizardStep = "ready"
)

var (
	ErrWrongStep        = errors.New("action does not belong to the current wizard step")
	ErrSelectionCount   = errors.New("selection does not have the required count")
	ErrNotEligible      = errors.New("player not eligible for shootout selection")
	ErrShootoutFinished = errors.New("shootout raid sequence already finished")
)

// ShootoutWizard walks the scorer through tie-breaker setup: 7 players per
// side, 5 ordered raiders per side, a coin toss, and the winner's choice.
// Single-writer like Session; the mutex only protects against accidental
// concurrent HTTP calls.
type ShootoutWizard struct {
	teamAID, teamBID int64
	rosterA, rosterB []int64
	rng              *rand.Rand

	mu         sync.Mutex
	step       WizardStep
	playersA   []int64
	playersB   []int64
	raidersA   []int64
	raidersB   []int64
	tossWinner int64
	raidFirst  bool
}

// NewShootoutWizard starts the wizard at the first step. rng drives the
// toss; pass a seeded source in tests.
func NewShootoutWizard(teamAID, teamBID int64, rosterA, rosterB []int64, rng *rand.Rand) *ShootoutWizard {
	return &ShootoutWizard{
		teamAID: teamAID,
		teamBID: teamBID,
		rosterA: rosterA,
		rosterB: rosterB,
		rng:     rng,
		step:    StepPlayersA,
	}
}

// Step returns the wizard's current position.
func (w *ShootoutWizard) Step() WizardStep {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.step
}

// TogglePlayer adds or removes a player from the 7-player selection of the
// team whose step is active. A click on a selected player deselects it.
func (w *ShootoutWizard) TogglePlayer(playerID int64) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	switch w.step {
	case StepPlayersA:
		if !contains(w.rosterA, playerID) {
			return ErrNotEligible
		}
		w.playersA = toggle(w.playersA, playerID)
	case StepPlayersB:
		if !contains(w.rosterB, playerID) {
			return ErrNotEligible
		}
		w.playersB = toggle(w.playersB, playerID)
	default:
		return ErrWrongStep
	}
	return nil
}

// ToggleRaider adds or removes a raider; order of clicks is order of raids.
func (w *ShootoutWizard) ToggleRaider(playerID int64) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	switch w.step {
	case StepRaidersA:
		if !contains(w.playersA, playerID) {
			return ErrNotEligible
		}
		w.raidersA = toggle(w.raidersA, playerID)
	case StepRaidersB:
		if !contains(w.playersB, playerID) {
			return ErrNotEligible
		}
		w.raidersB = toggle(w.raidersB, playerID)
	default:
		return ErrWrongStep
	}
	return nil
}

// Next validates the current step's selection and advances. The toss and
// choice steps have their own entry points.
func (w *ShootoutWizard) Next() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	switch w.step {
	case StepPlayersA:
		if len(w.playersA) != ShootoutPlayers {
			return ErrSelectionCount
		}
		w.step = StepPlayersB
	case StepPlayersB:
		if len(w.playersB) != ShootoutPlayers {
			return ErrSelectionCount
		}
		w.step = StepRaidersA
	case StepRaidersA:
		if len(w.raidersA) != ShootoutRaiders {
			return ErrSelectionCount
		}
		w.step = StepRaidersB
	case StepRaidersB:
		if len(w.raidersB) != ShootoutRaiders {
			return ErrSelectionCount
		}
		w.step = StepToss
	default:
		return ErrWrongStep
	}
	return nil
}

// Toss flips the coin. Uniformly random winner.
func (w *ShootoutWizard) Toss() (int64, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.step != StepToss {
		return 0, ErrWrongStep
	}
	if w.rng.Intn(2) == 0 {
		w.tossWinner = w.teamAID
	} else {
		w.tossWinner = w.teamBID
	}
	w.step = StepChoice
	return w.tossWinner, nil
}

// Choose records the toss winner's pick. Raid-first means the winner opens;
// defend-first hands the opening raid to the other team.
func (w *ShootoutWizard) Choose(raidFirst bool) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.step != StepChoice {
		return ErrWrongStep
	}
	w.raidFirst = raidFirst
	w.step = StepReady
	return nil
}

// Setup returns the completed wizard output. Only valid at StepReady.
func (w *ShootoutWizard) Setup() (model.ShootoutSetup, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.step != StepReady {
		return model.ShootoutSetup{}, ErrWrongStep
	}
	first := w.tossWinner
	if !w.raidFirst {
		if first == w.teamAID {
			first = w.teamBID
		} else {
			first = w.teamAID
		}
	}
	return model.ShootoutSetup{
		TeamAPlayers:     append([]int64(nil), w.playersA...),
		TeamBPlayers:     append([]int64(nil), w.playersB...),
		TeamARaiders:     append([]int64(nil), w.raidersA...),
		TeamBRaiders:     append([]int64(nil), w.raidersB...),
		TossWinnerID:     w.tossWinner,
		WinnerRaidsFirst: w.raidFirst,
		FirstRaidingID:   first,
	}, nil
}

// ShootoutRaid is one entry in the fixed raid order.
type ShootoutRaid struct {
	TeamID   int64 `json:"team_id"`
	RaiderID int64 `json:"raider_id"`
	Points   int   `json:"points"`
	Done     bool  `json:"done"`
}

// Shootout runs the fixed sequence of ten raids with points-only scoring:
// no outs, no revivals, no timer. Guarded the same way as the wizard.
type Shootout struct {
	mu    sync.Mutex
	setup model.ShootoutSetup
	order []ShootoutRaid
	next  int
}

// NewShootout lays out the alternating 10-raid order from a completed setup.
func NewShootout(teamAID, teamBID int64, setup model.ShootoutSetup) *Shootout {
	firstRaiders, secondRaiders := setup.TeamARaiders, setup.TeamBRaiders
	first, second := teamAID, teamBID
	if setup.FirstRaidingID == teamBID {
		firstRaiders, secondRaiders = setup.TeamBRaiders, setup.TeamARaiders
		first, second = teamBID, teamAID
	}
	order := make([]ShootoutRaid, 0, 2*ShootoutRaiders)
	for i := 0; i < ShootoutRaiders; i++ {
		order = append(order,
			ShootoutRaid{TeamID: first, RaiderID: firstRaiders[i]},
			ShootoutRaid{TeamID: second, RaiderID: secondRaiders[i]},
		)
	}
	return &Shootout{setup: setup, order: order}
}

// Current returns the raid up next, or false when the sequence is done.
func (s *Shootout) Current() (ShootoutRaid, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.next >= len(s.order) {
		return ShootoutRaid{}, false
	}
	return s.order[s.next], true
}

// Record scores the current raid and advances the fixed order.
func (s *Shootout) Record(points int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.next >= len(s.order) {
		return ErrShootoutFinished
	}
	if points < 0 {
		points = 0
	}
	s.order[s.next].Points = points
	s.order[s.next].Done = true
	s.next++
	return nil
}

// Raids exposes the order with any recorded points.
func (s *Shootout) Raids() []ShootoutRaid {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]ShootoutRaid(nil), s.order...)
}

// Scores sums recorded points per team.
func (s *Shootout) Scores() map[int64]int {
	s.mu.Lock()
	defer s.mu.Unlock()
	totals := make(map[int64]int, 2)
	for _, r := range s.order {
		if r.Done {
			totals[r.TeamID] += r.Points
		}
	}
	return totals
}

// toggle implements click semantics over an ordered selection: absent ids
// append, present ids drop out and close the gap.
func toggle(sel []int64, id int64) []int64 {
	for i, v := range sel {
		if v == id {
			return append(sel[:i], sel[i+1:]...)
		}
	}
	return append(sel, id)
}
