// Package rules implements the point-computation rules for a kabaddi raid.
// Everything here is pure: a raid declaration plus the current derived state
// maps to points and state deltas, with no I/O and no hidden state.
package rules

import (
	"fmt"

	"github.com/kabaddi-live/scoring-service/internal/model"
)

const (
	// DefaultSuperTackleThreshold is the max number of eligible defenders on
	// court for a tackle to count double. Kept configurable pending a formal
	// rule-table confirmation.
	DefaultSuperTackleThreshold = 3

	// AllOutBonus is awarded to the raiding team when every defender is out.
	AllOutBonus = 2

	// DoOrDiePenalty goes to the defending team when a do-or-die raid
	// resolves with zero points.
	DoOrDiePenalty = 1

	// DoOrDieAfter is the number of consecutive empty raids before the next
	// raid becomes do-or-die.
	DoOrDieAfter = 2
)

// Config carries the rule knobs the rulebook leaves open.
type Config struct {
	SuperTackleThreshold int
}

// DefaultConfig returns the standard rule configuration.
func DefaultConfig() Config {
	return Config{SuperTackleThreshold: DefaultSuperTackleThreshold}
}

// RaidContext is the slice of derived match state a single raid resolution
// needs. The caller materializes it from the event log before each call.
type RaidContext struct {
	RaidingTeamID   int64
	DefendingTeamID int64
	Raiders         []int64 // full roster of the raiding team
	Defenders       []int64 // full roster of the defending team
	Out             map[int64]bool
	EmptyRaids      int // raiding team's consecutive empty raids before this raid
}

// Result is the outcome of resolving one RaidAction: points, who scored,
// and the deltas to apply to the derived state.
type Result struct {
	EventType     model.EventType
	ScoringTeamID int64
	PlayerID      *int64 // raider for raids, tackler for tackles, nil for do-or-die auto-out
	Points        int
	TouchPoints   int
	BonusPoint    bool
	NewlyOut      []int64
	Revived       []int64
	RaiderOut     bool
	AllOut        bool
	SuperTackle   bool
	DoOrDie       bool
	EmptyRaids    int // raiding team's counter after this raid
}

// Resolve maps a raid declaration onto points and state deltas. It validates
// the declaration against the context and returns a wrapped sentinel error
// from errors.go when the input is inconsistent; no partial results.
func Resolve(cfg Config, rc RaidContext, action model.RaidAction) (Result, error) {
	if cfg.SuperTackleThreshold <= 0 {
		cfg.SuperTackleThreshold = DefaultSuperTackleThreshold
	}
	if err := validate(rc, action); err != nil {
		return Result{}, err
	}

	doOrDie := rc.EmptyRaids >= DoOrDieAfter

	switch action.Outcome {
	case model.OutcomeSuccess:
		points := len(action.DefendersOut)
		if action.BonusPoint {
			points++
		}
		if points == 0 {
			// A confirmed "success" with nothing selected scores nothing and
			// counts as an empty raid.
			return resolveEmpty(rc, action, doOrDie), nil
		}
		res := Result{
			EventType:     model.EventRaid,
			ScoringTeamID: rc.RaidingTeamID,
			PlayerID:      ptr(action.RaiderID),
			Points:        points,
			TouchPoints:   len(action.DefendersOut),
			BonusPoint:    action.BonusPoint,
			NewlyOut:      append([]int64(nil), action.DefendersOut...),
			DoOrDie:       doOrDie,
			EmptyRaids:    0,
		}
		if allDefendersOut(rc, action.DefendersOut) {
			res.EventType = model.EventAllOut
			res.Points += AllOutBonus
			res.AllOut = true
			res.Revived = outMembers(rc.Out, rc.Defenders, action.DefendersOut)
			res.NewlyOut = nil // the whole side revives, nobody stays out
		}
		return res, nil

	case model.OutcomeFail:
		res := Result{
			EventType:     model.EventTackle,
			ScoringTeamID: rc.DefendingTeamID,
			PlayerID:      ptr(action.TacklerID),
			Points:        1,
			NewlyOut:      []int64{action.RaiderID},
			RaiderOut:     true,
			DoOrDie:       doOrDie,
			EmptyRaids:    0,
		}
		if eligibleCount(rc.Defenders, rc.Out) <= cfg.SuperTackleThreshold {
			res.Points = 2
			res.SuperTackle = true
		}
		return res, nil

	case model.OutcomeEmpty:
		return resolveEmpty(rc, action, doOrDie), nil

	default:
		return Result{}, fmt.Errorf("%w: outcome %q", ErrUnknownOutcome, action.Outcome)
	}
}

// Technical awards a direct point to either team. No raider or defender
// state changes, no effect on empty-raid counters.
func Technical(teamID int64, points int) Result {
	if points <= 0 {
		points = 1
	}
	return Result{
		EventType:     model.EventTechnical,
		ScoringTeamID: teamID,
		Points:        points,
		EmptyRaids:    -1, // callers keep the counter unchanged
	}
}

// resolveEmpty handles a zero-point raid, including the do-or-die escalation
// where the raider is auto-out and the defenders collect a point.
func resolveEmpty(rc RaidContext, action model.RaidAction, doOrDie bool) Result {
	if doOrDie {
		return Result{
			EventType:     model.EventTackle,
			ScoringTeamID: rc.DefendingTeamID,
			PlayerID:      nil, // no tackler: the rulebook did the tackling
			Points:        DoOrDiePenalty,
			NewlyOut:      []int64{action.RaiderID},
			RaiderOut:     true,
			DoOrDie:       true,
			EmptyRaids:    0,
		}
	}
	return Result{
		EventType:     model.EventRaid,
		ScoringTeamID: rc.RaidingTeamID,
		PlayerID:      ptr(action.RaiderID),
		Points:        0,
		EmptyRaids:    rc.EmptyRaids + 1,
	}
}

// allDefendersOut reports whether adding newlyOut to the out-set leaves the
// defending team with no eligible defender on court.
func allDefendersOut(rc RaidContext, newlyOut []int64) bool {
	gone := make(map[int64]bool, len(newlyOut))
	for _, id := range newlyOut {
		gone[id] = true
	}
	for _, id := range rc.Defenders {
		if !rc.Out[id] && !gone[id] {
			return false
		}
	}
	return len(rc.Defenders) > 0
}

// eligibleCount counts roster members not currently in the out-set.
func eligibleCount(roster []int64, out map[int64]bool) int {
	n := 0
	for _, id := range roster {
		if !out[id] {
			n++
		}
	}
	return n
}

// outMembers returns every defending-team player who will be revived on an
// all-out: those already out plus the ones going out on this raid.
func outMembers(out map[int64]bool, roster []int64, newlyOut []int64) []int64 {
	revived := make([]int64, 0, len(roster))
	for _, id := range roster {
		if out[id] {
			revived = append(revived, id)
		}
	}
	return append(revived, newlyOut...)
}

func ptr(id int64) *int64 {
	if id == 0 {
		return nil
	}
	return &id
}
