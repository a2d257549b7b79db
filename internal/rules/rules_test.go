package rules_test

import (
	"errors"
	"testing"

	"github.com/kabaddi-live/scoring-service/internal/model"
	"github.com/kabaddi-live/scoring-service/internal/rules"
)

const (
	teamA int64 = 1
	teamB int64 = 2
)

// ctxWith builds a raid context for team A raiding against team B with
// seven-player rosters (ids 11-17 raiding, 21-27 defending).
func ctxWith(out map[int64]bool, emptyRaids int) rules.RaidContext {
	if out == nil {
		out = map[int64]bool{}
	}
	return rules.RaidContext{
		RaidingTeamID:   teamA,
		DefendingTeamID: teamB,
		Raiders:         []int64{11, 12, 13, 14, 15, 16, 17},
		Defenders:       []int64{21, 22, 23, 24, 25, 26, 27},
		Out:             out,
		EmptyRaids:      emptyRaids,
	}
}

func TestResolve_SuccessfulRaid(t *testing.T) {
	cases := []struct {
		name       string
		action     model.RaidAction
		wantPoints int
		wantType   model.EventType
		wantOut    int
	}{
		{
			name:       "two touches",
			action:     model.RaidAction{RaiderID: 11, Outcome: model.OutcomeSuccess, TouchPoints: 2, DefendersOut: []int64{21, 22}},
			wantPoints: 2,
			wantType:   model.EventRaid,
			wantOut:    2,
		},
		{
			name:       "touch plus bonus",
			action:     model.RaidAction{RaiderID: 11, Outcome: model.OutcomeSuccess, TouchPoints: 1, DefendersOut: []int64{21}, BonusPoint: true},
			wantPoints: 2,
			wantType:   model.EventRaid,
			wantOut:    1,
		},
		{
			name:       "bonus only",
			action:     model.RaidAction{RaiderID: 11, Outcome: model.OutcomeSuccess, BonusPoint: true},
			wantPoints: 1,
			wantType:   model.EventRaid,
			wantOut:    0,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res, err := rules.Resolve(rules.DefaultConfig(), ctxWith(nil, 0), tc.action)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if res.Points != tc.wantPoints {
				t.Fatalf("points = %d, want %d", res.Points, tc.wantPoints)
			}
			if res.EventType != tc.wantType {
				t.Fatalf("event type = %s, want %s", res.EventType, tc.wantType)
			}
			if len(res.NewlyOut) != tc.wantOut {
				t.Fatalf("newly out = %d, want %d", len(res.NewlyOut), tc.wantOut)
			}
			if res.ScoringTeamID != teamA {
				t.Fatalf("scoring team = %d, want raiding team", res.ScoringTeamID)
			}
			if res.EmptyRaids != 0 {
				t.Fatalf("empty counter = %d, want reset to 0", res.EmptyRaids)
			}
		})
	}
}

func TestResolve_ZeroPointSuccessIsEmptyRaid(t *testing.T) {
	res, err := rules.Resolve(rules.DefaultConfig(), ctxWith(nil, 1), model.RaidAction{
		RaiderID: 11,
		Outcome:  model.OutcomeSuccess,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Points != 0 {
		t.Fatalf("points = %d, want 0", res.Points)
	}
	if res.EmptyRaids != 2 {
		t.Fatalf("empty counter = %d, want incremented to 2", res.EmptyRaids)
	}
	if res.EventType != model.EventRaid {
		t.Fatalf("event type = %s, want raid", res.EventType)
	}
}

func TestResolve_AllOut(t *testing.T) {
	// Five defenders already out, the raider touches the last two with a
	// bonus: 2 touch + 1 bonus + 2 all-out = 5, whole side revives.
	out := map[int64]bool{21: true, 22: true, 23: true, 24: true, 25: true}
	res, err := rules.Resolve(rules.DefaultConfig(), ctxWith(out, 0), model.RaidAction{
		RaiderID:     11,
		Outcome:      model.OutcomeSuccess,
		TouchPoints:  2,
		DefendersOut: []int64{26, 27},
		BonusPoint:   true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Points != 5 {
		t.Fatalf("points = %d, want 5 (2 touch + 1 bonus + 2 all-out)", res.Points)
	}
	if !res.AllOut {
		t.Fatalf("expected all-out")
	}
	if res.EventType != model.EventAllOut {
		t.Fatalf("event type = %s, want all_out", res.EventType)
	}
	if len(res.Revived) != 7 {
		t.Fatalf("revived = %d, want full side of 7", len(res.Revived))
	}
	if len(res.NewlyOut) != 0 {
		t.Fatalf("newly out = %v, want none after revival", res.NewlyOut)
	}
}

func TestResolve_TackleAndSuperTackle(t *testing.T) {
	cases := []struct {
		name       string
		out        map[int64]bool
		wantPoints int
		wantSuper  bool
	}{
		{"full strength tackle", nil, 1, false},
		{"four defenders left", map[int64]bool{21: true, 22: true, 23: true}, 1, false},
		{"three defenders left", map[int64]bool{21: true, 22: true, 23: true, 24: true}, 2, true},
		{"one defender left", map[int64]bool{21: true, 22: true, 23: true, 24: true, 25: true, 26: true}, 2, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res, err := rules.Resolve(rules.DefaultConfig(), ctxWith(tc.out, 0), model.RaidAction{
				RaiderID:  11,
				Outcome:   model.OutcomeFail,
				TacklerID: 27,
			})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if res.Points != tc.wantPoints {
				t.Fatalf("tackle points = %d, want %d", res.Points, tc.wantPoints)
			}
			if res.SuperTackle != tc.wantSuper {
				t.Fatalf("super tackle = %v, want %v", res.SuperTackle, tc.wantSuper)
			}
			if res.ScoringTeamID != teamB {
				t.Fatalf("scoring team = %d, want defending team", res.ScoringTeamID)
			}
			if !res.RaiderOut || len(res.NewlyOut) != 1 || res.NewlyOut[0] != 11 {
				t.Fatalf("raider must be out: %+v", res)
			}
			if res.EmptyRaids != 0 {
				t.Fatalf("a failed raid is not an empty raid")
			}
		})
	}
}

func TestResolve_ConfigurableSuperTackleThreshold(t *testing.T) {
	cfg := rules.Config{SuperTackleThreshold: 4}
	out := map[int64]bool{21: true, 22: true, 23: true} // four eligible left
	res, err := rules.Resolve(cfg, ctxWith(out, 0), model.RaidAction{
		RaiderID:  11,
		Outcome:   model.OutcomeFail,
		TacklerID: 27,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.SuperTackle || res.Points != 2 {
		t.Fatalf("threshold 4 with 4 eligible must be a super tackle, got %+v", res)
	}
}

func TestResolve_EmptyRaidEscalation(t *testing.T) {
	// First and second empty raids only bump the counter.
	for before := 0; before < 2; before++ {
		res, err := rules.Resolve(rules.DefaultConfig(), ctxWith(nil, before), model.RaidAction{
			RaiderID: 11,
			Outcome:  model.OutcomeEmpty,
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if res.Points != 0 || res.EmptyRaids != before+1 {
			t.Fatalf("empty raid %d: got points=%d counter=%d", before+1, res.Points, res.EmptyRaids)
		}
	}

	// Third consecutive empty raid is do-or-die: raider auto-out, one point
	// to the defenders with no tackler, counter resets.
	res, err := rules.Resolve(rules.DefaultConfig(), ctxWith(nil, 2), model.RaidAction{
		RaiderID: 11,
		Outcome:  model.OutcomeEmpty,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.EventType != model.EventTackle {
		t.Fatalf("event type = %s, want tackle", res.EventType)
	}
	if res.Points != 1 || res.ScoringTeamID != teamB {
		t.Fatalf("want 1 point to defending team, got %d to %d", res.Points, res.ScoringTeamID)
	}
	if res.PlayerID != nil {
		t.Fatalf("do-or-die auto-out has no tackler")
	}
	if !res.RaiderOut || len(res.NewlyOut) != 1 || res.NewlyOut[0] != 11 {
		t.Fatalf("raider must be auto-out: %+v", res)
	}
	if res.EmptyRaids != 0 {
		t.Fatalf("counter must reset after do-or-die, got %d", res.EmptyRaids)
	}
	if !res.DoOrDie {
		t.Fatalf("result must be flagged do-or-die")
	}
}

func TestResolve_Validation(t *testing.T) {
	cases := []struct {
		name    string
		out     map[int64]bool
		action  model.RaidAction
		wantErr error
	}{
		{
			name:    "raider not on roster",
			action:  model.RaidAction{RaiderID: 99, Outcome: model.OutcomeEmpty},
			wantErr: rules.ErrRaiderUnknown,
		},
		{
			name:    "raider already out",
			out:     map[int64]bool{11: true},
			action:  model.RaidAction{RaiderID: 11, Outcome: model.OutcomeEmpty},
			wantErr: rules.ErrRaiderOut,
		},
		{
			name:    "defender already out",
			out:     map[int64]bool{21: true},
			action:  model.RaidAction{RaiderID: 11, Outcome: model.OutcomeSuccess, TouchPoints: 1, DefendersOut: []int64{21}},
			wantErr: rules.ErrDefenderOut,
		},
		{
			name:    "defender not on roster",
			action:  model.RaidAction{RaiderID: 11, Outcome: model.OutcomeSuccess, TouchPoints: 1, DefendersOut: []int64{88}},
			wantErr: rules.ErrDefenderUnknown,
		},
		{
			name:    "duplicate defender",
			action:  model.RaidAction{RaiderID: 11, Outcome: model.OutcomeSuccess, TouchPoints: 2, DefendersOut: []int64{21, 21}},
			wantErr: rules.ErrDuplicateDefender,
		},
		{
			name:    "touch count mismatch",
			action:  model.RaidAction{RaiderID: 11, Outcome: model.OutcomeSuccess, TouchPoints: 3, DefendersOut: []int64{21}},
			wantErr: rules.ErrTouchMismatch,
		},
		{
			name:    "zero touches declared with defenders selected",
			action:  model.RaidAction{RaiderID: 11, Outcome: model.OutcomeSuccess, DefendersOut: []int64{21, 22}},
			wantErr: rules.ErrTouchMismatch,
		},
		{
			name:    "fail without tackler",
			action:  model.RaidAction{RaiderID: 11, Outcome: model.OutcomeFail},
			wantErr: rules.ErrTacklerRequired,
		},
		{
			name:    "tackler already out",
			out:     map[int64]bool{27: true},
			action:  model.RaidAction{RaiderID: 11, Outcome: model.OutcomeFail, TacklerID: 27},
			wantErr: rules.ErrTacklerOut,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := rules.Resolve(rules.DefaultConfig(), ctxWith(tc.out, 0), tc.action)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("err = %v, want %v", err, tc.wantErr)
			}
		})
	}
}

func TestTechnical(t *testing.T) {
	res := rules.Technical(teamB, 0)
	if res.Points != 1 || res.ScoringTeamID != teamB {
		t.Fatalf("technical default must be 1 point to the named team, got %+v", res)
	}
	if res.EventType != model.EventTechnical {
		t.Fatalf("event type = %s, want technical", res.EventType)
	}
}
