package rules

import (
	"fmt"

	"github.com/kabaddi-live/scoring-service/internal/model"
)

// validate rejects inconsistent raid declarations before any state change.
// Stale references (ids outside the roster snapshot) fail here too.
func validate(rc RaidContext, action model.RaidAction) error {
	if !contains(rc.Raiders, action.RaiderID) {
		return fmt.Errorf("%w: player %d", ErrRaiderUnknown, action.RaiderID)
	}
	if rc.Out[action.RaiderID] {
		return fmt.Errorf("%w: player %d", ErrRaiderOut, action.RaiderID)
	}

	seen := make(map[int64]bool, len(action.DefendersOut))
	for _, id := range action.DefendersOut {
		if seen[id] {
			return fmt.Errorf("%w: player %d", ErrDuplicateDefender, id)
		}
		seen[id] = true
		if !contains(rc.Defenders, id) {
			return fmt.Errorf("%w: player %d", ErrDefenderUnknown, id)
		}
		if rc.Out[id] {
			return fmt.Errorf("%w: player %d", ErrDefenderOut, id)
		}
	}

	if action.TouchPoints != len(action.DefendersOut) {
		return fmt.Errorf("%w: declared %d, selected %d", ErrTouchMismatch, action.TouchPoints, len(action.DefendersOut))
	}

	if action.Outcome == model.OutcomeFail {
		if action.TacklerID == 0 {
			return ErrTacklerRequired
		}
		if !contains(rc.Defenders, action.TacklerID) {
			return fmt.Errorf("%w: player %d", ErrTacklerUnknown, action.TacklerID)
		}
		if rc.Out[action.TacklerID] {
			return fmt.Errorf("%w: player %d", ErrTacklerOut, action.TacklerID)
		}
	}
	return nil
}

func contains(ids []int64, id int64) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
