package replay

import (
	"fmt"

	"github.com/kabaddi-live/scoring-service/internal/model"
)

// Label turns a raw event into the human classification shown on the play
// feed. The precedence chain is fixed; earlier cases win.
func Label(ev model.MatchEvent) string {
	p := ev.Payload

	switch {
	case ev.Type == model.EventTackle && p.RaiderOut && p.TacklerID == 0 && !p.DoOrDie:
		return "Self out"
	case ev.Type == model.EventTackle && p.DoOrDie && p.TacklerID == 0:
		return "Do-or-die raid failed"
	case ev.Type == model.EventRaid && ev.Points == 0:
		return "Empty raid"
	case isRaid(ev.Type) && ev.Points >= 3:
		if p.BonusPoint {
			return fmt.Sprintf("Super raid (%d touch + bonus)", p.TouchPoints)
		}
		return fmt.Sprintf("Super raid (%d touch)", p.TouchPoints)
	case isRaid(ev.Type) && p.TouchPoints > 0 && p.BonusPoint:
		return fmt.Sprintf("%d touch + bonus", p.TouchPoints)
	case isRaid(ev.Type) && p.TouchPoints > 0:
		if p.TouchPoints == 1 {
			return "Touch point"
		}
		return fmt.Sprintf("%d touch points", p.TouchPoints)
	case isRaid(ev.Type) && p.BonusPoint:
		return "Bonus point"
	case ev.Type == model.EventAllOut:
		return "All out"
	case ev.Type == model.EventTimeout:
		return "Team timeout"
	default:
		return string(ev.Type)
	}
}

func isRaid(t model.EventType) bool {
	return t == model.EventRaid || t == model.EventAllOut
}
