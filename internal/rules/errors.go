package rules

import "errors"

// Validation sentinels surfaced before any event is appended. Callers match
// with errors.Is and translate to field-level messages for the scorer.
var (
	ErrRaiderUnknown     = errors.New("raider not in raiding team roster")
	ErrRaiderOut         = errors.New("raider is already out")
	ErrDefenderUnknown   = errors.New("defender not in defending team roster")
	ErrDefenderOut       = errors.New("defender is already out")
	ErrDuplicateDefender = errors.New("defender selected twice")
	ErrTouchMismatch     = errors.New("touch points must equal selected defenders")
	ErrTacklerRequired   = errors.New("fail outcome requires a tackler")
	ErrTacklerUnknown    = errors.New("tackler not in defending team roster")
	ErrTacklerOut        = errors.New("tackler is already out")
	ErrUnknownOutcome    = errors.New("unknown raid outcome")
)
