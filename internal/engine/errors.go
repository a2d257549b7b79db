package engine

import "errors"

var (
	ErrMatchNotLive      = errors.New("match is not live")
	ErrBadTransition     = errors.New("action not allowed in current raid phase")
	ErrNothingToUndo     = errors.New("nothing to undo")
	ErrNothingToRedo     = errors.New("nothing to redo")
	ErrUnknownTeam       = errors.New("team is not part of this match")
	ErrTimeoutsExhausted = errors.New("no timeouts left this half")
	// ErrRedoConflict means the log advanced past the undone point; the
	// scorer has to re-derive intent, there is no merge.
	ErrRedoConflict = errors.New("log advanced since undo")
)
