package play

import (
	"errors"
	"fmt"
)

var (
	ErrSquareOutOfRange      = errors.New("square is off the board")
	ErrGameOver              = errors.New("game is over")
	ErrOpponentThinking      = errors.New("opponent is still thinking")
	ErrNotAutomatedTurn      = errors.New("no automated move is due")
	ErrAutomatedMoveInFlight = errors.New("automated move already in flight")
	ErrStaleAutomatedMove    = errors.New("automated move discarded: position changed")
	ErrEngineInvariant       = errors.New("rules engine invariant violated")
)

// EngineInvariantError reports rules engine output the controller cannot
// reconcile. It is fatal for the current game; only Reset clears it.
type EngineInvariantError struct {
	Detail string
	Err    error
}

func (e *EngineInvariantError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", ErrEngineInvariant.Error(), e.Detail, e.Err)
	}
	return fmt.Sprintf("%s: %s", ErrEngineInvariant.Error(), e.Detail)
}

func (e *EngineInvariantError) Is(target error) bool {
	return target == ErrEngineInvariant
}

func (e *EngineInvariantError) Unwrap() error {
	return e.Err
}

func invariant(detail string, err error) *EngineInvariantError {
	return &EngineInvariantError{Detail: detail, Err: err}
}
