package workflow

import "errors"

var (
	// ErrInvalidTransition means the trigger is not permitted from the
	// current state.
	ErrInvalidTransition = errors.New("invalid state transition")

	// ErrInvalidState means a state outside the lifecycle was supplied.
	ErrInvalidState = errors.New("invalid state")

	// ErrGuardFailed means every guarded transition for the trigger declined.
	ErrGuardFailed = errors.New("guard condition failed")
)
