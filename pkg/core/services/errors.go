package services

import "errors"

// Conflict-class errors surfaced by the signup orchestrator. These are final
// for the request in hand; callers must not retry against the same shift.
var (
	// ErrShiftNotOpen means the shift is draft, unpublished or cancelled.
	ErrShiftNotOpen = errors.New("shift is not open for signup")
	// ErrShiftFull means the shift has no remaining capacity. Also returned
	// when the capacity race is lost between validation and commit.
	ErrShiftFull = errors.New("shift is full")
	// ErrDuplicateSignup means the volunteer already holds an active signup
	// for the shift.
	ErrDuplicateSignup = errors.New("volunteer already signed up for this shift")
	// ErrAlreadyCancelled means the signup was cancelled before this call.
	ErrAlreadyCancelled = errors.New("signup is already cancelled")
	// ErrInvalidTransition means the requested signup status change would
	// move backwards or leave a terminal state.
	ErrInvalidTransition = errors.New("invalid signup status transition")
)
