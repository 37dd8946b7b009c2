package db

import "errors"

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("record not found")

// ErrCapacityExceeded is returned by IncrementFilled and CommitSignup when
// the shift is not live or already at capacity.
var ErrCapacityExceeded = errors.New("shift capacity exceeded")

// ErrDuplicateSignup is returned when the volunteer already holds an active
// signup for the shift.
var ErrDuplicateSignup = errors.New("active signup already exists")

// ErrAlreadyCancelled is returned when cancelling a signup that is already
// cancelled.
var ErrAlreadyCancelled = errors.New("signup already cancelled")

// ErrInvalidTransition is returned when a signup status change violates the
// forward-only progression.
var ErrInvalidTransition = errors.New("invalid signup status transition")
