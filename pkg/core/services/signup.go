package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mhollis/festival-crew/pkg/core/conflict"
	"github.com/mhollis/festival-crew/pkg/core/quota"
	"github.com/mhollis/festival-crew/pkg/db"
)

// SignupStore defines the database operations the signup orchestrator needs
type SignupStore interface {
	GetShift(ctx context.Context, id string) (*db.Shift, error)
	GetSignup(ctx context.Context, id string) (*db.Signup, error)
	FindActiveSignup(ctx context.Context, volunteerID, shiftID string) (*db.Signup, error)
	ListActiveSignups(ctx context.Context, volunteerID string) ([]db.Signup, error)
	CommitSignup(ctx context.Context, signup *db.Signup) error
	ReleaseSignup(ctx context.Context, id string) (*db.Signup, error)
	UpdateSignupStatus(ctx context.Context, id string, status db.SignupStatus) error
	MarkCheckedIn(ctx context.Context, id string, at time.Time) error
}

// Outcome is the terminal state of a signup request.
type Outcome string

const (
	// OutcomeCommitted means the signup was created and the shift counter
	// incremented.
	OutcomeCommitted Outcome = "committed"
	// OutcomeConflictFound means overlapping shifts were detected; the caller
	// must explicitly confirm or abort.
	OutcomeConflictFound Outcome = "conflict_found"
	// OutcomeQuotaExceeded means the projected hours pass the ceiling; the
	// caller must explicitly confirm or abort.
	OutcomeQuotaExceeded Outcome = "quota_exceeded"
)

// SignupResult is returned by RequestSignup and ConfirmOverride.
type SignupResult struct {
	Outcome   Outcome
	Signup    *db.Signup
	Conflicts []conflict.Conflict
	Quota     quota.Assessment
}

// RequestSignup runs the full signup sequence for a volunteer and shift:
// shift must be live with capacity, no duplicate active signup, then conflict
// detection and quota evaluation. Advisory findings stop before commit and
// are returned for the caller to confirm via ConfirmOverride; a clean run
// commits immediately.
func RequestSignup(ctx context.Context, store SignupStore, logger *zap.Logger, volunteerID, shiftID string, quotaCeiling float64) (*SignupResult, error) {
	logger.Debug("Signup requested",
		zap.String("volunteer_id", volunteerID),
		zap.String("shift_id", shiftID))

	shift, active, err := validateSignup(ctx, store, volunteerID, shiftID)
	if err != nil {
		return nil, err
	}

	conflicts, err := conflict.Detect(*shift, active.all)
	if err != nil {
		return nil, fmt.Errorf("conflict detection failed: %w", err)
	}
	if len(conflicts) > 0 {
		logger.Info("Signup has schedule conflicts, awaiting caller decision",
			zap.String("volunteer_id", volunteerID),
			zap.String("shift_id", shiftID),
			zap.Int("conflicts", len(conflicts)))
		return &SignupResult{Outcome: OutcomeConflictFound, Conflicts: conflicts}, nil
	}

	assessment, err := quota.Evaluate(active.counted, *shift, quotaCeiling)
	if err != nil {
		return nil, fmt.Errorf("quota evaluation failed: %w", err)
	}
	if assessment.Exceeds {
		logger.Info("Signup would exceed hour quota, awaiting caller decision",
			zap.String("volunteer_id", volunteerID),
			zap.String("shift_id", shiftID),
			zap.Float64("projected_hours", assessment.ProjectedHours))
		return &SignupResult{Outcome: OutcomeQuotaExceeded, Quota: assessment}, nil
	}

	return commitSignup(ctx, store, logger, volunteerID, shiftID, assessment)
}

// ConfirmOverride completes a signup after the caller has explicitly accepted
// the advisory conflicts or quota overage. Hard validations are re-run; the
// advisories are not.
func ConfirmOverride(ctx context.Context, store SignupStore, logger *zap.Logger, volunteerID, shiftID string) (*SignupResult, error) {
	logger.Debug("Signup override confirmed",
		zap.String("volunteer_id", volunteerID),
		zap.String("shift_id", shiftID))

	if _, _, err := validateSignup(ctx, store, volunteerID, shiftID); err != nil {
		return nil, err
	}

	return commitSignup(ctx, store, logger, volunteerID, shiftID, quota.Assessment{})
}

// activeShifts splits a volunteer's active shifts for the two advisory
// checks: conflicts consider every non-cancelled signup, the quota only sums
// shifts the volunteer will actually work (no_show excluded).
type activeShifts struct {
	all     []db.Shift
	counted []db.Shift
}

// validateSignup applies the hard rejections and resolves the volunteer's
// active shifts for the advisory checks.
func validateSignup(ctx context.Context, store SignupStore, volunteerID, shiftID string) (*db.Shift, activeShifts, error) {
	shift, err := store.GetShift(ctx, shiftID)
	if err != nil {
		return nil, activeShifts{}, fmt.Errorf("failed to fetch shift: %w", err)
	}

	switch {
	case shift.Status == db.ShiftFull:
		return nil, activeShifts{}, ErrShiftFull
	case shift.Status != db.ShiftLive:
		return nil, activeShifts{}, ErrShiftNotOpen
	case shift.CurrentVolunteers >= shift.MaxVolunteers:
		return nil, activeShifts{}, ErrShiftFull
	}

	existing, err := store.FindActiveSignup(ctx, volunteerID, shiftID)
	if err != nil {
		return nil, activeShifts{}, fmt.Errorf("failed to look up existing signup: %w", err)
	}
	if existing != nil {
		return nil, activeShifts{}, ErrDuplicateSignup
	}

	active, err := resolveActiveShifts(ctx, store, volunteerID)
	if err != nil {
		return nil, activeShifts{}, err
	}

	return shift, active, nil
}

// commitSignup creates the signup and claims capacity as one unit. Losing the
// capacity race to a concurrent signup surfaces as ErrShiftFull.
func commitSignup(ctx context.Context, store SignupStore, logger *zap.Logger, volunteerID, shiftID string, assessment quota.Assessment) (*SignupResult, error) {
	signup := &db.Signup{
		ID:          uuid.New().String(),
		ShiftID:     shiftID,
		VolunteerID: volunteerID,
		Status:      db.SignupSignedUp,
		SignedUpAt:  time.Now(),
	}

	if err := store.CommitSignup(ctx, signup); err != nil {
		switch {
		case errors.Is(err, db.ErrCapacityExceeded):
			logger.Info("Signup lost capacity race",
				zap.String("volunteer_id", volunteerID),
				zap.String("shift_id", shiftID))
			return nil, ErrShiftFull
		case errors.Is(err, db.ErrDuplicateSignup):
			return nil, ErrDuplicateSignup
		}
		return nil, fmt.Errorf("failed to commit signup: %w", err)
	}

	logger.Info("Signup committed",
		zap.String("signup_id", signup.ID),
		zap.String("volunteer_id", volunteerID),
		zap.String("shift_id", shiftID))

	return &SignupResult{Outcome: OutcomeCommitted, Signup: signup, Quota: assessment}, nil
}

// CancelSignup cancels a signup and releases its place on the shift. The
// second cancel of the same signup returns ErrAlreadyCancelled and the shift
// counter is decremented exactly once.
func CancelSignup(ctx context.Context, store SignupStore, logger *zap.Logger, signupID string) (*db.Signup, error) {
	signup, err := store.ReleaseSignup(ctx, signupID)
	if err != nil {
		if errors.Is(err, db.ErrAlreadyCancelled) {
			return nil, ErrAlreadyCancelled
		}
		return nil, fmt.Errorf("failed to cancel signup: %w", err)
	}

	logger.Info("Signup cancelled",
		zap.String("signup_id", signupID),
		zap.String("shift_id", signup.ShiftID),
		zap.String("volunteer_id", signup.VolunteerID))

	return signup, nil
}

// AdvanceSignup moves a signup forward through signed_up -> confirmed ->
// checked_in, or to no_show. Checking in stamps the check-in time.
func AdvanceSignup(ctx context.Context, store SignupStore, logger *zap.Logger, signupID string, status db.SignupStatus) error {
	if status == db.SignupCancelled {
		// Cancellation must go through CancelSignup so capacity is released.
		return ErrInvalidTransition
	}

	if err := store.UpdateSignupStatus(ctx, signupID, status); err != nil {
		if errors.Is(err, db.ErrInvalidTransition) {
			return ErrInvalidTransition
		}
		return fmt.Errorf("failed to advance signup: %w", err)
	}

	if status == db.SignupCheckedIn {
		if err := store.MarkCheckedIn(ctx, signupID, time.Now()); err != nil {
			return fmt.Errorf("failed to stamp check-in time: %w", err)
		}
	}

	logger.Info("Signup status advanced",
		zap.String("signup_id", signupID),
		zap.String("status", string(status)))

	return nil
}

// resolveActiveShifts loads the shifts behind a volunteer's active signups,
// preserving signup order.
func resolveActiveShifts(ctx context.Context, store SignupStore, volunteerID string) (activeShifts, error) {
	signups, err := store.ListActiveSignups(ctx, volunteerID)
	if err != nil {
		return activeShifts{}, fmt.Errorf("failed to list active signups: %w", err)
	}

	var active activeShifts
	for _, signup := range signups {
		shift, err := store.GetShift(ctx, signup.ShiftID)
		if err != nil {
			return activeShifts{}, fmt.Errorf("failed to resolve shift %s: %w", signup.ShiftID, err)
		}
		active.all = append(active.all, *shift)
		if signup.Status != db.SignupNoShow {
			active.counted = append(active.counted, *shift)
		}
	}
	return active, nil
}
