package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mhollis/festival-crew/pkg/db"
	"github.com/mhollis/festival-crew/pkg/timeutil"
)

// ShiftAdminStore defines the database operations for organizer shift management
type ShiftAdminStore interface {
	GetShift(ctx context.Context, id string) (*db.Shift, error)
	ListShiftsByEvent(ctx context.Context, eventID string) ([]db.Shift, error)
	InsertShift(ctx context.Context, shift *db.Shift) error
	SetShiftStatus(ctx context.Context, id string, status db.ShiftStatus) error
}

// NewShiftParams describes a shift to create.
type NewShiftParams struct {
	EventID         string
	Title           string
	Date            string
	StartTime       string
	EndTime         string
	MaxVolunteers   int
	RoleType        string
	CheckInRequired bool
	Publish         bool
}

// CreateShift validates and creates a shift, live when Publish is set and
// draft otherwise.
func CreateShift(ctx context.Context, store ShiftAdminStore, logger *zap.Logger, params NewShiftParams) (*db.Shift, error) {
	if params.MaxVolunteers <= 0 {
		return nil, fmt.Errorf("max volunteers must be positive, got %d", params.MaxVolunteers)
	}
	if _, err := timeutil.NewInterval(params.StartTime, params.EndTime); err != nil {
		return nil, err
	}

	status := db.ShiftDraft
	if params.Publish {
		status = db.ShiftLive
	}

	shift := &db.Shift{
		ID:              uuid.New().String(),
		EventID:         params.EventID,
		Title:           params.Title,
		Date:            params.Date,
		StartTime:       params.StartTime,
		EndTime:         params.EndTime,
		MaxVolunteers:   params.MaxVolunteers,
		Status:          status,
		RoleType:        params.RoleType,
		CheckInRequired: params.CheckInRequired,
	}

	if err := store.InsertShift(ctx, shift); err != nil {
		return nil, fmt.Errorf("failed to create shift: %w", err)
	}

	logger.Info("Shift created",
		zap.String("shift_id", shift.ID),
		zap.String("date", shift.Date),
		zap.String("status", string(shift.Status)))

	return shift, nil
}

// SetShiftStatus applies an organizer status transition. Shifts are never
// deleted, only cancelled; partially filled shifts may still be unpublished
// or cancelled.
func SetShiftStatus(ctx context.Context, store ShiftAdminStore, logger *zap.Logger, shiftID string, status db.ShiftStatus) error {
	switch status {
	case db.ShiftDraft, db.ShiftLive, db.ShiftUnpublished, db.ShiftCancelled:
	default:
		return fmt.Errorf("status %q cannot be set directly", status)
	}

	if err := store.SetShiftStatus(ctx, shiftID, status); err != nil {
		return fmt.Errorf("failed to set shift status: %w", err)
	}

	logger.Info("Shift status changed",
		zap.String("shift_id", shiftID),
		zap.String("status", string(status)))

	return nil
}

// ScheduleEntry pairs a signup with its shift for schedule views.
type ScheduleEntry struct {
	Signup db.Signup
	Shift  db.Shift
}

// ListVolunteerSchedule returns the volunteer's active signups resolved to
// their shifts, in signup order.
func ListVolunteerSchedule(ctx context.Context, store SignupStore, volunteerID string) ([]ScheduleEntry, error) {
	signups, err := store.ListActiveSignups(ctx, volunteerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list signups: %w", err)
	}

	entries := make([]ScheduleEntry, 0, len(signups))
	for _, signup := range signups {
		shift, err := store.GetShift(ctx, signup.ShiftID)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve shift %s: %w", signup.ShiftID, err)
		}
		entries = append(entries, ScheduleEntry{Signup: signup, Shift: *shift})
	}
	return entries, nil
}
