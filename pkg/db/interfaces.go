package db

import (
	"context"
	"time"
)

// ShiftStore defines the interface for shift database operations.
type ShiftStore interface {
	GetShift(ctx context.Context, id string) (*Shift, error)
	ListShiftsByEvent(ctx context.Context, eventID string) ([]Shift, error)
	InsertShift(ctx context.Context, shift *Shift) error
	// IncrementFilled atomically adds one volunteer to the shift's counter.
	// Fails with ErrCapacityExceeded when the shift is not live or already at
	// capacity; flips status to full when the counter reaches capacity.
	IncrementFilled(ctx context.Context, id string) (*Shift, error)
	// DecrementFilled removes one volunteer from the counter, flooring at
	// zero, and reverts a full shift back to live.
	DecrementFilled(ctx context.Context, id string) (*Shift, error)
	SetShiftStatus(ctx context.Context, id string, status ShiftStatus) error
}

// SignupStore defines the interface for signup database operations.
type SignupStore interface {
	GetSignup(ctx context.Context, id string) (*Signup, error)
	// FindActiveSignup returns the volunteer's non-cancelled signup for the
	// shift, or nil when there is none.
	FindActiveSignup(ctx context.Context, volunteerID, shiftID string) (*Signup, error)
	ListActiveSignups(ctx context.Context, volunteerID string) ([]Signup, error)
	ListActiveSignupsForShift(ctx context.Context, shiftID string) ([]Signup, error)
	UpdateSignupStatus(ctx context.Context, id string, status SignupStatus) error
	MarkCheckedIn(ctx context.Context, id string, at time.Time) error
	MarkReminderSent(ctx context.Context, id string, at time.Time) error
	// CommitSignup inserts the signup and increments the shift counter as one
	// transaction; the whole unit fails with ErrCapacityExceeded when the
	// shift fills concurrently.
	CommitSignup(ctx context.Context, signup *Signup) error
	// ReleaseSignup cancels the signup and decrements the shift counter as
	// one transaction, returning the cancelled record.
	ReleaseSignup(ctx context.Context, id string) (*Signup, error)
}

// VolunteerStore exposes the volunteer directory maintained outside the core.
type VolunteerStore interface {
	GetVolunteer(ctx context.Context, id string) (*Volunteer, error)
	ListVolunteers(ctx context.Context) ([]Volunteer, error)
}

// SchedulerStore defines the scan queries the notification scheduler runs on
// top of the shift and signup tables.
type SchedulerStore interface {
	// ListShiftsStartingBetween returns live and full shifts on the given
	// date whose start time falls in [from, to), both "HH:MM".
	ListShiftsStartingBetween(ctx context.Context, date, from, to string) ([]Shift, error)
	// ListUnderfilledShifts returns live shifts in the date range whose fill
	// fraction is strictly below the threshold.
	ListUnderfilledShifts(ctx context.Context, fromDate, toDate string, threshold float64) ([]Shift, error)
	// ListShiftsWithoutSignups returns live shifts in the date range with a
	// zero volunteer counter.
	ListShiftsWithoutSignups(ctx context.Context, fromDate, toDate string) ([]Shift, error)
	// ListAgingPendingSignups returns signups still in signed_up state whose
	// signed_up_at is older than the cutoff.
	ListAgingPendingSignups(ctx context.Context, olderThan time.Time) ([]Signup, error)
}

// NotificationLogStore records dispatch timestamps for cooldown enforcement.
type NotificationLogStore interface {
	// LastSent returns the most recent dispatch time for the recipient and
	// notification type, or nil when none is recorded.
	LastSent(ctx context.Context, recipientID, notificationType string) (*time.Time, error)
	RecordSent(ctx context.Context, recipientID, notificationType string, at time.Time) error
	// CountSentSince returns how many notifications of any type were
	// dispatched after the cutoff.
	CountSentSince(ctx context.Context, since time.Time) (int, error)
}

// Database combines every store the application uses.
type Database interface {
	ShiftStore
	SignupStore
	VolunteerStore
	SchedulerStore
	NotificationLogStore
}
