package db

import "time"

// ShiftStatus is the lifecycle state of a shift.
type ShiftStatus string

const (
	ShiftDraft       ShiftStatus = "draft"
	ShiftLive        ShiftStatus = "live"
	ShiftFull        ShiftStatus = "full"
	ShiftUnpublished ShiftStatus = "unpublished"
	ShiftCancelled   ShiftStatus = "cancelled"
)

// SignupStatus is the lifecycle state of a volunteer's signup.
type SignupStatus string

const (
	SignupSignedUp  SignupStatus = "signed_up"
	SignupConfirmed SignupStatus = "confirmed"
	SignupCheckedIn SignupStatus = "checked_in"
	SignupNoShow    SignupStatus = "no_show"
	SignupCancelled SignupStatus = "cancelled"
)

// Shift represents a database shift record. Date is "2006-01-02", start and
// end times are "HH:MM" wall-clock values in the event's local timezone.
type Shift struct {
	ID                string
	EventID           string
	Title             string
	Date              string
	StartTime         string
	EndTime           string
	MaxVolunteers     int
	CurrentVolunteers int
	Status            ShiftStatus
	RoleType          string
	CheckInRequired   bool
}

// Signup represents a database signup record tying a volunteer to a shift.
type Signup struct {
	ID             string
	ShiftID        string
	VolunteerID    string
	Status         SignupStatus
	SignedUpAt     time.Time
	CheckedInAt    *time.Time
	ReminderSent   bool
	ReminderSentAt *time.Time
}

// Active reports whether the signup still claims a place on its shift.
func (s *Signup) Active() bool {
	return s.Status != SignupCancelled
}

// signupRank orders the forward-only progression signed_up -> confirmed ->
// checked_in. Terminal states have no rank.
var signupRank = map[SignupStatus]int{
	SignupSignedUp:  0,
	SignupConfirmed: 1,
	SignupCheckedIn: 2,
}

// CanTransition reports whether a signup may move from one status to another.
// Progression is forward-only; no_show and cancelled are reachable from any
// non-terminal state and are themselves terminal.
func CanTransition(from, to SignupStatus) bool {
	if from == SignupCancelled || from == SignupNoShow {
		return false
	}
	if to == SignupCancelled || to == SignupNoShow {
		return true
	}
	fromRank, ok := signupRank[from]
	if !ok {
		return false
	}
	toRank, ok := signupRank[to]
	if !ok {
		return false
	}
	return toRank > fromRank
}

// Volunteer represents a database volunteer record. Volunteers are managed
// elsewhere; the core only reads them as notification recipients.
type Volunteer struct {
	ID    string
	Name  string
	Email string
}

// NotificationRecord tracks the last time a given notification type was sent
// to a recipient. Owned by the scheduler for cooldown enforcement.
type NotificationRecord struct {
	RecipientID string
	Type        string
	SentAt      time.Time
}
