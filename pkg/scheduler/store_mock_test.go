package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/mhollis/festival-crew/pkg/db"
)

// mockStore is an in-memory Store for scheduler tests.
type mockStore struct {
	mu         sync.Mutex
	shifts     map[string]db.Shift
	signups    map[string]db.Signup
	volunteers map[string]db.Volunteer
	sentLog    []db.NotificationRecord

	listShiftsErr error
}

func newMockStore() *mockStore {
	return &mockStore{
		shifts:     make(map[string]db.Shift),
		signups:    make(map[string]db.Signup),
		volunteers: make(map[string]db.Volunteer),
	}
}

func (m *mockStore) addShift(shift db.Shift) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.shifts[shift.ID] = shift
}

func (m *mockStore) addSignup(signup db.Signup) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.signups[signup.ID] = signup
}

func (m *mockStore) addVolunteer(v db.Volunteer) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.volunteers[v.ID] = v
}

func (m *mockStore) GetShift(ctx context.Context, id string) (*db.Shift, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	shift, ok := m.shifts[id]
	if !ok {
		return nil, db.ErrNotFound
	}
	return &shift, nil
}

func (m *mockStore) GetSignup(ctx context.Context, id string) (*db.Signup, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	signup, ok := m.signups[id]
	if !ok {
		return nil, db.ErrNotFound
	}
	return &signup, nil
}

func (m *mockStore) ListActiveSignups(ctx context.Context, volunteerID string) ([]db.Signup, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []db.Signup
	for _, s := range m.signups {
		if s.VolunteerID == volunteerID && s.Active() {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *mockStore) ListActiveSignupsForShift(ctx context.Context, shiftID string) ([]db.Signup, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []db.Signup
	for _, s := range m.signups {
		if s.ShiftID == shiftID && s.Active() {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *mockStore) MarkReminderSent(ctx context.Context, id string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	signup, ok := m.signups[id]
	if !ok {
		return db.ErrNotFound
	}
	signup.ReminderSent = true
	signup.ReminderSentAt = &at
	m.signups[id] = signup
	return nil
}

func (m *mockStore) GetVolunteer(ctx context.Context, id string) (*db.Volunteer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.volunteers[id]
	if !ok {
		return nil, db.ErrNotFound
	}
	return &v, nil
}

func (m *mockStore) ListVolunteers(ctx context.Context) ([]db.Volunteer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []db.Volunteer
	for _, v := range m.volunteers {
		out = append(out, v)
	}
	return out, nil
}

func (m *mockStore) ListShiftsStartingBetween(ctx context.Context, date, from, to string) ([]db.Shift, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listShiftsErr != nil {
		return nil, m.listShiftsErr
	}
	var out []db.Shift
	for _, s := range m.shifts {
		if s.Date != date {
			continue
		}
		if s.Status != db.ShiftLive && s.Status != db.ShiftFull {
			continue
		}
		if s.StartTime >= from && s.StartTime < to {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *mockStore) ListUnderfilledShifts(ctx context.Context, fromDate, toDate string, threshold float64) ([]db.Shift, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []db.Shift
	for _, s := range m.shifts {
		if s.Status != db.ShiftLive || s.Date < fromDate || s.Date > toDate {
			continue
		}
		if float64(s.CurrentVolunteers)/float64(s.MaxVolunteers) < threshold {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *mockStore) ListShiftsWithoutSignups(ctx context.Context, fromDate, toDate string) ([]db.Shift, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []db.Shift
	for _, s := range m.shifts {
		if s.Status == db.ShiftLive && s.Date >= fromDate && s.Date <= toDate && s.CurrentVolunteers == 0 {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *mockStore) ListAgingPendingSignups(ctx context.Context, olderThan time.Time) ([]db.Signup, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []db.Signup
	for _, s := range m.signups {
		if s.Status == db.SignupSignedUp && s.SignedUpAt.Before(olderThan) {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *mockStore) LastSent(ctx context.Context, recipientID, notificationType string) (*time.Time, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var latest *time.Time
	for _, rec := range m.sentLog {
		if rec.RecipientID != recipientID || rec.Type != notificationType {
			continue
		}
		if latest == nil || rec.SentAt.After(*latest) {
			at := rec.SentAt
			latest = &at
		}
	}
	return latest, nil
}

func (m *mockStore) RecordSent(ctx context.Context, recipientID, notificationType string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sentLog = append(m.sentLog, db.NotificationRecord{
		RecipientID: recipientID,
		Type:        notificationType,
		SentAt:      at,
	})
	return nil
}

func (m *mockStore) CountSentSince(ctx context.Context, since time.Time) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	count := 0
	for _, rec := range m.sentLog {
		if rec.SentAt.After(since) {
			count++
		}
	}
	return count, nil
}

// mockSender records outbound mail and can fail for chosen recipients.
type mockSender struct {
	mu      sync.Mutex
	sent    []sentMail
	failFor map[string]bool
}

type sentMail struct {
	to      string
	subject string
	body    string
}

func newMockSender() *mockSender {
	return &mockSender{failFor: make(map[string]bool)}
}

func (m *mockSender) Send(to, subject, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failFor[to] {
		return fmt.Errorf("smtp failure for %s", to)
	}
	m.sent = append(m.sent, sentMail{to: to, subject: subject, body: body})
	return nil
}

func (m *mockSender) sentTo(email string) []sentMail {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []sentMail
	for _, mail := range m.sent {
		if mail.to == email {
			out = append(out, mail)
		}
	}
	return out
}

func (m *mockSender) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sent)
}
