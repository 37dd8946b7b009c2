package services

import (
	"context"
	"sync"
	"time"

	"github.com/mhollis/festival-crew/pkg/db"
)

// mockStore is an in-memory SignupStore and ShiftAdminStore. CommitSignup and
// ReleaseSignup follow the same conditional-update contract as the postgres
// store, guarded by a mutex, so the orchestrator's concurrency behaviour can
// be exercised without a database.
type mockStore struct {
	mu      sync.Mutex
	shifts  map[string]*db.Shift
	signups map[string]*db.Signup
}

func newMockStore() *mockStore {
	return &mockStore{
		shifts:  make(map[string]*db.Shift),
		signups: make(map[string]*db.Signup),
	}
}

func (m *mockStore) addShift(shift db.Shift) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := shift
	m.shifts[s.ID] = &s
}

func (m *mockStore) addSignup(signup db.Signup) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := signup
	m.signups[s.ID] = &s
}

func (m *mockStore) GetShift(_ context.Context, id string) (*db.Shift, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	shift, ok := m.shifts[id]
	if !ok {
		return nil, db.ErrNotFound
	}
	copied := *shift
	return &copied, nil
}

func (m *mockStore) ListShiftsByEvent(_ context.Context, eventID string) ([]db.Shift, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var shifts []db.Shift
	for _, shift := range m.shifts {
		if shift.EventID == eventID {
			shifts = append(shifts, *shift)
		}
	}
	return shifts, nil
}

func (m *mockStore) InsertShift(_ context.Context, shift *db.Shift) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *shift
	m.shifts[shift.ID] = &copied
	return nil
}

func (m *mockStore) SetShiftStatus(_ context.Context, id string, status db.ShiftStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	shift, ok := m.shifts[id]
	if !ok {
		return db.ErrNotFound
	}
	shift.Status = status
	return nil
}

func (m *mockStore) GetSignup(_ context.Context, id string) (*db.Signup, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	signup, ok := m.signups[id]
	if !ok {
		return nil, db.ErrNotFound
	}
	copied := *signup
	return &copied, nil
}

func (m *mockStore) FindActiveSignup(_ context.Context, volunteerID, shiftID string) (*db.Signup, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, signup := range m.signups {
		if signup.VolunteerID == volunteerID && signup.ShiftID == shiftID && signup.Active() {
			copied := *signup
			return &copied, nil
		}
	}
	return nil, nil
}

func (m *mockStore) ListActiveSignups(_ context.Context, volunteerID string) ([]db.Signup, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var signups []db.Signup
	for _, signup := range m.signups {
		if signup.VolunteerID == volunteerID && signup.Active() {
			signups = append(signups, *signup)
		}
	}
	return signups, nil
}

func (m *mockStore) CommitSignup(_ context.Context, signup *db.Signup) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.signups {
		if existing.VolunteerID == signup.VolunteerID && existing.ShiftID == signup.ShiftID && existing.Active() {
			return db.ErrDuplicateSignup
		}
	}

	shift, ok := m.shifts[signup.ShiftID]
	if !ok {
		return db.ErrNotFound
	}
	if shift.Status != db.ShiftLive || shift.CurrentVolunteers >= shift.MaxVolunteers {
		return db.ErrCapacityExceeded
	}

	shift.CurrentVolunteers++
	if shift.CurrentVolunteers >= shift.MaxVolunteers {
		shift.Status = db.ShiftFull
	}

	copied := *signup
	m.signups[signup.ID] = &copied
	return nil
}

func (m *mockStore) ReleaseSignup(_ context.Context, id string) (*db.Signup, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	signup, ok := m.signups[id]
	if !ok {
		return nil, db.ErrNotFound
	}
	if signup.Status == db.SignupCancelled {
		return nil, db.ErrAlreadyCancelled
	}

	signup.Status = db.SignupCancelled
	if shift, ok := m.shifts[signup.ShiftID]; ok {
		if shift.CurrentVolunteers > 0 {
			shift.CurrentVolunteers--
		}
		if shift.Status == db.ShiftFull && shift.CurrentVolunteers < shift.MaxVolunteers {
			shift.Status = db.ShiftLive
		}
	}

	copied := *signup
	return &copied, nil
}

func (m *mockStore) UpdateSignupStatus(_ context.Context, id string, status db.SignupStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	signup, ok := m.signups[id]
	if !ok {
		return db.ErrNotFound
	}
	if !db.CanTransition(signup.Status, status) {
		return db.ErrInvalidTransition
	}
	signup.Status = status
	return nil
}

func (m *mockStore) MarkCheckedIn(_ context.Context, id string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	signup, ok := m.signups[id]
	if !ok {
		return db.ErrNotFound
	}
	signup.CheckedInAt = &at
	return nil
}
