// Package scheduler runs the periodic notification scans: shift reminders on
// an hourly cadence, quota/deadline/under-fill digests once a day, and
// near-term organizer alerts every few minutes. Every dispatch is gated by a
// per-recipient, per-type cooldown backed by the notification log.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/mhollis/festival-crew/internal/config"
	"github.com/mhollis/festival-crew/pkg/clients/mailclient"
	"github.com/mhollis/festival-crew/pkg/db"
)

// Cadence identifies one of the scheduler's three timer loops.
type Cadence string

const (
	CadenceHourly    Cadence = "hourly"
	CadenceDaily     Cadence = "daily"
	CadenceImmediate Cadence = "immediate"
)

// Notification condition types, keyed into the notification log.
const (
	typeShiftReminder    = "shift_reminder"
	typeQuotaReminder    = "quota_reminder"
	typeDeadlineReminder = "deadline_reminder"
	typeUnderfilledAlert = "underfilled_alert"
	typeZeroSignupAlert  = "zero_signup_alert"
	typePendingAlert     = "pending_review_alert"
)

// Store defines the database operations the scheduler needs
type Store interface {
	GetShift(ctx context.Context, id string) (*db.Shift, error)
	ListActiveSignups(ctx context.Context, volunteerID string) ([]db.Signup, error)
	ListActiveSignupsForShift(ctx context.Context, shiftID string) ([]db.Signup, error)
	MarkReminderSent(ctx context.Context, id string, at time.Time) error
	GetVolunteer(ctx context.Context, id string) (*db.Volunteer, error)
	ListVolunteers(ctx context.Context) ([]db.Volunteer, error)
	ListShiftsStartingBetween(ctx context.Context, date, from, to string) ([]db.Shift, error)
	ListUnderfilledShifts(ctx context.Context, fromDate, toDate string, threshold float64) ([]db.Shift, error)
	ListShiftsWithoutSignups(ctx context.Context, fromDate, toDate string) ([]db.Shift, error)
	ListAgingPendingSignups(ctx context.Context, olderThan time.Time) ([]db.Signup, error)
	db.NotificationLogStore
}

// Stats is a point-in-time snapshot of scheduler activity.
type Stats struct {
	EmailsSent24h      int
	CriticalShiftCount int
	PendingCount       int
	LastCheck          time.Time
}

// Scheduler owns the three notification timer loops. Construct with New,
// then Start; the zero value is not usable.
type Scheduler struct {
	store  Store
	sender mailclient.Sender
	cfg    *config.Config
	logger *zap.Logger

	cooldowns *cooldownGate
	now       func() time.Time

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	// inFlight serializes same-cadence ticks: a tick that would start while
	// the previous one of its cadence is still running is skipped.
	inFlight map[Cadence]*sync.Mutex

	mu            sync.Mutex
	started       bool
	lastCheck     time.Time
	lastDailyDate string
	criticalCount int
	pendingCount  int
}

// New creates a scheduler. It does not start any timers.
func New(store Store, sender mailclient.Sender, cfg *config.Config, logger *zap.Logger) *Scheduler {
	s := &Scheduler{
		store:  store,
		sender: sender,
		cfg:    cfg,
		logger: logger,
		now:    time.Now,
		inFlight: map[Cadence]*sync.Mutex{
			CadenceHourly:    {},
			CadenceDaily:     {},
			CadenceImmediate: {},
		},
	}
	// Indirect through s.now so tests can substitute the clock.
	s.cooldowns = newCooldownGate(store, func() time.Time { return s.now() })
	return s
}

// Start launches the three timer loops. Calling Start on a running scheduler
// is an error; Stop and a fresh Start restart it.
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return fmt.Errorf("scheduler already started")
	}

	s.ctx, s.cancel = context.WithCancel(context.Background())
	s.started = true

	s.wg.Add(3)
	go s.runTicker(CadenceHourly, s.cfg.Scheduler.HourlyInterval())
	go s.runTicker(CadenceImmediate, s.cfg.Scheduler.ImmediateInterval())
	go s.runDailyGate()

	s.logger.Info("Notification scheduler started",
		zap.Duration("hourly_interval", s.cfg.Scheduler.HourlyInterval()),
		zap.Duration("immediate_interval", s.cfg.Scheduler.ImmediateInterval()),
		zap.Int("daily_hour", s.cfg.Scheduler.DailyHour))
	return nil
}

// Stop cancels the timer loops and waits for in-flight ticks to finish.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return
	}
	s.started = false
	cancel := s.cancel
	s.mu.Unlock()

	cancel()
	s.wg.Wait()
	s.logger.Info("Notification scheduler stopped")
}

// ForceCheck runs one tick of the cadence synchronously, outside the timers.
// The daily cadence runs unconditionally, ignoring the configured hour.
func (s *Scheduler) ForceCheck(ctx context.Context, cadence Cadence) error {
	switch cadence {
	case CadenceHourly, CadenceDaily, CadenceImmediate:
	default:
		return fmt.Errorf("unknown cadence %q", cadence)
	}
	s.runTick(ctx, cadence)
	return nil
}

// Stats returns a snapshot of scheduler activity. The email count is read
// from the notification log so it survives restarts.
func (s *Scheduler) Stats(ctx context.Context) (Stats, error) {
	sent, err := s.store.CountSentSince(ctx, s.now().Add(-24*time.Hour))
	if err != nil {
		return Stats{}, fmt.Errorf("failed to count sent notifications: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return Stats{
		EmailsSent24h:      sent,
		CriticalShiftCount: s.criticalCount,
		PendingCount:       s.pendingCount,
		LastCheck:          s.lastCheck,
	}, nil
}

// runTicker drives a fixed-rate cadence. Ticks that would overlap the
// previous tick of the same cadence are skipped rather than queued.
func (s *Scheduler) runTicker(cadence Cadence, interval time.Duration) {
	defer s.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.ctx.Done():
			return
		case <-ticker.C:
			s.runTick(s.ctx, cadence)
		}
	}
}

// runDailyGate polls every minute and fires the daily tick once per day when
// the wall-clock hour matches the configured value.
func (s *Scheduler) runDailyGate() {
	defer s.wg.Done()

	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-s.ctx.Done():
			return
		case <-ticker.C:
			if s.dailyDue(s.now()) {
				s.runTick(s.ctx, CadenceDaily)
			}
		}
	}
}

// dailyDue reports whether the daily tick should fire now: the wall-clock
// hour matches the configured value and it has not already run today. A true
// result claims the day.
func (s *Scheduler) dailyDue(now time.Time) bool {
	if now.Hour() != s.cfg.Scheduler.DailyHour {
		return false
	}

	today := now.Format("2006-01-02")
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lastDailyDate == today {
		return false
	}
	s.lastDailyDate = today
	return true
}

// runTick executes one tick body with overlap protection and panic recovery.
// A failing or panicking tick never stops the timers.
func (s *Scheduler) runTick(ctx context.Context, cadence Cadence) {
	lock := s.inFlight[cadence]
	if !lock.TryLock() {
		s.logger.Warn("Previous tick still running, skipping",
			zap.String("cadence", string(cadence)))
		return
	}
	defer lock.Unlock()

	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("Tick panicked",
				zap.String("cadence", string(cadence)),
				zap.Any("panic", r))
		}
	}()

	s.logger.Debug("Tick starting", zap.String("cadence", string(cadence)))

	var err error
	switch cadence {
	case CadenceHourly:
		err = s.hourlyTick(ctx)
	case CadenceDaily:
		err = s.dailyTick(ctx)
	case CadenceImmediate:
		err = s.immediateTick(ctx)
	}
	if err != nil {
		s.logger.Error("Tick failed",
			zap.String("cadence", string(cadence)),
			zap.Error(err))
	}

	s.mu.Lock()
	s.lastCheck = s.now()
	s.mu.Unlock()
}
