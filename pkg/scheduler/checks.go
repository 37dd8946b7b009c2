package scheduler

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mhollis/festival-crew/pkg/db"
	"github.com/mhollis/festival-crew/pkg/timeutil"
)

// hourlyTick reminds every signed-up volunteer about shifts starting within
// the lead window, once per signup.
func (s *Scheduler) hourlyTick(ctx context.Context) error {
	now := s.now()
	lead := time.Duration(s.cfg.Scheduler.ReminderLeadMinutes) * time.Minute

	from := now.Format("15:04")
	to := now.Add(lead).Format("15:04")
	if now.Add(lead).Day() != now.Day() {
		// Window crosses midnight; shifts never do, so clamp to end of day.
		to = "24:00"
	}

	shifts, err := s.store.ListShiftsStartingBetween(ctx, now.Format("2006-01-02"), from, to)
	if err != nil {
		return fmt.Errorf("failed to list upcoming shifts: %w", err)
	}

	for _, shift := range shifts {
		signups, err := s.store.ListActiveSignupsForShift(ctx, shift.ID)
		if err != nil {
			s.logger.Error("Failed to list signups for shift",
				zap.String("shift_id", shift.ID), zap.Error(err))
			continue
		}

		for _, signup := range signups {
			if signup.ReminderSent {
				continue
			}
			s.sendShiftReminder(ctx, shift, signup)
		}
	}

	return nil
}

// sendShiftReminder dispatches one reminder and flags the signup. Failures
// are logged and left unflagged so the next tick retries.
func (s *Scheduler) sendShiftReminder(ctx context.Context, shift db.Shift, signup db.Signup) {
	volunteer, err := s.store.GetVolunteer(ctx, signup.VolunteerID)
	if err != nil {
		s.logger.Error("Failed to resolve volunteer for reminder",
			zap.String("volunteer_id", signup.VolunteerID), zap.Error(err))
		return
	}

	subject := fmt.Sprintf("Reminder: your %s shift starts at %s", shift.Title, shift.StartTime)
	body := fmt.Sprintf("Hi %s,\n\nYour shift %s on %s runs %s-%s.",
		volunteer.Name, shift.Title, shift.Date, shift.StartTime, shift.EndTime)
	if shift.CheckInRequired {
		body += "\n\nPlease check in with your team director when you arrive."
	}

	// Keyed per shift so reminders for different shifts do not gate each
	// other; the reminder_sent flag is the primary repeat guard.
	notificationType := typeShiftReminder + ":" + shift.ID
	sent, err := s.cooldowns.sendIfDue(ctx, volunteer.ID, notificationType, s.cfg.Scheduler.VolunteerCooldown(), func() error {
		return s.sender.Send(volunteer.Email, subject, body)
	})
	if err != nil {
		s.logger.Error("Failed to send shift reminder",
			zap.String("volunteer_id", volunteer.ID),
			zap.String("shift_id", shift.ID),
			zap.Error(err))
		return
	}
	if !sent {
		return
	}

	if err := s.store.MarkReminderSent(ctx, signup.ID, s.now()); err != nil {
		s.logger.Error("Failed to flag reminder as sent",
			zap.String("signup_id", signup.ID), zap.Error(err))
	}
}

// dailyTick runs the four daily scans: volunteer quota reminders, deadline
// reminders for both audiences, and the under-filled shift digest for
// organizers. Each scan is independent; one failing does not stop the rest.
func (s *Scheduler) dailyTick(ctx context.Context) error {
	if err := s.quotaReminderScan(ctx); err != nil {
		s.logger.Error("Quota reminder scan failed", zap.Error(err))
	}
	if err := s.deadlineReminderScan(ctx); err != nil {
		s.logger.Error("Deadline reminder scan failed", zap.Error(err))
	}
	if err := s.underfilledShiftScan(ctx); err != nil {
		s.logger.Error("Underfilled shift scan failed", zap.Error(err))
	}
	return nil
}

// quotaReminderScan nudges volunteers who are well short of their expected
// hours once the event is close.
func (s *Scheduler) quotaReminderScan(ctx context.Context) error {
	days, err := s.daysUntilEvent()
	if err != nil {
		return err
	}
	if days < 0 || days > s.cfg.Scheduler.QuotaReminderLeadDays {
		return nil
	}

	volunteers, err := s.store.ListVolunteers(ctx)
	if err != nil {
		return fmt.Errorf("failed to list volunteers: %w", err)
	}

	for _, volunteer := range volunteers {
		hours, err := s.committedHours(ctx, volunteer.ID)
		if err != nil {
			s.logger.Error("Failed to compute committed hours",
				zap.String("volunteer_id", volunteer.ID), zap.Error(err))
			continue
		}

		fraction := hours / s.cfg.QuotaCeilingHours
		if fraction >= s.cfg.Scheduler.QuotaMinFraction {
			continue
		}

		subject := "Volunteer shifts still need you"
		body := fmt.Sprintf("Hi %s,\n\nYou currently have %.1f of %.1f expected volunteer hours. The event starts in %d day(s); please pick up another shift.",
			volunteer.Name, hours, s.cfg.QuotaCeilingHours, days)

		s.dispatch(ctx, volunteer.ID, volunteer.Email, typeQuotaReminder, s.cfg.Scheduler.VolunteerCooldown(), subject, body)
	}

	return nil
}

// deadlineReminderScan sends reminders for configured deadlines coming up
// within each deadline's lead window.
func (s *Scheduler) deadlineReminderScan(ctx context.Context) error {
	today := dateOnly(s.now())

	for _, deadline := range s.cfg.Deadlines {
		due, err := time.Parse("2006-01-02", deadline.Date)
		if err != nil {
			s.logger.Error("Bad deadline date in config",
				zap.String("deadline", deadline.Name), zap.Error(err))
			continue
		}

		days := int(due.Sub(today).Hours() / 24)
		if days < 0 || days > deadline.LeadDays {
			continue
		}

		subject := fmt.Sprintf("Reminder: %s due %s", deadline.Name, deadline.Date)
		body := fmt.Sprintf("%s is due on %s (%d day(s) from today).", deadline.Name, deadline.Date, days)
		notificationType := typeDeadlineReminder + ":" + deadline.Name

		switch deadline.Audience {
		case "volunteers":
			volunteers, err := s.store.ListVolunteers(ctx)
			if err != nil {
				return fmt.Errorf("failed to list volunteers: %w", err)
			}
			for _, volunteer := range volunteers {
				s.dispatch(ctx, volunteer.ID, volunteer.Email, notificationType, s.cfg.Scheduler.VolunteerCooldown(), subject, body)
			}
		case "organizers":
			s.alertOrganizers(ctx, notificationType, subject, body)
		}
	}

	return nil
}

// underfilledShiftScan mails organizers a digest of live shifts in the near
// horizon that are below the fill threshold.
func (s *Scheduler) underfilledShiftScan(ctx context.Context) error {
	now := s.now()
	fromDate := now.Format("2006-01-02")
	toDate := now.AddDate(0, 0, s.cfg.Scheduler.UnderfillHorizonDays).Format("2006-01-02")

	shifts, err := s.store.ListUnderfilledShifts(ctx, fromDate, toDate, s.cfg.Scheduler.UnderfillThreshold)
	if err != nil {
		return fmt.Errorf("failed to list underfilled shifts: %w", err)
	}

	s.mu.Lock()
	s.criticalCount = len(shifts)
	s.mu.Unlock()

	if len(shifts) == 0 {
		return nil
	}

	var lines []string
	for _, shift := range shifts {
		lines = append(lines, fmt.Sprintf("- %s on %s %s-%s: %d/%d filled",
			shift.Title, shift.Date, shift.StartTime, shift.EndTime,
			shift.CurrentVolunteers, shift.MaxVolunteers))
	}

	subject := fmt.Sprintf("%d shift(s) critically under-filled", len(shifts))
	body := "The following shifts need volunteers:\n\n" + strings.Join(lines, "\n")
	s.alertOrganizers(ctx, typeUnderfilledAlert, subject, body)
	return nil
}

// immediateTick watches for acute problems close to the event: shifts nobody
// has claimed, and signups stuck unconfirmed past the staleness threshold.
// Organizers are alerted once either count passes the configured threshold.
func (s *Scheduler) immediateTick(ctx context.Context) error {
	now := s.now()
	fromDate := now.Format("2006-01-02")
	toDate := now.AddDate(0, 0, s.cfg.Scheduler.ZeroSignupHorizonDays).Format("2006-01-02")

	empty, err := s.store.ListShiftsWithoutSignups(ctx, fromDate, toDate)
	if err != nil {
		return fmt.Errorf("failed to list empty shifts: %w", err)
	}

	staleCutoff := now.Add(-time.Duration(s.cfg.Scheduler.PendingStalenessHours) * time.Hour)
	aging, err := s.store.ListAgingPendingSignups(ctx, staleCutoff)
	if err != nil {
		return fmt.Errorf("failed to list aging signups: %w", err)
	}

	s.mu.Lock()
	s.pendingCount = len(aging)
	s.mu.Unlock()

	threshold := s.cfg.Scheduler.AlertCountThreshold

	if len(empty) >= threshold {
		subject := fmt.Sprintf("%d upcoming shift(s) have no volunteers", len(empty))
		body := fmt.Sprintf("%d live shift(s) between %s and %s have zero signups.", len(empty), fromDate, toDate)
		s.alertOrganizers(ctx, typeZeroSignupAlert, subject, body)
	}

	if len(aging) >= threshold {
		subject := fmt.Sprintf("%d signup(s) awaiting confirmation", len(aging))
		body := fmt.Sprintf("%d signup(s) have been waiting for confirmation for more than %d hours.",
			len(aging), s.cfg.Scheduler.PendingStalenessHours)
		s.alertOrganizers(ctx, typePendingAlert, subject, body)
	}

	return nil
}

// alertOrganizers dispatches an alert to every configured organizer address,
// each gated by the organizer cooldown.
func (s *Scheduler) alertOrganizers(ctx context.Context, notificationType, subject, body string) {
	for _, email := range s.cfg.OrganizerEmails {
		s.dispatch(ctx, email, email, notificationType, s.cfg.Scheduler.OrganizerCooldown(), subject, body)
	}
}

// dispatch is the common per-recipient send path: cooldown gate, send, log.
// A failure affects only this recipient.
func (s *Scheduler) dispatch(ctx context.Context, recipientID, email, notificationType string, cooldown time.Duration, subject, body string) {
	sent, err := s.cooldowns.sendIfDue(ctx, recipientID, notificationType, cooldown, func() error {
		return s.sender.Send(email, subject, body)
	})
	if err != nil {
		s.logger.Error("Failed to dispatch notification",
			zap.String("recipient", recipientID),
			zap.String("type", notificationType),
			zap.Error(err))
		return
	}
	if sent {
		s.logger.Info("Notification dispatched",
			zap.String("recipient", recipientID),
			zap.String("type", notificationType))
	}
}

// committedHours sums the hours of a volunteer's active signups, excluding
// no-shows.
func (s *Scheduler) committedHours(ctx context.Context, volunteerID string) (float64, error) {
	signups, err := s.store.ListActiveSignups(ctx, volunteerID)
	if err != nil {
		return 0, err
	}

	var total float64
	for _, signup := range signups {
		if signup.Status == db.SignupNoShow {
			continue
		}
		shift, err := s.store.GetShift(ctx, signup.ShiftID)
		if err != nil {
			return 0, err
		}
		interval, err := timeutil.NewInterval(shift.StartTime, shift.EndTime)
		if err != nil {
			return 0, err
		}
		total += interval.Hours()
	}
	return total, nil
}

func (s *Scheduler) daysUntilEvent() (int, error) {
	start, err := time.Parse("2006-01-02", s.cfg.EventStartDate)
	if err != nil {
		return 0, fmt.Errorf("bad event start date %q: %w", s.cfg.EventStartDate, err)
	}
	return int(start.Sub(dateOnly(s.now())).Hours() / 24), nil
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
