package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/mhollis/festival-crew/pkg/db"
)

const signupColumns = `id, shift_id, volunteer_id, status, signed_up_at,
	checked_in_at, reminder_sent, reminder_sent_at`

func scanSignup(row pgx.Row) (*db.Signup, error) {
	var s db.Signup
	err := row.Scan(&s.ID, &s.ShiftID, &s.VolunteerID, &s.Status, &s.SignedUpAt,
		&s.CheckedInAt, &s.ReminderSent, &s.ReminderSentAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, db.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan signup: %w", err)
	}
	return &s, nil
}

func collectSignups(rows pgx.Rows) ([]db.Signup, error) {
	defer rows.Close()

	var signups []db.Signup
	for rows.Next() {
		s, err := scanSignup(rows)
		if err != nil {
			return nil, err
		}
		signups = append(signups, *s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating signups: %w", err)
	}
	return signups, nil
}

// GetSignup retrieves a signup by ID
func (d *DB) GetSignup(ctx context.Context, id string) (*db.Signup, error) {
	row := d.pool.QueryRow(ctx, `SELECT `+signupColumns+` FROM signups WHERE id = $1`, id)
	return scanSignup(row)
}

// FindActiveSignup returns the volunteer's non-cancelled signup for the shift,
// or nil when there is none.
func (d *DB) FindActiveSignup(ctx context.Context, volunteerID, shiftID string) (*db.Signup, error) {
	row := d.pool.QueryRow(ctx, `
		SELECT `+signupColumns+`
		FROM signups
		WHERE volunteer_id = $1 AND shift_id = $2 AND status <> 'cancelled'
	`, volunteerID, shiftID)

	signup, err := scanSignup(row)
	if errors.Is(err, db.ErrNotFound) {
		return nil, nil
	}
	return signup, err
}

// ListActiveSignups retrieves all non-cancelled signups for a volunteer
func (d *DB) ListActiveSignups(ctx context.Context, volunteerID string) ([]db.Signup, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT `+signupColumns+`
		FROM signups
		WHERE volunteer_id = $1 AND status <> 'cancelled'
		ORDER BY signed_up_at
	`, volunteerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query signups: %w", err)
	}
	return collectSignups(rows)
}

// ListActiveSignupsForShift retrieves all non-cancelled signups for a shift
func (d *DB) ListActiveSignupsForShift(ctx context.Context, shiftID string) ([]db.Signup, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT `+signupColumns+`
		FROM signups
		WHERE shift_id = $1 AND status <> 'cancelled'
		ORDER BY signed_up_at
	`, shiftID)
	if err != nil {
		return nil, fmt.Errorf("failed to query signups for shift: %w", err)
	}
	return collectSignups(rows)
}

// UpdateSignupStatus applies a forward-only status transition.
func (d *DB) UpdateSignupStatus(ctx context.Context, id string, status db.SignupStatus) error {
	signup, err := d.GetSignup(ctx, id)
	if err != nil {
		return err
	}
	if !db.CanTransition(signup.Status, status) {
		return db.ErrInvalidTransition
	}

	// Guard against a concurrent transition between the read and the write.
	tag, err := d.pool.Exec(ctx, `
		UPDATE signups SET status = $2 WHERE id = $1 AND status = $3
	`, id, status, signup.Status)
	if err != nil {
		return fmt.Errorf("failed to update signup status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return db.ErrInvalidTransition
	}
	return nil
}

// MarkCheckedIn stamps the check-in time on a signup.
func (d *DB) MarkCheckedIn(ctx context.Context, id string, at time.Time) error {
	tag, err := d.pool.Exec(ctx, `
		UPDATE signups SET checked_in_at = $2 WHERE id = $1
	`, id, at)
	if err != nil {
		return fmt.Errorf("failed to mark signup checked in: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return db.ErrNotFound
	}
	return nil
}

// MarkReminderSent flags a signup as reminded so the hourly scan skips it.
func (d *DB) MarkReminderSent(ctx context.Context, id string, at time.Time) error {
	tag, err := d.pool.Exec(ctx, `
		UPDATE signups SET reminder_sent = TRUE, reminder_sent_at = $2 WHERE id = $1
	`, id, at)
	if err != nil {
		return fmt.Errorf("failed to mark reminder sent: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return db.ErrNotFound
	}
	return nil
}

// CommitSignup inserts the signup and claims a place on its shift in a single
// transaction, so a commit that loses the capacity race leaves no record.
func (d *DB) CommitSignup(ctx context.Context, signup *db.Signup) error {
	tx, err := d.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO signups (id, shift_id, volunteer_id, status, signed_up_at, reminder_sent)
		VALUES ($1, $2, $3, $4, $5, FALSE)
	`, signup.ID, signup.ShiftID, signup.VolunteerID, signup.Status, signup.SignedUpAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return db.ErrDuplicateSignup
		}
		return fmt.Errorf("failed to insert signup: %w", err)
	}

	if _, err := scanShift(tx.QueryRow(ctx, incrementFilledSQL, signup.ShiftID)); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return db.ErrCapacityExceeded
		}
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit signup transaction: %w", err)
	}
	return nil
}

// ReleaseSignup cancels the signup and releases its place on the shift in a
// single transaction. The conditional update makes repeated cancels decrement
// the counter exactly once.
func (d *DB) ReleaseSignup(ctx context.Context, id string) (*db.Signup, error) {
	tx, err := d.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	signup, err := scanSignup(tx.QueryRow(ctx, `
		UPDATE signups SET status = 'cancelled'
		WHERE id = $1 AND status <> 'cancelled'
		RETURNING `+signupColumns, id))
	if errors.Is(err, db.ErrNotFound) {
		if _, getErr := d.GetSignup(ctx, id); getErr != nil {
			return nil, getErr
		}
		return nil, db.ErrAlreadyCancelled
	}
	if err != nil {
		return nil, err
	}

	if _, err := scanShift(tx.QueryRow(ctx, decrementFilledSQL, signup.ShiftID)); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit cancel transaction: %w", err)
	}
	return signup, nil
}
