package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/mhollis/festival-crew/pkg/db"
)

const shiftColumns = `id, event_id, title, to_char(date, 'YYYY-MM-DD'), start_time, end_time,
	max_volunteers, current_volunteers, status, role_type, check_in_required`

func scanShift(row pgx.Row) (*db.Shift, error) {
	var s db.Shift
	err := row.Scan(&s.ID, &s.EventID, &s.Title, &s.Date, &s.StartTime, &s.EndTime,
		&s.MaxVolunteers, &s.CurrentVolunteers, &s.Status, &s.RoleType, &s.CheckInRequired)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, db.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan shift: %w", err)
	}
	return &s, nil
}

func collectShifts(rows pgx.Rows) ([]db.Shift, error) {
	defer rows.Close()

	var shifts []db.Shift
	for rows.Next() {
		s, err := scanShift(rows)
		if err != nil {
			return nil, err
		}
		shifts = append(shifts, *s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating shifts: %w", err)
	}
	return shifts, nil
}

// GetShift retrieves a shift by ID
func (d *DB) GetShift(ctx context.Context, id string) (*db.Shift, error) {
	row := d.pool.QueryRow(ctx, `SELECT `+shiftColumns+` FROM shifts WHERE id = $1`, id)
	return scanShift(row)
}

// ListShiftsByEvent retrieves all shifts for an event ordered by date and start time
func (d *DB) ListShiftsByEvent(ctx context.Context, eventID string) ([]db.Shift, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT `+shiftColumns+`
		FROM shifts
		WHERE event_id = $1
		ORDER BY date, start_time
	`, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to query shifts: %w", err)
	}
	return collectShifts(rows)
}

// InsertShift inserts a new shift record
func (d *DB) InsertShift(ctx context.Context, shift *db.Shift) error {
	_, err := d.pool.Exec(ctx, `
		INSERT INTO shifts (id, event_id, title, date, start_time, end_time,
			max_volunteers, current_volunteers, status, role_type, check_in_required)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`, shift.ID, shift.EventID, shift.Title, shift.Date, shift.StartTime, shift.EndTime,
		shift.MaxVolunteers, shift.CurrentVolunteers, shift.Status, shift.RoleType, shift.CheckInRequired)
	if err != nil {
		return fmt.Errorf("failed to insert shift: %w", err)
	}
	return nil
}

// incrementFilledSQL is the atomic capacity check-and-claim. The WHERE clause
// rejects the update when the shift is not live or already at capacity, so
// concurrent signups can never overbook.
const incrementFilledSQL = `
	UPDATE shifts
	SET current_volunteers = current_volunteers + 1,
	    status = CASE WHEN current_volunteers + 1 >= max_volunteers THEN 'full' ELSE status END
	WHERE id = $1 AND status = 'live' AND current_volunteers < max_volunteers
	RETURNING ` + shiftColumns

// IncrementFilled atomically claims one place on the shift.
func (d *DB) IncrementFilled(ctx context.Context, id string) (*db.Shift, error) {
	shift, err := scanShift(d.pool.QueryRow(ctx, incrementFilledSQL, id))
	if errors.Is(err, db.ErrNotFound) {
		// No row matched: either the shift is missing or it has no capacity.
		if _, getErr := d.GetShift(ctx, id); getErr != nil {
			return nil, getErr
		}
		return nil, db.ErrCapacityExceeded
	}
	return shift, err
}

const decrementFilledSQL = `
	UPDATE shifts
	SET current_volunteers = GREATEST(current_volunteers - 1, 0),
	    status = CASE WHEN status = 'full' AND current_volunteers - 1 < max_volunteers THEN 'live' ELSE status END
	WHERE id = $1
	RETURNING ` + shiftColumns

// DecrementFilled releases one place on the shift, reverting full back to live.
func (d *DB) DecrementFilled(ctx context.Context, id string) (*db.Shift, error) {
	return scanShift(d.pool.QueryRow(ctx, decrementFilledSQL, id))
}

// SetShiftStatus sets the shift status. Organizer-driven transitions are not
// validated against the fill counter.
func (d *DB) SetShiftStatus(ctx context.Context, id string, status db.ShiftStatus) error {
	tag, err := d.pool.Exec(ctx, `UPDATE shifts SET status = $2 WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("failed to update shift status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return db.ErrNotFound
	}
	return nil
}
