package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/mhollis/festival-crew/pkg/db"
)

// ListShiftsStartingBetween returns live and full shifts on the given date
// whose start time falls in [from, to). Times are "HH:MM" strings, which
// compare correctly as text.
func (d *DB) ListShiftsStartingBetween(ctx context.Context, date, from, to string) ([]db.Shift, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT `+shiftColumns+`
		FROM shifts
		WHERE date = $1 AND start_time >= $2 AND start_time < $3
		  AND status IN ('live', 'full')
		ORDER BY start_time
	`, date, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query upcoming shifts: %w", err)
	}
	return collectShifts(rows)
}

// ListUnderfilledShifts returns live shifts in the date range whose fill
// fraction is strictly below the threshold.
func (d *DB) ListUnderfilledShifts(ctx context.Context, fromDate, toDate string, threshold float64) ([]db.Shift, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT `+shiftColumns+`
		FROM shifts
		WHERE date >= $1 AND date <= $2 AND status = 'live'
		  AND current_volunteers::float / max_volunteers < $3
		ORDER BY date, start_time
	`, fromDate, toDate, threshold)
	if err != nil {
		return nil, fmt.Errorf("failed to query underfilled shifts: %w", err)
	}
	return collectShifts(rows)
}

// ListShiftsWithoutSignups returns live shifts in the date range that nobody
// has claimed yet.
func (d *DB) ListShiftsWithoutSignups(ctx context.Context, fromDate, toDate string) ([]db.Shift, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT `+shiftColumns+`
		FROM shifts
		WHERE date >= $1 AND date <= $2 AND status = 'live' AND current_volunteers = 0
		ORDER BY date, start_time
	`, fromDate, toDate)
	if err != nil {
		return nil, fmt.Errorf("failed to query empty shifts: %w", err)
	}
	return collectShifts(rows)
}

// ListAgingPendingSignups returns signups still awaiting confirmation whose
// signed_up_at is older than the cutoff.
func (d *DB) ListAgingPendingSignups(ctx context.Context, olderThan time.Time) ([]db.Signup, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT `+signupColumns+`
		FROM signups
		WHERE status = 'signed_up' AND signed_up_at < $1
		ORDER BY signed_up_at
	`, olderThan)
	if err != nil {
		return nil, fmt.Errorf("failed to query pending signups: %w", err)
	}
	return collectSignups(rows)
}
