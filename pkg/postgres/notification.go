package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
)

// LastSent returns the most recent dispatch time for the recipient and
// notification type, or nil when nothing has been sent.
func (d *DB) LastSent(ctx context.Context, recipientID, notificationType string) (*time.Time, error) {
	var sentAt time.Time
	err := d.pool.QueryRow(ctx, `
		SELECT sent_at FROM notification_log
		WHERE recipient_id = $1 AND type = $2
		ORDER BY sent_at DESC
		LIMIT 1
	`, recipientID, notificationType).Scan(&sentAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query notification log: %w", err)
	}
	return &sentAt, nil
}

// RecordSent appends a dispatch record for cooldown enforcement.
func (d *DB) RecordSent(ctx context.Context, recipientID, notificationType string, at time.Time) error {
	_, err := d.pool.Exec(ctx, `
		INSERT INTO notification_log (recipient_id, type, sent_at) VALUES ($1, $2, $3)
	`, recipientID, notificationType, at)
	if err != nil {
		return fmt.Errorf("failed to record notification: %w", err)
	}
	return nil
}

// CountSentSince returns the number of notifications dispatched after the
// cutoff, across all recipients and types.
func (d *DB) CountSentSince(ctx context.Context, since time.Time) (int, error) {
	var count int
	err := d.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM notification_log WHERE sent_at > $1
	`, since).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count notifications: %w", err)
	}
	return count, nil
}
