package scheduler

import (
	"context"
	"fmt"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/mhollis/festival-crew/pkg/db"
)

// cooldownGate enforces "at most one message per recipient per condition
// type within the cooldown window". The durable notification log is the
// source of truth; an in-process cache short-circuits repeat lookups within
// a tick and across adjacent ticks.
type cooldownGate struct {
	log   db.NotificationLogStore
	cache *gocache.Cache
	now   func() time.Time
}

func newCooldownGate(log db.NotificationLogStore, now func() time.Time) *cooldownGate {
	return &cooldownGate{
		log:   log,
		cache: gocache.New(gocache.NoExpiration, 10*time.Minute),
		now:   now,
	}
}

// sendIfDue runs send unless a message of this type went to the recipient
// within the cooldown. It records the dispatch only when send succeeds, so a
// failed send retries on the next tick. Returns whether a message went out.
func (g *cooldownGate) sendIfDue(ctx context.Context, recipientID, notificationType string, cooldown time.Duration, send func() error) (bool, error) {
	key := recipientID + "|" + notificationType
	now := g.now()

	if cached, ok := g.cache.Get(key); ok {
		if lastSent, ok := cached.(time.Time); ok && now.Sub(lastSent) < cooldown {
			return false, nil
		}
	}

	lastSent, err := g.log.LastSent(ctx, recipientID, notificationType)
	if err != nil {
		return false, fmt.Errorf("failed to check notification log: %w", err)
	}
	if lastSent != nil {
		g.cache.Set(key, *lastSent, cooldown)
		if now.Sub(*lastSent) < cooldown {
			return false, nil
		}
	}

	if err := send(); err != nil {
		return false, err
	}

	if err := g.log.RecordSent(ctx, recipientID, notificationType, now); err != nil {
		return true, fmt.Errorf("message sent but failed to record dispatch: %w", err)
	}
	g.cache.Set(key, now, cooldown)
	return true, nil
}
