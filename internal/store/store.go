// Package store provides focused, single-concern data access stores
// for the draftloop content pipeline.
//
// Each store owns one domain (derivatives, versions, audit) and embeds
// shared helpers (Pool, logger) via the Base struct. Stores never import
// each other — shared logic lives in this file or in package-level helpers
// callable within a caller's transaction.
package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/draftloop/draftloop/internal/dbpool"
	"github.com/sirupsen/logrus"
)

const defaultQueryTimeout = 30 * time.Second

// maxListLimit caps paginated list queries.
const maxListLimit = 1000

// Base contains shared dependencies for all stores.
// Embed this in each store struct.
type Base struct {
	Pool *dbpool.Pool
	Log  *logrus.Logger
}

// withTimeout creates a context with the default query timeout.
func withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, defaultQueryTimeout)
}

// beginReadTx starts a read-only transaction.
func (b *Base) beginReadTx(ctx context.Context) (pgx.Tx, error) {
	return b.Pool.BeginTx(ctx, pgx.TxOptions{AccessMode: pgx.ReadOnly})
}

// notify sends a pg_notify on the content_changes channel (best-effort, post-commit).
func (b *Base) notify(eventType, entityID string) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	payload, _ := json.Marshal(map[string]any{ //nolint:errcheck // static keys, cannot fail.
		"type":      eventType,
		"entity_id": entityID,
	})
	if _, err := b.Pool.Exec(ctx, "SELECT pg_notify('content_changes', $1)", string(payload)); err != nil {
		b.Log.WithError(err).Warn("failed to send " + eventType + " notification")
	}
}
