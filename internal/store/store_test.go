package store_test

import (
	"context"
	"os"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/draftloop/draftloop/internal/db"
	"github.com/draftloop/draftloop/internal/db/migrations"
	"github.com/draftloop/draftloop/internal/dbpool"
	"github.com/draftloop/draftloop/internal/models"
	"github.com/draftloop/draftloop/internal/store"
)

// testEnv holds shared test infrastructure (single pool across all tests).
type testEnv struct {
	pool *dbpool.Pool
	log  *logrus.Logger
}

var sharedEnv *testEnv

func getTestEnv(t *testing.T) *testEnv {
	t.Helper()

	if sharedEnv != nil {
		return sharedEnv
	}

	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()

	pool, err := dbpool.NewPool(ctx, dbURL)
	if err != nil {
		t.Fatalf("connecting to test DB: %v", err)
	}

	log := logrus.New()
	log.SetLevel(logrus.ErrorLevel)

	if err := db.RunMigrations(ctx, pool, log, migrations.FS); err != nil {
		t.Fatalf("running migrations: %v", err)
	}

	sharedEnv = &testEnv{
		pool: pool,
		log:  log,
	}

	return sharedEnv
}

// setupTestStores returns stores over a shared pool. Each test creates its
// own derivatives; cleanup cascades through versions via the FK.
func setupTestStores(t *testing.T) (*store.DerivativeStore, *store.VersionStore, *store.AuditStore) {
	t.Helper()

	env := getTestEnv(t)
	base := store.Base{Pool: env.pool, Log: env.log}

	return store.NewDerivativeStore(base), store.NewVersionStore(base), store.NewAuditStore(base)
}

// createTestDerivative creates a derivative and registers cleanup.
func createTestDerivative(t *testing.T, derivatives *store.DerivativeStore, platform, title, content string) *models.Derivative {
	t.Helper()

	ctx := context.Background()

	d, err := derivatives.CreateDerivative(ctx, models.CreateDerivativeRequest{
		Platform: platform,
		Title:    title,
		Content:  content,
	})
	if err != nil {
		t.Fatalf("creating test derivative: %v", err)
	}

	t.Cleanup(func() {
		cleanCtx := context.Background()
		env := getTestEnv(t)
		env.pool.Exec(cleanCtx, "DELETE FROM audit_log WHERE entity_id = $1", d.ID.String()) //nolint:errcheck // best-effort cleanup
		env.pool.Exec(cleanCtx, "DELETE FROM derivatives WHERE id = $1", d.ID)               //nolint:errcheck // best-effort cleanup
	})

	return d
}
