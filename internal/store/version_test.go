package store_test

import (
	"context"
	"errors"
	"testing"

	"github.com/draftloop/draftloop/internal/models"
)

func TestVersionStore_CreateFlipsCurrent(t *testing.T) {
	derivatives, versions, _ := setupTestStores(t)
	ctx := context.Background()

	d := createTestDerivative(t, derivatives, "linkedin", "Launch post", "first draft")

	v2, err := versions.CreateVersion(ctx, models.CreateVersionRequest{
		DerivativeID: d.ID.String(),
		Content:      "second draft",
		ChangeType:   models.ChangeEdited,
	})
	if err != nil {
		t.Fatalf("creating version: %v", err)
	}

	if v2.VersionNumber != 2 {
		t.Errorf("expected version 2, got %d", v2.VersionNumber)
	}
	if !v2.IsCurrent {
		t.Error("expected new version to be current")
	}
	if v2.CharacterCount != len("second draft") {
		t.Errorf("expected character count %d, got %d", len("second draft"), v2.CharacterCount)
	}

	all, err := versions.GetVersions(ctx, d.ID.String())
	if err != nil {
		t.Fatalf("listing versions: %v", err)
	}

	if len(all) != 2 {
		t.Fatalf("expected 2 versions, got %d", len(all))
	}

	current := 0
	for _, v := range all {
		if v.IsCurrent {
			current++
		}
	}
	if current != 1 {
		t.Errorf("expected exactly one current version, got %d", current)
	}
}

func TestVersionStore_CreateForMissingDerivative(t *testing.T) {
	_, versions, _ := setupTestStores(t)
	ctx := context.Background()

	_, err := versions.CreateVersion(ctx, models.CreateVersionRequest{
		DerivativeID: "00000000-0000-0000-0000-0000000000ff",
		Content:      "orphan",
		ChangeType:   models.ChangeEdited,
	})
	if !errors.Is(err, models.ErrDerivativeNotFound) {
		t.Fatalf("expected ErrDerivativeNotFound, got %v", err)
	}
}

func TestVersionStore_DeleteCurrentFails(t *testing.T) {
	derivatives, versions, _ := setupTestStores(t)
	ctx := context.Background()

	d := createTestDerivative(t, derivatives, "twitter", "Thread", "v1")

	_, err := versions.DeleteVersion(ctx, d.CurrentVersion.ID)
	if !errors.Is(err, models.ErrCurrentVersion) {
		t.Fatalf("expected ErrCurrentVersion, got %v", err)
	}
}

func TestVersionStore_DeleteOldVersion(t *testing.T) {
	derivatives, versions, _ := setupTestStores(t)
	ctx := context.Background()

	d := createTestDerivative(t, derivatives, "twitter", "Thread", "v1")
	v1ID := d.CurrentVersion.ID

	if _, err := versions.CreateVersion(ctx, models.CreateVersionRequest{
		DerivativeID: d.ID.String(),
		Content:      "v2",
		ChangeType:   models.ChangeEdited,
	}); err != nil {
		t.Fatalf("creating version: %v", err)
	}

	deleted, err := versions.DeleteVersion(ctx, v1ID)
	if err != nil {
		t.Fatalf("deleting version: %v", err)
	}
	if deleted.ID != v1ID {
		t.Errorf("expected deleted ID %d, got %d", v1ID, deleted.ID)
	}

	if _, err := versions.GetVersion(ctx, v1ID); !errors.Is(err, models.ErrVersionNotFound) {
		t.Errorf("expected ErrVersionNotFound after delete, got %v", err)
	}
}

func TestVersionStore_Purge(t *testing.T) {
	derivatives, versions, _ := setupTestStores(t)
	ctx := context.Background()

	d := createTestDerivative(t, derivatives, "blog", "Long post", "v1")

	for i := 2; i <= 6; i++ {
		if _, err := versions.CreateVersion(ctx, models.CreateVersionRequest{
			DerivativeID: d.ID.String(),
			Content:      "draft",
			ChangeType:   models.ChangeEdited,
		}); err != nil {
			t.Fatalf("creating version %d: %v", i, err)
		}
	}

	// keepCount=3: current v6 plus the 2 highest non-current (v5, v4).
	deleted, err := versions.PurgeOldVersions(ctx, d.ID.String(), 3)
	if err != nil {
		t.Fatalf("purging: %v", err)
	}
	if deleted != 3 {
		t.Errorf("expected 3 deleted, got %d", deleted)
	}

	all, err := versions.GetVersions(ctx, d.ID.String())
	if err != nil {
		t.Fatalf("listing versions: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 surviving versions, got %d", len(all))
	}
	if !all[0].IsCurrent || all[0].VersionNumber != 6 {
		t.Errorf("expected current v6 to survive, got v%d current=%v", all[0].VersionNumber, all[0].IsCurrent)
	}

	// Idempotent: a second purge with the same keepCount deletes nothing.
	deleted, err = versions.PurgeOldVersions(ctx, d.ID.String(), 3)
	if err != nil {
		t.Fatalf("second purge: %v", err)
	}
	if deleted != 0 {
		t.Errorf("expected 0 deleted on repeat purge, got %d", deleted)
	}
}

func TestVersionStore_StatsAndTimeline(t *testing.T) {
	derivatives, versions, _ := setupTestStores(t)
	ctx := context.Background()

	d := createTestDerivative(t, derivatives, "email", "Newsletter", "v1")

	if _, err := versions.CreateVersion(ctx, models.CreateVersionRequest{
		DerivativeID: d.ID.String(),
		Content:      "v2",
		ChangeType:   models.ChangeEdited,
	}); err != nil {
		t.Fatalf("creating version: %v", err)
	}

	stats, err := versions.GetVersionStats(ctx, d.ID.String())
	if err != nil {
		t.Fatalf("getting stats: %v", err)
	}
	if stats.TotalVersions != 2 {
		t.Errorf("expected 2 total versions, got %d", stats.TotalVersions)
	}
	if stats.ByChangeType[models.ChangeCreated] != 1 || stats.ByChangeType[models.ChangeEdited] != 1 {
		t.Errorf("unexpected change type breakdown: %v", stats.ByChangeType)
	}

	timeline, err := versions.GetVersionTimeline(ctx, d.ID.String())
	if err != nil {
		t.Fatalf("getting timeline: %v", err)
	}
	if len(timeline) != 2 {
		t.Fatalf("expected 2 timeline entries, got %d", len(timeline))
	}
	if timeline[0].VersionNumber != 1 || timeline[1].VersionNumber != 2 {
		t.Errorf("expected ascending version order, got %d then %d",
			timeline[0].VersionNumber, timeline[1].VersionNumber)
	}
	if !timeline[1].IsCurrent {
		t.Error("expected last timeline entry to be current")
	}
}
