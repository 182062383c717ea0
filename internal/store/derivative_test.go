package store_test

import (
	"context"
	"errors"
	"testing"

	"github.com/draftloop/draftloop/internal/models"
)

func TestDerivativeStore_CreateWithInitialVersion(t *testing.T) {
	derivatives, _, _ := setupTestStores(t)

	d := createTestDerivative(t, derivatives, "linkedin", "Launch post", "hello world")

	if d.Status != models.StatusDraft {
		t.Errorf("expected status draft, got %q", d.Status)
	}
	if d.CurrentVersion == nil {
		t.Fatal("expected initial version to be attached")
	}
	if d.CurrentVersion.VersionNumber != 1 {
		t.Errorf("expected version 1, got %d", d.CurrentVersion.VersionNumber)
	}
	if d.CurrentVersion.ChangeType != models.ChangeCreated {
		t.Errorf("expected change type created, got %q", d.CurrentVersion.ChangeType)
	}
	if !d.CurrentVersion.IsCurrent {
		t.Error("expected initial version to be current")
	}
}

func TestDerivativeStore_GetNotFound(t *testing.T) {
	derivatives, _, _ := setupTestStores(t)
	ctx := context.Background()

	_, err := derivatives.GetDerivative(ctx, "00000000-0000-0000-0000-0000000000ff")
	if !errors.Is(err, models.ErrDerivativeNotFound) {
		t.Fatalf("expected ErrDerivativeNotFound, got %v", err)
	}
}

func TestDerivativeStore_UpdateContentAppendsVersion(t *testing.T) {
	derivatives, versions, _ := setupTestStores(t)
	ctx := context.Background()

	d := createTestDerivative(t, derivatives, "twitter", "Thread", "first")

	content := "second"
	summary := "tightened wording"
	updated, err := derivatives.UpdateDerivative(ctx, d.ID.String(), models.UpdateDerivativeRequest{
		Content:       &content,
		ChangeSummary: &summary,
	})
	if err != nil {
		t.Fatalf("updating derivative: %v", err)
	}

	if updated.CurrentVersion == nil || updated.CurrentVersion.Content != "second" {
		t.Fatalf("expected new current content 'second', got %+v", updated.CurrentVersion)
	}
	if updated.CurrentVersion.ChangeType != models.ChangeEdited {
		t.Errorf("expected change type edited, got %q", updated.CurrentVersion.ChangeType)
	}

	all, err := versions.GetVersions(ctx, d.ID.String())
	if err != nil {
		t.Fatalf("listing versions: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("expected content update to append a version, got %d versions", len(all))
	}
}

func TestDerivativeStore_UpdateMetadataOnly(t *testing.T) {
	derivatives, versions, _ := setupTestStores(t)
	ctx := context.Background()

	d := createTestDerivative(t, derivatives, "twitter", "Thread", "first")

	status := models.StatusPublished
	updated, err := derivatives.UpdateDerivative(ctx, d.ID.String(), models.UpdateDerivativeRequest{
		Status: &status,
	})
	if err != nil {
		t.Fatalf("updating derivative: %v", err)
	}

	if updated.Status != models.StatusPublished {
		t.Errorf("expected status published, got %q", updated.Status)
	}
	if updated.PublishedAt == nil {
		t.Error("expected published_at to be set on publish")
	}

	all, err := versions.GetVersions(ctx, d.ID.String())
	if err != nil {
		t.Fatalf("listing versions: %v", err)
	}
	if len(all) != 1 {
		t.Errorf("metadata-only update must not append versions, got %d", len(all))
	}
}

func TestDerivativeStore_ListFilters(t *testing.T) {
	derivatives, _, _ := setupTestStores(t)
	ctx := context.Background()

	createTestDerivative(t, derivatives, "platform-list-test", "A", "a")
	createTestDerivative(t, derivatives, "platform-list-test", "B", "b")

	list, hasMore, err := derivatives.ListDerivatives(ctx, "platform-list-test", "", 1, 0)
	if err != nil {
		t.Fatalf("listing derivatives: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("expected 1 derivative with limit 1, got %d", len(list))
	}
	if !hasMore {
		t.Error("expected has_more with a second matching row")
	}

	list, _, err = derivatives.ListDerivatives(ctx, "no-such-platform", "", 50, 0)
	if err != nil {
		t.Fatalf("listing derivatives: %v", err)
	}
	if len(list) != 0 {
		t.Errorf("expected empty list for unknown platform, got %d", len(list))
	}
}

func TestDerivativeStore_DeleteCascadesVersions(t *testing.T) {
	derivatives, versions, _ := setupTestStores(t)
	ctx := context.Background()

	d := createTestDerivative(t, derivatives, "blog", "Post", "v1")

	if err := derivatives.DeleteDerivative(ctx, d.ID.String()); err != nil {
		t.Fatalf("deleting derivative: %v", err)
	}

	if _, err := derivatives.GetDerivative(ctx, d.ID.String()); !errors.Is(err, models.ErrDerivativeNotFound) {
		t.Errorf("expected ErrDerivativeNotFound after delete, got %v", err)
	}

	all, err := versions.GetVersions(ctx, d.ID.String())
	if err != nil {
		t.Fatalf("listing versions: %v", err)
	}
	if len(all) != 0 {
		t.Errorf("expected version chain to cascade on delete, got %d rows", len(all))
	}
}
