package service

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/draftloop/draftloop/internal/models"
)

var testDerivativeID = uuid.MustParse("11111111-1111-1111-1111-111111111111")

func newTestVersionService(store *mockVersionStore, auditor *mockAuditor, t *testing.T) *VersionService {
	t.Helper()

	log := logrus.New()
	log.SetLevel(logrus.ErrorLevel)

	aw := NewAuditWorker(auditor, log, 100)
	ctx, cancel := context.WithCancel(context.Background())
	go aw.Run(ctx)
	t.Cleanup(cancel)

	return NewVersionService(store, aw, log)
}

// waitForAudit polls until the auditor has n calls or the deadline passes.
func waitForAudit(t *testing.T, auditor *mockAuditor, n int) []auditCall {
	t.Helper()

	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		calls := auditor.getCalls()
		if len(calls) >= n {
			return calls
		}
		time.Sleep(5 * time.Millisecond)
	}

	t.Fatalf("timed out waiting for %d audit calls, have %d", n, len(auditor.getCalls()))
	return nil
}

func TestVersionService_Rollback(t *testing.T) {
	target := &models.DerivativeVersion{
		ID:            7,
		DerivativeID:  testDerivativeID,
		VersionNumber: 2,
		Content:       "old words",
		ChangeType:    models.ChangeEdited,
		CreatedAt:     time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}

	var captured models.CreateVersionRequest
	store := &mockVersionStore{
		getVersion: func(_ context.Context, versionID int64) (*models.DerivativeVersion, error) {
			if versionID != 7 {
				return nil, models.ErrVersionNotFound
			}
			return target, nil
		},
		createVersion: func(_ context.Context, req models.CreateVersionRequest) (*models.DerivativeVersion, error) {
			captured = req
			return &models.DerivativeVersion{
				ID:            12,
				DerivativeID:  testDerivativeID,
				VersionNumber: 5,
				Content:       req.Content,
				ChangeType:    req.ChangeType,
				IsCurrent:     true,
			}, nil
		},
	}
	auditor := &mockAuditor{}
	svc := newTestVersionService(store, auditor, t)

	v, err := svc.Rollback(context.Background(), models.RollbackRequest{
		DerivativeID:    testDerivativeID.String(),
		TargetVersionID: 7,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if v.VersionNumber != 5 {
		t.Errorf("new version number = %d, want 5", v.VersionNumber)
	}
	if captured.Content != "old words" {
		t.Errorf("rollback content = %q, want target content", captured.Content)
	}
	if captured.ChangeType != models.ChangeRollback {
		t.Errorf("change type = %q, want rollback", captured.ChangeType)
	}
	if captured.ChangeSummary == nil || *captured.ChangeSummary != "Rolled back to version 2" {
		t.Errorf("change summary = %v, want 'Rolled back to version 2'", captured.ChangeSummary)
	}

	calls := waitForAudit(t, auditor, 1)
	if calls[0].Action != "derivative.version.rollback" {
		t.Errorf("audit action = %q", calls[0].Action)
	}
}

func TestVersionService_Rollback_WrongDerivative(t *testing.T) {
	store := &mockVersionStore{
		getVersion: func(_ context.Context, _ int64) (*models.DerivativeVersion, error) {
			return &models.DerivativeVersion{
				ID:           7,
				DerivativeID: uuid.MustParse("22222222-2222-2222-2222-222222222222"),
			}, nil
		},
	}
	svc := newTestVersionService(store, &mockAuditor{}, t)

	_, err := svc.Rollback(context.Background(), models.RollbackRequest{
		DerivativeID:    testDerivativeID.String(),
		TargetVersionID: 7,
	})
	if !errors.Is(err, models.ErrVersionNotFound) {
		t.Fatalf("expected ErrVersionNotFound, got %v", err)
	}
}

func TestVersionService_CompareVersions(t *testing.T) {
	versions := map[int64]*models.DerivativeVersion{
		1: {ID: 1, DerivativeID: testDerivativeID, Content: "the quick brown fox"},
		2: {ID: 2, DerivativeID: testDerivativeID, Content: "the slow brown wolf"},
	}
	store := &mockVersionStore{
		getVersion: func(_ context.Context, versionID int64) (*models.DerivativeVersion, error) {
			v, ok := versions[versionID]
			if !ok {
				return nil, models.ErrVersionNotFound
			}
			return v, nil
		},
	}
	svc := newTestVersionService(store, &mockAuditor{}, t)

	cmp, err := svc.CompareVersions(context.Background(), 1, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got, want := cmp.Added, []string{"slow", "wolf"}; !reflect.DeepEqual(got, want) {
		t.Errorf("added = %v, want %v", got, want)
	}
	if got, want := cmp.Removed, []string{"quick", "fox"}; !reflect.DeepEqual(got, want) {
		t.Errorf("removed = %v, want %v", got, want)
	}
	if !cmp.Modified {
		t.Error("modified = false, want true")
	}
}

func TestVersionService_CompareVersions_Identical(t *testing.T) {
	store := &mockVersionStore{
		getVersion: func(_ context.Context, versionID int64) (*models.DerivativeVersion, error) {
			return &models.DerivativeVersion{ID: versionID, Content: "same words here"}, nil
		},
	}
	svc := newTestVersionService(store, &mockAuditor{}, t)

	cmp, err := svc.CompareVersions(context.Background(), 1, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(cmp.Added) != 0 || len(cmp.Removed) != 0 {
		t.Errorf("expected empty deltas, got added=%v removed=%v", cmp.Added, cmp.Removed)
	}
	if cmp.Modified {
		t.Error("modified = true for identical content")
	}
}

func TestWordDelta(t *testing.T) {
	tests := []struct {
		name    string
		have    string
		against string
		want    []string
	}{
		{
			name:    "simple difference",
			have:    "alpha beta gamma",
			against: "alpha",
			want:    []string{"beta", "gamma"},
		},
		{
			name:    "repeated words deduplicated",
			have:    "new new new old",
			against: "old",
			want:    []string{"new"},
		},
		{
			name:    "reordering is invisible",
			have:    "b a",
			against: "a b",
			want:    []string{},
		},
		{
			name:    "empty have",
			have:    "",
			against: "anything",
			want:    []string{},
		},
		{
			name:    "empty against",
			have:    "one two",
			against: "",
			want:    []string{"one", "two"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := wordDelta(tc.have, tc.against)
			if !reflect.DeepEqual(got, tc.want) {
				t.Errorf("wordDelta(%q, %q) = %v, want %v", tc.have, tc.against, got, tc.want)
			}
		})
	}
}

func TestVersionService_DeleteVersion(t *testing.T) {
	store := &mockVersionStore{
		deleteVersion: func(_ context.Context, versionID int64) (*models.DerivativeVersion, error) {
			return &models.DerivativeVersion{
				ID:            versionID,
				DerivativeID:  testDerivativeID,
				VersionNumber: 3,
			}, nil
		},
	}
	auditor := &mockAuditor{}
	svc := newTestVersionService(store, auditor, t)

	if err := svc.DeleteVersion(context.Background(), 9, "reviewer"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	calls := waitForAudit(t, auditor, 1)
	if calls[0].Action != "derivative.version.deleted" {
		t.Errorf("audit action = %q", calls[0].Action)
	}
	if calls[0].Actor != "reviewer" {
		t.Errorf("audit actor = %q, want reviewer", calls[0].Actor)
	}
}

func TestVersionService_DeleteVersion_Current(t *testing.T) {
	store := &mockVersionStore{
		deleteVersion: func(_ context.Context, _ int64) (*models.DerivativeVersion, error) {
			return nil, models.ErrCurrentVersion
		},
	}
	auditor := &mockAuditor{}
	svc := newTestVersionService(store, auditor, t)

	err := svc.DeleteVersion(context.Background(), 9, "")
	if !errors.Is(err, models.ErrCurrentVersion) {
		t.Fatalf("expected ErrCurrentVersion, got %v", err)
	}

	time.Sleep(20 * time.Millisecond)
	if len(auditor.getCalls()) != 0 {
		t.Error("audit recorded for failed delete")
	}
}

func TestVersionService_PurgeOldVersions(t *testing.T) {
	var gotKeep int
	store := &mockVersionStore{
		purge: func(_ context.Context, _ string, keepCount int) (int, error) {
			gotKeep = keepCount
			return 4, nil
		},
	}
	auditor := &mockAuditor{}
	svc := newTestVersionService(store, auditor, t)

	deleted, err := svc.PurgeOldVersions(context.Background(), testDerivativeID.String(), 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if deleted != 4 {
		t.Errorf("deleted = %d, want 4", deleted)
	}
	if gotKeep != 10 {
		t.Errorf("keep count = %d, want 10", gotKeep)
	}

	calls := waitForAudit(t, auditor, 1)
	if calls[0].Action != "derivative.version.purged" {
		t.Errorf("audit action = %q", calls[0].Action)
	}
}

func TestVersionService_PurgeOldVersions_NothingDeleted(t *testing.T) {
	store := &mockVersionStore{
		purge: func(_ context.Context, _ string, _ int) (int, error) {
			return 0, nil
		},
	}
	auditor := &mockAuditor{}
	svc := newTestVersionService(store, auditor, t)

	deleted, err := svc.PurgeOldVersions(context.Background(), testDerivativeID.String(), 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if deleted != 0 {
		t.Errorf("deleted = %d, want 0", deleted)
	}

	// No audit event for a no-op purge.
	time.Sleep(20 * time.Millisecond)
	if len(auditor.getCalls()) != 0 {
		t.Error("audit recorded for no-op purge")
	}
}

func TestVersionService_CreateVersion_Audit(t *testing.T) {
	author := "writer"
	store := &mockVersionStore{
		createVersion: func(_ context.Context, req models.CreateVersionRequest) (*models.DerivativeVersion, error) {
			return &models.DerivativeVersion{
				ID:            21,
				DerivativeID:  testDerivativeID,
				VersionNumber: 3,
				Content:       req.Content,
				ChangeType:    req.ChangeType,
				ChangedBy:     req.ChangedBy,
				IsCurrent:     true,
			}, nil
		},
	}
	auditor := &mockAuditor{}
	svc := newTestVersionService(store, auditor, t)

	_, err := svc.CreateVersion(context.Background(), models.CreateVersionRequest{
		DerivativeID: testDerivativeID.String(),
		Content:      "fresh draft",
		ChangeType:   models.ChangeEdited,
		ChangedBy:    &author,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	calls := waitForAudit(t, auditor, 1)
	if calls[0].Action != "derivative.version.created" {
		t.Errorf("audit action = %q", calls[0].Action)
	}
	if calls[0].Actor != "writer" {
		t.Errorf("audit actor = %q, want writer", calls[0].Actor)
	}
	if calls[0].EntityID != "21" {
		t.Errorf("audit entity_id = %q, want 21", calls[0].EntityID)
	}
}
