// Package service provides business logic between API handlers and data stores.
package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/draftloop/draftloop/internal/domain"
	"github.com/draftloop/draftloop/internal/metrics"
	"github.com/draftloop/draftloop/internal/models"
)

// VersionLedger is the data-access interface VersionService depends on.
// It differs from domain.VersionService where the store returns richer
// results (DeleteVersion returns the removed record for audit detail).
type VersionLedger interface {
	CreateVersion(ctx context.Context, req models.CreateVersionRequest) (*models.DerivativeVersion, error)
	GetVersions(ctx context.Context, derivativeID string) ([]models.DerivativeVersion, error)
	GetVersion(ctx context.Context, versionID int64) (*models.DerivativeVersion, error)
	DeleteVersion(ctx context.Context, versionID int64) (*models.DerivativeVersion, error)
	PurgeOldVersions(ctx context.Context, derivativeID string, keepCount int) (int, error)
	GetVersionStats(ctx context.Context, derivativeID string) (*models.VersionStats, error)
	GetVersionTimeline(ctx context.Context, derivativeID string) ([]models.TimelineEntry, error)
}

// Compile-time check: *VersionService must satisfy domain.VersionService.
var _ domain.VersionService = (*VersionService)(nil)

// VersionService wraps VersionLedger with rollback/compare logic and
// fire-and-forget audit events.
type VersionService struct {
	store       VersionLedger
	auditWorker AuditEnqueuer
	log         *logrus.Logger
}

// NewVersionService creates a VersionService.
func NewVersionService(store VersionLedger, auditWorker AuditEnqueuer, log *logrus.Logger) *VersionService {
	return &VersionService{store: store, auditWorker: auditWorker, log: log}
}

// entityVersion is the audit entity type for version rows.
const entityVersion = "derivative_version"

// CreateVersion appends a new version and emits a created event.
func (s *VersionService) CreateVersion(
	ctx context.Context, req models.CreateVersionRequest,
) (*models.DerivativeVersion, error) {
	v, err := s.store.CreateVersion(ctx, req)
	if err != nil {
		return nil, err
	}

	actor := ""
	if v.ChangedBy != nil {
		actor = *v.ChangedBy
	}

	detail := map[string]any{
		"derivative_id":  v.DerivativeID.String(),
		"version_number": v.VersionNumber,
		"change_type":    v.ChangeType,
	}
	if v.ChangeSummary != nil {
		detail["change_summary"] = *v.ChangeSummary
	}

	auditAsync(s.auditWorker, "derivative.version.created", entityVersion,
		strconv.FormatInt(v.ID, 10), actor, detail)
	metrics.VersionOps.WithLabelValues("create").Inc()

	return v, nil
}

// GetVersions returns all versions for a derivative, newest first (pass-through).
func (s *VersionService) GetVersions(ctx context.Context, derivativeID string) ([]models.DerivativeVersion, error) {
	return s.store.GetVersions(ctx, derivativeID)
}

// GetVersion returns a single version by ID (pass-through).
func (s *VersionService) GetVersion(ctx context.Context, versionID int64) (*models.DerivativeVersion, error) {
	return s.store.GetVersion(ctx, versionID)
}

// Rollback restores an earlier version's content by creating a new version.
// The target row is never mutated; "current" always moves to the new row, so
// history stays append-only.
func (s *VersionService) Rollback(
	ctx context.Context, req models.RollbackRequest,
) (*models.DerivativeVersion, error) {
	target, err := s.store.GetVersion(ctx, req.TargetVersionID)
	if err != nil {
		return nil, err
	}

	if target.DerivativeID.String() != req.DerivativeID {
		return nil, models.ErrVersionNotFound
	}

	summary := fmt.Sprintf("Rolled back to version %d", target.VersionNumber)
	reason := fmt.Sprintf("Restored content from version %d created at %s",
		target.VersionNumber, target.CreatedAt.Format(time.RFC3339))

	v, err := s.store.CreateVersion(ctx, models.CreateVersionRequest{
		DerivativeID:  req.DerivativeID,
		Content:       target.Content,
		ChangeType:    models.ChangeRollback,
		ChangeSummary: &summary,
		ChangeReason:  &reason,
		ChangedBy:     req.ChangedBy,
	})
	if err != nil {
		return nil, err
	}

	actor := ""
	if req.ChangedBy != nil {
		actor = *req.ChangedBy
	}

	auditAsync(s.auditWorker, "derivative.version.rollback", entityVersion,
		strconv.FormatInt(v.ID, 10), actor, map[string]any{
			"derivative_id":         req.DerivativeID,
			"target_version_id":     target.ID,
			"target_version_number": target.VersionNumber,
			"new_version_id":        v.ID,
			"new_version_number":    v.VersionNumber,
		})
	metrics.VersionOps.WithLabelValues("rollback").Inc()

	return v, nil
}

// CompareVersions fetches two versions and computes their word-level delta.
//
// The delta is a set difference on whitespace tokens: added words appear
// somewhere in version2 but nowhere in version1, removed words the reverse.
// It is a presence test, not a positional diff — ordering changes and
// repeated words are invisible to it. Modified is a raw content inequality.
func (s *VersionService) CompareVersions(
	ctx context.Context, version1ID, version2ID int64,
) (*models.VersionComparison, error) {
	v1, err := s.store.GetVersion(ctx, version1ID)
	if err != nil {
		return nil, err
	}

	v2, err := s.store.GetVersion(ctx, version2ID)
	if err != nil {
		return nil, err
	}

	return &models.VersionComparison{
		Version1: v1,
		Version2: v2,
		Added:    wordDelta(v2.Content, v1.Content),
		Removed:  wordDelta(v1.Content, v2.Content),
		Modified: v1.Content != v2.Content,
	}, nil
}

// wordDelta returns the distinct words of have that are absent from against,
// in first-occurrence order.
func wordDelta(have, against string) []string {
	absent := make(map[string]struct{})
	for _, w := range strings.Fields(against) {
		absent[w] = struct{}{}
	}

	delta := make([]string, 0)
	seen := make(map[string]struct{})

	for _, w := range strings.Fields(have) {
		if _, ok := absent[w]; ok {
			continue
		}

		if _, ok := seen[w]; ok {
			continue
		}

		seen[w] = struct{}{}
		delta = append(delta, w)
	}

	return delta
}

// DeleteVersion removes a non-current version and emits a deleted event.
func (s *VersionService) DeleteVersion(ctx context.Context, versionID int64, changedBy string) error {
	v, err := s.store.DeleteVersion(ctx, versionID)
	if err != nil {
		return err
	}

	auditAsync(s.auditWorker, "derivative.version.deleted", entityVersion,
		strconv.FormatInt(v.ID, 10), changedBy, map[string]any{
			"derivative_id":  v.DerivativeID.String(),
			"version_number": v.VersionNumber,
		})
	metrics.VersionOps.WithLabelValues("delete").Inc()

	return nil
}

// PurgeOldVersions trims a derivative's history to roughly keepCount versions
// (the current version plus the keepCount-1 most recent others).
func (s *VersionService) PurgeOldVersions(ctx context.Context, derivativeID string, keepCount int) (int, error) {
	deleted, err := s.store.PurgeOldVersions(ctx, derivativeID, keepCount)
	if err != nil {
		return 0, err
	}

	s.log.WithFields(logrus.Fields{
		"derivative_id": derivativeID,
		"keep_count":    keepCount,
		"deleted":       deleted,
	}).Info("version.purge")

	if deleted > 0 {
		auditAsync(s.auditWorker, "derivative.version.purged", "derivative",
			derivativeID, "", map[string]any{
				"keep_count": keepCount,
				"deleted":    deleted,
			})
	}

	metrics.VersionOps.WithLabelValues("purge").Inc()

	return deleted, nil
}

// GetVersionStats returns aggregate version counts (pass-through).
func (s *VersionService) GetVersionStats(ctx context.Context, derivativeID string) (*models.VersionStats, error) {
	return s.store.GetVersionStats(ctx, derivativeID)
}

// GetVersionTimeline returns the ascending timeline projection (pass-through).
func (s *VersionService) GetVersionTimeline(ctx context.Context, derivativeID string) ([]models.TimelineEntry, error) {
	return s.store.GetVersionTimeline(ctx, derivativeID)
}
