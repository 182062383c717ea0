// Package domain defines the canonical service interfaces shared across the
// API layer and the client. Consumers should depend on these interfaces
// rather than re-declaring equivalent ones.
package domain

import (
	"context"

	"github.com/draftloop/draftloop/internal/models"
)

// VersionService defines all version ledger operations.
type VersionService interface {
	CreateVersion(ctx context.Context, req models.CreateVersionRequest) (*models.DerivativeVersion, error)
	GetVersions(ctx context.Context, derivativeID string) ([]models.DerivativeVersion, error)
	GetVersion(ctx context.Context, versionID int64) (*models.DerivativeVersion, error)
	Rollback(ctx context.Context, req models.RollbackRequest) (*models.DerivativeVersion, error)
	CompareVersions(ctx context.Context, version1ID, version2ID int64) (*models.VersionComparison, error)
	DeleteVersion(ctx context.Context, versionID int64, changedBy string) error
	PurgeOldVersions(ctx context.Context, derivativeID string, keepCount int) (int, error)
	GetVersionStats(ctx context.Context, derivativeID string) (*models.VersionStats, error)
	GetVersionTimeline(ctx context.Context, derivativeID string) ([]models.TimelineEntry, error)
}

// DerivativeService defines derivative CRUD and regeneration operations.
type DerivativeService interface {
	ListDerivatives(ctx context.Context, platform, status string, limit, offset int) ([]models.Derivative, bool, error)
	GetDerivative(ctx context.Context, derivativeID string) (*models.Derivative, error)
	CreateDerivative(ctx context.Context, req models.CreateDerivativeRequest) (*models.Derivative, error)
	UpdateDerivative(ctx context.Context, derivativeID string, req models.UpdateDerivativeRequest) (*models.Derivative, error)
	DeleteDerivative(ctx context.Context, derivativeID string) error
	RegenerateDerivative(ctx context.Context, derivativeID string, req models.RegenerateRequest) (*models.DerivativeVersion, error)
}

// AuditService defines audit log query and maintenance operations.
type AuditService interface {
	Auditor
	QueryAudit(ctx context.Context, opts models.AuditQueryOpts) ([]models.AuditEntry, bool, error)
	PurgeOldEntries(ctx context.Context, retentionDays int) (int, error)
}

// Auditor is the minimal interface for recording audit entries.
// Used by services for fire-and-forget audit logging.
type Auditor interface {
	RecordAudit(ctx context.Context, action, entityType, entityID, actor string, detail map[string]any) error
}
