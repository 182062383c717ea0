package api

import (
	"context"

	"github.com/draftloop/draftloop/internal/models"
)

// VersionRepository defines version ledger operations used by VersionHandler.
type VersionRepository interface {
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

// DerivativeRepository defines derivative operations used by DerivativeHandler.
type DerivativeRepository interface {
	ListDerivatives(ctx context.Context, platform, status string, limit, offset int) ([]models.Derivative, bool, error)
	GetDerivative(ctx context.Context, derivativeID string) (*models.Derivative, error)
	CreateDerivative(ctx context.Context, req models.CreateDerivativeRequest) (*models.Derivative, error)
	UpdateDerivative(ctx context.Context, derivativeID string, req models.UpdateDerivativeRequest) (*models.Derivative, error)
	DeleteDerivative(ctx context.Context, derivativeID string) error
	RegenerateDerivative(ctx context.Context, derivativeID string, req models.RegenerateRequest) (*models.DerivativeVersion, error)
}

// AuditRepository defines audit log operations used by AuditHandler.
type AuditRepository interface {
	QueryAudit(ctx context.Context, opts models.AuditQueryOpts) ([]models.AuditEntry, bool, error)
	PurgeOldEntries(ctx context.Context, retentionDays int) (int, error)
}
