package api_test

import (
	"context"
	"errors"

	"github.com/draftloop/draftloop/internal/models"
)

var errBoom = errors.New("boom")

// mockVersionRepo implements api.VersionRepository with function fields.
type mockVersionRepo struct {
	createFn   func(ctx context.Context, req models.CreateVersionRequest) (*models.DerivativeVersion, error)
	listFn     func(ctx context.Context, derivativeID string) ([]models.DerivativeVersion, error)
	getFn      func(ctx context.Context, versionID int64) (*models.DerivativeVersion, error)
	rollbackFn func(ctx context.Context, req models.RollbackRequest) (*models.DerivativeVersion, error)
	compareFn  func(ctx context.Context, version1ID, version2ID int64) (*models.VersionComparison, error)
	deleteFn   func(ctx context.Context, versionID int64, changedBy string) error
	purgeFn    func(ctx context.Context, derivativeID string, keepCount int) (int, error)
	statsFn    func(ctx context.Context, derivativeID string) (*models.VersionStats, error)
	timelineFn func(ctx context.Context, derivativeID string) ([]models.TimelineEntry, error)
}

func (m *mockVersionRepo) CreateVersion(ctx context.Context, req models.CreateVersionRequest) (*models.DerivativeVersion, error) {
	return m.createFn(ctx, req)
}

func (m *mockVersionRepo) GetVersions(ctx context.Context, derivativeID string) ([]models.DerivativeVersion, error) {
	return m.listFn(ctx, derivativeID)
}

func (m *mockVersionRepo) GetVersion(ctx context.Context, versionID int64) (*models.DerivativeVersion, error) {
	return m.getFn(ctx, versionID)
}

func (m *mockVersionRepo) Rollback(ctx context.Context, req models.RollbackRequest) (*models.DerivativeVersion, error) {
	return m.rollbackFn(ctx, req)
}

func (m *mockVersionRepo) CompareVersions(ctx context.Context, version1ID, version2ID int64) (*models.VersionComparison, error) {
	return m.compareFn(ctx, version1ID, version2ID)
}

func (m *mockVersionRepo) DeleteVersion(ctx context.Context, versionID int64, changedBy string) error {
	return m.deleteFn(ctx, versionID, changedBy)
}

func (m *mockVersionRepo) PurgeOldVersions(ctx context.Context, derivativeID string, keepCount int) (int, error) {
	return m.purgeFn(ctx, derivativeID, keepCount)
}

func (m *mockVersionRepo) GetVersionStats(ctx context.Context, derivativeID string) (*models.VersionStats, error) {
	return m.statsFn(ctx, derivativeID)
}

func (m *mockVersionRepo) GetVersionTimeline(ctx context.Context, derivativeID string) ([]models.TimelineEntry, error) {
	return m.timelineFn(ctx, derivativeID)
}

// mockDerivativeRepo implements api.DerivativeRepository with function fields.
type mockDerivativeRepo struct {
	listFn       func(ctx context.Context, platform, status string, limit, offset int) ([]models.Derivative, bool, error)
	getFn        func(ctx context.Context, derivativeID string) (*models.Derivative, error)
	createFn     func(ctx context.Context, req models.CreateDerivativeRequest) (*models.Derivative, error)
	updateFn     func(ctx context.Context, derivativeID string, req models.UpdateDerivativeRequest) (*models.Derivative, error)
	deleteFn     func(ctx context.Context, derivativeID string) error
	regenerateFn func(ctx context.Context, derivativeID string, req models.RegenerateRequest) (*models.DerivativeVersion, error)
}

func (m *mockDerivativeRepo) ListDerivatives(ctx context.Context, platform, status string, limit, offset int) ([]models.Derivative, bool, error) {
	return m.listFn(ctx, platform, status, limit, offset)
}

func (m *mockDerivativeRepo) GetDerivative(ctx context.Context, derivativeID string) (*models.Derivative, error) {
	return m.getFn(ctx, derivativeID)
}

func (m *mockDerivativeRepo) CreateDerivative(ctx context.Context, req models.CreateDerivativeRequest) (*models.Derivative, error) {
	return m.createFn(ctx, req)
}

func (m *mockDerivativeRepo) UpdateDerivative(ctx context.Context, derivativeID string, req models.UpdateDerivativeRequest) (*models.Derivative, error) {
	return m.updateFn(ctx, derivativeID, req)
}

func (m *mockDerivativeRepo) DeleteDerivative(ctx context.Context, derivativeID string) error {
	return m.deleteFn(ctx, derivativeID)
}

func (m *mockDerivativeRepo) RegenerateDerivative(ctx context.Context, derivativeID string, req models.RegenerateRequest) (*models.DerivativeVersion, error) {
	return m.regenerateFn(ctx, derivativeID, req)
}

// mockAuditRepo implements api.AuditRepository with function fields.
type mockAuditRepo struct {
	queryFn func(ctx context.Context, opts models.AuditQueryOpts) ([]models.AuditEntry, bool, error)
	purgeFn func(ctx context.Context, retentionDays int) (int, error)
}

func (m *mockAuditRepo) QueryAudit(ctx context.Context, opts models.AuditQueryOpts) ([]models.AuditEntry, bool, error) {
	return m.queryFn(ctx, opts)
}

func (m *mockAuditRepo) PurgeOldEntries(ctx context.Context, retentionDays int) (int, error) {
	return m.purgeFn(ctx, retentionDays)
}
