package service

import (
	"context"
	"sync"

	"github.com/draftloop/draftloop/internal/models"
)

// mockVersionStore records calls and returns configured responses.
type mockVersionStore struct {
	mu    sync.Mutex
	calls []string

	createVersion func(ctx context.Context, req models.CreateVersionRequest) (*models.DerivativeVersion, error)
	getVersions   func(ctx context.Context, derivativeID string) ([]models.DerivativeVersion, error)
	getVersion    func(ctx context.Context, versionID int64) (*models.DerivativeVersion, error)
	deleteVersion func(ctx context.Context, versionID int64) (*models.DerivativeVersion, error)
	purge         func(ctx context.Context, derivativeID string, keepCount int) (int, error)
	stats         func(ctx context.Context, derivativeID string) (*models.VersionStats, error)
	timeline      func(ctx context.Context, derivativeID string) ([]models.TimelineEntry, error)
}

func (m *mockVersionStore) record(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, name)
}

func (m *mockVersionStore) CreateVersion(ctx context.Context, req models.CreateVersionRequest) (*models.DerivativeVersion, error) {
	m.record("CreateVersion")
	return m.createVersion(ctx, req)
}

func (m *mockVersionStore) GetVersions(ctx context.Context, derivativeID string) ([]models.DerivativeVersion, error) {
	m.record("GetVersions")
	return m.getVersions(ctx, derivativeID)
}

func (m *mockVersionStore) GetVersion(ctx context.Context, versionID int64) (*models.DerivativeVersion, error) {
	m.record("GetVersion")
	return m.getVersion(ctx, versionID)
}

func (m *mockVersionStore) DeleteVersion(ctx context.Context, versionID int64) (*models.DerivativeVersion, error) {
	m.record("DeleteVersion")
	return m.deleteVersion(ctx, versionID)
}

func (m *mockVersionStore) PurgeOldVersions(ctx context.Context, derivativeID string, keepCount int) (int, error) {
	m.record("PurgeOldVersions")
	return m.purge(ctx, derivativeID, keepCount)
}

func (m *mockVersionStore) GetVersionStats(ctx context.Context, derivativeID string) (*models.VersionStats, error) {
	m.record("GetVersionStats")
	return m.stats(ctx, derivativeID)
}

func (m *mockVersionStore) GetVersionTimeline(ctx context.Context, derivativeID string) ([]models.TimelineEntry, error) {
	m.record("GetVersionTimeline")
	return m.timeline(ctx, derivativeID)
}

// mockDerivativeStore records calls and returns configured responses.
type mockDerivativeStore struct {
	mu    sync.Mutex
	calls []string

	list   func(ctx context.Context, platform, status string, limit, offset int) ([]models.Derivative, bool, error)
	get    func(ctx context.Context, derivativeID string) (*models.Derivative, error)
	create func(ctx context.Context, req models.CreateDerivativeRequest) (*models.Derivative, error)
	update func(ctx context.Context, derivativeID string, req models.UpdateDerivativeRequest) (*models.Derivative, error)
	delete func(ctx context.Context, derivativeID string) error
}

func (m *mockDerivativeStore) record(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, name)
}

func (m *mockDerivativeStore) ListDerivatives(ctx context.Context, platform, status string, limit, offset int) ([]models.Derivative, bool, error) {
	m.record("ListDerivatives")
	return m.list(ctx, platform, status, limit, offset)
}

func (m *mockDerivativeStore) GetDerivative(ctx context.Context, derivativeID string) (*models.Derivative, error) {
	m.record("GetDerivative")
	return m.get(ctx, derivativeID)
}

func (m *mockDerivativeStore) CreateDerivative(ctx context.Context, req models.CreateDerivativeRequest) (*models.Derivative, error) {
	m.record("CreateDerivative")
	return m.create(ctx, req)
}

func (m *mockDerivativeStore) UpdateDerivative(ctx context.Context, derivativeID string, req models.UpdateDerivativeRequest) (*models.Derivative, error) {
	m.record("UpdateDerivative")
	return m.update(ctx, derivativeID, req)
}

func (m *mockDerivativeStore) DeleteDerivative(ctx context.Context, derivativeID string) error {
	m.record("DeleteDerivative")
	return m.delete(ctx, derivativeID)
}

// auditCall captures the arguments of one RecordAudit invocation.
type auditCall struct {
	Action     string
	EntityType string
	EntityID   string
	Actor      string
	Detail     map[string]any
}

// mockAuditor records RecordAudit calls for assertions.
type mockAuditor struct {
	mu    sync.Mutex
	calls []auditCall
	err   error
}

func (m *mockAuditor) RecordAudit(_ context.Context, action, entityType, entityID, actor string, detail map[string]any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, auditCall{
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		Actor:      actor,
		Detail:     detail,
	})
	return m.err
}

func (m *mockAuditor) getCalls() []auditCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]auditCall, len(m.calls))
	copy(out, m.calls)
	return out
}

// mockProvider implements llm.Provider.
type mockProvider struct {
	generate func(ctx context.Context, system, prompt string) (string, error)
}

func (m *mockProvider) Generate(ctx context.Context, system, prompt string) (string, error) {
	return m.generate(ctx, system, prompt)
}
