package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/draftloop/draftloop/internal/domain"
	"github.com/draftloop/draftloop/internal/llm"
	"github.com/draftloop/draftloop/internal/models"
)

// ErrLLMUnavailable is returned by RegenerateDerivative when no LLM provider
// is configured.
var ErrLLMUnavailable = errors.New("llm provider not configured")

// DerivativeRepo is the data-access interface DerivativeService depends on.
type DerivativeRepo interface {
	ListDerivatives(ctx context.Context, platform, status string, limit, offset int) ([]models.Derivative, bool, error)
	GetDerivative(ctx context.Context, derivativeID string) (*models.Derivative, error)
	CreateDerivative(ctx context.Context, req models.CreateDerivativeRequest) (*models.Derivative, error)
	UpdateDerivative(ctx context.Context, derivativeID string, req models.UpdateDerivativeRequest) (*models.Derivative, error)
	DeleteDerivative(ctx context.Context, derivativeID string) error
}

// Compile-time check: *DerivativeService must satisfy domain.DerivativeService.
var _ domain.DerivativeService = (*DerivativeService)(nil)

// DerivativeService wraps DerivativeRepo with audit events and AI
// regeneration. The provider may be nil when no API key is configured;
// RegenerateDerivative then fails with ErrLLMUnavailable and everything
// else works normally.
type DerivativeService struct {
	store       DerivativeRepo
	versions    VersionLedger
	provider    llm.Provider
	auditWorker AuditEnqueuer
	log         *logrus.Logger
}

// NewDerivativeService creates a DerivativeService.
func NewDerivativeService(
	store DerivativeRepo, versions VersionLedger, provider llm.Provider,
	auditWorker AuditEnqueuer, log *logrus.Logger,
) *DerivativeService {
	return &DerivativeService{
		store:       store,
		versions:    versions,
		provider:    provider,
		auditWorker: auditWorker,
		log:         log,
	}
}

// entityDerivative is the audit entity type for derivative rows.
const entityDerivative = "derivative"

// ListDerivatives returns a filtered page of derivatives (pass-through).
func (s *DerivativeService) ListDerivatives(
	ctx context.Context, platform, status string, limit, offset int,
) ([]models.Derivative, bool, error) {
	return s.store.ListDerivatives(ctx, platform, status, limit, offset)
}

// GetDerivative returns a derivative with its current version (pass-through).
func (s *DerivativeService) GetDerivative(ctx context.Context, derivativeID string) (*models.Derivative, error) {
	return s.store.GetDerivative(ctx, derivativeID)
}

// CreateDerivative creates a derivative with its initial version and emits a
// created event.
func (s *DerivativeService) CreateDerivative(
	ctx context.Context, req models.CreateDerivativeRequest,
) (*models.Derivative, error) {
	d, err := s.store.CreateDerivative(ctx, req)
	if err != nil {
		return nil, err
	}

	actor := ""
	if req.ChangedBy != nil {
		actor = *req.ChangedBy
	}

	auditAsync(s.auditWorker, "derivative.created", entityDerivative, d.ID.String(), actor,
		map[string]any{
			"platform": d.Platform,
			"title":    d.Title,
		})

	return d, nil
}

// UpdateDerivative applies metadata and content changes and emits an updated
// event.
func (s *DerivativeService) UpdateDerivative(
	ctx context.Context, derivativeID string, req models.UpdateDerivativeRequest,
) (*models.Derivative, error) {
	d, err := s.store.UpdateDerivative(ctx, derivativeID, req)
	if err != nil {
		return nil, err
	}

	actor := ""
	if req.ChangedBy != nil {
		actor = *req.ChangedBy
	}

	detail := map[string]any{"content_changed": req.Content != nil}
	if req.Status != nil {
		detail["status"] = *req.Status
	}

	auditAsync(s.auditWorker, "derivative.updated", entityDerivative, d.ID.String(), actor, detail)

	return d, nil
}

// DeleteDerivative removes a derivative and its entire version chain, then
// emits a deleted event.
func (s *DerivativeService) DeleteDerivative(ctx context.Context, derivativeID string) error {
	if err := s.store.DeleteDerivative(ctx, derivativeID); err != nil {
		return err
	}

	auditAsync(s.auditWorker, "derivative.deleted", entityDerivative, derivativeID, "", nil)

	return nil
}

// RegenerateDerivative asks the LLM provider for new content and appends it
// as an ai_regenerated version. The previous current version is preserved in
// the chain, so a bad regeneration is always recoverable via rollback.
func (s *DerivativeService) RegenerateDerivative(
	ctx context.Context, derivativeID string, req models.RegenerateRequest,
) (*models.DerivativeVersion, error) {
	if s.provider == nil {
		return nil, ErrLLMUnavailable
	}

	d, err := s.store.GetDerivative(ctx, derivativeID)
	if err != nil {
		return nil, err
	}

	content, err := s.provider.Generate(ctx, regenerateSystemPrompt, buildRegeneratePrompt(d, req.Instructions))
	if err != nil {
		return nil, fmt.Errorf("generating content: %w", err)
	}

	content = strings.TrimSpace(content)
	if content == "" {
		return nil, fmt.Errorf("generating content: provider returned empty result")
	}

	summary := "AI regeneration"
	if req.Instructions != "" {
		summary = fmt.Sprintf("AI regeneration: %s", req.Instructions)
	}

	v, err := s.versions.CreateVersion(ctx, models.CreateVersionRequest{
		DerivativeID:  derivativeID,
		Content:       content,
		ChangeType:    models.ChangeAIRegenerated,
		ChangeSummary: &summary,
		ChangedBy:     req.ChangedBy,
	})
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"derivative_id":  derivativeID,
		"version_number": v.VersionNumber,
		"chars":          v.CharacterCount,
	}).Info("derivative.regenerated")

	actor := ""
	if req.ChangedBy != nil {
		actor = *req.ChangedBy
	}

	auditAsync(s.auditWorker, "derivative.regenerated", entityDerivative, derivativeID, actor,
		map[string]any{
			"version_number": v.VersionNumber,
			"instructions":   req.Instructions,
		})

	return v, nil
}

const regenerateSystemPrompt = "You are a content marketing assistant. " +
	"Rewrite the supplied content for the target platform. " +
	"Respond with the rewritten content only, no preamble or commentary."

// buildRegeneratePrompt assembles the user prompt from the derivative's
// platform, title, current content, and optional caller instructions.
func buildRegeneratePrompt(d *models.Derivative, instructions string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Platform: %s\n", d.Platform)
	fmt.Fprintf(&b, "Title: %s\n\n", d.Title)

	if d.CurrentVersion != nil {
		fmt.Fprintf(&b, "Current content:\n%s\n\n", d.CurrentVersion.Content)
	}

	if instructions != "" {
		fmt.Fprintf(&b, "Instructions: %s\n", instructions)
	}

	b.WriteString("Produce a fresh draft of this content.")

	return b.String()
}
