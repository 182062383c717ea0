package models

import (
	"time"

	"github.com/google/uuid"
)

// Platform length limits for validation.
const (
	maxPlatformLen = 64
	maxTitleLen    = 512
)

// Derivative is a platform-specific piece of generated content. It owns a
// chain of DerivativeVersions; the content shown to users is always the
// chain's current version.
type Derivative struct {
	ID          uuid.UUID  `json:"id"`
	Platform    string     `json:"platform"`
	Title       string     `json:"title"`
	Status      string     `json:"status"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	// CurrentVersion is populated on single-derivative reads.
	CurrentVersion *DerivativeVersion `json:"current_version,omitempty"`
}

// Derivative lifecycle statuses.
const (
	StatusDraft     = "draft"
	StatusPublished = "published"
	StatusArchived  = "archived"
)

// CreateDerivativeRequest is the payload for creating a derivative. The
// initial content becomes version 1 with change type "created".
type CreateDerivativeRequest struct {
	Platform  string  `json:"platform"`
	Title     string  `json:"title"`
	Content   string  `json:"content"`
	ChangedBy *string `json:"changed_by,omitempty"`
}

// Validate checks required fields and length limits.
func (r *CreateDerivativeRequest) Validate() error {
	if r.Platform == "" {
		return ErrMissingPlatform
	}

	if len(r.Platform) > maxPlatformLen {
		return ErrFieldTooLong("platform", maxPlatformLen)
	}

	if r.Title == "" {
		return ErrMissingTitle
	}

	if len(r.Title) > maxTitleLen {
		return ErrFieldTooLong("title", maxTitleLen)
	}

	return nil
}

// UpdateDerivativeRequest is the payload for updating a derivative. A non-nil
// Content produces a new "edited" version; metadata fields update in place.
type UpdateDerivativeRequest struct {
	Title         *string `json:"title,omitempty"`
	Status        *string `json:"status,omitempty"`
	Content       *string `json:"content,omitempty"`
	ChangeSummary *string `json:"change_summary,omitempty"`
	ChangedBy     *string `json:"changed_by,omitempty"`
}

// Validate checks that at least one field is set and values are in range.
func (r *UpdateDerivativeRequest) Validate() error {
	if r.Title == nil && r.Status == nil && r.Content == nil {
		return ErrEmptyUpdate
	}

	if r.Title != nil {
		if *r.Title == "" {
			return ErrMissingTitle
		}

		if len(*r.Title) > maxTitleLen {
			return ErrFieldTooLong("title", maxTitleLen)
		}
	}

	if r.Status != nil {
		switch *r.Status {
		case StatusDraft, StatusPublished, StatusArchived:
		default:
			return ErrInvalidStatus
		}
	}

	return nil
}

// RegenerateRequest is the payload for AI regeneration of a derivative.
type RegenerateRequest struct {
	Instructions string  `json:"instructions,omitempty"`
	ChangedBy    *string `json:"changed_by,omitempty"`
}
