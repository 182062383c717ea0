package models

import (
	"time"

	"github.com/google/uuid"
)

// ChangeType tags why a version was produced. Purely descriptive; it does
// not alter ledger mechanics.
type ChangeType string

// Valid change types.
const (
	ChangeCreated       ChangeType = "created"
	ChangeEdited        ChangeType = "edited"
	ChangeAIRegenerated ChangeType = "ai_regenerated"
	ChangeRollback      ChangeType = "rollback"
)

// Valid reports whether the change type is one of the four known values.
func (t ChangeType) Valid() bool {
	switch t {
	case ChangeCreated, ChangeEdited, ChangeAIRegenerated, ChangeRollback:
		return true
	}

	return false
}

// DerivativeVersion is an immutable snapshot of a derivative's content.
// After creation only the is_current flag ever changes, and only as part
// of creating a newer version.
type DerivativeVersion struct {
	ID             int64      `json:"id"`
	DerivativeID   uuid.UUID  `json:"derivative_id"`
	VersionNumber  int        `json:"version_number"`
	Content        string     `json:"content"`
	CharacterCount int        `json:"character_count"`
	ChangeSummary  *string    `json:"change_summary,omitempty"`
	ChangeReason   *string    `json:"change_reason,omitempty"`
	ChangeType     ChangeType `json:"change_type"`
	ChangedBy      *string    `json:"changed_by,omitempty"`
	IsCurrent      bool       `json:"is_current"`
	CreatedAt      time.Time  `json:"created_at"`
}

// CreateVersionRequest is the payload for creating a new version.
type CreateVersionRequest struct {
	DerivativeID  string     `json:"derivative_id"`
	Content       string     `json:"content"`
	ChangeType    ChangeType `json:"change_type"`
	ChangeSummary *string    `json:"change_summary,omitempty"`
	ChangeReason  *string    `json:"change_reason,omitempty"`
	ChangedBy     *string    `json:"changed_by,omitempty"`
}

// Validate checks required fields. Content may be empty; an empty snapshot
// is a legal state for a derivative.
func (r *CreateVersionRequest) Validate() error {
	if r.DerivativeID == "" {
		return ErrMissingDerivativeID
	}

	if _, err := uuid.Parse(r.DerivativeID); err != nil {
		return ErrInvalidDerivativeID
	}

	if !r.ChangeType.Valid() {
		return ErrInvalidChangeType
	}

	return nil
}

// RollbackRequest is the payload for rolling a derivative back to an
// earlier version.
type RollbackRequest struct {
	DerivativeID    string  `json:"derivative_id"`
	TargetVersionID int64   `json:"target_version_id"`
	ChangedBy       *string `json:"changed_by,omitempty"`
}

// Validate checks required fields.
func (r *RollbackRequest) Validate() error {
	if r.DerivativeID == "" {
		return ErrMissingDerivativeID
	}

	if _, err := uuid.Parse(r.DerivativeID); err != nil {
		return ErrInvalidDerivativeID
	}

	if r.TargetVersionID <= 0 {
		return ErrMissingTargetVersion
	}

	return nil
}

// CompareRequest is the payload for comparing two versions.
type CompareRequest struct {
	Version1ID int64 `json:"version1_id"`
	Version2ID int64 `json:"version2_id"`
}

// Validate checks that both version IDs are present.
func (r *CompareRequest) Validate() error {
	if r.Version1ID <= 0 || r.Version2ID <= 0 {
		return ErrMissingVersionIDs
	}

	return nil
}

// VersionComparison is the result of comparing two versions.
//
// The word lists are a set difference on whitespace tokens: a word counts as
// added when it appears nowhere in version1, removed when it appears nowhere
// in version2. This is a presence test, not a positional diff; it ignores
// ordering and repeated words.
type VersionComparison struct {
	Version1 *DerivativeVersion `json:"version1"`
	Version2 *DerivativeVersion `json:"version2"`
	Added    []string           `json:"added"`
	Removed  []string           `json:"removed"`
	Modified bool               `json:"modified"`
}

// VersionStats aggregates a derivative's version counts.
type VersionStats struct {
	TotalVersions int                `json:"total_versions"`
	ByChangeType  map[ChangeType]int `json:"by_change_type"`
}

// TimelineEntry is a content-free projection of a version for timeline views.
type TimelineEntry struct {
	ID             int64      `json:"id"`
	VersionNumber  int        `json:"version_number"`
	ChangeSummary  *string    `json:"change_summary,omitempty"`
	ChangeType     ChangeType `json:"change_type"`
	ChangedBy      *string    `json:"changed_by,omitempty"`
	IsCurrent      bool       `json:"is_current"`
	CharacterCount int        `json:"character_count"`
	CreatedAt      time.Time  `json:"created_at"`
}
