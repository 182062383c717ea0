package client

import "time"

// Derivative is a platform-specific piece of generated content.
type Derivative struct {
	ID             string     `json:"id"`
	Platform       string     `json:"platform"`
	Title          string     `json:"title"`
	Status         string     `json:"status"`
	PublishedAt    *time.Time `json:"published_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
	CurrentVersion *Version   `json:"current_version,omitempty"`
}

// Version is an immutable snapshot of a derivative's content.
type Version struct {
	ID             int64      `json:"id"`
	DerivativeID   string     `json:"derivative_id"`
	VersionNumber  int        `json:"version_number"`
	Content        string     `json:"content"`
	CharacterCount int        `json:"character_count"`
	ChangeSummary  *string    `json:"change_summary,omitempty"`
	ChangeReason   *string    `json:"change_reason,omitempty"`
	ChangeType     string     `json:"change_type"`
	ChangedBy      *string    `json:"changed_by,omitempty"`
	IsCurrent      bool       `json:"is_current"`
	CreatedAt      time.Time  `json:"created_at"`
}

// TimelineEntry is a content-free projection of a version.
type TimelineEntry struct {
	ID             int64     `json:"id"`
	VersionNumber  int       `json:"version_number"`
	ChangeSummary  *string   `json:"change_summary,omitempty"`
	ChangeType     string    `json:"change_type"`
	ChangedBy      *string   `json:"changed_by,omitempty"`
	IsCurrent      bool      `json:"is_current"`
	CharacterCount int       `json:"character_count"`
	CreatedAt      time.Time `json:"created_at"`
}

// Comparison is the word-level delta between two versions.
type Comparison struct {
	Version1 *Version `json:"version1"`
	Version2 *Version `json:"version2"`
	Added    []string `json:"added"`
	Removed  []string `json:"removed"`
	Modified bool     `json:"modified"`
}

// VersionStats aggregates a derivative's version counts.
type VersionStats struct {
	TotalVersions int            `json:"total_versions"`
	ByChangeType  map[string]int `json:"by_change_type"`
}

// AuditEntry is a single audit log record.
type AuditEntry struct {
	ID         int64          `json:"id"`
	Action     string         `json:"action"`
	EntityType string         `json:"entity_type"`
	EntityID   string         `json:"entity_id"`
	Actor      string         `json:"actor,omitempty"`
	Detail     map[string]any `json:"detail,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
}

// CreateDerivativeRequest is the payload for creating a derivative.
type CreateDerivativeRequest struct {
	Platform  string  `json:"platform"`
	Title     string  `json:"title"`
	Content   string  `json:"content"`
	ChangedBy *string `json:"changed_by,omitempty"`
}

// UpdateDerivativeRequest is the payload for updating a derivative.
type UpdateDerivativeRequest struct {
	Title         *string `json:"title,omitempty"`
	Status        *string `json:"status,omitempty"`
	Content       *string `json:"content,omitempty"`
	ChangeSummary *string `json:"change_summary,omitempty"`
	ChangedBy     *string `json:"changed_by,omitempty"`
}

// RegenerateRequest is the payload for AI regeneration.
type RegenerateRequest struct {
	Instructions string  `json:"instructions,omitempty"`
	ChangedBy    *string `json:"changed_by,omitempty"`
}

// CreateVersionRequest is the payload for appending a version.
type CreateVersionRequest struct {
	DerivativeID  string  `json:"derivative_id"`
	Content       string  `json:"content"`
	ChangeType    string  `json:"change_type"`
	ChangeSummary *string `json:"change_summary,omitempty"`
	ChangeReason  *string `json:"change_reason,omitempty"`
	ChangedBy     *string `json:"changed_by,omitempty"`
}

// RollbackRequest is the payload for rolling back to an earlier version.
type RollbackRequest struct {
	DerivativeID    string  `json:"derivative_id"`
	TargetVersionID int64   `json:"target_version_id"`
	ChangedBy       *string `json:"changed_by,omitempty"`
}

// HealthResponse is the liveness check payload.
type HealthResponse struct {
	Status        string  `json:"status"`
	Version       string  `json:"version"`
	Database      string  `json:"database"`
	LLM           string  `json:"llm"`
	Clients       int     `json:"websocket_clients"`
	UptimeSeconds float64 `json:"uptime_seconds"`
}

// StatsResponse is the aggregate statistics payload.
type StatsResponse struct {
	Derivatives      int `json:"derivatives"`
	Published        int `json:"published"`
	Platforms        int `json:"platforms"`
	Versions         int `json:"versions"`
	RollbackVersions int `json:"rollback_versions"`
	AIVersions       int `json:"ai_versions"`
	AuditEntries     int `json:"audit_entries"`
}
