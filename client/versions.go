package client

import (
	"context"
	"net/url"
	"strconv"
)

// VersionService handles version ledger operations.
type VersionService struct {
	c *Client
}

// versionListResponse wraps the version list response.
type versionListResponse struct {
	Versions []Version `json:"versions"`
	Count    int       `json:"count"`
}

// rollbackResponse wraps the rollback response.
type rollbackResponse struct {
	Message string   `json:"message"`
	Version *Version `json:"version"`
}

// purgeResponse wraps the purge response.
type purgeResponse struct {
	Message      string `json:"message"`
	DeletedCount int    `json:"deleted_count"`
}

// timelineResponse wraps the timeline response.
type timelineResponse struct {
	Timeline []TimelineEntry `json:"timeline"`
	Count    int             `json:"count"`
}

// Create appends a new version to a derivative's chain.
func (s *VersionService) Create(ctx context.Context, req *CreateVersionRequest) (*Version, error) {
	var v Version
	if err := s.c.post(ctx, "/api/v1/versions", req, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

// List returns all versions for a derivative, newest first.
func (s *VersionService) List(ctx context.Context, derivativeID string) ([]Version, error) {
	var resp versionListResponse
	if err := s.c.get(ctx, "/api/v1/versions/"+url.PathEscape(derivativeID), nil, &resp); err != nil {
		return nil, err
	}
	return resp.Versions, nil
}

// Get returns a single version by ID.
func (s *VersionService) Get(ctx context.Context, versionID int64) (*Version, error) {
	var v Version
	if err := s.c.get(ctx, "/api/v1/version/"+strconv.FormatInt(versionID, 10), nil, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

// Rollback restores an earlier version's content as a new current version.
func (s *VersionService) Rollback(ctx context.Context, req *RollbackRequest) (*Version, error) {
	var resp rollbackResponse
	if err := s.c.post(ctx, "/api/v1/versions/rollback", req, &resp); err != nil {
		return nil, err
	}
	return resp.Version, nil
}

// Compare returns the word-level delta between two versions.
func (s *VersionService) Compare(ctx context.Context, version1ID, version2ID int64) (*Comparison, error) {
	req := map[string]int64{
		"version1_id": version1ID,
		"version2_id": version2ID,
	}
	var cmp Comparison
	if err := s.c.post(ctx, "/api/v1/versions/compare", req, &cmp); err != nil {
		return nil, err
	}
	return &cmp, nil
}

// Delete removes a non-current version.
func (s *VersionService) Delete(ctx context.Context, versionID int64) error {
	return s.c.del(ctx, "/api/v1/version/"+strconv.FormatInt(versionID, 10), nil, nil)
}

// Purge trims a derivative's history, keeping the current version and the
// most recent others up to keepCount in total.
func (s *VersionService) Purge(ctx context.Context, derivativeID string, keepCount int) (int, error) {
	path := "/api/v1/versions/purge/" + url.PathEscape(derivativeID)
	if keepCount > 0 {
		path += "?keep_count=" + strconv.Itoa(keepCount)
	}
	var resp purgeResponse
	if err := s.c.post(ctx, path, nil, &resp); err != nil {
		return 0, err
	}
	return resp.DeletedCount, nil
}

// Stats returns aggregate version counts for a derivative.
func (s *VersionService) Stats(ctx context.Context, derivativeID string) (*VersionStats, error) {
	var stats VersionStats
	if err := s.c.get(ctx, "/api/v1/versions/stats/"+url.PathEscape(derivativeID), nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// Timeline returns the ascending, content-free version timeline.
func (s *VersionService) Timeline(ctx context.Context, derivativeID string) ([]TimelineEntry, error) {
	var resp timelineResponse
	if err := s.c.get(ctx, "/api/v1/versions/timeline/"+url.PathEscape(derivativeID), nil, &resp); err != nil {
		return nil, err
	}
	return resp.Timeline, nil
}
