package client

import (
	"context"
	"net/url"
	"strconv"
)

// DerivativeService handles derivative CRUD and regeneration.
type DerivativeService struct {
	c *Client
}

// DerivativeListOptions filters and paginates derivative listings.
type DerivativeListOptions struct {
	Platform string
	Status   string
	Limit    int
	Offset   int
}

// derivativeListResponse wraps the paginated derivative list response.
type derivativeListResponse struct {
	Derivatives []Derivative `json:"derivatives"`
	HasMore     bool         `json:"has_more"`
}

// List returns derivatives with optional filtering and pagination.
func (s *DerivativeService) List(ctx context.Context, opts *DerivativeListOptions) ([]Derivative, bool, error) {
	params := url.Values{}
	if opts != nil {
		if opts.Platform != "" {
			params.Set("platform", opts.Platform)
		}
		if opts.Status != "" {
			params.Set("status", opts.Status)
		}
		if opts.Limit > 0 {
			params.Set("limit", strconv.Itoa(opts.Limit))
		}
		if opts.Offset > 0 {
			params.Set("offset", strconv.Itoa(opts.Offset))
		}
	}
	var resp derivativeListResponse
	if err := s.c.get(ctx, "/api/v1/derivatives", params, &resp); err != nil {
		return nil, false, err
	}
	return resp.Derivatives, resp.HasMore, nil
}

// Get returns a single derivative with its current version.
func (s *DerivativeService) Get(ctx context.Context, id string) (*Derivative, error) {
	var d Derivative
	if err := s.c.get(ctx, "/api/v1/derivatives/"+url.PathEscape(id), nil, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

// Create creates a new derivative; the content becomes version 1.
func (s *DerivativeService) Create(ctx context.Context, req *CreateDerivativeRequest) (*Derivative, error) {
	var d Derivative
	if err := s.c.post(ctx, "/api/v1/derivatives", req, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

// Update updates derivative metadata and optionally appends an edited version.
func (s *DerivativeService) Update(ctx context.Context, id string, req *UpdateDerivativeRequest) (*Derivative, error) {
	var d Derivative
	if err := s.c.put(ctx, "/api/v1/derivatives/"+url.PathEscape(id), req, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

// Delete removes a derivative and its entire version chain.
func (s *DerivativeService) Delete(ctx context.Context, id string) error {
	return s.c.del(ctx, "/api/v1/derivatives/"+url.PathEscape(id), nil, nil)
}

// Regenerate asks the server to produce new AI-generated content as a new version.
func (s *DerivativeService) Regenerate(ctx context.Context, id string, req *RegenerateRequest) (*Version, error) {
	var v Version
	if err := s.c.post(ctx, "/api/v1/derivatives/"+url.PathEscape(id)+"/regenerate", req, &v); err != nil {
		return nil, err
	}
	return &v, nil
}
