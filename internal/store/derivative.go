package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/draftloop/draftloop/internal/models"
)

// DerivativeStore handles derivative CRUD operations.
type DerivativeStore struct {
	Base
}

// NewDerivativeStore creates a new DerivativeStore.
func NewDerivativeStore(base Base) *DerivativeStore {
	return &DerivativeStore{Base: base}
}

const derivativeColumns = `id, platform, title, status, published_at, created_at, updated_at`

// scanDerivative scans a derivative row using the provided scan function.
func scanDerivative(scan func(dest ...any) error) (*models.Derivative, error) {
	var d models.Derivative

	err := scan(&d.ID, &d.Platform, &d.Title, &d.Status, &d.PublishedAt, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return nil, err
	}

	return &d, nil
}

// ListDerivatives returns a paginated list filtered by platform and status.
// Returns derivatives, a has_more flag, and any error.
func (s *DerivativeStore) ListDerivatives(
	ctx context.Context, platform, status string, limit, offset int,
) ([]models.Derivative, bool, error) {
	if limit <= 0 {
		limit = 50
	}

	if limit > maxListLimit {
		limit = maxListLimit
	}

	if offset < 0 {
		offset = 0
	}

	ctx, cancel := withTimeout(ctx)
	defer cancel()

	query := `SELECT ` + derivativeColumns + ` FROM derivatives`
	args := []any{}
	var conditions []string

	if platform != "" {
		args = append(args, platform)
		conditions = append(conditions, fmt.Sprintf("platform = $%d", len(args)))
	}

	if status != "" {
		args = append(args, status)
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)))
	}

	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}

	args = append(args, limit+1, offset)
	query += fmt.Sprintf(" ORDER BY updated_at DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := s.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, false, fmt.Errorf("querying derivatives: %w", err)
	}
	defer rows.Close()

	derivatives := make([]models.Derivative, 0, limit+1)

	for rows.Next() {
		d, err := scanDerivative(rows.Scan)
		if err != nil {
			return nil, false, fmt.Errorf("scanning derivative row: %w", err)
		}

		derivatives = append(derivatives, *d)
	}

	if err := rows.Err(); err != nil {
		return nil, false, fmt.Errorf("iterating derivative rows: %w", err)
	}

	hasMore := len(derivatives) > limit
	if hasMore {
		derivatives = derivatives[:limit]
	}

	return derivatives, hasMore, nil
}

// GetDerivative returns a derivative with its current version attached.
func (s *DerivativeStore) GetDerivative(ctx context.Context, derivativeID string) (*models.Derivative, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	row := s.Pool.QueryRow(ctx,
		`SELECT `+derivativeColumns+` FROM derivatives WHERE id = $1`,
		derivativeID,
	)

	d, err := scanDerivative(row.Scan)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrDerivativeNotFound
		}

		return nil, fmt.Errorf("fetching derivative: %w", err)
	}

	vRow := s.Pool.QueryRow(ctx,
		`SELECT `+versionColumns+` FROM derivative_versions
		WHERE derivative_id = $1 AND is_current`,
		derivativeID,
	)

	v, err := scanVersion(vRow.Scan)
	if err != nil {
		// A derivative created before its first version has no current row.
		if !errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("fetching current version: %w", err)
		}
	} else {
		d.CurrentVersion = v
	}

	return d, nil
}

// CreateDerivative inserts a derivative and seeds version 1 from the initial
// content in the same transaction.
func (s *DerivativeStore) CreateDerivative(
	ctx context.Context, req models.CreateDerivativeRequest,
) (*models.Derivative, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	tx, err := s.Pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("creating derivative: %w", err)
	}

	defer tx.Rollback(ctx) //nolint:errcheck // best-effort rollback after commit.

	row := tx.QueryRow(ctx,
		`INSERT INTO derivatives (platform, title) VALUES ($1, $2)
		RETURNING `+derivativeColumns,
		req.Platform, req.Title,
	)

	d, err := scanDerivative(row.Scan)
	if err != nil {
		return nil, fmt.Errorf("scanning created derivative: %w", err)
	}

	summary := "Initial version"
	v, err := insertVersionTx(ctx, tx, d.ID.String(), models.CreateVersionRequest{
		Content:       req.Content,
		ChangeType:    models.ChangeCreated,
		ChangeSummary: &summary,
		ChangedBy:     req.ChangedBy,
	})
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("committing create derivative: %w", err)
	}

	d.CurrentVersion = v

	s.notify("derivative.created", d.ID.String())

	return d, nil
}

// UpdateDerivative updates derivative metadata and, when content is supplied,
// appends an "edited" version in the same transaction.
func (s *DerivativeStore) UpdateDerivative(
	ctx context.Context, derivativeID string, req models.UpdateDerivativeRequest,
) (*models.Derivative, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	tx, err := s.Pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("updating derivative: %w", err)
	}

	defer tx.Rollback(ctx) //nolint:errcheck // best-effort rollback after commit.

	setClauses := []string{"updated_at = NOW()"}
	args := []any{}

	if req.Title != nil {
		args = append(args, *req.Title)
		setClauses = append(setClauses, fmt.Sprintf("title = $%d", len(args)))
	}

	if req.Status != nil {
		args = append(args, *req.Status)
		setClauses = append(setClauses, fmt.Sprintf("status = $%d", len(args)))

		if *req.Status == models.StatusPublished {
			setClauses = append(setClauses, "published_at = NOW()")
		}
	}

	args = append(args, derivativeID)
	query := fmt.Sprintf(
		"UPDATE derivatives SET %s WHERE id = $%d RETURNING %s",
		strings.Join(setClauses, ", "), len(args), derivativeColumns,
	)

	d, err := scanDerivative(tx.QueryRow(ctx, query, args...).Scan)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrDerivativeNotFound
		}

		return nil, fmt.Errorf("scanning updated derivative: %w", err)
	}

	if req.Content != nil {
		v, err := insertVersionTx(ctx, tx, derivativeID, models.CreateVersionRequest{
			Content:       *req.Content,
			ChangeType:    models.ChangeEdited,
			ChangeSummary: req.ChangeSummary,
			ChangedBy:     req.ChangedBy,
		})
		if err != nil {
			return nil, err
		}

		d.CurrentVersion = v
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("committing update derivative: %w", err)
	}

	s.notify("derivative.updated", derivativeID)

	return d, nil
}

// DeleteDerivative removes a derivative; its version chain goes with it via
// the ON DELETE CASCADE constraint.
func (s *DerivativeStore) DeleteDerivative(ctx context.Context, derivativeID string) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	tag, err := s.Pool.Exec(ctx, `DELETE FROM derivatives WHERE id = $1`, derivativeID)
	if err != nil {
		return fmt.Errorf("deleting derivative: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return models.ErrDerivativeNotFound
	}

	s.notify("derivative.deleted", derivativeID)

	return nil
}
