package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/draftloop/draftloop/internal/models"
)

// VersionStore handles derivative version ledger operations.
type VersionStore struct {
	Base
}

// NewVersionStore creates a new VersionStore.
func NewVersionStore(base Base) *VersionStore {
	return &VersionStore{Base: base}
}

const versionColumns = `id, derivative_id, version_number, content, character_count,
	change_summary, change_reason, change_type, changed_by, is_current, created_at`

// scanVersion scans a version row using the provided scan function.
func scanVersion(scan func(dest ...any) error) (*models.DerivativeVersion, error) {
	var v models.DerivativeVersion

	err := scan(
		&v.ID, &v.DerivativeID, &v.VersionNumber, &v.Content, &v.CharacterCount,
		&v.ChangeSummary, &v.ChangeReason, &v.ChangeType, &v.ChangedBy,
		&v.IsCurrent, &v.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &v, nil
}

// insertVersionTx appends a new version for a derivative within an existing
// transaction: it computes the next version number, clears the previous
// current flag, and inserts the new row as current. Package-level so
// DerivativeStore can create versions inside its own transactions.
//
// The three statements must stay inside one transaction; splitting them can
// leave zero or two current rows under concurrent writers. The partial
// unique index idx_versions_one_current backstops this at the schema level.
func insertVersionTx(
	ctx context.Context,
	tx pgx.Tx,
	derivativeID string,
	req models.CreateVersionRequest,
) (*models.DerivativeVersion, error) {
	var nextNumber int

	err := tx.QueryRow(ctx,
		`SELECT COALESCE(MAX(version_number), 0) + 1 FROM derivative_versions WHERE derivative_id = $1`,
		derivativeID,
	).Scan(&nextNumber)
	if err != nil {
		return nil, fmt.Errorf("computing next version number: %w", err)
	}

	// At most one row holds the flag; the row lock taken here serializes
	// concurrent creates for the same derivative.
	if _, err := tx.Exec(ctx,
		`UPDATE derivative_versions SET is_current = FALSE WHERE derivative_id = $1 AND is_current`,
		derivativeID,
	); err != nil {
		return nil, fmt.Errorf("clearing current version: %w", err)
	}

	row := tx.QueryRow(ctx,
		`INSERT INTO derivative_versions
			(derivative_id, version_number, content, character_count,
			 change_summary, change_reason, change_type, changed_by, is_current)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, TRUE)
		RETURNING `+versionColumns,
		derivativeID, nextNumber, req.Content, len(req.Content),
		req.ChangeSummary, req.ChangeReason, req.ChangeType, req.ChangedBy,
	)

	v, err := scanVersion(row.Scan)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case "23503": // foreign key violation: derivative does not exist
				return nil, models.ErrDerivativeNotFound
			case "23505":
				return nil, models.ErrDuplicateKey
			}
		}

		return nil, fmt.Errorf("inserting version: %w", err)
	}

	return v, nil
}

// CreateVersion appends a new version to a derivative's chain and marks it
// current. The flip-and-insert runs as a single transaction, so a failed
// write leaves no partial state.
func (s *VersionStore) CreateVersion(
	ctx context.Context,
	req models.CreateVersionRequest,
) (*models.DerivativeVersion, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	tx, err := s.Pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("creating version: %w", err)
	}

	defer tx.Rollback(ctx) //nolint:errcheck // best-effort rollback after commit.

	v, err := insertVersionTx(ctx, tx, req.DerivativeID, req)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("committing create version: %w", err)
	}

	s.notify("derivative.version.created", req.DerivativeID)

	return v, nil
}

// GetVersions returns all versions for a derivative, newest first.
// No pagination; callers bound history size via PurgeOldVersions.
func (s *VersionStore) GetVersions(ctx context.Context, derivativeID string) ([]models.DerivativeVersion, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	rows, err := s.Pool.Query(ctx,
		`SELECT `+versionColumns+` FROM derivative_versions
		WHERE derivative_id = $1 ORDER BY version_number DESC`,
		derivativeID,
	)
	if err != nil {
		return nil, fmt.Errorf("querying versions: %w", err)
	}
	defer rows.Close()

	versions := make([]models.DerivativeVersion, 0)

	for rows.Next() {
		v, err := scanVersion(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scanning version row: %w", err)
		}

		versions = append(versions, *v)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating version rows: %w", err)
	}

	return versions, nil
}

// GetVersion returns a single version by primary key.
func (s *VersionStore) GetVersion(ctx context.Context, versionID int64) (*models.DerivativeVersion, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	row := s.Pool.QueryRow(ctx,
		`SELECT `+versionColumns+` FROM derivative_versions WHERE id = $1`,
		versionID,
	)

	v, err := scanVersion(row.Scan)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrVersionNotFound
		}

		return nil, fmt.Errorf("fetching version: %w", err)
	}

	return v, nil
}

// DeleteVersion removes a non-current version and returns the deleted record.
// Deleting the current version fails with ErrCurrentVersion; remaining
// version numbers are never renumbered, so gaps are expected.
func (s *VersionStore) DeleteVersion(ctx context.Context, versionID int64) (*models.DerivativeVersion, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	tx, err := s.Pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("deleting version: %w", err)
	}

	defer tx.Rollback(ctx) //nolint:errcheck // best-effort rollback after commit.

	row := tx.QueryRow(ctx,
		`SELECT `+versionColumns+` FROM derivative_versions WHERE id = $1 FOR UPDATE`,
		versionID,
	)

	v, err := scanVersion(row.Scan)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrVersionNotFound
		}

		return nil, fmt.Errorf("fetching version for delete: %w", err)
	}

	if v.IsCurrent {
		return nil, models.ErrCurrentVersion
	}

	if _, err := tx.Exec(ctx, `DELETE FROM derivative_versions WHERE id = $1`, versionID); err != nil {
		return nil, fmt.Errorf("deleting version row: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("committing delete version: %w", err)
	}

	s.notify("derivative.version.deleted", v.DerivativeID.String())

	return v, nil
}

// PurgeOldVersions deletes non-current versions outside the retention window:
// the keepCount-1 highest non-current version numbers survive, and the
// current version is never eligible regardless of age. Returns the number of
// deleted rows; calling again with the same keepCount deletes zero.
func (s *VersionStore) PurgeOldVersions(ctx context.Context, derivativeID string, keepCount int) (int, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	tag, err := s.Pool.Exec(ctx,
		`DELETE FROM derivative_versions
		WHERE derivative_id = $1
		  AND NOT is_current
		  AND id NOT IN (
			SELECT id FROM derivative_versions
			WHERE derivative_id = $1 AND NOT is_current
			ORDER BY version_number DESC
			LIMIT $2
		  )`,
		derivativeID, keepCount-1,
	)
	if err != nil {
		return 0, fmt.Errorf("purging versions: %w", err)
	}

	deleted := int(tag.RowsAffected())
	if deleted > 0 {
		s.notify("derivative.version.purged", derivativeID)
	}

	return deleted, nil
}

// GetVersionStats returns the total version count and a per-change-type
// breakdown for a derivative.
func (s *VersionStore) GetVersionStats(ctx context.Context, derivativeID string) (*models.VersionStats, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	rows, err := s.Pool.Query(ctx,
		`SELECT change_type, COUNT(*) FROM derivative_versions
		WHERE derivative_id = $1 GROUP BY change_type`,
		derivativeID,
	)
	if err != nil {
		return nil, fmt.Errorf("querying version stats: %w", err)
	}
	defer rows.Close()

	stats := &models.VersionStats{ByChangeType: make(map[models.ChangeType]int)}

	for rows.Next() {
		var changeType models.ChangeType
		var count int

		if err := rows.Scan(&changeType, &count); err != nil {
			return nil, fmt.Errorf("scanning stats row: %w", err)
		}

		stats.ByChangeType[changeType] = count
		stats.TotalVersions += count
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating stats rows: %w", err)
	}

	return stats, nil
}

// GetVersionTimeline returns a content-free projection of a derivative's
// versions in ascending version order.
func (s *VersionStore) GetVersionTimeline(ctx context.Context, derivativeID string) ([]models.TimelineEntry, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	rows, err := s.Pool.Query(ctx,
		`SELECT id, version_number, change_summary, change_type, changed_by,
			is_current, character_count, created_at
		FROM derivative_versions
		WHERE derivative_id = $1 ORDER BY version_number ASC`,
		derivativeID,
	)
	if err != nil {
		return nil, fmt.Errorf("querying version timeline: %w", err)
	}
	defer rows.Close()

	timeline := make([]models.TimelineEntry, 0)

	for rows.Next() {
		var e models.TimelineEntry

		if err := rows.Scan(
			&e.ID, &e.VersionNumber, &e.ChangeSummary, &e.ChangeType,
			&e.ChangedBy, &e.IsCurrent, &e.CharacterCount, &e.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning timeline row: %w", err)
		}

		timeline = append(timeline, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating timeline rows: %w", err)
	}

	return timeline, nil
}
