package models

import (
	"errors"
	"fmt"
)

// Sentinel errors for validation.
var (
	ErrMissingDerivativeID  = errors.New("derivative_id is required")
	ErrInvalidDerivativeID  = errors.New("derivative_id must be a valid UUID")
	ErrInvalidChangeType    = errors.New("change_type must be one of: created, edited, ai_regenerated, rollback")
	ErrMissingTargetVersion = errors.New("target_version_id is required")
	ErrMissingVersionIDs    = errors.New("version1_id and version2_id are required")
	ErrMissingPlatform      = errors.New("platform is required")
	ErrMissingTitle         = errors.New("title is required")
	ErrInvalidStatus        = errors.New("status must be one of: draft, published, archived")
	ErrEmptyUpdate          = errors.New("at least one field must be provided")
)

// Sentinel errors for entity lookups.
var (
	ErrDerivativeNotFound = errors.New("derivative not found")
	ErrVersionNotFound    = errors.New("version not found")
)

// ErrCurrentVersion indicates an attempt to delete the current version.
// Deleting the current row would break the one-current-per-derivative
// invariant, so this guard is never relaxed.
var ErrCurrentVersion = errors.New("cannot delete the current version")

// ErrDuplicateKey indicates a unique constraint violation (maps to HTTP 409 Conflict).
var ErrDuplicateKey = errors.New("duplicate key")

// ErrFieldTooLong returns an error indicating a field exceeds its maximum length.
func ErrFieldTooLong(field string, maxLen int) error {
	return fmt.Errorf("%s exceeds maximum length of %d", field, maxLen)
}
