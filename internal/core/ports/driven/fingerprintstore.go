package driven

import (
	"context"

	"github.com/custodia-labs/mapstore/internal/core/domain"
)

// FingerprintStore remembers the last seen version of each map file.
// It keeps one fingerprint per file name; saving replaces the previous one.
type FingerprintStore interface {
	// Save stores the fingerprint under its file name.
	Save(ctx context.Context, fp domain.Fingerprint) error

	// Get retrieves the fingerprint stored for a file name.
	// Returns domain.ErrNotFound if none was saved.
	Get(ctx context.Context, fileName string) (domain.Fingerprint, error)

	// List returns all stored fingerprints ordered by file name.
	List(ctx context.Context) ([]domain.Fingerprint, error)

	// Delete removes the fingerprint of a file name.
	// Deleting a missing entry is not an error.
	Delete(ctx context.Context, fileName string) error
}
