package driving

import (
	"context"

	"github.com/custodia-labs/mapstore/internal/core/domain"
)

// VersionService tracks which version of each map file was last seen.
type VersionService interface {
	// Status compares the file at path with its recorded version.
	Status(ctx context.Context, path string) (domain.VersionReport, error)

	// Record stores the current version of the file at path.
	Record(ctx context.Context, path string) (domain.Fingerprint, error)

	// Forget drops the recorded version of path.
	Forget(ctx context.Context, path string) error

	// List returns every recorded version ordered by file name.
	List(ctx context.Context) ([]domain.Fingerprint, error)
}
