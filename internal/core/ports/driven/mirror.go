package driven

import (
	"context"

	"github.com/custodia-labs/mapstore/internal/core/domain"
)

// MapMirror publishes written map files to remote storage so other robots
// and consoles can fetch the same version.
type MapMirror interface {
	// Publish uploads the file at path. The fingerprint identifies the
	// version and is stored alongside it.
	Publish(ctx context.Context, fp domain.Fingerprint, path string) error
}
