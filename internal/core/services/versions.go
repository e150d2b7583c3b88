package services

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/custodia-labs/mapstore/internal/core/domain"
	"github.com/custodia-labs/mapstore/internal/core/ports/driven"
	"github.com/custodia-labs/mapstore/internal/core/ports/driving"
	"github.com/custodia-labs/mapstore/internal/mapdoc"
)

// Ensure VersionService implements the interface.
var _ driving.VersionService = (*VersionService)(nil)

// VersionService compares map files with the versions recorded in a
// fingerprint store.
type VersionService struct {
	store      driven.FingerprintStore
	originName string
}

// NewVersionService creates a version service. originName is stamped on
// fingerprints it records.
func NewVersionService(store driven.FingerprintStore, originName string) *VersionService {
	return &VersionService{store: store, originName: originName}
}

// Status reports whether the file at path still matches its recorded version.
func (s *VersionService) Status(ctx context.Context, path string) (domain.VersionReport, error) {
	var report domain.VersionReport

	recorded, err := s.store.Get(ctx, path)
	switch {
	case errors.Is(err, domain.ErrNotFound):
	case err != nil:
		return report, fmt.Errorf("get recorded version: %w", err)
	default:
		report.Recorded = recorded
	}

	current, err := mapdoc.FileFingerprint(path, s.originName)
	switch {
	case errors.Is(err, os.ErrNotExist):
		if report.Recorded.IsZero() {
			return report, err
		}
		report.Status = domain.VersionMissing
		return report, nil
	case err != nil:
		return report, err
	}
	report.Current = current

	switch {
	case report.Recorded.IsZero():
		report.Status = domain.VersionUntracked
	case report.Recorded.SameVersion(current):
		report.Status = domain.VersionCurrent
	default:
		report.Status = domain.VersionChanged
	}
	return report, nil
}

// Record stores the current version of the file at path.
func (s *VersionService) Record(ctx context.Context, path string) (domain.Fingerprint, error) {
	fp, err := mapdoc.FileFingerprint(path, s.originName)
	if err != nil {
		return domain.Fingerprint{}, err
	}
	if err := s.store.Save(ctx, fp); err != nil {
		return domain.Fingerprint{}, fmt.Errorf("record version: %w", err)
	}
	return fp, nil
}

// Forget drops the recorded version of path.
func (s *VersionService) Forget(ctx context.Context, path string) error {
	return s.store.Delete(ctx, path)
}

// List returns every recorded version ordered by file name.
func (s *VersionService) List(ctx context.Context) ([]domain.Fingerprint, error) {
	return s.store.List(ctx)
}
