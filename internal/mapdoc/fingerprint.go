package mapdoc

import (
	"crypto/md5"
	"fmt"
	"io"
	"os"

	"github.com/custodia-labs/mapstore/internal/core/domain"
)

// FileFingerprint computes the fingerprint of a map file without parsing it.
// The checksum matches the one a Read of the same bytes produces.
func FileFingerprint(path, originName string) (domain.Fingerprint, error) {
	f, err := os.Open(path)
	if err != nil {
		return domain.Fingerprint{}, fmt.Errorf("failed to open map %s: %w", path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return domain.Fingerprint{}, fmt.Errorf("failed to stat map %s: %w", path, err)
	}

	sum := md5.New()
	if _, err := io.Copy(sum, f); err != nil {
		return domain.Fingerprint{}, fmt.Errorf("failed to checksum map %s: %w", path, err)
	}

	fp := domain.Fingerprint{
		OriginName: originName,
		FileName:   path,
		Size:       info.Size(),
		ModTime:    info.ModTime(),
	}
	copy(fp.Checksum[:], sum.Sum(nil))
	return fp, nil
}
