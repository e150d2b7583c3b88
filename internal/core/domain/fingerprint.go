package domain

import (
	"encoding/hex"
	"time"
)

// Fingerprint identifies one exact version of a map file.
// It is created whenever a file is read or written and copied by value.
type Fingerprint struct {
	// OriginName names where the map came from (robot, server or tool).
	OriginName string

	// FileName is the path of the map file as it was read or written.
	FileName string

	// Checksum is the MD5 digest of the file bytes.
	Checksum [16]byte

	// Size is the file size in bytes.
	Size int64

	// ModTime is the file modification time. Zero means unknown.
	ModTime time.Time
}

// IsZero reports whether the fingerprint was never set.
func (f Fingerprint) IsZero() bool {
	return f.FileName == "" && f.Size == 0 && f.Checksum == [16]byte{}
}

// ChecksumString returns the checksum as lower-case hex.
func (f Fingerprint) ChecksumString() string {
	return hex.EncodeToString(f.Checksum[:])
}

// SameVersion reports whether both fingerprints denote the same file version.
// File name, size and checksum must match. A zero ModTime on either side
// matches any time.
func (f Fingerprint) SameVersion(other Fingerprint) bool {
	if f.FileName != other.FileName || f.Size != other.Size || f.Checksum != other.Checksum {
		return false
	}
	if f.ModTime.IsZero() || other.ModTime.IsZero() {
		return true
	}
	return f.ModTime.Equal(other.ModTime)
}

// ParseChecksum decodes a hex checksum as produced by ChecksumString.
func ParseChecksum(s string) ([16]byte, bool) {
	var sum [16]byte
	b, err := hex.DecodeString(s)
	if err != nil || len(b) != len(sum) {
		return sum, false
	}
	copy(sum[:], b)
	return sum, true
}

// VersionStatus says how a map file on disk relates to its recorded version.
type VersionStatus string

// Version statuses.
const (
	// VersionUntracked means no version of the file was recorded.
	VersionUntracked VersionStatus = "untracked"

	// VersionCurrent means the file matches the recorded version.
	VersionCurrent VersionStatus = "current"

	// VersionChanged means the file differs from the recorded version.
	VersionChanged VersionStatus = "changed"

	// VersionMissing means a version was recorded but the file is gone.
	VersionMissing VersionStatus = "missing"
)

// VersionReport compares a map file with its recorded fingerprint.
type VersionReport struct {
	Status VersionStatus

	// Recorded is the stored fingerprint. Zero when untracked.
	Recorded Fingerprint

	// Current is the file's fingerprint now. Zero when missing.
	Current Fingerprint
}
