package domain

import "path/filepath"

// AppSettings holds all configurable settings of the map store tools.
type AppSettings struct {
	Store   StoreSettings
	Storage StorageSettings
	Mirror  MirrorSettings
	Metrics MetricsSettings
}

// StorageSettings configures local persistence.
type StorageSettings struct {
	// DataDir holds the fingerprint database.
	DataDir string
}

// FingerprintDBPath returns the path of the fingerprint database.
func (s StorageSettings) FingerprintDBPath() string {
	return filepath.Join(s.DataDir, "fingerprints.db")
}

// MirrorSettings configures publishing written maps to S3-compatible storage.
type MirrorSettings struct {
	Bucket string
	Prefix string
	Region string

	// Endpoint overrides the S3 endpoint, e.g. for MinIO.
	Endpoint string

	// UsePathStyle addresses the bucket in the URL path.
	UsePathStyle bool

	// AccessKeyID and SecretAccessKey are static credentials. When empty
	// the default AWS credential chain is used.
	AccessKeyID     string
	SecretAccessKey string
}

// IsConfigured returns true if a bucket is set.
func (m MirrorSettings) IsConfigured() bool {
	return m.Bucket != ""
}

// HasStaticCredentials returns true if both static keys are set.
func (m MirrorSettings) HasStaticCredentials() bool {
	return m.AccessKeyID != "" && m.SecretAccessKey != ""
}

// MetricsSettings configures the Prometheus endpoint.
type MetricsSettings struct {
	// Listen is the address of the metrics HTTP server. Empty disables it.
	Listen string
}

// DefaultAppSettings returns settings with sensible defaults.
// dataDir is the base directory for local state.
func DefaultAppSettings(dataDir string) AppSettings {
	return AppSettings{
		Store:   DefaultStoreSettings(),
		Storage: StorageSettings{DataDir: dataDir},
		Mirror:  MirrorSettings{Prefix: "maps/"},
	}
}
