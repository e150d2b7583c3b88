package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/mapstore/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/mapstore/internal/core/domain"
	"github.com/custodia-labs/mapstore/internal/core/ports/driven"
)

// dbFileName is the database file inside the data directory.
const dbFileName = "fingerprints.db"

// Store is a SQLite-based storage for map store metadata.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store in the specified data directory.
// If dataDir is empty, defaults to ~/.mapstore/data/fingerprints.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".mapstore", "data")
	}

	// Ensure directory exists
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, dbFileName)

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	// Run migrations
	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// FingerprintStore returns a FingerprintStore interface backed by this store.
func (s *Store) FingerprintStore() driven.FingerprintStore {
	return &fingerprintStore{store: s}
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	// Ensure schema_migrations table exists
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	// Get current version
	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	// Find all up migrations
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_fingerprints.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}

		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
	}

	return nil
}

// ==================== Fingerprint Store ====================

// fingerprintStore implements driven.FingerprintStore.
type fingerprintStore struct {
	store *Store
}

var _ driven.FingerprintStore = (*fingerprintStore)(nil)

// Save stores or replaces the fingerprint of a file.
func (s *fingerprintStore) Save(ctx context.Context, fp domain.Fingerprint) error {
	if fp.FileName == "" {
		return fmt.Errorf("saving fingerprint: empty file name: %w", domain.ErrInvalidInput)
	}

	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO fingerprints (file_name, origin_name, checksum, size, mod_time, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(file_name) DO UPDATE SET
			origin_name = excluded.origin_name,
			checksum = excluded.checksum,
			size = excluded.size,
			mod_time = excluded.mod_time,
			updated_at = excluded.updated_at
	`, fp.FileName, fp.OriginName, fp.ChecksumString(), fp.Size, unixNano(fp.ModTime), time.Now().UTC())

	if err != nil {
		return fmt.Errorf("saving fingerprint: %w", err)
	}
	return nil
}

// Get retrieves the fingerprint of a file.
func (s *fingerprintStore) Get(ctx context.Context, fileName string) (domain.Fingerprint, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT file_name, origin_name, checksum, size, mod_time
		FROM fingerprints WHERE file_name = ?
	`, fileName)

	fp, err := scanFingerprint(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Fingerprint{}, domain.ErrNotFound
	}
	return fp, err
}

// List returns all fingerprints ordered by file name.
func (s *fingerprintStore) List(ctx context.Context) ([]domain.Fingerprint, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT file_name, origin_name, checksum, size, mod_time
		FROM fingerprints ORDER BY file_name
	`)
	if err != nil {
		return nil, fmt.Errorf("querying fingerprints: %w", err)
	}
	defer rows.Close()

	var result []domain.Fingerprint
	for rows.Next() {
		fp, err := scanFingerprint(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, fp)
	}
	return result, rows.Err()
}

// Delete removes the fingerprint of a file.
func (s *fingerprintStore) Delete(ctx context.Context, fileName string) error {
	if _, err := s.store.db.ExecContext(ctx, `DELETE FROM fingerprints WHERE file_name = ?`, fileName); err != nil {
		return fmt.Errorf("deleting fingerprint: %w", err)
	}
	return nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanFingerprint(row rowScanner) (domain.Fingerprint, error) {
	var fp domain.Fingerprint
	var checksum string
	var modTime int64
	if err := row.Scan(&fp.FileName, &fp.OriginName, &checksum, &fp.Size, &modTime); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fp, err
		}
		return fp, fmt.Errorf("scanning fingerprint: %w", err)
	}

	sum, ok := domain.ParseChecksum(checksum)
	if !ok {
		return domain.Fingerprint{}, fmt.Errorf("scanning fingerprint %s: bad checksum %q", fp.FileName, checksum)
	}
	fp.Checksum = sum
	if modTime != 0 {
		fp.ModTime = time.Unix(0, modTime).UTC()
	}
	return fp, nil
}

// unixNano stores a zero time as 0 so it reads back as unknown.
func unixNano(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixNano()
}
