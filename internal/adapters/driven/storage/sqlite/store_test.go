package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/mapstore/internal/core/domain"
)

// setupTestStore creates a temporary SQLite store for testing.
func setupTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, store.Close())
	})
	return store
}

func testFingerprint(name string) domain.Fingerprint {
	return domain.Fingerprint{
		OriginName: "robot-1",
		FileName:   name,
		Checksum:   [16]byte{0xde, 0xad, 0xbe, 0xef, 15: 0x01},
		Size:       1234,
		ModTime:    time.Date(2024, 5, 6, 7, 8, 9, 123456789, time.UTC),
	}
}

func TestNewStore_CreatesDatabase(t *testing.T) {
	dir := t.TempDir()

	store, err := NewStore(dir)
	require.NoError(t, err)
	defer store.Close()

	assert.Equal(t, filepath.Join(dir, "fingerprints.db"), store.Path())
	assert.FileExists(t, store.Path())
}

func TestNewStore_ReopenKeepsData(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	store, err := NewStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.FingerprintStore().Save(ctx, testFingerprint("/maps/a.map")))
	require.NoError(t, store.Close())

	// Migrations must not run twice.
	store, err = NewStore(dir)
	require.NoError(t, err)
	defer store.Close()

	got, err := store.FingerprintStore().Get(ctx, "/maps/a.map")
	require.NoError(t, err)
	assert.True(t, testFingerprint("/maps/a.map").SameVersion(got))
}

func TestFingerprintStore_SaveAndGet(t *testing.T) {
	fps := setupTestStore(t).FingerprintStore()
	ctx := context.Background()
	want := testFingerprint("/maps/office.map")

	require.NoError(t, fps.Save(ctx, want))

	got, err := fps.Get(ctx, "/maps/office.map")
	require.NoError(t, err)
	assert.Equal(t, want.FileName, got.FileName)
	assert.Equal(t, want.OriginName, got.OriginName)
	assert.Equal(t, want.Checksum, got.Checksum)
	assert.Equal(t, want.Size, got.Size)
	assert.True(t, want.ModTime.Equal(got.ModTime))
}

func TestFingerprintStore_ZeroModTime(t *testing.T) {
	fps := setupTestStore(t).FingerprintStore()
	ctx := context.Background()
	fp := testFingerprint("a.map")
	fp.ModTime = time.Time{}

	require.NoError(t, fps.Save(ctx, fp))

	got, err := fps.Get(ctx, "a.map")
	require.NoError(t, err)
	assert.True(t, got.ModTime.IsZero())
}

func TestFingerprintStore_SaveReplaces(t *testing.T) {
	fps := setupTestStore(t).FingerprintStore()
	ctx := context.Background()
	fp := testFingerprint("a.map")
	require.NoError(t, fps.Save(ctx, fp))

	fp.Size = 99
	fp.Checksum = [16]byte{1}
	require.NoError(t, fps.Save(ctx, fp))

	got, err := fps.Get(ctx, "a.map")
	require.NoError(t, err)
	assert.Equal(t, int64(99), got.Size)
	assert.Equal(t, [16]byte{1}, got.Checksum)

	all, err := fps.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestFingerprintStore_Errors(t *testing.T) {
	fps := setupTestStore(t).FingerprintStore()
	ctx := context.Background()

	_, err := fps.Get(ctx, "missing.map")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	err = fps.Save(ctx, domain.Fingerprint{Size: 1})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestFingerprintStore_ListAndDelete(t *testing.T) {
	fps := setupTestStore(t).FingerprintStore()
	ctx := context.Background()
	for _, name := range []string{"c.map", "a.map", "b.map"} {
		require.NoError(t, fps.Save(ctx, testFingerprint(name)))
	}

	all, err := fps.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "a.map", all[0].FileName)
	assert.Equal(t, "c.map", all[2].FileName)

	require.NoError(t, fps.Delete(ctx, "b.map"))
	require.NoError(t, fps.Delete(ctx, "b.map"))

	all, err = fps.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
