package file

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigStore_Success(t *testing.T) {
	tmpDir := t.TempDir()

	store, err := NewConfigStore(tmpDir)

	require.NoError(t, err)
	require.NotNil(t, store)
	assert.Equal(t, filepath.Join(tmpDir, "config.toml"), store.Path())
}

func TestNewConfigStore_WithNestedDirectory(t *testing.T) {
	nestedPath := filepath.Join(t.TempDir(), "nested", "deep", "path")

	store, err := NewConfigStore(nestedPath)

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(nestedPath, "config.toml"), store.Path())
	info, err := os.Stat(nestedPath)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0700), info.Mode().Perm())
}

func TestNewConfigStore_MkdirAllError(t *testing.T) {
	store, err := NewConfigStore("/dev/null/cannot/create/dirs")

	assert.Error(t, err)
	assert.Nil(t, store)
}

func TestNewConfigStore_LoadCorruptedFile(t *testing.T) {
	tmpDir := t.TempDir()
	err := os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte("this is not valid TOML {{{[["), 0600)
	require.NoError(t, err)

	store, err := NewConfigStore(tmpDir)

	assert.Error(t, err)
	assert.Nil(t, store)
}

func TestConfigStore_TypedGetters(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Set("map.origin_name", "robot-7"))
	require.NoError(t, store.Set("reload.cancel_wait_attempts", 40))
	require.NoError(t, store.Set("map.use_temp_file", false))
	require.NoError(t, store.Set("info.extra_sections", []string{"ZoneInfo"}))

	assert.Equal(t, "robot-7", store.GetString("map.origin_name"))
	assert.Equal(t, 40, store.GetInt("reload.cancel_wait_attempts"))
	assert.False(t, store.GetBool("map.use_temp_file"))
	assert.Equal(t, []string{"ZoneInfo"}, store.GetStringSlice("info.extra_sections"))

	// Wrong types read as zero values
	assert.Equal(t, "", store.GetString("reload.cancel_wait_attempts"))
	assert.Equal(t, 0, store.GetInt("map.origin_name"))
	assert.False(t, store.GetBool("map.origin_name"))
	assert.Nil(t, store.GetStringSlice("map.origin_name"))

	val, ok := store.Get("nonexistent")
	assert.False(t, ok)
	assert.Nil(t, val)
}

func TestConfigStore_GetDuration(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	tests := []struct {
		name  string
		value any
		want  time.Duration
	}{
		{"duration string", "250ms", 250 * time.Millisecond},
		{"minutes", "2m", 2 * time.Minute},
		{"int milliseconds", 1500, 1500 * time.Millisecond},
		{"int64 milliseconds", int64(10), 10 * time.Millisecond},
		{"invalid string", "soon", 0},
		{"wrong type", true, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NoError(t, store.Set("reload.debounce", tt.value))
			assert.Equal(t, tt.want, store.GetDuration("reload.debounce"))
		})
	}

	assert.Zero(t, store.GetDuration("missing"))
}

func TestConfigStore_WritesNestedTables(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	require.NoError(t, store.Set("reload.debounce", "100ms"))
	require.NoError(t, store.Set("mirror.s3.bucket", "maps"))

	data, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	assert.Contains(t, string(data), "[reload]")
	assert.Contains(t, string(data), "[mirror.s3]")

	store2, err := NewConfigStore(tmpDir)
	require.NoError(t, err)
	assert.Equal(t, 100*time.Millisecond, store2.GetDuration("reload.debounce"))
	assert.Equal(t, "maps", store2.GetString("mirror.s3.bucket"))
}

func TestConfigStore_ReadsHandWrittenFile(t *testing.T) {
	tmpDir := t.TempDir()
	content := `
[map]
origin_name = "lab"

[info]
child_sections = ["RouteInfo"]

[info.child_args]
RouteInfo = ["Goal", "EndRoute"]

[reload]
min_interval = 2000
`
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte(content), 0600))

	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	assert.Equal(t, "lab", store.GetString("map.origin_name"))
	assert.Equal(t, []string{"RouteInfo"}, store.GetStringSlice("info.child_sections"))
	assert.Equal(t, []string{"Goal", "EndRoute"}, store.GetStringSlice("info.child_args.RouteInfo"))
	assert.Equal(t, 2*time.Second, store.GetDuration("reload.min_interval"))
}

func TestNestMap_ConflictingKeys(t *testing.T) {
	got := nestMap(map[string]any{
		"a":   1,
		"a.b": 2,
		"c.d": 3,
	})

	assert.Equal(t, 1, got["a"])
	assert.Equal(t, 2, got["a.b"])
	assert.Equal(t, map[string]any{"d": 3}, got["c"])
}

func TestConfigStore_FilePermissions(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Set("map.origin_name", "value"))

	info, err := os.Stat(store.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestConfigStore_EmptyFile(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte("# Just a comment\n\n"), 0600))

	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	_, ok := store.Get("any_key")
	assert.False(t, ok)
}

func TestConfigStore_Save_WriteFileError(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, store.Set("test", "value"))

	// Replace the file with a directory to cause write error
	require.NoError(t, os.Remove(store.Path()))
	require.NoError(t, os.Mkdir(store.Path(), 0700))

	assert.Error(t, store.Set("another", "value"))
	assert.Error(t, store.Save())
}

func TestConfigStore_SetWithUnmarshallableValue(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	// Channels cannot be marshaled to TOML
	assert.Error(t, store.Set("channel", make(chan int)))
}

func TestConfigStore_Concurrency(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	done := make(chan bool)
	for i := 0; i < 10; i++ {
		go func(id int) {
			key := "key" + string(rune('0'+id))
			_ = store.Set(key, id)
			_ = store.GetInt(key)
			_ = store.GetDuration(key)
			_, _ = store.Get(key)
			done <- true
		}(i)
	}

	for i := 0; i < 10; i++ {
		<-done
	}
}
