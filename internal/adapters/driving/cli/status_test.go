package cli

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusCmd_EmptyList(t *testing.T) {
	setupServices(t)

	out, err := run(t, "status")

	require.NoError(t, err)
	assert.Equal(t, "No recorded maps\n", out)
}

func TestStatusCmd_Untracked(t *testing.T) {
	setupServices(t)
	path := writeMap(t, t.TempDir(), "site.map", mapV1)

	out, err := run(t, "status", path)

	require.NoError(t, err)
	assert.Contains(t, out, "untracked  "+path)
}

func TestStatusCmd_RecordThenChange(t *testing.T) {
	setupServices(t)
	path := writeMap(t, t.TempDir(), "site.map", mapV1)

	out, err := run(t, "status", "--record", path)
	require.NoError(t, err)
	assert.Contains(t, out, "recorded")

	out, err = run(t, "status", path)
	require.NoError(t, err)
	assert.Contains(t, out, "current    "+path)

	require.NoError(t, os.WriteFile(path, []byte(mapV2), 0o644))
	out, err = run(t, "status", path)
	require.NoError(t, err)
	assert.Contains(t, out, "changed    "+path)
	assert.Contains(t, out, "recorded ")
	assert.Contains(t, out, "current  ")

	out, err = run(t, "status")
	require.NoError(t, err)
	assert.Contains(t, out, path)
}

func TestStatusCmd_ReadRecordsVersion(t *testing.T) {
	setupServices(t)
	path := writeMap(t, t.TempDir(), "site.map", mapV1)

	_, err := run(t, "info", path)
	require.NoError(t, err)

	out, err := run(t, "status", path)
	require.NoError(t, err)
	assert.Contains(t, out, "current")
}

func TestStatusCmd_Missing(t *testing.T) {
	setupServices(t)
	path := writeMap(t, t.TempDir(), "site.map", mapV1)
	_, err := run(t, "status", "--record", path)
	require.NoError(t, err)
	require.NoError(t, os.Remove(path))

	out, err := run(t, "status", path)

	require.NoError(t, err)
	assert.Contains(t, out, "missing")
}

func TestStatusCmd_Forget(t *testing.T) {
	setupServices(t)
	path := writeMap(t, t.TempDir(), "site.map", mapV1)
	_, err := run(t, "status", "--record", path)
	require.NoError(t, err)

	out, err := run(t, "status", "--forget", path)
	require.NoError(t, err)
	assert.Contains(t, out, "forgotten")

	out, err = run(t, "status", path)
	require.NoError(t, err)
	assert.Contains(t, out, "untracked")
}

func TestStatusCmd_RecordAndForgetExclusive(t *testing.T) {
	setupServices(t)
	path := writeMap(t, t.TempDir(), "site.map", mapV1)

	_, err := run(t, "status", "--record", "--forget", path)

	assert.Error(t, err)
}
