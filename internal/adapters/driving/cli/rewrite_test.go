package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRewriteCmd_WritesCanonicalCopy(t *testing.T) {
	setupServices(t)
	dir := t.TempDir()
	in := writeMap(t, dir, "in.map", mapV1Unsorted)
	out := filepath.Join(dir, "out.map")

	stdout, err := run(t, "rewrite", in, out)

	require.NoError(t, err)
	assert.Contains(t, stdout, "Wrote "+out)
	assert.Contains(t, stdout, "2D-Map")
	assert.NotContains(t, stdout, "Content unchanged")

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "2D-Map\n"))
	assert.Contains(t, string(data), "DATA\n0 0\n")
}

func TestRewriteCmd_CanonicalInputUnchanged(t *testing.T) {
	setupServices(t)
	dir := t.TempDir()
	in := writeMap(t, dir, "in.map", mapV1)
	out := filepath.Join(dir, "out.map")
	_, err := run(t, "rewrite", in, out)
	require.NoError(t, err)

	stdout, err := run(t, "rewrite", out)

	require.NoError(t, err)
	assert.Contains(t, stdout, "Content unchanged")
}

func TestRewriteCmd_MissingInput(t *testing.T) {
	setupServices(t)

	_, err := run(t, "rewrite", filepath.Join(t.TempDir(), "missing.map"))

	assert.Error(t, err)
}
