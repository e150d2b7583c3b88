package cli

import (
	"crypto/md5"
	"encoding/hex"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChecksumCmd_FileBytes(t *testing.T) {
	setupServices(t)
	path := writeMap(t, t.TempDir(), "site.map", mapV1)
	sum := md5.Sum([]byte(mapV1))

	out, err := run(t, "checksum", path)

	require.NoError(t, err)
	assert.Equal(t, hex.EncodeToString(sum[:])+"  "+path+"\n", out)
}

func TestChecksumCmd_CanonicalIgnoresFormatting(t *testing.T) {
	setupServices(t)
	dir := t.TempDir()
	tidy := writeMap(t, dir, "tidy.map", mapV1)
	messy := writeMap(t, dir, "messy.map", mapV1Unsorted)

	plain, err := run(t, "checksum", tidy, messy)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(plain), "\n")
	require.Len(t, lines, 2)
	assert.NotEqual(t, strings.Fields(lines[0])[0], strings.Fields(lines[1])[0])

	canonical, err := run(t, "checksum", "--canonical", tidy, messy)
	require.NoError(t, err)
	lines = strings.Split(strings.TrimSpace(canonical), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, strings.Fields(lines[0])[0], strings.Fields(lines[1])[0])
}

func TestChecksumCmd_MissingFile(t *testing.T) {
	setupServices(t)

	_, err := run(t, "checksum", "/nonexistent/site.map")

	assert.Error(t, err)
}
