package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandPath(t *testing.T) {
	t.Parallel()

	home, err := os.UserHomeDir()
	require.NoError(t, err)

	expanded, err := ExpandPath("~/docs/case.pdf")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "docs", "case.pdf"), expanded)

	unchanged, err := ExpandPath("/tmp/case.pdf")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/case.pdf", unchanged)
}

func TestDetectMIMEType(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "application/pdf", DetectMIMEType("judgment.pdf"))
	assert.Equal(t, "image/png", DetectMIMEType("scan.png"))
	assert.Equal(t, "image/jpeg", DetectMIMEType("scan.jpg"))
	assert.Equal(t, "application/octet-stream", DetectMIMEType("notes.unknownext"))
}

func TestIsImage(t *testing.T) {
	t.Parallel()

	assert.True(t, IsImage("image/png"))
	assert.True(t, IsImage("image/jpeg"))
	assert.False(t, IsImage("application/pdf"))
	assert.False(t, IsImage(""))
}

func TestSize(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "case.txt")
	require.NoError(t, os.WriteFile(path, []byte("hello"), 0644))

	size, err := Size(path)
	require.NoError(t, err)
	assert.Equal(t, int64(5), size)

	_, err = Size(filepath.Join(dir, "missing.txt"))
	assert.Error(t, err)
}

func TestExists(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "case.txt")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0644))

	ok, err := Exists(path)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = Exists(filepath.Join(dir, "missing.txt"))
	require.NoError(t, err)
	assert.False(t, ok)

	// A directory is not a file.
	ok, err = Exists(dir)
	require.NoError(t, err)
	assert.False(t, ok)
}
