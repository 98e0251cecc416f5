package fs_test

import (
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/marshal/internal/adapters/fs"
	"go.trai.ch/marshal/internal/core/domain"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func TestWalker_ExpandDeps(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "busybox", "Makefile"), "all:")
	writeFile(t, filepath.Join(root, "busybox", "applets", "ls.c"), "int main;")
	writeFile(t, filepath.Join(root, "busybox", ".git", "HEAD"), "ref")
	writeFile(t, filepath.Join(root, "config"), "CONFIG_X=y")
	require.NoError(t, os.Symlink(
		filepath.Join(root, "config"),
		filepath.Join(root, "busybox", "link"),
	))

	w := fs.NewWalker()
	got := w.ExpandDeps(
		filepath.Join(root, "busybox"),
		filepath.Join(root, "config"),
		filepath.Join(root, "config"),
		filepath.Join(root, "busybox", "link"),
		filepath.Join(root, "missing"),
	)

	want := []string{
		filepath.Join(root, "busybox", "Makefile"),
		filepath.Join(root, "busybox", "applets", "ls.c"),
		filepath.Join(root, "config"),
		filepath.Join(root, "missing"),
	}
	slices.Sort(want)
	assert.Equal(t, want, got)
}

func TestHasher_Fingerprint(t *testing.T) {
	path := filepath.Join(t.TempDir(), "input")
	writeFile(t, path, "hello")

	h := fs.NewHasher()
	first, err := h.Fingerprint(path, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(5), first.Size)
	assert.Len(t, first.Hash, 16)

	// Unchanged mtime and size reuse the recorded hash without reading the file.
	prev := first
	prev.Hash = "cached"
	again, err := h.Fingerprint(path, &prev)
	require.NoError(t, err)
	assert.Equal(t, "cached", again.Hash)

	// A content change with a new mtime produces a new hash.
	writeFile(t, path, "world")
	later := time.Now().Add(time.Hour)
	require.NoError(t, os.Chtimes(path, later, later))
	changed, err := h.Fingerprint(path, &first)
	require.NoError(t, err)
	assert.NotEqual(t, first.Hash, changed.Hash)
}

func TestHasher_Fingerprint_Missing(t *testing.T) {
	h := fs.NewHasher()
	_, err := h.Fingerprint(filepath.Join(t.TempDir(), "nope"), nil)
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestCopyFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "base.img")
	writeFile(t, src, "disk")
	require.NoError(t, os.Chmod(src, 0o640))

	dst := filepath.Join(dir, "out", "root.img")
	require.NoError(t, fs.CopyFile(src, dst))

	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "disk", string(data))

	info, err := os.Stat(dst)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o640), info.Mode().Perm())

	_, err = os.Stat(dst + ".tmp")
	assert.True(t, os.IsNotExist(err))

	err = fs.CopyFile(filepath.Join(dir, "absent"), dst)
	require.ErrorContains(t, err, domain.ErrFileCopyFailed.Error())
}
