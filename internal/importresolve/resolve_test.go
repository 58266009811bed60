package importresolve

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeTempFile(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
	return path
}

func TestResolveAbsolutePath(t *testing.T) {
	dir := t.TempDir()
	target := writeTempFile(t, dir, "a.bear")

	r := NewFS(nil)
	canonical, ok := r.Resolve(target, "")
	require.True(t, ok)
	absTarget, _ := filepath.Abs(target)
	require.Equal(t, filepath.Clean(absTarget), canonical)
}

func TestResolveImporterRelative(t *testing.T) {
	dir := t.TempDir()
	writeTempFile(t, dir, "sibling.bear")

	r := NewFS(nil)
	canonical, ok := r.Resolve("sibling.bear", dir)
	require.True(t, ok)
	require.Contains(t, canonical, "sibling.bear")
}

func TestResolveSearchPath(t *testing.T) {
	dir := t.TempDir()
	writeTempFile(t, dir, "lib.bear")

	r := NewFS([]string{dir})
	canonical, ok := r.Resolve("lib.bear", t.TempDir())
	require.True(t, ok)
	require.Contains(t, canonical, "lib.bear")
}

func TestResolveNotFound(t *testing.T) {
	r := NewFS(nil)
	_, ok := r.Resolve("does-not-exist.bear", t.TempDir())
	require.False(t, ok)
}

func TestResolveCachesRepeatedLookups(t *testing.T) {
	dir := t.TempDir()
	path := writeTempFile(t, dir, "cached.bear")

	r := NewFS(nil)
	c1, ok1 := r.Resolve(path, "")
	c2, ok2 := r.Resolve(path, "")
	require.True(t, ok1)
	require.True(t, ok2)
	require.Equal(t, c1, c2)
}
