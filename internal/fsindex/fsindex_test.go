package fsindex

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func buildTree(t *testing.T) string {
	t.Helper()
	root := t.TempDir()

	require.NoError(t, os.MkdirAll(filepath.Join(root, "20240317"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "20240317", "123000.tar.bz2"), []byte("a"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "20240317", "124500.tar.bz2"), []byte("b"), 0o644))

	require.NoError(t, os.MkdirAll(filepath.Join(root, "20240318"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "20240318", "000000.tar.bz2"), []byte("c"), 0o644))

	require.NoError(t, os.MkdirAll(filepath.Join(root, bitmapsDir), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, bitmapsDir, "preview.png"), []byte("x"), 0o644))

	return root
}

func TestNewExcludesBitmaps(t *testing.T) {
	root := buildTree(t)

	idx, err := New(root)
	require.NoError(t, err)
	require.Len(t, idx.All(), 3)

	for _, p := range idx.All() {
		require.NotContains(t, p, bitmapsDir)
	}
}

func TestSampleWithReplacement(t *testing.T) {
	root := buildTree(t)
	idx, err := New(root)
	require.NoError(t, err)

	sample := idx.Sample(10)
	require.Len(t, sample, 10)
	for _, p := range sample {
		require.Contains(t, idx.All(), p)
	}
}

func TestSampleEmptyIndex(t *testing.T) {
	root := t.TempDir()
	idx, err := New(root)
	require.NoError(t, err)
	require.Empty(t, idx.All())
	require.Nil(t, idx.Sample(5))
}

func TestNewMissingDirectory(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "does-not-exist"))
	require.Error(t, err)
}
