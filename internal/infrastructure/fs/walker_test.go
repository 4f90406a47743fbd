package fs

import (
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWalkerVisitsEveryRegularFile(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "nested"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.yaml"), []byte("a"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "nested", "b.yaml"), []byte("b"), 0o644))

	var visited []string
	w := NewWalker()
	require.NoError(t, w.Walk(root, func(path string) error {
		visited = append(visited, path)
		return nil
	}))

	sort.Strings(visited)
	require.Equal(t, []string{
		filepath.Join(root, "a.yaml"),
		filepath.Join(root, "nested", "b.yaml"),
	}, visited)
}

func TestWalkerTreatsMissingRootAsEmpty(t *testing.T) {
	w := NewWalker()
	var visited []string
	err := w.Walk(filepath.Join(t.TempDir(), "does-not-exist"), func(path string) error {
		visited = append(visited, path)
		return nil
	})
	require.NoError(t, err)
	require.Empty(t, visited)
}
