package manifest

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

// fakeWalker simulates a directory tree as an in-memory set of files,
// without touching the real filesystem.
type fakeWalker struct {
	files map[string][]string // root -> paths
}

func (w fakeWalker) Walk(root string, fn func(path string) error) error {
	for _, p := range w.files[root] {
		if err := fn(p); err != nil {
			return err
		}
	}
	return nil
}

func TestScanParsesValidManifests(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, "reposync.yaml", `
id: reposync
name: Repo Sync
version: 1.0.0
entry_point: reposync.so
compatible_host_api_versions: ["^1.0"]
`)

	loader := NewLoader(fakeWalker{files: map[string][]string{dir: {dir + "/reposync.yaml"}}})
	manifests, errs := loader.Scan([]string{dir})

	require.Empty(t, errs)
	require.Len(t, manifests, 1)
	require.Equal(t, "reposync", manifests[0].ID)
	require.Equal(t, dir, manifests[0].BaseDir)
}

func TestScanReportsParseErrorWithoutAborting(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, "broken.yaml", "id: [this is not valid yaml")
	writeManifest(t, dir, "good.yaml", `
id: good
name: Good
version: 1.0.0
entry_point: good.so
compatible_host_api_versions: ["^1.0"]
`)

	loader := NewLoader(fakeWalker{files: map[string][]string{
		dir: {dir + "/broken.yaml", dir + "/good.yaml"},
	}})
	manifests, errs := loader.Scan([]string{dir})

	require.Len(t, manifests, 1)
	require.Equal(t, "good", manifests[0].ID)
	require.Len(t, errs, 1)
	var parseErr ErrParse
	require.ErrorAs(t, errs[0].Err, &parseErr)
}

func TestScanRejectsMissingRequiredFields(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, "incomplete.yaml", `
id: incomplete
name: Incomplete
`)

	loader := NewLoader(fakeWalker{files: map[string][]string{dir: {dir + "/incomplete.yaml"}}})
	manifests, errs := loader.Scan([]string{dir})

	require.Empty(t, manifests)
	require.Len(t, errs, 1)
	var invalidErr ErrInvalid
	require.ErrorAs(t, errs[0].Err, &invalidErr)
}

func TestScanDetectsDuplicateID(t *testing.T) {
	dirA := t.TempDir()
	dirB := t.TempDir()
	writeManifest(t, dirA, "a.yaml", `
id: dupe
name: A
version: 1.0.0
entry_point: a.so
compatible_host_api_versions: ["^1.0"]
`)
	writeManifest(t, dirB, "b.yaml", `
id: dupe
name: B
version: 2.0.0
entry_point: b.so
compatible_host_api_versions: ["^1.0"]
`)

	loader := NewLoader(fakeWalker{files: map[string][]string{
		dirA: {dirA + "/a.yaml"},
		dirB: {dirB + "/b.yaml"},
	}})
	manifests, errs := loader.Scan([]string{dirA, dirB})

	require.Empty(t, manifests)
	require.Len(t, errs, 2)
	for _, fe := range errs {
		var dupErr ErrDuplicateID
		require.ErrorAs(t, fe.Err, &dupErr)
		require.Equal(t, "dupe", dupErr.ID)
	}
}

func writeManifest(t *testing.T, dir, name, content string) {
	t.Helper()
	err := os.WriteFile(dir+"/"+name, []byte(content), 0o644)
	require.NoError(t, err)
}
