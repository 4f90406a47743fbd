package fs

import (
	"path/filepath"
	"testing"

	"github.com/kernelforge/kernel/internal/ports"
	"github.com/stretchr/testify/require"
)

func TestStorageManagerResolvesDirectories(t *testing.T) {
	base := t.TempDir()
	sm := NewStorageManager(base)

	require.Equal(t, filepath.Join(base, "config"), sm.ConfigDir())
	require.Equal(t, filepath.Join(base, "data"), sm.DataDir())
	require.Equal(t, filepath.Join(base, "config", "application", "plugin_manager.json"),
		sm.Resolve(ports.ScopeApplication, "plugin_manager.json"))
}
