package fs

import (
	"testing"

	"github.com/kernelforge/kernel/internal/ports"
	"github.com/stretchr/testify/require"
)

func TestConfigStoreReadMissingReturnsEmptyMap(t *testing.T) {
	store := NewConfigStore(t.TempDir())

	doc, err := store.Read("plugin_manager", ports.ScopeApplication)
	require.NoError(t, err)
	require.Empty(t, doc)
}

func TestConfigStoreWriteThenRoundTrips(t *testing.T) {
	store := NewConfigStore(t.TempDir())

	err := store.Write("plugin_manager", ports.ScopeApplication, map[string]interface{}{
		"disabled_plugins": []interface{}{"reposync"},
	})
	require.NoError(t, err)

	doc, err := store.Read("plugin_manager", ports.ScopeApplication)
	require.NoError(t, err)
	require.Equal(t, []interface{}{"reposync"}, doc["disabled_plugins"])
}

func TestConfigStoreScopesAreIsolated(t *testing.T) {
	store := NewConfigStore(t.TempDir())

	require.NoError(t, store.Write("settings", ports.ScopeApplication, map[string]interface{}{"v": "app"}))
	require.NoError(t, store.Write("settings", ports.ScopeUser, map[string]interface{}{"v": "user"}))

	appDoc, err := store.Read("settings", ports.ScopeApplication)
	require.NoError(t, err)
	require.Equal(t, "app", appDoc["v"])

	userDoc, err := store.Read("settings", ports.ScopeUser)
	require.NoError(t, err)
	require.Equal(t, "user", userDoc["v"])
}
