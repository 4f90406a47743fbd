package ports

// ConfigScope names the logical bucket a configuration entry lives in.
// Infrastructure adapters decide what this maps onto on disk (a directory,
// a table, a prefix); the core never inspects the value.
type ConfigScope string

const (
	// ScopeApplication holds settings shared across the whole host process,
	// such as the persisted plugin enable/disable set.
	ScopeApplication ConfigScope = "application"
	// ScopeUser holds per-user overrides layered on top of ScopeApplication.
	ScopeUser ConfigScope = "user"
)

// ConfigStore reads and writes small named configuration documents. The
// plugin manager uses it to persist the disabled-plugin set under the
// "plugin_manager" entry (see Manager.persistDisabled in internal/pluginmanager).
// Implementations must be safe for concurrent use and durable across process
// restarts.
type ConfigStore interface {
	// Read returns the key/value document stored under name in scope, or an
	// empty map if nothing has been written yet.
	Read(name string, scope ConfigScope) (map[string]interface{}, error)
	// Write persists the document, replacing any prior contents.
	Write(name string, scope ConfigScope, values map[string]interface{}) error
}

// StorageManager resolves the on-disk locations the host operates from. It
// is the only collaborator aware of XDG-style directory conventions; the
// core only ever asks it for paths.
type StorageManager interface {
	// ConfigDir returns the root directory for configuration documents.
	ConfigDir() string
	// DataDir returns the root directory for persisted application data,
	// including discovered plugin manifests and libraries.
	DataDir() string
	// Resolve joins relative beneath the directory named by scope.
	Resolve(scope ConfigScope, relative string) string
}

// DirectoryIterator abstracts filesystem traversal away from the manifest
// loader so it can be driven against fakes in tests.
type DirectoryIterator interface {
	// Walk visits every regular file reachable from root, calling fn with
	// its path. Implementations choose whether traversal is recursive.
	Walk(root string, fn func(path string) error) error
}
