// Package pluginmanager implements the plugin manager component: it
// resolves the plugin directory, loads the persisted disabled-plugin set,
// delegates to the manifest loader and dynamic loader to discover and open
// plugins, and registers the results into the plugin registry.
package pluginmanager

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/kernelforge/kernel/internal/manifest"
	"github.com/kernelforge/kernel/internal/plugin"
	"github.com/kernelforge/kernel/internal/plugin/dynload"
	"github.com/kernelforge/kernel/internal/ports"
)

// configEntry is the name the manager's persisted document is stored under
// in the application configuration scope.
const configEntry = "plugin_manager"

// sharedLibraryExtensions lists entry point extensions the manager treats
// as dynamically loadable; any other extension is assumed to be handled by
// a statically linked plugin the host registers via RegisterStatic.
var sharedLibraryExtensions = map[string]bool{
	".so":    true,
	".dylib": true,
	".dll":   true,
}

// Manager implements the host component.Component contract: it owns the
// plugin registry and is responsible for populating it from manifests and
// statically registered plugins.
type Manager struct {
	mu sync.Mutex

	config  ports.ConfigStore
	storage ports.StorageManager
	loader  *manifest.Loader
	dynamic *dynload.Loader
	logger  ports.Logger

	registry *plugin.Registry

	disabled      map[string]bool
	initialized   bool
	pendingStatic []plugin.Plugin

	// LoadErrors accumulates manifest parse/validate failures and dynamic
	// loader open failures encountered during Initialize. Neither kind
	// aborts the scan; both are exposed here for the host to surface.
	LoadErrors []error
}

// NewManager constructs a Manager. walker drives the manifest loader's
// directory scan; config and storage are the collaborators described in
// §6 of the kernel's external interfaces.
func NewManager(config ports.ConfigStore, storage ports.StorageManager, walker ports.DirectoryIterator, logger ports.Logger) *Manager {
	return &Manager{
		config:   config,
		storage:  storage,
		loader:   manifest.NewLoader(walker),
		dynamic:  dynload.NewLoader(),
		logger:   logger,
		registry: plugin.NewRegistry(),
		disabled: make(map[string]bool),
	}
}

func (m *Manager) Name() string { return "plugin_manager" }

// Registry returns the underlying plugin registry, for collaborators (the
// lifecycle stages, the host's CLI surface) that need direct access.
func (m *Manager) Registry() *plugin.Registry { return m.registry }

// SetAuditRecorder attaches an audit trail to the underlying plugin
// registry, so plugin lifecycle transitions are recorded alongside stage
// transitions.
func (m *Manager) SetAuditRecorder(audit plugin.AuditRecorder) {
	m.registry.SetAuditRecorder(audit)
}

// RegisterStatic registers a statically linked plugin. It may be called at
// any point before or during Initialize; if called after Initialize has
// already applied the persisted disabled set, the plugin is registered
// with that set applied immediately.
func (m *Manager) RegisterStatic(p plugin.Plugin) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.initialized {
		m.pendingStatic = append(m.pendingStatic, p)
		return nil
	}
	return m.registry.Register(p, m.disabled[p.ID()])
}

// Initialize resolves the plugin directory, loads the persisted disabled
// set, registers every pending static plugin, scans for manifests, and
// opens every manifest whose entry point names a shared library.
func (m *Manager) Initialize(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	doc, err := m.config.Read(configEntry, ports.ScopeApplication)
	if err != nil {
		return fmt.Errorf("plugin manager: read persisted config: %w", err)
	}
	m.disabled = toDisabledSet(doc["disabled_plugins"])

	for _, p := range m.pendingStatic {
		if err := m.registry.Register(p, m.disabled[p.ID()]); err != nil {
			m.logWarn(ctx, "register static plugin failed", "plugin_id", p.ID(), "error", err)
			m.LoadErrors = append(m.LoadErrors, err)
		}
	}
	m.pendingStatic = nil

	pluginDir := m.storage.DataDir()
	manifests, fileErrs := m.loader.Scan([]string{pluginDir})
	for _, fe := range fileErrs {
		m.logWarn(ctx, "manifest scan error", "path", fe.Path, "error", fe.Err)
		m.LoadErrors = append(m.LoadErrors, fe.Err)
	}

	for _, man := range manifests {
		if !sharedLibraryExtensions[strings.ToLower(filepath.Ext(man.EntryPoint))] {
			// Entry points that are not shared libraries describe a
			// statically linked plugin the host registers directly; the
			// manifest's role there is documentation, not loading.
			continue
		}

		w, err := m.dynamic.Open(man.EntryPointPath())
		if err != nil {
			m.logWarn(ctx, "dynamic load failed", "manifest_id", man.ID, "path", man.EntryPointPath(), "error", err)
			m.LoadErrors = append(m.LoadErrors, err)
			continue
		}

		if err := m.registry.Register(w, m.disabled[man.ID]); err != nil {
			m.logWarn(ctx, "register dynamic plugin failed", "plugin_id", man.ID, "error", err)
			m.LoadErrors = append(m.LoadErrors, err)
		}
	}

	m.initialized = true
	return nil
}

// Start is a no-op; plugin initialization happens via the plugin.preflight
// and plugin.initialize stages composed into a lifecycle pipeline, not
// eagerly at component start.
func (m *Manager) Start(ctx context.Context) error {
	return nil
}

// Stop shuts down every initialized plugin in reverse init order.
func (m *Manager) Stop(ctx context.Context) error {
	return m.registry.ShutdownAll(ctx)
}

// Enable enables a plugin and writes the change through to the persisted
// disabled set.
func (m *Manager) Enable(id string) error {
	if err := m.registry.Enable(id); err != nil {
		return err
	}
	return m.persistDisabled(id, false)
}

// Disable disables a plugin and writes the change through to the persisted
// disabled set. Refuses on core plugins, same as the registry.
func (m *Manager) Disable(id string) error {
	if err := m.registry.Disable(id); err != nil {
		return err
	}
	return m.persistDisabled(id, true)
}

func (m *Manager) List() []string {
	return m.registry.List()
}

func (m *Manager) Get(id string) (plugin.Plugin, bool) {
	return m.registry.Get(id)
}

func (m *Manager) persistDisabled(id string, disabled bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if disabled {
		m.disabled[id] = true
	} else {
		delete(m.disabled, id)
	}

	ids := make([]interface{}, 0, len(m.disabled))
	for id := range m.disabled {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].(string) < ids[j].(string) })

	return m.config.Write(configEntry, ports.ScopeApplication, map[string]interface{}{
		"disabled_plugins": ids,
	})
}

func (m *Manager) logWarn(ctx context.Context, msg string, fields ...interface{}) {
	if m.logger == nil {
		return
	}
	m.logger.Warn(ctx, msg, fields...)
}

func toDisabledSet(raw interface{}) map[string]bool {
	set := make(map[string]bool)
	items, ok := raw.([]interface{})
	if !ok {
		return set
	}
	for _, item := range items {
		if s, ok := item.(string); ok {
			set[s] = true
		}
	}
	return set
}
