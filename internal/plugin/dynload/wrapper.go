package dynload

import (
	"context"
	"sync"

	"github.com/kernelforge/kernel/internal/plugin"
	"github.com/kernelforge/kernel/internal/stage"
)

// Wrapper adapts a VTable to plugin.Plugin. It is the single owner of the
// VTable and the path of the library it came from.
//
// Go's plugin package has no unload operation: once opened, a shared
// library and every symbol it exports live for the remaining life of the
// process. The "close the library last" step the VTable contract
// describes is therefore vacuous here; Destroy (called from Shutdown)
// drops the plugin's own internal state but the library mapping itself is
// never released. This is a property of Go's dynamic loading model, not a
// simplification Wrapper introduces.
type Wrapper struct {
	mu        sync.Mutex
	vtable    *VTable
	libPath   string
	destroyed bool
}

var _ plugin.Plugin = (*Wrapper)(nil)

// ID returns the plugin's stable identifier. For dynamically loaded
// plugins this is the same value as DisplayName; manifests are the layer
// that assigns a distinct stable id when one is needed.
func (w *Wrapper) ID() string {
	return w.vtable.GetName(w.vtable.Instance)
}

func (w *Wrapper) DisplayName() string {
	return w.vtable.GetName(w.vtable.Instance)
}

func (w *Wrapper) PluginVersion() plugin.Version {
	v, err := plugin.ParseVersion(w.vtable.GetVersion(w.vtable.Instance))
	if err != nil {
		return plugin.Version{}
	}
	return v
}

func (w *Wrapper) IsCore() bool {
	return w.vtable.IsCore(w.vtable.Instance)
}

func (w *Wrapper) Priority() plugin.Priority {
	return w.vtable.GetPriority(w.vtable.Instance)
}

func (w *Wrapper) CompatibleHostAPIVersions() []plugin.Range {
	if w.vtable.GetCompatibleAPIVersions == nil {
		return nil
	}
	raw := w.vtable.GetCompatibleAPIVersions(w.vtable.Instance)
	out := make([]plugin.Range, 0, len(raw))
	for _, s := range raw {
		r, err := plugin.ParseRange(s)
		if err != nil {
			continue
		}
		out = append(out, r)
	}
	return out
}

func (w *Wrapper) Dependencies() []plugin.Dependency {
	if w.vtable.GetDependencies == nil {
		return nil
	}
	return w.vtable.GetDependencies(w.vtable.Instance)
}

func (w *Wrapper) ConflictsWith() []string {
	if w.vtable.GetConflictsWith == nil {
		return nil
	}
	return w.vtable.GetConflictsWith(w.vtable.Instance)
}

func (w *Wrapper) IncompatibleWith() []plugin.Incompatibility {
	if w.vtable.GetIncompatibleWith == nil {
		return nil
	}
	return w.vtable.GetIncompatibleWith(w.vtable.Instance)
}

func (w *Wrapper) StageRequirements() []plugin.StageRequirement {
	if w.vtable.GetStageRequirements == nil {
		return nil
	}
	return w.vtable.GetStageRequirements(w.vtable.Instance)
}

func (w *Wrapper) ResourceClaims() []plugin.ResourceClaim {
	if w.vtable.GetResourceClaims == nil {
		return nil
	}
	return w.vtable.GetResourceClaims(w.vtable.Instance)
}

// PreflightCheck performs the synchronous VTable call before any await
// point is entered; only its owned error result crosses into the
// surrounding async machinery, matching the no-FFI-pointer-across-
// suspension discipline the contract requires.
func (w *Wrapper) PreflightCheck(ctx context.Context) error {
	if err := w.vtable.Preflight(w.vtable.Instance, ctx); err != nil {
		return ErrFfiReturnedError{Function: "preflight", Cause: err}
	}
	return nil
}

func (w *Wrapper) Init(ctx context.Context, app plugin.Application) error {
	if err := w.vtable.Init(w.vtable.Instance, app); err != nil {
		return ErrFfiReturnedError{Function: "init", Cause: err}
	}
	return nil
}

func (w *Wrapper) RegisterStages(ctx context.Context, registry *stage.Registry) error {
	if err := w.vtable.RegisterStages(w.vtable.Instance, registry); err != nil {
		return ErrFfiReturnedError{Function: "register_stages", Cause: err}
	}
	return nil
}

// Shutdown must be idempotent. It calls the VTable's Shutdown once, then
// Destroy; subsequent calls are no-ops.
func (w *Wrapper) Shutdown(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.destroyed {
		return nil
	}

	err := w.vtable.Shutdown(w.vtable.Instance)
	w.vtable.Destroy(w.vtable.Instance)
	w.destroyed = true

	if err != nil {
		return ErrFfiReturnedError{Function: "shutdown", Cause: err}
	}
	return nil
}

// LibraryPath returns the filesystem path the wrapped library was opened
// from.
func (w *Wrapper) LibraryPath() string {
	return w.libPath
}
