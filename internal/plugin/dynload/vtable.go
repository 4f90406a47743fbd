// Package dynload implements the dynamic loader: it opens a shared library
// built with Go's plugin package, retrieves its exported VTable, and wraps
// that VTable to satisfy the plugin contract.
//
// The stable cross-process boundary modeled here is a VTable: a record of
// function values plus an opaque instance, mirroring the function-pointer
// record a C ABI would expose. Go's plugin package stands in for a true
// C-ABI loader: it is the only pure-Go mechanism in the ecosystem for
// loading code compiled separately from the host, without cgo.
package dynload

import (
	"context"

	"github.com/kernelforge/kernel/internal/plugin"
	"github.com/kernelforge/kernel/internal/stage"
)

// FfiResult is the outcome of a VTable lifecycle call: either nil, or an
// error the wrapper never mutates further, matching the "owned result
// crosses the suspension point" discipline lifecycle calls require.
type FfiResult = error

// VTable is the function-pointer record every dynamically loaded library
// exports. instance is the library's opaque internal state, passed back
// into every other field's call. Getter fields return freshly copied,
// host-owned values; there is no paired free_* call in this adaptation
// because Go's garbage collector owns every value a getter returns (the
// paired free_* functions a true C ABI requires exist only to satisfy a
// foreign allocator, which a pure-Go VTable does not have).
type VTable struct {
	Instance interface{}

	GetName                    func(instance interface{}) string
	GetVersion                 func(instance interface{}) string
	GetCompatibleAPIVersions   func(instance interface{}) []string
	GetDependencies            func(instance interface{}) []plugin.Dependency
	GetConflictsWith           func(instance interface{}) []string
	GetIncompatibleWith        func(instance interface{}) []plugin.Incompatibility
	GetStageRequirements       func(instance interface{}) []plugin.StageRequirement
	GetResourceClaims          func(instance interface{}) []plugin.ResourceClaim
	GetPriority                func(instance interface{}) plugin.Priority
	IsCore                     func(instance interface{}) bool

	Preflight      func(instance interface{}, ctx context.Context) FfiResult
	Init           func(instance interface{}, app plugin.Application) FfiResult
	RegisterStages func(instance interface{}, registry *stage.Registry) FfiResult
	Shutdown       func(instance interface{}) FfiResult

	// Destroy drops the plugin's internal state. Called once, from the
	// wrapper's Shutdown, after the VTable's own Shutdown call returns.
	Destroy func(instance interface{})
}

// Validate checks that every required field of the VTable is populated.
// The loader calls this immediately after the EntrySymbol function returns, before
// constructing a Wrapper, so a malformed library fails fast with a named
// missing field rather than a nil-pointer panic deep in plugin lifecycle
// code.
func (v *VTable) Validate() error {
	if v.Instance == nil {
		return ErrNullInstance{}
	}
	switch {
	case v.GetName == nil:
		return ErrInvalidVTable{Field: "GetName"}
	case v.GetVersion == nil:
		return ErrInvalidVTable{Field: "GetVersion"}
	case v.GetCompatibleAPIVersions == nil:
		return ErrInvalidVTable{Field: "GetCompatibleAPIVersions"}
	case v.GetPriority == nil:
		return ErrInvalidVTable{Field: "GetPriority"}
	case v.IsCore == nil:
		return ErrInvalidVTable{Field: "IsCore"}
	case v.Preflight == nil:
		return ErrInvalidVTable{Field: "Preflight"}
	case v.Init == nil:
		return ErrInvalidVTable{Field: "Init"}
	case v.RegisterStages == nil:
		return ErrInvalidVTable{Field: "RegisterStages"}
	case v.Shutdown == nil:
		return ErrInvalidVTable{Field: "Shutdown"}
	case v.Destroy == nil:
		return ErrInvalidVTable{Field: "Destroy"}
	}
	return nil
}

// PluginInit is the signature every dynamically loaded library must export
// under the symbol name EntrySymbol.
type PluginInit func() *VTable

// EntrySymbol is the exported symbol name the loader looks up in every
// shared library.
const EntrySymbol = "PluginInit"
