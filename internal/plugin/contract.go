package plugin

import (
	"context"

	"github.com/kernelforge/kernel/internal/stage"
)

// Dependency is a reference from one plugin to another, with an optional
// version range and a required flag. A required dependency whose target is
// absent or out of range invalidates the owning plugin.
type Dependency struct {
	ID       string
	Range    *Range
	Required bool
}

// Incompatibility names another plugin id plus a version range that the
// owning plugin cannot coexist with.
type Incompatibility struct {
	ID    string
	Range Range
}

// StageRequirementKind classifies how a plugin relates to a stage.
type StageRequirementKind int

const (
	StageRequired StageRequirementKind = iota
	StageOptional
	StageProvided
)

// StageRequirement declares that a plugin requires, optionally requires, or
// provides a given stage id.
type StageRequirement struct {
	StageID string
	Kind    StageRequirementKind
}

// ResourceAccess classifies how a plugin claims a resource.
type ResourceAccess int

const (
	ExclusiveWrite ResourceAccess = iota
	SharedRead
	ProvidesUniqueID
)

// ResourceClaim is a plugin's declared claim over a named resource.
type ResourceClaim struct {
	Type   string
	ID     string
	Access ResourceAccess
}

// Compatible reports whether two accesses on the same (type, id) resource
// may coexist, per the symmetric compatibility matrix: ExclusiveWrite
// conflicts with everything; two ProvidesUniqueID claims conflict with each
// other; SharedRead is compatible with SharedRead and ProvidesUniqueID.
func (a ResourceAccess) Compatible(b ResourceAccess) bool {
	if a == ExclusiveWrite || b == ExclusiveWrite {
		return false
	}
	if a == ProvidesUniqueID && b == ProvidesUniqueID {
		return false
	}
	return true
}

// Plugin is the stable contract every plugin, static or dynamically
// loaded, satisfies.
type Plugin interface {
	ID() string
	DisplayName() string
	PluginVersion() Version
	IsCore() bool
	Priority() Priority
	CompatibleHostAPIVersions() []Range
	Dependencies() []Dependency
	ConflictsWith() []string
	IncompatibleWith() []Incompatibility
	StageRequirements() []StageRequirement
	ResourceClaims() []ResourceClaim

	// PreflightCheck must be side-effect-free with respect to host state;
	// it reads ctx only.
	PreflightCheck(ctx context.Context) error
	// Init may acquire resources and read services from the component
	// registry; it must not block.
	Init(ctx context.Context, app Application) error
	// RegisterStages may only insert stages; it runs after Init succeeds.
	RegisterStages(ctx context.Context, registry *stage.Registry) error
	// Shutdown must be idempotent: safe to call even if Init failed
	// mid-way.
	Shutdown(ctx context.Context) error
}

// Application is the thin view of the host a plugin's Init receives. It is
// satisfied by the application wiring in cmd/kernelhostd; defined here,
// narrowly, so this package does not depend on that wiring.
type Application interface {
	ComponentByName(name string) (interface{}, bool)
}
