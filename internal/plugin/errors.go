package plugin

import (
	"fmt"
	"sort"
	"strings"
)

// ErrAlreadyRegistered is returned by Registry.Register when id is already
// bound.
type ErrAlreadyRegistered struct {
	ID string
}

func (e ErrAlreadyRegistered) Error() string {
	return fmt.Sprintf("plugin registry: %q is already registered\nHint: unregister the existing plugin first, or skip re-registration", e.ID)
}

// ErrNotFound is returned when a requested plugin id is unknown.
type ErrNotFound struct {
	ID string
}

func (e ErrNotFound) Error() string {
	return fmt.Sprintf("plugin registry: %q not found", e.ID)
}

// ErrCoreDisableRefused is returned by Disable when the target plugin is
// marked is_core.
type ErrCoreDisableRefused struct {
	ID string
}

func (e ErrCoreDisableRefused) Error() string {
	return fmt.Sprintf("plugin registry: %q is a core plugin and cannot be disabled", e.ID)
}

// ErrConflictsUnresolved is returned by InitializeAll when the conflict
// engine finds an unresolved critical conflict among enabled plugins; no
// plugin is initialized in this case.
type ErrConflictsUnresolved struct {
	Conflicts []Conflict
}

func (e ErrConflictsUnresolved) Error() string {
	parts := make([]string, 0, len(e.Conflicts))
	for _, c := range e.Conflicts {
		parts = append(parts, c.String())
	}
	sort.Strings(parts)
	return fmt.Sprintf("plugin registry: unresolved critical conflicts:\n  %s", strings.Join(parts, "\n  "))
}

// ErrCycle is returned by InitializeAll when the dependency graph built
// from enabled plugins contains a cycle.
type ErrCycle struct {
	Path []string
}

func (e ErrCycle) Error() string {
	return fmt.Sprintf("plugin registry: dependency cycle: %s", strings.Join(e.Path, " -> "))
}

// FailureReason classifies why a plugin ended in the Failed state.
type FailureReason int

const (
	ReasonPreflightFailed FailureReason = iota
	ReasonInitFailed
	ReasonRegisterStagesFailed
	ReasonMissingDependency
	ReasonVersionMismatch
	ReasonDependencyFailed
)

func (r FailureReason) String() string {
	switch r {
	case ReasonPreflightFailed:
		return "PreflightFailed"
	case ReasonInitFailed:
		return "InitFailed"
	case ReasonRegisterStagesFailed:
		return "RegisterStagesFailed"
	case ReasonMissingDependency:
		return "MissingDependency"
	case ReasonVersionMismatch:
		return "VersionMismatch"
	case ReasonDependencyFailed:
		return "DependencyFailed"
	default:
		return "Unknown"
	}
}

// PluginFailure records why a plugin could not be initialized.
type PluginFailure struct {
	ID     string
	Reason FailureReason
	Cause  error
	// BlockedBy is set when Reason is ReasonDependencyFailed: the id of
	// the upstream plugin whose failure cascaded to this one.
	BlockedBy string
}

func (f PluginFailure) Error() string {
	if f.BlockedBy != "" {
		return fmt.Sprintf("plugin %q failed: %s (blocked by %q)", f.ID, f.Reason, f.BlockedBy)
	}
	if f.Cause != nil {
		return fmt.Sprintf("plugin %q failed: %s: %v", f.ID, f.Reason, f.Cause)
	}
	return fmt.Sprintf("plugin %q failed: %s", f.ID, f.Reason)
}

// ShutdownErrors aggregates per-plugin shutdown failures; traversal
// continues past any individual failure.
type ShutdownErrors struct {
	Errors map[string]error
}

func (e ShutdownErrors) Error() string {
	ids := make([]string, 0, len(e.Errors))
	for id := range e.Errors {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		parts = append(parts, fmt.Sprintf("%s: %v", id, e.Errors[id]))
	}
	return fmt.Sprintf("plugin registry: %d plugin(s) failed to shut down:\n  %s", len(e.Errors), strings.Join(parts, "\n  "))
}
