package plugin

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/kernelforge/kernel/internal/graph"
	"github.com/kernelforge/kernel/internal/stage"
)

// State is a plugin's lifecycle state within the registry.
type State int

const (
	Registered State = iota
	Enabled
	Disabled
	Initialized
	Failed
)

func (s State) String() string {
	switch s {
	case Registered:
		return "Registered"
	case Enabled:
		return "Enabled"
	case Disabled:
		return "Disabled"
	case Initialized:
		return "Initialized"
	case Failed:
		return "Failed"
	default:
		return "Unknown"
	}
}

type entry struct {
	plugin  Plugin
	enabled bool
	state   State
	failure *PluginFailure
}

// AuditRecorder receives structured lifecycle events. The audit trail
// implements this; the registry depends only on the narrow interface so it
// never imports the audit package.
type AuditRecorder interface {
	Record(kind string, fields ...interface{})
}

// Registry is the source of truth for loaded plugins and their
// enabled/initialized state. It drives initialization in
// dependency-then-priority order and shutdown in reverse.
type Registry struct {
	mu        sync.RWMutex
	byID      map[string]*entry
	initOrder []string
	conflicts *ConflictEngine
	audit     AuditRecorder
}

// SetAuditRecorder attaches an audit trail. Nil disables auditing, the
// default.
func (r *Registry) SetAuditRecorder(audit AuditRecorder) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.audit = audit
}

func (r *Registry) record(kind string, fields ...interface{}) {
	if r.audit != nil {
		r.audit.Record(kind, fields...)
	}
}

// NewRegistry creates an empty plugin registry with its own conflict
// engine.
func NewRegistry() *Registry {
	return &Registry{
		byID:      make(map[string]*entry),
		conflicts: NewConflictEngine(),
	}
}

// Conflicts returns the registry's owned conflict engine, so callers can
// record resolution decisions before calling InitializeAll.
func (r *Registry) Conflicts() *ConflictEngine {
	return r.conflicts
}

// Register inserts a plugin as enabled unless disabledByDefault names it,
// matching the persisted disabled set applied by the plugin manager.
func (r *Registry) Register(p Plugin, disabledByDefault bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[p.ID()]; exists {
		return ErrAlreadyRegistered{ID: p.ID()}
	}

	state := Enabled
	if disabledByDefault {
		state = Disabled
	}
	r.byID[p.ID()] = &entry{plugin: p, enabled: !disabledByDefault, state: state}
	r.record("plugin.registered", "plugin_id", p.ID(), "state", state.String())
	return nil
}

// Enable marks a plugin enabled.
func (r *Registry) Enable(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.byID[id]
	if !ok {
		return ErrNotFound{ID: id}
	}
	e.enabled = true
	if e.state == Disabled {
		e.state = Enabled
	}
	r.record("plugin.enabled", "plugin_id", id)
	return nil
}

// Disable marks a plugin disabled. Refused if the plugin is is_core.
func (r *Registry) Disable(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.disableLocked(id)
}

// disableLocked is Disable's body without locking, for callers (like
// InitializeAll) that already hold r.mu.
func (r *Registry) disableLocked(id string) error {
	e, ok := r.byID[id]
	if !ok {
		return ErrNotFound{ID: id}
	}
	if e.plugin.IsCore() {
		return ErrCoreDisableRefused{ID: id}
	}
	e.enabled = false
	e.state = Disabled
	r.record("plugin.disabled", "plugin_id", id)
	return nil
}

// Get returns the plugin bound to id, if any.
func (r *Registry) Get(id string) (Plugin, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.byID[id]
	if !ok {
		return nil, false
	}
	return e.plugin, true
}

// State returns the lifecycle state for id.
func (r *Registry) State(id string) (State, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.byID[id]
	if !ok {
		return 0, false
	}
	return e.state, true
}

// List returns every registered plugin id, sorted.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.byID))
	for id := range r.byID {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (r *Registry) enabledPlugins() []Plugin {
	var out []Plugin
	for _, id := range r.List() {
		e := r.byID[id]
		if e.enabled {
			out = append(out, e.plugin)
		}
	}
	return out
}

// Outcome records one plugin's terminal state after InitializeAll.
type Outcome struct {
	ID      string
	State   State
	Failure *PluginFailure
}

// InitializeAll runs the core algorithm: conflict detection, dependency
// graph construction over the enabled set, cycle detection, priority- and
// id-ordered topological sort, then per-plugin preflight/init/register
// with cascading failure.
//
// The overall call returns Err only if conflict detection or cycle
// detection aborted before any plugin was attempted; individual plugin
// failures are reported in the returned outcome list with a nil error.
func (r *Registry) InitializeAll(ctx context.Context, app Application, stages *stage.Registry) ([]Outcome, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	enabled := r.enabledPlugins()

	conflicts := r.conflicts.Detect(enabled)
	for _, c := range conflicts {
		r.record("conflict.detected", "a", c.A, "b", c.B, "kind", c.Kind.String(), "criticality", c.Criticality.String())
	}
	if unresolved := r.conflicts.UnresolvedCritical(conflicts); len(unresolved) > 0 {
		return nil, ErrConflictsUnresolved{Conflicts: unresolved}
	}

	// A DisableFirst/DisableSecond resolution for a conflicting pair takes
	// effect here: the losing plugin is disabled before the dependency
	// graph is built, so it is excluded from this run entirely rather than
	// merely marked resolved on paper.
	disabledByResolution := make(map[string]bool)
	for _, c := range conflicts {
		id, ok := r.conflicts.ResolvedDisable(c.A, c.B)
		if !ok || disabledByResolution[id] {
			continue
		}
		disabledByResolution[id] = true
		if err := r.disableLocked(id); err != nil {
			// Core plugins refuse disable; left enabled, the pair's
			// conflict is recorded but otherwise unenforced.
			continue
		}
	}
	if len(disabledByResolution) > 0 {
		enabled = r.enabledPlugins()
	}

	byID := make(map[string]Plugin, len(enabled))
	for _, p := range enabled {
		byID[p.ID()] = p
	}

	g := graph.New()
	for _, p := range enabled {
		g.AddNode(p.ID(), false, false)
	}

	failures := make(map[string]*PluginFailure)

	for _, p := range enabled {
		for _, dep := range p.Dependencies() {
			target, ok := byID[dep.ID]
			if !ok {
				if dep.Required {
					failures[p.ID()] = &PluginFailure{ID: p.ID(), Reason: ReasonMissingDependency, Cause: ErrNotFound{ID: dep.ID}}
				}
				continue
			}
			if dep.Range != nil && !dep.Range.Contains(target.PluginVersion()) {
				failures[p.ID()] = &PluginFailure{ID: p.ID(), Reason: ReasonVersionMismatch, Cause: fmt.Errorf("plugin registry: %q version %s does not satisfy %s", dep.ID, target.PluginVersion().String(), dep.Range.String())}
				continue
			}
			_ = g.AddEdge(p.ID(), dep.ID)
		}
	}

	priority := make(map[string]Priority, len(enabled))
	for _, p := range enabled {
		priority[p.ID()] = p.Priority()
	}

	order, err := g.TopoSortWithTiebreak(func(ready []string) {
		sort.Slice(ready, func(i, j int) bool {
			pi, pj := priority[ready[i]], priority[ready[j]]
			if pi != pj {
				return pi.Less(pj)
			}
			return ready[i] < ready[j]
		})
	})
	if err != nil {
		var cycleErr graph.ErrCycle
		if errors.As(err, &cycleErr) {
			return nil, ErrCycle{Path: cycleErr.Path}
		}
		return nil, err
	}

	outcomes := make(map[string]Outcome, len(order))
	var initOrder []string

	for _, id := range order {
		if failure, already := failures[id]; already {
			outcomes[id] = Outcome{ID: id, State: Failed, Failure: failure}
			r.byID[id].state = Failed
			r.byID[id].failure = failure
			r.record("plugin.failed", "plugin_id", id, "reason", failure.Reason.String())
			r.cascade(id, byID, order, outcomes, failures)
			continue
		}
		if _, cascaded := outcomes[id]; cascaded {
			continue
		}

		p := byID[id]

		if err := p.PreflightCheck(ctx); err != nil {
			failure := &PluginFailure{ID: id, Reason: ReasonPreflightFailed, Cause: err}
			outcomes[id] = Outcome{ID: id, State: Failed, Failure: failure}
			r.byID[id].state = Failed
			r.byID[id].failure = failure
			r.record("plugin.failed", "plugin_id", id, "reason", failure.Reason.String())
			r.cascade(id, byID, order, outcomes, failures)
			continue
		}

		if err := p.Init(ctx, app); err != nil {
			failure := &PluginFailure{ID: id, Reason: ReasonInitFailed, Cause: err}
			outcomes[id] = Outcome{ID: id, State: Failed, Failure: failure}
			r.byID[id].state = Failed
			r.byID[id].failure = failure
			r.record("plugin.failed", "plugin_id", id, "reason", failure.Reason.String())
			r.cascade(id, byID, order, outcomes, failures)
			continue
		}

		if err := p.RegisterStages(ctx, stages); err != nil {
			failure := &PluginFailure{ID: id, Reason: ReasonRegisterStagesFailed, Cause: err}
			outcomes[id] = Outcome{ID: id, State: Failed, Failure: failure}
			r.byID[id].state = Failed
			r.byID[id].failure = failure
			r.record("plugin.failed", "plugin_id", id, "reason", failure.Reason.String())
			r.cascade(id, byID, order, outcomes, failures)
			continue
		}

		initOrder = append(initOrder, id)
		outcomes[id] = Outcome{ID: id, State: Initialized}
		r.byID[id].state = Initialized
		r.record("plugin.initialized", "plugin_id", id)
	}

	r.initOrder = initOrder

	results := make([]Outcome, 0, len(order))
	for _, id := range order {
		results = append(results, outcomes[id])
	}
	return results, nil
}

// cascade marks every not-yet-initialized plugin whose transitive
// required-dependency set contains failedID as Failed(DependencyFailed).
func (r *Registry) cascade(failedID string, byID map[string]Plugin, order []string, outcomes map[string]Outcome, failures map[string]*PluginFailure) {
	dependents := transitiveDependents(failedID, byID)
	for _, id := range order {
		if !dependents[id] {
			continue
		}
		if _, done := outcomes[id]; done {
			continue
		}
		failure := &PluginFailure{ID: id, Reason: ReasonDependencyFailed, BlockedBy: failedID}
		outcomes[id] = Outcome{ID: id, State: Failed, Failure: failure}
		if e, ok := r.byID[id]; ok {
			e.state = Failed
			e.failure = failure
		}
		r.record("plugin.failed", "plugin_id", id, "reason", failure.Reason.String(), "blocked_by", failedID)
	}
}

func transitiveDependents(id string, byID map[string]Plugin) map[string]bool {
	dependents := make(map[string]bool)
	var visit func(target string)
	visit = func(target string) {
		for _, p := range byID {
			for _, dep := range p.Dependencies() {
				if dep.ID == target && dep.Required && !dependents[p.ID()] {
					dependents[p.ID()] = true
					visit(p.ID())
				}
			}
		}
	}
	visit(id)
	return dependents
}

// ShutdownAll invokes Shutdown on every initialized plugin in reverse
// init_order, aggregating errors and continuing traversal past any
// individual failure.
func (r *Registry) ShutdownAll(ctx context.Context) error {
	r.mu.Lock()
	order := append([]string(nil), r.initOrder...)
	r.mu.Unlock()

	errs := make(map[string]error)
	for i := len(order) - 1; i >= 0; i-- {
		id := order[i]
		r.mu.RLock()
		e, ok := r.byID[id]
		r.mu.RUnlock()
		if !ok {
			continue
		}
		if err := e.plugin.Shutdown(ctx); err != nil {
			errs[id] = err
			r.record("plugin.shutdown_failed", "plugin_id", id, "error", err.Error())
			continue
		}
		r.record("plugin.shutdown", "plugin_id", id)
	}

	if len(errs) == 0 {
		return nil
	}
	return ShutdownErrors{Errors: errs}
}
