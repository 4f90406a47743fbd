package stage

import (
	"context"
	"sort"
	"sync"
)

// AuditRecorder receives structured lifecycle events. The audit trail
// implements this; the registry depends only on the narrow interface so it
// never imports the audit package.
type AuditRecorder interface {
	Record(kind string, fields ...interface{})
}

// Registry maps stage id to Stage. It is behind a single lock; Execute
// holds that lock only long enough to snapshot the requested stage, never
// across the stage's own await.
type Registry struct {
	mu     sync.RWMutex
	stages map[string]Stage
	audit  AuditRecorder
}

// NewRegistry creates an empty stage registry.
func NewRegistry() *Registry {
	return &Registry{stages: make(map[string]Stage)}
}

// SetAuditRecorder attaches an audit trail. Nil disables auditing, the
// default.
func (r *Registry) SetAuditRecorder(audit AuditRecorder) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.audit = audit
}

// Register adds a stage under its own ID. Returns ErrAlreadyRegistered if
// the id is already bound.
func (r *Registry) Register(s Stage) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.stages[s.ID()]; exists {
		return ErrAlreadyRegistered{ID: s.ID()}
	}
	r.stages[s.ID()] = s
	return nil
}

// Unregister removes a stage by id. No-op if the id is not bound.
func (r *Registry) Unregister(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.stages, id)
}

// Contains reports whether id is bound.
func (r *Registry) Contains(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.stages[id]
	return ok
}

// Get returns the stage bound to id, if any.
func (r *Registry) Get(id string) (Stage, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.stages[id]
	return s, ok
}

// IDs returns every registered stage id in sorted order.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.stages))
	for id := range r.stages {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Execute looks up id and runs it against stageCtx. In DryRun mode it
// invokes only DryRunDescription and records a trivial success; in Live
// mode it awaits the stage's Execute. The registry lock is released before
// the stage runs.
func (r *Registry) Execute(ctx context.Context, id string, stageCtx *Context) Outcome {
	r.mu.RLock()
	s, ok := r.stages[id]
	audit := r.audit
	r.mu.RUnlock()

	record := func(kind string, fields ...interface{}) {
		if audit != nil {
			audit.Record(kind, fields...)
		}
	}

	if !ok {
		record("stage.failure", "stage_id", id, "error", ErrUnknownStage{ID: id}.Error())
		return Outcome{Status: Failure, Err: ErrUnknownStage{ID: id}}
	}

	if stageCtx.IsDryRun() {
		s.DryRunDescription(stageCtx)
		record("stage.skipped", "stage_id", id, "reason", "dry-run")
		return Outcome{Status: Success, Reason: "dry-run"}
	}

	if err := s.Execute(ctx, stageCtx); err != nil {
		record("stage.failure", "stage_id", id, "error", err.Error())
		return Outcome{Status: Failure, Err: err}
	}
	record("stage.success", "stage_id", id)
	return Outcome{Status: Success}
}
