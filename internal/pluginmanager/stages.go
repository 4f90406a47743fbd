package pluginmanager

import (
	"context"
	"fmt"
	"sort"

	"github.com/kernelforge/kernel/internal/plugin"
	"github.com/kernelforge/kernel/internal/stage"
)

// PreflightFailures is the set of plugin ids whose preflight check failed
// during the plugin.preflight stage. The plugin.initialize stage reads it
// back out of the stage context.
type PreflightFailures map[string]bool

// preflightFailuresKey namespaces PreflightFailures in the stage context so
// it can't collide with unrelated values of the same underlying map type.
const preflightFailuresKey = "pluginmanager.preflight_failures"

// PreflightStage is the "plugin.preflight" lifecycle stage: it runs every
// enabled plugin's preflight check and records which ones failed, without
// disabling anything itself.
type PreflightStage struct {
	manager *Manager
}

// NewPreflightStage constructs the plugin.preflight stage bound to manager.
func NewPreflightStage(manager *Manager) *PreflightStage {
	return &PreflightStage{manager: manager}
}

func (s *PreflightStage) ID() string { return "plugin.preflight" }

func (s *PreflightStage) DryRunDescription(ctx *stage.Context) string {
	return "runs preflight_check on every enabled plugin"
}

// Execute always returns nil: a failed preflight is recorded, not treated
// as a stage failure, so the pipeline always continues to plugin.initialize.
func (s *PreflightStage) Execute(ctx context.Context, stageCtx *stage.Context) error {
	failures := make(PreflightFailures)

	for _, id := range s.manager.registry.List() {
		state, ok := s.manager.registry.State(id)
		if !ok || state != plugin.Enabled {
			continue
		}
		p, ok := s.manager.registry.Get(id)
		if !ok {
			continue
		}
		if err := p.PreflightCheck(ctx); err != nil {
			failures[id] = true
		}
	}

	stage.Put(stageCtx, preflightFailuresKey, failures)
	return nil
}

// InitializeStage is the "plugin.initialize" lifecycle stage: it disables
// every plugin the preflight stage flagged, then runs the plugin registry's
// core initialization algorithm.
type InitializeStage struct {
	manager *Manager
	app     plugin.Application
	stages  *stage.Registry
}

// NewInitializeStage constructs the plugin.initialize stage. app is the
// thin host view plugins receive during Init; stages is the stage registry
// plugins populate via RegisterStages.
func NewInitializeStage(manager *Manager, app plugin.Application, stages *stage.Registry) *InitializeStage {
	return &InitializeStage{manager: manager, app: app, stages: stages}
}

func (s *InitializeStage) ID() string { return "plugin.initialize" }

func (s *InitializeStage) DryRunDescription(ctx *stage.Context) string {
	return "disables plugins that failed preflight, then initializes the remaining enabled plugins in dependency order"
}

func (s *InitializeStage) Execute(ctx context.Context, stageCtx *stage.Context) error {
	if failures, ok := stage.Get[PreflightFailures](stageCtx, preflightFailuresKey); ok {
		ids := make([]string, 0, len(failures))
		for id := range failures {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		for _, id := range ids {
			if err := s.manager.registry.Disable(id); err != nil {
				// Core plugins refuse disable; they are left enabled and
				// will surface the same preflight failure again inside
				// InitializeAll's own per-plugin pass.
				continue
			}
		}
	}

	outcomes, err := s.manager.registry.InitializeAll(ctx, s.app, s.stages)
	if err != nil {
		return fmt.Errorf("plugin.initialize: %w", err)
	}

	for _, o := range outcomes {
		if o.State == plugin.Failed && o.Failure != nil {
			s.manager.logWarn(ctx, "plugin failed to initialize",
				"plugin_id", o.ID, "reason", o.Failure.Reason.String())
		}
	}
	return nil
}
