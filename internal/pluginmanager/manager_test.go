package pluginmanager

import (
	"context"
	"errors"
	"testing"

	"github.com/kernelforge/kernel/internal/plugin"
	"github.com/kernelforge/kernel/internal/stage"
	"github.com/stretchr/testify/require"
)

type fakePlugin struct {
	id           string
	isCore       bool
	priority     plugin.Priority
	preflightErr error
	initCalled   bool
	shutdownErr  error
}

func (p *fakePlugin) ID() string                                { return p.id }
func (p *fakePlugin) DisplayName() string                       { return p.id }
func (p *fakePlugin) PluginVersion() plugin.Version              { return plugin.MustParseVersion("1.0.0") }
func (p *fakePlugin) IsCore() bool                               { return p.isCore }
func (p *fakePlugin) Priority() plugin.Priority                  { return p.priority }
func (p *fakePlugin) CompatibleHostAPIVersions() []plugin.Range  { return nil }
func (p *fakePlugin) Dependencies() []plugin.Dependency          { return nil }
func (p *fakePlugin) ConflictsWith() []string                    { return nil }
func (p *fakePlugin) IncompatibleWith() []plugin.Incompatibility { return nil }
func (p *fakePlugin) StageRequirements() []plugin.StageRequirement { return nil }
func (p *fakePlugin) ResourceClaims() []plugin.ResourceClaim       { return nil }
func (p *fakePlugin) PreflightCheck(ctx context.Context) error     { return p.preflightErr }
func (p *fakePlugin) Init(ctx context.Context, app plugin.Application) error {
	p.initCalled = true
	return nil
}
func (p *fakePlugin) RegisterStages(ctx context.Context, registry *stage.Registry) error { return nil }
func (p *fakePlugin) Shutdown(ctx context.Context) error                                { return p.shutdownErr }

type stubApplication struct{}

func (stubApplication) ComponentByName(name string) (interface{}, bool) { return nil, false }

func TestPreflightStageRecordsFailingIDs(t *testing.T) {
	reg := plugin.NewRegistry()
	good := &fakePlugin{id: "good", priority: plugin.DefaultThirdParty}
	bad := &fakePlugin{id: "bad", priority: plugin.DefaultThirdParty, preflightErr: errors.New("preflight failed")}
	require.NoError(t, reg.Register(good, false))
	require.NoError(t, reg.Register(bad, false))

	m := &Manager{registry: reg}
	s := NewPreflightStage(m)
	stageCtx := stage.NewContext(stage.Live, "", nil)

	require.NoError(t, s.Execute(context.Background(), stageCtx))

	failures, ok := stage.Get[PreflightFailures](stageCtx, preflightFailuresKey)
	require.True(t, ok)
	require.True(t, failures["bad"])
	require.False(t, failures["good"])
}

func TestInitializeStageDisablesPreflightFailuresThenInitializes(t *testing.T) {
	reg := plugin.NewRegistry()
	good := &fakePlugin{id: "good", priority: plugin.DefaultThirdParty}
	bad := &fakePlugin{id: "bad", priority: plugin.DefaultThirdParty}
	require.NoError(t, reg.Register(good, false))
	require.NoError(t, reg.Register(bad, false))

	m := &Manager{registry: reg}
	stages := stage.NewRegistry()
	s := NewInitializeStage(m, stubApplication{}, stages)
	stageCtx := stage.NewContext(stage.Live, "", nil)
	stage.Put(stageCtx, preflightFailuresKey, PreflightFailures{"bad": true})

	require.NoError(t, s.Execute(context.Background(), stageCtx))

	require.True(t, good.initCalled)
	require.False(t, bad.initCalled)

	state, ok := reg.State("bad")
	require.True(t, ok)
	require.Equal(t, plugin.Disabled, state)
}

func TestInitializeStageLeavesCorePluginEnabledWhenPreflightFailed(t *testing.T) {
	reg := plugin.NewRegistry()
	core := &fakePlugin{id: "core", isCore: true, priority: plugin.Priority{Band: plugin.Core}}
	require.NoError(t, reg.Register(core, false))

	m := &Manager{registry: reg}
	stages := stage.NewRegistry()
	s := NewInitializeStage(m, stubApplication{}, stages)
	stageCtx := stage.NewContext(stage.Live, "", nil)
	stage.Put(stageCtx, preflightFailuresKey, PreflightFailures{"core": true})

	require.NoError(t, s.Execute(context.Background(), stageCtx))

	state, ok := reg.State("core")
	require.True(t, ok)
	require.NotEqual(t, plugin.Disabled, state)
}
