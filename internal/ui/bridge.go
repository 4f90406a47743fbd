// Package ui implements the UI bridge: a Component that owns a bubbletea
// program rendering a read-only view of the component registry, the plugin
// registry, and a rolling window of recent stage and plugin lifecycle
// activity. It never drives the kernel; it only observes it.
package ui

import (
	"context"
	"fmt"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/kernelforge/kernel/internal/component"
	"github.com/kernelforge/kernel/internal/event"
	"github.com/kernelforge/kernel/internal/plugin"
)

// historyLimit bounds the rolling window of lifecycle activity the bridge
// keeps for rendering; older entries are dropped as new ones arrive.
const historyLimit = 50

// subscribedKinds are the event names the bridge registers for. The
// dispatcher has no wildcard matching, so every kind the plugin and stage
// registries emit (via their AuditRecorder, fanned out through an
// event.Publisher) is listed individually.
var subscribedKinds = []string{
	"plugin.registered",
	"plugin.enabled",
	"plugin.disabled",
	"plugin.initialized",
	"plugin.failed",
	"plugin.shutdown",
	"plugin.shutdown_failed",
	"conflict.detected",
	"stage.success",
	"stage.skipped",
	"stage.failure",
}

// Bridge is the Component wrapping the bubbletea program. Construct with
// New, insert into the component registry like any other built-in service.
type Bridge struct {
	dispatcher *event.Dispatcher
	components *component.Registry
	plugins    *plugin.Registry

	mu      sync.Mutex
	history []HistoryEntry

	program *tea.Program
	done    chan struct{}
	cancel  context.CancelFunc
}

// New constructs a Bridge. components and plugins are read at refresh time
// to build each Snapshot; dispatcher is where the bridge subscribes for
// plugin.* and stage.* activity.
func New(dispatcher *event.Dispatcher, components *component.Registry, plugins *plugin.Registry) *Bridge {
	return &Bridge{
		dispatcher: dispatcher,
		components: components,
		plugins:    plugins,
	}
}

var _ component.Component = (*Bridge)(nil)

func (b *Bridge) Name() string { return "ui_bridge" }

// Initialize subscribes to every kind in subscribedKinds and builds the
// program around the current snapshot. It does not launch the program;
// Start does that.
func (b *Bridge) Initialize(ctx context.Context) error {
	for _, kind := range subscribedKinds {
		if _, err := b.dispatcher.RegisterByName(kind, b.onEvent(kind)); err != nil {
			return fmt.Errorf("ui bridge: subscribe %q: %w", kind, err)
		}
	}

	model := NewModel(b.snapshot())
	b.program = tea.NewProgram(model, tea.WithAltScreen())
	return nil
}

// Start launches the bubbletea program on a background goroutine bound to
// ctx: when ctx is canceled, the program is sent a quit message the same
// way the keyboard shortcut does.
func (b *Bridge) Start(ctx context.Context) error {
	runCtx, cancel := context.WithCancel(ctx)
	b.cancel = cancel
	b.done = make(chan struct{})

	go func() {
		defer close(b.done)
		_, _ = b.program.Run()
	}()

	go func() {
		<-runCtx.Done()
		b.program.Send(quitMsg{})
	}()

	return nil
}

// Stop sends a quit message and waits for the program goroutine to exit,
// or for ctx to expire first.
func (b *Bridge) Stop(ctx context.Context) error {
	if b.cancel != nil {
		b.cancel()
	}
	if b.program != nil {
		b.program.Send(quitMsg{})
	}
	if b.done == nil {
		return nil
	}
	select {
	case <-b.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// onEvent returns a handler that appends a history entry for kind and
// pushes a fresh snapshot into the running program.
func (b *Bridge) onEvent(kind string) event.Handler {
	return func(ev event.Event) event.Verdict {
		detail := ""
		if le, ok := ev.(event.LifecycleEvent); ok {
			detail = formatFields(le.Fields)
		}

		b.mu.Lock()
		b.history = append(b.history, HistoryEntry{Kind: kind, Detail: detail})
		if len(b.history) > historyLimit {
			b.history = b.history[len(b.history)-historyLimit:]
		}
		b.mu.Unlock()

		if b.program != nil {
			go func() { b.program.Send(refreshMsg{snapshot: b.snapshot()}) }()
		}
		return event.Continue
	}
}

func (b *Bridge) snapshot() Snapshot {
	var componentNames []string
	for _, c := range b.components.Iter() {
		componentNames = append(componentNames, c.Name())
	}

	var statuses []PluginStatus
	for _, id := range b.plugins.List() {
		state, _ := b.plugins.State(id)
		statuses = append(statuses, PluginStatus{ID: id, State: state.String()})
	}

	b.mu.Lock()
	history := append([]HistoryEntry(nil), b.history...)
	b.mu.Unlock()

	return Snapshot{Components: componentNames, Plugins: statuses, History: history}
}

func formatFields(fields map[string]interface{}) string {
	if len(fields) == 0 {
		return ""
	}
	keys := []string{"plugin_id", "stage_id", "a", "b", "reason", "error", "blocked_by", "state"}
	var b []byte
	for _, k := range keys {
		v, ok := fields[k]
		if !ok {
			continue
		}
		if len(b) > 0 {
			b = append(b, ' ')
		}
		b = append(b, fmt.Sprintf("%s=%v", k, v)...)
	}
	return string(b)
}
