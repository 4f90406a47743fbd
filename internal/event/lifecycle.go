package event

import "context"

// LifecycleEvent carries a lifecycle transition (a plugin or stage state
// change) onto the dispatcher as an ordinary Event, so long-lived
// subscribers such as the UI bridge can observe registry activity without
// the registries depending on the dispatcher directly.
type LifecycleEvent struct {
	kind   string
	Fields map[string]interface{}
}

func (e LifecycleEvent) Name() string { return e.kind }
func (e LifecycleEvent) Priority() int { return 0 }
func (e LifecycleEvent) IsCancelable() bool { return false }
func (e LifecycleEvent) Clone() Event {
	fields := make(map[string]interface{}, len(e.Fields))
	for k, v := range e.Fields {
		fields[k] = v
	}
	return LifecycleEvent{kind: e.kind, Fields: fields}
}

// Publisher adapts a Dispatcher to the narrow Record(kind, fields...)
// shape the plugin and stage registries already call their audit trail
// through, so the same lifecycle transitions can be fanned out onto the
// dispatcher as LifecycleEvents without either registry importing this
// package's Dispatcher type as anything but that shape.
type Publisher struct {
	dispatcher *Dispatcher
}

// NewPublisher wraps d so it can be handed to Registry.SetAuditRecorder (or
// composed into an audit.Fanout) wherever a Record-shaped sink is expected.
func NewPublisher(d *Dispatcher) *Publisher {
	return &Publisher{dispatcher: d}
}

// Record builds a LifecycleEvent named kind from the field pairs and
// dispatches it immediately. Dispatch errors (a poisoned dispatcher) are
// swallowed: a broken event bus must never block a registry's own lifecycle
// transition, which already succeeded by the time Record is called.
func (p *Publisher) Record(kind string, fields ...interface{}) {
	values := make(map[string]interface{}, len(fields)/2)
	for i := 0; i+1 < len(fields); i += 2 {
		key, ok := fields[i].(string)
		if !ok {
			continue
		}
		values[key] = fields[i+1]
	}
	_ = p.dispatcher.Dispatch(context.Background(), LifecycleEvent{kind: kind, Fields: values})
}
