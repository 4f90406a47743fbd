package audit

// Recorder is the narrow shape both the plugin and stage registries accept
// via SetAuditRecorder. Trail satisfies it directly; Fanout lets a registry
// feed more than one sink (the append-only trail and, e.g., the event
// dispatcher's Publisher) from a single SetAuditRecorder call.
type Recorder interface {
	Record(kind string, fields ...interface{})
}

// Fanout broadcasts every Record call to each wrapped sink in order. A
// panicking sink is not recovered here: sinks constructed by this package
// and by internal/event never panic from Record, so guarding against it
// would hide a real bug instead of an expected failure mode.
type Fanout []Recorder

// NewFanout wraps the given sinks. A nil entry is skipped at call time.
func NewFanout(sinks ...Recorder) Fanout {
	return Fanout(sinks)
}

func (f Fanout) Record(kind string, fields ...interface{}) {
	for _, sink := range f {
		if sink == nil {
			continue
		}
		sink.Record(kind, fields...)
	}
}
