// Package event implements the kernel's event dispatcher: name-indexed and
// type-indexed handler registration with immediate dispatch and an ordered
// queue for deferred delivery.
package event

// Verdict is the outcome a handler returns to control further delivery of
// the event it just received.
type Verdict int

const (
	// Continue allows dispatch to proceed to the next handler.
	Continue Verdict = iota
	// Stop halts further delivery of this event across both the
	// name-indexed and type-indexed handler groups.
	Stop
)

// Event is the minimal capability every dispatched value must provide.
type Event interface {
	// Name is the static event name used for name-indexed dispatch.
	Name() string
	// Priority orders events relative to others when queued; higher values
	// are not reordered by the dispatcher itself (delivery is FIFO), but
	// callers may use it to prioritize before enqueuing.
	Priority() int
	// IsCancelable reports whether a Stop verdict from a handler should
	// actually short-circuit delivery. Events that return false still let
	// handlers return Stop, but the dispatcher ignores it.
	IsCancelable() bool
	// Clone returns an independent copy suitable for queuing, since queued
	// events are owned by the dispatcher until consumed.
	Clone() Event
}

// Handler is a callback invoked with the dispatched event. It returns the
// verdict controlling further delivery.
type Handler func(event Event) Verdict

// HandlerID uniquely identifies a registered handler for unregistration.
type HandlerID uint64
