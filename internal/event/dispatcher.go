package event

import (
	"context"
	"reflect"
	"sync"

	"github.com/kernelforge/kernel/internal/ports"
)

type registration struct {
	id      HandlerID
	handler Handler
}

// Dispatcher is the kernel's event dispatcher: two indexes (by event name
// and by event concrete type), immediate dispatch with Continue/Stop
// cancellation, and an ordered queue for deferred, sequential delivery.
//
// Shared state is behind a single lock; handlers execute while the lock is
// not held. Dispatch snapshots the handler list for the event under the
// lock, then releases before invoking handlers.
type Dispatcher struct {
	mu       sync.RWMutex
	byName   map[string][]registration
	byType   map[reflect.Type][]registration
	queue    []Event
	nextID   HandlerID
	poisoned error
	logger   ports.Logger
}

// NewDispatcher creates an empty dispatcher. A nil logger is replaced with a
// no-op sink; panics recovered from handlers are logged at Warn when a
// logger is available.
func NewDispatcher(logger ports.Logger) *Dispatcher {
	if logger == nil {
		logger = noopLogger{}
	}
	return &Dispatcher{
		byName: make(map[string][]registration),
		byType: make(map[reflect.Type][]registration),
		logger: logger,
	}
}

// RegisterByName registers a handler invoked for every event whose Name()
// matches the provided string.
func (d *Dispatcher) RegisterByName(name string, handler Handler) (HandlerID, error) {
	if err := d.checkPoisoned(); err != nil {
		return 0, err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.nextID++
	id := d.nextID
	d.byName[name] = append(d.byName[name], registration{id: id, handler: handler})
	return id, nil
}

// RegisterByType registers a handler invoked for every event whose concrete
// type matches E. The dispatcher downcasts at delivery time; if the
// downcast fails (a differently-typed event with the same interface value
// arrives) the handler is skipped silently, not treated as an error.
func RegisterByType[E Event](d *Dispatcher, handler func(E) Verdict) (HandlerID, error) {
	if err := d.checkPoisoned(); err != nil {
		return 0, err
	}
	key := reflect.TypeOf((*E)(nil)).Elem()

	wrapped := func(ev Event) Verdict {
		typed, ok := ev.(E)
		if !ok {
			return Continue
		}
		return handler(typed)
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	d.nextID++
	id := d.nextID
	d.byType[key] = append(d.byType[key], registration{id: id, handler: wrapped})
	return id, nil
}

// Unregister removes a previously registered handler by id, searching both
// indexes. Returns false (no error) if the id is not found anywhere.
func (d *Dispatcher) Unregister(id HandlerID) (bool, error) {
	if err := d.checkPoisoned(); err != nil {
		return false, err
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	for name, regs := range d.byName {
		if idx := indexOf(regs, id); idx >= 0 {
			d.byName[name] = append(regs[:idx], regs[idx+1:]...)
			return true, nil
		}
	}
	for t, regs := range d.byType {
		if idx := indexOf(regs, id); idx >= 0 {
			d.byType[t] = append(regs[:idx], regs[idx+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func indexOf(regs []registration, id HandlerID) int {
	for i, r := range regs {
		if r.id == id {
			return i
		}
	}
	return -1
}

// Dispatch delivers event immediately: first every name-indexed handler for
// event.Name(), then every type-indexed handler for event's concrete type.
// Within each group delivery is in registration order. A handler returning
// Stop (on a cancelable event) halts delivery across both groups. A
// panicking handler is contained; delivery continues with the next handler.
func (d *Dispatcher) Dispatch(ctx context.Context, ev Event) error {
	if err := d.checkPoisoned(); err != nil {
		return err
	}

	d.mu.RLock()
	nameHandlers := append([]registration(nil), d.byName[ev.Name()]...)
	typeHandlers := append([]registration(nil), d.byType[reflect.TypeOf(ev)]...)
	d.mu.RUnlock()

	cancelable := ev.IsCancelable()

	for _, reg := range nameHandlers {
		if d.invoke(ctx, reg, ev) == Stop && cancelable {
			return nil
		}
	}
	for _, reg := range typeHandlers {
		if d.invoke(ctx, reg, ev) == Stop && cancelable {
			return nil
		}
	}
	return nil
}

// invoke calls a single handler under a panic guard. A recovered panic is
// logged and treated as Continue; it never poisons the dispatcher.
func (d *Dispatcher) invoke(ctx context.Context, reg registration, ev Event) (verdict Verdict) {
	verdict = Continue
	defer func() {
		if r := recover(); r != nil {
			d.logger.Warn(ctx, "event handler panicked", "event_name", ev.Name(), "handler_id", reg.id, "panic", r)
			verdict = Continue
		}
	}()
	return reg.handler(ev)
}

// Queue appends event to the ordered queue, taking ownership of a clone so
// later mutation by the caller cannot affect the queued copy.
func (d *Dispatcher) Queue(ev Event) error {
	if err := d.checkPoisoned(); err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.queue = append(d.queue, ev.Clone())
	return nil
}

// Drain consumes the queue in FIFO order, dispatching each event
// sequentially (not in parallel). Returns the number of events drained.
func (d *Dispatcher) Drain(ctx context.Context) (int, error) {
	if err := d.checkPoisoned(); err != nil {
		return 0, err
	}

	d.mu.Lock()
	pending := d.queue
	d.queue = nil
	d.mu.Unlock()

	for _, ev := range pending {
		if err := d.Dispatch(ctx, ev); err != nil {
			return 0, err
		}
	}
	return len(pending), nil
}

func (d *Dispatcher) checkPoisoned() error {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.poisoned != nil {
		return ErrPoisoned{Cause: d.poisoned}
	}
	return nil
}

type noopLogger struct{}

func (noopLogger) Debug(context.Context, string, ...interface{}) {}
func (noopLogger) Info(context.Context, string, ...interface{})  {}
func (noopLogger) Warn(context.Context, string, ...interface{})  {}
func (noopLogger) Error(context.Context, string, ...interface{}) {}
func (noopLogger) With(...interface{}) ports.Logger              { return noopLogger{} }
