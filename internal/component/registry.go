package component

import (
	"reflect"
	"sync"
)

// Registry is a type-indexed map of shared service instances. Insertion is
// idempotent per type up until the registry is sealed by the host at the
// start of the init phase; after that, every Insert fails with
// ErrAlreadyBound regardless of whether the type was previously bound.
//
// The registry itself never drives lifecycle — see Host for that. It only
// remembers insertion order so the host can replay it.
type Registry struct {
	mu     sync.RWMutex
	values map[reflect.Type]interface{}
	order  []reflect.Type
	sealed bool
}

// NewRegistry creates an empty component registry.
func NewRegistry() *Registry {
	return &Registry{values: make(map[reflect.Type]interface{})}
}

// Seal prevents further Insert calls. The host calls this once, immediately
// before running the init pass.
func (r *Registry) Seal() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sealed = true
}

func typeKey[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

// Insert binds instance under the static type T, replacing any prior
// binding as long as the registry has not been sealed.
func Insert[T any](r *Registry, instance T) error {
	key := typeKey[T]()

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.sealed {
		return ErrAlreadyBound{Type: key.String()}
	}

	if _, exists := r.values[key]; !exists {
		r.order = append(r.order, key)
	}
	r.values[key] = instance
	return nil
}

// Get returns the instance bound to type T, if any.
func Get[T any](r *Registry) (T, bool) {
	var zero T
	key := typeKey[T]()

	r.mu.RLock()
	defer r.mu.RUnlock()

	raw, ok := r.values[key]
	if !ok {
		return zero, false
	}
	typed, ok := raw.(T)
	if !ok {
		return zero, false
	}
	return typed, true
}

// GetDyn returns the component bound to the provided reflect.Type, if one
// is bound and it satisfies the Component interface.
func (r *Registry) GetDyn(t reflect.Type) (Component, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	raw, ok := r.values[t]
	if !ok {
		return nil, false
	}
	c, ok := raw.(Component)
	return c, ok
}

// Iter returns every bound instance that satisfies Component, in the order
// they were first inserted.
func (r *Registry) Iter() []Component {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Component, 0, len(r.order))
	for _, key := range r.order {
		if c, ok := r.values[key].(Component); ok {
			out = append(out, c)
		}
	}
	return out
}
