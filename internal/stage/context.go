package stage

import (
	"reflect"
	"sync"
)

// Context is the per-run scratchpad threaded through a pipeline execution.
// A pipeline run is single-threaded (stages execute sequentially), but
// values stored in it must remain safe to hand across goroutines since a
// pipeline may migrate across worker threads between stages.
type Context struct {
	mu             sync.Mutex
	mode           ExecutionMode
	configDir      string
	invocationArgs []string
	values         map[string]map[reflect.Type]interface{}
}

// NewContext constructs a stage context for one pipeline run.
func NewContext(mode ExecutionMode, configDir string, invocationArgs []string) *Context {
	return &Context{
		mode:           mode,
		configDir:      configDir,
		invocationArgs: invocationArgs,
		values:         make(map[string]map[reflect.Type]interface{}),
	}
}

// Mode returns the execution mode this context was created with.
func (c *Context) Mode() ExecutionMode { return c.mode }

// IsDryRun reports whether the context is running in DryRun mode.
func (c *Context) IsDryRun() bool { return c.mode == DryRun }

// ConfigDir returns the configuration directory supplied at construction.
func (c *Context) ConfigDir() string { return c.configDir }

// InvocationArgs returns the arguments the pipeline run was invoked with.
func (c *Context) InvocationArgs() []string { return c.invocationArgs }

// ExecuteLive invokes f only when the context is in Live mode. It guards
// side-effecting inner operations inside otherwise dry-run-safe stages.
func (c *Context) ExecuteLive(f func() error) error {
	if c.IsDryRun() {
		return nil
	}
	return f()
}

func contextType[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

// Put stores value under key and the static type T, replacing any prior
// value stored under that same (key, T) pair. Two stages using different
// keys never collide even when T is identical.
func Put[T any](c *Context, key string, value T) {
	typ := contextType[T]()
	c.mu.Lock()
	defer c.mu.Unlock()
	bucket, ok := c.values[key]
	if !ok {
		bucket = make(map[reflect.Type]interface{})
		c.values[key] = bucket
	}
	bucket[typ] = value
}

// Get returns the value stored under key and type T, if any.
func Get[T any](c *Context, key string) (T, bool) {
	var zero T
	typ := contextType[T]()
	c.mu.Lock()
	defer c.mu.Unlock()
	bucket, ok := c.values[key]
	if !ok {
		return zero, false
	}
	raw, ok := bucket[typ]
	if !ok {
		return zero, false
	}
	typed, ok := raw.(T)
	return typed, ok
}

// GetMut returns the value stored under key and type T so the caller can
// mutate it in place, then writes the mutation back when store is called.
// Because the context is single-threaded within a run, this emulates the
// get_mut borrow the scratchpad API exposes without risking a data race.
func GetMut[T any](c *Context, key string) (value T, store func(T), ok bool) {
	v, ok := Get[T](c, key)
	if !ok {
		return value, nil, false
	}
	return v, func(next T) { Put(c, key, next) }, true
}

// Remove deletes the value stored under key and type T, if any.
func Remove[T any](c *Context, key string) {
	typ := contextType[T]()
	c.mu.Lock()
	defer c.mu.Unlock()
	bucket, ok := c.values[key]
	if !ok {
		return
	}
	delete(bucket, typ)
	if len(bucket) == 0 {
		delete(c.values, key)
	}
}
