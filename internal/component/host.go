package component

import (
	"context"
	"fmt"
)

// Host drives the registered components through the init/start/stop
// lifecycle in insertion order (reverse for stop), per the contract in
// spec §4.A: any failure at init or start aborts subsequent components and
// unwinds the already-started prefix via Stop in reverse order.
type Host struct {
	registry *Registry
}

// NewHost wraps a registry. Callers finish registering components, then
// call InitializeAll/StartAll; the host seals the registry before the init
// pass so later Insert calls are rejected per the registry's contract.
func NewHost(registry *Registry) *Host {
	return &Host{registry: registry}
}

// InitializeAll seals the registry and calls Initialize on every component
// in insertion order. On failure it stops the already-initialized prefix
// (in reverse) before returning the original error.
func (h *Host) InitializeAll(ctx context.Context) error {
	h.registry.Seal()
	components := h.registry.Iter()

	for i, c := range components {
		if err := c.Initialize(ctx); err != nil {
			h.stopPrefix(ctx, components[:i])
			return fmt.Errorf("initialize component %q: %w", c.Name(), err)
		}
	}
	return nil
}

// StartAll calls Start on every component in insertion order. On failure it
// stops the already-started prefix (in reverse) before returning the error.
func (h *Host) StartAll(ctx context.Context) error {
	components := h.registry.Iter()

	for i, c := range components {
		if err := c.Start(ctx); err != nil {
			h.stopPrefix(ctx, components[:i])
			return fmt.Errorf("start component %q: %w", c.Name(), err)
		}
	}
	return nil
}

// StopAll calls Stop on every component in reverse insertion order,
// aggregating (not short-circuiting on) individual failures.
func (h *Host) StopAll(ctx context.Context) error {
	return h.stopPrefix(ctx, h.registry.Iter())
}

// stopPrefix stops the given components in reverse order, collecting every
// error encountered rather than aborting at the first one.
func (h *Host) stopPrefix(ctx context.Context, components []Component) error {
	var errs []error
	for i := len(components) - 1; i >= 0; i-- {
		c := components[i]
		if err := c.Stop(ctx); err != nil {
			errs = append(errs, fmt.Errorf("stop component %q: %w", c.Name(), err))
		}
	}
	if len(errs) == 0 {
		return nil
	}
	if len(errs) == 1 {
		return errs[0]
	}
	return &StopErrors{Errors: errs}
}

// StopErrors aggregates multiple component stop failures.
type StopErrors struct {
	Errors []error
}

func (e *StopErrors) Error() string {
	msg := fmt.Sprintf("%d component(s) failed to stop:", len(e.Errors))
	for _, err := range e.Errors {
		msg += "\n  - " + err.Error()
	}
	return msg
}
