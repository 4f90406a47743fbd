// Package component implements the host's component registry: a
// type-indexed map of long-lived shared service instances together with
// the ordered init/start/stop lifecycle the host drives them through.
package component

import "context"

// Component is the capability set every built-in service implements so the
// host can drive it through its lifecycle uniformly.
type Component interface {
	// Name identifies the component for logging and diagnostics.
	Name() string
	// Initialize prepares the component. Called once, in registry
	// insertion order, before Start.
	Initialize(ctx context.Context) error
	// Start begins the component's active behavior (e.g. background
	// goroutines, listeners). Called after every component's Initialize
	// has succeeded, in insertion order.
	Start(ctx context.Context) error
	// Stop releases the component's resources. Called in reverse
	// insertion order, including for components whose Start was never
	// reached because a later component failed Initialize/Start.
	Stop(ctx context.Context) error
}
