package component

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

type lifecycleRecorder struct {
	name        string
	events      *[]string
	failInit    bool
	failStart   bool
}

func (l *lifecycleRecorder) Name() string { return l.name }

func (l *lifecycleRecorder) Initialize(ctx context.Context) error {
	if l.failInit {
		return errors.New("init boom")
	}
	*l.events = append(*l.events, l.name+":init")
	return nil
}

func (l *lifecycleRecorder) Start(ctx context.Context) error {
	if l.failStart {
		return errors.New("start boom")
	}
	*l.events = append(*l.events, l.name+":start")
	return nil
}

func (l *lifecycleRecorder) Stop(ctx context.Context) error {
	*l.events = append(*l.events, l.name+":stop")
	return nil
}

type firstRecorder struct{ lifecycleRecorder }
type secondRecorder struct{ lifecycleRecorder }

func TestHostInitializeAndStartAllSucceed(t *testing.T) {
	reg := NewRegistry()
	var events []string

	first := &firstRecorder{lifecycleRecorder{name: "first", events: &events}}
	second := &secondRecorder{lifecycleRecorder{name: "second", events: &events}}

	require.NoError(t, Insert[*firstRecorder](reg, first))
	require.NoError(t, Insert[*secondRecorder](reg, second))

	host := NewHost(reg)
	ctx := context.Background()

	require.NoError(t, host.InitializeAll(ctx))
	require.NoError(t, host.StartAll(ctx))
	require.NoError(t, host.StopAll(ctx))

	require.Equal(t, []string{
		"first:init", "second:init",
		"first:start", "second:start",
		"second:stop", "first:stop",
	}, events)
}

func TestHostInitializeAbortsAndUnwindsOnFailure(t *testing.T) {
	reg := NewRegistry()
	var events []string

	type componentA struct{ lifecycleRecorder }
	type componentB struct{ lifecycleRecorder }

	a := &componentA{lifecycleRecorder{name: "a", events: &events}}
	b := &componentB{lifecycleRecorder{name: "b", events: &events, failInit: true}}

	require.NoError(t, Insert[*componentA](reg, a))
	require.NoError(t, Insert[*componentB](reg, b))

	host := NewHost(reg)
	ctx := context.Background()

	err := host.InitializeAll(ctx)
	require.Error(t, err)

	// a initialized successfully, then b failed to initialize; the host
	// must have stopped a (the already-initialized prefix) before returning.
	require.Equal(t, []string{"a:init", "a:stop"}, events)
}

func TestHostStartAbortsAndUnwindsOnFailure(t *testing.T) {
	reg := NewRegistry()
	var events []string

	type componentA struct{ lifecycleRecorder }
	type componentB struct{ lifecycleRecorder }

	a := &componentA{lifecycleRecorder{name: "a", events: &events}}
	b := &componentB{lifecycleRecorder{name: "b", events: &events, failStart: true}}

	require.NoError(t, Insert[*componentA](reg, a))
	require.NoError(t, Insert[*componentB](reg, b))

	host := NewHost(reg)
	ctx := context.Background()

	require.NoError(t, host.InitializeAll(ctx))
	events = nil

	err := host.StartAll(ctx)
	require.Error(t, err)
	require.Equal(t, []string{"a:start", "a:stop"}, events)
}
