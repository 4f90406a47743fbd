package event

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

type testEvent struct {
	name       string
	cancelable bool
}

func (e testEvent) Name() string      { return e.name }
func (e testEvent) Priority() int      { return 0 }
func (e testEvent) IsCancelable() bool { return e.cancelable }
func (e testEvent) Clone() Event       { return e }

type otherTestEvent struct {
	testEvent
}

func TestDispatchByNameInRegistrationOrder(t *testing.T) {
	d := NewDispatcher(nil)
	var order []string

	_, err := d.RegisterByName("tick", func(ev Event) Verdict {
		order = append(order, "first")
		return Continue
	})
	require.NoError(t, err)

	_, err = d.RegisterByName("tick", func(ev Event) Verdict {
		order = append(order, "second")
		return Continue
	})
	require.NoError(t, err)

	require.NoError(t, d.Dispatch(context.Background(), testEvent{name: "tick", cancelable: true}))
	require.Equal(t, []string{"first", "second"}, order)
}

func TestDispatchNameThenType(t *testing.T) {
	d := NewDispatcher(nil)
	var order []string

	_, err := d.RegisterByName("tick", func(ev Event) Verdict {
		order = append(order, "by-name")
		return Continue
	})
	require.NoError(t, err)

	_, err = RegisterByType[testEvent](d, func(ev testEvent) Verdict {
		order = append(order, "by-type")
		return Continue
	})
	require.NoError(t, err)

	require.NoError(t, d.Dispatch(context.Background(), testEvent{name: "tick", cancelable: true}))
	require.Equal(t, []string{"by-name", "by-type"}, order)
}

func TestDispatchStopHaltsAcrossBothGroups(t *testing.T) {
	d := NewDispatcher(nil)
	var order []string

	_, err := d.RegisterByName("tick", func(ev Event) Verdict {
		order = append(order, "by-name")
		return Stop
	})
	require.NoError(t, err)

	_, err = RegisterByType[testEvent](d, func(ev testEvent) Verdict {
		order = append(order, "by-type")
		return Continue
	})
	require.NoError(t, err)

	require.NoError(t, d.Dispatch(context.Background(), testEvent{name: "tick", cancelable: true}))
	require.Equal(t, []string{"by-name"}, order)
}

func TestDispatchStopIgnoredWhenNotCancelable(t *testing.T) {
	d := NewDispatcher(nil)
	var order []string

	_, err := d.RegisterByName("tick", func(ev Event) Verdict {
		order = append(order, "first")
		return Stop
	})
	require.NoError(t, err)

	_, err = d.RegisterByName("tick", func(ev Event) Verdict {
		order = append(order, "second")
		return Continue
	})
	require.NoError(t, err)

	require.NoError(t, d.Dispatch(context.Background(), testEvent{name: "tick", cancelable: false}))
	require.Equal(t, []string{"first", "second"}, order)
}

func TestDispatchTypeHandlerSkipsOnDowncastFailure(t *testing.T) {
	d := NewDispatcher(nil)
	called := false

	_, err := RegisterByType[otherTestEvent](d, func(ev otherTestEvent) Verdict {
		called = true
		return Continue
	})
	require.NoError(t, err)

	require.NoError(t, d.Dispatch(context.Background(), testEvent{name: "tick", cancelable: true}))
	require.False(t, called)
}

func TestDispatchPanicIsContainedAndDeliveryContinues(t *testing.T) {
	d := NewDispatcher(nil)
	reached := false

	_, err := d.RegisterByName("tick", func(ev Event) Verdict {
		panic("boom")
	})
	require.NoError(t, err)

	_, err = d.RegisterByName("tick", func(ev Event) Verdict {
		reached = true
		return Continue
	})
	require.NoError(t, err)

	require.NoError(t, d.Dispatch(context.Background(), testEvent{name: "tick", cancelable: true}))
	require.True(t, reached)
}

func TestUnregisterRemovesHandler(t *testing.T) {
	d := NewDispatcher(nil)
	called := false

	id, err := d.RegisterByName("tick", func(ev Event) Verdict {
		called = true
		return Continue
	})
	require.NoError(t, err)

	ok, err := d.Unregister(id)
	require.NoError(t, err)
	require.True(t, ok)

	require.NoError(t, d.Dispatch(context.Background(), testEvent{name: "tick", cancelable: true}))
	require.False(t, called)

	ok, err = d.Unregister(id)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestQueueAndDrainIsFIFO(t *testing.T) {
	d := NewDispatcher(nil)
	var order []string

	_, err := d.RegisterByName("a", func(ev Event) Verdict {
		order = append(order, "a")
		return Continue
	})
	require.NoError(t, err)
	_, err = d.RegisterByName("b", func(ev Event) Verdict {
		order = append(order, "b")
		return Continue
	})
	require.NoError(t, err)

	require.NoError(t, d.Queue(testEvent{name: "a", cancelable: true}))
	require.NoError(t, d.Queue(testEvent{name: "b", cancelable: true}))

	n, err := d.Drain(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, n)
	require.Equal(t, []string{"a", "b"}, order)

	n, err = d.Drain(context.Background())
	require.NoError(t, err)
	require.Equal(t, 0, n)
}
