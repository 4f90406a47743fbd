package component

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

type stubService struct {
	value int
}

type otherService struct {
	label string
}

func TestRegistryInsertAndGet(t *testing.T) {
	reg := NewRegistry()

	require.NoError(t, Insert[*stubService](reg, &stubService{value: 7}))

	got, ok := Get[*stubService](reg)
	require.True(t, ok)
	require.Equal(t, 7, got.value)

	_, ok = Get[*otherService](reg)
	require.False(t, ok)
}

func TestRegistryInsertReplacesBeforeSeal(t *testing.T) {
	reg := NewRegistry()

	require.NoError(t, Insert[*stubService](reg, &stubService{value: 1}))
	require.NoError(t, Insert[*stubService](reg, &stubService{value: 2}))

	got, ok := Get[*stubService](reg)
	require.True(t, ok)
	require.Equal(t, 2, got.value)
}

func TestRegistrySealRejectsFurtherInserts(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, Insert[*stubService](reg, &stubService{value: 1}))

	reg.Seal()

	err := Insert[*otherService](reg, &otherService{label: "late"})
	require.Error(t, err)
	var already ErrAlreadyBound
	require.True(t, errors.As(err, &already))
}

type orderedComponentA struct{ order *[]string }
type orderedComponentB struct{ order *[]string }

func (o *orderedComponentA) Name() string                        { return "a" }
func (o *orderedComponentA) Initialize(ctx context.Context) error { *o.order = append(*o.order, "a"); return nil }
func (o *orderedComponentA) Start(ctx context.Context) error      { return nil }
func (o *orderedComponentA) Stop(ctx context.Context) error       { return nil }

func (o *orderedComponentB) Name() string                        { return "b" }
func (o *orderedComponentB) Initialize(ctx context.Context) error { *o.order = append(*o.order, "b"); return nil }
func (o *orderedComponentB) Start(ctx context.Context) error      { return nil }
func (o *orderedComponentB) Stop(ctx context.Context) error       { return nil }

func TestRegistryIterPreservesInsertionOrder(t *testing.T) {
	reg := NewRegistry()
	var seen []string

	require.NoError(t, Insert[*orderedComponentA](reg, &orderedComponentA{order: &seen}))
	require.NoError(t, Insert[*orderedComponentB](reg, &orderedComponentB{order: &seen}))

	all := reg.Iter()
	require.Len(t, all, 2)
	require.Equal(t, "a", all[0].Name())
	require.Equal(t, "b", all[1].Name())
}

func TestRegistryGetDyn(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, Insert[*stubService](reg, &stubService{value: 3}))

	// GetDyn is keyed on the exact reflect.Type used at Insert time; since
	// *stubService does not implement Component, it should not surface here.
	_, ok := reg.GetDyn(typeKey[*stubService]())
	require.False(t, ok)
}
