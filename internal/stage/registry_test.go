package stage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRegistryRegisterRejectsDuplicate(t *testing.T) {
	r := NewRegistry()
	var order []string
	s := &recordingStage{id: "a", order: &order}

	require.NoError(t, r.Register(s))
	err := r.Register(s)
	require.Error(t, err)
	var already ErrAlreadyRegistered
	require.ErrorAs(t, err, &already)
}

func TestRegistryExecuteLiveInvokesExecute(t *testing.T) {
	r := NewRegistry()
	var order []string
	require.NoError(t, r.Register(&recordingStage{id: "a", order: &order}))

	ctx := NewContext(Live, "/tmp", nil)
	outcome := r.Execute(context.Background(), "a", ctx)
	require.Equal(t, Success, outcome.Status)
	require.Equal(t, []string{"a"}, order)
}

func TestRegistryExecuteUnknownStage(t *testing.T) {
	r := NewRegistry()
	ctx := NewContext(Live, "/tmp", nil)
	outcome := r.Execute(context.Background(), "ghost", ctx)
	require.Equal(t, Failure, outcome.Status)
	require.Error(t, outcome.Err)
}

func TestRegistryIDsSorted(t *testing.T) {
	r := NewRegistry()
	var order []string
	require.NoError(t, r.Register(&recordingStage{id: "z", order: &order}))
	require.NoError(t, r.Register(&recordingStage{id: "a", order: &order}))

	require.Equal(t, []string{"a", "z"}, r.IDs())
}
