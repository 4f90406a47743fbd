package dynload

import (
	"context"
	"errors"
	"testing"

	"github.com/kernelforge/kernel/internal/plugin"
	"github.com/kernelforge/kernel/internal/stage"
	"github.com/stretchr/testify/require"
)

type fakeInstance struct {
	shutdownCalled bool
	destroyCalled  bool
}

func newTestVTable(inst *fakeInstance) *VTable {
	return &VTable{
		Instance:                 inst,
		GetName:                  func(interface{}) string { return "reposync" },
		GetVersion:               func(interface{}) string { return "1.2.0" },
		GetCompatibleAPIVersions: func(interface{}) []string { return []string{"^1.0"} },
		GetPriority:              func(interface{}) plugin.Priority { return plugin.Priority{Band: plugin.ThirdParty, Subvalue: 50} },
		IsCore:                   func(interface{}) bool { return false },
		Preflight:                func(interface{}, context.Context) FfiResult { return nil },
		Init:                     func(interface{}, plugin.Application) FfiResult { return nil },
		RegisterStages:           func(interface{}, *stage.Registry) FfiResult { return nil },
		Shutdown: func(i interface{}) FfiResult {
			i.(*fakeInstance).shutdownCalled = true
			return nil
		},
		Destroy: func(i interface{}) {
			i.(*fakeInstance).destroyCalled = true
		},
	}
}

func TestVTableValidateRejectsMissingField(t *testing.T) {
	vt := newTestVTable(&fakeInstance{})
	vt.Init = nil

	err := vt.Validate()
	require.Error(t, err)
	var invalid ErrInvalidVTable
	require.ErrorAs(t, err, &invalid)
	require.Equal(t, "Init", invalid.Field)
}

func TestWrapperAdaptsMetadata(t *testing.T) {
	inst := &fakeInstance{}
	vt := newTestVTable(inst)
	require.NoError(t, vt.Validate())

	w := &Wrapper{vtable: vt, libPath: "/plugins/reposync.so"}
	require.Equal(t, "reposync", w.ID())
	require.Equal(t, "1.2.0", w.PluginVersion().String())
	require.False(t, w.IsCore())
}

func TestWrapperShutdownIsIdempotent(t *testing.T) {
	inst := &fakeInstance{}
	vt := newTestVTable(inst)
	w := &Wrapper{vtable: vt}

	require.NoError(t, w.Shutdown(context.Background()))
	require.True(t, inst.shutdownCalled)
	require.True(t, inst.destroyCalled)

	inst.shutdownCalled = false
	require.NoError(t, w.Shutdown(context.Background()))
	require.False(t, inst.shutdownCalled)
}

func TestWrapperPreflightWrapsFfiError(t *testing.T) {
	inst := &fakeInstance{}
	vt := newTestVTable(inst)
	vt.Preflight = func(interface{}, context.Context) FfiResult { return errors.New("boom") }
	w := &Wrapper{vtable: vt}

	err := w.PreflightCheck(context.Background())
	require.Error(t, err)
	var ffiErr ErrFfiReturnedError
	require.ErrorAs(t, err, &ffiErr)
	require.Equal(t, "preflight", ffiErr.Function)
}
