package dynload

import (
	goplugin "plugin"
)

// Loader opens shared libraries built with Go's plugin package and
// retrieves their exported VTable under a crash guard.
type Loader struct{}

// NewLoader creates a loader. It holds no state of its own. A library it
// opens stays loaded for the rest of the process: nothing closes or
// unloads it.
func NewLoader() *Loader {
	return &Loader{}
}

// Open opens the library at path, looks up EntrySymbol, calls it under a
// panic guard, and validates the returned VTable. On success it returns a
// Wrapper that is the single owner of the VTable. The Wrapper keeps the
// library's path, not its *plugin.Plugin handle.
func (l *Loader) Open(path string) (wrapper *Wrapper, err error) {
	lib, openErr := goplugin.Open(path)
	if openErr != nil {
		return nil, ErrLibraryOpen{Path: path, Cause: openErr}
	}

	sym, lookupErr := lib.Lookup(EntrySymbol)
	if lookupErr != nil {
		return nil, ErrSymbolMissing{Path: path}
	}

	init, ok := sym.(func() *VTable)
	if !ok {
		return nil, ErrInvalidVTable{Field: EntrySymbol}
	}

	vtable, initErr := callGuarded(path, init)
	if initErr != nil {
		return nil, initErr
	}

	if err := vtable.Validate(); err != nil {
		return nil, err
	}

	return &Wrapper{vtable: vtable, libPath: path}, nil
}

// callGuarded invokes init under recover so a panicking shared library
// never crashes the host process; the panic is reported as ErrInitPanicked
// instead.
func callGuarded(path string, init func() *VTable) (vt *VTable, err error) {
	defer func() {
		if r := recover(); r != nil {
			vt = nil
			err = ErrInitPanicked{Path: path, Value: r}
		}
	}()
	return init(), nil
}
