package dynload

import "fmt"

// ErrLibraryOpen is returned when the loader cannot open the shared
// library at path.
type ErrLibraryOpen struct {
	Path  string
	Cause error
}

func (e ErrLibraryOpen) Error() string {
	return fmt.Sprintf("dynamic loader: open %q: %v", e.Path, e.Cause)
}

func (e ErrLibraryOpen) Unwrap() error { return e.Cause }

// ErrSymbolMissing is returned when the library does not export
// EntrySymbol.
type ErrSymbolMissing struct {
	Path string
}

func (e ErrSymbolMissing) Error() string {
	return fmt.Sprintf("dynamic loader: %q does not export symbol %q", e.Path, EntrySymbol)
}

// ErrInitPanicked is returned when the library's entry point panics
// instead of returning a VTable. The loader recovers the panic; it never
// propagates into the host process.
type ErrInitPanicked struct {
	Path  string
	Value interface{}
}

func (e ErrInitPanicked) Error() string {
	return fmt.Sprintf("dynamic loader: %q panicked during init: %v", e.Path, e.Value)
}

// ErrInvalidVTable is returned when the returned VTable is missing a
// required field.
type ErrInvalidVTable struct {
	Field string
}

func (e ErrInvalidVTable) Error() string {
	return fmt.Sprintf("dynamic loader: invalid vtable: missing field %q", e.Field)
}

// ErrFfiReturnedError wraps an error a VTable lifecycle function itself
// returned, naming which function.
type ErrFfiReturnedError struct {
	Function string
	Cause    error
}

func (e ErrFfiReturnedError) Error() string {
	return fmt.Sprintf("dynamic loader: %s returned error: %v", e.Function, e.Cause)
}

func (e ErrFfiReturnedError) Unwrap() error { return e.Cause }

// ErrNullInstance is returned when a VTable's Instance field is nil.
type ErrNullInstance struct{}

func (e ErrNullInstance) Error() string {
	return "dynamic loader: vtable instance is nil"
}
