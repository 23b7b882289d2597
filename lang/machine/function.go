package machine

import "fmt"

// ReservedThreshold is the first function number available for extension
// registration; numbers below it are built-ins (spec.md §3, §4.6).
const ReservedThreshold = 255

// FuncHandle is a native callable entry point: a built-in or an
// extension-registered function. It receives the runtime handle through
// which it manipulates the operand stack (spec.md §4.5's C-ABI-style
// boundary) and returns a non-zero code to signal failure, optionally
// having first called rt.SetExceptionString to describe why.
type FuncHandle func(rt *Runtime) int32

// FunctionTable maps function numbers to their FuncHandle, spanning both
// the reserved built-in range and user-registered extensions.
type FunctionTable struct {
	fns map[uint32]FuncHandle
}

// NewFunctionTable returns an empty FunctionTable.
func NewFunctionTable() *FunctionTable {
	return &FunctionTable{fns: make(map[uint32]FuncHandle)}
}

// Register assigns fn to function number n. Re-registering an
// already-taken number is refused (spec.md §4.5).
func (t *FunctionTable) Register(n uint32, fn FuncHandle) error {
	if _, taken := t.fns[n]; taken {
		return fmt.Errorf("function number %d is already registered", n)
	}
	t.fns[n] = fn
	return nil
}

// Lookup returns the FuncHandle registered for n, if any.
func (t *FunctionTable) Lookup(n uint32) (FuncHandle, bool) {
	fn, ok := t.fns[n]
	return fn, ok
}
