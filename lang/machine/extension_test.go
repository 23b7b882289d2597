package machine

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRegisterSymbolStripsSuffix(t *testing.T) {
	require.Equal(t, "greet_register", registerSymbol("/ext/greet.dnky", ".dnky"))
	require.Equal(t, "greet_register", registerSymbol("greet.dnky", ".dnky"))
}

func TestLoadExtensionsNoMatchesIsNotAnError(t *testing.T) {
	rt := NewRuntime()
	err := LoadExtensions(rt, t.TempDir(), "")
	require.NoError(t, err)
}

// TestExtensionRegistersAndCallsCustomFunction exercises the ABI surface an
// extension's `<name>_register` entry point uses, mirroring spec.md §8's
// scenario: register function number 100 to push 42, then look it up in
// the function table and call it.
func TestExtensionRegistersAndCallsCustomFunction(t *testing.T) {
	rt := NewRuntime()
	err := rt.RegisterFunction(100, func(rt *Runtime) int32 {
		if err := rt.Push(42); err != nil {
			rt.SetExceptionString(err.Error())
			return 1
		}
		return 0
	})
	require.NoError(t, err)

	fn, ok := rt.Functions().Lookup(100)
	require.True(t, ok)
	rc := fn(rt)
	require.Zero(t, rc)
	v, err := rt.Pop()
	require.NoError(t, err)
	require.Equal(t, int64(42), v)
}

func TestExtensionCannotReuseARegisteredNumber(t *testing.T) {
	rt := NewRuntime()
	err := rt.RegisterFunction(BuiltinAdd, func(rt *Runtime) int32 { return 0 })
	require.Error(t, err)
}

func TestExtensionFailureReportsExceptionString(t *testing.T) {
	rt := NewRuntime()
	require.NoError(t, rt.RegisterFunction(101, func(rt *Runtime) int32 {
		rt.SetExceptionString("custom failure")
		return 1
	}))
	require.NoError(t, rt.Push(int64(101)))

	fn, ok := rt.Functions().Lookup(101)
	require.True(t, ok)
	rc := fn(rt)
	require.Equal(t, int32(1), rc)
	require.Equal(t, "custom failure", rt.exception)
}
