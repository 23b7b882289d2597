package machine

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestRuntime() (*Runtime, *bytes.Buffer) {
	rt := NewRuntime()
	var out bytes.Buffer
	rt.Stdout = &out
	return rt, &out
}

func TestBuiltinInputPushesCharactersThenZero(t *testing.T) {
	rt, _ := newTestRuntime()
	rt.Stdin = strings.NewReader("hi\n")
	rc := biInput(rt)
	require.Zero(t, rc)
	// stack top to bottom: 'h', 'i', 0
	v, err := rt.Pop()
	require.NoError(t, err)
	require.Equal(t, int64('h'), v)
	v, err = rt.Pop()
	require.NoError(t, err)
	require.Equal(t, int64('i'), v)
	v, err = rt.Pop()
	require.NoError(t, err)
	require.Equal(t, int64(0), v)
}

func TestBuiltinOutputWritesDecimalAndKeepsValue(t *testing.T) {
	rt, out := newTestRuntime()
	require.NoError(t, rt.Push(17))
	rc := biOutput(rt)
	require.Zero(t, rc)
	require.Equal(t, "17\n", out.String())
	require.Equal(t, 1, rt.StackSize())
}

func TestBuiltinArithmeticOrder(t *testing.T) {
	rt, _ := newTestRuntime()
	// 10 - 3: push 10, push 3, subtract -> v0=3 (top), v1=10 -> 10-3=7
	require.NoError(t, rt.Push(10))
	require.NoError(t, rt.Push(3))
	rc := biBinary(func(v0, v1 int64) int64 { return v1 - v0 })(rt)
	require.Zero(t, rc)
	v, err := rt.Pop()
	require.NoError(t, err)
	require.Equal(t, int64(7), v)
}

func TestBuiltinDivideByZeroFails(t *testing.T) {
	rt, _ := newTestRuntime()
	require.NoError(t, rt.Push(5))
	require.NoError(t, rt.Push(0))
	rc := biDivide(rt)
	require.NotZero(t, rc)
}

func TestBuiltinModByZeroFails(t *testing.T) {
	rt, _ := newTestRuntime()
	require.NoError(t, rt.Push(5))
	require.NoError(t, rt.Push(0))
	rc := biMod(rt)
	require.NotZero(t, rc)
}

func TestBuiltinDoubleNegateSquare(t *testing.T) {
	rt, _ := newTestRuntime()
	require.NoError(t, rt.Push(4))
	require.Zero(t, biUnary(func(v0 int64) int64 { return 2 * v0 })(rt))
	v, _ := rt.Pop()
	require.Equal(t, int64(8), v)

	require.NoError(t, rt.Push(4))
	require.Zero(t, biUnary(func(v0 int64) int64 { return -v0 })(rt))
	v, _ = rt.Pop()
	require.Equal(t, int64(-4), v)

	require.NoError(t, rt.Push(4))
	require.Zero(t, biUnary(func(v0 int64) int64 { return v0 * v0 })(rt))
	v, _ = rt.Pop()
	require.Equal(t, int64(16), v)
}

func TestBuiltinClone(t *testing.T) {
	rt, _ := newTestRuntime()
	require.NoError(t, rt.Push(9))
	rc := biClone(rt)
	require.Zero(t, rc)
	require.Equal(t, 2, rt.StackSize())
	a, _ := rt.Pop()
	b, _ := rt.Pop()
	require.Equal(t, a, b)
}

func TestBuiltinStashRoundTrip(t *testing.T) {
	rt, _ := newTestRuntime()
	require.NoError(t, rt.Push(100)) // value
	require.NoError(t, rt.Push(1))   // key
	rc := biStashAdd(rt)
	require.Zero(t, rc)
	v, err := rt.Pop()
	require.NoError(t, err)
	require.Equal(t, int64(100), v) // value left on stack

	require.NoError(t, rt.Push(1)) // key
	rc = biStashGet(rt)
	require.Zero(t, rc)
	v, err = rt.Pop()
	require.NoError(t, err)
	require.Equal(t, int64(100), v)

	require.NoError(t, rt.Push(1))
	rc = biStashDelete(rt)
	require.Zero(t, rc)

	require.NoError(t, rt.Push(1))
	rc = biStashGet(rt)
	require.NotZero(t, rc)
}

func TestBuiltinStashGetMissingKeyFails(t *testing.T) {
	rt, _ := newTestRuntime()
	require.NoError(t, rt.Push(42))
	rc := biStashGet(rt)
	require.NotZero(t, rc)
}

func TestRegisterBuiltinsCoversReservedRange(t *testing.T) {
	tbl := NewFunctionTable()
	registerBuiltins(tbl)
	for _, n := range []uint32{
		BuiltinInput, BuiltinOutput, BuiltinAdd, BuiltinSubtract, BuiltinMultiply,
		BuiltinDivide, BuiltinMod, BuiltinDouble, BuiltinNegate, BuiltinSquare,
		BuiltinClone, BuiltinStashAdd, BuiltinStashGet, BuiltinStashDel,
	} {
		_, ok := tbl.Lookup(n)
		require.True(t, ok, "builtin %d missing", n)
	}
}
