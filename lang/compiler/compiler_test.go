package compiler

import (
	"testing"

	"github.com/stretchr/testify/require"

	"shrek/lang/parser"
)

func lowerSrc(t *testing.T, src string) *Program {
	t.Helper()
	prog, err := parser.ParseFile("t", []byte(src))
	require.NoError(t, err)
	out, err := Lower(prog)
	require.NoError(t, err)
	return out
}

func TestLowerEmpty(t *testing.T) {
	out := lowerSrc(t, "")
	require.Empty(t, out.Instructions)
}

func TestLowerCommands(t *testing.T) {
	out := lowerSrc(t, "SHRE")
	require.Equal(t, []OpCode{Push0, Pop, Bump, Func}, opcodesOf(out.Instructions))
}

func TestLowerLabelsDenseAndStable(t *testing.T) {
	out := lowerSrc(t, "!SS!SK!SS!")
	require.Len(t, out.Instructions, 3)
	require.Equal(t, Label, out.Instructions[0].Op)
	require.Equal(t, Jump, out.Instructions[2].Op)
	require.Equal(t, out.Instructions[0].A, out.Instructions[2].A)
}

func TestLowerTwoLabelsGetDistinctIDs(t *testing.T) {
	out := lowerSrc(t, "!SS!SK!HH!K!SS!K!HH!")
	require.NotEqual(t, out.Instructions[0].A, out.Instructions[4].A)
}

func TestLowerDuplicateLabelIsError(t *testing.T) {
	prog, err := parser.ParseFile("t", []byte("!SS!S!SS!"))
	require.NoError(t, err)
	_, err = Lower(prog)
	require.Error(t, err)
}

func TestLowerDeterministic(t *testing.T) {
	src := "!SS!SHREK!SS!SK!SS!"
	for i := 0; i < 2; i++ {
		prog, err := parser.ParseFile("t", []byte(src))
		require.NoError(t, err)
		out, err := Lower(prog)
		require.NoError(t, err)
		require.Equal(t, []OpCode{Label, Push0, Pop, Bump, Func, Jump, Push0, Jump}, opcodesOf(out.Instructions))
	}
}

func opcodesOf(ins []Instruction) []OpCode {
	ops := make([]OpCode, len(ins))
	for i, in := range ins {
		ops[i] = in.Op
	}
	return ops
}
