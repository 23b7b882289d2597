package compiler

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAsmRoundTrip(t *testing.T) {
	prog := &Program{
		Name: "t",
		Instructions: []Instruction{
			{Op: Label, A: 0},
			{Op: PushConst, A: 12},
			{Op: Jump, A: 0},
			{Op: Func},
		},
	}
	text := Disassemble(prog)
	got, err := Assemble(text)
	require.NoError(t, err)
	require.Equal(t, prog.Instructions, got.Instructions)
}

func TestAsmUnknownOpcode(t *testing.T) {
	_, err := Assemble("program: t\n0: bogus\n")
	require.Error(t, err)
}
