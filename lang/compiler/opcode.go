// Package compiler lowers a parsed ast.Program to a flat byte-code Program
// (spec.md §4.2), then peephole-optimizes it (spec.md §4.3). Its shape is
// adapted from the teacher's lang/compiler package: an explicit OpCode
// enum with a String() table (compiler/opcode.go), and a textual
// pseudo-assembly form for tests and the `shrek compile` command
// (compiler/asm.go) — but the control-flow-graph compilation in the
// teacher's compiler.go has no analogue here, since this language has no
// expressions or nested functions to compile: lowering is a single linear
// walk over the already-flat ast.Program (spec.md §4.2).
package compiler

import "fmt"

// OpCode is the tag of a byte-code Instruction (spec.md §3's table).
type OpCode uint8

//nolint:revive
const (
	NoOp OpCode = iota
	Label
	Push0
	Pop
	Bump
	Func
	Jump
	PushConst
)

var opcodeNames = [...]string{
	NoOp:      "no_op",
	Label:     "label",
	Push0:     "push0",
	Pop:       "pop",
	Bump:      "bump",
	Func:      "func",
	Jump:      "jump",
	PushConst: "push_const",
}

func (op OpCode) String() string {
	if int(op) < len(opcodeNames) && opcodeNames[op] != "" {
		return opcodeNames[op]
	}
	return fmt.Sprintf("illegal op (%d)", op)
}

// Instruction is one byte-code entry: an opcode, its signed immediate, and
// the source offset of the originating token (preserved for diagnostics,
// spec.md §3).
type Instruction struct {
	Op     OpCode
	A      int64
	Offset int
}

func (ins Instruction) String() string {
	switch ins.Op {
	case Label, Jump, PushConst:
		return fmt.Sprintf("%s %d", ins.Op, ins.A)
	default:
		return ins.Op.String()
	}
}

// Program is the flat, ordered sequence of instructions produced by
// lowering and rewritten in place by the optimizer.
type Program struct {
	Name         string
	Instructions []Instruction
}

func (p *Program) String() string {
	s := fmt.Sprintf("program: %s\n", p.Name)
	for i, ins := range p.Instructions {
		s += fmt.Sprintf("%4d  %s\n", i, ins)
	}
	return s
}

// Reserved two-operand and one-operand arithmetic built-in function
// numbers, shared between the optimizer's constant-folding passes
// (spec.md §4.3 Pass B/C) and the VM's built-in catalogue (spec.md §4.6),
// so that a program fragment pushing two constants and a function number
// folds to the exact same value the VM would compute at runtime.
const (
	FnAdd      = 2
	FnSubtract = 3
	FnMultiply = 4
	FnDivide   = 5
	FnMod      = 6
	FnDouble   = 7
	FnNegate   = 8
	FnSquare   = 9
)

// IsBinaryArith reports whether fn is one of the two-operand arithmetic
// built-ins folded by optimizer Pass B.
func IsBinaryArith(fn int64) bool {
	switch fn {
	case FnAdd, FnSubtract, FnMultiply, FnDivide, FnMod:
		return true
	default:
		return false
	}
}

// IsUnaryArith reports whether fn is one of the one-operand arithmetic
// built-ins folded by optimizer Pass C.
func IsUnaryArith(fn int64) bool {
	switch fn {
	case FnDouble, FnNegate, FnSquare:
		return true
	default:
		return false
	}
}

// EvalBinary computes the result of applying the two-operand arithmetic
// built-in fn to operands a (pushed first) and b (pushed second), using
// the identical "v1 op v0" order the VM's built-in catalogue uses (spec.md
// §4.6: v0 is the top of stack, the operand pushed last, i.e. b here; v1
// is beneath it, i.e. a). So the fold is "a op b". ok is false for an
// unrecognized fn; divErr is set for division/modulus by zero — the
// zero-divisor check is against b, the true divisor (v0) — which the
// optimizer must leave unfolded so the VM can trap it at runtime (spec.md
// §4.3 "Arithmetic edge cases").
func EvalBinary(fn, a, b int64) (result int64, ok, divErr bool) {
	switch fn {
	case FnAdd:
		return a + b, true, false
	case FnSubtract:
		return a - b, true, false
	case FnMultiply:
		return a * b, true, false
	case FnDivide:
		if b == 0 {
			return 0, true, true
		}
		return a / b, true, false
	case FnMod:
		if b == 0 {
			return 0, true, true
		}
		return a % b, true, false
	default:
		return 0, false, false
	}
}

// EvalUnary computes the result of applying the one-operand arithmetic
// built-in fn to operand a.
func EvalUnary(fn, a int64) (result int64, ok bool) {
	switch fn {
	case FnDouble:
		return 2 * a, true
	case FnNegate:
		return -a, true
	case FnSquare:
		return a * a, true
	default:
		return 0, false
	}
}
