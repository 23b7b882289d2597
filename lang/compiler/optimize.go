package compiler

// MaxOptimizePasses is the hard cap on the number of B+C iterations the
// optimizer will run before giving up on reaching a fixed point (spec.md
// §4.3 "Driver").
const MaxOptimizePasses = 32

// Optimize rewrites prog's instructions by peephole substitution until a
// fixed point is reached or MaxOptimizePasses iterations have run,
// implementing spec.md §4.3's three passes:
//
//   - Pass A (easy-constant folding) runs once.
//   - Pass B (binary-arithmetic folding) and Pass C (unary-arithmetic
//     folding) alternate until a full B+C iteration makes no rewrite.
//
// No rewrite ever merges across a `label` instruction, so each label still
// precedes the same instruction it did before; rewrites do shift absolute
// indices, so the jump table must be built from the optimized program.
func Optimize(prog *Program) *Program {
	out := &Program{Name: prog.Name, Instructions: foldEasyConstants(prog.Instructions)}

	for i := 0; i < MaxOptimizePasses; i++ {
		next, changedB := foldBinaryArith(out.Instructions)
		next, changedC := foldUnaryArith(next)
		out.Instructions = next
		if !changedB && !changedC {
			break
		}
	}
	return out
}

// foldEasyConstants implements Pass A: a push0 followed by zero or more
// immediately-consecutive bump instructions becomes a single push_const
// whose immediate is the bump count. A push0 with no following bump is
// preserved verbatim.
func foldEasyConstants(ins []Instruction) []Instruction {
	out := make([]Instruction, 0, len(ins))
	for i := 0; i < len(ins); {
		if ins[i].Op != Push0 {
			out = append(out, ins[i])
			i++
			continue
		}
		start := i
		n := int64(0)
		j := i + 1
		for j < len(ins) && ins[j].Op == Bump {
			n++
			j++
		}
		if n == 0 {
			out = append(out, ins[i])
			i++
			continue
		}
		out = append(out, Instruction{Op: PushConst, A: n, Offset: ins[start].Offset})
		i = j
	}
	return out
}

// foldBinaryArith implements Pass B: matches (push_const a)(push_const
// b)(push_const f)(func) where f is one of the two-operand arithmetic
// built-ins, replacing the quadruple with a single push_const.
func foldBinaryArith(ins []Instruction) ([]Instruction, bool) {
	out := make([]Instruction, 0, len(ins))
	changed := false
	for i := 0; i < len(ins); {
		if i+3 < len(ins) &&
			ins[i].Op == PushConst && ins[i+1].Op == PushConst && ins[i+2].Op == PushConst &&
			ins[i+3].Op == Func && IsBinaryArith(ins[i+2].A) {

			a, b, fn := ins[i].A, ins[i+1].A, ins[i+2].A
			result, ok, divErr := EvalBinary(fn, a, b)
			if ok && !divErr {
				out = append(out, Instruction{Op: PushConst, A: result, Offset: ins[i].Offset})
				i += 4
				changed = true
				continue
			}
		}
		out = append(out, ins[i])
		i++
	}
	return out, changed
}

// foldUnaryArith implements Pass C: matches (push_const a)(push_const
// f)(func) where f is one of the one-operand arithmetic built-ins.
func foldUnaryArith(ins []Instruction) ([]Instruction, bool) {
	out := make([]Instruction, 0, len(ins))
	changed := false
	for i := 0; i < len(ins); {
		if i+2 < len(ins) &&
			ins[i].Op == PushConst && ins[i+1].Op == PushConst && ins[i+2].Op == Func &&
			IsUnaryArith(ins[i+1].A) {

			a, fn := ins[i].A, ins[i+1].A
			result, ok := EvalUnary(fn, a)
			if ok {
				out = append(out, Instruction{Op: PushConst, A: result, Offset: ins[i].Offset})
				i += 3
				changed = true
				continue
			}
		}
		out = append(out, ins[i])
		i++
	}
	return out, changed
}
