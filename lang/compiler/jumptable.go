package compiler

import "fmt"

// Undefined is the jump-table sentinel for a label identifier that has no
// corresponding `label` instruction (spec.md §3: "or a sentinel 'undefined'
// value").
const Undefined = -1

// JumpTable is a dense array; position k holds the instruction index
// immediately after the label instruction whose identifier is k, or
// Undefined.
type JumpTable []int

// BuildJumpTable scans prog once (spec.md §5 step 6, run after the
// optimizer) and returns the jump table. It returns an error if the same
// label identifier marks more than one instruction, which would violate
// the "each label identifier appears at most once" invariant (spec.md §3);
// Lower already enforces this, so this is a defensive re-check against a
// program built directly (e.g. via Assemble) rather than through Lower.
func BuildJumpTable(prog *Program) (JumpTable, error) {
	maxID := int64(-1)
	for _, ins := range prog.Instructions {
		if ins.Op == Label && ins.A > maxID {
			maxID = ins.A
		}
	}

	jt := make(JumpTable, maxID+1)
	for i := range jt {
		jt[i] = Undefined
	}

	for i, ins := range prog.Instructions {
		if ins.Op != Label {
			continue
		}
		if jt[ins.A] != Undefined {
			return nil, fmt.Errorf("duplicate label definition: label %d", ins.A)
		}
		jt[ins.A] = i + 1
	}
	return jt, nil
}
