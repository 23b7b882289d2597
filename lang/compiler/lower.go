package compiler

import (
	"fmt"

	"shrek/lang/ast"
	"shrek/lang/token"
)

// commandOpcodes maps the case-folded command letter to its OpCode,
// spec.md §4.2's table.
var commandOpcodes = map[byte]OpCode{
	'S': Push0,
	'H': Pop,
	'R': Bump,
	'E': Func,
	'K': Jump,
}

// Lower walks prog's node sequence in order and emits one Instruction per
// node (spec.md §4.2). Label identifiers are assigned densely, counting up
// from zero, on first sighting of their text. A label textually defined
// more than once is a lowering-time error (spec.md §9 Open Question,
// resolved here in favor of "raise").
func Lower(prog *ast.Program) (*Program, error) {
	var el token.ErrorList
	l := &lowerer{labelIDs: make(map[string]int64), defined: make(map[int64]bool)}

	out := &Program{Name: prog.Name}
	for _, n := range prog.Nodes {
		ins, err := l.lower(n)
		if err != nil {
			el.Add(token.Position{Offset: n.Tok.Offset}, err.Error())
			continue
		}
		out.Instructions = append(out.Instructions, ins)
	}
	return out, el.Err()
}

type lowerer struct {
	labelIDs map[string]int64
	defined  map[int64]bool
	next     int64
}

func (l *lowerer) idFor(text string) int64 {
	if id, ok := l.labelIDs[text]; ok {
		return id
	}
	id := l.next
	l.next++
	l.labelIDs[text] = id
	return id
}

func (l *lowerer) lower(n *ast.Node) (Instruction, error) {
	switch n.Tok.Kind {
	case token.LABEL:
		id := l.idFor(n.Tok.Literal)
		if l.defined[id] {
			return Instruction{}, fmt.Errorf("duplicate label definition: !%s!", n.Tok.Literal)
		}
		l.defined[id] = true
		return Instruction{Op: Label, A: id, Offset: n.Tok.Offset}, nil

	case token.COMMAND:
		letter := n.Tok.Literal[0]
		op, ok := commandOpcodes[upperFold(letter)]
		if !ok {
			return Instruction{}, fmt.Errorf("unknown command %q", n.Tok.Literal)
		}
		if op == Jump {
			if len(n.Children) != 1 {
				return Instruction{}, fmt.Errorf("jump command missing label")
			}
			id := l.idFor(n.Children[0].Tok.Literal)
			return Instruction{Op: Jump, A: id, Offset: n.Tok.Offset}, nil
		}
		return Instruction{Op: op, A: 0, Offset: n.Tok.Offset}, nil

	default:
		return Instruction{}, fmt.Errorf("unexpected node kind %s", n.Tok.Kind)
	}
}

// upperFold case-folds a command letter to its uppercase form, per spec.md
// §4.1: "case conventions ... are to be preserved in the emitted token but
// collapse in command-to-opcode mapping".
func upperFold(b byte) byte {
	if b >= 'a' && b <= 'z' {
		return b - ('a' - 'A')
	}
	return b
}
