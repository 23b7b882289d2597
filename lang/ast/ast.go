// Package ast defines the syntax tree produced by lang/parser: a flat,
// ordered sequence of shallow nodes, one per command or label token. Only
// jump command nodes ever have children, and then exactly one: the label
// node naming their target (spec.md §3).
package ast

import (
	"fmt"
	"strings"

	"shrek/lang/token"
)

// Node is a single syntax node: the token it was built from, and its
// (possibly empty) ordered children. There is no separate node-kind type;
// a Node's kind is its Tok.Kind, following the Design Notes' observation
// that a plain owning-by-value children-vector shape is sufficient since
// the tree never has cycles and is at most one level deep.
type Node struct {
	Tok      token.Token
	Children []*Node
}

// Span returns the byte-offset range covered by n and its children.
func (n *Node) Span() (start, end int) {
	start = n.Tok.Offset
	end = start + len(n.Tok.Literal)
	if n.Tok.Kind == token.LABEL {
		end += 2 // the '!' delimiters are not part of the literal
	}
	for _, c := range n.Children {
		_, cend := c.Span()
		if cend > end {
			end = cend
		}
	}
	return start, end
}

// Walk visits n and its children with v, calling Visit on enter and exit
// exactly as lang/ast.Walk does in the teacher's AST package.
func (n *Node) Walk(v Visitor) {
	Walk(v, n)
}

func (n *Node) String() string {
	var sb strings.Builder
	switch n.Tok.Kind {
	case token.LABEL:
		fmt.Fprintf(&sb, "label !%s!", n.Tok.Literal)
	case token.COMMAND:
		fmt.Fprintf(&sb, "command %q@%d", n.Tok.Literal, n.Tok.Offset)
	default:
		fmt.Fprintf(&sb, "%s %q@%d", n.Tok.Kind, n.Tok.Literal, n.Tok.Offset)
	}
	for _, c := range n.Children {
		fmt.Fprintf(&sb, " -> %s", c)
	}
	return sb.String()
}

// Program is the flat ordered sequence of nodes produced by the parser for
// one source file.
type Program struct {
	Name  string
	Nodes []*Node
}

func (p *Program) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "program %s (%d nodes)\n", p.Name, len(p.Nodes))
	for _, n := range p.Nodes {
		fmt.Fprintf(&sb, "  %s\n", n)
	}
	return sb.String()
}
