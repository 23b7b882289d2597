package maincmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/mna/mainer"

	"shrek/lang/ast"
	"shrek/lang/parser"
	"shrek/lang/token"
)

// Parse implements `shrek parse <path>`: scan and parse the file and print
// its syntax tree, one line per node, indented by depth and annotated with
// each node's byte-offset span (spec.md §3).
func (c *Cmd) Parse(ctx context.Context, stdio mainer.Stdio, args []string) error {
	return parseFile(stdio, args[0])
}

func parseFile(stdio mainer.Stdio, path string) error {
	src, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(stdio.Stderr, "%s\n", err)
		return err
	}

	prog, err := parser.ParseFile(path, src)
	if err != nil {
		fmt.Fprintf(stdio.Stderr, "%s\n", err)
		return err
	}

	for _, n := range prog.Nodes {
		printNode(stdio, n)
	}
	return nil
}

// printNode dumps n and its children with ast.Walk, indenting one level per
// depth and trailing each line with the node's Span.
func printNode(stdio mainer.Stdio, n *ast.Node) {
	depth := 0
	var visit ast.VisitorFunc
	visit = func(nn *ast.Node, dir ast.VisitDirection) ast.Visitor {
		if dir == ast.VisitExit {
			depth--
			return nil
		}
		start, end := nn.Span()
		fmt.Fprintf(stdio.Stdout, "%s%s [%d:%d)\n", strings.Repeat("  ", depth), nodeLabel(nn), start, end)
		depth++
		return visit
	}
	n.Walk(visit)
}

// nodeLabel formats nn alone, the way ast.Node.String() does for a single
// node, but without recursing into children — ast.Walk already visits
// those separately, one indented line each.
func nodeLabel(nn *ast.Node) string {
	switch nn.Tok.Kind {
	case token.LABEL:
		return fmt.Sprintf("label !%s!", nn.Tok.Literal)
	case token.COMMAND:
		return fmt.Sprintf("command %q@%d", nn.Tok.Literal, nn.Tok.Offset)
	default:
		return fmt.Sprintf("%s %q@%d", nn.Tok.Kind, nn.Tok.Literal, nn.Tok.Offset)
	}
}
