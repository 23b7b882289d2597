package maincmd

import (
	"context"
	"fmt"
	"os"

	"github.com/mna/mainer"

	"shrek/lang/compiler"
	"shrek/lang/parser"
)

// Compile implements `shrek compile <path>`: lex, parse, lower and
// peephole-optimize the file, printing the resulting byte-code in
// pseudo-assembly form (spec.md §4.2, §4.3).
func (c *Cmd) Compile(ctx context.Context, stdio mainer.Stdio, args []string) error {
	return compileFile(stdio, args[0])
}

func compileFile(stdio mainer.Stdio, path string) error {
	prog, err := lowerAndOptimize(stdio, path)
	if err != nil {
		return err
	}
	fmt.Fprint(stdio.Stdout, compiler.Disassemble(prog))
	return nil
}

// lowerAndOptimize runs the shared lex/parse/lower/optimize pipeline used
// by both `compile` and `run`.
func lowerAndOptimize(stdio mainer.Stdio, path string) (*compiler.Program, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(stdio.Stderr, "%s\n", err)
		return nil, err
	}

	astProg, err := parser.ParseFile(path, src)
	if err != nil {
		fmt.Fprintf(stdio.Stderr, "%s\n", err)
		return nil, err
	}

	prog, err := compiler.Lower(astProg)
	if err != nil {
		fmt.Fprintf(stdio.Stderr, "%s\n", err)
		return nil, err
	}

	return compiler.Optimize(prog), nil
}
