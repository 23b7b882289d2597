package maincmd

import (
	"context"
	"fmt"

	"github.com/mna/mainer"

	"shrek/lang/compiler"
	"shrek/lang/machine"
)

// Run implements `shrek run <path>`: lex, parse, lower, optimize and
// execute the file on the stack VM (spec.md §4.4), loading any configured
// extensions first (spec.md §4.5).
func (c *Cmd) Run(ctx context.Context, stdio mainer.Stdio, args []string) error {
	return runFile(ctx, stdio, args[0])
}

func runFile(ctx context.Context, stdio mainer.Stdio, path string) error {
	cfg, err := LoadConfig()
	if err != nil {
		fmt.Fprintf(stdio.Stderr, "%s\n", err)
		return err
	}

	prog, err := lowerAndOptimize(stdio, path)
	if err != nil {
		return err
	}

	jt, err := compiler.BuildJumpTable(prog)
	if err != nil {
		fmt.Fprintf(stdio.Stderr, "%s\n", err)
		return err
	}

	rt := cfg.NewRuntime()
	rt.Stdout = stdio.Stdout
	rt.Stderr = stdio.Stderr
	rt.Stdin = stdio.Stdin
	rt.OnError = func(err *machine.RuntimeError) {
		fmt.Fprintf(stdio.Stderr, "runtime error: %s\n", err)
	}

	if err := machine.LoadExtensions(rt, cfg.ExtensionDir, cfg.ExtensionSuffix); err != nil {
		fmt.Fprintf(stdio.Stderr, "%s\n", err)
		return err
	}

	_, err = rt.Run(prog, jt)
	return err
}
