package maincmd

import (
	"context"
	"fmt"
	"os"

	"github.com/mna/mainer"

	"shrek/lang/scanner"
	"shrek/lang/token"
)

// Tokenize implements `shrek tokenize <path>`: scan the file and print
// one line per token.
func (c *Cmd) Tokenize(ctx context.Context, stdio mainer.Stdio, args []string) error {
	return tokenizeFile(stdio, args[0])
}

func tokenizeFile(stdio mainer.Stdio, path string) error {
	src, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(stdio.Stderr, "%s\n", err)
		return err
	}

	file := token.NewFile(path, len(src))
	var el token.ErrorList
	var s scanner.Scanner
	s.Init(file, src, el.Add)

	for {
		tok := s.Scan()
		fmt.Fprintf(stdio.Stdout, "%s: %s", file.Position(tok.Offset), tok.Kind)
		if tok.Literal != "" {
			fmt.Fprintf(stdio.Stdout, " %q", tok.Literal)
		}
		fmt.Fprintln(stdio.Stdout)
		if tok.Kind == token.EOF {
			break
		}
	}

	if err := el.Err(); err != nil {
		fmt.Fprintf(stdio.Stderr, "%s\n", err)
		return err
	}
	return nil
}
