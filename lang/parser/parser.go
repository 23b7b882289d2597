// Package parser consumes the token stream produced by lang/scanner and
// builds the flat syntax node sequence defined by lang/ast (spec.md §4.2).
package parser

import (
	"fmt"

	"shrek/lang/ast"
	"shrek/lang/scanner"
	"shrek/lang/token"
)

// ParseFile scans and parses src (named name, for diagnostics) into a
// *ast.Program. The returned error, if non-nil, is a token.ErrorList.
func ParseFile(name string, src []byte) (*ast.Program, error) {
	var el token.ErrorList
	file := token.NewFile(name, len(src))

	var s scanner.Scanner
	s.Init(file, src, el.Add)

	p := &parser{s: &s, el: &el}
	p.next()
	prog := &ast.Program{Name: name}
	for p.tok.Kind != token.EOF {
		if n := p.node(); n != nil {
			prog.Nodes = append(prog.Nodes, n)
		}
	}
	return prog, el.Err()
}

type parser struct {
	s   *scanner.Scanner
	el  *token.ErrorList
	tok token.Token
}

// next advances to the next significant token, discarding whitespace and
// comments as spec.md §4.2 requires ("Parsing walks tokens, discarding
// whitespace and comment tokens").
func (p *parser) next() {
	for {
		p.tok = p.s.Scan()
		if p.tok.Kind != token.WHITESPACE && p.tok.Kind != token.COMMENT {
			return
		}
	}
}

func (p *parser) errorf(off int, format string, args ...interface{}) {
	p.el.Add(token.Position{Offset: off}, fmt.Sprintf(format, args...))
}

// node parses one node starting at the current token: a label definition,
// or a command (possibly a jump command, which additionally requires a
// following label node as its single child).
func (p *parser) node() *ast.Node {
	switch p.tok.Kind {
	case token.LABEL:
		n := &ast.Node{Tok: p.tok}
		p.next()
		return n

	case token.COMMAND:
		cmdTok := p.tok
		p.next()
		n := &ast.Node{Tok: cmdTok}
		if isJumpLetter(cmdTok.Literal) {
			if p.tok.Kind != token.LABEL {
				p.errorf(cmdTok.Offset, "missing label after jump command")
				return n
			}
			n.Children = []*ast.Node{{Tok: p.tok}}
			p.next()
		}
		return n

	default:
		// ILLEGAL token: the scanner already reported it. Skip past it so
		// parsing can continue and collect further syntax errors.
		p.next()
		return nil
	}
}

// isJumpLetter reports whether lit is the jump command letter, 'K' or 'k'
// (spec.md §4.2's command table).
func isJumpLetter(lit string) bool {
	return lit == "K" || lit == "k"
}
