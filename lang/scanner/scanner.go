// Package scanner implements the lexer for the SHREK language: it turns
// source text into the token stream consumed by the parser (lang/parser).
package scanner

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"shrek/lang/token"
)

// Alphabet is the case-sensitive set of characters that may appear as a
// single-character command token: the five letters of "SHREK" in both
// upper and lower case. spec.md §4.1 leaves the choice between an
// uppercase-only and a mixed-case alphabet open; this runtime implements
// the mixed-case alphabet and preserves the token's case in its literal,
// collapsing case only at the command-to-opcode mapping step in
// lang/compiler (see DESIGN.md).
const Alphabet = "SHREKshrek"

// Scanner tokenizes a single source file for the parser to consume. Its
// design mirrors the teacher's lang/scanner.Scanner: immutable state set by
// Init, mutable single-rune lookahead advanced one character at a time.
type Scanner struct {
	file *token.File
	src  []byte
	err  func(token.Position, string)

	cur rune // current character, -1 at EOF
	off int  // byte offset of cur
	roff int // offset immediately after cur
}

// Init prepares the scanner to tokenize src, reporting errors (if any)
// through errHandler.
func (s *Scanner) Init(file *token.File, src []byte, errHandler func(token.Position, string)) {
	s.file = file
	s.src = src
	s.err = errHandler
	s.cur = ' '
	s.off = 0
	s.roff = 0
	s.advance()
}

func (s *Scanner) advance() {
	if s.roff >= len(s.src) {
		s.off = len(s.src)
		if s.cur == '\n' {
			s.file.AddLine(s.off)
		}
		s.cur = -1
		return
	}
	s.off = s.roff
	if s.cur == '\n' {
		s.file.AddLine(s.off)
	}
	r, w := rune(s.src[s.roff]), 1
	if r >= utf8.RuneSelf {
		r, w = utf8.DecodeRune(s.src[s.roff:])
		if r == utf8.RuneError && w == 1 {
			s.error(s.off, "illegal UTF-8 encoding")
		}
	}
	s.roff += w
	s.cur = r
}

func (s *Scanner) error(off int, msg string) {
	if s.err != nil {
		s.err(s.file.Position(off), msg)
	}
}

// Scan returns the next token in the source. It returns a token with Kind
// EOF once the end of the source has been reached; subsequent calls keep
// returning EOF.
func (s *Scanner) Scan() token.Token {
	start := s.off

	switch cur := s.cur; {
	case cur == -1:
		return token.Token{Kind: token.EOF, Offset: start}

	case cur == '!':
		return s.label(start)

	case isCommand(cur):
		s.advance()
		return token.Token{Kind: token.COMMAND, Literal: string(cur), Offset: start}

	case isSpace(cur):
		return s.whitespace(start)

	case cur == '#':
		return s.comment(start)

	default:
		s.error(start, fmt.Sprintf("illegal character %q", cur))
		s.advance()
		return token.Token{Kind: token.ILLEGAL, Literal: string(cur), Offset: start}
	}
}

// label scans "!" command+ "!". The opening '!' is s.cur on entry.
func (s *Scanner) label(start int) token.Token {
	var sb strings.Builder
	s.advance() // consume opening '!'
	for isCommand(s.cur) {
		sb.WriteRune(s.cur)
		s.advance()
	}
	if sb.Len() == 0 {
		s.error(start, "empty label")
		return token.Token{Kind: token.ILLEGAL, Literal: "!", Offset: start}
	}
	if s.cur != '!' {
		s.error(start, "unterminated label")
		return token.Token{Kind: token.ILLEGAL, Literal: "!" + sb.String(), Offset: start}
	}
	s.advance() // consume closing '!'
	return token.Token{Kind: token.LABEL, Literal: sb.String(), Offset: start}
}

func (s *Scanner) whitespace(start int) token.Token {
	for isSpace(s.cur) {
		s.advance()
	}
	return token.Token{Kind: token.WHITESPACE, Literal: string(s.src[start:s.off]), Offset: start}
}

func (s *Scanner) comment(start int) token.Token {
	for s.cur != '\n' && s.cur != -1 {
		s.advance()
	}
	if s.cur == '\n' {
		s.advance() // consume the newline, it is part of the comment token
	}
	return token.Token{Kind: token.COMMENT, Literal: string(s.src[start:s.off]), Offset: start}
}

func isCommand(r rune) bool {
	return r < utf8.RuneSelf && strings.ContainsRune(Alphabet, r)
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r'
}
