// Package token defines the lexical tokens of the SHREK language and the
// position bookkeeping used to report diagnostics against source text.
package token

// Kind identifies the category of a Token.
type Kind int8

//nolint:revive
const (
	ILLEGAL Kind = iota
	EOF

	WHITESPACE // run of space, tab, CR or LF
	COMMAND    // single letter from the command alphabet
	LABEL      // !name!
	COMMENT    // # to end of line
)

func (k Kind) String() string { return kindNames[k] }

var kindNames = [...]string{
	ILLEGAL:    "illegal token",
	EOF:        "end of file",
	WHITESPACE: "whitespace",
	COMMAND:    "command",
	LABEL:      "label",
	COMMENT:    "comment",
}

// Token is a single lexical token: its kind, the literal source substring
// it was scanned from, and the byte offset at which it began.
type Token struct {
	Kind    Kind
	Literal string
	Offset  int
}
