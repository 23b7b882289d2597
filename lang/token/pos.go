package token

import "sort"

// Position is a human-readable 1-based line and column, derived from a byte
// offset via a File's line-start table.
type Position struct {
	Offset int
	Line   int
	Column int
}

func (p Position) String() string {
	if p.Line == 0 {
		return "-"
	}
	return itoa(p.Line) + ":" + itoa(p.Column)
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	var buf [20]byte
	i := len(buf)
	neg := n < 0
	if neg {
		n = -n
	}
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

// File tracks the offsets at which each line of a single source file begins,
// so that a byte offset produced by the scanner can be turned into a
// Position for diagnostics. It plays the same role as the teacher's
// token.File/FileSet pair, collapsed to a single file since this runtime
// only ever compiles one source file per invocation (spec.md has no notion
// of multi-file programs).
type File struct {
	Name  string
	Size  int
	lines []int // byte offset of the start of each line; lines[0] == 0
}

// NewFile creates a File for the given name and size, with the first line
// starting at offset 0.
func NewFile(name string, size int) *File {
	return &File{Name: name, Size: size, lines: []int{0}}
}

// AddLine records that a new line begins at the given offset. Offsets must
// be added in increasing order.
func (f *File) AddLine(offset int) {
	if n := len(f.lines); n == 0 || f.lines[n-1] < offset {
		f.lines = append(f.lines, offset)
	}
}

// Position returns the line:column Position for the given byte offset.
func (f *File) Position(offset int) Position {
	i := sort.Search(len(f.lines), func(i int) bool { return f.lines[i] > offset }) - 1
	if i < 0 {
		i = 0
	}
	return Position{Offset: offset, Line: i + 1, Column: offset - f.lines[i] + 1}
}
