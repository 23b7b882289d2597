package compiler

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"
)

// Disassemble renders prog as a human-readable pseudo-assembly listing,
// one instruction per line, in the same spirit as the teacher's
// lang/compiler/asm.go disassembler: used by the `shrek compile` command
// and by tests that want to assert on byte-code shape without comparing
// Instruction slices field by field.
func Disassemble(prog *Program) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "program: %s\n", prog.Name)
	for i, ins := range prog.Instructions {
		fmt.Fprintf(&sb, "%d: %s\n", i, ins)
	}
	return sb.String()
}

// Assemble parses the pseudo-assembly form produced by Disassemble back
// into a Program. It exists primarily so that unit tests (and the
// occasional hand-written fixture) can construct a Program without going
// through the scanner/parser/lowerer pipeline, mirroring the purpose the
// teacher's Asm function serves for its own VM tests.
func Assemble(src string) (*Program, error) {
	prog := &Program{}
	sc := bufio.NewScanner(strings.NewReader(src))
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		if name, ok := strings.CutPrefix(line, "program:"); ok {
			prog.Name = strings.TrimSpace(name)
			continue
		}

		// "<index>: <op> [<arg>]"
		rest := line
		if idx := strings.Index(rest, ":"); idx >= 0 {
			rest = rest[idx+1:]
		}
		fields := strings.Fields(rest)
		if len(fields) == 0 {
			return nil, fmt.Errorf("asm line %d: missing opcode", lineNo)
		}

		op, ok := reverseOpcode[fields[0]]
		if !ok {
			return nil, fmt.Errorf("asm line %d: unknown opcode %q", lineNo, fields[0])
		}

		var a int64
		if len(fields) > 1 {
			v, err := strconv.ParseInt(fields[1], 10, 64)
			if err != nil {
				return nil, fmt.Errorf("asm line %d: invalid immediate %q: %w", lineNo, fields[1], err)
			}
			a = v
		}
		prog.Instructions = append(prog.Instructions, Instruction{Op: op, A: a})
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return prog, nil
}

var reverseOpcode = func() map[string]OpCode {
	m := make(map[string]OpCode, len(opcodeNames))
	for op, name := range opcodeNames {
		if name != "" {
			m[name] = OpCode(op)
		}
	}
	return m
}()
