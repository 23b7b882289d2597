// Package machine implements the stack virtual machine that executes
// byte-code produced by lang/compiler (spec.md §4.4), its built-in
// function catalogue (spec.md §4.6), and the extension registration
// surface native libraries use to add callables (spec.md §4.5/§6).
//
// The fetch-decode-dispatch loop is adapted from the teacher's
// lang/machine.run(): a program counter, a flat operand-stack slice whose
// length is the stack depth, and a big opcode switch, the same way
// lang/machine/machine.go switches on compiler.Opcode values. Unlike the
// teacher, there is no call-frame stack or local-variable space — spec.md's
// language has no functions beyond the flat byte-code sequence and the
// `func` opcode's built-in/extension dispatch — so all per-run mutable
// state lives directly on the Runtime (the "single runtime instance"
// Design Note calls for, replacing the teacher's per-call Thread/Frame
// pair with a single long-lived value).
package machine

import (
	"fmt"
	"io"

	"shrek/lang/compiler"
)

// MaxStackDepth is the default maximum operand stack depth, 1<<20 cells;
// it is a fixed count, not the largest value a cell can hold. Runtime
// normally takes its cap from Config.MaxStackDepth
// (internal/maincmd/config.go); this is the fallback when none is
// configured.
const MaxStackDepth = 1 << 20

// StepHook, if installed, is invoked before every instruction dispatch.
// It is the embedder hook spec.md §4.4 and §1 describe ("a step-hook is
// exposed for embedders"); it carries no debugger protocol, only
// visibility.
type StepHook func(rt *Runtime, pc int)

// RuntimeErrorHook, if installed, is invoked with a *RuntimeError before
// the interpreter aborts (spec.md §7: "If a runtime-error hook is
// installed, it is invoked before exit").
type RuntimeErrorHook func(err *RuntimeError)

// Runtime is the single, explicitly-constructed VM instance: its program
// counter, operand stack, jump table, function table and stash are all
// fields here rather than file-scope globals (Design Note "Global mutable
// state"). Extensions receive an opaque *Runtime handle and may only
// touch it through the methods in abi.go.
type Runtime struct {
	Stdout io.Writer
	Stderr io.Writer
	Stdin  io.Reader

	MaxStack int
	StepHook StepHook
	OnError  RuntimeErrorHook

	// ReservedThreshold is the function number below which an unresolved
	// `func` dispatch is reported as an unknown built-in rather than an
	// unregistered extension (spec.md §3, §4.6). Defaults to the package
	// constant ReservedThreshold; internal/maincmd.Config overrides it
	// from SHREK_RESERVED_THRESHOLD.
	ReservedThreshold uint32

	pc        int
	stack     []int64
	functions *FunctionTable
	stash     *Stash
	exception string
}

// NewRuntime constructs a Runtime with an empty stack, stash, and a
// function table pre-populated with the built-in catalogue (spec.md
// §4.6).
func NewRuntime() *Runtime {
	rt := &Runtime{
		MaxStack:          MaxStackDepth,
		ReservedThreshold: ReservedThreshold,
		functions:         NewFunctionTable(),
		stash:             NewStash(),
	}
	registerBuiltins(rt.functions)
	return rt
}

// Functions exposes the runtime's function table, for looking up or
// registering callables directly.
func (rt *Runtime) Functions() *FunctionTable { return rt.functions }

// RuntimeError is a runtime failure: stack underflow/overflow, division by
// zero, invalid jump type, unregistered function, or a built-in/extension
// call reporting failure (spec.md §7).
type RuntimeError struct {
	Msg string
}

func (e *RuntimeError) Error() string { return e.Msg }

func (rt *Runtime) fail(format string, args ...interface{}) *RuntimeError {
	return &RuntimeError{Msg: fmt.Sprintf(format, args...)}
}

// undefinedTarget is the jump-table sentinel (spec.md §3).
const undefinedTarget = compiler.Undefined

// Run drives the fetch-decode-dispatch loop to completion (spec.md §4.4)
// over prog's optimized instructions and jt, and returns the process exit
// code: the top of the operand stack if non-empty, else 0.
func (rt *Runtime) Run(prog *compiler.Program, jt compiler.JumpTable) (rc int, err error) {
	defer func() {
		if rerr, ok := err.(*RuntimeError); ok && rt.OnError != nil {
			rt.OnError(rerr)
		}
	}()

	if rt.MaxStack <= 0 {
		rt.MaxStack = MaxStackDepth
	}
	rt.stack = make([]int64, 0, 64)
	rt.pc = 0

	for rt.pc >= 0 && rt.pc < len(prog.Instructions) {
		if rt.StepHook != nil {
			rt.StepHook(rt, rt.pc)
		}

		ins := prog.Instructions[rt.pc]
		switch ins.Op {
		case compiler.NoOp, compiler.Label:
			rt.pc++

		case compiler.Push0:
			if err := rt.push(0); err != nil {
				return 0, err
			}
			rt.pc++

		case compiler.Pop:
			if _, err := rt.pop(); err != nil {
				return 0, err
			}
			rt.pc++

		case compiler.Bump:
			if len(rt.stack) == 0 {
				return 0, rt.fail("stack underflow: bump requires a non-empty stack")
			}
			rt.stack[len(rt.stack)-1]++
			rt.pc++

		case compiler.PushConst:
			if err := rt.push(ins.A); err != nil {
				return 0, err
			}
			rt.pc++

		case compiler.Func:
			if err := rt.dispatchFunc(); err != nil {
				return 0, err
			}
			rt.pc++

		case compiler.Jump:
			next, err := rt.dispatchJump(prog, jt, int(ins.A))
			if err != nil {
				return 0, err
			}
			rt.pc = next

		default:
			return 0, rt.fail("invalid operation: opcode %d at pc=%d", ins.Op, rt.pc)
		}
	}

	if len(rt.stack) > 0 {
		return int(rt.stack[len(rt.stack)-1]), nil
	}
	return 0, nil
}

func (rt *Runtime) dispatchFunc() error {
	n, err := rt.pop()
	if err != nil {
		return err
	}
	if n < 0 || n >= (1<<32) {
		return rt.fail("invalid function number %d", n)
	}
	fnNum := uint32(n)

	fn, ok := rt.functions.Lookup(fnNum)
	if !ok {
		if fnNum < rt.ReservedThreshold {
			return rt.fail("unknown built-in function %d", fnNum)
		}
		return rt.fail("function not registered: %d", fnNum)
	}
	return rt.call(fnNum, fn)
}

func (rt *Runtime) call(n uint32, fn FuncHandle) error {
	rt.exception = ""
	if rc := fn(rt); rc != 0 {
		msg := rt.exception
		if msg == "" {
			msg = "no additional information"
		}
		return rt.fail("function %d failed (code %d): %s", n, rc, msg)
	}
	return nil
}

func (rt *Runtime) dispatchJump(prog *compiler.Program, jt compiler.JumpTable, label int) (int, error) {
	t, err := rt.pop()
	if err != nil {
		return 0, err
	}

	switch t {
	case 0: // unconditional
		return rt.jumpTarget(prog, jt, label), nil

	case 1: // jump-if-zero
		cond, err := rt.peek()
		if err != nil {
			return 0, err
		}
		if cond == 0 {
			return rt.jumpTarget(prog, jt, label), nil
		}
		return rt.pc + 1, nil

	case 2: // jump-if-negative
		cond, err := rt.peek()
		if err != nil {
			return 0, err
		}
		if cond < 0 {
			return rt.jumpTarget(prog, jt, label), nil
		}
		return rt.pc + 1, nil

	default:
		return 0, rt.fail("invalid jump type %d", t)
	}
}

// jumpTarget resolves a label identifier through the jump table, returning
// the sentinel past-end index (which causes the run loop to terminate) for
// an undefined target, exactly as spec.md §4.4 describes.
func (rt *Runtime) jumpTarget(prog *compiler.Program, jt compiler.JumpTable, label int) int {
	if label < 0 || label >= len(jt) {
		return len(prog.Instructions)
	}
	target := jt[label]
	if target == undefinedTarget {
		return len(prog.Instructions)
	}
	return target
}
