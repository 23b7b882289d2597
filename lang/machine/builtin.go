package machine

import (
	"bufio"
	"fmt"

	"shrek/lang/compiler"
)

// Built-in function numbers, spec.md §4.6's table. The arithmetic numbers
// intentionally reuse the compiler's Fn* constants so that the optimizer's
// constant folding (lang/compiler/optimize.go) and these implementations
// can never drift apart, satisfying spec.md §4.3's requirement that
// folding use "the identical arithmetic semantics as the VM's builtin".
const (
	BuiltinInput    = 0
	BuiltinOutput   = 1
	BuiltinAdd      = compiler.FnAdd
	BuiltinSubtract = compiler.FnSubtract
	BuiltinMultiply = compiler.FnMultiply
	BuiltinDivide   = compiler.FnDivide
	BuiltinMod      = compiler.FnMod
	BuiltinDouble   = compiler.FnDouble
	BuiltinNegate   = compiler.FnNegate
	BuiltinSquare   = compiler.FnSquare
	BuiltinClone    = 10
	BuiltinStashAdd = 11
	BuiltinStashGet = 12
	BuiltinStashDel = 13
)

// registerBuiltins populates t with the reserved built-in catalogue,
// function numbers 0-13 (spec.md §4.6).
func registerBuiltins(t *FunctionTable) {
	must := func(n uint32, fn FuncHandle) {
		if err := t.Register(n, fn); err != nil {
			panic(err) // programmer error: duplicate built-in number
		}
	}

	must(BuiltinInput, biInput)
	must(BuiltinOutput, biOutput)
	must(BuiltinAdd, biBinary(func(v0, v1 int64) int64 { return v1 + v0 }))
	must(BuiltinSubtract, biBinary(func(v0, v1 int64) int64 { return v1 - v0 }))
	must(BuiltinMultiply, biBinary(func(v0, v1 int64) int64 { return v1 * v0 }))
	must(BuiltinDivide, biDivide)
	must(BuiltinMod, biMod)
	must(BuiltinDouble, biUnary(func(v0 int64) int64 { return 2 * v0 }))
	must(BuiltinNegate, biUnary(func(v0 int64) int64 { return -v0 }))
	must(BuiltinSquare, biUnary(func(v0 int64) int64 { return v0 * v0 }))
	must(BuiltinClone, biClone)
	must(BuiltinStashAdd, biStashAdd)
	must(BuiltinStashGet, biStashGet)
	must(BuiltinStashDel, biStashDelete)
}

func fail(rt *Runtime, format string, args ...interface{}) int32 {
	rt.SetExceptionString(fmt.Sprintf(format, args...))
	return 1
}

// biInput reads one line from standard input and pushes its bytes in
// reverse followed by one 0 sentinel, so popping yields characters in
// forward order then an end-of-string marker (spec.md §4.6 #0).
func biInput(rt *Runtime) int32 {
	var stdin = rt.Stdin
	if stdin == nil {
		return fail(rt, "input: no standard input configured")
	}
	sc := bufio.NewScanner(stdin)
	var line string
	if sc.Scan() {
		line = sc.Text()
	} else if err := sc.Err(); err != nil {
		return fail(rt, "input: %s", err)
	}

	if err := rt.push(0); err != nil {
		return fail(rt, "input: %s", err)
	}
	for i := len(line) - 1; i >= 0; i-- {
		if err := rt.push(int64(line[i])); err != nil {
			return fail(rt, "input: %s", err)
		}
	}
	return 0
}

// biOutput peeks the top of the stack, prints it as decimal followed by a
// newline, and flushes (spec.md §4.6 #1; §9 records the "peek, decimal"
// decision for both Open Questions).
func biOutput(rt *Runtime) int32 {
	v, err := rt.peek()
	if err != nil {
		return fail(rt, "output: %s", err)
	}
	w := rt.Stdout
	if w == nil {
		return fail(rt, "output: no standard output configured")
	}
	if _, err := fmt.Fprintf(w, "%d\n", v); err != nil {
		return fail(rt, "output: %s", err)
	}
	if f, ok := w.(interface{ Flush() error }); ok {
		_ = f.Flush()
	}
	return 0
}

// biBinary builds a built-in for a two-operand arithmetic function: pops
// v0 then v1 (v0 was pushed last, i.e. it is on top), pushes op(v0, v1).
func biBinary(op func(v0, v1 int64) int64) FuncHandle {
	return func(rt *Runtime) int32 {
		v0, err := rt.pop()
		if err != nil {
			return fail(rt, "arithmetic: %s", err)
		}
		v1, err := rt.pop()
		if err != nil {
			return fail(rt, "arithmetic: %s", err)
		}
		if err := rt.push(op(v0, v1)); err != nil {
			return fail(rt, "arithmetic: %s", err)
		}
		return 0
	}
}

func biDivide(rt *Runtime) int32 {
	v0, err := rt.pop()
	if err != nil {
		return fail(rt, "divide: %s", err)
	}
	v1, err := rt.pop()
	if err != nil {
		return fail(rt, "divide: %s", err)
	}
	if v0 == 0 {
		return fail(rt, "divide: division by zero")
	}
	if err := rt.push(v1 / v0); err != nil {
		return fail(rt, "divide: %s", err)
	}
	return 0
}

func biMod(rt *Runtime) int32 {
	v0, err := rt.pop()
	if err != nil {
		return fail(rt, "mod: %s", err)
	}
	v1, err := rt.pop()
	if err != nil {
		return fail(rt, "mod: %s", err)
	}
	if v0 == 0 {
		return fail(rt, "mod: division by zero")
	}
	if err := rt.push(v1 % v0); err != nil {
		return fail(rt, "mod: %s", err)
	}
	return 0
}

func biUnary(op func(v0 int64) int64) FuncHandle {
	return func(rt *Runtime) int32 {
		v0, err := rt.pop()
		if err != nil {
			return fail(rt, "arithmetic: %s", err)
		}
		if err := rt.push(op(v0)); err != nil {
			return fail(rt, "arithmetic: %s", err)
		}
		return 0
	}
}

func biClone(rt *Runtime) int32 {
	v0, err := rt.peek()
	if err != nil {
		return fail(rt, "clone: %s", err)
	}
	if err := rt.push(v0); err != nil {
		return fail(rt, "clone: %s", err)
	}
	return 0
}

// biStashAdd sets stash[key] = value, leaving value on the stack (key is
// consumed): spec.md §4.6 #11.
func biStashAdd(rt *Runtime) int32 {
	key, err := rt.pop()
	if err != nil {
		return fail(rt, "stash_add: %s", err)
	}
	value, err := rt.peek()
	if err != nil {
		return fail(rt, "stash_add: %s", err)
	}
	rt.stash.Add(key, value)
	return 0
}

func biStashGet(rt *Runtime) int32 {
	key, err := rt.pop()
	if err != nil {
		return fail(rt, "stash_get: %s", err)
	}
	value, ok := rt.stash.Get(key)
	if !ok {
		return fail(rt, "stash_get: no value stashed for key %d", key)
	}
	if err := rt.push(value); err != nil {
		return fail(rt, "stash_get: %s", err)
	}
	return 0
}

func biStashDelete(rt *Runtime) int32 {
	key, err := rt.pop()
	if err != nil {
		return fail(rt, "stash_delete: %s", err)
	}
	if !rt.stash.Delete(key) {
		return fail(rt, "stash_delete: no value stashed for key %d", key)
	}
	return 0
}
