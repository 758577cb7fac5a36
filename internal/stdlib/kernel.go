package stdlib

import (
	"bufio"
	"fmt"
	"math/rand"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/quest-lang/quest/internal/parser"
	"github.com/quest-lang/quest/internal/qerror"
	"github.com/quest-lang/quest/internal/value"
)

// truthy calls @bool on v and reports the result, the one coercion every
// control-flow builtin below needs before branching.
func truthy(rt *Runtime, v value.Value) (bool, error) {
	b, err := rt.Eval.CallAttr(v, atBoolLit, nil)
	if err != nil {
		return false, err
	}
	bo, ok := b.AsBool()
	if !ok {
		return false, qerror.Typef("@bool did not return a Boolean")
	}
	return bo, nil
}

// invokeBlock calls a Block (or any callable) with no further arguments,
// the shape `if`/`while`/`loop` use for their condition/body operands. This
// goes through Invoke (direct invocation of an already-known-callable value),
// not CallAttr's named-attribute lookup: a bare `{}` Block literal has no
// parents, so it carries no `()` attribute for CallAttr to find.
func invokeBlock(rt *Runtime, block value.Value) (value.Value, error) {
	return rt.Eval.Invoke(block, nil)
}

// installKernel wires spec.md §6.3's Kernel row: the control-flow
// primitives (implemented as ordinary RustFns taking Block arguments, never
// special-cased by the evaluator — spec.md's explicit requirement), I/O,
// and the class references top-level code resolves by walking up to Kernel.
// `for` is deliberately absent: spec.md documents it as present only as an
// unimplemented stub in the original source, so it is left out entirely
// rather than wired to a panic.
func installKernel(rt *Runtime) {
	k := rt.Kernel

	constant(k, "true", value.True)
	constant(k, "false", value.False)
	constant(k, "null", value.Null)

	constant(k, "Pristine", value.NewObject(rt.Pristine))
	constant(k, "Basic", value.NewObject(rt.Basic))
	constant(k, "Boolean", value.NewObject(rt.Boolean))
	constant(k, "Number", value.NewObject(rt.Number))
	constant(k, "Text", value.NewObject(rt.Text))
	constant(k, "Null", value.NewObject(rt.NullObj))
	constant(k, "List", value.NewObject(rt.List))
	constant(k, "Kernel", value.NewObject(rt.Kernel))

	method(k, "if", func(frame *value.Object, args value.Args) (value.Value, error) {
		cond, err := args.Arg(0)
		if err != nil {
			return value.Value{}, qerror.Argumentf("if requires a condition")
		}
		ok, err := truthy(rt, cond)
		if err != nil {
			return value.Value{}, err
		}
		if ok {
			then, err := args.Arg(1)
			if err != nil {
				return value.Value{}, qerror.Argumentf("if requires a then-block")
			}
			return invokeBlock(rt, then)
		}
		els, err := args.Arg(2)
		if err != nil {
			return value.Null, nil
		}
		return invokeBlock(rt, els)
	})

	method(k, "while", func(frame *value.Object, args value.Args) (value.Value, error) {
		cond, err := args.Arg(0)
		if err != nil {
			return value.Value{}, qerror.Argumentf("while requires a condition")
		}
		body, err := args.Arg(1)
		if err != nil {
			return value.Value{}, qerror.Argumentf("while requires a body")
		}
		for {
			cv, err := invokeBlock(rt, cond)
			if err != nil {
				return value.Value{}, err
			}
			ok, err := truthy(rt, cv)
			if err != nil {
				return value.Value{}, err
			}
			if !ok {
				break
			}
			if _, err := invokeBlock(rt, body); err != nil {
				return value.Value{}, err
			}
		}
		return value.Null, nil
	})

	method(k, "loop", func(frame *value.Object, args value.Args) (value.Value, error) {
		body, err := args.Arg(0)
		if err != nil {
			return value.Value{}, qerror.Argumentf("loop requires a body")
		}
		for {
			if _, err := invokeBlock(rt, body); err != nil {
				return value.Value{}, err
			}
		}
	})

	method(k, "return", func(frame *value.Object, args value.Args) (value.Value, error) {
		target, err := args.Arg(0)
		if err != nil {
			return value.Value{}, qerror.Argumentf("return requires a target frame")
		}
		v, err := args.Arg(1)
		if err != nil {
			v = value.Null
		}
		return value.Value{}, qerror.NewReturn(target, v)
	})

	method(k, "assert", func(frame *value.Object, args value.Args) (value.Value, error) {
		cond, err := args.Arg(0)
		if err != nil {
			return value.Value{}, qerror.Argumentf("assert requires a condition")
		}
		ok, err := truthy(rt, cond)
		if err != nil {
			return value.Value{}, err
		}
		if !ok {
			msg := "assertion failed"
			if m, err := args.Arg(1); err == nil {
				if s, err := textContent(m); err == nil {
					msg = s
				}
			}
			return value.Value{}, qerror.AssertionFailed(msg)
		}
		return value.Null, nil
	})

	method(k, "disp", dispFn(rt, "\n"))
	method(k, "dispn", dispFn(rt, ""))

	method(k, "quit", func(frame *value.Object, args value.Args) (value.Value, error) {
		code := 0
		if n, err := args.Arg(0); err == nil {
			if i, ok := n.AsInt(); ok {
				code = int(i)
			}
		}
		if m, err := args.Arg(1); err == nil {
			if s, err := textContent(m); err == nil {
				fmt.Fprintln(os.Stderr, s)
			}
		}
		os.Exit(code)
		return value.Null, nil
	})

	method(k, "system", func(frame *value.Object, args value.Args) (value.Value, error) {
		cmdline, err := textContent(mustArg(args, 0))
		if err != nil {
			return value.Value{}, err
		}
		out, runErr := exec.Command("sh", "-c", cmdline).CombinedOutput()
		if runErr != nil {
			if _, ok := runErr.(*exec.ExitError); !ok {
				return value.Value{}, qerror.Valuef("system: %v", runErr)
			}
		}
		return value.NewObject(rt.Eval.NewTextObject(string(out))), nil
	})

	method(k, "rand", func(frame *value.Object, args value.Args) (value.Value, error) {
		if n, err := args.Arg(0); err == nil {
			if i, ok := n.AsInt(); ok && i > 0 {
				return value.NewInt(rand.Int63n(i)), nil
			}
		}
		return value.NewFloat(rand.Float64()), nil
	})

	method(k, "prompt", func(frame *value.Object, args value.Args) (value.Value, error) {
		if m, err := args.Arg(0); err == nil {
			if s, err := textContent(m); err == nil {
				fmt.Print(s)
			}
		}
		reader := bufio.NewReader(os.Stdin)
		line, _ := reader.ReadString('\n')
		line = strings.TrimRight(line, "\r\n")
		return value.NewObject(rt.Eval.NewTextObject(line)), nil
	})

	method(k, "sleep", func(frame *value.Object, args value.Args) (value.Value, error) {
		secs, _, err := numeric(mustArg(args, 0))
		if err != nil {
			return value.Value{}, err
		}
		time.Sleep(time.Duration(secs * float64(time.Second)))
		return value.Null, nil
	})

	method(k, "open", func(frame *value.Object, args value.Args) (value.Value, error) {
		path, err := textContent(mustArg(args, 0))
		if err != nil {
			return value.Value{}, err
		}
		src, readErr := os.ReadFile(path)
		if readErr != nil {
			return value.Value{}, qerror.Valuef("open: %v", readErr)
		}
		p, err := parser.New(path, string(src))
		if err != nil {
			return value.Value{}, qerror.Valuef("open: %v", err)
		}
		program, err := p.ParseProgram()
		if err != nil {
			return value.Value{}, qerror.Valuef("open: %v", err)
		}
		return rt.Eval.Run(program)
	})

	method(k, "spawn", func(frame *value.Object, args value.Args) (value.Value, error) {
		body, err := args.Arg(0)
		if err != nil {
			return value.Value{}, qerror.Argumentf("spawn requires a block")
		}
		child := rt.Eval.Fork()
		childRt := &Runtime{
			Eval: child, Pristine: rt.Pristine, Basic: rt.Basic, Boolean: rt.Boolean,
			Number: rt.Number, Text: rt.Text, NullObj: rt.NullObj, List: rt.List,
			Kernel: rt.Kernel, threads: rt.threads,
		}
		rt.threads.Go(func() error {
			_, err := invokeBlock(childRt, body)
			return err
		})
		return value.Null, nil
	})
}

func dispFn(rt *Runtime, suffix string) value.BuiltinFunc {
	return func(frame *value.Object, args value.Args) (value.Value, error) {
		n := args.Len()
		parts := make([]string, n)
		for i := 0; i < n; i++ {
			v, _ := args.Arg(i)
			text, err := rt.Eval.CallAttr(v, atTextLit, nil)
			if err != nil {
				return value.Value{}, err
			}
			s, err := textContent(text)
			if err != nil {
				return value.Value{}, err
			}
			parts[i] = s
		}
		fmt.Print(strings.Join(parts, " ") + suffix)
		return value.Null, nil
	}
}
