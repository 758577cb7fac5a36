package stdlib

import (
	"strings"

	"github.com/quest-lang/quest/internal/qerror"
	"github.com/quest-lang/quest/internal/value"
)

// listData reaches into the *ListData payload backing v, for reads and
// in-place mutation alike (the returned pointer's Items field IS the
// object's live state).
func listData(v value.Value) (*value.ListData, error) {
	obj, ok := v.AsObject()
	if !ok {
		return nil, qerror.Typef("expected a List, got %s", v.Typename())
	}
	ld, ok := obj.Data().(*value.ListData)
	if !ok {
		return nil, qerror.Typef("expected a List, got %s", v.Typename())
	}
	return ld, nil
}

// installList wires the List row of spec.md §6.3: conversions, indexing,
// the stack/queue helpers (push/pop/shift/unshift) and the set-like
// operators (&, |, ^, -) that compare elements with user-level `==`.
func installList(rt *Runtime) {
	l := rt.List

	method(l, "@text", func(frame *value.Object, args value.Args) (value.Value, error) {
		ld, err := listData(mustThis(args))
		if err != nil {
			return value.Value{}, err
		}
		parts := make([]string, len(ld.Items))
		for i, item := range ld.Items {
			s, err := rt.Eval.CallAttr(item, atTextLit, nil)
			if err != nil {
				return value.Value{}, err
			}
			parts[i], err = textContent(s)
			if err != nil {
				return value.Value{}, err
			}
		}
		return value.NewObject(rt.Eval.NewTextObject("[" + strings.Join(parts, ", ") + "]")), nil
	})

	method(l, "@bool", func(frame *value.Object, args value.Args) (value.Value, error) {
		ld, err := listData(mustThis(args))
		if err != nil {
			return value.Value{}, err
		}
		return value.NewBoolean(len(ld.Items) > 0), nil
	})

	method(l, "@list", func(frame *value.Object, args value.Args) (value.Value, error) {
		return args.This()
	})

	method(l, "@map", func(frame *value.Object, args value.Args) (value.Value, error) {
		return args.This()
	})

	method(l, "clone", func(frame *value.Object, args value.Args) (value.Value, error) {
		this, err := args.This()
		if err != nil {
			return value.Value{}, qerror.Argumentf("clone requires this")
		}
		return this.DeepClone(), nil
	})

	method(l, "len", func(frame *value.Object, args value.Args) (value.Value, error) {
		ld, err := listData(mustThis(args))
		if err != nil {
			return value.Value{}, err
		}
		return value.NewInt(int64(len(ld.Items))), nil
	})

	method(l, "[]", func(frame *value.Object, args value.Args) (value.Value, error) {
		ld, err := listData(mustThis(args))
		if err != nil {
			return value.Value{}, err
		}
		idxV, err := args.Arg(0)
		if err != nil {
			return value.Value{}, qerror.Argumentf("[] requires an index")
		}
		idx, ok := idxV.AsInt()
		if !ok {
			return value.Value{}, qerror.Typef("[] index must be an Integer")
		}
		i, ok := normalizeIndex(idx, len(ld.Items))
		if !ok {
			return value.Value{}, qerror.Valuef("index %d out of range", idx)
		}
		return ld.Items[i], nil
	})

	method(l, "[]=", func(frame *value.Object, args value.Args) (value.Value, error) {
		ld, err := listData(mustThis(args))
		if err != nil {
			return value.Value{}, err
		}
		idxV, err := args.Arg(0)
		if err != nil {
			return value.Value{}, qerror.Argumentf("[]= requires an index")
		}
		idx, ok := idxV.AsInt()
		if !ok {
			return value.Value{}, qerror.Typef("[]= index must be an Integer")
		}
		v, err := args.Arg(1)
		if err != nil {
			return value.Value{}, qerror.Argumentf("[]= requires a value")
		}
		i, ok := normalizeIndex(idx, len(ld.Items))
		if !ok {
			return value.Value{}, qerror.Valuef("index %d out of range", idx)
		}
		ld.Items[i] = v
		return v, nil
	})

	method(l, "join", func(frame *value.Object, args value.Args) (value.Value, error) {
		ld, err := listData(mustThis(args))
		if err != nil {
			return value.Value{}, err
		}
		sep, err := textContent(mustArg(args, 0))
		if err != nil {
			return value.Value{}, err
		}
		parts := make([]string, len(ld.Items))
		for i, item := range ld.Items {
			s, err := rt.Eval.CallAttr(item, atTextLit, nil)
			if err != nil {
				return value.Value{}, err
			}
			parts[i], err = textContent(s)
			if err != nil {
				return value.Value{}, err
			}
		}
		return value.NewObject(rt.Eval.NewTextObject(strings.Join(parts, sep))), nil
	})

	method(l, "push", func(frame *value.Object, args value.Args) (value.Value, error) {
		this, err := args.This()
		if err != nil {
			return value.Value{}, qerror.Argumentf("push requires this")
		}
		ld, err := listData(this)
		if err != nil {
			return value.Value{}, err
		}
		v, err := args.Arg(0)
		if err != nil {
			return value.Value{}, qerror.Argumentf("push requires a value")
		}
		ld.Items = append(ld.Items, v)
		return this, nil
	})

	method(l, "pop", func(frame *value.Object, args value.Args) (value.Value, error) {
		ld, err := listData(mustThis(args))
		if err != nil {
			return value.Value{}, err
		}
		if len(ld.Items) == 0 {
			return value.Value{}, qerror.Valuef("pop from empty List")
		}
		last := ld.Items[len(ld.Items)-1]
		ld.Items = ld.Items[:len(ld.Items)-1]
		return last, nil
	})

	method(l, "shift", func(frame *value.Object, args value.Args) (value.Value, error) {
		ld, err := listData(mustThis(args))
		if err != nil {
			return value.Value{}, err
		}
		if len(ld.Items) == 0 {
			return value.Value{}, qerror.Valuef("shift from empty List")
		}
		first := ld.Items[0]
		ld.Items = ld.Items[1:]
		return first, nil
	})

	method(l, "unshift", func(frame *value.Object, args value.Args) (value.Value, error) {
		this, err := args.This()
		if err != nil {
			return value.Value{}, qerror.Argumentf("unshift requires this")
		}
		ld, err := listData(this)
		if err != nil {
			return value.Value{}, err
		}
		v, err := args.Arg(0)
		if err != nil {
			return value.Value{}, qerror.Argumentf("unshift requires a value")
		}
		ld.Items = append([]value.Value{v}, ld.Items...)
		return this, nil
	})

	method(l, "+", func(frame *value.Object, args value.Args) (value.Value, error) {
		a, err := listData(mustThis(args))
		if err != nil {
			return value.Value{}, err
		}
		b, err := listData(mustArg(args, 0))
		if err != nil {
			return value.Value{}, err
		}
		out := make([]value.Value, 0, len(a.Items)+len(b.Items))
		out = append(out, a.Items...)
		out = append(out, b.Items...)
		return value.NewObject(rt.Eval.NewListObject(out)), nil
	})

	method(l, "+=", func(frame *value.Object, args value.Args) (value.Value, error) {
		this, err := args.This()
		if err != nil {
			return value.Value{}, qerror.Argumentf("+= requires this")
		}
		a, err := listData(this)
		if err != nil {
			return value.Value{}, err
		}
		b, err := listData(mustArg(args, 0))
		if err != nil {
			return value.Value{}, err
		}
		a.Items = append(a.Items, b.Items...)
		return this, nil
	})

	method(l, "&", setOp(rt, func(inA, inB bool) bool { return inA && inB }))
	method(l, "|", setOp(rt, func(inA, inB bool) bool { return inA || inB }))
	method(l, "^", setOp(rt, func(inA, inB bool) bool { return inA != inB }))
	method(l, "-", setOp(rt, func(inA, inB bool) bool { return inA && !inB }))
}

// setOp builds a set-algebra RustFn (&, |, ^, -) over two Lists: each
// element of the union is kept when keep(memberOfA, memberOfB) holds,
// membership decided via user-level `==` (spec.md's Lists are unordered
// value bags for these operators, duplicates in the operands collapse).
func setOp(rt *Runtime, keep func(inA, inB bool) bool) value.BuiltinFunc {
	return func(frame *value.Object, args value.Args) (value.Value, error) {
		a, err := listData(mustThis(args))
		if err != nil {
			return value.Value{}, err
		}
		b, err := listData(mustArg(args, 0))
		if err != nil {
			return value.Value{}, err
		}
		var out []value.Value
		seen := func(items []value.Value, v value.Value) (bool, error) {
			for _, item := range items {
				eq, err := rt.Eval.EqualValues(item, v)
				if err != nil {
					return false, err
				}
				if eq {
					return true, nil
				}
			}
			return false, nil
		}
		add := func(v value.Value) error {
			already, err := seen(out, v)
			if err != nil {
				return err
			}
			if !already {
				out = append(out, v)
			}
			return nil
		}
		for _, v := range a.Items {
			inB, err := seen(b.Items, v)
			if err != nil {
				return value.Value{}, err
			}
			if keep(true, inB) {
				if err := add(v); err != nil {
					return value.Value{}, err
				}
			}
		}
		for _, v := range b.Items {
			inA, err := seen(a.Items, v)
			if err != nil {
				return value.Value{}, err
			}
			if keep(inA, true) && !inA {
				if err := add(v); err != nil {
					return value.Value{}, err
				}
			}
		}
		return value.NewObject(rt.Eval.NewListObject(out)), nil
	}
}
