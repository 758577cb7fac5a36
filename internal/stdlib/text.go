package stdlib

import (
	"strconv"
	"strings"

	"github.com/quest-lang/quest/internal/intern"
	"github.com/quest-lang/quest/internal/qerror"
	"github.com/quest-lang/quest/internal/value"
)

// textContent reads the Go string backing a Text object, or errors if v
// isn't one.
func textContent(v value.Value) (string, error) {
	obj, ok := v.AsObject()
	if !ok {
		return "", qerror.Typef("expected a Text, got %s", v.Typename())
	}
	td, ok := obj.Data().(*value.TextData)
	if !ok {
		return "", qerror.Typef("expected a Text, got %s", v.Typename())
	}
	return td.S, nil
}

// installText wires the Text row of spec.md §6.3: conversions, concatenation,
// indexing and the small set of search/split helpers.
func installText(rt *Runtime) {
	t := rt.Text

	method(t, "@text", func(frame *value.Object, args value.Args) (value.Value, error) {
		return args.This()
	})

	method(t, "@bool", func(frame *value.Object, args value.Args) (value.Value, error) {
		s, err := textContent(mustThis(args))
		if err != nil {
			return value.Value{}, err
		}
		return value.NewBoolean(s != ""), nil
	})

	method(t, "@num", func(frame *value.Object, args value.Args) (value.Value, error) {
		s, err := textContent(mustThis(args))
		if err != nil {
			return value.Value{}, err
		}
		if i, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64); err == nil {
			return value.NewInt(i), nil
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return value.Value{}, qerror.Valuef("cannot parse %q as a Number", s)
		}
		return value.NewFloat(f), nil
	})

	method(t, "@list", func(frame *value.Object, args value.Args) (value.Value, error) {
		s, err := textContent(mustThis(args))
		if err != nil {
			return value.Value{}, err
		}
		items := make([]value.Value, 0, len(s))
		for _, r := range s {
			items = append(items, value.NewObject(rt.Eval.NewTextObject(string(r))))
		}
		return value.NewObject(rt.Eval.NewListObject(items)), nil
	})

	method(t, "clone", func(frame *value.Object, args value.Args) (value.Value, error) {
		s, err := textContent(mustThis(args))
		if err != nil {
			return value.Value{}, err
		}
		return value.NewObject(rt.Eval.NewTextObject(s)), nil
	})

	method(t, "()", func(frame *value.Object, args value.Args) (value.Value, error) {
		return args.This()
	})

	// "=" on a Text value writes rhs into frame (the caller's current
	// binding) under the attribute name the Text's own content names —
	// spec.md:260's "`=` on a Text-variable LHS writes into the current
	// binding: binding.set_attr(name, rhs)", mirroring the original
	// source's Text::assign (args.binding().set_attr_possibly_parents(this,
	// rhs)). This is not Text mutating its own backing string.
	method(t, "=", func(frame *value.Object, args value.Args) (value.Value, error) {
		this, err := args.This()
		if err != nil {
			return value.Value{}, qerror.Argumentf("= requires this")
		}
		name, err := textContent(this)
		if err != nil {
			return value.Value{}, err
		}
		rhs, err := args.Arg(0)
		if err != nil {
			return value.Value{}, qerror.Argumentf("= requires a value")
		}
		if err := frame.SetAttrPossiblyParents(value.NewLiteral(intern.Intern(name)), rhs); err != nil {
			return value.Value{}, qerror.Typef("%v", err)
		}
		return rhs, nil
	})

	method(t, "==", func(frame *value.Object, args value.Args) (value.Value, error) {
		a, err := textContent(mustThis(args))
		if err != nil {
			return value.Value{}, err
		}
		other, err := args.Arg(0)
		if err != nil {
			return value.NewBoolean(false), nil
		}
		b, err := textContent(other)
		if err != nil {
			return value.NewBoolean(false), nil
		}
		return value.NewBoolean(a == b), nil
	})

	method(t, "+", func(frame *value.Object, args value.Args) (value.Value, error) {
		a, err := textContent(mustThis(args))
		if err != nil {
			return value.Value{}, err
		}
		b, err := textContent(mustArg(args, 0))
		if err != nil {
			return value.Value{}, err
		}
		return value.NewObject(rt.Eval.NewTextObject(a + b)), nil
	})

	method(t, "+=", func(frame *value.Object, args value.Args) (value.Value, error) {
		this, err := args.This()
		if err != nil {
			return value.Value{}, qerror.Argumentf("+= requires this")
		}
		a, err := textContent(this)
		if err != nil {
			return value.Value{}, err
		}
		b, err := textContent(mustArg(args, 0))
		if err != nil {
			return value.Value{}, err
		}
		obj, _ := this.AsObject()
		obj.SetData(&value.TextData{S: a + b})
		return this, nil
	})

	method(t, "len", func(frame *value.Object, args value.Args) (value.Value, error) {
		s, err := textContent(mustThis(args))
		if err != nil {
			return value.Value{}, err
		}
		return value.NewInt(int64(len([]rune(s)))), nil
	})

	method(t, "get", textIndex(rt))
	method(t, "[]", textIndex(rt))

	method(t, "[]=", func(frame *value.Object, args value.Args) (value.Value, error) {
		this, err := args.This()
		if err != nil {
			return value.Value{}, qerror.Argumentf("[]= requires this")
		}
		s, err := textContent(this)
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
		repl, err := textContent(mustArg(args, 1))
		if err != nil {
			return value.Value{}, err
		}
		runes := []rune(s)
		i, ok := normalizeIndex(idx, len(runes))
		if !ok {
			return value.Value{}, qerror.Valuef("index %d out of range", idx)
		}
		out := string(runes[:i]) + repl + string(runes[i+1:])
		obj, _ := this.AsObject()
		obj.SetData(&value.TextData{S: out})
		return this, nil
	})

	method(t, "index_of", func(frame *value.Object, args value.Args) (value.Value, error) {
		s, err := textContent(mustThis(args))
		if err != nil {
			return value.Value{}, err
		}
		needle, err := textContent(mustArg(args, 0))
		if err != nil {
			return value.Value{}, err
		}
		idx := strings.Index(s, needle)
		if idx < 0 {
			return value.NewInt(-1), nil
		}
		return value.NewInt(int64(len([]rune(s[:idx])))), nil
	})

	method(t, "split", func(frame *value.Object, args value.Args) (value.Value, error) {
		s, err := textContent(mustThis(args))
		if err != nil {
			return value.Value{}, err
		}
		sep, err := textContent(mustArg(args, 0))
		if err != nil {
			return value.Value{}, err
		}
		var parts []string
		if sep == "" {
			for _, r := range s {
				parts = append(parts, string(r))
			}
		} else {
			parts = strings.Split(s, sep)
		}
		items := make([]value.Value, len(parts))
		for i, p := range parts {
			items[i] = value.NewObject(rt.Eval.NewTextObject(p))
		}
		return value.NewObject(rt.Eval.NewListObject(items)), nil
	})

	method(t, "reverse", func(frame *value.Object, args value.Args) (value.Value, error) {
		s, err := textContent(mustThis(args))
		if err != nil {
			return value.Value{}, err
		}
		runes := []rune(s)
		for i, j := 0, len(runes)-1; i < j; i, j = i+1, j-1 {
			runes[i], runes[j] = runes[j], runes[i]
		}
		return value.NewObject(rt.Eval.NewTextObject(string(runes))), nil
	})
}

func textIndex(rt *Runtime) value.BuiltinFunc {
	return func(frame *value.Object, args value.Args) (value.Value, error) {
		s, err := textContent(mustThis(args))
		if err != nil {
			return value.Value{}, err
		}
		idxV, err := args.Arg(0)
		if err != nil {
			return value.Value{}, qerror.Argumentf("index requires an Integer")
		}
		idx, ok := idxV.AsInt()
		if !ok {
			return value.Value{}, qerror.Typef("index must be an Integer")
		}
		runes := []rune(s)
		i, ok := normalizeIndex(idx, len(runes))
		if !ok {
			return value.Value{}, qerror.Valuef("index %d out of range", idx)
		}
		return value.NewObject(rt.Eval.NewTextObject(string(runes[i]))), nil
	}
}

// normalizeIndex resolves a (possibly negative, Python-style) index against
// a length, reporting whether it lands in range.
func normalizeIndex(idx int64, length int) (int, bool) {
	i := int(idx)
	if i < 0 {
		i += length
	}
	if i < 0 || i >= length {
		return 0, false
	}
	return i, true
}
