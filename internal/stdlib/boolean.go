package stdlib

import (
	"github.com/quest-lang/quest/internal/qerror"
	"github.com/quest-lang/quest/internal/value"
)

func asBool(v value.Value) (bool, error) {
	b, ok := v.AsBool()
	if !ok {
		return false, qerror.Typef("expected a Boolean, got %s", v.Typename())
	}
	return b, nil
}

// installBoolean overrides the conversions and bitwise/comparison
// operators spec.md's Boolean row lists; `clone`/`hash`/`!` are left to
// Basic since Boolean immediates have no heap state to deep-copy and
// negation is already generic over `@bool`.
func installBoolean(rt *Runtime) {
	c := rt.Boolean

	method(c, "@bool", func(frame *value.Object, args value.Args) (value.Value, error) {
		return mustThis(args), nil
	})

	method(c, "@num", func(frame *value.Object, args value.Args) (value.Value, error) {
		b, err := asBool(mustThis(args))
		if err != nil {
			return value.Value{}, err
		}
		if b {
			return value.NewInt(1), nil
		}
		return value.NewInt(0), nil
	})

	method(c, "@text", func(frame *value.Object, args value.Args) (value.Value, error) {
		b, err := asBool(mustThis(args))
		if err != nil {
			return value.Value{}, err
		}
		s := "false"
		if b {
			s = "true"
		}
		return value.NewObject(rt.Eval.NewTextObject(s)), nil
	})

	method(c, "==", func(frame *value.Object, args value.Args) (value.Value, error) {
		a, err := asBool(mustThis(args))
		if err != nil {
			return value.Value{}, err
		}
		other, err := args.Arg(0)
		if err != nil {
			return value.Value{}, qerror.Argumentf("== requires an argument")
		}
		b, ok := other.AsBool()
		return value.NewBoolean(ok && a == b), nil
	})

	method(c, "&", boolOp(func(a, b bool) bool { return a && b }))
	method(c, "|", boolOp(func(a, b bool) bool { return a || b }))
	method(c, "^", boolOp(func(a, b bool) bool { return a != b }))

	method(c, "<=>", func(frame *value.Object, args value.Args) (value.Value, error) {
		a, err := asBool(mustThis(args))
		if err != nil {
			return value.Value{}, err
		}
		other, err := args.Arg(0)
		if err != nil {
			return value.Value{}, qerror.Argumentf("<=> requires an argument")
		}
		b, err := asBool(other)
		if err != nil {
			return value.Value{}, err
		}
		switch {
		case a == b:
			return value.NewInt(0), nil
		case !a && b:
			return value.NewInt(-1), nil
		default:
			return value.NewInt(1), nil
		}
	})
}

func boolOp(f func(a, b bool) bool) value.BuiltinFunc {
	return func(frame *value.Object, args value.Args) (value.Value, error) {
		a, err := asBool(mustThis(args))
		if err != nil {
			return value.Value{}, err
		}
		other, err := args.Arg(0)
		if err != nil {
			return value.Value{}, qerror.Argumentf("requires an argument")
		}
		b, err := asBool(other)
		if err != nil {
			return value.Value{}, err
		}
		return value.NewBoolean(f(a, b)), nil
	}
}
