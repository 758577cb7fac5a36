package stdlib

import (
	"fmt"
	"math"
	"strconv"

	"github.com/quest-lang/quest/internal/qerror"
	"github.com/quest-lang/quest/internal/value"
)

// numeric reads v as a float64 plus whether it was an Integer (SmallInt),
// used throughout to decide whether an arithmetic result stays an Integer
// or promotes to Float.
func numeric(v value.Value) (f float64, isInt bool, err error) {
	if i, ok := v.AsInt(); ok {
		return float64(i), true, nil
	}
	if fl, ok := v.AsFloat(); ok {
		return fl, false, nil
	}
	return 0, false, qerror.Typef("expected a Number, got %s", v.Typename())
}

func numResult(f float64, isInt bool) value.Value {
	if isInt {
		return value.NewInt(int64(f))
	}
	return value.NewFloat(f)
}

func numArg(args value.Args, i int) (float64, bool, error) {
	v, err := args.Arg(i)
	if err != nil {
		return 0, false, qerror.Argumentf("missing numeric argument %d", i)
	}
	return numeric(v)
}

// arith builds a `+`/`-`/`*`/`%`-shaped RustFn: Integer arithmetic stays
// Integer unless either operand is a Float.
func arith(name string, intOp func(a, b int64) int64, floatOp func(a, b float64) float64) value.BuiltinFunc {
	return func(frame *value.Object, args value.Args) (value.Value, error) {
		a, aInt, err := numeric(mustThis(args))
		if err != nil {
			return value.Value{}, err
		}
		b, bInt, err := numArg(args, 0)
		if err != nil {
			return value.Value{}, err
		}
		if aInt && bInt && intOp != nil {
			return value.NewInt(intOp(int64(a), int64(b))), nil
		}
		return value.NewFloat(floatOp(a, b)), nil
	}
}

func intBitOp(name string, op func(a, b int64) int64) value.BuiltinFunc {
	return func(frame *value.Object, args value.Args) (value.Value, error) {
		a, aInt, err := numeric(mustThis(args))
		if err != nil {
			return value.Value{}, err
		}
		if !aInt {
			return value.Value{}, qerror.Typef("%s requires Integer operands", name)
		}
		b, bInt, err := numArg(args, 0)
		if err != nil {
			return value.Value{}, err
		}
		if !bInt {
			return value.Value{}, qerror.Typef("%s requires Integer operands", name)
		}
		return value.NewInt(op(int64(a), int64(b))), nil
	}
}

// installNumber wires the arithmetic, bitwise, comparison and rounding
// operators spec.md's Number row lists, plus the PI/E/NAN/INF constants.
func installNumber(rt *Runtime) {
	n := rt.Number

	constant(n, "PI", value.NewFloat(math.Pi))
	constant(n, "E", value.NewFloat(math.E))
	constant(n, "NAN", value.NewFloat(math.NaN()))
	constant(n, "INF", value.NewFloat(math.Inf(1)))

	method(n, "()", func(frame *value.Object, args value.Args) (value.Value, error) {
		return args.This()
	})

	method(n, "@bool", func(frame *value.Object, args value.Args) (value.Value, error) {
		f, _, err := numeric(mustThis(args))
		if err != nil {
			return value.Value{}, err
		}
		return value.NewBoolean(f != 0), nil
	})

	method(n, "@num", func(frame *value.Object, args value.Args) (value.Value, error) {
		return args.This()
	})

	method(n, "@text", func(frame *value.Object, args value.Args) (value.Value, error) {
		this := mustThis(args)
		var s string
		if i, ok := this.AsInt(); ok {
			s = strconv.FormatInt(i, 10)
		} else if f, ok := this.AsFloat(); ok {
			s = strconv.FormatFloat(f, 'g', -1, 64)
		} else {
			return value.Value{}, qerror.Typef("expected a Number, got %s", this.Typename())
		}
		return value.NewObject(rt.Eval.NewTextObject(s)), nil
	})

	method(n, "+", arith("+", func(a, b int64) int64 { return a + b }, func(a, b float64) float64 { return a + b }))
	method(n, "-", arith("-", func(a, b int64) int64 { return a - b }, func(a, b float64) float64 { return a - b }))
	method(n, "*", arith("*", func(a, b int64) int64 { return a * b }, func(a, b float64) float64 { return a * b }))
	method(n, "%", arith("%", func(a, b int64) int64 { return a % b }, math.Mod))

	method(n, "/", func(frame *value.Object, args value.Args) (value.Value, error) {
		a, _, err := numeric(mustThis(args))
		if err != nil {
			return value.Value{}, err
		}
		b, _, err := numArg(args, 0)
		if err != nil {
			return value.Value{}, err
		}
		if b == 0 {
			return value.Value{}, qerror.Valuef("division by zero")
		}
		return value.NewFloat(a / b), nil
	})

	method(n, "**", func(frame *value.Object, args value.Args) (value.Value, error) {
		a, _, err := numeric(mustThis(args))
		if err != nil {
			return value.Value{}, err
		}
		b, _, err := numArg(args, 0)
		if err != nil {
			return value.Value{}, err
		}
		return value.NewFloat(math.Pow(a, b)), nil
	})

	method(n, "&", intBitOp("&", func(a, b int64) int64 { return a & b }))
	method(n, "|", intBitOp("|", func(a, b int64) int64 { return a | b }))
	method(n, "^", intBitOp("^", func(a, b int64) int64 { return a ^ b }))
	method(n, "<<", intBitOp("<<", func(a, b int64) int64 { return a << uint(b) }))
	method(n, ">>", intBitOp(">>", func(a, b int64) int64 { return a >> uint(b) }))

	method(n, "~", func(frame *value.Object, args value.Args) (value.Value, error) {
		a, aInt, err := numeric(mustThis(args))
		if err != nil {
			return value.Value{}, err
		}
		if !aInt {
			return value.Value{}, qerror.Typef("~ requires an Integer operand")
		}
		return value.NewInt(^int64(a)), nil
	})

	method(n, "-@", func(frame *value.Object, args value.Args) (value.Value, error) {
		a, aInt, err := numeric(mustThis(args))
		if err != nil {
			return value.Value{}, err
		}
		return numResult(-a, aInt), nil
	})

	method(n, "+@", func(frame *value.Object, args value.Args) (value.Value, error) {
		return args.This()
	})

	method(n, "==", func(frame *value.Object, args value.Args) (value.Value, error) {
		a, _, err := numeric(mustThis(args))
		if err != nil {
			return value.Value{}, err
		}
		other, err := args.Arg(0)
		if err != nil {
			return value.NewBoolean(false), nil
		}
		b, _, err := numeric(other)
		if err != nil {
			return value.NewBoolean(false), nil
		}
		return value.NewBoolean(a == b), nil
	})

	method(n, "<=>", func(frame *value.Object, args value.Args) (value.Value, error) {
		a, _, err := numeric(mustThis(args))
		if err != nil {
			return value.Value{}, err
		}
		b, _, err := numArg(args, 0)
		if err != nil {
			return value.Value{}, err
		}
		switch {
		case a < b:
			return value.NewInt(-1), nil
		case a > b:
			return value.NewInt(1), nil
		default:
			return value.NewInt(0), nil
		}
	})

	method(n, "<", numCompare(func(a, b float64) bool { return a < b }))

	method(n, "abs", func(frame *value.Object, args value.Args) (value.Value, error) {
		a, aInt, err := numeric(mustThis(args))
		if err != nil {
			return value.Value{}, err
		}
		return numResult(math.Abs(a), aInt), nil
	})

	method(n, "round", roundLike(math.Round))
	method(n, "ceil", roundLike(math.Ceil))
	method(n, "floor", roundLike(math.Floor))

	method(n, "sqrt", func(frame *value.Object, args value.Args) (value.Value, error) {
		a, _, err := numeric(mustThis(args))
		if err != nil {
			return value.Value{}, err
		}
		if a < 0 {
			return value.Value{}, qerror.Valuef("sqrt of negative number %s", fmt.Sprint(a))
		}
		return value.NewFloat(math.Sqrt(a)), nil
	})
}

func numCompare(f func(a, b float64) bool) value.BuiltinFunc {
	return func(frame *value.Object, args value.Args) (value.Value, error) {
		a, _, err := numeric(mustThis(args))
		if err != nil {
			return value.Value{}, err
		}
		b, _, err := numArg(args, 0)
		if err != nil {
			return value.Value{}, err
		}
		return value.NewBoolean(f(a, b)), nil
	}
}

func roundLike(f func(float64) float64) value.BuiltinFunc {
	return func(frame *value.Object, args value.Args) (value.Value, error) {
		a, aInt, err := numeric(mustThis(args))
		if err != nil {
			return value.Value{}, err
		}
		if aInt {
			return value.NewInt(int64(a)), nil
		}
		return value.NewInt(int64(f(a))), nil
	}
}
