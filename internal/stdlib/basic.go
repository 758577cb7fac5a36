package stdlib

import (
	"fmt"

	"github.com/quest-lang/quest/internal/qerror"
	"github.com/quest-lang/quest/internal/value"
)

// installBasic wires the conversions and identity/equality operators every
// concrete type inherits unless it overrides them (spec.md §6.3's Basic
// row). Number/Text/Boolean/List/Null override `@bool`/`@text` (and
// Number/Text/Boolean/Null also `==`) with type-specific behavior; Basic's versions are the fallback a bare
// user-defined object (one whose only parent is Basic) gets for free.
func installBasic(rt *Runtime) {
	b := rt.Basic

	method(b, "itself", func(frame *value.Object, args value.Args) (value.Value, error) {
		return args.This()
	})

	method(b, "@bool", func(frame *value.Object, args value.Args) (value.Value, error) {
		return value.True, nil
	})

	method(b, "@text", func(frame *value.Object, args value.Args) (value.Value, error) {
		this, _ := args.This()
		return value.NewObject(rt.Eval.NewTextObject(fmt.Sprintf("<%s>", this.Typename()))), nil
	})

	method(b, "clone", func(frame *value.Object, args value.Args) (value.Value, error) {
		this, err := args.This()
		if err != nil {
			return value.Value{}, qerror.Argumentf("clone requires this")
		}
		return this.DeepClone(), nil
	})

	method(b, "hash", func(frame *value.Object, args value.Args) (value.Value, error) {
		this, err := args.This()
		if err != nil {
			return value.Value{}, qerror.Argumentf("hash requires this")
		}
		return value.NewInt(this.ID()), nil
	})

	method(b, "==", func(frame *value.Object, args value.Args) (value.Value, error) {
		this, err := args.This()
		if err != nil {
			return value.Value{}, qerror.Argumentf("== requires this")
		}
		other, err := args.Arg(0)
		if err != nil {
			return value.Value{}, qerror.Argumentf("== requires an argument")
		}
		return value.NewBoolean(this.IsIdentical(other)), nil
	})

	method(b, "!=", func(frame *value.Object, args value.Args) (value.Value, error) {
		eq, err := rt.Eval.CallAttr(mustThis(args), eqLit, []value.Value{mustArg(args, 0)})
		if err != nil {
			return value.Value{}, err
		}
		bo, _ := eq.AsBool()
		return value.NewBoolean(!bo), nil
	})

	method(b, "!", func(frame *value.Object, args value.Args) (value.Value, error) {
		this, err := args.This()
		if err != nil {
			return value.Value{}, qerror.Argumentf("! requires this")
		}
		truth, err := rt.Eval.CallAttr(this, atBoolLit, nil)
		if err != nil {
			return value.Value{}, err
		}
		b, _ := truth.AsBool()
		return value.NewBoolean(!b), nil
	})
}
