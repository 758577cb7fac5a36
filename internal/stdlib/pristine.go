package stdlib

import (
	"github.com/quest-lang/quest/internal/qerror"
	"github.com/quest-lang/quest/internal/value"
)

// installPristine wires the reflective attribute-map primitives every
// object inherits regardless of its data payload (spec.md §6.3's Pristine
// row). `.`/`::` are ordinarily handled as dedicated evaluator node types
// (they need to return a bound-but-uninvoked BoundFunction, which needs
// access to Evaluator internals a plain (frame, Args) RustFn signature
// can't express) — they're still installed here so `__keys__` lists them
// and so `this.call_attr(".", [name])` works as an explicit equivalent to
// `this.name`.
func installPristine(rt *Runtime) {
	p := rt.Pristine
	eval := rt.Eval

	method(p, "__keys__", func(frame *value.Object, args value.Args) (value.Value, error) {
		this, err := args.This()
		if err != nil {
			return value.Value{}, qerror.Argumentf("__keys__ requires this")
		}
		obj, ok := this.AsObject()
		if !ok {
			return value.NewObject(eval.NewListObject(nil)), nil
		}
		return value.NewObject(eval.NewListObject(obj.Keys())), nil
	})

	method(p, "__get_attr__", func(frame *value.Object, args value.Args) (value.Value, error) {
		this, err := args.This()
		if err != nil {
			return value.Value{}, qerror.Argumentf("__get_attr__ requires this")
		}
		name, err := args.Arg(0)
		if err != nil {
			return value.Value{}, qerror.Argumentf("__get_attr__ requires a name")
		}
		obj, ok := this.AsObject()
		if !ok {
			return value.Value{}, qerror.Typef("%s has no attributes", this.Typename())
		}
		v, err := obj.GetAttr(name, eval.NewListObject)
		if err != nil {
			return value.Value{}, qerror.FromAttrError(err)
		}
		return v, nil
	})

	method(p, "__set_attr__", func(frame *value.Object, args value.Args) (value.Value, error) {
		this, err := args.This()
		if err != nil {
			return value.Value{}, qerror.Argumentf("__set_attr__ requires this")
		}
		name, err := args.Arg(0)
		if err != nil {
			return value.Value{}, qerror.Argumentf("__set_attr__ requires a name")
		}
		v, err := args.Arg(1)
		if err != nil {
			return value.Value{}, qerror.Argumentf("__set_attr__ requires a value")
		}
		obj, ok := this.AsObject()
		if !ok {
			return value.Value{}, qerror.Typef("%s has no attributes", this.Typename())
		}
		if err := obj.SetAttr(name, v); err != nil {
			return value.Value{}, qerror.Typef("%v", err)
		}
		return v, nil
	})

	method(p, ".=", func(frame *value.Object, args value.Args) (value.Value, error) {
		this, err := args.This()
		if err != nil {
			return value.Value{}, qerror.Argumentf(".= requires this")
		}
		name, err := args.Arg(0)
		if err != nil {
			return value.Value{}, qerror.Argumentf(".= requires a name")
		}
		v, err := args.Arg(1)
		if err != nil {
			return value.Value{}, qerror.Argumentf(".= requires a value")
		}
		obj, ok := this.AsObject()
		if !ok {
			return value.Value{}, qerror.Typef("%s has no attributes", this.Typename())
		}
		if err := obj.SetAttr(name, v); err != nil {
			return value.Value{}, qerror.Typef("%v", err)
		}
		return v, nil
	})

	method(p, "__has_attr__", func(frame *value.Object, args value.Args) (value.Value, error) {
		this, err := args.This()
		if err != nil {
			return value.Value{}, qerror.Argumentf("__has_attr__ requires this")
		}
		name, err := args.Arg(0)
		if err != nil {
			return value.Value{}, qerror.Argumentf("__has_attr__ requires a name")
		}
		obj, ok := this.AsObject()
		if !ok {
			return value.NewBoolean(false), nil
		}
		return value.NewBoolean(obj.HasAttr(name, eval.NewListObject)), nil
	})

	method(p, "__del_attr__", func(frame *value.Object, args value.Args) (value.Value, error) {
		this, err := args.This()
		if err != nil {
			return value.Value{}, qerror.Argumentf("__del_attr__ requires this")
		}
		name, err := args.Arg(0)
		if err != nil {
			return value.Value{}, qerror.Argumentf("__del_attr__ requires a name")
		}
		obj, ok := this.AsObject()
		if !ok {
			return value.Value{}, qerror.Typef("%s has no attributes", this.Typename())
		}
		v, err := obj.DelAttr(name)
		if err != nil {
			return value.Value{}, qerror.FromAttrError(err)
		}
		return v, nil
	})

	method(p, "__call_attr__", func(frame *value.Object, args value.Args) (value.Value, error) {
		this, err := args.This()
		if err != nil {
			return value.Value{}, qerror.Argumentf("__call_attr__ requires this")
		}
		name, err := args.Arg(0)
		if err != nil {
			return value.Value{}, qerror.Argumentf("__call_attr__ requires a name")
		}
		lit, ok := name.AsLiteral()
		if !ok {
			return value.Value{}, qerror.Typef("__call_attr__ name must be a Literal")
		}
		rest, err := args.Slice(1, args.Len())
		if err != nil {
			return value.Value{}, err
		}
		return eval.CallAttr(this, lit, rest.List())
	})

	dotted := func(frame *value.Object, args value.Args) (value.Value, error) {
		this, err := args.This()
		if err != nil {
			return value.Value{}, qerror.Argumentf(". requires this")
		}
		name, err := args.Arg(0)
		if err != nil {
			return value.Value{}, qerror.Argumentf(". requires a name")
		}
		lit, ok := name.AsLiteral()
		if !ok {
			return value.Value{}, qerror.Typef(". name must be a Literal")
		}
		found, err := eval.ResolveAttr(this, lit)
		if err != nil {
			return value.Value{}, err
		}
		return eval.BindCallable(this, found), nil
	}
	method(p, ".", dotted)
	method(p, "::", dotted)
}
