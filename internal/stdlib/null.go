package stdlib

import "github.com/quest-lang/quest/internal/value"

// installNull wires Null's row of spec.md §6.3: Null is always falsy,
// converts to the empty List and to the Text "null", and "parses" as 0.
func installNull(rt *Runtime) {
	nu := rt.NullObj

	method(nu, "@bool", func(frame *value.Object, args value.Args) (value.Value, error) {
		return value.False, nil
	})

	method(nu, "@list", func(frame *value.Object, args value.Args) (value.Value, error) {
		return value.NewObject(rt.Eval.NewListObject(nil)), nil
	})

	method(nu, "@num", func(frame *value.Object, args value.Args) (value.Value, error) {
		return value.NewInt(0), nil
	})

	method(nu, "@text", func(frame *value.Object, args value.Args) (value.Value, error) {
		return value.NewObject(rt.Eval.NewTextObject("null")), nil
	})

	method(nu, "clone", func(frame *value.Object, args value.Args) (value.Value, error) {
		return args.This()
	})

	method(nu, "()", func(frame *value.Object, args value.Args) (value.Value, error) {
		return args.This()
	})

	method(nu, "==", func(frame *value.Object, args value.Args) (value.Value, error) {
		other, err := args.Arg(0)
		if err != nil {
			return value.NewBoolean(false), nil
		}
		return value.NewBoolean(other.IsNull()), nil
	})
}
