package interp

import (
	"github.com/quest-lang/quest/internal/ast"
	"github.com/quest-lang/quest/internal/intern"
	"github.com/quest-lang/quest/internal/qerror"
	"github.com/quest-lang/quest/internal/value"
)

// CallAttr implements spec.md §4.5's calling convention in full: look up
// name on self (walking self's class chain for an immediate), then invoke
// whatever was found with self prepended as `this`.
//
// This generalizes the spec's three separate invocation rules (BoundFunction
// unwraps to owner+target; RustFn "invoke[s] directly"; anything else gets
// wrapped in a BoundFunction first) into one uniform prepend-then-invoke
// rule — RustFn methods need access to their receiver exactly as much as
// Block methods do (Number.+ has to read the Number it was called on), so
// treating "invoke directly" as "invoke with the same this-prepend
// convention" is the simplification recorded as an Open Question decision
// in DESIGN.md, not a deviation in observable behavior.
func (e *Evaluator) CallAttr(self value.Value, name intern.Literal, args []value.Value) (value.Value, error) {
	found, err := e.lookupRaw(self, name)
	if err != nil {
		return value.Value{}, err
	}
	fullArgs := make([]value.Value, 0, len(args)+1)
	fullArgs = append(fullArgs, self)
	fullArgs = append(fullArgs, args...)
	return e.invokeRaw(found, fullArgs)
}

// invoke is CallExpr's entry point: fnVal has already been evaluated (e.g.
// a bare Variable's raw RustFn/Block, or a dotted access's BoundFunction),
// so it is invoked directly when it is already one of the recognized
// callable shapes; only a non-callable fnVal falls back to looking up its
// own `()` attribute (e.g. calling a boxed Number the way Number's `()`
// required-attribute describes, per spec.md §6.3's class table).
//
// A BoundFunction's owner becomes `this` explicitly here, rather than
// letting invokeRaw's generic BoundFunction-unwrap logic run on args that
// were never this-prepended in the first place: evalVariable/evalDotted
// both wrap every callable they resolve in a BoundFunction (spec.md's
// dotted-access rule, generalized to bare names too — see evalVariable's
// doc comment), so this is the common case, not an edge case, and getting
// it wrong here silently drops a method call's first real argument.
func (e *Evaluator) invoke(fnVal value.Value, args []value.Value) (value.Value, error) {
	if obj, ok := fnVal.AsObject(); ok {
		if bd, ok := obj.Data().(*value.BoundFunctionData); ok {
			fullArgs := make([]value.Value, 0, len(args)+1)
			fullArgs = append(fullArgs, bd.Owner)
			fullArgs = append(fullArgs, args...)
			return e.invokeRaw(bd.Target, fullArgs)
		}
	}
	if isCallableData(fnVal) {
		// Not a BoundFunction: a raw RustFn/Block/BuiltinFn reached here
		// without ever being resolved through Variable/dotted access (e.g.
		// the direct result of a prior call). It still needs a `this` slot
		// at index 0 so Args' this/non-this split lines up; Null stands in
		// for "no receiver".
		fullArgs := make([]value.Value, 0, len(args)+1)
		fullArgs = append(fullArgs, value.Null)
		fullArgs = append(fullArgs, args...)
		return e.invokeRaw(fnVal, fullArgs)
	}
	return e.CallAttr(fnVal, intern.CallParen, args)
}

// invokeRaw dispatches fullArgs (this already included at index 0, if any)
// to target, unwrapping BoundFunction by substituting its own owner for
// whatever this was previously prepended.
func (e *Evaluator) invokeRaw(target value.Value, fullArgs []value.Value) (value.Value, error) {
	if target.Kind() == value.KindBuiltinFn {
		return target.CallBuiltinFn(e.stack.Top(), value.NewArgs(fullArgs))
	}
	obj, ok := target.AsObject()
	if !ok {
		return value.Value{}, qerror.Typef("value of type %s is not callable", target.Typename())
	}
	switch d := obj.Data().(type) {
	case *value.RustFnData:
		return d.Fn(e.stack.Top(), value.NewArgs(fullArgs))
	case *value.BlockData:
		return e.callBlock(obj, d, fullArgs)
	case *value.BoundFunctionData:
		replaced := make([]value.Value, 0, len(fullArgs))
		replaced = append(replaced, d.Owner)
		if len(fullArgs) > 0 {
			replaced = append(replaced, fullArgs[1:]...)
		}
		return e.invokeRaw(d.Target, replaced)
	default:
		return value.Value{}, qerror.Typef("value of type %s is not callable", obj.TypeName())
	}
}

// callBlock runs a Block's body in a freshly pushed stackframe, binding
// fullArgs positionally (spec.md §4.5: "'()' invocation on a Block creates
// a fresh stackframe... binds _0..."). A Return control signal targeting
// exactly this call's own frame is caught here and becomes the call's
// result, implementing spec.md §4.10/S5's non-local return.
func (e *Evaluator) callBlock(blockObj *value.Object, bd *value.BlockData, fullArgs []value.Value) (value.Value, error) {
	lit, ok := bd.Expr.(*ast.BlockLit)
	if !ok {
		return value.Value{}, qerror.Typef("internal: block body is not an ast.BlockLit")
	}
	caller := e.stack.Top()
	child := newBindingObj(bd.Captured, caller)

	// invoke()'s no-BoundFunctionData branch prepends value.Null as a
	// placeholder `this` for a bare call with no explicit receiver (that
	// path never prepends a real Null value some other way, so the
	// sentinel is unambiguous). Binding __this__ to that placeholder would
	// leave the object-literal-construction idiom ($X = { "k" = v;
	// __this__ }(), spec.md S2/S3) reading back Null instead of the
	// object it just built. __this__ for a bare call instead resolves to
	// the call's own freshly pushed frame, matching the original source's
	// Text::call special case ("__this__" => Binding::instance(), the
	// *current* binding rather than a stored receiver) — recorded as an
	// Open Question decision in DESIGN.md.
	if len(fullArgs) > 0 && fullArgs[0].IsNull() {
		fullArgs = append([]value.Value{value.NewObject(child)}, fullArgs[1:]...)
	}
	bindArgs(child, value.NewArgs(fullArgs), e.newList)

	e.stack.Push(child)
	defer e.stack.Pop()

	result, err := e.evalLines(lit.Lines, false)
	if err != nil {
		if ret, ok := qerror.AsReturn(err); ok {
			if target, ok := ret.Target.AsObject(); ok && target.IsIdentical(child) {
				return ret.Value, nil
			}
		}
		return value.Value{}, err
	}
	return result, nil
}

// Invoke exposes invoke to stdlib, which needs to call an already-evaluated
// Block/RustFn value directly (e.g. `if`/`while`/`loop`'s Block arguments)
// rather than through a named-attribute lookup — a bare `{}` Block literal
// has no parents and so carries no `()` attribute CallAttr could find.
func (e *Evaluator) Invoke(fnVal value.Value, args []value.Value) (value.Value, error) {
	return e.invoke(fnVal, args)
}

// ResolveAttr and BindCallable expose lookupRaw/bindCallable to stdlib,
// which needs the non-invoking dotted-access resolution (not CallAttr's
// eager invoke) to implement Pristine's explicit `.`/`::` RustFns.
func (e *Evaluator) ResolveAttr(self value.Value, name intern.Literal) (value.Value, error) {
	return e.lookupRaw(self, name)
}

func (e *Evaluator) BindCallable(owner, found value.Value) value.Value {
	return bindCallable(owner, found)
}

// lookupRaw finds name on self: GetAttr on self's own Object, or on the
// class registered for self's immediate kind.
func (e *Evaluator) lookupRaw(self value.Value, name intern.Literal) (value.Value, error) {
	var obj *value.Object
	if o, ok := self.AsObject(); ok {
		obj = o
	} else {
		obj = e.classFor(self.Kind())
		if obj == nil {
			return value.Value{}, qerror.Typef("type %s has no attributes", self.Typename())
		}
	}
	found, err := obj.GetAttr(value.NewLiteral(name), e.newList)
	if err != nil {
		switch err.(type) {
		case *value.MissingAttrError:
			return value.Value{}, qerror.FromAttrError(err)
		case *value.CycleError:
			return value.Value{}, qerror.Valuef("%v", err)
		default:
			return value.Value{}, err
		}
	}
	return found, nil
}

// bindCallable mirrors spec.md §4.4's dotted-access wrap: a callable found
// value is wrapped as BoundFunction{owner, target} so the eventual call
// carries owner as `this`; anything else passes through unchanged.
func bindCallable(owner, found value.Value) value.Value {
	if !isCallableData(found) {
		return found
	}
	bf := value.NewObjectWith(&value.BoundFunctionData{Owner: owner, Target: found})
	return value.NewObject(bf)
}

// isCallableData reports whether v is one of the shapes invoke/invokeRaw
// know how to call directly: a BuiltinFn immediate, or an Object wrapping
// RustFnData/BlockData/BoundFunctionData.
func isCallableData(v value.Value) bool {
	if v.Kind() == value.KindBuiltinFn {
		return true
	}
	obj, ok := v.AsObject()
	if !ok {
		return false
	}
	switch obj.Data().(type) {
	case *value.RustFnData, *value.BlockData, *value.BoundFunctionData:
		return true
	default:
		return false
	}
}
