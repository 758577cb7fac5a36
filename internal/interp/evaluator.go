// Package interp is quest's tree-walking evaluator: it runs the parser's
// *ast.BlockLit directly rather than compiling to the teacher's bytecode
// (pkg/bytecode/pkg/compiler/pkg/vm), since spec.md's object model resolves
// every operation through attribute lookup at call time — there is no fixed
// instruction set to compile down to. The per-thread call stack (Binding),
// calling convention (CallAttr) and non-local-return handling below are
// this package's analogue of the teacher's vm.VM.Run loop.
package interp

import (
	"github.com/quest-lang/quest/internal/ast"
	"github.com/quest-lang/quest/internal/intern"
	"github.com/quest-lang/quest/internal/qerror"
	"github.com/quest-lang/quest/internal/value"
)

// ClassFor resolves the class object backing an immediate value's kind
// (Boolean/Integer/Float/Literal/BuiltinFn), so attribute lookup on an
// immediate has somewhere to walk. Supplied by the stdlib package at
// bootstrap time — interp cannot import stdlib (stdlib needs interp's
// CallAttr to run Kernel's control-flow builtins), so this is the same
// seam-by-callback value.SetEqualityHook uses to avoid the same cycle.
type ClassFor func(k value.Kind) *value.Object

// Evaluator is quest's tree-walking runtime: one BindingStack (the current
// thread's call stack, spec.md §5) plus the object-construction hooks the
// object model needs but cannot reach without importing interp/stdlib.
type Evaluator struct {
	stack      *BindingStack
	classFor   ClassFor
	newList    func([]value.Value) *value.Object
	newText    func(string) *value.Object
	rootParent *value.Object
}

// New constructs an Evaluator with a fresh bottom stackframe parented on
// rootParent (the Kernel object, so top-level code resolves globals).
func New(classFor ClassFor, newList func([]value.Value) *value.Object, newText func(string) *value.Object, rootParent *value.Object) *Evaluator {
	return &Evaluator{
		stack:      NewBindingStack(rootParent),
		classFor:   classFor,
		newList:    newList,
		newText:    newText,
		rootParent: rootParent,
	}
}

// Fork returns a new Evaluator sharing this one's class registry and
// constructors but with its own BindingStack, for the `spawn` builtin
// (spec.md §5: "per-thread Binding stack").
func (e *Evaluator) Fork() *Evaluator {
	return New(e.classFor, e.newList, e.newText, e.rootParent)
}

// Stack exposes the call stack for library code (e.g. `return`'s `:depth`
// resolution, stack-trace capture on uncaught errors).
func (e *Evaluator) Stack() *BindingStack { return e.stack }

// NewListObject builds a List object via the constructor the evaluator was
// configured with, for library code that needs to hand values back as a
// quest List (e.g. `args()`, `split`).
func (e *Evaluator) NewListObject(items []value.Value) *value.Object { return e.newList(items) }

// NewTextObject builds a Text object.
func (e *Evaluator) NewTextObject(s string) *value.Object { return e.newText(s) }

// Run evaluates program (the whole source file, an implicit `()` block) in
// the bottom stackframe, returning its final line's value.
func (e *Evaluator) Run(program *ast.BlockLit) (value.Value, error) {
	return e.evalLines(program.Lines, false)
}

// Eval dispatches on node's concrete type, implementing spec.md §4.9's
// per-node evaluation rules.
func (e *Evaluator) Eval(node ast.Expr) (value.Value, error) {
	switch n := node.(type) {
	case *ast.NumberLit:
		if n.IsFloat {
			return value.NewFloat(n.FloatVal), nil
		}
		return value.NewInt(n.IntVal), nil

	case *ast.TextLit:
		return value.NewObject(e.newText(n.Value)), nil

	case *ast.RegexLit:
		// Regex literals behind a Text-shaped Object carrying the body as
		// TextData and the flags as a Literal in its parents list. stdlib
		// installs no Regex class, so the value has no regex-specific
		// attributes.
		obj := value.NewObjectWith(&value.TextData{S: n.Body}, value.NewLiteral(intern.Intern(n.Flags)))
		return value.NewObject(obj), nil

	case *ast.Variable:
		return e.evalVariable(n)

	case *ast.StackPosLit:
		target, ok := e.stack.PeekAt(int(n.Depth))
		if !ok {
			return value.Value{}, qerror.Valuef("no frame at stack depth %d", n.Depth)
		}
		return value.NewObject(target), nil

	case *ast.PrefixExpr:
		operand, err := e.Eval(n.X)
		if err != nil {
			return value.Value{}, err
		}
		return e.CallAttr(operand, intern.Intern(n.Op), nil)

	case *ast.InfixExpr:
		return e.evalInfix(n)

	case *ast.DotAssignExpr:
		return e.evalDotAssign(n)

	case *ast.CallExpr:
		fnVal, err := e.Eval(n.Fn)
		if err != nil {
			return value.Value{}, err
		}
		args, err := e.evalArgsBlock(n.Arg)
		if err != nil {
			return value.Value{}, err
		}
		return e.invoke(fnVal, args)

	case *ast.IndexExpr:
		recv, err := e.Eval(n.Recv)
		if err != nil {
			return value.Value{}, err
		}
		args, err := e.evalArgsBlock(n.Arg)
		if err != nil {
			return value.Value{}, err
		}
		return e.CallAttr(recv, intern.Index, args)

	case *ast.BlockLit:
		return e.evalBlockLit(n)

	default:
		return value.Value{}, qerror.Typef("internal: unhandled AST node %T", node)
	}
}

// evalVariable resolves a bare name against the current binding. It wraps
// a callable result the same way dotted access does (bindCallable) rather
// than invoking it — spec.md's literal "call_attr(lit(v), [])" phrasing for
// Variable nodes would otherwise auto-invoke zero-arg callables merely by
// referencing their name, which breaks referencing call-taking builtins
// like `while`/`if` as a call's own callee. Aligning Variable with dotted
// access's non-invoking wrap (decided here; recorded in DESIGN.md) resolves
// that without changing behavior for data-valued variables, since
// bindCallable only wraps when the found value is actually callable.
func (e *Evaluator) evalVariable(n *ast.Variable) (value.Value, error) {
	top := e.stack.Top()
	lit := intern.Intern(n.Name)
	found, err := top.GetAttr(value.NewLiteral(lit), e.newList)
	if err != nil {
		if _, ok := err.(*value.MissingAttrError); ok {
			return value.Value{}, qerror.FromAttrError(err)
		}
		return value.Value{}, err
	}
	return bindCallable(value.NewObject(top), found), nil
}

// assignOps is the set of operators combineInfix's dot-assignment rewrite
// doesn't already handle: plain `=` plus every compound `op=` form.
var assignOps = map[string]bool{
	"=": true, "+=": true, "-=": true, "*=": true, "/=": true, "%=": true,
	"**=": true, "<<=": true, ">>=": true, "&=": true, "|=": true, "^=": true,
}

func (e *Evaluator) evalInfix(n *ast.InfixExpr) (value.Value, error) {
	switch n.Op {
	case ".", "::":
		return e.evalDotted(n)
	}
	if assignOps[n.Op] {
		return e.evalAssign(n)
	}
	left, err := e.Eval(n.Left)
	if err != nil {
		return value.Value{}, err
	}
	right, err := e.Eval(n.Right)
	if err != nil {
		return value.Value{}, err
	}
	return e.CallAttr(left, intern.Intern(n.Op), []value.Value{right})
}

// evalDotted implements spec.md §4.4's dotted-access special rule: look up
// name on recv, then wrap a callable result in a BoundFunction so the
// eventual call carries recv as `this` (this is what gives methods their
// binding, e.g. S3's `o.get()` seeing `__this__.x`).
func (e *Evaluator) evalDotted(n *ast.InfixExpr) (value.Value, error) {
	recv, err := e.Eval(n.Left)
	if err != nil {
		return value.Value{}, err
	}
	name, err := e.attrNameOf(n.Right)
	if err != nil {
		return value.Value{}, err
	}
	found, err := e.lookupRaw(recv, name)
	if err != nil {
		return value.Value{}, err
	}
	return bindCallable(recv, found), nil
}

// attrNameOf reads a literal attribute name off a `.`/`::` right operand or
// a `.=` name slot, which the parser only ever produces as a bare
// Variable or a quoted Text literal.
func (e *Evaluator) attrNameOf(node ast.Expr) (intern.Literal, error) {
	switch n := node.(type) {
	case *ast.Variable:
		return intern.Intern(n.Name), nil
	case *ast.TextLit:
		return intern.Intern(n.Value), nil
	default:
		return intern.NoLiteral, qerror.Typef("invalid attribute name expression %T", node)
	}
}

// evalAssign handles plain `=` and every `op=` compound form, which
// desugars to `x = x op y` with x's location evaluated exactly once
// (spec.md §4.9). `a.b = c` is rewritten by the parser into DotAssignExpr
// before this ever runs, so the only valid targets left are a bare Variable
// or a Text-valued literal (`"name"` or the `$name` sigil) — both name an
// attribute on the current binding the same way (attrNameOf handles both
// uniformly), matching spec.md:260's "`=` on a Text-variable LHS writes
// into the current binding". The write goes through
// SetAttrPossiblyParents, not a plain self-only SetAttr: a Block body's
// binding is parented on the lexical scope it closed over, and mutating an
// outer variable (the `while`/`loop` idiom spec.md §4.10 is built around)
// needs to reach that outer binding rather than always shadowing it in the
// callee's own throwaway per-call frame.
func (e *Evaluator) evalAssign(n *ast.InfixExpr) (value.Value, error) {
	lit, err := e.attrNameOf(n.Left)
	if err != nil {
		return value.Value{}, qerror.Typef("invalid assignment target %T", n.Left)
	}
	rhs, err := e.Eval(n.Right)
	if err != nil {
		return value.Value{}, err
	}
	top := e.stack.Top()

	if n.Op == "=" {
		if err := top.SetAttrPossiblyParents(value.NewLiteral(lit), rhs); err != nil {
			return value.Value{}, qerror.Typef("%v", err)
		}
		return rhs, nil
	}

	baseOp := n.Op[:len(n.Op)-1] // "+=" -> "+", "**=" -> "**"
	cur, err := top.GetAttr(value.NewLiteral(lit), e.newList)
	if err != nil {
		if _, ok := err.(*value.MissingAttrError); ok {
			return value.Value{}, qerror.FromAttrError(err)
		}
		return value.Value{}, err
	}
	next, err := e.CallAttr(cur, intern.Intern(baseOp), []value.Value{rhs})
	if err != nil {
		return value.Value{}, err
	}
	if err := top.SetAttrPossiblyParents(value.NewLiteral(lit), next); err != nil {
		return value.Value{}, qerror.Typef("%v", err)
	}
	return next, nil
}

// evalDotAssign implements the rewritten `a.b = c` ternary call, per
// spec.md §4.8: `a.call_attr(".=", [b, c])`.
func (e *Evaluator) evalDotAssign(n *ast.DotAssignExpr) (value.Value, error) {
	recv, err := e.Eval(n.Recv)
	if err != nil {
		return value.Value{}, err
	}
	name, err := e.attrNameOf(n.Name)
	if err != nil {
		return value.Value{}, err
	}
	rhs, err := e.Eval(n.RHS)
	if err != nil {
		return value.Value{}, err
	}
	nameVal := value.NewObject(e.newText(intern.Repr(name)))
	return e.CallAttr(recv, intern.Intern(".="), []value.Value{nameVal, rhs})
}

// evalArgsBlock flattens a call's argument block into a plain argument
// list: every line's comma-separated expressions, in order, across every
// line the block contains (the common case is a single line).
func (e *Evaluator) evalArgsBlock(block *ast.BlockLit) ([]value.Value, error) {
	var args []value.Value
	for _, line := range block.Lines {
		for _, expr := range line.Exprs {
			v, err := e.Eval(expr)
			if err != nil {
				return nil, err
			}
			args = append(args, v)
		}
	}
	return args, nil
}

// evalBlockLit evaluates a block literal by its bracket kind (spec.md
// §4.8/§4.9): `{}` builds a first-class Block value without running its
// body; `()`/`[]` run the body in place in the current binding (no new
// frame — that only happens when a `{}`-built Block value is later
// called), with `[]` coercing the final line's result into a List.
func (e *Evaluator) evalBlockLit(n *ast.BlockLit) (value.Value, error) {
	if n.Kind == '{' {
		bd := &value.BlockData{Expr: n, Captured: e.stack.Top()}
		return value.NewObject(value.NewObjectWith(bd)), nil
	}
	return e.evalLines(n.Lines, n.Kind == '[')
}

func (e *Evaluator) evalLines(lines []ast.Line, coerceFinalToList bool) (value.Value, error) {
	if len(lines) == 0 {
		if coerceFinalToList {
			return value.NewObject(e.newList(nil)), nil
		}
		return value.Null, nil
	}
	var result value.Value
	for i, ln := range lines {
		v, err := e.evalLine(ln)
		if err != nil {
			return value.Value{}, err
		}
		if i == len(lines)-1 {
			result = v
		}
	}
	if coerceFinalToList {
		if obj, ok := result.AsObject(); ok {
			if _, isList := obj.Data().(*value.ListData); isList {
				return result, nil
			}
		}
		return value.NewObject(e.newList([]value.Value{result})), nil
	}
	return result, nil
}

func (e *Evaluator) evalLine(ln ast.Line) (value.Value, error) {
	if len(ln.Exprs) == 1 {
		return e.Eval(ln.Exprs[0])
	}
	vals := make([]value.Value, 0, len(ln.Exprs))
	for _, x := range ln.Exprs {
		v, err := e.Eval(x)
		if err != nil {
			return value.Value{}, err
		}
		vals = append(vals, v)
	}
	return value.NewObject(e.newList(vals)), nil
}
