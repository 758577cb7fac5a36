package value

import "github.com/quest-lang/quest/internal/intern"

// Data is the typed payload an Object carries (spec.md §3.2). Concrete
// payload types below cover the standard-library shapes spec.md lists;
// `Text`/`Number`/`Regex`/`Tcp`/`File`/`Iter` bindings beyond the bare
// struct fields are out of scope (spec.md §1) and left to the stdlib
// package to populate incrementally.
type Data interface {
	TypeName() string
}

// NullData is a Null-typed object payload, distinct from the immediate
// Value Null singleton. The Null class object itself carries ClassData.
type NullData struct{}

func (NullData) TypeName() string { return "Null" }

// BooleanData boxes a bool as object payload (not used by the Boolean
// immediate Values; the Boolean class object carries ClassData).
type BooleanData struct{ B bool }

func (BooleanData) TypeName() string { return "Boolean" }

// NumberData boxes a numeric payload as object state, for a Number that
// lives behind an Object handle.
type NumberData struct {
	IsFloat bool
	I       int64
	F       float64
}

func (NumberData) TypeName() string { return "Number" }

// TextData is the payload of a Text object.
type TextData struct{ S string }

func (TextData) TypeName() string { return "Text" }

// ListData is the payload of a List object: an ordered, mutable vector of
// Values.
type ListData struct{ Items []Value }

func (*ListData) TypeName() string { return "List" }

// ScopeData marks an Object as a Binding/Stackframe (spec.md §3.5): its
// attributes ARE the lexical scope, and this payload carries the pieces
// that aren't ordinary attributes.
type ScopeData struct {
	// Callee is the previous frame's binding, mirrored here for fast access;
	// also exposed as the `__callee__` attribute.
	Callee *Object
}

func (*ScopeData) TypeName() string { return "Scope" }

// ClassData marks an Object as a conventional class object: a parent used
// to provide a type's operators. It carries no state of its own — classes
// are just ordinary objects whose attributes are the type's methods.
type ClassData struct{ Name string }

func (*ClassData) TypeName() string { return "Class" }

// BlockExpr is the minimal interface the parser's block-literal AST node
// must satisfy for the evaluator to run it; kept here (rather than
// importing the parser package, which would cycle) as the seam between
// the parser's block AST and the runtime Block payload.
type BlockExpr interface {
	Params() []string
	ParenKind() byte
}

// BlockData is the payload of a first-class Block value (spec.md §4.8/4.9):
// a callable expression tree plus the lexical Binding it closes over.
type BlockData struct {
	Expr     BlockExpr
	Captured *Object // the binding active when the block literal was evaluated
}

func (*BlockData) TypeName() string { return "Block" }

// BoundFunctionData is the payload produced by dotted access on a callable
// attribute (spec.md §4.4's "dotted access special rule"): an (owner,
// target) pair. Calling it prepends owner as `this` and invokes target.
type BoundFunctionData struct {
	Owner  Value
	Target Value
}

func (*BoundFunctionData) TypeName() string { return "BoundFunction" }

// RustFnData is the payload of a RustFn-equivalent object: a named Go
// function exposed as Quest-callable state, distinct from the immediate
// BuiltinFn Value in that it lives behind an Object handle (so it can carry
// additional attributes, e.g. documentation, set by library code).
type RustFnData struct {
	Name intern.Literal
	Fn   BuiltinFunc
}

func (*RustFnData) TypeName() string { return "RustFn" }

// ExceptionData is the payload of an exception object raised into Quest
// code (see qerror.QuestException / spec.md §7's Custom/QuestException
// variants).
type ExceptionData struct {
	Kind    string
	Message string
}

func (*ExceptionData) TypeName() string { return "Exception" }
