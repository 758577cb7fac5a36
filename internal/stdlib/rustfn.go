// Package stdlib populates the builtin class objects spec.md §6.3 lists as
// an interface only ("implementations out of scope"), wiring them as
// mutual parents the way smog's pkg/vm bootstraps its Object/Behavior
// hierarchy in Go rather than in Quest source — every method here is a Go
// closure (a RustFnData payload) rather than a quest Block, matching how
// the teacher's VM implements primitives natively and leaves only
// user-level code to the source language itself.
package stdlib

import (
	"github.com/quest-lang/quest/internal/intern"
	"github.com/quest-lang/quest/internal/value"
)

// rustfn wraps fn as a named, Quest-callable RustFn value.
func rustfn(name string, fn value.BuiltinFunc) value.Value {
	lit := intern.Intern(name)
	return value.NewObject(value.NewObjectWith(&value.RustFnData{Name: lit, Fn: fn}))
}

// method installs fn as obj's attribute named name.
func method(obj *value.Object, name string, fn value.BuiltinFunc) {
	_ = obj.SetAttr(value.NewLiteral(intern.Intern(name)), rustfn(name, fn))
}

// constant installs a plain data attribute (not callable).
func constant(obj *value.Object, name string, v value.Value) {
	_ = obj.SetAttr(value.NewLiteral(intern.Intern(name)), v)
}
