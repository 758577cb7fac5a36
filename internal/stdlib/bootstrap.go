package stdlib

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/quest-lang/quest/internal/interp"
	"github.com/quest-lang/quest/internal/value"
)

// Runtime bundles the evaluator with every builtin class object it
// dispatches immediates and library values through, per spec.md §6.3's
// table ("Pristine | Basic | Boolean | Number | Text | Null | List |
// Kernel"). It is the "implementer" spec.md defers the standard-library
// bindings to.
type Runtime struct {
	Eval *interp.Evaluator

	Pristine *value.Object
	Basic    *value.Object
	Boolean  *value.Object
	Number   *value.Object
	Text     *value.Object
	NullObj  *value.Object
	List     *value.Object
	Kernel   *value.Object

	// threads tracks every `spawn`ed goroutine so the CLI can join them
	// before exiting (spec.md §5: a fresh thread gets its own bottom Scope
	// stackframe, but the process as a whole still exits only once every
	// thread is done).
	threads *errgroup.Group
}

// Wait blocks until every `spawn`ed thread has finished, returning the
// first thread's uncaught error, if any.
func (rt *Runtime) Wait() error {
	return rt.threads.Wait()
}

// Bootstrap builds the class hierarchy (Pristine <- Basic <- {Boolean,
// Number, Text, Null, List, Kernel}), installs every required attribute,
// and wires up the Evaluator that needs these classes to resolve
// immediate-value attribute lookups (the classFor callback, see
// interp.ClassFor's doc comment for why this can't just be a direct
// import in the other direction).
func Bootstrap() *Runtime {
	rt := &Runtime{}
	rt.threads, _ = errgroup.WithContext(context.Background())

	rt.Pristine = value.NewObjectWith(&value.ClassData{Name: "Pristine"})
	basicParent := value.NewObject(rt.Pristine)
	rt.Basic = value.NewObjectWith(&value.ClassData{Name: "Basic"}, basicParent)

	basic := value.NewObject(rt.Basic)
	rt.Boolean = value.NewObjectWith(&value.ClassData{Name: "Boolean"}, basic)
	rt.Number = value.NewObjectWith(&value.ClassData{Name: "Number"}, basic)
	rt.Text = value.NewObjectWith(&value.ClassData{Name: "Text"}, basic)
	rt.NullObj = value.NewObjectWith(&value.ClassData{Name: "Null"}, basic)
	rt.List = value.NewObjectWith(&value.ClassData{Name: "List"}, basic)
	rt.Kernel = value.NewObjectWith(&value.ClassData{Name: "Kernel"}, basic)

	classFor := func(k value.Kind) *value.Object {
		switch k {
		case value.KindBoolean:
			return rt.Boolean
		case value.KindSmallInt, value.KindFloat:
			return rt.Number
		case value.KindNull:
			return rt.NullObj
		default:
			return rt.Pristine
		}
	}
	newList := func(items []value.Value) *value.Object {
		return value.NewObjectWith(&value.ListData{Items: items}, value.NewObject(rt.List))
	}
	newText := func(s string) *value.Object {
		return value.NewObjectWith(&value.TextData{S: s}, value.NewObject(rt.Text))
	}

	rt.Eval = interp.New(classFor, newList, newText, rt.Kernel)
	rt.Eval.InstallEqualityHook()

	installPristine(rt)
	installBasic(rt)
	installBoolean(rt)
	installNumber(rt)
	installText(rt)
	installNull(rt)
	installList(rt)
	installKernel(rt)

	return rt
}
