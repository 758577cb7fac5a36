package interp

import (
	"github.com/quest-lang/quest/internal/intern"
	"github.com/quest-lang/quest/internal/qerror"
	"github.com/quest-lang/quest/internal/value"
)

// EqualValues implements the user-level `==` that value.Value.TryEq and
// value.Object's slow attribute path (via value.SetEqualityHook) dispatch
// to for Object operands, per spec.md §4.2/§4.4.
func (e *Evaluator) EqualValues(a, b value.Value) (bool, error) {
	result, err := e.CallAttr(a, intern.Intern("=="), []value.Value{b})
	if err != nil {
		return false, err
	}
	bo, ok := result.AsBool()
	if !ok {
		return false, qerror.Typef("== did not return a Boolean")
	}
	return bo, nil
}

// InstallEqualityHook wires this Evaluator's EqualValues as the package-wide
// hook value.Object's slow attribute path uses for arbitrary-Value keys.
// Called once by stdlib.Bootstrap on the root Evaluator.
func (e *Evaluator) InstallEqualityHook() {
	value.SetEqualityHook(e.EqualValues)
}
