package interp

import (
	"fmt"

	"github.com/emirpasic/gods/stacks/arraystack"

	"github.com/quest-lang/quest/internal/intern"
	"github.com/quest-lang/quest/internal/value"
)

// BindingStack is the per-thread call stack of spec.md §3.5/§5, backed by
// github.com/emirpasic/gods' arraystack the way the teacher's evaluator
// keeps its own explicit call-frame bookkeeping rather than relying on the
// Go call stack alone — needed here so `:depth` non-local-return targets
// and stack-trace capture can address frames by position.
type BindingStack struct {
	s *arraystack.Stack
}

// NewBindingStack returns a stack seeded with a bottom Scope stackframe
// (spec.md §3.5: "never popped"), parented on rootParent (typically the
// Kernel object) so top-level code and every spawned thread's bottom frame
// both resolve global names the same way.
func NewBindingStack(rootParent *value.Object) *BindingStack {
	bs := &BindingStack{s: arraystack.New()}
	bs.s.Push(newBindingObj(rootParent, nil))
	return bs
}

func (bs *BindingStack) Push(obj *value.Object) { bs.s.Push(obj) }

func (bs *BindingStack) Pop() {
	bs.s.Pop()
}

// Top returns the current (innermost) Binding.
func (bs *BindingStack) Top() *value.Object {
	v, ok := bs.s.Peek()
	if !ok {
		panic("interp: binding stack is empty (bottom frame popped)")
	}
	return v.(*value.Object)
}

// PeekAt returns the Binding `depth` frames up from the top (0 = current).
func (bs *BindingStack) PeekAt(depth int) (*value.Object, bool) {
	vals := bs.s.Values() // top-to-bottom (LIFO) order
	idx := depth
	if idx < 0 || idx >= len(vals) {
		return nil, false
	}
	return vals[idx].(*value.Object), true
}

// Depth reports the current stack size, used for stack-trace capture.
func (bs *BindingStack) Depth() int { return bs.s.Size() }

// newBindingObj allocates a fresh Binding object (spec.md §3.5): an
// ordinary Object whose attribute map IS the lexical scope, parented on
// lexicalParent (for variable lookup fallthrough into the closure) and
// recording caller as `__callee__` (the dynamic call chain non-local
// return and stack traces walk).
func newBindingObj(lexicalParent, caller *value.Object) *value.Object {
	data := &value.ScopeData{Callee: caller}
	var parents []value.Value
	if lexicalParent != nil {
		parents = append(parents, value.NewObject(lexicalParent))
	}
	obj := value.NewObjectWith(data, parents...)
	if caller != nil {
		_ = obj.SetAttr(value.NewLiteral(intern.CalleeAttr), value.NewObject(caller))
	}
	return obj
}

// bindArgs binds fullArgs (this included, as Args prepends it) positionally
// as `_0, _1, ...` (skipping `this`, per Args.List) and sets `__this__` /
// `__args__`, per spec.md §3.5.
func bindArgs(obj *value.Object, args value.Args, newList func([]value.Value) *value.Object) {
	list := args.List()
	for i, v := range list {
		lit := intern.Intern(fmt.Sprintf("_%d", i))
		_ = obj.SetAttr(value.NewLiteral(lit), v)
	}
	argsListObj := newList(list)
	_ = obj.SetAttr(value.NewLiteral(intern.ArgsAttr), value.NewObject(argsListObj))
	if this, err := args.This(); err == nil {
		_ = obj.SetAttr(value.NewLiteral(intern.ThisAttr), this)
	}
}
