package value

// Parents is the ordered, mutable sequence of parent references consulted
// during attribute lookup (spec.md §3.4). It keeps one of the three
// representations spec.md describes:
//
//   - empty (no parents)
//   - a small builtin vector (the common case: class-level parents)
//   - a user-visible List object, once user code reassigns `__parents__`
//
// Once a List backs the parents, mutating that List object (e.g. via
// `push`) is visible through the parents chain too, since both views share
// the same *Object.
type Parents struct {
	vec    []Value // used when asList == nil
	asList *Object // used once __parents__ has been reassigned with a List
}

// NewParents returns an empty Parents, or one seeded with the given
// builtin-vector parents (the common class-definition case).
func NewParents(initial ...Value) *Parents {
	return &Parents{vec: append([]Value(nil), initial...)}
}

// Len returns the number of parents.
func (p *Parents) Len() int {
	if p.asList != nil {
		items := p.asList.listItems()
		return len(items)
	}
	return len(p.vec)
}

// At returns the i-th parent.
func (p *Parents) At(i int) (Value, bool) {
	if p.asList != nil {
		items := p.asList.listItems()
		if i < 0 || i >= len(items) {
			return Value{}, false
		}
		return items[i], true
	}
	if i < 0 || i >= len(p.vec) {
		return Value{}, false
	}
	return p.vec[i], true
}

// All returns the parents in order as a plain slice.
func (p *Parents) All() []Value {
	if p.asList != nil {
		items := p.asList.listItems()
		out := make([]Value, len(items))
		copy(out, items)
		return out
	}
	out := make([]Value, len(p.vec))
	copy(out, p.vec)
	return out
}

// Append adds a new parent. If the parents are currently list-backed, this
// pushes onto that List object (mutating shared state); otherwise it
// appends to the internal vector.
func (p *Parents) Append(v Value) error {
	if p.asList != nil {
		return p.asList.listPush(v)
	}
	p.vec = append(p.vec, v)
	return nil
}

// AsListValue returns the parents coerced into a List Value, as `__parents__`
// read access requires (spec.md §4.4).
func (p *Parents) AsListValue(newList func([]Value) *Object) Value {
	if p.asList != nil {
		return NewObject(p.asList)
	}
	return NewObject(newList(p.All()))
}

// SetFromValue replaces the parents wholesale, following spec.md §4.4's
// write rule for `__parents__`: assigning a List replaces with a
// user-visible (shared) representation; assigning anything else replaces
// with a single-element vector.
func (p *Parents) SetFromValue(v Value) error {
	if obj, ok := v.AsObject(); ok {
		if _, isList := obj.data.(*ListData); isList {
			p.asList = obj
			p.vec = nil
			return nil
		}
	}
	p.asList = nil
	p.vec = []Value{v}
	return nil
}

// listItems/listPush are small helpers that reach into an Object known to
// hold ListData; defined on Object in object.go.
