package value

import (
	"fmt"
	"sync"

	"github.com/quest-lang/quest/internal/intern"
)

// MissingAttrError is the typed "missing attribute" outcome of spec.md
// §4.4 step 6: attribute lookup exhausted self and every parent.
type MissingAttrError struct {
	AttrName string
	TypeName string
}

func (e *MissingAttrError) Error() string {
	return fmt.Sprintf("attr %q does not exist on %s", e.AttrName, e.TypeName)
}

// CycleError is raised when attribute lookup's parent walk exceeds
// MaxLookupDepth, satisfying spec.md §8 invariant 4 (acyclic graphs must
// terminate; cyclic graphs must not silently loop).
type CycleError struct{ AttrName string }

func (e *CycleError) Error() string {
	return fmt.Sprintf("parent lookup cycle detected resolving %q", e.AttrName)
}

// MaxLookupDepth bounds the parent walk in release builds, overridable via
// the QUEST_MAX_LOOKUP_DEPTH environment variable (see cmd/quest).
var MaxLookupDepth = 10000

// Object is a shared, mutable handle to heap state (spec.md §3.2). Multiple
// Value handles can reference the same *Object; cloning a Value is a cheap
// handle copy (see Value.TryClone), while Object.deepClone allocates a
// fresh heap record.
//
// Concurrency (spec.md §5): attribute map and parents share one
// reader/writer lock; payload data has its own, independent lock. Lookups
// acquire a read lock on self, release it before recursing into a parent,
// and re-acquire per parent — no two locks are ever held at once, which is
// what keeps peer-to-peer lookups deadlock-free (cycles remain the
// capture-time author's responsibility, per spec.md §9).
type Object struct {
	id int64

	stateMu sync.RWMutex
	attrs   *AttrMap
	parents *Parents

	dataMu sync.RWMutex
	data   Data
}

// NewObjectWith allocates a new Object with the given payload and parents.
func NewObjectWith(data Data, parents ...Value) *Object {
	return &Object{
		id:      allocObjectID(),
		attrs:   NewAttrMap(),
		parents: NewParents(parents...),
		data:    data,
	}
}

// ID returns the object's immutable identity.
func (o *Object) ID() int64 { return o.id }

// TypeName returns the payload's dynamic type name.
func (o *Object) TypeName() string {
	o.dataMu.RLock()
	defer o.dataMu.RUnlock()
	if o.data == nil {
		return "Object"
	}
	return o.data.TypeName()
}

// Data returns the object's payload. Callers type-assert to the concrete
// payload type they expect (the Go analogue of spec.md's downcast).
func (o *Object) Data() Data {
	o.dataMu.RLock()
	defer o.dataMu.RUnlock()
	return o.data
}

// SetData replaces the object's payload (used by library code that boxes a
// new value into an existing handle, e.g. in-place numeric mutation).
func (o *Object) SetData(d Data) {
	o.dataMu.Lock()
	defer o.dataMu.Unlock()
	o.data = d
}

// AddParent appends a parent object, per spec.md §4.3.
func (o *Object) AddParent(v Value) error {
	o.stateMu.Lock()
	defer o.stateMu.Unlock()
	return o.parents.Append(v)
}

// Parents returns a snapshot of the parents list, in order.
func (o *Object) Parents() []Value {
	o.stateMu.RLock()
	defer o.stateMu.RUnlock()
	return o.parents.All()
}

// eqHook lets the evaluator register user-level `==` for slow-path lookups
// and for list/attr equality, without value importing interp.
var eqHook eqFunc

// SetEqualityHook installs the user-level equality function used by the
// slow attribute path and by list operations. Called once during
// interpreter bootstrap.
func SetEqualityHook(fn func(a, b Value) (bool, error)) {
	eqHook = fn
}

// GetAttr implements the attribute lookup walk of spec.md §4.4, steps 1-6,
// NOT including the dotted-access method-binding rule (step 7 lives in the
// interp package's evaluator, which wraps GetAttr's result for `.` access).
func (o *Object) GetAttr(key Value, newList func([]Value) *Object) (Value, error) {
	return o.getAttrDepth(key, newList, 0)
}

func (o *Object) getAttrDepth(key Value, newList func([]Value) *Object, depth int) (Value, error) {
	if depth > MaxLookupDepth {
		name := "?"
		if lit, ok := key.AsLiteral(); ok {
			name = intern.Repr(lit)
		}
		return Value{}, &CycleError{AttrName: name}
	}

	if lit, ok := key.AsLiteral(); ok {
		switch lit {
		case intern.IDAttr:
			return NewInt(o.id), nil
		case intern.ParentsAttr:
			o.stateMu.RLock()
			v := o.parents.AsListValue(newList)
			o.stateMu.RUnlock()
			return v, nil
		}
		o.stateMu.RLock()
		v, found := o.attrs.GetFast(lit)
		o.stateMu.RUnlock()
		if found {
			return v, nil
		}
	} else if txt, ok := o.textOf(key); ok {
		// Parity rule: a Text key that names a literal is treated like that
		// literal (spec.md §4.4 step 4).
		return o.getAttrDepth(NewLiteral(intern.Intern(txt)), newList, depth)
	} else {
		o.stateMu.RLock()
		v, found, err := o.attrs.GetSlow(key, eqHook)
		o.stateMu.RUnlock()
		if err != nil {
			return Value{}, err
		}
		if found {
			return v, nil
		}
	}

	// Not found on self: walk parents in order.
	parents := o.Parents()
	for _, p := range parents {
		pobj, ok := p.AsObject()
		if !ok {
			continue
		}
		v, err := pobj.getAttrDepth(key, newList, depth+1)
		if err == nil {
			return v, nil
		}
		if _, isMissing := err.(*MissingAttrError); !isMissing {
			return Value{}, err
		}
	}

	name := o.keyName(key)
	return Value{}, &MissingAttrError{AttrName: name, TypeName: o.TypeName()}
}

// textOf reports whether key is an Object holding TextData, returning its
// string content.
func (o *Object) textOf(key Value) (string, bool) {
	obj, ok := key.AsObject()
	if !ok {
		return "", false
	}
	td, ok := obj.Data().(*TextData)
	if !ok {
		return "", false
	}
	return td.S, true
}

func (o *Object) keyName(key Value) string {
	if lit, ok := key.AsLiteral(); ok {
		return intern.Repr(lit)
	}
	if txt, ok := o.textOf(key); ok {
		return txt
	}
	return key.Typename()
}

// SetAttr writes to self only; it never traverses parents (spec.md §4.4).
// Writing `__parents__` replaces the parents list; writing `__id__` fails,
// since identity is immutable for an object's lifetime (spec.md §9).
func (o *Object) SetAttr(key, v Value) error {
	if lit, ok := key.AsLiteral(); ok {
		switch lit {
		case intern.IDAttr:
			return fmt.Errorf("__id__ is immutable")
		case intern.ParentsAttr:
			o.stateMu.Lock()
			defer o.stateMu.Unlock()
			return o.parents.SetFromValue(v)
		}
		o.stateMu.Lock()
		o.attrs.SetFast(lit, v)
		o.stateMu.Unlock()
		return nil
	}
	if txt, ok := o.textOf(key); ok {
		return o.SetAttr(NewLiteral(intern.Intern(txt)), v)
	}
	o.stateMu.Lock()
	o.attrs.SetSlow(key, v)
	o.stateMu.Unlock()
	return nil
}

// SetAttrPossiblyParents writes v at whichever Object in self's own
// attribute map or parent chain already defines key, falling back to
// defining it fresh on self if nothing in the chain does (spec.md §4.9's
// Text-LHS assignment rule: "binding.set_attr(name, rhs)", generalized the
// way the original source's `set_attr_possibly_parents` does — a Block's
// binding is parented on the lexical scope it closed over, so a write needs
// to reach an outer binding's existing variable instead of always shadowing
// it in the callee's own throwaway frame).
func (o *Object) SetAttrPossiblyParents(key, v Value) error {
	if lit, ok := key.AsLiteral(); ok {
		switch lit {
		case intern.IDAttr, intern.ParentsAttr:
			return o.SetAttr(key, v)
		}
	} else if txt, ok := o.textOf(key); ok {
		return o.SetAttrPossiblyParents(NewLiteral(intern.Intern(txt)), v)
	}
	if owner := o.findOwner(key, 0); owner != nil {
		return owner.SetAttr(key, v)
	}
	return o.SetAttr(key, v)
}

// findOwner walks self then parents, mirroring getAttrDepth's traversal
// order, and returns the first Object whose own attribute map (not a
// parent's) already defines key, or nil if none does.
func (o *Object) findOwner(key Value, depth int) *Object {
	if depth > MaxLookupDepth {
		return nil
	}
	if lit, ok := key.AsLiteral(); ok {
		o.stateMu.RLock()
		_, found := o.attrs.GetFast(lit)
		o.stateMu.RUnlock()
		if found {
			return o
		}
	} else {
		o.stateMu.RLock()
		_, found, _ := o.attrs.GetSlow(key, eqHook)
		o.stateMu.RUnlock()
		if found {
			return o
		}
	}
	for _, p := range o.Parents() {
		if pobj, ok := p.AsObject(); ok {
			if owner := pobj.findOwner(key, depth+1); owner != nil {
				return owner
			}
		}
	}
	return nil
}

// DelAttr removes from self only, returning the deleted value or signaling
// a missing-attribute error (spec.md §9's open-question resolution: raise,
// don't return a sentinel).
func (o *Object) DelAttr(key Value) (Value, error) {
	if lit, ok := key.AsLiteral(); ok {
		switch lit {
		case intern.IDAttr, intern.ParentsAttr:
			return Value{}, fmt.Errorf("%s cannot be deleted", intern.Repr(lit))
		}
		o.stateMu.Lock()
		v, found := o.attrs.GetFast(lit)
		if found {
			o.attrs.DeleteFast(lit)
		}
		o.stateMu.Unlock()
		if !found {
			return Value{}, &MissingAttrError{AttrName: intern.Repr(lit), TypeName: o.TypeName()}
		}
		return v, nil
	}
	if txt, ok := o.textOf(key); ok {
		return o.DelAttr(NewLiteral(intern.Intern(txt)))
	}
	o.stateMu.Lock()
	v, found, _ := o.attrs.GetSlow(key, eqHook)
	if found {
		o.attrs.DeleteSlow(key)
	}
	o.stateMu.Unlock()
	if !found {
		return Value{}, &MissingAttrError{AttrName: o.keyName(key), TypeName: o.TypeName()}
	}
	return v, nil
}

// HasAttr reports whether GetAttr would succeed; it runs GetAttr and
// discards the found value or the miss error.
func (o *Object) HasAttr(key Value, newList func([]Value) *Object) bool {
	_, err := o.GetAttr(key, newList)
	return err == nil
}

// Keys enumerates every attribute name visible via GetAttr on self alone
// (not walking parents): the synthesized `__id__`/`__parents__` dunders
// plus the fast- and slow-path keys, in that order (spec.md §4.3's
// invariant that the dunders appear in `keys()` even though unstored).
func (o *Object) Keys() []Value {
	out := []Value{NewLiteral(intern.IDAttr), NewLiteral(intern.ParentsAttr)}
	o.stateMu.RLock()
	defer o.stateMu.RUnlock()
	for _, lit := range o.attrs.FastKeys() {
		out = append(out, NewLiteral(lit))
	}
	out = append(out, o.attrs.SlowKeys()...)
	return out
}

// deepClone allocates a new heap record with deep-copied attribute state
// and a new id; the payload is recursively copied when it is a List,
// copied by value when it is Text, Number or Boolean data, and shared
// otherwise.
func (o *Object) deepClone() *Object {
	o.stateMu.RLock()
	attrsCopy := o.attrs.Clone()
	parentsCopy := &Parents{vec: append([]Value(nil), o.parents.vec...), asList: o.parents.asList}
	o.stateMu.RUnlock()

	o.dataMu.RLock()
	dataCopy := cloneData(o.data)
	o.dataMu.RUnlock()

	return &Object{
		id:      allocObjectID(),
		attrs:   attrsCopy,
		parents: parentsCopy,
		data:    dataCopy,
	}
}

func cloneData(d Data) Data {
	switch v := d.(type) {
	case *ListData:
		items := make([]Value, len(v.Items))
		for i, item := range v.Items {
			items[i] = item.DeepClone()
		}
		return &ListData{Items: items}
	case *TextData:
		cp := *v
		return &cp
	case *NumberData:
		cp := *v
		return &cp
	case *BooleanData:
		cp := *v
		return &cp
	default:
		// Immutable/reference-shape payloads (Block, BoundFunction, RustFn,
		// Class, Scope, Exception, Null) are shared as-is.
		return d
	}
}

// listItems/listPush reach into ListData payload state under the data
// lock, for use by Parents when parents are list-backed.
func (o *Object) listItems() []Value {
	o.dataMu.RLock()
	defer o.dataMu.RUnlock()
	ld, ok := o.data.(*ListData)
	if !ok {
		return nil
	}
	out := make([]Value, len(ld.Items))
	copy(out, ld.Items)
	return out
}

func (o *Object) listPush(v Value) error {
	o.dataMu.Lock()
	defer o.dataMu.Unlock()
	ld, ok := o.data.(*ListData)
	if !ok {
		return fmt.Errorf("__parents__ push target is not a List")
	}
	ld.Items = append(ld.Items, v)
	return nil
}

// IsIdentical reports pointer identity.
func (o *Object) IsIdentical(other *Object) bool { return o == other }
