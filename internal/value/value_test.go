package value

import "testing"

func newTestList(items []Value) *Object {
	return NewObjectWith(&ListData{Items: items})
}

func TestGetAttr_WalksParentChain(t *testing.T) {
	parent := NewObjectWith(nil)
	if err := parent.SetAttr(NewLiteral(1), NewInt(42)); err != nil {
		t.Fatalf("SetAttr on parent: %v", err)
	}
	child := NewObjectWith(nil, NewObject(parent))

	got, err := child.GetAttr(NewLiteral(1), newTestList)
	if err != nil {
		t.Fatalf("GetAttr: %v", err)
	}
	n, ok := got.AsInt()
	if !ok || n != 42 {
		t.Fatalf("got %#v, want Integer(42)", got)
	}
}

func TestSetAttr_NeverTraversesParents(t *testing.T) {
	parent := NewObjectWith(nil)
	_ = parent.SetAttr(NewLiteral(1), NewInt(1))
	child := NewObjectWith(nil, NewObject(parent))

	_ = child.SetAttr(NewLiteral(1), NewInt(2))

	childVal, err := child.GetAttr(NewLiteral(1), newTestList)
	if err != nil {
		t.Fatalf("GetAttr on child: %v", err)
	}
	if n, _ := childVal.AsInt(); n != 2 {
		t.Errorf("child attr = %d, want 2 (shadowing parent)", n)
	}

	parentVal, err := parent.GetAttr(NewLiteral(1), newTestList)
	if err != nil {
		t.Fatalf("GetAttr on parent: %v", err)
	}
	if n, _ := parentVal.AsInt(); n != 1 {
		t.Errorf("parent attr = %d, want 1 (unchanged by child's SetAttr)", n)
	}
}

func TestGetAttr_MissingReturnsMissingAttrError(t *testing.T) {
	o := NewObjectWith(nil)
	_, err := o.GetAttr(NewLiteral(999), newTestList)
	if _, ok := err.(*MissingAttrError); !ok {
		t.Fatalf("got %#v (%T), want *MissingAttrError", err, err)
	}
}

func TestGetAttr_CycleDetected(t *testing.T) {
	a := NewObjectWith(nil)
	b := NewObjectWith(nil, NewObject(a))
	_ = a.AddParent(NewObject(b))

	orig := MaxLookupDepth
	MaxLookupDepth = 10
	defer func() { MaxLookupDepth = orig }()

	_, err := a.GetAttr(NewLiteral(999), newTestList)
	if _, ok := err.(*CycleError); !ok {
		t.Fatalf("got %#v (%T), want *CycleError", err, err)
	}
}

func TestDelAttr_MissingRaisesRatherThanNoOp(t *testing.T) {
	o := NewObjectWith(nil)
	_, err := o.DelAttr(NewLiteral(999))
	if _, ok := err.(*MissingAttrError); !ok {
		t.Fatalf("got %#v (%T), want *MissingAttrError", err, err)
	}
}

func TestKeys_IncludesSynthesizedDunders(t *testing.T) {
	o := NewObjectWith(nil)
	_ = o.SetAttr(NewLiteral(1), NewInt(1))

	keys := o.Keys()
	if len(keys) < 3 {
		t.Fatalf("got %d keys, want at least __id__, __parents__, and the stored attr", len(keys))
	}
	first, ok := keys[0].AsLiteral()
	if !ok {
		t.Fatalf("first key is not a Literal: %#v", keys[0])
	}
	if got := int(first); got == 0 {
		t.Errorf("first synthesized key looks unset")
	}
}

func TestDeepClone_CopiesListPayloadIndependently(t *testing.T) {
	inner := newTestList([]Value{NewInt(1), NewInt(2)})
	v := NewObject(inner)

	cloned := v.DeepClone()
	clonedObj, ok := cloned.AsObject()
	if !ok {
		t.Fatalf("DeepClone did not return an Object")
	}
	if clonedObj.IsIdentical(inner) {
		t.Fatalf("DeepClone shares the same heap record as the original")
	}

	clonedData := clonedObj.Data().(*ListData)
	clonedData.Items[0] = NewInt(99)

	origData := inner.Data().(*ListData)
	if n, _ := origData.Items[0].AsInt(); n != 1 {
		t.Errorf("mutating the clone's List mutated the original too: got %d, want 1", n)
	}
}

func TestIsIdentical_ComparesObjectHandlesByPointer(t *testing.T) {
	a := NewObject(NewObjectWith(nil))
	b := NewObject(NewObjectWith(nil))
	c := a.TryClone()

	if a.IsIdentical(b) {
		t.Error("two distinct Objects compared identical")
	}
	if !a.IsIdentical(c) {
		t.Error("TryClone should be a cheap handle copy, not a new identity")
	}
}
