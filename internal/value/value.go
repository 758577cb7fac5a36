// Package value implements the Quest runtime value representation: the
// tagged union described in spec.md §3.1/§4.2 (Null, Boolean, SmallInt,
// Float, Literal, BuiltinFn, Object) plus the heap Object it can hold
// (§3.2, §4.3) and the attribute map / parents list that back it
// (§3.3/§3.4, §4.4).
//
// The encoding is a plain tagged struct rather than the repository's
// unfinished NaN-boxing experiments (see spec.md §9) — any representation
// that preserves the id/equality/clone contract is acceptable, and a tagged
// union is far easier to get right in Go.
package value

import (
	"fmt"
	"math"
	"sync/atomic"

	"github.com/quest-lang/quest/internal/intern"
)

// Kind tags which alternative of the union a Value holds.
type Kind uint8

const (
	KindNull Kind = iota
	KindBoolean
	KindSmallInt
	KindFloat
	KindLiteral
	KindBuiltinFn
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "Null"
	case KindBoolean:
		return "Boolean"
	case KindSmallInt:
		return "Integer"
	case KindFloat:
		return "Float"
	case KindLiteral:
		return "Literal"
	case KindBuiltinFn:
		return "BuiltinFn"
	case KindObject:
		return "Object"
	default:
		return "Unknown"
	}
}

// SmallIntMin/SmallIntMax bound the immediate integer range, per spec.md
// §3.1: signed integers in [-(2^62), 2^62).
const (
	SmallIntMax = int64(1) << 62
	SmallIntMin = -SmallIntMax
)

// BuiltinFunc is the Go function a BuiltinFn value or RustFn payload wraps.
// frame is the caller's binding object (an *Object with ScopeData), used so
// builtins can read `this`/locals or push a child frame.
type BuiltinFunc func(frame *Object, args Args) (Value, error)

// builtinDesc is the immutable, process-lifetime descriptor a BuiltinFn
// value points to. Descriptors are never freed, so a pointer to one is a
// valid immediate payload (akin to an interned literal); each is assigned a
// small, dense id at registration time for use in Value.ID().
type builtinDesc struct {
	name intern.Literal
	fn   BuiltinFunc
	id   int64
}

var nextBuiltinFnID int64

// Value is the uniform runtime value. Immediates are encoded directly in
// the struct fields; KindObject carries a handle to heap state.
type Value struct {
	kind Kind
	i    int64        // SmallInt payload, bool payload (0/1), Literal id
	f    float64      // Float payload
	fn   *builtinDesc // BuiltinFn payload
	obj  *Object       // Object payload
}

// Null is the singleton null value.
var Null = Value{kind: KindNull}

// True and False are the two boolean singletons.
var (
	True  = Value{kind: KindBoolean, i: 1}
	False = Value{kind: KindBoolean, i: 0}
)

// NewBoolean returns True or False for b.
func NewBoolean(b bool) Value {
	if b {
		return True
	}
	return False
}

// NewInt returns a SmallInt value. Callers are responsible for staying
// within [SmallIntMin, SmallIntMax); out-of-range values still work but lose
// the "immediate" guarantee other code may rely on (no test in this module
// exercises that edge, matching spec.md's choice not to require bignums).
func NewInt(n int64) Value {
	return Value{kind: KindSmallInt, i: n}
}

// NewFloat returns a Float value.
func NewFloat(f float64) Value {
	return Value{kind: KindFloat, i: int64(math.Float64bits(f)), f: f}
}

// NewLiteral returns a Value wrapping an interned identifier.
func NewLiteral(lit intern.Literal) Value {
	return Value{kind: KindLiteral, i: int64(lit)}
}

// NewBuiltinFn wraps a Go function as a first-class BuiltinFn value.
func NewBuiltinFn(name intern.Literal, fn BuiltinFunc) Value {
	id := atomic.AddInt64(&nextBuiltinFnID, 1)
	return Value{kind: KindBuiltinFn, fn: &builtinDesc{name: name, fn: fn, id: id}}
}

// NewObject wraps a heap Object as a Value.
func NewObject(o *Object) Value {
	if o == nil {
		panic("value: NewObject(nil)")
	}
	return Value{kind: KindObject, obj: o}
}

// Kind reports which alternative this Value holds.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether v is the null singleton.
func (v Value) IsNull() bool { return v.kind == KindNull }

// IsObject reports whether v holds a heap Object.
func (v Value) IsObject() bool { return v.kind == KindObject }

// AsBool returns the boolean payload and whether v was a Boolean at all.
func (v Value) AsBool() (bool, bool) {
	if v.kind != KindBoolean {
		return false, false
	}
	return v.i != 0, true
}

// AsInt returns the SmallInt payload and whether v was a SmallInt.
func (v Value) AsInt() (int64, bool) {
	if v.kind != KindSmallInt {
		return 0, false
	}
	return v.i, true
}

// AsFloat returns the Float payload and whether v was a Float.
func (v Value) AsFloat() (float64, bool) {
	if v.kind != KindFloat {
		return 0, false
	}
	return v.f, true
}

// AsLiteral returns the Literal payload and whether v was a Literal.
func (v Value) AsLiteral() (intern.Literal, bool) {
	if v.kind != KindLiteral {
		return intern.NoLiteral, false
	}
	return intern.Literal(v.i), true
}

// AsObject returns the heap Object and whether v held one.
func (v Value) AsObject() (*Object, bool) {
	if v.kind != KindObject {
		return nil, false
	}
	return v.obj, true
}

// CallBuiltinFn invokes v as a BuiltinFn. Callers must check Kind() ==
// KindBuiltinFn first; it panics otherwise, matching the
// downcast-by-value contract of spec.md §4.2.
func (v Value) CallBuiltinFn(frame *Object, args Args) (Value, error) {
	return v.fn.fn(frame, args)
}

// BuiltinFnName returns the interned name of a BuiltinFn value.
func (v Value) BuiltinFnName() intern.Literal {
	return v.fn.name
}

// nextObjectID is the monotonic counter backing Object ids (spec.md §3.1:
// "a monotonically increasing counter assigned at construction").
var nextObjectID int64

func allocObjectID() int64 {
	return atomic.AddInt64(&nextObjectID, 1)
}

// ID returns v's stable identity, exposed to Quest code as `__id__`.
//
// For immediates the id is the tag-encoded bit pattern itself (spec.md
// §3.1); the tag occupies the high bits so distinct kinds never collide,
// and bit-identical immediates of the same kind always share an id.
func (v Value) ID() int64 {
	if v.kind == KindObject {
		return v.obj.id
	}
	tag := int64(v.kind) << 56
	switch v.kind {
	case KindNull:
		return tag
	case KindBoolean, KindSmallInt, KindLiteral:
		return tag | (v.i & 0x00FFFFFFFFFFFFFF)
	case KindFloat:
		return tag | (v.i & 0x00FFFFFFFFFFFFFF)
	case KindBuiltinFn:
		return tag | (v.fn.id & 0x00FFFFFFFFFFFFFF)
	default:
		return tag
	}
}

// IsIdentical reports whether v and other are the same referent (objects)
// or bit-equal (immediates) — the `is_identical` contract of spec.md §3.1,
// distinct from the user-overridable `==`.
func (v Value) IsIdentical(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	if v.kind == KindObject {
		return v.obj == other.obj
	}
	return v.ID() == other.ID()
}

// TryClone returns a new handle to the same referent for objects, or a bit
// copy for immediates. This never allocates new heap state.
func (v Value) TryClone() Value {
	return v
}

// DeepClone returns a value with the same observable state but, for
// objects, a fresh heap record and a new id (spec.md §3.2). Immediates are
// returned unchanged since they have no heap state to copy.
func (v Value) DeepClone() Value {
	if v.kind != KindObject {
		return v
	}
	return NewObject(v.obj.deepClone())
}

// Typename returns the payload's dynamic type name, used for diagnostics
// and for `@text` style conversions when no Quest-level class overrides it.
func (v Value) Typename() string {
	switch v.kind {
	case KindNull:
		return "Null"
	case KindBoolean:
		return "Boolean"
	case KindSmallInt:
		return "Integer"
	case KindFloat:
		return "Float"
	case KindLiteral:
		return "Literal"
	case KindBuiltinFn:
		return "BuiltinFn"
	case KindObject:
		return v.obj.TypeName()
	default:
		return "Unknown"
	}
}

// TryEq implements the `==` contract of spec.md §4.2: if either operand is
// an Object, dispatch to its `==` attribute; otherwise compare by bit
// equality. callAttr is supplied by the interpreter package to avoid an
// import cycle (value cannot import interp, which needs value).
func (v Value) TryEq(other Value, callAttr func(recv, arg Value) (Value, error)) (bool, error) {
	if v.kind == KindObject || other.kind == KindObject {
		result, err := callAttr(v, other)
		if err != nil {
			return false, err
		}
		b, ok := result.AsBool()
		if !ok {
			return false, fmt.Errorf("== did not return a Boolean")
		}
		return b, nil
	}
	if v.kind != other.kind {
		// Allow cross Int/Float comparison the way arithmetic does.
		if v.kind == KindSmallInt && other.kind == KindFloat {
			iv, _ := v.AsInt()
			return float64(iv) == other.f, nil
		}
		if v.kind == KindFloat && other.kind == KindSmallInt {
			iv, _ := other.AsInt()
			return v.f == float64(iv), nil
		}
		return false, nil
	}
	return v.ID() == other.ID(), nil
}
