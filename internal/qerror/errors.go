// Package qerror implements the error taxonomy of spec.md §7, modeled on
// the teacher's pkg/vm RuntimeError/StackFrame pair: every Quest-level
// failure records the Go call site it was built at (via pkg/errors) and
// propagates as a plain Go error until something catches it. Its
// interpreter-level Frames list grows only through WithFrame, which the
// evaluator does not call, so errors it raises carry no frames.
package qerror

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// Frame is a single call-stack entry captured at error-construction time.
type Frame struct {
	Name string // binding/function description
	File string
	Line int
	Col  int
}

func (f Frame) String() string {
	if f.File == "" {
		return f.Name
	}
	return fmt.Sprintf("%s (%s:%d:%d)", f.Name, f.File, f.Line, f.Col)
}

// Kind tags which taxonomy member an error belongs to (spec.md §7).
type Kind string

const (
	KindArgument  Kind = "ArgumentError"
	KindType      Kind = "TypeError"
	KindValue     Kind = "ValueError"
	KindField     Kind = "FieldError"
	KindAssertion Kind = "AssertionFailed"
	KindMessaged  Kind = "Messaged"
	KindCustom    Kind = "Exception"
	KindQuest     Kind = "QuestException"
)

// QuestError is the concrete error type every Quest-level failure is
// wrapped in. It captures the Go call stack (via github.com/pkg/errors) at
// construction time, matching spec.md §7's "Custom(Exception): ... captures
// a stack trace at construction". Frames holds interpreter-level frames
// added with WithFrame; it is empty on errors raised by the evaluator.
type QuestError struct {
	Kind    Kind
	Message string
	Frames  []Frame
	cause   error // github.com/pkg/errors-wrapped, carries the Go stack
}

func (e *QuestError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s", e.Kind, e.Message)
	return b.String()
}

// Unwrap exposes the pkg/errors-captured stack to errors.Is/As callers.
func (e *QuestError) Unwrap() error { return e.cause }

// StackTrace formats the interpreter-level frames, innermost last, matching
// spec.md §7's user-visible failure format.
func (e *QuestError) StackTrace() string {
	var b strings.Builder
	for i := len(e.Frames) - 1; i >= 0; i-- {
		fmt.Fprintf(&b, "  at %s\n", e.Frames[i].String())
	}
	return b.String()
}

// WithFrame appends a call-stack frame as the error unwinds through nested
// calls, innermost-first at append time (StackTrace reverses for display).
func (e *QuestError) WithFrame(f Frame) *QuestError {
	e.Frames = append(e.Frames, f)
	return e
}

func newError(kind Kind, msg string) *QuestError {
	return &QuestError{
		Kind:    kind,
		Message: msg,
		cause:   errors.New(msg),
	}
}

// Argumentf builds an ArgumentError (wrong arity / bad argument kinds).
func Argumentf(format string, args ...interface{}) *QuestError {
	return newError(KindArgument, fmt.Sprintf(format, args...))
}

// Typef builds a TypeError.
func Typef(format string, args ...interface{}) *QuestError {
	return newError(KindType, fmt.Sprintf(format, args...))
}

// Valuef builds a ValueError.
func Valuef(format string, args ...interface{}) *QuestError {
	return newError(KindValue, fmt.Sprintf(format, args...))
}

// Fieldf builds a FieldError / KeyError.
func Fieldf(format string, args ...interface{}) *QuestError {
	return newError(KindField, fmt.Sprintf(format, args...))
}

// AssertionFailed builds an AssertionFailed error for a false `assert`.
func AssertionFailed(msg string) *QuestError {
	if msg == "" {
		msg = "assertion failed"
	}
	return newError(KindAssertion, msg)
}

// Messagedf builds a generic string-bearing library error.
func Messagedf(format string, args ...interface{}) *QuestError {
	return newError(KindMessaged, fmt.Sprintf(format, args...))
}

// Wrap builds a Custom(Exception) that wraps an arbitrary Go error,
// capturing its pkg/errors stack trace (or attaching one if it doesn't
// have it yet).
func Wrap(err error, msg string) *QuestError {
	return &QuestError{
		Kind:    KindCustom,
		Message: msg,
		cause:   errors.WithStack(err),
	}
}

// FromAttrError adapts a value.MissingAttrError-shaped error (by duck-typed
// Error() string) into a FieldError, the mapping spec.md §7 prescribes for
// attribute-lookup misses.
func FromAttrError(err error) *QuestError {
	return newError(KindField, err.Error())
}
