package qerror

import (
	"fmt"

	"github.com/quest-lang/quest/internal/value"
)

// QuestException wraps a Quest-level Value raised as an error from user
// code (spec.md §7's QuestException variant) — e.g. `raise(SomeException)`.
type QuestException struct {
	QuestError
	Value value.Value
}

// NewQuestException wraps v as a QuestException whose Message is the text
// describe(v) returns.
func NewQuestException(v value.Value, describe func(value.Value) string) *QuestException {
	msg := describe(v)
	return &QuestException{
		QuestError: QuestError{
			Kind:    KindQuest,
			Message: msg,
		},
		Value: v,
	}
}

// Return is the non-local exit control-flow signal of spec.md §4.10/§7:
// `return(target, value)` unwinds frames until the one whose binding
// identity equals Target, at which point the call evaluates to Value
// instead of propagating further. It is modeled as an error so it uses
// ordinary Go error-propagation through the evaluator, matching how the
// teacher's vm package threads abrupt completions back up the call stack.
type Return struct {
	Target value.Value // the target frame's binding Object, matched by identity
	Value  value.Value
}

func (r *Return) Error() string {
	return fmt.Sprintf("return to frame %v escaped its target (uncaught non-local return)", r.Target)
}

// NewReturn constructs a Return control signal.
func NewReturn(target, v value.Value) *Return {
	return &Return{Target: target, Value: v}
}

// AsReturn reports whether err is a Return signal, for the one place
// (Binding's defer-equivalent in interp) that must catch it specially
// rather than letting it propagate as an ordinary failure.
func AsReturn(err error) (*Return, bool) {
	r, ok := err.(*Return)
	return r, ok
}
