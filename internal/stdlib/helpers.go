package stdlib

import (
	"github.com/quest-lang/quest/internal/intern"
	"github.com/quest-lang/quest/internal/value"
)

var (
	eqLit     = intern.Intern("==")
	atBoolLit = intern.Intern("@bool")
	atTextLit = intern.Intern("@text")
)

// mustThis/mustArg read an Args slot, returning the zero Value on failure.
// Used only where a prior arity check (or the operator dispatch contract
// itself) already guarantees the slot is present.
func mustThis(args value.Args) value.Value {
	v, _ := args.This()
	return v
}

func mustArg(args value.Args, i int) value.Value {
	v, _ := args.Arg(i)
	return v
}
