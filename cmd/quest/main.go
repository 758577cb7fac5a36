// Command quest runs quest source files (spec.md §6.1).
package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/quest-lang/quest/internal/intern"
	"github.com/quest-lang/quest/internal/parser"
	"github.com/quest-lang/quest/internal/qerror"
	"github.com/quest-lang/quest/internal/stdlib"
	"github.com/quest-lang/quest/internal/value"
)

const version = "0.1.0"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "version", "-v", "--version":
		fmt.Printf("quest version %s\n", version)
	case "help", "-h", "--help":
		printUsage()
	case "run":
		if len(os.Args) < 3 {
			fmt.Println("Error: no file specified")
			printUsage()
			os.Exit(1)
		}
		runFile(os.Args[2], os.Args[3:])
	default:
		runFile(os.Args[1], os.Args[2:])
	}
}

func printUsage() {
	fmt.Println("quest - a small prototype-based scripting language")
	fmt.Println("\nUsage:")
	fmt.Println("  quest <file> [args...]     Run a .qv source file")
	fmt.Println("  quest run <file> [args...] Run a .qv source file")
	fmt.Println("  quest version              Show version")
	fmt.Println("  quest help                 Show this help")
}

// runFile reads, parses and evaluates filename, binding extraArgs as the
// program's `_0.._n`/`__args__` on the root stackframe, and exits non-zero
// after reportFailure prints an uncaught failure to stderr. A positive
// integer in QUEST_MAX_LOOKUP_DEPTH replaces value.MaxLookupDepth.
func runFile(filename string, extraArgs []string) {
	if s := os.Getenv("QUEST_MAX_LOOKUP_DEPTH"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 {
			fmt.Fprintf(os.Stderr, "Error: invalid QUEST_MAX_LOOKUP_DEPTH %q\n", s)
			os.Exit(1)
		}
		value.MaxLookupDepth = n
	}

	src, err := os.ReadFile(filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading file: %v\n", err)
		os.Exit(1)
	}

	p, err := parser.New(filename, string(src))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Parse error: %v\n", err)
		os.Exit(1)
	}
	program, err := p.ParseProgram()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Parse error: %v\n", err)
		os.Exit(1)
	}

	rt := stdlib.Bootstrap()
	bindProgramArgs(rt, extraArgs)

	_, err = rt.Eval.Run(program)
	if err != nil {
		reportFailure(err)
		os.Exit(1)
	}

	if err := rt.Wait(); err != nil {
		reportFailure(err)
		os.Exit(1)
	}
}

func bindProgramArgs(rt *stdlib.Runtime, args []string) {
	top := rt.Eval.Stack().Top()
	items := make([]value.Value, len(args))
	for i, a := range args {
		obj := rt.Eval.NewTextObject(a)
		items[i] = value.NewObject(obj)
		lit := intern.Intern(fmt.Sprintf("_%d", i))
		_ = top.SetAttr(value.NewLiteral(lit), items[i])
	}
	_ = top.SetAttr(value.NewLiteral(intern.ArgsAttr), value.NewObject(rt.Eval.NewListObject(items)))
}

// reportFailure prints an uncaught exception as
// `uncaught exception: <kind>: <message>`, followed by the QuestError's
// interpreter-level frames when it has any. The evaluator records no
// frames, so for its errors only that first line is printed, with no
// source file or line.
func reportFailure(err error) {
	qe, ok := err.(*qerror.QuestError)
	if !ok {
		if qex, ok := err.(*qerror.QuestException); ok {
			qe = &qex.QuestError
		} else {
			fmt.Fprintf(os.Stderr, "uncaught exception: %v\n", err)
			return
		}
	}
	fmt.Fprintf(os.Stderr, "uncaught exception: %s: %s\n", qe.Kind, qe.Message)
	if trace := qe.StackTrace(); trace != "" {
		fmt.Fprint(os.Stderr, trace)
	}
}
