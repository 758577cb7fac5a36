package stdlib

import (
	"io"
	"os"
	"testing"

	"github.com/quest-lang/quest/internal/parser"
	"github.com/quest-lang/quest/internal/value"
	"github.com/stretchr/testify/require"
)

// captureStdout redirects os.Stdout for the duration of fn and returns
// whatever it wrote, the way `disp` surfaces output to a caller.
func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	r, w, err := os.Pipe()
	require.NoError(t, err)
	orig := os.Stdout
	os.Stdout = w
	defer func() { os.Stdout = orig }()

	fn()

	require.NoError(t, w.Close())
	out, err := io.ReadAll(r)
	require.NoError(t, err)
	return string(out)
}

func runSource(t *testing.T, src string) (value.Value, error) {
	t.Helper()
	p, err := parser.New("test.qv", src)
	require.NoError(t, err)
	program, err := p.ParseProgram()
	require.NoError(t, err)
	rt := Bootstrap()
	return rt.Eval.Run(program)
}

// S1: arithmetic precedence and `disp`.
func TestDisp_ArithmeticPrecedence(t *testing.T) {
	out := captureStdout(t, func() {
		_, err := runSource(t, "disp(1 + 2 * 3)")
		require.NoError(t, err)
	})
	require.Equal(t, "7\n", out)
}

// S4: while loop + mutation.
func TestWhile_SumsViaMutation(t *testing.T) {
	out := captureStdout(t, func() {
		_, err := runSource(t, `
sum = 0;
i = 0;
while({ i < 5 }, { sum = sum + i; i = i + 1 });
disp(sum)
`)
		require.NoError(t, err)
	})
	require.Equal(t, "10\n", out)
}

// S2: prototype inheritance via object-literal construction, exercising
// both the `$Name` sigil and quoted-string forms of a Text-valued
// assignment LHS (`$Shape = ...`, `"name" = ...`).
func TestPrototypeInheritance_ViaTextLHSAssignment(t *testing.T) {
	out := captureStdout(t, func() {
		_, err := runSource(t, `
$Shape = { "name" = "shape"; __this__ }();
$Circle = { __parents__ = [Shape]; "radius" = 3; __this__ }();
disp(Circle.name, Circle.radius)
`)
		require.NoError(t, err)
	})
	require.Equal(t, "shape 3\n", out)
}

// S3: method binding, built the same `$Name = { "attr" = ...; __this__ }()`
// way the spec's own example does.
func TestMethodBinding_SigilAssignment(t *testing.T) {
	out := captureStdout(t, func() {
		_, err := runSource(t, `
$o = { "x" = 10; "get" = { __this__.x }; __this__ }();
disp(o.get())
`)
		require.NoError(t, err)
	})
	require.Equal(t, "10\n", out)
}

// S5: non-local return escapes exactly to its target frame.
func TestReturn_NonLocalEscapesToTargetFrame(t *testing.T) {
	out := captureStdout(t, func() {
		_, err := runSource(t, `
f = {
  while({ true }, { return(:1, 42) });
  99
};
disp(f())
`)
		require.NoError(t, err)
	})
	require.Equal(t, "42\n", out)
}

// S6: an uncaught attribute-lookup failure surfaces as a typed error.
func TestMissingAttribute_FailsWithFieldError(t *testing.T) {
	_, err := runSource(t, "(1).nosuch")
	require.Error(t, err)
	require.Contains(t, err.Error(), "FieldError")
}

func TestMethodBinding_DottedAccessSeesThis(t *testing.T) {
	out := captureStdout(t, func() {
		_, err := runSource(t, `
o = Basic.clone();
o.x = 10;
o.get = { __this__.x };
disp(o.get())
`)
		require.NoError(t, err)
	})
	require.Equal(t, "10\n", out)
}

func TestListOperators_UnionIntersectionDifference(t *testing.T) {
	out := captureStdout(t, func() {
		_, err := runSource(t, `
a = [1, 2, 3];
b = [2, 3, 4];
disp((a & b).len());
disp((a | b).len());
disp((a - b).len())
`)
		require.NoError(t, err)
	})
	require.Equal(t, "2\n4\n1\n", out)
}

func TestAssert_RaisesOnFalseCondition(t *testing.T) {
	_, err := runSource(t, "assert(1 == 2)")
	require.Error(t, err)
}

func TestNumberArithmetic_PromotesToFloatOnDivision(t *testing.T) {
	out := captureStdout(t, func() {
		_, err := runSource(t, "disp(7 / 2)")
		require.NoError(t, err)
	})
	require.Equal(t, "3.5\n", out)
}

func TestTextConcatenation(t *testing.T) {
	out := captureStdout(t, func() {
		_, err := runSource(t, `disp("foo" + "bar")`)
		require.NoError(t, err)
	})
	require.Equal(t, "foobar\n", out)
}

func TestBootstrap_ClassHierarchyIsWired(t *testing.T) {
	rt := Bootstrap()
	require.NotNil(t, rt.Eval)
	for _, c := range []*value.Object{rt.Pristine, rt.Basic, rt.Boolean, rt.Number, rt.Text, rt.NullObj, rt.List, rt.Kernel} {
		require.NotNil(t, c)
	}
}
