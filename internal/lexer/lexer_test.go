package lexer

import "testing"

func TestTokenize_BasicTokens(t *testing.T) {
	input := `x = 1 + 2 * foo.bar`

	l := New("test.qv", input)
	toks, err := l.Tokenize()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var kinds []Kind
	for _, tok := range toks {
		if tok.Kind == Endline {
			continue
		}
		kinds = append(kinds, tok.Kind)
	}

	want := []Kind{Variable, Operator, Number, Operator, Number, Operator, Variable, Operator, Variable, EOF}
	if len(kinds) != len(want) {
		t.Fatalf("token count mismatch: got %v, want %v", kinds, want)
	}
	for i, k := range want {
		if kinds[i] != k {
			t.Errorf("token %d: got %v, want %v", i, kinds[i], k)
		}
	}
}

func TestTokenize_Numbers(t *testing.T) {
	tests := []struct {
		src      string
		isFloat  bool
		intVal   int64
		floatVal float64
	}{
		{"42", false, 42, 0},
		{"3.14", true, 0, 3.14},
		{"0x1A", false, 26, 0},
		{"0b101", false, 5, 0},
	}
	for _, tt := range tests {
		l := New("test.qv", tt.src)
		toks, err := l.Tokenize()
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", tt.src, err)
		}
		if len(toks) == 0 || toks[0].Kind != Number {
			t.Fatalf("%s: expected a Number token, got %v", tt.src, toks)
		}
		tok := toks[0]
		if tok.IsFloat != tt.isFloat {
			t.Errorf("%s: IsFloat = %v, want %v", tt.src, tok.IsFloat, tt.isFloat)
		}
		if !tt.isFloat && tok.IntVal != tt.intVal {
			t.Errorf("%s: IntVal = %d, want %d", tt.src, tok.IntVal, tt.intVal)
		}
		if tt.isFloat && tok.FloatVal != tt.floatVal {
			t.Errorf("%s: FloatVal = %f, want %f", tt.src, tok.FloatVal, tt.floatVal)
		}
	}
}

func TestTokenize_StackPos(t *testing.T) {
	l := New("test.qv", ":1")
	toks, err := l.Tokenize()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if toks[0].Kind != StackPos || toks[0].StackDepth != 1 {
		t.Fatalf("got %v, want StackPos(1)", toks[0])
	}
}

func TestTokenize_TextEscapes(t *testing.T) {
	l := New("test.qv", `"hi\n"`)
	toks, err := l.Tokenize()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if toks[0].Kind != Text || toks[0].Text != "hi\n" {
		t.Fatalf("got %q, want %q", toks[0].Text, "hi\n")
	}
}

func TestTokenize_RegexVsDivisionDisambiguation(t *testing.T) {
	// After an operand, `/` is division; at the start of an expression it
	// opens a regex literal (spec.md §4.7).
	l := New("test.qv", "a / b")
	toks, err := l.Tokenize()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if toks[1].Kind != Operator || toks[1].Op != "/" {
		t.Fatalf("expected division operator, got %v", toks[1])
	}
}

func TestTokenize_IllegalCharacter(t *testing.T) {
	l := New("test.qv", "`")
	if _, err := l.Tokenize(); err == nil {
		t.Fatal("expected a lex error for an illegal character")
	}
}
