// Package parser implements quest's operator-precedence (Pratt) parser,
// following the teacher's two-token-lookahead recursive-descent structure
// (pkg/parser.Parser's curTok/peekTok window) but built around spec.md
// §4.8's fixed precedence table, first-class block literals, and implicit
// call-by-juxtaposition grammar instead of smog's Smalltalk-style
// unary/binary/keyword message grammar.
package parser

import (
	"fmt"

	"github.com/quest-lang/quest/internal/ast"
	"github.com/quest-lang/quest/internal/lexer"
)

// Parser holds the token-lookahead window over one source file.
type Parser struct {
	file string
	lex  *lexer.Lexer
	cur  lexer.Token
	peek lexer.Token
}

// New creates a Parser over src, attributing diagnostics to file.
func New(file, src string) (*Parser, error) {
	p := &Parser{file: file, lex: lexer.New(file, src)}
	if err := p.advance(); err != nil {
		return nil, err
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Parser) advance() error {
	p.cur = p.peek
	tok, err := p.lex.Next()
	if err != nil {
		return err
	}
	p.peek = tok
	return nil
}

func (p *Parser) errf(format string, args ...interface{}) error {
	return &lexer.Error{File: p.file, Line: p.cur.Line, Col: p.cur.Col, Message: fmt.Sprintf(format, args...)}
}

func (p *Parser) expect(kind lexer.Kind) error {
	if p.cur.Kind != kind {
		return p.errf("expected %s, got %s %q", kind, p.cur.Kind, p.cur.Raw)
	}
	return p.advance()
}

// ParseProgram parses an entire source file as the implicit top-level `()`
// block (spec.md §6.2: a source file's sequence of lines evaluates to its
// final line's value, exactly as a `()` block does).
func (p *Parser) ParseProgram() (*ast.BlockLit, error) {
	lines, err := p.parseLines(lexer.EOF, 0, 0)
	if err != nil {
		return nil, err
	}
	return &ast.BlockLit{Kind: '(', Lines: lines}, nil
}

// parseLines parses the `inner := (line (';' line)* ';'?)?` production of
// spec.md §4.8, stopping when cur is a token of stopKind (EOF for the
// top-level program, RParen for a nested block).
func (p *Parser) parseLines(stopKind lexer.Kind, line, col int) ([]ast.Line, error) {
	var lines []ast.Line
	p.skipLeadingEndlines()
	for p.cur.Kind != stopKind {
		ln, err := p.parseLine()
		if err != nil {
			return nil, err
		}
		lines = append(lines, ln)
		if p.cur.Kind == lexer.Endline {
			if err := p.advance(); err != nil {
				return nil, err
			}
			continue
		}
		if p.cur.Kind == stopKind {
			break
		}
		return nil, p.errf("expected ';', newline, or closing bracket, got %s %q", p.cur.Kind, p.cur.Raw)
	}
	return lines, nil
}

func (p *Parser) skipLeadingEndlines() {
	for p.cur.Kind == lexer.Endline {
		_ = p.advance()
	}
}

// parseLine parses `line := expr (',' expr)*`.
func (p *Parser) parseLine() (ast.Line, error) {
	first, err := p.parseExpr(0)
	if err != nil {
		return ast.Line{}, err
	}
	exprs := []ast.Expr{first}
	for p.cur.Kind == lexer.Comma {
		if err := p.advance(); err != nil {
			return ast.Line{}, err
		}
		e, err := p.parseExpr(0)
		if err != nil {
			return ast.Line{}, err
		}
		exprs = append(exprs, e)
	}
	return ast.Line{Exprs: exprs}, nil
}

// infixBP gives each binary operator's binding power, derived from
// spec.md §4.8's precedence table (tighter operators get a higher value).
// `.`/`::` and call/index are handled directly in parsePostfix, not here.
var infixBP = map[string]int{
	"**": 110,
	"*":  90, "/": 90, "%": 90,
	"+": 80, "-": 80,
	"<<": 70, ">>": 70,
	"&": 60,
	"|": 50, "^": 50,
	"<": 40, "<=": 40, ">": 40, ">=": 40,
	"<=>": 30, "==": 30, "!=": 30,
	"&&": 20,
	"||": 10,
	"=": 0, ".=": 0, "+=": 0, "-=": 0, "*=": 0, "/=": 0, "%=": 0, "**=": 0,
	"<<=": 0, ">>=": 0, "&=": 0, "|=": 0, "^=": 0,
}

// rightAssoc reports whether op nests right-to-left. Every assignment
// operator is right-associative per spec.md §4.8; `**` is pinned
// left-associative (see DESIGN.md's Open Question decision — the spec's
// own table contradicts itself, marking `**` "R (per pow), L in repo").
func rightAssoc(op string) bool {
	switch op {
	case "=", ".=", "+=", "-=", "*=", "/=", "%=", "**=", "<<=", ">>=", "&=", "|=", "^=":
		return true
	default:
		return false
	}
}

// parseExpr implements precedence climbing: minBP is the loosest binding
// power this call is willing to consume.
func (p *Parser) parseExpr(minBP int) (ast.Expr, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for p.cur.Kind == lexer.Operator {
		bp, ok := infixBP[p.cur.Op]
		if !ok || bp < minBP {
			break
		}
		op := p.cur.Op
		line, col := p.cur.Line, p.cur.Col
		if err := p.advance(); err != nil {
			return nil, err
		}
		nextMin := bp + 1
		if rightAssoc(op) {
			nextMin = bp
		}
		right, err := p.parseExpr(nextMin)
		if err != nil {
			return nil, err
		}
		left = p.combineInfix(line, col, op, left, right)
	}
	return left, nil
}

// combineInfix builds the AST node for a binary operator, applying
// spec.md §4.8's dot-assignment rewrite when `=` follows a `.` access.
func (p *Parser) combineInfix(line, col int, op string, left, right ast.Expr) ast.Expr {
	if op == "=" {
		if dot, ok := left.(*ast.InfixExpr); ok && dot.Op == "." {
			return &ast.DotAssignExpr{Recv: dot.Left, Name: dot.Right, RHS: right}
		}
	}
	return &ast.InfixExpr{Op: op, Left: left, Right: right}
}

// parseUnary handles the two prefix tiers of spec.md §4.8 (`! ~ +@` at
// precedence 2, `-@` at precedence 4) and otherwise falls through to the
// postfix chain (`.` `::` call/index, precedence 0/1).
func (p *Parser) parseUnary() (ast.Expr, error) {
	if p.cur.Kind == lexer.Operator {
		switch p.cur.Op {
		case "!", "~", "+":
			op := p.cur.Op
			if op == "+" {
				op = "+@"
			}
			if err := p.advance(); err != nil {
				return nil, err
			}
			x, err := p.parsePostfixFromPrimary()
			if err != nil {
				return nil, err
			}
			return &ast.PrefixExpr{Op: op, X: x}, nil
		case "-":
			if err := p.advance(); err != nil {
				return nil, err
			}
			// `-@` sits between `**` (tighter) and `*`/`/`/`%` (looser): its
			// operand absorbs `**` but not the multiplicative tier.
			x, err := p.parseExpr(infixBP["**"])
			if err != nil {
				return nil, err
			}
			return &ast.PrefixExpr{Op: "-@", X: x}, nil
		}
	}
	return p.parsePostfixFromPrimary()
}

func (p *Parser) parsePostfixFromPrimary() (ast.Expr, error) {
	prim, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	return p.parsePostfix(prim)
}

// canStartExpr reports whether tok, seen directly after a primary with no
// intervening operator, should trigger the implicit-call rewrite of
// spec.md §4.8 ("a b" parses as "a(b)").
func canStartExpr(tok lexer.Token) bool {
	switch tok.Kind {
	case lexer.Number, lexer.Text, lexer.Variable, lexer.Regex, lexer.StackPos, lexer.LParen:
		return true
	default:
		return false
	}
}

// parsePostfix applies, left to right, every precedence-0/1 postfix
// operator: `.`/`::` access, explicit `()`/`[]` call/index, and the
// implicit call rewrite for bare juxtaposition.
func (p *Parser) parsePostfix(left ast.Expr) (ast.Expr, error) {
	for {
		switch {
		case p.cur.Kind == lexer.Operator && (p.cur.Op == "." || p.cur.Op == "::"):
			op := p.cur.Op
			if err := p.advance(); err != nil {
				return nil, err
			}
			name, err := p.parsePrimary()
			if err != nil {
				return nil, err
			}
			left = &ast.InfixExpr{Op: op, Left: left, Right: name}

		case p.cur.Kind == lexer.LParen && p.cur.Paren == lexer.Paren('('):
			block, err := p.parseBlockLit()
			if err != nil {
				return nil, err
			}
			left = &ast.CallExpr{Fn: left, Arg: block}

		case p.cur.Kind == lexer.LParen && p.cur.Paren == lexer.Paren('['):
			block, err := p.parseBlockLit()
			if err != nil {
				return nil, err
			}
			left = &ast.IndexExpr{Recv: left, Arg: block}

		case canStartExpr(p.cur):
			arg, err := p.parsePostfixFromPrimary()
			if err != nil {
				return nil, err
			}
			block, ok := arg.(*ast.BlockLit)
			if !ok {
				block = &ast.BlockLit{Kind: '(', Lines: []ast.Line{{Exprs: []ast.Expr{arg}}}}
			}
			left = &ast.CallExpr{Fn: left, Arg: block}

		default:
			return left, nil
		}
	}
}

// parsePrimary parses a single literal, variable, stack position, or
// block literal — never an operator.
func (p *Parser) parsePrimary() (ast.Expr, error) {
	tok := p.cur
	switch tok.Kind {
	case lexer.Number:
		if err := p.advance(); err != nil {
			return nil, err
		}
		return &ast.NumberLit{IsFloat: tok.IsFloat, IntVal: tok.IntVal, FloatVal: tok.FloatVal, Raw: tok.Raw}, nil
	case lexer.Text:
		if err := p.advance(); err != nil {
			return nil, err
		}
		return &ast.TextLit{Value: tok.Text}, nil
	case lexer.Regex:
		if err := p.advance(); err != nil {
			return nil, err
		}
		return &ast.RegexLit{Body: tok.RegexBody, Flags: tok.RegexFlag}, nil
	case lexer.Variable:
		if err := p.advance(); err != nil {
			return nil, err
		}
		return &ast.Variable{Name: tok.Name}, nil
	case lexer.StackPos:
		if err := p.advance(); err != nil {
			return nil, err
		}
		return &ast.StackPosLit{Depth: tok.StackDepth}, nil
	case lexer.LParen:
		return p.parseBlockLit()
	default:
		return nil, p.errf("unexpected token %s %q", tok.Kind, tok.Raw)
	}
}

// parseBlockLit parses a `()`/`[]`/`{}` block literal, with cur positioned
// at the opening bracket.
func (p *Parser) parseBlockLit() (*ast.BlockLit, error) {
	open := p.cur
	kind := byte(open.Paren)
	if err := p.advance(); err != nil {
		return nil, err
	}
	lines, err := p.parseLines(lexer.RParen, open.Line, open.Col)
	if err != nil {
		return nil, err
	}
	if p.cur.Kind != lexer.RParen || byte(p.cur.Paren) != kind {
		return nil, p.errf("mismatched closing bracket for %q opened at %d:%d", string(kind), open.Line, open.Col)
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	return &ast.BlockLit{Kind: kind, Lines: lines}, nil
}
