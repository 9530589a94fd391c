package parser

import (
	"errors"
	"fmt"
	"strings"

	"vex/internal/diagnostics"
	"vex/internal/frontend/ast"
	"vex/internal/source"
	"vex/internal/tokens"
)

// Parser turns a token stream into a flat AST. It is created per file.
//
// cursor always points at the last consumed token. It starts on the
// start-of-file sentinel, so lookahead begins at cursor+1 and position 0 is
// always safe. The rollback stack records where each scoped production
// began; node spans run from the token after that point to the cursor.
type Parser struct {
	tokens   []tokens.Token
	cursor   int
	rollback []int
	ast      *ast.Store
}

// Options are context flags threaded through one expression parse. They are
// passed by value so a flag never leaks into an unrelated call site.
type Options struct {
	// NoExtendedCall stops `{` from being read as `f(x) { body }`.
	NoExtendedCall bool
	// NoObjectCall stops `{` from being read as `Point { x: 1 }`.
	NoObjectCall bool
	// NoOrPattern stops `|` from joining patterns, for lambda parameters.
	NoOrPattern bool
	// Statement ends the expression right after a block-like prefix, so
	// `while c { x }` followed by `-1` is two elements.
	Statement bool
}

// condition is the mode for if/while/for heads, where `{` opens the body.
var condition = Options{NoExtendedCall: true, NoObjectCall: true}

// errBelongsToOuter is returned by a postfix attempt when the lookahead
// belongs to an enclosing construct. The Pratt loop stops without error.
var errBelongsToOuter = errors.New("token belongs to outer context")

func New(file *source.File, toks []tokens.Token) *Parser {
	if len(toks) == 0 || toks[0].Kind != tokens.SOF_TOKEN {
		toks = append([]tokens.Token{tokens.NewToken(tokens.SOF_TOKEN, 0, 0)}, toks...)
	}
	if toks[len(toks)-1].Kind != tokens.EOF_TOKEN {
		end := toks[len(toks)-1].To
		toks = append(toks, tokens.NewToken(tokens.EOF_TOKEN, end, end))
	}
	return &Parser{
		tokens: toks,
		ast:    ast.NewStore(file),
	}
}

// AST returns the store the parser appends to.
func (p *Parser) AST() *ast.Store { return p.ast }

// Cursor exposes the cursor for rollback checks in tests.
func (p *Parser) Cursor() int { return p.cursor }

// Parse parses a whole file. The File node becomes the root. Errors in one
// top-level element are collected and parsing resumes at the next element.
func Parse(file *source.File, toks []tokens.Token) (*ast.Store, []*Error) {
	p := New(file, toks)
	root, errs := p.parseFile()
	p.ast.SetRoot(root)
	return p.ast, errs
}

// ParseExpr parses a single expression that must span the whole input.
func ParseExpr(file *source.File, toks []tokens.Token) (*ast.Store, ast.Index, error) {
	p := New(file, toks)
	return p.parseWhole("expression", func() (ast.Index, error) {
		return p.tryExprPratt(0, Options{})
	})
}

// ParsePattern parses a single pattern that must span the whole input.
func ParsePattern(file *source.File, toks []tokens.Token) (*ast.Store, ast.Index, error) {
	p := New(file, toks)
	return p.parseWhole("pattern", func() (ast.Index, error) {
		return p.tryPatternPratt(0, Options{})
	})
}

// ParseType parses a single type that must span the whole input.
func ParseType(file *source.File, toks []tokens.Token) (*ast.Store, ast.Index, error) {
	p := New(file, toks)
	return p.parseWhole("type", p.tryType)
}

func (p *Parser) parseWhole(what string, f func() (ast.Index, error)) (*ast.Store, ast.Index, error) {
	idx, err := f()
	if err == nil && idx == ast.NoIndex {
		err = p.errorf(diagnostics.ErrInvalidExpression, "expected %s", what)
	}
	if err == nil && !p.peek(tokens.EOF_TOKEN) {
		err = p.unexpected(tokens.EOF_TOKEN)
	}
	p.ast.SetRoot(idx)
	return p.ast, idx, err
}

// peekAt returns the token n places after the cursor, clamped to EOF.
func (p *Parser) peekAt(n int) tokens.Token {
	i := p.cursor + 1 + n
	if i >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[i]
}

// peek reports whether the upcoming tokens are exactly expected, in order.
func (p *Parser) peek(expected ...tokens.TOKEN) bool {
	for i, kind := range expected {
		if p.peekAt(i).Kind != kind {
			return false
		}
	}
	return true
}

// eat consumes one token of kind, or does nothing.
func (p *Parser) eat(kind tokens.TOKEN) bool {
	if !p.peek(kind) {
		return false
	}
	p.bump()
	return true
}

func (p *Parser) bump() tokens.Token {
	if p.cursor+1 < len(p.tokens) {
		p.cursor++
	}
	return p.tokens[p.cursor]
}

// last is the most recently consumed token.
func (p *Parser) last() tokens.Token {
	return p.tokens[p.cursor]
}

func (p *Parser) expect(kind tokens.TOKEN) (tokens.Token, error) {
	if p.peek(kind) {
		return p.bump(), nil
	}
	return tokens.Token{}, p.unexpected(kind)
}

// span covers the tokens consumed since the innermost scoped call began.
func (p *Parser) span() source.Span {
	top := p.cursor
	if n := len(p.rollback); n > 0 {
		top = p.rollback[n-1]
	}
	from := p.peekAtIndex(top + 1).From
	if p.cursor <= top {
		return source.Span{From: from, To: from}
	}
	return source.Span{From: from, To: p.tokens[p.cursor].To}
}

func (p *Parser) peekAtIndex(i int) tokens.Token {
	if i >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[i]
}

// node appends a node spanning the current scope.
func (p *Parser) node(kind ast.Kind, slots ...ast.Slot) ast.Index {
	return p.ast.Append(kind, p.span(), slots...)
}

// leaf consumes one token and appends a childless node for it.
func (p *Parser) leaf(kind ast.Kind) ast.Index {
	tok := p.bump()
	return p.ast.Append(kind, tok.Span())
}

// scoped brackets f with a rollback point so nodes built inside get the
// right span. It does not restore the cursor on error.
func scoped[T any](p *Parser, f func() (T, error)) (T, error) {
	p.rollback = append(p.rollback, p.cursor)
	defer func() { p.rollback = p.rollback[:len(p.rollback)-1] }()
	return f()
}

// expectPrefix runs f only if the upcoming tokens match prefix. The prefix
// is consumed inside the scope, so the span includes it. On a mismatch
// nothing is consumed and the zero value is returned.
func expectPrefix[T any](p *Parser, prefix []tokens.TOKEN, f func() (T, error)) (T, error) {
	if !p.peek(prefix...) {
		var zero T
		return zero, nil
	}
	return scoped(p, func() (T, error) {
		for range prefix {
			p.bump()
		}
		return f()
	})
}

// speculate runs f and rewinds the cursor unless it produced a node.
// Nodes appended by a failed attempt stay in the store, unreferenced.
func (p *Parser) speculate(f func() (ast.Index, error)) ast.Index {
	saved := p.cursor
	idx, err := f()
	if err != nil || idx == ast.NoIndex {
		p.cursor = saved
		return ast.NoIndex
	}
	return idx
}

// rule is one alternative of a sequence. sep is the token that terminates
// or separates elements; empty means none.
type rule struct {
	name  string
	parse func() (ast.Index, error)
	sep   tokens.TOKEN
}

// tryMulti parses elements until no rule matches. Each element may carry a
// chain of `^attr` prefixes that wrap it, outermost first.
func (p *Parser) tryMulti(rules []rule) ([]ast.Index, error) {
	var out []ast.Index
	for {
		start := p.peekAt(0)
		attrs, err := p.attributes()
		if err != nil {
			return out, err
		}

		elem, matched, err := p.firstMatch(rules)
		if err != nil {
			return out, err
		}
		if elem == ast.NoIndex {
			if len(attrs) > 0 {
				return out, p.errorf(diagnostics.ErrExpectedToken, "expected %s after attribute", ruleNames(rules))
			}
			return out, nil
		}

		for i := len(attrs) - 1; i >= 0; i-- {
			elem = p.ast.Append(ast.Attribute, source.Span{From: start.From, To: p.last().To}, ast.One(attrs[i]), ast.One(elem))
		}
		out = append(out, elem)

		if matched.sep == "" {
			continue
		}
		if p.eat(matched.sep) {
			continue
		}
		if matched.sep == tokens.COMMA_TOKEN {
			return out, nil
		}
		// A missing terminator is fine before a closing brace, at the end
		// of input, or after anything that itself ended with `}`.
		if p.peek(tokens.CLOSE_CURLY) || p.peek(tokens.EOF_TOKEN) || p.last().Kind == tokens.CLOSE_CURLY {
			continue
		}
		return out, p.unexpected(matched.sep)
	}
}

func (p *Parser) firstMatch(rules []rule) (ast.Index, rule, error) {
	for _, r := range rules {
		idx, err := r.parse()
		if err != nil {
			return ast.NoIndex, r, err
		}
		if idx != ast.NoIndex {
			return idx, r, nil
		}
	}
	return ast.NoIndex, rule{}, nil
}

func (p *Parser) attributes() ([]ast.Index, error) {
	var attrs []ast.Index
	for p.eat(tokens.BIT_XOR_TOKEN) {
		attr, err := p.tryExprPratt(0, condition)
		if err != nil {
			return nil, err
		}
		if attr == ast.NoIndex {
			return nil, p.errorf(diagnostics.ErrInvalidExpression, "expected attribute expression after `^`")
		}
		attrs = append(attrs, attr)
	}
	return attrs, nil
}

// tryMultiWithBracket is tryMulti between open and close. A missing open
// is absence; a missing close is an error naming what was legal there.
func (p *Parser) tryMultiWithBracket(rules []rule, open, close tokens.TOKEN) ([]ast.Index, bool, error) {
	if !p.eat(open) {
		return nil, false, nil
	}
	out, err := p.tryMulti(rules)
	if err != nil {
		return out, true, err
	}
	if !p.eat(close) {
		return out, true, p.errorf(diagnostics.ErrExpectedToken, "expected %s or `%s`", ruleNames(rules), close)
	}
	return out, true, nil
}

func ruleNames(rules []rule) string {
	names := make([]string, len(rules))
	for i, r := range rules {
		names[i] = r.name
	}
	if len(names) == 1 {
		return names[0]
	}
	return "one of " + strings.Join(names, ", ")
}

// Error is a malformed construct: something was clearly started and then
// broken. Absence is never an error.
type Error struct {
	Code     string
	Message  string
	Found    tokens.TOKEN
	Expected []tokens.TOKEN
	Span     source.Span
}

func (e *Error) Error() string {
	return e.Message
}

// Diagnostic converts the error for the emitter.
func (e *Error) Diagnostic(file *source.File) *diagnostics.Diagnostic {
	label := fmt.Sprintf("found %s", describe(e.Found))
	diag := diagnostics.NewError(e.Message).
		WithCode(e.Code).
		WithPrimaryLabel(file.Path, file.Location(e.Span), label)
	if len(e.Expected) > 1 {
		diag.WithNote("expected one of " + describeAll(e.Expected))
	}
	return diag
}

func (p *Parser) unexpected(expected ...tokens.TOKEN) *Error {
	found := p.peekAt(0)
	msg := fmt.Sprintf("unexpected %s", describe(found.Kind))
	code := diagnostics.ErrUnexpectedToken
	if len(expected) > 0 {
		msg = fmt.Sprintf("expected %s, found %s", describeAll(expected), describe(found.Kind))
		code = diagnostics.ErrExpectedToken
	}
	return &Error{Code: code, Message: msg, Found: found.Kind, Expected: expected, Span: found.Span()}
}

func (p *Parser) errorf(code, format string, args ...any) *Error {
	found := p.peekAt(0)
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...) + ", found " + describe(found.Kind),
		Found:   found.Kind,
		Span:    found.Span(),
	}
}

func describe(kind tokens.TOKEN) string {
	switch kind {
	case tokens.IDENTIFIER_TOKEN, tokens.INT_TOKEN, tokens.REAL_TOKEN, tokens.STRING_TOKEN,
		tokens.CHAR_TOKEN, tokens.SOF_TOKEN, tokens.EOF_TOKEN:
		return strings.ReplaceAll(string(kind), "_", " ")
	}
	return "`" + string(kind) + "`"
}

func describeAll(kinds []tokens.TOKEN) string {
	parts := make([]string, len(kinds))
	for i, k := range kinds {
		parts[i] = describe(k)
	}
	return strings.Join(parts, ", ")
}
