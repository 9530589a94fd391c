package parser

import (
	"vex/internal/diagnostics"
	"vex/internal/frontend/ast"
	"vex/internal/tokens"
)

const (
	precGuard = iota + 1
	precOrPattern
	precAsPattern
	precRangePattern
)

// tryPatternPratt is the pattern twin of tryExprPratt. It has its own
// operator set: guards, alternatives, as-bindings and ranges.
func (p *Parser) tryPatternPratt(minPrec int, opts Options) (ast.Index, error) {
	return scoped(p, func() (ast.Index, error) {
		left, err := p.tryPatternPrefix(opts)
		if err != nil || left == ast.NoIndex {
			return left, err
		}

		for {
			next, err := p.tryPatternPostfix(left, opts)
			if err != nil {
				return ast.NoIndex, err
			}
			if next != ast.NoIndex {
				left = next
				continue
			}

			switch {
			case p.peek(tokens.IF_TOKEN) && minPrec <= precGuard:
				p.bump()
				guard, err := p.requireExpr(opts, "guard condition")
				if err != nil {
					return ast.NoIndex, err
				}
				left = p.node(ast.GuardPattern, ast.One(left), ast.One(guard))

			case p.peek(tokens.BIT_OR_TOKEN) && minPrec <= precOrPattern && !opts.NoOrPattern:
				p.bump()
				right, err := p.requirePatternAt(precOrPattern+1, opts)
				if err != nil {
					return ast.NoIndex, err
				}
				left = p.node(ast.OrPattern, ast.One(left), ast.One(right))

			case p.peek(tokens.AS_TOKEN) && minPrec <= precAsPattern:
				p.bump()
				tok, err := p.expect(tokens.IDENTIFIER_TOKEN)
				if err != nil {
					return ast.NoIndex, err
				}
				name := p.ast.Append(ast.Ident, tok.Span())
				left = p.node(ast.AsPattern, ast.One(left), ast.One(name))

			case p.peek(tokens.RANGE_TOKEN) && minPrec <= precRangePattern:
				p.bump()
				right, err := p.requirePatternAt(precRangePattern+1, opts)
				if err != nil {
					return ast.NoIndex, err
				}
				left = p.node(ast.RangePattern, ast.One(left), ast.One(right))

			case p.peek(tokens.RANGE_INCLUSIVE_TOKEN) && minPrec <= precRangePattern:
				p.bump()
				right, err := p.requirePatternAt(precRangePattern+1, opts)
				if err != nil {
					return ast.NoIndex, err
				}
				left = p.node(ast.RangeInclusivePattern, ast.One(left), ast.One(right))

			default:
				return left, nil
			}
		}
	})
}

func (p *Parser) requirePatternAt(minPrec int, opts Options) (ast.Index, error) {
	idx, err := p.tryPatternPratt(minPrec, opts)
	if err != nil {
		return ast.NoIndex, err
	}
	if idx == ast.NoIndex {
		return ast.NoIndex, p.errorf(diagnostics.ErrInvalidExpression, "expected pattern")
	}
	return idx, nil
}

func (p *Parser) requirePattern(opts Options) (ast.Index, error) {
	return p.requirePatternAt(0, opts)
}

func (p *Parser) tryPattern() (ast.Index, error) {
	return p.tryPatternPratt(0, Options{})
}

func (p *Parser) tryPatternPostfix(left ast.Index, opts Options) (ast.Index, error) {
	if !p.isPath(left) {
		return ast.NoIndex, nil
	}
	switch {
	case p.peek(tokens.OPEN_PAREN):
		args, _, err := p.tryMultiWithBracket([]rule{
			{"pattern", p.tryPattern, tokens.COMMA_TOKEN},
		}, tokens.OPEN_PAREN, tokens.CLOSE_PAREN)
		if err != nil {
			return ast.NoIndex, err
		}
		return p.node(ast.ConstructorPattern, ast.One(left), ast.Many(args)), nil

	case p.peek(tokens.OPEN_CURLY) && !opts.NoObjectCall:
		fields, _, err := p.tryMultiWithBracket([]rule{
			{"field pattern", p.tryFieldPattern, tokens.COMMA_TOKEN},
		}, tokens.OPEN_CURLY, tokens.CLOSE_CURLY)
		if err != nil {
			return ast.NoIndex, err
		}
		return p.node(ast.RecordPattern, ast.One(left), ast.Many(fields)), nil

	case p.peek(tokens.DOT_TOKEN, tokens.IDENTIFIER_TOKEN), p.peek(tokens.SCOPE_TOKEN, tokens.IDENTIFIER_TOKEN):
		p.bump()
		segment := p.leaf(ast.Ident)
		return p.node(ast.Select, ast.One(left), ast.One(segment)), nil
	}
	return ast.NoIndex, nil
}

// tryFieldPattern is `name: pattern` or the shorthand `name`.
func (p *Parser) tryFieldPattern() (ast.Index, error) {
	return expectPrefix(p, []tokens.TOKEN{tokens.IDENTIFIER_TOKEN}, func() (ast.Index, error) {
		name := p.ast.Append(ast.Ident, p.last().Span())
		var pattern ast.Index
		if p.eat(tokens.COLON_TOKEN) {
			var err error
			if pattern, err = p.requirePattern(Options{}); err != nil {
				return ast.NoIndex, err
			}
		}
		return p.node(ast.FieldPattern, ast.One(name), ast.One(pattern)), nil
	})
}

func (p *Parser) tryPatternPrefix(opts Options) (ast.Index, error) {
	switch p.peekAt(0).Kind {
	case tokens.UNDERSCORE_TOKEN:
		return p.leaf(ast.Wildcard), nil
	case tokens.IDENTIFIER_TOKEN:
		return p.leaf(ast.Ident), nil
	case tokens.INT_TOKEN:
		return p.leaf(ast.Int), nil
	case tokens.REAL_TOKEN:
		return p.leaf(ast.Real), nil
	case tokens.STRING_TOKEN:
		return p.leaf(ast.Str), nil
	case tokens.CHAR_TOKEN:
		return p.leaf(ast.Char), nil
	case tokens.TRUE_TOKEN, tokens.FALSE_TOKEN:
		return p.leaf(ast.Bool), nil
	case tokens.MINUS_TOKEN:
		return expectPrefix(p, []tokens.TOKEN{tokens.MINUS_TOKEN}, func() (ast.Index, error) {
			var lit ast.Index
			switch {
			case p.peek(tokens.INT_TOKEN):
				lit = p.leaf(ast.Int)
			case p.peek(tokens.REAL_TOKEN):
				lit = p.leaf(ast.Real)
			default:
				return ast.NoIndex, p.unexpected(tokens.INT_TOKEN, tokens.REAL_TOKEN)
			}
			return p.node(ast.Neg, ast.One(lit)), nil
		})
	case tokens.OPEN_PAREN:
		return p.tryTuplePattern()
	case tokens.OPEN_BRACKET:
		return scoped(p, func() (ast.Index, error) {
			elems, _, err := p.tryMultiWithBracket([]rule{
				{"pattern", p.tryPattern, tokens.COMMA_TOKEN},
			}, tokens.OPEN_BRACKET, tokens.CLOSE_BRACKET)
			if err != nil {
				return ast.NoIndex, err
			}
			return p.node(ast.ListPattern, ast.Many(elems)), nil
		})
	case tokens.RANGE_TOKEN:
		return expectPrefix(p, []tokens.TOKEN{tokens.RANGE_TOKEN}, func() (ast.Index, error) {
			var name ast.Index
			if p.peek(tokens.IDENTIFIER_TOKEN) {
				name = p.leaf(ast.Ident)
			}
			return p.node(ast.RestPattern, ast.One(name)), nil
		})
	}
	return ast.NoIndex, nil
}

// tryTuplePattern mirrors tryParenOrTuple: `(p)` is transparent.
func (p *Parser) tryTuplePattern() (ast.Index, error) {
	return expectPrefix(p, []tokens.TOKEN{tokens.OPEN_PAREN}, func() (ast.Index, error) {
		if p.eat(tokens.CLOSE_PAREN) {
			return p.node(ast.TuplePattern, ast.Many(nil)), nil
		}
		first, err := p.requirePattern(Options{})
		if err != nil {
			return ast.NoIndex, err
		}
		if p.eat(tokens.CLOSE_PAREN) {
			return first, nil
		}
		if _, err := p.expect(tokens.COMMA_TOKEN); err != nil {
			return ast.NoIndex, err
		}
		rest, err := p.tryMulti([]rule{{"pattern", p.tryPattern, tokens.COMMA_TOKEN}})
		if err != nil {
			return ast.NoIndex, err
		}
		if _, err := p.expect(tokens.CLOSE_PAREN); err != nil {
			return ast.NoIndex, err
		}
		return p.node(ast.TuplePattern, ast.Many(append([]ast.Index{first}, rest...))), nil
	})
}

// tryParam is `pattern (: type)? (= default)?`.
func (p *Parser) tryParam() (ast.Index, error) {
	return scoped(p, func() (ast.Index, error) {
		pattern, err := p.tryPatternPratt(0, Options{NoOrPattern: true})
		if err != nil || pattern == ast.NoIndex {
			return ast.NoIndex, err
		}
		typ, err := p.tryAnnotation()
		if err != nil {
			return ast.NoIndex, err
		}
		var def ast.Index
		if p.eat(tokens.EQUALS_TOKEN) {
			if def, err = p.requireExpr(Options{}, "default value"); err != nil {
				return ast.NoIndex, err
			}
		}
		return p.node(ast.Param, ast.One(pattern), ast.One(typ), ast.One(def)), nil
	})
}

// tryClosureParam is a parameter between pipes. It has no default, and a
// bare `|` closes the list instead of starting an or-pattern.
func (p *Parser) tryClosureParam() (ast.Index, error) {
	return scoped(p, func() (ast.Index, error) {
		pattern, err := p.tryPatternPratt(0, Options{NoOrPattern: true})
		if err != nil || pattern == ast.NoIndex {
			return ast.NoIndex, err
		}
		typ, err := p.tryAnnotation()
		if err != nil {
			return ast.NoIndex, err
		}
		return p.node(ast.Param, ast.One(pattern), ast.One(typ), ast.One(0)), nil
	})
}

// requireParams is a parenthesised parameter list.
func (p *Parser) requireParams() ([]ast.Index, error) {
	params, ok, err := p.tryMultiWithBracket([]rule{
		{"parameter", p.tryParam, tokens.COMMA_TOKEN},
	}, tokens.OPEN_PAREN, tokens.CLOSE_PAREN)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, p.unexpected(tokens.OPEN_PAREN)
	}
	return params, nil
}

// tryAnnotation is an optional `: type`.
func (p *Parser) tryAnnotation() (ast.Index, error) {
	if !p.eat(tokens.COLON_TOKEN) {
		return ast.NoIndex, nil
	}
	return p.requireType()
}
