package parser

import (
	"vex/internal/diagnostics"
	"vex/internal/frontend/ast"
	"vex/internal/tokens"
)

var modifierBits = map[tokens.TOKEN]uint32{
	tokens.PURE_TOKEN:   ast.ModPure,
	tokens.TOTAL_TOKEN:  ast.ModTotal,
	tokens.ASYNC_TOKEN:  ast.ModAsync,
	tokens.UNSAFE_TOKEN: ast.ModUnsafe,
}

// tryType parses a type. `T?` wraps in OptionType, any number of times.
func (p *Parser) tryType() (ast.Index, error) {
	return scoped(p, func() (ast.Index, error) {
		base, err := p.tryTypeAtom()
		if err != nil || base == ast.NoIndex {
			return base, err
		}
		for p.eat(tokens.QUESTION_TOKEN) {
			base = p.node(ast.OptionType, ast.One(base))
		}
		return base, nil
	})
}

func (p *Parser) requireType() (ast.Index, error) {
	typ, err := p.tryType()
	if err != nil {
		return ast.NoIndex, err
	}
	if typ == ast.NoIndex {
		return ast.NoIndex, p.errorf(diagnostics.ErrExpectedToken, "expected type")
	}
	return typ, nil
}

func (p *Parser) tryTypeAtom() (ast.Index, error) {
	switch tok := p.peekAt(0); {
	case tok.Kind == tokens.FN_TOKEN || modifierBits[tok.Kind] != 0:
		return p.tryFnType()
	case tok.Kind == tokens.IDENTIFIER_TOKEN:
		return p.tryNamedType()
	case tok.Kind == tokens.UNDERSCORE_TOKEN:
		return p.leaf(ast.Wildcard), nil
	case tok.Kind == tokens.OPEN_BRACKET:
		return expectPrefix(p, []tokens.TOKEN{tokens.OPEN_BRACKET}, func() (ast.Index, error) {
			elem, err := p.requireType()
			if err != nil {
				return ast.NoIndex, err
			}
			if _, err := p.expect(tokens.CLOSE_BRACKET); err != nil {
				return ast.NoIndex, err
			}
			return p.node(ast.ListType, ast.One(elem)), nil
		})
	case tok.Kind == tokens.OPEN_PAREN:
		return scoped(p, func() (ast.Index, error) {
			elems, _, err := p.tryMultiWithBracket([]rule{
				{"type", p.tryType, tokens.COMMA_TOKEN},
			}, tokens.OPEN_PAREN, tokens.CLOSE_PAREN)
			if err != nil {
				return ast.NoIndex, err
			}
			// (T) is just T; (T,) is still a tuple.
			if len(elems) == 1 && p.tokens[p.cursor-1].Kind != tokens.COMMA_TOKEN {
				return elems[0], nil
			}
			return p.node(ast.TupleType, ast.Many(elems)), nil
		})
	case tok.Kind == tokens.OPEN_CURLY:
		return p.tryRefinementType()
	}
	return ast.NoIndex, nil
}

// tryNamedType is a path with optional `<args>`. The arguments are
// speculative so `x as Int < y` still reads as a comparison.
func (p *Parser) tryNamedType() (ast.Index, error) {
	return scoped(p, func() (ast.Index, error) {
		path, err := p.tryPath()
		if err != nil || path == ast.NoIndex {
			return path, err
		}
		if !p.peek(tokens.LESS_TOKEN) {
			return path, nil
		}
		applied := p.speculate(func() (ast.Index, error) {
			args, _, err := p.tryMultiWithBracket([]rule{
				{"type", p.tryType, tokens.COMMA_TOKEN},
			}, tokens.LESS_TOKEN, tokens.GREATER_TOKEN)
			if err != nil || len(args) == 0 {
				return ast.NoIndex, err
			}
			return p.node(ast.GenericType, ast.One(path), ast.Many(args)), nil
		})
		if applied == ast.NoIndex {
			return path, nil
		}
		return applied, nil
	})
}

// tryPath is IDENT joined by `.` or `::`, as nested Select nodes.
func (p *Parser) tryPath() (ast.Index, error) {
	return expectPrefix(p, []tokens.TOKEN{tokens.IDENTIFIER_TOKEN}, func() (ast.Index, error) {
		path := p.ast.Append(ast.Ident, p.last().Span())
		for p.peek(tokens.DOT_TOKEN, tokens.IDENTIFIER_TOKEN) || p.peek(tokens.SCOPE_TOKEN, tokens.IDENTIFIER_TOKEN) {
			p.bump()
			segment := p.leaf(ast.Ident)
			path = p.node(ast.Select, ast.One(path), ast.One(segment))
		}
		return path, nil
	})
}

// tryFnType is `modifiers fn(T, U) -> R / E`. The modifiers are packed
// into the raw slot.
func (p *Parser) tryFnType() (ast.Index, error) {
	return scoped(p, func() (ast.Index, error) {
		var mods uint32
		for {
			bit, ok := modifierBits[p.peekAt(0).Kind]
			if !ok {
				break
			}
			mods |= bit
			p.bump()
		}
		if _, err := p.expect(tokens.FN_TOKEN); err != nil {
			return ast.NoIndex, err
		}
		params, ok, err := p.tryMultiWithBracket([]rule{
			{"type", p.tryType, tokens.COMMA_TOKEN},
		}, tokens.OPEN_PAREN, tokens.CLOSE_PAREN)
		if err != nil {
			return ast.NoIndex, err
		}
		if !ok {
			return ast.NoIndex, p.unexpected(tokens.OPEN_PAREN)
		}
		ret, err := p.tryReturnType()
		if err != nil {
			return ast.NoIndex, err
		}
		effects, err := p.tryEffects()
		if err != nil {
			return ast.NoIndex, err
		}
		return p.node(ast.FnType, ast.Raw(mods), ast.Many(params), ast.One(ret), ast.Many(effects)), nil
	})
}

// tryRefinementType is `{ x: T | predicate }`.
func (p *Parser) tryRefinementType() (ast.Index, error) {
	return expectPrefix(p, []tokens.TOKEN{tokens.OPEN_CURLY}, func() (ast.Index, error) {
		tok, err := p.expect(tokens.IDENTIFIER_TOKEN)
		if err != nil {
			return ast.NoIndex, err
		}
		binder := p.ast.Append(ast.Ident, tok.Span())
		if _, err := p.expect(tokens.COLON_TOKEN); err != nil {
			return ast.NoIndex, err
		}
		base, err := p.requireType()
		if err != nil {
			return ast.NoIndex, err
		}
		if _, err := p.expect(tokens.BIT_OR_TOKEN); err != nil {
			return ast.NoIndex, err
		}
		pred, err := p.requireExpr(Options{}, "refinement predicate")
		if err != nil {
			return ast.NoIndex, err
		}
		if _, err := p.expect(tokens.CLOSE_CURLY); err != nil {
			return ast.NoIndex, err
		}
		return p.node(ast.RefinementType, ast.One(binder), ast.One(base), ast.One(pred)), nil
	})
}

// tryReturnType is an optional `-> T`.
func (p *Parser) tryReturnType() (ast.Index, error) {
	if !p.eat(tokens.ARROW_TOKEN) {
		return ast.NoIndex, nil
	}
	return p.requireType()
}

// tryEffects is an optional `/ E` or `/ {E, F}`.
func (p *Parser) tryEffects() ([]ast.Index, error) {
	if !p.eat(tokens.DIV_TOKEN) {
		return nil, nil
	}
	effects, ok, err := p.tryMultiWithBracket([]rule{
		{"effect", p.tryType, tokens.COMMA_TOKEN},
	}, tokens.OPEN_CURLY, tokens.CLOSE_CURLY)
	if err != nil || ok {
		return effects, err
	}
	effect, err := p.requireType()
	if err != nil {
		return nil, err
	}
	return []ast.Index{effect}, nil
}

// tryGenerics is an optional `<T: Bound, U>` list.
func (p *Parser) tryGenerics() ([]ast.Index, error) {
	generics, _, err := p.tryMultiWithBracket([]rule{
		{"generic parameter", p.tryGenericParam, tokens.COMMA_TOKEN},
	}, tokens.LESS_TOKEN, tokens.GREATER_TOKEN)
	return generics, err
}

func (p *Parser) tryGenericParam() (ast.Index, error) {
	return expectPrefix(p, []tokens.TOKEN{tokens.IDENTIFIER_TOKEN}, func() (ast.Index, error) {
		name := p.ast.Append(ast.Ident, p.last().Span())
		bound, err := p.tryAnnotation()
		if err != nil {
			return ast.NoIndex, err
		}
		return p.node(ast.GenericParam, ast.One(name), ast.One(bound)), nil
	})
}

// tryBounds is `T + U + ...` after a colon.
func (p *Parser) tryBounds() ([]ast.Index, error) {
	if !p.eat(tokens.COLON_TOKEN) {
		return nil, nil
	}
	var bounds []ast.Index
	for {
		bound, err := p.requireType()
		if err != nil {
			return nil, err
		}
		bounds = append(bounds, bound)
		if !p.eat(tokens.PLUS_TOKEN) {
			return bounds, nil
		}
	}
}
