package parser

import (
	"errors"

	"vex/internal/diagnostics"
	"vex/internal/frontend/ast"
	"vex/internal/tokens"
)

// elementRules are what may appear in a file, a block or a module body.
func (p *Parser) elementRules() []rule {
	return []rule{
		{"item", p.tryItem, ""},
		{"let binding", p.tryLet, tokens.SEMICOLON_TOKEN},
		{"const binding", p.tryConst, tokens.SEMICOLON_TOKEN},
		{"expression", p.tryStatementExpr, tokens.SEMICOLON_TOKEN},
	}
}

// parseFile parses elements until EOF. A broken element is reported and
// skipped so later elements still get parsed.
func (p *Parser) parseFile() (ast.Index, []*Error) {
	var errs []*Error
	root, _ := scoped(p, func() (ast.Index, error) {
		var elems []ast.Index
		for {
			parsed, err := p.tryMulti(p.elementRules())
			elems = append(elems, parsed...)
			if err == nil && p.peek(tokens.EOF_TOKEN) {
				break
			}
			if err == nil {
				err = p.errorf(diagnostics.ErrUnexpectedToken, "expected one of item, let binding, const binding, expression")
			}
			var perr *Error
			if !errors.As(err, &perr) {
				perr = p.errorf(diagnostics.ErrInvalidExpression, "%s", err)
			}
			errs = append(errs, perr)
			p.recover()
			if p.peek(tokens.EOF_TOKEN) {
				break
			}
		}
		return p.node(ast.File, ast.Many(elems)), nil
	})
	return root, errs
}

// recover skips at least one token, then stops after a `;` or before an
// item keyword at bracket depth zero.
func (p *Parser) recover() {
	depth := 0
	first := true
	for !p.peek(tokens.EOF_TOKEN) {
		kind := p.peekAt(0).Kind
		if depth == 0 && !first && startsItem(kind) {
			return
		}
		first = false
		p.bump()
		switch kind {
		case tokens.OPEN_PAREN, tokens.OPEN_BRACKET, tokens.OPEN_CURLY:
			depth++
		case tokens.CLOSE_PAREN, tokens.CLOSE_BRACKET, tokens.CLOSE_CURLY:
			if depth > 0 {
				depth--
			}
		case tokens.SEMICOLON_TOKEN:
			if depth == 0 {
				return
			}
		}
	}
}

func startsItem(kind tokens.TOKEN) bool {
	switch kind {
	case tokens.FN_TOKEN, tokens.LET_TOKEN, tokens.CONST_TOKEN, tokens.EFFECT_TOKEN,
		tokens.TRAIT_TOKEN, tokens.IMPL_TOKEN, tokens.TYPE_TOKEN, tokens.STRUCT_TOKEN,
		tokens.ENUM_TOKEN, tokens.USE_TOKEN, tokens.MODULE_TOKEN, tokens.PUB_TOKEN:
		return true
	}
	return false
}

// tryBlock is `{ element* }`.
func (p *Parser) tryBlock() (ast.Index, error) {
	return scoped(p, func() (ast.Index, error) {
		elems, ok, err := p.tryMultiWithBracket(p.elementRules(), tokens.OPEN_CURLY, tokens.CLOSE_CURLY)
		if err != nil || !ok {
			return ast.NoIndex, err
		}
		return p.node(ast.Block, ast.Many(elems)), nil
	})
}

func (p *Parser) tryLet() (ast.Index, error) {
	return p.tryBinding(tokens.LET_TOKEN, ast.Let)
}

func (p *Parser) tryConst() (ast.Index, error) {
	return p.tryBinding(tokens.CONST_TOKEN, ast.Const)
}

// tryBinding is `let pattern (: type)? = value`. The terminating `;` belongs
// to the enclosing sequence.
func (p *Parser) tryBinding(keyword tokens.TOKEN, kind ast.Kind) (ast.Index, error) {
	return expectPrefix(p, []tokens.TOKEN{keyword}, func() (ast.Index, error) {
		pattern, err := p.requirePattern(Options{})
		if err != nil {
			return ast.NoIndex, err
		}
		typ, err := p.tryAnnotation()
		if err != nil {
			return ast.NoIndex, err
		}
		if _, err := p.expect(tokens.EQUALS_TOKEN); err != nil {
			return ast.NoIndex, err
		}
		value, err := p.requireExpr(Options{}, "value")
		if err != nil {
			return ast.NoIndex, err
		}
		return p.node(kind, ast.One(pattern), ast.One(typ), ast.One(value)), nil
	})
}

func (p *Parser) tryItem() (ast.Index, error) {
	if p.peek(tokens.PUB_TOKEN) {
		return expectPrefix(p, []tokens.TOKEN{tokens.PUB_TOKEN}, func() (ast.Index, error) {
			item, err := p.tryItem()
			if err != nil {
				return ast.NoIndex, err
			}
			if item == ast.NoIndex {
				return ast.NoIndex, p.errorf(diagnostics.ErrExpectedToken, "expected item after `pub`")
			}
			return p.node(ast.Public, ast.One(item)), nil
		})
	}

	switch p.peekAt(0).Kind {
	case tokens.FN_TOKEN:
		return p.tryFnDef()
	case tokens.EFFECT_TOKEN:
		return p.tryEffectDef()
	case tokens.TRAIT_TOKEN:
		return p.tryTraitDef()
	case tokens.IMPL_TOKEN:
		return p.tryImplDef()
	case tokens.TYPE_TOKEN:
		return p.tryTypeAlias()
	case tokens.STRUCT_TOKEN:
		return p.tryStructDef()
	case tokens.ENUM_TOKEN:
		return p.tryEnumDef()
	case tokens.USE_TOKEN:
		return p.tryUse()
	case tokens.MODULE_TOKEN:
		return p.tryModule()
	}
	return ast.NoIndex, nil
}

// name consumes the identifier naming an item.
func (p *Parser) name() (ast.Index, error) {
	tok, err := p.expect(tokens.IDENTIFIER_TOKEN)
	if err != nil {
		return ast.NoIndex, err
	}
	return p.ast.Append(ast.Ident, tok.Span()), nil
}

var clauseKinds = map[tokens.TOKEN]ast.Kind{
	tokens.REQUIRES_TOKEN:  ast.Requires,
	tokens.ENSURES_TOKEN:   ast.Ensures,
	tokens.DECREASES_TOKEN: ast.Decreases,
	tokens.INVARIANT_TOKEN: ast.Invariant,
}

// tryFnDef is a named function. `fn (` is a lambda and is left alone.
func (p *Parser) tryFnDef() (ast.Index, error) {
	return expectPrefix(p, []tokens.TOKEN{tokens.FN_TOKEN, tokens.IDENTIFIER_TOKEN}, func() (ast.Index, error) {
		name := p.ast.Append(ast.Ident, p.last().Span())
		generics, err := p.tryGenerics()
		if err != nil {
			return ast.NoIndex, err
		}
		params, err := p.requireParams()
		if err != nil {
			return ast.NoIndex, err
		}
		ret, err := p.tryReturnType()
		if err != nil {
			return ast.NoIndex, err
		}
		effects, err := p.tryEffects()
		if err != nil {
			return ast.NoIndex, err
		}
		clauses, err := p.clauses()
		if err != nil {
			return ast.NoIndex, err
		}

		var body ast.Index
		if !p.eat(tokens.SEMICOLON_TOKEN) {
			if body, err = p.tryBlock(); err != nil {
				return ast.NoIndex, err
			}
			if body == ast.NoIndex {
				return ast.NoIndex, p.unexpected(tokens.OPEN_CURLY, tokens.SEMICOLON_TOKEN)
			}
		}
		return p.node(ast.FunctionDef,
			ast.One(name), ast.Many(generics), ast.Many(params), ast.One(ret),
			ast.Many(effects), ast.Many(clauses), ast.One(body)), nil
	})
}

func (p *Parser) clauses() ([]ast.Index, error) {
	var out []ast.Index
	for {
		kind, ok := clauseKinds[p.peekAt(0).Kind]
		if !ok {
			return out, nil
		}
		clause, err := scoped(p, func() (ast.Index, error) {
			p.bump()
			cond, err := p.requireExpr(condition, "clause condition")
			if err != nil {
				return ast.NoIndex, err
			}
			return p.node(kind, ast.One(cond)), nil
		})
		if err != nil {
			return nil, err
		}
		out = append(out, clause)
	}
}

// members parses `{ ... }` for item bodies; the brace is mandatory.
func (p *Parser) members(rules []rule) ([]ast.Index, error) {
	out, ok, err := p.tryMultiWithBracket(rules, tokens.OPEN_CURLY, tokens.CLOSE_CURLY)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, p.unexpected(tokens.OPEN_CURLY)
	}
	return out, nil
}

func (p *Parser) tryEffectDef() (ast.Index, error) {
	return expectPrefix(p, []tokens.TOKEN{tokens.EFFECT_TOKEN}, func() (ast.Index, error) {
		name, err := p.name()
		if err != nil {
			return ast.NoIndex, err
		}
		generics, err := p.tryGenerics()
		if err != nil {
			return ast.NoIndex, err
		}
		ops, err := p.members([]rule{{"operation", p.tryFnDef, ""}})
		if err != nil {
			return ast.NoIndex, err
		}
		return p.node(ast.EffectDef, ast.One(name), ast.Many(generics), ast.Many(ops)), nil
	})
}

func (p *Parser) tryTraitDef() (ast.Index, error) {
	return expectPrefix(p, []tokens.TOKEN{tokens.TRAIT_TOKEN}, func() (ast.Index, error) {
		name, err := p.name()
		if err != nil {
			return ast.NoIndex, err
		}
		generics, err := p.tryGenerics()
		if err != nil {
			return ast.NoIndex, err
		}
		supers, err := p.tryBounds()
		if err != nil {
			return ast.NoIndex, err
		}
		members, err := p.members([]rule{
			{"function", p.tryFnDef, ""},
			{"associated type", p.tryAssocType, ""},
		})
		if err != nil {
			return ast.NoIndex, err
		}
		return p.node(ast.TraitDef, ast.One(name), ast.Many(generics), ast.Many(supers), ast.Many(members)), nil
	})
}

// tryAssocType is `type Name: Bounds = Default;` inside a trait.
func (p *Parser) tryAssocType() (ast.Index, error) {
	return expectPrefix(p, []tokens.TOKEN{tokens.TYPE_TOKEN}, func() (ast.Index, error) {
		name, err := p.name()
		if err != nil {
			return ast.NoIndex, err
		}
		bounds, err := p.tryBounds()
		if err != nil {
			return ast.NoIndex, err
		}
		var def ast.Index
		if p.eat(tokens.EQUALS_TOKEN) {
			if def, err = p.requireType(); err != nil {
				return ast.NoIndex, err
			}
		}
		if _, err := p.expect(tokens.SEMICOLON_TOKEN); err != nil {
			return ast.NoIndex, err
		}
		return p.node(ast.AssocType, ast.One(name), ast.Many(bounds), ast.One(def)), nil
	})
}

// tryImplDef is `impl<G> Trait for Type { ... }` or `impl Type { ... }`.
func (p *Parser) tryImplDef() (ast.Index, error) {
	return expectPrefix(p, []tokens.TOKEN{tokens.IMPL_TOKEN}, func() (ast.Index, error) {
		generics, err := p.tryGenerics()
		if err != nil {
			return ast.NoIndex, err
		}
		first, err := p.requireType()
		if err != nil {
			return ast.NoIndex, err
		}
		var trait, target ast.Index = ast.NoIndex, first
		if p.eat(tokens.FOR_TOKEN) {
			trait = first
			if target, err = p.requireType(); err != nil {
				return ast.NoIndex, err
			}
		}
		members, err := p.members([]rule{
			{"function", p.tryFnDef, ""},
			{"type alias", p.tryTypeAlias, ""},
		})
		if err != nil {
			return ast.NoIndex, err
		}
		return p.node(ast.ImplDef, ast.Many(generics), ast.One(trait), ast.One(target), ast.Many(members)), nil
	})
}

func (p *Parser) tryTypeAlias() (ast.Index, error) {
	return expectPrefix(p, []tokens.TOKEN{tokens.TYPE_TOKEN}, func() (ast.Index, error) {
		name, err := p.name()
		if err != nil {
			return ast.NoIndex, err
		}
		generics, err := p.tryGenerics()
		if err != nil {
			return ast.NoIndex, err
		}
		if _, err := p.expect(tokens.EQUALS_TOKEN); err != nil {
			return ast.NoIndex, err
		}
		typ, err := p.requireType()
		if err != nil {
			return ast.NoIndex, err
		}
		if _, err := p.expect(tokens.SEMICOLON_TOKEN); err != nil {
			return ast.NoIndex, err
		}
		return p.node(ast.TypeAlias, ast.One(name), ast.Many(generics), ast.One(typ)), nil
	})
}

func (p *Parser) tryStructDef() (ast.Index, error) {
	return expectPrefix(p, []tokens.TOKEN{tokens.STRUCT_TOKEN}, func() (ast.Index, error) {
		name, err := p.name()
		if err != nil {
			return ast.NoIndex, err
		}
		generics, err := p.tryGenerics()
		if err != nil {
			return ast.NoIndex, err
		}
		fields, err := p.members([]rule{{"field", p.tryField, tokens.COMMA_TOKEN}})
		if err != nil {
			return ast.NoIndex, err
		}
		return p.node(ast.StructDef, ast.One(name), ast.Many(generics), ast.Many(fields)), nil
	})
}

// tryField is `name: Type (= default)?`.
func (p *Parser) tryField() (ast.Index, error) {
	return expectPrefix(p, []tokens.TOKEN{tokens.IDENTIFIER_TOKEN}, func() (ast.Index, error) {
		name := p.ast.Append(ast.Ident, p.last().Span())
		if _, err := p.expect(tokens.COLON_TOKEN); err != nil {
			return ast.NoIndex, err
		}
		typ, err := p.requireType()
		if err != nil {
			return ast.NoIndex, err
		}
		var def ast.Index
		if p.eat(tokens.EQUALS_TOKEN) {
			if def, err = p.requireExpr(Options{}, "field default"); err != nil {
				return ast.NoIndex, err
			}
		}
		return p.node(ast.Field, ast.One(name), ast.One(typ), ast.One(def)), nil
	})
}

func (p *Parser) tryEnumDef() (ast.Index, error) {
	return expectPrefix(p, []tokens.TOKEN{tokens.ENUM_TOKEN}, func() (ast.Index, error) {
		name, err := p.name()
		if err != nil {
			return ast.NoIndex, err
		}
		generics, err := p.tryGenerics()
		if err != nil {
			return ast.NoIndex, err
		}
		variants, err := p.members([]rule{{"variant", p.tryVariant, tokens.COMMA_TOKEN}})
		if err != nil {
			return ast.NoIndex, err
		}
		return p.node(ast.EnumDef, ast.One(name), ast.Many(generics), ast.Many(variants)), nil
	})
}

func (p *Parser) tryVariant() (ast.Index, error) {
	return expectPrefix(p, []tokens.TOKEN{tokens.IDENTIFIER_TOKEN}, func() (ast.Index, error) {
		name := p.ast.Append(ast.Ident, p.last().Span())
		payload, _, err := p.tryMultiWithBracket([]rule{
			{"type", p.tryType, tokens.COMMA_TOKEN},
		}, tokens.OPEN_PAREN, tokens.CLOSE_PAREN)
		if err != nil {
			return ast.NoIndex, err
		}
		return p.node(ast.Variant, ast.One(name), ast.Many(payload)), nil
	})
}

func (p *Parser) tryUse() (ast.Index, error) {
	return expectPrefix(p, []tokens.TOKEN{tokens.USE_TOKEN}, func() (ast.Index, error) {
		path, err := p.tryPath()
		if err != nil {
			return ast.NoIndex, err
		}
		if path == ast.NoIndex {
			return ast.NoIndex, p.unexpected(tokens.IDENTIFIER_TOKEN)
		}
		if _, err := p.expect(tokens.SEMICOLON_TOKEN); err != nil {
			return ast.NoIndex, err
		}
		return p.node(ast.Use, ast.One(path)), nil
	})
}

func (p *Parser) tryModule() (ast.Index, error) {
	return expectPrefix(p, []tokens.TOKEN{tokens.MODULE_TOKEN}, func() (ast.Index, error) {
		name, err := p.name()
		if err != nil {
			return ast.NoIndex, err
		}
		elems, err := p.members(p.elementRules())
		if err != nil {
			return ast.NoIndex, err
		}
		return p.node(ast.Module, ast.One(name), ast.Many(elems)), nil
	})
}
