package parser

import (
	"errors"

	"vex/internal/diagnostics"
	"vex/internal/frontend/ast"
	"vex/internal/tokens"
	"vex/internal/utils/numeric"
)

// Binding powers, loosest first.
const (
	precAssign = iota + 1
	precCoalesce
	precOr
	precAnd
	precEquality
	precCompare
	precRange
	precBitOr
	precBitXor
	precBitAnd
	precShift
	precSum
	precProduct
	precPower
	precAs
)

// precUnary is the operand power of prefix `-`, `!` and `~`.
const precUnary = precPower

type binding struct {
	prec  int
	kind  ast.Kind
	right bool // right-associative
	typed bool // right operand is a type
}

var infix = map[tokens.TOKEN]binding{
	tokens.EQUALS_TOKEN:          {precAssign, ast.Assign, true, false},
	tokens.PLUS_EQUALS_TOKEN:     {precAssign, ast.AddAssign, true, false},
	tokens.MINUS_EQUALS_TOKEN:    {precAssign, ast.SubAssign, true, false},
	tokens.MUL_EQUALS_TOKEN:      {precAssign, ast.MulAssign, true, false},
	tokens.DIV_EQUALS_TOKEN:      {precAssign, ast.DivAssign, true, false},
	tokens.MOD_EQUALS_TOKEN:      {precAssign, ast.ModAssign, true, false},
	tokens.COALESCE_TOKEN:        {precCoalesce, ast.Coalesce, false, false},
	tokens.OR_TOKEN:              {precOr, ast.Or, false, false},
	tokens.AND_TOKEN:             {precAnd, ast.And, false, false},
	tokens.DOUBLE_EQUAL_TOKEN:    {precEquality, ast.Eq, false, false},
	tokens.NOT_EQUAL_TOKEN:       {precEquality, ast.Ne, false, false},
	tokens.IS_TOKEN:              {precEquality, ast.Is, false, true},
	tokens.LESS_TOKEN:            {precCompare, ast.Lt, false, false},
	tokens.LESS_EQUAL_TOKEN:      {precCompare, ast.Le, false, false},
	tokens.GREATER_TOKEN:         {precCompare, ast.Gt, false, false},
	tokens.GREATER_EQUAL_TOKEN:   {precCompare, ast.Ge, false, false},
	tokens.RANGE_TOKEN:           {precRange, ast.Range, false, false},
	tokens.RANGE_INCLUSIVE_TOKEN: {precRange, ast.RangeInclusive, false, false},
	tokens.BIT_OR_TOKEN:          {precBitOr, ast.BitOr, false, false},
	tokens.BIT_XOR_TOKEN:         {precBitXor, ast.BitXor, false, false},
	tokens.BIT_AND_TOKEN:         {precBitAnd, ast.BitAnd, false, false},
	tokens.SHL_TOKEN:             {precShift, ast.Shl, false, false},
	tokens.PLUS_TOKEN:            {precSum, ast.Add, false, false},
	tokens.MINUS_TOKEN:           {precSum, ast.Sub, false, false},
	tokens.MUL_TOKEN:             {precProduct, ast.Mul, false, false},
	tokens.DIV_TOKEN:             {precProduct, ast.Div, false, false},
	tokens.MOD_TOKEN:             {precProduct, ast.Mod, false, false},
	tokens.EXP_TOKEN:             {precPower, ast.Pow, true, false},
	tokens.AS_TOKEN:              {precAs, ast.As, false, true},
}

// postfixTokens may start a postfix form. They are tried before infix.
var postfixTokens = map[tokens.TOKEN]bool{
	tokens.OPEN_PAREN:     true,
	tokens.OPEN_BRACKET:   true,
	tokens.DOT_TOKEN:      true,
	tokens.QUESTION_TOKEN: true,
	tokens.NOT_TOKEN:      true,
	tokens.LESS_TOKEN:     true,
	tokens.OPEN_CURLY:     true,
	tokens.MATCH_TOKEN:    true,
}

// infixAt looks up the operator at the cursor. Two touching `>` tokens
// form a shift; the lexer never produces `>>` so nested generics close.
func (p *Parser) infixAt() (binding, int, bool) {
	tok := p.peekAt(0)
	if tok.Kind == tokens.GREATER_TOKEN {
		next := p.peekAt(1)
		if next.Kind == tokens.GREATER_TOKEN && next.From == tok.To {
			return binding{prec: precShift, kind: ast.Shr}, 2, true
		}
	}
	b, ok := infix[tok.Kind]
	return b, 1, ok
}

// tryExprPratt parses an expression whose operators bind at least minPrec.
// No expression at all is absence, not an error.
func (p *Parser) tryExprPratt(minPrec int, opts Options) (ast.Index, error) {
	statement := opts.Statement
	opts.Statement = false
	return scoped(p, func() (ast.Index, error) {
		left, err := p.tryPrefix(opts)
		if err != nil || left == ast.NoIndex {
			return left, err
		}
		if statement && blockLike(p.ast.Kind(left)) {
			return left, nil
		}

		for {
			if postfixTokens[p.peekAt(0).Kind] {
				next, err := p.tryPostfix(left, opts)
				if errors.Is(err, errBelongsToOuter) {
					return left, nil
				}
				if err != nil {
					return ast.NoIndex, err
				}
				if next != ast.NoIndex {
					left = next
					continue
				}
			}

			op, width, ok := p.infixAt()
			if !ok || op.prec < minPrec {
				return left, nil
			}
			for i := 0; i < width; i++ {
				p.bump()
			}

			var right ast.Index
			if op.typed {
				right, err = p.tryType()
			} else {
				next := op.prec + 1
				if op.right {
					next = op.prec
				}
				right, err = p.tryExprPratt(next, opts)
			}
			if err != nil {
				return ast.NoIndex, err
			}
			if right == ast.NoIndex {
				return ast.NoIndex, p.errorf(diagnostics.ErrInvalidExpression, "expected right operand of `%s`", op.kind)
			}
			left = p.node(op.kind, ast.One(left), ast.One(right))
		}
	})
}

// blockLike kinds end with `}` and may stand as statements without `;`.
func blockLike(kind ast.Kind) bool {
	switch kind {
	case ast.If, ast.IfLet, ast.While, ast.Loop, ast.For, ast.Block, ast.Handle:
		return true
	}
	return false
}

// tryStatementExpr is an expression in element position.
func (p *Parser) tryStatementExpr() (ast.Index, error) {
	return p.tryExprPratt(0, Options{Statement: true})
}

// tryExpr is a full expression with default options.
func (p *Parser) tryExpr() (ast.Index, error) {
	return p.tryExprPratt(0, Options{})
}

// requireExpr is tryExprPratt where absence is an error.
func (p *Parser) requireExpr(opts Options, what string) (ast.Index, error) {
	idx, err := p.tryExprPratt(0, opts)
	if err != nil {
		return ast.NoIndex, err
	}
	if idx == ast.NoIndex {
		return ast.NoIndex, p.errorf(diagnostics.ErrInvalidExpression, "expected %s", what)
	}
	return idx, nil
}

func (p *Parser) tryPostfix(left ast.Index, opts Options) (ast.Index, error) {
	switch p.peekAt(0).Kind {
	case tokens.OPEN_PAREN:
		return p.callSuffix(left)
	case tokens.OPEN_BRACKET:
		p.bump()
		index, err := p.requireExpr(Options{}, "index expression")
		if err != nil {
			return ast.NoIndex, err
		}
		if _, err := p.expect(tokens.CLOSE_BRACKET); err != nil {
			return ast.NoIndex, err
		}
		return p.node(ast.IndexAccess, ast.One(left), ast.One(index)), nil
	case tokens.DOT_TOKEN:
		p.bump()
		var field ast.Index
		switch {
		case p.peek(tokens.IDENTIFIER_TOKEN):
			field = p.leaf(ast.Ident)
		case p.peek(tokens.INT_TOKEN):
			field = p.leaf(ast.Int)
		default:
			return ast.NoIndex, p.unexpected(tokens.IDENTIFIER_TOKEN, tokens.INT_TOKEN)
		}
		return p.node(ast.Select, ast.One(left), ast.One(field)), nil
	case tokens.QUESTION_TOKEN:
		p.bump()
		return p.node(ast.Propagate, ast.One(left)), nil
	case tokens.NOT_TOKEN:
		p.bump()
		return p.node(ast.Unwrap, ast.One(left)), nil
	case tokens.LESS_TOKEN:
		return p.speculate(func() (ast.Index, error) { return p.genericSuffix(left) }), nil
	case tokens.OPEN_CURLY:
		return p.braceSuffix(left, opts)
	case tokens.MATCH_TOKEN:
		return p.matchSuffix(left)
	}
	return ast.NoIndex, nil
}

// callSuffix parses `(args)`. `name = value` arguments become
// PropertyAssignment children.
func (p *Parser) callSuffix(callee ast.Index) (ast.Index, error) {
	position := 0
	argument := func() (ast.Index, error) {
		position++
		return p.tryArgument(position)
	}
	args, _, err := p.tryMultiWithBracket([]rule{
		{"argument", argument, tokens.COMMA_TOKEN},
	}, tokens.OPEN_PAREN, tokens.CLOSE_PAREN)
	if err != nil {
		return ast.NoIndex, err
	}
	return p.node(ast.Call, ast.One(callee), ast.Many(args)), nil
}

// tryArgument parses the argument at position, counted from 1.
func (p *Parser) tryArgument(position int) (ast.Index, error) {
	if p.peek(tokens.IDENTIFIER_TOKEN, tokens.EQUALS_TOKEN) {
		return scoped(p, func() (ast.Index, error) {
			name := p.leaf(ast.Ident)
			p.bump()
			value, err := p.requireExpr(Options{}, "value for the "+numeric.NumericToOrdinal(position)+" argument")
			if err != nil {
				return ast.NoIndex, err
			}
			return p.node(ast.PropertyAssignment, ast.One(name), ast.One(value)), nil
		})
	}
	return p.tryExpr()
}

// genericSuffix is `<types>` and only counts when a call follows.
func (p *Parser) genericSuffix(callee ast.Index) (ast.Index, error) {
	args, _, err := p.tryMultiWithBracket([]rule{
		{"type", p.tryType, tokens.COMMA_TOKEN},
	}, tokens.LESS_TOKEN, tokens.GREATER_TOKEN)
	if err != nil || len(args) == 0 || !p.peek(tokens.OPEN_PAREN) {
		return ast.NoIndex, err
	}
	return p.node(ast.GenericApply, ast.One(callee), ast.Many(args)), nil
}

// braceSuffix decides what `{` after an expression means. After a path it
// is an object call when the brace looks like fields; otherwise it is an
// extended call whose block is a trailing lambda.
func (p *Parser) braceSuffix(left ast.Index, opts Options) (ast.Index, error) {
	if !opts.NoObjectCall && p.isPath(left) && p.looksLikeObjectCall() {
		props, _, err := p.tryMultiWithBracket([]rule{
			{"field", p.tryProperty, tokens.COMMA_TOKEN},
		}, tokens.OPEN_CURLY, tokens.CLOSE_CURLY)
		if err != nil {
			return ast.NoIndex, err
		}
		return p.node(ast.ObjectCall, ast.One(left), ast.Many(props)), nil
	}
	if opts.NoExtendedCall {
		return ast.NoIndex, errBelongsToOuter
	}
	block, err := p.tryBlock()
	if err != nil {
		return ast.NoIndex, err
	}
	return p.node(ast.ExtendedCall, ast.One(left), ast.One(block)), nil
}

func (p *Parser) isPath(idx ast.Index) bool {
	switch p.ast.Kind(idx) {
	case ast.Ident:
		return true
	case ast.Select:
		return p.isPath(p.ast.Child(idx, 0))
	case ast.GenericApply:
		return p.isPath(p.ast.Child(idx, 0))
	}
	return false
}

func (p *Parser) looksLikeObjectCall() bool {
	return p.peek(tokens.OPEN_CURLY, tokens.CLOSE_CURLY) ||
		p.peek(tokens.OPEN_CURLY, tokens.IDENTIFIER_TOKEN, tokens.COLON_TOKEN) ||
		p.peek(tokens.OPEN_CURLY, tokens.IDENTIFIER_TOKEN, tokens.COMMA_TOKEN) ||
		p.peek(tokens.OPEN_CURLY, tokens.IDENTIFIER_TOKEN, tokens.CLOSE_CURLY)
}

// tryProperty is `name: value` or the shorthand `name`.
func (p *Parser) tryProperty() (ast.Index, error) {
	return expectPrefix(p, []tokens.TOKEN{tokens.IDENTIFIER_TOKEN}, func() (ast.Index, error) {
		name := p.ast.Append(ast.Ident, p.last().Span())
		var value ast.Index
		if p.eat(tokens.COLON_TOKEN) {
			var err error
			if value, err = p.requireExpr(Options{}, "field value"); err != nil {
				return ast.NoIndex, err
			}
		}
		return p.node(ast.Property, ast.One(name), ast.One(value)), nil
	})
}

func (p *Parser) matchSuffix(scrutinee ast.Index) (ast.Index, error) {
	p.bump()
	arms, ok, err := p.tryMultiWithBracket([]rule{
		{"match arm", p.tryMatchArm, tokens.COMMA_TOKEN},
	}, tokens.OPEN_CURLY, tokens.CLOSE_CURLY)
	if err != nil {
		return ast.NoIndex, err
	}
	if !ok {
		return ast.NoIndex, p.unexpected(tokens.OPEN_CURLY)
	}
	return p.node(ast.Match, ast.One(scrutinee), ast.Many(arms)), nil
}

func (p *Parser) tryMatchArm() (ast.Index, error) {
	return scoped(p, func() (ast.Index, error) {
		pattern, err := p.tryPatternPratt(0, Options{})
		if err != nil || pattern == ast.NoIndex {
			return ast.NoIndex, err
		}
		if _, err := p.expect(tokens.FAT_ARROW_TOKEN); err != nil {
			return ast.NoIndex, err
		}
		body, err := p.requireExpr(Options{}, "match arm body")
		if err != nil {
			return ast.NoIndex, err
		}
		return p.node(ast.MatchArm, ast.One(pattern), ast.One(body)), nil
	})
}

func (p *Parser) tryPrefix(opts Options) (ast.Index, error) {
	switch p.peekAt(0).Kind {
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
	case tokens.IDENTIFIER_TOKEN:
		return p.leaf(ast.Ident), nil
	case tokens.UNDERSCORE_TOKEN:
		return p.leaf(ast.Wildcard), nil
	case tokens.CONTINUE_TOKEN:
		return p.leaf(ast.Continue), nil
	case tokens.MINUS_TOKEN:
		return p.unary(ast.Neg, opts)
	case tokens.NOT_TOKEN:
		return p.unary(ast.Not, opts)
	case tokens.BIT_NOT_TOKEN:
		return p.unary(ast.BitNot, opts)
	case tokens.OPEN_PAREN:
		return p.tryParenOrTuple()
	case tokens.OPEN_BRACKET:
		return p.tryList()
	case tokens.OPEN_CURLY:
		if p.peek(tokens.OPEN_CURLY, tokens.IDENTIFIER_TOKEN, tokens.COLON_TOKEN) ||
			p.peek(tokens.OPEN_CURLY, tokens.IDENTIFIER_TOKEN, tokens.COMMA_TOKEN) {
			return p.tryObject()
		}
		return p.tryBlock()
	case tokens.IF_TOKEN:
		return p.tryIf()
	case tokens.WHILE_TOKEN:
		return p.tryWhile()
	case tokens.LOOP_TOKEN:
		return p.tryLoop()
	case tokens.FOR_TOKEN:
		return p.tryFor()
	case tokens.RETURN_TOKEN:
		return p.jump(ast.Return, opts)
	case tokens.BREAK_TOKEN:
		return p.jump(ast.Break, opts)
	case tokens.RESUME_TOKEN:
		return p.jump(ast.Resume, opts)
	case tokens.HANDLE_TOKEN:
		return p.tryHandle()
	case tokens.BIT_OR_TOKEN, tokens.OR_TOKEN:
		return p.tryClosure(opts)
	case tokens.FN_TOKEN:
		return p.tryFnLambda(opts)
	case tokens.FORALL_TOKEN:
		return p.tryQuantifier(tokens.FORALL_TOKEN, ast.Forall, opts)
	case tokens.EXISTS_TOKEN:
		return p.tryQuantifier(tokens.EXISTS_TOKEN, ast.Exists, opts)
	}
	return ast.NoIndex, nil
}

func (p *Parser) unary(kind ast.Kind, opts Options) (ast.Index, error) {
	return scoped(p, func() (ast.Index, error) {
		p.bump()
		operand, err := p.tryExprPratt(precUnary, opts)
		if err != nil {
			return ast.NoIndex, err
		}
		if operand == ast.NoIndex {
			return ast.NoIndex, p.errorf(diagnostics.ErrInvalidExpression, "expected operand of `%s`", kind)
		}
		return p.node(kind, ast.One(operand)), nil
	})
}

// jump is return, break or resume with an optional value.
func (p *Parser) jump(kind ast.Kind, opts Options) (ast.Index, error) {
	return scoped(p, func() (ast.Index, error) {
		p.bump()
		value, err := p.tryExprPratt(0, opts)
		if err != nil {
			return ast.NoIndex, err
		}
		return p.node(kind, ast.One(value)), nil
	})
}

// tryParenOrTuple handles `()`, `(e)` and `(a, b)`. A lone parenthesised
// expression yields the inner node itself.
func (p *Parser) tryParenOrTuple() (ast.Index, error) {
	return scoped(p, func() (ast.Index, error) {
		p.bump()
		if p.eat(tokens.CLOSE_PAREN) {
			return p.node(ast.Tuple, ast.Many(nil)), nil
		}
		first, err := p.requireExpr(Options{}, "expression")
		if err != nil {
			return ast.NoIndex, err
		}
		if p.eat(tokens.CLOSE_PAREN) {
			return first, nil
		}
		if _, err := p.expect(tokens.COMMA_TOKEN); err != nil {
			return ast.NoIndex, err
		}
		rest, err := p.tryMulti([]rule{{"expression", p.tryExpr, tokens.COMMA_TOKEN}})
		if err != nil {
			return ast.NoIndex, err
		}
		if _, err := p.expect(tokens.CLOSE_PAREN); err != nil {
			return ast.NoIndex, err
		}
		return p.node(ast.Tuple, ast.Many(append([]ast.Index{first}, rest...))), nil
	})
}

func (p *Parser) tryList() (ast.Index, error) {
	return scoped(p, func() (ast.Index, error) {
		elems, _, err := p.tryMultiWithBracket([]rule{
			{"expression", p.tryExpr, tokens.COMMA_TOKEN},
		}, tokens.OPEN_BRACKET, tokens.CLOSE_BRACKET)
		if err != nil {
			return ast.NoIndex, err
		}
		return p.node(ast.List, ast.Many(elems)), nil
	})
}

func (p *Parser) tryObject() (ast.Index, error) {
	return scoped(p, func() (ast.Index, error) {
		props, _, err := p.tryMultiWithBracket([]rule{
			{"field", p.tryProperty, tokens.COMMA_TOKEN},
		}, tokens.OPEN_CURLY, tokens.CLOSE_CURLY)
		if err != nil {
			return ast.NoIndex, err
		}
		return p.node(ast.Object, ast.Many(props)), nil
	})
}

// requireBlock is a block in a position where one is mandatory.
func (p *Parser) requireBlock() (ast.Index, error) {
	block, err := p.tryBlock()
	if err != nil {
		return ast.NoIndex, err
	}
	if block == ast.NoIndex {
		return ast.NoIndex, p.unexpected(tokens.OPEN_CURLY)
	}
	return block, nil
}

func (p *Parser) tryIf() (ast.Index, error) {
	return expectPrefix(p, []tokens.TOKEN{tokens.IF_TOKEN}, func() (ast.Index, error) {
		if p.eat(tokens.LET_TOKEN) {
			return p.ifLetTail()
		}
		cond, err := p.requireExpr(condition, "condition")
		if err != nil {
			return ast.NoIndex, err
		}
		then, err := p.requireBlock()
		if err != nil {
			return ast.NoIndex, err
		}
		els, err := p.tryElse()
		if err != nil {
			return ast.NoIndex, err
		}
		return p.node(ast.If, ast.One(cond), ast.One(then), ast.One(els)), nil
	})
}

func (p *Parser) ifLetTail() (ast.Index, error) {
	pattern, err := p.requirePattern(condition)
	if err != nil {
		return ast.NoIndex, err
	}
	if _, err := p.expect(tokens.EQUALS_TOKEN); err != nil {
		return ast.NoIndex, err
	}
	value, err := p.requireExpr(condition, "value to match")
	if err != nil {
		return ast.NoIndex, err
	}
	then, err := p.requireBlock()
	if err != nil {
		return ast.NoIndex, err
	}
	els, err := p.tryElse()
	if err != nil {
		return ast.NoIndex, err
	}
	return p.node(ast.IfLet, ast.One(pattern), ast.One(value), ast.One(then), ast.One(els)), nil
}

func (p *Parser) tryElse() (ast.Index, error) {
	if !p.eat(tokens.ELSE_TOKEN) {
		return ast.NoIndex, nil
	}
	if p.peek(tokens.IF_TOKEN) {
		return p.tryIf()
	}
	return p.requireBlock()
}

func (p *Parser) tryWhile() (ast.Index, error) {
	return expectPrefix(p, []tokens.TOKEN{tokens.WHILE_TOKEN}, func() (ast.Index, error) {
		cond, err := p.requireExpr(condition, "loop condition")
		if err != nil {
			return ast.NoIndex, err
		}
		body, err := p.requireBlock()
		if err != nil {
			return ast.NoIndex, err
		}
		return p.node(ast.While, ast.One(cond), ast.One(body)), nil
	})
}

func (p *Parser) tryLoop() (ast.Index, error) {
	return expectPrefix(p, []tokens.TOKEN{tokens.LOOP_TOKEN}, func() (ast.Index, error) {
		body, err := p.requireBlock()
		if err != nil {
			return ast.NoIndex, err
		}
		return p.node(ast.Loop, ast.One(body)), nil
	})
}

func (p *Parser) tryFor() (ast.Index, error) {
	return expectPrefix(p, []tokens.TOKEN{tokens.FOR_TOKEN}, func() (ast.Index, error) {
		pattern, err := p.requirePattern(condition)
		if err != nil {
			return ast.NoIndex, err
		}
		if _, err := p.expect(tokens.IN_TOKEN); err != nil {
			return ast.NoIndex, err
		}
		iter, err := p.requireExpr(condition, "iterable")
		if err != nil {
			return ast.NoIndex, err
		}
		body, err := p.requireBlock()
		if err != nil {
			return ast.NoIndex, err
		}
		return p.node(ast.For, ast.One(pattern), ast.One(iter), ast.One(body)), nil
	})
}

// tryHandle is `handle body with { Op(params) => expr, ... }`.
func (p *Parser) tryHandle() (ast.Index, error) {
	return expectPrefix(p, []tokens.TOKEN{tokens.HANDLE_TOKEN}, func() (ast.Index, error) {
		body, err := p.requireExpr(Options{}, "handled expression")
		if err != nil {
			return ast.NoIndex, err
		}
		if _, err := p.expect(tokens.WITH_TOKEN); err != nil {
			return ast.NoIndex, err
		}
		handlers, ok, err := p.tryMultiWithBracket([]rule{
			{"handler", p.tryHandlerClause, tokens.COMMA_TOKEN},
		}, tokens.OPEN_CURLY, tokens.CLOSE_CURLY)
		if err != nil {
			return ast.NoIndex, err
		}
		if !ok {
			return ast.NoIndex, p.unexpected(tokens.OPEN_CURLY)
		}
		return p.node(ast.Handle, ast.One(body), ast.Many(handlers)), nil
	})
}

func (p *Parser) tryHandlerClause() (ast.Index, error) {
	return scoped(p, func() (ast.Index, error) {
		op, err := p.tryPath()
		if err != nil || op == ast.NoIndex {
			return ast.NoIndex, err
		}
		params, err := p.requireParams()
		if err != nil {
			return ast.NoIndex, err
		}
		if _, err := p.expect(tokens.FAT_ARROW_TOKEN); err != nil {
			return ast.NoIndex, err
		}
		body, err := p.requireExpr(Options{}, "handler body")
		if err != nil {
			return ast.NoIndex, err
		}
		return p.node(ast.HandlerClause, ast.One(op), ast.One(body), ast.Many(params)), nil
	})
}

// tryClosure is `|params| body` or `|| body`.
func (p *Parser) tryClosure(opts Options) (ast.Index, error) {
	return scoped(p, func() (ast.Index, error) {
		var params []ast.Index
		if !p.eat(tokens.OR_TOKEN) {
			p.bump()
			var err error
			params, err = p.tryMulti([]rule{{"parameter", p.tryClosureParam, tokens.COMMA_TOKEN}})
			if err != nil {
				return ast.NoIndex, err
			}
			if _, err := p.expect(tokens.BIT_OR_TOKEN); err != nil {
				return ast.NoIndex, err
			}
		}
		body, err := p.requireExpr(opts, "closure body")
		if err != nil {
			return ast.NoIndex, err
		}
		return p.node(ast.Lambda, ast.One(0), ast.One(0), ast.One(body), ast.Many(params)), nil
	})
}

// tryFnLambda is `fn (params) -> T / E => body`.
func (p *Parser) tryFnLambda(opts Options) (ast.Index, error) {
	return expectPrefix(p, []tokens.TOKEN{tokens.FN_TOKEN, tokens.OPEN_PAREN}, func() (ast.Index, error) {
		params, err := p.tryMulti([]rule{{"parameter", p.tryParam, tokens.COMMA_TOKEN}})
		if err != nil {
			return ast.NoIndex, err
		}
		if _, err := p.expect(tokens.CLOSE_PAREN); err != nil {
			return ast.NoIndex, err
		}
		ret, err := p.tryReturnType()
		if err != nil {
			return ast.NoIndex, err
		}
		var row ast.Index
		if p.peek(tokens.DIV_TOKEN) {
			row, err = scoped(p, func() (ast.Index, error) {
				effects, err := p.tryEffects()
				if err != nil {
					return ast.NoIndex, err
				}
				return p.node(ast.EffectRow, ast.Many(effects)), nil
			})
			if err != nil {
				return ast.NoIndex, err
			}
		}
		if _, err := p.expect(tokens.FAT_ARROW_TOKEN); err != nil {
			return ast.NoIndex, err
		}
		body, err := p.requireExpr(opts, "lambda body")
		if err != nil {
			return ast.NoIndex, err
		}
		return p.node(ast.Lambda, ast.One(ret), ast.One(row), ast.One(body), ast.Many(params)), nil
	})
}

// tryQuantifier is `forall params (where cond)? => body`.
func (p *Parser) tryQuantifier(keyword tokens.TOKEN, kind ast.Kind, opts Options) (ast.Index, error) {
	return expectPrefix(p, []tokens.TOKEN{keyword}, func() (ast.Index, error) {
		params, err := p.tryMulti([]rule{{"parameter", p.tryParam, tokens.COMMA_TOKEN}})
		if err != nil {
			return ast.NoIndex, err
		}
		if len(params) == 0 {
			return ast.NoIndex, p.errorf(diagnostics.ErrExpectedToken, "expected bound variables after `%s`", keyword)
		}
		var cond ast.Index
		if p.eat(tokens.WHERE_TOKEN) {
			if cond, err = p.requireExpr(Options{}, "condition"); err != nil {
				return ast.NoIndex, err
			}
		}
		if _, err := p.expect(tokens.FAT_ARROW_TOKEN); err != nil {
			return ast.NoIndex, err
		}
		body, err := p.requireExpr(opts, "quantifier body")
		if err != nil {
			return ast.NoIndex, err
		}
		return p.node(kind, ast.One(cond), ast.One(body), ast.Many(params)), nil
	})
}
