package lexer

import (
	"fmt"
	"regexp"

	"vex/internal/diagnostics"
	"vex/internal/source"
	"vex/internal/tokens"
	"vex/internal/utils/numeric"
)

type regexHandler func(lex *Lexer, regex *regexp.Regexp)

type regexPattern struct {
	regex   *regexp.Regexp
	handler regexHandler
}

type Lexer struct {
	diagnostics *diagnostics.DiagnosticBag
	Tokens      []tokens.Token
	Position    source.Position
	file        *source.File
	patterns    []regexPattern
}

// anchored compiles a pattern that only matches at the start of the input.
func anchored(pattern string) *regexp.Regexp {
	return regexp.MustCompile(`\A(?:` + pattern + `)`)
}

// patterns are tried in order, so longer operators come before their prefixes.
var patterns = []regexPattern{
	{anchored(`\s+`), skipHandler},                                         // whitespace
	{anchored(`//[^\n]*`), skipHandler},                                    // single line comments
	{anchored(`/\*[\s\S]*?\*/`), skipHandler},                              // multi line comments
	{anchored(`"(?:[^"\\\n]|\\.)*"`), literalHandler(tokens.STRING_TOKEN)}, // string literals
	{anchored(`"[^\n]*`), unterminatedStringHandler},                       // string with no closing quote
	{anchored(`'(?:[^'\\\n]|\\[^'\n]+)'`), literalHandler(tokens.CHAR_TOKEN)},
	{anchored(numeric.RealPattern), literalHandler(tokens.REAL_TOKEN)},
	{anchored(numeric.IntegerPattern), literalHandler(tokens.INT_TOKEN)},
	{anchored(`[a-zA-Z_][a-zA-Z0-9_]*`), identifierHandler},
	{anchored(`\.\.=`), defaultHandler(tokens.RANGE_INCLUSIVE_TOKEN)},
	{anchored(`\.\.`), defaultHandler(tokens.RANGE_TOKEN)},
	{anchored(`::`), defaultHandler(tokens.SCOPE_TOKEN)},
	{anchored(`->`), defaultHandler(tokens.ARROW_TOKEN)},
	{anchored(`=>`), defaultHandler(tokens.FAT_ARROW_TOKEN)},
	{anchored(`\*\*`), defaultHandler(tokens.EXP_TOKEN)},
	{anchored(`==`), defaultHandler(tokens.DOUBLE_EQUAL_TOKEN)},
	{anchored(`!=`), defaultHandler(tokens.NOT_EQUAL_TOKEN)},
	{anchored(`<=`), defaultHandler(tokens.LESS_EQUAL_TOKEN)},
	{anchored(`>=`), defaultHandler(tokens.GREATER_EQUAL_TOKEN)},
	{anchored(`<<`), defaultHandler(tokens.SHL_TOKEN)},
	{anchored(`&&`), defaultHandler(tokens.AND_TOKEN)},
	{anchored(`\|\|`), defaultHandler(tokens.OR_TOKEN)},
	{anchored(`\?\?`), defaultHandler(tokens.COALESCE_TOKEN)},
	{anchored(`\+=`), defaultHandler(tokens.PLUS_EQUALS_TOKEN)},
	{anchored(`-=`), defaultHandler(tokens.MINUS_EQUALS_TOKEN)},
	{anchored(`\*=`), defaultHandler(tokens.MUL_EQUALS_TOKEN)},
	{anchored(`/=`), defaultHandler(tokens.DIV_EQUALS_TOKEN)},
	{anchored(`%=`), defaultHandler(tokens.MOD_EQUALS_TOKEN)},
	{anchored(`\+`), defaultHandler(tokens.PLUS_TOKEN)},
	{anchored(`-`), defaultHandler(tokens.MINUS_TOKEN)},
	{anchored(`\*`), defaultHandler(tokens.MUL_TOKEN)},
	{anchored(`/`), defaultHandler(tokens.DIV_TOKEN)},
	{anchored(`%`), defaultHandler(tokens.MOD_TOKEN)},
	{anchored(`<`), defaultHandler(tokens.LESS_TOKEN)},
	{anchored(`>`), defaultHandler(tokens.GREATER_TOKEN)},
	{anchored(`=`), defaultHandler(tokens.EQUALS_TOKEN)},
	{anchored(`!`), defaultHandler(tokens.NOT_TOKEN)},
	{anchored(`&`), defaultHandler(tokens.BIT_AND_TOKEN)},
	{anchored(`\|`), defaultHandler(tokens.BIT_OR_TOKEN)},
	{anchored(`\^`), defaultHandler(tokens.BIT_XOR_TOKEN)},
	{anchored(`~`), defaultHandler(tokens.BIT_NOT_TOKEN)},
	{anchored(`\?`), defaultHandler(tokens.QUESTION_TOKEN)},
	{anchored(`:`), defaultHandler(tokens.COLON_TOKEN)},
	{anchored(`;`), defaultHandler(tokens.SEMICOLON_TOKEN)},
	{anchored(`,`), defaultHandler(tokens.COMMA_TOKEN)},
	{anchored(`\.`), defaultHandler(tokens.DOT_TOKEN)},
	{anchored(`\(`), defaultHandler(tokens.OPEN_PAREN)},
	{anchored(`\)`), defaultHandler(tokens.CLOSE_PAREN)},
	{anchored(`\[`), defaultHandler(tokens.OPEN_BRACKET)},
	{anchored(`\]`), defaultHandler(tokens.CLOSE_BRACKET)},
	{anchored(`\{`), defaultHandler(tokens.OPEN_CURLY)},
	{anchored(`\}`), defaultHandler(tokens.CLOSE_CURLY)},
	{anchored(`@`), defaultHandler(tokens.AT_TOKEN)},
}

func New(file *source.File, diag *diagnostics.DiagnosticBag) *Lexer {
	return &Lexer{
		file:   file,
		Tokens: make([]tokens.Token, 0, len(file.Content)/3+2),
		Position: source.Position{
			Line:   1,
			Column: 1,
			Index:  0,
		},
		diagnostics: diag,
		patterns:    patterns,
	}
}

func (lex *Lexer) remainder() string {
	return lex.file.Content[lex.Position.Index:]
}

func (lex *Lexer) atEOF() bool {
	return lex.Position.Index >= len(lex.file.Content)
}

// consume advances past match and pushes a token of kind covering it.
func (lex *Lexer) consume(kind tokens.TOKEN, match string) {
	from := lex.Position.Index
	lex.Position.Advance(match)
	lex.Tokens = append(lex.Tokens, tokens.NewToken(kind, from, lex.Position.Index))
}

func (lex *Lexer) report(code, message string, from, to int) {
	if lex.diagnostics == nil {
		return
	}
	lex.diagnostics.Add(
		diagnostics.NewError(message).
			WithCode(code).
			WithPrimaryLabel(lex.file.Path, lex.file.Location(source.Span{From: from, To: to}), ""),
	)
}

func defaultHandler(token tokens.TOKEN) regexHandler {
	return func(lex *Lexer, _ *regexp.Regexp) {
		lex.consume(token, string(token))
	}
}

func literalHandler(token tokens.TOKEN) regexHandler {
	return func(lex *Lexer, regex *regexp.Regexp) {
		lex.consume(token, regex.FindString(lex.remainder()))
	}
}

func identifierHandler(lex *Lexer, regex *regexp.Regexp) {
	identifier := regex.FindString(lex.remainder())
	switch {
	case identifier == "_":
		lex.consume(tokens.UNDERSCORE_TOKEN, identifier)
	case tokens.IsKeyword(identifier):
		lex.consume(tokens.TOKEN(identifier), identifier)
	default:
		lex.consume(tokens.IDENTIFIER_TOKEN, identifier)
	}
}

func unterminatedStringHandler(lex *Lexer, regex *regexp.Regexp) {
	match := regex.FindString(lex.remainder())
	from := lex.Position.Index
	lex.report(diagnostics.ErrUnterminatedString, "unterminated string literal", from, from+len(match))
	lex.consume(tokens.STRING_TOKEN, match)
}

// skipHandler processes a token that should be skipped by the lexer.
func skipHandler(lex *Lexer, regex *regexp.Regexp) {
	match := regex.FindString(lex.remainder())
	lex.Position.Advance(match)
}

// Tokenize produces the full token stream, framed by the start and end of
// file sentinels. Unknown characters are reported and skipped.
func (lex *Lexer) Tokenize(debug bool) []tokens.Token {
	lex.Tokens = append(lex.Tokens, tokens.NewToken(tokens.SOF_TOKEN, 0, 0))

	for !lex.atEOF() {

		matched := false

		for _, pattern := range lex.patterns {
			if pattern.regex.MatchString(lex.remainder()) {
				pattern.handler(lex, pattern.regex)
				matched = true
				break
			}
		}

		if !matched {
			r := []rune(lex.remainder())[0]
			from := lex.Position.Index
			lex.report(diagnostics.ErrUnexpectedCharacter, fmt.Sprintf("unrecognized character '%c'", r), from, from+len(string(r)))
			// Skip the bad character and continue tokenizing to find more errors
			lex.Position.Advance(string(r))
		}
	}

	end := len(lex.file.Content)
	lex.Tokens = append(lex.Tokens, tokens.NewToken(tokens.EOF_TOKEN, end, end))

	if debug {
		for _, token := range lex.Tokens {
			token.Debug(lex.file)
		}
	}

	return lex.Tokens
}

// Tokenize is a convenience wrapper for one-shot lexing.
func Tokenize(file *source.File, diag *diagnostics.DiagnosticBag) []tokens.Token {
	return New(file, diag).Tokenize(false)
}
