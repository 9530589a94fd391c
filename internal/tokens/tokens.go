package tokens

import (
	"fmt"
	"os"

	"vex/colors"
	"vex/internal/source"
)

type TOKEN string

const (
	//sentinels
	SOF_TOKEN TOKEN = "start_of_file"
	EOF_TOKEN TOKEN = "end_of_file"
	//keywords
	FN_TOKEN         TOKEN = "fn"
	LET_TOKEN        TOKEN = "let"
	CONST_TOKEN      TOKEN = "const"
	IF_TOKEN         TOKEN = "if"
	ELSE_TOKEN       TOKEN = "else"
	WHILE_TOKEN      TOKEN = "while"
	FOR_TOKEN        TOKEN = "for"
	IN_TOKEN         TOKEN = "in"
	LOOP_TOKEN       TOKEN = "loop"
	MATCH_TOKEN      TOKEN = "match"
	RETURN_TOKEN     TOKEN = "return"
	BREAK_TOKEN      TOKEN = "break"
	CONTINUE_TOKEN   TOKEN = "continue"
	EFFECT_TOKEN     TOKEN = "effect"
	HANDLE_TOKEN     TOKEN = "handle"
	WITH_TOKEN       TOKEN = "with"
	RESUME_TOKEN     TOKEN = "resume"
	TRAIT_TOKEN      TOKEN = "trait"
	IMPL_TOKEN       TOKEN = "impl"
	TYPE_TOKEN       TOKEN = "type"
	STRUCT_TOKEN     TOKEN = "struct"
	ENUM_TOKEN       TOKEN = "enum"
	USE_TOKEN        TOKEN = "use"
	MODULE_TOKEN     TOKEN = "mod"
	PUB_TOKEN        TOKEN = "pub"
	WHERE_TOKEN      TOKEN = "where"
	REQUIRES_TOKEN   TOKEN = "requires"
	ENSURES_TOKEN    TOKEN = "ensures"
	DECREASES_TOKEN  TOKEN = "decreases"
	INVARIANT_TOKEN  TOKEN = "invariant"
	FORALL_TOKEN     TOKEN = "forall"
	EXISTS_TOKEN     TOKEN = "exists"
	AS_TOKEN         TOKEN = "as"
	IS_TOKEN         TOKEN = "is"
	TRUE_TOKEN       TOKEN = "true"
	FALSE_TOKEN      TOKEN = "false"
	PURE_TOKEN       TOKEN = "pure"
	TOTAL_TOKEN      TOKEN = "total"
	ASYNC_TOKEN      TOKEN = "async"
	UNSAFE_TOKEN     TOKEN = "unsafe"
	IDENTIFIER_TOKEN TOKEN = "identifier"
	UNDERSCORE_TOKEN TOKEN = "_"
	//literals
	INT_TOKEN    TOKEN = "integer literal"
	REAL_TOKEN   TOKEN = "real literal"
	STRING_TOKEN TOKEN = "string literal"
	CHAR_TOKEN   TOKEN = "char literal"
	//range operators
	RANGE_TOKEN           TOKEN = ".."  // exclusive end
	RANGE_INCLUSIVE_TOKEN TOKEN = "..=" // inclusive end
	//logical operators
	AND_TOKEN      TOKEN = "&&"
	OR_TOKEN       TOKEN = "||"
	NOT_TOKEN      TOKEN = "!"
	COALESCE_TOKEN TOKEN = "??"
	//bitwise operators
	BIT_AND_TOKEN TOKEN = "&"
	BIT_OR_TOKEN  TOKEN = "|"
	BIT_XOR_TOKEN TOKEN = "^"
	BIT_NOT_TOKEN TOKEN = "~"
	SHL_TOKEN     TOKEN = "<<"
	//arithmetic operators
	EXP_TOKEN   TOKEN = "**"
	MINUS_TOKEN TOKEN = "-"
	PLUS_TOKEN  TOKEN = "+"
	MUL_TOKEN   TOKEN = "*"
	DIV_TOKEN   TOKEN = "/"
	MOD_TOKEN   TOKEN = "%"
	//comparison operators
	LESS_EQUAL_TOKEN    TOKEN = "<="
	GREATER_EQUAL_TOKEN TOKEN = ">="
	NOT_EQUAL_TOKEN     TOKEN = "!="
	DOUBLE_EQUAL_TOKEN  TOKEN = "=="
	LESS_TOKEN          TOKEN = "<"
	GREATER_TOKEN       TOKEN = ">"
	//assignment
	EQUALS_TOKEN       TOKEN = "="
	PLUS_EQUALS_TOKEN  TOKEN = "+="
	MINUS_EQUALS_TOKEN TOKEN = "-="
	MUL_EQUALS_TOKEN   TOKEN = "*="
	DIV_EQUALS_TOKEN   TOKEN = "/="
	MOD_EQUALS_TOKEN   TOKEN = "%="
	//delimiters
	SCOPE_TOKEN     TOKEN = "::"
	COLON_TOKEN     TOKEN = ":"
	OPEN_PAREN      TOKEN = "("
	CLOSE_PAREN     TOKEN = ")"
	OPEN_BRACKET    TOKEN = "["
	CLOSE_BRACKET   TOKEN = "]"
	OPEN_CURLY      TOKEN = "{"
	CLOSE_CURLY     TOKEN = "}"
	COMMA_TOKEN     TOKEN = ","
	DOT_TOKEN       TOKEN = "."
	SEMICOLON_TOKEN TOKEN = ";"
	ARROW_TOKEN     TOKEN = "->"
	FAT_ARROW_TOKEN TOKEN = "=>"
	QUESTION_TOKEN  TOKEN = "?"
	AT_TOKEN        TOKEN = "@"
)

var keyWordsMap map[TOKEN]bool = map[TOKEN]bool{
	FN_TOKEN:        true,
	LET_TOKEN:       true,
	CONST_TOKEN:     true,
	IF_TOKEN:        true,
	ELSE_TOKEN:      true,
	WHILE_TOKEN:     true,
	FOR_TOKEN:       true,
	IN_TOKEN:        true,
	LOOP_TOKEN:      true,
	MATCH_TOKEN:     true,
	RETURN_TOKEN:    true,
	BREAK_TOKEN:     true,
	CONTINUE_TOKEN:  true,
	EFFECT_TOKEN:    true,
	HANDLE_TOKEN:    true,
	WITH_TOKEN:      true,
	RESUME_TOKEN:    true,
	TRAIT_TOKEN:     true,
	IMPL_TOKEN:      true,
	TYPE_TOKEN:      true,
	STRUCT_TOKEN:    true,
	ENUM_TOKEN:      true,
	USE_TOKEN:       true,
	MODULE_TOKEN:    true,
	PUB_TOKEN:       true,
	WHERE_TOKEN:     true,
	REQUIRES_TOKEN:  true,
	ENSURES_TOKEN:   true,
	DECREASES_TOKEN: true,
	INVARIANT_TOKEN: true,
	FORALL_TOKEN:    true,
	EXISTS_TOKEN:    true,
	AS_TOKEN:        true,
	IS_TOKEN:        true,
	TRUE_TOKEN:      true,
	FALSE_TOKEN:     true,
	PURE_TOKEN:      true,
	TOTAL_TOKEN:     true,
	ASYNC_TOKEN:     true,
	UNSAFE_TOKEN:    true,
}

func IsKeyword(token string) bool {
	if _, ok := keyWordsMap[TOKEN(token)]; ok {
		return true
	}
	return false
}

// IsComment checks if a token starts with a comment
func IsComment(token string) bool {
	return len(token) >= 2 && token[0] == '/' && (token[1] == '/' || token[1] == '*')
}

// Token is a kind plus the byte range it covers. The text lives in the source file.
type Token struct {
	Kind TOKEN
	From int
	To   int
}

func (t Token) Span() source.Span {
	return source.Span{From: t.From, To: t.To}
}

// Text returns the token's spelling from file.
func (t Token) Text(file *source.File) string {
	text, _ := file.Text(t.Span())
	return text
}

func (t Token) Debug(file *source.File) {
	pos := file.Position(t.From)
	colors.GREY.Fprintf(os.Stderr, "%s:%d:%d ", file.Path, pos.Line, pos.Column)
	text := t.Text(file)
	if text == string(t.Kind) {
		fmt.Fprintf(os.Stderr, "%q\n", text)
	} else {
		fmt.Fprintf(os.Stderr, "%q ('%v')\n", text, t.Kind)
	}
}

func NewToken(kind TOKEN, from, to int) Token {
	return Token{
		Kind: kind,
		From: from,
		To:   to,
	}
}
