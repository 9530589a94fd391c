package compiler

import (
	"vex/internal/diagnostics"
	"vex/internal/frontend/lexer"
	"vex/internal/frontend/parser"
	"vex/internal/source"
	"vex/internal/tokens"
)

// Incomplete reports whether code stops in the middle of a construct, so
// that an interactive reader should ask for another line. Code that is
// complete or broken before its end is not incomplete.
func Incomplete(code string) bool {
	file := source.NewFile("<probe>", code)
	bag := diagnostics.NewDiagnosticBag()
	toks := lexer.Tokenize(file, bag)
	for _, diag := range bag.Diagnostics() {
		if diag.Code == diagnostics.ErrUnterminatedString {
			return true
		}
	}

	_, errs := parser.Parse(file, toks)
	for _, err := range errs {
		if err.Found == tokens.EOF_TOKEN {
			return true
		}
	}
	return false
}
