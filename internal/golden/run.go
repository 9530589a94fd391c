package golden

import (
	"errors"
	"fmt"
	"path"
	"strings"

	"vex/internal/config"
	"vex/internal/context_v2"
	"vex/internal/diagnostics"
	"vex/internal/frontend/lexer"
	"vex/internal/frontend/parser"
	"vex/internal/hirlower"
	"vex/internal/pipeline"
	"vex/internal/source"
)

// Root is the project root programs are compiled under. A program's module
// is called main.
const Root = "/virtual"

// Outcome is what the front end produced for a case. Errors holds one
// diagnostic code per entry, in report order.
type Outcome struct {
	AST    string
	HIR    string
	Errors []string
}

// Actual renders the part of the outcome an assertion compares against.
func (o *Outcome) Actual(kind AssertionType) string {
	switch kind {
	case AssertAST:
		return o.AST
	case AssertHIR:
		return o.HIR
	}
	return strings.Join(o.Errors, "\n")
}

// Run compiles the input of c in a fresh context. Prelude names resolve, so
// the first occurrence a case creates is the one after the prelude's.
func Run(c Case) (*Outcome, error) {
	cfg := config.Default()
	cfg.ProjectRoot = Root
	ctx, err := context_v2.New(cfg)
	if err != nil {
		return nil, err
	}

	switch c.InputType {
	case InputProgram:
		return runProgram(ctx, c.Input)
	case InputExpr, InputPattern:
		return runFragment(ctx, c)
	}
	return nil, fmt.Errorf("unknown input type %q", c.InputType)
}

func runProgram(ctx *context_v2.CompilerContext, input string) (*Outcome, error) {
	module, err := ctx.AddSource(path.Join(Root, "main"+ctx.Config.Extension), input)
	if err != nil {
		return nil, err
	}
	_ = pipeline.New(ctx).Run()

	out := &Outcome{Errors: codes(ctx.Diagnostics.Diagnostics())}
	if module.AST != nil {
		out.AST = module.AST.DumpRoot()
	}
	if module.HIR != 0 {
		out.HIR = ctx.HIR.DumpDef(module.HIR, ctx.Names)
	}
	return out, nil
}

// runFragment parses a single expression or pattern and lowers it in a
// scope below the prelude.
func runFragment(ctx *context_v2.CompilerContext, c Case) (*Outcome, error) {
	file := source.NewFile("test"+ctx.Config.Extension, c.Input)
	bag := diagnostics.NewDiagnosticBag()
	toks := lexer.Tokenize(file, bag)

	parse := parser.ParseExpr
	if c.InputType == InputPattern {
		parse = parser.ParsePattern
	}
	tree, root, err := parse(file, toks)

	out := &Outcome{Errors: codes(bag.Diagnostics())}
	if err != nil {
		var perr *parser.Error
		if !errors.As(err, &perr) {
			return nil, err
		}
		out.Errors = append(out.Errors, perr.Code)
		return out, nil
	}
	out.AST = tree.Dump(root)

	scope, err := ctx.Scopes.AddScope(nil, ctx.Prelude.Scope, false, ctx.Prelude.ID)
	if err != nil {
		return nil, err
	}
	owner := hirlower.Owner{ID: ctx.Prelude.ID, Scope: scope}
	l := hirlower.New(tree, ctx.HIR, ctx.Names, ctx.Scopes)

	if c.InputType == InputPattern {
		ref, lerr := l.LowerPattern(root, owner)
		if lerr != nil {
			return addLoweringError(out, lerr, file)
		}
		out.HIR = ctx.HIR.DumpPattern(ref, ctx.Names)
		return out, nil
	}
	ref, lerr := l.LowerExpr(root, owner)
	if lerr != nil {
		return addLoweringError(out, lerr, file)
	}
	out.HIR = ctx.HIR.DumpExpr(ref, ctx.Names)
	return out, nil
}

func addLoweringError(out *Outcome, err error, file *source.File) (*Outcome, error) {
	var lerr *hirlower.Error
	if !errors.As(err, &lerr) {
		return nil, err
	}
	out.Errors = append(out.Errors, lerr.Diagnostic(file).Code)
	return out, nil
}

func codes(diags []*diagnostics.Diagnostic) []string {
	out := make([]string, 0, len(diags))
	for _, d := range diags {
		out = append(out, d.Code)
	}
	return out
}
