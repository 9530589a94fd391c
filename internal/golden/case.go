// Package golden reads front-end test cases out of Markdown files.
//
// A case starts at a `Test: <name>` heading and holds exactly one input
// fence (vex-expr, vex-pattern or vex-program) followed by any number of
// assertion fences (ast, hir, error). Prose between fences is ignored.
package golden

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

type InputType string

const (
	InputExpr    InputType = "vex-expr"
	InputPattern InputType = "vex-pattern"
	InputProgram InputType = "vex-program"
)

type AssertionType string

const (
	AssertAST   AssertionType = "ast"
	AssertHIR   AssertionType = "hir"
	AssertError AssertionType = "error"
)

// Assertion is one expected output. Content has trailing newlines removed.
type Assertion struct {
	Type    AssertionType
	Content string
	Line    int
}

type Case struct {
	Name       string
	Input      string
	InputType  InputType
	Line       int
	Assertions []Assertion
}

const headingPrefix = "Test: "

// Extract returns the cases of a Markdown document in order.
func Extract(markdown string) ([]Case, error) {
	src := []byte(markdown)
	doc := goldmark.New().Parser().Parse(text.NewReader(src))

	var (
		cases   []Case
		current *Case
	)
	flush := func() error {
		if current == nil {
			return nil
		}
		if err := current.validate(); err != nil {
			return err
		}
		cases = append(cases, *current)
		current = nil
		return nil
	}

	err := ast.Walk(doc, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch n := node.(type) {
		case *ast.Heading:
			title := plainText(n, src)
			if !strings.HasPrefix(title, headingPrefix) {
				return ast.WalkContinue, nil
			}
			if err := flush(); err != nil {
				return ast.WalkStop, err
			}
			current = &Case{Name: strings.TrimPrefix(title, headingPrefix), Line: lineOf(n, src)}

		case *ast.FencedCodeBlock:
			lang := string(n.Language(src))
			line := lineOf(n, src)
			if lang == "" {
				return ast.WalkContinue, nil
			}
			if current == nil {
				return ast.WalkStop, fmt.Errorf("line %d: %s fence outside of a test case", line, lang)
			}
			content := strings.TrimRight(fenceContent(n, src), "\n")

			switch {
			case isInput(lang):
				if current.InputType != "" {
					return ast.WalkStop, fmt.Errorf("line %d: second input fence in test %q", line, current.Name)
				}
				current.Input = content
				current.InputType = InputType(lang)
			case isAssertion(lang):
				if current.InputType == "" {
					return ast.WalkStop, fmt.Errorf("line %d: %s fence before the input in test %q", line, lang, current.Name)
				}
				current.Assertions = append(current.Assertions, Assertion{
					Type:    AssertionType(lang),
					Content: content,
					Line:    line,
				})
			default:
				return ast.WalkStop, fmt.Errorf("line %d: unknown fence language %q in test %q", line, lang, current.Name)
			}
		}
		return ast.WalkContinue, nil
	})
	if err != nil {
		return nil, err
	}
	if err := flush(); err != nil {
		return nil, err
	}
	return cases, nil
}

func (c *Case) validate() error {
	if c.InputType == "" {
		return fmt.Errorf("line %d: test %q has no input fence", c.Line, c.Name)
	}
	if len(c.Assertions) == 0 {
		return fmt.Errorf("line %d: test %q has no assertion fences", c.Line, c.Name)
	}
	return nil
}

func isInput(lang string) bool {
	switch InputType(lang) {
	case InputExpr, InputPattern, InputProgram:
		return true
	}
	return false
}

func isAssertion(lang string) bool {
	switch AssertionType(lang) {
	case AssertAST, AssertHIR, AssertError:
		return true
	}
	return false
}

func plainText(node ast.Node, src []byte) string {
	var buf bytes.Buffer
	_ = ast.Walk(node, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if t, ok := n.(*ast.Text); ok && entering {
			buf.Write(t.Segment.Value(src))
		}
		return ast.WalkContinue, nil
	})
	return buf.String()
}

func fenceContent(block *ast.FencedCodeBlock, src []byte) string {
	var buf bytes.Buffer
	lines := block.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		buf.Write(seg.Value(src))
	}
	return buf.String()
}

// lineOf is the 1-based line of the node's first content line.
func lineOf(node ast.Node, src []byte) int {
	if node.Lines().Len() == 0 {
		return 0
	}
	return bytes.Count(src[:node.Lines().At(0).Start], []byte("\n")) + 1
}
