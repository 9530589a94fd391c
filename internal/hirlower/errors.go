package hirlower

import (
	"fmt"

	"vex/internal/diagnostics"
	"vex/internal/source"
)

// ErrorKind classifies a lowering failure.
type ErrorKind uint8

const (
	LiteralError ErrorKind = iota + 1
	UnresolvedIdentifier
	InternalError
	ScopeError
)

// CodeBase is the first numeric code of the lowering range.
const CodeBase = 4000

var kindNames = [...]string{
	LiteralError:         "LiteralError",
	UnresolvedIdentifier: "UnresolvedIdentifier",
	InternalError:        "InternalError",
	ScopeError:           "ScopeError",
}

var kindCodes = [...]string{
	LiteralError:         diagnostics.ErrLiteral,
	UnresolvedIdentifier: diagnostics.ErrUnresolvedIdentifier,
	InternalError:        diagnostics.ErrInternal,
	ScopeError:           diagnostics.ErrScope,
}

func (k ErrorKind) String() string {
	if k == 0 || int(k) >= len(kindNames) {
		return "ErrorKind(?)"
	}
	return kindNames[k]
}

// Code is the stable numeric code for tooling.
func (k ErrorKind) Code() int { return CodeBase + int(k) }

// Error is a failure to lower one node. Name carries the spelling for
// identifier and scope errors.
type Error struct {
	Kind    ErrorKind
	Message string
	Span    source.Span
	Name    string
	Err     error
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Code() int { return e.Kind.Code() }

// ErrorName is the variant tag, e.g. "UnresolvedIdentifier".
func (e *Error) ErrorName() string { return e.Kind.String() }

// Diagnostic builds the report for file.
func (e *Error) Diagnostic(file *source.File) *diagnostics.Diagnostic {
	code := fmt.Sprintf("E%04d", e.Code())
	if int(e.Kind) < len(kindCodes) && kindCodes[e.Kind] != "" {
		code = kindCodes[e.Kind]
	}
	diag := diagnostics.NewError(e.Message).WithCode(code)
	if file == nil {
		return diag
	}
	diag.WithPrimaryLabel(file.Path, file.Location(e.Span), e.label())
	switch e.Kind {
	case UnresolvedIdentifier:
		diag.WithHelp(fmt.Sprintf("declare `%s` before using it", e.Name))
	case InternalError:
		diag.WithNote("this is a compiler bug")
	}
	return diag
}

func (e *Error) label() string {
	switch e.Kind {
	case LiteralError:
		return "invalid literal"
	case UnresolvedIdentifier:
		return "not found in this scope"
	case ScopeError:
		return "declared here"
	}
	return ""
}

func literalError(span source.Span, text string, err error) *Error {
	return &Error{
		Kind:    LiteralError,
		Message: fmt.Sprintf("invalid literal `%s`", text),
		Span:    span,
		Name:    text,
		Err:     err,
	}
}

func internalError(span source.Span, format string, args ...any) *Error {
	return &Error{Kind: InternalError, Message: fmt.Sprintf(format, args...), Span: span}
}
