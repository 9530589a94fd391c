package hir

import "vex/internal/semantics/symbols"

// Pattern is the sealed set of interned pattern values.
type Pattern interface {
	hirPattern()
}

type (
	PatternRef  = Ref[Pattern]
	PatternList = ListRef[Pattern]
)

type Wildcard struct{}

// Bind introduces Name. ID is the occurrence registered for it, so every
// binding site is a distinct value even when names repeat.
type Bind struct {
	Name symbols.ID
	ID   ID
}

type LiteralPattern struct{ Value ExprRef }
type TuplePattern struct{ Elems PatternList }
type ListPattern struct{ Elems PatternList }

// RestPattern is `..` or `..name`; Bind is absent for the former.
type RestPattern struct{ Bind PatternRef }

// PathPattern matches a constant or unit variant that is already in scope.
type PathPattern struct{ Path ExprRef }

type ConstructorPattern struct {
	Path ExprRef
	Args PatternList
}

type RecordPattern struct {
	Path   ExprRef
	Fields PatternList
}

// FieldPattern with an absent Pattern is the shorthand `{ x }`.
type FieldPattern struct {
	Name    symbols.ID
	Pattern PatternRef
}

type OrPattern struct{ X, Y PatternRef }

type AsPattern struct {
	Pattern PatternRef
	Bind    PatternRef
}

type GuardPattern struct {
	Pattern PatternRef
	Guard   ExprRef
}

type RangePattern struct {
	Lo, Hi    ExprRef
	Inclusive bool
}

func (Wildcard) hirPattern()           {}
func (Bind) hirPattern()               {}
func (LiteralPattern) hirPattern()     {}
func (TuplePattern) hirPattern()       {}
func (ListPattern) hirPattern()        {}
func (RestPattern) hirPattern()        {}
func (PathPattern) hirPattern()        {}
func (ConstructorPattern) hirPattern() {}
func (RecordPattern) hirPattern()      {}
func (FieldPattern) hirPattern()       {}
func (OrPattern) hirPattern()          {}
func (AsPattern) hirPattern()          {}
func (GuardPattern) hirPattern()       {}
func (RangePattern) hirPattern()       {}
