package hir

import (
	"errors"
	"fmt"

	"vex/internal/semantics/symbols"
	"vex/internal/source"
)

// MappingKind says what an occurrence is.
type MappingKind uint8

const (
	MappingLocal MappingKind = iota + 1
	MappingParam
	MappingGeneric
	MappingDefinition
	MappingResult
	MappingModule
)

func (k MappingKind) String() string {
	switch k {
	case MappingLocal:
		return "local"
	case MappingParam:
		return "param"
	case MappingGeneric:
		return "generic"
	case MappingDefinition:
		return "definition"
	case MappingResult:
		return "result"
	case MappingModule:
		return "module"
	}
	return "unknown"
}

// Mapping records one occurrence: who owns it, what it is called and where
// it came from. Def or Pattern is filled in once known.
type Mapping struct {
	Kind    MappingKind
	Owner   ID
	Name    symbols.ID
	Span    source.Span
	Def     DefRef
	Pattern PatternRef
}

var ErrUnknownID = errors.New("unknown hir id")

// Singletons are values interned once when the store is built.
type Singletons struct {
	SelfVal, SelfType, Null, Undefined ExprRef
	Any, AnyType, Void, NoReturn, Bool ExprRef
	Unit, Hole, Continue               ExprRef
	Wildcard                           PatternRef

	NoExprs    ExprList
	NoPatterns PatternList
	NoDefs     DefList
	NoClauses  ClauseList
	NoParams   ParamList
	NoProps    PropList
}

// Store owns every HIR arena and the occurrence table for a compilation.
// It is not safe for concurrent use.
type Store struct {
	Exprs        *Arena[Expr]
	ExprLists    *ListArena[Expr]
	Patterns     *Arena[Pattern]
	PatternLists *ListArena[Pattern]
	Defs         *Arena[Definition]
	DefLists     *ListArena[Definition]
	Clauses      *Arena[Clause]
	ClauseLists  *ListArena[Clause]
	Params       *Arena[Param]
	ParamLists   *ListArena[Param]
	Props        *Arena[Property]
	PropLists    *ListArena[Property]

	Singletons Singletons

	mappings  []Mapping
	preserved map[string]ExprRef
}

func NewStore() *Store {
	s := &Store{
		Exprs:        NewArena[Expr](),
		ExprLists:    NewListArena[Expr](),
		Patterns:     NewArena[Pattern](),
		PatternLists: NewListArena[Pattern](),
		Defs:         NewArena[Definition](),
		DefLists:     NewListArena[Definition](),
		Clauses:      NewArena[Clause](),
		ClauseLists:  NewListArena[Clause](),
		Params:       NewArena[Param](),
		ParamLists:   NewListArena[Param](),
		Props:        NewArena[Property](),
		PropLists:    NewListArena[Property](),
		mappings:     []Mapping{{}},
	}

	s.Singletons = Singletons{
		SelfVal:   s.Expr(SelfVal{}),
		SelfType:  s.Expr(SelfType{}),
		Null:      s.Expr(Null{}),
		Undefined: s.Expr(Undefined{}),
		Any:       s.Expr(AnyValue{}),
		AnyType:   s.Expr(AnyType{}),
		Void:      s.Expr(Void{}),
		NoReturn:  s.Expr(NoReturn{}),
		Bool:      s.Expr(BoolType{}),
		Unit:      s.Expr(Unit{}),
		Hole:      s.Expr(Hole{}),
		Continue:  s.Expr(Continue{}),
		Wildcard:  s.Pattern(Wildcard{}),

		NoExprs:    s.ExprLists.Empty(),
		NoPatterns: s.PatternLists.Empty(),
		NoDefs:     s.DefLists.Empty(),
		NoClauses:  s.ClauseLists.Empty(),
		NoParams:   s.ParamLists.Empty(),
		NoProps:    s.PropLists.Empty(),
	}

	s.preserved = map[string]ExprRef{
		"self":      s.Singletons.SelfVal,
		"Self":      s.Singletons.SelfType,
		"null":      s.Singletons.Null,
		"undefined": s.Singletons.Undefined,
		"any":       s.Singletons.Any,
		"Any":       s.Singletons.AnyType,
		"void":      s.Singletons.Void,
		"NoReturn":  s.Singletons.NoReturn,
		"bool":      s.Singletons.Bool,
	}
	return s
}

// Preserved returns the singleton for a reserved spelling. These names are
// never looked up in scope.
func (s *Store) Preserved(name string) (ExprRef, bool) {
	ref, ok := s.preserved[name]
	return ref, ok
}

func (s *Store) Expr(e Expr) ExprRef                     { return s.Exprs.Intern(e) }
func (s *Store) ExprList(es []ExprRef) ExprList          { return s.ExprLists.Intern(es) }
func (s *Store) Pattern(p Pattern) PatternRef            { return s.Patterns.Intern(p) }
func (s *Store) PatternList(ps []PatternRef) PatternList { return s.PatternLists.Intern(ps) }
func (s *Store) Def(d Definition) DefRef                 { return s.Defs.Intern(d) }
func (s *Store) DefList(ds []DefRef) DefList             { return s.DefLists.Intern(ds) }
func (s *Store) Clause(c Clause) ClauseRef               { return s.Clauses.Intern(c) }
func (s *Store) ClauseList(cs []ClauseRef) ClauseList    { return s.ClauseLists.Intern(cs) }
func (s *Store) Param(p Param) ParamRef                  { return s.Params.Intern(p) }
func (s *Store) ParamList(ps []ParamRef) ParamList       { return s.ParamLists.Intern(ps) }
func (s *Store) Prop(p Property) PropRef                 { return s.Props.Intern(p) }
func (s *Store) PropList(ps []PropRef) PropList          { return s.PropLists.Intern(ps) }

// Put records a new occurrence. Every call returns a fresh ID.
func (s *Store) Put(m Mapping) ID {
	s.mappings = append(s.mappings, m)
	return ID(len(s.mappings) - 1)
}

// Update overwrites an occurrence, typically a placeholder from Put.
func (s *Store) Update(id ID, m Mapping) error {
	if id == NoID || int(id) >= len(s.mappings) {
		return fmt.Errorf("%w: %s", ErrUnknownID, id)
	}
	s.mappings[id] = m
	return nil
}

// Mapping returns the occurrence recorded for id.
func (s *Store) Mapping(id ID) (Mapping, bool) {
	if id == NoID || int(id) >= len(s.mappings) {
		return Mapping{}, false
	}
	return s.mappings[id], true
}

// Mappings is the number of recorded occurrences.
func (s *Store) Mappings() int { return len(s.mappings) - 1 }
