package hir

import "vex/internal/semantics/symbols"

// Definition is the sealed set of interned item values. Each carries the
// ID of its own occurrence so two identical items stay distinct.
type Definition interface {
	hirDef()
}

type (
	DefRef  = Ref[Definition]
	DefList = ListRef[Definition]
)

type Function struct {
	ID       ID
	Name     symbols.ID
	Generics ParamList
	Params   ParamList
	Ret      ExprRef
	Effects  ExprList
	Clauses  ClauseList
	Body     ExprRef // absent for declarations
}

type EffectDef struct {
	ID       ID
	Name     symbols.ID
	Generics ParamList
	Ops      DefList
}

type TraitDef struct {
	ID       ID
	Name     symbols.ID
	Generics ParamList
	Supers   ExprList
	Members  DefList
}

// ImplDef has an absent Trait for inherent impls.
type ImplDef struct {
	ID       ID
	Generics ParamList
	Trait    ExprRef
	Target   ExprRef
	Members  DefList
}

type TypeAlias struct {
	ID       ID
	Name     symbols.ID
	Generics ParamList
	Type     ExprRef
}

type StructDef struct {
	ID       ID
	Name     symbols.ID
	Generics ParamList
	Fields   DefList
}

type FieldDef struct {
	Name    symbols.ID
	Type    ExprRef
	Default ExprRef
}

type EnumDef struct {
	ID       ID
	Name     symbols.ID
	Generics ParamList
	Variants DefList
}

type VariantDef struct {
	ID      ID
	Name    symbols.ID
	Payload ExprList
}

type AssocType struct {
	ID      ID
	Name    symbols.ID
	Bounds  ExprList
	Default ExprRef
}

// ConstDef is a top-level const, visible to the whole module.
type ConstDef struct {
	ID      ID
	Pattern PatternRef
	Type    ExprRef
	Value   ExprRef
}

// ModuleDef is a file or a `mod` block. Body holds the non-item elements.
type ModuleDef struct {
	ID    ID
	Name  symbols.ID
	Items DefList
	Body  ExprRef
}

type UseDef struct{ Path ExprRef }
type Public struct{ Def DefRef }

type AttributedDef struct {
	Attr ExprRef
	Def  DefRef
}

func (Function) hirDef()      {}
func (EffectDef) hirDef()     {}
func (TraitDef) hirDef()      {}
func (ImplDef) hirDef()       {}
func (TypeAlias) hirDef()     {}
func (StructDef) hirDef()     {}
func (FieldDef) hirDef()      {}
func (EnumDef) hirDef()       {}
func (VariantDef) hirDef()    {}
func (AssocType) hirDef()     {}
func (ConstDef) hirDef()      {}
func (ModuleDef) hirDef()     {}
func (UseDef) hirDef()        {}
func (Public) hirDef()        {}
func (AttributedDef) hirDef() {}

// Clause is the sealed set of contract clauses and arms.
type Clause interface {
	hirClause()
}

type (
	ClauseRef  = Ref[Clause]
	ClauseList = ListRef[Clause]
)

type Requires struct{ Cond ExprRef }
type Ensures struct{ Cond ExprRef }
type Decreases struct{ Measure ExprRef }
type Invariant struct{ Cond ExprRef }

type MatchArm struct {
	Pattern PatternRef
	Body    ExprRef
}

type HandlerArm struct {
	Op     ExprRef
	Params ParamList
	Body   ExprRef
}

func (Requires) hirClause()   {}
func (Ensures) hirClause()    {}
func (Decreases) hirClause()  {}
func (Invariant) hirClause()  {}
func (MatchArm) hirClause()   {}
func (HandlerArm) hirClause() {}

// Param is a function, lambda or generic parameter. Generic parameters use
// Type for their bound.
type Param struct {
	Pattern PatternRef
	Type    ExprRef
	Default ExprRef
}

type (
	ParamRef  = Ref[Param]
	ParamList = ListRef[Param]
)

// Property is a named argument or an object field.
type Property struct {
	Name  symbols.ID
	Value ExprRef
}

type (
	PropRef  = Ref[Property]
	PropList = ListRef[Property]
)
