package hir

import "vex/internal/semantics/symbols"

// Expr is the sealed set of interned expression values. Every variant is a
// comparable struct holding handles, never slices or pointers.
type Expr interface {
	hirExpr()
}

type (
	ExprRef  = Ref[Expr]
	ExprList = ListRef[Expr]
)

// BinaryOp is the operator of a BinaryApply or compound Assign.
type BinaryOp uint8

const (
	OpNone BinaryOp = iota
	OpAdd
	OpSub
	OpMul
	OpDiv
	OpMod
	OpPow
	OpEq
	OpNe
	OpLt
	OpLe
	OpGt
	OpGe
	OpAnd
	OpOr
	OpBitAnd
	OpBitOr
	OpBitXor
	OpShl
	OpShr
	OpCoalesce
)

var binaryNames = [...]string{
	OpNone: "=", OpAdd: "+", OpSub: "-", OpMul: "*", OpDiv: "/", OpMod: "%",
	OpPow: "**", OpEq: "==", OpNe: "!=", OpLt: "<", OpLe: "<=", OpGt: ">",
	OpGe: ">=", OpAnd: "&&", OpOr: "||", OpBitAnd: "&", OpBitOr: "|",
	OpBitXor: "^", OpShl: "<<", OpShr: ">>", OpCoalesce: "??",
}

func (op BinaryOp) String() string {
	if int(op) < len(binaryNames) {
		return binaryNames[op]
	}
	return "?"
}

// UnaryOp is the operator of a UnaryApply.
type UnaryOp uint8

const (
	OpNeg UnaryOp = iota + 1
	OpNot
	OpBitNot
)

func (op UnaryOp) String() string {
	switch op {
	case OpNeg:
		return "-"
	case OpNot:
		return "!"
	case OpBitNot:
		return "~"
	}
	return "?"
}

// literals

type IntLiteral struct{ Value int64 }

// RealLiteral is Whole + Fraction / 10^Scale, so 3.14 is {3, 14, 2}.
type RealLiteral struct {
	Whole    int64
	Fraction int64
	Scale    int32
}

type StrLiteral struct{ Value string }
type CharLiteral struct{ Value rune }
type BoolLiteral struct{ Value bool }

// preserved values, one canonical instance each

type SelfVal struct{}
type SelfType struct{}
type Null struct{}
type Undefined struct{}
type AnyValue struct{}
type AnyType struct{}
type Void struct{}
type NoReturn struct{}
type BoolType struct{}
type Unit struct{}

// Hole is `_` in expression or type position.
type Hole struct{}

// Ref points at the occurrence a name resolved to.
type RefExpr struct{ Target ID }

type BinaryApply struct {
	Op   BinaryOp
	X, Y ExprRef
}

type UnaryApply struct {
	Op UnaryOp
	X  ExprRef
}

type Range struct {
	Start, End ExprRef
	Inclusive  bool
}

// Assign with Op OpNone is plain `=`.
type Assign struct {
	Op            BinaryOp
	Target, Value ExprRef
}

type Select struct {
	X     ExprRef
	Field symbols.ID
}

type Index struct{ X, Index ExprRef }
type Is struct{ X, Type ExprRef }
type As struct{ X, Type ExprRef }

type List struct{ Elems ExprList }
type Tuple struct{ Elems ExprList }

// Object is a record literal. Type is absent for `{ a: 1 }`.
type Object struct {
	Type  ExprRef
	Props PropList
}

type Call struct {
	Callee ExprRef
	Args   ExprList
	Named  PropList
}

type GenericApply struct {
	Callee ExprRef
	Args   ExprList
}

type Block struct{ Stmts ExprList }

// Let binds Pattern for the rest of the enclosing block, which is Body.
type Let struct {
	Pattern PatternRef
	Type    ExprRef
	Value   ExprRef
	Body    ExprRef
}

type Const struct {
	Pattern PatternRef
	Type    ExprRef
	Value   ExprRef
	Body    ExprRef
}

type If struct{ Cond, Then, Else ExprRef }

type IfLet struct {
	Pattern           PatternRef
	Value, Then, Else ExprRef
}

type While struct{ Cond, Body ExprRef }
type Loop struct{ Body ExprRef }

type For struct {
	Pattern    PatternRef
	Iter, Body ExprRef
}

type Match struct {
	Scrutinee ExprRef
	Arms      ClauseList
}

type Handle struct {
	Body     ExprRef
	Handlers ClauseList
}

type Resume struct{ Value ExprRef }
type Return struct{ Value ExprRef }
type Break struct{ Value ExprRef }
type Continue struct{}

type Lambda struct {
	Params  ParamList
	Ret     ExprRef
	Effects ExprRef
	Body    ExprRef
}

type Quantifier struct {
	Exists     bool
	Params     ParamList
	Cond, Body ExprRef
}

type Propagate struct{ X ExprRef }
type Unwrap struct{ X ExprRef }

// LocalDef is an item declared inside a block.
type LocalDef struct{ Def DefRef }

type Attributed struct{ Attr, X ExprRef }

// Label is a bare name that is not resolved, such as an attribute name.
type Label struct{ Name symbols.ID }

// type forms

type TypeApply struct {
	Base ExprRef
	Args ExprList
}

type ListType struct{ Elem ExprRef }
type OptionType struct{ Elem ExprRef }
type TupleType struct{ Elems ExprList }

type FnType struct {
	Modifiers uint32
	Params    ExprList
	Ret       ExprRef
	Effects   ExprList
}

type RefinementType struct {
	Binder     ID
	Base, Pred ExprRef
}

type EffectRow struct{ Effects ExprList }

func (IntLiteral) hirExpr()     {}
func (RealLiteral) hirExpr()    {}
func (StrLiteral) hirExpr()     {}
func (CharLiteral) hirExpr()    {}
func (BoolLiteral) hirExpr()    {}
func (SelfVal) hirExpr()        {}
func (SelfType) hirExpr()       {}
func (Null) hirExpr()           {}
func (Undefined) hirExpr()      {}
func (AnyValue) hirExpr()       {}
func (AnyType) hirExpr()        {}
func (Void) hirExpr()           {}
func (NoReturn) hirExpr()       {}
func (BoolType) hirExpr()       {}
func (Unit) hirExpr()           {}
func (Hole) hirExpr()           {}
func (RefExpr) hirExpr()        {}
func (BinaryApply) hirExpr()    {}
func (UnaryApply) hirExpr()     {}
func (Range) hirExpr()          {}
func (Assign) hirExpr()         {}
func (Select) hirExpr()         {}
func (Index) hirExpr()          {}
func (Is) hirExpr()             {}
func (As) hirExpr()             {}
func (List) hirExpr()           {}
func (Tuple) hirExpr()          {}
func (Object) hirExpr()         {}
func (Call) hirExpr()           {}
func (GenericApply) hirExpr()   {}
func (Block) hirExpr()          {}
func (Let) hirExpr()            {}
func (Const) hirExpr()          {}
func (If) hirExpr()             {}
func (IfLet) hirExpr()          {}
func (While) hirExpr()          {}
func (Loop) hirExpr()           {}
func (For) hirExpr()            {}
func (Match) hirExpr()          {}
func (Handle) hirExpr()         {}
func (Resume) hirExpr()         {}
func (Return) hirExpr()         {}
func (Break) hirExpr()          {}
func (Continue) hirExpr()       {}
func (Lambda) hirExpr()         {}
func (Quantifier) hirExpr()     {}
func (Propagate) hirExpr()      {}
func (Unwrap) hirExpr()         {}
func (LocalDef) hirExpr()       {}
func (Attributed) hirExpr()     {}
func (Label) hirExpr()          {}
func (TypeApply) hirExpr()      {}
func (ListType) hirExpr()       {}
func (OptionType) hirExpr()     {}
func (TupleType) hirExpr()      {}
func (FnType) hirExpr()         {}
func (RefinementType) hirExpr() {}
func (EffectRow) hirExpr()      {}
