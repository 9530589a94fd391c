package ast

// Kind tags a node in the flat store.
type Kind uint8

const (
	Invalid Kind = iota

	// leaves
	Ident
	Int
	Real
	Str
	Char
	Bool
	Wildcard
	Continue

	// unary
	Neg
	Not
	BitNot
	Propagate
	Unwrap
	Return
	Break
	Resume
	Loop
	Public
	Use
	ListType
	OptionType
	Requires
	Ensures
	Decreases
	Invariant
	RestPattern

	// binary operators
	Add
	Sub
	Mul
	Div
	Mod
	Pow
	Eq
	Ne
	Lt
	Le
	Gt
	Ge
	And
	Or
	BitAnd
	BitOr
	BitXor
	Shl
	Shr
	Range
	RangeInclusive
	Coalesce
	Assign
	AddAssign
	SubAssign
	MulAssign
	DivAssign
	ModAssign
	Is
	As

	// other pairs
	Select
	IndexAccess
	While
	Attribute
	Property
	PropertyAssignment
	MatchArm
	GenericParam
	ExtendedCall
	OrPattern
	AsPattern
	GuardPattern
	RangePattern
	RangeInclusivePattern
	FieldPattern

	If
	For
	Let
	Const
	Param
	Field
	RefinementType

	IfLet

	File
	Block
	List
	Tuple
	Object
	TupleType
	TuplePattern
	ListPattern
	EffectRow

	Call
	GenericApply
	ObjectCall
	Match
	Handle
	ConstructorPattern
	RecordPattern
	Variant
	Module
	GenericType

	HandlerClause
	Forall
	Exists

	Lambda

	FunctionDef
	EffectDef
	StructDef
	EnumDef
	TraitDef
	ImplDef
	TypeAlias
	AssocType
	FnType

	kindCount
)

var kindNames = [kindCount]string{
	Invalid:               "Invalid",
	Ident:                 "Ident",
	Int:                   "Int",
	Real:                  "Real",
	Str:                   "Str",
	Char:                  "Char",
	Bool:                  "Bool",
	Wildcard:              "Wildcard",
	Continue:              "Continue",
	Neg:                   "Neg",
	Not:                   "Not",
	BitNot:                "BitNot",
	Propagate:             "Propagate",
	Unwrap:                "Unwrap",
	Return:                "Return",
	Break:                 "Break",
	Resume:                "Resume",
	Loop:                  "Loop",
	Public:                "Public",
	Use:                   "Use",
	ListType:              "ListType",
	OptionType:            "OptionType",
	Requires:              "Requires",
	Ensures:               "Ensures",
	Decreases:             "Decreases",
	Invariant:             "Invariant",
	RestPattern:           "RestPattern",
	Add:                   "Add",
	Sub:                   "Sub",
	Mul:                   "Mul",
	Div:                   "Div",
	Mod:                   "Mod",
	Pow:                   "Pow",
	Eq:                    "Eq",
	Ne:                    "Ne",
	Lt:                    "Lt",
	Le:                    "Le",
	Gt:                    "Gt",
	Ge:                    "Ge",
	And:                   "And",
	Or:                    "Or",
	BitAnd:                "BitAnd",
	BitOr:                 "BitOr",
	BitXor:                "BitXor",
	Shl:                   "Shl",
	Shr:                   "Shr",
	Range:                 "Range",
	RangeInclusive:        "RangeInclusive",
	Coalesce:              "Coalesce",
	Assign:                "Assign",
	AddAssign:             "AddAssign",
	SubAssign:             "SubAssign",
	MulAssign:             "MulAssign",
	DivAssign:             "DivAssign",
	ModAssign:             "ModAssign",
	Is:                    "Is",
	As:                    "As",
	Select:                "Select",
	IndexAccess:           "IndexAccess",
	While:                 "While",
	Attribute:             "Attribute",
	Property:              "Property",
	PropertyAssignment:    "PropertyAssignment",
	MatchArm:              "MatchArm",
	GenericParam:          "GenericParam",
	ExtendedCall:          "ExtendedCall",
	OrPattern:             "OrPattern",
	AsPattern:             "AsPattern",
	GuardPattern:          "GuardPattern",
	RangePattern:          "RangePattern",
	RangeInclusivePattern: "RangeInclusivePattern",
	FieldPattern:          "FieldPattern",
	If:                    "If",
	For:                   "For",
	Let:                   "Let",
	Const:                 "Const",
	Param:                 "Param",
	Field:                 "Field",
	RefinementType:        "RefinementType",
	IfLet:                 "IfLet",
	File:                  "File",
	Block:                 "Block",
	List:                  "List",
	Tuple:                 "Tuple",
	Object:                "Object",
	TupleType:             "TupleType",
	TuplePattern:          "TuplePattern",
	ListPattern:           "ListPattern",
	EffectRow:             "EffectRow",
	Call:                  "Call",
	GenericApply:          "GenericApply",
	ObjectCall:            "ObjectCall",
	Match:                 "Match",
	Handle:                "Handle",
	ConstructorPattern:    "ConstructorPattern",
	RecordPattern:         "RecordPattern",
	Variant:               "Variant",
	Module:                "Module",
	GenericType:           "GenericType",
	HandlerClause:         "HandlerClause",
	Forall:                "Forall",
	Exists:                "Exists",
	Lambda:                "Lambda",
	FunctionDef:           "FunctionDef",
	EffectDef:             "EffectDef",
	StructDef:             "StructDef",
	EnumDef:               "EnumDef",
	TraitDef:              "TraitDef",
	ImplDef:               "ImplDef",
	TypeAlias:             "TypeAlias",
	AssocType:             "AssocType",
	FnType:                "FnType",
}

func (k Kind) String() string {
	if k >= kindCount {
		return "Kind(?)"
	}
	return kindNames[k]
}

// Kinds lists every kind, Invalid included.
func Kinds() []Kind {
	out := make([]Kind, kindCount)
	for i := range out {
		out[i] = Kind(i)
	}
	return out
}

// IsLeaf reports whether the kind's dump shows its source text.
func (k Kind) IsLeaf() bool {
	switch k {
	case Ident, Int, Real, Str, Char, Bool:
		return true
	}
	return false
}

// Function-type modifier bits stored in the raw FnType slot.
const (
	ModPure   uint32 = 1 << iota // pure
	ModTotal                     // total
	ModAsync                     // async
	ModUnsafe                    // unsafe
)
