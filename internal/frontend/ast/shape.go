package ast

import "fmt"

// Arity classifies how a node's child run is laid out.
type Arity uint8

const (
	NoChild Arity = iota
	Single
	Double
	Triple
	Quadruple
	MultiOnly
	SingleWithMulti
	DoubleWithMulti
	TripleWithMulti

	// irregular shapes
	FunctionShape   // name, generics*, params*, ret, effects*, clauses*, body
	EffectShape     // name, generics*, members*
	TraitShape      // name, generics*, supertraits*, members*
	ImplShape       // generics*, trait, target, members*
	TypeAliasShape  // name, generics*, type
	AssociatedShape // name, bounds*, default
	FnTypeShape     // modifiers(raw), params*, ret, effects*
)

// SlotKind says how to read one entry of a child run.
type SlotKind uint8

const (
	NodeSlot  SlotKind = iota // a node index, 0 when absent
	MultiSlot                 // an offset into the pool where a counted group starts
	RawSlot                   // an opaque integer, never a node
)

func (s SlotKind) String() string {
	switch s {
	case NodeSlot:
		return "node"
	case MultiSlot:
		return "multi"
	case RawSlot:
		return "raw"
	}
	return "slot(?)"
}

var layouts = [...][]SlotKind{
	NoChild:         {},
	Single:          {NodeSlot},
	Double:          {NodeSlot, NodeSlot},
	Triple:          {NodeSlot, NodeSlot, NodeSlot},
	Quadruple:       {NodeSlot, NodeSlot, NodeSlot, NodeSlot},
	MultiOnly:       {MultiSlot},
	SingleWithMulti: {NodeSlot, MultiSlot},
	DoubleWithMulti: {NodeSlot, NodeSlot, MultiSlot},
	TripleWithMulti: {NodeSlot, NodeSlot, NodeSlot, MultiSlot},
	FunctionShape:   {NodeSlot, MultiSlot, MultiSlot, NodeSlot, MultiSlot, MultiSlot, NodeSlot},
	EffectShape:     {NodeSlot, MultiSlot, MultiSlot},
	TraitShape:      {NodeSlot, MultiSlot, MultiSlot, MultiSlot},
	ImplShape:       {MultiSlot, NodeSlot, NodeSlot, MultiSlot},
	TypeAliasShape:  {NodeSlot, MultiSlot, NodeSlot},
	AssociatedShape: {NodeSlot, MultiSlot, NodeSlot},
	FnTypeShape:     {RawSlot, MultiSlot, NodeSlot, MultiSlot},
}

// Slots returns the slot layout for the arity. Callers must not modify it.
func (a Arity) Slots() []SlotKind {
	if int(a) >= len(layouts) {
		return nil
	}
	return layouts[a]
}

func (a Arity) String() string {
	names := [...]string{
		"NoChild", "Single", "Double", "Triple", "Quadruple", "MultiOnly",
		"SingleWithMulti", "DoubleWithMulti", "TripleWithMulti",
		"Function", "Effect", "Trait", "Impl", "TypeAlias", "Associated", "FnType",
	}
	if int(a) >= len(names) {
		return fmt.Sprintf("Arity(%d)", a)
	}
	return names[a]
}

// ShapeOf is the single source of truth for child layouts.
func ShapeOf(k Kind) Arity {
	switch k {
	case Invalid, Ident, Int, Real, Str, Char, Bool, Wildcard, Continue:
		return NoChild

	case Neg, Not, BitNot, Propagate, Unwrap, Return, Break, Resume, Loop,
		Public, Use, ListType, OptionType, Requires, Ensures, Decreases,
		Invariant, RestPattern:
		return Single

	case Add, Sub, Mul, Div, Mod, Pow, Eq, Ne, Lt, Le, Gt, Ge, And, Or,
		BitAnd, BitOr, BitXor, Shl, Shr, Range, RangeInclusive, Coalesce,
		Assign, AddAssign, SubAssign, MulAssign, DivAssign, ModAssign, Is, As,
		Select, IndexAccess, While, Attribute, Property, PropertyAssignment,
		MatchArm, GenericParam, ExtendedCall, OrPattern, AsPattern,
		GuardPattern, RangePattern, RangeInclusivePattern, FieldPattern:
		return Double

	case If, For, Let, Const, Param, Field, RefinementType:
		return Triple

	case IfLet:
		return Quadruple

	case File, Block, List, Tuple, Object, TupleType, TuplePattern,
		ListPattern, EffectRow:
		return MultiOnly

	case Call, GenericApply, ObjectCall, Match, Handle, ConstructorPattern,
		RecordPattern, Variant, Module, GenericType:
		return SingleWithMulti

	case HandlerClause, Forall, Exists:
		return DoubleWithMulti

	case Lambda:
		return TripleWithMulti

	case FunctionDef:
		return FunctionShape
	case EffectDef, StructDef, EnumDef:
		return EffectShape
	case TraitDef:
		return TraitShape
	case ImplDef:
		return ImplShape
	case TypeAlias:
		return TypeAliasShape
	case AssocType:
		return AssociatedShape
	case FnType:
		return FnTypeShape
	}
	panic(fmt.Sprintf("ast: no shape for %v", k))
}

// IsBinaryOperator reports whether k is an infix operator node.
func IsBinaryOperator(k Kind) bool {
	return k >= Add && k <= As
}
