package hir

import (
	"fmt"
	"strconv"
	"strings"

	"vex/internal/semantics/symbols"
)

// DumpExpr renders an expression as a one-line S-expression. Names are
// spelled through names; a nil interner prints raw symbol IDs.
func (s *Store) DumpExpr(ref ExprRef, names *symbols.Interner) string {
	d := dumper{store: s, names: names}
	d.expr(ref)
	return d.sb.String()
}

// DumpDef renders a definition the same way.
func (s *Store) DumpDef(ref DefRef, names *symbols.Interner) string {
	d := dumper{store: s, names: names}
	d.def(ref)
	return d.sb.String()
}

func (s *Store) DumpPattern(ref PatternRef, names *symbols.Interner) string {
	d := dumper{store: s, names: names}
	d.pattern(ref)
	return d.sb.String()
}

type dumper struct {
	store *Store
	names *symbols.Interner
	sb    strings.Builder
}

// node writes `(head part part ...)`. Parts are callbacks so nesting
// streams straight into the builder.
func (d *dumper) node(head string, parts ...func()) {
	d.sb.WriteByte('(')
	d.sb.WriteString(head)
	for _, part := range parts {
		d.sb.WriteByte(' ')
		part()
	}
	d.sb.WriteByte(')')
}

func (d *dumper) text(s string) func() { return func() { d.sb.WriteString(s) } }

func (d *dumper) name(id symbols.ID) func() {
	return func() {
		if d.names != nil && d.names.Name(id) != "" {
			d.sb.WriteString(d.names.Name(id))
			return
		}
		fmt.Fprintf(&d.sb, "$%d", uint32(id))
	}
}

func (d *dumper) e(ref ExprRef) func() { return func() { d.expr(ref) } }

func (d *dumper) p(ref PatternRef) func() { return func() { d.pattern(ref) } }

func (d *dumper) es(list ExprList) func() {
	return func() { group(d, d.store.ExprLists.Get(list), d.expr) }
}

func (d *dumper) ps(list PatternList) func() {
	return func() { group(d, d.store.PatternLists.Get(list), d.pattern) }
}

func (d *dumper) ds(list DefList) func() {
	return func() { group(d, d.store.DefLists.Get(list), d.def) }
}

func (d *dumper) cs(list ClauseList) func() {
	return func() { group(d, d.store.ClauseLists.Get(list), d.clause) }
}

func (d *dumper) params(list ParamList) func() {
	return func() { group(d, d.store.ParamLists.Get(list), d.param) }
}

func (d *dumper) props(list PropList) func() {
	return func() { group(d, d.store.PropLists.Get(list), d.prop) }
}

func group[T any](d *dumper, refs []Ref[T], each func(Ref[T])) {
	d.sb.WriteByte('[')
	for i, ref := range refs {
		if i > 0 {
			d.sb.WriteByte(' ')
		}
		each(ref)
	}
	d.sb.WriteByte(']')
}

func (d *dumper) expr(ref ExprRef) {
	v, ok := d.store.Exprs.Get(ref)
	if !ok {
		d.sb.WriteByte('_')
		return
	}
	switch e := v.(type) {
	case IntLiteral:
		d.node("Int", d.text(strconv.FormatInt(e.Value, 10)))
	case RealLiteral:
		d.node("Real", d.text(formatReal(e)))
	case StrLiteral:
		d.node("Str", d.text(strconv.Quote(e.Value)))
	case CharLiteral:
		d.node("Char", d.text(strconv.QuoteRune(e.Value)))
	case BoolLiteral:
		d.node("Bool", d.text(strconv.FormatBool(e.Value)))
	case SelfVal:
		d.node("self")
	case SelfType:
		d.node("Self")
	case Null:
		d.node("null")
	case Undefined:
		d.node("undefined")
	case AnyValue:
		d.node("any")
	case AnyType:
		d.node("Any")
	case Void:
		d.node("void")
	case NoReturn:
		d.node("NoReturn")
	case BoolType:
		d.node("bool")
	case Unit:
		d.node("Unit")
	case Hole:
		d.node("Hole")
	case RefExpr:
		d.node("Ref", d.text(e.Target.String()))
	case BinaryApply:
		d.node(e.Op.String(), d.e(e.X), d.e(e.Y))
	case UnaryApply:
		d.node(e.Op.String(), d.e(e.X))
	case Range:
		head := "Range"
		if e.Inclusive {
			head = "RangeInclusive"
		}
		d.node(head, d.e(e.Start), d.e(e.End))
	case Assign:
		head := "Assign"
		if e.Op != OpNone {
			head += e.Op.String()
		}
		d.node(head, d.e(e.Target), d.e(e.Value))
	case Select:
		d.node("Select", d.e(e.X), d.name(e.Field))
	case Index:
		d.node("Index", d.e(e.X), d.e(e.Index))
	case Is:
		d.node("Is", d.e(e.X), d.e(e.Type))
	case As:
		d.node("As", d.e(e.X), d.e(e.Type))
	case List:
		d.node("List", d.es(e.Elems))
	case Tuple:
		d.node("Tuple", d.es(e.Elems))
	case Object:
		d.node("Object", d.e(e.Type), d.props(e.Props))
	case Call:
		d.node("Call", d.e(e.Callee), d.es(e.Args), d.props(e.Named))
	case GenericApply:
		d.node("GenericApply", d.e(e.Callee), d.es(e.Args))
	case Block:
		d.node("Block", d.es(e.Stmts))
	case Let:
		d.node("Let", d.p(e.Pattern), d.e(e.Type), d.e(e.Value), d.e(e.Body))
	case Const:
		d.node("Const", d.p(e.Pattern), d.e(e.Type), d.e(e.Value), d.e(e.Body))
	case If:
		d.node("If", d.e(e.Cond), d.e(e.Then), d.e(e.Else))
	case IfLet:
		d.node("IfLet", d.p(e.Pattern), d.e(e.Value), d.e(e.Then), d.e(e.Else))
	case While:
		d.node("While", d.e(e.Cond), d.e(e.Body))
	case Loop:
		d.node("Loop", d.e(e.Body))
	case For:
		d.node("For", d.p(e.Pattern), d.e(e.Iter), d.e(e.Body))
	case Match:
		d.node("Match", d.e(e.Scrutinee), d.cs(e.Arms))
	case Handle:
		d.node("Handle", d.e(e.Body), d.cs(e.Handlers))
	case Resume:
		d.node("Resume", d.e(e.Value))
	case Return:
		d.node("Return", d.e(e.Value))
	case Break:
		d.node("Break", d.e(e.Value))
	case Continue:
		d.node("Continue")
	case Lambda:
		d.node("Lambda", d.params(e.Params), d.e(e.Ret), d.e(e.Effects), d.e(e.Body))
	case Quantifier:
		head := "Forall"
		if e.Exists {
			head = "Exists"
		}
		d.node(head, d.params(e.Params), d.e(e.Cond), d.e(e.Body))
	case Propagate:
		d.node("Propagate", d.e(e.X))
	case Unwrap:
		d.node("Unwrap", d.e(e.X))
	case LocalDef:
		d.def(e.Def)
	case Attributed:
		d.node("Attributed", d.e(e.Attr), d.e(e.X))
	case Label:
		d.node("Label", d.name(e.Name))
	case TypeApply:
		d.node("TypeApply", d.e(e.Base), d.es(e.Args))
	case ListType:
		d.node("ListType", d.e(e.Elem))
	case OptionType:
		d.node("OptionType", d.e(e.Elem))
	case TupleType:
		d.node("TupleType", d.es(e.Elems))
	case FnType:
		d.node("FnType", d.text(strconv.FormatUint(uint64(e.Modifiers), 10)), d.es(e.Params), d.e(e.Ret), d.es(e.Effects))
	case RefinementType:
		d.node("Refinement", d.text(e.Binder.String()), d.e(e.Base), d.e(e.Pred))
	case EffectRow:
		d.node("EffectRow", d.es(e.Effects))
	default:
		d.node(fmt.Sprintf("%T", v))
	}
}

func (d *dumper) pattern(ref PatternRef) {
	v, ok := d.store.Patterns.Get(ref)
	if !ok {
		d.sb.WriteByte('_')
		return
	}
	switch p := v.(type) {
	case Wildcard:
		d.node("Wildcard")
	case Bind:
		d.node("Bind", d.name(p.Name), d.text(p.ID.String()))
	case LiteralPattern:
		d.node("Literal", d.e(p.Value))
	case TuplePattern:
		d.node("TuplePattern", d.ps(p.Elems))
	case ListPattern:
		d.node("ListPattern", d.ps(p.Elems))
	case RestPattern:
		d.node("Rest", d.p(p.Bind))
	case PathPattern:
		d.node("Path", d.e(p.Path))
	case ConstructorPattern:
		d.node("Constructor", d.e(p.Path), d.ps(p.Args))
	case RecordPattern:
		d.node("Record", d.e(p.Path), d.ps(p.Fields))
	case FieldPattern:
		d.node("Field", d.name(p.Name), d.p(p.Pattern))
	case OrPattern:
		d.node("Or", d.p(p.X), d.p(p.Y))
	case AsPattern:
		d.node("As", d.p(p.Pattern), d.p(p.Bind))
	case GuardPattern:
		d.node("Guard", d.p(p.Pattern), d.e(p.Guard))
	case RangePattern:
		head := "Range"
		if p.Inclusive {
			head = "RangeInclusive"
		}
		d.node(head, d.e(p.Lo), d.e(p.Hi))
	default:
		d.node(fmt.Sprintf("%T", v))
	}
}

func (d *dumper) def(ref DefRef) {
	v, ok := d.store.Defs.Get(ref)
	if !ok {
		d.sb.WriteByte('_')
		return
	}
	switch def := v.(type) {
	case Function:
		d.node("Function", d.name(def.Name), d.params(def.Generics), d.params(def.Params),
			d.e(def.Ret), d.es(def.Effects), d.cs(def.Clauses), d.e(def.Body))
	case EffectDef:
		d.node("Effect", d.name(def.Name), d.params(def.Generics), d.ds(def.Ops))
	case TraitDef:
		d.node("Trait", d.name(def.Name), d.params(def.Generics), d.es(def.Supers), d.ds(def.Members))
	case ImplDef:
		d.node("Impl", d.params(def.Generics), d.e(def.Trait), d.e(def.Target), d.ds(def.Members))
	case TypeAlias:
		d.node("TypeAlias", d.name(def.Name), d.params(def.Generics), d.e(def.Type))
	case StructDef:
		d.node("Struct", d.name(def.Name), d.params(def.Generics), d.ds(def.Fields))
	case FieldDef:
		d.node("Field", d.name(def.Name), d.e(def.Type), d.e(def.Default))
	case EnumDef:
		d.node("Enum", d.name(def.Name), d.params(def.Generics), d.ds(def.Variants))
	case VariantDef:
		d.node("Variant", d.name(def.Name), d.es(def.Payload))
	case AssocType:
		d.node("AssocType", d.name(def.Name), d.es(def.Bounds), d.e(def.Default))
	case ConstDef:
		d.node("ConstDef", d.p(def.Pattern), d.e(def.Type), d.e(def.Value))
	case ModuleDef:
		d.node("Module", d.name(def.Name), d.ds(def.Items), d.e(def.Body))
	case UseDef:
		d.node("Use", d.e(def.Path))
	case Public:
		d.node("Pub", func() { d.def(def.Def) })
	case AttributedDef:
		d.node("Attributed", d.e(def.Attr), func() { d.def(def.Def) })
	default:
		d.node(fmt.Sprintf("%T", v))
	}
}

func (d *dumper) clause(ref ClauseRef) {
	v, ok := d.store.Clauses.Get(ref)
	if !ok {
		d.sb.WriteByte('_')
		return
	}
	switch c := v.(type) {
	case Requires:
		d.node("Requires", d.e(c.Cond))
	case Ensures:
		d.node("Ensures", d.e(c.Cond))
	case Decreases:
		d.node("Decreases", d.e(c.Measure))
	case Invariant:
		d.node("Invariant", d.e(c.Cond))
	case MatchArm:
		d.node("Arm", d.p(c.Pattern), d.e(c.Body))
	case HandlerArm:
		d.node("Handler", d.e(c.Op), d.params(c.Params), d.e(c.Body))
	default:
		d.node(fmt.Sprintf("%T", v))
	}
}

func (d *dumper) param(ref ParamRef) {
	p, ok := d.store.Params.Get(ref)
	if !ok {
		d.sb.WriteByte('_')
		return
	}
	d.node("Param", d.p(p.Pattern), d.e(p.Type), d.e(p.Default))
}

func (d *dumper) prop(ref PropRef) {
	p, ok := d.store.Props.Get(ref)
	if !ok {
		d.sb.WriteByte('_')
		return
	}
	d.node("Prop", d.name(p.Name), d.e(p.Value))
}

func formatReal(r RealLiteral) string {
	if r.Scale <= 0 {
		return strconv.FormatInt(r.Whole, 10) + ".0"
	}
	return fmt.Sprintf("%d.%0*d", r.Whole, int(r.Scale), r.Fraction)
}
