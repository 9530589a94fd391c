package symbols

// ID names an interned identifier. The zero ID is no name.
type ID uint32

const NoID ID = 0

func (id ID) IsValid() bool { return id != NoID }

// Interner maps identifier spellings to small stable IDs so scopes and HIR
// compare names as integers.
type Interner struct {
	names []string
	ids   map[string]ID
}

func NewInterner() *Interner {
	return &Interner{
		names: []string{""},
		ids:   make(map[string]ID),
	}
}

// Intern returns the ID for name, allocating one the first time.
func (in *Interner) Intern(name string) ID {
	if id, ok := in.ids[name]; ok {
		return id
	}
	id := ID(len(in.names))
	in.names = append(in.names, name)
	in.ids[name] = id
	return id
}

// Lookup finds an already interned name without allocating.
func (in *Interner) Lookup(name string) (ID, bool) {
	id, ok := in.ids[name]
	return id, ok
}

// Name returns the spelling of id, or "" for unknown IDs.
func (in *Interner) Name(id ID) string {
	if int(id) >= len(in.names) {
		return ""
	}
	return in.names[id]
}

func (in *Interner) Len() int { return len(in.names) - 1 }

// SymbolKind categorizes what a name is bound to
type SymbolKind int

const (
	SymbolVariable SymbolKind = iota
	SymbolConstant
	SymbolFunction
	SymbolType
	SymbolParameter
	SymbolGeneric
	SymbolEffect
	SymbolTrait
	SymbolModule
	SymbolVariant
)

func (sk SymbolKind) String() string {
	switch sk {
	case SymbolVariable:
		return "variable"
	case SymbolConstant:
		return "constant"
	case SymbolFunction:
		return "function"
	case SymbolType:
		return "type"
	case SymbolParameter:
		return "parameter"
	case SymbolGeneric:
		return "generic"
	case SymbolEffect:
		return "effect"
	case SymbolTrait:
		return "trait"
	case SymbolModule:
		return "module"
	case SymbolVariant:
		return "variant"
	default:
		return "unknown"
	}
}
