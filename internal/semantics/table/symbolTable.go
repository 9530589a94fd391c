package table

import (
	"errors"
	"fmt"

	"vex/internal/hir"
	"vex/internal/semantics/symbols"
	"vex/internal/source"
)

// ScopeID names a scope in the forest. Zero is no scope.
type ScopeID uint32

const NoScope ScopeID = 0

var (
	ErrDuplicate    = errors.New("duplicate symbol")
	ErrUnknownScope = errors.New("unknown scope")
)

// ScopeError is what AddItem and AddScope report. It unwraps to one of the
// sentinel errors above.
type ScopeError struct {
	Kind  error
	Name  string
	Scope ScopeID
}

func (e *ScopeError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("%v: scope %d", e.Kind, e.Scope)
	}
	return fmt.Sprintf("%v '%s' in scope %d", e.Kind, e.Name, e.Scope)
}

func (e *ScopeError) Unwrap() error { return e.Kind }

// Item is one binding: a name, what kind of thing it is, and the HIR
// occurrence it stands for.
type Item struct {
	Name symbols.ID
	Kind symbols.SymbolKind
	Hir  hir.ID
	Span source.Span
}

// Resolution says where a lookup found its item.
type Resolution struct {
	Item
	Scope ScopeID
	Depth int // scopes walked before the hit; 0 is the starting scope
}

// Scope holds the bindings of one lexical region.
//
// A transparent scope is ordered: each `let` opens one, and a later binding
// of the same name shadows the earlier one. Other scopes are unordered and
// reject duplicates, because every item in them is visible everywhere.
type Scope struct {
	ID          ScopeID
	Name        symbols.ID
	Parent      ScopeID
	Transparent bool
	Owner       hir.ID

	symbols map[symbols.ID]Item
	order   []symbols.ID
}

// Items lists the scope's bindings in declaration order.
func (s *Scope) Items() []Item {
	out := make([]Item, 0, len(s.order))
	for _, name := range s.order {
		out = append(out, s.symbols[name])
	}
	return out
}

// SymbolTable is the scope forest for a compilation.
type SymbolTable struct {
	scopes []*Scope
	names  *symbols.Interner
}

// NewSymbolTable creates an empty forest. names is used only to spell
// names in errors.
func NewSymbolTable(names *symbols.Interner) *SymbolTable {
	return &SymbolTable{
		scopes: []*Scope{nil},
		names:  names,
	}
}

// AddScope creates a scope under parent, or a root when parent is NoScope.
func (st *SymbolTable) AddScope(name *symbols.ID, parent ScopeID, transparent bool, owner hir.ID) (ScopeID, error) {
	if parent != NoScope && st.Scope(parent) == nil {
		return NoScope, &ScopeError{Kind: ErrUnknownScope, Scope: parent}
	}
	id := ScopeID(len(st.scopes))
	scope := &Scope{
		ID:          id,
		Parent:      parent,
		Transparent: transparent,
		Owner:       owner,
		symbols:     make(map[symbols.ID]Item),
	}
	if name != nil {
		scope.Name = *name
	}
	st.scopes = append(st.scopes, scope)
	return id, nil
}

// AddItem declares item in scope. In a transparent scope a duplicate still
// replaces the earlier binding, and the error tells the caller it happened.
func (st *SymbolTable) AddItem(item Item, scope ScopeID) error {
	s := st.Scope(scope)
	if s == nil {
		return &ScopeError{Kind: ErrUnknownScope, Scope: scope}
	}
	if _, exists := s.symbols[item.Name]; exists {
		err := &ScopeError{Kind: ErrDuplicate, Name: st.spell(item.Name), Scope: scope}
		if s.Transparent {
			s.symbols[item.Name] = item
		}
		return err
	}
	s.symbols[item.Name] = item
	s.order = append(s.order, item.Name)
	return nil
}

// Resolve finds name in scope or its ancestors.
func (st *SymbolTable) Resolve(name symbols.ID, scope ScopeID) (Resolution, bool) {
	depth := 0
	for s := st.Scope(scope); s != nil; s = st.Scope(s.Parent) {
		if item, ok := s.symbols[name]; ok {
			return Resolution{Item: item, Scope: s.ID, Depth: depth}, true
		}
		depth++
	}
	return Resolution{}, false
}

// GetSymbol looks only in scope itself.
func (st *SymbolTable) GetSymbol(name symbols.ID, scope ScopeID) (Item, bool) {
	s := st.Scope(scope)
	if s == nil {
		return Item{}, false
	}
	item, ok := s.symbols[name]
	return item, ok
}

// Scope returns the scope with id, or nil.
func (st *SymbolTable) Scope(id ScopeID) *Scope {
	if id == NoScope || int(id) >= len(st.scopes) {
		return nil
	}
	return st.scopes[id]
}

// Len is the number of scopes created.
func (st *SymbolTable) Len() int { return len(st.scopes) - 1 }

func (st *SymbolTable) spell(name symbols.ID) string {
	if st.names == nil {
		return fmt.Sprintf("$%d", uint32(name))
	}
	return st.names.Name(name)
}
