package builtins

import (
	"fmt"

	"vex/internal/hir"
	"vex/internal/semantics/symbols"
	"vex/internal/semantics/table"
	"vex/internal/types"
)

// Scopes is the part of the scope manager the prelude needs.
type Scopes interface {
	AddScope(name *symbols.ID, parent table.ScopeID, transparent bool, owner hir.ID) (table.ScopeID, error)
	AddItem(item table.Item, scope table.ScopeID) error
}

// PreludeName names the root scope.
const PreludeName = "prelude"

// Prelude is the root scope every module is lowered under.
type Prelude struct {
	Scope table.ScopeID
	ID    hir.ID
	Items map[string]hir.ID
}

// Register creates the prelude scope and declares the primitive types and
// native functions in it. Each gets a definition occurrence owned by the
// prelude so references to them resolve like any other item.
func Register(store *hir.Store, names *symbols.Interner, scopes Scopes) (*Prelude, error) {
	name := names.Intern(PreludeName)
	id := store.Put(hir.Mapping{Kind: hir.MappingModule, Name: name})
	scope, err := scopes.AddScope(&name, table.NoScope, false, id)
	if err != nil {
		return nil, err
	}
	p := &Prelude{Scope: scope, ID: id, Items: make(map[string]hir.ID)}

	for _, typ := range types.Primitives {
		if err := p.declare(store, names, scopes, string(typ), symbols.SymbolType); err != nil {
			return nil, err
		}
	}
	for _, group := range [][]NativeFunction{CoreBuiltins, IOBuiltins} {
		for _, fn := range group {
			if err := p.declare(store, names, scopes, fn.Name, symbols.SymbolFunction); err != nil {
				return nil, err
			}
		}
	}
	return p, nil
}

func (p *Prelude) declare(store *hir.Store, names *symbols.Interner, scopes Scopes, text string, kind symbols.SymbolKind) error {
	name := names.Intern(text)
	id := store.Put(hir.Mapping{Kind: hir.MappingDefinition, Owner: p.ID, Name: name})
	if err := scopes.AddItem(table.Item{Name: name, Kind: kind, Hir: id}, p.Scope); err != nil {
		return fmt.Errorf("prelude: %w", err)
	}
	p.Items[text] = id
	return nil
}

// Lookup returns the occurrence of a prelude item.
func (p *Prelude) Lookup(name string) (hir.ID, bool) {
	id, ok := p.Items[name]
	return id, ok
}

// Native finds the native function called name.
func Native(name string) (NativeFunction, bool) {
	for _, group := range [][]NativeFunction{CoreBuiltins, IOBuiltins} {
		for _, fn := range group {
			if fn.Name == name {
				return fn, true
			}
		}
	}
	return NativeFunction{}, false
}
