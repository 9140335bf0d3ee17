package symbols

import (
	"fmt"

	"resolve/internal/source"
)

// Scope is the unit of name binding seen by search paths.
type Scope interface {
	ID() ScopeID
	Module() ModuleID
	// AddMatches applies searcher to this scope and, unless it reports
	// finished, to the enclosing scopes. visited and results belong to the
	// caller's search.
	AddMatches(searcher TableSearcher, results *[]Symbol, visited Visited, inst GenericInstantiations, facility SymbolID, ctx SearchContext) bool
}

type visitKey struct {
	scope    ScopeID
	facility SymbolID
}

// Visited records the scopes a single search has already looked at. A
// module scope reached through two different facilities counts twice.
type Visited map[visitKey]struct{}

// Has reports whether scope was already searched on behalf of facility.
func (v Visited) Has(scope ScopeID, facility SymbolID) bool {
	_, ok := v[visitKey{scope: scope, facility: facility}]
	return ok
}

func (v Visited) mark(scope ScopeID, facility SymbolID) bool {
	key := visitKey{scope: scope, facility: facility}
	if _, ok := v[key]; ok {
		return false
	}
	v[key] = struct{}{}
	return true
}

// ScopeBuilder is a handle on a syntactic scope in the table arena.
type ScopeBuilder struct {
	table *Table
	id    ScopeID
}

func (b ScopeBuilder) ID() ScopeID { return b.id }

// IsValid reports whether b refers to a scope.
func (b ScopeBuilder) IsValid() bool { return b.table != nil && b.id.IsValid() }

func (b ScopeBuilder) Module() ModuleID { return b.record().Module }

// Kind returns the scope kind.
func (b ScopeBuilder) Kind() ScopeKind { return b.record().Kind }

// Parent returns the enclosing scope, or an invalid builder for GLOBAL.
func (b ScopeBuilder) Parent() ScopeBuilder {
	return ScopeBuilder{table: b.table, id: b.record().Parent}
}

func (b ScopeBuilder) record() *SyntacticScope {
	rec := b.table.Scopes.Get(b.id)
	if rec == nil {
		panic(fmt.Sprintf("symbols: invalid scope %d", b.id))
	}
	return rec
}

// Define binds sym in this scope. Redefining a name already bound here
// fails with *DuplicateSymbolError; the same name in another scope is
// independent. Defining into a closed scope panics.
func (b ScopeBuilder) Define(sym Symbol) (SymbolID, error) {
	rec := b.record()
	if rec.Sealed {
		panic(fmt.Sprintf("symbols: define %q in closed scope %d", b.table.Strings.MustLookup(sym.Name), b.id))
	}
	if prior, ok := rec.NameIndex[sym.Name]; ok {
		return NoSymbolID, &DuplicateSymbolError{
			Name:     b.table.Strings.MustLookup(sym.Name),
			Existing: *b.table.Symbols.Get(prior),
		}
	}
	sym.Scope = b.id
	sym.Module = rec.Module
	if sym.Facility != nil {
		sym.Facility = sym.Facility.ownedBy(b.table.nextSymbolID())
	}
	id := b.table.Symbols.New(&sym)
	rec.NameIndex[sym.Name] = id
	rec.Symbols = append(rec.Symbols, id)
	return id, nil
}

// Lookup returns the symbol bound to name in this scope only.
func (b ScopeBuilder) Lookup(name source.StringID) (Symbol, bool) {
	id, ok := b.record().NameIndex[name]
	if !ok {
		return Symbol{}, false
	}
	return *b.table.Symbols.Get(id), true
}

// Symbols returns this scope's bindings in declaration order.
func (b ScopeBuilder) Symbols() []Symbol {
	rec := b.record()
	out := make([]Symbol, 0, len(rec.Symbols))
	for _, id := range rec.Symbols {
		out = append(out, *b.table.Symbols.Get(id))
	}
	return out
}

func (b ScopeBuilder) AddMatches(searcher TableSearcher, results *[]Symbol, visited Visited, inst GenericInstantiations, facility SymbolID, ctx SearchContext) bool {
	rec := b.record()
	if rec.Kind == ScopeGlobal {
		// built-ins have no generics and belong to no facility
		inst, facility = nil, NoSymbolID
	}
	if !visited.mark(b.id, facility) {
		return false
	}
	view := EntryView{table: b.table, scope: b.id, inst: inst, facility: facility}
	if searcher.AddMatches(view, results, ctx) {
		return true
	}
	if !rec.Parent.IsValid() {
		return false
	}
	return b.Parent().AddMatches(searcher, results, visited, inst, facility, ctx)
}

// Matches runs searcher over this scope chain with fresh search state.
func (b ScopeBuilder) Matches(searcher TableSearcher, ctx SearchContext) []Symbol {
	var results []Symbol
	b.AddMatches(searcher, &results, Visited{}, nil, NoSymbolID, ctx)
	return results
}

// Query runs q starting from this scope.
func (b ScopeBuilder) Query(q Query) ([]Symbol, error) {
	return q.Run(b, b.table)
}

// QueryForOne runs q and requires exactly one match.
func (b ScopeBuilder) QueryForOne(q Query) (Symbol, error) {
	return q.RunForOne(b, b.table)
}

// ModuleScopeBuilder is the top-level scope of a module together with its
// import, alias and inheritance sets.
type ModuleScopeBuilder struct {
	ScopeBuilder
}

func (m ModuleScopeBuilder) imports() *ModuleImports { return m.record().Imports }

func (m ModuleScopeBuilder) mutable(op string) *ModuleImports {
	rec := m.record()
	if rec.Sealed {
		panic(fmt.Sprintf("symbols: %s on frozen module %s", op, rec.Module))
	}
	return rec.Imports
}

// AddImport records a regular import. Repeats are ignored.
func (m ModuleScopeBuilder) AddImport(id ModuleID) {
	mi := m.mutable("AddImport")
	mi.Imports = appendUnique(mi.Imports, id)
}

// AddFacilityImport records a module imported only to build facilities.
func (m ModuleScopeBuilder) AddFacilityImport(id ModuleID) {
	mi := m.mutable("AddFacilityImport")
	mi.FacilityImports = appendUnique(mi.FacilityImports, id)
}

// AddInheritance records an extended or realized module. Inherited
// modules are searched like imports.
func (m ModuleScopeBuilder) AddInheritance(id ModuleID) {
	mi := m.mutable("AddInheritance")
	mi.Inherited = appendUnique(mi.Inherited, id)
	mi.Imports = appendUnique(mi.Imports, id)
}

// AddAlias makes name a local alias for id.
func (m ModuleScopeBuilder) AddAlias(name source.StringID, id ModuleID) {
	m.mutable("AddAlias").Aliases[name] = id
}

// Imports returns the imported modules in declaration order.
func (m ModuleScopeBuilder) Imports() []ModuleID { return m.imports().Imports }

// FacilityImports returns the facility-only imports.
func (m ModuleScopeBuilder) FacilityImports() []ModuleID { return m.imports().FacilityImports }

// Inherited returns the extended or realized modules.
func (m ModuleScopeBuilder) Inherited() []ModuleID { return m.imports().Inherited }

// Alias resolves a local alias.
func (m ModuleScopeBuilder) Alias(name source.StringID) (ModuleID, bool) {
	id, ok := m.imports().Aliases[name]
	return id, ok
}

// Reaches reports whether id is imported, facility-imported or inherited.
func (m ModuleScopeBuilder) Reaches(id ModuleID) bool {
	mi := m.imports()
	for _, list := range [][]ModuleID{mi.Imports, mi.FacilityImports, mi.Inherited} {
		for _, other := range list {
			if other == id {
				return true
			}
		}
	}
	return false
}

// Frozen reports whether analysis of the module has finished.
func (m ModuleScopeBuilder) Frozen() bool { return m.record().Sealed }

// Generics returns the module's generic parameters in declaration order.
func (m ModuleScopeBuilder) Generics() []Symbol {
	var out []Symbol
	for _, sym := range m.Symbols() {
		if sym.Kind == SymbolGeneric {
			out = append(out, sym)
		}
	}
	return out
}
