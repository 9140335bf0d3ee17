package symbols

import (
	"resolve/internal/source"
)

// SearchContext tells a searcher how the scope it is looking at was reached.
type SearchContext uint8

const (
	SearchSourceModule SearchContext = iota
	SearchImport
	SearchFacility
)

func (c SearchContext) String() string {
	switch c {
	case SearchSourceModule:
		return "source"
	case SearchImport:
		return "import"
	case SearchFacility:
		return "facility"
	default:
		return "unknown"
	}
}

// TableSearcher collects matching symbols from one scope's bindings. It
// returns true once it has found everything it wants.
type TableSearcher interface {
	AddMatches(view EntryView, results *[]Symbol, ctx SearchContext) bool
}

// FacilitySearcher is implemented by searchers that want unqualified
// searches to look inside facilities visible in the local scope.
type FacilitySearcher interface {
	SearchesFacilities() bool
}

// EntryView exposes one scope's bindings to a searcher, already passed
// through any generic instantiations in effect.
type EntryView struct {
	table    *Table
	scope    ScopeID
	inst     GenericInstantiations
	facility SymbolID
}

// Scope returns the scope being searched.
func (v EntryView) Scope() ScopeID { return v.scope }

// Module returns the module owning the scope.
func (v EntryView) Module() ModuleID { return v.record().Module }

// Table returns the owning table.
func (v EntryView) Table() *Table { return v.table }

func (v EntryView) record() *SyntacticScope { return v.table.Scopes.Get(v.scope) }

// Lookup returns the symbol bound to name in this scope.
func (v EntryView) Lookup(name source.StringID) (Symbol, bool) {
	id, ok := v.record().NameIndex[name]
	if !ok {
		return Symbol{}, false
	}
	return v.instantiate(*v.table.Symbols.Get(id)), true
}

// Symbols returns every binding in declaration order.
func (v EntryView) Symbols() []Symbol {
	rec := v.record()
	out := make([]Symbol, 0, len(rec.Symbols))
	for _, id := range rec.Symbols {
		out = append(out, v.instantiate(*v.table.Symbols.Get(id)))
	}
	return out
}

func (v EntryView) instantiate(sym Symbol) Symbol {
	if len(v.inst) == 0 {
		return sym
	}
	return sym.InstantiateGenerics(v.inst, v.facility, v.table)
}

// NameSearcher matches symbols by name, optionally restricted to kinds.
type NameSearcher struct {
	Name           source.StringID
	Kinds          KindMask
	StopAfterFirst bool
}

// NewNameSearcher matches any kind and keeps going after the first hit.
func NewNameSearcher(name source.StringID) NameSearcher {
	return NameSearcher{Name: name, Kinds: KindMaskAny}
}

func (s NameSearcher) AddMatches(view EntryView, results *[]Symbol, _ SearchContext) bool {
	sym, ok := view.Lookup(s.Name)
	if !ok || !matchKind(s.kinds(), sym.Kind) {
		return false
	}
	*results = append(*results, sym)
	return s.StopAfterFirst
}

func (NameSearcher) SearchesFacilities() bool { return true }

func (s NameSearcher) kinds() KindMask {
	if s.Kinds == KindMaskNone {
		return KindMaskAny
	}
	return s.Kinds
}

// KindSearcher collects every symbol of the given kinds.
type KindSearcher struct {
	Kinds KindMask
}

func (s KindSearcher) AddMatches(view EntryView, results *[]Symbol, _ SearchContext) bool {
	for _, sym := range view.Symbols() {
		if matchKind(s.Kinds, sym.Kind) {
			*results = append(*results, sym)
		}
	}
	return false
}
