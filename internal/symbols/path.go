package symbols

import (
	"errors"
	"fmt"

	"resolve/internal/source"
	"resolve/internal/trace"
)

// ImportStrategy controls how far a search cascades through imports.
type ImportStrategy uint8

const (
	ImportNone ImportStrategy = iota
	ImportNamed
	ImportRecursive
)

// Cascade returns the strategy used one import hop further out.
func (s ImportStrategy) Cascade() ImportStrategy {
	if s == ImportRecursive {
		return ImportRecursive
	}
	return ImportNone
}

func (s ImportStrategy) String() string {
	switch s {
	case ImportNone:
		return "none"
	case ImportNamed:
		return "named"
	case ImportRecursive:
		return "recursive"
	default:
		return fmt.Sprintf("ImportStrategy(%d)", s)
	}
}

// ParseImportStrategy maps a flag value onto a strategy.
func ParseImportStrategy(s string) (ImportStrategy, error) {
	switch s {
	case "none":
		return ImportNone, nil
	case "named", "":
		return ImportNamed, nil
	case "recursive":
		return ImportRecursive, nil
	default:
		return ImportNone, fmt.Errorf("unknown import strategy %q (want none|named|recursive)", s)
	}
}

// FacilityStrategy controls whether searches look inside facilities and,
// if so, whether the facility's generic arguments are applied.
type FacilityStrategy uint8

const (
	FacilityIgnore FacilityStrategy = iota
	FacilityGeneric
	FacilityInstantiate
)

func (s FacilityStrategy) String() string {
	switch s {
	case FacilityIgnore:
		return "ignore"
	case FacilityGeneric:
		return "generic"
	case FacilityInstantiate:
		return "instantiate"
	default:
		return fmt.Sprintf("FacilityStrategy(%d)", s)
	}
}

// ParseFacilityStrategy maps a flag value onto a strategy.
func ParseFacilityStrategy(s string) (FacilityStrategy, error) {
	switch s {
	case "ignore", "":
		return FacilityIgnore, nil
	case "generic":
		return FacilityGeneric, nil
	case "instantiate":
		return FacilityInstantiate, nil
	default:
		return FacilityIgnore, fmt.Errorf("unknown facility strategy %q (want ignore|generic|instantiate)", s)
	}
}

// SearchPath decides which scopes a query visits.
type SearchPath interface {
	SearchFromContext(searcher TableSearcher, from Scope, t *Table) ([]Symbol, error)
}

// UnqualifiedPath searches the lexical chain, then local facilities, then
// imports.
type UnqualifiedPath struct {
	Imports       ImportStrategy
	Facilities    FacilityStrategy
	LocalPriority bool
}

func (p UnqualifiedPath) SearchFromContext(searcher TableSearcher, from Scope, t *Table) ([]Symbol, error) {
	var results []Symbol
	_, err := p.search(searcher, from, t, &results, Visited{}, p.Imports, SearchSourceModule)
	return results, err
}

func (p UnqualifiedPath) search(searcher TableSearcher, from Scope, t *Table, results *[]Symbol, visited Visited, imports ImportStrategy, ctx SearchContext) (bool, error) {
	if from.AddMatches(searcher, results, visited, nil, NoSymbolID, ctx) {
		return true, nil
	}

	if ctx == SearchSourceModule && p.Facilities != FacilityIgnore && wantsFacilities(searcher) {
		finished, err := p.searchFacilities(searcher, from, t, results, visited)
		if err != nil || finished {
			return finished, err
		}
	}

	if (len(*results) > 0 && p.LocalPriority) || imports == ImportNone || from.Module().IsGlobal() {
		return false, nil
	}
	mod, err := t.ModuleScope(from.Module())
	if err != nil {
		return false, err
	}
	for _, imp := range mod.Imports() {
		target, err := t.ModuleScope(imp)
		if err != nil {
			return false, fmt.Errorf("import of %s: %w", from.Module(), err)
		}
		if visited.Has(target.ID(), NoSymbolID) {
			continue
		}
		trace.Point(t.tracer, trace.ScopeQuery, "search.import", string(imp))
		finished, err := p.search(searcher, target, t, results, visited, imports.Cascade(), SearchImport)
		if err != nil || finished {
			return finished, err
		}
	}
	return false, nil
}

func (p UnqualifiedPath) searchFacilities(searcher TableSearcher, from Scope, t *Table, results *[]Symbol, visited Visited) (bool, error) {
	var facilities []Symbol
	from.AddMatches(KindSearcher{Kinds: SymbolFacility.Mask()}, &facilities, Visited{}, nil, NoSymbolID, SearchSourceModule)
	instantiate := p.Facilities == FacilityInstantiate
	for _, fac := range facilities {
		if fac.Facility == nil {
			continue
		}
		for _, spec := range fac.Facility.parameterizations() {
			scope, err := spec.Scope(t, instantiate)
			if err != nil {
				return false, fmt.Errorf("facility %s: %w", t.Strings.MustLookup(fac.Name), err)
			}
			if scope.AddMatches(searcher, results, visited, nil, NoSymbolID, SearchFacility) {
				return true, nil
			}
		}
	}
	return false, nil
}

func wantsFacilities(searcher TableSearcher) bool {
	fs, ok := searcher.(FacilitySearcher)
	return ok && fs.SearchesFacilities()
}

func (f *Facility) parameterizations() []ModuleParameterization {
	out := make([]ModuleParameterization, 0, 1+len(f.Enhancements))
	out = append(out, f.Spec)
	return append(out, f.Enhancements...)
}

// QualifiedPath searches the scope a qualifier names: a facility visible
// from the source scope, or failing that an alias, an import or the
// current module itself.
type QualifiedPath struct {
	Qualifier  source.StringID
	Facilities FacilityStrategy
}

func (p QualifiedPath) SearchFromContext(searcher TableSearcher, from Scope, t *Table) ([]Symbol, error) {
	qualifier := t.Strings.MustLookup(p.Qualifier)
	lookup := Query{
		Searcher: NameSearcher{Name: p.Qualifier, Kinds: KindMaskAny, StopAfterFirst: true},
		Path:     UnqualifiedPath{Imports: ImportNamed, Facilities: FacilityIgnore, LocalPriority: true},
	}
	sym, err := lookup.RunForOne(from, t)
	if err == nil && sym.Kind != SymbolFacility {
		err = &UnexpectedSymbolError{Name: qualifier, Expected: SymbolFacility, Actual: sym}
	}
	if err == nil {
		return p.searchFacility(searcher, sym, t)
	}
	var noSym *NoSuchSymbolError
	var unexpected *UnexpectedSymbolError
	if !errors.As(err, &noSym) && !errors.As(err, &unexpected) {
		return nil, err
	}

	target, err := p.resolveModule(from, t)
	if err != nil {
		return nil, err
	}
	scope, err := t.ModuleScope(target)
	if err != nil {
		return nil, err
	}
	var results []Symbol
	scope.AddMatches(searcher, &results, Visited{}, nil, NoSymbolID, SearchImport)
	return results, nil
}

func (p QualifiedPath) searchFacility(searcher TableSearcher, fac Symbol, t *Table) ([]Symbol, error) {
	if fac.Facility == nil {
		return nil, nil
	}
	instantiate := p.Facilities == FacilityInstantiate
	var results []Symbol
	visited := Visited{}
	for _, spec := range fac.Facility.parameterizations() {
		scope, err := spec.Scope(t, instantiate)
		if err != nil {
			return nil, fmt.Errorf("facility %s: %w", t.Strings.MustLookup(fac.Name), err)
		}
		scope.AddMatches(searcher, &results, visited, nil, NoSymbolID, SearchFacility)
	}
	return results, nil
}

func (p QualifiedPath) resolveModule(from Scope, t *Table) (ModuleID, error) {
	qualifier := t.Strings.MustLookup(p.Qualifier)
	if from.Module().IsGlobal() {
		return GlobalModule, &NoSuchModuleError{Module: ModuleID(qualifier)}
	}
	mod, err := t.ModuleScope(from.Module())
	if err != nil {
		return GlobalModule, err
	}
	if target, ok := mod.Alias(p.Qualifier); ok {
		return target, nil
	}
	id := ModuleID(qualifier)
	if mod.Reaches(id) || id == from.Module() {
		return id, nil
	}
	return GlobalModule, &NoSuchModuleError{Module: id, From: from.Module()}
}

// PossiblyQualifiedPath is QualifiedPath when a qualifier is present and
// UnqualifiedPath otherwise.
type PossiblyQualifiedPath struct {
	Qualifier     source.StringID
	Imports       ImportStrategy
	Facilities    FacilityStrategy
	LocalPriority bool
}

func (p PossiblyQualifiedPath) delegate() SearchPath {
	if p.Qualifier == source.NoStringID {
		return UnqualifiedPath{Imports: p.Imports, Facilities: p.Facilities, LocalPriority: p.LocalPriority}
	}
	return QualifiedPath{Qualifier: p.Qualifier, Facilities: p.Facilities}
}

func (p PossiblyQualifiedPath) SearchFromContext(searcher TableSearcher, from Scope, t *Table) ([]Symbol, error) {
	return p.delegate().SearchFromContext(searcher, from, t)
}

// Query pairs a searcher with the path it walks.
type Query struct {
	Searcher TableSearcher
	Path     SearchPath
}

// NameQuery builds the usual query for a possibly qualified name.
func NameQuery(qualifier, name source.StringID, imports ImportStrategy, facilities FacilityStrategy, localPriority bool) Query {
	return Query{
		Searcher: NewNameSearcher(name),
		Path: PossiblyQualifiedPath{
			Qualifier:     qualifier,
			Imports:       imports,
			Facilities:    facilities,
			LocalPriority: localPriority,
		},
	}
}

// Run executes q from the given scope.
func (q Query) Run(from Scope, t *Table) ([]Symbol, error) {
	return q.Path.SearchFromContext(q.Searcher, from, t)
}

// RunForOne executes q and requires exactly one match.
func (q Query) RunForOne(from Scope, t *Table) (Symbol, error) {
	results, err := q.Run(from, t)
	if err != nil {
		return Symbol{}, err
	}
	name := q.describe(t)
	switch len(results) {
	case 0:
		return Symbol{}, &NoSuchSymbolError{Name: name}
	case 1:
		return results[0], nil
	default:
		return Symbol{}, &DuplicateSymbolError{Name: name, Existing: results[0], Others: results[1:]}
	}
}

func (q Query) describe(t *Table) string {
	ns, ok := q.Searcher.(NameSearcher)
	if !ok {
		return fmt.Sprintf("%T", q.Searcher)
	}
	name := t.Strings.MustLookup(ns.Name)
	switch p := q.Path.(type) {
	case QualifiedPath:
		return t.Strings.MustLookup(p.Qualifier) + "::" + name
	case PossiblyQualifiedPath:
		if p.Qualifier != source.NoStringID {
			return t.Strings.MustLookup(p.Qualifier) + "::" + name
		}
	}
	return name
}
