package symbols

import (
	"fmt"

	"resolve/internal/mathtypes"
	"resolve/internal/source"
)

// GenericInstantiations maps a module's generic parameter names to the
// program types a facility supplies for them.
type GenericInstantiations map[source.StringID]ProgType

func (gi GenericInstantiations) substitute(pt ProgType, t *Table) ProgType {
	if pt.Generic {
		if actual, ok := gi[pt.Name]; ok {
			return actual
		}
		return pt
	}
	pt.Model = t.Graph.Substitute(pt.Model, gi.bindings(t.Strings))
	return pt
}

func (gi GenericInstantiations) bindings(strs *source.Interner) mathtypes.Bindings {
	out := make(mathtypes.Bindings, len(gi))
	for name, actual := range gi {
		if actual.Model.IsValid() {
			out[strs.MustLookup(name)] = actual.Model
		}
	}
	return out
}

// InstantiatedScope is a read-only view of a module scope seen through a
// facility: every symbol it yields has the facility's generic actuals
// substituted in. The base scope is never modified.
type InstantiatedScope struct {
	base     Scope
	inst     GenericInstantiations
	facility SymbolID
}

// NewInstantiatedScope wraps base with the given instantiations.
func NewInstantiatedScope(base Scope, inst GenericInstantiations, facility SymbolID) InstantiatedScope {
	return InstantiatedScope{base: base, inst: inst, facility: facility}
}

func (s InstantiatedScope) ID() ScopeID      { return s.base.ID() }
func (s InstantiatedScope) Module() ModuleID { return s.base.Module() }

// Facility returns the facility that produced this view.
func (s InstantiatedScope) Facility() SymbolID { return s.facility }

// Instantiations returns the generic actuals applied by this view.
func (s InstantiatedScope) Instantiations() GenericInstantiations { return s.inst }

// AddMatches delegates to the base scope with this view's instantiations.
// Stacking a second facility on top of an instantiated scope is a caller
// bug and panics.
func (s InstantiatedScope) AddMatches(searcher TableSearcher, results *[]Symbol, visited Visited, _ GenericInstantiations, facility SymbolID, ctx SearchContext) bool {
	if facility.IsValid() {
		panic(fmt.Sprintf("symbols: scope %d already instantiated by facility %d, cannot instantiate again with %d", s.base.ID(), s.facility, facility))
	}
	return s.base.AddMatches(searcher, results, visited, s.inst, s.facility, ctx)
}

// ModuleParameterization pairs a module with the actual generic arguments
// supplied by the facility that names it.
type ModuleParameterization struct {
	Module   ModuleID
	Args     []ProgType
	Facility SymbolID
	Span     source.Span
}

// Scope returns the module's scope, wrapped in an InstantiatedScope when
// instantiated is set. Generic parameters pair with Args in declaration
// order; surplus parameters stay generic.
func (p ModuleParameterization) Scope(t *Table, instantiated bool) (Scope, error) {
	base, err := t.ModuleScope(p.Module)
	if err != nil {
		return nil, err
	}
	if !instantiated {
		return base, nil
	}
	inst := make(GenericInstantiations, len(p.Args))
	for i, generic := range base.Generics() {
		if i >= len(p.Args) {
			break
		}
		inst[generic.Name] = p.Args[i]
	}
	return NewInstantiatedScope(base, inst, p.Facility), nil
}
