package driver

import (
	"resolve/internal/project"
	"resolve/internal/source"
	"resolve/internal/symbols"
)

// QueryRequest describes a name lookup run against a finished table.
type QueryRequest struct {
	From          string // module the search starts in, empty for the global scope
	Name          string // may be qualified as "Q::Name"
	Qualifier     string
	Imports       symbols.ImportStrategy
	Facilities    symbols.FacilityStrategy
	LocalPriority bool
}

// Match is one symbol found by Query.
type Match struct {
	Module string
	symbols.SymbolSnapshot
}

// Query searches the table from the top scope of req.From.
func (r *Result) Query(req QueryRequest) ([]Match, error) {
	var from symbols.Scope = r.Table.GlobalScope()
	if req.From != "" {
		mod, err := r.Table.ModuleScope(symbols.ModuleID(req.From))
		if err != nil {
			return nil, err
		}
		from = mod
	}
	qualifier, name := req.Qualifier, req.Name
	if qualifier == "" {
		qualifier, name = project.SplitQualified(req.Name)
	}
	var q source.StringID
	if qualifier != "" {
		q = r.Table.Intern(qualifier)
	}
	query := symbols.NameQuery(q, r.Table.Intern(name), req.Imports, req.Facilities, req.LocalPriority)
	found, err := query.Run(from, r.Table)
	if err != nil {
		return nil, err
	}
	out := make([]Match, len(found))
	for i, sym := range found {
		out[i] = Match{Module: sym.Module.String(), SymbolSnapshot: r.Table.DescribeSymbol(sym)}
	}
	return out, nil
}
