package symbols

import (
	"errors"
	"fmt"
	"slices"
)

// Validate walks internal arenas checking structural invariants. Returns nil if
// everything is consistent; otherwise aggregates all detected issues.
func (t *Table) Validate() error {
	var errs []error

	// Check scopes and parent/child backlinks.
	for idx := 1; idx < len(t.Scopes.data); idx++ {
		scopeID, err := toScopeID(idx)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		scope := t.Scopes.data[idx]
		switch scope.Kind {
		case ScopeInvalid:
			errs = append(errs, fmt.Errorf("scope %d has invalid kind", scopeID))
		case ScopeGlobal:
			if scopeID != t.global || scope.Parent.IsValid() {
				errs = append(errs, fmt.Errorf("scope %d is a stray global scope", scopeID))
			}
		case ScopeModule:
			if scope.Imports == nil {
				errs = append(errs, fmt.Errorf("module scope %d has no import record", scopeID))
			}
			if scope.Parent != t.global {
				errs = append(errs, fmt.Errorf("module scope %d is not a child of the global scope", scopeID))
			}
		}
		if scope.Parent.IsValid() {
			if int(scope.Parent) >= len(t.Scopes.data) || scope.Parent == scopeID {
				errs = append(errs, fmt.Errorf("scope %d has invalid parent %d", scopeID, scope.Parent))
				continue
			}
			parent := t.Scopes.data[scope.Parent]
			if !slices.Contains(parent.Children, scopeID) {
				errs = append(errs, fmt.Errorf("scope %d parent %d missing backlink", scopeID, scope.Parent))
			}
			if scope.Kind == ScopeNested && parent.Module != scope.Module {
				errs = append(errs, fmt.Errorf("scope %d belongs to %s but its parent belongs to %s", scopeID, scope.Module, parent.Module))
			}
		}
		for _, child := range scope.Children {
			if int(child) >= len(t.Scopes.data) || child == scopeID {
				errs = append(errs, fmt.Errorf("scope %d has invalid child %d", scopeID, child))
				continue
			}
			if t.Scopes.data[child].Parent != scopeID {
				errs = append(errs, fmt.Errorf("scope %d child %d missing parent backlink", scopeID, child))
			}
		}

		// Check name index consistency.
		if len(scope.NameIndex) != len(scope.Symbols) {
			errs = append(errs, fmt.Errorf("scope %d indexes %d names for %d symbols", scopeID, len(scope.NameIndex), len(scope.Symbols)))
		}
		for name, id := range scope.NameIndex {
			sym := t.Symbols.Get(id)
			if sym == nil {
				errs = append(errs, fmt.Errorf("scope %d name index %d references missing symbol %d", scopeID, name, id))
				continue
			}
			if sym.Name != name {
				errs = append(errs, fmt.Errorf("scope %d name index %d points at symbol %d named %d", scopeID, name, id, sym.Name))
			}
		}
	}

	// Check symbols.
	for idx := 1; idx < len(t.Symbols.data); idx++ {
		symbolID, err := toSymbolID(idx)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		symbol := t.Symbols.data[idx]
		if symbol.ID != symbolID {
			errs = append(errs, fmt.Errorf("symbol %d carries id %d", symbolID, symbol.ID))
		}
		if !symbol.Scope.IsValid() || int(symbol.Scope) >= len(t.Scopes.data) {
			errs = append(errs, fmt.Errorf("symbol %d has invalid scope %d", symbolID, symbol.Scope))
			continue
		}
		scope := t.Scopes.data[symbol.Scope]
		if !slices.Contains(scope.Symbols, symbolID) {
			errs = append(errs, fmt.Errorf("symbol %d is missing from scope %d list", symbolID, symbol.Scope))
		}
	}

	// Check module registry.
	for id, scopeID := range t.modules {
		scope := t.Scopes.Get(scopeID)
		if scope == nil || scope.Kind != ScopeModule || scope.Module != id {
			errs = append(errs, fmt.Errorf("module %s registered with bad scope %d", id, scopeID))
		}
	}

	if len(errs) == 0 {
		return nil
	}
	return errors.Join(errs...)
}
