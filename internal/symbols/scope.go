package symbols

import (
	"slices"

	"resolve/internal/source"
)

// ScopeKind enumerates supported scope categories.
type ScopeKind uint8

const (
	ScopeInvalid ScopeKind = iota
	ScopeGlobal            // built-ins, parent of every module
	ScopeModule            // module-level declarations
	ScopeNested            // operation bodies and other inner scopes
)

func (k ScopeKind) String() string {
	switch k {
	case ScopeGlobal:
		return "global"
	case ScopeModule:
		return "module"
	case ScopeNested:
		return "nested"
	default:
		return "invalid"
	}
}

// SyntacticScope is the arena record of one lexical scope.
type SyntacticScope struct {
	Kind      ScopeKind
	Parent    ScopeID
	Module    ModuleID
	Span      source.Span
	NameIndex map[source.StringID]SymbolID
	Symbols   []SymbolID // declaration order
	Children  []ScopeID
	Imports   *ModuleImports // module scopes only
	Sealed    bool
}

// ModuleImports records how a module reaches other modules.
type ModuleImports struct {
	Imports         []ModuleID
	FacilityImports []ModuleID
	Inherited       []ModuleID
	Aliases         map[source.StringID]ModuleID
}

func newModuleImports() *ModuleImports {
	return &ModuleImports{Aliases: make(map[source.StringID]ModuleID)}
}

func appendUnique(list []ModuleID, id ModuleID) []ModuleID {
	if slices.Contains(list, id) {
		return list
	}
	return append(list, id)
}
