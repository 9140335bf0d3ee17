package symbols

import "strings"

// ScopeID identifies a scope in the table arena.
type ScopeID uint32

const (
	// NoScopeID marks the absence of a scope reference.
	NoScopeID ScopeID = 0
)

// IsValid reports whether the scope ID refers to an allocated scope.
func (id ScopeID) IsValid() bool { return id != NoScopeID }

// SymbolID identifies a symbol inside the table arena.
type SymbolID uint32

const (
	// NoSymbolID marks the absence of a symbol reference.
	NoSymbolID SymbolID = 0
)

// IsValid reports whether the symbol ID refers to an allocated symbol.
func (id SymbolID) IsValid() bool { return id != NoSymbolID }

// ModuleID names a compilation unit.
type ModuleID string

// GlobalModule owns the built-in scope. It has no source location.
const GlobalModule ModuleID = ""

// IsGlobal reports whether id is the global sentinel.
func (id ModuleID) IsGlobal() bool { return id == GlobalModule }

// Compare orders module identifiers by name.
func (id ModuleID) Compare(other ModuleID) int {
	return strings.Compare(string(id), string(other))
}

func (id ModuleID) String() string {
	if id.IsGlobal() {
		return "GLOBAL"
	}
	return string(id)
}
