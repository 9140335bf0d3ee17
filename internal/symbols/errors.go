package symbols

import "fmt"

// DuplicateSymbolError reports a name bound twice in one scope, or a query
// for one symbol that matched several.
type DuplicateSymbolError struct {
	Name     string
	Existing Symbol
	Others   []Symbol
}

func (e *DuplicateSymbolError) Error() string {
	if len(e.Others) > 0 {
		return fmt.Sprintf("%q is ambiguous: %d candidates", e.Name, len(e.Others)+1)
	}
	return fmt.Sprintf("%q is already defined in this scope", e.Name)
}

// Ambiguous reports whether the error came from a query rather than a
// definition.
func (e *DuplicateSymbolError) Ambiguous() bool { return len(e.Others) > 0 }

// NoSuchSymbolError reports a search that found nothing.
type NoSuchSymbolError struct {
	Name string
}

func (e *NoSuchSymbolError) Error() string {
	return fmt.Sprintf("no symbol %q", e.Name)
}

// NoSuchModuleError reports an unknown qualifier, import or module.
type NoSuchModuleError struct {
	Module ModuleID
	From   ModuleID
}

func (e *NoSuchModuleError) Error() string {
	if e.From.IsGlobal() {
		return fmt.Sprintf("no module %q", string(e.Module))
	}
	return fmt.Sprintf("no module %q visible from %s", string(e.Module), e.From)
}

// UnexpectedSymbolError reports a symbol of the wrong kind.
type UnexpectedSymbolError struct {
	Name     string
	Expected SymbolKind
	Actual   Symbol
}

func (e *UnexpectedSymbolError) Error() string {
	return fmt.Sprintf("%q is a %s, expected a %s", e.Name, e.Actual.Kind, e.Expected)
}

// DuplicateModuleError reports a module opened twice in one table.
type DuplicateModuleError struct {
	Module ModuleID
}

func (e *DuplicateModuleError) Error() string {
	return fmt.Sprintf("module %s is already registered", e.Module)
}
