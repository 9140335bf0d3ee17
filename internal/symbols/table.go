package symbols

import (
	"fmt"
	"strconv"

	"fortio.org/safecast"

	"resolve/internal/mathtypes"
	"resolve/internal/source"
	"resolve/internal/trace"
)

// Hints provide optional capacity suggestions for the symbol table arenas.
type Hints struct{ Scopes, Symbols uint }

// Table is the registry of one compilation: the global scope, the stack of
// scopes open while a module is being analysed, and every finished module
// scope keyed by its identifier.
type Table struct {
	Scopes  *Scopes
	Symbols *Symbols
	Strings *source.Interner
	Graph   *mathtypes.Graph

	global     ScopeID
	stack      []ScopeID
	moduleOpen bool
	modules    map[ModuleID]ScopeID
	order      []ModuleID
	tracer     trace.Tracer
}

// NewTable builds a fresh table and seeds the global scope with the
// built-in symbols. Nil strings or graph are allocated.
func NewTable(h Hints, strings *source.Interner, graph *mathtypes.Graph) *Table {
	scopeCap, err := safecast.Conv[uint32](h.Scopes)
	if err != nil {
		panic(fmt.Errorf("scope capacity overflow: %w", err))
	}
	symCap, err := safecast.Conv[uint32](h.Symbols)
	if err != nil {
		panic(fmt.Errorf("symbol capacity overflow: %w", err))
	}
	if strings == nil {
		strings = source.NewInterner()
	}
	if graph == nil {
		graph = mathtypes.NewGraph()
	}
	t := &Table{
		Scopes:  NewScopes(scopeCap),
		Symbols: NewSymbols(symCap),
		Strings: strings,
		Graph:   graph,
		modules: make(map[ModuleID]ScopeID),
		tracer:  trace.Nop,
	}
	t.global = t.Scopes.New(ScopeGlobal, NoScopeID, GlobalModule, source.Span{})
	t.installPrelude(builtinPreludeEntries())
	t.Scopes.Get(t.global).Sealed = true
	t.stack = append(t.stack, t.global)
	return t
}

func (t *Table) installPrelude(entries []PreludeEntry) {
	global := t.GlobalScope()
	b := t.Graph.Builtins()
	for _, e := range entries {
		for _, name := range e.Names {
			sym := Symbol{
				Name:  t.Intern(name),
				Kind:  e.Kind,
				Flags: SymbolFlagBuiltin,
			}
			if e.Cls != nil {
				sym.Cls = e.Cls(b)
			}
			if e.TypeValue != nil {
				sym.TypeValue = e.TypeValue(b)
			}
			if _, err := global.Define(sym); err != nil {
				panic(fmt.Errorf("prelude: %w", err))
			}
		}
	}
}

// SetTracer routes table events to tr.
func (t *Table) SetTracer(tr trace.Tracer) {
	if tr == nil {
		tr = trace.Nop
	}
	t.tracer = tr
}

// Intern returns the NFC-normalised StringID for name.
func (t *Table) Intern(name string) source.StringID { return t.Strings.Intern(name) }

// Name returns the text of a symbol name.
func (t *Table) Name(id source.StringID) string { return t.Strings.MustLookup(id) }

// GlobalScope returns the built-in scope.
func (t *Table) GlobalScope() ScopeBuilder { return ScopeBuilder{table: t, id: t.global} }

// IsModuleOpen reports whether a module scope is on the stack.
func (t *Table) IsModuleOpen() bool { return t.moduleOpen }

// Depth reports the number of open scopes above GLOBAL.
func (t *Table) Depth() int { return len(t.stack) - 1 }

// StartModuleScope opens the top-level scope of id and registers it. Opening
// a module while another is open panics; reusing a registered id is a
// *DuplicateModuleError and leaves the stack untouched.
func (t *Table) StartModuleScope(id ModuleID, span source.Span) (ModuleScopeBuilder, error) {
	if t.moduleOpen {
		panic(fmt.Sprintf("symbols: cannot open module %s, module %s is still open", id, t.Scopes.Get(t.stack[1]).Module))
	}
	if id.IsGlobal() {
		panic("symbols: cannot open the global module")
	}
	if _, ok := t.modules[id]; ok {
		return ModuleScopeBuilder{}, &DuplicateModuleError{Module: id}
	}
	scope := t.Scopes.New(ScopeModule, t.top(), id, span)
	t.stack = append(t.stack, scope)
	t.moduleOpen = true
	t.modules[id] = scope
	t.order = append(t.order, id)
	trace.Point(t.tracer, trace.ScopeModule, "module.open", string(id))
	return ModuleScopeBuilder{ScopeBuilder{table: t, id: scope}}, nil
}

// StartScope opens a nested scope inside the current one. It panics when no
// module is open.
func (t *Table) StartScope(span source.Span) ScopeBuilder {
	if !t.moduleOpen {
		panic("symbols: StartScope with no open module")
	}
	parent := t.top()
	scope := t.Scopes.New(ScopeNested, parent, t.Scopes.Get(parent).Module, span)
	t.stack = append(t.stack, scope)
	return ScopeBuilder{table: t, id: scope}
}

// EndScope closes the innermost scope and returns the new innermost one.
// Closing the module scope reports false: no scope is active any more.
// Closing with nothing open panics.
func (t *Table) EndScope() (ScopeBuilder, bool) {
	if len(t.stack) <= 1 {
		panic("symbols: EndScope with no open scope")
	}
	popped := t.stack[len(t.stack)-1]
	t.stack = t.stack[:len(t.stack)-1]
	rec := t.Scopes.Get(popped)
	rec.Sealed = true
	if len(t.stack) == 1 {
		t.moduleOpen = false
		trace.Point(t.tracer, trace.ScopeModule, "module.close", string(rec.Module)+" symbols="+strconv.Itoa(len(rec.Symbols)))
		return ScopeBuilder{}, false
	}
	return ScopeBuilder{table: t, id: t.top()}, true
}

// InnermostActiveScope returns the top of the stack. It panics when no
// module is open.
func (t *Table) InnermostActiveScope() ScopeBuilder {
	if !t.moduleOpen {
		panic("symbols: no active scope")
	}
	return ScopeBuilder{table: t, id: t.top()}
}

// CurrentModule returns the open module scope.
func (t *Table) CurrentModule() (ModuleScopeBuilder, bool) {
	if !t.moduleOpen {
		return ModuleScopeBuilder{}, false
	}
	return ModuleScopeBuilder{ScopeBuilder{table: t, id: t.stack[1]}}, true
}

// ModuleScope returns the registered scope of id.
func (t *Table) ModuleScope(id ModuleID) (ModuleScopeBuilder, error) {
	scope, ok := t.modules[id]
	if !ok {
		return ModuleScopeBuilder{}, &NoSuchModuleError{Module: id}
	}
	return ModuleScopeBuilder{ScopeBuilder{table: t, id: scope}}, nil
}

// Modules lists registered modules in the order they were opened.
func (t *Table) Modules() []ModuleID { return t.order }

// Symbol returns the arena copy of id.
func (t *Table) Symbol(id SymbolID) (Symbol, bool) {
	sym := t.Symbols.Get(id)
	if sym == nil {
		return Symbol{}, false
	}
	return *sym, true
}

func (t *Table) nextSymbolID() SymbolID {
	id, err := toSymbolID(len(t.Symbols.data))
	if err != nil {
		panic(err)
	}
	return id
}

func (t *Table) top() ScopeID { return t.stack[len(t.stack)-1] }
