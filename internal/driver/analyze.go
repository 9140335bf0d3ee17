package driver

import (
	"context"
	"fmt"
	"slices"

	"resolve/internal/diag"
	"resolve/internal/mathtypes"
	"resolve/internal/project"
	"resolve/internal/source"
	"resolve/internal/symbols"
	"resolve/internal/trace"
)

// analyzer walks the declarations of one module through the symbol table.
type analyzer struct {
	table    *symbols.Table
	graph    *mathtypes.Graph
	fs       *source.FileSet
	meta     project.ModuleMeta
	reporter diag.Reporter
}

func newAnalyzer(table *symbols.Table, fs *source.FileSet, meta project.ModuleMeta, reporter diag.Reporter) *analyzer {
	if reporter == nil {
		reporter = diag.NopReporter{}
	}
	return &analyzer{table: table, graph: table.Graph, fs: fs, meta: meta, reporter: reporter}
}

func (a *analyzer) run(ctx context.Context) {
	span := trace.Begin(trace.FromContext(ctx), trace.ScopeModule, "module:"+a.meta.Name, trace.CurrentSpan(ctx))
	mod, err := a.table.StartModuleScope(symbols.ModuleID(a.meta.Name), a.meta.Span)
	if err != nil {
		a.report(err, a.meta.Span)
		span.End("skipped")
		return
	}
	decl := a.meta.Decl
	for _, imp := range decl.Imports {
		mod.AddImport(symbols.ModuleID(imp))
	}
	for _, imp := range decl.FacilityImports {
		mod.AddFacilityImport(symbols.ModuleID(imp))
	}
	for _, ext := range decl.Extends {
		mod.AddInheritance(symbols.ModuleID(ext))
	}
	aliases := make([]string, 0, len(decl.Aliases))
	for alias := range decl.Aliases {
		aliases = append(aliases, alias)
	}
	slices.Sort(aliases)
	for _, alias := range aliases {
		mod.AddAlias(a.table.Intern(alias), symbols.ModuleID(decl.Aliases[alias]))
	}

	scope := mod.ScopeBuilder
	a.defineGenerics(scope, decl.Generics)
	for _, m := range decl.Math {
		a.defineMath(scope, m)
	}
	for _, th := range decl.TypeTheorems {
		a.defineTheorem(scope, th)
	}
	for _, t := range decl.Types {
		a.defineType(scope, t)
	}
	for _, f := range decl.Facilities {
		a.defineFacility(scope, f)
	}
	for _, v := range decl.Vars {
		a.defineVar(scope, v)
	}
	for _, op := range decl.Operations {
		a.defineOperation(scope, op)
	}

	if _, open := a.table.EndScope(); open {
		panic(fmt.Sprintf("driver: scopes left open in module %s", a.meta.Name))
	}
	span.End(fmt.Sprintf("symbols=%d", len(mod.Symbols())))
}

func (a *analyzer) locate(name string) source.Span {
	return a.meta.Locate(a.fs, name)
}

func (a *analyzer) define(scope symbols.ScopeBuilder, sym symbols.Symbol) symbols.SymbolID {
	id, err := scope.Define(sym)
	if err != nil {
		a.report(err, sym.Span)
	}
	return id
}

func (a *analyzer) defineGenerics(scope symbols.ScopeBuilder, names []string) {
	sset := a.graph.Builtins().SSet
	for _, name := range names {
		id := a.table.Intern(name)
		model := a.graph.Named(name, 1, sset, false)
		a.define(scope, symbols.Symbol{
			Name:      id,
			Kind:      symbols.SymbolGeneric,
			Span:      a.locate(name),
			Cls:       sset,
			TypeValue: model,
			Type:      symbols.ProgType{Name: id, Generic: true, Model: model},
		})
	}
}

func (a *analyzer) defineMath(scope symbols.ScopeBuilder, d project.MathDecl) {
	span := a.locate(d.Name)
	if d.Name == "" {
		diag.ReportError(a.reporter, diag.DeclMissingName, span, "math declaration without a name").Emit()
		return
	}
	sym := symbols.Symbol{Name: a.table.Intern(d.Name), Kind: symbols.SymbolMath, Span: span}
	forms := 0
	for _, set := range []bool{d.Denotes != nil, d.Cls != nil, d.Apply != nil} {
		if set {
			forms++
		}
	}
	switch {
	case forms != 1:
		msg := fmt.Sprintf("math %q needs exactly one of denotes, cls or apply", d.Name)
		diag.ReportError(a.reporter, diag.DeclUnknownShape, span, msg).Emit()
		return
	case d.Denotes != nil:
		of := a.resolveCls(scope, d.Denotes.Of, span)
		sym.Kind = symbols.SymbolMathType
		sym.Cls = of
		sym.TypeValue = a.graph.Named(d.Name, a.memberDepth(of), of, false)
	case d.Cls != nil:
		sym.Cls = a.resolveCls(scope, *d.Cls, span)
		if a.graph.ContainsSchematic(sym.Cls) {
			sym.Flags |= symbols.SymbolFlagSchematic
		}
	default:
		sym.Cls = a.graph.Builtins().Invalid
		if fn, _, ok := a.selectOverload(scope, *d.Apply, span); ok {
			sym.Cls = a.graph.Result(fn)
		}
	}
	a.define(scope, sym)
}

func (a *analyzer) defineTheorem(scope symbols.ScopeBuilder, th project.TypeTheoremDecl) {
	span := a.locate(th.Name)
	invalid := a.graph.Builtins().Invalid
	sub := a.resolveCls(scope, th.Sub, span)
	sup := a.resolveCls(scope, th.Sup, span)
	if sub == invalid || sup == invalid {
		return
	}
	a.graph.AddRelationship(sub, sup)
	if th.Name == "" {
		return
	}
	a.define(scope, symbols.Symbol{
		Name: a.table.Intern(th.Name),
		Kind: symbols.SymbolTheorem,
		Span: span,
		Cls:  a.graph.Builtins().Boolean,
	})
}

func (a *analyzer) defineType(scope symbols.ScopeBuilder, d project.TypeDecl) {
	span := a.locate(d.Name)
	id := a.table.Intern(d.Name)
	model := a.resolveCls(scope, d.Model, span)
	a.define(scope, symbols.Symbol{
		Name:      id,
		Kind:      symbols.SymbolProgType,
		Span:      span,
		Cls:       a.graph.Builtins().SSet,
		TypeValue: model,
		Type:      symbols.ProgType{Name: id, Model: model},
	})
}

func (a *analyzer) defineFacility(scope symbols.ScopeBuilder, d project.FacilityDecl) {
	span := a.locate(d.Name)
	spec, ok := a.parameterize(scope, d.Module, d.Args, span)
	if !ok {
		return
	}
	fac := &symbols.Facility{Spec: spec}
	for _, enh := range d.Enhancements {
		p, ok := a.parameterize(scope, enh.Module, enh.Args, a.locate(enh.Module))
		if ok {
			fac.Enhancements = append(fac.Enhancements, p)
		}
	}
	a.define(scope, symbols.Symbol{
		Name:     a.table.Intern(d.Name),
		Kind:     symbols.SymbolFacility,
		Span:     span,
		Facility: fac,
	})
}

// parameterize pairs module with the program types named by args. The
// module must already be analysed and take exactly len(args) generics.
func (a *analyzer) parameterize(scope symbols.Scope, module string, args []string, span source.Span) (symbols.ModuleParameterization, bool) {
	target, err := a.table.ModuleScope(symbols.ModuleID(module))
	if err != nil {
		a.report(err, span)
		return symbols.ModuleParameterization{}, false
	}
	actuals := make([]symbols.ProgType, 0, len(args))
	for _, arg := range args {
		pt, ok := a.progType(scope, arg, a.locate(arg))
		if !ok {
			return symbols.ModuleParameterization{}, false
		}
		actuals = append(actuals, pt)
	}
	if n := len(target.Generics()); n != len(actuals) {
		msg := fmt.Sprintf("module %s takes %d generic arguments, got %d", module, n, len(actuals))
		diag.ReportError(a.reporter, diag.SemaBinding, span, msg).Emit()
		return symbols.ModuleParameterization{}, false
	}
	return symbols.ModuleParameterization{Module: symbols.ModuleID(module), Args: actuals, Span: span}, true
}

func (a *analyzer) defineVar(scope symbols.ScopeBuilder, v project.VarDecl) {
	span := a.locate(v.Name)
	pt, _ := a.progType(scope, v.Type, span)
	a.define(scope, a.variable(a.table.Intern(v.Name), pt, span))
}

func (a *analyzer) variable(name source.StringID, pt symbols.ProgType, span source.Span) symbols.Symbol {
	cls := pt.Model
	if !cls.IsValid() {
		cls = a.graph.Builtins().Invalid
	}
	return symbols.Symbol{Name: name, Kind: symbols.SymbolProgVar, Span: span, Cls: cls, Type: pt}
}

// defineOperation binds the operation in scope, then opens a nested scope
// for its parameters and locals.
func (a *analyzer) defineOperation(scope symbols.ScopeBuilder, op project.OperationDecl) {
	span := a.locate(op.Name)
	params := make([]symbols.Param, 0, len(op.Params))
	elems := make([]mathtypes.Element, 0, len(op.Params))
	for _, p := range op.Params {
		pspan := a.locate(p.Name)
		pt, _ := a.progType(scope, p.Type, pspan)
		params = append(params, symbols.Param{Name: a.table.Intern(p.Name), Type: pt, Span: pspan})
		elems = append(elems, mathtypes.Element{Tag: p.Name, Cls: a.variable(0, pt, pspan).Cls})
	}
	a.define(scope, symbols.Symbol{
		Name:   a.table.Intern(op.Name),
		Kind:   symbols.SymbolOperation,
		Span:   span,
		Cls:    a.graph.FunctionOf(elems, a.graph.Builtins().Void),
		Params: params,
	})

	body := a.table.StartScope(span)
	for _, p := range params {
		a.define(body, a.variable(p.Name, p.Type, p.Span))
	}
	for _, local := range op.Locals {
		a.defineVar(body, local)
	}
	a.table.EndScope()
}
