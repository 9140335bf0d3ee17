package driver

import (
	"errors"
	"fmt"

	"resolve/internal/diag"
	"resolve/internal/mathtypes"
	"resolve/internal/project"
	"resolve/internal/source"
	"resolve/internal/symbols"
)

var (
	clsKinds  = symbols.SymbolMathType.Mask() | symbols.SymbolGeneric.Mask() | symbols.SymbolProgType.Mask()
	progKinds = symbols.SymbolProgType.Mask() | symbols.SymbolGeneric.Mask()
)

// query searches imports recursively and facilities instantiated, the way
// references inside a module body are resolved.
func (a *analyzer) query(qualifier, name string, kinds symbols.KindMask, localPriority bool) symbols.Query {
	var q source.StringID
	if qualifier != "" {
		q = a.table.Intern(qualifier)
	}
	id := a.table.Intern(name)
	query := symbols.NameQuery(q, id, symbols.ImportRecursive, symbols.FacilityInstantiate, localPriority)
	query.Searcher = symbols.NameSearcher{Name: id, Kinds: kinds}
	return query
}

// lookup resolves exactly one symbol of the given kinds. When the name only
// exists with another kind the failure is an *UnexpectedSymbolError.
func (a *analyzer) lookup(scope symbols.Scope, qualifier, name string, kinds symbols.KindMask, expected symbols.SymbolKind, span source.Span) (symbols.Symbol, bool) {
	sym, err := a.query(qualifier, name, kinds, true).RunForOne(scope, a.table)
	if err == nil {
		return sym, true
	}
	var missing *symbols.NoSuchSymbolError
	if errors.As(err, &missing) {
		if other, anyErr := a.query(qualifier, name, symbols.KindMaskAny, true).RunForOne(scope, a.table); anyErr == nil {
			err = &symbols.UnexpectedSymbolError{Name: missing.Name, Expected: expected, Actual: other}
		}
	}
	a.report(err, span)
	return symbols.Symbol{}, false
}

// progType resolves a possibly qualified program type reference.
func (a *analyzer) progType(scope symbols.Scope, ref string, span source.Span) (symbols.ProgType, bool) {
	qualifier, name := project.SplitQualified(ref)
	if name == "" {
		diag.ReportError(a.reporter, diag.DeclMissingName, span, "missing program type").Emit()
		return symbols.ProgType{}, false
	}
	sym, ok := a.lookup(scope, qualifier, name, progKinds, symbols.SymbolProgType, span)
	if !ok {
		return symbols.ProgType{}, false
	}
	return sym.Type, true
}

// resolveCls interns the classification e describes. Failures are reported
// at span and yield Invalid.
func (a *analyzer) resolveCls(scope symbols.Scope, e project.ClsExpr, span source.Span) mathtypes.ClsID {
	b := a.graph.Builtins()
	switch e.Shape() {
	case project.ShapeName:
		sym, ok := a.lookup(scope, e.Qualifier, e.Name, clsKinds, symbols.SymbolMathType, span)
		if !ok {
			return b.Invalid
		}
		if sym.Kind == symbols.SymbolProgType {
			return sym.Type.Model
		}
		return sym.TypeValue
	case project.ShapeVar:
		of := b.SSet
		if e.Of != nil {
			of = a.resolveCls(scope, *e.Of, span)
		}
		return a.graph.Named(e.Var, a.memberDepth(of), of, true)
	case project.ShapeFunction:
		return a.graph.FunctionOf(a.elements(scope, e.Params, span), a.resolveCls(scope, *e.Result, span))
	case project.ShapeProduct:
		return a.graph.Cartesian(a.elements(scope, e.Product, span))
	case project.ShapePowerset:
		return a.graph.Powerset(a.resolveCls(scope, *e.Powerset, span))
	case project.ShapeApply:
		fn, args, ok := a.selectOverload(scope, *e.Apply, span)
		if !ok {
			return b.Invalid
		}
		return a.graph.Apply(fn, e.Apply.Fn, args)
	default:
		diag.ReportError(a.reporter, diag.DeclUnknownShape, span, "classification must set exactly one of name, var, result, product, powerset or apply").Emit()
		return b.Invalid
	}
}

func (a *analyzer) elements(scope symbols.Scope, params []project.ParamCls, span source.Span) []mathtypes.Element {
	out := make([]mathtypes.Element, len(params))
	for i, p := range params {
		out[i] = mathtypes.Element{Tag: p.Tag, Cls: a.resolveCls(scope, p.Cls, span)}
	}
	return out
}

// memberDepth is the reference depth of a classification introduced inside
// of: one level below classes of sets, the same level otherwise.
func (a *analyzer) memberDepth(of mathtypes.ClsID) uint32 {
	c, ok := a.graph.Lookup(of)
	if !ok || c.RefDepth <= 1 {
		return 1
	}
	return c.RefDepth - 1
}

// selectOverload resolves the arguments of ap, then picks the first
// candidate named ap.Fn whose deschematized parameters accept them. The
// specialized function classification is returned with the arguments.
func (a *analyzer) selectOverload(scope symbols.Scope, ap project.ApplyExpr, span source.Span) (mathtypes.ClsID, []mathtypes.ClsID, bool) {
	args := make([]mathtypes.ClsID, len(ap.Args))
	for i, arg := range ap.Args {
		args[i] = a.resolveCls(scope, arg, span)
	}
	query := a.query(ap.Qualifier, ap.Fn, symbols.SymbolMath.Mask(), false)
	candidates, err := query.Run(scope, a.table)
	if err != nil {
		a.report(err, span)
		return mathtypes.NoClsID, nil, false
	}
	if len(candidates) == 0 {
		a.report(&symbols.NoSuchSymbolError{Name: describeRef(ap.Qualifier, ap.Fn)}, span)
		return mathtypes.NoClsID, nil, false
	}
	invalid := a.graph.Builtins().Invalid
	for _, arg := range args {
		if arg == invalid {
			// the argument already carries its own diagnostic
			return mathtypes.NoClsID, nil, false
		}
	}

	var arity, mismatch error
	functions := 0
	for _, cand := range candidates {
		if _, ok := a.graph.FnInfo(cand.Cls); !ok {
			continue
		}
		functions++
		spec, _, err := a.graph.Deschematize(cand.Cls, args)
		if err != nil {
			if arity == nil {
				arity = err
			}
			continue
		}
		if err := a.accepts(a.graph.Params(spec), args); err != nil {
			if mismatch == nil {
				mismatch = err
			}
			continue
		}
		return spec, args, true
	}

	switch {
	case mismatch != nil:
		a.report(fmt.Errorf("no overload of %s accepts the arguments: %w", describeRef(ap.Qualifier, ap.Fn), mismatch), span)
	case arity != nil:
		a.report(fmt.Errorf("no overload of %s takes %d arguments: %w", describeRef(ap.Qualifier, ap.Fn), len(args), arity), span)
	case functions == 0:
		msg := fmt.Sprintf("%s is not a function", describeRef(ap.Qualifier, ap.Fn))
		diag.ReportError(a.reporter, diag.SemaNoOverload, span, msg).Emit()
	}
	return mathtypes.NoClsID, nil, false
}

func (a *analyzer) accepts(params, args []mathtypes.ClsID) error {
	var errs []error
	for i, arg := range args {
		if err := a.graph.CheckSubtype(arg, params[i]); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func describeRef(qualifier, name string) string {
	if qualifier == "" {
		return name
	}
	return qualifier + "::" + name
}
