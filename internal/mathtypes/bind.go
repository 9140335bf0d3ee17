package mathtypes

import (
	"errors"
	"fmt"
)

// Bind extends acc with the bindings that make formal match actual.
//
// A schematic leaf in formal is bound to actual when actual is a subtype of
// the leaf's enclosing classification and the tag is still unbound; the
// first binding wins. Components are then walked in lockstep. A component
// count mismatch abandons that subtree with a *BindingError; sibling
// subtrees are still walked and their bindings kept.
func (g *Graph) Bind(actual, formal ClsID, acc Bindings) error {
	fc, ok := g.Lookup(formal)
	if !ok {
		return &BindingError{Actual: g.String(actual), Formal: g.String(formal), Reason: "unknown formal classification"}
	}
	if fc.Kind == KindNamed && fc.Schematic && g.IsSubtype(actual, fc.Enclosing) {
		if _, bound := acc[fc.Tag]; !bound {
			acc[fc.Tag] = actual
		}
	}

	actualComps := g.Components(actual)
	formalComps := g.Components(formal)
	if len(actualComps) != len(formalComps) {
		return &BindingError{
			Actual: g.String(actual),
			Formal: g.String(formal),
			Reason: fmt.Sprintf("%d components against %d", len(actualComps), len(formalComps)),
		}
	}
	var errs []error
	for i := range actualComps {
		if err := g.Bind(actualComps[i], formalComps[i], acc); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Deschematize specializes the function classification fn for the given
// argument classifications. Parameters are visited in order; each one is
// first rewritten with the bindings found so far and, if still schematic,
// bound against its argument. Binding failures of individual parameters are
// ignored. The returned classification is fn with every bound schematic
// leaf replaced; concrete leaves are left alone even when they share a tag.
//
// The only error is an arity mismatch (or fn not being a function), reported
// as a *BindingError with fn returned unchanged.
func (g *Graph) Deschematize(fn ClsID, args []ClsID) (ClsID, Bindings, error) {
	if _, ok := g.FnInfo(fn); !ok {
		return fn, nil, &BindingError{Formal: g.String(fn), Reason: "not a function classification"}
	}
	params := g.Params(fn)
	if len(params) != len(args) {
		return fn, nil, &BindingError{
			Formal: g.String(fn),
			Reason: fmt.Sprintf("expected %d arguments, got %d", len(params), len(args)),
		}
	}
	bindings := Bindings{}
	for i, formal := range params {
		formal = g.SubstituteSchematic(formal, bindings)
		if !g.ContainsSchematic(formal) {
			continue
		}
		step := Bindings{}
		_ = g.Bind(args[i], formal, step) //nolint:errcheck // partial bindings are kept
		for tag, cls := range step {
			bindings[tag] = cls
		}
	}
	return g.SubstituteSchematic(fn, bindings), bindings, nil
}
