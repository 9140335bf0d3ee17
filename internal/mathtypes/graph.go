package mathtypes

import (
	"slices"
)

// Builtins holds the lattice constants every compilation starts with.
type Builtins struct {
	Cls      ClsID
	SSet     ClsID
	Entity   ClsID
	Boolean  ClsID
	EmptySet ClsID
	Void     ClsID
	Invalid  ClsID

	// Function classifications of the built-in operators.
	BooleanFn  ClsID // B × B → B: and, or, implies
	NotFn      ClsID // B → B
	EqualityFn ClsID // Entity × Entity → B
	PowersetFn ClsID // SSet → SSet
	ArrowFn    ClsID // SSet × SSet → SSet
	CrossFn    ClsID // SSet × SSet → SSet
}

// Graph owns the classifications of one compilation together with the
// subtype facts discovered while analysing it.
type Graph struct {
	*Interner
	builtins      Builtins
	relationships map[ClsID][]ClsID
}

func NewGraph() *Graph {
	g := &Graph{
		Interner:      NewInterner(),
		relationships: make(map[ClsID][]ClsID),
	}
	b := &g.builtins
	b.Invalid = g.Invalid()
	b.Cls = g.Named("Cls", 2, NoClsID, false)
	b.SSet = g.Named("SSet", 2, b.Cls, false)
	b.Entity = g.Named("Entity", 1, b.Cls, false)
	b.Boolean = g.Named("B", 1, b.SSet, false)
	b.EmptySet = g.Named("Empty_Set", 1, b.SSet, false)
	b.Void = g.Named("Void", 1, b.SSet, false)

	b.BooleanFn = g.FunctionOf([]Element{{Cls: b.Boolean}, {Cls: b.Boolean}}, b.Boolean)
	b.NotFn = g.Function(b.Boolean, b.Boolean)
	b.EqualityFn = g.FunctionOf([]Element{{Cls: b.Entity}, {Cls: b.Entity}}, b.Boolean)
	b.PowersetFn = g.Function(b.SSet, b.SSet)
	b.ArrowFn = g.FunctionOf([]Element{{Cls: b.SSet}, {Cls: b.SSet}}, b.SSet)
	b.CrossFn = b.ArrowFn
	return g
}

// Builtins returns the built-in constants.
func (g *Graph) Builtins() Builtins { return g.builtins }

// Function interns domain → result.
func (g *Graph) Function(domain, result ClsID) ClsID {
	return g.function(domain, result, g.builtins.SSet)
}

// FunctionOf interns a function over tagged parameters. Several parameters
// collapse into a cartesian domain; none yields a Void domain.
func (g *Graph) FunctionOf(params []Element, result ClsID) ClsID {
	switch len(params) {
	case 0:
		return g.Function(g.builtins.Void, result)
	case 1:
		return g.Function(params[0].Cls, result)
	default:
		return g.Function(g.Cartesian(params), result)
	}
}

// Cartesian interns an ordered product of tagged elements.
func (g *Graph) Cartesian(elems []Element) ClsID {
	return g.cartesian(elems, g.builtins.SSet)
}

// Apply interns the application of fn, named name, to args. The result is
// classified by fn's result and sits one reference level below it.
// Applying something that is not a function yields Invalid.
func (g *Graph) Apply(fn ClsID, name string, args []ClsID) ClsID {
	info, ok := g.FnInfo(fn)
	if !ok {
		return g.builtins.Invalid
	}
	depth := g.depth(info.Result)
	if depth > 0 {
		depth--
	}
	return g.application(KindFuncApp, fn, name, args, info.Result, depth)
}

// Powerset interns ℘(arg). It sits one reference level above its argument.
func (g *Graph) Powerset(arg ClsID) ClsID {
	return g.application(KindPowerset, g.builtins.PowersetFn, "Powerset", []ClsID{arg}, g.builtins.SSet, g.depth(arg)+1)
}

// AddRelationship records that sub is a subtype of sup.
func (g *Graph) AddRelationship(sub, sup ClsID) {
	if slices.Contains(g.relationships[sub], sup) {
		return
	}
	g.relationships[sub] = append(g.relationships[sub], sup)
}

// IsSubtype decides sub ≤ sup.
//
// Entity and Cls are universal supertypes. Otherwise the pair must be
// alpha-equivalent, be linked by a recorded relationship, be two
// applications whose enclosing classifications are subtypes, or be two
// functions whose domains and results are both subtypes (domains are
// compared covariantly). A named leaf is also a subtype of whatever its
// enclosing chain reaches.
func (g *Graph) IsSubtype(sub, sup ClsID) bool {
	if sup == g.builtins.Entity || sup == g.builtins.Cls {
		return true
	}
	if g.AlphaEquivalent(sub, sup) {
		return true
	}
	for _, rel := range g.relationships[sub] {
		if g.AlphaEquivalent(rel, sup) {
			return true
		}
	}
	subC, ok1 := g.Lookup(sub)
	supC, ok2 := g.Lookup(sup)
	if !ok1 || !ok2 {
		return false
	}
	switch {
	case subC.Kind.IsApplication() && supC.Kind.IsApplication():
		return g.IsSubtype(subC.Enclosing, supC.Enclosing)
	case subC.Kind == KindFunction && supC.Kind == KindFunction:
		subFn := g.fns[subC.Payload]
		supFn := g.fns[supC.Payload]
		return g.IsSubtype(subFn.Domain, supFn.Domain) && g.IsSubtype(subFn.Result, supFn.Result)
	case subC.Kind == KindNamed && subC.Enclosing.IsValid():
		return g.IsSubtype(subC.Enclosing, sup)
	}
	return false
}

// CheckSubtype is IsSubtype reporting failure as a *TypeMismatchError.
func (g *Graph) CheckSubtype(sub, sup ClsID) error {
	if g.IsSubtype(sub, sup) {
		return nil
	}
	return g.mismatch(sub, sup)
}
