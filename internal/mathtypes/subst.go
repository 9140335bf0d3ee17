package mathtypes

// Substitute replaces every named leaf whose tag is bound in subst. Generic
// instantiation uses it: a module's generic parameters are plain named
// leaves.
func (g *Graph) Substitute(id ClsID, subst Bindings) ClsID {
	return g.substitute(id, subst, false)
}

// SubstituteSchematic replaces only schematic leaves whose tag is bound in
// subst; concrete leaves sharing a tag are kept.
func (g *Graph) SubstituteSchematic(id ClsID, subst Bindings) ClsID {
	return g.substitute(id, subst, true)
}

func (g *Graph) substitute(id ClsID, subst Bindings, schematicOnly bool) ClsID {
	if len(subst) == 0 {
		return id
	}
	c, ok := g.Lookup(id)
	if !ok {
		return id
	}
	switch c.Kind {
	case KindNamed:
		if schematicOnly && !c.Schematic {
			return id
		}
		if r, ok := subst[c.Tag]; ok {
			return r
		}
		return id
	case KindFunction:
		info := g.fns[c.Payload]
		return g.function(g.substitute(info.Domain, subst, schematicOnly), g.substitute(info.Result, subst, schematicOnly), c.Enclosing)
	case KindCartesian:
		elems := g.carts[c.Payload].Elements
		out := make([]Element, len(elems))
		for i, e := range elems {
			out[i] = Element{Tag: e.Tag, Cls: g.substitute(e.Cls, subst, schematicOnly)}
		}
		return g.cartesian(out, c.Enclosing)
	case KindFuncApp:
		info := g.apps[c.Payload]
		return g.Apply(g.substitute(info.Function, subst, schematicOnly), c.Tag, g.substituteAll(info.Args, subst, schematicOnly))
	case KindPowerset:
		return g.Powerset(g.substitute(g.apps[c.Payload].Args[0], subst, schematicOnly))
	}
	return id
}

func (g *Graph) substituteAll(ids []ClsID, subst Bindings, schematicOnly bool) []ClsID {
	out := make([]ClsID, len(ids))
	for i, id := range ids {
		out[i] = g.substitute(id, subst, schematicOnly)
	}
	return out
}

// ContainsSchematic reports whether any leaf under id is schematic.
func (g *Graph) ContainsSchematic(id ClsID) bool {
	c, ok := g.Lookup(id)
	if !ok {
		return false
	}
	if c.Kind == KindNamed {
		return c.Schematic
	}
	for _, comp := range g.Components(id) {
		if g.ContainsSchematic(comp) {
			return true
		}
	}
	return false
}

// Components lists the immediate sub-classifications walked by Bind:
// domain and result of a function, elements of a product, arguments of an
// application. Leaves have none.
func (g *Graph) Components(id ClsID) []ClsID {
	c, ok := g.Lookup(id)
	if !ok {
		return nil
	}
	switch c.Kind {
	case KindFunction:
		info := g.fns[c.Payload]
		return []ClsID{info.Domain, info.Result}
	case KindCartesian:
		elems := g.carts[c.Payload].Elements
		out := make([]ClsID, len(elems))
		for i, e := range elems {
			out[i] = e.Cls
		}
		return out
	case KindFuncApp, KindPowerset:
		return g.apps[c.Payload].Args
	}
	return nil
}

// Params lists the formal parameter classifications of a function: the
// elements of a cartesian domain, nothing for a Void domain, otherwise the
// domain itself.
func (g *Graph) Params(fn ClsID) []ClsID {
	info, ok := g.FnInfo(fn)
	if !ok {
		return nil
	}
	if info.Domain == g.builtins.Void {
		return nil
	}
	if cart, ok := g.CartesianInfo(info.Domain); ok {
		out := make([]ClsID, len(cart.Elements))
		for i, e := range cart.Elements {
			out[i] = e.Cls
		}
		return out
	}
	return []ClsID{info.Domain}
}

// Result returns the result classification of a function, or NoClsID.
func (g *Graph) Result(fn ClsID) ClsID {
	info, ok := g.FnInfo(fn)
	if !ok {
		return NoClsID
	}
	return info.Result
}
