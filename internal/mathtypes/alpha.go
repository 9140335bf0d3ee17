package mathtypes

// AlphaEquivalent compares two classifications structurally. Schematic
// leaves match any other schematic leaf with an equivalent enclosing
// classification, whatever their tags. Cartesian element tags are ignored.
func (g *Graph) AlphaEquivalent(a, b ClsID) bool {
	if a == b {
		return true
	}
	ca, okA := g.Lookup(a)
	cb, okB := g.Lookup(b)
	if !okA || !okB {
		return false
	}
	if ca.Kind.IsApplication() && cb.Kind.IsApplication() {
		ia, ib := g.apps[ca.Payload], g.apps[cb.Payload]
		return ca.Tag == cb.Tag && g.allAlpha(ia.Args, ib.Args)
	}
	if ca.Kind != cb.Kind {
		return false
	}
	switch ca.Kind {
	case KindNamed:
		if ca.Schematic != cb.Schematic {
			return false
		}
		if ca.Schematic {
			return g.AlphaEquivalent(ca.Enclosing, cb.Enclosing)
		}
		return ca.Tag == cb.Tag && g.AlphaEquivalent(ca.Enclosing, cb.Enclosing)
	case KindFunction:
		fa, fb := g.fns[ca.Payload], g.fns[cb.Payload]
		return g.AlphaEquivalent(fa.Domain, fb.Domain) && g.AlphaEquivalent(fa.Result, fb.Result)
	case KindCartesian:
		ea, eb := g.carts[ca.Payload].Elements, g.carts[cb.Payload].Elements
		if len(ea) != len(eb) {
			return false
		}
		for i := range ea {
			if !g.AlphaEquivalent(ea[i].Cls, eb[i].Cls) {
				return false
			}
		}
		return true
	case KindInvalid:
		return true
	}
	return false
}

func (g *Graph) allAlpha(as, bs []ClsID) bool {
	if len(as) != len(bs) {
		return false
	}
	for i := range as {
		if !g.AlphaEquivalent(as[i], bs[i]) {
			return false
		}
	}
	return true
}
