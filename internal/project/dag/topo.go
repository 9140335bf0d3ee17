package dag

import (
	"slices"
)

// Topo is a Kahn ordering of the present modules. Because edges point from
// importer to dependency, Order lists importers before what they import.
type Topo struct {
	Order   []ModuleID   // importers first
	Batches [][]ModuleID // waves of mutually independent modules
	Cyclic  bool
	Cycles  []ModuleID // modules left over: on a cycle or only reachable through one
}

func ToposortKahn(g Graph) *Topo {
	indeg := slices.Clone(g.Indeg)
	topo := &Topo{}

	active := 0
	var current []ModuleID
	for i, present := range g.Present {
		if !present {
			continue
		}
		active++
		if indeg[i] == 0 {
			current = append(current, ModuleID(i)) //nolint:gosec // i indexes the module index
		}
	}

	for len(current) > 0 {
		topo.Batches = append(topo.Batches, current)
		var next []ModuleID
		for _, id := range current {
			topo.Order = append(topo.Order, id)
			for _, to := range g.Edges[int(id)] {
				if !g.Present[int(to)] {
					continue
				}
				indeg[int(to)]--
				if indeg[int(to)] == 0 {
					next = append(next, to)
				}
			}
		}
		slices.Sort(next)
		current = next
	}

	if len(topo.Order) != active {
		topo.Cyclic = true
		for i, present := range g.Present {
			if present && indeg[i] > 0 {
				topo.Cycles = append(topo.Cycles, ModuleID(i)) //nolint:gosec // i indexes the module index
			}
		}
	}
	return topo
}

// BuildOrder lists modules dependencies first, the order analysis needs.
func (t *Topo) BuildOrder() []ModuleID {
	out := slices.Clone(t.Order)
	slices.Reverse(out)
	return out
}
