package dag

import (
	"fmt"
	"slices"

	"resolve/internal/diag"
	"resolve/internal/project"
)

// Graph holds importer → dependency edges.
type Graph struct {
	Edges   [][]ModuleID // Edges[from] = dependencies of from
	Indeg   []int        // importers of each present module
	Present []bool       // declared, not merely imported
}

// ModuleNode is one loaded module offered to BuildGraph.
type ModuleNode struct {
	Meta     project.ModuleMeta
	Reporter diag.Reporter
	Broken   bool
	FirstErr *diag.Diagnostic
}

// ModuleSlot is the graph's view of a module name.
type ModuleSlot struct {
	Meta     project.ModuleMeta
	Reporter diag.Reporter
	Present  bool
	Broken   bool
	FirstErr *diag.Diagnostic
}

func (s *ModuleSlot) report(code diag.Code, meta project.ImportMeta, msg string, notes ...diag.Note) {
	if s.Reporter == nil {
		return
	}
	s.Reporter.Report(code, diag.SevError, meta.Span, msg, notes)
}

// BuildGraph places nodes into idx slots and wires their imports. The first
// declaration of a name wins; later ones, unknown imports and self imports
// are reported on the importing module.
func BuildGraph(idx ModuleIndex, nodes []ModuleNode) (Graph, []ModuleSlot) {
	n := len(idx.IDToName)
	g := Graph{
		Edges:   make([][]ModuleID, n),
		Indeg:   make([]int, n),
		Present: make([]bool, n),
	}
	slots := make([]ModuleSlot, n)
	for i, name := range idx.IDToName {
		slots[i].Meta.Name = name
	}

	for _, node := range nodes {
		id, ok := idx.NameToID[node.Meta.Name]
		if !ok {
			continue
		}
		slot := &slots[int(id)]
		if slot.Present {
			if node.Reporter != nil {
				var notes []diag.Note
				if slot.Meta.Span.File != 0 {
					notes = append(notes, diag.Note{Span: slot.Meta.Span, Msg: "first declared in " + slot.Meta.Path})
				}
				node.Reporter.Report(diag.ProjDuplicateModule, diag.SevError, node.Meta.Span,
					fmt.Sprintf("module %q is declared more than once", node.Meta.Name), notes)
			}
			continue
		}
		*slot = ModuleSlot{
			Meta:     node.Meta,
			Reporter: node.Reporter,
			Present:  true,
			Broken:   node.Broken,
			FirstErr: node.FirstErr,
		}
		g.Present[int(id)] = true
	}

	for from := range slots {
		slot := &slots[from]
		if !slot.Present {
			continue
		}
		for _, dep := range slot.Meta.Imports {
			to, ok := idx.NameToID[dep.Path]
			switch {
			case !ok:
				continue
			case int(to) == from:
				slot.report(diag.ProjSelfImport, dep, fmt.Sprintf("module %q imports itself", slot.Meta.Name))
				continue
			case slices.Contains(g.Edges[from], to):
				continue
			}
			g.Edges[from] = append(g.Edges[from], to)
			if g.Present[int(to)] {
				g.Indeg[int(to)]++
				continue
			}
			slot.report(diag.ProjMissingModule, dep,
				fmt.Sprintf("%s of unknown module %q in %q", dep.Kind, dep.Path, slot.Meta.Name))
		}
		slices.Sort(g.Edges[from])
	}
	return g, slots
}
