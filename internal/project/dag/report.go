package dag

import (
	"fmt"
	"slices"
	"strings"

	"resolve/internal/diag"
)

// ReportCycles reports every module left over by the sort and marks it
// broken.
func ReportCycles(idx ModuleIndex, slots []ModuleSlot, topo *Topo) {
	if !topo.Cyclic || len(topo.Cycles) == 0 {
		return
	}
	summary := strings.Join(idx.Names(topo.Cycles), " -> ")
	for _, id := range topo.Cycles {
		slot := &slots[int(id)]
		slot.Broken = true
		if !slot.Present || slot.Reporter == nil {
			continue
		}
		msg := fmt.Sprintf("module %q participates in an import cycle: %s", slot.Meta.Name, summary)
		slot.Reporter.Report(diag.ProjImportCycle, diag.SevError, slot.Meta.Span, msg, nil)
	}
}

// PropagateBroken walks order (dependencies first) and marks every module
// that imports a broken or missing module broken too, reporting the first
// failing dependency on each import.
func PropagateBroken(idx ModuleIndex, g Graph, slots []ModuleSlot, order []ModuleID) {
	for _, id := range order {
		slot := &slots[int(id)]
		for _, dep := range slot.Meta.Imports {
			to, ok := idx.NameToID[dep.Path]
			if !ok || !slices.Contains(g.Edges[int(id)], to) {
				continue
			}
			depSlot := slots[int(to)]
			if depSlot.Present && !depSlot.Broken {
				continue
			}
			if !slot.Broken && depSlot.Present {
				var notes []diag.Note
				if depSlot.FirstErr != nil {
					notes = append(notes, diag.Note{
						Span: depSlot.FirstErr.Primary,
						Msg:  "first error in dependency: " + depSlot.FirstErr.Message,
					})
				}
				slot.report(diag.ProjDependencyFailed, dep, fmt.Sprintf("dependency module %q has errors", dep.Path), notes...)
			}
			slot.Broken = true
		}
	}
}
