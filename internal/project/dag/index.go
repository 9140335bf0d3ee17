package dag

import (
	"slices"

	"resolve/internal/project"
)

// ModuleID is a dense index into the import graph.
type ModuleID uint32

// ModuleIndex assigns IDs to every module name that is declared or
// imported, in sorted order.
type ModuleIndex struct {
	NameToID map[string]ModuleID
	IDToName []string
}

func BuildIndex(metas []project.ModuleMeta) ModuleIndex {
	names := make([]string, 0, len(metas))
	for _, meta := range metas {
		names = append(names, meta.Name)
		for _, dep := range meta.Imports {
			names = append(names, dep.Path)
		}
	}
	names = slices.DeleteFunc(names, func(s string) bool { return s == "" })
	slices.Sort(names)
	names = slices.Compact(names)

	nameToID := make(map[string]ModuleID, len(names))
	for i, name := range names {
		nameToID[name] = ModuleID(i) //nolint:gosec // bounded by the number of declaration files
	}
	return ModuleIndex{NameToID: nameToID, IDToName: names}
}

// Name returns the module name for id.
func (idx ModuleIndex) Name(id ModuleID) string { return idx.IDToName[int(id)] }

// Names maps ids to module names.
func (idx ModuleIndex) Names(ids []ModuleID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = idx.Name(id)
	}
	return out
}
