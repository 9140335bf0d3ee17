package dag

import (
	"slices"
	"testing"

	"resolve/internal/diag"
	"resolve/internal/project"
	"resolve/internal/source"
)

func imports(names ...string) []project.ImportMeta {
	out := make([]project.ImportMeta, len(names))
	for i, name := range names {
		out[i] = project.ImportMeta{Path: name, Span: source.Span{File: 1, Start: uint32(i), End: uint32(i + 1)}} //nolint:gosec // small test input
	}
	return out
}

func nodesFor(metas []project.ModuleMeta, bags map[string]*diag.Bag) []ModuleNode {
	nodes := make([]ModuleNode, len(metas))
	for i, meta := range metas {
		nodes[i] = ModuleNode{Meta: meta}
		if bag, ok := bags[meta.Name]; ok {
			nodes[i].Reporter = diag.BagReporter{Bag: bag}
		}
	}
	return nodes
}

func TestBuildIndexIncludesImports(t *testing.T) {
	metas := []project.ModuleMeta{
		{Name: "Stack_Realiz", Imports: imports("Stack_Template", "Integer_Theory")},
		{Name: "Integer_Theory"},
	}
	idx := BuildIndex(metas)
	want := []string{"Integer_Theory", "Stack_Realiz", "Stack_Template"}
	if !slices.Equal(idx.IDToName, want) {
		t.Fatalf("IDToName = %v, want %v", idx.IDToName, want)
	}
	for i, name := range want {
		if id, ok := idx.NameToID[name]; !ok || int(id) != i {
			t.Fatalf("NameToID[%q] = %v, want %d", name, id, i)
		}
	}
}

func TestBuildGraphReportsMissingAndSelfImports(t *testing.T) {
	appBag := diag.NewBag(10)
	metas := []project.ModuleMeta{
		{Name: "App", Imports: imports("Core", "Util", "App")},
		{Name: "Core"},
	}
	idx := BuildIndex(metas)
	g, _ := BuildGraph(idx, nodesFor(metas, map[string]*diag.Bag{"App": appBag}))

	app := idx.NameToID["App"]
	if got := idx.Names(g.Edges[int(app)]); !slices.Equal(got, []string{"Core", "Util"}) {
		t.Fatalf("App deps = %v", got)
	}
	if g.Present[int(idx.NameToID["Util"])] {
		t.Fatalf("Util is only imported, must not be present")
	}
	codes := []diag.Code{}
	for _, d := range appBag.Items() {
		codes = append(codes, d.Code)
	}
	if !slices.Contains(codes, diag.ProjMissingModule) || !slices.Contains(codes, diag.ProjSelfImport) {
		t.Fatalf("App diagnostics = %v", codes)
	}
}

func TestBuildGraphDuplicateModules(t *testing.T) {
	spanA := source.Span{File: 1, End: 5}
	metaA := project.ModuleMeta{Name: "Dup", Path: "a.toml", Span: spanA}
	metaB := project.ModuleMeta{Name: "Dup", Path: "b.toml", Span: source.Span{File: 2, End: 5}}
	bagB := diag.NewBag(10)
	nodes := []ModuleNode{
		{Meta: metaA},
		{Meta: metaB, Reporter: diag.BagReporter{Bag: bagB}},
	}
	idx := BuildIndex([]project.ModuleMeta{metaA, metaB})
	_, slots := BuildGraph(idx, nodes)

	if bagB.Len() != 1 || bagB.Items()[0].Code != diag.ProjDuplicateModule {
		t.Fatalf("duplicate diagnostics = %v", bagB.Items())
	}
	if len(bagB.Items()[0].Notes) != 1 {
		t.Fatalf("duplicate must point at the first declaration")
	}
	if slot := slots[int(idx.NameToID["Dup"])]; slot.Meta.Span != spanA {
		t.Fatalf("slot holds %v, want first declaration", slot.Meta.Span)
	}
}

func TestBuildOrderPutsDependenciesFirst(t *testing.T) {
	metas := []project.ModuleMeta{
		{Name: "Client", Imports: imports("Stack_Template", "Integer_Theory")},
		{Name: "Stack_Template", Imports: imports("Integer_Theory")},
		{Name: "Integer_Theory"},
		{Name: "Standalone"},
	}
	idx := BuildIndex(metas)
	g, _ := BuildGraph(idx, nodesFor(metas, nil))
	topo := ToposortKahn(g)
	if topo.Cyclic {
		t.Fatalf("unexpected cycle: %v", idx.Names(topo.Cycles))
	}
	order := idx.Names(topo.BuildOrder())
	pos := func(name string) int { return slices.Index(order, name) }
	if pos("Integer_Theory") > pos("Stack_Template") || pos("Stack_Template") > pos("Client") {
		t.Fatalf("build order = %v", order)
	}
	if len(order) != 4 || len(topo.Batches[0]) != 2 {
		t.Fatalf("order %v, batches %v", order, topo.Batches)
	}
}

func TestCyclesBreakImporters(t *testing.T) {
	bagA := diag.NewBag(10)
	bagB := diag.NewBag(10)
	bagTop := diag.NewBag(10)
	metas := []project.ModuleMeta{
		{Name: "A", Imports: imports("B")},
		{Name: "B", Imports: imports("A")},
		{Name: "Top", Imports: imports("A")},
	}
	idx := BuildIndex(metas)
	g, slots := BuildGraph(idx, nodesFor(metas, map[string]*diag.Bag{"A": bagA, "B": bagB, "Top": bagTop}))
	topo := ToposortKahn(g)
	if !topo.Cyclic || !slices.Equal(idx.Names(topo.Cycles), []string{"A", "B"}) {
		t.Fatalf("cycles = %v", idx.Names(topo.Cycles))
	}

	ReportCycles(idx, slots, topo)
	PropagateBroken(idx, g, slots, topo.BuildOrder())

	for name, bag := range map[string]*diag.Bag{"A": bagA, "B": bagB} {
		if bag.Len() != 1 || bag.Items()[0].Code != diag.ProjImportCycle {
			t.Fatalf("%s diagnostics = %v", name, bag.Items())
		}
	}
	if bagTop.Len() != 1 || bagTop.Items()[0].Code != diag.ProjDependencyFailed {
		t.Fatalf("Top diagnostics = %v", bagTop.Items())
	}
	if !slots[int(idx.NameToID["Top"])].Broken {
		t.Fatalf("Top must be broken")
	}
}
