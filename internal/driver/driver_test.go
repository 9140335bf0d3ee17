package driver

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"resolve/internal/diag"
	"resolve/internal/project"
	"resolve/internal/symbols"
	"resolve/internal/trace"
)

const integerTheory = `module = "Integer_Theory"

[[math]]
name = "Z"
denotes = { of = { name = "SSet" } }

[[math]]
name = "N"
denotes = { of = { name = "SSet" } }

[[type_theorem]]
name = "N_Sub_Z"
sub = { name = "N" }
sup = { name = "Z" }

[[math]]
name = "plus"
cls = { params = [{ tag = "a", cls = { name = "Z" } }, { tag = "b", cls = { name = "Z" } }], result = { name = "Z" } }

[[math]]
name = "ident"
cls = { params = [{ tag = "x", cls = { var = "T", of = { name = "SSet" } } }], result = { var = "T", of = { name = "SSet" } } }

[[type]]
name = "Integer"
model = { name = "Z" }
`

const stackTemplate = `module: Stack_Template
generics: [T]
math:
  - name: Contents
    cls: { powerset: { name: T } }
operation:
  - name: Push
    params: [{ name: e, type: T }]
    locals: [{ name: tmp, type: T }]
`

const client = `module = "Client"
imports = ["Integer_Theory"]

[[math]]
name = "total"
apply = { fn = "plus", args = [{ name = "N" }, { name = "Z" }] }

[[math]]
name = "same"
apply = { fn = "ident", args = [{ name = "Z" }] }

[[facility]]
name = "S"
module = "Stack_Template"
args = ["Integer"]

[[var]]
name = "v"
type = "S::T"
`

func writeProject(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	files[project.ManifestName] = "[project]\nname = \"test\"\n"
	for name, content := range files {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	return dir
}

func mustCheck(t *testing.T, files map[string]string) *Result {
	t.Helper()
	res, err := Check(context.Background(), writeProject(t, files), Options{Timings: true})
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	return res
}

func codes(bag *diag.Bag) []diag.Code {
	out := make([]diag.Code, 0, bag.Len())
	for _, d := range bag.Items() {
		out = append(out, d.Code)
	}
	return out
}

func queryOne(t *testing.T, res *Result, req QueryRequest) Match {
	t.Helper()
	if req.Imports == 0 {
		req.Imports = symbols.ImportRecursive
	}
	if req.Facilities == 0 {
		req.Facilities = symbols.FacilityInstantiate
	}
	found, err := res.Query(req)
	if err != nil {
		t.Fatalf("query %s: %v", req.Name, err)
	}
	if len(found) != 1 {
		t.Fatalf("query %s: %d matches %+v", req.Name, len(found), found)
	}
	return found[0]
}

func stackProject() map[string]string {
	return map[string]string{
		"theory/integer.toml":  integerTheory,
		"templates/stack.yaml": stackTemplate,
		"client.toml":          client,
	}
}

func TestCheckAnalysesDependenciesFirst(t *testing.T) {
	res := mustCheck(t, stackProject())
	if res.HasErrors() {
		t.Fatalf("unexpected diagnostics: %+v", res.Bag.Items())
	}
	order := res.Table.Modules()
	want := []symbols.ModuleID{"Integer_Theory", "Stack_Template", "Client"}
	if slices.Index(order, want[0]) > slices.Index(order, want[2]) || slices.Index(order, want[1]) > slices.Index(order, want[2]) {
		t.Fatalf("modules analysed in order %v", order)
	}
	for _, mr := range res.Modules {
		if !mr.Analyzed || mr.Hash == (project.Digest{}) {
			t.Fatalf("module %s: analyzed=%v hash=%x", mr.Name, mr.Analyzed, mr.Hash)
		}
	}
	if len(res.Timer.Report().Phases) != 4 {
		t.Fatalf("timings = %+v", res.Timer.Report())
	}
}

func TestOverloadSelectionUsesSubtypesAndBinding(t *testing.T) {
	res := mustCheck(t, stackProject())
	if got := queryOne(t, res, QueryRequest{From: "Client", Name: "total"}); got.Cls != "Z" {
		t.Fatalf("total : %s, want Z", got.Cls)
	}
	if got := queryOne(t, res, QueryRequest{From: "Client", Name: "same"}); got.Cls != "Z" {
		t.Fatalf("same : %s, want Z", got.Cls)
	}
	ident := queryOne(t, res, QueryRequest{From: "Integer_Theory", Name: "ident"})
	if !slices.Contains(ident.Flags, "schematic") {
		t.Fatalf("ident flags = %v", ident.Flags)
	}
}

func TestFacilityInstantiation(t *testing.T) {
	res := mustCheck(t, stackProject())

	if got := queryOne(t, res, QueryRequest{From: "Client", Name: "S::Contents"}); got.Cls != "℘(Z)" {
		t.Fatalf("S::Contents : %s, want ℘(Z)", got.Cls)
	}
	generic := queryOne(t, res, QueryRequest{From: "Client", Name: "Contents", Facilities: symbols.FacilityGeneric})
	if generic.Cls != "℘(T)" {
		t.Fatalf("generic Contents : %s, want ℘(T)", generic.Cls)
	}
	none, err := res.Query(QueryRequest{From: "Client", Name: "Contents", Imports: symbols.ImportRecursive, Facilities: symbols.FacilityIgnore})
	if err != nil || len(none) != 0 {
		t.Fatalf("ignored facilities still matched %v (%v)", none, err)
	}

	v := queryOne(t, res, QueryRequest{From: "Client", Name: "v"})
	if v.Type != "Integer" || v.Cls != "Z" {
		t.Fatalf("v = %+v, want Integer modelled by Z", v)
	}
}

func TestSemanticErrorsBecomeDiagnostics(t *testing.T) {
	files := stackProject()
	files["bad.toml"] = `module = "Bad"
imports = ["Integer_Theory"]

[[math]]
name = "x"
cls = { name = "Missing" }

[[math]]
name = "x"
cls = { name = "Z" }

[[math]]
name = "wrong"
apply = { fn = "plus", args = [{ name = "B" }, { name = "Z" }] }

[[math]]
name = "short"
apply = { fn = "plus", args = [{ name = "Z" }] }

[[math]]
name = "kind"
cls = { name = "plus" }

[[math]]
name = "shapeless"
cls = { name = "Z", powerset = { name = "Z" } }

[[facility]]
name = "F"
module = "Stack_Template"
args = []
`
	res := mustCheck(t, files)
	var bad ModuleResult
	for _, mr := range res.Modules {
		if mr.Name == "Bad" {
			bad = mr
		}
	}
	got := codes(bad.Bag)
	for _, want := range []diag.Code{
		diag.SemaUnresolvedSymbol,
		diag.SemaDuplicateSymbol,
		diag.SemaTypeMismatch,
		diag.SemaBinding,
		diag.SemaUnexpectedSymbol,
		diag.DeclUnknownShape,
	} {
		if !slices.Contains(got, want) {
			t.Fatalf("missing %s in %v", want.ID(), got)
		}
	}
	for _, d := range bad.Bag.Items() {
		if d.Code == diag.SemaDuplicateSymbol && len(d.Notes) != 1 {
			t.Fatalf("duplicate without a note on the first declaration: %+v", d)
		}
		if d.Code == diag.SemaTypeMismatch && !strings.Contains(d.Message, "is not a subtype of") {
			t.Fatalf("mismatch message = %q", d.Message)
		}
	}
	if got := queryOne(t, res, QueryRequest{From: "Bad", Name: "wrong"}); got.Cls != "Invalid" {
		t.Fatalf("failed application classified %s", got.Cls)
	}
}

func TestInvalidArgumentDoesNotCascade(t *testing.T) {
	files := stackProject()
	files["bad.toml"] = `module = "Bad"
imports = ["Integer_Theory"]

[[math]]
name = "lost"
apply = { fn = "plus", args = [{ name = "Missing" }, { name = "Z" }] }
`
	res := mustCheck(t, files)
	var bad ModuleResult
	for _, mr := range res.Modules {
		if mr.Name == "Bad" {
			bad = mr
		}
	}
	got := codes(bad.Bag)
	if !slices.Equal(got, []diag.Code{diag.SemaUnresolvedSymbol}) {
		t.Fatalf("codes = %v, want only %s", got, diag.SemaUnresolvedSymbol.ID())
	}
	if got := queryOne(t, res, QueryRequest{From: "Bad", Name: "lost"}); got.Cls != "Invalid" {
		t.Fatalf("application over an unresolved argument classified %s", got.Cls)
	}
}

func TestBrokenImportsSkipModules(t *testing.T) {
	res := mustCheck(t, map[string]string{
		"a.toml":    "module = \"A\"\nimports = [\"B\"]\n",
		"b.toml":    "module = \"B\"\nimports = [\"A\"]\n",
		"top.toml":  "module = \"Top\"\nimports = [\"A\"]\n",
		"lost.toml": "module = \"Lost\"\nimports = [\"Nowhere\"]\n",
		"ok.toml":   "module = \"Fine\"\n",
	})
	got := codes(res.Bag)
	for _, want := range []diag.Code{diag.ProjImportCycle, diag.ProjDependencyFailed, diag.ProjMissingModule} {
		if !slices.Contains(got, want) {
			t.Fatalf("missing %s in %v", want.ID(), got)
		}
	}
	if mods := res.Table.Modules(); !slices.Equal(mods, []symbols.ModuleID{"Fine"}) {
		t.Fatalf("analysed %v, want only Fine", mods)
	}
}

func TestCheckWithoutManifest(t *testing.T) {
	dir := t.TempDir()
	if _, found, _ := project.FindManifest(dir); found {
		t.Skip("a manifest above the temp dir satisfies the search")
	}
	if _, err := Check(context.Background(), dir, Options{}); !errors.Is(err, ErrNoManifest) {
		t.Fatalf("expected ErrNoManifest, got %v", err)
	}
}

type recordingSink struct{ events []Event }

func (s *recordingSink) OnEvent(ev Event) { s.events = append(s.events, ev) }

func TestProgressEvents(t *testing.T) {
	dir := writeProject(t, map[string]string{
		"a.toml":      "module = \"A\"\nimports = [\"B\"]\n",
		"b.toml":      "module = \"B\"\nimports = [\"A\"]\n",
		"top.toml":    "module = \"Top\"\nimports = [\"A\"]\n",
		"ok.toml":     "module = \"Fine\"\n",
		"broken.toml": "module = \n",
	})
	sink := &recordingSink{}
	if _, err := Check(context.Background(), dir, Options{Progress: sink}); err != nil {
		t.Fatalf("check: %v", err)
	}

	final := make(map[string]Event)
	queued := 0
	for _, ev := range sink.events {
		if ev.Status == StatusQueued {
			queued++
		}
		final[filepath.Base(ev.File)] = ev
	}
	if queued != 5 {
		t.Fatalf("queued %d files, want 5", queued)
	}
	want := map[string]Event{
		"broken.toml": {Stage: StageLoad, Status: StatusError},
		"top.toml":    {Module: "Top", Stage: StageAnalyze, Status: StatusSkipped},
		"ok.toml":     {Module: "Fine", Stage: StageAnalyze, Status: StatusDone},
		"a.toml":      {Module: "A", Stage: StageLoad, Status: StatusDone},
	}
	for file, w := range want {
		got := final[file]
		got.File = ""
		if got != w {
			t.Errorf("%s: last event %+v, want %+v", file, got, w)
		}
	}
}

func TestCheckEmitsTraceSpans(t *testing.T) {
	var buf bytes.Buffer
	tracer := trace.NewStreamTracer(&buf, trace.LevelDetail, trace.FormatNDJSON)
	ctx := trace.WithTracer(context.Background(), tracer)
	if _, err := Check(ctx, writeProject(t, stackProject()), Options{}); err != nil {
		t.Fatalf("check: %v", err)
	}

	type event struct {
		Kind   string            `json:"kind"`
		Scope  string            `json:"scope"`
		Name   string            `json:"name"`
		Parent uint64            `json:"parent_id"`
		Extra  map[string]string `json:"extra"`
	}
	var ends []event
	for _, line := range bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n")) {
		var ev event
		if err := json.Unmarshal(line, &ev); err != nil {
			t.Fatalf("decode %q: %v", line, err)
		}
		if ev.Kind == "end" {
			ends = append(ends, ev)
		}
	}
	var names []string
	for _, ev := range ends {
		names = append(names, ev.Scope+":"+ev.Name)
	}
	for _, want := range []string{"pass:discover", "pass:load", "pass:graph", "pass:analyze", "module:module:Client", "driver:check"} {
		if !slices.Contains(names, want) {
			t.Fatalf("missing span %s in %v", want, names)
		}
	}
	last := ends[len(ends)-1]
	if last.Name != "check" || last.Extra["modules"] != "3" {
		t.Fatalf("check span = %+v", last)
	}
}
