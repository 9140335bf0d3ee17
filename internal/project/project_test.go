package project

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"resolve/internal/diag"
	"resolve/internal/source"
)

const stackTOML = `module = "Stack_Template"
imports = ["Integer_Theory"]
facility_imports = ["Std_Facs"]
generics = ["T"]

[[math]]
name = "Contents"
cls = { powerset = { name = "T" } }

[[operation]]
name = "Push"
params = [{ name = "e", type = "T" }]
`

const stackYAML = `module: Stack_Template
imports: [Integer_Theory]
facility_imports: [Std_Facs]
generics: [T]
math:
  - name: Contents
    cls:
      powerset:
        name: T
operation:
  - name: Push
    params:
      - name: e
        type: T
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestDecodeDeclTOMLAndYAMLAgree(t *testing.T) {
	fromTOML, err := DecodeDecl("stack.toml", []byte(stackTOML))
	if err != nil {
		t.Fatalf("toml: %v", err)
	}
	fromYAML, err := DecodeDecl("stack.yaml", []byte(stackYAML))
	if err != nil {
		t.Fatalf("yaml: %v", err)
	}
	if diff := cmp.Diff(fromTOML, fromYAML); diff != "" {
		t.Fatalf("decls differ (-toml +yaml):\n%s", diff)
	}
	if got := fromTOML.Math[0].Cls.Shape(); got != ShapePowerset {
		t.Fatalf("Contents shape = %v, want powerset", got)
	}
}

func TestDecodeDeclErrors(t *testing.T) {
	_, err := DecodeDecl("bad.toml", []byte("module = \"A\"\nimports = [\n"))
	var de *DeclError
	if !errors.As(err, &de) || de.Line == 0 {
		t.Fatalf("expected DeclError with a line, got %v", err)
	}

	_, err = DecodeDecl("extra.toml", []byte("module = \"A\"\nbogus = 1\n"))
	if !errors.As(err, &de) {
		t.Fatalf("expected unknown key error, got %v", err)
	}

	_, err = DecodeDecl("extra.yaml", []byte("module: A\nbogus: 1\n"))
	if !errors.As(err, &de) {
		t.Fatalf("expected unknown field error, got %v", err)
	}

	if _, err = DecodeDecl("notes.txt", nil); err == nil {
		t.Fatalf("expected unsupported format error")
	}
}

func TestClsExprShape(t *testing.T) {
	z := ClsExpr{Name: "Z"}
	tests := []struct {
		expr ClsExpr
		want ClsShape
	}{
		{z, ShapeName},
		{ClsExpr{Var: "T", Of: &ClsExpr{Name: "SSet"}}, ShapeVar},
		{ClsExpr{Params: []ParamCls{{Cls: z}}, Result: &z}, ShapeFunction},
		{ClsExpr{Product: []ParamCls{{Tag: "x", Cls: z}}}, ShapeProduct},
		{ClsExpr{Powerset: &z}, ShapePowerset},
		{ClsExpr{Apply: &ApplyExpr{Fn: "f"}}, ShapeApply},
		{ClsExpr{}, ShapeUnknown},
		{ClsExpr{Name: "Z", Powerset: &z}, ShapeUnknown},
	}
	for i, tt := range tests {
		if got := tt.expr.Shape(); got != tt.want {
			t.Fatalf("case %d: Shape() = %v, want %v", i, got, tt.want)
		}
	}
}

func TestSplitQualified(t *testing.T) {
	if q, n := SplitQualified("S::Contents"); q != "S" || n != "Contents" {
		t.Fatalf("got %q %q", q, n)
	}
	if q, n := SplitQualified("Integer"); q != "" || n != "Integer" {
		t.Fatalf("got %q %q", q, n)
	}
}

func TestNewModuleMetaCollectsImports(t *testing.T) {
	content := `module = "Client"
imports = ["Integer_Theory"]
extends = ["Base"]
aliases = { IT = "Integer_Theory" }

[[facility]]
name = "S"
module = "Stack_Template"
args = ["Integer"]
enhancements = [{ module = "Print_Capability" }]
`
	decl, err := DecodeDecl("client.toml", []byte(content))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	fs := source.NewFileSet()
	id := fs.AddVirtual("client.toml", []byte(content))
	meta := NewModuleMeta(fs, id, decl)

	type imp struct {
		Path string
		Kind ImportKind
	}
	var got []imp
	for _, m := range meta.Imports {
		got = append(got, imp{m.Path, m.Kind})
	}
	want := []imp{
		{"Integer_Theory", ImportRegular},
		{"Base", ImportExtends},
		{"Stack_Template", ImportFacilityModule},
		{"Print_Capability", ImportFacilityModule},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("imports (-want +got):\n%s", diff)
	}
	f := fs.Get(id)
	if name := string(f.Content[meta.Span.Start:meta.Span.End]); name != "Client" {
		t.Fatalf("module span covers %q", name)
	}
	if meta.ContentHash == (Digest{}) {
		t.Fatalf("content hash not computed")
	}
}

func TestIsValidModuleIdent(t *testing.T) {
	for _, ok := range []string{"Stack_Template", "_X", "A1"} {
		if !IsValidModuleIdent(ok) {
			t.Fatalf("%q should be valid", ok)
		}
	}
	for _, bad := range []string{"", "1A", "a-b", "Ω"} {
		if IsValidModuleIdent(bad) {
			t.Fatalf("%q should be invalid", bad)
		}
	}
}

func TestLoadManifest(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, ManifestName, `[project]
name = "stacks"
modules = "src"

[search]
imports = "named"
local_priority = true
`)
	m, err := LoadManifest(path)
	if err != nil {
		t.Fatalf("LoadManifest: %v", err)
	}
	if m.Name != "stacks" || m.ModulesDir != filepath.Join(dir, "src") || m.MaxDiagnostics != 100 {
		t.Fatalf("manifest = %+v", m)
	}
	if m.Search.Imports != "named" || !m.Search.LocalPriority {
		t.Fatalf("search defaults = %+v", m.Search)
	}

	found, ok, err := FindManifest(filepath.Join(dir, "src", "deep"))
	if err != nil || !ok || found != path {
		t.Fatalf("FindManifest = %q %v %v", found, ok, err)
	}

	missing := writeFile(t, t.TempDir(), ManifestName, "[search]\nimports = \"none\"\n")
	if _, err := LoadManifest(missing); !errors.Is(err, ErrProjectSectionMissing) {
		t.Fatalf("expected ErrProjectSectionMissing, got %v", err)
	}
	noName := writeFile(t, t.TempDir(), ManifestName, "[project]\nmodules = \".\"\n")
	if _, err := LoadManifest(noName); !errors.Is(err, ErrProjectNameMissing) {
		t.Fatalf("expected ErrProjectNameMissing, got %v", err)
	}
}

func TestDiscoverAndLoadModules(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, ManifestName, "[project]\nname = \"p\"\n")
	writeFile(t, dir, "stack.toml", stackTOML)
	writeFile(t, dir, "nested/client.yaml", "module: Client\nimports: [Stack_Template]\n")
	writeFile(t, dir, "broken.toml", "module = \n")
	writeFile(t, dir, "anon.yml", "imports: [X]\n")
	writeFile(t, dir, ".hidden/skip.toml", "module = \"Skip\"\n")
	writeFile(t, dir, "README.md", "not a module")

	paths, err := DiscoverModules(dir)
	if err != nil {
		t.Fatalf("discover: %v", err)
	}
	if len(paths) != 4 {
		t.Fatalf("discovered %v", paths)
	}

	fs := source.NewFileSet()
	results, err := LoadModules(context.Background(), fs, paths, 10, 2)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	byName := map[string]LoadResult{}
	codes := map[string]diag.Code{}
	for _, r := range results {
		if r.OK {
			byName[r.Meta.Name] = r
			continue
		}
		if r.Bag.Len() != 1 {
			t.Fatalf("%s: diagnostics %v", r.Path, r.Bag.Items())
		}
		codes[filepath.Base(r.Path)] = r.Bag.Items()[0].Code
	}
	if _, ok := byName["Stack_Template"]; !ok {
		t.Fatalf("Stack_Template not loaded")
	}
	if client, ok := byName["Client"]; !ok || client.Meta.Imports[0].Path != "Stack_Template" {
		t.Fatalf("Client = %+v", client.Meta)
	}
	if codes["broken.toml"] != diag.DeclSyntax || codes["anon.yml"] != diag.DeclMissingName {
		t.Fatalf("failure codes = %v", codes)
	}
}
