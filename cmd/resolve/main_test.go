package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"resolve/internal/driver"
	"resolve/internal/symbols"
)

func writeProject(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"resolve.toml": "[project]\nname = \"demo\"\n\n[search]\nimports = \"recursive\"\n",
		"theory.toml": `module = "Theory"

[[math]]
name = "Z"
denotes = { of = { name = "SSet" } }

[[math]]
name = "succ"
cls = { params = [{ tag = "n", cls = { name = "Z" } }], result = { name = "Z" } }
`,
		"client.toml": "module = \"Client\"\nimports = [\"Theory\"]\n",
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	return dir
}

// resetFlags restores every flag to its default; cobra keeps values
// between Execute calls.
func resetFlags(t *testing.T, cmd *cobra.Command) {
	t.Helper()
	reset := func(f *pflag.Flag) {
		if err := f.Value.Set(f.DefValue); err != nil {
			t.Fatalf("reset --%s: %v", f.Name, err)
		}
		f.Changed = false
	}
	cmd.PersistentFlags().VisitAll(reset)
	cmd.Flags().VisitAll(reset)
	for _, sub := range cmd.Commands() {
		resetFlags(t, sub)
	}
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(t, rootCmd)
	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(append(args, "--color", "off"))
	err := rootCmd.Execute()
	return out.String(), err
}

func TestCheckCommand(t *testing.T) {
	dir := writeProject(t)
	if _, err := execute(t, "check", dir, "--format", "pretty"); err != nil {
		t.Fatalf("check: %v", err)
	}

	bad := filepath.Join(dir, "bad.toml")
	if err := os.WriteFile(bad, []byte("module = \"Bad\"\n[[math]]\nname = \"x\"\ncls = { name = \"Nope\" }\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	out, err := execute(t, "check", dir, "--format", "json")
	if !errors.Is(err, errDiagnostics) {
		t.Fatalf("expected errDiagnostics, got %v", err)
	}
	if !strings.Contains(out, `"code": "SEM3005"`) || !strings.Contains(out, `"project": "demo"`) || !strings.Contains(out, `"hash": "`) {
		t.Fatalf("json output:\n%s", out)
	}
}

func TestQueryCommand(t *testing.T) {
	dir := writeProject(t)
	out, err := execute(t, "query", dir, "--from", "Client", "--name", "succ")
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 2 || !strings.Contains(lines[1], "Theory") || !strings.Contains(lines[1], "Z → Z") {
		t.Fatalf("query output:\n%s", out)
	}

	if _, err := execute(t, "query", dir, "--from", "Client", "--name", "succ", "--imports", "none"); err == nil {
		t.Fatalf("expected no match with imports none")
	}
}

func TestDumpCommand(t *testing.T) {
	dir := writeProject(t)
	snapshot := filepath.Join(t.TempDir(), "out.mp")
	if _, err := execute(t, "dump", dir, "--out", snapshot); err != nil {
		t.Fatalf("dump: %v", err)
	}
	f, err := os.Open(snapshot)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()
	snap, err := symbols.ReadSnapshot(f)
	if err != nil {
		t.Fatalf("read snapshot: %v", err)
	}
	if len(snap.Modules) != 2 || snap.Modules[0].Name != "Theory" {
		t.Fatalf("snapshot modules = %+v", snap.Modules)
	}
}

func TestRenderMatchesAligns(t *testing.T) {
	var buf bytes.Buffer
	renderMatches(&buf, []driver.Match{
		{Module: "Theory", SymbolSnapshot: symbols.SymbolSnapshot{Name: "succ", Kind: "math", Cls: "Z → Z"}},
		{Module: "GLOBAL", SymbolSnapshot: symbols.SymbolSnapshot{Name: "B", Kind: "math type", Cls: "SSet", TypeValue: "B", Flags: []string{"builtin"}}},
	}, false)
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("output:\n%s", buf.String())
	}
	col := strings.Index(lines[0], "NAME")
	if strings.Index(lines[1], "succ") != col || strings.Index(lines[2], "B ") != col {
		t.Fatalf("columns not aligned:\n%s", buf.String())
	}
	if !strings.Contains(lines[2], "SSet ≜ B") {
		t.Fatalf("type value missing:\n%s", buf.String())
	}
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version", "--format", "json")
	if err != nil || !strings.Contains(out, `"tool": "resolve"`) {
		t.Fatalf("version: %v\n%s", err, out)
	}
}

func TestCheckExampleProject(t *testing.T) {
	dir := filepath.Join("..", "..", "testdata", "stack")
	if _, err := execute(t, "check", dir, "--format", "pretty"); err != nil {
		t.Fatalf("check example: %v", err)
	}
	out, err := execute(t, "query", dir, "--from", "Client", "--name", "S::Contents")
	if err != nil {
		t.Fatalf("query example: %v", err)
	}
	if !strings.Contains(out, "℘(Z)") {
		t.Fatalf("query output:\n%s", out)
	}
}
