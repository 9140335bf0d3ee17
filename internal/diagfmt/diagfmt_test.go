package diagfmt

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"resolve/internal/diag"
	"resolve/internal/source"
)

func fixture() (*source.FileSet, *diag.Bag) {
	fs := source.NewFileSet()
	content := []byte("module = \"Client\"\ncls = \"ℤ → B\"\n")
	file := fs.AddVirtual("/work/proj/client.toml", content)

	bag := diag.NewBag(10)
	arrow := strings.Index(string(content), "ℤ → B")
	start := uint32(arrow)              //nolint:gosec // small test input
	end := start + uint32(len("ℤ → B")) //nolint:gosec // small test input
	d := diag.NewError(diag.SemaTypeMismatch, source.Span{File: file, Start: start, End: end}, "ℤ → B is not a subtype of B")
	d = d.WithNote(source.Span{File: file, Start: 10, End: 16}, "in module Client")
	bag.Add(d)
	bag.Add(diag.NewError(diag.ProjImportCycle, source.Span{}, "cycle"))
	return fs, bag
}

func TestPrettyUnderlinesInDisplayCells(t *testing.T) {
	fs, bag := fixture()
	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{PathMode: PathModeAuto, BaseDir: "/work/proj", ShowNotes: true})
	out := buf.String()

	if !strings.Contains(out, "client.toml:2:8: ERROR SEM3015: ℤ → B is not a subtype of B") {
		t.Fatalf("missing header:\n%s", out)
	}
	if !strings.Contains(out, "|        ^~~~~\n") {
		t.Fatalf("caret should span 5 cells after 7 columns:\n%s", out)
	}
	if !strings.Contains(out, "note: client.toml:1:11: in module Client") {
		t.Fatalf("missing note:\n%s", out)
	}
	if !strings.Contains(out, "<project>: ERROR PRJ5005: cycle") {
		t.Fatalf("location-less diagnostic:\n%s", out)
	}
	if strings.Contains(out, "\x1b[") {
		t.Fatalf("colour escapes with Color off:\n%q", out)
	}
}

func TestPrettyColor(t *testing.T) {
	fs, bag := fixture()
	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{Color: true})
	if !strings.Contains(buf.String(), "\x1b[") {
		t.Fatalf("expected colour escapes:\n%q", buf.String())
	}
}

func TestJSON(t *testing.T) {
	fs, bag := fixture()
	var buf bytes.Buffer
	if err := JSON(&buf, bag, fs, JSONOpts{IncludePositions: true, PathMode: PathModeBasename, IncludeNotes: true, Max: 1}); err != nil {
		t.Fatalf("JSON: %v", err)
	}
	var out DiagnosticsOutput
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("invalid JSON %v:\n%s", err, buf.String())
	}
	if out.Count != 1 {
		t.Fatalf("count = %d, want 1 after Max", out.Count)
	}
	d := out.Diagnostics[0]
	if d.Code != "SEM3015" || d.Location.File != "client.toml" || d.Location.StartLine != 2 || len(d.Notes) != 1 {
		t.Fatalf("diagnostic = %+v", d)
	}
}

func TestFormatPath(t *testing.T) {
	tests := []struct {
		mode PathMode
		path string
		want string
	}{
		{PathModeBasename, "/a/b/c.toml", "c.toml"},
		{PathModeRelative, "/a/b/c.toml", "b/c.toml"},
		{PathModeAuto, "/a/b/c.toml", "b/c.toml"},
		{PathModeAuto, "/elsewhere/c.toml", "/elsewhere/c.toml"},
	}
	for _, tt := range tests {
		if got := FormatPath(tt.path, tt.mode, "/a"); got != tt.want {
			t.Fatalf("FormatPath(%q, %d) = %q, want %q", tt.path, tt.mode, got, tt.want)
		}
	}
	if _, ok := ParsePathMode("bogus"); ok {
		t.Fatalf("bogus path mode accepted")
	}
}
