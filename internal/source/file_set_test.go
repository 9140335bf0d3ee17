package source

import "testing"

func TestFileSetResolveLineCol(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("mod.toml", []byte("module = \"M\"\nimports = [\"N\"]\n"))

	span := fs.Locate(id, `"N"`)
	start, end := fs.Resolve(span)
	if start.Line != 2 || start.Col != 12 {
		t.Fatalf("unexpected start %+v", start)
	}
	if end.Line != 2 || end.Col != 15 {
		t.Fatalf("unexpected end %+v", end)
	}
	if got := fs.Get(id).Line(2); got != `imports = ["N"]` {
		t.Fatalf("unexpected line %q", got)
	}
}

func TestFileSetNormalizesCRLFAndBOM(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddNormalized("a.toml", []byte("\xEF\xBB\xBFa\r\nb\r\n"))
	f := fs.Get(id)
	if string(f.Content) != "a\nb\n" {
		t.Fatalf("content not normalized: %q", f.Content)
	}
	if f.Flags&FileHadBOM == 0 || f.Flags&FileNormalizedCRLF == 0 {
		t.Fatalf("flags not recorded: %v", f.Flags)
	}
}

func TestZeroSpanHasNoFile(t *testing.T) {
	fs := NewFileSet()
	if fs.Get(Span{}.File) != nil {
		t.Fatalf("zero span must not resolve to a file")
	}
}

func TestFileSetLineSpan(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("mod.toml", []byte("a = 1\nbb = 2\n"))
	span := fs.LineSpan(id, 2)
	if got := string(fs.Get(id).Content[span.Start:span.End]); got != "bb = 2" {
		t.Fatalf("line 2 span covers %q", got)
	}
	if got := fs.LineSpan(id, 0); got != (Span{}) {
		t.Fatalf("line 0 must yield an empty span, got %v", got)
	}
}
