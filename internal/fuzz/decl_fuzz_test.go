package fuzztests

import (
	"testing"

	"resolve/internal/project"
	"resolve/internal/source"
)

func fuzzDecode(f *testing.F, name string) {
	f.Fuzz(func(t *testing.T, input []byte) {
		input = clampInput(input)
		decl, err := project.DecodeDecl(name, input)
		if err != nil {
			return
		}
		fs := source.NewFileSet()
		id := fs.AddVirtual(name, input)
		meta := project.NewModuleMeta(fs, id, decl)
		if meta.Name != decl.Module {
			t.Fatalf("meta name %q, decl module %q", meta.Name, decl.Module)
		}
		for _, m := range decl.Math {
			if m.Cls != nil {
				_ = m.Cls.Shape()
			}
		}
	})
}

func FuzzDecodeTOML(f *testing.F) {
	addCorpusSeeds(f, ".toml")
	fuzzDecode(f, "fuzz.toml")
}

func FuzzDecodeYAML(f *testing.F) {
	addCorpusSeeds(f, ".yaml")
	fuzzDecode(f, "fuzz.yaml")
}
