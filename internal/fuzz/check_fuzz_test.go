package fuzztests

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"resolve/internal/driver"
	"resolve/internal/project"
)

// checkTimeout bounds one analysis; exceeding it indicates a loop in
// resolution.
const checkTimeout = 5 * time.Second

// FuzzCheckModule analyses the input as a client of the integer theory of
// the stack example project. Analysis may report anything but must neither
// panic nor hang.
func FuzzCheckModule(f *testing.F) {
	addCorpusSeeds(f, ".toml")
	f.Add([]byte("module = \"F\"\nimports = [\"Integer_Theory\"]\n[[math]]\nname = \"t\"\napply = { fn = \"plus\", args = [{ name = \"N\" }] }\n"))
	f.Add([]byte("module = \"F\"\nextends = [\"F\"]\n"))

	theory, err := os.ReadFile(filepath.Join("..", "..", "testdata", "stack", "modules", "theory", "integer.toml"))
	if err != nil {
		f.Skipf("stack example missing: %v", err)
	}

	f.Fuzz(func(t *testing.T, input []byte) {
		input = clampInput(input)
		dir := t.TempDir()
		files := map[string][]byte{
			project.ManifestName: []byte("[project]\nname = \"fuzz\"\n"),
			"integer.toml":       theory,
			"fuzz.toml":          input,
		}
		for name, content := range files {
			if err := os.WriteFile(filepath.Join(dir, name), content, 0o600); err != nil {
				t.Fatalf("write %s: %v", name, err)
			}
		}
		manifest, err := project.LoadManifest(filepath.Join(dir, project.ManifestName))
		if err != nil {
			t.Fatalf("manifest: %v", err)
		}

		ctx, cancel := context.WithTimeout(context.Background(), checkTimeout)
		defer cancel()
		done := make(chan error, 1)
		go func() {
			_, err := driver.CheckManifest(ctx, manifest, driver.Options{Jobs: 1})
			done <- err
		}()
		select {
		case err := <-done:
			if err != nil && ctx.Err() == nil {
				t.Fatalf("check failed: %v\ninput: %q", err, truncateForLog(input, 200))
			}
		case <-ctx.Done():
			t.Fatalf("check hang detected after %v\ninput (%d bytes): %q",
				checkTimeout, len(input), truncateForLog(input, 200))
		}
	})
}
