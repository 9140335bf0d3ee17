package version

import (
	"strings"
	"testing"
)

func TestColoredPlain(t *testing.T) {
	orig := Version
	t.Cleanup(func() { Version = orig })

	Version = "1.2.3-rc1"
	if got := Colored(false); got != "1.2.3-rc1" {
		t.Fatalf("Colored(false) = %q", got)
	}
	Version = "  "
	if got := Colored(false); got != "dev" {
		t.Fatalf("blank version rendered %q", got)
	}
}

func TestColoredEscapes(t *testing.T) {
	orig := Version
	t.Cleanup(func() { Version = orig })

	Version = "1.2.3"
	got := Colored(true)
	if !strings.Contains(got, "\x1b[") || !strings.HasSuffix(got, "\x1b[0m") {
		t.Fatalf("Colored(true) = %q", got)
	}
}
