package symbols

import (
	"bytes"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSnapshotRoundTrip(t *testing.T) {
	table := newTestTable()
	buildModule(t, table, "N", defineIn(t, table, "f"))
	buildModule(t, table, "M", func(m ModuleScopeBuilder) {
		m.AddImport("N")
		m.AddAlias(table.Intern("Short"), "N")
		defineIn(t, table, "g")(m)
	})

	snap := table.Snapshot()
	if len(snap.Modules) != 2 || snap.Modules[1].Name != "M" {
		t.Fatalf("modules = %+v", snap.Modules)
	}
	if got := snap.Modules[1].Symbols[0]; got.Name != "g" || got.Cls != "B" {
		t.Fatalf("symbol snapshot = %+v", got)
	}

	var buf bytes.Buffer
	if err := WriteSnapshot(&buf, snap); err != nil {
		t.Fatalf("write: %v", err)
	}
	back, err := ReadSnapshot(&buf)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if diff := cmp.Diff(snap, back); diff != "" {
		t.Fatalf("snapshot changed (-want +got):\n%s", diff)
	}
}
