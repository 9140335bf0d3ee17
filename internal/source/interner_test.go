package source

import "testing"

func TestInternerReusesIDs(t *testing.T) {
	in := NewInterner()
	a := in.Intern("Stack_Template")
	b := in.Intern("Stack_Template")
	if a != b {
		t.Fatalf("expected same ID, got %d and %d", a, b)
	}
	if in.MustLookup(a) != "Stack_Template" {
		t.Fatalf("lookup mismatch")
	}
	if in.Intern("") != NoStringID {
		t.Fatalf("empty string must map to NoStringID")
	}
}

func TestInternerNormalizesToNFC(t *testing.T) {
	in := NewInterner()
	composed := in.Intern("\u00e9")
	decomposed := in.Intern("e\u0301")
	if composed != decomposed {
		t.Fatalf("NFC forms should share an ID: %d vs %d", composed, decomposed)
	}
	if _, ok := in.Find("e\u0301"); !ok {
		t.Fatalf("Find should normalize as well")
	}
}
