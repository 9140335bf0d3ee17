package ui

import (
	"math"
	"strings"
	"testing"

	"resolve/internal/driver"
)

func TestProgressModelTracksEvents(t *testing.T) {
	events := make(chan driver.Event)
	m := NewProgressModel("check demo", events).(*progressModel)

	for _, ev := range []driver.Event{
		{File: "/p/a.toml", Stage: driver.StageLoad, Status: driver.StatusQueued},
		{File: "/p/b.toml", Stage: driver.StageLoad, Status: driver.StatusQueued},
		{File: "/p/a.toml", Module: "A", Stage: driver.StageLoad, Status: driver.StatusDone},
		{File: "/p/b.toml", Stage: driver.StageLoad, Status: driver.StatusError},
		{File: "/p/a.toml", Module: "A", Stage: driver.StageAnalyze, Status: driver.StatusWorking},
	} {
		m.Update(eventMsg(ev))
	}
	if len(m.items) != 2 {
		t.Fatalf("items = %d, want 2", len(m.items))
	}
	if got := m.fraction(); math.Abs(got-0.8) > 1e-9 {
		t.Fatalf("fraction = %v, want 0.8", got)
	}
	view := m.View()
	for _, want := range []string{"analyzing A (a.toml)", "error b.toml"} {
		if !strings.Contains(view, want) {
			t.Fatalf("view missing %q:\n%s", want, view)
		}
	}

	m.Update(doneMsg{})
	if !m.done || !strings.Contains(m.View(), "done: check demo") {
		t.Fatalf("model not finished:\n%s", m.View())
	}
}

func TestTruncate(t *testing.T) {
	cases := []struct {
		in    string
		width int
		want  string
	}{
		{"short", 10, "short"},
		{"a_long_module_name", 10, "a_long_..."},
		{"abcdef", 3, "abc"},
	}
	for _, tc := range cases {
		if got := truncate(tc.in, tc.width); got != tc.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tc.in, tc.width, got, tc.want)
		}
	}
}
