package observ

import (
	"strings"
	"testing"
)

func TestTimerPhases(t *testing.T) {
	timer := NewTimer()
	done := timer.Phase("load")
	done("3 files")
	timer.Phase("analyze")("")

	report := timer.Report()
	if len(report.Phases) != 2 || report.Phases[0].Note != "3 files" {
		t.Fatalf("report = %+v", report)
	}
	if s := timer.Summary(); !strings.Contains(s, "load") || !strings.Contains(s, "total") {
		t.Fatalf("summary = %q", s)
	}
}

func TestNilTimerIsInert(t *testing.T) {
	var timer *Timer
	timer.Phase("load")("ignored")
	if got := timer.Report(); len(got.Phases) != 0 {
		t.Fatalf("nil timer reported %+v", got)
	}
}
