package observ

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestTimerPhases(t *testing.T) {
	tm := NewTimer()
	lex := tm.Begin("lex")
	time.Sleep(time.Millisecond)
	tm.End(lex, "tokens=4")
	tm.End(lex, "again")
	tm.End(42, "ignored")

	r := tm.Report()
	if len(r.Phases) != 1 {
		t.Fatalf("phases = %d", len(r.Phases))
	}
	if r.Phases[0].Note != "tokens=4" {
		t.Errorf("second End overwrote note: %q", r.Phases[0].Note)
	}
	if r.Phases[0].DurationMS <= 0 || r.TotalMS != r.Phases[0].DurationMS {
		t.Errorf("durations %+v", r)
	}
}

func TestMeasureMarksFailure(t *testing.T) {
	tm := NewTimer()
	boom := errors.New("boom")
	if err := tm.Measure("check", func() (string, error) { return "", boom }); !errors.Is(err, boom) {
		t.Fatalf("err = %v", err)
	}
	if got := tm.Report().Phases[0].Note; got != "failed" {
		t.Errorf("note = %q", got)
	}
}

func TestNilTimerIsInert(t *testing.T) {
	var tm *Timer
	idx := tm.Begin("lex")
	tm.End(idx, "")
	if idx != -1 || len(tm.Report().Phases) != 0 {
		t.Error("nil timer recorded something")
	}
}

func TestSummary(t *testing.T) {
	tm := NewTimer()
	tm.End(tm.Begin("parse"), "stmts=2")
	s := tm.Summary()
	if !strings.HasPrefix(s, "timings:\n") || !strings.Contains(s, "parse") ||
		!strings.Contains(s, "// stmts=2") || !strings.Contains(s, "total") {
		t.Errorf("summary:\n%s", s)
	}
}
