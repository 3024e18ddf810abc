package trace

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestLevelFiltersScopes(t *testing.T) {
	cases := []struct {
		level Level
		scope Scope
		want  bool
	}{
		{LevelOff, ScopeDriver, false},
		{LevelError, ScopePass, true},
		{LevelError, ScopeFile, false},
		{LevelPhase, ScopePass, true},
		{LevelPhase, ScopeFile, false},
		{LevelDetail, ScopeFile, true},
		{LevelDetail, ScopeStmt, false},
		{LevelDebug, ScopeStmt, true},
	}
	for _, tc := range cases {
		if got := tc.level.ShouldEmit(tc.scope); got != tc.want {
			t.Errorf("%s.ShouldEmit(%s) = %v, want %v", tc.level, tc.scope, got, tc.want)
		}
	}
}

func TestParseFlags(t *testing.T) {
	if l, err := ParseLevel("DETAIL"); err != nil || l != LevelDetail {
		t.Errorf("ParseLevel = %v, %v", l, err)
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Error("expected error for unknown level")
	}
	if m, err := ParseMode("both"); err != nil || m != ModeBoth {
		t.Errorf("ParseMode = %v, %v", m, err)
	}
	if f, err := ParseFormat("chrome"); err != nil || f != FormatChrome {
		t.Errorf("ParseFormat = %v, %v", f, err)
	}
	for path, want := range map[string]Format{
		"-":               FormatText,
		"t.ndjson":        FormatNDJSON,
		"out.chrome.json": FormatChrome,
		"trace.log":       FormatText,
	} {
		if got := DetectFormat(path); got != want {
			t.Errorf("DetectFormat(%q) = %s, want %s", path, got, want)
		}
	}
}

func TestStreamTextSpans(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelPhase, FormatText)
	root := Begin(tr, ScopeDriver, "build", 0)
	pass := Begin(tr, ScopePass, "parse", root.ID())
	pass.WithExtra("stmts", "3").End("ok")
	Begin(tr, ScopeFile, "file:main.em", root.ID()).End("")
	root.End("")
	if err := tr.Close(); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 4 {
		t.Fatalf("want 4 lines (file scope filtered), got:\n%s", buf.String())
	}
	if !strings.Contains(lines[0], "→ build") {
		t.Errorf("line 0 = %q", lines[0])
	}
	if !strings.Contains(lines[2], "  ← parse (ok) {stmts=3}") {
		t.Errorf("line 2 = %q", lines[2])
	}
}

func TestStreamChromeIsValidJSON(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelDebug, FormatChrome)
	s := Begin(tr, ScopePass, "gen", 0)
	Point(tr, ScopeStmt, "Exit", s.ID(), "")
	s.End("")
	if err := tr.Close(); err != nil {
		t.Fatal(err)
	}
	var doc struct {
		TraceEvents []map[string]any `json:"traceEvents"`
	}
	if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("invalid chrome json: %v\n%s", err, buf.String())
	}
	if len(doc.TraceEvents) != 3 {
		t.Fatalf("events = %d", len(doc.TraceEvents))
	}
	phases := []string{"B", "i", "E"}
	for i, ev := range doc.TraceEvents {
		if ev["ph"] != phases[i] {
			t.Errorf("event %d ph = %v, want %s", i, ev["ph"], phases[i])
		}
	}
}

func TestRingWrapsAndDumps(t *testing.T) {
	r := NewRingTracer(3, LevelDebug)
	for _, name := range []string{"a", "b", "c", "d", "e"} {
		Point(r, ScopeStmt, name, 0, "")
	}
	snap := r.Snapshot()
	if len(snap) != 3 {
		t.Fatalf("snapshot len = %d", len(snap))
	}
	for i, want := range []string{"c", "d", "e"} {
		if snap[i].Name != want {
			t.Errorf("snap[%d] = %s, want %s", i, snap[i].Name, want)
		}
	}
	var buf bytes.Buffer
	if err := r.Dump(&buf, FormatNDJSON); err != nil {
		t.Fatal(err)
	}
	if n := strings.Count(buf.String(), "\n"); n != 3 {
		t.Errorf("dump lines = %d", n)
	}
}

func TestMultiFansOutCopies(t *testing.T) {
	var buf bytes.Buffer
	stream := NewStreamTracer(&buf, LevelPhase, FormatNDJSON)
	ring := NewRingTracer(8, LevelPhase)
	m := NewMultiTracer(LevelPhase, stream, ring)
	Begin(m, ScopePass, "lex", 0).End("")
	if got, ok := FindRing(m); !ok || got != ring {
		t.Fatal("FindRing did not find the ring")
	}
	if n := len(ring.Snapshot()); n != 2 {
		t.Errorf("ring got %d events", n)
	}
	if n := strings.Count(buf.String(), "\n"); n != 2 {
		t.Errorf("stream got %d events", n)
	}
}

func TestNewOffIsNop(t *testing.T) {
	tr, err := New(Config{Level: LevelOff})
	if err != nil {
		t.Fatal(err)
	}
	if tr.Enabled() {
		t.Error("LevelOff tracer is enabled")
	}
	s := Begin(tr, ScopePass, "x", 7)
	if s.ID() != 7 {
		t.Errorf("inert span ID = %d, want parent 7", s.ID())
	}
	if d := s.End(""); d < 0 {
		t.Errorf("negative duration %v", d)
	}
}

func TestContextPropagation(t *testing.T) {
	ctx := context.Background()
	if FromContext(ctx) != Nop {
		t.Error("empty context should give Nop")
	}
	r := NewRingTracer(1, LevelPhase)
	ctx = WithParent(WithTracer(ctx, r), 42)
	if FromContext(ctx) != Tracer(r) {
		t.Error("tracer not propagated")
	}
	if ParentSpan(ctx) != 42 {
		t.Errorf("ParentSpan = %d", ParentSpan(ctx))
	}
}

func TestHeartbeatStops(t *testing.T) {
	r := NewRingTracer(64, LevelPhase)
	h := StartHeartbeat(r, time.Millisecond)
	time.Sleep(10 * time.Millisecond)
	h.Stop()
	h.Stop()
	n := len(r.Snapshot())
	if n == 0 {
		t.Fatal("no heartbeats recorded")
	}
	time.Sleep(5 * time.Millisecond)
	if len(r.Snapshot()) != n {
		t.Error("heartbeat kept running after Stop")
	}
	if StartHeartbeat(Nop, time.Millisecond) != nil {
		t.Error("heartbeat started on disabled tracer")
	}
}
