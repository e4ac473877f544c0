package tracking

import (
	"math"
	"testing"
	"time"
)

func mustReplay(t *testing.T, trace []TraceEvent) ReadingMetrics {
	t.Helper()
	m, err := Replay(trace)
	if err != nil {
		t.Fatalf("Replay() error: %v", err)
	}
	return m
}

func TestReplayReadingSession(t *testing.T) {
	// A user scrolls to 40% depth, scrolls back up past the threshold once,
	// stays idle long enough for two pause ticks, then travels 300px of
	// mouse distance. 20 seconds elapse in total.
	trace := []TraceEvent{
		{Kind: TraceInteraction, AtMS: 0},
		{Kind: TraceScroll, AtMS: 1000, Scroll: 400, Height: 1100, View: 100},
		{Kind: TraceScroll, AtMS: 2000, Scroll: 340, Height: 1100, View: 100},
		{Kind: TracePointerMove, AtMS: 16000, X: 0, Y: 0},
		{Kind: TracePointerMove, AtMS: 20000, X: 300, Y: 0},
	}

	m := mustReplay(t, trace)

	if m.TimeSpentSeconds != 20 {
		t.Fatalf("time spent = %v, want 20", m.TimeSpentSeconds)
	}
	if m.ActiveTimeSeconds != 20 {
		t.Fatalf("active time = %v, want 20", m.ActiveTimeSeconds)
	}
	if m.ScrollDepthPercent != 40 {
		t.Fatalf("scroll depth = %v, want 40", m.ScrollDepthPercent)
	}
	if m.ScrollBackCount != 1 {
		t.Fatalf("scroll backs = %d, want 1", m.ScrollBackCount)
	}
	// Last interaction at 2s; pause ticks fire at 10s and 15s.
	if m.PauseCount != 2 {
		t.Fatalf("pauses = %d, want 2", m.PauseCount)
	}
	if m.MouseActivityScore != 15 {
		t.Fatalf("mouse activity score = %v, want 15 (300px over 20s)", m.MouseActivityScore)
	}
}

func TestReplayExcludesHiddenTime(t *testing.T) {
	trace := []TraceEvent{
		{Kind: TraceInteraction, AtMS: 3000},
		{Kind: TraceVisibility, AtMS: 5000, Visible: false},
		{Kind: TraceVisibility, AtMS: 15000, Visible: true},
		{Kind: TraceInteraction, AtMS: 16000},
	}

	m := mustReplay(t, trace)
	if m.TimeSpentSeconds != 16 {
		t.Fatalf("time spent = %v, want 16", m.TimeSpentSeconds)
	}
	if m.ActiveTimeSeconds != 6 {
		t.Fatalf("active time = %v, want 6", m.ActiveTimeSeconds)
	}
	// The hidden stretch produces no pauses.
	if m.PauseCount != 0 {
		t.Fatalf("pauses = %d, want 0", m.PauseCount)
	}
}

func TestReplayKeyboardOnlySessionHasNoPauses(t *testing.T) {
	// A reader who interacts every second via keyboard or taps, without
	// moving the mouse, must not accrue pauses: each interaction event
	// resets the idle clock before the 5s tick can fire.
	trace := []TraceEvent{
		{Kind: TraceScroll, AtMS: 0, Scroll: 100, Height: 1100, View: 100},
	}
	for ms := int64(1000); ms <= 20000; ms += 1000 {
		trace = append(trace, TraceEvent{Kind: TraceInteraction, AtMS: ms})
	}

	m := mustReplay(t, trace)
	if m.PauseCount != 0 {
		t.Fatalf("pauses = %d, want 0 for a steadily interacting reader", m.PauseCount)
	}
	if m.TimeSpentSeconds != 20 {
		t.Fatalf("time spent = %v, want 20", m.TimeSpentSeconds)
	}
}

func TestReplayBackgroundTabStart(t *testing.T) {
	// Page loaded in a background tab: hidden from the first instant, shown
	// at 10s, read for 2 more seconds. Only the visible stretch is active.
	trace := []TraceEvent{
		{Kind: TraceVisibility, AtMS: 0, Visible: false},
		{Kind: TraceVisibility, AtMS: 10000, Visible: true},
		{Kind: TraceInteraction, AtMS: 12000},
	}

	m := mustReplay(t, trace)
	if m.TimeSpentSeconds != 12 {
		t.Fatalf("time spent = %v, want 12", m.TimeSpentSeconds)
	}
	if m.ActiveTimeSeconds != 2 {
		t.Fatalf("active time = %v, want 2", m.ActiveTimeSeconds)
	}
	if m.PauseCount != 0 {
		t.Fatalf("pauses = %d, want 0 while hidden", m.PauseCount)
	}
}

func TestReplayEmptyTrace(t *testing.T) {
	m := mustReplay(t, nil)
	if m.TimeSpentSeconds != 0 || m.MouseActivityScore != 0 {
		t.Fatalf("empty trace metrics = %+v, want zero values", m)
	}
	if math.IsNaN(m.MouseActivityScore) {
		t.Fatalf("mouse activity score is NaN at time zero")
	}
}

func TestReplaySortsOutOfOrderEvents(t *testing.T) {
	trace := []TraceEvent{
		{Kind: TraceScroll, AtMS: 2000, Scroll: 340, Height: 1100, View: 100},
		{Kind: TraceScroll, AtMS: 1000, Scroll: 400, Height: 1100, View: 100},
	}
	m := mustReplay(t, trace)
	if m.ScrollBackCount != 1 {
		t.Fatalf("scroll backs with reordered trace = %d, want 1", m.ScrollBackCount)
	}
}

func TestReplayRejectsNegativeTimestamps(t *testing.T) {
	trace := []TraceEvent{{Kind: TraceInteraction, AtMS: -60000}}
	if _, err := Replay(trace); err == nil {
		t.Fatal("expected error for event before tracking start")
	}
}

func TestReplayRejectsOverlongSession(t *testing.T) {
	// One event claiming a huge elapsed time must be refused outright: the
	// pause check runs once per 5s of claimed time, so replaying it would
	// both burn CPU and store a garbage pause count.
	huge := int64(9e15)
	if _, err := Replay([]TraceEvent{{Kind: TraceInteraction, AtMS: huge}}); err == nil {
		t.Fatal("expected error for absurd session length")
	}

	justOver := int64((maxTraceDuration + time.Millisecond) / time.Millisecond)
	if _, err := Replay([]TraceEvent{{Kind: TraceInteraction, AtMS: justOver}}); err == nil {
		t.Fatal("expected error just past the duration limit")
	}

	atLimit := int64(maxTraceDuration / time.Millisecond)
	if _, err := Replay([]TraceEvent{{Kind: TraceInteraction, AtMS: atLimit}}); err != nil {
		t.Fatalf("session at the duration limit rejected: %v", err)
	}
}

func TestReplayRejectsOversizedTrace(t *testing.T) {
	trace := make([]TraceEvent, maxTraceEvents+1)
	for i := range trace {
		trace[i] = TraceEvent{Kind: TraceInteraction, AtMS: int64(i)}
	}
	if _, err := Replay(trace); err == nil {
		t.Fatal("expected error for trace over the event limit")
	}
	if _, err := Replay(trace[:maxTraceEvents]); err != nil {
		t.Fatalf("trace at the event limit rejected: %v", err)
	}
}
