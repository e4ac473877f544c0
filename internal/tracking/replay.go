package tracking

import (
	"fmt"
	"sort"
	"time"
)

// Trace event kinds. Keyboard, click and touch events are all recorded as
// plain interactions; only the kinds below carry extra data.
const (
	TraceVisibility  = "visibility"
	TraceScroll      = "scroll"
	TracePointerMove = "pointermove"
	TraceInteraction = "interaction"
)

// Limits on an acceptable trace. Timestamps come from the client, so they
// bound both the stored metrics and the replay work itself: the pause check
// runs once per threshold interval of claimed reading time.
const (
	maxTraceEvents   = 10000
	maxTraceDuration = 6 * time.Hour
)

// TraceEvent is one recorded browser event, timestamped as milliseconds
// since tracking started.
type TraceEvent struct {
	Kind    string  `json:"kind"`
	AtMS    int64   `json:"at_ms"`
	Visible bool    `json:"visible,omitempty"`
	Scroll  float64 `json:"scroll_top,omitempty"`
	Height  float64 `json:"scroll_height,omitempty"`
	View    float64 `json:"viewport_height,omitempty"`
	X       float64 `json:"x,omitempty"`
	Y       float64 `json:"y,omitempty"`
}

type manualClock struct {
	t time.Time
}

func (c *manualClock) Now() time.Time { return c.t }

// Replay feeds a recorded event trace through a fresh tracker and returns
// the metrics as of the final event. The periodic pause check fires at every
// PauseThreshold boundary between events, exactly as the live task would, so
// replayed metrics match what the page itself measured.
//
// The trace is validated first: timestamps before tracking start, a session
// longer than maxTraceDuration or more than maxTraceEvents events are
// rejected rather than replayed.
func Replay(trace []TraceEvent) (ReadingMetrics, error) {
	if len(trace) > maxTraceEvents {
		return ReadingMetrics{}, fmt.Errorf("trace has %d events, limit is %d", len(trace), maxTraceEvents)
	}
	for _, ev := range trace {
		if ev.AtMS < 0 {
			return ReadingMetrics{}, fmt.Errorf("trace event at %dms predates tracking start", ev.AtMS)
		}
		if time.Duration(ev.AtMS)*time.Millisecond > maxTraceDuration {
			return ReadingMetrics{}, fmt.Errorf("trace spans more than %v", maxTraceDuration)
		}
	}

	sorted := make([]TraceEvent, len(trace))
	copy(sorted, trace)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].AtMS < sorted[j].AtMS })

	base := time.Unix(0, 0)
	clock := &manualClock{t: base}
	tracker := NewTracker(clock)

	nextTick := PauseThreshold
	advance := func(to time.Duration) {
		for nextTick <= to {
			clock.t = base.Add(nextTick)
			tracker.CheckPause()
			nextTick += PauseThreshold
		}
		clock.t = base.Add(to)
	}

	for _, ev := range sorted {
		advance(time.Duration(ev.AtMS) * time.Millisecond)

		switch ev.Kind {
		case TraceVisibility:
			tracker.HandleVisibility(ev.Visible)
		case TraceScroll:
			tracker.HandleScroll(ScrollEvent{Top: ev.Scroll, ScrollHeight: ev.Height, ViewportHeight: ev.View})
			tracker.HandleInteraction()
		case TracePointerMove:
			tracker.HandlePointerMove(Point{X: ev.X, Y: ev.Y})
			tracker.HandleInteraction()
		case TraceInteraction:
			tracker.HandleInteraction()
		}
	}
	return tracker.Snapshot(), nil
}
