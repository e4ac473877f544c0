package tracking

import (
	"math"
	"sync"
	"time"
)

// Tracker passively measures reading engagement: wall-clock and foreground
// time, maximum scroll depth, scroll-backs, pauses and cursor travel. It owns
// all of its accumulators; other components only see them through Snapshot.
//
// One Tracker is constructed per article view. Handlers may be invoked both
// from the event source and from the periodic pause-check task, so the state
// is guarded by a mutex.
type Tracker struct {
	clock Clock

	mu              sync.Mutex
	startedAt       time.Time
	visible         bool
	visibleSince    time.Time
	activeAccum     time.Duration
	lastInteraction time.Time
	lastScrollTop   float64
	maxDepth        float64
	scrollBacks     int
	pauses          int
	pointer         *Point
	pointerDistance float64

	cancelPauseCheck func()
}

// NewTracker records the start timestamp. The page is assumed to be visible
// at construction time, since the tracker is created by the page itself.
func NewTracker(clock Clock) *Tracker {
	now := clock.Now()
	return &Tracker{
		clock:           clock,
		startedAt:       now,
		visible:         true,
		visibleSince:    now,
		lastInteraction: now,
	}
}

// Start subscribes the tracker to the event source and schedules the
// periodic pause check. Calling Start on an already-started tracker is a
// no-op so the pause check can never be scheduled twice.
func (t *Tracker) Start(src Source) {
	t.mu.Lock()
	if t.cancelPauseCheck != nil {
		t.mu.Unlock()
		return
	}
	t.mu.Unlock()

	src.OnVisibilityChange(t.HandleVisibility)
	src.OnScroll(t.HandleScroll)
	src.OnPointerMove(t.HandlePointerMove)
	src.OnInteraction(t.HandleInteraction)

	t.mu.Lock()
	t.cancelPauseCheck = src.Every(PauseThreshold, t.CheckPause)
	t.mu.Unlock()
}

// Stop cancels the pause-check task. Must be called on page teardown.
func (t *Tracker) Stop() {
	t.mu.Lock()
	cancel := t.cancelPauseCheck
	t.cancelPauseCheck = nil
	t.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

// HandleVisibility folds the elapsed foreground interval into the active-time
// accumulator when the page is hidden, and restarts the interval when it
// becomes visible again. Active time therefore only accrues while the page is
// the foreground tab.
func (t *Tracker) HandleVisibility(visible bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.clock.Now()
	switch {
	case !visible && t.visible:
		t.activeAccum += now.Sub(t.visibleSince)
		t.visible = false
	case visible && !t.visible:
		t.visible = true
		t.visibleSince = now
	}
}

// HandleScroll updates the running maximum scroll depth and detects
// scroll-back events. An upward movement of more than ScrollBackThreshold
// pixels relative to the last recorded position counts as one scroll-back;
// forward scrolls never reset the counter.
func (t *Tracker) HandleScroll(ev ScrollEvent) {
	t.mu.Lock()
	defer t.mu.Unlock()

	denom := ev.ScrollHeight - ev.ViewportHeight
	depth := 0.0
	if denom > 0 {
		depth = ev.Top / denom * 100
		if depth < 0 {
			depth = 0
		}
		if depth > 100 {
			depth = 100
		}
	}
	if depth > t.maxDepth {
		t.maxDepth = depth
	}

	if t.lastScrollTop-ev.Top > ScrollBackThreshold {
		t.scrollBacks++
	}
	t.lastScrollTop = ev.Top
}

// HandlePointerMove accumulates the Euclidean distance between consecutive
// cursor positions.
func (t *Tracker) HandlePointerMove(p Point) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.pointer != nil {
		t.pointerDistance += math.Hypot(p.X-t.pointer.X, p.Y-t.pointer.Y)
	}
	t.pointer = &p
}

// HandleInteraction resets the pause clock. It is shared by all interaction
// event types.
func (t *Tracker) HandleInteraction() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.lastInteraction = t.clock.Now()
}

// CheckPause runs on every pause-check tick. If the page is visible and no
// interaction happened for PauseThreshold or longer, it counts one pause and
// resets the idle clock so the same stretch is not counted again on the next
// tick. Hidden time is never counted as a pause; the visibility handler
// already accounts for it separately.
func (t *Tracker) CheckPause() {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.clock.Now()
	if t.visible && now.Sub(t.lastInteraction) >= PauseThreshold {
		t.pauses++
		t.lastInteraction = now
	}
}

// Snapshot returns the current metrics, folding in the in-progress foreground
// interval so the reading is accurate between visibility changes.
func (t *Tracker) Snapshot() ReadingMetrics {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.clock.Now()
	total := now.Sub(t.startedAt)
	active := t.activeAccum
	if t.visible {
		active += now.Sub(t.visibleSince)
	}
	if active > total {
		active = total
	}

	score := 0.0
	if secs := total.Seconds(); secs > 0 {
		score = math.Round(t.pointerDistance/secs*100) / 100
	}

	return ReadingMetrics{
		TimeSpentSeconds:   total.Seconds(),
		ActiveTimeSeconds:  active.Seconds(),
		ScrollDepthPercent: t.maxDepth,
		ScrollBackCount:    t.scrollBacks,
		PauseCount:         t.pauses,
		MouseActivityScore: score,
	}
}
