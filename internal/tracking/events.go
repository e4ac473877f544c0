package tracking

import "time"

const (
	// PauseThreshold is both the idle duration that counts as a pause and
	// the period of the pause-check task.
	PauseThreshold = 5 * time.Second

	// ScrollBackThreshold is the upward distance in pixels that counts as
	// a scroll-back event.
	ScrollBackThreshold = 50.0
)

// Clock supplies the current time. Production code uses WallClock; tests
// drive the tracker with a manual clock.
type Clock interface {
	Now() time.Time
}

// WallClock is the real-time Clock.
type WallClock struct{}

func (WallClock) Now() time.Time { return time.Now() }

// Point is a cursor position in page coordinates.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// ScrollEvent carries the scroll geometry needed to compute reading depth.
type ScrollEvent struct {
	Top            float64 `json:"top"`
	ScrollHeight   float64 `json:"scroll_height"`
	ViewportHeight float64 `json:"viewport_height"`
}

// Source is the capability interface the page environment implements. The
// tracker subscribes to it instead of reaching into a browser, so a test
// harness can drive it with synthetic event sequences.
type Source interface {
	// OnVisibilityChange fires when the page moves between the foreground
	// and a hidden tab.
	OnVisibilityChange(fn func(visible bool))

	// OnScroll fires on every scroll with the current geometry.
	OnScroll(fn func(ev ScrollEvent))

	// OnPointerMove fires on cursor movement.
	OnPointerMove(fn func(p Point))

	// OnInteraction fires for the broad interaction set: pointer movement,
	// key presses, clicks, scrolls and touches. Any of them resets the
	// pause clock.
	OnInteraction(fn func())

	// Every schedules fn at the given period and returns a cancel func.
	Every(period time.Duration, fn func()) (cancel func())
}
