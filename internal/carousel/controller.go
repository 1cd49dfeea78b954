package carousel

import "time"

const (
	// TransitionSpeed is how long a slide animation runs.
	TransitionSpeed = 300 * time.Millisecond
	// SettleDelay is the fallback release for the navigation lock when no
	// settle event arrives: the animation time plus a small buffer.
	SettleDelay = 400 * time.Millisecond
	// DebounceDelay defers committing the active index so intermediate
	// positions during a transition never become visible state.
	DebounceDelay = 50 * time.Millisecond
	// SwipeThreshold is the minimum displacement in px for a gesture to
	// count as a swipe.
	SwipeThreshold = 50.0
)

// Clock abstracts time so the transition lock and debounce are testable.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// State is a snapshot of the lightbox for rendering.
type State struct {
	Open          bool   `json:"open"`
	Index         int    `json:"index"`
	SlideCount    int    `json:"slide_count"`
	Transitioning bool   `json:"transitioning"`
	FullHeight    bool   `json:"full_height"`
	EnlargedSrc   string `json:"enlarged_src,omitempty"`
	ScrollLocked  bool   `json:"scroll_locked"`
}

// Controller drives one carousel or lightbox instance. It is not safe for
// concurrent use; callers serialize access per session.
type Controller struct {
	clock  Clock
	slides []Slide

	open        bool
	index       int
	target      int
	commitAt    time.Time
	lockedUntil time.Time

	fullHeight  bool
	enlargedSrc string
}

// New builds a controller over the given slides. A nil clock uses the
// system clock.
func New(slides []Slide, clock Clock) *Controller {
	if clock == nil {
		clock = systemClock{}
	}
	return &Controller{clock: clock, slides: slides}
}

// Slides returns the slide list the controller navigates.
func (c *Controller) Slides() []Slide { return c.slides }

// State commits any due index change and returns the current snapshot.
func (c *Controller) State() State {
	c.commitPending()
	return State{
		Open:          c.open,
		Index:         c.index,
		SlideCount:    len(c.slides),
		Transitioning: c.transitioning(),
		FullHeight:    c.fullHeight,
		EnlargedSrc:   c.enlargedSrc,
		ScrollLocked:  c.open,
	}
}

// Open shows the lightbox at the given slide without navigating through
// intermediate indexes.
func (c *Controller) Open(index int) {
	if len(c.slides) == 0 {
		return
	}
	if index < 0 || index >= len(c.slides) {
		index = 0
	}
	c.open = true
	c.index = index
	c.target = index
	c.commitAt = time.Time{}
	c.lockedUntil = time.Time{}
	c.resetSlideState()
}

// Close hides the lightbox and drops per-slide display state.
func (c *Controller) Close() {
	c.open = false
	c.resetSlideState()
}

// Next advances one slide, wrapping past the end. Dropped while a
// transition is in flight.
func (c *Controller) Next() {
	c.navigate(+1)
}

// Prev retreats one slide, wrapping before the start. Dropped while a
// transition is in flight.
func (c *Controller) Prev() {
	c.navigate(-1)
}

// SelectDot jumps straight to a slide. No-op for the active slide or
// while transitioning.
func (c *Controller) SelectDot(index int) {
	c.commitPending()
	if len(c.slides) == 0 || index < 0 || index >= len(c.slides) {
		return
	}
	if index == c.target || c.transitioning() {
		return
	}
	c.beginTransition(index)
}

// ToggleMedia handles a click on item itemIndex of the active slide.
// Single slides toggle full-height display; on double slides the clicked
// item becomes the only enlarged one, clicking it again restores the
// pair, and clicking the sibling moves the enlargement to it. Clicks on a
// video belong to its playback controls and never reach the toggles.
func (c *Controller) ToggleMedia(itemIndex int) {
	c.commitPending()
	if !c.open || len(c.slides) == 0 {
		return
	}
	slide := c.slides[c.index]
	if itemIndex < 0 || itemIndex >= len(slide.Items) {
		return
	}
	if slide.Items[itemIndex].IsVideo() {
		return
	}
	switch slide.Type {
	case SlideSingle:
		c.fullHeight = !c.fullHeight
	case SlideDouble:
		src := slide.Items[itemIndex].Src
		if c.enlargedSrc == src {
			c.enlargedSrc = ""
		} else {
			c.enlargedSrc = src
		}
	}
}

// Escape handles the Escape key: the first press collapses an enlarged
// item, only then does a press close the lightbox. Returns false when the
// lightbox was already closed.
func (c *Controller) Escape() bool {
	c.commitPending()
	if !c.open {
		return false
	}
	if c.enlargedSrc != "" {
		c.enlargedSrc = ""
		return true
	}
	c.Close()
	return true
}

// Swipe interprets a touch gesture. dx is rightward displacement, dy is
// upward displacement, both in px. An upward swipe dominating the
// horizontal axis dismisses the lightbox; horizontal swipes navigate.
// Returns true when the gesture was consumed.
func (c *Controller) Swipe(dx, dy float64) bool {
	c.commitPending()
	if !c.open {
		return false
	}
	if dy > SwipeThreshold && dy > abs(dx) {
		c.Close()
		return true
	}
	if abs(dx) > SwipeThreshold && abs(dx) > abs(dy) {
		if dx < 0 {
			c.Next()
		} else {
			c.Prev()
		}
		return true
	}
	return false
}

// SettleTransition releases the navigation lock early, for callers that
// observe the animation actually finishing instead of waiting out the
// fallback delay.
func (c *Controller) SettleTransition() {
	c.lockedUntil = time.Time{}
	c.commitPending()
}

func (c *Controller) navigate(step int) {
	c.commitPending()
	if len(c.slides) == 0 || c.transitioning() {
		return
	}
	next := (c.target + step + len(c.slides)) % len(c.slides)
	c.beginTransition(next)
}

func (c *Controller) beginTransition(index int) {
	now := c.clock.Now()
	c.target = index
	c.commitAt = now.Add(DebounceDelay)
	c.lockedUntil = now.Add(SettleDelay)
}

func (c *Controller) commitPending() {
	if c.target == c.index {
		return
	}
	if c.commitAt.IsZero() || c.clock.Now().Before(c.commitAt) {
		return
	}
	c.index = c.target
	c.commitAt = time.Time{}
	if c.open {
		c.resetSlideState()
	}
}

func (c *Controller) transitioning() bool {
	return !c.lockedUntil.IsZero() && c.clock.Now().Before(c.lockedUntil)
}

func (c *Controller) resetSlideState() {
	c.fullHeight = false
	c.enlargedSrc = ""
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
