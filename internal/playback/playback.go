package playback

import (
	"math"
	"time"
)

// State is the engine's transport state.
type State int

const (
	Stopped State = iota
	Playing
	Paused
)

func (s State) String() string {
	switch s {
	case Stopped:
		return "stopped"
	case Playing:
		return "playing"
	case Paused:
		return "paused"
	}
	return "unknown"
}

// DefaultBaseTick is the wall-clock time one point occupies at 1x speed.
// It matches the interval activities are resampled to, so 1x playback
// runs in real time.
const DefaultBaseTick = 5 * time.Second

// Speed multipliers cycle through these steps.
var speedSteps = []float64{0.5, 1, 2, 4, 8, 16}

// Engine drives deterministic playback over a fixed-length point
// sequence. It never sleeps or spawns goroutines; the caller owns the
// clock and calls Advance with the current time, which makes every
// transition unit-testable with a fake clock.
type Engine struct {
	length   int
	baseTick time.Duration

	state State
	index int
	speed float64

	// lastAdvance is the reference instant the next step is measured
	// from. Seeks and transport changes reset it so a stale reference
	// can never cause a burst of catch-up steps.
	lastAdvance time.Time

	highlightStart int
	highlightEnd   int
	highlighted    bool
}

// NewEngine returns a stopped engine over a sequence of length points.
func NewEngine(length int) *Engine {
	return &Engine{
		length:   length,
		baseTick: DefaultBaseTick,
		speed:    1,
	}
}

// SetBaseTick overrides the per-point duration. Non-positive values are
// ignored.
func (e *Engine) SetBaseTick(d time.Duration) {
	if d > 0 {
		e.baseTick = d
	}
}

func (e *Engine) State() State   { return e.state }
func (e *Engine) Index() int     { return e.index }
func (e *Engine) Length() int    { return e.length }
func (e *Engine) Speed() float64 { return e.speed }

// Progress reports position as a fraction in [0, 1].
func (e *Engine) Progress() float64 {
	if e.length < 2 {
		return 0
	}
	return float64(e.index) / float64(e.length-1)
}

// Play starts or resumes playback at the current index. Starting from
// the end rewinds first.
func (e *Engine) Play(now time.Time) {
	if e.length == 0 {
		return
	}
	if e.state == Stopped && e.index >= e.length-1 {
		e.index = 0
	}
	e.state = Playing
	e.lastAdvance = now
}

// Pause halts playback but keeps the position.
func (e *Engine) Pause() {
	if e.state == Playing {
		e.state = Paused
	}
}

// Toggle flips between playing and not playing.
func (e *Engine) Toggle(now time.Time) {
	if e.state == Playing {
		e.Pause()
	} else {
		e.Play(now)
	}
}

// Stop halts playback and rewinds to the start.
func (e *Engine) Stop() {
	e.state = Stopped
	e.index = 0
}

// Advance moves the cursor forward one point if at least one scaled tick
// has elapsed since the reference instant. It reports whether the index
// changed. Reaching the final point stops the engine.
func (e *Engine) Advance(now time.Time) bool {
	if e.state != Playing {
		return false
	}

	tick := time.Duration(float64(e.baseTick) / e.speed)
	if now.Sub(e.lastAdvance) < tick {
		return false
	}

	e.index++
	e.lastAdvance = now
	if e.index >= e.length-1 {
		e.index = e.length - 1
		e.state = Stopped
	}
	return true
}

// Seek jumps to a percentage of the sequence, clamped to [0, 100], and
// resets the step clock so the next tick is measured from now.
func (e *Engine) Seek(percent float64, now time.Time) {
	if e.length == 0 {
		return
	}
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	e.index = int(math.Round(percent / 100 * float64(e.length-1)))
	e.lastAdvance = now
	if e.state == Stopped && e.index < e.length-1 {
		e.state = Paused
	}
}

// SkipForward jumps ahead by an activity-time duration.
func (e *Engine) SkipForward(d time.Duration, now time.Time) {
	e.skip(int(d/e.baseTick), now)
}

// SkipBack jumps back by an activity-time duration.
func (e *Engine) SkipBack(d time.Duration, now time.Time) {
	e.skip(-int(d/e.baseTick), now)
}

func (e *Engine) skip(steps int, now time.Time) {
	if e.length == 0 {
		return
	}
	e.index += steps
	if e.index < 0 {
		e.index = 0
	}
	if e.index > e.length-1 {
		e.index = e.length - 1
	}
	e.lastAdvance = now
	if e.state == Stopped && e.index < e.length-1 {
		e.state = Paused
	}
}

// CycleSpeed advances to the next multiplier, wrapping around.
func (e *Engine) CycleSpeed() {
	for i, s := range speedSteps {
		if e.speed == s {
			e.speed = speedSteps[(i+1)%len(speedSteps)]
			return
		}
	}
	e.speed = speedSteps[0]
}

// SetSpeed sets the multiplier directly. Non-positive values are
// ignored.
func (e *Engine) SetSpeed(speed float64) {
	if speed > 0 {
		e.speed = speed
	}
}

// HighlightSegment marks an index range for the view to emphasize, for
// example a lap. The range is clamped and normalized.
func (e *Engine) HighlightSegment(start, end int) {
	if e.length == 0 {
		return
	}
	if start > end {
		start, end = end, start
	}
	if start < 0 {
		start = 0
	}
	if end > e.length-1 {
		end = e.length - 1
	}
	e.highlightStart, e.highlightEnd, e.highlighted = start, end, true
}

// ClearHighlight removes the emphasized range.
func (e *Engine) ClearHighlight() {
	e.highlighted = false
}

// Highlight returns the emphasized range, if any.
func (e *Engine) Highlight() (start, end int, ok bool) {
	return e.highlightStart, e.highlightEnd, e.highlighted
}
