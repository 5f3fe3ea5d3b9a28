// Package ticker scrolls text that overflows its container at a constant
// speed.
package ticker

import (
	"math"
	"sync"
	"time"
)

// Scroll speeds in pixels per second.
const (
	SpeedDefault = 100.0
	SpeedDesktop = 200.0
	SpeedMobile  = 60.0
)

// PreviewSlack is the overflow tolerance used by work preview rows, so
// sub-pixel rounding does not start a scroll.
const PreviewSlack = 2.0

// SpeedFor returns the preview speed for a device class.
func SpeedFor(mobile bool) float64 {
	if mobile {
		return SpeedMobile
	}
	return SpeedDesktop
}

// Measure is the measured geometry of a ticker.
type Measure struct {
	TextWidth      float64
	ContainerWidth float64
	// Slack is how far the text may exceed the container before scrolling.
	Slack float64
}

// Plan is the computed animation.
type Plan struct {
	Scroll   bool
	Clones   int
	Distance float64
	Duration time.Duration
}

// Compute decides whether m overflows and, if so, how many clones cover
// twice the container and how long one pass takes at speed px/s.
func Compute(m Measure, speed float64) Plan {
	if m.TextWidth <= 0 || speed <= 0 || m.TextWidth <= m.ContainerWidth+m.Slack {
		return Plan{}
	}
	clones := int(math.Ceil(2 * m.ContainerWidth / m.TextWidth))
	if clones < 1 {
		clones = 1
	}
	return Plan{
		Scroll:   true,
		Clones:   clones,
		Distance: m.TextWidth,
		Duration: time.Duration(m.TextWidth / speed * float64(time.Second)),
	}
}

// Element is a ticker in the document.
type Element interface {
	RemoveClones()
	// Measure reads the current geometry; false when not laid out.
	Measure() (Measure, bool)
	AddClones(n int)
	Apply(p Plan)
}

// Frames schedules fn after layout has settled.
type Frames func(fn func())

// Ticker owns one element.
type Ticker struct {
	el     Element
	speed  float64
	frames Frames

	mu   sync.Mutex
	plan Plan
	gen  int
}

// New returns a ticker scrolling el at speed. A nil frames runs
// measurement immediately.
func New(el Element, speed float64, frames Frames) *Ticker {
	if frames == nil {
		frames = func(fn func()) { fn() }
	}
	return &Ticker{el: el, speed: speed, frames: frames}
}

// Refresh tears down clones and the animation, then rebuilds them from a
// fresh measurement. Call it on mount, resize and content changes.
func (t *Ticker) Refresh() {
	t.mu.Lock()
	t.gen++
	gen := t.gen
	t.el.RemoveClones()
	t.plan = Plan{}
	t.el.Apply(t.plan)
	t.mu.Unlock()

	t.frames(func() {
		t.mu.Lock()
		defer t.mu.Unlock()
		// a newer refresh owns the element
		if gen != t.gen {
			return
		}
		m, ok := t.el.Measure()
		if !ok {
			return
		}
		p := Compute(m, t.speed)
		if p.Scroll {
			t.el.AddClones(p.Clones)
		}
		t.plan = p
		t.el.Apply(p)
	})
}

// Plan returns the last applied plan.
func (t *Ticker) Plan() Plan {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.plan
}
