// Package nav tracks the active navigation item and positions the
// highlight under it.
package nav

import (
	"strings"
	"sync"
)

// None is the index reported when no route matches.
const None = -1

// Clean strips trailing slashes. The root path stays "/".
func Clean(path string) string {
	trimmed := strings.TrimRight(path, "/")
	if trimmed == "" {
		return "/"
	}
	return trimmed
}

// Match returns the index of the route path falls under, or None. A path
// matches a route when it equals it or is nested below it; when several
// routes match, the longest one wins. The root path matches nothing.
func Match(routes []string, path string) int {
	p := Clean(path)
	if p == "/" {
		return None
	}
	best, bestLen := None, -1
	for i, r := range routes {
		r = Clean(r)
		if r == "/" {
			continue
		}
		if p == r || strings.HasPrefix(p, r+"/") {
			if len(r) > bestLen {
				best, bestLen = i, len(r)
			}
		}
	}
	return best
}

// Layout reports live geometry of the menu items.
type Layout interface {
	// Item returns the pixel offset and width of item i within the menu.
	Item(i int) (left, width float64, ok bool)
}

// Highlight is a highlight placement. A zero Width hides it.
type Highlight struct {
	Left    float64
	Width   float64
	Instant bool
}

// Sink applies highlight moves and the active marker.
type Sink interface {
	Move(h Highlight)
	SetActive(i int)
}

// Nav drives the highlight for a fixed list of routes.
type Nav struct {
	routes []string
	layout Layout
	sink   Sink

	mu     sync.Mutex
	active int
}

// New returns a Nav for routes. Items of layout are in route order.
func New(routes []string, layout Layout, sink Sink) *Nav {
	return &Nav{
		routes: append([]string(nil), routes...),
		layout: layout,
		sink:   sink,
		active: None,
	}
}

// Active returns the active item index, or None.
func (n *Nav) Active() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.active
}

// Navigate marks the item for path active and animates the highlight to it.
func (n *Nav) Navigate(path string) {
	n.set(path, false)
}

// Place marks the item for path active and moves the highlight without a
// transition. Use it for the first placement after a client-side swap.
func (n *Nav) Place(path string) {
	n.set(path, true)
}

// Resize re-measures the active item and moves the highlight instantly.
func (n *Nav) Resize() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.move(n.active, true)
}

// Hover previews the highlight over item i without changing the active item.
func (n *Nav) Hover(i int) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if i < 0 || i >= len(n.routes) {
		return
	}
	n.move(i, false)
}

// Leave returns the highlight to the active item.
func (n *Nav) Leave() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.move(n.active, false)
}

func (n *Nav) set(path string, instant bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.active = Match(n.routes, path)
	if n.sink != nil {
		n.sink.SetActive(n.active)
	}
	n.move(n.active, instant)
}

func (n *Nav) move(i int, instant bool) {
	if n.sink == nil {
		return
	}
	h := Highlight{Instant: instant}
	if i != None && n.layout != nil {
		if left, width, ok := n.layout.Item(i); ok {
			h.Left, h.Width = left, width
		}
	}
	n.sink.Move(h)
}

// ScrollHider hides the nav while the page scrolls down and shows it again
// on any upward scroll.
type ScrollHider struct {
	mu     sync.Mutex
	last   float64
	hidden bool
}

// NewScrollHider starts tracking from scroll offset y.
func NewScrollHider(y float64) *ScrollHider {
	return &ScrollHider{last: y}
}

// Scroll records a new offset and reports whether the nav should be hidden.
func (s *ScrollHider) Scroll(y float64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hidden = y > s.last && y > 0
	s.last = y
	return s.hidden
}
