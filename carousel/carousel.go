// Package carousel cycles an image list through two stacked slots,
// preloading the next image before crossfading to it.
package carousel

import (
	"context"
	"sync"
	"time"
)

// DefaultCooldown is the pause after a transition before the next one may start.
const DefaultCooldown = 100 * time.Millisecond

// Fit is how an image fills its slot.
type Fit int

const (
	Cover   Fit = iota // landscape images fill the frame
	Contain            // portrait images are letterboxed
)

func (f Fit) String() string {
	if f == Contain {
		return "contain"
	}
	return "cover"
}

// Slot names one of the two stacked image elements.
type Slot int

const (
	SlotA Slot = iota
	SlotB
)

// Other returns the opposite slot.
func (s Slot) Other() Slot {
	if s == SlotA {
		return SlotB
	}
	return SlotA
}

// Item is one image of the carousel.
type Item struct {
	Src     string
	Caption string
}

// Size is the natural size of a decoded image.
type Size struct {
	Width, Height int
}

// FitFor returns Cover for landscape (or square) images and Contain for
// portrait ones. Unknown sizes are treated as landscape.
func FitFor(s Size) Fit {
	if s.Height > s.Width && s.Width > 0 {
		return Contain
	}
	return Cover
}

// Loader fetches and decodes an image off-screen.
type Loader interface {
	Load(ctx context.Context, src string) (Size, error)
}

// View is the rendered carousel.
type View interface {
	// Prepare loads item into the hidden slot with the given fit.
	Prepare(slot Slot, item Item, fit Fit)
	// Crossfade starts the opacity transition from one slot to the other.
	Crossfade(from, to Slot, d time.Duration)
	// Show updates the caption and counter.
	Show(index, total int, caption string)
}

// State is a snapshot of the runtime state.
type State struct {
	Index   int
	Total   int
	Caption string
	Front   Slot
	Locked  bool
	Mounted bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithCooldown overrides DefaultCooldown.
func WithCooldown(d time.Duration) Option {
	return func(e *Engine) { e.cooldown = d }
}

// Engine is the carousel state machine. Advance may be called from any
// goroutine; at most one transition runs at a time.
type Engine struct {
	items     []Item
	crossfade time.Duration
	cooldown  time.Duration
	loader    Loader
	view      View

	mu      sync.Mutex
	index   int
	front   Slot
	locked  bool
	mounted bool
	cancel  context.CancelFunc
	ctx     context.Context
	wg      sync.WaitGroup
}

// New returns an unmounted engine.
func New(items []Item, crossfade time.Duration, loader Loader, view View, opts ...Option) *Engine {
	e := &Engine{
		items:     append([]Item(nil), items...),
		crossfade: crossfade,
		cooldown:  DefaultCooldown,
		loader:    loader,
		view:      view,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Mount shows the first item and starts accepting clicks. Mounting a
// mounted engine does nothing.
func (e *Engine) Mount() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.mounted || len(e.items) == 0 || e.view == nil || e.loader == nil {
		return
	}
	e.ctx, e.cancel = context.WithCancel(context.Background())
	e.mounted = true
	e.index = 0
	e.front = SlotA
	e.locked = false
	e.view.Show(0, len(e.items), e.items[0].Caption)
	if len(e.items) > 1 {
		e.preload(e.ctx, 1)
	}
}

// Unmount stops the engine. Pending loads are cancelled and their results
// dropped. It blocks until in-flight work has returned.
func (e *Engine) Unmount() {
	e.mu.Lock()
	if !e.mounted {
		e.mu.Unlock()
		return
	}
	e.mounted = false
	e.locked = false
	e.cancel()
	e.mu.Unlock()
	e.wg.Wait()
}

// State returns a snapshot of the runtime state.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	st := State{
		Index:   e.index,
		Total:   len(e.items),
		Front:   e.front,
		Locked:  e.locked,
		Mounted: e.mounted,
	}
	if e.index < len(e.items) {
		st.Caption = e.items[e.index].Caption
	}
	return st
}

// Advance starts a transition to the next item. It reports false when a
// transition is already in flight, the engine is unmounted, or there is
// nothing to cycle.
func (e *Engine) Advance() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.mounted || e.locked || len(e.items) < 2 {
		return false
	}
	e.locked = true
	next := (e.index + 1) % len(e.items)
	ctx := e.ctx
	e.wg.Add(1)
	go e.transition(ctx, next)
	return true
}

func (e *Engine) transition(ctx context.Context, next int) {
	defer e.wg.Done()
	item := e.items[next]

	size, err := e.loader.Load(ctx, item.Src)
	if err != nil {
		e.unlock(ctx)
		return
	}

	e.mu.Lock()
	if ctx.Err() != nil {
		e.mu.Unlock()
		return
	}
	from := e.front
	to := from.Other()
	e.view.Prepare(to, item, FitFor(size))
	e.view.Crossfade(from, to, e.crossfade)
	if after := (next + 1) % len(e.items); after != e.index {
		e.preload(ctx, after)
	}
	e.mu.Unlock()

	if !sleep(ctx, e.crossfade) {
		return
	}

	e.mu.Lock()
	if ctx.Err() != nil {
		e.mu.Unlock()
		return
	}
	e.front = to
	e.index = next
	e.view.Show(next, len(e.items), item.Caption)
	e.mu.Unlock()

	if !sleep(ctx, e.cooldown) {
		return
	}
	e.unlock(ctx)
}

func (e *Engine) unlock(ctx context.Context) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if ctx.Err() == nil {
		e.locked = false
	}
}

// preload warms the loader for item i and discards the result.
// Callers hold e.mu.
func (e *Engine) preload(ctx context.Context, i int) {
	src := e.items[i].Src
	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		_, _ = e.loader.Load(ctx, src)
	}()
}

func sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
