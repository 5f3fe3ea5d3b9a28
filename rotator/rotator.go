// Package rotator cycles preview image URLs through a fixed set of image
// slots.
package rotator

import (
	"context"
	"sync"
	"time"
)

// Rotation intervals. Desktop rows rotate while hovered, mobile rows
// rotate continuously.
const (
	IntervalDesktop = 350 * time.Millisecond
	IntervalMobile  = 600 * time.Millisecond
)

// IntervalFor returns the rotation interval for a device class.
func IntervalFor(mobile bool) time.Duration {
	if mobile {
		return IntervalMobile
	}
	return IntervalDesktop
}

// Rotator shows a window of len(slots) URLs and shifts it by one every
// interval. The position survives Stop/Start.
type Rotator struct {
	urls     []string
	slots    int
	interval time.Duration
	apply    func(srcs []string)

	mu     sync.Mutex
	index  int
	cancel context.CancelFunc
	done   chan struct{}
}

// New returns a stopped rotator. apply receives one URL per slot.
func New(urls []string, slots int, interval time.Duration, apply func(srcs []string)) *Rotator {
	return &Rotator{
		urls:     append([]string(nil), urls...),
		slots:    slots,
		interval: interval,
		apply:    apply,
	}
}

// Rotates reports whether there are more URLs than slots.
func (r *Rotator) Rotates() bool {
	return r.slots > 0 && len(r.urls) > r.slots && r.interval > 0
}

// Init applies the current window once.
func (r *Rotator) Init() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Rotates() {
		r.show()
	}
}

// Start begins rotating. It does nothing when already running or when
// there is nothing to rotate.
func (r *Rotator) Start() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cancel != nil || !r.Rotates() {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	r.cancel = cancel
	r.done = make(chan struct{})
	go r.run(ctx, r.done)
}

// Stop halts rotation and waits for the loop to exit.
func (r *Rotator) Stop() {
	r.mu.Lock()
	cancel, done := r.cancel, r.done
	r.cancel, r.done = nil, nil
	r.mu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	<-done
}

// Running reports whether the rotation loop is active.
func (r *Rotator) Running() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cancel != nil
}

// Index returns the position of the first slot.
func (r *Rotator) Index() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.index
}

// Window returns the URLs currently assigned to the slots.
func (r *Rotator) Window() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.window()
}

func (r *Rotator) run(ctx context.Context, done chan struct{}) {
	defer close(done)
	t := time.NewTicker(r.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			r.mu.Lock()
			if ctx.Err() == nil {
				r.index = (r.index + 1) % len(r.urls)
				r.show()
			}
			r.mu.Unlock()
		}
	}
}

func (r *Rotator) window() []string {
	n := r.slots
	if n > len(r.urls) {
		n = len(r.urls)
	}
	out := make([]string, n)
	for i := range out {
		out[i] = r.urls[(r.index+i)%len(r.urls)]
	}
	return out
}

func (r *Rotator) show() {
	if r.apply != nil {
		r.apply(r.window())
	}
}
