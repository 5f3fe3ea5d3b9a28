// Package lightbox shows rendered images in a single full-viewport modal.
package lightbox

import "sync"

// Fit is the orientation class applied once the natural size is known.
type Fit int

const (
	Unknown Fit = iota
	Landscape
	Portrait
)

func (f Fit) String() string {
	switch f {
	case Landscape:
		return "landscape"
	case Portrait:
		return "portrait"
	}
	return ""
}

// FitFor classifies a natural size. Square images count as landscape.
func FitFor(width, height int) Fit {
	if width <= 0 || height <= 0 {
		return Unknown
	}
	if height > width {
		return Portrait
	}
	return Landscape
}

// Modal is the modal element.
type Modal interface {
	SetImage(src, alt string)
	SetFit(f Fit)
	Show()
	Hide()
}

// Viewport freezes and restores page scroll.
type Viewport interface {
	ScrollY() float64
	Freeze(y float64)
	Restore(y float64)
}

// Factory creates the modal element the first time it is needed.
type Factory func() Modal

// Reason says why the lightbox closed.
type Reason int

const (
	Backdrop Reason = iota
	ImageClick
	Escape
	Navigation
)

// Lightbox owns the single modal. The zero value is not usable; use New.
type Lightbox struct {
	factory  Factory
	viewport Viewport

	mu     sync.Mutex
	modal  Modal
	open   bool
	src    string
	savedY float64
}

// New returns a lightbox that creates its modal lazily through factory.
func New(factory Factory, viewport Viewport) *Lightbox {
	return &Lightbox{factory: factory, viewport: viewport}
}

// Open shows src in the modal. When already open the modal is re-targeted
// and the scroll position saved on the first open is kept.
func (l *Lightbox) Open(src, alt string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if src == "" {
		return
	}
	if l.modal == nil {
		if l.factory == nil {
			return
		}
		l.modal = l.factory()
		if l.modal == nil {
			return
		}
	}
	if !l.open && l.viewport != nil {
		l.savedY = l.viewport.ScrollY()
		l.viewport.Freeze(l.savedY)
	}
	l.src = src
	l.modal.SetImage(src, alt)
	l.modal.SetFit(Unknown)
	if !l.open {
		l.modal.Show()
		l.open = true
	}
}

// SetNaturalSize applies the fit class once the image for src has loaded.
// Sizes for an image that is no longer shown are ignored.
func (l *Lightbox) SetNaturalSize(src string, width, height int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.open || src != l.src {
		return
	}
	l.modal.SetFit(FitFor(width, height))
}

// Close hides the modal and restores scroll. Closing a closed lightbox
// does nothing.
func (l *Lightbox) Close(_ Reason) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.open {
		return
	}
	l.modal.Hide()
	l.open = false
	l.src = ""
	if l.viewport != nil {
		l.viewport.Restore(l.savedY)
	}
}

// Key handles a key press while the modal may be open.
func (l *Lightbox) Key(key string) {
	if key == "Escape" || key == "Esc" {
		l.Close(Escape)
	}
}

// IsOpen reports whether the modal is showing.
func (l *Lightbox) IsOpen() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.open
}

// Src returns the image currently shown, or "".
func (l *Lightbox) Src() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.src
}
