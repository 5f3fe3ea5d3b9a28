package footnote

import (
	"math"
	"sort"
	"sync"
)

// Breakpoint is the widest viewport, in CSS pixels, that uses inline notes.
const Breakpoint = 768.0

// Mode selects how notes are shown.
type Mode int

const (
	Narrow Mode = iota // note inserted inline after its marker
	Wide               // note shown in a margin column beside its marker
)

// ModeFor returns the layout mode of a viewport width.
func ModeFor(width float64) Mode {
	if width <= Breakpoint {
		return Narrow
	}
	return Wide
}

// Surface is the rendered document the engine drives. Methods reporting
// false mean the element is missing; the engine skips that note.
type Surface interface {
	// MarkerTop returns the document-relative top of a note's marker.
	MarkerTop(id string) (float64, bool)
	// NoteHeight returns the rendered height of a margin note.
	NoteHeight(id string) (float64, bool)

	InsertInline(id string) bool
	RemoveInline(id string)

	PlaceMargin(id string, side Side, top float64)
	ShowMargin(id string, visible bool)
	ClearMargins()
}

// TargetKind classifies the element a click landed on.
type TargetKind int

const (
	Outside TargetKind = iota
	Marker
	NoteBody
)

// Target is a click location resolved by the caller.
type Target struct {
	Kind TargetKind
	ID   string
}

// DefaultGap separates stacked margin notes in the same column.
const DefaultGap = 12.0

// Engine is the per-view footnote state machine:
//
//	idle -> click marker -> showing(id)
//	showing(id) -> click same marker | click outside -> idle
//	showing(id) -> click other marker -> showing(other)
type Engine struct {
	mu      sync.Mutex
	surface Surface
	notes   []Note
	byID    map[string]Note
	mounted bool
	mode    Mode
	active  string
	gap     float64
}

// NewEngine returns an unmounted engine driving s.
func NewEngine(s Surface) *Engine {
	return &Engine{surface: s, gap: DefaultGap}
}

// Mount initialises the engine for notes at the given viewport width.
// Mounting again replaces the previous notes.
func (e *Engine) Mount(notes []Note, width float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.surface == nil {
		return
	}
	if e.mounted {
		e.teardown()
	}
	e.notes = append([]Note(nil), notes...)
	e.byID = make(map[string]Note, len(notes))
	for _, n := range notes {
		e.byID[n.ID] = n
	}
	e.mode = ModeFor(width)
	e.mounted = true
	e.setup()
}

// Unmount tears down the current mode. It is safe to call repeatedly.
func (e *Engine) Unmount() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.mounted {
		return
	}
	e.teardown()
	e.mounted = false
	e.notes = nil
	e.byID = nil
}

// Active returns the id of the visible note, or "".
func (e *Engine) Active() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.active
}

// Mode returns the current layout mode.
func (e *Engine) Mode() Mode {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.mode
}

// Click applies a click to the state machine.
func (e *Engine) Click(t Target) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.mounted {
		return
	}
	if t.Kind == Marker {
		if _, ok := e.byID[t.ID]; !ok {
			e.hide()
			return
		}
		if e.active == t.ID {
			e.hide()
			return
		}
		e.hide()
		e.show(t.ID)
		return
	}
	// An inline note is part of the text flow; clicking inside it keeps it.
	if e.mode == Narrow && t.Kind == NoteBody && t.ID == e.active {
		return
	}
	e.hide()
}

// Resize re-evaluates the mode. Crossing the breakpoint tears down the
// old mode; staying wide re-lays the margins and re-shows the active note.
func (e *Engine) Resize(width float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.mounted {
		return
	}
	next := ModeFor(width)
	if next != e.mode {
		e.teardown()
		e.mode = next
		e.setup()
		return
	}
	if e.mode == Wide {
		e.layout()
		if e.active != "" {
			e.surface.ShowMargin(e.active, true)
		}
	}
}

func (e *Engine) setup() {
	if e.mode == Wide {
		e.layout()
	}
}

func (e *Engine) teardown() {
	e.hide()
	if e.mode == Wide {
		e.surface.ClearMargins()
	}
}

func (e *Engine) show(id string) {
	switch e.mode {
	case Narrow:
		if !e.surface.InsertInline(id) {
			return
		}
	case Wide:
		if _, ok := e.surface.MarkerTop(id); !ok {
			return
		}
		e.surface.ShowMargin(id, true)
	}
	e.active = id
}

func (e *Engine) hide() {
	if e.active == "" {
		return
	}
	switch e.mode {
	case Narrow:
		e.surface.RemoveInline(e.active)
	case Wide:
		e.surface.ShowMargin(e.active, false)
	}
	e.active = ""
}

type placed struct {
	note Note
	top  float64
}

// layout aligns every note with its marker, pushing a note down when it
// would overlap the previous note of the same column.
func (e *Engine) layout() {
	var items []placed
	for _, n := range e.notes {
		top, ok := e.surface.MarkerTop(n.ID)
		if !ok {
			continue
		}
		items = append(items, placed{note: n, top: top})
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].top < items[j].top })

	bottom := map[Side]float64{Left: math.Inf(-1), Right: math.Inf(-1)}
	for _, it := range items {
		top := math.Max(it.top, bottom[it.note.Side]+e.gap)
		e.surface.PlaceMargin(it.note.ID, it.note.Side, top)
		e.surface.ShowMargin(it.note.ID, false)
		if h, ok := e.surface.NoteHeight(it.note.ID); ok {
			bottom[it.note.Side] = top + h
		} else {
			bottom[it.note.Side] = top
		}
	}
}
