// Package footnote assigns stable identities to footnotes and lays out
// their notes either inline (narrow viewports) or in margin columns (wide
// viewports).
package footnote

import (
	"fmt"
	"hash/fnv"
)

// Side is the margin column a note is placed in on wide viewports.
type Side int

const (
	Left Side = iota
	Right
)

func (s Side) String() string {
	if s == Right {
		return "right"
	}
	return "left"
}

// Note is a registered footnote.
type Note struct {
	ID   string `json:"id"`
	Side Side   `json:"side"`
	Text string `json:"text"` // visible text of the marker
	HTML string `json:"html"` // rendered note markup
}

// Hash is the FNV-1a 32-bit hash of the marker text and note markup,
// separated by a unit separator byte.
func Hash(text, noteHTML string) uint32 {
	h := fnv.New32a()
	h.Write([]byte(text))
	h.Write([]byte{0x1f})
	h.Write([]byte(noteHTML))
	return h.Sum32()
}

// Register derives the identity and side of a footnote from its content.
// Placement never depends on the position of the footnote in the document.
func Register(text, noteHTML string) Note {
	sum := Hash(text, noteHTML)
	side := Left
	if sum&1 == 1 {
		side = Right
	}
	return Note{
		ID:   fmt.Sprintf("fn-%08x", sum),
		Side: side,
		Text: text,
		HTML: noteHTML,
	}
}

// Registry collects the notes of one document. Identical footnotes
// (same text and note) share an ID; Add disambiguates repeats with a
// suffix so every marker keeps its own handle.
type Registry struct {
	notes []Note
	seen  map[string]int
}

// Add registers a footnote and returns it.
func (r *Registry) Add(text, noteHTML string) Note {
	if r.seen == nil {
		r.seen = make(map[string]int)
	}
	n := Register(text, noteHTML)
	if c := r.seen[n.ID]; c > 0 {
		r.seen[n.ID] = c + 1
		n.ID = fmt.Sprintf("%s-%d", n.ID, c+1)
	} else {
		r.seen[n.ID] = 1
	}
	r.notes = append(r.notes, n)
	return n
}

// Notes returns the registered notes in document order.
func (r *Registry) Notes() []Note {
	return r.notes
}
