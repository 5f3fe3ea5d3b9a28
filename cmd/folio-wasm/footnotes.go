//go:build js && wasm

package main

import (
	"syscall/js"

	"github.com/eringen/folio/footnote"
	"github.com/eringen/folio/portable"
)

// footnoteElements are the elements of one note, resolved from the
// manifest handles when the post is bound.
type footnoteElements struct {
	marker js.Value
	note   js.Value
	margin js.Value
}

// footnoteSurface drives the footnote markup of one post. Margin tops are
// relative to the post content box the margin layers are positioned in.
type footnoteSurface struct {
	content js.Value
	notes   map[string]footnoteElements
	inline  map[string]js.Value
}

func newFootnoteSurface(content js.Value, doc *portable.Document) *footnoteSurface {
	margins := map[string]js.Value{}
	for _, n := range queryAll(content, ".fn-margin-note") {
		margins[dataAttr(n, "fn")] = n
	}
	s := &footnoteSurface{content: content, notes: map[string]footnoteElements{}, inline: map[string]js.Value{}}
	for id, markerID := range doc.MarkerIDs() {
		wrap := document.Call("getElementById", markerID)
		if wrap.IsNull() {
			continue
		}
		marker, ok := query(wrap, ".fn-marker")
		if !ok {
			continue
		}
		note, _ := query(wrap, "template.fn-note")
		margin, ok := margins[id]
		if !ok {
			margin = js.Null()
		}
		s.notes[id] = footnoteElements{marker: marker, note: note, margin: margin}
	}
	return s
}

func (s *footnoteSurface) marker(id string) (js.Value, bool) {
	el, ok := s.notes[id]
	return el.marker, ok
}

func (s *footnoteSurface) marginNote(id string) (js.Value, bool) {
	el, ok := s.notes[id]
	if !ok || el.margin.IsNull() {
		return js.Null(), false
	}
	return el.margin, true
}

func (s *footnoteSurface) MarkerTop(id string) (float64, bool) {
	m, ok := s.marker(id)
	if !ok {
		return 0, false
	}
	base := s.content.Call("getBoundingClientRect").Get("top").Float()
	return m.Call("getBoundingClientRect").Get("top").Float() - base, true
}

func (s *footnoteSurface) NoteHeight(id string) (float64, bool) {
	n, ok := s.marginNote(id)
	if !ok {
		return 0, false
	}
	return n.Get("offsetHeight").Float(), true
}

func (s *footnoteSurface) InsertInline(id string) bool {
	el, ok := s.notes[id]
	if !ok || el.note.IsNull() {
		return false
	}
	m, tmpl := el.marker, el.note
	note := document.Call("createElement", "span")
	note.Set("className", "fn-inline")
	note.Call("setAttribute", "data-fn", id)
	note.Call("setAttribute", "role", "note")
	note.Set("innerHTML", tmpl.Get("innerHTML"))
	m.Get("parentElement").Call("after", note)
	m.Call("setAttribute", "aria-expanded", "true")
	s.inline[id] = note
	return true
}

func (s *footnoteSurface) RemoveInline(id string) {
	if note, ok := s.inline[id]; ok {
		note.Call("remove")
		delete(s.inline, id)
	}
	if m, ok := s.marker(id); ok {
		m.Call("setAttribute", "aria-expanded", "false")
	}
}

func (s *footnoteSurface) PlaceMargin(id string, _ footnote.Side, top float64) {
	if n, ok := s.marginNote(id); ok {
		n.Get("style").Set("top", px(top))
	}
}

func (s *footnoteSurface) ShowMargin(id string, visible bool) {
	if n, ok := s.marginNote(id); ok {
		toggleClass(n, "is-visible", visible)
	}
	if m, ok := s.marker(id); ok {
		if visible {
			m.Call("setAttribute", "aria-expanded", "true")
		} else {
			m.Call("setAttribute", "aria-expanded", "false")
		}
	}
}

func (s *footnoteSurface) ClearMargins() {
	for _, el := range s.notes {
		if el.margin.IsNull() {
			continue
		}
		toggleClass(el.margin, "is-visible", false)
		el.margin.Get("style").Set("top", "")
	}
}

func bindFootnotes(doc *portable.Document) {
	if len(doc.Footnotes) == 0 {
		return
	}
	content, ok := query(document, ".post-content")
	if !ok {
		return
	}
	// margin notes are laid out invisibly so they can be measured
	for _, n := range queryAll(content, ".fn-margin-note") {
		n.Call("removeAttribute", "hidden")
	}
	toggleClass(content, "has-margin-notes", true)

	e := footnote.NewEngine(newFootnoteSurface(content, doc))
	afterLayout(func() { e.Mount(doc.Notes(), viewportWidth()) })

	listen(document, "click", func(ev js.Value) {
		target := ev.Get("target")
		if m, ok := closest(target, ".fn-marker"); ok {
			ev.Call("preventDefault")
			e.Click(footnote.Target{Kind: footnote.Marker, ID: dataAttr(m, "fn")})
			return
		}
		if n, ok := closest(target, ".fn-inline, .fn-margin-note"); ok {
			e.Click(footnote.Target{Kind: footnote.NoteBody, ID: dataAttr(n, "fn")})
			return
		}
		e.Click(footnote.Target{Kind: footnote.Outside})
	})
	listen(window, "resize", func(js.Value) { e.Resize(viewportWidth()) })
	listen(window, "pagehide", func(js.Value) { e.Unmount() })
}
