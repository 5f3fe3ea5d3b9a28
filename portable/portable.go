// Package portable renders content blocks to HTML. The returned Document
// is a templ component and carries typed handles to the elements it
// rendered, so client code binds to them directly.
package portable

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"html"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/a-h/templ"

	"github.com/eringen/folio/cms"
	"github.com/eringen/folio/content"
	"github.com/eringen/folio/footnote"
)

// Resolver maps images to delivery URLs.
type Resolver interface {
	URL(img content.Image, t cms.Transform) (string, bool)
}

// Options configures rendering.
type Options struct {
	Resolver Resolver
	// IDPrefix namespaces element ids when several documents share a page.
	IDPrefix string
}

// Node is the handle of one rendered top-level block.
type Node struct {
	Index int    `json:"index"`
	Key   string `json:"key"`
	Kind  string `json:"kind"`
	ID    string `json:"id"`
}

// Slide is one resolved carousel image.
type Slide struct {
	Src     string `json:"src"`
	Alt     string `json:"alt"`
	Caption string `json:"caption"`
}

// CarouselHandle binds a rendered carousel to its images.
type CarouselHandle struct {
	ID          string  `json:"id"`
	Key         string  `json:"key"`
	Slides      []Slide `json:"slides"`
	CrossfadeMS int64   `json:"crossfadeMs"`
}

// Crossfade returns the transition duration.
func (c CarouselHandle) Crossfade() time.Duration {
	return time.Duration(c.CrossfadeMS) * time.Millisecond
}

// ImageHandle binds a rendered image to its lightbox source.
type ImageHandle struct {
	ID     string `json:"id"`
	Src    string `json:"src"`
	Alt    string `json:"alt"`
	Width  int    `json:"width,omitempty"`
	Height int    `json:"height,omitempty"`
}

// FootnoteHandle binds a marker to its registered note.
type FootnoteHandle struct {
	footnote.Note
	MarkerID string `json:"markerId"`
}

// Document is a rendered block sequence.
type Document struct {
	Nodes     []Node           `json:"nodes"`
	Footnotes []FootnoteHandle `json:"footnotes"`
	Carousels []CarouselHandle `json:"carousels"`
	Images    []ImageHandle    `json:"images"`

	html []byte
}

// Render implements templ.Component.
func (d *Document) Render(_ context.Context, w io.Writer) error {
	_, err := w.Write(d.html)
	return err
}

// HTML returns the rendered markup.
func (d *Document) HTML() string { return string(d.html) }

// Notes returns the registered footnotes.
func (d *Document) Notes() []footnote.Note {
	notes := make([]footnote.Note, len(d.Footnotes))
	for i, f := range d.Footnotes {
		notes[i] = f.Note
	}
	return notes
}

// MarkerIDs maps each note ID to the element id of its marker.
func (d *Document) MarkerIDs() map[string]string {
	ids := make(map[string]string, len(d.Footnotes))
	for _, f := range d.Footnotes {
		ids[f.ID] = f.MarkerID
	}
	return ids
}

// Manifest returns the handles as JSON for the client.
func (d *Document) Manifest() ([]byte, error) {
	return json.Marshal(d)
}

var _ templ.Component = (*Document)(nil)

// Render renders blocks in order. Blocks that cannot be rendered are
// skipped.
func Render(blocks []content.Block, opts Options) *Document {
	r := &renderer{opts: opts, doc: &Document{}, ids: map[string]int{}}
	var buf bytes.Buffer
	for i, b := range blocks {
		r.block(&buf, i, b)
	}
	r.doc.html = buf.Bytes()
	return r.doc
}

// ManifestScript renders the document handles as an inline JSON script.
func ManifestScript(id string, d *Document) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		data, err := d.Manifest()
		if err != nil {
			return fmt.Errorf("encode manifest: %w", err)
		}
		var buf bytes.Buffer
		buf.WriteString(`<script type="application/json" id="` + html.EscapeString(id) + `">`)
		buf.Write(data)
		buf.WriteString(`</script>`)
		_, err = w.Write(buf.Bytes())
		return err
	})
}

// MarginNotes renders the hidden left and right note layers used on wide
// viewports.
func MarginNotes(d *Document) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var buf bytes.Buffer
		for _, side := range []footnote.Side{footnote.Left, footnote.Right} {
			buf.WriteString(`<aside class="fn-margin fn-margin--` + side.String() + `" data-side="` + side.String() + `">`)
			for _, f := range d.Footnotes {
				if f.Side != side {
					continue
				}
				buf.WriteString(`<div class="fn-margin-note" data-fn="` + f.ID + `" hidden>`)
				buf.WriteString(f.HTML)
				buf.WriteString(`</div>`)
			}
			buf.WriteString(`</aside>`)
		}
		_, err := w.Write(buf.Bytes())
		return err
	})
}

type renderer struct {
	opts     Options
	doc      *Document
	registry footnote.Registry
	ids      map[string]int
}

// id returns a unique DOM id built from key.
func (r *renderer) id(kind, key string) string {
	base := r.opts.IDPrefix + kind + "-" + sanitizeID(key)
	n := r.ids[base]
	r.ids[base] = n + 1
	if n > 0 {
		return base + "-" + strconv.Itoa(n+1)
	}
	return base
}

func sanitizeID(s string) string {
	var b strings.Builder
	for _, c := range s {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '-', c == '_':
			b.WriteRune(c)
		default:
			b.WriteByte('_')
		}
	}
	if b.Len() == 0 {
		return "x"
	}
	return b.String()
}

func (r *renderer) node(i int, key, kind, id string) {
	r.doc.Nodes = append(r.doc.Nodes, Node{Index: i, Key: key, Kind: kind, ID: id})
}

func (r *renderer) block(buf *bytes.Buffer, i int, b content.Block) {
	switch b := b.(type) {
	case content.Paragraph:
		id := r.id("n", b.Key)
		buf.WriteString(`<p id="` + id + `">`)
		r.spans(buf, b.Spans, true)
		buf.WriteString(`</p>`)
		r.node(i, b.Key, "paragraph", id)
	case content.Heading:
		level := b.Level
		if level < 1 {
			level = 1
		}
		if level > 6 {
			level = 6
		}
		tag := "h" + strconv.Itoa(level)
		id := r.id("n", b.Key)
		buf.WriteString(`<` + tag + ` id="` + id + `">`)
		r.spans(buf, b.Spans, true)
		buf.WriteString(`</` + tag + `>`)
		r.node(i, b.Key, "heading", id)
	case content.Blockquote:
		id := r.id("n", b.Key)
		buf.WriteString(`<blockquote id="` + id + `"><p>`)
		r.spans(buf, b.Spans, true)
		buf.WriteString(`</p></blockquote>`)
		r.node(i, b.Key, "blockquote", id)
	case content.Image:
		if id, ok := r.image(buf, b, true); ok {
			r.node(i, b.Key, "image", id)
		}
	case content.Carousel:
		if id, ok := r.carousel(buf, b); ok {
			r.node(i, b.Key, "carousel", id)
		}
	}
}

func (r *renderer) resolve(img content.Image) (string, bool) {
	if r.opts.Resolver == nil {
		return "", false
	}
	return r.opts.Resolver.URL(img, cms.TransformFor(img))
}

// altText falls back to the caption when an image has no alt text.
func altText(img content.Image) string {
	if img.Alt != "" {
		return img.Alt
	}
	return img.Caption
}

// image writes a figure. Images inside notes are not lightbox targets and
// carry no id, so note markup does not depend on the rest of the document.
func (r *renderer) image(buf *bytes.Buffer, img content.Image, top bool) (string, bool) {
	src, ok := r.resolve(img)
	if !ok {
		return "", false
	}
	size := img.Size
	if size == "" {
		size = content.SizeLarge
	}
	alt := altText(img)
	var id string
	buf.WriteString(`<figure class="pt-image pt-image--` + html.EscapeString(string(size)) + `">`)
	buf.WriteString(`<img`)
	if top {
		id = r.id("img", img.Key)
		buf.WriteString(` id="` + id + `"`)
	}
	buf.WriteString(` src="` + html.EscapeString(src) + `" alt="` + html.EscapeString(alt) + `"`)
	w, h, dims := img.Dimensions()
	if dims {
		buf.WriteString(` width="` + strconv.Itoa(w) + `" height="` + strconv.Itoa(h) + `"`)
	}
	buf.WriteString(` loading="lazy" decoding="async"`)
	if top {
		buf.WriteString(` data-lightbox`)
	}
	buf.WriteString(`/>`)
	if img.Caption != "" {
		buf.WriteString(`<figcaption>` + html.EscapeString(img.Caption) + `</figcaption>`)
	}
	buf.WriteString(`</figure>`)
	if top {
		r.doc.Images = append(r.doc.Images, ImageHandle{ID: id, Src: src, Alt: alt, Width: w, Height: h})
	}
	return id, true
}

func (r *renderer) carousel(buf *bytes.Buffer, c content.Carousel) (string, bool) {
	var slides []Slide
	var firstImg content.Image
	for _, img := range c.Images {
		if src, ok := r.resolve(img); ok {
			if len(slides) == 0 {
				firstImg = img
			}
			slides = append(slides, Slide{Src: src, Alt: altText(img), Caption: img.Caption})
		}
	}
	if len(slides) == 0 {
		return "", false
	}
	crossfade := c.Crossfade
	if crossfade <= 0 {
		crossfade = content.DefaultCrossfade
	}
	id := r.id("car", c.Key)
	first := slides[0]
	ms := crossfade.Milliseconds()

	buf.WriteString(`<figure class="pt-carousel" id="` + id + `" data-carousel data-crossfade="` + strconv.FormatInt(ms, 10) + `">`)
	buf.WriteString(`<div class="pt-carousel__frame">`)
	frontClass := "pt-carousel__slot is-front"
	if w, h, ok := firstImg.Dimensions(); ok && h > w {
		frontClass += " is-contain"
	}
	buf.WriteString(`<img class="` + frontClass + `" data-slot="a" src="` + html.EscapeString(first.Src) + `" alt="` + html.EscapeString(first.Alt) + `"/>`)
	buf.WriteString(`<img class="pt-carousel__slot" data-slot="b" alt="" aria-hidden="true"/>`)
	buf.WriteString(`</div>`)
	buf.WriteString(`<figcaption><span class="pt-carousel__caption">` + html.EscapeString(first.Caption) + `</span>`)
	buf.WriteString(`<span class="pt-carousel__counter">1 / ` + strconv.Itoa(len(slides)) + `</span></figcaption>`)
	buf.WriteString(`</figure>`)

	r.doc.Carousels = append(r.doc.Carousels, CarouselHandle{ID: id, Key: c.Key, Slides: slides, CrossfadeMS: ms})
	return id, true
}

// spans writes inline content. Footnotes are only expanded at the top
// level; a footnote inside a note renders as its text.
func (r *renderer) spans(buf *bytes.Buffer, spans []content.Span, footnotes bool) {
	for _, s := range spans {
		inner := strings.ReplaceAll(html.EscapeString(s.Text), "\n", "<br/>")
		inner = wrapDecorators(inner, s.Decorators)
		if footnotes && s.Footnote != nil && len(s.Footnote.Note) > 0 {
			r.footnoteSpan(buf, s, inner)
			continue
		}
		buf.WriteString(linked(inner, s.Link))
	}
}

// linked wraps inner in an anchor when link has a safe target.
func linked(inner string, link *content.Link) string {
	if link == nil {
		return inner
	}
	href := SafeURL(link.Href)
	if href == "" {
		return inner
	}
	attrs := ` href="` + href + `"`
	if link.Blank {
		attrs += ` target="_blank" rel="noopener noreferrer"`
	}
	return `<a` + attrs + `>` + inner + `</a>`
}

func (r *renderer) footnoteSpan(buf *bytes.Buffer, s content.Span, marker string) {
	var note bytes.Buffer
	for _, b := range s.Footnote.Note {
		switch b := b.(type) {
		case content.Paragraph:
			note.WriteString(`<p>`)
			r.spans(&note, b.Spans, false)
			note.WriteString(`</p>`)
		case content.Heading, content.Blockquote:
			note.WriteString(`<p>`)
			r.spans(&note, spansOf(b), false)
			note.WriteString(`</p>`)
		case content.Image:
			r.image(&note, b, false)
		}
	}
	if note.Len() == 0 {
		buf.WriteString(linked(marker, s.Link))
		return
	}
	n := r.registry.Add(s.Text, note.String())
	markerID := r.opts.IDPrefix + "fnref-" + n.ID
	r.doc.Footnotes = append(r.doc.Footnotes, FootnoteHandle{Note: n, MarkerID: markerID})

	// the marker is a button, which cannot hold a link
	buf.WriteString(`<span class="fn" id="` + markerID + `">`)
	buf.WriteString(`<button type="button" class="fn-marker fn-marker--` + n.Side.String() + `" data-fn="` + n.ID + `" aria-expanded="false">`)
	buf.WriteString(marker)
	buf.WriteString(`</button>`)
	buf.WriteString(`<template class="fn-note" data-fn="` + n.ID + `">` + n.HTML + `</template>`)
	buf.WriteString(`</span>`)
}

func spansOf(b content.Block) []content.Span {
	switch b := b.(type) {
	case content.Paragraph:
		return b.Spans
	case content.Heading:
		return b.Spans
	case content.Blockquote:
		return b.Spans
	}
	return nil
}

var decoratorTags = map[content.Decorator]string{
	content.Strong:        "strong",
	content.Em:            "em",
	content.Code:          "code",
	content.Underline:     "u",
	content.StrikeThrough: "s",
}

func wrapDecorators(s string, decorators []content.Decorator) string {
	for _, d := range decorators {
		if tag, ok := decoratorTags[d]; ok {
			s = `<` + tag + `>` + s + `</` + tag + `>`
		}
	}
	return s
}
