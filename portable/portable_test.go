package portable

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/eringen/folio/carousel"
	"github.com/eringen/folio/cms"
	"github.com/eringen/folio/content"
	"github.com/eringen/folio/footnote"
)

var resolver = cms.Resolver{ProjectID: "proj", Dataset: "production"}

func para(key string, spans ...content.Span) content.Paragraph {
	return content.Paragraph{Key: key, Spans: spans}
}

func img(key, ref, caption string) content.Image {
	return content.Image{Key: key, AssetRef: ref, Caption: caption, Size: content.SizeLarge}
}

func TestRenderKeepsOrderAndSkipsUnrenderable(t *testing.T) {
	blocks := []content.Block{
		para("p1", content.Span{Text: "Hello"}),
		content.Unknown{Key: "u", Type: "codeBlock"},
		img("i1", "image-img1-800x600-jpg", ""),
		img("bad", "not-a-ref", ""),
		content.Image{Key: "none"},
		content.Carousel{Key: "c1", Images: []content.Image{
			img("a", "image-a-10x10-jpg", "A"),
			img("b", "image-b-10x10-jpg", "B"),
			img("c", "image-c-10x10-jpg", "C"),
		}},
		content.Carousel{Key: "empty", Images: []content.Image{img("x", "", "")}},
	}
	doc := Render(blocks, Options{Resolver: resolver})

	kinds := make([]string, len(doc.Nodes))
	for i, n := range doc.Nodes {
		kinds[i] = n.Kind
	}
	assert.Equal(t, []string{"paragraph", "image", "carousel"}, kinds)
	assert.Equal(t, []int{0, 2, 5}, []int{doc.Nodes[0].Index, doc.Nodes[1].Index, doc.Nodes[2].Index})

	out := doc.HTML()
	iP := strings.Index(out, "Hello")
	iImg := strings.Index(out, "img1-800x600.jpg")
	iCar := strings.Index(out, "data-carousel")
	require.True(t, iP >= 0 && iImg >= 0 && iCar >= 0, out)
	assert.True(t, iP < iImg && iImg < iCar, "blocks out of order: %s", out)
	assert.NotContains(t, out, "not-a-ref")

	require.Len(t, doc.Images, 1)
	assert.Equal(t, 800, doc.Images[0].Width)
	assert.Contains(t, doc.Images[0].Src, "w=1200")
}

func TestRenderWithoutResolverDropsImages(t *testing.T) {
	doc := Render([]content.Block{img("i", "image-a-1x1-jpg", "")}, Options{})
	assert.Empty(t, doc.Nodes)
	assert.Empty(t, doc.HTML())
}

func TestRenderSpans(t *testing.T) {
	blocks := []content.Block{
		content.Heading{Key: "h", Level: 9, Spans: []content.Span{{Text: "Big <title>"}}},
		para("p",
			content.Span{Text: "bold", Decorators: []content.Decorator{content.Strong, content.Em}},
			content.Span{Text: " "},
			content.Span{Text: "site", Link: &content.Link{Href: "https://example.com", Blank: true}},
			content.Span{Text: " "},
			content.Span{Text: "bad", Link: &content.Link{Href: "javascript:alert(1)"}},
		),
		content.Blockquote{Key: "q", Spans: []content.Span{{Text: "quoted", Decorators: []content.Decorator{"unknown"}}}},
	}
	out := Render(blocks, Options{}).HTML()
	assert.Contains(t, out, `<h6 id="n-h">Big &lt;title&gt;</h6>`)
	assert.Contains(t, out, `<em><strong>bold</strong></em>`)
	assert.Contains(t, out, `<a href="https://example.com" target="_blank" rel="noopener noreferrer">site</a>`)
	assert.NotContains(t, out, "javascript")
	assert.Contains(t, out, " bad</p>")
	assert.Contains(t, out, `<blockquote id="n-q"><p>quoted</p></blockquote>`)
}

func TestRenderFootnotes(t *testing.T) {
	note := &content.Footnote{Key: "f", Note: []content.Block{
		para("n", content.Span{Text: "Thermal shock."}),
		img("ni", "image-n-4x3-jpg", ""),
	}}
	blocks := []content.Block{para("p",
		content.Span{Text: "The kiln "},
		content.Span{Text: "cracked", Footnote: note},
		content.Span{Text: "."},
	)}
	doc := Render(blocks, Options{Resolver: resolver})

	require.Len(t, doc.Footnotes, 1)
	fn := doc.Footnotes[0]
	want := footnote.Register("cracked", fn.HTML)
	assert.Equal(t, want.ID, fn.ID)
	assert.Equal(t, want.Side, fn.Side)
	assert.Equal(t, "fnref-"+fn.ID, fn.MarkerID)
	assert.Contains(t, fn.HTML, "<p>Thermal shock.</p>")
	assert.Empty(t, doc.Images, "note images are not lightbox targets")

	out := doc.HTML()
	assert.Contains(t, out, `data-fn="`+fn.ID+`"`)
	assert.Contains(t, out, `<template class="fn-note"`)

	var margin bytes.Buffer
	require.NoError(t, MarginNotes(doc).Render(context.Background(), &margin))
	assert.Contains(t, margin.String(), `fn-margin--`+fn.Side.String())
	assert.Equal(t, 1, strings.Count(margin.String(), `class="fn-margin-note"`))
}

func TestFootnotePlacementIgnoresOtherNotes(t *testing.T) {
	target := content.Span{Text: "glaze", Footnote: &content.Footnote{Note: []content.Block{para("n", content.Span{Text: "Cone 6."})}}}
	other := func(s string) content.Span {
		return content.Span{Text: s, Footnote: &content.Footnote{Note: []content.Block{para("n", content.Span{Text: s + " note"})}}}
	}

	a := Render([]content.Block{para("p", target)}, Options{})
	b := Render([]content.Block{para("p", other("x"), other("y"), target), para("q", other("z"))}, Options{})

	find := func(d *Document) footnote.Note {
		for _, f := range d.Footnotes {
			if f.Text == "glaze" {
				return f.Note
			}
		}
		t.Fatal("glaze footnote missing")
		return footnote.Note{}
	}
	assert.Empty(t, cmp.Diff(find(a), find(b)))
}

func TestEmptyFootnoteRendersPlainText(t *testing.T) {
	doc := Render([]content.Block{para("p", content.Span{Text: "word", Footnote: &content.Footnote{}})}, Options{})
	assert.Empty(t, doc.Footnotes)
	assert.Equal(t, `<p id="n-p">word</p>`, doc.HTML())
}

func TestDuplicateKeysGetUniqueIDs(t *testing.T) {
	doc := Render([]content.Block{para("k"), para("k"), para("bad key!")}, Options{IDPrefix: "post-"})
	ids := []string{doc.Nodes[0].ID, doc.Nodes[1].ID, doc.Nodes[2].ID}
	assert.Equal(t, []string{"post-n-k", "post-n-k-2", "post-n-bad_key_"}, ids)
}

func TestManifestScript(t *testing.T) {
	doc := Render([]content.Block{para("p", content.Span{Text: "</script>"})}, Options{})
	var buf bytes.Buffer
	require.NoError(t, ManifestScript("doc", doc).Render(context.Background(), &buf))
	out := buf.String()
	assert.True(t, strings.HasPrefix(out, `<script type="application/json" id="doc">`))

	body := strings.TrimSuffix(strings.TrimPrefix(out, `<script type="application/json" id="doc">`), `</script>`)
	var decoded Document
	require.NoError(t, json.Unmarshal([]byte(body), &decoded))
	assert.Len(t, decoded.Nodes, 1)
}

func TestSafeURL(t *testing.T) {
	tests := map[string]string{
		"https://example.com/a?b=1&c=2": "https://example.com/a?b=1&amp;c=2",
		"mailto:me@example.com":         "mailto:me@example.com",
		"/works/":                       "/works/",
		"#fn":                           "#fn",
		"javascript:alert(1)":           "",
		"data:text/html,x":              "",
		"//evil.example":                "",
		"relative/path":                 "",
		"":                              "",
	}
	for in, want := range tests {
		assert.Equal(t, want, SafeURL(in), in)
	}
}

// instantLoader decodes every image immediately.
type instantLoader struct{}

func (instantLoader) Load(ctx context.Context, src string) (carousel.Size, error) {
	return carousel.Size{Width: 4, Height: 3}, ctx.Err()
}

type slotView struct {
	mu    sync.Mutex
	front string
	order []string
}

func (v *slotView) Prepare(_ carousel.Slot, item carousel.Item, _ carousel.Fit) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.front = item.Caption
}

func (v *slotView) Crossfade(_, _ carousel.Slot, _ time.Duration) {}

func (v *slotView) Show(_, _ int, caption string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.order = append(v.order, caption)
}

func TestPostRendersAndCarouselCycles(t *testing.T) {
	defer goleak.VerifyNone(t)

	post := content.Post{Content: []content.Block{
		para("p", content.Span{Text: "Hello"}),
		img("img1", "image-img1-800x600-jpg", ""),
		content.Carousel{Key: "car", Images: []content.Image{
			img("a", "image-a-10x10-jpg", "A"),
			img("b", "image-b-10x10-jpg", "B"),
			img("c", "image-c-10x10-jpg", "C"),
		}},
	}}
	doc := Render(post.Content, Options{Resolver: resolver})
	require.Len(t, doc.Nodes, 3)
	require.Len(t, doc.Carousels, 1)

	h := doc.Carousels[0]
	items := make([]carousel.Item, len(h.Slides))
	for i, s := range h.Slides {
		items[i] = carousel.Item{Src: s.Src, Caption: s.Caption}
	}
	view := &slotView{}
	eng := carousel.New(items, 0, instantLoader{}, view, carousel.WithCooldown(0))
	eng.Mount()
	defer eng.Unmount()

	for i := 0; i < 3; i++ {
		require.True(t, eng.Advance())
		require.Eventually(t, func() bool { return !eng.State().Locked }, time.Second, time.Millisecond)
	}
	view.mu.Lock()
	defer view.mu.Unlock()
	assert.Equal(t, []string{"A", "B", "C", "A"}, view.order)
	assert.Equal(t, 600*time.Millisecond, h.Crossfade())
}

func TestFootnotePlacementIgnoresNoteImages(t *testing.T) {
	noteWith := func(text, ref string) content.Span {
		return content.Span{Text: text, Footnote: &content.Footnote{Note: []content.Block{
			para("b0", content.Span{Text: text + " note"}),
			img("b0", ref, ""),
		}}}
	}
	target := noteWith("slip", "image-y-4x3-jpg")

	alone := Render([]content.Block{para("p1", target)}, Options{Resolver: resolver})
	crowded := Render([]content.Block{
		para("p0", noteWith("bisque", "image-x-4x3-jpg")),
		para("p1", target),
	}, Options{Resolver: resolver, IDPrefix: "post-"})

	require.Len(t, alone.Footnotes, 1)
	require.Len(t, crowded.Footnotes, 2)
	assert.Empty(t, cmp.Diff(alone.Footnotes[0].Note, crowded.Footnotes[1].Note))
	assert.NotContains(t, crowded.Footnotes[0].HTML, "id=")
	assert.NotContains(t, crowded.Footnotes[1].HTML, "id=")
}

func TestImageAltFallsBackToCaption(t *testing.T) {
	doc := Render([]content.Block{
		img("i1", "image-a-4x3-jpg", "Kiln at dusk"),
		content.Image{Key: "i2", AssetRef: "image-b-4x3-jpg", Alt: "Shelf", Caption: "ignored"},
		content.Carousel{Key: "c", Images: []content.Image{img("s", "image-c-4x3-jpg", "Slide")}},
	}, Options{Resolver: resolver})

	require.Len(t, doc.Images, 2)
	assert.Equal(t, "Kiln at dusk", doc.Images[0].Alt)
	assert.Equal(t, "Shelf", doc.Images[1].Alt)
	assert.Contains(t, doc.HTML(), `alt="Kiln at dusk"`)
	require.Len(t, doc.Carousels, 1)
	assert.Equal(t, "Slide", doc.Carousels[0].Slides[0].Alt)
}

func TestCarouselFrontSlotFit(t *testing.T) {
	tests := []struct {
		name    string
		ref     string
		contain bool
	}{
		{"landscape", "image-a-800x600-jpg", false},
		{"portrait", "image-a-600x800-jpg", true},
		{"square", "image-a-500x500-jpg", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := Render([]content.Block{content.Carousel{Key: "c", Images: []content.Image{
				img("a", tt.ref, ""),
				img("b", "image-b-800x600-jpg", ""),
			}}}, Options{Resolver: resolver}).HTML()
			if tt.contain {
				assert.Contains(t, out, `class="pt-carousel__slot is-front is-contain"`)
			} else {
				assert.Contains(t, out, `class="pt-carousel__slot is-front"`)
			}
		})
	}
}

func TestLinkedFootnoteMarkerHasNoAnchor(t *testing.T) {
	span := content.Span{
		Text:     "Leach",
		Link:     &content.Link{Href: "https://example.com"},
		Footnote: &content.Footnote{Note: []content.Block{para("n", content.Span{Text: "Potter."})}},
	}
	out := Render([]content.Block{para("p", span)}, Options{}).HTML()

	start := strings.Index(out, "<button")
	end := strings.Index(out, "</button>")
	require.True(t, start >= 0 && end > start, out)
	assert.NotContains(t, out[start:end], "<a")
	assert.Contains(t, out[start:end], "Leach")

	plain := Render([]content.Block{para("p", content.Span{Text: "Leach", Link: span.Link, Footnote: &content.Footnote{}})}, Options{}).HTML()
	assert.Contains(t, plain, `<a href="https://example.com">Leach</a>`)
}

func TestMarkerIDs(t *testing.T) {
	note := func(s string) content.Span {
		return content.Span{Text: s, Footnote: &content.Footnote{Note: []content.Block{para("n", content.Span{Text: s})}}}
	}
	doc := Render([]content.Block{para("p", note("a"), note("a"), note("b"))}, Options{IDPrefix: "post-"})
	require.Len(t, doc.Footnotes, 3)

	ids := doc.MarkerIDs()
	require.Len(t, ids, 3)
	for _, f := range doc.Footnotes {
		assert.Equal(t, "post-fnref-"+f.ID, ids[f.ID])
		assert.Contains(t, doc.HTML(), `id="`+ids[f.ID]+`"`)
	}
}
