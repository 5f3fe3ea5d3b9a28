package content

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromMarkdownBlocks(t *testing.T) {
	src := "# Title\n\nSome **bold** and [a link](https://example.com).\n\n> quoted\n\n![Alt](image-abc-10x10-jpg \"Caption\")\n"
	blocks := FromMarkdown([]byte(src))
	require.Len(t, blocks, 4)

	h, ok := blocks[0].(Heading)
	require.True(t, ok)
	assert.Equal(t, 1, h.Level)
	assert.Equal(t, "Title", SpansText(h.Spans))

	p, ok := blocks[1].(Paragraph)
	require.True(t, ok)
	assert.Equal(t, "Some bold and a link.", SpansText(p.Spans))
	var sawBold, sawLink bool
	for _, s := range p.Spans {
		if s.Text == "bold" && len(s.Decorators) == 1 && s.Decorators[0] == Strong {
			sawBold = true
		}
		if s.Link != nil && s.Link.Href == "https://example.com" && s.Text == "a link" {
			sawLink = true
		}
	}
	assert.True(t, sawBold, "bold span missing: %+v", p.Spans)
	assert.True(t, sawLink, "link span missing: %+v", p.Spans)

	q, ok := blocks[2].(Blockquote)
	require.True(t, ok)
	assert.Equal(t, "quoted", SpansText(q.Spans))

	img, ok := blocks[3].(Image)
	require.True(t, ok)
	assert.Equal(t, "image-abc-10x10-jpg", img.AssetRef)
	assert.Equal(t, "Alt", img.Alt)
	assert.Equal(t, "Caption", img.Caption)
}

func TestFromMarkdownCarousel(t *testing.T) {
	src := "![a](local-a.jpg)\n![b](local-b.jpg)\n![c](local-c.jpg)\n"
	blocks := FromMarkdown([]byte(src))
	require.Len(t, blocks, 1)
	c, ok := blocks[0].(Carousel)
	require.True(t, ok, "got %T", blocks[0])
	require.Len(t, c.Images, 3)
	assert.Equal(t, "local-c.jpg", c.Images[2].AssetRef)
	assert.Equal(t, DefaultCrossfade, c.Crossfade)
}

func TestFromMarkdownFootnoteAnnotatesPrecedingWord(t *testing.T) {
	src := "The kiln cracked[^1] overnight.\n\n[^1]: Thermal shock.\n"
	blocks := FromMarkdown([]byte(src))
	require.Len(t, blocks, 1)
	p := blocks[0].(Paragraph)

	var fn *Span
	for i := range p.Spans {
		if p.Spans[i].Footnote != nil {
			fn = &p.Spans[i]
		}
	}
	require.NotNil(t, fn, "no footnote span in %+v", p.Spans)
	assert.Equal(t, "cracked", fn.Text)
	assert.Equal(t, "Thermal shock.", PlainText(fn.Footnote.Note))
	assert.Equal(t, "The kiln cracked overnight.", SpansText(p.Spans))
}
