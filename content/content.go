// Package content defines the rich-text document tree rendered by the site:
// posts made of typed blocks, spans carrying decorators and annotations,
// images, carousels and footnotes.
package content

import (
	"strconv"
	"strings"
	"time"
)

// Kind names the collection a post belongs to.
type Kind string

const (
	KindWork  Kind = "work"
	KindBlog  Kind = "blog"
	KindAbout Kind = "about"
)

// Post is a fetched document. It is immutable once built.
type Post struct {
	Kind        Kind
	Title       string
	Slug        string
	Date        string // 2006-01-02
	Description string
	Author      string
	Content     []Block
	CreditBox   []Block
	Cover       *Image
	Images      []Image // preview thumbnails for listings
	Private     bool
}

// Year returns the four-digit publish year, or "" when the date is unset.
func (p Post) Year() string {
	t, err := time.Parse("2006-01-02", p.Date)
	if err != nil {
		return ""
	}
	return strconv.Itoa(t.Year())
}

// Link returns the site-relative URL of the post.
func (p Post) Link() string {
	switch {
	case p.Private:
		return "/works/private/" + p.Slug + "/"
	case p.Kind == KindBlog:
		return "/blog/" + p.Slug + "/"
	case p.Kind == KindAbout:
		return "/about/"
	default:
		return "/works/" + p.Slug + "/"
	}
}

// Block is one top-level unit of a post body.
type Block interface {
	BlockKey() string
}

type Paragraph struct {
	Key   string
	Spans []Span
}

type Heading struct {
	Key   string
	Level int
	Spans []Span
}

type Blockquote struct {
	Key   string
	Spans []Span
}

// Size is the display size hint of an image block.
type Size string

const (
	SizeSmall  Size = "small"
	SizeMedium Size = "medium"
	SizeLarge  Size = "large"
)

// Width returns the delivery width requested for the size hint.
func (s Size) Width() int {
	switch s {
	case SizeSmall:
		return 600
	case SizeMedium:
		return 900
	default:
		return 1200
	}
}

// Image references a CMS or locally uploaded asset.
type Image struct {
	Key      string
	AssetRef string
	Alt      string
	Caption  string
	Size     Size
}

// Dimensions returns the natural size encoded in the asset reference.
func (i Image) Dimensions() (w, h int, ok bool) {
	a, ok := ParseAsset(i.AssetRef)
	if !ok || a.Width == 0 || a.Height == 0 {
		return 0, 0, false
	}
	return a.Width, a.Height, true
}

// Carousel is an ordered set of images cycled on click.
type Carousel struct {
	Key       string
	Images    []Image
	Crossfade time.Duration
}

// DefaultCrossfade is used when a carousel does not set its own duration.
const DefaultCrossfade = 600 * time.Millisecond

// Unknown keeps the type name of blocks the renderer does not handle.
type Unknown struct {
	Key  string
	Type string
}

func (b Paragraph) BlockKey() string  { return b.Key }
func (b Heading) BlockKey() string    { return b.Key }
func (b Blockquote) BlockKey() string { return b.Key }
func (b Image) BlockKey() string      { return b.Key }
func (b Carousel) BlockKey() string   { return b.Key }
func (b Unknown) BlockKey() string    { return b.Key }

// Decorator is a formatting mark without data.
type Decorator string

const (
	Strong        Decorator = "strong"
	Em            Decorator = "em"
	Code          Decorator = "code"
	Underline     Decorator = "underline"
	StrikeThrough Decorator = "strike-through"
)

// Span is a run of text with optional marks.
type Span struct {
	Text       string
	Decorators []Decorator
	Link       *Link
	Footnote   *Footnote
}

// Link annotates a span with a target URL.
type Link struct {
	Href  string
	Blank bool
}

// Footnote annotates a span with a note, itself a small block tree.
type Footnote struct {
	Key  string
	Note []Block
}

// SpansText concatenates the visible text of spans.
func SpansText(spans []Span) string {
	var b strings.Builder
	for _, s := range spans {
		b.WriteString(s.Text)
	}
	return b.String()
}

// PlainText returns the visible text of blocks, one line per block.
func PlainText(blocks []Block) string {
	var lines []string
	for _, blk := range blocks {
		switch b := blk.(type) {
		case Paragraph:
			lines = append(lines, SpansText(b.Spans))
		case Heading:
			lines = append(lines, SpansText(b.Spans))
		case Blockquote:
			lines = append(lines, SpansText(b.Spans))
		case Image:
			if b.Caption != "" {
				lines = append(lines, b.Caption)
			}
		}
	}
	return strings.Join(lines, "\n")
}

// ImagesOf returns every image of blocks in order, expanding carousels.
func ImagesOf(blocks []Block) []Image {
	var out []Image
	for _, blk := range blocks {
		switch b := blk.(type) {
		case Image:
			out = append(out, b)
		case Carousel:
			out = append(out, b.Images...)
		}
	}
	return out
}
