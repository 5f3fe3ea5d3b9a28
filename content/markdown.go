package content

import (
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
)

var markdown = goldmark.New(goldmark.WithExtensions(extension.Footnote))

// FromMarkdown converts Markdown into blocks.
//
// Paragraphs holding a single image become image blocks; paragraphs holding
// only images become carousels. A footnote reference annotates the word
// right before it. Markdown constructs without a block equivalent (lists,
// code blocks, tables) are dropped.
func FromMarkdown(src []byte) []Block {
	doc := markdown.Parser().Parse(text.NewReader(src))
	c := &mdConverter{src: src, notes: make(map[int][]Block)}

	// Footnote definitions are appended after the body; collect them first
	// so references can point at their notes.
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		list, ok := n.(*east.FootnoteList)
		if !ok {
			continue
		}
		for f := list.FirstChild(); f != nil; f = f.NextSibling() {
			if fn, ok := f.(*east.Footnote); ok {
				c.notes[fn.Index] = c.blocks(fn)
			}
		}
	}
	return c.blocks(doc)
}

type mdConverter struct {
	src   []byte
	notes map[int][]Block
}

type inlineState struct {
	decorators []Decorator
	link       *Link
}

func (c *mdConverter) blocks(parent ast.Node) []Block {
	var out []Block
	for n := parent.FirstChild(); n != nil; n = n.NextSibling() {
		switch node := n.(type) {
		case *ast.Paragraph:
			if blk, ok := c.imageParagraph(node); ok {
				out = append(out, blk)
				continue
			}
			if spans := c.inlines(node); len(spans) > 0 {
				out = append(out, Paragraph{Key: newKey(), Spans: spans})
			}
		case *ast.TextBlock:
			if spans := c.inlines(node); len(spans) > 0 {
				out = append(out, Paragraph{Key: newKey(), Spans: spans})
			}
		case *ast.Heading:
			out = append(out, Heading{Key: newKey(), Level: node.Level, Spans: c.inlines(node)})
		case *ast.Blockquote:
			var spans []Span
			for p := node.FirstChild(); p != nil; p = p.NextSibling() {
				if len(spans) > 0 {
					spans = append(spans, Span{Text: "\n"})
				}
				spans = append(spans, c.inlines(p)...)
			}
			out = append(out, Blockquote{Key: newKey(), Spans: spans})
		}
	}
	return out
}

// imageParagraph reports whether p holds nothing but images.
func (c *mdConverter) imageParagraph(p *ast.Paragraph) (Block, bool) {
	var images []Image
	for n := p.FirstChild(); n != nil; n = n.NextSibling() {
		switch node := n.(type) {
		case *ast.Image:
			images = append(images, Image{
				Key:      newKey(),
				AssetRef: string(node.Destination),
				Alt:      c.plain(node),
				Caption:  string(node.Title),
				Size:     SizeLarge,
			})
		case *ast.Text:
			if strings.TrimSpace(string(node.Segment.Value(c.src))) != "" {
				return nil, false
			}
		default:
			return nil, false
		}
	}
	switch len(images) {
	case 0:
		return nil, false
	case 1:
		return images[0], true
	default:
		return Carousel{Key: newKey(), Images: images, Crossfade: DefaultCrossfade}, true
	}
}

func (c *mdConverter) inlines(parent ast.Node) []Span {
	var spans []Span
	c.walkInline(parent, inlineState{}, &spans)
	return spans
}

func (c *mdConverter) walkInline(parent ast.Node, st inlineState, spans *[]Span) {
	for n := parent.FirstChild(); n != nil; n = n.NextSibling() {
		switch node := n.(type) {
		case *ast.Text:
			t := string(node.Segment.Value(c.src))
			if node.SoftLineBreak() {
				t += " "
			}
			if node.HardLineBreak() {
				t += "\n"
			}
			appendSpan(spans, st, t)
		case *ast.String:
			appendSpan(spans, st, string(node.Value))
		case *ast.CodeSpan:
			inner := st
			inner.decorators = withDecorator(st.decorators, Code)
			appendSpan(spans, inner, c.plain(node))
		case *ast.Emphasis:
			inner := st
			if node.Level >= 2 {
				inner.decorators = withDecorator(st.decorators, Strong)
			} else {
				inner.decorators = withDecorator(st.decorators, Em)
			}
			c.walkInline(node, inner, spans)
		case *ast.Link:
			inner := st
			inner.link = &Link{Href: string(node.Destination)}
			c.walkInline(node, inner, spans)
		case *ast.AutoLink:
			inner := st
			inner.link = &Link{Href: string(node.URL(c.src))}
			appendSpan(spans, inner, string(node.Label(c.src)))
		case *east.FootnoteLink:
			c.attachFootnote(spans, node.Index)
		case *east.FootnoteBacklink:
		default:
			c.walkInline(node, st, spans)
		}
	}
}

// attachFootnote moves the last word of the preceding span into its own
// span carrying the note.
func (c *mdConverter) attachFootnote(spans *[]Span, index int) {
	fn := &Footnote{Key: newKey(), Note: c.notes[index]}
	s := *spans
	if len(s) == 0 || s[len(s)-1].Footnote != nil || strings.TrimSpace(s[len(s)-1].Text) == "" {
		*spans = append(s, Span{Text: strconv.Itoa(index), Footnote: fn})
		return
	}
	last := s[len(s)-1]
	body := strings.TrimRight(last.Text, " ")
	cut := strings.LastIndexAny(body, " \n")
	word := body[cut+1:]
	marked := last
	marked.Text = word
	marked.Footnote = fn
	if cut < 0 {
		s[len(s)-1] = marked
		*spans = s
		return
	}
	last.Text = body[:cut+1]
	s[len(s)-1] = last
	*spans = append(s, marked)
}

func (c *mdConverter) plain(parent ast.Node) string {
	var b strings.Builder
	for n := parent.FirstChild(); n != nil; n = n.NextSibling() {
		switch node := n.(type) {
		case *ast.Text:
			b.Write(node.Segment.Value(c.src))
		case *ast.String:
			b.Write(node.Value)
		default:
			b.WriteString(c.plain(node))
		}
	}
	return b.String()
}

func appendSpan(spans *[]Span, st inlineState, t string) {
	if t == "" {
		return
	}
	s := *spans
	if n := len(s); n > 0 {
		prev := &s[n-1]
		if prev.Footnote == nil && prev.Link == st.link && sameDecorators(prev.Decorators, st.decorators) {
			prev.Text += t
			return
		}
	}
	*spans = append(s, Span{Text: t, Decorators: st.decorators, Link: st.link})
}

func withDecorator(ds []Decorator, d Decorator) []Decorator {
	out := make([]Decorator, 0, len(ds)+1)
	out = append(out, ds...)
	return append(out, d)
}

func sameDecorators(a, b []Decorator) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func newKey() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
}
