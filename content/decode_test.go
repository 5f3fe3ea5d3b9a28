package content

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const samplePost = `[
  {"_type":"block","_key":"p1","style":"normal","markDefs":[
     {"_key":"l1","_type":"link","href":"https://example.com","blank":true},
     {"_key":"f1","_type":"footnote","note":[{"_type":"block","_key":"n1","children":[{"_type":"span","text":"A note."}]}]}
   ],
   "children":[
     {"_type":"span","text":"Hello "},
     {"_type":"span","text":"world","marks":["strong","l1"]},
     {"_type":"span","text":" again","marks":["f1"]}
   ]},
  {"_type":"block","_key":"h","style":"h2","children":[{"_type":"span","text":"Title"}]},
  {"_type":"block","_key":"q","style":"blockquote","children":[{"_type":"span","text":"Quote"}]},
  {"_type":"image","_key":"i1","asset":{"_ref":"image-abc123-2000x3000-jpg"},"alt":"Alt","size":"small"},
  {"_type":"carousel","_key":"c1","crossfade":400,"images":[
     {"_type":"image","asset":{"_ref":"image-a-10x10-png"}},
     {"_type":"image","asset":{"_id":"image-b-10x20-png"}}
  ]},
  {"_type":"video","_key":"v1"}
]`

func TestDecodeBlocks(t *testing.T) {
	blocks, err := DecodeBlocks([]byte(samplePost))
	require.NoError(t, err)
	require.Len(t, blocks, 6)

	p, ok := blocks[0].(Paragraph)
	require.True(t, ok, "first block should be a paragraph, got %T", blocks[0])
	require.Len(t, p.Spans, 3)
	assert.Equal(t, "Hello ", p.Spans[0].Text)
	assert.Equal(t, []Decorator{Strong}, p.Spans[1].Decorators)
	require.NotNil(t, p.Spans[1].Link)
	assert.Equal(t, Link{Href: "https://example.com", Blank: true}, *p.Spans[1].Link)
	require.NotNil(t, p.Spans[2].Footnote)
	assert.Equal(t, "f1", p.Spans[2].Footnote.Key)
	assert.Equal(t, "A note.", PlainText(p.Spans[2].Footnote.Note))

	assert.Equal(t, Heading{Key: "h", Level: 2, Spans: []Span{{Text: "Title"}}}, blocks[1])
	assert.Equal(t, Blockquote{Key: "q", Spans: []Span{{Text: "Quote"}}}, blocks[2])

	want := Image{Key: "i1", AssetRef: "image-abc123-2000x3000-jpg", Alt: "Alt", Size: SizeSmall}
	if diff := cmp.Diff(want, blocks[3]); diff != "" {
		t.Errorf("image block mismatch (-want +got):\n%s", diff)
	}

	c, ok := blocks[4].(Carousel)
	require.True(t, ok)
	assert.Equal(t, 400*time.Millisecond, c.Crossfade)
	require.Len(t, c.Images, 2)
	assert.Equal(t, "image-b-10x20-png", c.Images[1].AssetRef)

	assert.Equal(t, Unknown{Key: "v1", Type: "video"}, blocks[5])
}

func TestDecodeBlocksEmpty(t *testing.T) {
	for _, in := range []string{"", "  ", "null"} {
		blocks, err := DecodeBlocks([]byte(in))
		require.NoError(t, err)
		assert.Empty(t, blocks)
	}
	_, err := DecodeBlocks([]byte("{"))
	assert.Error(t, err)
}

func TestDecodeFootnoteSharedAcrossSpans(t *testing.T) {
	in := `[{"_type":"block","markDefs":[{"_key":"f","_type":"footnote","note":"plain note"}],
	  "children":[{"_type":"span","text":"one","marks":["f"]},{"_type":"span","text":"two","marks":["f","em"]}]}]`
	blocks, err := DecodeBlocks([]byte(in))
	require.NoError(t, err)
	p := blocks[0].(Paragraph)
	assert.Same(t, p.Spans[0].Footnote, p.Spans[1].Footnote)
	assert.Equal(t, "plain note", PlainText(p.Spans[0].Footnote.Note))
	assert.Equal(t, "b0", p.Key)
}

func TestBlocksFromValue(t *testing.T) {
	v := []any{
		map[string]any{
			"_type":    "block",
			"children": []any{map[string]any{"_type": "span", "text": "from yaml"}},
		},
	}
	blocks, err := BlocksFromValue(v)
	require.NoError(t, err)
	assert.Equal(t, "from yaml", PlainText(blocks))
}

func TestParseAsset(t *testing.T) {
	tests := []struct {
		ref  string
		want Asset
		ok   bool
	}{
		{"image-abc-1200x800-jpg", Asset{ID: "abc", Width: 1200, Height: 800, Format: "jpg"}, true},
		{"local-photo.jpg", Asset{Local: true, File: "photo.jpg"}, true},
		{"", Asset{}, false},
		{"image-abc-jpg", Asset{}, false},
		{"image-abc-0x800-jpg", Asset{}, false},
		{"file-abc-1x1-pdf", Asset{}, false},
		{"local-../etc/passwd", Asset{}, false},
		{"local-", Asset{}, false},
	}
	for _, tt := range tests {
		got, ok := ParseAsset(tt.ref)
		assert.Equal(t, tt.ok, ok, "ParseAsset(%q)", tt.ref)
		assert.Equal(t, tt.want, got, "ParseAsset(%q)", tt.ref)
	}
}

func TestPostLinkAndYear(t *testing.T) {
	p := Post{Kind: KindWork, Slug: "kiln", Date: "2023-05-01"}
	assert.Equal(t, "/works/kiln/", p.Link())
	assert.Equal(t, "2023", p.Year())

	p.Private = true
	assert.Equal(t, "/works/private/kiln/", p.Link())

	assert.Equal(t, "/blog/notes/", Post{Kind: KindBlog, Slug: "notes"}.Link())
	assert.Equal(t, "", Post{Date: "soon"}.Year())
}
