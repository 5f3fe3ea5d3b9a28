package content

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// rawBlock mirrors the Portable Text JSON shape used by the CMS.
type rawBlock struct {
	Type      string       `json:"_type"`
	Key       string       `json:"_key"`
	Style     string       `json:"style"`
	Children  []rawSpan    `json:"children"`
	MarkDefs  []rawMarkDef `json:"markDefs"`
	Asset     *rawAsset    `json:"asset"`
	Alt       string       `json:"alt"`
	Caption   string       `json:"caption"`
	Size      string       `json:"size"`
	Images    []rawBlock   `json:"images"`
	Crossfade float64      `json:"crossfade"` // milliseconds
}

type rawSpan struct {
	Type  string   `json:"_type"`
	Text  string   `json:"text"`
	Marks []string `json:"marks"`
}

type rawMarkDef struct {
	Key   string          `json:"_key"`
	Type  string          `json:"_type"`
	Href  string          `json:"href"`
	Blank bool            `json:"blank"`
	Note  json.RawMessage `json:"note"`
}

type rawAsset struct {
	Ref string `json:"_ref"`
	ID  string `json:"_id"`
}

func (a *rawAsset) ref() string {
	if a == nil {
		return ""
	}
	if a.Ref != "" {
		return a.Ref
	}
	return a.ID
}

// DecodeBlocks decodes a Portable Text array. Empty input and JSON null
// decode to no blocks.
func DecodeBlocks(data []byte) ([]Block, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil, nil
	}
	var raw []rawBlock
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode blocks: %w", err)
	}
	return convertBlocks(raw), nil
}

// BlocksFromValue decodes blocks from an already-parsed value, such as a
// YAML document node decoded into maps and slices.
func BlocksFromValue(v any) ([]Block, error) {
	if v == nil {
		return nil, nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode blocks: %w", err)
	}
	return DecodeBlocks(data)
}

// ImageFromValue decodes a single image object, such as a post cover.
func ImageFromValue(v any) (*Image, error) {
	if v == nil {
		return nil, nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode image: %w", err)
	}
	var raw rawBlock
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	img := convertImage(raw, "cover")
	if img.AssetRef == "" {
		return nil, nil
	}
	return &img, nil
}

func convertBlocks(raw []rawBlock) []Block {
	blocks := make([]Block, 0, len(raw))
	for i, rb := range raw {
		key := rb.Key
		if key == "" {
			key = "b" + strconv.Itoa(i)
		}
		switch rb.Type {
		case "block":
			blocks = append(blocks, convertTextBlock(rb, key))
		case "image":
			blocks = append(blocks, convertImage(rb, key))
		case "carousel":
			c := Carousel{Key: key, Crossfade: DefaultCrossfade}
			if rb.Crossfade > 0 {
				c.Crossfade = time.Duration(rb.Crossfade * float64(time.Millisecond))
			}
			for j, ri := range rb.Images {
				c.Images = append(c.Images, convertImage(ri, key+"-"+strconv.Itoa(j)))
			}
			blocks = append(blocks, c)
		default:
			blocks = append(blocks, Unknown{Key: key, Type: rb.Type})
		}
	}
	return blocks
}

func convertImage(rb rawBlock, key string) Image {
	if rb.Key != "" {
		key = rb.Key
	}
	img := Image{
		Key:      key,
		AssetRef: rb.Asset.ref(),
		Alt:      rb.Alt,
		Caption:  rb.Caption,
		Size:     SizeLarge,
	}
	switch Size(strings.ToLower(rb.Size)) {
	case SizeSmall:
		img.Size = SizeSmall
	case SizeMedium:
		img.Size = SizeMedium
	}
	return img
}

func convertTextBlock(rb rawBlock, key string) Block {
	spans := convertSpans(rb.Children, rb.MarkDefs)
	switch rb.Style {
	case "h1", "h2", "h3", "h4", "h5", "h6":
		return Heading{Key: key, Level: int(rb.Style[1] - '0'), Spans: spans}
	case "blockquote":
		return Blockquote{Key: key, Spans: spans}
	default:
		return Paragraph{Key: key, Spans: spans}
	}
}

func convertSpans(children []rawSpan, defs []rawMarkDef) []Span {
	byKey := make(map[string]rawMarkDef, len(defs))
	for _, d := range defs {
		byKey[d.Key] = d
	}
	notes := make(map[string]*Footnote)
	spans := make([]Span, 0, len(children))
	for _, child := range children {
		if child.Type != "" && child.Type != "span" {
			continue
		}
		span := Span{Text: child.Text}
		for _, m := range child.Marks {
			def, ok := byKey[m]
			if !ok {
				span.Decorators = append(span.Decorators, Decorator(m))
				continue
			}
			switch def.Type {
			case "link":
				span.Link = &Link{Href: def.Href, Blank: def.Blank}
			case "footnote":
				fn, ok := notes[def.Key]
				if !ok {
					fn = &Footnote{Key: def.Key, Note: decodeNote(def.Note)}
					notes[def.Key] = fn
				}
				span.Footnote = fn
			}
		}
		spans = append(spans, span)
	}
	return spans
}

// decodeNote accepts either a block array or a plain string.
func decodeNote(raw json.RawMessage) []Block {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil || s == "" {
			return nil
		}
		return []Block{Paragraph{Key: "note", Spans: []Span{{Text: s}}}}
	}
	blocks, err := DecodeBlocks(raw)
	if err != nil {
		return nil
	}
	return blocks
}
