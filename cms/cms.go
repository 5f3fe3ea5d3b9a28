// Package cms fetches posts from a content backend: a hosted Sanity
// dataset queried over HTTP, or a local directory of YAML documents.
package cms

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"sort"

	"github.com/eringen/folio/content"
)

// Source is a read-only content backend. A missing document is reported
// as a nil post and a nil error; errors mean the backend failed.
type Source interface {
	// Collection returns the posts referenced by field of the first
	// document of docType, newest first.
	Collection(ctx context.Context, docType, field string) ([]content.Post, error)
	// Post returns the post with slug.
	Post(ctx context.Context, slug string) (*content.Post, error)
	// About returns the post linked from the about document.
	About(ctx context.Context) (*content.Post, error)
}

var identRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// validIdent reports whether s can be spliced into a query as a field name.
func validIdent(s string) error {
	if !identRe.MatchString(s) {
		return fmt.Errorf("invalid field name %q", s)
	}
	return nil
}

// document is the post shape shared by the JSON and YAML backends.
type document struct {
	Title       string          `json:"title" yaml:"title"`
	Slug        string          `json:"slug" yaml:"slug"`
	Date        string          `json:"postDate" yaml:"date"`
	Description string          `json:"postDescription" yaml:"description"`
	Author      string          `json:"postAuthor" yaml:"author"`
	Kind        string          `json:"kind" yaml:"kind"`
	Cover       json.RawMessage `json:"postImage" yaml:"-"`
	Content     json.RawMessage `json:"content" yaml:"-"`
	CreditBox   json.RawMessage `json:"creditbox" yaml:"-"`
	Images      json.RawMessage `json:"images" yaml:"-"`
}

func (d document) post() (content.Post, error) {
	p := content.Post{
		Kind:        content.Kind(d.Kind),
		Title:       d.Title,
		Slug:        d.Slug,
		Date:        d.Date,
		Description: d.Description,
		Author:      d.Author,
	}
	if p.Kind == "" {
		p.Kind = content.KindWork
	}
	var err error
	if p.Content, err = content.DecodeBlocks(d.Content); err != nil {
		return p, fmt.Errorf("post %s content: %w", d.Slug, err)
	}
	if p.CreditBox, err = content.DecodeBlocks(d.CreditBox); err != nil {
		return p, fmt.Errorf("post %s creditbox: %w", d.Slug, err)
	}
	if len(d.Cover) > 0 && string(d.Cover) != "null" {
		var v any
		if err := json.Unmarshal(d.Cover, &v); err != nil {
			return p, fmt.Errorf("post %s cover: %w", d.Slug, err)
		}
		if p.Cover, err = content.ImageFromValue(v); err != nil {
			return p, fmt.Errorf("post %s cover: %w", d.Slug, err)
		}
	}
	thumbs, err := content.DecodeBlocks(d.Images)
	if err != nil {
		return p, fmt.Errorf("post %s images: %w", d.Slug, err)
	}
	for _, b := range thumbs {
		if img, ok := b.(content.Image); ok {
			p.Images = append(p.Images, img)
		}
	}
	if len(p.Images) == 0 {
		p.Images = content.ImagesOf(p.Content)
	}
	return p, nil
}

// SortNewestFirst orders posts by date, newest first. Posts with equal
// dates keep their order.
func SortNewestFirst(posts []content.Post) {
	sort.SliceStable(posts, func(i, j int) bool { return posts[i].Date > posts[j].Date })
}
