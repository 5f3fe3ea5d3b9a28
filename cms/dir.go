package cms

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/eringen/folio/content"
)

// IndexFile lists the collections of a content directory.
const IndexFile = "index.yaml"

// PostsDir holds one YAML file per post, named <slug>.yaml.
const PostsDir = "posts"

// Index is the decoded index.yaml:
//
//	collections:
//	  works:
//	    workPosts: [kiln-series, glaze-tests]
//	about: about-me
type Index struct {
	Collections map[string]map[string][]string `yaml:"collections"`
	About       string                         `yaml:"about"`
}

// PostFile is the YAML form of a post. Body is Markdown and is used when
// Content is empty; Content holds Portable Text blocks.
type PostFile struct {
	Title       string `yaml:"title"`
	Slug        string `yaml:"slug"`
	Date        string `yaml:"date"`
	Description string `yaml:"description"`
	Author      string `yaml:"author"`
	Kind        string `yaml:"kind"`
	Cover       any    `yaml:"cover,omitempty"`
	Content     any    `yaml:"content,omitempty"`
	CreditBox   any    `yaml:"creditbox,omitempty"`
	Body        string `yaml:"body,omitempty"`
	Credits     string `yaml:"credits,omitempty"`
}

// Dir reads content from a local directory.
type Dir struct {
	root string
}

// NewDir returns a source rooted at root.
func NewDir(root string) *Dir {
	return &Dir{root: root}
}

// Root returns the content directory.
func (d *Dir) Root() string { return d.root }

// Collection implements Source.
func (d *Dir) Collection(ctx context.Context, docType, field string) ([]content.Post, error) {
	idx, err := d.index()
	if err != nil {
		return nil, err
	}
	slugs := idx.Collections[docType][field]
	posts := make([]content.Post, 0, len(slugs))
	for _, slug := range slugs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		p, err := d.Post(ctx, slug)
		if err != nil {
			return nil, err
		}
		if p == nil {
			continue
		}
		posts = append(posts, *p)
	}
	SortNewestFirst(posts)
	return posts, nil
}

// Post implements Source.
func (d *Dir) Post(_ context.Context, slug string) (*content.Post, error) {
	if !validSlug(slug) {
		return nil, nil
	}
	data, err := os.ReadFile(filepath.Join(d.root, PostsDir, slug+".yaml"))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read post %s: %w", slug, err)
	}
	p, err := ParsePostFile(data)
	if err != nil {
		return nil, fmt.Errorf("parse post %s: %w", slug, err)
	}
	if p.Slug == "" {
		p.Slug = slug
	}
	return &p, nil
}

// About implements Source.
func (d *Dir) About(ctx context.Context) (*content.Post, error) {
	idx, err := d.index()
	if err != nil {
		return nil, err
	}
	if idx.About == "" {
		return nil, nil
	}
	p, err := d.Post(ctx, idx.About)
	if err != nil || p == nil {
		return p, err
	}
	p.Kind = content.KindAbout
	return p, nil
}

func (d *Dir) index() (Index, error) {
	var idx Index
	data, err := os.ReadFile(filepath.Join(d.root, IndexFile))
	if errors.Is(err, fs.ErrNotExist) {
		return idx, nil
	}
	if err != nil {
		return idx, fmt.Errorf("read index: %w", err)
	}
	if err := yaml.Unmarshal(data, &idx); err != nil {
		return idx, fmt.Errorf("parse index: %w", err)
	}
	return idx, nil
}

// ParsePostFile decodes a YAML post document.
func ParsePostFile(data []byte) (content.Post, error) {
	var pf PostFile
	if err := yaml.Unmarshal(data, &pf); err != nil {
		return content.Post{}, err
	}
	return pf.Post()
}

// Post converts the file into a content post.
func (pf PostFile) Post() (content.Post, error) {
	doc := document{
		Title:       pf.Title,
		Slug:        pf.Slug,
		Date:        pf.Date,
		Description: pf.Description,
		Author:      pf.Author,
		Kind:        pf.Kind,
	}
	var err error
	if doc.Content, err = rawJSON(pf.Content); err != nil {
		return content.Post{}, err
	}
	if doc.CreditBox, err = rawJSON(pf.CreditBox); err != nil {
		return content.Post{}, err
	}
	if doc.Cover, err = rawJSON(pf.Cover); err != nil {
		return content.Post{}, err
	}
	p, err := doc.post()
	if err != nil {
		return p, err
	}
	if len(p.Content) == 0 && strings.TrimSpace(pf.Body) != "" {
		p.Content = content.FromMarkdown([]byte(pf.Body))
		p.Images = content.ImagesOf(p.Content)
	}
	if len(p.CreditBox) == 0 && strings.TrimSpace(pf.Credits) != "" {
		p.CreditBox = content.FromMarkdown([]byte(pf.Credits))
	}
	return p, nil
}

func rawJSON(v any) (json.RawMessage, error) {
	if v == nil {
		return nil, nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode yaml value: %w", err)
	}
	return data, nil
}

func validSlug(slug string) bool {
	if slug == "" || strings.HasPrefix(slug, ".") {
		return false
	}
	return !strings.ContainsAny(slug, `/\`)
}
