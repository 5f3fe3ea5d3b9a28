package cms

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eringen/folio/content"
)

func sanityServer(t *testing.T, handle func(query string, params map[string]string) (int, string)) *Sanity {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2023-10-01/data/query/production", r.URL.Path)
		params := map[string]string{}
		for k, v := range r.URL.Query() {
			if strings.HasPrefix(k, "$") {
				params[k[1:]] = v[0]
			}
		}
		status, body := handle(r.URL.Query().Get("query"), params)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return NewSanity(SanityConfig{ProjectID: "proj"}, WithBaseURL(srv.URL))
}

func TestSanityPost(t *testing.T) {
	s := sanityServer(t, func(q string, params map[string]string) (int, string) {
		assert.Contains(t, q, `slug.current == $slug`)
		assert.Equal(t, `"kiln"`, params["slug"])
		return 200, `{"result":{
			"title":"Kiln","slug":"kiln","postDate":"2024-03-01",
			"postImage":{"asset":{"_ref":"image-abc-800x600-jpg"}},
			"content":[
				{"_type":"block","_key":"p1","style":"normal","children":[{"_type":"span","text":"Hello"}]},
				{"_type":"image","_key":"i1","asset":{"_ref":"image-def-10x20-png"}}
			]}}`
	})
	p, err := s.Post(context.Background(), "kiln")
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, "Kiln", p.Title)
	assert.Equal(t, "2024", p.Year())
	require.NotNil(t, p.Cover)
	assert.Equal(t, "image-abc-800x600-jpg", p.Cover.AssetRef)
	require.Len(t, p.Content, 2)
	require.Len(t, p.Images, 1)
}

func TestSanityPostNotFound(t *testing.T) {
	s := sanityServer(t, func(string, map[string]string) (int, string) {
		return 200, `{"result":null}`
	})
	p, err := s.Post(context.Background(), "missing")
	require.NoError(t, err)
	assert.Nil(t, p)
}

func TestSanityCollection(t *testing.T) {
	s := sanityServer(t, func(q string, params map[string]string) (int, string) {
		assert.Contains(t, q, `[0].workPosts[]->`)
		assert.Equal(t, `"works"`, params["type"])
		return 200, `{"result":[
			{"title":"B","slug":"b","postDate":"2024-02-01","images":[{"_type":"image","_key":"x","asset":{"_ref":"image-x-4x3-jpg"}}]},
			{"title":"A","slug":"a","postDate":"2023-01-01"}
		]}`
	})
	posts, err := s.Collection(context.Background(), "works", "workPosts")
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, "b", posts[0].Slug)
	require.Len(t, posts[0].Images, 1)
	assert.Equal(t, "image-x-4x3-jpg", posts[0].Images[0].AssetRef)
}

func TestSanityRejectsFieldInjection(t *testing.T) {
	s := NewSanity(SanityConfig{ProjectID: "proj"}, WithBaseURL("http://127.0.0.1:0"))
	_, err := s.Collection(context.Background(), "works", "posts[0]}")
	assert.Error(t, err)
}

func TestSanityErrors(t *testing.T) {
	s := sanityServer(t, func(string, map[string]string) (int, string) {
		return 400, `{"error":{"description":"expected '}'"}}`
	})
	_, err := s.About(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected '}'")

	s = sanityServer(t, func(string, map[string]string) (int, string) {
		return 502, `bad gateway`
	})
	_, err = s.Post(context.Background(), "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

func TestSanityAbout(t *testing.T) {
	s := sanityServer(t, func(q string, _ map[string]string) (int, string) {
		assert.Contains(t, q, `aboutPost->`)
		return 200, `{"result":{"aboutPost":{"title":"About","slug":"about-me"}}}`
	})
	p, err := s.About(context.Background())
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, content.KindAbout, p.Kind)
	assert.Equal(t, "/about/", p.Link())
}

func TestSanityToken(t *testing.T) {
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		_ = json.NewEncoder(w).Encode(map[string]any{"result": nil})
	}))
	defer srv.Close()
	s := NewSanity(SanityConfig{ProjectID: "p", Token: "secret"}, WithBaseURL(srv.URL))
	_, err := s.Post(context.Background(), "x")
	require.NoError(t, err)
	assert.Equal(t, "Bearer secret", auth)
}

func writeFile(t *testing.T, path, data string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))
}

func TestDirSource(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, IndexFile), `
collections:
  works:
    workPosts: [old, new, missing]
about: me
`)
	writeFile(t, filepath.Join(root, PostsDir, "old.yaml"), `
title: Old
date: "2022-05-01"
content:
  - _type: block
    _key: a
    children:
      - _type: span
        text: Portable
`)
	writeFile(t, filepath.Join(root, PostsDir, "new.yaml"), `
title: New
date: "2024-05-01"
cover:
  asset:
    _ref: local-cover.jpg
body: |
  Hello *there*.

  ![shot](local-shot.jpg)
`)
	writeFile(t, filepath.Join(root, PostsDir, "me.yaml"), "title: Me\nbody: Hi.\n")

	d := NewDir(root)
	ctx := context.Background()

	posts, err := d.Collection(ctx, "works", "workPosts")
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, "new", posts[0].Slug)
	assert.Equal(t, "old", posts[1].Slug)
	assert.Equal(t, "Portable", content.PlainText(posts[1].Content))
	require.NotNil(t, posts[0].Cover)
	assert.Equal(t, "local-cover.jpg", posts[0].Cover.AssetRef)
	require.Len(t, posts[0].Images, 1)

	about, err := d.About(ctx)
	require.NoError(t, err)
	require.NotNil(t, about)
	assert.Equal(t, content.KindAbout, about.Kind)
	assert.Equal(t, "Hi.", content.PlainText(about.Content))

	p, err := d.Post(ctx, "../index")
	require.NoError(t, err)
	assert.Nil(t, p)

	empty, err := NewDir(t.TempDir()).Collection(ctx, "works", "workPosts")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestDirParseError(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, PostsDir, "bad.yaml"), "title: [unterminated\n")
	_, err := NewDir(root).Post(context.Background(), "bad")
	assert.Error(t, err)
}

func TestResolverURL(t *testing.T) {
	r := Resolver{ProjectID: "proj", Dataset: "production"}
	tests := []struct {
		name string
		img  content.Image
		t    Transform
		want string
		ok   bool
	}{
		{
			name: "cms large",
			img:  content.Image{AssetRef: "image-abc-1600x900-jpg", Size: content.SizeLarge},
			t:    Transform{Width: 1200, Quality: 80},
			want: "https://cdn.sanity.io/images/proj/production/abc-1600x900.jpg?auto=format&q=80&w=1200",
			ok:   true,
		},
		{
			name: "explicit format",
			img:  content.Image{AssetRef: "image-abc-10x10-png"},
			t:    Transform{Width: 600, Format: "webp"},
			want: "https://cdn.sanity.io/images/proj/production/abc-10x10.png?fm=webp&w=600",
			ok:   true,
		},
		{
			name: "local",
			img:  content.Image{AssetRef: "local-shot one.jpg"},
			t:    Transform{Width: 900, Quality: 80},
			want: "/assets/shot%20one.jpg?q=80&w=900",
			ok:   true,
		},
		{name: "missing", img: content.Image{}, t: Transform{Width: 600}},
		{name: "malformed", img: content.Image{AssetRef: "image-abc-bad-jpg"}, t: Transform{Width: 600}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := r.URL(tt.img, tt.t)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}

	_, ok := Resolver{}.URL(content.Image{AssetRef: "image-abc-10x10-png"}, Transform{})
	assert.False(t, ok, "cms refs need a project")
}

func TestTransformFor(t *testing.T) {
	assert.Equal(t, Transform{Width: 600, Quality: 80}, TransformFor(content.Image{Size: content.SizeSmall}))
	assert.Equal(t, Transform{Width: 1200, Quality: 80}, TransformFor(content.Image{}))
}
