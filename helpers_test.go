package folio

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eringen/folio/content"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Kiln Series", "kiln-series"},
		{"  Glaze -- Tests!  ", "glaze-tests"},
		{"2024: A Year", "2024-a-year"},
		{"Çini", "ini"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Slugify(tt.in), tt.in)
	}
}

func TestBuildURL(t *testing.T) {
	assert.Equal(t, "https://folio.test/works/kiln/", BuildURL("https://folio.test", "/works/kiln/"))
	assert.Equal(t, "https://folio.test/blog/", BuildURL("https://folio.test/", "blog"))
	assert.Equal(t, "https://folio.test", BuildURL("https://folio.test"))
}

func TestArticleJsonLD(t *testing.T) {
	cfg := SiteConfig{Name: "Folio", URL: "https://folio.test", Author: "Site Author"}

	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(ArticleJsonLD(content.Post{
		Kind: content.KindBlog, Title: "Hello", Slug: "hello", Date: "2024-01-02",
	}, cfg)), &got))
	assert.Equal(t, "BlogPosting", got["@type"])
	assert.Equal(t, "https://folio.test/blog/hello/", got["url"])
	assert.Equal(t, "2024-01-02", got["datePublished"])
	assert.Equal(t, "Site Author", got["author"].(map[string]any)["name"])

	got = nil
	require.NoError(t, json.Unmarshal([]byte(ArticleJsonLD(content.Post{
		Kind: content.KindWork, Title: "Kiln", Slug: "kiln", Author: "Guest",
	}, cfg)), &got))
	assert.Equal(t, "CreativeWork", got["@type"])
	assert.NotContains(t, got, "datePublished")
	assert.Equal(t, "Guest", got["author"].(map[string]any)["name"])
}

func TestExcerpt(t *testing.T) {
	assert.Equal(t, "short", excerpt("short", 10))
	assert.Equal(t, "one two…", excerpt("one two three", 8))
}
