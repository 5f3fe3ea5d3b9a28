package folio

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(filepath.Join(t.TempDir(), "data", "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestNewStore(t *testing.T) {
	s := setupTestStore(t)
	require.NotNil(t, s.db)

	var mode string
	require.NoError(t, s.db.QueryRow(`PRAGMA journal_mode`).Scan(&mode))
	assert.Equal(t, "wal", mode)
}

func TestSaveAndGetPrivate(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	post := PrivatePost{
		Slug:        "studio-notes",
		Title:       "Studio Notes",
		Date:        "2024-01-15",
		Description: "Unreleased work",
		Body:        "First *draft*.",
		Credits:     "Photos by me.",
		Thumbs:      []string{"local-a.jpg", "local-b.jpg"},
	}
	require.NoError(t, s.SavePrivate(ctx, post))

	got, err := s.GetPrivate(ctx, "studio-notes")
	require.NoError(t, err)
	assert.Equal(t, post, got)

	post.Title = "Studio Notes II"
	post.Thumbs = nil
	require.NoError(t, s.SavePrivate(ctx, post))
	got, err = s.GetPrivate(ctx, "studio-notes")
	require.NoError(t, err)
	assert.Equal(t, "Studio Notes II", got.Title)
	assert.Empty(t, got.Thumbs)
}

func TestGetPrivateNotFound(t *testing.T) {
	s := setupTestStore(t)
	_, err := s.GetPrivate(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListPrivateOrderedByDateDesc(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	for _, p := range []PrivatePost{
		{Slug: "old", Title: "Old", Date: "2022-01-01"},
		{Slug: "new", Title: "New", Date: "2024-06-01"},
		{Slug: "mid", Title: "Mid", Date: "2023-03-10"},
	} {
		require.NoError(t, s.SavePrivate(ctx, p))
	}

	posts, err := s.ListPrivate(ctx)
	require.NoError(t, err)
	slugs := make([]string, len(posts))
	for i, p := range posts {
		slugs[i] = p.Slug
	}
	assert.Equal(t, []string{"new", "mid", "old"}, slugs)
}

func TestDeletePrivate(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.SavePrivate(ctx, PrivatePost{Slug: "gone", Title: "Gone", Date: "2024-01-01"}))
	require.NoError(t, s.DeletePrivate(ctx, "gone"))
	_, err := s.GetPrivate(ctx, "gone")
	assert.ErrorIs(t, err, ErrNotFound)

	// Deleting a missing row is not an error.
	assert.NoError(t, s.DeletePrivate(ctx, "gone"))
}

func TestImages(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	a := Upload{Filename: "a.jpg", OriginalName: "A.png", Width: 800, Height: 600, Size: 1234, UploadedAt: "2024-01-01T00:00:00Z"}
	b := Upload{Filename: "b.jpg", OriginalName: "B.png", Width: 10, Height: 20, Size: 99, UploadedAt: "2024-02-01T00:00:00Z"}
	require.NoError(t, s.SaveImage(ctx, a))
	require.NoError(t, s.SaveImage(ctx, b))

	images, err := s.ListImages(ctx)
	require.NoError(t, err)
	assert.Equal(t, []Upload{b, a}, images)

	require.NoError(t, s.DeleteImage(ctx, "b.jpg"))
	images, err = s.ListImages(ctx)
	require.NoError(t, err)
	assert.Equal(t, []Upload{a}, images)
	assert.Equal(t, "local-a.jpg", images[0].AssetRef())
}

func TestParseList(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{",", nil},
		{",a,b,", []string{"a", "b"}},
		{"a, b ,,c", []string{"a", "b", "c"}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseList(tt.in), tt.in)
	}
	assert.Equal(t, ",a,b,", JoinList([]string{"a", " ", "b"}))
	assert.Equal(t, "", JoinList(nil))
}

func TestPrivatePostConversion(t *testing.T) {
	p := PrivatePost{
		Slug:  "kiln",
		Title: "Kiln",
		Date:  "2024-05-01",
		Body:  "Hello.\n\n![shot](local-shot.jpg)\n",
	}
	post := p.Post()
	assert.True(t, post.Private)
	assert.Equal(t, "/works/private/kiln/", post.Link())
	require.Len(t, post.Images, 1)
	assert.Equal(t, "local-shot.jpg", post.Images[0].AssetRef)
	require.NotNil(t, post.Cover)

	p.Thumbs = []string{"local-thumb.jpg"}
	post = p.Post()
	require.Len(t, post.Images, 1)
	assert.Equal(t, "local-thumb.jpg", post.Images[0].AssetRef)
}
