package folio

import (
	"github.com/eringen/folio/content"
)

// PrivatePost is a work kept out of the public collections. It is stored
// in SQLite and authored as Markdown from the admin dashboard.
type PrivatePost struct {
	Slug        string
	Title       string
	Date        string // 2006-01-02
	Description string
	Body        string   // Markdown
	Credits     string   // Markdown
	Thumbs      []string // asset refs shown on the works listing
}

// Post converts the stored form into a renderable post.
func (p PrivatePost) Post() content.Post {
	post := content.Post{
		Kind:        content.KindWork,
		Title:       p.Title,
		Slug:        p.Slug,
		Date:        p.Date,
		Description: p.Description,
		Content:     content.FromMarkdown([]byte(p.Body)),
		CreditBox:   content.FromMarkdown([]byte(p.Credits)),
		Private:     true,
	}
	for _, ref := range p.Thumbs {
		post.Images = append(post.Images, content.Image{AssetRef: ref, Size: content.SizeSmall})
	}
	if len(post.Images) == 0 {
		post.Images = content.ImagesOf(post.Content)
	}
	if len(post.Images) > 0 {
		cover := post.Images[0]
		post.Cover = &cover
	}
	return post
}

// Upload is an image uploaded through the admin dashboard.
type Upload struct {
	Filename     string
	OriginalName string
	Width        int
	Height       int
	Size         int
	UploadedAt   string
}

// AssetRef returns the reference posts use to embed the upload.
func (u Upload) AssetRef() string {
	return content.LocalPrefix + u.Filename
}
