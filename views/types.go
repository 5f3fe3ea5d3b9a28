// Package views holds the page components rendered by the folio server.
// Every component is a templ.Component; sites may replace any of them.
package views

import (
	"time"

	"github.com/eringen/folio/content"
	"github.com/eringen/folio/portable"
)

// Site holds site-wide settings every page needs.
type Site struct {
	Name        string
	URL         string
	Description string
	Author      string
	Nav         []NavItem
}

// NavItem is one entry of the main navigation.
type NavItem struct {
	Label string
	Href  string
}

// Meta carries per-page OpenGraph and SEO metadata into the <head>.
type Meta struct {
	Title       string
	Description string
	URL         string // canonical + og:url
	OGType      string // "website" or "article"
	Image       string
}

// Page is the per-request frame shared by all pages.
type Page struct {
	Site   Site
	Meta   Meta
	Path   string // request path; selects the active nav item
	CSRF   string
	JSONLD string // page-specific structured data; the site's is used when empty
}

// Card is one entry of a listing.
type Card struct {
	Title       string
	Href        string
	Year        string
	Description string
	Thumbs      []string // resolved preview URLs, rotated on hover
	Private     bool
}

// Unlock is the state of the private works gate on the listing.
type Unlock struct {
	Enabled bool
	Failed  bool
	Until   time.Time // zero when locked
}

// Listing is a works or blog index.
type Listing struct {
	Heading string
	Kind    content.Kind
	Cards   []Card
	Private []Card
	Unlock  Unlock
}

// Article is a single post page.
type Article struct {
	Post    content.Post
	Cover   string
	Body    *portable.Document
	Credits *portable.Document
	Until   time.Time // set on private posts: unlock expiry
}

// AdminPost is the form model of a private post.
type AdminPost struct {
	Slug        string
	Title       string
	Date        string
	Description string
	Body        string
	Credits     string
	Thumbs      string // comma separated asset refs
}

// Upload is one row of the admin image list.
type Upload struct {
	Filename     string
	OriginalName string
	Ref          string
	URL          string
	Width        int
	Height       int
	Size         int
	UploadedAt   string
}
