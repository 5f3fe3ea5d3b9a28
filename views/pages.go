package views

import (
	"encoding/json"
	"strconv"

	"github.com/a-h/templ"

	"github.com/eringen/folio/content"
	"github.com/eringen/folio/portable"
)

// ManifestID is the id of the inline script holding the post's element
// handles for the client.
const ManifestID = "post-manifest"

// ListingPage renders a works or blog index.
func ListingPage(p Page, l Listing) templ.Component {
	return Layout(p, component(func(h *htmlWriter) {
		kind := string(l.Kind)
		h.raw(`<section`)
		h.attr("class", "listing listing--"+kind)
		h.attr("data-listing", kind)
		h.raw(`><h1>`)
		h.text(l.Heading)
		h.raw(`</h1>`)

		if l.Unlock.Enabled {
			unlockForm(h, p, l.Unlock)
		}

		cards(h, l.Cards, l.Kind, "cards")
		if len(l.Private) > 0 {
			h.raw(`<h2 class="listing-private">Private</h2>`)
			cards(h, l.Private, l.Kind, "cards cards--private")
		}
		h.raw(`</section>`)
	}))
}

func unlockForm(h *htmlWriter, p Page, u Unlock) {
	if !u.Until.IsZero() {
		h.raw(`<p class="unlock unlock--open"`)
		h.attr("data-unlock-until", strconv.FormatInt(u.Until.UnixMilli(), 10))
		h.raw(`>Private works unlocked.</p>`)
		return
	}
	h.raw(`<form class="unlock" method="post" action="/api/private-ui-unlock">`)
	h.raw(`<input type="hidden" name="_csrf"`)
	h.attr("value", p.CSRF)
	h.raw(`/><label>Private works <input type="password" name="password" autocomplete="current-password" required/></label>`)
	h.raw(`<button type="submit">Unlock</button>`)
	if u.Failed {
		h.raw(`<p class="unlock-fail" role="alert">Wrong password.</p>`)
	}
	h.raw(`</form>`)
}

func cards(h *htmlWriter, list []Card, kind content.Kind, class string) {
	ticker := "preview"
	if kind == content.KindBlog {
		ticker = "blog"
	}
	h.raw(`<ul`)
	h.attr("class", class)
	h.raw(`>`)
	for _, c := range list {
		h.raw(`<li><a class="card" data-card`)
		h.attr("href", c.Href)
		if len(c.Thumbs) > 1 {
			thumbs, _ := json.Marshal(c.Thumbs)
			h.attr("data-thumbs", string(thumbs))
		}
		h.raw(`>`)
		if len(c.Thumbs) > 0 {
			h.raw(`<div class="card-thumbs" data-rotator><img data-rotator-slot loading="lazy" alt=""`)
			h.attr("src", c.Thumbs[0])
			h.raw(`/></div>`)
		}
		h.raw(`<div class="card-title"`)
		h.attr("data-ticker", ticker)
		h.raw(`><span class="ticker-track">`)
		h.text(c.Title)
		h.raw(`</span></div>`)
		if c.Year != "" {
			h.raw(`<span class="card-year">`)
			h.text(c.Year)
			h.raw(`</span>`)
		}
		if c.Description != "" && kind == content.KindBlog {
			h.raw(`<p class="card-description">`)
			h.text(c.Description)
			h.raw(`</p>`)
		}
		h.raw(`</a></li>`)
	}
	h.raw(`</ul>`)
}

// ArticlePage renders a single post. Private posts carry their unlock
// expiry so the client can relock the view on schedule.
func ArticlePage(p Page, a Article) templ.Component {
	return Layout(p, component(func(h *htmlWriter) {
		post := a.Post
		class := "post post--" + string(post.Kind)
		if post.Private {
			class += " private-view"
		}
		h.raw(`<article`)
		h.attr("class", class)
		h.raw(` data-post`)
		if !a.Until.IsZero() {
			h.attr("data-unlock-until", strconv.FormatInt(a.Until.UnixMilli(), 10))
			h.raw(` data-no-context-menu`)
		}
		h.raw(`><header><h1>`)
		h.text(post.Title)
		h.raw(`</h1>`)
		if post.Date != "" || post.Author != "" {
			h.raw(`<p class="post-meta">`)
			if post.Date != "" {
				h.raw(`<time`)
				h.attr("datetime", post.Date)
				h.raw(`>`)
				h.text(post.Date)
				h.raw(`</time>`)
			}
			if post.Author != "" {
				h.raw(` <span class="post-author">`)
				h.text(post.Author)
				h.raw(`</span>`)
			}
			h.raw(`</p>`)
		}
		if post.Description != "" {
			h.raw(`<p class="post-description">`)
			h.text(post.Description)
			h.raw(`</p>`)
		}
		h.raw(`</header>`)

		if a.Cover != "" && post.Kind == content.KindBlog {
			h.raw(`<figure class="post-cover"><img data-lightbox`)
			h.attr("src", a.Cover)
			h.attr("alt", post.Title)
			h.raw(`/></figure>`)
		}

		h.raw(`<div class="post-content">`)
		if a.Body != nil {
			h.raw(`<div class="post-body" data-footnotes>`)
			h.component(a.Body)
			h.raw(`</div>`)
			h.component(portable.MarginNotes(a.Body))
			h.component(portable.ManifestScript(ManifestID, a.Body))
		}
		h.raw(`</div>`)

		if a.Credits != nil && len(a.Credits.Nodes) > 0 {
			h.raw(`<aside class="creditbox">`)
			h.component(a.Credits)
			h.raw(`</aside>`)
		}
		h.raw(`</article>`)
	}))
}

// NotFound renders the 404 page.
func NotFound(p Page) templ.Component {
	return Layout(p, component(func(h *htmlWriter) {
		h.raw(`<section class="error"><h1>Not found</h1><p>There is nothing here. <a href="/works/">Back to works</a>.</p></section>`)
	}))
}

// ServerError renders the 500 page.
func ServerError(p Page) templ.Component {
	return Layout(p, component(func(h *htmlWriter) {
		h.raw(`<section class="error"><h1>Something went wrong</h1><p>Please try again in a moment.</p></section>`)
	}))
}
