package views

import (
	"strconv"
	"time"

	"github.com/a-h/templ"
)

// Layout wraps body in the site chrome: head metadata, navigation and the
// client scripts.
func Layout(p Page, body templ.Component) templ.Component {
	return component(func(h *htmlWriter) {
		title := p.Meta.Title
		if title == "" {
			title = p.Site.Name
		}
		description := p.Meta.Description
		if description == "" {
			description = p.Site.Description
		}
		jsonLD := p.JSONLD
		if jsonLD == "" {
			jsonLD = WebsiteJsonLD(p.Site)
		}

		h.raw(`<!doctype html><html lang="en"><head><meta charset="utf-8"/>`)
		h.raw(`<meta name="viewport" content="width=device-width, initial-scale=1"/>`)
		h.raw(`<title>`)
		h.text(title)
		h.raw(`</title>`)
		h.raw(`<meta name="description"`)
		h.attr("content", description)
		h.raw(`/>`)
		if p.Meta.URL != "" {
			h.raw(`<link rel="canonical"`)
			h.attr("href", p.Meta.URL)
			h.raw(`/><meta property="og:url"`)
			h.attr("content", p.Meta.URL)
			h.raw(`/>`)
		}
		h.raw(`<meta property="og:title"`)
		h.attr("content", title)
		h.raw(`/><meta property="og:type"`)
		h.attr("content", p.Meta.OGType)
		h.raw(`/>`)
		if p.Meta.Image != "" {
			h.raw(`<meta property="og:image"`)
			h.attr("content", p.Meta.Image)
			h.raw(`/>`)
		}
		if p.CSRF != "" {
			h.raw(`<meta name="csrf-token"`)
			h.attr("content", p.CSRF)
			h.raw(`/>`)
		}
		h.raw(`<link rel="alternate" type="application/rss+xml" href="/feed.xml"`)
		h.attr("title", p.Site.Name)
		h.raw(`/>`)
		h.raw(`<link rel="stylesheet" href="/public/folio.css"/>`)
		// encoding/json escapes <, > and &, so the block cannot close the script.
		h.raw(`<script type="application/ld+json">`, jsonLD, `</script>`)
		h.raw(`</head><body>`)

		navBar(h, p)

		h.raw(`<main id="main">`)
		h.component(body)
		h.raw(`</main>`)

		h.raw(`<footer class="site-footer">&copy; `, strconv.Itoa(time.Now().Year()), ` `)
		if p.Site.Author != "" {
			h.text(p.Site.Author)
		} else {
			h.text(p.Site.Name)
		}
		h.raw(`</footer>`)
		h.raw(`<script src="/public/wasm_exec.js" defer></script>`)
		h.raw(`<script src="/public/boot.js" defer></script>`)
		h.raw(`</body></html>`)
	})
}

// navBar renders the main navigation. The active item is marked on the
// server with the same route matching the client uses, so the highlight
// is correct before the client loads.
func navBar(h *htmlWriter, p Page) {
	active := ActiveNav(p.Site.Nav, p.Path)
	h.raw(`<nav class="site-nav" data-nav><a class="site-name" href="/">`)
	h.text(p.Site.Name)
	h.raw(`</a><ul>`)
	for i, item := range p.Site.Nav {
		class := "nav-item"
		if i == active {
			class += " is-active"
		}
		h.raw(`<li`)
		h.attr("class", class)
		h.raw(` data-nav-item`)
		h.attr("data-href", item.Href)
		h.raw(`><a`)
		h.attr("href", item.Href)
		if i == active {
			h.raw(` aria-current="page"`)
		}
		h.raw(`>`)
		h.text(item.Label)
		h.raw(`</a></li>`)
	}
	h.raw(`<li class="nav-highlight" data-nav-highlight aria-hidden="true"></li></ul></nav>`)
}
