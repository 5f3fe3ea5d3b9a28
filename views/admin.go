package views

import (
	"net/url"

	"github.com/a-h/templ"
)

func csrfField(h *htmlWriter, p Page) {
	h.raw(`<input type="hidden" name="_csrf"`)
	h.attr("value", p.CSRF)
	h.raw(`/>`)
}

func deleteButton(h *htmlWriter, p Page, action string) {
	h.raw(`<form class="inline" method="post"`)
	h.attr("action", action)
	h.raw(`>`)
	csrfField(h, p)
	h.raw(`<button type="submit">Delete</button></form>`)
}

// AdminLogin renders the admin password form.
func AdminLogin(p Page, showError bool) templ.Component {
	return Layout(p, component(func(h *htmlWriter) {
		h.raw(`<section class="admin"><h1>Admin</h1><form method="post" action="/admin/login/">`)
		csrfField(h, p)
		h.raw(`<label>Password <input type="password" name="password" autocomplete="current-password" required/></label>`)
		h.raw(`<button type="submit">Log in</button>`)
		if showError {
			h.raw(`<p class="unlock-fail" role="alert">Wrong password.</p>`)
		}
		h.raw(`</form></section>`)
	}))
}

// AdminDashboard lists private posts with an empty form for a new one.
func AdminDashboard(p Page, posts []AdminPost, msg string) templ.Component {
	return Layout(p, component(func(h *htmlWriter) {
		h.raw(`<section class="admin"><h1>Private works</h1>`)
		if msg != "" {
			h.raw(`<p class="admin-msg" role="status">`)
			h.text(msg)
			h.raw(`</p>`)
		}
		h.raw(`<nav class="admin-actions"><a href="/admin/images/">Images</a>`)
		h.raw(`<form method="post" action="/admin/refresh/">`)
		csrfField(h, p)
		h.raw(`<button type="submit">Refresh content</button></form>`)
		h.raw(`<form method="post" action="/admin/logout/">`)
		csrfField(h, p)
		h.raw(`<button type="submit">Log out</button></form></nav>`)

		h.raw(`<table><thead><tr><th>Date</th><th>Title</th><th></th></tr></thead><tbody>`)
		for _, post := range posts {
			h.raw(`<tr><td>`)
			h.text(post.Date)
			h.raw(`</td><td><a`)
			h.attr("href", "/admin/post/"+url.PathEscape(post.Slug)+"/")
			h.raw(`>`)
			h.text(post.Title)
			h.raw(`</a></td><td><a`)
			h.attr("href", "/works/private/"+url.PathEscape(post.Slug)+"/")
			h.raw(`>View</a> `)
			deleteButton(h, p, "/admin/post/"+url.PathEscape(post.Slug)+"/delete/")
			h.raw(`</td></tr>`)
		}
		h.raw(`</tbody></table>`)
		h.raw(`<h2>New private work</h2>`)
		postForm(h, p, AdminPost{})
		h.raw(`</section>`)
	}))
}

// AdminForm renders the edit form of one private post.
func AdminForm(p Page, post AdminPost) templ.Component {
	return Layout(p, component(func(h *htmlWriter) {
		h.raw(`<section class="admin"><h1>Edit `)
		h.text(post.Title)
		h.raw(`</h1>`)
		postForm(h, p, post)
		h.raw(`<p><a href="/admin/">Back</a></p></section>`)
	}))
}

func postForm(h *htmlWriter, p Page, post AdminPost) {
	input := func(label, name, value, typ string) {
		h.raw(`<label>`)
		h.text(label)
		h.raw(` <input`)
		h.attr("type", typ)
		h.attr("name", name)
		h.attr("value", value)
		h.raw(`/></label>`)
	}
	area := func(label, name, value string) {
		h.raw(`<label>`)
		h.text(label)
		h.raw(` <textarea`)
		h.attr("name", name)
		h.raw(`>`)
		h.text(value)
		h.raw(`</textarea></label>`)
	}
	h.raw(`<form class="admin-form" method="post" action="/admin/save/">`)
	csrfField(h, p)
	input("Title", "title", post.Title, "text")
	input("Slug", "slug", post.Slug, "text")
	input("Date", "date", post.Date, "date")
	input("Description", "description", post.Description, "text")
	input("Thumbnails (asset refs, comma separated)", "thumbs", post.Thumbs, "text")
	area("Body (Markdown)", "body", post.Body)
	area("Credits (Markdown)", "credits", post.Credits)
	h.raw(`<button type="submit">Save</button></form>`)
}

// AdminImages lists uploads and the upload form.
func AdminImages(p Page, uploads []Upload) templ.Component {
	return Layout(p, component(func(h *htmlWriter) {
		h.raw(`<section class="admin"><h1>Images</h1>`)
		h.raw(`<form method="post" action="/admin/images/upload/" enctype="multipart/form-data">`)
		csrfField(h, p)
		h.raw(`<input type="file" name="image" accept="image/*" required/><button type="submit">Upload</button></form>`)
		h.raw(`<table><thead><tr><th></th><th>Reference</th><th>Size</th><th>Uploaded</th><th></th></tr></thead><tbody>`)
		for _, u := range uploads {
			h.raw(`<tr><td>`)
			if u.URL != "" {
				h.raw(`<img width="120" loading="lazy"`)
				h.attr("src", u.URL)
				h.attr("alt", u.OriginalName)
				h.raw(`/>`)
			}
			h.raw(`</td><td><code>`)
			h.text(u.Ref)
			h.raw(`</code></td><td>`)
			h.text(FormatSize(u.Size))
			h.raw(`</td><td>`)
			h.text(u.UploadedAt)
			h.raw(`</td><td>`)
			deleteButton(h, p, "/admin/images/"+url.PathEscape(u.Filename)+"/delete/")
			h.raw(`</td></tr>`)
		}
		h.raw(`</tbody></table><p><a href="/admin/">Back</a></p></section>`)
	}))
}
