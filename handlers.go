package folio

import (
	"errors"
	"net/http"
	"path/filepath"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/eringen/folio/cms"
	"github.com/eringen/folio/content"
	"github.com/eringen/folio/portable"
	"github.com/eringen/folio/views"
)

// Render writes a templ component as an HTTP 200 HTML response.
func Render(c echo.Context, cmp templ.Component) error {
	return RenderStatus(c, http.StatusOK, cmp)
}

// RenderStatus writes a templ component with a specific HTTP status code.
func RenderStatus(c echo.Context, code int, cmp templ.Component) error {
	c.Response().Header().Set(echo.HeaderContentType, echo.MIMETextHTMLCharsetUTF8)
	c.Response().WriteHeader(code)
	return cmp.Render(c.Request().Context(), c.Response().Writer)
}

func (a *App) site() views.Site {
	return views.Site{
		Name:        a.Config.Name,
		URL:         a.Config.URL,
		Description: a.Config.Description,
		Author:      a.Config.Author,
		Nav: []views.NavItem{
			{Label: "Works", Href: "/works/"},
			{Label: "Blog", Href: "/blog/"},
			{Label: "About", Href: "/about/"},
		},
	}
}

func (a *App) page(c echo.Context, meta views.Meta) views.Page {
	if meta.URL == "" {
		meta.URL = BuildURL(a.Config.URL, c.Request().URL.Path)
	}
	if meta.OGType == "" {
		meta.OGType = "website"
	}
	return views.Page{
		Site: a.site(),
		Meta: meta,
		Path: c.Request().URL.Path,
		CSRF: CsrfToken(c),
	}
}

// thumbTransform is the delivery transform of listing thumbnails.
var thumbTransform = cms.Transform{Width: 600, Quality: cms.DefaultQuality}

func (a *App) card(p content.Post) views.Card {
	card := views.Card{
		Title:       p.Title,
		Href:        p.Link(),
		Year:        p.Year(),
		Description: p.Description,
		Private:     p.Private,
	}
	for _, img := range p.Images {
		if u, ok := a.Resolver.URL(img, thumbTransform); ok {
			card.Thumbs = append(card.Thumbs, u)
		}
	}
	if len(card.Thumbs) == 0 && p.Cover != nil {
		if u, ok := a.Resolver.URL(*p.Cover, thumbTransform); ok {
			card.Thumbs = append(card.Thumbs, u)
		}
	}
	return card
}

func (a *App) cards(posts []content.Post) []views.Card {
	cards := make([]views.Card, 0, len(posts))
	for _, p := range posts {
		cards = append(cards, a.card(p))
	}
	return cards
}

// collection fetches a listing. Fetch failures are logged and degrade to
// an empty listing.
func (a *App) collection(c echo.Context, col Collection) []content.Post {
	posts, err := a.Cache.Collection(c.Request().Context(), col.DocType, col.Field)
	if err != nil {
		a.Logger.Error("fetch collection failed",
			zap.String("doc_type", col.DocType), zap.String("field", col.Field), zap.Error(err))
		return nil
	}
	return posts
}

func (a *App) handleWorks(c echo.Context) error {
	posts := a.collection(c, a.Config.Works)
	until := UnlockedUntil(c)
	listing := views.Listing{
		Heading: "Works",
		Kind:    content.KindWork,
		Cards:   a.cards(posts),
		Unlock: views.Unlock{
			Enabled: a.Config.PrivatePassword != "",
			Failed:  c.QueryParam("unlock") == "fail",
			Until:   until,
		},
	}
	if !until.IsZero() {
		private, err := a.Store.ListPrivate(c.Request().Context())
		if err != nil {
			a.Logger.Error("list private posts failed", zap.Error(err))
		}
		for _, p := range private {
			listing.Private = append(listing.Private, a.card(p.Post()))
		}
	}
	return Render(c, a.Views.Listing(a.page(c, views.Meta{
		Title:       a.Config.Name,
		Description: a.Config.Description,
	}), listing))
}

func (a *App) handleBlog(c echo.Context) error {
	posts := a.blogPosts(c)
	return Render(c, a.Views.Listing(a.page(c, views.Meta{
		Title:       "Blog | " + a.Config.Name,
		Description: a.Config.Description,
	}), views.Listing{
		Heading: "Blog",
		Kind:    content.KindBlog,
		Cards:   a.cards(posts),
	}))
}

func (a *App) handleWork(c echo.Context) error {
	return a.handleSlug(c, content.KindWork)
}

func (a *App) handleBlogPost(c echo.Context) error {
	return a.handleSlug(c, content.KindBlog)
}

// handleSlug renders a public post. A fetch failure redirects to the works
// listing; a missing post is a 404.
func (a *App) handleSlug(c echo.Context, kind content.Kind) error {
	slug := c.Param("slug")
	post, err := a.Cache.Post(c.Request().Context(), slug)
	if err != nil {
		a.Logger.Error("fetch post failed", zap.String("slug", slug), zap.Error(err))
		return c.Redirect(http.StatusSeeOther, "/works/")
	}
	if post == nil {
		return a.notFound(c)
	}
	p := *post
	p.Kind = kind
	return a.renderArticle(c, p, views.Article{})
}

func (a *App) handleAbout(c echo.Context) error {
	post, err := a.Cache.About(c.Request().Context())
	if err != nil {
		a.Logger.Error("fetch about failed", zap.Error(err))
		return c.Redirect(http.StatusSeeOther, "/works/")
	}
	if post == nil {
		return a.notFound(c)
	}
	return a.renderArticle(c, *post, views.Article{})
}

// renderDocument renders a post's blocks with the site's asset resolver.
func (a *App) renderDocument(blocks []content.Block, prefix string) *portable.Document {
	return portable.Render(blocks, portable.Options{Resolver: a.Resolver, IDPrefix: prefix})
}

func (a *App) renderArticle(c echo.Context, p content.Post, art views.Article) error {
	art.Post = p
	art.Body = a.renderDocument(p.Content, "")
	art.Credits = a.renderDocument(p.CreditBox, "credits-")
	if p.Cover != nil {
		if u, ok := a.Resolver.URL(*p.Cover, cms.TransformFor(*p.Cover)); ok {
			art.Cover = u
		}
	}
	pg := a.page(c, views.Meta{
		Title:       p.Title + " | " + a.Config.Name,
		Description: p.Description,
		OGType:      "article",
		Image:       art.Cover,
	})
	if !p.Private {
		pg.JSONLD = ArticleJsonLD(p, a.Config)
	}
	return Render(c, a.Views.Article(pg, art))
}

func (a *App) notFound(c echo.Context) error {
	return RenderStatus(c, http.StatusNotFound, a.Views.NotFound(a.page(c, views.Meta{Title: "Not found"})))
}

func (a *App) handleSitemap(c echo.Context) error {
	return a.renderSitemap(c, a.collection(c, a.Config.Works), a.blogPosts(c))
}

func (a *App) handleFeed(c echo.Context) error {
	return a.renderRSS(c, a.blogPosts(c))
}

// blogPosts returns the blog collection. Cached slices are shared, so the
// kind is set on a copy.
func (a *App) blogPosts(c echo.Context) []content.Post {
	shared := a.collection(c, a.Config.Blog)
	posts := make([]content.Post, len(shared))
	for i, p := range shared {
		p.Kind = content.KindBlog
		posts[i] = p
	}
	return posts
}

func (a *App) handleFavicon(c echo.Context) error {
	return c.File(filepath.Join(a.Config.StaticDir, "favicon.svg"))
}

func (a *App) handleRobots(c echo.Context) error {
	return c.File(filepath.Join(a.Config.StaticDir, "robots.txt"))
}

func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	var he *echo.HTTPError
	ok := errors.As(err, &he)
	if ok && he.Code == http.StatusNotFound {
		_ = a.notFound(c)
		return
	}
	code := http.StatusInternalServerError
	if ok {
		code = he.Code
	}
	if code >= 500 {
		a.Logger.Error("server error", zap.String("uri", c.Request().RequestURI), zap.Error(err))
		_ = RenderStatus(c, code, a.Views.ServerError(a.page(c, views.Meta{Title: "Server error"})))
		return
	}
	a.Echo.DefaultHTTPErrorHandler(err, c)
}
