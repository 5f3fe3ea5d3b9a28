package folio

import (
	"crypto/subtle"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/eringen/folio/views"
)

const (
	unlockOK   = "/works/"
	unlockFail = "/works/?unlock=fail"
)

// privatePostJSON is the body of GET /api/private-post.
type privatePostJSON struct {
	Slug        string `json:"slug"`
	Title       string `json:"title"`
	PostDate    string `json:"post_date"`
	Description string `json:"post_description"`
	Content     string `json:"content"`
	CreditBox   string `json:"creditbox"`
	HTML        string `json:"html"`
	CreditsHTML string `json:"creditbox_html"`
}

// privatePreviewJSON is one entry of GET /api/private-previews.
type privatePreviewJSON struct {
	Slug        string   `json:"slug"`
	Title       string   `json:"title"`
	PostDate    string   `json:"post_date"`
	Description string   `json:"post_description"`
	Thumbs      []string `json:"thumbs"`
}

func noStore(c echo.Context) {
	c.Response().Header().Set("Cache-Control", "no-store")
}

func (a *App) handlePrivateUnlock(c echo.Context) error {
	if a.Config.PrivatePassword == "" {
		return c.Redirect(http.StatusFound, unlockFail)
	}
	ip := c.RealIP()
	if !a.loginLimiter.Check(ip) {
		return c.String(http.StatusTooManyRequests, "Too many attempts. Try again later.")
	}
	pass := c.FormValue("password")
	if subtle.ConstantTimeCompare([]byte(pass), []byte(a.Config.PrivatePassword)) != 1 {
		a.loginLimiter.Record(ip)
		a.Logger.Info("private unlock rejected", zap.String("ip", ip))
		return c.Redirect(http.StatusFound, unlockFail)
	}
	if _, err := setPrivateSession(c, a.Config.UnlockTTL); err != nil {
		return err
	}
	return c.Redirect(http.StatusFound, unlockOK)
}

func (a *App) handlePrivatePost(c echo.Context) error {
	noStore(c)
	if UnlockedUntil(c).IsZero() {
		return c.String(http.StatusUnauthorized, "Unauthorized")
	}
	slug := c.QueryParam("slug")
	if slug == "" {
		return c.String(http.StatusBadRequest, "Missing slug")
	}
	p, err := a.Store.GetPrivate(c.Request().Context(), slug)
	if errors.Is(err, ErrNotFound) {
		return c.String(http.StatusNotFound, "Not found")
	}
	if err != nil {
		return err
	}
	post := p.Post()
	return c.JSON(http.StatusOK, privatePostJSON{
		Slug:        p.Slug,
		Title:       p.Title,
		PostDate:    p.Date,
		Description: p.Description,
		Content:     p.Body,
		CreditBox:   p.Credits,
		HTML:        a.renderDocument(post.Content, "").HTML(),
		CreditsHTML: a.renderDocument(post.CreditBox, "credits-").HTML(),
	})
}

// handlePrivatePreviews lists private works for the listing page. Like the
// listing itself it only exposes titles and thumbnails.
func (a *App) handlePrivatePreviews(c echo.Context) error {
	noStore(c)
	posts, err := a.Store.ListPrivate(c.Request().Context())
	if err != nil {
		a.Logger.Error("list private previews failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	out := make([]privatePreviewJSON, 0, len(posts))
	for _, p := range posts {
		card := a.card(p.Post())
		out = append(out, privatePreviewJSON{
			Slug:        p.Slug,
			Title:       p.Title,
			PostDate:    p.Date,
			Description: p.Description,
			Thumbs:      append([]string{}, card.Thumbs...),
		})
	}
	return c.JSON(http.StatusOK, out)
}

func (a *App) handlePrivatePage(c echo.Context) error {
	noStore(c)
	until := UnlockedUntil(c)
	if until.IsZero() {
		return c.Redirect(http.StatusSeeOther, unlockOK)
	}
	p, err := a.Store.GetPrivate(c.Request().Context(), c.Param("slug"))
	if errors.Is(err, ErrNotFound) {
		return a.notFound(c)
	}
	if err != nil {
		return err
	}
	return a.renderArticle(c, p.Post(), views.Article{Until: until})
}
