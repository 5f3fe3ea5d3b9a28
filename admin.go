package folio

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/eringen/folio/views"
)

func adminPost(p PrivatePost) views.AdminPost {
	return views.AdminPost{
		Slug:        p.Slug,
		Title:       p.Title,
		Date:        p.Date,
		Description: p.Description,
		Body:        p.Body,
		Credits:     p.Credits,
		Thumbs:      strings.Join(p.Thumbs, ", "),
	}
}

func (a *App) adminPage(c echo.Context) views.Page {
	return a.page(c, views.Meta{Title: "Admin | " + a.Config.Name})
}

func (a *App) handleAdmin(c echo.Context) error {
	if !IsAdmin(c) {
		return Render(c, a.Views.AdminLogin(a.adminPage(c), false))
	}
	return a.renderAdminDashboard(c, c.QueryParam("msg"))
}

func (a *App) handleAdminPost(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	p, err := a.Store.GetPrivate(c.Request().Context(), c.Param("slug"))
	if errors.Is(err, ErrNotFound) {
		return c.NoContent(http.StatusNotFound)
	}
	if err != nil {
		return err
	}
	return Render(c, a.Views.AdminForm(a.adminPage(c), adminPost(p)))
}

func (a *App) handleAdminLogin(c echo.Context) error {
	if !a.loginLimiter.Allow(c.RealIP()) {
		return c.String(http.StatusTooManyRequests, "Too many login attempts. Try again later.")
	}
	pass := c.FormValue("password")
	if subtle.ConstantTimeCompare([]byte(pass), []byte(a.Config.AdminPassword)) == 1 {
		if err := setAdminSession(c); err != nil {
			return err
		}
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	return Render(c, a.Views.AdminLogin(a.adminPage(c), true))
}

func handleAdminLogout(c echo.Context) error {
	if err := clearAdminSession(c); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/admin/")
}

func (a *App) handleAdminSave(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	if err := c.Request().ParseForm(); err != nil {
		return err
	}
	title := strings.TrimSpace(c.FormValue("title"))
	slug := strings.TrimSpace(c.FormValue("slug"))
	if slug == "" {
		slug = Slugify(title)
	}
	if slug == "" || slug != Slugify(slug) {
		return c.Redirect(http.StatusSeeOther, "/admin/?msg=Slug+is+required+and+may+only+hold+a-z,+0-9+and+dashes.")
	}
	date := strings.TrimSpace(c.FormValue("date"))
	if date == "" {
		date = time.Now().Format("2006-01-02")
	}
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return c.Redirect(http.StatusSeeOther, "/admin/?msg=Invalid+date+format.+Use+YYYY-MM-DD.")
	}
	if err := a.Store.SavePrivate(c.Request().Context(), PrivatePost{
		Slug:        slug,
		Title:       title,
		Date:        date,
		Description: strings.TrimSpace(c.FormValue("description")),
		Body:        c.FormValue("body"),
		Credits:     c.FormValue("credits"),
		Thumbs:      ParseList(c.FormValue("thumbs")),
	}); err != nil {
		return err
	}
	a.Logger.Info("private post saved", zap.String("slug", slug))
	return a.renderAdminDashboard(c, "saved")
}

func (a *App) handleAdminDelete(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	slug := c.Param("slug")
	if err := a.Store.DeletePrivate(c.Request().Context(), slug); err != nil {
		return err
	}
	a.Logger.Info("private post deleted", zap.String("slug", slug))
	return a.renderAdminDashboard(c, "deleted")
}

// handleAdminRefresh drops cached content so edits published in the CMS
// show up before the TTL expires.
func (a *App) handleAdminRefresh(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	a.Cache.Invalidate()
	return a.renderAdminDashboard(c, "content refreshed")
}

func (a *App) renderAdminDashboard(c echo.Context, msg string) error {
	posts, err := a.Store.ListPrivate(c.Request().Context())
	if err != nil {
		return err
	}
	out := make([]views.AdminPost, len(posts))
	for i, p := range posts {
		out[i] = adminPost(p)
	}
	return Render(c, a.Views.AdminDashboard(a.adminPage(c), out, msg))
}
