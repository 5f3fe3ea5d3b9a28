// Package folio is a portfolio and blog server built with Go, Echo, and templ.
// Public works, blog posts and the about page come from a content source
// (a hosted Sanity dataset or a local content directory); private works
// live in SQLite behind a password unlock.
//
// Pages are rendered by the components in ViewFuncs. DefaultViews returns
// the stock set; sites may replace any of them.
package folio

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"time"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/eringen/folio/cms"
	"github.com/eringen/folio/views"
)

// ViewFuncs holds the templ components the server calls when rendering pages.
type ViewFuncs struct {
	Listing        func(p views.Page, l views.Listing) templ.Component
	Article        func(p views.Page, a views.Article) templ.Component
	AdminLogin     func(p views.Page, showError bool) templ.Component
	AdminDashboard func(p views.Page, posts []views.AdminPost, msg string) templ.Component
	AdminForm      func(p views.Page, post views.AdminPost) templ.Component
	AdminImages    func(p views.Page, uploads []views.Upload) templ.Component
	NotFound       func(p views.Page) templ.Component
	ServerError    func(p views.Page) templ.Component
}

// DefaultViews returns the stock page components.
func DefaultViews() ViewFuncs {
	return ViewFuncs{
		Listing:        views.ListingPage,
		Article:        views.ArticlePage,
		AdminLogin:     views.AdminLogin,
		AdminDashboard: views.AdminDashboard,
		AdminForm:      views.AdminForm,
		AdminImages:    views.AdminImages,
		NotFound:       views.NotFound,
		ServerError:    views.ServerError,
	}
}

// App is the central folio application. It wires together the content
// source, cache, private store, handlers, middleware, and templates.
type App struct {
	Config   SiteConfig
	Echo     *echo.Echo
	Store    *Store
	Cache    *ContentCache
	Views    ViewFuncs
	Logger   *zap.Logger
	Resolver cms.Resolver

	source       cms.Source
	loginLimiter *LoginLimiter
	watcher      *ContentWatcher
	resizeGroup  singleflight.Group
	customRoutes []func(*App)
	initialized  bool
}

// New creates a new folio App with the given configuration.
func New(cfg SiteConfig, opts ...Option) *App {
	cfg.setDefaults()

	a := &App{
		Config: cfg,
		Echo:   echo.New(),
		Views:  DefaultViews(),
		Logger: zap.NewNop(),
	}
	a.Echo.HideBanner = true

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// Init opens the store, builds the content source and cache, and
// registers middleware and routes. Start calls it when needed; tests call
// it directly and drive a.Echo with httptest.
func (a *App) Init() error {
	if a.initialized {
		return nil
	}
	if err := a.Config.Validate(); err != nil {
		return fmt.Errorf("folio: %w", err)
	}

	store, err := NewStore(a.Config.DatabasePath)
	if err != nil {
		return fmt.Errorf("folio: init store: %w", err)
	}
	a.Store = store

	a.Resolver = cms.Resolver{ProjectID: a.Config.Sanity.ProjectID, Dataset: a.Config.Sanity.Dataset}
	if a.source == nil {
		switch a.Config.Source {
		case SourceSanity:
			a.source = cms.NewSanity(cms.SanityConfig{
				ProjectID:  a.Config.Sanity.ProjectID,
				Dataset:    a.Config.Sanity.Dataset,
				APIVersion: a.Config.Sanity.APIVersion,
				Token:      a.Config.Sanity.Token,
				UseCDN:     a.Config.Sanity.UseCDN,
			})
		default:
			a.source = cms.NewDir(a.Config.ContentDir)
		}
	}
	a.Cache = NewContentCache(a.source, a.Config.PostCacheTTL)

	a.loginLimiter = NewLoginLimiter(5, time.Minute)

	if dir, ok := a.source.(*cms.Dir); ok {
		w, err := NewContentWatcher(dir.Root(), a.Cache.Invalidate, a.Logger)
		if err != nil {
			a.Logger.Warn("content watcher disabled", zap.Error(err))
		} else {
			a.watcher = w
		}
	}

	a.setupMiddleware()
	a.setupRoutes()
	for _, fn := range a.customRoutes {
		fn(a)
	}
	a.initialized = true
	return nil
}

// Start initializes the app, warms the content cache, and serves until
// ctx is cancelled or the server fails.
func (a *App) Start(ctx context.Context) error {
	if err := a.Init(); err != nil {
		return err
	}
	if a.watcher != nil {
		if err := a.watcher.Start(ctx); err != nil {
			a.Logger.Warn("content watcher failed to start", zap.Error(err))
		}
	}
	go func() {
		if err := a.Cache.Warm(ctx, a.Config.Works, a.Config.Blog); err != nil {
			a.Logger.Warn("cache warm-up failed", zap.Error(err))
		}
	}()

	errCh := make(chan error, 1)
	go func() {
		a.Logger.Info("listening", zap.String("addr", a.Config.Addr))
		errCh <- a.Echo.Start(a.Config.Addr)
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return a.Echo.Shutdown(shutdownCtx)
	}
}

func (a *App) setupRoutes() {
	e := a.Echo

	// Framework assets are served under /public/ ahead of the user's static dir.
	embeddedFS, _ := fs.Sub(EmbeddedAssets, "embedded")
	embeddedHandler := http.FileServer(http.FS(embeddedFS))
	e.GET("/public/folio.css", echo.WrapHandler(http.StripPrefix("/public/", embeddedHandler)))
	e.GET("/public/boot.js", echo.WrapHandler(http.StripPrefix("/public/", embeddedHandler)))

	e.Static("/public", a.Config.StaticDir)
	e.GET("/favicon.svg", a.handleFavicon)
	e.GET("/robots.txt", a.handleRobots)
	e.GET("/assets/:file", a.handleAsset)

	// Public routes
	e.GET("/sitemap.xml", a.handleSitemap)
	e.GET("/feed.xml", a.handleFeed)
	e.GET("/", a.handleWorks)
	e.GET("/works/", a.handleWorks)
	e.GET("/works/:slug/", a.handleWork)
	e.GET("/blog/", a.handleBlog)
	e.GET("/blog/:slug/", a.handleBlogPost)
	e.GET("/about/", a.handleAbout)

	// Private gate
	e.POST("/api/private-ui-unlock", a.handlePrivateUnlock)
	e.GET("/api/private-post", a.handlePrivatePost)
	e.GET("/api/private-previews", a.handlePrivatePreviews)
	e.GET("/works/private/:slug/", a.handlePrivatePage)

	// Admin routes
	e.GET("/admin/", a.handleAdmin)
	e.POST("/admin/login/", a.handleAdminLogin)
	e.POST("/admin/logout/", handleAdminLogout)
	e.GET("/admin/post/:slug/", a.handleAdminPost)
	e.POST("/admin/save/", a.handleAdminSave)
	e.DELETE("/admin/post/:slug/", a.handleAdminDelete)
	e.POST("/admin/post/:slug/delete/", a.handleAdminDelete)
	e.POST("/admin/refresh/", a.handleAdminRefresh)
	e.GET("/admin/images/", a.handleImageList)
	e.POST("/admin/images/upload/", a.handleImageUpload)
	e.DELETE("/admin/images/:filename/", a.handleImageDelete)
	e.POST("/admin/images/:filename/delete/", a.handleImageDelete)
}

// Close cleans up resources. Call this when the app is shutting down.
func (a *App) Close() error {
	if a.watcher != nil {
		a.watcher.Stop()
	}
	if a.loginLimiter != nil {
		a.loginLimiter.Stop()
	}
	if a.Store != nil {
		return a.Store.Close()
	}
	return nil
}
