package folio

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"go.uber.org/zap"

	"github.com/eringen/folio/cms"
)

// Content source kinds.
const (
	SourceSanity = "sanity"
	SourceDir    = "dir"
)

// SiteConfig holds all configuration for a folio site.
type SiteConfig struct {
	Name        string `koanf:"name"`        // Site name (default "Folio")
	URL         string `koanf:"url"`         // Canonical URL (default "http://localhost:3000")
	Description string `koanf:"description"` // Site description for RSS and meta tags
	Author      string `koanf:"author"`      // Author name for JSON-LD

	Addr         string `koanf:"addr"`          // Listen address (default ":3000")
	DatabasePath string `koanf:"database_path"` // SQLite path (default "data/folio.db")
	StaticDir    string `koanf:"static_dir"`    // User static assets (default "public")

	Source     string       `koanf:"source"`      // "sanity" or "dir" (default "dir")
	ContentDir string       `koanf:"content_dir"` // Local content root (default "content")
	Sanity     SanityConfig `koanf:"sanity"`
	Works      Collection   `koanf:"works"`
	Blog       Collection   `koanf:"blog"`

	AdminPassword   string `koanf:"admin_password"`   // Required: admin login password
	PrivatePassword string `koanf:"private_password"` // Unlocks private works; empty disables the gate
	SessionSecret   string `koanf:"session_secret"`   // Required: session encryption secret
	CookieSecure    bool   `koanf:"cookie_secure"`    // Set true for HTTPS

	PostCacheTTL time.Duration `koanf:"post_cache_ttl"` // Content cache TTL (default 5min)
	UnlockTTL    time.Duration `koanf:"unlock_ttl"`     // Private unlock lifetime (default 10min)

	Verbose bool `koanf:"verbose"`
}

// SanityConfig is the hosted content lake connection.
type SanityConfig struct {
	ProjectID  string `koanf:"project_id"`
	Dataset    string `koanf:"dataset"`
	APIVersion string `koanf:"api_version"`
	Token      string `koanf:"token"`
	UseCDN     bool   `koanf:"use_cdn"`
}

// Collection names the document holding an ordered list of post references.
type Collection struct {
	DocType string `koanf:"doc_type"`
	Field   string `koanf:"field"`
}

func (c *SiteConfig) setDefaults() {
	if c.Name == "" {
		c.Name = "Folio"
	}
	if c.URL == "" {
		c.URL = "http://localhost:3000"
	}
	if c.Addr == "" {
		c.Addr = ":3000"
	}
	if c.DatabasePath == "" {
		c.DatabasePath = "data/folio.db"
	}
	if c.StaticDir == "" {
		c.StaticDir = "public"
	}
	if c.Source == "" {
		c.Source = SourceDir
	}
	if c.ContentDir == "" {
		c.ContentDir = "content"
	}
	if c.Sanity.Dataset == "" {
		c.Sanity.Dataset = "production"
	}
	if c.Sanity.APIVersion == "" {
		c.Sanity.APIVersion = cms.DefaultAPIVersion
	}
	if c.Works.DocType == "" {
		c.Works = Collection{DocType: "works", Field: "workPosts"}
	}
	if c.Blog.DocType == "" {
		c.Blog = Collection{DocType: "blog", Field: "blogPosts"}
	}
	if c.PostCacheTTL == 0 {
		c.PostCacheTTL = 5 * time.Minute
	}
	if c.UnlockTTL == 0 {
		c.UnlockTTL = 10 * time.Minute
	}
}

// Validate reports configuration that would keep the server from starting.
func (c *SiteConfig) Validate() error {
	if c.AdminPassword == "" {
		return fmt.Errorf("admin_password is required")
	}
	if c.SessionSecret == "" {
		return fmt.Errorf("session_secret is required")
	}
	switch c.Source {
	case SourceDir:
		if c.ContentDir == "" {
			return fmt.Errorf("content_dir is required for the dir source")
		}
	case SourceSanity:
		if c.Sanity.ProjectID == "" {
			return fmt.Errorf("sanity.project_id is required for the sanity source")
		}
	default:
		return fmt.Errorf("invalid source %q: must be one of sanity, dir", c.Source)
	}
	if c.UnlockTTL < 0 || c.PostCacheTTL < 0 {
		return fmt.Errorf("durations must be non-negative")
	}
	return nil
}

// LoadConfig reads the YAML file at path when it exists, then overlays
// FOLIO_* environment variables. A double underscore separates nested
// keys: FOLIO_SANITY__PROJECT_ID sets sanity.project_id.
func LoadConfig(path string) (SiteConfig, error) {
	k := koanf.New(".")

	var cfg SiteConfig
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return cfg, fmt.Errorf("reading config %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return cfg, fmt.Errorf("accessing config %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("FOLIO_", ".", func(s string) string {
		s = strings.ToLower(strings.TrimPrefix(s, "FOLIO_"))
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return cfg, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", &cfg); err != nil {
		return cfg, fmt.Errorf("unmarshalling config: %w", err)
	}
	cfg.setDefaults()
	return cfg, nil
}

// Option configures additional App behavior.
type Option func(*App)

// WithCustomRoutes registers additional routes on the Echo instance.
// The callback receives the App before the server starts.
func WithCustomRoutes(fn func(*App)) Option {
	return func(a *App) {
		a.customRoutes = append(a.customRoutes, fn)
	}
}

// WithStaticDir sets the directory for user-owned static assets.
func WithStaticDir(dir string) Option {
	return func(a *App) {
		a.Config.StaticDir = dir
	}
}

// WithSource replaces the content source built from the configuration.
func WithSource(src cms.Source) Option {
	return func(a *App) {
		a.source = src
	}
}

// WithLogger sets the application logger.
func WithLogger(l *zap.Logger) Option {
	return func(a *App) {
		a.Logger = l
	}
}

// WithViews overrides the default page components.
func WithViews(v ViewFuncs) Option {
	return func(a *App) {
		a.Views = v
	}
}
