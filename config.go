package portfolio

import (
	"log/slog"
	"time"

	"github.com/eringen/portfolio/profile"
)

// SiteConfig holds all configuration for the portfolio site.
type SiteConfig struct {
	Name         string // Site name (default "Portfolio")
	URL          string // Canonical URL (default "http://localhost:3000")
	Description  string // Default meta description
	Author       string // Author name for JSON-LD and posts without an author
	AuthorEmail  string // Avatar fallback for posts without an embedded avatar
	DefaultImage string // og:image for pages without their own image

	Addr         string // Listen address (default ":3000")
	PostsPerPage int    // Blog page size (default 9)

	WordPressURL         string // Required: root of the WordPress site
	WordPressUser        string // Optional application-password user
	WordPressAppPassword string // Optional application password
	RequestTimeout       time.Duration
	UserAgent            string

	FormsEndpoint string // Hosted form URL receiving contact submissions

	GeminiAPIKey string // Enables /api/summarize when set
	GeminiModel  string

	ProfilePath string // YAML profile; empty uses the embedded default

	SessionSecret string // Required: cookie session secret
	CookieSecure  bool   // Set true for HTTPS
}

func (c *SiteConfig) setDefaults() {
	if c.Name == "" {
		c.Name = "Portfolio"
	}
	if c.URL == "" {
		c.URL = "http://localhost:3000"
	}
	if c.Addr == "" {
		c.Addr = ":3000"
	}
	if c.PostsPerPage <= 0 {
		c.PostsPerPage = 9
	}
	if c.RequestTimeout == 0 {
		c.RequestTimeout = 10 * time.Second
	}
	if c.UserAgent == "" {
		c.UserAgent = "portfolio/1.0"
	}
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

// WithStaticDir sets the directory for user-owned static assets (default "public").
func WithStaticDir(dir string) Option {
	return func(a *App) {
		a.staticDir = dir
	}
}

// WithContent replaces the WordPress client built from the config.
func WithContent(src ContentSource) Option {
	return func(a *App) {
		a.Content = src
	}
}

// WithForms replaces the forms client built from the config.
func WithForms(f FormSubmitter) Option {
	return func(a *App) {
		a.Forms = f
	}
}

// WithSummarizer enables post summaries.
func WithSummarizer(s Summarizer) Option {
	return func(a *App) {
		a.Summarizer = s
	}
}

// WithProfile sets the landing-page profile.
func WithProfile(p *profile.Profile) Option {
	return func(a *App) {
		a.Profile = p
	}
}

// WithLogger sets the structured logger used by the app and its clients.
func WithLogger(l *slog.Logger) Option {
	return func(a *App) {
		a.Logger = l
	}
}
