// Package portfolio is a personal portfolio site built with Go, Echo and
// templ. Its blog is proxied from a remote WordPress site: every request
// reads fresh content through the WordPress REST API, and nothing is stored
// on the server.
//
// Callers provide their own templ components via the ViewFuncs struct, and
// portfolio handles the routing, middleware, head metadata and content
// loading.
package portfolio

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"

	"github.com/eringen/portfolio/forms"
	"github.com/eringen/portfolio/profile"
	"github.com/eringen/portfolio/summary"
	"github.com/eringen/portfolio/wordpress"
)

// ContentSource is the read-only blog backend. Implementations degrade
// failures to empty or nil results instead of returning errors.
type ContentSource interface {
	ListPosts(ctx context.Context, page, perPage int) []wordpress.PostSummary
	GetPostBySlug(ctx context.Context, slug string) *wordpress.PostDetail
	ListCategories(ctx context.Context) []wordpress.Category
	ListPostsByCategory(ctx context.Context, categoryID, perPage int) []wordpress.PostSummary
	CurrentUser(ctx context.Context, authorization string) *wordpress.User
}

// FormSubmitter forwards contact submissions.
type FormSubmitter interface {
	Submit(ctx context.Context, s forms.Submission, pageURI string) error
}

// Summarizer produces a short summary of a post body.
type Summarizer interface {
	Summarize(ctx context.Context, title, body string) (string, error)
}

// ViewFuncs holds user-provided templ components that the app calls when
// rendering pages.
type ViewFuncs struct {
	Home          func(page HomePage) templ.Component
	Blog          func(page BlogPage) templ.Component
	PostList      func(page BlogPage) templ.Component
	Post          func(page PostPage) templ.Component
	Contact       func(page ContactPage) templ.Component
	ContactResult func(page ContactPage) templ.Component
	NotFound      func(layout Layout) templ.Component
	ServerError   func(layout Layout) templ.Component
}

// App is the central portfolio application. It wires together the content
// source, form and summary clients, handlers, middleware and views.
type App struct {
	Config     SiteConfig
	Echo       *echo.Echo
	Content    ContentSource
	Forms      FormSubmitter
	Summarizer Summarizer
	Profile    *profile.Profile
	Views      ViewFuncs
	Logger     *slog.Logger

	contactLimiter *RateLimiter
	imageClient    *http.Client
	customRoutes   []func(*App)
	staticDir      string
	initErr        error
	ready          bool
}

// New creates a portfolio App with the given configuration and view functions.
// Clients and the profile not supplied through options are built from cfg;
// a failure to build them is reported by Setup.
func New(cfg SiteConfig, views ViewFuncs, opts ...Option) *App {
	cfg.setDefaults()

	a := &App{
		Config:    cfg,
		Echo:      echo.New(),
		Views:     views,
		staticDir: "public",
	}

	for _, opt := range opts {
		opt(a)
	}

	if a.Logger == nil {
		a.Logger = slog.Default()
	}
	if a.Content == nil && cfg.WordPressURL != "" {
		a.Content = wordpress.NewClient(wordpress.Config{
			BaseURL:     cfg.WordPressURL,
			Username:    cfg.WordPressUser,
			AppPassword: cfg.WordPressAppPassword,
			AuthorName:  cfg.Author,
			AuthorEmail: cfg.AuthorEmail,
			Timeout:     cfg.RequestTimeout,
			UserAgent:   cfg.UserAgent,
			Logger:      a.Logger,
		})
	}
	if a.Forms == nil && cfg.FormsEndpoint != "" {
		a.Forms = forms.NewClient(forms.Config{
			Endpoint: cfg.FormsEndpoint,
			PageName: cfg.Name + " contact",
			Timeout:  cfg.RequestTimeout,
			Logger:   a.Logger,
		})
	}
	if a.Summarizer == nil && cfg.GeminiAPIKey != "" {
		gemini, err := summary.NewGemini(context.Background(), summary.Config{APIKey: cfg.GeminiAPIKey, Model: cfg.GeminiModel})
		if err != nil {
			a.initErr = fmt.Errorf("portfolio: summaries: %w", err)
		} else {
			a.Summarizer = gemini
		}
	}
	if a.Profile == nil {
		prof, err := profile.Load(cfg.ProfilePath)
		if err != nil {
			a.initErr = fmt.Errorf("portfolio: profile: %w", err)
			prof = profile.Default()
		}
		a.Profile = prof
	}
	a.imageClient = &http.Client{Timeout: cfg.RequestTimeout}

	return a
}

// Setup validates the configuration and registers middleware and routes.
// Start calls it; tests call it directly and serve through a.Echo.
func (a *App) Setup() error {
	if a.ready {
		return nil
	}
	if a.initErr != nil {
		return a.initErr
	}
	if a.Config.SessionSecret == "" {
		return errors.New("portfolio: SessionSecret is required")
	}
	if a.Content == nil {
		return errors.New("portfolio: WordPressURL is required")
	}

	a.contactLimiter = NewRateLimiter(5, 10*time.Minute)

	a.setupMiddleware()
	a.setupRoutes()

	for _, fn := range a.customRoutes {
		fn(a)
	}
	a.ready = true
	return nil
}

// Start sets the app up and serves until the server is shut down.
func (a *App) Start() error {
	if err := a.Setup(); err != nil {
		return err
	}
	a.Logger.Info("starting server", "addr", a.Config.Addr, "wordpress", a.Config.WordPressURL)
	if err := a.Echo.Start(a.Config.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("portfolio: serve: %w", err)
	}
	return nil
}

// Shutdown stops the server gracefully.
func (a *App) Shutdown(ctx context.Context) error {
	return a.Echo.Shutdown(ctx)
}

func (a *App) setupRoutes() {
	e := a.Echo

	// Embedded site assets; anything else under /public/ comes from the
	// static dir.
	embeddedFS, _ := fs.Sub(EmbeddedAssets, "embedded")
	embeddedHandler := http.FileServer(http.FS(embeddedFS))
	e.GET("/public/app.js", echo.WrapHandler(http.StripPrefix("/public/", embeddedHandler)))
	e.GET("/public/site.css", echo.WrapHandler(http.StripPrefix("/public/", embeddedHandler)))

	e.Static("/public", a.staticDir)
	e.GET("/robots.txt", a.handleRobots)
	e.GET("/sitemap.xml", a.handleSitemap)
	e.GET("/feed.xml", a.handleFeed)

	e.GET("/", a.handleHome)
	e.GET("/blog/", a.handleBlog)
	e.GET("/blog/:slug/", a.handlePost)
	e.GET("/blog/category/:id/", a.handleCategory)
	e.GET("/contact/", a.handleContact)
	e.POST("/contact/", a.handleContactSubmit)
	e.POST("/theme/", a.handleTheme)
	e.GET("/og/:slug/", a.handleOGImage)

	api := e.Group("/api")
	api.GET("/posts", a.handleAPIPosts)
	api.GET("/posts/:slug", a.handleAPIPost)
	api.GET("/categories", a.handleAPICategories)
	api.GET("/categories/:id/posts", a.handleAPICategoryPosts)
	api.POST("/summarize", a.handleAPISummarize)
	api.GET("/me", a.handleAPIMe)
}

// Close releases background resources. Call this when the app is shutting down.
func (a *App) Close() error {
	if a.contactLimiter != nil {
		a.contactLimiter.Close()
	}
	return nil
}
