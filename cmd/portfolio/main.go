// Command portfolio serves the portfolio site and its WordPress-backed blog.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jessevdk/go-flags"
	"github.com/joho/godotenv"

	"github.com/eringen/portfolio"
	"github.com/eringen/portfolio/views"
)

// version is set at build time via ldflags.
var version = "dev"

// Options holds all settings, read from flags or the environment.
type Options struct {
	Name         string `long:"site-name" env:"SITE_NAME" default:"Portfolio" description:"Site name"`
	URL          string `long:"site-url" env:"SITE_URL" default:"http://localhost:3000" description:"Canonical site URL"`
	Description  string `long:"site-description" env:"SITE_DESCRIPTION" description:"Default meta description"`
	Author       string `long:"site-author" env:"SITE_AUTHOR" description:"Author name"`
	AuthorEmail  string `long:"author-email" env:"AUTHOR_EMAIL" description:"Gravatar fallback for post authors"`
	DefaultImage string `long:"default-image" env:"DEFAULT_IMAGE" description:"Default og:image URL"`

	Addr         string `long:"addr" env:"ADDR" default:":3000" description:"Listen address"`
	PostsPerPage int    `long:"posts-per-page" env:"POSTS_PER_PAGE" default:"9" description:"Blog page size"`

	WordPressURL         string        `long:"wp-url" env:"WORDPRESS_URL" description:"WordPress site root"`
	WordPressUser        string        `long:"wp-user" env:"WORDPRESS_USER" description:"Application password user"`
	WordPressAppPassword string        `long:"wp-app-password" env:"WORDPRESS_APP_PASSWORD" description:"Application password"`
	RequestTimeout       time.Duration `long:"request-timeout" env:"REQUEST_TIMEOUT" default:"10s" description:"Timeout for outbound requests"`
	UserAgent            string        `long:"user-agent" env:"USER_AGENT" default:"portfolio/1.0" description:"User agent for outbound requests"`

	FormsEndpoint string `long:"forms-endpoint" env:"FORMS_ENDPOINT" description:"Hosted form submission URL"`

	GeminiAPIKey string `long:"gemini-api-key" env:"GEMINI_API_KEY" description:"Enables post summaries"`
	GeminiModel  string `long:"gemini-model" env:"GEMINI_MODEL" default:"gemini-2.5-flash" description:"Summary model"`

	ProfilePath string `long:"profile" env:"PROFILE_PATH" description:"YAML profile for the landing page"`
	StaticDir   string `long:"static-dir" env:"STATIC_DIR" default:"public" description:"Directory of user static assets"`

	SessionSecret string `long:"session-secret" env:"SESSION_SECRET" description:"Cookie session secret"`
	CookieSecure  bool   `long:"cookie-secure" env:"COOKIE_SECURE" description:"Mark cookies Secure"`

	Debug   bool `long:"debug" env:"DEBUG" description:"Enable debug logging"`
	Version bool `long:"version" description:"Print the version and exit"`
}

func main() {
	_ = godotenv.Load()

	var opts Options
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			return
		}
		os.Exit(1)
	}
	if opts.Version {
		fmt.Printf("portfolio %s\n", version)
		return
	}

	level := slog.LevelInfo
	if opts.Debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	if err := run(opts, logger); err != nil {
		logger.Error("portfolio stopped", "error", err)
		os.Exit(1)
	}
}

func run(opts Options, logger *slog.Logger) error {
	a := portfolio.New(siteConfig(opts), views.Default(),
		portfolio.WithLogger(logger),
		portfolio.WithStaticDir(opts.StaticDir),
	)
	if err := a.Setup(); err != nil {
		return err
	}
	if a.Summarizer != nil {
		logger.Info("summaries enabled", "model", opts.GeminiModel)
	}
	defer a.Close()

	errCh := make(chan error, 1)
	go func() {
		errCh <- a.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Info("received signal", "signal", sig.String())
	case err := <-errCh:
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := a.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	logger.Info("server stopped")
	return nil
}

func siteConfig(opts Options) portfolio.SiteConfig {
	return portfolio.SiteConfig{
		Name:                 opts.Name,
		URL:                  opts.URL,
		Description:          opts.Description,
		Author:               opts.Author,
		AuthorEmail:          opts.AuthorEmail,
		DefaultImage:         opts.DefaultImage,
		Addr:                 opts.Addr,
		PostsPerPage:         opts.PostsPerPage,
		WordPressURL:         opts.WordPressURL,
		WordPressUser:        opts.WordPressUser,
		WordPressAppPassword: opts.WordPressAppPassword,
		RequestTimeout:       opts.RequestTimeout,
		UserAgent:            opts.UserAgent,
		FormsEndpoint:        opts.FormsEndpoint,
		GeminiAPIKey:         opts.GeminiAPIKey,
		GeminiModel:          opts.GeminiModel,
		ProfilePath:          opts.ProfilePath,
		SessionSecret:        opts.SessionSecret,
		CookieSecure:         opts.CookieSecure,
	}
}
