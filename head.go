package portfolio

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/eringen/portfolio/content"
	"github.com/eringen/portfolio/wordpress"
)

const defaultRobots = "index, follow"

// HeadState is the complete <head> metadata of a page. Handlers compute it
// and views render it as is.
type HeadState struct {
	Title         string
	Description   string
	Canonical     string
	OGType        string // "website" or "article"
	OGImage       string
	TwitterCard   string
	TwitterImage  string
	Robots        string
	JSONLD        string
	PublishedTime string
	ModifiedTime  string
}

// pageHead builds the head of a site page at the given path segments.
func (a *App) pageHead(title, description string, segments ...string) HeadState {
	full := a.Config.Name
	if title != "" {
		full = title + " | " + a.Config.Name
	}
	if description == "" {
		description = a.Config.Description
	}
	h := HeadState{
		Title:       full,
		Description: description,
		Canonical:   BuildURL(a.Config.URL, segments...),
		OGType:      "website",
		OGImage:     a.Config.DefaultImage,
		Robots:      defaultRobots,
		JSONLD:      WebsiteJsonLD(a.Config),
	}
	h.finish()
	return h
}

// postHead reconciles a post's SEO overrides with the site defaults.
// Each override field wins on its own; missing ones fall back.
func (a *App) postHead(p *wordpress.PostDetail) HeadState {
	h := HeadState{
		Title:         p.Title + " | " + a.Config.Name,
		Description:   p.Excerpt,
		Canonical:     PostURL(a.Config.URL, p.Slug),
		OGType:        "article",
		OGImage:       a.Config.DefaultImage,
		Robots:        defaultRobots,
		PublishedTime: p.Date,
		ModifiedTime:  p.Modified,
	}
	if h.Description == "" {
		h.Description = a.Config.Description
	}
	if p.FeaturedImage != "" {
		h.OGImage = BuildURL(a.Config.URL, "og", p.Slug)
	}
	if seo := p.SEO; seo != nil {
		if seo.Title != "" {
			h.Title = seo.Title
		}
		if seo.Description != "" {
			h.Description = seo.Description
		}
		if u := content.SafeURL(seo.CanonicalURL); u != "" {
			h.Canonical = u
		}
		if u := content.SafeURL(seo.OGImage); u != "" {
			h.OGImage = u
		}
		if u := content.SafeURL(seo.TwitterImage); u != "" {
			h.TwitterImage = u
		}
		if r := seo.Robots(); r != "" {
			h.Robots = r
		}
	}
	h.JSONLD = BlogPostingJsonLD(p, h, a.Config)
	h.finish()
	return h
}

func (h *HeadState) finish() {
	if h.TwitterImage == "" {
		h.TwitterImage = h.OGImage
	}
	h.TwitterCard = "summary"
	if h.TwitterImage != "" {
		h.TwitterCard = "summary_large_image"
	}
}

// WebsiteJsonLD returns a JSON-LD string for a WebSite schema using SiteConfig.
func WebsiteJsonLD(cfg SiteConfig) string {
	data := map[string]interface{}{
		"@context":    "https://schema.org",
		"@type":       "WebSite",
		"name":        cfg.Name,
		"url":         BuildURL(cfg.URL),
		"description": cfg.Description,
	}
	if cfg.Author != "" {
		data["author"] = map[string]string{
			"@type": "Person",
			"name":  cfg.Author,
		}
	}
	return marshalJSONLD(data)
}

// BlogPostingJsonLD returns a JSON-LD string for a BlogPosting schema.
func BlogPostingJsonLD(p *wordpress.PostDetail, head HeadState, cfg SiteConfig) string {
	data := map[string]interface{}{
		"@context":      "https://schema.org",
		"@type":         "BlogPosting",
		"headline":      p.Title,
		"description":   head.Description,
		"datePublished": p.Date,
		"url":           head.Canonical,
		"mainEntityOfPage": map[string]string{
			"@type": "WebPage",
			"@id":   head.Canonical,
		},
	}
	if p.Modified != "" {
		data["dateModified"] = p.Modified
	}
	if head.OGImage != "" {
		data["image"] = head.OGImage
	}
	author := p.Author
	if author == "" {
		author = cfg.Author
	}
	if author != "" {
		data["author"] = map[string]string{
			"@type": "Person",
			"name":  author,
		}
	}
	if cfg.Name != "" {
		data["publisher"] = map[string]string{
			"@type": "Organization",
			"name":  cfg.Name,
		}
	}
	if len(p.Categories) > 0 {
		names := make([]string, 0, len(p.Categories))
		for _, c := range p.Categories {
			names = append(names, c.Name)
		}
		data["keywords"] = strings.Join(names, ", ")
	}
	if p.ReadingTime > 0 {
		data["timeRequired"] = "PT" + strconv.Itoa(p.ReadingTime) + "M"
	}
	return marshalJSONLD(data)
}

func marshalJSONLD(data map[string]interface{}) string {
	b, err := json.Marshal(data)
	if err != nil {
		return "{}"
	}
	return string(b)
}
