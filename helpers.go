package portfolio

import (
	"net/url"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/eringen/portfolio/wordpress"
)

// wpDateLayout is the layout of the date fields WordPress sends.
const wpDateLayout = "2006-01-02T15:04:05"

// BuildURL joins a base URL with path segments, ensuring a trailing slash.
func BuildURL(base string, pathSegments ...string) string {
	u, err := url.Parse(base)
	if err != nil {
		return base
	}
	u.Path = path.Join(u.Path, path.Join(pathSegments...))
	if len(pathSegments) > 0 && !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	return u.String()
}

// FileURL returns the URL of a root-level file such as feed.xml, without a
// trailing slash.
func FileURL(base, name string) string {
	return strings.TrimRight(base, "/") + "/" + name
}

// PostURL returns the canonical URL of a post on this site.
func PostURL(base, slug string) string {
	return BuildURL(base, "blog", slug)
}

// CategoryURL returns the listing URL of a category on this site.
func CategoryURL(base string, id int) string {
	return BuildURL(base, "blog", "category", strconv.Itoa(id))
}

// ParseDate parses a WordPress date, accepting RFC 3339 as well.
func ParseDate(s string) (time.Time, bool) {
	for _, layout := range []string{wpDateLayout, time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// FilterRelatedPosts returns up to limit posts other than current.
func FilterRelatedPosts(current string, posts []wordpress.PostSummary, limit int) []wordpress.PostSummary {
	related := make([]wordpress.PostSummary, 0, limit)
	for _, p := range posts {
		if p.Slug == current {
			continue
		}
		if len(related) == limit {
			break
		}
		related = append(related, p)
	}
	return related
}

// ShareLinks builds the social share URLs for a post.
func ShareLinks(postURL, title string) []ShareLink {
	u := url.QueryEscape(postURL)
	t := url.QueryEscape(title)
	return []ShareLink{
		{Name: "X", URL: "https://twitter.com/intent/tweet?url=" + u + "&text=" + t},
		{Name: "LinkedIn", URL: "https://www.linkedin.com/sharing/share-offsite/?url=" + u},
		{Name: "Facebook", URL: "https://www.facebook.com/sharer/sharer.php?u=" + u},
		{Name: "Email", URL: "mailto:?subject=" + strings.ReplaceAll(t, "+", "%20") + "&body=" + u},
	}
}

// clamp bounds n to [lo, hi], using def when n is not positive.
func clamp(n, def, lo, hi int) int {
	if n <= 0 {
		n = def
	}
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}

// atoiDefault parses s, returning def for empty or invalid input.
func atoiDefault(s string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return def
	}
	return n
}
