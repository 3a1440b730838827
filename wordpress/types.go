package wordpress

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/eringen/portfolio/content"
)

// PostSummary is the listing view of a published WordPress post.
type PostSummary struct {
	ID            int    `json:"id"`
	Title         string `json:"title"`
	Slug          string `json:"slug"`
	Excerpt       string `json:"excerpt"`
	Date          string `json:"date"`
	FeaturedImage string `json:"featuredImage,omitempty"`
	Author        string `json:"author"`
}

// PostDetail is a single post with its body and the fields derived from it.
type PostDetail struct {
	PostSummary
	Content     string            `json:"content"`
	AuthorImage string            `json:"authorImage"`
	ReadingTime int               `json:"readingTime"`
	Headings    []content.Heading `json:"headings"`
	Categories  []Category        `json:"categories"`
	Link        string            `json:"link,omitempty"`
	Modified    string            `json:"modified,omitempty"`
	SEO         *SEO              `json:"seo,omitempty"`
}

// Category is a WordPress post category.
type Category struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Count       int    `json:"count,omitempty"`
	Description string `json:"description,omitempty"`
}

// SEO holds per-post overrides for the page head. A nil *SEO means the
// site defaults apply.
type SEO struct {
	Title        string `json:"title,omitempty"`
	Description  string `json:"description,omitempty"`
	CanonicalURL string `json:"canonicalUrl,omitempty"`
	OGImage      string `json:"ogImage,omitempty"`
	TwitterImage string `json:"twitterImage,omitempty"`
	NoIndex      bool   `json:"noindex,omitempty"`
	NoFollow     bool   `json:"nofollow,omitempty"`
	NoArchive    bool   `json:"noarchive,omitempty"`
}

// IsZero reports whether no override is set.
func (s SEO) IsZero() bool {
	return s == SEO{}
}

// Robots returns the robots meta directive for the post, or "" when the
// defaults apply.
func (s *SEO) Robots() string {
	if s == nil || (!s.NoIndex && !s.NoFollow && !s.NoArchive) {
		return ""
	}
	index, follow := "index", "follow"
	if s.NoIndex {
		index = "noindex"
	}
	if s.NoFollow {
		follow = "nofollow"
	}
	directives := []string{index, follow}
	if s.NoArchive {
		directives = append(directives, "noarchive")
	}
	return strings.Join(directives, ", ")
}

// --- Remote REST representation ---

type rendered struct {
	Rendered string `json:"rendered"`
}

type wpPost struct {
	ID       int        `json:"id"`
	Date     string     `json:"date"`
	Modified string     `json:"modified"`
	Slug     string     `json:"slug"`
	Status   string     `json:"status"`
	Link     string     `json:"link"`
	Title    rendered   `json:"title"`
	Content  rendered   `json:"content"`
	Excerpt  rendered   `json:"excerpt"`
	Meta     Meta       `json:"meta"`
	Embedded wpEmbedded `json:"_embedded"`
}

type wpEmbedded struct {
	Author        []wpAuthor `json:"author"`
	FeaturedMedia []wpMedia  `json:"wp:featuredmedia"`
	Terms         [][]wpTerm `json:"wp:term"`
}

type wpAuthor struct {
	ID         int               `json:"id"`
	Name       string            `json:"name"`
	Slug       string            `json:"slug"`
	AvatarURLs map[string]string `json:"avatar_urls"`
}

type wpMedia struct {
	SourceURL string `json:"source_url"`
	AltText   string `json:"alt_text"`
}

type wpTerm struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Slug     string `json:"slug"`
	Taxonomy string `json:"taxonomy"`
}

// Meta is the registered post meta of a post. WordPress sends an empty
// array instead of an object when a post has no meta.
type Meta map[string]json.RawMessage

// UnmarshalJSON accepts both an object and the empty-array form.
func (m *Meta) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		*m = nil
		return nil
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		return err
	}
	*m = raw
	return nil
}

// String returns the string value of key. Single-element arrays are
// unwrapped and scalars are formatted.
func (m Meta) String(key string) string {
	raw, ok := m[key]
	if !ok {
		return ""
	}
	return strings.TrimSpace(rawString(raw))
}

// Bool reports whether key holds a truthy value ("1", "true", "on", 1, true).
func (m Meta) Bool(key string) bool {
	raw, ok := m[key]
	if !ok {
		return false
	}
	return truthy(rawString(raw))
}

func rawString(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var list []json.RawMessage
	if err := json.Unmarshal(raw, &list); err == nil {
		if len(list) == 0 {
			return ""
		}
		return rawString(list[0])
	}
	var b bool
	if err := json.Unmarshal(raw, &b); err == nil {
		return strconv.FormatBool(b)
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}
	return ""
}

func truthy(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "on", "yes":
		return true
	}
	return false
}

// flexBool decodes booleans that plugins send as bools, numbers or strings.
type flexBool bool

func (b *flexBool) UnmarshalJSON(data []byte) error {
	*b = flexBool(truthy(rawString(data)))
	return nil
}
