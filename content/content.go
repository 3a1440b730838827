// Package content provides the HTML utilities used to adapt WordPress post
// bodies: text extraction, excerpts, reading time and heading extraction for a
// table of contents.
package content

import (
	"context"
	"io"
	"math"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/a-h/templ"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

const (
	// WordsPerMinute is the reading speed used by ReadingTime.
	WordsPerMinute = 200
	// ExcerptLength is the maximum excerpt length in characters.
	ExcerptLength = 160
)

var (
	reHeading    = regexp.MustCompile(`(?is)<h([1-6])(\s[^>]*)?>(.*?)</h[1-6]\s*>`)
	reIDAttr     = regexp.MustCompile(`(?i)\s+id\s*=\s*("[^"]*"|'[^']*'|[^\s>]+)`)
	reWhitespace = regexp.MustCompile(`\s+`)
)

// Heading describes one <h1>-<h6> element of a post body.
type Heading struct {
	ID    string `json:"id"`
	Text  string `json:"text"`
	Level int    `json:"level"`
}

// HeadingID returns the anchor id assigned to the n-th heading of a document.
func HeadingID(n int) string {
	return "heading-" + strconv.Itoa(n)
}

// ExtractHeadings returns the headings of body in document order. Ids are
// assigned sequentially, independent of heading level.
func ExtractHeadings(body string) []Heading {
	matches := reHeading.FindAllStringSubmatch(body, -1)
	headings := make([]Heading, 0, len(matches))
	for i, m := range matches {
		level, _ := strconv.Atoi(m[1])
		headings = append(headings, Heading{
			ID:    HeadingID(i),
			Text:  StripTags(m[3]),
			Level: level,
		})
	}
	return headings
}

// AnchorHeadings gives every heading tag in body the id that ExtractHeadings
// assigns to it. A heading that already carries an id keeps it, and the
// generated id goes on an empty span at the start of the heading instead.
func AnchorHeadings(body string) string {
	n := 0
	return reHeading.ReplaceAllStringFunc(body, func(m string) string {
		sub := reHeading.FindStringSubmatch(m)
		id := HeadingID(n)
		n++
		if reIDAttr.MatchString(sub[2]) {
			return "<h" + sub[1] + sub[2] + `><span id="` + id + `"></span>` + sub[3] + "</h" + sub[1] + ">"
		}
		return "<h" + sub[1] + ` id="` + id + `"` + sub[2] + ">" + sub[3] + "</h" + sub[1] + ">"
	})
}

// blockElements are the tags whose boundaries separate words.
var blockElements = map[atom.Atom]bool{
	atom.P: true, atom.Div: true, atom.Br: true, atom.Li: true, atom.Ul: true, atom.Ol: true,
	atom.H1: true, atom.H2: true, atom.H3: true, atom.H4: true, atom.H5: true, atom.H6: true,
	atom.Blockquote: true, atom.Pre: true, atom.Tr: true, atom.Td: true, atom.Th: true,
	atom.Section: true, atom.Article: true, atom.Figure: true, atom.Figcaption: true,
	atom.Hr: true, atom.Table: true, atom.Header: true, atom.Footer: true,
}

// StripTags returns the text content of an HTML fragment with entities decoded
// and whitespace collapsed. Script and style bodies are dropped.
func StripTags(fragment string) string {
	var buf strings.Builder
	z := html.NewTokenizer(strings.NewReader(fragment))
	skip := 0
	for {
		switch z.Next() {
		case html.ErrorToken:
			return strings.TrimSpace(reWhitespace.ReplaceAllString(buf.String(), " "))
		case html.TextToken:
			if skip == 0 {
				buf.Write(z.Text())
			}
		case html.StartTagToken, html.SelfClosingTagToken:
			name, _ := z.TagName()
			a := atom.Lookup(name)
			if a == atom.Script || a == atom.Style {
				skip++
			}
			if blockElements[a] {
				buf.WriteByte(' ')
			}
		case html.EndTagToken:
			name, _ := z.TagName()
			a := atom.Lookup(name)
			if (a == atom.Script || a == atom.Style) && skip > 0 {
				skip--
			}
			if blockElements[a] {
				buf.WriteByte(' ')
			}
		}
	}
}

// WordCount counts whitespace-separated words in the text of body.
func WordCount(body string) int {
	return len(strings.Fields(StripTags(body)))
}

// ReadingTime estimates the minutes needed to read body, never less than one.
func ReadingTime(body string) int {
	minutes := int(math.Ceil(float64(WordCount(body)) / WordsPerMinute))
	if minutes < 1 {
		return 1
	}
	return minutes
}

// Excerpt returns the text of body cut to ExcerptLength characters. The cut
// is hard and may split a word.
func Excerpt(body string) string {
	return Truncate(StripTags(body), ExcerptLength)
}

// Truncate cuts s to at most n runes.
func Truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}

// SafeURL validates a URL for use in an HTML attribute. It returns "" for
// anything other than http(s), mailto, tel or site-relative references.
func SafeURL(raw string) string {
	val := strings.TrimSpace(html.UnescapeString(raw))
	if val == "" {
		return ""
	}
	if strings.HasPrefix(val, "/") || strings.HasPrefix(val, "#") {
		return val
	}
	parsed, err := url.Parse(val)
	if err != nil || parsed.Scheme == "" {
		return ""
	}
	switch strings.ToLower(parsed.Scheme) {
	case "http", "https", "mailto", "tel":
		return val
	default:
		return ""
	}
}

// HTML returns a templ.Component that writes a WordPress post body with
// anchored headings. The body is trusted remote content and is not escaped.
func HTML(body string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, AnchorHeadings(body))
		return err
	})
}
