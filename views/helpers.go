package views

import (
	"context"
	"html/template"
	"strconv"
	"strings"

	portfolio "github.com/eringen/portfolio"
	"github.com/eringen/portfolio/content"
)

var funcs = template.FuncMap{
	"date":        formatDate,
	"isoDate":     isoDate,
	"body":        postBody,
	"jsonld":      jsonLD,
	"safeURL":     content.SafeURL,
	"readingTime": readingTime,
	"navClass":    navClass,
	"inc":         func(n int) int { return n + 1 },
	"categoryURL": func(id int) string { return "/blog/category/" + strconv.Itoa(id) + "/" },
	"postURL":     func(slug string) string { return "/blog/" + slug + "/" },
}

// formatDate renders a WordPress date as "Jan 2, 2006".
func formatDate(s string) string {
	t, ok := portfolio.ParseDate(s)
	if !ok {
		return s
	}
	return t.Format("Jan 2, 2006")
}

func isoDate(s string) string {
	t, ok := portfolio.ParseDate(s)
	if !ok {
		return ""
	}
	return t.Format("2006-01-02")
}

// postBody renders trusted WordPress HTML with anchored headings.
func postBody(s string) (template.HTML, error) {
	var b strings.Builder
	if err := content.HTML(s).Render(context.Background(), &b); err != nil {
		return "", err
	}
	return template.HTML(b.String()), nil
}

// jsonLD marks JSON produced by encoding/json as safe script content.
func jsonLD(s string) template.JS {
	return template.JS(s)
}

func readingTime(minutes int) string {
	if minutes <= 1 {
		return "1 min read"
	}
	return strconv.Itoa(minutes) + " min read"
}

// navClass marks the navigation entry for the current section.
func navClass(current, prefix string) string {
	if prefix == "/" {
		if current == "/" {
			return "active"
		}
		return ""
	}
	if strings.HasPrefix(current, prefix) {
		return "active"
	}
	return ""
}
