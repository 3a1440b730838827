// Package views renders the portfolio pages. Templates are embedded
// html/template files exposed as templ components.
package views

import (
	"context"
	"embed"
	"html/template"
	"io"

	"github.com/a-h/templ"

	portfolio "github.com/eringen/portfolio"
)

//go:embed templates/*.html
var files embed.FS

var (
	homeTmpl    = parse("home.html")
	blogTmpl    = parse("blog.html")
	postTmpl    = parse("post.html")
	contactTmpl = parse("contact.html")
	errorTmpl   = parse("error.html")
)

// parse builds one page from the shared layout and partials plus its own file.
func parse(page string) *template.Template {
	return template.Must(template.New(page).Funcs(funcs).ParseFS(files,
		"templates/layout.html",
		"templates/partials.html",
		"templates/"+page,
	))
}

func component(t *template.Template, name string, data any) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		return t.ExecuteTemplate(w, name, data)
	})
}

type errorPage struct {
	portfolio.Layout
	Code    int
	Message string
}

// Default returns the site's view functions.
func Default() portfolio.ViewFuncs {
	return portfolio.ViewFuncs{
		Home: func(p portfolio.HomePage) templ.Component {
			return component(homeTmpl, "layout", p)
		},
		Blog: func(p portfolio.BlogPage) templ.Component {
			return component(blogTmpl, "layout", p)
		},
		PostList: func(p portfolio.BlogPage) templ.Component {
			return component(blogTmpl, "post-list", p)
		},
		Post: func(p portfolio.PostPage) templ.Component {
			return component(postTmpl, "layout", p)
		},
		Contact: func(p portfolio.ContactPage) templ.Component {
			return component(contactTmpl, "layout", p)
		},
		ContactResult: func(p portfolio.ContactPage) templ.Component {
			return component(contactTmpl, "contact-result", p)
		},
		NotFound: func(l portfolio.Layout) templ.Component {
			return component(errorTmpl, "layout", errorPage{Layout: l, Code: 404, Message: "This page does not exist."})
		},
		ServerError: func(l portfolio.Layout) templ.Component {
			return component(errorTmpl, "layout", errorPage{Layout: l, Code: 500, Message: "Something went wrong. Please try again later."})
		},
	}
}
