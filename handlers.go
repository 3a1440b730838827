package portfolio

import (
	"errors"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/eringen/portfolio/forms"
	"github.com/eringen/portfolio/profile"
	"github.com/eringen/portfolio/wordpress"
)

const (
	homePostCount    = 3
	relatedPostCount = 3
	maxSitemapPages  = 10
)

func isHTMX(c echo.Context) bool {
	return c.Request().Header.Get("HX-Request") == "true"
}

func (a *App) layout(c echo.Context, head HeadState) Layout {
	var links []profile.Link
	if a.Profile != nil {
		links = a.Profile.Links
	}
	return Layout{
		Head:      head,
		SiteName:  a.Config.Name,
		Path:      c.Request().URL.Path,
		Theme:     Theme(c),
		CSRFToken: CsrfToken(c),
		Links:     links,
		Year:      time.Now().Year(),
	}
}

func (a *App) handleHome(c echo.Context) error {
	ctx := c.Request().Context()
	posts := a.ContentFrom(c).Posts(ctx, 1, homePostCount)
	head := a.pageHead("", a.Config.Description)
	if a.Profile != nil && a.Profile.Headline != "" && a.Config.Description == "" {
		head.Description = a.Profile.Headline
	}
	return Render(c, a.Views.Home(HomePage{
		Layout:  a.layout(c, head),
		Profile: a.Profile,
		Posts:   posts,
	}))
}

func (a *App) handleBlog(c echo.Context) error {
	ctx := c.Request().Context()
	loader := a.ContentFrom(c)
	page := clamp(atoiDefault(c.QueryParam("page"), 1), 1, 1, 1000)
	posts := loader.Posts(ctx, page, a.Config.PostsPerPage)

	data := BlogPage{
		Posts:   posts,
		Page:    page,
		HasMore: len(posts) == a.Config.PostsPerPage,
	}
	if isHTMX(c) && c.QueryParam("partial") == "posts" {
		data.Layout = a.layout(c, HeadState{})
		return Render(c, a.Views.PostList(data))
	}

	data.Categories = loader.Categories(ctx)
	head := a.pageHead("Blog", "", "blog")
	if page > 1 {
		head.Title = "Blog, page " + strconv.Itoa(page) + " | " + a.Config.Name
		head.Canonical = BuildURL(a.Config.URL, "blog") + "?page=" + strconv.Itoa(page)
	}
	data.Layout = a.layout(c, head)
	return Render(c, a.Views.Blog(data))
}

func (a *App) handleCategory(c echo.Context) error {
	ctx := c.Request().Context()
	loader := a.ContentFrom(c)
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return a.renderNotFound(c)
	}
	category := loader.Category(ctx, id)
	if category == nil {
		return a.renderNotFound(c)
	}

	data := BlogPage{
		Posts:      loader.CategoryPosts(ctx, id, a.Config.PostsPerPage),
		Categories: loader.Categories(ctx),
		Category:   category,
		Page:       1,
	}
	if isHTMX(c) && c.QueryParam("partial") == "posts" {
		data.Layout = a.layout(c, HeadState{})
		return Render(c, a.Views.PostList(data))
	}
	description := category.Description
	if description == "" {
		description = "Posts about " + category.Name + "."
	}
	head := a.pageHead(category.Name, description, "blog", "category", strconv.Itoa(id))
	data.Layout = a.layout(c, head)
	return Render(c, a.Views.Blog(data))
}

func (a *App) handlePost(c echo.Context) error {
	ctx := c.Request().Context()
	loader := a.ContentFrom(c)
	post := loader.Post(ctx, c.Param("slug"))
	if post == nil {
		return a.renderNotFound(c)
	}

	var related []wordpress.PostSummary
	if len(post.Categories) > 0 {
		related = FilterRelatedPosts(post.Slug, loader.CategoryPosts(ctx, post.Categories[0].ID, relatedPostCount+1), relatedPostCount)
	} else {
		related = FilterRelatedPosts(post.Slug, loader.Posts(ctx, 1, relatedPostCount+1), relatedPostCount)
	}

	head := a.postHead(post)
	return Render(c, a.Views.Post(PostPage{
		Layout:  a.layout(c, head),
		Post:    post,
		Related: related,
		Share:   ShareLinks(head.Canonical, post.Title),

		CanSummarize: a.Summarizer != nil,
	}))
}

func (a *App) handleContact(c echo.Context) error {
	return Render(c, a.Views.Contact(ContactPage{
		Layout: a.layout(c, a.pageHead("Contact", "Get in touch.", "contact")),
	}))
}

func (a *App) handleContactSubmit(c echo.Context) error {
	var s forms.Submission
	s.Name = c.FormValue("name")
	s.Email = c.FormValue("email")
	s.Phone = c.FormValue("phone")
	s.Message = c.FormValue("message")
	s.Trim()

	page := ContactPage{
		Layout: a.layout(c, a.pageHead("Contact", "Get in touch.", "contact")),
		Form:   s,
	}

	code := http.StatusOK
	switch errs := s.Validate(); {
	case errs != nil:
		page.Status.Errors = errs
		code = http.StatusUnprocessableEntity
	case !a.contactLimiter.Check(c.RealIP()):
		page.Status.Error = "Too many messages. Please try again later."
		code = http.StatusTooManyRequests
	case a.Forms == nil:
		page.Status.Error = "The contact form is not available right now."
		code = http.StatusServiceUnavailable
	default:
		a.contactLimiter.Record(c.RealIP())
		if err := a.Forms.Submit(c.Request().Context(), s, BuildURL(a.Config.URL, "contact")); err != nil {
			a.Logger.Warn("contact submission failed", "error", err)
			var invalid forms.Errors
			if errors.As(err, &invalid) {
				page.Status.Errors = invalid
				code = http.StatusUnprocessableEntity
			} else {
				page.Status.Error = "Your message could not be sent. Please try again later."
				code = http.StatusBadGateway
			}
			break
		}
		page.Status.Sent = true
		page.Form = forms.Submission{}
	}

	if isHTMX(c) {
		return RenderStatus(c, code, a.Views.ContactResult(page))
	}
	return RenderStatus(c, code, a.Views.Contact(page))
}

func (a *App) handleTheme(c echo.Context) error {
	theme := c.FormValue("theme")
	if theme != ThemeLight && theme != ThemeDark {
		theme = ThemeDark
		if Theme(c) == ThemeDark {
			theme = ThemeLight
		}
	}
	if err := setTheme(c, theme); err != nil {
		return err
	}
	if isHTMX(c) || c.Request().Header.Get("X-Requested-With") != "" {
		return c.NoContent(http.StatusNoContent)
	}
	return c.Redirect(http.StatusSeeOther, localReferer(c))
}

// localReferer returns the path of a same-site referer, or "/".
func localReferer(c echo.Context) string {
	ref, err := url.Parse(c.Request().Referer())
	if err != nil || ref.Path == "" || !strings.HasPrefix(ref.Path, "/") || strings.HasPrefix(ref.Path, "//") {
		return "/"
	}
	if ref.Host != "" && ref.Host != c.Request().Host {
		return "/"
	}
	return ref.Path
}

func (a *App) handleSitemap(c echo.Context) error {
	ctx := c.Request().Context()
	loader := a.ContentFrom(c)
	return a.renderSitemap(c, a.sitemapPosts(c), loader.Categories(ctx))
}

// sitemapPosts reads every published post, a full page at a time.
func (a *App) sitemapPosts(c echo.Context) []wordpress.PostSummary {
	ctx := c.Request().Context()
	loader := a.ContentFrom(c)
	var posts []wordpress.PostSummary
	for page := 1; page <= maxSitemapPages; page++ {
		batch := loader.Posts(ctx, page, wordpress.MaxPerPage)
		posts = append(posts, batch...)
		if len(batch) < wordpress.MaxPerPage {
			break
		}
	}
	return posts
}

func (a *App) handleFeed(c echo.Context) error {
	return a.renderRSS(c, a.ContentFrom(c).Posts(c.Request().Context(), 1, feedPostCount))
}

func (a *App) handleRobots(c echo.Context) error {
	if _, err := os.Stat(a.staticDir + "/robots.txt"); err == nil {
		return c.File(a.staticDir + "/robots.txt")
	}
	body := "User-agent: *\nAllow: /\nDisallow: /api/\n\nSitemap: " + FileURL(a.Config.URL, "sitemap.xml") + "\n"
	return c.String(http.StatusOK, body)
}

func (a *App) renderNotFound(c echo.Context) error {
	head := a.pageHead("Not found", "", strings.Trim(c.Request().URL.Path, "/"))
	head.Robots = "noindex, follow"
	return RenderStatus(c, http.StatusNotFound, a.Views.NotFound(a.layout(c, head)))
}

func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	he, ok := err.(*echo.HTTPError)
	if ok && he.Code == http.StatusNotFound {
		if strings.HasPrefix(c.Request().URL.Path, "/api/") {
			_ = c.JSON(http.StatusNotFound, nil)
			return
		}
		_ = a.renderNotFound(c)
		return
	}
	code := http.StatusInternalServerError
	if ok {
		code = he.Code
	}
	if code >= 500 {
		a.Logger.Error("server error", "path", c.Request().URL.Path, "error", err)
		head := a.pageHead("Server error", "")
		head.Robots = "noindex, nofollow"
		_ = RenderStatus(c, code, a.Views.ServerError(a.layout(c, head)))
		return
	}
	a.Echo.DefaultHTTPErrorHandler(err, c)
}
