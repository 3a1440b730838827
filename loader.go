package portfolio

import (
	"context"
	"sync"

	"github.com/labstack/echo/v4"

	"github.com/eringen/portfolio/wordpress"
)

const loaderKey = "content_loader"

// Loader memoizes content lookups for the lifetime of one request, so a
// handler and the helpers it calls never fetch the same thing twice.
// Nothing survives the request.
type Loader struct {
	src ContentSource

	mu         sync.Mutex
	pages      map[[2]int][]wordpress.PostSummary
	byCategory map[[2]int][]wordpress.PostSummary
	posts      map[string]*wordpress.PostDetail
	categories []wordpress.Category
	catsLoaded bool
}

// NewLoader creates a Loader reading from src.
func NewLoader(src ContentSource) *Loader {
	return &Loader{
		src:        src,
		pages:      make(map[[2]int][]wordpress.PostSummary),
		byCategory: make(map[[2]int][]wordpress.PostSummary),
		posts:      make(map[string]*wordpress.PostDetail),
	}
}

// Posts returns one page of post summaries.
func (l *Loader) Posts(ctx context.Context, page, perPage int) []wordpress.PostSummary {
	key := [2]int{page, perPage}
	l.mu.Lock()
	defer l.mu.Unlock()
	if posts, ok := l.pages[key]; ok {
		return posts
	}
	posts := l.src.ListPosts(ctx, page, perPage)
	l.pages[key] = posts
	return posts
}

// Post returns the post with slug, or nil.
func (l *Loader) Post(ctx context.Context, slug string) *wordpress.PostDetail {
	l.mu.Lock()
	defer l.mu.Unlock()
	if post, ok := l.posts[slug]; ok {
		return post
	}
	post := l.src.GetPostBySlug(ctx, slug)
	l.posts[slug] = post
	return post
}

// Categories returns all categories.
func (l *Loader) Categories(ctx context.Context) []wordpress.Category {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.catsLoaded {
		l.categories = l.src.ListCategories(ctx)
		l.catsLoaded = true
	}
	return l.categories
}

// Category returns the category with id, or nil.
func (l *Loader) Category(ctx context.Context, id int) *wordpress.Category {
	for _, cat := range l.Categories(ctx) {
		if cat.ID == id {
			cat := cat
			return &cat
		}
	}
	return nil
}

// CategoryPosts returns posts in one category.
func (l *Loader) CategoryPosts(ctx context.Context, categoryID, perPage int) []wordpress.PostSummary {
	key := [2]int{categoryID, perPage}
	l.mu.Lock()
	defer l.mu.Unlock()
	if posts, ok := l.byCategory[key]; ok {
		return posts
	}
	posts := l.src.ListPostsByCategory(ctx, categoryID, perPage)
	l.byCategory[key] = posts
	return posts
}

// loaderMiddleware attaches a fresh Loader to every request.
func (a *App) loaderMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		c.Set(loaderKey, NewLoader(a.Content))
		return next(c)
	}
}

// ContentFrom returns the request's Loader, creating one if the middleware
// did not run.
func (a *App) ContentFrom(c echo.Context) *Loader {
	if l, ok := c.Get(loaderKey).(*Loader); ok {
		return l
	}
	l := NewLoader(a.Content)
	c.Set(loaderKey, l)
	return l
}
