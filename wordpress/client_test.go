package wordpress

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

const postJSON = `{
	"id": 42,
	"date": "2024-03-01T09:30:00",
	"modified": "2024-03-02T10:00:00",
	"slug": "hello-world",
	"status": "publish",
	"link": "https://blog.example.com/hello-world/",
	"title": {"rendered": "Hello &#8211; <em>World</em>"},
	"content": {"rendered": "<h2>Intro</h2><p>hello world</p><h3>Details</h3>"},
	"excerpt": {"rendered": "<p>A short &amp; sweet excerpt</p>"},
	"meta": [],
	"_embedded": {
		"author": [{"id": 1, "name": "Ada", "avatar_urls": {"24": "https://avatar/24", "96": "https://avatar/96", "48": "https://avatar/48"}}],
		"wp:featuredmedia": [{"source_url": "https://blog.example.com/img.jpg"}],
		"wp:term": [[{"id": 3, "name": "Go", "slug": "go", "taxonomy": "category"}], [{"id": 9, "name": "tag", "slug": "tag", "taxonomy": "post_tag"}]]
	}
}`

// fakeWordPress serves canned responses by path and records requests.
type fakeWordPress struct {
	mu       sync.Mutex
	requests []*http.Request
	handlers map[string]http.HandlerFunc
}

func newFakeWordPress(t *testing.T, handlers map[string]http.HandlerFunc) (*fakeWordPress, *Client) {
	t.Helper()
	f := &fakeWordPress{handlers: handlers}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.requests = append(f.requests, r.Clone(context.Background()))
		f.mu.Unlock()
		h, ok := f.handlers[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		h(w, r)
	}))
	t.Cleanup(srv.Close)
	client := NewClient(Config{
		BaseURL:     srv.URL + "/",
		AuthorName:  "Site Owner",
		AuthorEmail: "Owner@Example.com ",
		Logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	return f, client
}

func (f *fakeWordPress) last() *http.Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.requests) == 0 {
		return nil
	}
	return f.requests[len(f.requests)-1]
}

func jsonHandler(status int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		io.WriteString(w, body)
	}
}

func TestListPostsNormalizes(t *testing.T) {
	f, c := newFakeWordPress(t, map[string]http.HandlerFunc{
		postsPath: jsonHandler(http.StatusOK, "["+postJSON+"]"),
	})

	posts := c.ListPosts(context.Background(), 2, 6)
	if len(posts) != 1 {
		t.Fatalf("got %d posts, want 1", len(posts))
	}
	p := posts[0]
	if p.ID != 42 || p.Slug != "hello-world" {
		t.Errorf("unexpected identity: %+v", p)
	}
	if p.Title != "Hello – World" {
		t.Errorf("Title = %q", p.Title)
	}
	if p.Excerpt != "A short & sweet excerpt" {
		t.Errorf("Excerpt = %q", p.Excerpt)
	}
	if p.Date != "2024-03-01T09:30:00" {
		t.Errorf("Date = %q", p.Date)
	}
	if p.FeaturedImage != "https://blog.example.com/img.jpg" {
		t.Errorf("FeaturedImage = %q", p.FeaturedImage)
	}
	if p.Author != "Ada" {
		t.Errorf("Author = %q", p.Author)
	}

	q := f.last().URL.Query()
	if q.Get("status") != "publish" || q.Get("page") != "2" || q.Get("per_page") != "6" {
		t.Errorf("unexpected query: %s", f.last().URL.RawQuery)
	}
	if _, ok := q["_embed"]; !ok {
		t.Errorf("expected _embed in query: %s", f.last().URL.RawQuery)
	}
}

func TestListPostsServerErrorReturnsEmpty(t *testing.T) {
	_, c := newFakeWordPress(t, map[string]http.HandlerFunc{
		postsPath: jsonHandler(http.StatusInternalServerError, `{"code":"boom"}`),
	})
	posts := c.ListPosts(context.Background(), 1, 10)
	if posts == nil {
		t.Fatal("expected empty slice, got nil")
	}
	if len(posts) != 0 {
		t.Errorf("got %d posts, want 0", len(posts))
	}
}

func TestListPostsNetworkErrorReturnsEmpty(t *testing.T) {
	c := NewClient(Config{
		BaseURL: "http://127.0.0.1:1",
		Logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	if posts := c.ListPosts(context.Background(), 1, 10); len(posts) != 0 {
		t.Errorf("got %d posts, want 0", len(posts))
	}
	if cats := c.ListCategories(context.Background()); cats == nil || len(cats) != 0 {
		t.Errorf("ListCategories = %v, want empty", cats)
	}
	if post := c.GetPostBySlug(context.Background(), "x"); post != nil {
		t.Errorf("GetPostBySlug = %+v, want nil", post)
	}
}

func TestListPostsMalformedJSONReturnsEmpty(t *testing.T) {
	_, c := newFakeWordPress(t, map[string]http.HandlerFunc{
		postsPath: jsonHandler(http.StatusOK, `[{"id": "not a number"`),
	})
	if posts := c.ListPosts(context.Background(), 1, 10); len(posts) != 0 {
		t.Errorf("got %d posts, want 0", len(posts))
	}
}

func TestListPostsByCategory(t *testing.T) {
	f, c := newFakeWordPress(t, map[string]http.HandlerFunc{
		postsPath: jsonHandler(http.StatusOK, "["+postJSON+"]"),
	})
	posts := c.ListPostsByCategory(context.Background(), 3, 4)
	if len(posts) != 1 {
		t.Fatalf("got %d posts, want 1", len(posts))
	}
	q := f.last().URL.Query()
	if q.Get("categories") != "3" || q.Get("per_page") != "4" || q.Get("status") != "publish" {
		t.Errorf("unexpected query: %s", f.last().URL.RawQuery)
	}
}

func TestListPostsByCategoryFailure(t *testing.T) {
	_, c := newFakeWordPress(t, map[string]http.HandlerFunc{
		postsPath: jsonHandler(http.StatusBadGateway, ``),
	})
	if posts := c.ListPostsByCategory(context.Background(), 3, 4); posts == nil || len(posts) != 0 {
		t.Errorf("got %v, want empty slice", posts)
	}
}

func TestListCategories(t *testing.T) {
	_, c := newFakeWordPress(t, map[string]http.HandlerFunc{
		categoriesPath: jsonHandler(http.StatusOK, `[{"id":1,"name":"Go &amp; Web","slug":"go-web","count":4},{"id":2,"name":"Misc","slug":"misc"}]`),
	})
	cats := c.ListCategories(context.Background())
	if len(cats) != 2 {
		t.Fatalf("got %d categories, want 2", len(cats))
	}
	if cats[0].Name != "Go & Web" || cats[0].Slug != "go-web" || cats[0].Count != 4 {
		t.Errorf("unexpected category: %+v", cats[0])
	}
}

// pagedCategories serves n categories the way WordPress does: ten per page
// unless per_page asks for more.
func pagedCategories(n int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		perPage, page := 10, 1
		fmt.Sscan(r.URL.Query().Get("per_page"), &perPage)
		fmt.Sscan(r.URL.Query().Get("page"), &page)
		var items []string
		for id := (page-1)*perPage + 1; id <= n && id <= page*perPage; id++ {
			items = append(items, fmt.Sprintf(`{"id":%d,"name":"Cat %d","slug":"cat-%d","count":1}`, id, id, id))
		}
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, "["+strings.Join(items, ",")+"]")
	}
}

func TestListCategoriesBeyondDefaultPage(t *testing.T) {
	f, c := newFakeWordPress(t, map[string]http.HandlerFunc{
		categoriesPath: pagedCategories(12),
	})
	cats := c.ListCategories(context.Background())
	if len(cats) != 12 {
		t.Fatalf("got %d categories, want 12", len(cats))
	}
	if cats[11].ID != 12 {
		t.Errorf("last category = %+v", cats[11])
	}
	if got := f.last().URL.Query().Get("per_page"); got != "100" {
		t.Errorf("per_page = %q, want 100", got)
	}
}

func TestListCategoriesPages(t *testing.T) {
	f, c := newFakeWordPress(t, map[string]http.HandlerFunc{
		categoriesPath: pagedCategories(150),
	})
	cats := c.ListCategories(context.Background())
	if len(cats) != 150 {
		t.Fatalf("got %d categories, want 150", len(cats))
	}
	f.mu.Lock()
	n := len(f.requests)
	f.mu.Unlock()
	if n != 2 {
		t.Errorf("made %d requests, want 2", n)
	}
}

func TestListCategoriesKeepsEarlierPages(t *testing.T) {
	full := pagedCategories(100)
	_, c := newFakeWordPress(t, map[string]http.HandlerFunc{
		categoriesPath: func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Query().Get("page") == "2" {
				w.WriteHeader(http.StatusBadRequest)
				return
			}
			full(w, r)
		},
	})
	if cats := c.ListCategories(context.Background()); len(cats) != 100 {
		t.Errorf("got %d categories, want 100", len(cats))
	}
}

func TestGetPostBySlugDetail(t *testing.T) {
	_, c := newFakeWordPress(t, map[string]http.HandlerFunc{
		postsPath:             jsonHandler(http.StatusOK, "["+postJSON+"]"),
		aioseoPostPath + "42": jsonHandler(http.StatusNotFound, `{"code":"rest_no_route"}`),
	})
	post := c.GetPostBySlug(context.Background(), "hello-world")
	if post == nil {
		t.Fatal("expected post, got nil")
	}
	if post.ReadingTime != 1 {
		t.Errorf("ReadingTime = %d, want 1", post.ReadingTime)
	}
	if len(post.Headings) != 2 || post.Headings[0].ID != "heading-0" || post.Headings[1].Text != "Details" {
		t.Errorf("Headings = %+v", post.Headings)
	}
	if post.AuthorImage != "https://avatar/96" {
		t.Errorf("AuthorImage = %q, want largest embedded avatar", post.AuthorImage)
	}
	if len(post.Categories) != 1 || post.Categories[0].Slug != "go" {
		t.Errorf("Categories = %+v", post.Categories)
	}
	if post.SEO != nil {
		t.Errorf("SEO = %+v, want nil", post.SEO)
	}
	if post.Content != "<h2>Intro</h2><p>hello world</p><h3>Details</h3>" {
		t.Errorf("Content = %q", post.Content)
	}
}

func TestGetPostBySlugNotFound(t *testing.T) {
	_, c := newFakeWordPress(t, map[string]http.HandlerFunc{
		postsPath: jsonHandler(http.StatusOK, `[]`),
	})
	if post := c.GetPostBySlug(context.Background(), "missing"); post != nil {
		t.Errorf("got %+v, want nil", post)
	}
}

func TestGetPostBySlugEmptySlug(t *testing.T) {
	f, c := newFakeWordPress(t, nil)
	if post := c.GetPostBySlug(context.Background(), "  "); post != nil {
		t.Errorf("got %+v, want nil", post)
	}
	if f.last() != nil {
		t.Error("empty slug should not hit the remote API")
	}
}

func TestGetPostBySlugFirstMatchWins(t *testing.T) {
	second := strings.Replace(postJSON, `"id": 42`, `"id": 43`, 1)
	_, c := newFakeWordPress(t, map[string]http.HandlerFunc{
		postsPath: jsonHandler(http.StatusOK, "["+postJSON+","+second+"]"),
	})
	post := c.GetPostBySlug(context.Background(), "hello-world")
	if post == nil || post.ID != 42 {
		t.Fatalf("got %+v, want post 42", post)
	}
}

func TestGetPostBySlugEditContextOnlyWithCredentials(t *testing.T) {
	f, c := newFakeWordPress(t, map[string]http.HandlerFunc{
		postsPath: jsonHandler(http.StatusOK, `[]`),
	})
	c.GetPostBySlug(context.Background(), "a")
	if got := f.last().URL.Query().Get("context"); got != "" {
		t.Errorf("anonymous lookup sent context=%q", got)
	}

	c.cfg.Username, c.cfg.AppPassword = "editor", "app pass"
	c.GetPostBySlug(context.Background(), "a")
	req := f.last()
	if got := req.URL.Query().Get("context"); got != "edit" {
		t.Errorf("authenticated lookup context = %q, want edit", got)
	}
	user, pass, ok := req.BasicAuth()
	if !ok || user != "editor" || pass != "app pass" {
		t.Errorf("basic auth = %q %q %v", user, pass, ok)
	}
}

func TestGetPostBySlugSEOFromMeta(t *testing.T) {
	withMeta := strings.Replace(postJSON, `"meta": []`, `"meta": {"_aioseo_title": "Custom Title", "_aioseo_noindex": "1"}`, 1)
	f, c := newFakeWordPress(t, map[string]http.HandlerFunc{
		postsPath: jsonHandler(http.StatusOK, "["+withMeta+"]"),
	})
	post := c.GetPostBySlug(context.Background(), "hello-world")
	if post == nil || post.SEO == nil {
		t.Fatalf("expected SEO data, got %+v", post)
	}
	if post.SEO.Title != "Custom Title" || !post.SEO.NoIndex {
		t.Errorf("SEO = %+v", post.SEO)
	}
	if strings.HasPrefix(f.last().URL.Path, aioseoPostPath) {
		t.Error("plugin endpoint should not be queried when meta has SEO data")
	}
}

func TestGetPostBySlugSEOFromPlugin(t *testing.T) {
	_, c := newFakeWordPress(t, map[string]http.HandlerFunc{
		postsPath:             jsonHandler(http.StatusOK, "["+postJSON+"]"),
		aioseoPostPath + "42": jsonHandler(http.StatusOK, `{"title":"Plugin Title","description":"From plugin","robots_nofollow":true}`),
	})
	post := c.GetPostBySlug(context.Background(), "hello-world")
	if post == nil || post.SEO == nil {
		t.Fatalf("expected SEO data, got %+v", post)
	}
	if post.SEO.Title != "Plugin Title" || post.SEO.Description != "From plugin" || !post.SEO.NoFollow {
		t.Errorf("SEO = %+v", post.SEO)
	}
}

func TestPluginSEOFailureIsNil(t *testing.T) {
	_, c := newFakeWordPress(t, map[string]http.HandlerFunc{
		aioseoPostPath + "7": jsonHandler(http.StatusInternalServerError, `oops`),
	})
	if seo := c.PluginSEO(context.Background(), 7); seo != nil {
		t.Errorf("got %+v, want nil", seo)
	}
	if seo := c.PluginSEO(context.Background(), 0); seo != nil {
		t.Errorf("got %+v for id 0, want nil", seo)
	}
}

func TestFaultIsolation(t *testing.T) {
	_, c := newFakeWordPress(t, map[string]http.HandlerFunc{
		postsPath:      jsonHandler(http.StatusInternalServerError, ``),
		categoriesPath: jsonHandler(http.StatusOK, `[{"id":1,"name":"Go","slug":"go"}]`),
	})
	ctx := context.Background()
	if posts := c.ListPosts(ctx, 1, 10); len(posts) != 0 {
		t.Errorf("posts = %v, want empty", posts)
	}
	if cats := c.ListCategories(ctx); len(cats) != 1 {
		t.Errorf("categories = %v, want one category despite posts failure", cats)
	}
}

func TestUserAgentHeader(t *testing.T) {
	f, c := newFakeWordPress(t, map[string]http.HandlerFunc{
		categoriesPath: jsonHandler(http.StatusOK, `[]`),
	})
	c.ListCategories(context.Background())
	if ua := f.last().Header.Get("User-Agent"); ua != "portfolio/1.0" {
		t.Errorf("User-Agent = %q", ua)
	}
}

func TestHTTPErrorMessage(t *testing.T) {
	err := &HTTPError{StatusCode: 500, Status: "500 Internal Server Error", URL: "http://x"}
	want := fmt.Sprintf("unexpected status %s from %s", "500 Internal Server Error", "http://x")
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}
