package wordpress

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"github.com/eringen/portfolio/content"
)

const (
	postsPath      = "/wp-json/wp/v2/posts"
	categoriesPath = "/wp-json/wp/v2/categories"

	// MaxPerPage is the largest page size the REST API accepts.
	MaxPerPage = 100

	maxCategoryPages = 10
)

// ListPosts returns one page of published posts, newest first. Any failure
// yields an empty slice.
func (c *Client) ListPosts(ctx context.Context, page, perPage int) []PostSummary {
	q := url.Values{}
	q.Set("status", "publish")
	q.Set("per_page", strconv.Itoa(perPage))
	q.Set("page", strconv.Itoa(page))
	q.Set("_embed", "")

	var posts []wpPost
	if err := c.getJSON(ctx, postsPath, q, &posts); err != nil {
		return []PostSummary{}
	}
	return c.summaries(posts)
}

// ListPostsByCategory returns published posts in one category. Any failure
// yields an empty slice.
func (c *Client) ListPostsByCategory(ctx context.Context, categoryID, perPage int) []PostSummary {
	q := url.Values{}
	q.Set("categories", strconv.Itoa(categoryID))
	q.Set("status", "publish")
	q.Set("per_page", strconv.Itoa(perPage))
	q.Set("_embed", "")

	var posts []wpPost
	if err := c.getJSON(ctx, postsPath, q, &posts); err != nil {
		return []PostSummary{}
	}
	return c.summaries(posts)
}

// ListCategories returns all blog categories, paging through the endpoint
// MaxPerPage at a time. A failed first page yields an empty slice; a failed
// later page keeps what was already read.
func (c *Client) ListCategories(ctx context.Context) []Category {
	categories := []Category{}
	for page := 1; page <= maxCategoryPages; page++ {
		q := url.Values{}
		q.Set("per_page", strconv.Itoa(MaxPerPage))
		q.Set("page", strconv.Itoa(page))

		var batch []Category
		if err := c.getJSON(ctx, categoriesPath, q, &batch); err != nil {
			break
		}
		for i := range batch {
			batch[i].Name = content.StripTags(batch[i].Name)
		}
		categories = append(categories, batch...)
		if len(batch) < MaxPerPage {
			break
		}
	}
	return categories
}

// GetPostBySlug returns the post whose slug matches, or nil when there is
// no match or the lookup fails. When several posts share a slug the first
// one returned by WordPress wins.
func (c *Client) GetPostBySlug(ctx context.Context, slug string) *PostDetail {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil
	}
	q := url.Values{}
	q.Set("slug", slug)
	q.Set("_embed", "")
	if c.authenticated() {
		q.Set("context", "edit")
	}

	var posts []wpPost
	if err := c.getJSON(ctx, postsPath, q, &posts); err != nil {
		return nil
	}
	if len(posts) == 0 {
		c.log.Debug("post not found", "slug", slug)
		return nil
	}
	if len(posts) > 1 {
		c.log.Warn("duplicate slug, using first match", "slug", slug, "matches", len(posts))
	}
	return c.detail(ctx, posts[0])
}

func (c *Client) summaries(posts []wpPost) []PostSummary {
	out := make([]PostSummary, 0, len(posts))
	for _, p := range posts {
		out = append(out, c.summary(p))
	}
	return out
}

func (c *Client) summary(p wpPost) PostSummary {
	return PostSummary{
		ID:            p.ID,
		Title:         content.StripTags(p.Title.Rendered),
		Slug:          p.Slug,
		Excerpt:       excerptOf(p),
		Date:          p.Date,
		FeaturedImage: featuredImage(p),
		Author:        c.authorName(p),
	}
}

func (c *Client) detail(ctx context.Context, p wpPost) *PostDetail {
	d := &PostDetail{
		PostSummary: c.summary(p),
		Content:     p.Content.Rendered,
		AuthorImage: c.authorImage(p),
		ReadingTime: content.ReadingTime(p.Content.Rendered),
		Headings:    content.ExtractHeadings(p.Content.Rendered),
		Categories:  categoriesOf(p),
		Link:        p.Link,
		Modified:    p.Modified,
	}
	d.SEO = ParseSEO(p.Meta)
	if d.SEO == nil {
		d.SEO = c.PluginSEO(ctx, p.ID)
	}
	return d
}

// excerptOf uses the rendered excerpt, or the body when the excerpt is empty.
func excerptOf(p wpPost) string {
	if excerpt := content.Excerpt(p.Excerpt.Rendered); excerpt != "" {
		return excerpt
	}
	return content.Excerpt(p.Content.Rendered)
}

func featuredImage(p wpPost) string {
	if len(p.Embedded.FeaturedMedia) == 0 {
		return ""
	}
	return content.SafeURL(p.Embedded.FeaturedMedia[0].SourceURL)
}

func (c *Client) authorName(p wpPost) string {
	if len(p.Embedded.Author) > 0 && p.Embedded.Author[0].Name != "" {
		return p.Embedded.Author[0].Name
	}
	return c.cfg.AuthorName
}

func (c *Client) authorImage(p wpPost) string {
	var avatars map[string]string
	if len(p.Embedded.Author) > 0 {
		avatars = p.Embedded.Author[0].AvatarURLs
	}
	return ResolveAuthorImage(avatars, c.cfg.AuthorEmail)
}

func categoriesOf(p wpPost) []Category {
	categories := []Category{}
	for _, group := range p.Embedded.Terms {
		for _, t := range group {
			if t.Taxonomy != "category" {
				continue
			}
			categories = append(categories, Category{ID: t.ID, Name: content.StripTags(t.Name), Slug: t.Slug})
		}
	}
	return categories
}
