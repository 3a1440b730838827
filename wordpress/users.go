package wordpress

import (
	"context"
	"net/url"
	"strings"
)

const currentUserPath = "/wp-json/wp/v2/users/me"

// User is the WordPress account behind a request.
type User struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	Slug      string `json:"slug"`
	AvatarURL string `json:"avatarUrl,omitempty"`
}

// CurrentUser forwards the visitor's Authorization header to WordPress and
// returns the account it identifies. Anonymous visitors and failures yield
// nil. The site's own credentials are never used here.
func (c *Client) CurrentUser(ctx context.Context, authorization string) *User {
	authorization = strings.TrimSpace(authorization)
	if authorization == "" {
		return nil
	}
	q := url.Values{}
	q.Set("context", "view")

	var raw wpAuthor
	if err := c.getJSONAs(ctx, currentUserPath, q, authorization, &raw); err != nil {
		return nil
	}
	if raw.ID == 0 {
		return nil
	}
	u := &User{ID: raw.ID, Name: raw.Name, Slug: raw.Slug}
	if len(raw.AvatarURLs) > 0 {
		u.AvatarURL = ResolveAuthorImage(raw.AvatarURLs, "")
	}
	return u
}
