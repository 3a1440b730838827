package wordpress

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"
)

const aioseoPostPath = "/wp-json/aioseo/v1/post/"

// Post meta keys written by the All in One SEO plugin.
const (
	metaSEOTitle        = "_aioseo_title"
	metaSEODescription  = "_aioseo_description"
	metaSEOCanonical    = "_aioseo_canonical_url"
	metaSEOOGImage      = "_aioseo_og_image"
	metaSEOTwitterImage = "_aioseo_twitter_image"
	metaSEONoIndex      = "_aioseo_noindex"
	metaSEONoFollow     = "_aioseo_nofollow"
	metaSEONoArchive    = "_aioseo_noarchive"
	metaSEOSettings     = "_aioseo_settings"
)

// aioseoSettings is the shape of both the embedded settings blob and the
// plugin's post endpoint.
type aioseoSettings struct {
	Title           string   `json:"title"`
	Description     string   `json:"description"`
	CanonicalURL    string   `json:"canonical_url"`
	OGImage         string   `json:"og_image_custom_url"`
	TwitterImage    string   `json:"twitter_image_custom_url"`
	RobotsNoIndex   flexBool `json:"robots_noindex"`
	RobotsNoFollow  flexBool `json:"robots_nofollow"`
	RobotsNoArchive flexBool `json:"robots_noarchive"`
}

func (s aioseoSettings) seo() SEO {
	return SEO{
		Title:        strings.TrimSpace(s.Title),
		Description:  strings.TrimSpace(s.Description),
		CanonicalURL: strings.TrimSpace(s.CanonicalURL),
		OGImage:      strings.TrimSpace(s.OGImage),
		TwitterImage: strings.TrimSpace(s.TwitterImage),
		NoIndex:      bool(s.RobotsNoIndex),
		NoFollow:     bool(s.RobotsNoFollow),
		NoArchive:    bool(s.RobotsNoArchive),
	}
}

// ParseSEO reads SEO overrides from post meta. Individual meta keys win; the
// JSON settings blob fills the fields they leave empty. A malformed blob is
// ignored. It returns nil when no field is set.
func ParseSEO(meta Meta) *SEO {
	if len(meta) == 0 {
		return nil
	}
	seo := SEO{
		Title:        meta.String(metaSEOTitle),
		Description:  meta.String(metaSEODescription),
		CanonicalURL: meta.String(metaSEOCanonical),
		OGImage:      meta.String(metaSEOOGImage),
		TwitterImage: meta.String(metaSEOTwitterImage),
		NoIndex:      meta.Bool(metaSEONoIndex),
		NoFollow:     meta.Bool(metaSEONoFollow),
		NoArchive:    meta.Bool(metaSEONoArchive),
	}
	if blob, ok := parseSettingsBlob(meta[metaSEOSettings]); ok {
		seo = merge(seo, blob.seo())
	}
	if seo.IsZero() {
		return nil
	}
	return &seo
}

// parseSettingsBlob decodes the settings blob, which is stored either as a
// JSON object or as a string holding JSON.
func parseSettingsBlob(raw json.RawMessage) (aioseoSettings, bool) {
	var settings aioseoSettings
	if len(raw) == 0 {
		return settings, false
	}
	var encoded string
	if err := json.Unmarshal(raw, &encoded); err == nil {
		if strings.TrimSpace(encoded) == "" {
			return settings, false
		}
		raw = json.RawMessage(encoded)
	}
	if err := json.Unmarshal(raw, &settings); err != nil {
		return aioseoSettings{}, false
	}
	return settings, true
}

// merge fills the empty fields of primary from secondary.
func merge(primary, secondary SEO) SEO {
	if primary.Title == "" {
		primary.Title = secondary.Title
	}
	if primary.Description == "" {
		primary.Description = secondary.Description
	}
	if primary.CanonicalURL == "" {
		primary.CanonicalURL = secondary.CanonicalURL
	}
	if primary.OGImage == "" {
		primary.OGImage = secondary.OGImage
	}
	if primary.TwitterImage == "" {
		primary.TwitterImage = secondary.TwitterImage
	}
	primary.NoIndex = primary.NoIndex || secondary.NoIndex
	primary.NoFollow = primary.NoFollow || secondary.NoFollow
	primary.NoArchive = primary.NoArchive || secondary.NoArchive
	return primary
}

// PluginSEO asks the SEO plugin's REST endpoint for the overrides of a post.
// Any failure yields nil.
func (c *Client) PluginSEO(ctx context.Context, postID int) *SEO {
	if postID <= 0 {
		return nil
	}
	var resp struct {
		aioseoSettings
		Post *aioseoSettings `json:"post"`
	}
	if err := c.getJSON(ctx, aioseoPostPath+strconv.Itoa(postID), nil, &resp); err != nil {
		return nil
	}
	seo := resp.aioseoSettings.seo()
	if resp.Post != nil {
		seo = merge(seo, resp.Post.seo())
	}
	if seo.IsZero() {
		return nil
	}
	return &seo
}
