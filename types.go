package portfolio

import (
	"strconv"

	"github.com/eringen/portfolio/forms"
	"github.com/eringen/portfolio/profile"
	"github.com/eringen/portfolio/wordpress"
)

// Layout carries what every page needs around its content.
type Layout struct {
	Head      HeadState
	SiteName  string
	Path      string // request path, for active navigation
	Theme     string // "light" or "dark"
	CSRFToken string
	Links     []profile.Link
	Year      int
}

// HomePage is the landing page: profile content plus the latest posts.
type HomePage struct {
	Layout
	Profile *profile.Profile
	Posts   []wordpress.PostSummary
}

// BlogPage is one page of the post listing, optionally for one category.
type BlogPage struct {
	Layout
	Posts      []wordpress.PostSummary
	Categories []wordpress.Category
	Category   *wordpress.Category
	Page       int
	HasMore    bool
}

// NextPageURL returns the fragment URL of the following listing page.
func (p BlogPage) NextPageURL() string {
	return "?page=" + strconv.Itoa(p.Page+1) + "&partial=posts"
}

// PostPage is a single post with its related posts.
type PostPage struct {
	Layout
	Post    *wordpress.PostDetail
	Related []wordpress.PostSummary
	Share   []ShareLink

	CanSummarize bool
}

// ContactPage is the contact form, with the result of a submission if any.
type ContactPage struct {
	Layout
	Form   forms.Submission
	Status ContactStatus
}

// ContactStatus is the outcome of a contact submission.
type ContactStatus struct {
	Sent   bool
	Errors forms.Errors
	Error  string // submission-level failure shown above the form
}

// ShareLink is a prebuilt social share URL for a post.
type ShareLink struct {
	Name string
	URL  string
}
