package portfolio

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
)

const maxAPIPerPage = 100

type apiError struct {
	Error string `json:"error"`
}

type summarizeRequest struct {
	Slug    string `json:"slug"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

type summarizeResponse struct {
	Summary string `json:"summary"`
}

func (a *App) handleAPIPosts(c echo.Context) error {
	page := clamp(atoiDefault(c.QueryParam("page"), 1), 1, 1, 1000)
	perPage := clamp(atoiDefault(c.QueryParam("per_page"), a.Config.PostsPerPage), a.Config.PostsPerPage, 1, maxAPIPerPage)
	return c.JSON(http.StatusOK, a.ContentFrom(c).Posts(c.Request().Context(), page, perPage))
}

func (a *App) handleAPIPost(c echo.Context) error {
	post := a.ContentFrom(c).Post(c.Request().Context(), c.Param("slug"))
	if post == nil {
		return c.JSON(http.StatusNotFound, nil)
	}
	return c.JSON(http.StatusOK, post)
}

func (a *App) handleAPICategories(c echo.Context) error {
	return c.JSON(http.StatusOK, a.ContentFrom(c).Categories(c.Request().Context()))
}

func (a *App) handleAPICategoryPosts(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, apiError{Error: "invalid category id"})
	}
	perPage := clamp(atoiDefault(c.QueryParam("per_page"), a.Config.PostsPerPage), a.Config.PostsPerPage, 1, maxAPIPerPage)
	return c.JSON(http.StatusOK, a.ContentFrom(c).CategoryPosts(c.Request().Context(), id, perPage))
}

func (a *App) handleAPISummarize(c echo.Context) error {
	if a.Summarizer == nil {
		return c.JSON(http.StatusServiceUnavailable, apiError{Error: "summaries are not configured"})
	}
	var req summarizeRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apiError{Error: "invalid request body"})
	}
	ctx := c.Request().Context()
	if strings.TrimSpace(req.Content) == "" && req.Slug != "" {
		post := a.ContentFrom(c).Post(ctx, req.Slug)
		if post == nil {
			return c.JSON(http.StatusNotFound, nil)
		}
		req.Title, req.Content = post.Title, post.Content
	}
	if strings.TrimSpace(req.Content) == "" {
		return c.JSON(http.StatusBadRequest, apiError{Error: "content is required"})
	}
	summary, err := a.Summarizer.Summarize(ctx, req.Title, req.Content)
	if err != nil {
		a.Logger.Warn("summary failed", "title", req.Title, "error", err)
		return c.JSON(http.StatusBadGateway, apiError{Error: "summary unavailable"})
	}
	return c.JSON(http.StatusOK, summarizeResponse{Summary: summary})
}

// handleAPIMe passes the visitor's credentials through to WordPress and
// returns the account they identify, or null.
func (a *App) handleAPIMe(c echo.Context) error {
	user := a.Content.CurrentUser(c.Request().Context(), c.Request().Header.Get(echo.HeaderAuthorization))
	if user == nil {
		return c.JSON(http.StatusOK, nil)
	}
	return c.JSON(http.StatusOK, user)
}
