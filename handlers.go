package tantalks

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"

	"github.com/eringen/tantalks/content"
	"github.com/eringen/tantalks/markdown"
	"github.com/eringen/tantalks/views"
)

// Render writes a templ component as an HTTP 200 HTML response.
func Render(c echo.Context, cmp templ.Component) error {
	return RenderStatus(c, http.StatusOK, cmp)
}

// RenderStatus writes a templ component with a specific HTTP status code.
func RenderStatus(c echo.Context, code int, cmp templ.Component) error {
	c.Response().Header().Set(echo.HeaderContentType, echo.MIMETextHTMLCharsetUTF8)
	c.Response().WriteHeader(code)
	return cmp.Render(c.Request().Context(), c.Response().Writer)
}

// decodeJSON reads the request body into v.
func decodeJSON(c echo.Context, v any) error {
	if err := json.NewDecoder(c.Request().Body).Decode(v); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && typeErr.Field != "" {
			return echo.NewHTTPError(http.StatusBadRequest, typeErr.Field+" has an invalid type")
		}
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	return nil
}

// contentError maps a repository error to its API response. action completes
// the sentence "Failed to ...".
func contentError(c echo.Context, err error, action string) error {
	var verr *content.ValidationError
	switch {
	case errors.As(err, &verr):
		return c.JSON(http.StatusBadRequest, map[string]any{"error": verr.Error(), "fields": verr.Fields})
	case errors.Is(err, content.ErrUnauthorized):
		return c.JSON(http.StatusUnauthorized, map[string]string{
			"error":   "Unauthorized",
			"message": "Please sign in again",
		})
	case errors.Is(err, content.ErrNotFound):
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Not found"})
	default:
		c.Logger().Errorf("failed to %s: %v", action, err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to " + action})
	}
}

func (a *App) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (a *App) handleListEpisodes(c echo.Context) error {
	episodes, err := a.Content.ListEpisodes(c.Request().Context())
	if err != nil {
		return contentError(c, err, "fetch episodes")
	}
	return c.JSON(http.StatusOK, map[string]any{"episodes": episodes})
}

func (a *App) handleListBlog(c echo.Context) error {
	posts, err := a.Content.ListPublishedBlogPosts(c.Request().Context())
	if err != nil {
		return contentError(c, err, "fetch blog posts")
	}
	resp := map[string]any{"posts": posts}
	if featured, ok := content.FeaturedPost(posts); ok {
		resp["featuredId"] = featured.ID
	}
	return c.JSON(http.StatusOK, resp)
}

func (a *App) handleGetBlog(c echo.Context) error {
	post, err := a.Content.GetPublishedBlogPost(c.Request().Context(), c.Param("id"))
	if err != nil {
		return contentError(c, err, "fetch blog post")
	}
	nodes := markdown.Render(post.Content)
	if nodes == nil {
		nodes = []markdown.Node{}
	}
	return c.JSON(http.StatusOK, map[string]any{"post": post, "nodes": nodes})
}

type contactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

func (a *App) handleCreateContact(c echo.Context) error {
	var req contactRequest
	if err := decodeJSON(c, &req); err != nil {
		return err
	}
	msg, err := a.Content.CreateContactMessage(c.Request().Context(), content.ContactMessage{
		Name:    req.Name,
		Email:   req.Email,
		Subject: req.Subject,
		Body:    req.Body,
	})
	if err != nil {
		return contentError(c, err, "send message")
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true, "message": msg})
}

func (a *App) handleGetProfile(c echo.Context) error {
	profile, err := a.Content.GetProfile(c.Request().Context())
	if err != nil {
		return contentError(c, err, "fetch profile")
	}
	resp := map[string]any{"profile": profile}
	if exp, ok := content.CalculateExperience(profile.WorkStartDate, time.Now()); ok {
		resp["experience"] = exp
	}
	return c.JSON(http.StatusOK, resp)
}

func (a *App) handlePostPage(c echo.Context) error {
	ctx := c.Request().Context()
	post, err := a.Content.GetBlogPost(ctx, c.Param("id"))
	if errors.Is(err, content.ErrNotFound) {
		return RenderStatus(c, http.StatusNotFound, a.Views.NotFound())
	}
	if err != nil {
		return err
	}
	preview := false
	if !post.Published {
		if !a.isAdmin(c) {
			return RenderStatus(c, http.StatusNotFound, a.Views.NotFound())
		}
		preview = true
	}

	posts, err := a.Content.ListPublishedBlogPosts(ctx)
	if err != nil {
		c.Logger().Warnf("related posts unavailable: %v", err)
	}
	content.SortPostsByPublishDate(posts)

	excerpt := ""
	if post.Excerpt != "" {
		if excerpt, err = markdown.ExcerptHTML(post.Excerpt); err != nil {
			c.Logger().Warnf("render excerpt %s: %v", post.ID, err)
		}
	}

	nodes := markdown.Render(post.Content)
	description := post.Excerpt
	if description == "" {
		description = leadText(nodes)
	}

	site := a.Config.viewConfig()
	return Render(c, a.Views.Post(views.PostPage{
		Site: site,
		Meta: views.PageMeta{
			Title:       post.Title,
			Description: description,
			URL:         views.PostURL(site.URL, post),
			OGType:      "article",
		},
		Post:        post,
		Nodes:       nodes,
		ExcerptHTML: excerpt,
		Related:     views.FilterRelatedPosts(post, posts),
		Preview:     preview,
	}))
}

// leadText returns the text of the first paragraph, for posts without an excerpt.
func leadText(nodes []markdown.Node) string {
	for _, n := range nodes {
		if n.Kind == markdown.KindParagraph {
			return markdown.PlainText(n.Children)
		}
	}
	return ""
}

func (a *App) handleSitemap(c echo.Context) error {
	posts, err := a.Content.ListPublishedBlogPosts(c.Request().Context())
	if err != nil {
		return err
	}
	content.SortPostsByPublishDate(posts)
	return a.renderSitemap(c, posts)
}

func (a *App) handleFeed(c echo.Context) error {
	posts, err := a.Content.ListPublishedBlogPosts(c.Request().Context())
	if err != nil {
		return err
	}
	content.SortPostsByPublishDate(posts)
	return a.renderRSS(c, posts)
}

func (a *App) handleRobots(c echo.Context) error {
	return c.File(a.staticDir + "/robots.txt")
}

func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	code := http.StatusInternalServerError
	message := "Internal server error"
	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		if m, ok := he.Message.(string); ok {
			message = m
		} else {
			message = http.StatusText(code)
		}
	}
	if code >= 500 {
		c.Logger().Errorf("server error: %v", err)
	}

	if a.isAPIPath(c.Request().URL.Path) {
		if code >= 500 {
			message = "Internal server error"
		}
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, map[string]string{"error": message})
		return
	}

	switch {
	case code == http.StatusNotFound:
		_ = RenderStatus(c, code, a.Views.NotFound())
	case code >= 500:
		_ = RenderStatus(c, code, a.Views.ServerError())
	default:
		a.Echo.DefaultHTTPErrorHandler(err, c)
	}
}
