package tantalks

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/eringen/tantalks/auth"
	"github.com/eringen/tantalks/content"
)

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

func (a *App) handleLogin(c echo.Context) error {
	var req credentials
	if err := decodeJSON(c, &req); err != nil {
		return err
	}
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Email and password are required"})
	}
	sess, err := a.Auth.SignIn(c.Request().Context(), req.Email, req.Password)
	if errors.Is(err, auth.ErrInvalidCredentials) {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Invalid email or password"})
	}
	if err != nil {
		c.Logger().Errorf("sign in: %v", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to sign in"})
	}
	if err := setAdminSession(c, sess.AccessToken); err != nil {
		c.Logger().Warnf("save admin session: %v", err)
	}
	return c.JSON(http.StatusOK, map[string]any{
		"success":      true,
		"access_token": sess.AccessToken,
		"expires_at":   sess.ExpiresAt,
		"user":         sess.User,
	})
}

func (a *App) handleSignup(c echo.Context) error {
	if a.Config.DisableSignup {
		return c.JSON(http.StatusForbidden, map[string]string{"error": "Signup is disabled"})
	}
	var req credentials
	if err := decodeJSON(c, &req); err != nil {
		return err
	}
	user, err := a.Auth.SignUp(c.Request().Context(), req.Email, req.Password, req.Name)
	switch {
	case errors.Is(err, auth.ErrWeakPassword), errors.Is(err, auth.ErrInvalidEmail), errors.Is(err, auth.ErrUserExists):
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	case err != nil:
		c.Logger().Errorf("sign up: %v", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to create account"})
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true, "user": user})
}

func (a *App) handleLogout(c echo.Context) error {
	if err := clearAdminSession(c); err != nil {
		c.Logger().Warnf("clear admin session: %v", err)
	}
	return c.JSON(http.StatusOK, map[string]bool{"success": true})
}

func (a *App) handleCreateEpisode(c echo.Context) error {
	var input content.Episode
	if err := decodeJSON(c, &input); err != nil {
		return err
	}
	ep, err := a.Content.CreateEpisode(c.Request().Context(), input, actorID(c))
	if err != nil {
		return contentError(c, err, "create episode")
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true, "id": ep.ID})
}

func (a *App) handleUpdateEpisode(c echo.Context) error {
	var patch content.Patch
	if err := decodeJSON(c, &patch); err != nil {
		return err
	}
	if err := a.Content.UpdateEpisode(c.Request().Context(), c.Param("id"), patch, actorID(c)); err != nil {
		return contentError(c, err, "update episode")
	}
	return c.JSON(http.StatusOK, map[string]bool{"success": true})
}

func (a *App) handleDeleteEpisode(c echo.Context) error {
	if err := a.Content.DeleteEpisode(c.Request().Context(), c.Param("id"), actorID(c)); err != nil {
		return contentError(c, err, "delete episode")
	}
	return c.JSON(http.StatusOK, map[string]bool{"success": true})
}

func (a *App) handleListAllBlog(c echo.Context) error {
	posts, err := a.Content.ListAllBlogPosts(c.Request().Context(), actorID(c))
	if err != nil {
		return contentError(c, err, "fetch blog posts")
	}
	return c.JSON(http.StatusOK, map[string]any{"posts": posts})
}

func (a *App) handleCreateBlog(c echo.Context) error {
	var input content.BlogPost
	if err := decodeJSON(c, &input); err != nil {
		return err
	}
	post, err := a.Content.CreateBlogPost(c.Request().Context(), input, actorID(c))
	if err != nil {
		return contentError(c, err, "create blog post")
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true, "id": post.ID})
}

func (a *App) handleUpdateBlog(c echo.Context) error {
	var patch content.Patch
	if err := decodeJSON(c, &patch); err != nil {
		return err
	}
	if err := a.Content.UpdateBlogPost(c.Request().Context(), c.Param("id"), patch, actorID(c)); err != nil {
		return contentError(c, err, "update blog post")
	}
	return c.JSON(http.StatusOK, map[string]bool{"success": true})
}

func (a *App) handleDeleteBlog(c echo.Context) error {
	if err := a.Content.DeleteBlogPost(c.Request().Context(), c.Param("id"), actorID(c)); err != nil {
		return contentError(c, err, "delete blog post")
	}
	return c.JSON(http.StatusOK, map[string]bool{"success": true})
}

func (a *App) handleListContact(c echo.Context) error {
	msgs, err := a.Content.ListContactMessages(c.Request().Context(), actorID(c))
	if err != nil {
		return contentError(c, err, "fetch messages")
	}
	return c.JSON(http.StatusOK, map[string]any{"messages": msgs})
}

func (a *App) handleUpdateProfile(c echo.Context) error {
	var patch content.Patch
	if err := decodeJSON(c, &patch); err != nil {
		return err
	}
	if err := a.Content.UpdateProfile(c.Request().Context(), patch, actorID(c)); err != nil {
		return contentError(c, err, "update profile")
	}
	return c.JSON(http.StatusOK, map[string]bool{"success": true})
}
