// Package tantalks is the content service behind a podcast and blog site. It
// serves the JSON API used by the public site and the admin panel (episodes,
// blog posts, profile, contact messages and images), plus server-rendered
// post pages, an RSS feed and a sitemap.
//
// Pages are rendered by templ components held in ViewFuncs. Defaults come
// from the views package and can be replaced with WithViews.
package tantalks

import (
	"context"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/eringen/tantalks/auth"
	"github.com/eringen/tantalks/content"
	"github.com/eringen/tantalks/kv"
)

// App is the central tantalks application. It wires together the store,
// content repository, auth provider, handlers, middleware and templates.
type App struct {
	Config  SiteConfig
	Echo    *echo.Echo
	Store   kv.Store
	Content *content.Repository
	Auth    auth.Provider
	Views   ViewFuncs

	customRoutes []func(*App)
	staticDir    string
	ownsStore    bool
	ready        bool
}

// New creates a new App with the given configuration.
func New(cfg SiteConfig, opts ...Option) *App {
	cfg.setDefaults()

	a := &App{
		Config:    cfg,
		Echo:      echo.New(),
		Views:     defaultViews(cfg),
		staticDir: "public",
	}
	a.Echo.HideBanner = true

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// Setup opens the store, builds the repository and auth provider, and
// registers middleware and routes. Start calls it when needed; tests call it
// directly and drive a.Echo with httptest.
func (a *App) Setup() error {
	if a.ready {
		return nil
	}
	if err := a.Config.validate(); err != nil {
		return err
	}
	a.Echo.Logger.SetLevel(parseLogLevel(a.Config.LogLevel))

	if a.Store == nil {
		store, err := kv.Open(a.Config.StoreDriver, a.Config.DatabasePath)
		if err != nil {
			return fmt.Errorf("tantalks: init store: %w", err)
		}
		a.Store = store
		a.ownsStore = true
	}

	a.Content = content.New(a.Store, content.WithLogger(a.Echo.Logger))

	if a.Auth == nil {
		provider, err := a.newAuthProvider()
		if err != nil {
			return fmt.Errorf("tantalks: init auth: %w", err)
		}
		a.Auth = provider
	}

	a.setupMiddleware()
	a.setupRoutes()

	for _, fn := range a.customRoutes {
		fn(a)
	}
	a.ready = true
	return nil
}

func (a *App) newAuthProvider() (auth.Provider, error) {
	switch a.Config.AuthProvider {
	case AuthGoTrue:
		return auth.NewGoTrue(a.Config.AuthURL, a.Config.AnonKey, a.Config.ServiceRoleKey), nil
	default:
		return auth.NewLocal(a.Store, a.Config.SessionSecret, auth.WithTokenTTL(a.Config.TokenTTL))
	}
}

// Start sets the app up and serves HTTP until the server is shut down.
func (a *App) Start() error {
	if err := a.Setup(); err != nil {
		return err
	}
	if err := a.Echo.Start(a.Config.Addr); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown stops the HTTP server gracefully.
func (a *App) Shutdown(ctx context.Context) error {
	return a.Echo.Shutdown(ctx)
}

func (a *App) setupRoutes() {
	e := a.Echo

	e.Static("/public", a.staticDir)
	e.Static("/uploads", a.Config.UploadsDir)
	e.GET("/robots.txt", a.handleRobots)

	e.GET("/sitemap.xml", a.handleSitemap)
	e.GET("/feed.xml", a.handleFeed)
	e.GET("/blog/:id/", a.handlePostPage)

	api := e.Group(a.Config.BasePath)
	api.GET("/health", a.handleHealth)

	api.POST("/auth/login", a.handleLogin, a.requireAnonKey)
	api.POST("/auth/signup", a.handleSignup, a.requireAnonKey)
	api.POST("/auth/logout", a.handleLogout)

	api.GET("/episodes", a.handleListEpisodes)
	api.POST("/episodes", a.handleCreateEpisode, a.requireActor)
	api.PUT("/episodes/:id", a.handleUpdateEpisode, a.requireActor)
	api.DELETE("/episodes/:id", a.handleDeleteEpisode, a.requireActor)

	api.GET("/blog", a.handleListBlog)
	api.GET("/blog/admin", a.handleListAllBlog, a.requireActor)
	api.GET("/blog/:id", a.handleGetBlog)
	api.POST("/blog", a.handleCreateBlog, a.requireActor)
	api.PUT("/blog/:id", a.handleUpdateBlog, a.requireActor)
	api.DELETE("/blog/:id", a.handleDeleteBlog, a.requireActor)

	api.POST("/contact", a.handleCreateContact)
	api.GET("/contact/admin", a.handleListContact, a.requireActor)

	api.GET("/profile", a.handleGetProfile)
	api.PUT("/profile", a.handleUpdateProfile, a.requireActor)

	api.GET("/images", a.handleImageList, a.requireActor)
	api.POST("/images", a.handleImageUpload, a.requireActor)
	api.DELETE("/images/:filename", a.handleImageDelete, a.requireActor)
}

// Close cleans up resources. Call this when the app is shutting down.
func (a *App) Close() error {
	if a.ownsStore && a.Store != nil {
		return a.Store.Close()
	}
	return nil
}
