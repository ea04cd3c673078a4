package tantalks

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"strings"

	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/eringen/tantalks/auth"
)

const (
	sessionName = "admin_session"
	actorKey    = "actor"
)

func (a *App) setupMiddleware() {
	e := a.Echo

	e.IPExtractor = echo.ExtractIPFromXFFHeader(
		echo.TrustLoopback(true),
		echo.TrustLinkLocal(false),
		echo.TrustPrivateNet(true),
	)

	e.HTTPErrorHandler = a.httpErrorHandler

	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:  true,
		LogURI:     true,
		LogMethod:  true,
		LogLatency: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			c.Logger().Infof("%s %s -> %d (%s)", v.Method, v.URI, v.Status, v.Latency)
			return nil
		},
	}))

	e.Use(middleware.Recover())

	e.Use(middleware.GzipWithConfig(middleware.GzipConfig{
		Level: 5,
		Skipper: func(c echo.Context) bool {
			path := c.Request().URL.Path
			return strings.HasPrefix(path, "/public/") || strings.HasPrefix(path, "/uploads/")
		},
	}))

	e.Use(middleware.SecureWithConfig(middleware.SecureConfig{
		XSSProtection:         "1; mode=block",
		ContentTypeNosniff:    "nosniff",
		XFrameOptions:         "DENY",
		ReferrerPolicy:        "strict-origin-when-cross-origin",
		ContentSecurityPolicy: "default-src 'self'; style-src 'self' 'unsafe-inline'; img-src 'self' https: data:; font-src 'self'; frame-src https://www.youtube.com https://open.spotify.com",
		HSTSMaxAge:            31536000,
		HSTSExcludeSubdomains: false,
	}))

	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: a.Config.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderAuthorization, echo.HeaderContentType, "apikey"},
		Skipper: func(c echo.Context) bool {
			return !a.isAPIPath(c.Request().URL.Path)
		},
	}))

	e.Use(middleware.BodyLimit(a.Config.BodyLimit))

	e.Use(session.Middleware(a.newSessionStore()))

	e.Use(middleware.AddTrailingSlashWithConfig(middleware.TrailingSlashConfig{
		RedirectCode: http.StatusMovedPermanently,
		Skipper: func(c echo.Context) bool {
			path := c.Request().URL.Path
			return !strings.HasPrefix(path, "/blog/")
		},
	}))

	e.Use(a.cacheControlMiddleware)
}

func (a *App) cacheControlMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		path := c.Request().URL.Path
		switch {
		case strings.HasPrefix(path, "/public/"):
			c.Response().Header().Set("Cache-Control", "public, max-age=31536000, immutable")
		case strings.HasPrefix(path, "/uploads/"):
			c.Response().Header().Set("Cache-Control", "public, max-age=86400")
		case path == "/sitemap.xml" || path == "/feed.xml" || path == "/robots.txt":
			c.Response().Header().Set("Cache-Control", "public, max-age=86400")
		case a.isAPIPath(path):
			c.Response().Header().Set("Cache-Control", "no-store")
		default:
			c.Response().Header().Set("Cache-Control", "public, max-age=3600")
		}
		return next(c)
	}
}

func (a *App) isAPIPath(path string) bool {
	return path == a.Config.BasePath || strings.HasPrefix(path, a.Config.BasePath+"/")
}

func (a *App) newSessionStore() *sessions.CookieStore {
	store := sessions.NewCookieStore([]byte(a.Config.SessionSecret))
	store.Options = &sessions.Options{
		Path:     "/",
		HttpOnly: true,
		MaxAge:   int(a.Config.TokenTTL.Seconds()),
		SameSite: http.SameSiteLaxMode,
		Secure:   a.Config.CookieSecure,
	}
	return store
}

// requireActor verifies the bearer token and stores the user on the context.
func (a *App) requireActor(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		token := bearerToken(c.Request())
		if token == "" {
			return c.JSON(http.StatusUnauthorized, map[string]string{
				"error":   "Unauthorized",
				"message": "Missing access token, please sign in",
			})
		}
		user, err := a.Auth.Verify(c.Request().Context(), token)
		if err != nil {
			if !errors.Is(err, auth.ErrInvalidToken) {
				c.Logger().Warnf("token verification failed: %v", err)
			}
			return c.JSON(http.StatusUnauthorized, map[string]string{
				"error":   "Unauthorized",
				"message": "Invalid or expired token, please sign in again",
			})
		}
		c.Set(actorKey, user)
		return next(c)
	}
}

// requireAnonKey checks the public API key when one is configured.
func (a *App) requireAnonKey(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if a.Config.AnonKey == "" {
			return next(c)
		}
		key := c.Request().Header.Get("apikey")
		if key == "" {
			key = bearerToken(c.Request())
		}
		if subtle.ConstantTimeCompare([]byte(key), []byte(a.Config.AnonKey)) != 1 {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Invalid API key"})
		}
		return next(c)
	}
}

// Actor returns the user authenticated by requireActor.
func Actor(c echo.Context) (auth.User, bool) {
	u, ok := c.Get(actorKey).(auth.User)
	return u, ok
}

func actorID(c echo.Context) string {
	u, _ := Actor(c)
	return u.ID
}

// isAdmin reports whether the cookie session holds a token that still verifies.
func (a *App) isAdmin(c echo.Context) bool {
	sess, err := session.Get(sessionName, c)
	if err != nil {
		return false
	}
	token, ok := sess.Values["token"].(string)
	if !ok || token == "" {
		return false
	}
	_, err = a.Auth.Verify(c.Request().Context(), token)
	return err == nil
}

func setAdminSession(c echo.Context, token string) error {
	sess, err := session.Get(sessionName, c)
	if err != nil {
		return err
	}
	sess.Values["token"] = token
	return sess.Save(c.Request(), c.Response())
}

func clearAdminSession(c echo.Context) error {
	sess, err := session.Get(sessionName, c)
	if err != nil {
		return err
	}
	delete(sess.Values, "token")
	sess.Options.MaxAge = -1
	return sess.Save(c.Request(), c.Response())
}
