package tantalks

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/eringen/tantalks/auth"
	"github.com/eringen/tantalks/kv"
)

// SiteConfig holds all configuration for a tantalks site.
type SiteConfig struct {
	Name        string `mapstructure:"name"`        // Site name (default "TanTalks")
	URL         string `mapstructure:"url"`         // Canonical URL (default "http://localhost:3000")
	Description string `mapstructure:"description"` // Site description for RSS and meta tags
	Author      string `mapstructure:"author"`      // Author name for JSON-LD

	Addr     string `mapstructure:"addr"`      // Listen address (default ":3000")
	BasePath string `mapstructure:"base_path"` // API prefix (default "/api")

	StoreDriver  string `mapstructure:"store_driver"`  // "sqlite" (default) or "bolt"
	DatabasePath string `mapstructure:"database_path"` // default "data/tantalks.db"
	UploadsDir   string `mapstructure:"uploads_dir"`   // default "data/uploads"

	AuthProvider   string        `mapstructure:"auth_provider"`    // "local" (default) or "gotrue"
	AuthURL        string        `mapstructure:"auth_url"`         // GoTrue base URL
	AnonKey        string        `mapstructure:"anon_key"`         // required on login/signup when set
	ServiceRoleKey string        `mapstructure:"service_role_key"` // GoTrue admin key for signup
	DisableSignup  bool          `mapstructure:"disable_signup"`
	TokenTTL       time.Duration `mapstructure:"token_ttl"` // Local token lifetime (default 12h)

	SessionSecret string `mapstructure:"session_secret"` // Required: cookie and token secret
	CookieSecure  bool   `mapstructure:"cookie_secure"`  // Set true for HTTPS

	LogLevel    string   `mapstructure:"log_level"`    // debug|info|warn|error|off (default info)
	CORSOrigins []string `mapstructure:"cors_origins"` // default ["*"]
	BodyLimit   string   `mapstructure:"body_limit"`   // default "12M"
}

// Auth provider names.
const (
	AuthLocal  = "local"
	AuthGoTrue = "gotrue"
)

// DefaultConfig returns a config with every default applied.
func DefaultConfig() SiteConfig {
	var c SiteConfig
	c.setDefaults()
	return c
}

func (c *SiteConfig) setDefaults() {
	if c.Name == "" {
		c.Name = "TanTalks"
	}
	if c.URL == "" {
		c.URL = "http://localhost:3000"
	}
	if c.Addr == "" {
		c.Addr = ":3000"
	}
	if c.BasePath == "" {
		c.BasePath = "/api"
	}
	c.BasePath = "/" + strings.Trim(c.BasePath, "/")
	if c.StoreDriver == "" {
		c.StoreDriver = kv.DriverSQLite
	}
	if c.DatabasePath == "" {
		c.DatabasePath = "data/tantalks.db"
	}
	if c.UploadsDir == "" {
		c.UploadsDir = "data/uploads"
	}
	if c.AuthProvider == "" {
		c.AuthProvider = AuthLocal
	}
	if c.TokenTTL == 0 {
		c.TokenTTL = auth.DefaultTokenTTL
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if len(c.CORSOrigins) == 0 {
		c.CORSOrigins = []string{"*"}
	}
	if c.BodyLimit == "" {
		c.BodyLimit = "12M"
	}
}

func (c SiteConfig) validate() error {
	if c.SessionSecret == "" {
		return errors.New("tantalks: SessionSecret is required")
	}
	switch c.AuthProvider {
	case AuthLocal:
	case AuthGoTrue:
		if c.AuthURL == "" {
			return errors.New("tantalks: AuthURL is required for the gotrue provider")
		}
	default:
		return fmt.Errorf("tantalks: unknown auth provider %q", c.AuthProvider)
	}
	return nil
}

func configDefaults() map[string]any {
	d := DefaultConfig()
	return map[string]any{
		"name":             d.Name,
		"url":              d.URL,
		"description":      d.Description,
		"author":           d.Author,
		"addr":             d.Addr,
		"base_path":        d.BasePath,
		"store_driver":     d.StoreDriver,
		"database_path":    d.DatabasePath,
		"uploads_dir":      d.UploadsDir,
		"auth_provider":    d.AuthProvider,
		"auth_url":         d.AuthURL,
		"anon_key":         d.AnonKey,
		"service_role_key": d.ServiceRoleKey,
		"disable_signup":   d.DisableSignup,
		"token_ttl":        d.TokenTTL.String(),
		"session_secret":   d.SessionSecret,
		"cookie_secure":    d.CookieSecure,
		"log_level":        d.LogLevel,
		"cors_origins":     d.CORSOrigins,
		"body_limit":       d.BodyLimit,
	}
}

// LoadConfig reads configuration from defaults, the optional TOML file at
// path and TANTALKS_* environment variables, in increasing precedence. With
// an empty path, tantalks.toml is looked up in the working directory.
func LoadConfig(path string) (SiteConfig, error) {
	v := viper.New()
	for k, val := range configDefaults() {
		v.SetDefault(k, val)
	}

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("tantalks")
		v.SetConfigType("toml")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("TANTALKS")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return SiteConfig{}, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg SiteConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return SiteConfig{}, fmt.Errorf("unmarshaling config: %w", err)
	}
	cfg.setDefaults()
	return cfg, nil
}

// WriteDefaultConfig writes a TOML config with every default to path.
func WriteDefaultConfig(path string) error {
	v := viper.New()
	for k, val := range configDefaults() {
		v.Set(k, val)
	}
	v.Set("session_secret", "change-me")

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating config directory: %w", err)
		}
	}
	return v.WriteConfigAs(path)
}

// Option configures additional App behavior.
type Option func(*App)

// WithCustomRoutes registers additional routes on the Echo instance.
// The callback receives the App before the server starts.
func WithCustomRoutes(fn func(*App)) Option {
	return func(a *App) {
		a.customRoutes = append(a.customRoutes, fn)
	}
}

// WithStaticDir sets the directory for static assets (default "public").
func WithStaticDir(dir string) Option {
	return func(a *App) {
		a.staticDir = dir
	}
}

// WithStore uses store instead of opening Config.DatabasePath. The caller
// keeps ownership; Close does not close it.
func WithStore(store kv.Store) Option {
	return func(a *App) {
		a.Store = store
	}
}

// WithAuthProvider replaces the provider selected by Config.AuthProvider.
func WithAuthProvider(p auth.Provider) Option {
	return func(a *App) {
		a.Auth = p
	}
}

// WithViews overrides the default page components. Nil fields keep the
// defaults.
func WithViews(v ViewFuncs) Option {
	return func(a *App) {
		if v.Post != nil {
			a.Views.Post = v.Post
		}
		if v.NotFound != nil {
			a.Views.NotFound = v.NotFound
		}
		if v.ServerError != nil {
			a.Views.ServerError = v.ServerError
		}
	}
}
