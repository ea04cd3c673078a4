package tantalks

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
	assert.Equal(t, "/api", cfg.BasePath)
	assert.Equal(t, 12*time.Hour, cfg.TokenTTL)
}

func TestLoadConfigFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tantalks.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
name = "My Show"
base_path = "v1/"
session_secret = "from-file"
token_ttl = "2h"
cors_origins = ["https://example.com"]
`), 0o644))

	t.Setenv("TANTALKS_ADDR", ":9999")
	t.Setenv("TANTALKS_SESSION_SECRET", "from-env")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "My Show", cfg.Name)
	assert.Equal(t, "/v1", cfg.BasePath)
	assert.Equal(t, ":9999", cfg.Addr)
	assert.Equal(t, "from-env", cfg.SessionSecret)
	assert.Equal(t, 2*time.Hour, cfg.TokenTTL)
	assert.Equal(t, []string{"https://example.com"}, cfg.CORSOrigins)
	assert.Equal(t, "data/tantalks.db", cfg.DatabasePath)
}

func TestWriteDefaultConfigRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf", "tantalks.toml")
	require.NoError(t, WriteDefaultConfig(path))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	want := DefaultConfig()
	want.SessionSecret = "change-me"
	assert.Equal(t, want, cfg)
	require.NoError(t, cfg.validate())
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     SiteConfig
		wantErr bool
	}{
		{"missing secret", SiteConfig{AuthProvider: AuthLocal}, true},
		{"local", SiteConfig{SessionSecret: "s", AuthProvider: AuthLocal}, false},
		{"gotrue without url", SiteConfig{SessionSecret: "s", AuthProvider: AuthGoTrue}, true},
		{"gotrue", SiteConfig{SessionSecret: "s", AuthProvider: AuthGoTrue, AuthURL: "http://auth"}, false},
		{"unknown provider", SiteConfig{SessionSecret: "s", AuthProvider: "ldap"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSetupRejectsInvalidConfig(t *testing.T) {
	a := New(SiteConfig{})
	assert.Error(t, a.Setup())
}
