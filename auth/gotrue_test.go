package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGoTrueServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("apikey") != "anon" {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"msg": "no api key"}) //nolint:errcheck
			return
		}
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/auth/v1/token":
			var body map[string]string
			json.NewDecoder(r.Body).Decode(&body) //nolint:errcheck
			if r.URL.Query().Get("grant_type") != "password" || body["password"] != "secret-pass" {
				w.WriteHeader(http.StatusBadRequest)
				json.NewEncoder(w).Encode(map[string]string{"error_description": "Invalid login credentials"}) //nolint:errcheck
				return
			}
			json.NewEncoder(w).Encode(map[string]any{ //nolint:errcheck
				"access_token": "jwt-1",
				"expires_in":   3600,
				"user": map[string]any{
					"id":            "u-1",
					"email":         body["email"],
					"user_metadata": map[string]string{"name": "Host"},
				},
			})
		case r.Method == http.MethodGet && r.URL.Path == "/auth/v1/user":
			if r.Header.Get("Authorization") != "Bearer jwt-1" {
				w.WriteHeader(http.StatusUnauthorized)
				json.NewEncoder(w).Encode(map[string]string{"msg": "invalid JWT"}) //nolint:errcheck
				return
			}
			json.NewEncoder(w).Encode(map[string]any{"id": "u-1", "email": "host@example.com"}) //nolint:errcheck
		case r.Method == http.MethodPost && r.URL.Path == "/auth/v1/admin/users":
			if r.Header.Get("Authorization") != "Bearer service" {
				w.WriteHeader(http.StatusForbidden)
				return
			}
			var body struct {
				Email        string            `json:"email"`
				EmailConfirm bool              `json:"email_confirm"`
				UserMetadata map[string]string `json:"user_metadata"`
			}
			json.NewDecoder(r.Body).Decode(&body) //nolint:errcheck
			if body.Email == "taken@example.com" {
				w.WriteHeader(http.StatusUnprocessableEntity)
				json.NewEncoder(w).Encode(map[string]string{"msg": "already registered"}) //nolint:errcheck
				return
			}
			json.NewEncoder(w).Encode(map[string]any{ //nolint:errcheck
				"id":            "u-2",
				"email":         body.Email,
				"user_metadata": body.UserMetadata,
			})
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestGoTrueSignIn(t *testing.T) {
	g := NewGoTrue(newGoTrueServer(t).URL+"/", "anon", "service")
	ctx := context.Background()

	sess, err := g.SignIn(ctx, "host@example.com", "secret-pass")
	require.NoError(t, err)
	assert.Equal(t, "jwt-1", sess.AccessToken)
	assert.Equal(t, "u-1", sess.User.ID)
	assert.Equal(t, "Host", sess.User.Name)

	_, err = g.SignIn(ctx, "host@example.com", "nope")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestGoTrueVerify(t *testing.T) {
	g := NewGoTrue(newGoTrueServer(t).URL, "anon", "service")
	ctx := context.Background()

	u, err := g.Verify(ctx, "jwt-1")
	require.NoError(t, err)
	assert.Equal(t, "u-1", u.ID)
	assert.Equal(t, "host@example.com", u.Name, "name falls back to email")

	_, err = g.Verify(ctx, "expired")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestGoTrueSignUp(t *testing.T) {
	g := NewGoTrue(newGoTrueServer(t).URL, "anon", "service")
	ctx := context.Background()

	u, err := g.SignUp(ctx, "new@example.com", "long enough", "New Host")
	require.NoError(t, err)
	assert.Equal(t, "u-2", u.ID)
	assert.Equal(t, "New Host", u.Name)

	_, err = g.SignUp(ctx, "taken@example.com", "long enough", "")
	assert.ErrorIs(t, err, ErrUserExists)

	_, err = g.SignUp(ctx, "x@example.com", "short", "")
	assert.ErrorIs(t, err, ErrWeakPassword)
}

func TestGoTrueHTTPError(t *testing.T) {
	g := NewGoTrue(newGoTrueServer(t).URL, "wrong", "service")
	_, err := g.SignUp(context.Background(), "x@example.com", "long enough", "")
	require.Error(t, err)
	assert.True(t, IsStatus(err, http.StatusUnauthorized))
	assert.Contains(t, err.Error(), "no api key")
}
