package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// HTTPError is a non-2xx response from the auth server.
type HTTPError struct {
	StatusCode int
	Message    string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
}

// IsStatus reports whether err wraps an HTTPError with the given status code.
func IsStatus(err error, code int) bool {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode == code
	}
	return false
}

// GoTrue talks to a Supabase-compatible auth REST API.
type GoTrue struct {
	baseURL    string
	anonKey    string
	serviceKey string
	httpClient *http.Client
}

// NewGoTrue creates a client for the auth server at baseURL. serviceKey is
// only needed for SignUp.
func NewGoTrue(baseURL, anonKey, serviceKey string) *GoTrue {
	return &GoTrue{
		baseURL:    strings.TrimRight(baseURL, "/"),
		anonKey:    anonKey,
		serviceKey: serviceKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type goTrueUser struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	CreatedAt    time.Time `json:"created_at"`
	UserMetadata struct {
		Name string `json:"name"`
	} `json:"user_metadata"`
}

func (u goTrueUser) user() User {
	name := u.UserMetadata.Name
	if name == "" {
		name = u.Email
	}
	return User{ID: u.ID, Email: u.Email, Name: name, CreatedAt: u.CreatedAt}
}

// SignIn exchanges a password for an access token.
func (g *GoTrue) SignIn(ctx context.Context, email, password string) (Session, error) {
	var resp struct {
		AccessToken string     `json:"access_token"`
		ExpiresIn   int        `json:"expires_in"`
		User        goTrueUser `json:"user"`
	}
	body := map[string]string{"email": email, "password": password}
	err := g.doRequest(ctx, http.MethodPost, "/auth/v1/token?grant_type=password", g.anonKey, body, &resp)
	if IsStatus(err, http.StatusBadRequest) || IsStatus(err, http.StatusUnauthorized) {
		return Session{}, ErrInvalidCredentials
	}
	if err != nil {
		return Session{}, fmt.Errorf("auth.GoTrue.SignIn: %w", err)
	}
	return Session{
		AccessToken: resp.AccessToken,
		ExpiresAt:   time.Now().Add(time.Duration(resp.ExpiresIn) * time.Second),
		User:        resp.User.user(),
	}, nil
}

// SignUp creates a confirmed user through the admin endpoint.
func (g *GoTrue) SignUp(ctx context.Context, email, password, name string) (User, error) {
	if len([]rune(password)) < MinPasswordLength {
		return User{}, ErrWeakPassword
	}
	body := map[string]any{
		"email":         email,
		"password":      password,
		"email_confirm": true,
		"user_metadata": map[string]string{"name": name},
	}
	var created goTrueUser
	err := g.doRequest(ctx, http.MethodPost, "/auth/v1/admin/users", g.serviceKey, body, &created)
	if IsStatus(err, http.StatusUnprocessableEntity) || IsStatus(err, http.StatusConflict) {
		return User{}, ErrUserExists
	}
	if err != nil {
		return User{}, fmt.Errorf("auth.GoTrue.SignUp: %w", err)
	}
	return created.user(), nil
}

// Verify resolves token to its user.
func (g *GoTrue) Verify(ctx context.Context, token string) (User, error) {
	var u goTrueUser
	err := g.doRequest(ctx, http.MethodGet, "/auth/v1/user", token, nil, &u)
	if IsStatus(err, http.StatusUnauthorized) || IsStatus(err, http.StatusForbidden) {
		return User{}, ErrInvalidToken
	}
	if err != nil {
		return User{}, fmt.Errorf("auth.GoTrue.Verify: %w", err)
	}
	if u.ID == "" {
		return User{}, ErrInvalidToken
	}
	return u.user(), nil
}

func (g *GoTrue) doRequest(ctx context.Context, method, path, bearer string, body any, out any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, g.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("apikey", g.anonKey)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck // best-effort close

	if resp.StatusCode >= 400 {
		respBody, readErr := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
		if readErr != nil {
			return &HTTPError{StatusCode: resp.StatusCode, Message: fmt.Sprintf("failed to read body: %v", readErr)}
		}
		var apiErr struct {
			Error   string `json:"error_description"`
			Message string `json:"msg"`
		}
		if json.Unmarshal(respBody, &apiErr) == nil {
			if apiErr.Error != "" {
				return &HTTPError{StatusCode: resp.StatusCode, Message: apiErr.Error}
			}
			if apiErr.Message != "" {
				return &HTTPError{StatusCode: resp.StatusCode, Message: apiErr.Message}
			}
		}
		return &HTTPError{StatusCode: resp.StatusCode, Message: string(respBody)}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}
