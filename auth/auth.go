// Package auth verifies admin identities. Local keeps users in the content
// store; GoTrue delegates to a Supabase-compatible auth server.
package auth

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrInvalidCredentials is returned by SignIn for an unknown email or a wrong password.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrInvalidToken is returned by Verify for malformed, expired or revoked tokens.
	ErrInvalidToken = errors.New("invalid or expired token")
	// ErrUserExists is returned by SignUp when the email is taken.
	ErrUserExists = errors.New("user already exists")
	// ErrWeakPassword is returned by SignUp when the password is too short.
	ErrWeakPassword = errors.New("password must be at least 8 characters")
	// ErrInvalidEmail is returned by SignUp for a malformed email address.
	ErrInvalidEmail = errors.New("invalid email address")
)

// MinPasswordLength is enforced by SignUp.
const MinPasswordLength = 8

// User is an authenticated admin.
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

// Session is the result of a successful sign in.
type Session struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
	User        User      `json:"user"`
}

// Provider is implemented by Local and GoTrue.
type Provider interface {
	SignIn(ctx context.Context, email, password string) (Session, error)
	SignUp(ctx context.Context, email, password, name string) (User, error)
	Verify(ctx context.Context, token string) (User, error)
}
