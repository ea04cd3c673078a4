package auth

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"github.com/gorilla/securecookie"
	"golang.org/x/crypto/bcrypt"

	"github.com/eringen/tantalks/kv"
)

// UserPrefix is the key prefix of locally stored users.
const UserPrefix = "user_"

// DefaultTokenTTL is the lifetime of a Local access token.
const DefaultTokenTTL = 12 * time.Hour

const tokenName = "tantalks_access"

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

type storedUser struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"passwordHash"`
	CreatedAt    time.Time `json:"createdAt"`
}

func (u storedUser) public() User {
	return User{ID: u.ID, Email: u.Email, Name: u.Name, CreatedAt: u.CreatedAt}
}

type claims struct {
	Subject string `json:"sub"`
	Email   string `json:"email"`
	Expires int64  `json:"exp"`
}

// Local authenticates against users stored in a kv.Store. Access tokens are
// signed and encrypted with keys derived from the configured secret.
type Local struct {
	store kv.Store
	codec *securecookie.SecureCookie
	ttl   time.Duration
	now   func() time.Time
	cost  int
}

// LocalOption configures a Local provider.
type LocalOption func(*Local)

// WithTokenTTL sets the access token lifetime.
func WithTokenTTL(ttl time.Duration) LocalOption {
	return func(l *Local) {
		if ttl > 0 {
			l.ttl = ttl
		}
	}
}

// WithClock overrides time.Now for token expiry.
func WithClock(now func() time.Time) LocalOption {
	return func(l *Local) { l.now = now }
}

// WithBcryptCost sets the password hashing cost.
func WithBcryptCost(cost int) LocalOption {
	return func(l *Local) { l.cost = cost }
}

// NewLocal creates a Local provider. secret must not be empty.
func NewLocal(store kv.Store, secret string, opts ...LocalOption) (*Local, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, errors.New("auth: secret is required")
	}
	hashKey := sha256.Sum256([]byte("hash:" + secret))
	blockKey := sha256.Sum256([]byte("block:" + secret))
	l := &Local{
		store: store,
		codec: securecookie.New(hashKey[:], blockKey[:]),
		ttl:   DefaultTokenTTL,
		now:   time.Now,
		cost:  bcrypt.DefaultCost,
	}
	for _, opt := range opts {
		opt(l)
	}
	l.codec.SetSerializer(securecookie.JSONEncoder{})
	l.codec.MaxAge(int(l.ttl.Seconds()))
	return l, nil
}

func userKey(email string) string {
	return UserPrefix + normalizeEmail(email)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (l *Local) lookup(ctx context.Context, email string) (storedUser, error) {
	var u storedUser
	err := kv.GetJSON(ctx, l.store, userKey(email), &u)
	return u, err
}

// SignUp creates a user. Emails are case-insensitive.
func (l *Local) SignUp(ctx context.Context, email, password, name string) (User, error) {
	email = normalizeEmail(email)
	if err := validation.Validate(email, validation.Required, validation.Match(emailPattern)); err != nil {
		return User{}, ErrInvalidEmail
	}
	if err := validation.Validate(password, validation.Required, validation.RuneLength(MinPasswordLength, 0)); err != nil {
		return User{}, ErrWeakPassword
	}
	_, err := l.lookup(ctx, email)
	if err == nil {
		return User{}, ErrUserExists
	}
	if !errors.Is(err, kv.ErrNotFound) {
		return User{}, fmt.Errorf("auth.Local.SignUp: %w", err)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), l.cost)
	if err != nil {
		return User{}, fmt.Errorf("auth.Local.SignUp: %w", err)
	}
	u := storedUser{
		ID:           uuid.NewString(),
		Email:        email,
		Name:         strings.TrimSpace(name),
		PasswordHash: string(hash),
		CreatedAt:    l.now().UTC(),
	}
	if u.Name == "" {
		u.Name = email
	}
	if err := kv.SetJSON(ctx, l.store, userKey(email), u); err != nil {
		return User{}, fmt.Errorf("auth.Local.SignUp: %w", err)
	}
	return u.public(), nil
}

// SignIn checks the password and issues an access token.
func (l *Local) SignIn(ctx context.Context, email, password string) (Session, error) {
	u, err := l.lookup(ctx, email)
	if errors.Is(err, kv.ErrNotFound) {
		return Session{}, ErrInvalidCredentials
	}
	if err != nil {
		return Session{}, fmt.Errorf("auth.Local.SignIn: %w", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return Session{}, ErrInvalidCredentials
	}
	expires := l.now().Add(l.ttl)
	token, err := l.codec.Encode(tokenName, claims{Subject: u.ID, Email: u.Email, Expires: expires.Unix()})
	if err != nil {
		return Session{}, fmt.Errorf("auth.Local.SignIn: %w", err)
	}
	return Session{AccessToken: token, ExpiresAt: expires, User: u.public()}, nil
}

// Verify decodes token and re-reads its user, so deleted users lose access
// immediately.
func (l *Local) Verify(ctx context.Context, token string) (User, error) {
	var c claims
	if err := l.codec.Decode(tokenName, token, &c); err != nil {
		return User{}, ErrInvalidToken
	}
	if l.now().Unix() >= c.Expires {
		return User{}, ErrInvalidToken
	}
	u, err := l.lookup(ctx, c.Email)
	if errors.Is(err, kv.ErrNotFound) {
		return User{}, ErrInvalidToken
	}
	if err != nil {
		return User{}, fmt.Errorf("auth.Local.Verify: %w", err)
	}
	if u.ID != c.Subject {
		return User{}, ErrInvalidToken
	}
	return u.public(), nil
}

// DeleteUser removes a user. Outstanding tokens stop verifying.
func (l *Local) DeleteUser(ctx context.Context, email string) error {
	if err := l.store.Delete(ctx, userKey(email)); err != nil {
		return fmt.Errorf("auth.Local.DeleteUser: %w", err)
	}
	return nil
}
