// Package content implements the episode, blog, profile and contact-message
// operations on top of a kv.Store. Nothing is cached between calls; every
// operation re-reads the store.
package content

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/gommon/log"

	"github.com/eringen/tantalks/kv"
)

// Key prefixes and the profile singleton key.
const (
	EpisodePrefix = "episode_"
	BlogPrefix    = "blog_"
	ContactPrefix = "contact_"
	ImagePrefix   = "image_"
	ProfileKey    = "profile_data"
)

const dateLayout = "2006-01-02"

// Logger is the subset of echo.Logger the repository uses.
type Logger interface {
	Warnf(format string, args ...interface{})
	Infof(format string, args ...interface{})
}

// Repository is the content store.
type Repository struct {
	store          kv.Store
	now            func() time.Time
	idSuffix       func() string
	defaultProfile ProfileData
	logger         Logger
}

// Option configures a Repository.
type Option func(*Repository)

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(r *Repository) { r.now = now }
}

// WithIDSuffix overrides the random suffix appended to generated ids.
func WithIDSuffix(fn func() string) Option {
	return func(r *Repository) { r.idSuffix = fn }
}

// WithDefaultProfile sets the record returned when no profile is stored.
func WithDefaultProfile(p ProfileData) Option {
	return func(r *Repository) { r.defaultProfile = fillIdentity(p, DefaultProfile()) }
}

// WithLogger sets the logger used for skipped records and notifications.
func WithLogger(l Logger) Option {
	return func(r *Repository) { r.logger = l }
}

// New creates a Repository backed by store.
func New(store kv.Store, opts ...Option) *Repository {
	r := &Repository{
		store:          store,
		now:            time.Now,
		idSuffix:       randomSuffix,
		defaultProfile: DefaultProfile(),
		logger:         log.New("content"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func randomSuffix() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}

// newID returns <prefix><epochMillis>_<suffix>. The suffix keeps two creates
// in the same millisecond apart.
func (r *Repository) newID(prefix string, t time.Time) string {
	return fmt.Sprintf("%s%d_%s", prefix, t.UnixMilli(), r.idSuffix())
}

func requireActor(actor string) error {
	if strings.TrimSpace(actor) == "" {
		return ErrUnauthorized
	}
	return nil
}

// scan decodes every record under prefix into T. Records that fail to decode
// are skipped and logged.
func scan[T any](ctx context.Context, r *Repository, prefix string) ([]T, error) {
	entries, err := r.store.GetByPrefix(ctx, prefix)
	if err != nil {
		return []T{}, storageError("scan "+prefix, err)
	}
	out := make([]T, 0, len(entries))
	for _, e := range entries {
		var v T
		if err := json.Unmarshal(e.Value, &v); err != nil {
			r.logger.Warnf("skipping undecodable record %s: %v", e.Key, err)
			continue
		}
		out = append(out, v)
	}
	return out, nil
}

// load reads key into dst, mapping a missing key to ErrNotFound.
func (r *Repository) load(ctx context.Context, key string, dst any) error {
	data, err := r.store.Get(ctx, key)
	if errors.Is(err, kv.ErrNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return storageError("get "+key, err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return storageError("decode "+key, err)
	}
	return nil
}

func (r *Repository) save(ctx context.Context, key string, v any) error {
	if err := kv.SetJSON(ctx, r.store, key, v); err != nil {
		return storageError("set "+key, err)
	}
	return nil
}

func (r *Repository) remove(ctx context.Context, key string) error {
	if err := r.store.Delete(ctx, key); err != nil {
		return storageError("delete "+key, err)
	}
	return nil
}

// merge overlays patch onto the stored JSON object under key and decodes the
// result into dst. Keys listed in protected are ignored.
func (r *Repository) merge(ctx context.Context, key string, patch Patch, dst any, protected ...string) error {
	data, err := r.store.Get(ctx, key)
	if errors.Is(err, kv.ErrNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return storageError("get "+key, err)
	}
	merged, err := mergeJSON(data, patch, protected)
	if err != nil {
		return err
	}
	return asValidationError(json.Unmarshal(merged, dst))
}

func mergeJSON(base []byte, patch Patch, protected []string) ([]byte, error) {
	fields := make(map[string]json.RawMessage)
	if len(base) > 0 {
		if err := json.Unmarshal(base, &fields); err != nil {
			return nil, storageError("decode stored record", err)
		}
	}
	for k, v := range patch {
		if isProtected(k, protected) {
			continue
		}
		fields[k] = v
	}
	return json.Marshal(fields)
}

func isProtected(key string, protected []string) bool {
	for _, p := range protected {
		if key == p {
			return true
		}
	}
	return false
}

func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if s := strings.TrimSpace(t); s != "" {
			out = append(out, s)
		}
	}
	return out
}
