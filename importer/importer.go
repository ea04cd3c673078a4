// Package importer loads content into a content.Repository from files:
// markdown posts with front matter, and a TOML seed file.
package importer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/frontmatter"
	"github.com/labstack/gommon/log"

	"github.com/eringen/tantalks/content"
)

// Result lists what an import run did, by title.
type Result struct {
	Created []string
	Skipped []string
}

// Importer writes imported records through a Repository on behalf of actor.
type Importer struct {
	repo   *content.Repository
	actor  string
	logger content.Logger
}

// Option configures an Importer.
type Option func(*Importer)

// WithLogger sets the logger used for per-file progress.
func WithLogger(l content.Logger) Option {
	return func(im *Importer) { im.logger = l }
}

// New creates an Importer.
func New(repo *content.Repository, actor string, opts ...Option) *Importer {
	im := &Importer{
		repo:   repo,
		actor:  actor,
		logger: log.New("importer"),
	}
	for _, opt := range opts {
		opt(im)
	}
	return im
}

type postFrontMatter struct {
	Title     string    `yaml:"title" toml:"title" json:"title"`
	Excerpt   string    `yaml:"excerpt" toml:"excerpt" json:"excerpt"`
	Summary   string    `yaml:"summary" toml:"summary" json:"summary"`
	Date      time.Time `yaml:"date" toml:"date" json:"date"`
	Tags      []string  `yaml:"tags" toml:"tags" json:"tags"`
	Thumbnail string    `yaml:"thumbnail" toml:"thumbnail" json:"thumbnail"`
	ReadTime  string    `yaml:"readTime" toml:"read_time" json:"readTime"`
	Featured  bool      `yaml:"featured" toml:"featured" json:"featured"`
	Draft     bool      `yaml:"draft" toml:"draft" json:"draft"`
}

// ParsePost turns a markdown document with YAML, TOML or JSON front matter
// into a BlogPost and its publish date (blank when the front matter has
// none). Drafts are imported unpublished.
func ParsePost(source []byte) (content.BlogPost, string, error) {
	var meta postFrontMatter
	body, err := frontmatter.Parse(bytes.NewReader(source), &meta)
	if err != nil {
		return content.BlogPost{}, "", fmt.Errorf("parse frontmatter: %w", err)
	}
	excerpt := meta.Excerpt
	if excerpt == "" {
		excerpt = meta.Summary
	}
	post := content.BlogPost{
		Title:     strings.TrimSpace(meta.Title),
		Excerpt:   strings.TrimSpace(excerpt),
		Content:   strings.TrimSpace(string(body)),
		ReadTime:  meta.ReadTime,
		Tags:      meta.Tags,
		Thumbnail: meta.Thumbnail,
		Featured:  meta.Featured,
		Published: !meta.Draft,
	}
	date := ""
	if !meta.Date.IsZero() {
		date = meta.Date.Format("2006-01-02")
	}
	return post, date, nil
}

// ImportPosts creates a blog post for every .md file under dir. Files whose
// title matches an existing post are skipped. A bad file does not stop the
// run; all failures are returned joined.
func (im *Importer) ImportPosts(ctx context.Context, dir string) (Result, error) {
	var res Result
	existing, err := im.postTitles(ctx)
	if err != nil {
		return res, err
	}

	var errs []error
	walkErr := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.EqualFold(filepath.Ext(path), ".md") {
			return nil
		}
		source, err := os.ReadFile(path)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", path, err))
			return nil
		}
		post, date, err := ParsePost(source)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", path, err))
			return nil
		}
		if _, ok := existing[titleKey(post.Title)]; ok {
			im.logger.Infof("skipping %s: post %q already exists", path, post.Title)
			res.Skipped = append(res.Skipped, post.Title)
			return nil
		}
		if err := im.createPost(ctx, post, date); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", path, err))
			return nil
		}
		existing[titleKey(post.Title)] = struct{}{}
		im.logger.Infof("imported %s as %q", path, post.Title)
		res.Created = append(res.Created, post.Title)
		return nil
	})
	if walkErr != nil {
		errs = append(errs, walkErr)
	}
	return res, errors.Join(errs...)
}

func (im *Importer) createPost(ctx context.Context, post content.BlogPost, date string) error {
	created, err := im.repo.CreateBlogPost(ctx, post, im.actor)
	if err != nil {
		return err
	}
	if date == "" || date == created.PublishDate {
		return nil
	}
	return im.repo.UpdateBlogPost(ctx, created.ID, content.Patch{"publishDate": jsonString(date)}, im.actor)
}

func (im *Importer) postTitles(ctx context.Context) (map[string]struct{}, error) {
	posts, err := im.repo.ListAllBlogPosts(ctx, im.actor)
	if err != nil {
		return nil, err
	}
	titles := make(map[string]struct{}, len(posts))
	for _, p := range posts {
		titles[titleKey(p.Title)] = struct{}{}
	}
	return titles, nil
}

func titleKey(title string) string {
	return strings.ToLower(strings.TrimSpace(title))
}

func jsonString(s string) json.RawMessage {
	b, _ := json.Marshal(s)
	return b
}
