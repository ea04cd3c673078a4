package importer

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eringen/tantalks/content"
	"github.com/eringen/tantalks/kv"
)

type nopLogger struct{}

func (nopLogger) Warnf(string, ...interface{}) {}
func (nopLogger) Infof(string, ...interface{}) {}

func setup(t *testing.T) (*content.Repository, *Importer) {
	t.Helper()
	store, err := kv.NewSQLiteStore(filepath.Join(t.TempDir(), "import.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	repo := content.New(store, content.WithLogger(nopLogger{}))
	return repo, New(repo, "importer", WithLogger(nopLogger{}))
}

func writeFile(t *testing.T, dir, name, body string) {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
}

func TestParsePost(t *testing.T) {
	tests := []struct {
		name      string
		source    string
		title     string
		excerpt   string
		date      string
		published bool
		body      string
	}{
		{
			name:      "yaml",
			source:    "---\ntitle: Hello\nsummary: Short\ndate: 2024-01-15\ntags: [go, web]\n---\n# Hi\n",
			title:     "Hello",
			excerpt:   "Short",
			date:      "2024-01-15",
			published: true,
			body:      "# Hi",
		},
		{
			name:      "toml draft",
			source:    "+++\ntitle = \"Later\"\nexcerpt = \"Soon\"\ndraft = true\n+++\nbody",
			title:     "Later",
			excerpt:   "Soon",
			published: false,
			body:      "body",
		},
		{
			name:      "no front matter",
			source:    "just text",
			published: true,
			body:      "just text",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			post, date, err := ParsePost([]byte(tt.source))
			require.NoError(t, err)
			assert.Equal(t, tt.title, post.Title)
			assert.Equal(t, tt.excerpt, post.Excerpt)
			assert.Equal(t, tt.date, date)
			assert.Equal(t, tt.published, post.Published)
			assert.Equal(t, tt.body, post.Content)
		})
	}
}

func TestImportPosts(t *testing.T) {
	repo, im := setup(t)
	ctx := context.Background()
	dir := t.TempDir()

	writeFile(t, dir, "first.md", "---\ntitle: First\ndate: 2023-05-01\ntags: [go]\n---\nHello **there**\n")
	writeFile(t, dir, "nested/second.md", "---\ntitle: Second\ndraft: true\n---\nDraft body\n")
	writeFile(t, dir, "notes.txt", "ignored")
	writeFile(t, dir, "untitled.md", "no title here")

	res, err := im.ImportPosts(ctx, dir)
	require.Error(t, err)
	assert.ErrorIs(t, err, content.ErrValidation)
	assert.ElementsMatch(t, []string{"First", "Second"}, res.Created)

	posts, err := repo.ListAllBlogPosts(ctx, "importer")
	require.NoError(t, err)
	require.Len(t, posts, 2)

	byTitle := map[string]content.BlogPost{}
	for _, p := range posts {
		byTitle[p.Title] = p
	}
	first := byTitle["First"]
	assert.Equal(t, "2023-05-01", first.PublishDate)
	assert.True(t, first.Published)
	assert.Equal(t, "1 min read", first.ReadTime)
	assert.Equal(t, "importer", first.CreatedBy)
	assert.False(t, byTitle["Second"].Published)

	require.NoError(t, os.Remove(filepath.Join(dir, "untitled.md")))
	res, err = im.ImportPosts(ctx, dir)
	require.NoError(t, err)
	assert.Empty(t, res.Created)
	assert.ElementsMatch(t, []string{"First", "Second"}, res.Skipped)
}

const seedTOML = `
[profile]
name = "Tan"
work_start_date = "2016-03"
skills = ["Go", "Podcasting"]

[[episodes]]
title = "Pilot"
description = "The first one"
publish_date = "2024-02-01"
tags = ["intro"]

[[episodes]]
title = "Second"

[[posts]]
title = "Welcome"
excerpt = "Hi"
content = "Welcome to the blog."
featured = true
`

func TestImportSeed(t *testing.T) {
	repo, im := setup(t)
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "seed.toml")
	require.NoError(t, os.WriteFile(path, []byte(seedTOML), 0o644))

	res, err := im.ImportSeed(ctx, path)
	require.NoError(t, err)
	assert.True(t, res.ProfileUpdated)
	assert.Equal(t, []string{"Pilot", "Second"}, res.Episodes.Created)
	assert.Equal(t, []string{"Welcome"}, res.Posts.Created)

	profile, err := repo.GetProfile(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Tan", profile.Name)
	assert.Equal(t, "2016-03", profile.WorkStartDate)
	assert.Equal(t, []string{"Go", "Podcasting"}, profile.Skills)
	assert.Equal(t, "Podcast Host", profile.Title)

	episodes, err := repo.ListEpisodes(ctx)
	require.NoError(t, err)
	require.Len(t, episodes, 2)
	for _, ep := range episodes {
		if ep.Title == "Pilot" {
			assert.Equal(t, "2024-02-01", ep.PublishDate)
			assert.Equal(t, []string{"intro"}, ep.Tags)
		}
	}

	posts, err := repo.ListPublishedBlogPosts(ctx)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	featured, ok := content.FeaturedPost(posts)
	require.True(t, ok)
	assert.Equal(t, "Welcome", featured.Title)

	res, err = im.ImportSeed(ctx, path)
	require.NoError(t, err)
	assert.Empty(t, res.Episodes.Created)
	assert.Equal(t, []string{"Pilot", "Second"}, res.Episodes.Skipped)
	assert.Equal(t, []string{"Welcome"}, res.Posts.Skipped)
}

func TestLoadSeedRejectsUnknownKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.toml")
	require.NoError(t, os.WriteFile(path, []byte("[[episodes]]\ntitel = \"typo\"\n"), 0o644))
	_, err := LoadSeed(path)
	assert.Error(t, err)
}

func TestImportSeedBadProfile(t *testing.T) {
	_, im := setup(t)
	_, err := im.ApplySeed(context.Background(), Seed{Profile: &SeedProfile{WorkStartDate: "March 2016"}})
	assert.ErrorIs(t, err, content.ErrValidation)
}
