package importer

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/eringen/tantalks/content"
)

// Seed is the layout of a TOML seed file.
type Seed struct {
	Profile  *SeedProfile  `toml:"profile"`
	Episodes []SeedEpisode `toml:"episodes"`
	Posts    []SeedPost    `toml:"posts"`
}

// SeedProfile fields are applied as a profile patch; empty ones are left out.
type SeedProfile struct {
	Name          string   `toml:"name" json:"name,omitempty"`
	Title         string   `toml:"title" json:"title,omitempty"`
	Bio           string   `toml:"bio" json:"bio,omitempty"`
	Photo         string   `toml:"photo" json:"photo,omitempty"`
	Email         string   `toml:"email" json:"email,omitempty"`
	LinkedinURL   string   `toml:"linkedin_url" json:"linkedinUrl,omitempty"`
	TwitterURL    string   `toml:"twitter_url" json:"twitterUrl,omitempty"`
	Education     string   `toml:"education" json:"education,omitempty"`
	WorkStartDate string   `toml:"work_start_date" json:"workStartDate,omitempty"`
	Skills        []string `toml:"skills" json:"skills,omitempty"`
	Achievements  string   `toml:"achievements" json:"achievements,omitempty"`
}

// SeedEpisode is one [[episodes]] table.
type SeedEpisode struct {
	Title       string   `toml:"title"`
	Description string   `toml:"description"`
	Duration    string   `toml:"duration"`
	PublishDate string   `toml:"publish_date"`
	Thumbnail   string   `toml:"thumbnail"`
	YoutubeURL  string   `toml:"youtube_url"`
	SpotifyURL  string   `toml:"spotify_url"`
	Tags        []string `toml:"tags"`
}

// SeedPost is one [[posts]] table. Posts are published unless draft is set.
type SeedPost struct {
	Title       string   `toml:"title"`
	Excerpt     string   `toml:"excerpt"`
	Content     string   `toml:"content"`
	PublishDate string   `toml:"publish_date"`
	Tags        []string `toml:"tags"`
	Thumbnail   string   `toml:"thumbnail"`
	Featured    bool     `toml:"featured"`
	Draft       bool     `toml:"draft"`
}

// SeedResult lists what ImportSeed did per kind.
type SeedResult struct {
	Episodes       Result
	Posts          Result
	ProfileUpdated bool
}

// LoadSeed decodes a seed file. Unknown keys are rejected.
func LoadSeed(path string) (Seed, error) {
	f, err := os.Open(path)
	if err != nil {
		return Seed{}, err
	}
	defer f.Close()

	var seed Seed
	dec := toml.NewDecoder(f)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&seed); err != nil {
		return Seed{}, fmt.Errorf("decode seed %s: %w", path, err)
	}
	return seed, nil
}

// ImportSeed loads the seed file at path and applies it. Episodes and posts
// whose title already exists are skipped, so seeding twice is harmless.
func (im *Importer) ImportSeed(ctx context.Context, path string) (SeedResult, error) {
	seed, err := LoadSeed(path)
	if err != nil {
		return SeedResult{}, err
	}
	return im.ApplySeed(ctx, seed)
}

// ApplySeed writes seed through the repository. It stops at the first error.
func (im *Importer) ApplySeed(ctx context.Context, seed Seed) (SeedResult, error) {
	var res SeedResult

	if seed.Profile != nil {
		if err := im.applyProfile(ctx, *seed.Profile); err != nil {
			return res, fmt.Errorf("profile: %w", err)
		}
		res.ProfileUpdated = true
		im.logger.Infof("profile updated")
	}

	episodes, err := im.repo.ListEpisodes(ctx)
	if err != nil {
		return res, err
	}
	seen := make(map[string]struct{}, len(episodes))
	for _, ep := range episodes {
		seen[titleKey(ep.Title)] = struct{}{}
	}
	for _, s := range seed.Episodes {
		if _, ok := seen[titleKey(s.Title)]; ok {
			res.Episodes.Skipped = append(res.Episodes.Skipped, s.Title)
			continue
		}
		if err := im.createEpisode(ctx, s); err != nil {
			return res, fmt.Errorf("episode %q: %w", s.Title, err)
		}
		seen[titleKey(s.Title)] = struct{}{}
		res.Episodes.Created = append(res.Episodes.Created, s.Title)
		im.logger.Infof("episode %q created", s.Title)
	}

	titles, err := im.postTitles(ctx)
	if err != nil {
		return res, err
	}
	for _, s := range seed.Posts {
		if _, ok := titles[titleKey(s.Title)]; ok {
			res.Posts.Skipped = append(res.Posts.Skipped, s.Title)
			continue
		}
		post := content.BlogPost{
			Title:     s.Title,
			Excerpt:   s.Excerpt,
			Content:   strings.TrimSpace(s.Content),
			Tags:      s.Tags,
			Thumbnail: s.Thumbnail,
			Featured:  s.Featured,
			Published: !s.Draft,
		}
		if err := im.createPost(ctx, post, s.PublishDate); err != nil {
			return res, fmt.Errorf("post %q: %w", s.Title, err)
		}
		titles[titleKey(s.Title)] = struct{}{}
		res.Posts.Created = append(res.Posts.Created, s.Title)
		im.logger.Infof("post %q created", s.Title)
	}
	return res, nil
}

func (im *Importer) createEpisode(ctx context.Context, s SeedEpisode) error {
	ep, err := im.repo.CreateEpisode(ctx, content.Episode{
		Title:       s.Title,
		Description: s.Description,
		Duration:    s.Duration,
		Thumbnail:   s.Thumbnail,
		YoutubeURL:  s.YoutubeURL,
		SpotifyURL:  s.SpotifyURL,
		Tags:        s.Tags,
	}, im.actor)
	if err != nil {
		return err
	}
	if s.PublishDate == "" || s.PublishDate == ep.PublishDate {
		return nil
	}
	return im.repo.UpdateEpisode(ctx, ep.ID, content.Patch{"publishDate": jsonString(s.PublishDate)}, im.actor)
}

func (im *Importer) applyProfile(ctx context.Context, p SeedProfile) error {
	data, err := json.Marshal(p)
	if err != nil {
		return err
	}
	var patch content.Patch
	if err := json.Unmarshal(data, &patch); err != nil {
		return err
	}
	return im.repo.UpdateProfile(ctx, patch, im.actor)
}
