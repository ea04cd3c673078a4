package content

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestBlogPublishedFiltering(t *testing.T) {
	repo, _ := setupRepo(t)
	ctx := context.Background()

	draft, err := repo.CreateBlogPost(ctx, BlogPost{Title: "Draft", Content: "wip"}, "u")
	if err != nil {
		t.Fatalf("CreateBlogPost failed: %v", err)
	}
	live, err := repo.CreateBlogPost(ctx, BlogPost{Title: "Live", Content: "hello", Published: true}, "u")
	if err != nil {
		t.Fatalf("CreateBlogPost failed: %v", err)
	}

	public, err := repo.ListPublishedBlogPosts(ctx)
	if err != nil {
		t.Fatalf("ListPublishedBlogPosts failed: %v", err)
	}
	if len(public) != 1 || public[0].ID != live.ID {
		t.Errorf("public listing = %+v", public)
	}

	all, err := repo.ListAllBlogPosts(ctx, "u")
	if err != nil {
		t.Fatalf("ListAllBlogPosts failed: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("admin listing has %d posts, want 2", len(all))
	}
	if _, err := repo.ListAllBlogPosts(ctx, ""); !errors.Is(err, ErrUnauthorized) {
		t.Errorf("expected ErrUnauthorized, got %v", err)
	}

	if _, err := repo.GetPublishedBlogPost(ctx, draft.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("draft visible publicly: %v", err)
	}
	if _, err := repo.GetBlogPost(ctx, draft.ID); err != nil {
		t.Errorf("GetBlogPost(draft) failed: %v", err)
	}
}

func TestBlogReadTime(t *testing.T) {
	repo, _ := setupRepo(t)
	ctx := context.Background()

	long := strings.TrimSpace(strings.Repeat("word ", 400))
	p, err := repo.CreateBlogPost(ctx, BlogPost{Title: "Long", Content: long}, "u")
	if err != nil {
		t.Fatalf("CreateBlogPost failed: %v", err)
	}
	if p.ReadTime != "2 min read" {
		t.Errorf("ReadTime = %q, want 2 min read", p.ReadTime)
	}

	custom, err := repo.CreateBlogPost(ctx, BlogPost{Title: "Custom", Content: "x", ReadTime: "a while"}, "u")
	if err != nil {
		t.Fatalf("CreateBlogPost failed: %v", err)
	}
	if custom.ReadTime != "a while" {
		t.Errorf("user-supplied ReadTime overwritten: %q", custom.ReadTime)
	}

	err = repo.UpdateBlogPost(ctx, custom.ID, patchOf(t, map[string]any{
		"readTime": "",
		"content":  long + " " + long,
	}), "u")
	if err != nil {
		t.Fatalf("UpdateBlogPost failed: %v", err)
	}
	got, _ := repo.GetBlogPost(ctx, custom.ID)
	if got.ReadTime != "4 min read" {
		t.Errorf("ReadTime after update = %q, want 4 min read", got.ReadTime)
	}
}

func TestReadTime(t *testing.T) {
	tests := []struct {
		content string
		want    string
	}{
		{"", "1 min read"},
		{"hello", "1 min read"},
		{strings.Repeat("w ", 200), "1 min read"},
		{strings.Repeat("w ", 201), "2 min read"},
		{strings.Repeat("w ", 400), "2 min read"},
		{"tabs\tand\nnewlines  count", "1 min read"},
	}
	for _, tt := range tests {
		if got := ReadTime(tt.content); got != tt.want {
			t.Errorf("ReadTime(%d chars) = %q, want %q", len(tt.content), got, tt.want)
		}
	}
}

func TestCalculateExperience(t *testing.T) {
	now := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		start  string
		want   Experience
		wantOK bool
	}{
		{"2020-01", Experience{Years: 4, Months: 2, Label: "4.2"}, true},
		{"2024-03", Experience{Years: 0, Months: 0, Label: "0.0"}, true},
		{"2023-04", Experience{Years: 0, Months: 11, Label: "0.11"}, true},
		{"2030-01", Experience{Years: 0, Months: 0, Label: "0.0"}, true},
		{"March 2020", Experience{}, false},
		{"", Experience{}, false},
	}
	for _, tt := range tests {
		got, ok := CalculateExperience(tt.start, now)
		if ok != tt.wantOK || got != tt.want {
			t.Errorf("CalculateExperience(%q) = %+v, %v; want %+v, %v", tt.start, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestFeaturedPost(t *testing.T) {
	posts := []BlogPost{
		{ID: "blog_1", Featured: true},
		{ID: "blog_2", Published: true},
		{ID: "blog_3", Featured: true, Published: true},
		{ID: "blog_4", Featured: true, Published: true},
	}
	got, ok := FeaturedPost(posts)
	if !ok || got.ID != "blog_3" {
		t.Errorf("FeaturedPost = %q, %v; want blog_3", got.ID, ok)
	}
	if _, ok := FeaturedPost(posts[:2]); ok {
		t.Error("expected no featured post")
	}
}

func TestSortPostsByPublishDate(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	posts := []BlogPost{
		{ID: "a", PublishDate: "2024-01-01", CreatedAt: base},
		{ID: "b", PublishDate: "2024-02-01", CreatedAt: base},
		{ID: "c", PublishDate: "2024-01-01", CreatedAt: base.Add(time.Hour)},
	}
	SortPostsByPublishDate(posts)
	order := []string{posts[0].ID, posts[1].ID, posts[2].ID}
	if strings.Join(order, ",") != "b,c,a" {
		t.Errorf("order = %v, want [b c a]", order)
	}
}

func TestSortEpisodesByPublishDate(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	episodes := []Episode{
		{ID: "a", PublishDate: "2023-12-01", CreatedAt: base},
		{ID: "b", PublishDate: "2024-01-01", CreatedAt: base},
		{ID: "c", PublishDate: "2024-01-01", CreatedAt: base.Add(time.Minute)},
	}
	SortEpisodesByPublishDate(episodes)
	order := []string{episodes[0].ID, episodes[1].ID, episodes[2].ID}
	if strings.Join(order, ",") != "c,b,a" {
		t.Errorf("order = %v, want [c b a]", order)
	}
}

func TestCustomIDsAndDefaultProfile(t *testing.T) {
	clock := &fakeClock{t: time.Date(2024, 3, 9, 10, 0, 0, 0, time.UTC)}
	repo, _ := setupRepo(t,
		WithClock(clock.now),
		WithIDSuffix(func() string { return "deadbeef" }),
		WithDefaultProfile(ProfileData{Name: "Tan", Bio: "Host of the show"}),
	)
	ctx := context.Background()

	ep, err := repo.CreateEpisode(ctx, Episode{Title: "Pilot"}, "user-1")
	if err != nil {
		t.Fatalf("CreateEpisode failed: %v", err)
	}
	if want := "episode_1709978400000_deadbeef"; ep.ID != want {
		t.Errorf("id = %q, want %q", ep.ID, want)
	}

	p, err := repo.GetProfile(ctx)
	if err != nil {
		t.Fatalf("GetProfile failed: %v", err)
	}
	if p.Name != "Tan" || p.Bio != "Host of the show" {
		t.Errorf("profile = %+v, want configured default", p)
	}
	if p.Title != DefaultProfile().Title {
		t.Errorf("blank title not filled from the built-in default: %q", p.Title)
	}
}

func TestDefaultProfileOnEmptyStore(t *testing.T) {
	repo, _ := setupRepo(t)
	ctx := context.Background()

	p, err := repo.GetProfile(ctx)
	if err != nil {
		t.Fatalf("GetProfile failed: %v", err)
	}
	def := DefaultProfile()
	if p.Name != def.Name || p.Title != def.Title || p.Bio != def.Bio || p.Photo != def.Photo {
		t.Errorf("GetProfile on empty store = %+v, want default", p)
	}
}

func TestUpdateProfile(t *testing.T) {
	clock := &fakeClock{t: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
	repo, _ := setupRepo(t, WithClock(clock.now))
	ctx := context.Background()

	err := repo.UpdateProfile(ctx, patchOf(t, map[string]any{
		"name":          "Ada",
		"email":         "ada@example.com",
		"workStartDate": "2019-02",
		"skills":        []string{"Go", ""},
		"updatedBy":     "forged",
	}), "admin-1")
	if err != nil {
		t.Fatalf("UpdateProfile failed: %v", err)
	}

	p, err := repo.GetProfile(ctx)
	if err != nil {
		t.Fatalf("GetProfile failed: %v", err)
	}
	if p.Name != "Ada" || p.Email != "ada@example.com" {
		t.Errorf("profile = %+v", p)
	}
	if p.Title != DefaultProfile().Title {
		t.Errorf("blank identity not filled from default: %q", p.Title)
	}
	if p.UpdatedBy != "admin-1" {
		t.Errorf("UpdatedBy = %q", p.UpdatedBy)
	}
	if len(p.Skills) != 1 || p.Skills[0] != "Go" {
		t.Errorf("Skills = %v", p.Skills)
	}

	// second write merges over the first
	if err := repo.UpdateProfile(ctx, patchOf(t, map[string]any{"bio": "hi"}), "admin-2"); err != nil {
		t.Fatalf("UpdateProfile failed: %v", err)
	}
	p, _ = repo.GetProfile(ctx)
	if p.Name != "Ada" || p.Bio != "hi" || p.UpdatedBy != "admin-2" {
		t.Errorf("merged profile = %+v", p)
	}
}

func TestUpdateProfileRejects(t *testing.T) {
	repo, _ := setupRepo(t)
	ctx := context.Background()

	if err := repo.UpdateProfile(ctx, patchOf(t, map[string]any{"name": "X"}), ""); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	p, _ := repo.GetProfile(ctx)
	if p.Name != DefaultProfile().Name {
		t.Errorf("unauthenticated update mutated profile: %+v", p)
	}

	err := repo.UpdateProfile(ctx, patchOf(t, map[string]any{"workStartDate": "2019/02"}), "u")
	var verr *ValidationError
	if !errors.As(err, &verr) || verr.Fields["workStartDate"] == "" {
		t.Errorf("expected workStartDate validation error, got %v", err)
	}
}

func TestContactMessages(t *testing.T) {
	clock := &fakeClock{t: time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)}
	repo, _ := setupRepo(t, WithClock(clock.now))
	ctx := context.Background()

	var ids []string
	for i, subject := range []string{"first", "second", "third"} {
		if i > 0 {
			clock.advance(time.Minute)
		}
		m, err := repo.CreateContactMessage(ctx, ContactMessage{
			Name: "Visitor", Email: "v@example.com", Subject: subject, Body: "hello",
			Status: StatusReplied,
		})
		if err != nil {
			t.Fatalf("CreateContactMessage failed: %v", err)
		}
		if m.Status != StatusNew {
			t.Errorf("Status = %q, want new", m.Status)
		}
		ids = append(ids, m.ID)
	}

	msgs, err := repo.ListContactMessages(ctx, "admin")
	if err != nil {
		t.Fatalf("ListContactMessages failed: %v", err)
	}
	if len(msgs) != 3 {
		t.Fatalf("got %d messages, want 3", len(msgs))
	}
	for i, want := range []string{ids[2], ids[1], ids[0]} {
		if msgs[i].ID != want {
			t.Errorf("msgs[%d] = %s, want %s", i, msgs[i].ID, want)
		}
	}

	if _, err := repo.ListContactMessages(ctx, ""); !errors.Is(err, ErrUnauthorized) {
		t.Errorf("expected ErrUnauthorized, got %v", err)
	}
}

func TestContactMessageValidation(t *testing.T) {
	repo, _ := setupRepo(t)
	ctx := context.Background()

	_, err := repo.CreateContactMessage(ctx, ContactMessage{Name: "x", Email: " "})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *ValidationError, got %v", err)
	}
	for _, field := range []string{"email", "subject", "body"} {
		if verr.Fields[field] == "" {
			t.Errorf("missing error for %s: %v", field, verr.Fields)
		}
	}
	if _, ok := verr.Fields["name"]; ok {
		t.Errorf("unexpected error for name")
	}
}

func TestImages(t *testing.T) {
	clock := &fakeClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	repo, _ := setupRepo(t, WithClock(clock.now))
	ctx := context.Background()

	for _, name := range []string{"a.webp", "b.webp"} {
		if _, err := repo.SaveImage(ctx, Image{Filename: name, URL: "/uploads/" + name}, "u"); err != nil {
			t.Fatalf("SaveImage failed: %v", err)
		}
		clock.advance(time.Second)
	}
	images, err := repo.ListImages(ctx, "u")
	if err != nil {
		t.Fatalf("ListImages failed: %v", err)
	}
	if len(images) != 2 || images[0].Filename != "b.webp" {
		t.Errorf("ListImages = %+v", images)
	}
	if ok, _ := repo.ImageExists(ctx, "a.webp"); !ok {
		t.Error("expected a.webp to exist")
	}
	if err := repo.DeleteImage(ctx, "a.webp", "u"); err != nil {
		t.Fatalf("DeleteImage failed: %v", err)
	}
	if ok, _ := repo.ImageExists(ctx, "a.webp"); ok {
		t.Error("expected a.webp to be gone")
	}
	if err := repo.DeleteImage(ctx, "a.webp", "u"); err != nil {
		t.Errorf("second DeleteImage failed: %v", err)
	}
}
