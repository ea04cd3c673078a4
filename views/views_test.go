package views

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/eringen/tantalks/content"
	"github.com/eringen/tantalks/markdown"
)

func TestBuildURL(t *testing.T) {
	tests := []struct {
		base string
		segs []string
		want string
	}{
		{"https://example.com", nil, "https://example.com"},
		{"https://example.com", []string{"blog", "blog_1_a"}, "https://example.com/blog/blog_1_a/"},
		{"https://example.com/site/", []string{"blog"}, "https://example.com/site/blog/"},
	}
	for _, tt := range tests {
		if got := BuildURL(tt.base, tt.segs...); got != tt.want {
			t.Errorf("BuildURL(%q, %v) = %q, want %q", tt.base, tt.segs, got, tt.want)
		}
	}
}

func TestFilterRelatedPosts(t *testing.T) {
	current := content.BlogPost{ID: "blog_1", Tags: []string{"Go", " web "}}
	posts := []content.BlogPost{
		{ID: "blog_1", Tags: []string{"go"}},
		{ID: "blog_2", Tags: []string{"go"}},
		{ID: "blog_3", Tags: []string{"rust"}},
		{ID: "blog_4", Tags: []string{"WEB", "go"}},
	}
	related := FilterRelatedPosts(current, posts)
	if len(related) != 2 {
		t.Fatalf("got %d related posts, want 2", len(related))
	}
	if related[0].ID != "blog_2" || related[1].ID != "blog_4" {
		t.Errorf("unexpected related posts: %+v", related)
	}
}

func TestBlogPostingJsonLD(t *testing.T) {
	updated := time.Date(2024, 3, 2, 10, 0, 0, 0, time.UTC)
	site := SiteConfig{Name: "TanTalks", URL: "https://example.com", Author: "Tan"}
	post := content.BlogPost{ID: "blog_1", Title: "Hello", PublishDate: "2024-03-01", Tags: []string{"a", "b"}, UpdatedAt: &updated}

	var data map[string]any
	if err := json.Unmarshal([]byte(BlogPostingJsonLD(site, post)), &data); err != nil {
		t.Fatalf("invalid JSON-LD: %v", err)
	}
	if data["url"] != "https://example.com/blog/blog_1/" {
		t.Errorf("url = %v", data["url"])
	}
	if data["dateModified"] != "2024-03-02" {
		t.Errorf("dateModified = %v", data["dateModified"])
	}
	if data["keywords"] != "a, b" {
		t.Errorf("keywords = %v", data["keywords"])
	}
	if _, ok := data["author"]; !ok {
		t.Error("author missing")
	}
}

func render(t *testing.T, page PostPage) string {
	t.Helper()
	var buf bytes.Buffer
	if err := Post(page).Render(context.Background(), &buf); err != nil {
		t.Fatalf("render: %v", err)
	}
	return buf.String()
}

func TestPostPage(t *testing.T) {
	post := content.BlogPost{ID: "blog_1", Title: "A <b>bold</b> title", ReadTime: "2 min read", Tags: []string{"go"}}
	page := PostPage{
		Site:    SiteConfig{Name: "TanTalks", URL: "https://example.com"},
		Meta:    PageMeta{Title: post.Title, URL: PostURL("https://example.com", post)},
		Post:    post,
		Nodes:   markdown.Render("Hello **world**"),
		Related: []content.BlogPost{{ID: "blog_2", Title: "Next"}},
	}

	out := render(t, page)
	for _, want := range []string{
		"<title>A &lt;b&gt;bold&lt;/b&gt; title | TanTalks</title>",
		`<link rel="canonical" href="https://example.com/blog/blog_1/"/>`,
		"<strong>world</strong>",
		`<a href="/blog/blog_2/">Next</a>`,
		"application/ld+json",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
	if strings.Contains(out, "Draft preview") {
		t.Error("published page shows the draft banner")
	}

	page.Preview = true
	if out := render(t, page); !strings.Contains(out, "Draft preview") {
		t.Error("preview page is missing the draft banner")
	}
}

func TestErrorPages(t *testing.T) {
	site := SiteConfig{Name: "TanTalks"}
	var buf bytes.Buffer
	if err := NotFound(site).Render(context.Background(), &buf); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "Page not found") {
		t.Errorf("unexpected 404 page: %s", buf.String())
	}
	buf.Reset()
	if err := ServerError(site).Render(context.Background(), &buf); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "Something went wrong") {
		t.Errorf("unexpected 500 page: %s", buf.String())
	}
}
