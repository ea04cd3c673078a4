package views

import (
	"github.com/eringen/tantalks/content"
	"github.com/eringen/tantalks/markdown"
)

// SiteConfig holds the site-wide settings templates need.
type SiteConfig struct {
	Name        string
	URL         string
	Description string
	Author      string
}

// PageMeta carries per-page OpenGraph and SEO metadata into the <head> template.
type PageMeta struct {
	Title       string
	Description string
	URL         string // canonical + og:url
	OGType      string // "website" or "article"
}

// PostPage is everything the post template renders.
type PostPage struct {
	Site        SiteConfig
	Meta        PageMeta
	Post        content.BlogPost
	Nodes       []markdown.Node
	ExcerptHTML string
	Related     []content.BlogPost
	Preview     bool // draft shown to a signed-in admin
}
