package tantalks

import (
	"github.com/a-h/templ"

	"github.com/eringen/tantalks/views"
)

// ViewFuncs holds the templ components the app calls when rendering pages.
// Any of them can be replaced with WithViews.
type ViewFuncs struct {
	Post        func(page views.PostPage) templ.Component
	NotFound    func() templ.Component
	ServerError func() templ.Component
}

func defaultViews(cfg SiteConfig) ViewFuncs {
	site := cfg.viewConfig()
	return ViewFuncs{
		Post:        views.Post,
		NotFound:    func() templ.Component { return views.NotFound(site) },
		ServerError: func() templ.Component { return views.ServerError(site) },
	}
}

func (c SiteConfig) viewConfig() views.SiteConfig {
	return views.SiteConfig{
		Name:        c.Name,
		URL:         c.URL,
		Description: c.Description,
		Author:      c.Author,
	}
}
