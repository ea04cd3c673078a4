package views

import (
	"context"
	"io"

	"github.com/a-h/templ"

	"github.com/eringen/tantalks/markdown"
)

func layout(site SiteConfig, meta PageMeta, jsonLD string, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		title := site.Name
		if meta.Title != "" {
			title = meta.Title + " | " + site.Name
		}
		head := `<!doctype html><html lang="en"><head><meta charset="utf-8"/>` +
			`<meta name="viewport" content="width=device-width, initial-scale=1"/>` +
			`<title>` + templ.EscapeString(title) + `</title>` +
			`<meta name="description" content="` + templ.EscapeString(meta.Description) + `"/>`
		if meta.URL != "" {
			head += `<link rel="canonical" href="` + templ.EscapeString(meta.URL) + `"/>` +
				`<meta property="og:url" content="` + templ.EscapeString(meta.URL) + `"/>`
		}
		if meta.OGType != "" {
			head += `<meta property="og:type" content="` + templ.EscapeString(meta.OGType) + `"/>`
		}
		head += `<meta property="og:title" content="` + templ.EscapeString(title) + `"/>` +
			`<link rel="alternate" type="application/rss+xml" href="/feed.xml"/>` +
			`<link rel="stylesheet" href="/public/styles.css"/>`
		if jsonLD != "" {
			head += `<script type="application/ld+json">` + jsonLD + `</script>`
		}
		head += `</head><body><main class="mx-auto max-w-3xl px-4 py-10">`
		if _, err := io.WriteString(w, head); err != nil {
			return err
		}
		if err := body.Render(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, `</main></body></html>`)
		return err
	})
}

// Post renders a single blog post page.
func Post(page PostPage) templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		p := page.Post
		out := `<article>`
		if page.Preview {
			out += `<p class="draft-banner">Draft preview. Not visible to visitors.</p>`
		}
		out += `<h1>` + templ.EscapeString(p.Title) + `</h1>` +
			`<p class="post-meta"><time datetime="` + templ.EscapeString(p.PublishDate) + `">` +
			templ.EscapeString(p.PublishDate) + `</time> · ` + templ.EscapeString(p.ReadTime) + `</p>`
		if len(p.Tags) > 0 {
			out += `<ul class="tags">`
			for _, t := range p.Tags {
				out += `<li class="` + TagClass(false) + `">` + templ.EscapeString(t) + `</li>`
			}
			out += `</ul>`
		}
		if src := markdown.SafeURL(p.Thumbnail); src != "" {
			out += `<img class="post-thumbnail" src="` + src + `" alt="` + templ.EscapeString(p.Title) + `"/>`
		}
		if page.ExcerptHTML != "" {
			out += `<div class="post-excerpt">` + page.ExcerptHTML + `</div>`
		}
		out += `<div class="post-body">`
		if _, err := io.WriteString(w, out); err != nil {
			return err
		}
		if err := markdown.HTML(page.Nodes).Render(ctx, w); err != nil {
			return err
		}
		out = `</div></article>`
		if len(page.Related) > 0 {
			out += `<aside><h2>Related posts</h2><ul>`
			for _, r := range page.Related {
				out += `<li><a href="/blog/` + PathEscape(r.ID) + `/">` + templ.EscapeString(r.Title) + `</a></li>`
			}
			out += `</ul></aside>`
		}
		_, err := io.WriteString(w, out)
		return err
	})
	return layout(page.Site, page.Meta, BlogPostingJsonLD(page.Site, page.Post), body)
}

// NotFound renders the 404 page.
func NotFound(site SiteConfig) templ.Component {
	return layout(site, PageMeta{Title: "Not found"}, "", message("Page not found", "The page you are looking for does not exist."))
}

// ServerError renders the 500 page.
func ServerError(site SiteConfig) templ.Component {
	return layout(site, PageMeta{Title: "Error"}, "", message("Something went wrong", "Please try again in a moment."))
}

func message(heading, text string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, `<h1>`+templ.EscapeString(heading)+`</h1><p>`+templ.EscapeString(text)+`</p><p><a href="/">Back home</a></p>`)
		return err
	})
}
