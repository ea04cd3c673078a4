package markdown

import (
	"bytes"
	"context"
	"html"
	"io"
	"net/url"
	"strconv"
	"strings"

	"github.com/a-h/templ"
)

// HTML returns a templ.Component that renders nodes as HTML.
func HTML(nodes []Node) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var buf bytes.Buffer
		WriteHTML(&buf, nodes)
		_, err := w.Write(buf.Bytes())
		return err
	})
}

// Markdown renders content straight to a component.
func Markdown(content string) templ.Component {
	return HTML(Render(content))
}

// WriteHTML writes the HTML representation of nodes to buf. All text is
// escaped; unsafe URLs are dropped.
func WriteHTML(buf *bytes.Buffer, nodes []Node) {
	imageCount := 0
	for _, n := range nodes {
		switch n.Kind {
		case KindHeading:
			tag := "h" + strconv.Itoa(n.Level)
			buf.WriteString("<" + tag + ">")
			writeInline(buf, n.Children)
			buf.WriteString("</" + tag + ">")
		case KindParagraph:
			buf.WriteString("<p>")
			writeInline(buf, n.Children)
			buf.WriteString("</p>")
		case KindList:
			buf.WriteString("<ul>")
			for _, item := range n.Items {
				buf.WriteString("<li>")
				writeInline(buf, item)
				buf.WriteString("</li>")
			}
			buf.WriteString("</ul>")
		case KindBlockquote:
			buf.WriteString("<blockquote>")
			writeInline(buf, n.Children)
			buf.WriteString("</blockquote>")
		case KindCode:
			buf.WriteString(`<pre class="code-block"><code>`)
			buf.WriteString(html.EscapeString(n.Code))
			buf.WriteString("</code></pre>")
		case KindImage:
			src := SafeURL(n.Src)
			if src == "" {
				continue
			}
			imageCount++
			loadAttr := `loading="lazy"`
			if imageCount == 1 {
				loadAttr = `fetchpriority="high"`
			}
			buf.WriteString("<figure>")
			buf.WriteString(`<img ` + loadAttr + ` src="` + src + `" alt="` + html.EscapeString(n.Alt) + `" decoding="async"/>`)
			if n.Caption != "" {
				buf.WriteString("<figcaption>" + html.EscapeString(n.Caption) + "</figcaption>")
			}
			buf.WriteString("</figure>")
		case KindRule:
			buf.WriteString("<hr/>")
		}
	}
}

func writeInline(buf *bytes.Buffer, spans []Inline) {
	for _, s := range spans {
		text := html.EscapeString(s.Text)
		switch s.Kind {
		case InlineBold:
			buf.WriteString("<strong>" + text + "</strong>")
		case InlineItalic:
			buf.WriteString("<em>" + text + "</em>")
		case InlineCode:
			buf.WriteString("<code>" + text + "</code>")
		case InlineLink:
			href := SafeURL(s.URL)
			if href == "" {
				buf.WriteString(text)
				continue
			}
			attrs := `class="underline decoration-2 underline-offset-4"`
			if s.External {
				attrs += ` target="_blank" rel="noopener noreferrer"`
			}
			buf.WriteString(`<a href="` + href + `" ` + attrs + `>` + text + `</a>`)
		default:
			buf.WriteString(text)
		}
	}
}

// SafeURL validates and sanitizes a URL for use in HTML attributes.
func SafeURL(raw string) string {
	val := strings.TrimSpace(html.UnescapeString(raw))
	if val == "" {
		return ""
	}
	if strings.HasPrefix(val, "/") || strings.HasPrefix(val, "#") {
		return html.EscapeString(val)
	}
	parsed, err := url.Parse(val)
	if err != nil || parsed.Scheme == "" {
		return ""
	}
	switch strings.ToLower(parsed.Scheme) {
	case "http", "https", "mailto", "tel":
		return html.EscapeString(val)
	default:
		return ""
	}
}
