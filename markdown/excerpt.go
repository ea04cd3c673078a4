package markdown

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

// excerptEngine renders excerpts for feeds and post headers. Raw HTML in the
// source is omitted.
var excerptEngine = goldmark.New(
	goldmark.WithExtensions(extension.Strikethrough, extension.Linkify),
	goldmark.WithRendererOptions(html.WithHardWraps()),
)

// ExcerptHTML renders a markdown-light excerpt to HTML.
func ExcerptHTML(text string) (string, error) {
	var buf bytes.Buffer
	if err := excerptEngine.Convert([]byte(text), &buf); err != nil {
		return "", fmt.Errorf("markdown excerpt: %w", err)
	}
	return buf.String(), nil
}
