// Package markdown converts the restricted markdown dialect used by blog posts
// into typed content nodes, and renders those nodes as HTML.
package markdown

import (
	"regexp"
	"strings"
)

// Block node kinds.
const (
	KindParagraph  = "paragraph"
	KindHeading    = "heading"
	KindList       = "list"
	KindBlockquote = "blockquote"
	KindCode       = "code"
	KindImage      = "image"
	KindRule       = "rule"
)

// Inline node kinds.
const (
	InlineText   = "text"
	InlineBold   = "bold"
	InlineItalic = "italic"
	InlineCode   = "code"
	InlineLink   = "link"
)

// Node is a block of renderable content.
type Node struct {
	Kind     string     `json:"type"`
	Level    int        `json:"level,omitempty"`
	Children []Inline   `json:"children,omitempty"`
	Items    [][]Inline `json:"items,omitempty"`
	Code     string     `json:"code,omitempty"`
	Src      string     `json:"src,omitempty"`
	Alt      string     `json:"alt,omitempty"`
	Caption  string     `json:"caption,omitempty"`
}

// Inline is a span inside a heading, paragraph, list item or blockquote.
type Inline struct {
	Kind     string `json:"type"`
	Text     string `json:"text"`
	URL      string `json:"url,omitempty"`
	External bool   `json:"external,omitempty"`
}

var (
	reImage    = regexp.MustCompile(`^!\[([^\]]*)\]\(([^)]+)\)$`)
	reListItem = regexp.MustCompile(`^(?:[-*+]|\d+\.)\s+`)
	reRule     = regexp.MustCompile(`^---+$`)

	// Order matters: on equal start index the earlier pattern wins.
	inlinePatterns = []struct {
		kind string
		re   *regexp.Regexp
	}{
		{InlineBold, regexp.MustCompile(`\*\*(.+?)\*\*`)},
		{InlineItalic, regexp.MustCompile(`\*([^*]+?)\*`)},
		{InlineCode, regexp.MustCompile("`([^`]+)`")},
		{InlineLink, regexp.MustCompile(`\[([^\]]+)\]\(([^)]+)\)`)},
	}
)

const fence = "```"

// Render converts text into block nodes. It never fails; anything it does not
// recognise becomes paragraph text.
func Render(text string) []Node {
	var (
		nodes  []Node
		para   []string
		items  [][]Inline
		inCode bool
		code   []string
	)

	flushPara := func() {
		if len(para) == 0 {
			return
		}
		joined := strings.Join(para, " ")
		para = nil
		if strings.TrimSpace(joined) == "" {
			return
		}
		nodes = append(nodes, Node{Kind: KindParagraph, Children: RenderInline(joined)})
	}
	flushList := func() {
		if len(items) == 0 {
			return
		}
		nodes = append(nodes, Node{Kind: KindList, Items: items})
		items = nil
	}
	flushCode := func() {
		if len(code) > 0 {
			nodes = append(nodes, Node{Kind: KindCode, Code: strings.Join(code, "\n")})
		}
		code = nil
	}

	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimRight(raw, "\r")
		trimmed := strings.TrimSpace(line)

		if trimmed == fence {
			if inCode {
				flushCode()
			} else {
				flushPara()
				flushList()
			}
			inCode = !inCode
			continue
		}
		if inCode {
			code = append(code, line)
			continue
		}

		switch {
		case strings.HasPrefix(trimmed, "### "):
			flushPara()
			flushList()
			nodes = append(nodes, heading(3, trimmed[4:]))
		case strings.HasPrefix(trimmed, "## "):
			flushPara()
			flushList()
			nodes = append(nodes, heading(2, trimmed[3:]))
		case strings.HasPrefix(trimmed, "# "):
			flushPara()
			flushList()
			nodes = append(nodes, heading(1, trimmed[2:]))
		case reImage.MatchString(trimmed):
			flushPara()
			flushList()
			m := reImage.FindStringSubmatch(trimmed)
			nodes = append(nodes, Node{Kind: KindImage, Src: m[2], Alt: m[1], Caption: m[1]})
		case strings.HasPrefix(trimmed, "> "):
			flushPara()
			flushList()
			nodes = append(nodes, Node{Kind: KindBlockquote, Children: RenderInline(strings.TrimSpace(trimmed[2:]))})
		case reListItem.MatchString(trimmed):
			flushPara()
			items = append(items, RenderInline(reListItem.ReplaceAllString(trimmed, "")))
		case reRule.MatchString(trimmed):
			flushPara()
			flushList()
			nodes = append(nodes, Node{Kind: KindRule})
		case trimmed == "":
			flushPara()
			flushList()
		default:
			flushList()
			para = append(para, line)
		}
	}

	flushPara()
	flushList()
	if inCode {
		flushCode()
	}
	return nodes
}

func heading(level int, text string) Node {
	return Node{Kind: KindHeading, Level: level, Children: RenderInline(strings.TrimSpace(text))}
}

// RenderInline splits text into inline spans. The earliest match among bold,
// italic, code and link wins and its content is not parsed further.
func RenderInline(text string) []Inline {
	var out []Inline
	rest := text
	for rest != "" {
		best := -1
		var loc []int
		for i, p := range inlinePatterns {
			m := p.re.FindStringSubmatchIndex(rest)
			if m == nil {
				continue
			}
			if loc == nil || m[0] < loc[0] {
				best, loc = i, m
			}
		}
		if loc == nil {
			out = append(out, Inline{Kind: InlineText, Text: rest})
			break
		}
		if loc[0] > 0 {
			out = append(out, Inline{Kind: InlineText, Text: rest[:loc[0]]})
		}
		kind := inlinePatterns[best].kind
		span := Inline{Kind: kind, Text: rest[loc[2]:loc[3]]}
		if kind == InlineLink {
			span.URL = rest[loc[4]:loc[5]]
			span.External = strings.HasPrefix(span.URL, "http")
		}
		out = append(out, span)
		rest = rest[loc[1]:]
	}
	return out
}

// PlainText flattens inline spans into their visible text.
func PlainText(spans []Inline) string {
	var b strings.Builder
	for _, s := range spans {
		b.WriteString(s.Text)
	}
	return b.String()
}
