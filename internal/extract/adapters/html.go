package adapters

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"golang.org/x/net/html"
)

// HTMLAdapter reads web-form FNOL submissions
type HTMLAdapter struct{}

// NewHTMLAdapter creates a new HTML adapter
func NewHTMLAdapter() *HTMLAdapter {
	return &HTMLAdapter{}
}

// Name returns the adapter name
func (a *HTMLAdapter) Name() string {
	return "html"
}

// CanHandle matches .html/.htm sources and text/html responses
func (a *HTMLAdapter) CanHandle(source string, contentType string) bool {
	return hasExt(source, ".html", ".htm") || hasContentType(contentType, "text/html", "application/xhtml+xml")
}

// Text returns the visible text with one line per block element, so
// "LABEL: value" rows survive for the label extractor
func (a *HTMLAdapter) Text(_ context.Context, doc Document) (string, error) {
	root, err := html.Parse(bytes.NewReader(doc.Data))
	if err != nil {
		return "", fmt.Errorf("parse html: %w", err)
	}
	return visibleText(root), nil
}

var blockElements = map[string]bool{
	"p": true, "div": true, "br": true, "tr": true, "li": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"table": true, "section": true, "fieldset": true, "legend": true, "dt": true, "dd": true,
}

// visibleText extracts text nodes, skipping scripts/styles
func visibleText(n *html.Node) string {
	var buf strings.Builder

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript", "iframe", "head":
				return
			case "input", "textarea":
				// filled web forms carry values in attributes
				if v := attr(n, "value"); v != "" {
					buf.WriteString(v)
					buf.WriteString(" ")
				}
			}
		}

		if n.Type == html.TextNode {
			if text := strings.TrimSpace(n.Data); text != "" {
				buf.WriteString(text)
				buf.WriteString(" ")
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}

		if n.Type == html.ElementNode && blockElements[n.Data] {
			buf.WriteString("\n")
		}
	}

	walk(n)
	return tidyLines(buf.String())
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

// tidyLines trims every line and drops blank ones
func tidyLines(s string) string {
	var out []string
	for _, line := range strings.Split(s, "\n") {
		if line = strings.Join(strings.Fields(line), " "); line != "" {
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n")
}
