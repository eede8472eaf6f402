// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package engine

import (
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/net/html"

	"pagesmith/internal/markdown"
)

// tagRe detects any markup in a model response.
var tagRe = regexp.MustCompile(`<[a-zA-Z!/][^>]*>`)

// defaultTitle is used when a free-form page has neither title nor h1.
const defaultTitle = "My Website"

// CleanMarkup turns a free-form model response into a complete document.
// Code fences and chatter outside <html> are dropped, Markdown answers are
// rendered to HTML and fragments are wrapped in a page. A response cut off
// before </html>, or with nothing in its body, returns ErrIncompleteMarkup.
func CleanMarkup(response string) (string, error) {
	doc := trimFences(response)
	lower := strings.ToLower(doc)

	start := strings.Index(lower, "<!doctype")
	if start == -1 {
		start = strings.Index(lower, "<html")
	}
	if start != -1 {
		end := strings.LastIndex(lower, "</html>")
		if end < start {
			return "", fmt.Errorf("%w: missing </html>", ErrIncompleteMarkup)
		}
		doc = doc[start : end+len("</html>")]
	} else {
		if strings.TrimSpace(doc) == "" {
			return "", fmt.Errorf("%w: empty response", ErrIncompleteMarkup)
		}
		if !tagRe.MatchString(doc) {
			body, err := markdown.ToHTML(doc)
			if err != nil {
				return "", err
			}
			doc = body
		}
		doc = wrapDocument(doc)
	}

	d, err := parse(doc)
	if err != nil {
		return "", err
	}
	body := d.Find("body")
	if textOf(body) == "" && body.Find("img, svg").Length() == 0 {
		return "", fmt.Errorf("%w: empty body", ErrIncompleteMarkup)
	}

	title := d.Find("head title").First()
	if title.Length() == 0 {
		d.Find("head").AppendHtml("<title></title>")
		title = d.Find("head title").First()
	}
	if text := textOf(title); text == "" || strings.EqualFold(text, "untitled") {
		name := textOf(body.Find("h1").First())
		if name == "" {
			name = defaultTitle
		}
		title.SetText(name)
	}

	ensureDoctype(d.Get(0))
	return render(d)
}

// ensureDoctype prepends <!DOCTYPE html> when the document has none.
func ensureDoctype(root *html.Node) {
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.DoctypeNode {
			return
		}
	}
	root.InsertBefore(&html.Node{Type: html.DoctypeNode, Data: "html"}, root.FirstChild)
}

// wrapDocument places a body fragment in a minimal HTML5 page.
func wrapDocument(body string) string {
	return `<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">` +
		`<meta name="viewport" content="width=device-width, initial-scale=1"><title></title>` +
		`</head><body>` + body + `</body></html>`
}

// trimFences removes a surrounding ```html ... ``` block if present.
func trimFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	if nl := strings.Index(s, "\n"); nl != -1 {
		s = s[nl+1:]
	}
	if idx := strings.LastIndex(s, "```"); idx != -1 {
		s = s[:idx]
	}
	return strings.TrimSpace(s)
}
