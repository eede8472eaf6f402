// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package engine

import (
	"log/slog"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Strip removes a template's local script and stylesheet dependencies,
// icon-font links, noscript blocks and marketing sections that make no
// sense on a generated business site. Applying it to its own output
// changes nothing.
func Strip(src string, vocab Vocabulary) (string, error) {
	vocab = vocab.orDefault()

	doc, err := parse(src)
	if err != nil {
		return "", err
	}

	var removed int
	remove := func(s *goquery.Selection) {
		removed += s.Length()
		s.Remove()
	}

	remove(doc.Find("script[src]").FilterFunction(func(_ int, s *goquery.Selection) bool {
		return isLocalRef(s.AttrOr("src", ""))
	}))

	remove(doc.Find("link[href]").FilterFunction(func(_ int, s *goquery.Selection) bool {
		rel := strings.ToLower(s.AttrOr("rel", ""))
		href := strings.ToLower(s.AttrOr("href", ""))
		if containsAny(href, vocab.IconFonts) {
			return true
		}
		isAsset := strings.Contains(rel, "stylesheet") || strings.Contains(rel, "icon") ||
			strings.Contains(rel, "preload") || strings.Contains(rel, "manifest")
		return isAsset && isLocalRef(href)
	}))

	remove(doc.Find("noscript"))

	for _, sel := range vocab.StripSelectors {
		remove(doc.Find("body " + sel))
	}

	slog.Debug("template stripped", "removed", removed)
	return render(doc)
}

// isLocalRef reports whether ref points at a file shipped with the
// template rather than an absolute or in-page location.
func isLocalRef(ref string) bool {
	ref = strings.TrimSpace(strings.ToLower(ref))
	switch {
	case ref == "":
		return false
	case strings.HasPrefix(ref, "http://"), strings.HasPrefix(ref, "https://"), strings.HasPrefix(ref, "//"):
		return false
	case strings.HasPrefix(ref, "#"), strings.HasPrefix(ref, "data:"),
		strings.HasPrefix(ref, "mailto:"), strings.HasPrefix(ref, "tel:"), strings.HasPrefix(ref, "javascript:"):
		return false
	}
	return true
}
