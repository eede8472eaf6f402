// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package engine

import (
	"html"
	"regexp"
	"strings"

	"pagesmith/internal/models"
)

// The rewrites below run on html.Render output, so attribute values are
// always double-quoted and never contain a raw '>' or '"'.
var (
	// imgSrcRe matches <img ... src="..." ...> tags and captures the
	// attributes before src, the src value and the attributes after it.
	imgSrcRe = regexp.MustCompile(`<img\s((?:[^>]*?\s)?)src="([^"]*)"([^>]*)>`)

	// styleAttrRe matches an inline style attribute and captures its value.
	styleAttrRe = regexp.MustCompile(`\sstyle="([^"]*)"`)

	// cssURLRe matches a CSS url() reference and captures the target.
	cssURLRe = regexp.MustCompile(`url\(\s*['"]?([^'")]*?)['"]?\s*\)`)

	// heroTagRe matches the opening tag of the marked hero container.
	heroTagRe = regexp.MustCompile(`<[a-zA-Z][a-zA-Z0-9]*\s[^>]*\b` + attrHero + `=""[^>]*>`)
)

// placeholderImage is used for image slots when no assets are available.
const placeholderImage = `data:image/svg+xml;charset=utf-8,%3Csvg xmlns='http://www.w3.org/2000/svg' width='1200' height='800'%3E%3Crect width='100%25' height='100%25' fill='%23e5e7eb'/%3E%3C/svg%3E`

// substituteImages points every template-local <img> at a content image,
// in document order, or at a neutral placeholder when there are none.
// Remote and data: sources are kept.
func substituteImages(doc string, images []models.ImageAsset) string {
	matches := imgSrcRe.FindAllStringSubmatchIndex(doc, -1)
	if len(matches) == 0 {
		return doc
	}

	var (
		sb   strings.Builder
		last int
		i    int
	)
	for _, loc := range matches {
		src := html.UnescapeString(doc[loc[4]:loc[5]])
		if !isLocalRef(src) {
			continue
		}

		next := placeholderImage
		if asset, ok := contentImage(i, images); ok {
			next = asset.URL
		}
		i++

		sb.WriteString(doc[last:loc[4]])
		sb.WriteString(html.EscapeString(next))
		last = loc[5]
	}
	sb.WriteString(doc[last:])
	return sb.String()
}

// neutralizeInlineURLs replaces template-local url() references inside
// inline style attributes with "none" so published pages request nothing
// that was never uploaded.
func neutralizeInlineURLs(doc string) string {
	return styleAttrRe.ReplaceAllStringFunc(doc, func(m string) string {
		sub := styleAttrRe.FindStringSubmatch(m)
		style := html.UnescapeString(sub[1])
		next := neutralizeCSSURLs(style)
		if next == style {
			return m
		}
		return ` style="` + html.EscapeString(next) + `"`
	})
}

// neutralizeCSSURLs replaces local url() references in CSS text with none.
func neutralizeCSSURLs(css string) string {
	return cssURLRe.ReplaceAllStringFunc(css, func(m string) string {
		target := cssURLRe.FindStringSubmatch(m)[1]
		if !isLocalRef(target) {
			return m
		}
		return "none"
	})
}

// heroBackground is the inline style applied to the hero container.
func heroBackground(url string) []styleDecl {
	return []styleDecl{
		{"background-image", `url("` + url + `")`},
		{"background-size", "cover"},
		{"background-position", "center"},
	}
}

// styleHero sets the hero image as the background of the marked hero
// container, replacing any earlier background declarations.
func styleHero(doc, url string) string {
	loc := heroTagRe.FindStringIndex(doc)
	if loc == nil {
		return doc
	}
	tag := doc[loc[0]:loc[1]]

	var next string
	if m := styleAttrRe.FindStringSubmatchIndex(tag); m != nil {
		style := withStyle(html.UnescapeString(tag[m[2]:m[3]]), heroBackground(url)...)
		next = tag[:m[2]] + html.EscapeString(style) + tag[m[3]:]
	} else {
		style := formatStyle(heroBackground(url))
		next = strings.TrimSuffix(tag, ">") + ` style="` + html.EscapeString(style) + `">`
	}
	return doc[:loc[0]] + next + doc[loc[1]:]
}
