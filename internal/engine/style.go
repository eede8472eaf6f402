// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package engine

import (
	"log/slog"
	"regexp"
	"slices"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"pagesmith/internal/models"
)

var (
	// customPropRe matches a palette-related custom property declaration.
	customPropRe = regexp.MustCompile(`(?i)(--[a-z0-9_-]*?(primary|secondary|accent|background|text)[a-z0-9_-]*)(\s*:\s*)([^;}]+)`)

	// colorValueRe matches a single CSS color literal.
	colorValueRe = regexp.MustCompile(`(?i)^(#[0-9a-f]{3,8}|rgba?\([^)]*\)|hsla?\([^)]*\))$`)

	// importRe matches an @import statement and captures its target.
	importRe = regexp.MustCompile(`(?i)@import\s+(?:url\(\s*)?['"]?([^'")\s;]+)['"]?\s*\)?[^;]*;`)
)

// overrideCSS keeps generated content legible whatever the template's
// own rules are: a scrim over the hero photo, a visible brand and a
// centered footer.
const overrideCSS = `
/* pagesmith overrides */
[data-ps-hero] { position: relative; }
[data-ps-hero]::before { content: ""; position: absolute; inset: 0; background: rgba(0, 0, 0, 0.45); pointer-events: none; z-index: 0; }
[data-ps-hero] > * { position: relative; z-index: 1; }
[data-ps-hero] h1, [data-ps-hero] h2, [data-ps-hero] p { color: #ffffff; }
[data-ps-brand] { display: inline-block; visibility: visible; opacity: 1; }
[data-ps-brand] img { max-height: 2.5em; width: auto; vertical-align: middle; margin-right: 0.5em; }
footer, #footer, .footer { text-align: center; }
`

// IsColor reports whether v is a hex, rgb(a) or hsl(a) color literal.
func IsColor(v string) bool {
	return colorValueRe.MatchString(strings.TrimSpace(v))
}

// Restyle applies the palette to the template CSS and inlines the result,
// plus the override rules, as a single <style data-ps-style> element in
// <head>. An existing element from an earlier run is replaced in place.
func Restyle(doc, css string, palette models.ColorPalette, vocab Vocabulary) (string, error) {
	vocab = vocab.orDefault()

	d, err := parse(doc)
	if err != nil {
		return "", err
	}

	css = recolor(css, palette, vocab.BrandColors)
	css = dropLocalImports(css)
	css = neutralizeCSSURLs(css)

	d.Find("style").Each(func(_ int, s *goquery.Selection) {
		n := s.Get(0)
		if hasAttr(n, attrStyle) || n.FirstChild == nil || n.FirstChild.Type != html.TextNode {
			return
		}
		n.FirstChild.Data = neutralizeCSSURLs(dropLocalImports(n.FirstChild.Data))
	})

	text := strings.ReplaceAll(strings.TrimSpace(css)+"\n"+overrideCSS, "</style", `<\/style`)
	style := &html.Node{
		Type:     html.ElementNode,
		Data:     "style",
		DataAtom: atom.Style,
		Attr:     []html.Attribute{{Key: attrStyle, Val: ""}},
	}
	style.AppendChild(&html.Node{Type: html.TextNode, Data: text})

	if old := d.Find("style[" + attrStyle + "]"); old.Length() > 0 {
		n := old.Get(0)
		n.Parent.InsertBefore(style, n)
		old.Remove()
	} else {
		head := d.Find("head").Get(0)
		head.AppendChild(style)
	}

	slog.Debug("template restyled", "css_bytes", len(text), "palette", !palette.IsZero())
	return render(d)
}

// recolor rewrites palette custom properties when the CSS declares them,
// otherwise it replaces the family's literal brand colors.
func recolor(css string, palette models.ColorPalette, brand BrandColors) string {
	if palette.IsZero() {
		return css
	}

	if customPropRe.MatchString(css) {
		// Literal copies of a property's old value follow the property.
		var olds, nexts []string
		css = customPropRe.ReplaceAllStringFunc(css, func(m string) string {
			sub := customPropRe.FindStringSubmatch(m)
			value := strings.TrimSpace(sub[4])
			if !IsColor(value) {
				return m
			}
			next := paletteSlot(palette, strings.ToLower(sub[2]))
			if next == "" {
				return m
			}
			if !slices.Contains(olds, strings.ToLower(value)) {
				olds = append(olds, strings.ToLower(value))
				nexts = append(nexts, next)
			}
			return sub[1] + sub[3] + next + sub[4][len(strings.TrimRight(sub[4], " \t\n")):]
		})
		for i, old := range olds {
			css = replaceColor(css, old, nexts[i])
		}
		return css
	}

	css = replaceColors(css, brand.Primary, palette.Primary)
	css = replaceColors(css, brand.Secondary, palette.Secondary)
	return css
}

// paletteSlot returns the palette value for a custom-property keyword.
func paletteSlot(p models.ColorPalette, slot string) string {
	switch slot {
	case "primary":
		return p.Primary
	case "secondary":
		return p.Secondary
	case "accent":
		return p.Accent
	case "background":
		return p.Background
	case "text":
		return p.Text
	}
	return ""
}

// replaceColors replaces every literal in olds with next, ignoring case.
func replaceColors(css string, olds []string, next string) string {
	if next == "" {
		return css
	}
	for _, old := range olds {
		css = replaceColor(css, old, next)
	}
	return css
}

// replaceColor replaces whole occurrences of old with next, ignoring case.
// A match must not run into a following word character, so #fff never
// matches the start of #ffffff.
func replaceColor(s, old, next string) string {
	if old == "" {
		return s
	}
	re := regexp.MustCompile(`(?i)` + regexp.QuoteMeta(old))
	locs := re.FindAllStringIndex(s, -1)
	if len(locs) == 0 {
		return s
	}

	var (
		sb   strings.Builder
		last int
	)
	for _, loc := range locs {
		if isWordByte(old[0]) && loc[0] > 0 && isWordByte(s[loc[0]-1]) {
			continue
		}
		if isWordByte(old[len(old)-1]) && loc[1] < len(s) && isWordByte(s[loc[1]]) {
			continue
		}
		sb.WriteString(s[last:loc[0]])
		sb.WriteString(next)
		last = loc[1]
	}
	sb.WriteString(s[last:])
	return sb.String()
}

func isWordByte(b byte) bool {
	return b == '_' || b == '-' || ('0' <= b && b <= '9') || ('a' <= b && b <= 'z') || ('A' <= b && b <= 'Z')
}

// dropLocalImports removes @import statements for template-local files.
func dropLocalImports(css string) string {
	return importRe.ReplaceAllStringFunc(css, func(m string) string {
		if isLocalRef(importRe.FindStringSubmatch(m)[1]) {
			return ""
		}
		return m
	})
}
