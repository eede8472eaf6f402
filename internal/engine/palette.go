// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package engine

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// NamedColor is one color of a generated document's palette.
type NamedColor struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

var (
	propDeclRe  = regexp.MustCompile(`(--[a-zA-Z0-9_-]+)\s*:\s*([^;}]+)`)
	colorDeclRe = regexp.MustCompile(`(?i)(?:^|[\s;{])(color|background-color|border-color)\s*:\s*([^;}!]+)`)
)

// colorKeywords map custom-property name fragments to friendly names, in
// matching priority.
var colorKeywords = []struct{ key, name string }{
	{"primary", "Primary Color"},
	{"secondary", "Secondary Color"},
	{"accent", "Accent Color"},
	{"background", "Background Color"},
	{"text", "Text Color"},
	{"border", "Border Color"},
	{"button", "Button Color"},
	{"heading", "Heading Color"},
}

// fallbackNames label colors found by declaration scanning.
var fallbackNames = []string{"Primary Color", "Secondary Color", "Accent Color"}

// isNeutral reports whether value is white or black at any opacity, or
// fully transparent. Neutral colors never make it into a scanned palette.
func isNeutral(value string) bool {
	v := strings.ToLower(strings.TrimSpace(value))
	switch v {
	case "transparent", "white", "black":
		return true
	}

	if hex, ok := strings.CutPrefix(v, "#"); ok {
		if len(hex) == 3 || len(hex) == 4 {
			var sb strings.Builder
			for _, r := range hex {
				sb.WriteRune(r)
				sb.WriteRune(r)
			}
			hex = sb.String()
		}
		if len(hex) == 8 {
			if hex[6:] == "00" {
				return true
			}
			hex = hex[:6]
		}
		return hex == "ffffff" || hex == "000000"
	}

	fn, rest, ok := strings.Cut(v, "(")
	if !ok || !strings.HasSuffix(rest, ")") {
		return false
	}
	args := strings.FieldsFunc(strings.TrimSuffix(rest, ")"), func(r rune) bool {
		return r == ',' || r == '/' || r == ' '
	})
	if len(args) != 3 && len(args) != 4 {
		return false
	}
	if len(args) == 4 {
		if alpha, ok := cssNumber(args[3], 1); ok && alpha == 0 {
			return true
		}
	}

	switch strings.TrimSuffix(fn, "a") {
	case "rgb":
		var full, zero int
		for _, arg := range args[:3] {
			c, ok := cssNumber(arg, 255)
			switch {
			case !ok:
				return false
			case c == 255:
				full++
			case c == 0:
				zero++
			}
		}
		return full == 3 || zero == 3
	case "hsl":
		l, ok := cssNumber(args[2], 100)
		return ok && (l == 100 || l == 0)
	}
	return false
}

// cssNumber parses a plain or percentage CSS number, scaling percentages
// to full.
func cssNumber(arg string, full float64) (float64, bool) {
	if pct, ok := strings.CutSuffix(arg, "%"); ok {
		f, err := strconv.ParseFloat(pct, 64)
		return f / 100 * full, err == nil
	}
	f, err := strconv.ParseFloat(arg, 64)
	return f, err == nil
}

// ExtractColorPalette lists the document's editable colors from its
// embedded <style> blocks. Palette custom properties win when present;
// otherwise up to three distinct non-neutral colors are taken from
// color, background-color and border-color declarations, in order of
// first appearance.
func ExtractColorPalette(doc string) []NamedColor {
	d, err := parse(doc)
	if err != nil {
		return nil
	}
	var sb strings.Builder
	d.Find("style").Each(func(_ int, s *goquery.Selection) {
		sb.WriteString(s.Text())
		sb.WriteString("\n")
	})
	css := sb.String()

	if colors := customPropColors(css); len(colors) > 0 {
		return colors
	}
	return declaredColors(css)
}

func customPropColors(css string) []NamedColor {
	var out []NamedColor
	seenProp := make(map[string]bool)
	seenName := make(map[string]bool)
	for _, m := range propDeclRe.FindAllStringSubmatch(css, -1) {
		prop, value := m[1], strings.TrimSpace(m[2])
		if seenProp[prop] || !IsColor(value) {
			continue
		}
		name := friendlyName(prop)
		if name == "" {
			continue
		}
		seenProp[prop] = true
		if seenName[name] {
			name = fmt.Sprintf("%s (%s)", name, prop)
		}
		seenName[name] = true
		out = append(out, NamedColor{Name: name, Value: value})
	}
	return out
}

func friendlyName(prop string) string {
	lower := strings.ToLower(prop)
	for _, k := range colorKeywords {
		if strings.Contains(lower, k.key) {
			return k.name
		}
	}
	return ""
}

func declaredColors(css string) []NamedColor {
	var out []NamedColor
	seen := make(map[string]bool)
	for _, m := range colorDeclRe.FindAllStringSubmatch(css, -1) {
		value := strings.TrimSpace(m[2])
		key := strings.ToLower(strings.ReplaceAll(value, " ", ""))
		if !IsColor(value) || isNeutral(value) || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, NamedColor{Name: fallbackNames[len(out)], Value: value})
		if len(out) == len(fallbackNames) {
			break
		}
	}
	return out
}

// ApplyColorEdit replaces every occurrence of the named palette color in
// the document, ignoring case. The document is returned unchanged with
// ErrColorNotFound when the name is not in the current palette.
func ApplyColorEdit(doc, name, value string) (string, error) {
	value = strings.TrimSpace(value)
	if !IsColor(value) {
		return doc, fmt.Errorf("%w: %q", ErrInvalidColor, value)
	}

	for _, c := range ExtractColorPalette(doc) {
		if c.Name == name {
			return replaceColor(doc, c.Value, value), nil
		}
	}
	return doc, fmt.Errorf("%w: %s", ErrColorNotFound, name)
}
