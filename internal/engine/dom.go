// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package engine

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// parse builds a document tree from src.
func parse(src string) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(src))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return doc, nil
}

// render serializes the whole document, doctype included.
func render(doc *goquery.Document) (string, error) {
	var buf bytes.Buffer
	for _, n := range doc.Nodes {
		if err := html.Render(&buf, n); err != nil {
			return "", fmt.Errorf("render html: %w", err)
		}
	}
	return buf.String(), nil
}

// textOf returns the trimmed, whitespace-collapsed text of s.
func textOf(s *goquery.Selection) string {
	return strings.Join(strings.Fields(s.Text()), " ")
}

// inlineWrappers are elements a text replacement may descend into so that
// the wrapper (a link inside a heading, a span inside a button) survives.
var inlineWrappers = map[atom.Atom]bool{
	atom.A: true, atom.Span: true, atom.Strong: true, atom.Em: true,
	atom.B: true, atom.Small: true, atom.Label: true, atom.Font: true, atom.U: true,
	atom.Code: true,
}

// blockElements disqualify a container from being a single text unit.
var blockElements = map[atom.Atom]bool{
	atom.Address: true, atom.Article: true, atom.Aside: true, atom.Blockquote: true,
	atom.Details: true, atom.Div: true, atom.Dl: true, atom.Fieldset: true,
	atom.Figure: true, atom.Footer: true, atom.Form: true, atom.H1: true,
	atom.H2: true, atom.H3: true, atom.H4: true, atom.H5: true, atom.H6: true,
	atom.Header: true, atom.Hr: true, atom.Li: true, atom.Main: true,
	atom.Nav: true, atom.Ol: true, atom.P: true, atom.Pre: true,
	atom.Section: true, atom.Table: true, atom.Ul: true,
}

// isIcon reports whether n is a decorative glyph that text replacement
// must leave in place.
func isIcon(n *html.Node) bool {
	if n.Type != html.ElementNode {
		return false
	}
	switch n.DataAtom {
	case atom.I, atom.Svg, atom.Img:
		return true
	case atom.Span:
		class := " " + attr(n, "class") + " "
		if strings.TrimSpace(nodeText(n)) == "" &&
			(strings.Contains(class, "icon") || strings.Contains(class, " fa ") || strings.Contains(class, " fa-")) {
			return true
		}
	}
	return false
}

// meaningful returns the children of n that carry content: elements other
// than icons, and non-blank text.
func meaningful(n *html.Node) []*html.Node {
	var out []*html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		switch c.Type {
		case html.TextNode:
			if strings.TrimSpace(c.Data) != "" {
				out = append(out, c)
			}
		case html.ElementNode:
			if !isIcon(c) {
				out = append(out, c)
			}
		}
	}
	return out
}

// textTarget finds the node whose text should be replaced: it descends
// through single inline wrappers so nested links and spans are kept.
func textTarget(n *html.Node) *html.Node {
	for {
		kids := meaningful(n)
		if len(kids) != 1 || kids[0].Type != html.ElementNode || !inlineWrappers[kids[0].DataAtom] {
			return n
		}
		n = kids[0]
	}
}

// setText replaces the text of n, keeping icon children. The new text
// takes the place of the first removed child.
func setText(n *html.Node, text string) {
	n = textTarget(n)

	var anchor *html.Node
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		if !isIcon(c) {
			if anchor == nil {
				anchor = next
				for anchor != nil && !isIcon(anchor) {
					anchor = anchor.NextSibling
				}
			}
			n.RemoveChild(c)
		}
		c = next
	}

	t := &html.Node{Type: html.TextNode, Data: text}
	if anchor != nil {
		n.InsertBefore(t, anchor)
	} else {
		n.AppendChild(t)
	}
}

// nodeText concatenates all text below n.
func nodeText(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}

// attr returns the value of the named attribute or "".
func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val
		}
	}
	return ""
}

// hasAttr reports whether the attribute is present.
func hasAttr(n *html.Node, key string) bool {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return true
		}
	}
	return false
}

// setAttr sets an attribute, replacing any previous value.
func setAttr(n *html.Node, key, val string) {
	for i, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

// removeAttr deletes an attribute if present.
func removeAttr(n *html.Node, key string) {
	for i, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			n.Attr = append(n.Attr[:i], n.Attr[i+1:]...)
			return
		}
	}
}

// contains reports whether descendant lies within (or is) ancestor.
func contains(ancestor, descendant *html.Node) bool {
	for n := descendant; n != nil; n = n.Parent {
		if n == ancestor {
			return true
		}
	}
	return false
}

// idClass returns the lowercase id and class of n joined by a space.
func idClass(n *html.Node) string {
	return strings.ToLower(attr(n, "id") + " " + attr(n, "class"))
}

// within reports whether any ancestor of n (n included) satisfies match.
func within(n *html.Node, match func(*html.Node) bool) bool {
	for p := n; p != nil; p = p.Parent {
		if p.Type == html.ElementNode && match(p) {
			return true
		}
	}
	return false
}

// styleDecl is one property: value pair of an inline style.
type styleDecl struct {
	prop, value string
}

// parseStyle splits an inline style attribute into declarations.
func parseStyle(style string) []styleDecl {
	var out []styleDecl
	for _, part := range splitDecls(style) {
		prop, value, ok := strings.Cut(part, ":")
		if !ok {
			continue
		}
		prop = strings.ToLower(strings.TrimSpace(prop))
		value = strings.TrimSpace(value)
		if prop == "" {
			continue
		}
		out = append(out, styleDecl{prop: prop, value: value})
	}
	return out
}

// splitDecls splits on semicolons outside parentheses and quotes, so
// values such as url("data:image/svg+xml;base64,...") stay whole.
func splitDecls(style string) []string {
	var (
		parts []string
		depth int
		quote rune
		start int
	)
	for i, r := range style {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
			}
		case r == '"' || r == '\'':
			quote = r
		case r == '(':
			depth++
		case r == ')' && depth > 0:
			depth--
		case r == ';' && depth == 0:
			parts = append(parts, style[start:i])
			start = i + 1
		}
	}
	return append(parts, style[start:])
}

// formatStyle joins declarations back into an inline style string.
func formatStyle(decls []styleDecl) string {
	parts := make([]string, 0, len(decls))
	for _, d := range decls {
		parts = append(parts, d.prop+": "+d.value)
	}
	return strings.Join(parts, "; ")
}

// withStyle returns style with each of set applied: existing declarations
// for those properties are dropped and the new ones appended in order.
func withStyle(style string, set ...styleDecl) string {
	drop := make(map[string]bool, len(set))
	for _, d := range set {
		drop[d.prop] = true
	}
	var kept []styleDecl
	for _, d := range parseStyle(style) {
		if !drop[d.prop] {
			kept = append(kept, d)
		}
	}
	return formatStyle(append(kept, set...))
}

// hide sets display:none on n without touching its other styles.
func hide(n *html.Node) {
	setAttr(n, "style", withStyle(attr(n, "style"), styleDecl{"display", "none"}))
}

// isHidden reports whether n carries an inline display:none.
func isHidden(n *html.Node) bool {
	for _, d := range parseStyle(attr(n, "style")) {
		if d.prop == "display" && strings.EqualFold(strings.ReplaceAll(d.value, " ", ""), "none") {
			return true
		}
	}
	return false
}
