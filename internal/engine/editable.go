// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package engine

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// EditableElement is one text unit the owner can edit in place.
type EditableElement struct {
	ID          string `json:"id"`
	Tag         string `json:"tag"`
	TextContent string `json:"textContent"`
	CSSSelector string `json:"cssSelector"`
}

// editableTags are the elements offered for text editing.
const editableTags = "h1, h2, h3, h4, h5, h6, p, button, a, span, li"

// ExtractEditable annotates every leaf text element with a tracking id and
// returns the elements together with the annotated document. Ids already
// present are kept, so extracting from annotated HTML is stable.
func ExtractEditable(doc string) ([]EditableElement, string, error) {
	d, err := parse(doc)
	if err != nil {
		return nil, "", err
	}

	var picked []*html.Node
	selected := make(map[*html.Node]bool)
	d.Find("body").Find(editableTags).Each(func(_ int, s *goquery.Selection) {
		n := s.Get(0)
		if hasBlockDescendant(n) || textOf(s) == "" || within(n.Parent, func(p *html.Node) bool { return selected[p] }) {
			return
		}
		selected[n] = true
		picked = append(picked, n)
	})

	// Drop stale ids from elements no longer eligible, and collect the
	// ids that can be kept.
	used := make(map[string]bool)
	d.Find("[" + attrEditable + "]").Each(func(_ int, s *goquery.Selection) {
		n := s.Get(0)
		id := attr(n, attrEditable)
		if !selected[n] || id == "" || used[id] {
			removeAttr(n, attrEditable)
			return
		}
		used[id] = true
	})

	next := 0
	elements := make([]EditableElement, 0, len(picked))
	for _, n := range picked {
		id := attr(n, attrEditable)
		if id == "" {
			for {
				next++
				id = "el-" + strconv.Itoa(next)
				if !used[id] {
					break
				}
			}
			used[id] = true
			setAttr(n, attrEditable, id)
		}
		elements = append(elements, EditableElement{
			ID:          id,
			Tag:         n.Data,
			TextContent: strings.Join(strings.Fields(nodeText(n)), " "),
			CSSSelector: editableSelector(id),
		})
	}

	out, err := render(d)
	if err != nil {
		return nil, "", err
	}
	return elements, out, nil
}

// editableSelector returns the selector addressing an editable element.
func editableSelector(id string) string {
	return fmt.Sprintf(`[%s="%s"]`, attrEditable, id)
}

// ApplyTextEdit replaces the text of the single element matched by
// selector. Icons inside the element and wrapping links are kept. When
// the selector matches nothing, or more than one element, the original
// document is returned with ErrSelectorNotFound.
func ApplyTextEdit(doc, selector, text string) (string, error) {
	return applyEdit(doc, selector, func(n *html.Node) error {
		setText(n, text)
		return nil
	})
}

// ApplyImageEdit points the single <img> matched by selector at url.
func ApplyImageEdit(doc, selector, url string) (string, error) {
	return applyEdit(doc, selector, func(n *html.Node) error {
		if n.DataAtom != atom.Img {
			return fmt.Errorf("%w: %s is not an image", ErrSelectorNotFound, selector)
		}
		setAttr(n, "src", url)
		return nil
	})
}

func applyEdit(doc, selector string, edit func(*html.Node) error) (string, error) {
	d, err := parse(doc)
	if err != nil {
		return doc, err
	}

	sel := d.Find(selector)
	if sel.Length() != 1 {
		return doc, fmt.Errorf("%w: %s matched %d elements", ErrSelectorNotFound, selector, sel.Length())
	}
	if err := edit(sel.Get(0)); err != nil {
		return doc, err
	}

	out, err := render(d)
	if err != nil {
		return doc, err
	}
	return out, nil
}
