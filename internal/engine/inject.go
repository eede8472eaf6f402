// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package engine

import (
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"pagesmith/internal/content"
	"pagesmith/internal/models"
)

var (
	bodyTagRe = regexp.MustCompile(`(?i)<body[\s>]`)
	emailRe   = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[a-z]{2,}$`)
	phoneRe   = regexp.MustCompile(`^\+?[0-9(][0-9\s().-]{6,}$`)
	addressRe = regexp.MustCompile(`(?i)^\d+\s+\S.*\b(road|rd|street|st|avenue|ave|boulevard|blvd|lane|ln|drive|dr|way|place|pl)\b`)
)

// Inject rewrites a stripped template so every structural slot carries
// the business's content. Missing optional content never fails; a source
// without a <body> or without any heading returns ErrMalformedTemplate.
func Inject(src string, in Input) (string, error) {
	if !bodyTagRe.MatchString(src) {
		return "", fmt.Errorf("%w: no <body> element", ErrMalformedTemplate)
	}

	doc, err := parse(src)
	if err != nil {
		return "", err
	}
	body := doc.Find("body")
	if body.Find("h1, h2, h3, h4, h5, h6").Length() == 0 {
		return "", fmt.Errorf("%w: no heading elements", ErrMalformedTemplate)
	}

	inj := &injector{
		doc:    doc,
		body:   body,
		spec:   in.Content,
		images: in.Images,
		vocab:  in.Vocab.orDefault(),
	}
	inj.run()

	out, err := render(doc)
	if err != nil {
		return "", err
	}

	out = substituteImages(out, in.Images)
	out = neutralizeInlineURLs(out)
	if len(in.Images) > 0 {
		out = styleHero(out, in.Images[0].URL)
	}
	return out, nil
}

// injector carries the state of one DOM pass.
type injector struct {
	doc    *goquery.Document
	body   *goquery.Selection
	spec   models.ContentSpec
	images []models.ImageAsset
	vocab  Vocabulary
	brand  *html.Node
}

func (inj *injector) run() {
	removeComments(inj.doc.Nodes[0])
	inj.logo()
	inj.title()
	inj.credits()
	inj.navigation()
	inj.headings()
	inj.testimonials()
	inj.contact()
	inj.paragraphs()
	inj.listItems()
	inj.leftovers()
	inj.buttons()
	inj.links()
	inj.markHero()
	inj.imageAlts()
}

// copyright is the footer line that replaces template credits.
func (inj *injector) copyright() string {
	return fmt.Sprintf("© %s. All rights reserved.", inj.spec.BusinessName)
}

// inBrand reports whether n is the brand element, inside it, or wraps it.
func (inj *injector) inBrand(n *html.Node) bool {
	return inj.brand != nil && (contains(inj.brand, n) || contains(n, inj.brand))
}

// each calls fn for every element matched by sel in document order,
// skipping anything tied to the brand element and anything an earlier
// callback already detached.
func (inj *injector) each(sel string, fn func(n *html.Node, s *goquery.Selection)) {
	root := inj.doc.Get(0)
	inj.body.Find(sel).Each(func(_ int, s *goquery.Selection) {
		n := s.Get(0)
		if inj.inBrand(n) || !contains(root, n) {
			return
		}
		fn(n, s)
	})
}

// logo finds the first brand-bearing element, drops its image and icon
// glyphs, sets the business name and re-inserts a user logo if given.
func (inj *injector) logo() {
	for _, sel := range inj.vocab.LogoSelectors {
		found := inj.body.Find(sel).FilterFunction(func(_ int, s *goquery.Selection) bool {
			switch s.Get(0).DataAtom {
			case atom.Img, atom.Input, atom.Br, atom.Hr:
				return false
			}
			return true
		}).First()
		if found.Length() == 0 {
			continue
		}

		found.Find(`img, svg, i, [class*="icon"], [class*="fa-"]`).Remove()
		n := found.Get(0)
		setText(n, inj.spec.BusinessName)
		setAttr(n, attrBrand, "")

		if inj.spec.LogoURL != "" {
			img := &html.Node{
				Type:     html.ElementNode,
				Data:     "img",
				DataAtom: atom.Img,
				Attr: []html.Attribute{
					{Key: "src", Val: inj.spec.LogoURL},
					{Key: "alt", Val: inj.spec.BusinessName},
				},
			}
			n.InsertBefore(img, n.FirstChild)
		}
		inj.brand = n
		break
	}
	clearMarker(inj.doc, attrBrand, inj.brand)
}

// title sets <title> and the meta description.
func (inj *injector) title() {
	text := inj.spec.BusinessName + " - " + inj.spec.Hero.Subtitle

	title := inj.doc.Find("head title").First()
	if title.Length() == 0 {
		inj.doc.Find("head").AppendHtml("<title></title>")
		title = inj.doc.Find("head title").First()
	}
	title.SetText(text)

	inj.doc.Find(`head meta[name="description"]`).SetAttr("content", inj.spec.Hero.Subtitle)
	inj.doc.Find(`head meta[name="author"]`).SetAttr("content", inj.spec.BusinessName)
}

// credits writes the copyright line once and hides every other vendor
// credit. Only leaf containers are considered so navigation lists are
// never swallowed. A credit mention in body copy outside the footer is
// left for paragraphs to rewrite. Inside a copyright block, placeholder
// text counts as a credit. When no credit could carry the line, it is
// appended to the page footer.
func (inj *injector) credits() {
	var line *html.Node
	inj.each("p, li, div, span, small", func(n *html.Node, s *goquery.Selection) {
		if isHidden(n) || hasBlockDescendant(n) || (line != nil && contains(line, n)) {
			return
		}
		text := strings.ToLower(textOf(s))
		if text == "" {
			return
		}

		vendor := s.Find("a[href]").FilterFunction(func(_ int, a *goquery.Selection) bool {
			return containsAny(strings.ToLower(a.AttrOr("href", "")), inj.vocab.VendorHosts)
		}).Length() > 0
		credit := vendor || containsAny(text, inj.vocab.CreditMarkers) ||
			(within(n, isCreditBlock) && containsAny(text, inj.vocab.FillerWords))
		copyrightLine := strings.HasPrefix(text, "©") || strings.HasPrefix(text, "copyright") ||
			strings.Contains(text, "all rights reserved")
		footer := within(n, isFooter)

		switch {
		case !copyrightLine && !credit:
		case !copyrightLine && n.DataAtom == atom.P && !footer:
		case (copyrightLine || footer) && line == nil:
			clearChildren(n)
			n.AppendChild(&html.Node{Type: html.TextNode, Data: inj.copyright()})
			line = n
		default:
			clearChildren(n)
			hide(n)
		}
	})
	if line == nil {
		inj.appendCopyright()
	}
}

// appendCopyright adds the copyright line to the page footer: #footer
// when present, otherwise the last footer element outside a section.
func (inj *injector) appendCopyright() {
	target := inj.body.Find("#footer").First()
	if target.Length() == 0 {
		target = inj.body.Find("footer").FilterFunction(func(_ int, s *goquery.Selection) bool {
			return !within(s.Get(0).Parent, func(p *html.Node) bool {
				return p.DataAtom == atom.Section || p.DataAtom == atom.Article || p.DataAtom == atom.Blockquote
			})
		}).Last()
	}
	if target.Length() == 0 || isHidden(target.Get(0)) {
		return
	}
	p := &html.Node{Type: html.ElementNode, Data: "p", DataAtom: atom.P}
	p.AppendChild(&html.Node{Type: html.TextNode, Data: inj.copyright()})
	target.Get(0).AppendChild(p)
}

// isFooter reports whether n is a footer or a copyright/credits block.
func isFooter(n *html.Node) bool {
	return n.DataAtom == atom.Footer || markerMatch(n, []string{"footer"}) || isCreditBlock(n)
}

// isCreditBlock reports whether n is marked as a copyright or credits block.
func isCreditBlock(n *html.Node) bool {
	return markerMatch(n, []string{"copyright", "credit"})
}

// isNavContainer reports whether n is a nav element or is marked as one.
func (inj *injector) isNavContainer(n *html.Node) bool {
	return n.DataAtom == atom.Nav || markerMatch(n, inj.vocab.NavMarkers)
}

// navigation relabels placeholder nav links with the menu vocabulary and
// hides auth links. Links past the end of the menu are hidden, not removed.
func (inj *injector) navigation() {
	menu := inj.vocab.Menu
	k := 0
	inj.each("a", func(n *html.Node, s *goquery.Selection) {
		if !within(n, inj.isNavContainer) || isHidden(n) {
			return
		}
		text := strings.ToLower(textOf(s))
		if text == "" {
			return
		}
		if containsAny(text, inj.vocab.AuthLabels) {
			hide(n)
			return
		}
		if isButtonLike(n) {
			return
		}

		href := strings.ToLower(attr(n, "href"))
		if !containsAny(text, inj.vocab.NavArtifacts) && !isInternalPage(href) &&
			!isIndexLink(href, text) && !isMenuLabel(text, menu) {
			return
		}

		if k < len(menu) {
			setText(n, menu[k].Label)
			setAttr(n, "href", menu[k].Href)
		} else {
			hide(n)
			setAttr(n, "href", "#")
		}
		k++
	})
}

// headings assigns text by position: the first h1 is the hero headline
// and later h1s the business name, h2s cycle through section titles and
// h3 and smaller cycle through feature titles.
func (inj *injector) headings() {
	sections := []string{
		inj.spec.Hero.Headline,
		inj.spec.About.Title,
		"Our Services",
		"Get In Touch",
		"What Our Clients Say",
	}
	features := inj.featureTitles()

	var h1, h2, h3, minor int
	inj.each("h1, h2, h3, h4, h5, h6", func(n *html.Node, _ *goquery.Selection) {
		var text string
		switch n.DataAtom {
		case atom.H1:
			text = inj.spec.BusinessName
			if h1 == 0 {
				text = inj.spec.Hero.Headline
			}
			h1++
		case atom.H2:
			text = sections[h2%len(sections)]
			h2++
		case atom.H3:
			text = cycle(features, h3)
			h3++
		default:
			text = cycle(features, minor)
			minor++
		}
		if text != "" {
			setText(n, text)
		}
	})
}

// featureTitles lists feature titles, falling back to the business name.
func (inj *injector) featureTitles() []string {
	titles := make([]string, 0, len(inj.spec.Features))
	for _, f := range inj.spec.Features {
		titles = append(titles, f.Title)
	}
	if len(titles) == 0 {
		titles = append(titles, inj.spec.BusinessName)
	}
	return titles
}

// cycle returns list[i] wrapping around the end of list.
func cycle(list []string, i int) string {
	if len(list) == 0 {
		return ""
	}
	return list[i%len(list)]
}

// testimonials fills blockquotes with customer quotes and attributions.
func (inj *injector) testimonials() {
	quotes := inj.spec.Testimonials
	if len(quotes) == 0 {
		return
	}
	i := 0
	inj.each("blockquote", func(n *html.Node, s *goquery.Selection) {
		if isHidden(n) {
			return
		}
		t := quotes[i%len(quotes)]
		i++

		attribution := t.Author
		if t.Role != "" {
			attribution += ", " + t.Role
		}
		cite := s.Find("cite, footer").First()
		if cite.Length() > 0 {
			setText(cite.Get(0), attribution)
		}

		p := s.Find("p").First()
		switch {
		case p.Length() > 0:
			setText(p.Get(0), t.Quote)
		case cite.Length() == 0:
			setText(n, t.Quote)
		}
	})
}

// paragraphs cycles through the content pool. Empty paragraphs and those
// holding only images or interactive children are left untouched.
func (inj *injector) paragraphs() {
	pool := []string{inj.spec.Hero.Subtitle, inj.spec.About.Body}
	for _, f := range inj.spec.Features {
		pool = append(pool, f.Description)
	}
	pool = append(pool, inj.spec.Tagline)
	pool = append(pool, content.Filler(inj.spec.BusinessName)...)

	i := 0
	inj.each("p", func(n *html.Node, s *goquery.Selection) {
		if isHidden(n) || within(n, func(p *html.Node) bool { return p.DataAtom == atom.Blockquote }) {
			return
		}
		text := textOf(s)
		if text == "" || strings.HasPrefix(text, "©") || onlyInteractive(n) || contactKind(n, text) != contactNone {
			return
		}
		setText(n, cycle(pool, i))
		i++
	})
}

// contact fills email, phone and address slots with the contact details.
func (inj *injector) contact() {
	c := inj.spec.Contact
	inj.each("li, address, p, span, a", func(n *html.Node, s *goquery.Selection) {
		if isHidden(n) || hasBlockDescendant(n) || within(n, inj.isNavContainer) {
			return
		}
		kind := contactKind(n, textOf(s))
		if kind != contactNone {
			setAttr(n, attrContact, contactNames[kind])
		}
		switch kind {
		case contactEmail:
			setText(n, c.Email)
			mailto := s.Find(`a[href^="mailto:"]`).AddSelection(s.Filter("a"))
			mailto.SetAttr("href", "mailto:"+c.Email)
		case contactPhone:
			setText(n, c.Phone)
			tel := s.Find(`a[href^="tel:"]`).AddSelection(s.Filter("a"))
			tel.SetAttr("href", "tel:"+strings.Join(strings.Fields(c.Phone), ""))
		case contactAddress:
			setText(n, c.Address)
		}
	})
}

type contactSlot int

const (
	contactNone contactSlot = iota
	contactEmail
	contactPhone
	contactAddress
)

var contactNames = map[contactSlot]string{
	contactEmail:   "email",
	contactPhone:   "phone",
	contactAddress: "address",
}

// contactKind classifies a leaf element as a contact detail, by an
// earlier marker or else by its text.
func contactKind(n *html.Node, text string) contactSlot {
	if marked := attr(n, attrContact); marked != "" {
		for slot, name := range contactNames {
			if name == marked {
				return slot
			}
		}
	}
	text = strings.ToLower(text)
	class := idClass(n)
	switch {
	case text == "":
		return contactNone
	case emailRe.MatchString(text):
		return contactEmail
	case phoneRe.MatchString(text):
		return contactPhone
	case addressRe.MatchString(text), n.DataAtom == atom.Address,
		strings.Contains(class, "address"), strings.Contains(class, "fa-home"), strings.Contains(class, "fa-map"):
		return contactAddress
	}
	return contactNone
}

// listItems swaps placeholder list entries outside navigation for
// feature titles. Structural items are never removed.
func (inj *injector) listItems() {
	features := inj.featureTitles()
	k := 0
	inj.each("li", func(n *html.Node, s *goquery.Selection) {
		if !inj.isFiller(n, s) {
			return
		}
		setText(n, cycle(features, k))
		k++
	})
}

// leftovers rewrites placeholder text in the remaining leaf elements.
// Links and buttons take the call-to-action label; everything else takes
// the next line of the filler pool.
func (inj *injector) leftovers() {
	pool := append([]string{inj.spec.Tagline}, content.Filler(inj.spec.BusinessName)...)
	i := 0
	inj.each("span, div, td, dd, dt, figcaption, label, small, pre, code, a, button", func(n *html.Node, s *goquery.Selection) {
		if !inj.isFiller(n, s) || wrapsControl(n) {
			return
		}
		switch n.DataAtom {
		case atom.A, atom.Button:
			setText(n, inj.spec.Hero.CTALabel)
		default:
			setText(n, cycle(pool, i))
			i++
		}
	})
}

// isFiller reports whether a visible leaf outside navigation holds
// template placeholder text.
func (inj *injector) isFiller(n *html.Node, s *goquery.Selection) bool {
	if isHidden(n) || hasBlockDescendant(n) || within(n, inj.isNavContainer) {
		return false
	}
	text := textOf(s)
	return contactKind(n, text) == contactNone && containsAny(strings.ToLower(text), inj.vocab.FillerWords)
}

// buttons relabels template call-to-action placeholders.
func (inj *injector) buttons() {
	cta := inj.spec.Hero.CTALabel
	inj.each("button, input, a", func(n *html.Node, s *goquery.Selection) {
		if isHidden(n) {
			return
		}
		if n.DataAtom == atom.Input {
			switch strings.ToLower(attr(n, "type")) {
			case "submit", "button":
				if containsAny(strings.ToLower(attr(n, "value")), inj.vocab.CTAPlaceholders) {
					setAttr(n, "value", cta)
				}
			}
			return
		}
		if n.DataAtom == atom.A && !isButtonLike(n) {
			return
		}
		if containsAny(strings.ToLower(textOf(s)), inj.vocab.CTAPlaceholders) {
			setText(n, cta)
		}
	})
}

// links hides vendor credit links and points template-internal pages and
// form actions at in-page targets so nothing 404s once published.
func (inj *injector) links() {
	home := "#"
	if len(inj.vocab.Menu) > 0 {
		home = inj.vocab.Menu[0].Href
	}
	inj.body.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		n := s.Get(0)
		href := strings.ToLower(strings.TrimSpace(attr(n, "href")))

		if containsAny(href, inj.vocab.VendorHosts) {
			clearChildren(n)
			hide(n)
			return
		}
		if !isLocalRef(href) {
			return
		}
		if isIndexLink(href, "") {
			setAttr(n, "href", home)
			return
		}
		setAttr(n, "href", "#")
	})
	inj.body.Find("form[action]").Each(func(_ int, s *goquery.Selection) {
		n := s.Get(0)
		if isLocalRef(attr(n, "action")) {
			setAttr(n, "action", "#")
		}
	})
}

// markHero tags the first container whose id or class matches a hero
// marker, trying markers in priority order.
func (inj *injector) markHero() {
	var hero *html.Node
	candidates := inj.body.Find("section, div, header, article, main, aside, figure")
	for _, marker := range inj.vocab.HeroMarkers {
		found := candidates.FilterFunction(func(_ int, s *goquery.Selection) bool {
			return markerMatch(s.Get(0), []string{marker})
		}).First()
		if found.Length() > 0 {
			hero = found.Get(0)
			setAttr(hero, attrHero, "")
			break
		}
	}
	clearMarker(inj.doc, attrHero, hero)
}

// clearMarker removes a marker attribute from every element except keep.
// The kept element's attribute stays where it is so re-runs are stable.
func clearMarker(doc *goquery.Document, key string, keep *html.Node) {
	doc.Find("[" + key + "]").Each(func(_ int, s *goquery.Selection) {
		if n := s.Get(0); n != keep {
			removeAttr(n, key)
		}
	})
}

// imageAlts sets alt text on content image placeholders, in the same
// order substituteImages assigns their sources.
func (inj *injector) imageAlts() {
	i := 0
	inj.body.Find("img[src]").Each(func(_ int, s *goquery.Selection) {
		n := s.Get(0)
		if !isLocalRef(attr(n, "src")) {
			return
		}
		alt := inj.spec.BusinessName
		if asset, ok := contentImage(i, inj.images); ok && asset.AltText != "" {
			alt = asset.AltText
		}
		setAttr(n, "alt", alt)
		i++
	})
	slog.Debug("content images placed", "count", i, "assets", len(inj.images))
}

// markerMatch reports whether any id/class token of n starts with one of
// the markers. Tokens split on spaces, hyphens and underscores.
func markerMatch(n *html.Node, markers []string) bool {
	tokens := strings.FieldsFunc(idClass(n), func(r rune) bool {
		return r == ' ' || r == '-' || r == '_'
	})
	for _, tok := range tokens {
		for _, m := range markers {
			if m != "" && strings.HasPrefix(tok, strings.ToLower(m)) {
				return true
			}
		}
	}
	return false
}

// isButtonLike reports whether an anchor is styled as a button.
func isButtonLike(n *html.Node) bool {
	class := strings.ToLower(attr(n, "class"))
	return strings.Contains(class, "button") || strings.Contains(class, "btn") ||
		strings.Contains(class, "cta") || strings.EqualFold(attr(n, "role"), "button")
}

// isInternalPage reports whether href points at a template page other
// than the index.
func isInternalPage(href string) bool {
	if !isLocalRef(href) {
		return false
	}
	path, _, _ := strings.Cut(href, "#")
	path, _, _ = strings.Cut(path, "?")
	return (strings.HasSuffix(path, ".html") || strings.HasSuffix(path, ".htm")) && !isIndexLink(path, "")
}

// isIndexLink reports whether href (or a "home" label) targets the index.
func isIndexLink(href, text string) bool {
	path, _, _ := strings.Cut(href, "#")
	switch strings.TrimPrefix(path, "./") {
	case "index.html", "index.htm", "/":
		return true
	}
	return path == "./" || text == "home"
}

// isMenuLabel reports whether text is already one of the menu labels.
func isMenuLabel(text string, menu []MenuItem) bool {
	for _, m := range menu {
		if strings.EqualFold(text, m.Label) {
			return true
		}
	}
	return false
}

// onlyInteractive reports whether every meaningful child of n is a link,
// button or form control, so replacing its text would break it.
func onlyInteractive(n *html.Node) bool {
	kids := meaningful(n)
	if len(kids) == 0 {
		return false
	}
	for _, c := range kids {
		if c.Type != html.ElementNode {
			return false
		}
		switch c.DataAtom {
		case atom.A, atom.Button, atom.Input, atom.Select, atom.Textarea, atom.Form:
		default:
			return false
		}
	}
	return true
}

// wrapsControl reports whether n holds only interactive children and at
// least one of them is a button or form control. The control is
// rewritten on its own.
func wrapsControl(n *html.Node) bool {
	if !onlyInteractive(n) {
		return false
	}
	for _, c := range meaningful(n) {
		if c.DataAtom != atom.A {
			return true
		}
	}
	return false
}

// hasBlockDescendant reports whether n contains a block-level element.
func hasBlockDescendant(n *html.Node) bool {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && (blockElements[c.DataAtom] || hasBlockDescendant(c)) {
			return true
		}
	}
	return false
}

// clearChildren removes every child of n.
func clearChildren(n *html.Node) {
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		n.RemoveChild(c)
		c = next
	}
}

// removeComments drops comment nodes, which in third-party templates
// mostly carry vendor notices.
func removeComments(n *html.Node) {
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		if c.Type == html.CommentNode {
			n.RemoveChild(c)
		} else {
			removeComments(c)
		}
		c = next
	}
}
