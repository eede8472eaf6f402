// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package engine

import "strings"

// MenuItem is one entry of the menu vocabulary that template navigation
// links are reassigned to.
type MenuItem struct {
	Label string `yaml:"label"`
	Href  string `yaml:"href"`
}

// BrandColors lists the literal colors a template family uses for its
// primary and secondary brand slots.
type BrandColors struct {
	Primary   []string `yaml:"primary"`
	Secondary []string `yaml:"secondary"`
}

// Vocabulary holds the matching heuristics for one template family. All
// matching is case-insensitive substring matching unless noted.
type Vocabulary struct {
	// Menu is the fixed menu vocabulary, assigned to nav links in order.
	Menu []MenuItem `yaml:"menu"`
	// NavMarkers identify nav-like containers by id or class.
	NavMarkers []string `yaml:"nav_markers"`
	// NavArtifacts identify placeholder nav labels.
	NavArtifacts []string `yaml:"nav_artifacts"`
	// AuthLabels identify log in / sign up links, which are hidden.
	AuthLabels []string `yaml:"auth_labels"`
	// CTAPlaceholders identify button labels to replace with the CTA.
	CTAPlaceholders []string `yaml:"cta_placeholders"`
	// CreditMarkers identify template-vendor credit text.
	CreditMarkers []string `yaml:"credit_markers"`
	// VendorHosts identify links back to the template vendor.
	VendorHosts []string `yaml:"vendor_hosts"`
	// FillerWords identify placeholder text.
	FillerWords []string `yaml:"filler_words"`
	// HeroMarkers identify the hero container by id or class, in priority order.
	HeroMarkers []string `yaml:"hero_markers"`
	// LogoSelectors locate the brand element, in priority order.
	LogoSelectors []string `yaml:"logo_selectors"`
	// StripSelectors locate marketing sections removed before injection.
	StripSelectors []string `yaml:"strip_selectors"`
	// IconFonts identify icon-font stylesheet links by href.
	IconFonts []string `yaml:"icon_fonts"`
	// BrandColors are the family's literal brand colors.
	BrandColors BrandColors `yaml:"brand_colors"`
}

// DefaultVocabulary returns the vocabulary tuned on the HTML5 UP family,
// which also serves as the fallback for unknown families.
func DefaultVocabulary() Vocabulary {
	return Vocabulary{
		Menu: []MenuItem{
			{Label: "Home", Href: "#home"},
			{Label: "About", Href: "#about"},
			{Label: "Services", Href: "#services"},
			{Label: "Contact", Href: "#contact"},
		},
		NavMarkers:      []string{"nav", "menu"},
		NavArtifacts:    []string{"generic", "elements", "dropdown", "landing", "sidebar", "layout", "submenu", "lorem", "ipsum", "dolor", "magna", "phasellus", "etiam", "consequat", "veroeros", "feugiat"},
		AuthLabels:      []string{"log in", "login", "sign in", "signin", "sign up", "signup", "register", "log out"},
		CTAPlaceholders: []string{"activate", "get started", "learn more", "read more", "find out more", "more info", "details", "discover", "go somewhere"},
		CreditMarkers:   []string{"html5 up", "html5up", "design:", "templated", "pixelarity", "images: unsplash", "demo images"},
		VendorHosts:     []string{"html5up.net", "templated.co", "pixelarity.com", "twitter.com/ajlkn"},
		FillerWords:     []string{"lorem", "ipsum", "dolor sit", "consequat", "phasellus", "feugiat", "sed magna", "etiam", "veroeros", "tempus", "untitled"},
		HeroMarkers:     []string{"hero", "banner", "intro", "header"},
		LogoSelectors:   []string{".logo", "#logo", ".brand", ".navbar-brand", ".site-title", "h1 > a"},
		StripSelectors:  []string{"#signup-form", "#signup", ".signup", "#newsletter", ".newsletter", "#subscribe", ".subscribe", "ul.icons", ".social", "#social", "#cta-signup"},
		IconFonts:       []string{"font-awesome", "fontawesome", "icomoon", "/icons", "ionicons", "material-icons"},
		BrandColors: BrandColors{
			Primary:   []string{"#f56a6a", "#e44c65", "#5e42a6", "#ef8376", "#4acaa8", "#98c593", "#8cc9f0"},
			Secondary: []string{"#b74e91", "#8d82c4", "#5052b5", "#ec8d81", "#f2849e", "#7ecaf6", "#e37682"},
		},
	}
}

// Merge returns v with every non-empty field of override applied on top.
func (v Vocabulary) Merge(override Vocabulary) Vocabulary {
	if len(override.Menu) > 0 {
		v.Menu = override.Menu
	}
	pick := func(dst *[]string, src []string) {
		if len(src) > 0 {
			*dst = src
		}
	}
	pick(&v.NavMarkers, override.NavMarkers)
	pick(&v.NavArtifacts, override.NavArtifacts)
	pick(&v.AuthLabels, override.AuthLabels)
	pick(&v.CTAPlaceholders, override.CTAPlaceholders)
	pick(&v.CreditMarkers, override.CreditMarkers)
	pick(&v.VendorHosts, override.VendorHosts)
	pick(&v.FillerWords, override.FillerWords)
	pick(&v.HeroMarkers, override.HeroMarkers)
	pick(&v.LogoSelectors, override.LogoSelectors)
	pick(&v.StripSelectors, override.StripSelectors)
	pick(&v.IconFonts, override.IconFonts)
	pick(&v.BrandColors.Primary, override.BrandColors.Primary)
	pick(&v.BrandColors.Secondary, override.BrandColors.Secondary)
	return v
}

// isZero reports whether no field of v is set.
func (v Vocabulary) isZero() bool {
	return len(v.Menu) == 0 && len(v.NavMarkers) == 0 && len(v.NavArtifacts) == 0 &&
		len(v.AuthLabels) == 0 && len(v.CTAPlaceholders) == 0 && len(v.CreditMarkers) == 0 &&
		len(v.LogoSelectors) == 0 && len(v.HeroMarkers) == 0 && len(v.StripSelectors) == 0
}

// orDefault returns v, or the default vocabulary when v is empty.
func (v Vocabulary) orDefault() Vocabulary {
	if v.isZero() {
		return DefaultVocabulary()
	}
	return v
}

// containsAny reports whether s contains any of the needles, ignoring case.
// s is expected to be lowercase already.
func containsAny(s string, needles []string) bool {
	for _, n := range needles {
		if n != "" && strings.Contains(s, strings.ToLower(n)) {
			return true
		}
	}
	return false
}
