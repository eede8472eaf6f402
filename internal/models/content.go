// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

// ContentSpec is the normalized content injected into a template. Every
// text field is non-empty once it has passed through content.Build.
type ContentSpec struct {
	BusinessName string        `json:"businessName"`
	Tagline      string        `json:"tagline"`
	Hero         Hero          `json:"hero"`
	About        About         `json:"about"`
	Features     []Feature     `json:"features"`
	Testimonials []Testimonial `json:"testimonials"`
	Contact      Contact       `json:"contact"`
	LogoURL      string        `json:"logoUrl,omitempty"`
}

// Hero is the above-the-fold block.
type Hero struct {
	Headline string `json:"headline"`
	Subtitle string `json:"subtitle"`
	CTALabel string `json:"ctaLabel"`
}

// About is the company description block.
type About struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// Feature is one service or product highlight.
type Feature struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	IconHint    string `json:"iconHint"`
}

// Testimonial is a customer quote.
type Testimonial struct {
	Quote  string `json:"quote"`
	Author string `json:"author"`
	Role   string `json:"role"`
}

// Contact holds the business's public contact details.
type Contact struct {
	Address string `json:"address"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
}
