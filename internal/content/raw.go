// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package content

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrNoContent is returned when a response holds no JSON object.
var ErrNoContent = errors.New("content: response contains no JSON object")

// Raw is the content object as returned by the generation service. Field
// names vary between models and prompt revisions, so several aliases are
// accepted for each slot.
type Raw struct {
	BusinessName string           `json:"businessName"`
	Name         string           `json:"name"`
	Tagline      string           `json:"tagline"`
	Hero         RawHero          `json:"hero"`
	About        RawAbout         `json:"about"`
	Features     []RawFeature     `json:"features"`
	Services     []RawFeature     `json:"services"`
	Testimonials []RawTestimonial `json:"testimonials"`
	Reviews      []RawTestimonial `json:"reviews"`
	Contact      RawContact       `json:"contact"`
	LogoURL      string           `json:"logoUrl"`
}

// RawHero accepts either an object or a bare headline string.
type RawHero struct {
	Headline    string `json:"headline"`
	Title       string `json:"title"`
	Subtitle    string `json:"subtitle"`
	Subheadline string `json:"subheadline"`
	CTALabel    string `json:"ctaLabel"`
	CTA         string `json:"cta"`
	CTAText     string `json:"ctaText"`
}

// UnmarshalJSON implements json.Unmarshaler.
func (h *RawHero) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*h = RawHero{Headline: s}
		return nil
	}
	type plain RawHero
	return json.Unmarshal(data, (*plain)(h))
}

// RawAbout accepts either an object or a bare body string.
type RawAbout struct {
	Title   string `json:"title"`
	Heading string `json:"heading"`
	Body    string `json:"body"`
	Text    string `json:"text"`
	Content string `json:"content"`
}

// UnmarshalJSON implements json.Unmarshaler.
func (a *RawAbout) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*a = RawAbout{Body: s}
		return nil
	}
	type plain RawAbout
	return json.Unmarshal(data, (*plain)(a))
}

// RawFeature accepts either an object or a bare title string.
type RawFeature struct {
	Title       string `json:"title"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Text        string `json:"text"`
	IconHint    string `json:"iconHint"`
	Icon        string `json:"icon"`
}

// UnmarshalJSON implements json.Unmarshaler.
func (f *RawFeature) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = RawFeature{Title: s}
		return nil
	}
	type plain RawFeature
	return json.Unmarshal(data, (*plain)(f))
}

// RawTestimonial is one customer quote.
type RawTestimonial struct {
	Quote    string `json:"quote"`
	Text     string `json:"text"`
	Author   string `json:"author"`
	Name     string `json:"name"`
	Role     string `json:"role"`
	Position string `json:"position"`
}

// RawContact holds contact details.
type RawContact struct {
	Address string `json:"address"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
}

// ParseResponse extracts the content object from a model response. It
// tolerates markdown code fences and chatter around the outermost braces.
func ParseResponse(response string) (Raw, error) {
	response = stripFences(response)

	start := strings.Index(response, "{")
	end := strings.LastIndex(response, "}")
	if start == -1 || end <= start {
		return Raw{}, ErrNoContent
	}

	var raw Raw
	if err := json.Unmarshal([]byte(response[start:end+1]), &raw); err != nil {
		return Raw{}, fmt.Errorf("content unmarshal: %w", err)
	}
	return raw, nil
}

// stripFences removes a surrounding ```json ... ``` block if present.
func stripFences(s string) string {
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
