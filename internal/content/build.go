// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package content turns the loosely shaped content object returned by the
// generation service into a complete models.ContentSpec, and builds the
// prompts that ask for it.
package content

import (
	"fmt"
	"strings"

	"github.com/mrz1836/go-sanitize"

	"pagesmith/internal/models"
	"pagesmith/internal/slug"
)

// DefaultBusinessName is used when the response names no business.
const DefaultBusinessName = "Your Business"

// DefaultCTALabel is the call-to-action used when none is provided.
const DefaultCTALabel = "Get Started"

// Build normalizes raw into a ContentSpec in which every text field is
// non-empty. It never fails: missing data degrades to filler tied to the
// business name.
func Build(raw Raw) models.ContentSpec {
	name := first(raw.BusinessName, raw.Name, DefaultBusinessName)

	tagline := first(raw.Tagline, raw.Hero.Subtitle, raw.Hero.Subheadline,
		fmt.Sprintf("Quality you can trust from %s.", name))

	spec := models.ContentSpec{
		BusinessName: name,
		Tagline:      tagline,
		Hero: models.Hero{
			Headline: first(raw.Hero.Headline, raw.Hero.Title, "Welcome to "+name),
			Subtitle: first(raw.Hero.Subtitle, raw.Hero.Subheadline, tagline),
			CTALabel: first(raw.Hero.CTALabel, raw.Hero.CTA, raw.Hero.CTAText, DefaultCTALabel),
		},
		About: models.About{
			Title: first(raw.About.Title, raw.About.Heading, "About "+name),
			Body:  first(raw.About.Body, raw.About.Text, raw.About.Content, Filler(name)[0]),
		},
		Contact: buildContact(raw.Contact, name),
		LogoURL: strings.TrimSpace(raw.LogoURL),
	}

	features := raw.Features
	if len(features) == 0 {
		features = raw.Services
	}
	spec.Features = buildFeatures(features, name)

	testimonials := raw.Testimonials
	if len(testimonials) == 0 {
		testimonials = raw.Reviews
	}
	spec.Testimonials = buildTestimonials(testimonials, name)

	return spec
}

// Filler returns generic sentences tied to the business name. The first
// sentence doubles as the default about body.
func Filler(name string) []string {
	return []string{
		fmt.Sprintf("%s is committed to providing exceptional service.", name),
		fmt.Sprintf("At %s, quality and care come first in everything we do.", name),
		fmt.Sprintf("Contact %s today to find out how we can help.", name),
	}
}

func defaultFeatures(name string) []models.Feature {
	return []models.Feature{
		{Title: "Quality Service", Description: fmt.Sprintf("%s delivers reliable, professional service every time.", name), IconHint: "star"},
		{Title: "Experienced Team", Description: fmt.Sprintf("The team at %s brings years of hands-on experience.", name), IconHint: "users"},
		{Title: "Customer Focus", Description: fmt.Sprintf("At %s, every decision starts with what our customers need.", name), IconHint: "heart"},
	}
}

func defaultTestimonials(name string) []models.Testimonial {
	return []models.Testimonial{
		{Quote: fmt.Sprintf("Working with %s was a fantastic experience from start to finish.", name), Author: "Satisfied Customer", Role: "Client"},
		{Quote: fmt.Sprintf("%s exceeded our expectations. Highly recommended!", name), Author: "Happy Client", Role: "Customer"},
	}
}

func buildFeatures(raw []RawFeature, name string) []models.Feature {
	defaults := defaultFeatures(name)

	var out []models.Feature
	for _, f := range raw {
		title := first(f.Title, f.Name)
		desc := first(f.Description, f.Text)
		if title == "" && desc == "" {
			continue
		}
		d := defaults[len(out)%len(defaults)]
		if title == "" {
			title = d.Title
		}
		if desc == "" {
			desc = fmt.Sprintf("%s from %s, delivered with care.", title, name)
		}
		out = append(out, models.Feature{
			Title:       title,
			Description: desc,
			IconHint:    first(f.IconHint, f.Icon, d.IconHint),
		})
	}
	if len(out) == 0 {
		return defaults
	}
	return out
}

func buildTestimonials(raw []RawTestimonial, name string) []models.Testimonial {
	defaults := defaultTestimonials(name)

	var out []models.Testimonial
	for _, t := range raw {
		quote := first(t.Quote, t.Text)
		if quote == "" {
			continue
		}
		out = append(out, models.Testimonial{
			Quote:  quote,
			Author: first(t.Author, t.Name, "Valued Customer"),
			Role:   first(t.Role, t.Position, "Customer"),
		})
	}
	if len(out) == 0 {
		return defaults
	}
	return out
}

func buildContact(raw RawContact, name string) models.Contact {
	email := "hello@example.com"
	if s := slug.Generate(name); s != "" {
		email = "hello@" + strings.ReplaceAll(s, "-", "") + ".com"
	}
	return models.Contact{
		Address: first(raw.Address, "123 Main Street"),
		Phone:   first(raw.Phone, "(555) 123-4567"),
		Email:   first(raw.Email, email),
	}
}

// first returns the first candidate that is non-empty once markup and
// surrounding whitespace are removed.
func first(candidates ...string) string {
	for _, c := range candidates {
		if t := clean(c); t != "" {
			return t
		}
	}
	return ""
}

// clean strips tags and collapses whitespace.
func clean(s string) string {
	if strings.ContainsRune(s, '<') {
		s = sanitize.HTML(s)
	}
	return strings.Join(strings.Fields(s), " ")
}
