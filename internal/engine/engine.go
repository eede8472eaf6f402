// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package engine rewrites third-party HTML templates into finished
// business sites. The pipeline is Strip, then Inject, then Restyle; each
// stage is a pure function of its input and can be re-applied to its own
// output without changing it.
//
// Anything that must respect nesting (headings, paragraphs, navigation,
// buttons) is rewritten on the parsed tree. Attribute values that cannot
// corrupt nesting (image src, inline background styles) are rewritten on
// the serialized string afterwards.
//
// The package also extracts addressable editable elements and colors from
// generated documents and applies point edits back into them.
package engine

import (
	"errors"

	"pagesmith/internal/models"
)

var (
	// ErrMalformedTemplate means the template lacks the structure the
	// injector needs (a <body> and at least one heading).
	ErrMalformedTemplate = errors.New("malformed template")
	// ErrSelectorNotFound means an edit targeted no element or several.
	ErrSelectorNotFound = errors.New("selector not found")
	// ErrColorNotFound means the named color is not in the document.
	ErrColorNotFound = errors.New("color not found")
	// ErrInvalidColor means a replacement color is not a CSS color value.
	ErrInvalidColor = errors.New("invalid color value")
	// ErrIncompleteMarkup means free-form markup is truncated or not a document.
	ErrIncompleteMarkup = errors.New("incomplete markup")
)

// Marker attributes written into generated documents.
const (
	attrHero     = "data-ps-hero"
	attrBrand    = "data-ps-brand"
	attrStyle    = "data-ps-style"
	attrContact  = "data-ps-contact"
	attrEditable = "data-editable-id"
)

// Input is everything Inject places into a template.
type Input struct {
	Content models.ContentSpec
	Images  []models.ImageAsset
	Vocab   Vocabulary
}

// contentImage returns the asset for the i-th content image placeholder.
// Index 0 is reserved for the hero, so placeholders cycle through the rest
// and fall back to the hero asset when it is the only one.
func contentImage(i int, images []models.ImageAsset) (models.ImageAsset, bool) {
	switch len(images) {
	case 0:
		return models.ImageAsset{}, false
	case 1:
		return images[0], true
	}
	return images[1+i%(len(images)-1)], true
}
