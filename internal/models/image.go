// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

// ImageRole is the intended placement of an image asset.
type ImageRole string

const (
	ImageRoleHero    ImageRole = "hero"
	ImageRoleFeature ImageRole = "feature"
	ImageRoleGallery ImageRole = "gallery"
	ImageRoleLogo    ImageRole = "logo"
)

// ImageAsset is an image ready for placement. Slices of assets are ordered
// by placement priority; index 0 is always the hero candidate.
type ImageAsset struct {
	Role        ImageRole `json:"role"`
	URL         string    `json:"url"`
	AltText     string    `json:"alt"`
	Attribution string    `json:"attribution,omitempty"`
}

// UploadedFile describes an object stored through the image service.
type UploadedFile struct {
	URL      string `json:"url"`
	FileName string `json:"fileName"`
	FileSize int64  `json:"fileSize"`
}

// ColorPalette is the user's chosen brand colors as hex or rgb strings.
// The optional slots apply only to templates exposing CSS custom properties.
type ColorPalette struct {
	Primary    string `json:"primary"`
	Secondary  string `json:"secondary"`
	Accent     string `json:"accent,omitempty"`
	Background string `json:"background,omitempty"`
	Text       string `json:"text,omitempty"`
}

// IsZero reports whether no color was chosen.
func (p ColorPalette) IsZero() bool {
	return p == ColorPalette{}
}
