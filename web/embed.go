// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package web embeds the built-in template catalog. Deployments that keep
// their templates on disk set TEMPLATES_DIR instead.
package web

import (
	"embed"
	"io/fs"
)

// TemplatesFS embeds the web/templates/ tree: catalog.yaml plus one
// directory per template.
//
//go:embed all:templates
var TemplatesFS embed.FS

// Templates returns the embedded catalog rooted at the templates directory.
func Templates() fs.FS {
	sub, err := fs.Sub(TemplatesFS, "templates")
	if err != nil {
		// fs.Sub only fails on an invalid path.
		panic(err)
	}
	return sub
}
