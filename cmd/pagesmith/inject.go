// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"pagesmith/internal/content"
	"pagesmith/internal/engine"
	"pagesmith/internal/generator"
	"pagesmith/internal/models"
)

var injectCmd = &cobra.Command{
	Use:   "inject",
	Short: "Fill a catalog template with a content file, without AI or a database",
	Long: `Inject runs the template pipeline offline: it strips the template,
injects the content object read from --content (JSON, "-" for stdin) and
applies the palette. The page is written to --out, or stdout.`,
	Args: cobra.NoArgs,
	RunE: runInject,
}

var injectOpts struct {
	templateID   string
	templatesDir string
	contentPath  string
	primary      string
	secondary    string
	out          string
}

func init() {
	f := injectCmd.Flags()
	f.StringVar(&injectOpts.templateID, "template", "", "catalog template id")
	f.StringVar(&injectOpts.templatesDir, "templates-dir", "", "catalog directory (defaults to the embedded catalog)")
	f.StringVar(&injectOpts.contentPath, "content", "", "content JSON file, or - for stdin")
	f.StringVar(&injectOpts.primary, "primary", "", "primary brand color")
	f.StringVar(&injectOpts.secondary, "secondary", "", "secondary brand color")
	f.StringVarP(&injectOpts.out, "out", "o", "", "output file (defaults to stdout)")
	_ = injectCmd.MarkFlagRequired("template")
	_ = injectCmd.MarkFlagRequired("content")
}

func runInject(cmd *cobra.Command, args []string) error {
	raw, err := readInput(cmd.InOrStdin(), injectOpts.contentPath)
	if err != nil {
		return err
	}
	parsed, err := content.ParseResponse(string(raw))
	if err != nil {
		return err
	}

	templates, err := openCatalog(injectOpts.templatesDir)
	if err != nil {
		return err
	}

	palette := models.ColorPalette{Primary: injectOpts.primary, Secondary: injectOpts.secondary}
	for _, c := range []string{palette.Primary, palette.Secondary} {
		if c != "" && !engine.IsColor(c) {
			return fmt.Errorf("%q is not a color value", c)
		}
	}

	in := engine.Input{Content: content.Build(parsed)}
	doc, err := generator.Fill(templates, injectOpts.templateID, in, palette)
	if err != nil {
		return err
	}

	if injectOpts.out == "" {
		_, err = io.WriteString(cmd.OutOrStdout(), doc)
		return err
	}
	if err := os.WriteFile(injectOpts.out, []byte(doc), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", injectOpts.out, err)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s (%d bytes)\n", injectOpts.out, len(doc))
	return nil
}

func readInput(stdin io.Reader, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(stdin)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read content: %w", err)
	}
	return data, nil
}
