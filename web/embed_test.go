package web_test

import (
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"pagesmith/internal/catalog"
	"pagesmith/internal/content"
	"pagesmith/internal/engine"
	"pagesmith/internal/generator"
	"pagesmith/internal/models"
	"pagesmith/web"
)

func TestEmbeddedCatalogLoads(t *testing.T) {
	store, err := catalog.New(web.Templates(), catalog.WithRand(rand.New(rand.NewPCG(7, 7))))
	if err != nil {
		t.Fatalf("catalog.New: %v", err)
	}
	if len(store.Templates()) == 0 {
		t.Fatal("embedded catalog is empty")
	}

	for _, tmpl := range store.Templates() {
		t.Run(tmpl.ID, func(t *testing.T) {
			if tmpl.SourcePath == "" || tmpl.StylePath == "" {
				t.Fatalf("paths not discovered: %+v", tmpl)
			}
			if _, err := store.Load(tmpl.ID); err != nil {
				t.Fatalf("Load: %v", err)
			}
		})
	}
}

// Every built-in template must survive strip, inject and restyle.
func TestEmbeddedTemplatesGenerate(t *testing.T) {
	store, err := catalog.New(web.Templates())
	if err != nil {
		t.Fatalf("catalog.New: %v", err)
	}

	spec := content.Build(content.Raw{BusinessName: "Harbor Light Bakery"})
	palette := models.ColorPalette{Primary: "#123456", Secondary: "#654321"}

	for _, tmpl := range store.Templates() {
		t.Run(tmpl.ID, func(t *testing.T) {
			doc, err := generator.Fill(store, tmpl.ID, engine.Input{Content: spec}, palette)
			if err != nil {
				t.Fatalf("Fill: %v", err)
			}

			if !strings.Contains(doc, "Harbor Light Bakery") {
				t.Error("business name missing from output")
			}
			if !strings.Contains(doc, "#123456") {
				t.Error("primary color not applied")
			}
			if strings.Contains(doc, `.html"`) {
				t.Error("output still links to template pages")
			}

			text := visibleText(t, doc)
			for _, artifact := range []string{"lorem", "ipsum", "untitled", "html5 up", "company name", "start bootstrap"} {
				if strings.Contains(strings.ToLower(text), artifact) {
					t.Errorf("visible text still contains %q", artifact)
				}
			}
			if !strings.Contains(text, "© Harbor Light Bakery. All rights reserved.") {
				t.Error("no visible copyright line")
			}

			again, err := generator.Fill(store, tmpl.ID, engine.Input{Content: spec}, palette)
			if err != nil {
				t.Fatalf("second Fill: %v", err)
			}
			if again != doc {
				t.Error("two fills of the same template differ")
			}
		})
	}
}

// visibleText returns the body text of doc, skipping display:none
// subtrees and scripts.
func visibleText(t *testing.T, doc string) string {
	t.Helper()
	parsed, err := goquery.NewDocumentFromReader(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("parse output: %v", err)
	}
	body := parsed.Find("body").First()
	if body.Length() == 0 {
		t.Fatal("output has no body")
	}

	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data + " ")
			return
		}
		if n.Type == html.ElementNode {
			style, _ := goquery.NewDocumentFromNode(n).Attr("style")
			hidden := strings.Contains(strings.ReplaceAll(strings.ToLower(style), " ", ""), "display:none")
			if hidden || n.DataAtom == atom.Script || n.DataAtom == atom.Style {
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(body.Get(0))
	return strings.Join(strings.Fields(sb.String()), " ")
}
