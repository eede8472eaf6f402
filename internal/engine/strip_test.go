package engine

import (
	"strings"
	"testing"
)

func TestStrip(t *testing.T) {
	out, err := Strip(readFixture(t, "hyperspace.html"), DefaultVocabulary())
	if err != nil {
		t.Fatalf("Strip: %v", err)
	}
	doc := mustDoc(t, out)

	tests := []struct {
		name     string
		selector string
		want     int
	}{
		{"local scripts removed", `script[src^="assets/"]`, 0},
		{"remote scripts kept", `script[src^="https://"]`, 1},
		{"local stylesheet removed", `link[href="assets/css/main.css"]`, 0},
		{"icon font removed", `link[href*="font-awesome"]`, 0},
		{"web font kept", `link[href*="fonts.googleapis.com"]`, 1},
		{"noscript removed", `noscript`, 0},
		{"signup section removed", `#signup`, 0},
		{"content kept", `#intro h1`, 1},
		{"features kept", `.features h3`, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := doc.Find(tt.selector).Length(); got != tt.want {
				t.Errorf("%s: got %d, want %d", tt.selector, got, tt.want)
			}
		})
	}
}

func TestStripIdempotent(t *testing.T) {
	once, err := Strip(readFixture(t, "hyperspace.html"), DefaultVocabulary())
	if err != nil {
		t.Fatalf("Strip: %v", err)
	}
	twice, err := Strip(once, DefaultVocabulary())
	if err != nil {
		t.Fatalf("Strip: %v", err)
	}
	if once != twice {
		t.Error("Strip is not idempotent")
	}
}

func TestStripCustomVocabulary(t *testing.T) {
	src := `<html><body><h1>Hi</h1><div class="promo">Buy now</div><div class="social">x</div></body></html>`
	vocab := DefaultVocabulary().Merge(Vocabulary{StripSelectors: []string{".promo"}})

	out, err := Strip(src, vocab)
	if err != nil {
		t.Fatalf("Strip: %v", err)
	}
	if strings.Contains(out, "Buy now") {
		t.Error("family strip selector not applied")
	}
	if !strings.Contains(out, `class="social"`) {
		t.Error("override should replace the default strip selectors")
	}
}

func TestIsLocalRef(t *testing.T) {
	tests := []struct {
		ref  string
		want bool
	}{
		{"images/pic01.jpg", true},
		{"../assets/main.css", true},
		{"/favicon.ico", true},
		{"generic.html", true},
		{"https://example.com/a.png", false},
		{"http://example.com", false},
		{"//cdn.example.com/x.js", false},
		{"#contact", false},
		{"data:image/png;base64,AAAA", false},
		{"mailto:a@b.co", false},
		{"tel:+15550100", false},
		{"javascript:void(0)", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.ref, func(t *testing.T) {
			if got := isLocalRef(tt.ref); got != tt.want {
				t.Errorf("isLocalRef(%q) = %v, want %v", tt.ref, got, tt.want)
			}
		})
	}
}
