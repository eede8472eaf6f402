package engine

import "testing"

func TestVocabularyMerge(t *testing.T) {
	base := DefaultVocabulary()
	merged := base.Merge(Vocabulary{
		Menu:        []MenuItem{{Label: "Start", Href: "#start"}},
		HeroMarkers: []string{"masthead"},
		BrandColors: BrandColors{Primary: []string{"#123456"}},
	})

	if len(merged.Menu) != 1 || merged.Menu[0].Href != "#start" {
		t.Errorf("menu not overridden: %+v", merged.Menu)
	}
	if merged.HeroMarkers[0] != "masthead" {
		t.Errorf("hero markers = %v", merged.HeroMarkers)
	}
	if merged.BrandColors.Primary[0] != "#123456" {
		t.Errorf("primary colors = %v", merged.BrandColors.Primary)
	}
	if len(merged.BrandColors.Secondary) != len(base.BrandColors.Secondary) {
		t.Error("unset secondary colors should keep defaults")
	}
	if len(merged.NavArtifacts) != len(base.NavArtifacts) {
		t.Error("unset fields should keep defaults")
	}
}

func TestVocabularyOrDefault(t *testing.T) {
	if got := (Vocabulary{}).orDefault(); len(got.Menu) != 4 {
		t.Errorf("empty vocabulary menu = %d items, want 4", len(got.Menu))
	}
	custom := Vocabulary{Menu: []MenuItem{{Label: "Only", Href: "#only"}}}
	if got := custom.orDefault(); len(got.Menu) != 1 {
		t.Error("non-empty vocabulary replaced by default")
	}
}

func TestContainsAny(t *testing.T) {
	tests := []struct {
		s       string
		needles []string
		want    bool
	}{
		{"design: html5 up", []string{"HTML5 UP"}, true},
		{"our services", []string{"generic", "elements"}, false},
		{"anything", []string{""}, false},
		{"anything", nil, false},
	}

	for _, tt := range tests {
		if got := containsAny(tt.s, tt.needles); got != tt.want {
			t.Errorf("containsAny(%q, %v) = %v, want %v", tt.s, tt.needles, got, tt.want)
		}
	}
}
