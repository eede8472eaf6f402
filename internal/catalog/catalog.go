// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package catalog is the template store. It reads the catalog manifest,
// selects a template for a business category and style, and loads template
// sources through an instance-owned cache.
package catalog

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"math/rand/v2"
	"path"
	"sort"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"

	"pagesmith/internal/engine"
	"pagesmith/internal/models"
)

// ManifestFile is the catalog manifest at the root of the template tree.
const ManifestFile = "catalog.yaml"

// None is returned by Select when the catalog holds no templates.
const None = ""

// DefaultFamily is the vocabulary family for entries that name none.
const DefaultFamily = "default"

var (
	// ErrTemplateUnavailable means a template's files are missing or unreadable.
	ErrTemplateUnavailable = errors.New("template unavailable")
	// ErrEmptyCatalog means no template can be selected.
	ErrEmptyCatalog = errors.New("template catalog is empty")
)

// Source is a loaded template: its entry plus the raw HTML and CSS.
type Source struct {
	Template models.Template
	HTML     string
	CSS      string
}

// manifest is the on-disk shape of catalog.yaml.
type manifest struct {
	Families  map[string]engine.Vocabulary `yaml:"families"`
	Templates []models.Template            `yaml:"templates"`
}

// Store is the template catalog. It is safe for concurrent use.
type Store struct {
	fsys      fs.FS
	templates []models.Template
	byID      map[string]int
	families  map[string]engine.Vocabulary
	cache     *sourceCache

	mu  sync.Mutex
	rng *rand.Rand
}

// Option configures a Store.
type Option func(*Store)

// WithRand sets the random source used to break ties between equally
// good templates. Tests pass a seeded source for reproducible picks.
func WithRand(r *rand.Rand) Option {
	return func(s *Store) { s.rng = r }
}

// New reads the catalog manifest from fsys. Entries without a source or
// style path have them discovered under their id directory. Without a
// manifest, every directory holding an index.html becomes a template.
func New(fsys fs.FS, opts ...Option) (*Store, error) {
	s := &Store{
		fsys:     fsys,
		byID:     make(map[string]int),
		families: make(map[string]engine.Vocabulary),
		cache:    newSourceCache(),
		rng:      rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
	}
	for _, opt := range opts {
		opt(s)
	}

	m, err := readManifest(fsys)
	if err != nil {
		return nil, err
	}
	for name, v := range m.Families {
		s.families[name] = v
	}

	for _, t := range m.Templates {
		t, err := s.complete(t)
		if err != nil {
			return nil, err
		}
		if _, dup := s.byID[t.ID]; dup {
			return nil, fmt.Errorf("catalog: duplicate template id %q", t.ID)
		}
		s.byID[t.ID] = len(s.templates)
		s.templates = append(s.templates, t)
	}

	slog.Info("template catalog loaded", "templates", len(s.templates), "families", len(s.families))
	return s, nil
}

// readManifest parses catalog.yaml, or synthesizes a manifest from the
// directory layout when the file does not exist.
func readManifest(fsys fs.FS) (manifest, error) {
	var m manifest

	data, err := fs.ReadFile(fsys, ManifestFile)
	if errors.Is(err, fs.ErrNotExist) {
		matches, err := doublestar.Glob(fsys, "*/index.html")
		if err != nil {
			return m, fmt.Errorf("catalog discover: %w", err)
		}
		sort.Strings(matches)
		for _, match := range matches {
			id := path.Dir(match)
			m.Templates = append(m.Templates, models.Template{ID: id, DisplayName: id, SourcePath: match})
		}
		return m, nil
	}
	if err != nil {
		return m, fmt.Errorf("catalog read: %w", err)
	}

	if err := yaml.Unmarshal(data, &m); err != nil {
		return m, fmt.Errorf("catalog parse: %w", err)
	}
	return m, nil
}

// complete validates an entry, normalizes its tags and fills in missing
// paths by discovery.
func (s *Store) complete(t models.Template) (models.Template, error) {
	t.ID = strings.TrimSpace(t.ID)
	if t.ID == "" {
		return t, errors.New("catalog: template entry without id")
	}
	if t.DisplayName == "" {
		t.DisplayName = t.ID
	}
	if t.Family == "" {
		t.Family = DefaultFamily
	}
	if t.Layout == "" {
		t.Layout = models.LayoutSinglePage
	}
	t.BestFor = normalizeTags(t.BestFor)
	t.Vibe = normalizeTags(t.Vibe)

	if t.SourcePath == "" {
		found, err := discover(s.fsys, t.ID+"/**/index.html", nil)
		if err != nil {
			return t, err
		}
		t.SourcePath = found
	}
	if t.StylePath == "" {
		found, err := discover(s.fsys, t.ID+"/**/*.css", preferMainCSS)
		if err != nil {
			return t, err
		}
		t.StylePath = found
	}
	return t, nil
}

// discover returns the best match for pattern: the first by rank, then
// the shallowest, then alphabetical. An empty string means no match.
func discover(fsys fs.FS, pattern string, rank func(string) int) (string, error) {
	matches, err := doublestar.Glob(fsys, pattern)
	if err != nil {
		return "", fmt.Errorf("catalog discover %s: %w", pattern, err)
	}
	if len(matches) == 0 {
		return "", nil
	}
	sort.Slice(matches, func(i, j int) bool {
		a, b := matches[i], matches[j]
		if rank != nil && rank(a) != rank(b) {
			return rank(a) < rank(b)
		}
		if da, db := strings.Count(a, "/"), strings.Count(b, "/"); da != db {
			return da < db
		}
		return a < b
	})
	return matches[0], nil
}

// preferMainCSS ranks the template's main stylesheet first and pushes
// noscript and icon-font sheets last.
func preferMainCSS(p string) int {
	base := strings.ToLower(path.Base(p))
	switch {
	case base == "main.css" || base == "style.css" || base == "styles.css":
		return 0
	case strings.Contains(base, "noscript"), strings.Contains(base, "fontawesome"), strings.Contains(base, "font-awesome"):
		return 2
	}
	return 1
}

func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if t = normalize(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Templates lists the catalog entries in manifest order.
func (s *Store) Templates() []models.Template {
	out := make([]models.Template, len(s.templates))
	copy(out, s.templates)
	return out
}

// Get returns the entry with the given id.
func (s *Store) Get(id string) (models.Template, bool) {
	i, ok := s.byID[id]
	if !ok {
		return models.Template{}, false
	}
	return s.templates[i], true
}

// Candidates returns the templates of the first non-empty tier of the
// fallback chain: category and vibe, category only, vibe only, any. The
// result depends only on the catalog and the arguments.
func (s *Store) Candidates(category, vibe string) []models.Template {
	category, vibe = normalize(category), normalize(vibe)

	tiers := []func(t *models.Template) bool{
		func(t *models.Template) bool { return t.Suits(category) && t.HasVibe(vibe) },
		func(t *models.Template) bool { return t.Suits(category) },
		func(t *models.Template) bool { return t.HasVibe(vibe) },
		func(*models.Template) bool { return true },
	}
	for _, match := range tiers {
		var out []models.Template
		for i := range s.templates {
			if match(&s.templates[i]) {
				out = append(out, s.templates[i])
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return nil
}

// Select picks a template id for the category and vibe, choosing at
// random among tied candidates. It returns None for an empty catalog.
func (s *Store) Select(category, vibe string) string {
	candidates := s.Candidates(category, vibe)
	if len(candidates) == 0 {
		return None
	}

	s.mu.Lock()
	i := s.rng.IntN(len(candidates))
	s.mu.Unlock()

	id := candidates[i].ID
	slog.Debug("template selected", "id", id, "category", category, "vibe", vibe, "candidates", len(candidates))
	return id
}

// Load returns the template's HTML and CSS, reading them on first use.
// Missing files return ErrTemplateUnavailable and are retried next time.
func (s *Store) Load(id string) (*Source, error) {
	t, ok := s.Get(id)
	if !ok {
		return nil, fmt.Errorf("%w: unknown template %q", ErrTemplateUnavailable, id)
	}
	return s.cache.load(id, func() (*Source, error) {
		return s.read(t)
	})
}

func (s *Store) read(t models.Template) (*Source, error) {
	if t.SourcePath == "" {
		return nil, fmt.Errorf("%w: %s has no index.html", ErrTemplateUnavailable, t.ID)
	}
	html, err := fs.ReadFile(s.fsys, t.SourcePath)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrTemplateUnavailable, t.ID, err)
	}

	var css []byte
	if t.StylePath != "" {
		css, err = fs.ReadFile(s.fsys, t.StylePath)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrTemplateUnavailable, t.ID, err)
		}
	}

	slog.Debug("template source read", "id", t.ID, "html_bytes", len(html), "css_bytes", len(css))
	return &Source{Template: t, HTML: string(html), CSS: string(css)}, nil
}

// Vocabulary returns the matching vocabulary for a template family: the
// defaults with the family's manifest overrides applied.
func (s *Store) Vocabulary(family string) engine.Vocabulary {
	v := engine.DefaultVocabulary()
	if override, ok := s.families[family]; ok {
		v = v.Merge(override)
	}
	return v
}
