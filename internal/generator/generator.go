// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package generator runs the site generation pipeline: moderation,
// content generation, image search, template fill and persistence,
// followed by the credit deduction.
package generator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/uuid"

	"pagesmith/internal/ai"
	"pagesmith/internal/catalog"
	"pagesmith/internal/content"
	"pagesmith/internal/engine"
	"pagesmith/internal/images"
	"pagesmith/internal/models"
	"pagesmith/internal/store"
)

// MaxPromptLength is the longest business description accepted, in characters.
const MaxPromptLength = 2000

// DefaultCost is the number of credits one generation consumes.
const DefaultCost = 1

// TemplateFreeform is stored as the template id of free-form sites.
const TemplateFreeform = "freeform"

var (
	// ErrValidation means the request is malformed or was rejected by moderation.
	ErrValidation = errors.New("invalid generation request")
	// ErrInsufficientCredits means the user cannot pay for a generation.
	ErrInsufficientCredits = errors.New("insufficient credits")
	// ErrUpstream means the content or image service failed or returned
	// nothing usable.
	ErrUpstream = errors.New("content service failed")
)

// Mode selects how the page is produced.
type Mode string

const (
	// ModeTemplate fills a catalog template with a generated content object.
	ModeTemplate Mode = "template"
	// ModeFreeform asks the model for a complete HTML document.
	ModeFreeform Mode = "freeform"
)

// Request describes the site to generate.
type Request struct {
	Prompt           string              `json:"prompt"`
	BusinessCategory string              `json:"businessCategory"`
	Vibe             string              `json:"vibe"`
	ColorPalette     models.ColorPalette `json:"colorPalette"`
	IncludeImages    bool                `json:"includeImages"`
	Mode             Mode                `json:"mode"`
}

// Result is returned after a successful generation.
type Result struct {
	SiteID           uuid.UUID `json:"siteId"`
	CreditsRemaining int       `json:"creditsRemaining"`
}

// ContentService generates text and screens prompts. *ai.Registry
// satisfies it.
type ContentService interface {
	Generate(ctx context.Context, req ai.Request) (string, error)
	CheckPrompt(ctx context.Context, prompt string) (*ai.ModerationResult, error)
}

// ImageFinder finds photos for a new site. *images.Service satisfies it.
type ImageFinder interface {
	ForSite(ctx context.Context, category, businessName string, count int) ([]models.ImageAsset, error)
}

// Templates is the template catalog. *catalog.Store satisfies it.
type Templates interface {
	Select(category, vibe string) string
	Load(id string) (*catalog.Source, error)
	Vocabulary(family string) engine.Vocabulary
}

// Users reads balances and charges credits. *store.UserStore satisfies it.
type Users interface {
	FindByID(id uuid.UUID) (*models.User, error)
	DeductCredits(id uuid.UUID, amount int) (int, error)
}

// Sites persists generated sites. *store.SiteStore satisfies it.
type Sites interface {
	Create(site *models.GeneratedSite) error
}

// Ledger records credit events. *store.CreditStore satisfies it.
type Ledger interface {
	Record(e *models.CreditEvent) error
}

// Service runs generations. It holds no per-request state and is safe
// for concurrent use.
type Service struct {
	content   ContentService
	templates Templates
	users     Users
	sites     Sites
	images    ImageFinder
	ledger    Ledger
	cost      int
}

// Option configures a Service.
type Option func(*Service)

// WithImages enables stock photos for requests that ask for them.
func WithImages(f ImageFinder) Option {
	return func(s *Service) { s.images = f }
}

// WithLedger records every charge, and every charge that failed.
func WithLedger(l Ledger) Option {
	return func(s *Service) { s.ledger = l }
}

// WithCost overrides DefaultCost.
func WithCost(cost int) Option {
	return func(s *Service) {
		if cost >= 0 {
			s.cost = cost
		}
	}
}

// New creates a generation service.
func New(cs ContentService, templates Templates, users Users, sites Sites, opts ...Option) *Service {
	s := &Service{
		content:   cs,
		templates: templates,
		users:     users,
		sites:     sites,
		cost:      DefaultCost,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Generate produces, stores and charges for one site. Nothing is written
// unless every step up to persistence succeeds. A failed credit deduction
// after persistence is logged and recorded but keeps the site.
func (s *Service) Generate(ctx context.Context, userID uuid.UUID, req Request) (*Result, error) {
	req, err := normalize(req)
	if err != nil {
		return nil, err
	}

	user, err := s.users.FindByID(userID)
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	if user == nil || !user.CanAfford(s.cost) {
		return nil, ErrInsufficientCredits
	}

	if err := s.moderate(ctx, req.Prompt); err != nil {
		return nil, err
	}

	start := time.Now()
	var site *models.GeneratedSite
	if req.Mode == ModeFreeform {
		site, err = s.freeform(ctx, req)
	} else {
		site, err = s.fromTemplate(ctx, req)
	}
	if err != nil {
		return nil, err
	}

	site.OwnerID = userID
	if err := s.sites.Create(site); err != nil {
		return nil, fmt.Errorf("save site: %w", err)
	}
	slog.Info("site generated",
		"site_id", site.ID,
		"user_id", userID,
		"template", site.TemplateID,
		"duration", time.Since(start),
	)

	return &Result{SiteID: site.ID, CreditsRemaining: s.charge(user, site.ID)}, nil
}

// normalize trims the request and rejects invalid fields.
func normalize(req Request) (Request, error) {
	req.Prompt = strings.TrimSpace(req.Prompt)
	req.BusinessCategory = strings.TrimSpace(req.BusinessCategory)
	req.Vibe = strings.TrimSpace(req.Vibe)

	if req.Prompt == "" {
		return req, fmt.Errorf("%w: prompt is required", ErrValidation)
	}
	if utf8.RuneCountInString(req.Prompt) > MaxPromptLength {
		return req, fmt.Errorf("%w: prompt must be at most %d characters", ErrValidation, MaxPromptLength)
	}

	switch req.Mode {
	case "":
		req.Mode = ModeTemplate
	case ModeTemplate, ModeFreeform:
	default:
		return req, fmt.Errorf("%w: unknown mode %q", ErrValidation, req.Mode)
	}

	p := &req.ColorPalette
	for _, slot := range []struct {
		name  string
		value *string
	}{
		{"primary", &p.Primary},
		{"secondary", &p.Secondary},
		{"accent", &p.Accent},
		{"background", &p.Background},
		{"text", &p.Text},
	} {
		*slot.value = strings.TrimSpace(*slot.value)
		if *slot.value != "" && !engine.IsColor(*slot.value) {
			return req, fmt.Errorf("%w: %s color %q is not a color value", ErrValidation, slot.name, *slot.value)
		}
	}
	return req, nil
}

// moderate rejects flagged prompts. Moderation outages let the prompt
// through; the content providers apply their own filters.
func (s *Service) moderate(ctx context.Context, prompt string) error {
	result, err := s.content.CheckPrompt(ctx, prompt)
	if err != nil {
		slog.Warn("moderation check failed, allowing prompt", "error", err)
		return nil
	}
	if result == nil || result.Safe {
		return nil
	}

	categories := strings.Join(result.Categories, ", ")
	slog.Warn("prompt flagged by moderation", "categories", categories)
	return fmt.Errorf("%w: prompt flagged for %s", ErrValidation, categories)
}

func (s *Service) fromTemplate(ctx context.Context, req Request) (*models.GeneratedSite, error) {
	response, err := s.content.Generate(ctx, ai.Request{
		System: content.SystemPrompt,
		Prompt: content.UserPrompt(brief(req)),
		JSON:   true,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUpstream, err)
	}
	raw, err := content.ParseResponse(response)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUpstream, err)
	}
	spec := content.Build(raw)

	var assets []models.ImageAsset
	if req.IncludeImages && s.images != nil {
		assets, err = s.images.ForSite(ctx, req.BusinessCategory, spec.BusinessName, images.DefaultCount)
		switch {
		case errors.Is(err, images.ErrUnavailable):
			slog.Warn("image search not configured, generating without images")
			assets = nil
		case err != nil:
			return nil, fmt.Errorf("%w: %w", ErrUpstream, err)
		}
	}

	id := s.templates.Select(req.BusinessCategory, req.Vibe)
	if id == catalog.None {
		return nil, catalog.ErrEmptyCatalog
	}
	doc, err := Fill(s.templates, id, engine.Input{Content: spec, Images: assets}, req.ColorPalette)
	if err != nil {
		return nil, err
	}

	return &models.GeneratedSite{
		Title:       spec.BusinessName,
		HTMLContent: doc,
		TemplateID:  id,
	}, nil
}

// Fill loads template id and runs strip, inject and restyle on it. The
// template family's vocabulary replaces in.Vocab.
func Fill(templates Templates, id string, in engine.Input, palette models.ColorPalette) (string, error) {
	src, err := templates.Load(id)
	if err != nil {
		return "", err
	}
	in.Vocab = templates.Vocabulary(src.Template.Family)

	doc, err := engine.Strip(src.HTML, in.Vocab)
	if err != nil {
		return "", fmt.Errorf("strip %s: %w", id, err)
	}
	doc, err = engine.Inject(doc, in)
	if err != nil {
		return "", fmt.Errorf("inject %s: %w", id, err)
	}
	doc, err = engine.Restyle(doc, src.CSS, palette, in.Vocab)
	if err != nil {
		return "", fmt.Errorf("restyle %s: %w", id, err)
	}
	return doc, nil
}

func (s *Service) freeform(ctx context.Context, req Request) (*models.GeneratedSite, error) {
	response, err := s.content.Generate(ctx, ai.Request{
		System: content.FreeformSystemPrompt,
		Prompt: content.UserPrompt(brief(req)),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUpstream, err)
	}

	doc, err := engine.CleanMarkup(response)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUpstream, err)
	}

	return &models.GeneratedSite{
		Title:       documentTitle(doc),
		HTMLContent: doc,
		TemplateID:  TemplateFreeform,
	}, nil
}

// charge deducts the generation cost and returns the remaining balance.
// A failed deduction leaves the balance as it was.
func (s *Service) charge(user *models.User, siteID uuid.UUID) int {
	if s.cost == 0 {
		return user.Credits
	}

	event := &models.CreditEvent{
		UserID: user.ID,
		SiteID: &siteID,
		Delta:  -s.cost,
		Reason: store.ReasonGeneration,
	}

	remaining, err := s.users.DeductCredits(user.ID, s.cost)
	if err != nil {
		slog.Error("credit deduction failed after generation",
			"error", err,
			"user_id", user.ID,
			"site_id", siteID,
			"amount", s.cost,
		)
		event.Failed = true
		remaining = user.Credits
	}

	if s.ledger != nil {
		if err := s.ledger.Record(event); err != nil {
			slog.Error("failed to record credit event", "error", err, "user_id", user.ID, "site_id", siteID)
		}
	}
	return remaining
}

func brief(req Request) content.Brief {
	return content.Brief{Prompt: req.Prompt, Category: req.BusinessCategory, Vibe: req.Vibe}
}

// documentTitle reads the <title> CleanMarkup guarantees.
func documentTitle(doc string) string {
	d, err := goquery.NewDocumentFromReader(strings.NewReader(doc))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(d.Find("title").First().Text())
}
