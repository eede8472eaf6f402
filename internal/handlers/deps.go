package handlers

import (
	"context"

	"github.com/google/uuid"

	"pagesmith/internal/ai"
	"pagesmith/internal/generator"
	"pagesmith/internal/models"
)

// The interfaces below are satisfied by the concrete stores and services
// wired in cmd/pagesmith. Handlers depend only on the methods they call.

// UserRepo is implemented by *store.UserStore.
type UserRepo interface {
	FindByEmail(email string) (*models.User, error)
	FindByID(id uuid.UUID) (*models.User, error)
	Create(email, password, displayName string, credits int) (*models.User, error)
	CheckPassword(user *models.User, password string) bool
}

// Ledger is implemented by *store.CreditStore.
type Ledger interface {
	Record(e *models.CreditEvent) error
	ListByUser(userID uuid.UUID, limit int) ([]models.CreditEvent, error)
}

// SiteGenerator is implemented by *generator.Service.
type SiteGenerator interface {
	Generate(ctx context.Context, userID uuid.UUID, req generator.Request) (*generator.Result, error)
}

// SiteRepo is implemented by *store.SiteStore.
type SiteRepo interface {
	FindForOwner(id, owner uuid.UUID) (*models.GeneratedSite, error)
	ListByOwner(owner uuid.UUID) ([]models.GeneratedSite, error)
	UpdateHTML(id, owner uuid.UUID, html string) (bool, error)
	Delete(id, owner uuid.UUID) (bool, error)
	Publish(id, owner uuid.UUID, slug, customDomain *string) (*models.GeneratedSite, error)
	Unpublish(id, owner uuid.UUID) (*models.GeneratedSite, error)
}

// PublishedSites is implemented by *store.SiteStore.
type PublishedSites interface {
	FindPublishedBySlug(slug string) (*models.GeneratedSite, error)
	FindPublishedByDomain(domain string) (*models.GeneratedSite, error)
}

// SitePublisher is implemented by *storage.Client.
type SitePublisher interface {
	PutSite(ctx context.Context, host, html string) (string, error)
	DeleteSite(ctx context.Context, host string) error
}

// PageCache is implemented by *cache.PageCache.
type PageCache interface {
	Get(ctx context.Context, host string) ([]byte, bool)
	Set(ctx context.Context, host string, html []byte)
	Invalidate(ctx context.Context, host string)
}

// ImageService is implemented by *images.Service.
type ImageService interface {
	Upload(ctx context.Context, owner uuid.UUID, fileName string, data []byte) (models.UploadedFile, error)
	Search(ctx context.Context, query string, limit int) ([]models.ImageAsset, error)
	Generate(ctx context.Context, owner uuid.UUID, prompt string) (models.ImageAsset, error)
}

// PromptChecker is implemented by *ai.Registry.
type PromptChecker interface {
	CheckPrompt(ctx context.Context, prompt string) (*ai.ModerationResult, error)
}

// TemplateLister is implemented by *catalog.Store.
type TemplateLister interface {
	Templates() []models.Template
}
