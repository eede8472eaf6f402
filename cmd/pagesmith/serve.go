package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"pagesmith/internal/ai"
	"pagesmith/internal/cache"
	"pagesmith/internal/catalog"
	"pagesmith/internal/config"
	"pagesmith/internal/database"
	"pagesmith/internal/generator"
	"pagesmith/internal/handlers"
	"pagesmith/internal/images"
	"pagesmith/internal/middleware"
	"pagesmith/internal/router"
	"pagesmith/internal/session"
	"pagesmith/internal/storage"
	"pagesmith/internal/store"
	"pagesmith/web"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
		"base_domain", cfg.BaseDomain,
	)

	// Connect to PostgreSQL.
	db, err := database.Connect(cfg.DSN())
	if err != nil {
		return err
	}
	defer db.Close()

	// Run pending migrations.
	if err := database.Migrate(db); err != nil {
		return err
	}

	// Seed development data (no-op if data already exists).
	if cfg.IsDev() {
		if err := database.Seed(db); err != nil {
			return err
		}
	}

	// Connect to Valkey (Redis-compatible cache + session store).
	valkeyClient, err := cache.Connect(context.Background(), cfg.ValkeyAddr(), cfg.ValkeyPassword)
	if err != nil {
		return err
	}
	defer valkeyClient.Close()

	// In non-development environments, mark session cookies as Secure (HTTPS-only).
	secureCookies := !cfg.IsDev()
	sessionStore := session.NewStore(valkeyClient, secureCookies)
	pageCache := cache.NewPageCache(valkeyClient, cache.DefaultPageTTL)

	// Connect to S3-compatible object storage (optional, the app works without it).
	storageClient, err := storage.New(storage.Config{
		Endpoint:  cfg.S3Endpoint,
		Region:    cfg.S3Region,
		AccessKey: cfg.S3AccessKey,
		SecretKey: cfg.S3SecretKey,
		Bucket:    cfg.S3Bucket,
		PublicURL: cfg.S3PublicURL,
	})
	if err != nil {
		return fmt.Errorf("initialize storage: %w", err)
	}
	var publisher handlers.SitePublisher
	var uploader images.Uploader
	if storageClient != nil {
		publisher, uploader = storageClient, storageClient
		slog.Info("s3 storage connected", "endpoint", cfg.S3Endpoint, "bucket", storageClient.Bucket())
	} else {
		slog.Warn("s3 storage not configured, uploads and published copies disabled")
	}

	aiRegistry := newRegistry(cfg)
	slog.Info("ai providers initialized",
		"active", aiRegistry.ActiveName(),
		"available", aiRegistry.Available(),
	)

	imageService := newImageService(cfg, aiRegistry, uploader)

	templates, err := openCatalog(cfg.TemplatesDir)
	if err != nil {
		return err
	}
	slog.Info("template catalog loaded", "templates", len(templates.Templates()))

	// Initialize data stores.
	userStore := store.NewUserStore(db)
	siteStore := store.NewSiteStore(db)
	creditStore := store.NewCreditStore(db)

	gen := generator.New(aiRegistry, templates, userStore, siteStore,
		generator.WithImages(imageService),
		generator.WithLedger(creditStore),
		generator.WithCost(cfg.GenerationCost),
	)

	authLimiter := middleware.NewRateLimiter(10, time.Minute)
	defer authLimiter.Stop()
	generateLimiter := middleware.NewRateLimiter(5, time.Minute)
	defer generateLimiter.Stop()

	r := router.New(sessionStore, router.Handlers{
		Auth:      handlers.NewAuth(sessionStore, userStore, creditStore, cfg.SignupCredits),
		Generate:  handlers.NewGenerate(gen),
		Sites:     handlers.NewSites(siteStore, publisher, pageCache, cfg.BaseDomain),
		Images:    handlers.NewImages(imageService, aiRegistry),
		Templates: handlers.NewTemplates(templates),
		Public:    handlers.NewPublic(siteStore, pageCache, cfg.BaseDomain),
	}, router.Options{
		HSTS:            secureCookies,
		AuthLimiter:     authLimiter,
		GenerateLimiter: generateLimiter,
		Checks: map[string]router.Check{
			"postgres": db.PingContext,
			"valkey":   cache.Check(valkeyClient),
		},
	})

	// WriteTimeout must accommodate generation, which waits on the LLM and
	// the photo search (typically 10-30s, up to 90s for slow providers).
	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// Graceful shutdown: wait for SIGINT or SIGTERM, then drain connections.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case sig := <-quit:
		slog.Info("shutdown signal received", "signal", sig)
	}

	// Give active requests up to 30 seconds to complete.
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	slog.Info("server stopped gracefully")
	return nil
}

// newRegistry initializes every AI provider that has an API key.
// newRegistry builds the provider registry. When AI_PROVIDER has no key
// the first provider that does is used instead.
func newRegistry(cfg *config.Config) *ai.Registry {
	registry := ai.NewRegistry(cfg.AIProvider, map[string]ai.ProviderConfig{
		"openai":  {APIKey: cfg.OpenAIKey, Model: cfg.OpenAIModel, ModelImage: cfg.OpenAIImageModel, BaseURL: cfg.OpenAIBaseURL},
		"gemini":  {APIKey: cfg.GeminiKey, Model: cfg.GeminiModel, ModelImage: cfg.GeminiImageModel, BaseURL: cfg.GeminiBaseURL},
		"claude":  {APIKey: cfg.ClaudeKey, Model: cfg.ClaudeModel, BaseURL: cfg.ClaudeBaseURL},
		"mistral": {APIKey: cfg.MistralKey, Model: cfg.MistralModel, BaseURL: cfg.MistralBaseURL},
	})
	if registry.HasProvider(cfg.AIProvider) {
		return registry
	}

	available := registry.Available()
	if len(available) == 0 {
		slog.Warn("no ai provider has an api key, generation will fail", "configured", cfg.AIProvider)
		return registry
	}
	if err := registry.SetActive(available[0]); err != nil {
		slog.Warn("ai provider fallback failed", "error", err)
		return registry
	}
	slog.Warn("configured ai provider has no api key, using another",
		"configured", cfg.AIProvider,
		"active", available[0],
	)
	return registry
}

// newImageService wires the configured image backends. Interfaces stay
// nil, not typed nils, for backends that are missing.
func newImageService(cfg *config.Config, registry *ai.Registry, uploader images.Uploader) *images.Service {
	var search images.Searcher
	if u := images.NewUnsplash(cfg.UnsplashKey, cfg.UnsplashBaseURL); u != nil {
		search = u
	} else {
		slog.Warn("unsplash not configured, generated sites use placeholder images")
	}

	var gen images.Generator
	if registry.SupportsImageGeneration() {
		gen = registry
	}
	return images.NewService(search, uploader, gen)
}

// openCatalog loads the template catalog from dir, or the embedded one.
func openCatalog(dir string) (*catalog.Store, error) {
	var fsys fs.FS = web.Templates()
	if dir != "" {
		fsys = os.DirFS(dir)
	}
	templates, err := catalog.New(fsys)
	if err != nil {
		return nil, fmt.Errorf("load template catalog: %w", err)
	}
	return templates, nil
}
