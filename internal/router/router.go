// Package router sets up all HTTP routes and middleware chains for
// Pagesmith. It organizes routes into the JSON API, with public and
// authenticated groups, and the Host-routed serving of published sites.
package router

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"pagesmith/internal/handlers"
	"pagesmith/internal/middleware"
	"pagesmith/internal/session"
)

// Check reports whether one backing service is reachable.
type Check func(ctx context.Context) error

// healthTimeout bounds the dependency checks of /health.
const healthTimeout = 2 * time.Second

// Handlers are the handler groups mounted by New.
type Handlers struct {
	Auth      *handlers.Auth
	Generate  *handlers.Generate
	Sites     *handlers.Sites
	Images    *handlers.Images
	Templates *handlers.Templates
	Public    *handlers.Public
}

// Options tune the middleware stack.
type Options struct {
	// HSTS enables Strict-Transport-Security. Only for TLS deployments.
	HSTS bool
	// AuthLimiter throttles the sign-in and sign-up endpoints when set.
	AuthLimiter *middleware.RateLimiter
	// GenerateLimiter throttles generation requests when set.
	GenerateLimiter *middleware.RateLimiter
	// Checks are run by /health, keyed by service name.
	Checks map[string]Check
}

// New creates and returns the configured Chi router with all middleware
// and route groups wired up.
func New(sessionStore *session.Store, h Handlers, opts Options) chi.Router {
	r := chi.NewRouter()

	// Global middleware, applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders(opts.HSTS))
	r.Use(middleware.LoadSession(sessionStore))

	// Health check, no auth.
	r.Get("/health", healthHandler(opts.Checks))

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.SameOrigin)

		// Account endpoints accessible without a session.
		r.Group(func(r chi.Router) {
			if opts.AuthLimiter != nil {
				r.Use(opts.AuthLimiter.Middleware)
			}
			r.Post("/auth/register", h.Auth.Register)
			r.Post("/auth/login", h.Auth.Login)
		})
		r.Post("/auth/logout", h.Auth.Logout)
		r.Get("/templates", h.Templates.List)

		// Authenticated API.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)

			r.Get("/me", h.Auth.Me)
			r.Get("/me/credits", h.Auth.Credits)

			r.Group(func(r chi.Router) {
				if opts.GenerateLimiter != nil {
					r.Use(opts.GenerateLimiter.Middleware)
				}
				r.Post("/generate", h.Generate.Create)
			})

			r.Route("/sites", func(r chi.Router) {
				r.Get("/", h.Sites.List)
				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", h.Sites.Get)
					r.Delete("/", h.Sites.Delete)
					r.Get("/preview", h.Sites.Preview)
					r.Get("/qr", h.Sites.QRCode)

					r.Get("/editable", h.Sites.Editable)
					r.Post("/edit/text", h.Sites.EditText)
					r.Post("/edit/color", h.Sites.EditColor)
					r.Post("/edit/image", h.Sites.EditImage)

					r.Post("/publish", h.Sites.Publish)
					r.Post("/unpublish", h.Sites.Unpublish)
				})
			})

			r.Route("/images", func(r chi.Router) {
				r.Post("/upload", h.Images.Upload)
				r.Get("/search", h.Images.Search)
				r.Post("/generate", h.Images.Generate)
			})
		})
	})

	// Everything else is a published site, resolved by Host.
	r.NotFound(h.Public.ServeSite)
	r.MethodNotAllowed(h.Public.ServeSite)

	return r
}

// healthHandler runs every check and reports 503 when any fails.
func healthHandler(checks map[string]Check) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
		defer cancel()

		status := http.StatusOK
		body := map[string]string{"status": "ok"}
		for name, check := range checks {
			if err := check(ctx); err != nil {
				slog.Warn("health check failed", "service", name, "error", err)
				body[name] = "unavailable"
				body["status"] = "degraded"
				status = http.StatusServiceUnavailable
				continue
			}
			body[name] = "ok"
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(body)
	}
}
