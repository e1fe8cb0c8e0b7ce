package api

import (
	"net/http"

	"github.com/dom/nonprofit-site/internal/api/handlers"
	"github.com/dom/nonprofit-site/internal/api/httpx"
	"github.com/dom/nonprofit-site/internal/api/middleware"
	"github.com/dom/nonprofit-site/internal/config"
	"github.com/dom/nonprofit-site/internal/service"
	"github.com/dom/nonprofit-site/internal/websocket"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

// maxBodyBytes leaves room for a base64 image plus the rest of the resource.
func maxBodyBytes(cfg *config.Config) int64 {
	return int64(cfg.MaxImageBytes) + 64<<10
}

// NewRouter wires the API. limiter may be nil to disable rate limiting.
func NewRouter(services *service.Services, hub *websocket.Hub, limiter *middleware.RateLimiter, cfg *config.Config) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.RequestID)
	// The rate limiter keys on RemoteAddr, so forwarded headers are only
	// honoured when a trusted proxy sets them.
	if cfg.TrustProxyHeaders {
		r.Use(chiMiddleware.RealIP)
	}
	r.Use(middleware.CORS(cfg.CORSAllowedOrigins))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		httpx.WriteError(w, http.StatusNotFound, "Route not found", httpx.CodeNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		httpx.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed", httpx.CodeBadRequest)
	})

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(services.Auth)
	eventHandler := handlers.NewEventHandler(services.Events)
	projectHandler := handlers.NewProjectHandler(services.Projects)
	contactHandler := handlers.NewContactHandler(services.Contacts)
	wsHandler := handlers.NewWebSocketHandler(hub, services.Auth, cfg.CORSAllowedOrigins)

	authenticated := middleware.Auth(services.Auth)

	r.Route("/api", func(r chi.Router) {
		r.Use(chiMiddleware.AllowContentType(httpx.ContentTypeJSON))
		r.Use(chiMiddleware.RequestSize(maxBodyBytes(cfg)))

		r.Route("/auth", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				r.Use(limiter.Middleware)
				r.Post("/register", authHandler.Register)
				r.Post("/login", authHandler.Login)
			})

			r.Group(func(r chi.Router) {
				r.Use(authenticated)
				r.Get("/me", authHandler.Me)
				r.Put("/me", authHandler.UpdateMe)
			})
		})

		r.Route("/events", func(r chi.Router) {
			r.Get("/", eventHandler.List)
			r.Get("/{id}", eventHandler.Get)

			r.Group(func(r chi.Router) {
				r.Use(authenticated, middleware.RequireAdmin)
				r.Post("/", eventHandler.Create)
				r.Put("/{id}", eventHandler.Update)
				r.Delete("/{id}", eventHandler.Delete)
			})
		})

		r.Route("/projects", func(r chi.Router) {
			r.Get("/", projectHandler.List)
			r.Get("/{id}", projectHandler.Get)

			r.Group(func(r chi.Router) {
				r.Use(authenticated, middleware.RequireAdmin)
				r.Post("/", projectHandler.Create)
				r.Put("/{id}", projectHandler.Update)
				r.Delete("/{id}", projectHandler.Delete)
			})
		})

		r.Route("/contacts", func(r chi.Router) {
			r.With(limiter.Middleware).Post("/", contactHandler.Submit)

			r.Group(func(r chi.Router) {
				r.Use(authenticated, middleware.RequireAdmin)
				r.Get("/", contactHandler.List)
				r.Get("/{id}", contactHandler.Get)
				r.Delete("/{id}", contactHandler.Delete)
			})
		})

		// WebSocket endpoint
		r.Get("/ws", wsHandler.Handle)
	})

	return r
}
