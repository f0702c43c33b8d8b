package api

import (
	"net/http"

	"github.com/dom/locus-core/internal/api/handlers"
	"github.com/dom/locus-core/internal/api/middleware"
	"github.com/dom/locus-core/internal/config"
	"github.com/dom/locus-core/internal/service"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
)

func NewRouter(services *service.Services, cfg *config.Config) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.RequestID)
	r.Use(cors.New(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	}).Handler)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})
	r.Handle("/metrics", promhttp.Handler())

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(services.Auth)
	handshakeHandler := handlers.NewHandshakeHandler(services.Handshake)
	employeeHandler := handlers.NewEmployeeHandler(services.Employee)
	entryHandler := handlers.NewEntryHandler(services.Entry)

	// Peer applications post action envelopes to the root
	r.Post("/", handshakeHandler.Exec)

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/exec", handshakeHandler.Exec)
		r.Post("/handshake/verify", handshakeHandler.Verify)

		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", authHandler.Login)

			// Protected auth routes
			r.Group(func(r chi.Router) {
				r.Use(middleware.Auth(services.Sessions))
				r.Get("/me", authHandler.Me)
				r.Post("/password", authHandler.ChangePassword)
				r.Post("/handshake", handshakeHandler.Issue)
			})
		})

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(services.Sessions))

			r.Post("/employees", employeeHandler.Create)
			r.Post("/entries/{kind}", entryHandler.Create)
		})
	})

	return r
}
