// Package api provides the HTTP API server and handlers for the Bookden application.
package api

import (
	"log/slog"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/bookden/bookden-server/internal/auth"
	"github.com/bookden/bookden-server/internal/ratelimit"
	"github.com/bookden/bookden-server/internal/store"
	"github.com/bookden/bookden-server/internal/validation"
)

// setupLimiter allows one setup run per user every 10 seconds with a small
// burst, since seeding and migration touch every legacy book.
const (
	setupRPS   = 0.1
	setupBurst = 2
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	store        *store.Store
	services     *Services
	tokens       *auth.TokenService
	validator    *validation.Validator
	setupLimiter *ratelimit.KeyedRateLimiter
	router       *chi.Mux
	api          huma.API
	logger       *slog.Logger
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(store *store.Store, services *Services, tokens *auth.TokenService, serverName string, logger *slog.Logger) *Server {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Compress(5))
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	humaConfig := huma.DefaultConfig(serverName, "1.0.0")
	humaConfig.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"bearer": {
			Type:         "http",
			Scheme:       "bearer",
			BearerFormat: "PASETO",
		},
	}
	humaConfig.Transformers = append(humaConfig.Transformers, EnvelopeTransformer)

	api := humachi.New(router, humaConfig)
	RegisterErrorHandler()

	s := &Server{
		store:        store,
		services:     services,
		tokens:       tokens,
		validator:    validation.New(),
		setupLimiter: ratelimit.New(setupRPS, setupBurst),
		router:       router,
		api:          api,
		logger:       logger,
	}

	s.registerHealthRoutes()
	s.registerLocationRoutes()
	s.registerPickerRoutes()
	s.registerBookRoutes()
	s.registerSetupRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}
