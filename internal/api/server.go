package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/uigenlabs/uigen-backend/internal/api/docs"
	generationapi "github.com/uigenlabs/uigen-backend/internal/api/generation"
	"github.com/uigenlabs/uigen-backend/internal/api/middleware"
	"github.com/uigenlabs/uigen-backend/internal/config"
	"github.com/uigenlabs/uigen-backend/internal/web"
)

// SetupRouter creates and configures the HTTP router
func SetupRouter(generationHandler *generationapi.Handler, rateLimitCfg config.RateLimitConfig, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	// Middleware stack
	r.Use(chimiddleware.Recoverer)                         // Recover from panics
	r.Use(chimiddleware.RequestID)                         // Add request ID
	r.Use(middleware.Logger(logger))                       // Log requests
	r.Use(middleware.CORS)                                 // Handle CORS
	r.Use(middleware.NewRateLimiter(rateLimitCfg).Handler) // Per-client rate limit
	r.Use(chimiddleware.Timeout(120 * time.Second))        // Default timeout, AI calls are slow

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy"}`))
	})

	// Swagger documentation endpoints
	docs.RegisterRoutes(r)

	// Embedded web UI
	web.RegisterRoutes(r)

	// Register routes
	generationapi.RegisterRoutes(r, generationHandler)

	return r
}
