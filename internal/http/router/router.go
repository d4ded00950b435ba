package router

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/leadpilot/leads-api/internal/auth"
	"github.com/leadpilot/leads-api/internal/config"
	"github.com/leadpilot/leads-api/internal/database"
	"github.com/leadpilot/leads-api/internal/http/handler"
	"github.com/leadpilot/leads-api/internal/http/middleware"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	_ "github.com/leadpilot/leads-api/docs" // Import generated swagger docs
)

type Router struct {
	cfg            *config.Config
	logger         *zap.Logger
	db             *gorm.DB
	authMiddleware *auth.Middleware
	rateLimiter    *middleware.RateLimiter
	authHandler    *handler.AuthHandler
	leadHandler    *handler.LeadHandler
	userHandler    *handler.UserHandler
}

func NewRouter(
	cfg *config.Config,
	logger *zap.Logger,
	db *gorm.DB,
	authMiddleware *auth.Middleware,
	rateLimiter *middleware.RateLimiter,
	authHandler *handler.AuthHandler,
	leadHandler *handler.LeadHandler,
	userHandler *handler.UserHandler,
) *Router {
	return &Router{
		cfg:            cfg,
		logger:         logger,
		db:             db,
		authMiddleware: authMiddleware,
		rateLimiter:    rateLimiter,
		authHandler:    authHandler,
		leadHandler:    leadHandler,
		userHandler:    userHandler,
	}
}

func (rt *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(rt.logger))
	r.Use(middleware.Logging(rt.logger))
	r.Use(middleware.SecurityHeaders(&rt.cfg.Security))
	r.Use(middleware.CORS(&rt.cfg.CORS, rt.cfg.App.Environment, rt.logger))
	r.Use(rt.rateLimiter.LimitByIP)

	// Swagger documentation
	if rt.cfg.Server.EnableSwagger {
		r.Get("/swagger/*", httpSwagger.Handler(
			httpSwagger.URL("/swagger/doc.json"),
		))
	}

	r.Route("/api", func(r chi.Router) {
		// Liveness probe
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			_ = json.NewEncoder(w).Encode(map[string]interface{}{
				"status":    "ok",
				"timestamp": time.Now().UTC().Format(time.RFC3339),
			})
		})

		// Readiness probe with pool stats
		r.Get("/health/db", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")

			if err := database.HealthCheck(r.Context(), rt.db); err != nil {
				rt.logger.Error("database health check failed", zap.Error(err))
				w.WriteHeader(http.StatusServiceUnavailable)
				_ = json.NewEncoder(w).Encode(map[string]interface{}{
					"status": "unhealthy",
					"error":  err.Error(),
				})
				return
			}

			stats, err := database.PoolStats(rt.db)
			if err != nil {
				stats = map[string]interface{}{}
			}

			w.WriteHeader(http.StatusOK)
			_ = json.NewEncoder(w).Encode(map[string]interface{}{
				"status": "healthy",
				"stats":  stats,
			})
		})

		// Public routes
		r.Post("/auth/login", rt.authHandler.Login)

		// Authenticated routes
		r.Group(func(r chi.Router) {
			r.Use(rt.authMiddleware.Authenticate)

			r.Post("/auth/change-password", rt.authHandler.ChangePassword)

			// Leads
			r.Route("/leads", func(r chi.Router) {
				r.Get("/", rt.leadHandler.ListLeads)
				r.Post("/", rt.leadHandler.CreateLead)
				r.Get("/{id}", rt.leadHandler.GetLead)
				r.Put("/{id}", rt.leadHandler.UpdateLead)
				r.Patch("/{id}/archive", rt.leadHandler.ArchiveLead)
				r.Post("/{id}/notes", rt.leadHandler.AddNote)
				r.Post("/{id}/tasks", rt.leadHandler.AddTask)
				r.Patch("/{id}/tasks/{taskId}", rt.leadHandler.ToggleTask)
				r.Post("/{id}/activities", rt.leadHandler.AddActivity)
			})

			// User administration (admin only)
			r.Route("/users", func(r chi.Router) {
				r.Use(rt.authMiddleware.RequireAdmin)

				r.Get("/", rt.userHandler.ListUsers)
				r.Post("/", rt.userHandler.CreateUser)
				r.Put("/{id}", rt.userHandler.UpdateUser)
				r.Delete("/{id}", rt.userHandler.DeleteUser)
				r.Post("/{id}/reset-password", rt.userHandler.ResetPassword)
			})
		})
	})

	return r
}
