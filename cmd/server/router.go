package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
	"github.com/tradefair/tradefair-api/internal/api"
	apiMiddleware "github.com/tradefair/tradefair-api/internal/api/middleware"
)

// setupRouter creates and configures the application router with all routes
// and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware)
	r.Use(cors.New(cors.Options{
		AllowedOrigins:   app.config.Server.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}).Handler)

	authHandler := api.NewAuthHandler(app.userStore, app.jwtService, app.passwordHasher, app.logger)
	userHandler := api.NewUserHandler(app.userStore, app.logger)
	itemHandler := api.NewItemHandler(app.itemStore, app.logger)
	categoryHandler := api.NewCategoryHandler(app.itemStore, app.logger)
	proposalHandler := api.NewProposalHandler(app.tradeService, app.logger)
	notificationHandler := api.NewNotificationHandler(app.notificationStore, app.logger)
	authMiddleware := apiMiddleware.NewAuthMiddleware(app.jwtService)

	r.Route("/api", func(r chi.Router) {
		// Authentication endpoints (public)
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			r.Get("/users", userHandler.List)
			r.Get("/users/{id}", userHandler.Get)
			r.Put("/users/{id}", userHandler.Update)
			r.Delete("/users/{id}", userHandler.Delete)

			r.Get("/items", itemHandler.List)
			r.Post("/items", itemHandler.Create)
			r.Get("/items/{id}", itemHandler.Get)
			r.Put("/items/{id}", itemHandler.Update)
			r.Delete("/items/{id}", itemHandler.Delete)

			r.Get("/categories", categoryHandler.List)

			r.Get("/proposals", proposalHandler.List)
			r.Post("/proposals", proposalHandler.Create)
			r.Get("/proposals/{id}", proposalHandler.Get)
			r.Post("/proposals/{id}/accept", proposalHandler.Accept)
			r.Post("/proposals/{id}/refuse", proposalHandler.Refuse)
			r.Delete("/proposals/{id}", proposalHandler.Cancel)

			r.Get("/notifications", notificationHandler.List)
			r.Post("/notifications/read", notificationHandler.MarkAllRead)
		})
	})

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("Failed to write health check response", "error", err)
		}
	})

	return r
}
