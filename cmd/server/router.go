package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"

	"github.com/phrazzld/scry-deck/internal/api"
	apiMiddleware "github.com/phrazzld/scry-deck/internal/api/middleware"
)

// setupRouter creates the application router with all routes and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(apiMiddleware.NewTraceMiddleware(app.logger))
	r.Use(middleware.Recoverer)
	r.Use(corsHandler(app.config.Server.CORSOrigins))

	cardHandler := api.NewCardHandler(app.cardService, app.logger)
	settingsHandler := api.NewSettingsHandler(app.cardService, app.logger)

	r.Route("/api", func(r chi.Router) {
		api.RegisterRoutes(r, cardHandler, settingsHandler)
	})

	r.Get("/health", api.Health)

	return r
}

// corsHandler allows the browser frontend to call the API from the configured origins.
func corsHandler(origins []string) func(http.Handler) http.Handler {
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{
			http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions,
		},
		AllowedHeaders: []string{"Content-Type", "Accept", "Origin", "X-Requested-With"},
		MaxAge:         86400,
	}).Handler
}
