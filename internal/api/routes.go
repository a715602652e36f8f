package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/phrazzld/scry-deck/internal/api/shared"
)

// RegisterRoutes mounts every card, statistics and settings endpoint on r.
// The caller decides the prefix (normally /api).
func RegisterRoutes(r chi.Router, cards *CardHandler, settings *SettingsHandler) {
	r.Route("/cards", func(r chi.Router) {
		r.Post("/", cards.CreateCard)
		r.Get("/", cards.ListCards)
		r.Get("/due", cards.DueCards)
		r.Get("/search", cards.SearchCards)
		r.Post("/bulk/tag", cards.BulkUpdateTag)
		r.Post("/bulk/delete", cards.BulkDeleteCards)

		r.Get("/{id}", cards.GetCard)
		r.Put("/{id}", cards.UpdateCard)
		r.Delete("/{id}", cards.DeleteCard)
		r.Post("/{id}/review", cards.ReviewCard)
	})

	r.Get("/stats", cards.ReviewStats)
	r.Get("/tags", cards.Tags)
	r.Get("/tags/stats", cards.TagStats)

	r.Get("/settings", settings.GetSettings)
	r.Put("/settings", settings.UpdateSettings)
}

// Health handles GET /health requests
func Health(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithJSON(w, r, http.StatusOK, HealthResponse{Status: "ok"})
}
