package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/phrazzld/scry-deck/internal/api/shared"
	"github.com/phrazzld/scry-deck/internal/domain"
	"github.com/phrazzld/scry-deck/internal/platform/logger"
	"github.com/phrazzld/scry-deck/internal/redact"
	"github.com/phrazzld/scry-deck/internal/service"
)

// CardHandler handles card-related HTTP requests
type CardHandler struct {
	cardService service.CardService
	logger      *slog.Logger
}

// NewCardHandler creates a new CardHandler
func NewCardHandler(cardService service.CardService, logger *slog.Logger) *CardHandler {
	if cardService == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("cardService cannot be nil for CardHandler")
	}
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for CardHandler")
	}

	return &CardHandler{
		cardService: cardService,
		logger:      logger.With(slog.String("component", "card_handler")),
	}
}

// decodeAndValidate reads the JSON body into req and validates it, writing a
// 400 response and returning false on failure.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, log *slog.Logger, req interface{}) bool {
	if err := shared.DecodeJSON(r, req); err != nil {
		log.Warn("invalid request format", slog.String("error", redact.Error(err)))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return false
	}

	if err := shared.ValidateRequest(req); err != nil {
		log.Warn("validation error", slog.String("error", redact.Error(err)))
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return false
	}
	return true
}

// CreateCard handles POST /cards requests
func (h *CardHandler) CreateCard(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req CardRequest
	if !decodeAndValidate(w, r, log, &req) {
		return
	}

	card, err := h.cardService.CreateCard(r.Context(), req.Front, req.Back, req.Tag)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create card")
		return
	}

	log.Debug("card created", slog.String("card_id", card.ID))
	shared.RespondWithJSON(w, r, http.StatusCreated, cardToResponse(card))
}

// ListCards handles GET /cards requests
func (h *CardHandler) ListCards(w http.ResponseWriter, r *http.Request) {
	cards, err := h.cardService.ListCards(r.Context())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list cards")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, cardsToResponse(cards))
}

// GetCard handles GET /cards/{id} requests.
// An unknown ID is answered with 200 and a null body.
func (h *CardHandler) GetCard(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	card, err := h.cardService.GetCard(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get card")
		return
	}
	if card == nil {
		shared.RespondWithJSON(w, r, http.StatusOK, nil)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, cardToResponse(card))
}

// UpdateCard handles PUT /cards/{id} requests
func (h *CardHandler) UpdateCard(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	id := chi.URLParam(r, "id")

	var req CardRequest
	if !decodeAndValidate(w, r, log, &req) {
		return
	}

	card, err := h.cardService.UpdateCard(r.Context(), id, req.Front, req.Back, req.Tag)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update card")
		return
	}

	log.Debug("card updated", slog.String("card_id", id))
	shared.RespondWithJSON(w, r, http.StatusOK, cardToResponse(card))
}

// DeleteCard handles DELETE /cards/{id} requests
func (h *CardHandler) DeleteCard(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.cardService.DeleteCard(r.Context(), id); err != nil {
		HandleAPIError(w, r, err, "Failed to delete card")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DueCards handles GET /cards/due requests
func (h *CardHandler) DueCards(w http.ResponseWriter, r *http.Request) {
	cards, err := h.cardService.DueCards(r.Context())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get due cards")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, cardsToResponse(cards))
}

// ReviewCard handles POST /cards/{id}/review requests
func (h *CardHandler) ReviewCard(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	id := chi.URLParam(r, "id")

	var req ReviewRequest
	if !decodeAndValidate(w, r, log, &req) {
		return
	}

	difficulty, err := domain.DifficultyFromCode(*req.Difficulty)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	card, err := h.cardService.ReviewCard(r.Context(), id, difficulty)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to review card")
		return
	}

	log.Debug("card reviewed",
		slog.String("card_id", id),
		slog.String("difficulty", string(difficulty)),
		slog.Time("next_review", card.NextReview))
	shared.RespondWithJSON(w, r, http.StatusOK, cardToResponse(card))
}

// SearchCards handles GET /cards/search requests.
// Absent query parameters do not filter.
func (h *CardHandler) SearchCards(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()

	var query, tag *string
	if params.Has("query") {
		q := params.Get("query")
		query = &q
	}
	if params.Has("tag") {
		t := params.Get("tag")
		tag = &t
	}

	cards, err := h.cardService.SearchCards(r.Context(), query, tag)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to search cards")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, cardsToResponse(cards))
}

// BulkUpdateTag handles POST /cards/bulk/tag requests
func (h *CardHandler) BulkUpdateTag(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req BulkTagRequest
	if !decodeAndValidate(w, r, log, &req) {
		return
	}

	cards, err := h.cardService.BulkUpdateTag(r.Context(), req.CardIDs, req.Tag)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update tags")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, cardsToResponse(cards))
}

// BulkDeleteCards handles POST /cards/bulk/delete requests
func (h *CardHandler) BulkDeleteCards(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req BulkDeleteRequest
	if !decodeAndValidate(w, r, log, &req) {
		return
	}

	if err := h.cardService.DeleteCards(r.Context(), req.CardIDs); err != nil {
		HandleAPIError(w, r, err, "Failed to delete cards")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ReviewStats handles GET /stats requests
func (h *CardHandler) ReviewStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.cardService.ReviewStats(r.Context())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to compute statistics")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, stats)
}

// Tags handles GET /tags requests
func (h *CardHandler) Tags(w http.ResponseWriter, r *http.Request) {
	tags, err := h.cardService.Tags(r.Context())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list tags")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, tags)
}

// TagStats handles GET /tags/stats requests
func (h *CardHandler) TagStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.cardService.TagStats(r.Context())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to compute tag statistics")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, stats)
}
