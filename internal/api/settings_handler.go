package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/scry-deck/internal/api/shared"
	"github.com/phrazzld/scry-deck/internal/platform/logger"
	"github.com/phrazzld/scry-deck/internal/service"
)

// SettingsHandler serves the scheduling settings.
type SettingsHandler struct {
	cardService service.CardService
	logger      *slog.Logger
}

// NewSettingsHandler creates a new SettingsHandler
func NewSettingsHandler(cardService service.CardService, logger *slog.Logger) *SettingsHandler {
	if cardService == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("cardService cannot be nil for SettingsHandler")
	}
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for SettingsHandler")
	}

	return &SettingsHandler{
		cardService: cardService,
		logger:      logger.With(slog.String("component", "settings_handler")),
	}
}

// GetSettings handles GET /settings requests
func (h *SettingsHandler) GetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.cardService.Settings(r.Context())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get settings")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, settingsToResponse(settings))
}

// UpdateSettings handles PUT /settings requests
func (h *SettingsHandler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req SettingsRequest
	if !decodeAndValidate(w, r, log, &req) {
		return
	}

	settings, err := h.cardService.UpdateSettings(r.Context(), req.ToDomain())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update settings")
		return
	}

	log.Info("settings updated", slog.String("algorithm", string(settings.Algorithm)))
	shared.RespondWithJSON(w, r, http.StatusOK, settingsToResponse(settings))
}
