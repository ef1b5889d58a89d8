package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/phrazzld/taskprefs-api/internal/api/shared"
	"github.com/phrazzld/taskprefs-api/internal/platform/logger"
	"github.com/phrazzld/taskprefs-api/internal/redact"
	"github.com/phrazzld/taskprefs-api/internal/service"
)

// PreferenceHandler handles the /preferences endpoints.
type PreferenceHandler struct {
	preferenceService service.PreferenceService
	logger            *slog.Logger
}

// NewPreferenceHandler creates a new PreferenceHandler
func NewPreferenceHandler(preferenceService service.PreferenceService, logger *slog.Logger) *PreferenceHandler {
	if preferenceService == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("preferenceService cannot be nil for PreferenceHandler")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PreferenceHandler{
		preferenceService: preferenceService,
		logger:            logger.With(slog.String("component", "preference_handler")),
	}
}

// GetPreferences handles GET /preferences requests. The response is a JSON
// object of every stored key, {} when there are none.
func (h *PreferenceHandler) GetPreferences(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := handleUserID(w, r, log)
	if !ok {
		return
	}

	prefs, err := h.preferenceService.GetPreferences(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get preferences")
		return
	}
	if prefs == nil {
		prefs = map[string]json.RawMessage{}
	}

	shared.RespondWithJSON(w, r, http.StatusOK, prefs)
}

// SetPreferences handles POST /preferences requests. The body is a JSON
// object whose entries are stored atomically.
func (h *PreferenceHandler) SetPreferences(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := handleUserID(w, r, log)
	if !ok {
		return
	}

	var values map[string]json.RawMessage
	if err := shared.DecodeJSON(r, &values); err != nil {
		log.Debug("invalid request format", slog.String("error", redact.Error(err)))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if values == nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.preferenceService.SetPreferences(r.Context(), userID, values); err != nil {
		HandleAPIError(w, r, err, "Failed to update preferences")
		return
	}

	shared.RespondWithMessage(w, r, http.StatusOK, "Preferences updated")
}
