package handler

import (
	"log/slog"
	"net/http"

	models "mediafolders/internal/domain/models/mediafolders"
	svc "mediafolders/internal/domain/services/mediafolders"
	"mediafolders/internal/httputil"
)

// SettingsHandler serves the media organizer options
type SettingsHandler struct {
	settingsService svc.SettingsService
	logger          *slog.Logger
}

// NewSettingsHandler creates a new settings handler
func NewSettingsHandler(settingsService svc.SettingsService, logger *slog.Logger) *SettingsHandler {
	return &SettingsHandler{
		settingsService: settingsService,
		logger:          logger,
	}
}

// GetSettings returns the current settings
// GET /api/settings
func (h *SettingsHandler) GetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.settingsService.GetSettings(r.Context())
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondSuccess(w, http.StatusOK, settings)
}

// UpdateSettings applies the fields present in the body
// PATCH /api/settings
func (h *SettingsHandler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateSettingsRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		badRequest(w, MsgInvalidBody)
		return
	}

	settings, err := h.settingsService.UpdateSettings(r.Context(), &req)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondSuccess(w, http.StatusOK, settings)
}
