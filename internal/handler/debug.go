package handler

import (
	"log/slog"
	"net/http"

	"mediafolders/internal/config"
	"mediafolders/internal/httputil"
)

// DebugLogStore is the readable, clearable debug log
type DebugLogStore interface {
	Tail(lines int) (string, error)
	Clear() error
	Path() string
}

// DebugLogHandler exposes the debug log for manual diagnostics
type DebugLogHandler struct {
	log    DebugLogStore
	logger *slog.Logger
}

// NewDebugLogHandler creates a new debug log handler
func NewDebugLogHandler(log DebugLogStore, logger *slog.Logger) *DebugLogHandler {
	return &DebugLogHandler{log: log, logger: logger}
}

type debugLogResponse struct {
	Path     string `json:"path"`
	Contents string `json:"contents"`
}

// GetLog returns the last lines of the debug log
// GET /debug/log?lines=N
func (h *DebugLogHandler) GetLog(w http.ResponseWriter, r *http.Request) {
	lines, err := httputil.QueryInt(r, "lines", config.DefaultDebugLogLines)
	if err != nil || lines <= 0 {
		badRequest(w, "lines must be a positive integer")
		return
	}
	if lines > config.MaxDebugLogLines {
		lines = config.MaxDebugLogLines
	}

	contents, err := h.log.Tail(lines)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondSuccess(w, http.StatusOK, debugLogResponse{Path: h.log.Path(), Contents: contents})
}

// ClearLog empties the debug log
// DELETE /debug/log
func (h *DebugLogHandler) ClearLog(w http.ResponseWriter, r *http.Request) {
	if err := h.log.Clear(); err != nil {
		handleError(w, h.logger, err)
		return
	}

	h.logger.Info("debug log cleared", "user_id", httputil.GetUserID(r))
	httputil.RespondSuccess(w, http.StatusOK, messageResponse{Message: "Debug log cleared."})
}
