package handler

import (
	"log/slog"
	"net/http"

	svc "mediafolders/internal/domain/services/mediafolders"
	"mediafolders/internal/httputil"
)

// TreeHandler handles HTTP requests for tree operations
type TreeHandler struct {
	treeService svc.TreeService
	logger      *slog.Logger
}

// NewTreeHandler creates a new tree handler
func NewTreeHandler(treeService svc.TreeService, logger *slog.Logger) *TreeHandler {
	return &TreeHandler{
		treeService: treeService,
		logger:      logger,
	}
}

// GetTree returns the nested folder tree with the uncategorized count
// GET /api/folders/tree
func (h *TreeHandler) GetTree(w http.ResponseWriter, r *http.Request) {
	data, err := h.treeService.GetFolderData(r.Context())
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondSuccess(w, http.StatusOK, data)
}
