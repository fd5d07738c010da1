package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	models "mediafolders/internal/domain/models/mediafolders"
	svc "mediafolders/internal/domain/services/mediafolders"
	"mediafolders/internal/httputil"
)

// Folder notices
const (
	MsgFolderCreated = "Folder created successfully."
	MsgFolderRenamed = "Folder renamed successfully."
	MsgFolderMoved   = "Folder moved successfully."
	MsgFolderDeleted = "Folder deleted successfully."
	MsgInvalidFolder = "Invalid folder."
	MsgInvalidBody   = "Invalid request body."
)

// FolderHandler handles folder HTTP requests
type FolderHandler struct {
	folderService   svc.FolderService
	settingsService svc.SettingsService
	logger          *slog.Logger
}

// NewFolderHandler creates a new folder handler
func NewFolderHandler(folderService svc.FolderService, settingsService svc.SettingsService, logger *slog.Logger) *FolderHandler {
	return &FolderHandler{
		folderService:   folderService,
		settingsService: settingsService,
		logger:          logger,
	}
}

type createFolderResponse struct {
	Message string        `json:"message"`
	Folder  folderSummary `json:"folder"`
}

type folderSummary struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Slug   string `json:"slug"`
	Parent int64  `json:"parent"`
	Count  int    `json:"count"`
}

type renamedFolder struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type renameFolderResponse struct {
	Message string        `json:"message"`
	Folder  renamedFolder `json:"folder"`
}

type folderOptionsResponse struct {
	Options           []models.FolderOption `json:"options"`
	ShowUncategorized bool                  `json:"show_uncategorized"`
}

// CreateFolder creates a new folder
// POST /api/folders
func (h *FolderHandler) CreateFolder(w http.ResponseWriter, r *http.Request) {
	var req svc.CreateFolderRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		badRequest(w, MsgInvalidBody)
		return
	}

	folder, err := h.folderService.CreateFolder(r.Context(), &req)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondSuccess(w, http.StatusCreated, createFolderResponse{
		Message: MsgFolderCreated,
		Folder: folderSummary{
			ID:     folder.ID,
			Name:   folder.Name,
			Slug:   folder.Slug,
			Parent: folder.ParentID,
			Count:  folder.Count,
		},
	})
}

// ListFolders lists folders by name; parent_id narrows to direct children
// GET /api/folders?parent_id=
func (h *FolderHandler) ListFolders(w http.ResponseWriter, r *http.Request) {
	var parentID *int64
	if raw := r.URL.Query().Get("parent_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id < 0 {
			badRequest(w, MsgInvalidFolder)
			return
		}
		parentID = &id
	}

	folders, err := h.folderService.ListFolders(r.Context(), parentID)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondSuccess(w, http.StatusOK, folders)
}

// ListOptions returns the flattened folder dropdown
// GET /api/folders/options
func (h *FolderHandler) ListOptions(w http.ResponseWriter, r *http.Request) {
	options, err := h.folderService.ListOptions(r.Context())
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	settings, err := h.settingsService.GetSettings(r.Context())
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondSuccess(w, http.StatusOK, folderOptionsResponse{
		Options:           options,
		ShowUncategorized: settings.ShowUncategorized,
	})
}

// GetFolder retrieves a folder by ID
// GET /api/folders/{id}
func (h *FolderHandler) GetFolder(w http.ResponseWriter, r *http.Request) {
	id, err := httputil.PathID(r, "id")
	if err != nil {
		badRequest(w, MsgInvalidFolder)
		return
	}

	folder, err := h.folderService.GetFolder(r.Context(), id)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondSuccess(w, http.StatusOK, folder)
}

// RenameFolder renames a folder in place
// PATCH /api/folders/{id}
func (h *FolderHandler) RenameFolder(w http.ResponseWriter, r *http.Request) {
	id, err := httputil.PathID(r, "id")
	if err != nil {
		badRequest(w, MsgInvalidFolder)
		return
	}

	var req svc.RenameFolderRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		badRequest(w, MsgInvalidBody)
		return
	}

	folder, err := h.folderService.RenameFolder(r.Context(), id, &req)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondSuccess(w, http.StatusOK, renameFolderResponse{
		Message: MsgFolderRenamed,
		Folder:  renamedFolder{ID: folder.ID, Name: folder.Name, Slug: folder.Slug},
	})
}

// MoveFolder reparents a folder
// PUT /api/folders/{id}/parent
func (h *FolderHandler) MoveFolder(w http.ResponseWriter, r *http.Request) {
	id, err := httputil.PathID(r, "id")
	if err != nil {
		badRequest(w, MsgInvalidFolder)
		return
	}

	var req svc.MoveFolderRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		badRequest(w, MsgInvalidBody)
		return
	}

	if _, err := h.folderService.MoveFolder(r.Context(), id, &req); err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondSuccess(w, http.StatusOK, messageResponse{Message: MsgFolderMoved})
}

// DeleteFolder deletes a folder; ?reassign=true moves its media to the parent
// DELETE /api/folders/{id}
func (h *FolderHandler) DeleteFolder(w http.ResponseWriter, r *http.Request) {
	id, err := httputil.PathID(r, "id")
	if err != nil {
		badRequest(w, MsgInvalidFolder)
		return
	}

	req := &svc.DeleteFolderRequest{Reassign: httputil.QueryBool(r, "reassign")}
	if err := h.folderService.DeleteFolder(r.Context(), id, req); err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondSuccess(w, http.StatusOK, messageResponse{Message: MsgFolderDeleted})
}
