package handler

import (
	"fmt"
	"log/slog"
	"net/http"

	"mediafolders/internal/domain"
	models "mediafolders/internal/domain/models/mediafolders"
	svc "mediafolders/internal/domain/services/mediafolders"
	"mediafolders/internal/httputil"
)

// MsgNoMediaSelected is returned when an assignment names no attachments
const MsgNoMediaSelected = "No media items selected."

// BulkRecorder counts attachments processed by bulk assignments
type BulkRecorder interface {
	RecordBulkAssign(mode string, processed int)
}

// AssignmentHandler serves attachment-to-folder assignment and the admin list bulk actions
type AssignmentHandler struct {
	assocService  svc.AssociationService
	folderService svc.FolderService
	recorder      BulkRecorder
	logger        *slog.Logger
}

// NewAssignmentHandler creates a new assignment handler. recorder may be nil.
func NewAssignmentHandler(
	assocService svc.AssociationService,
	folderService svc.FolderService,
	recorder BulkRecorder,
	logger *slog.Logger,
) *AssignmentHandler {
	return &AssignmentHandler{
		assocService:  assocService,
		folderService: folderService,
		recorder:      recorder,
		logger:        logger,
	}
}

type assignRequest struct {
	AttachmentIDs []int64 `json:"attachment_ids"`
	FolderID      int64   `json:"folder_id"`
}

type assignResponse struct {
	Message string `json:"message"`
	Count   int    `json:"count"`
}

type bulkResponse struct {
	Message   string `json:"message"`
	Processed int    `json:"processed"`
}

// Assign moves each attachment into the folder (0 removes every folder).
// Missing attachments and per-item failures are skipped; count reports the successes.
// POST /api/attachments/assign
func (h *AssignmentHandler) Assign(w http.ResponseWriter, r *http.Request) {
	var req assignRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		badRequest(w, MsgInvalidBody)
		return
	}
	if len(req.AttachmentIDs) == 0 {
		handleError(w, h.logger, &domain.ValidationError{Message: MsgNoMediaSelected})
		return
	}

	if req.FolderID < 0 {
		badRequest(w, MsgInvalidFolder)
		return
	}
	if req.FolderID != models.RootFolderID {
		if _, err := h.folderService.GetFolder(r.Context(), req.FolderID); err != nil {
			handleError(w, h.logger, err)
			return
		}
	}

	count := 0
	for _, attachmentID := range req.AttachmentIDs {
		if attachmentID <= 0 {
			continue
		}
		ok, err := h.assocService.Assign(r.Context(), attachmentID, req.FolderID)
		if err != nil {
			h.logger.Warn("assign item failed",
				"attachment_id", attachmentID,
				"folder_id", req.FolderID,
				"error", err,
			)
			continue
		}
		if ok {
			count++
		}
	}

	httputil.RespondSuccess(w, http.StatusOK, assignResponse{
		Message: assignedMessage(count),
		Count:   count,
	})
}

// BulkAssign moves or adds the attachments to a folder, skipping failures
// POST /api/attachments/bulk-assign
func (h *AssignmentHandler) BulkAssign(w http.ResponseWriter, r *http.Request) {
	var req svc.BulkAssignRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		badRequest(w, MsgInvalidBody)
		return
	}

	result, err := h.assocService.BulkAssign(r.Context(), &req)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}
	h.record(string(req.Mode), result.Processed)

	httputil.RespondSuccess(w, http.StatusOK, bulkResponse{Message: result.Message, Processed: result.Processed})
}

// ListBulkActions returns the admin list bulk-action menu
// GET /api/attachments/bulk-actions
func (h *AssignmentHandler) ListBulkActions(w http.ResponseWriter, r *http.Request) {
	actions, err := h.assocService.ListBulkActions(r.Context())
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondSuccess(w, http.StatusOK, actions)
}

// RunBulkAction executes one admin list bulk action
// POST /api/attachments/bulk-action
func (h *AssignmentHandler) RunBulkAction(w http.ResponseWriter, r *http.Request) {
	var req svc.BulkActionRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		badRequest(w, MsgInvalidBody)
		return
	}

	result, err := h.assocService.RunBulkAction(r.Context(), &req)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}
	h.record(string(models.AssignModeMove), result.Processed)

	httputil.RespondSuccess(w, http.StatusOK, bulkResponse{Message: result.Message, Processed: result.Processed})
}

func (h *AssignmentHandler) record(mode string, processed int) {
	if h.recorder == nil {
		return
	}
	if mode == "" {
		mode = string(models.AssignModeMove)
	}
	h.recorder.RecordBulkAssign(mode, processed)
}

func assignedMessage(count int) string {
	if count == 1 {
		return "1 item moved to folder."
	}
	return fmt.Sprintf("%d items moved to folder.", count)
}
