package handler

import (
	"log/slog"
	"net/http"
	"strings"

	models "mediafolders/internal/domain/models/mediafolders"
	svc "mediafolders/internal/domain/services/mediafolders"
	"mediafolders/internal/httputil"
)

// Attachment notices
const (
	MsgAttachmentDeleted = "Attachment deleted successfully."
	MsgInvalidAttachment = "Invalid attachment."
	MsgInvalidPaging     = "Invalid pagination parameters."
)

// AttachmentHandler serves attachment registration and the three listing surfaces
type AttachmentHandler struct {
	attachmentService svc.AttachmentService
	folderService     svc.FolderService
	settingsService   svc.SettingsService
	logger            *slog.Logger
}

// NewAttachmentHandler creates a new attachment handler
func NewAttachmentHandler(
	attachmentService svc.AttachmentService,
	folderService svc.FolderService,
	settingsService svc.SettingsService,
	logger *slog.Logger,
) *AttachmentHandler {
	return &AttachmentHandler{
		attachmentService: attachmentService,
		folderService:     folderService,
		settingsService:   settingsService,
		logger:            logger,
	}
}

// attachmentQueryRequest is the body of the generic attachment query.
// Field names follow the media library's query arguments.
type attachmentQueryRequest struct {
	MediaFolder string `json:"media_folder"`
	Query       struct {
		Search       string `json:"search"`
		MimeType     string `json:"mime_type"`
		OrderBy      string `json:"orderby"`
		Order        string `json:"order"`
		PostsPerPage int    `json:"posts_per_page"`
		Paged        int    `json:"paged"`
	} `json:"query"`
}

type modalFoldersResponse struct {
	Enabled bool                  `json:"enabled"`
	Options []models.FolderOption `json:"options"`
}

// ListAdminGrid lists attachments for the media library grid
// GET /api/attachments?media_folder=&search=&mime_type=&orderby=&order=&status=&limit=&offset=
func (h *AttachmentHandler) ListAdminGrid(w http.ResponseWriter, r *http.Request) {
	h.listFromQueryString(w, r, svc.SurfaceAdminGrid)
}

// ListModal lists attachments for the insertion modal
// GET /api/modal/attachments?media_folder=
func (h *AttachmentHandler) ListModal(w http.ResponseWriter, r *http.Request) {
	h.listFromQueryString(w, r, svc.SurfaceInsertModal)
}

func (h *AttachmentHandler) listFromQueryString(w http.ResponseWriter, r *http.Request, surface svc.Surface) {
	query, err := parseListQuery(r)
	if err != nil {
		badRequest(w, MsgInvalidPaging)
		return
	}
	selector := models.ParseFolderSelector(r.URL.Query().Get("media_folder"))

	page, err := h.attachmentService.ListAttachments(r.Context(), surface, selector, query)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondSuccess(w, http.StatusOK, page)
}

// QueryAttachments runs the generic attachment query used by the media modal grid
// POST /api/attachments/query
func (h *AttachmentHandler) QueryAttachments(w http.ResponseWriter, r *http.Request) {
	var req attachmentQueryRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		badRequest(w, MsgInvalidBody)
		return
	}

	query := &models.AttachmentQuery{
		Search:   req.Query.Search,
		MimeType: req.Query.MimeType,
		OrderBy:  req.Query.OrderBy,
		Order:    req.Query.Order,
	}
	if req.Query.PostsPerPage > 0 {
		query.Limit = req.Query.PostsPerPage
	}
	if req.Query.Paged > 1 {
		limit := query.Limit
		if limit == 0 {
			limit = models.DefaultAttachmentLimit
		}
		query.Offset = (req.Query.Paged - 1) * limit
	}

	page, err := h.attachmentService.ListAttachments(r.Context(), svc.SurfaceAjaxQuery,
		models.ParseFolderSelector(req.MediaFolder), query)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondSuccess(w, http.StatusOK, page)
}

// ListModalFolders returns the folder dropdown for the insertion modal
// GET /api/modal/folders
func (h *AttachmentHandler) ListModalFolders(w http.ResponseWriter, r *http.Request) {
	settings, err := h.settingsService.GetSettings(r.Context())
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	resp := modalFoldersResponse{Enabled: settings.EnableModalFilter, Options: []models.FolderOption{}}
	if settings.EnableModalFilter {
		options, err := h.folderService.ListOptions(r.Context())
		if err != nil {
			handleError(w, h.logger, err)
			return
		}
		resp.Options = options
	}

	httputil.RespondSuccess(w, http.StatusOK, resp)
}

// RegisterAttachment records a new media item
// POST /api/attachments
func (h *AttachmentHandler) RegisterAttachment(w http.ResponseWriter, r *http.Request) {
	var req svc.RegisterAttachmentRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		badRequest(w, MsgInvalidBody)
		return
	}

	attachment, err := h.attachmentService.RegisterAttachment(r.Context(), &req)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondSuccess(w, http.StatusCreated, attachment)
}

// GetAttachment returns an attachment with its folders
// GET /api/attachments/{id}
func (h *AttachmentHandler) GetAttachment(w http.ResponseWriter, r *http.Request) {
	id, err := httputil.PathID(r, "id")
	if err != nil {
		badRequest(w, MsgInvalidAttachment)
		return
	}

	attachment, err := h.attachmentService.GetAttachment(r.Context(), id)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondSuccess(w, http.StatusOK, attachment)
}

// DeleteAttachment removes an attachment and its folder associations
// DELETE /api/attachments/{id}
func (h *AttachmentHandler) DeleteAttachment(w http.ResponseWriter, r *http.Request) {
	id, err := httputil.PathID(r, "id")
	if err != nil {
		badRequest(w, MsgInvalidAttachment)
		return
	}

	if err := h.attachmentService.DeleteAttachment(r.Context(), id); err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondSuccess(w, http.StatusOK, messageResponse{Message: MsgAttachmentDeleted})
}

// parseListQuery reads listing parameters from the query string
func parseListQuery(r *http.Request) (*models.AttachmentQuery, error) {
	limit, err := httputil.QueryInt(r, "limit", 0)
	if err != nil {
		return nil, err
	}
	offset, err := httputil.QueryInt(r, "offset", 0)
	if err != nil {
		return nil, err
	}

	q := r.URL.Query()
	query := &models.AttachmentQuery{
		Search:   q.Get("search"),
		MimeType: q.Get("mime_type"),
		OrderBy:  q.Get("orderby"),
		Order:    q.Get("order"),
		Limit:    limit,
		Offset:   offset,
	}
	if raw := q.Get("status"); raw != "" {
		for _, status := range strings.Split(raw, ",") {
			if status = strings.TrimSpace(status); status != "" {
				query.Statuses = append(query.Statuses, status)
			}
		}
	}
	return query, nil
}
