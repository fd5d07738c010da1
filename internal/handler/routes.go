package handler

import "net/http"

// Handlers groups every HTTP handler the server mounts.
// DebugLog and Metrics are optional.
type Handlers struct {
	Folder     *FolderHandler
	Tree       *TreeHandler
	Attachment *AttachmentHandler
	Assignment *AssignmentHandler
	Settings   *SettingsHandler
	Health     *HealthHandler
	DebugLog   *DebugLogHandler
	Metrics    http.Handler
}

// RegisterRoutes mounts the routes on mux (Go 1.22+ method patterns).
// protect wraps every route that needs an authenticated, capable session.
func RegisterRoutes(mux *http.ServeMux, h *Handlers, protect func(http.Handler) http.Handler) {
	api := func(pattern string, fn http.HandlerFunc) {
		mux.Handle(pattern, protect(fn))
	}

	// Public
	mux.HandleFunc("GET /health", h.Health.HealthCheck)
	if h.Metrics != nil {
		mux.Handle("GET /metrics", h.Metrics)
	}

	// Folder routes (literal segments win over {id})
	api("POST /api/folders", h.Folder.CreateFolder)
	api("GET /api/folders", h.Folder.ListFolders)
	api("GET /api/folders/options", h.Folder.ListOptions)
	api("GET /api/folders/tree", h.Tree.GetTree)
	api("GET /api/folders/{id}", h.Folder.GetFolder)
	api("PATCH /api/folders/{id}", h.Folder.RenameFolder)
	api("PUT /api/folders/{id}/parent", h.Folder.MoveFolder)
	api("DELETE /api/folders/{id}", h.Folder.DeleteFolder)

	// Assignment routes
	api("POST /api/attachments/assign", h.Assignment.Assign)
	api("POST /api/attachments/bulk-assign", h.Assignment.BulkAssign)
	api("GET /api/attachments/bulk-actions", h.Assignment.ListBulkActions)
	api("POST /api/attachments/bulk-action", h.Assignment.RunBulkAction)

	// Attachment routes
	api("GET /api/attachments", h.Attachment.ListAdminGrid)
	api("POST /api/attachments", h.Attachment.RegisterAttachment)
	api("POST /api/attachments/query", h.Attachment.QueryAttachments)
	api("GET /api/attachments/{id}", h.Attachment.GetAttachment)
	api("DELETE /api/attachments/{id}", h.Attachment.DeleteAttachment)

	// Insertion modal
	api("GET /api/modal/attachments", h.Attachment.ListModal)
	api("GET /api/modal/folders", h.Attachment.ListModalFolders)

	// Settings
	api("GET /api/settings", h.Settings.GetSettings)
	api("PATCH /api/settings", h.Settings.UpdateSettings)

	// Debug log (only when enabled)
	if h.DebugLog != nil {
		api("GET /debug/log", h.DebugLog.GetLog)
		api("DELETE /debug/log", h.DebugLog.ClearLog)
	}
}
