package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"mediafolders/internal/domain"
	models "mediafolders/internal/domain/models/mediafolders"
	svc "mediafolders/internal/domain/services/mediafolders"
)

type response struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`

	ResourceID int64 `json:"resource_id"`
}

func (env *testEnv) do(t *testing.T, method, target, body string) (int, response) {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	env.mux.ServeHTTP(rec, req)

	var resp response
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("%s %s: decode %q: %v", method, target, rec.Body.String(), err)
	}
	return rec.Code, resp
}

func decodeData[T any](t *testing.T, resp response) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(resp.Data, &out); err != nil {
		t.Fatalf("decode data %s: %v", resp.Data, err)
	}
	return out
}

func TestCreateFolder(t *testing.T) {
	env := newTestEnv()
	env.folders.create = func(req *svc.CreateFolderRequest) (*models.Folder, error) {
		switch req.Name {
		case "":
			return nil, &domain.ValidationError{Message: "Folder name is required."}
		case "Photos":
			return nil, &domain.DuplicateError{Message: "A folder with this name already exists.", ResourceType: "folder", ResourceID: 3}
		}
		return &models.Folder{ID: 9, Name: req.Name, Slug: "vacation", ParentID: req.ParentID}, nil
	}

	t.Run("created", func(t *testing.T) {
		status, resp := env.do(t, http.MethodPost, "/api/folders", `{"name":"Vacation","parent_id":3}`)
		if status != http.StatusCreated || !resp.Success {
			t.Fatalf("status = %d, success = %v", status, resp.Success)
		}
		data := decodeData[createFolderResponse](t, resp)
		want := folderSummary{ID: 9, Name: "Vacation", Slug: "vacation", Parent: 3, Count: 0}
		if data.Message != MsgFolderCreated || data.Folder != want {
			t.Errorf("data = %+v", data)
		}
	})

	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantMsg    string
	}{
		{name: "malformed body", body: `{"name":`, wantStatus: http.StatusBadRequest, wantMsg: MsgInvalidBody},
		{name: "empty name", body: `{"name":""}`, wantStatus: http.StatusBadRequest, wantMsg: "Folder name is required."},
		{name: "duplicate", body: `{"name":"Photos"}`, wantStatus: http.StatusConflict, wantMsg: "A folder with this name already exists."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, resp := env.do(t, http.MethodPost, "/api/folders", tt.body)
			if status != tt.wantStatus || resp.Success || resp.Message != tt.wantMsg {
				t.Errorf("got %d %+v, want %d %q", status, resp, tt.wantStatus, tt.wantMsg)
			}
		})
	}

	t.Run("duplicate carries the existing folder id", func(t *testing.T) {
		_, resp := env.do(t, http.MethodPost, "/api/folders", `{"name":"Photos"}`)
		if resp.ResourceID != 3 {
			t.Errorf("resource_id = %d, want 3", resp.ResourceID)
		}
	})
}

func TestFolderMutations(t *testing.T) {
	env := newTestEnv()
	var gotDelete *svc.DeleteFolderRequest
	var gotMove *svc.MoveFolderRequest
	env.folders.rename = func(id int64, req *svc.RenameFolderRequest) (*models.Folder, error) {
		return &models.Folder{ID: id, Name: req.Name, Slug: "holidays"}, nil
	}
	env.folders.move = func(id int64, req *svc.MoveFolderRequest) (*models.Folder, error) {
		gotMove = req
		if req.ParentID == id {
			return nil, &domain.CycleError{Message: "Cannot move folder to itself."}
		}
		return &models.Folder{ID: id, ParentID: req.ParentID}, nil
	}
	env.folders.delete = func(id int64, req *svc.DeleteFolderRequest) error {
		gotDelete = req
		if id == 404 {
			return &domain.NotFoundError{Message: "Folder 404 not found."}
		}
		return nil
	}

	t.Run("rename", func(t *testing.T) {
		status, resp := env.do(t, http.MethodPatch, "/api/folders/5", `{"name":"Holidays"}`)
		data := decodeData[renameFolderResponse](t, resp)
		if status != http.StatusOK || data.Message != MsgFolderRenamed || data.Folder != (renamedFolder{ID: 5, Name: "Holidays", Slug: "holidays"}) {
			t.Errorf("got %d %+v", status, data)
		}
	})

	t.Run("move", func(t *testing.T) {
		status, resp := env.do(t, http.MethodPut, "/api/folders/5/parent", `{"parent_id":2}`)
		if status != http.StatusOK || gotMove.ParentID != 2 {
			t.Fatalf("got %d, move = %+v", status, gotMove)
		}
		if data := decodeData[messageResponse](t, resp); data.Message != MsgFolderMoved {
			t.Errorf("message = %q", data.Message)
		}
	})

	t.Run("move to self is a conflict", func(t *testing.T) {
		status, resp := env.do(t, http.MethodPut, "/api/folders/5/parent", `{"parent_id":5}`)
		if status != http.StatusConflict || resp.Message != "Cannot move folder to itself." {
			t.Errorf("got %d %q", status, resp.Message)
		}
	})

	t.Run("delete with reassign", func(t *testing.T) {
		status, resp := env.do(t, http.MethodDelete, "/api/folders/5?reassign=true", "")
		if status != http.StatusOK || !gotDelete.Reassign {
			t.Fatalf("got %d, delete = %+v", status, gotDelete)
		}
		if data := decodeData[messageResponse](t, resp); data.Message != MsgFolderDeleted {
			t.Errorf("message = %q", data.Message)
		}
	})

	t.Run("delete without reassign", func(t *testing.T) {
		env.do(t, http.MethodDelete, "/api/folders/5", "")
		if gotDelete.Reassign {
			t.Error("reassign should default to false")
		}
	})

	t.Run("delete unknown folder", func(t *testing.T) {
		status, resp := env.do(t, http.MethodDelete, "/api/folders/404", "")
		if status != http.StatusNotFound || resp.Message != "Folder 404 not found." {
			t.Errorf("got %d %q", status, resp.Message)
		}
	})

	t.Run("invalid id", func(t *testing.T) {
		status, resp := env.do(t, http.MethodDelete, "/api/folders/abc", "")
		if status != http.StatusBadRequest || resp.Message != MsgInvalidFolder {
			t.Errorf("got %d %q", status, resp.Message)
		}
	})
}

func TestListFoldersAndOptions(t *testing.T) {
	env := newTestEnv()
	var gotParent *int64
	env.folders.list = func(parentID *int64) ([]models.Folder, error) {
		gotParent = parentID
		return []models.Folder{{ID: 1, Name: "A"}}, nil
	}
	env.folders.options = func() ([]models.FolderOption, error) {
		return []models.FolderOption{{ID: 1, Name: "A"}, {ID: 2, Name: "B", Depth: 1}}, nil
	}

	env.do(t, http.MethodGet, "/api/folders", "")
	if gotParent != nil {
		t.Errorf("parent = %v, want nil", *gotParent)
	}
	env.do(t, http.MethodGet, "/api/folders?parent_id=0", "")
	if gotParent == nil || *gotParent != 0 {
		t.Error("parent_id=0 should list root folders")
	}
	if status, _ := env.do(t, http.MethodGet, "/api/folders?parent_id=-1", ""); status != http.StatusBadRequest {
		t.Errorf("negative parent status = %d", status)
	}

	status, resp := env.do(t, http.MethodGet, "/api/folders/options", "")
	data := decodeData[folderOptionsResponse](t, resp)
	if status != http.StatusOK || len(data.Options) != 2 || !data.ShowUncategorized {
		t.Errorf("got %d %+v", status, data)
	}
}

func TestGetTree(t *testing.T) {
	env := newTestEnv()
	env.tree.data = &models.FolderData{
		Folders: []*models.FolderTreeNode{{
			ID: 5, Name: "Photos", Count: 0,
			Children: []*models.FolderTreeNode{{ID: 6, Name: "Vacation", ParentID: 5, Count: 1, Children: []*models.FolderTreeNode{}}},
		}},
		UncategorizedCount: 2,
	}

	status, resp := env.do(t, http.MethodGet, "/api/folders/tree", "")
	data := decodeData[models.FolderData](t, resp)
	if status != http.StatusOK || data.UncategorizedCount != 2 || data.Folders[0].Children[0].Count != 1 {
		t.Errorf("got %d %+v", status, data)
	}

	env.tree.err = errors.New("connection reset")
	status, resp = env.do(t, http.MethodGet, "/api/folders/tree", "")
	if status != http.StatusInternalServerError || strings.Contains(resp.Message, "connection") {
		t.Errorf("internal errors must not leak: %d %q", status, resp.Message)
	}
}

func TestAssign(t *testing.T) {
	env := newTestEnv()
	env.folders.get = func(id int64) (*models.Folder, error) {
		if id == 99 {
			return nil, &domain.NotFoundError{Message: "Folder 99 not found."}
		}
		return &models.Folder{ID: id, Name: "Photos"}, nil
	}
	var assigned []int64
	env.assoc.assign = func(attachmentID, folderID int64) (bool, error) {
		if attachmentID == 404 {
			return false, nil
		}
		assigned = append(assigned, attachmentID)
		return true, nil
	}

	status, resp := env.do(t, http.MethodPost, "/api/attachments/assign", `{"attachment_ids":[1,404,2,0],"folder_id":6}`)
	data := decodeData[assignResponse](t, resp)
	if status != http.StatusOK || data.Count != 2 || data.Message != "2 items moved to folder." {
		t.Errorf("got %d %+v", status, data)
	}
	if len(assigned) != 2 {
		t.Errorf("assigned = %v", assigned)
	}

	if status, resp := env.do(t, http.MethodPost, "/api/attachments/assign", `{"attachment_ids":[],"folder_id":6}`); status != http.StatusBadRequest || resp.Message != MsgNoMediaSelected {
		t.Errorf("empty selection: %d %q", status, resp.Message)
	}

	assigned = nil
	if status, _ := env.do(t, http.MethodPost, "/api/attachments/assign", `{"attachment_ids":[1],"folder_id":99}`); status != http.StatusNotFound {
		t.Errorf("unknown folder status = %d", status)
	}
	if len(assigned) != 0 {
		t.Errorf("unknown folder still assigned %v", assigned)
	}
}

func TestAssign_SkipsFailedItems(t *testing.T) {
	env := newTestEnv()
	env.folders.get = func(id int64) (*models.Folder, error) {
		return &models.Folder{ID: id, Name: "Photos"}, nil
	}
	var attempted, written []int64
	env.assoc.assign = func(attachmentID, folderID int64) (bool, error) {
		attempted = append(attempted, attachmentID)
		if attachmentID == 2 {
			return false, errors.New("conn reset")
		}
		written = append(written, attachmentID)
		return true, nil
	}

	status, resp := env.do(t, http.MethodPost, "/api/attachments/assign", `{"attachment_ids":[1,2,3],"folder_id":6}`)
	if status != http.StatusOK {
		t.Fatalf("status = %d, message %q", status, resp.Message)
	}
	data := decodeData[assignResponse](t, resp)
	if data.Count != 2 || data.Message != "2 items moved to folder." {
		t.Errorf("data = %+v", data)
	}
	if len(attempted) != 3 {
		t.Errorf("attempted = %v, want every id tried", attempted)
	}
	if len(written) != 2 || written[0] != 1 || written[1] != 3 {
		t.Errorf("written = %v, want [1 3]", written)
	}

	// Clearing folders needs no folder lookup
	env.folders.get = nil
	if status, _ := env.do(t, http.MethodPost, "/api/attachments/assign", `{"attachment_ids":[1],"folder_id":0}`); status != http.StatusOK {
		t.Errorf("uncategorize status = %d", status)
	}
}

func TestBulkEndpoints(t *testing.T) {
	env := newTestEnv()
	var gotBulk *svc.BulkAssignRequest
	env.assoc.bulkAssign = func(req *svc.BulkAssignRequest) (*svc.BulkAssignResult, error) {
		gotBulk = req
		return &svc.BulkAssignResult{Message: `2 items moved to "Photos".`, Processed: 2, FolderName: "Photos"}, nil
	}
	env.assoc.bulkActions = func() ([]svc.BulkAction, error) {
		return []svc.BulkAction{{Action: "tpf_mo_move_5", Label: "Move to: Photos"}, {Action: "tpf_mo_remove_folder", Label: "Remove from all folders"}}, nil
	}
	env.assoc.runAction = func(req *svc.BulkActionRequest) (*svc.BulkAssignResult, error) {
		if req.Action != "tpf_mo_remove_folder" {
			return nil, &domain.ValidationError{Message: "Unknown bulk action."}
		}
		return &svc.BulkAssignResult{Message: "1 item removed from folders.", Processed: 1}, nil
	}

	status, resp := env.do(t, http.MethodPost, "/api/attachments/bulk-assign", `{"attachment_ids":[1,2],"folder_id":5,"mode":"add"}`)
	data := decodeData[bulkResponse](t, resp)
	if status != http.StatusOK || data.Processed != 2 || gotBulk.Mode != models.AssignModeAdd {
		t.Errorf("bulk-assign: %d %+v %+v", status, data, gotBulk)
	}
	if env.recorder.byMode["add"] != 2 {
		t.Errorf("recorded = %v", env.recorder.byMode)
	}

	status, resp = env.do(t, http.MethodGet, "/api/attachments/bulk-actions", "")
	if actions := decodeData[[]svc.BulkAction](t, resp); status != http.StatusOK || len(actions) != 2 {
		t.Errorf("bulk-actions: %d %+v", status, actions)
	}

	status, resp = env.do(t, http.MethodPost, "/api/attachments/bulk-action", `{"action":"tpf_mo_remove_folder","attachment_ids":[1]}`)
	if data := decodeData[bulkResponse](t, resp); status != http.StatusOK || data.Message != "1 item removed from folders." {
		t.Errorf("bulk-action: %d %+v", status, data)
	}
	if env.recorder.byMode["move"] != 1 {
		t.Errorf("recorded = %v", env.recorder.byMode)
	}

	status, resp = env.do(t, http.MethodPost, "/api/attachments/bulk-action", `{"action":"delete_everything","attachment_ids":[1]}`)
	if status != http.StatusBadRequest || resp.Message != "Unknown bulk action." {
		t.Errorf("unknown action: %d %q", status, resp.Message)
	}
}

func TestListingSurfacesShareTheSelector(t *testing.T) {
	env := newTestEnv()

	env.do(t, http.MethodGet, "/api/attachments?media_folder=6&search=beach&mime_type=image&status=inherit,private&limit=10&offset=20", "")
	env.do(t, http.MethodPost, "/api/attachments/query", `{"media_folder":"6","query":{"search":"beach","posts_per_page":10,"paged":3,"orderby":"title","order":"asc"}}`)
	env.do(t, http.MethodGet, "/api/modal/attachments?media_folder=uncategorized", "")
	env.do(t, http.MethodGet, "/api/modal/attachments?media_folder=abc", "")

	calls := env.attachments.calls
	if len(calls) != 4 {
		t.Fatalf("calls = %d, want 4", len(calls))
	}

	grid, query, modal, malformed := calls[0], calls[1], calls[2], calls[3]
	if grid.surface != svc.SurfaceAdminGrid || grid.selector != (models.FolderSelector{Scope: models.FolderScopeFolder, FolderID: 6}) {
		t.Errorf("grid = %+v", grid)
	}
	if grid.query.Limit != 10 || grid.query.Offset != 20 || len(grid.query.Statuses) != 2 || grid.query.MimeType != "image" {
		t.Errorf("grid query = %+v", grid.query)
	}
	if query.surface != svc.SurfaceAjaxQuery || query.selector != grid.selector {
		t.Errorf("query = %+v", query)
	}
	if query.query.Limit != 10 || query.query.Offset != 20 || query.query.OrderBy != "title" {
		t.Errorf("query paging = %+v", query.query)
	}
	if modal.surface != svc.SurfaceInsertModal || modal.selector.Scope != models.FolderScopeUncategorized {
		t.Errorf("modal = %+v", modal)
	}
	if malformed.selector.Scope != models.FolderScopeAll {
		t.Errorf("malformed selector = %+v, want all", malformed.selector)
	}

	if status, _ := env.do(t, http.MethodGet, "/api/attachments?limit=ten", ""); status != http.StatusBadRequest {
		t.Errorf("bad limit status = %d", status)
	}
}

func TestModalFolders(t *testing.T) {
	env := newTestEnv()
	env.folders.options = func() ([]models.FolderOption, error) {
		return []models.FolderOption{{ID: 1, Name: "A"}}, nil
	}

	_, resp := env.do(t, http.MethodGet, "/api/modal/folders", "")
	if data := decodeData[modalFoldersResponse](t, resp); !data.Enabled || len(data.Options) != 1 {
		t.Errorf("enabled = %+v", data)
	}

	env.settings.settings.EnableModalFilter = false
	_, resp = env.do(t, http.MethodGet, "/api/modal/folders", "")
	if data := decodeData[modalFoldersResponse](t, resp); data.Enabled || data.Options == nil || len(data.Options) != 0 {
		t.Errorf("disabled = %+v", data)
	}
}

func TestAttachmentCRUD(t *testing.T) {
	env := newTestEnv()
	env.attachments.register = func(req *svc.RegisterAttachmentRequest) (*models.Attachment, error) {
		if req.Filename == "" {
			return nil, &domain.ValidationError{Message: "Attachment filename is required."}
		}
		return &models.Attachment{ID: 11, Title: "beach", Filename: req.Filename, Folders: []models.FolderRef{}}, nil
	}
	env.attachments.get = func(id int64) (*models.Attachment, error) {
		return &models.Attachment{ID: id, Folders: []models.FolderRef{{ID: 6, Name: "Vacation", Slug: "vacation"}}}, nil
	}
	env.attachments.delete = func(id int64) error { return nil }

	status, resp := env.do(t, http.MethodPost, "/api/attachments", `{"filename":"beach.jpg","mime_type":"image/jpeg"}`)
	if a := decodeData[models.Attachment](t, resp); status != http.StatusCreated || a.ID != 11 {
		t.Errorf("register: %d %+v", status, a)
	}
	if status, resp := env.do(t, http.MethodPost, "/api/attachments", `{"mime_type":"image/jpeg"}`); status != http.StatusBadRequest || resp.Message != "Attachment filename is required." {
		t.Errorf("register invalid: %d %q", status, resp.Message)
	}

	_, resp = env.do(t, http.MethodGet, "/api/attachments/11", "")
	if a := decodeData[models.Attachment](t, resp); len(a.Folders) != 1 || a.Folders[0].Slug != "vacation" {
		t.Errorf("get: %+v", a)
	}

	status, resp = env.do(t, http.MethodDelete, "/api/attachments/11", "")
	if data := decodeData[messageResponse](t, resp); status != http.StatusOK || data.Message != MsgAttachmentDeleted {
		t.Errorf("delete: %d %+v", status, data)
	}
}

func TestSettingsEndpoints(t *testing.T) {
	env := newTestEnv()

	status, resp := env.do(t, http.MethodPatch, "/api/settings", `{"show_folder_count":true,"default_folder":6}`)
	data := decodeData[models.Settings](t, resp)
	if status != http.StatusOK || !data.ShowFolderCount || data.DefaultFolder != 6 {
		t.Errorf("patch: %d %+v", status, data)
	}
	if env.settings.lastReq.EnableDragDrop != nil {
		t.Error("absent fields must stay nil")
	}

	_, resp = env.do(t, http.MethodGet, "/api/settings", "")
	if got := decodeData[models.Settings](t, resp); got.DefaultFolder != 6 {
		t.Errorf("get: %+v", got)
	}
}

func TestDebugLogEndpoints(t *testing.T) {
	env := newTestEnv()
	env.debugLog.contents = "line one\nline two"

	status, resp := env.do(t, http.MethodGet, "/debug/log", "")
	data := decodeData[debugLogResponse](t, resp)
	if status != http.StatusOK || data.Contents != "line one\nline two" || env.debugLog.lastLines != 100 {
		t.Errorf("get: %d %+v lines=%d", status, data, env.debugLog.lastLines)
	}

	env.do(t, http.MethodGet, "/debug/log?lines=999999", "")
	if env.debugLog.lastLines != 5000 {
		t.Errorf("lines = %d, want clamp to 5000", env.debugLog.lastLines)
	}
	if status, _ := env.do(t, http.MethodGet, "/debug/log?lines=0", ""); status != http.StatusBadRequest {
		t.Errorf("lines=0 status = %d", status)
	}

	if status, _ := env.do(t, http.MethodDelete, "/debug/log", ""); status != http.StatusOK || !env.debugLog.cleared {
		t.Errorf("clear: %d cleared=%v", status, env.debugLog.cleared)
	}
}

func TestHealthCheck(t *testing.T) {
	env := newTestEnv()

	rec := httptest.NewRecorder()
	env.mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"status":"ok"`) {
		t.Errorf("healthy: %d %s", rec.Code, rec.Body.String())
	}

	env.db.err = errors.New("dial tcp: refused")
	rec = httptest.NewRecorder()
	env.mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("unhealthy status = %d", rec.Code)
	}
}
