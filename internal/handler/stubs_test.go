package handler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"

	models "mediafolders/internal/domain/models/mediafolders"
	svc "mediafolders/internal/domain/services/mediafolders"
)

// Stub services record their inputs and return canned results.
// Unset funcs panic, so each test only wires what it exercises.

type stubFolderService struct {
	create  func(*svc.CreateFolderRequest) (*models.Folder, error)
	get     func(int64) (*models.Folder, error)
	rename  func(int64, *svc.RenameFolderRequest) (*models.Folder, error)
	move    func(int64, *svc.MoveFolderRequest) (*models.Folder, error)
	delete  func(int64, *svc.DeleteFolderRequest) error
	list    func(*int64) ([]models.Folder, error)
	options func() ([]models.FolderOption, error)
}

func (s *stubFolderService) CreateFolder(_ context.Context, req *svc.CreateFolderRequest) (*models.Folder, error) {
	return s.create(req)
}
func (s *stubFolderService) GetFolder(_ context.Context, id int64) (*models.Folder, error) {
	return s.get(id)
}
func (s *stubFolderService) RenameFolder(_ context.Context, id int64, req *svc.RenameFolderRequest) (*models.Folder, error) {
	return s.rename(id, req)
}
func (s *stubFolderService) MoveFolder(_ context.Context, id int64, req *svc.MoveFolderRequest) (*models.Folder, error) {
	return s.move(id, req)
}
func (s *stubFolderService) DeleteFolder(_ context.Context, id int64, req *svc.DeleteFolderRequest) error {
	return s.delete(id, req)
}
func (s *stubFolderService) ListFolders(_ context.Context, parentID *int64) ([]models.Folder, error) {
	return s.list(parentID)
}
func (s *stubFolderService) ListOptions(context.Context) ([]models.FolderOption, error) {
	return s.options()
}

type stubTreeService struct {
	data *models.FolderData
	err  error
}

func (s *stubTreeService) GetFolderTree(context.Context) ([]*models.FolderTreeNode, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.data.Folders, nil
}
func (s *stubTreeService) GetFolderData(context.Context) (*models.FolderData, error) {
	return s.data, s.err
}

type stubAssociationService struct {
	assign      func(attachmentID, folderID int64) (bool, error)
	bulkAssign  func(*svc.BulkAssignRequest) (*svc.BulkAssignResult, error)
	bulkActions func() ([]svc.BulkAction, error)
	runAction   func(*svc.BulkActionRequest) (*svc.BulkAssignResult, error)
}

func (s *stubAssociationService) Assign(_ context.Context, attachmentID, folderID int64) (bool, error) {
	return s.assign(attachmentID, folderID)
}
func (s *stubAssociationService) BulkAssign(_ context.Context, req *svc.BulkAssignRequest) (*svc.BulkAssignResult, error) {
	return s.bulkAssign(req)
}
func (s *stubAssociationService) CountInFolder(context.Context, int64) (int, error) {
	return 0, errors.New("not stubbed")
}
func (s *stubAssociationService) ListBulkActions(context.Context) ([]svc.BulkAction, error) {
	return s.bulkActions()
}
func (s *stubAssociationService) RunBulkAction(_ context.Context, req *svc.BulkActionRequest) (*svc.BulkAssignResult, error) {
	return s.runAction(req)
}

type listCall struct {
	surface  svc.Surface
	selector models.FolderSelector
	query    models.AttachmentQuery
}

type stubAttachmentService struct {
	register func(*svc.RegisterAttachmentRequest) (*models.Attachment, error)
	get      func(int64) (*models.Attachment, error)
	delete   func(int64) error
	calls    []listCall
	page     *models.AttachmentPage
}

func (s *stubAttachmentService) RegisterAttachment(_ context.Context, req *svc.RegisterAttachmentRequest) (*models.Attachment, error) {
	return s.register(req)
}
func (s *stubAttachmentService) GetAttachment(_ context.Context, id int64) (*models.Attachment, error) {
	return s.get(id)
}
func (s *stubAttachmentService) DeleteAttachment(_ context.Context, id int64) error {
	return s.delete(id)
}
func (s *stubAttachmentService) ListAttachments(_ context.Context, surface svc.Surface, selector models.FolderSelector, query *models.AttachmentQuery) (*models.AttachmentPage, error) {
	s.calls = append(s.calls, listCall{surface: surface, selector: selector, query: *query})
	if s.page == nil {
		return &models.AttachmentPage{Attachments: []models.Attachment{}}, nil
	}
	return s.page, nil
}

type stubSettingsService struct {
	settings models.Settings
	lastReq  *models.UpdateSettingsRequest
}

func (s *stubSettingsService) GetSettings(context.Context) (*models.Settings, error) {
	copied := s.settings
	return &copied, nil
}
func (s *stubSettingsService) UpdateSettings(_ context.Context, req *models.UpdateSettingsRequest) (*models.Settings, error) {
	s.lastReq = req
	req.Apply(&s.settings)
	copied := s.settings
	return &copied, nil
}

type stubPinger struct{ err error }

func (p *stubPinger) Ping(context.Context) error { return p.err }

type stubDebugLog struct {
	contents  string
	lastLines int
	cleared   bool
}

func (l *stubDebugLog) Tail(lines int) (string, error) {
	l.lastLines = lines
	return l.contents, nil
}
func (l *stubDebugLog) Clear() error {
	l.cleared = true
	l.contents = ""
	return nil
}
func (l *stubDebugLog) Path() string { return "logs/test.log" }

type stubRecorder struct {
	byMode map[string]int
}

func (r *stubRecorder) RecordBulkAssign(mode string, processed int) {
	if r.byMode == nil {
		r.byMode = map[string]int{}
	}
	r.byMode[mode] += processed
}

// testEnv mounts every handler on one mux with stub services
type testEnv struct {
	folders     *stubFolderService
	tree        *stubTreeService
	assoc       *stubAssociationService
	attachments *stubAttachmentService
	settings    *stubSettingsService
	db          *stubPinger
	debugLog    *stubDebugLog
	recorder    *stubRecorder
	mux         *http.ServeMux
}

func newTestEnv() *testEnv {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	env := &testEnv{
		folders:     &stubFolderService{},
		tree:        &stubTreeService{},
		assoc:       &stubAssociationService{},
		attachments: &stubAttachmentService{},
		settings: &stubSettingsService{settings: models.Settings{
			ShowUncategorized: true,
			EnableModalFilter: true,
		}},
		db:       &stubPinger{},
		debugLog: &stubDebugLog{},
		recorder: &stubRecorder{},
		mux:      http.NewServeMux(),
	}

	RegisterRoutes(env.mux, &Handlers{
		Folder:     NewFolderHandler(env.folders, env.settings, logger),
		Tree:       NewTreeHandler(env.tree, logger),
		Attachment: NewAttachmentHandler(env.attachments, env.folders, env.settings, logger),
		Assignment: NewAssignmentHandler(env.assoc, env.folders, env.recorder, logger),
		Settings:   NewSettingsHandler(env.settings, logger),
		Health:     NewHealthHandler(env.db, logger),
		DebugLog:   NewDebugLogHandler(env.debugLog, logger),
	}, func(next http.Handler) http.Handler { return next })

	return env
}
