package mediafolders

import (
	"context"
	"io"
	"log/slog"
	"maps"
	"sort"
	"strings"
	"testing"
	"time"

	"mediafolders/internal/domain"
	models "mediafolders/internal/domain/models/mediafolders"
	"mediafolders/internal/domain/repositories"
	repos "mediafolders/internal/domain/repositories/mediafolders"
	svc "mediafolders/internal/domain/services/mediafolders"
)

// memStore is an in-memory stand-in for the four media tables.
// The fake repositories below share one store so their writes see each other.
type memStore struct {
	folders     map[int64]models.Folder
	attachments map[int64]models.Attachment
	rels        map[int64]map[int64]bool // attachment id -> folder ids
	settings    *models.Settings

	nextFolderID     int64
	nextAttachmentID int64

	// failures makes the named operation return the error, e.g. "folders.Delete"
	failures map[string]error

	// inTx is set while the outermost fake transaction runs
	inTx bool
	// treeCalls records tree-lock and parent-pointer operations in order
	treeCalls []string
}

func newMemStore() *memStore {
	return &memStore{
		folders:          make(map[int64]models.Folder),
		attachments:      make(map[int64]models.Attachment),
		rels:             make(map[int64]map[int64]bool),
		nextFolderID:     1,
		nextAttachmentID: 1,
		failures:         make(map[string]error),
	}
}

func (s *memStore) fail(op string) error {
	return s.failures[op]
}

type memSnapshot struct {
	folders     map[int64]models.Folder
	attachments map[int64]models.Attachment
	rels        map[int64]map[int64]bool
}

func (s *memStore) snapshot() memSnapshot {
	rels := make(map[int64]map[int64]bool, len(s.rels))
	for att, set := range s.rels {
		rels[att] = maps.Clone(set)
	}
	return memSnapshot{
		folders:     maps.Clone(s.folders),
		attachments: maps.Clone(s.attachments),
		rels:        rels,
	}
}

func (s *memStore) restore(snap memSnapshot) {
	s.folders = snap.folders
	s.attachments = snap.attachments
	s.rels = snap.rels
}

func (s *memStore) countInFolder(folderID int64) int {
	count := 0
	for id, att := range s.attachments {
		if att.Status != models.AttachmentStatusInherit {
			continue
		}
		set := s.rels[id]
		if folderID == models.RootFolderID {
			if len(set) == 0 {
				count++
			}
			continue
		}
		if set[folderID] {
			count++
		}
	}
	return count
}

// ---------------------------------------------------------------------------
// Transaction manager: snapshot on begin, restore on error
// ---------------------------------------------------------------------------

type fakeTxManager struct {
	store *memStore
	depth int
}

func (m *fakeTxManager) ExecTx(ctx context.Context, fn repositories.TxFn) error {
	if m.depth > 0 {
		return fn(ctx)
	}
	snap := m.store.snapshot()
	m.depth++
	m.store.inTx = true
	err := fn(ctx)
	m.store.inTx = false
	m.depth--
	if err != nil {
		m.store.restore(snap)
	}
	return err
}

// ---------------------------------------------------------------------------
// Folder repository
// ---------------------------------------------------------------------------

type fakeFolderRepo struct{ s *memStore }

var _ repos.FolderRepository = (*fakeFolderRepo)(nil)

func (r *fakeFolderRepo) Create(ctx context.Context, folder *models.Folder) error {
	if err := r.s.fail("folders.Create"); err != nil {
		return err
	}
	for _, f := range r.s.folders {
		if f.Slug == folder.Slug {
			return &domain.DuplicateError{Message: "slug taken", ResourceType: "folder", ResourceID: f.ID}
		}
	}
	folder.ID = r.s.nextFolderID
	r.s.nextFolderID++
	folder.Count = 0
	r.s.folders[folder.ID] = *folder
	return nil
}

func (r *fakeFolderRepo) GetByID(ctx context.Context, id int64) (*models.Folder, error) {
	f, ok := r.s.folders[id]
	if !ok {
		return nil, &domain.NotFoundError{Message: "Folder not found."}
	}
	return &f, nil
}

func (r *fakeFolderRepo) GetBySlug(ctx context.Context, slug string) (*models.Folder, error) {
	for _, f := range r.s.folders {
		if f.Slug == slug {
			return &f, nil
		}
	}
	return nil, nil
}

func (r *fakeFolderRepo) Update(ctx context.Context, folder *models.Folder) error {
	r.s.treeCalls = append(r.s.treeCalls, "update")
	if err := r.s.fail("folders.Update"); err != nil {
		return err
	}
	existing, ok := r.s.folders[folder.ID]
	if !ok {
		return &domain.NotFoundError{Message: "Folder not found."}
	}
	existing.Name = folder.Name
	existing.Slug = folder.Slug
	existing.ParentID = folder.ParentID
	existing.UpdatedAt = folder.UpdatedAt
	r.s.folders[folder.ID] = existing
	return nil
}

func (r *fakeFolderRepo) Delete(ctx context.Context, id int64) error {
	if err := r.s.fail("folders.Delete"); err != nil {
		return err
	}
	if _, ok := r.s.folders[id]; !ok {
		return &domain.NotFoundError{Message: "Folder not found."}
	}
	delete(r.s.folders, id)
	for _, set := range r.s.rels {
		delete(set, id)
	}
	return nil
}

func (r *fakeFolderRepo) ListChildren(ctx context.Context, parentID int64) ([]models.Folder, error) {
	out := []models.Folder{}
	for _, f := range r.s.folders {
		if f.ParentID == parentID {
			out = append(out, f)
		}
	}
	sortFolders(out)
	return out, nil
}

func (r *fakeFolderRepo) ListAll(ctx context.Context) ([]models.Folder, error) {
	out := make([]models.Folder, 0, len(r.s.folders))
	for _, f := range r.s.folders {
		out = append(out, f)
	}
	sortFolders(out)
	return out, nil
}

func (r *fakeFolderRepo) GetAncestorIDs(ctx context.Context, id int64) ([]int64, error) {
	r.s.treeCalls = append(r.s.treeCalls, "ancestors")
	var ids []int64
	current, ok := r.s.folders[id]
	for ok && current.ParentID != models.RootFolderID && len(ids) < 1000 {
		ids = append(ids, current.ParentID)
		current, ok = r.s.folders[current.ParentID]
	}
	return ids, nil
}

func (r *fakeFolderRepo) ReparentChildren(ctx context.Context, fromParentID, toParentID int64) error {
	for id, f := range r.s.folders {
		if f.ParentID == fromParentID {
			f.ParentID = toParentID
			r.s.folders[id] = f
		}
	}
	return nil
}

func (r *fakeFolderRepo) RecountItems(ctx context.Context, ids []int64) error {
	for _, id := range ids {
		f, ok := r.s.folders[id]
		if !ok {
			continue
		}
		f.Count = r.s.countInFolder(id)
		r.s.folders[id] = f
	}
	return nil
}

func (r *fakeFolderRepo) LockTree(ctx context.Context) error {
	if !r.s.inTx {
		r.s.treeCalls = append(r.s.treeCalls, "lock outside tx")
		return nil
	}
	r.s.treeCalls = append(r.s.treeCalls, "lock")
	return nil
}

func sortFolders(folders []models.Folder) {
	sort.Slice(folders, func(i, j int) bool {
		if folders[i].Name != folders[j].Name {
			return folders[i].Name < folders[j].Name
		}
		return folders[i].ID < folders[j].ID
	})
}

// ---------------------------------------------------------------------------
// Association repository
// ---------------------------------------------------------------------------

type fakeAssocRepo struct{ s *memStore }

var _ repos.AssociationRepository = (*fakeAssocRepo)(nil)

func (r *fakeAssocRepo) FolderIDs(ctx context.Context, attachmentID int64) ([]int64, error) {
	ids := []int64{}
	for id := range r.s.rels[attachmentID] {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

func (r *fakeAssocRepo) Replace(ctx context.Context, attachmentID int64, folderIDs []int64) error {
	if err := r.s.fail("associations.Replace"); err != nil {
		return err
	}
	set := make(map[int64]bool)
	for _, id := range folderIDs {
		if id <= 0 {
			continue
		}
		if _, ok := r.s.folders[id]; !ok {
			return &domain.NotFoundError{Message: "Folder or attachment not found."}
		}
		set[id] = true
	}
	r.s.rels[attachmentID] = set
	return nil
}

func (r *fakeAssocRepo) Add(ctx context.Context, attachmentID, folderID int64) (bool, error) {
	if err := r.s.fail("associations.Add"); err != nil {
		return false, err
	}
	if _, ok := r.s.folders[folderID]; !ok {
		return false, &domain.NotFoundError{Message: "Folder or attachment not found."}
	}
	if r.s.rels[attachmentID] == nil {
		r.s.rels[attachmentID] = make(map[int64]bool)
	}
	if r.s.rels[attachmentID][folderID] {
		return false, nil
	}
	r.s.rels[attachmentID][folderID] = true
	return true, nil
}

func (r *fakeAssocRepo) Remove(ctx context.Context, attachmentID, folderID int64) (bool, error) {
	if !r.s.rels[attachmentID][folderID] {
		return false, nil
	}
	delete(r.s.rels[attachmentID], folderID)
	return true, nil
}

func (r *fakeAssocRepo) AttachmentIDs(ctx context.Context, folderID int64) ([]int64, error) {
	ids := []int64{}
	for att, set := range r.s.rels {
		if set[folderID] {
			ids = append(ids, att)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

func (r *fakeAssocRepo) DeleteByFolder(ctx context.Context, folderID int64) error {
	for _, set := range r.s.rels {
		delete(set, folderID)
	}
	return nil
}

func (r *fakeAssocRepo) CountInFolder(ctx context.Context, folderID int64) (int, error) {
	return r.s.countInFolder(folderID), nil
}

func (r *fakeAssocRepo) FolderRefs(ctx context.Context, attachmentIDs []int64) (map[int64][]models.FolderRef, error) {
	out := make(map[int64][]models.FolderRef)
	for _, att := range attachmentIDs {
		for folderID := range r.s.rels[att] {
			f := r.s.folders[folderID]
			out[att] = append(out[att], f.Ref())
		}
		sort.Slice(out[att], func(i, j int) bool { return out[att][i].Name < out[att][j].Name })
	}
	return out, nil
}

// ---------------------------------------------------------------------------
// Attachment repository
// ---------------------------------------------------------------------------

type fakeAttachmentRepo struct {
	s *memStore

	// lastQuery records the query List received, filter included
	lastQuery *models.AttachmentQuery
}

var _ repos.AttachmentRepository = (*fakeAttachmentRepo)(nil)

func (r *fakeAttachmentRepo) Create(ctx context.Context, attachment *models.Attachment) error {
	attachment.ID = r.s.nextAttachmentID
	r.s.nextAttachmentID++
	r.s.attachments[attachment.ID] = *attachment
	return nil
}

func (r *fakeAttachmentRepo) GetByID(ctx context.Context, id int64) (*models.Attachment, error) {
	att, ok := r.s.attachments[id]
	if !ok {
		return nil, &domain.NotFoundError{Message: "Attachment not found."}
	}
	return &att, nil
}

func (r *fakeAttachmentRepo) Exists(ctx context.Context, id int64) (bool, error) {
	_, ok := r.s.attachments[id]
	return ok, nil
}

func (r *fakeAttachmentRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := r.s.attachments[id]; !ok {
		return &domain.NotFoundError{Message: "Attachment not found."}
	}
	delete(r.s.attachments, id)
	delete(r.s.rels, id)
	return nil
}

func (r *fakeAttachmentRepo) List(ctx context.Context, query *models.AttachmentQuery) ([]models.Attachment, int, error) {
	q := *query
	r.lastQuery = &q

	matches := []models.Attachment{}
	for id, att := range r.s.attachments {
		if !containsString(query.Statuses, att.Status) {
			continue
		}
		set := r.s.rels[id]
		switch query.Folder.Scope {
		case models.FolderScopeUncategorized:
			if len(set) > 0 {
				continue
			}
		case models.FolderScopeFolder:
			if !set[query.Folder.FolderID] {
				continue
			}
		}
		if query.Search != "" && !strings.Contains(strings.ToLower(att.Title), strings.ToLower(query.Search)) {
			continue
		}
		if query.MimeType != "" && !strings.HasPrefix(att.MimeType, query.MimeType) {
			continue
		}
		matches = append(matches, att)
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].ID < matches[j].ID })

	total := len(matches)
	start := min(query.Offset, total)
	end := min(start+query.Limit, total)
	return matches[start:end], total, nil
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// ---------------------------------------------------------------------------
// Settings repository
// ---------------------------------------------------------------------------

type fakeSettingsRepo struct{ s *memStore }

var _ repos.SettingsRepository = (*fakeSettingsRepo)(nil)

func (r *fakeSettingsRepo) Get(ctx context.Context) (*models.Settings, error) {
	if r.s.settings == nil {
		return nil, nil
	}
	copied := *r.s.settings
	return &copied, nil
}

func (r *fakeSettingsRepo) Upsert(ctx context.Context, settings *models.Settings) error {
	copied := *settings
	r.s.settings = &copied
	return nil
}

// ---------------------------------------------------------------------------
// Fixture wiring every service over one store
// ---------------------------------------------------------------------------

type fixture struct {
	store       *memStore
	folderRepo  *fakeFolderRepo
	assocRepo   *fakeAssocRepo
	attachRepo  *fakeAttachmentRepo
	folders     svc.FolderService
	assoc       svc.AssociationService
	tree        svc.TreeService
	attachments svc.AttachmentService
	settings    svc.SettingsService
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testDefaults() models.Settings {
	return models.Settings{
		EnableDragDrop:     true,
		ShowFolderCount:    true,
		ShowUncategorized:  true,
		FolderTreeExpanded: true,
		EnableModalFilter:  true,
	}
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store := newMemStore()
	logger := testLogger()
	folderRepo := &fakeFolderRepo{s: store}
	assocRepo := &fakeAssocRepo{s: store}
	attachRepo := &fakeAttachmentRepo{s: store}
	settingsRepo := &fakeSettingsRepo{s: store}
	txManager := &fakeTxManager{store: store}

	folders := NewFolderService(folderRepo, assocRepo, txManager, logger)
	assoc := NewAssociationService(folderRepo, assocRepo, attachRepo, folders, txManager, logger)
	settings := NewSettingsService(settingsRepo, folderRepo, testDefaults(), logger)

	return &fixture{
		store:       store,
		folderRepo:  folderRepo,
		assocRepo:   assocRepo,
		attachRepo:  attachRepo,
		folders:     folders,
		assoc:       assoc,
		tree:        NewTreeService(folderRepo, assocRepo, logger),
		attachments: NewAttachmentService(attachRepo, assocRepo, folderRepo, assoc, settings, NewQueryFilter(logger), txManager, logger),
		settings:    settings,
	}
}

// mustCreateFolder creates a folder or fails the test
func (f *fixture) mustCreateFolder(t *testing.T, name string, parentID int64) *models.Folder {
	t.Helper()
	folder, err := f.folders.CreateFolder(context.Background(), &svc.CreateFolderRequest{Name: name, ParentID: parentID})
	if err != nil {
		t.Fatalf("CreateFolder(%q, %d) failed: %v", name, parentID, err)
	}
	return folder
}

// seedAttachment inserts an attachment row with an explicit id
func (f *fixture) seedAttachment(id int64, status string) {
	f.store.attachments[id] = models.Attachment{
		ID:        id,
		Title:     "attachment",
		Filename:  "file.jpg",
		MimeType:  "image/jpeg",
		Status:    status,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if id >= f.store.nextAttachmentID {
		f.store.nextAttachmentID = id + 1
	}
}

// mustCount returns countInFolder or fails the test
func (f *fixture) mustCount(t *testing.T, folderID int64) int {
	t.Helper()
	n, err := f.assoc.CountInFolder(context.Background(), folderID)
	if err != nil {
		t.Fatalf("CountInFolder(%d) failed: %v", folderID, err)
	}
	return n
}
