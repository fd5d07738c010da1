package mediafolders

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"mediafolders/internal/config"
	"mediafolders/internal/domain"
	models "mediafolders/internal/domain/models/mediafolders"
	"mediafolders/internal/domain/repositories"
	repos "mediafolders/internal/domain/repositories/mediafolders"
	svc "mediafolders/internal/domain/services/mediafolders"
)

// maxSlugAttempts bounds numeric slug suffixes
const maxSlugAttempts = 1000

type folderService struct {
	folderRepo repos.FolderRepository
	assocRepo  repos.AssociationRepository
	txManager  repositories.TransactionManager
	logger     *slog.Logger
}

// NewFolderService creates a new folder service
func NewFolderService(
	folderRepo repos.FolderRepository,
	assocRepo repos.AssociationRepository,
	txManager repositories.TransactionManager,
	logger *slog.Logger,
) svc.FolderService {
	return &folderService{
		folderRepo: folderRepo,
		assocRepo:  assocRepo,
		txManager:  txManager,
		logger:     logger,
	}
}

// CreateFolder creates a folder under ParentID (0 = root) with count 0
func (s *folderService) CreateFolder(ctx context.Context, req *svc.CreateFolderRequest) (*models.Folder, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Slug = strings.TrimSpace(req.Slug)
	if err := validateFolderInput(&req.Name, &req.Slug); err != nil {
		return nil, err
	}
	if req.ParentID < 0 {
		return nil, &domain.ValidationError{Message: MsgInvalidFolderID}
	}

	var parent *models.Folder
	if req.ParentID != models.RootFolderID {
		var err error
		parent, err = s.folderRepo.GetByID(ctx, req.ParentID)
		if err != nil {
			return nil, err
		}
	}

	if err := s.checkSiblingName(ctx, req.ParentID, req.Name, 0); err != nil {
		return nil, err
	}

	slug, err := s.resolveSlug(ctx, req.Name, req.Slug, parent, 0)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	folder := &models.Folder{
		Name:      req.Name,
		Slug:      slug,
		ParentID:  req.ParentID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.folderRepo.Create(ctx, folder); err != nil {
		return nil, err
	}

	s.logger.Info("folder created",
		"folder_id", folder.ID,
		"name", folder.Name,
		"slug", folder.Slug,
		"parent_id", folder.ParentID,
	)

	return folder, nil
}

// GetFolder retrieves a folder by ID
func (s *folderService) GetFolder(ctx context.Context, id int64) (*models.Folder, error) {
	return s.folderRepo.GetByID(ctx, id)
}

// RenameFolder renames a folder in place; its slug is re-derived unless one is given
func (s *folderService) RenameFolder(ctx context.Context, id int64, req *svc.RenameFolderRequest) (*models.Folder, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Slug = strings.TrimSpace(req.Slug)
	if err := validateFolderInput(&req.Name, &req.Slug); err != nil {
		return nil, err
	}

	folder, err := s.folderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if folder.Name == req.Name && (req.Slug == "" || Slugify(req.Slug) == folder.Slug) {
		return folder, nil
	}

	if err := s.checkSiblingName(ctx, folder.ParentID, req.Name, folder.ID); err != nil {
		return nil, err
	}

	var parent *models.Folder
	if !folder.IsRoot() {
		parent, err = s.folderRepo.GetByID(ctx, folder.ParentID)
		if err != nil {
			return nil, fmt.Errorf("get parent folder: %w", err)
		}
	}

	slug, err := s.resolveSlug(ctx, req.Name, req.Slug, parent, folder.ID)
	if err != nil {
		return nil, err
	}

	oldName := folder.Name
	folder.Name = req.Name
	folder.Slug = slug
	folder.UpdatedAt = time.Now()

	if err := s.folderRepo.Update(ctx, folder); err != nil {
		return nil, err
	}

	s.logger.Info("folder renamed",
		"folder_id", folder.ID,
		"old_name", oldName,
		"new_name", folder.Name,
		"slug", folder.Slug,
	)

	return folder, nil
}

// MoveFolder reparents a folder. Moving a folder under itself or under one of its
// descendants is a CycleError. The check and the write run under the tree lock.
func (s *folderService) MoveFolder(ctx context.Context, id int64, req *svc.MoveFolderRequest) (*models.Folder, error) {
	if req.ParentID < 0 {
		return nil, &domain.ValidationError{Message: MsgInvalidFolderID}
	}

	var folder *models.Folder
	var oldParentID int64
	moved := false

	err := s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		if err := s.folderRepo.LockTree(txCtx); err != nil {
			return err
		}

		var err error
		folder, err = s.folderRepo.GetByID(txCtx, id)
		if err != nil {
			return err
		}

		if req.ParentID == folder.ID {
			return &domain.CycleError{Message: MsgMoveToSelf}
		}

		if req.ParentID == folder.ParentID {
			return nil
		}

		if req.ParentID != models.RootFolderID {
			if _, err := s.folderRepo.GetByID(txCtx, req.ParentID); err != nil {
				return err
			}
			if err := s.validateNoCircularReference(txCtx, folder.ID, req.ParentID); err != nil {
				return err
			}
		}

		if err := s.checkSiblingName(txCtx, req.ParentID, folder.Name, folder.ID); err != nil {
			return err
		}

		oldParentID = folder.ParentID
		folder.ParentID = req.ParentID
		folder.UpdatedAt = time.Now()
		moved = true

		return s.folderRepo.Update(txCtx, folder)
	})
	if err != nil {
		return nil, err
	}

	if moved {
		s.logger.Info("folder moved",
			"folder_id", folder.ID,
			"old_parent_id", oldParentID,
			"new_parent_id", folder.ParentID,
		)
	}

	return folder, nil
}

// validateNoCircularReference rejects newParentID when folderID is among its ancestors
func (s *folderService) validateNoCircularReference(ctx context.Context, folderID, newParentID int64) error {
	ancestors, err := s.folderRepo.GetAncestorIDs(ctx, newParentID)
	if err != nil {
		return fmt.Errorf("check folder ancestry: %w", err)
	}
	if slices.Contains(ancestors, folderID) {
		return &domain.CycleError{Message: MsgMoveToDescendant}
	}
	return nil
}

// DeleteFolder deletes a folder in a single transaction under the tree lock.
//
// With Reassign and a non-root parent, every attachment in the folder is moved to
// the parent. Otherwise the folder's associations are dropped. Child folders are
// re-parented to the deleted folder's parent.
func (s *folderService) DeleteFolder(ctx context.Context, id int64, req *svc.DeleteFolderRequest) error {
	if req == nil {
		req = &svc.DeleteFolderRequest{}
	}

	var folder *models.Folder
	reassigned := 0

	err := s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		if err := s.folderRepo.LockTree(txCtx); err != nil {
			return err
		}

		var err error
		folder, err = s.folderRepo.GetByID(txCtx, id)
		if err != nil {
			return err
		}

		if req.Reassign && !folder.IsRoot() {
			attachmentIDs, err := s.assocRepo.AttachmentIDs(txCtx, folder.ID)
			if err != nil {
				return fmt.Errorf("list folder attachments: %w", err)
			}
			for _, attachmentID := range attachmentIDs {
				if _, err := s.assocRepo.Remove(txCtx, attachmentID, folder.ID); err != nil {
					return fmt.Errorf("reassign attachment %d: %w", attachmentID, err)
				}
				if _, err := s.assocRepo.Add(txCtx, attachmentID, folder.ParentID); err != nil {
					return fmt.Errorf("reassign attachment %d: %w", attachmentID, err)
				}
			}
			reassigned = len(attachmentIDs)
		}

		if err := s.folderRepo.ReparentChildren(txCtx, folder.ID, folder.ParentID); err != nil {
			return err
		}
		if err := s.assocRepo.DeleteByFolder(txCtx, folder.ID); err != nil {
			return err
		}
		if err := s.folderRepo.Delete(txCtx, folder.ID); err != nil {
			return err
		}

		return s.folderRepo.RecountItems(txCtx, []int64{folder.ParentID})
	})
	if err != nil {
		return err
	}

	s.logger.Info("folder deleted",
		"folder_id", folder.ID,
		"name", folder.Name,
		"parent_id", folder.ParentID,
		"reassign", req.Reassign,
		"reassigned", reassigned,
	)

	return nil
}

// ListFolders lists the children of parentID by name, or every folder when parentID is nil
func (s *folderService) ListFolders(ctx context.Context, parentID *int64) ([]models.Folder, error) {
	if parentID == nil {
		return s.folderRepo.ListAll(ctx)
	}
	return s.folderRepo.ListChildren(ctx, *parentID)
}

// ListOptions flattens the tree depth-first, each level sorted by name
func (s *folderService) ListOptions(ctx context.Context) ([]models.FolderOption, error) {
	folders, err := s.folderRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return flattenFolders(folders), nil
}

// flattenFolders walks folders depth-first from the root.
// folders must already be sorted by name.
func flattenFolders(folders []models.Folder) []models.FolderOption {
	children := make(map[int64][]models.Folder)
	for _, f := range folders {
		children[f.ParentID] = append(children[f.ParentID], f)
	}

	options := make([]models.FolderOption, 0, len(folders))
	visited := make(map[int64]bool, len(folders))

	var walk func(parentID int64, depth int)
	walk = func(parentID int64, depth int) {
		for _, f := range children[parentID] {
			if visited[f.ID] {
				continue
			}
			visited[f.ID] = true
			options = append(options, models.FolderOption{
				ID:    f.ID,
				Name:  f.Name,
				Depth: depth,
				Count: f.Count,
			})
			walk(f.ID, depth+1)
		}
	}
	walk(models.RootFolderID, 0)

	return options
}

// checkSiblingName rejects a name already used (case-insensitively) under parentID
func (s *folderService) checkSiblingName(ctx context.Context, parentID int64, name string, selfID int64) error {
	siblings, err := s.folderRepo.ListChildren(ctx, parentID)
	if err != nil {
		return fmt.Errorf("check for duplicate names: %w", err)
	}
	for _, sibling := range siblings {
		if sibling.ID != selfID && strings.EqualFold(sibling.Name, name) {
			return &domain.DuplicateError{
				Message:      fmt.Sprintf("A folder named %q already exists in this location.", name),
				ResourceType: "folder",
				ResourceID:   sibling.ID,
			}
		}
	}
	return nil
}

// resolveSlug picks the slug for a folder.
// An explicit slug must be free. A derived slug falls back to "<slug>-<parent slug>",
// then numeric suffixes.
func (s *folderService) resolveSlug(ctx context.Context, name, explicit string, parent *models.Folder, selfID int64) (string, error) {
	if explicit != "" {
		slug := Slugify(explicit)
		if slug == "" {
			return "", &domain.ValidationError{Message: MsgInvalidSlug}
		}
		existing, err := s.folderRepo.GetBySlug(ctx, slug)
		if err != nil {
			return "", err
		}
		if existing != nil && existing.ID != selfID {
			return "", &domain.DuplicateError{
				Message:      fmt.Sprintf("A folder with the slug %q already exists.", slug),
				ResourceType: "folder",
				ResourceID:   existing.ID,
			}
		}
		return slug, nil
	}

	base := Slugify(name)
	if base == "" {
		base = "folder"
	}

	candidates := []string{base}
	if parent != nil && parent.Slug != "" {
		candidates = append(candidates, base+"-"+parent.Slug)
	}

	for _, candidate := range candidates {
		free, err := s.slugAvailable(ctx, candidate, selfID)
		if err != nil {
			return "", err
		}
		if free {
			return candidate, nil
		}
	}

	for n := 2; n <= maxSlugAttempts; n++ {
		candidate := fmt.Sprintf("%s-%d", base, n)
		free, err := s.slugAvailable(ctx, candidate, selfID)
		if err != nil {
			return "", err
		}
		if free {
			return candidate, nil
		}
	}

	return "", &domain.DuplicateError{
		Message:      fmt.Sprintf("No free slug for folder %q.", name),
		ResourceType: "folder",
	}
}

func (s *folderService) slugAvailable(ctx context.Context, slug string, selfID int64) (bool, error) {
	existing, err := s.folderRepo.GetBySlug(ctx, slug)
	if err != nil {
		return false, err
	}
	return existing == nil || existing.ID == selfID, nil
}

// validateFolderInput checks a trimmed name and optional slug
func validateFolderInput(name, slug *string) error {
	err := validation.Errors{
		"name": validation.Validate(*name,
			validation.Required.Error(MsgFolderNameRequired),
			validation.RuneLength(1, config.MaxFolderNameLength).Error(MsgFolderNameTooLong),
		),
		"slug": validation.Validate(*slug,
			validation.RuneLength(0, config.MaxFolderSlugLength),
		),
	}.Filter()
	return toValidationError(err)
}
