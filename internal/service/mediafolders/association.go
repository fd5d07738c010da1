package mediafolders

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"mediafolders/internal/config"
	"mediafolders/internal/domain"
	models "mediafolders/internal/domain/models/mediafolders"
	"mediafolders/internal/domain/repositories"
	repos "mediafolders/internal/domain/repositories/mediafolders"
	svc "mediafolders/internal/domain/services/mediafolders"
)

// Bulk action names of the admin list menu
const (
	BulkActionMovePrefix   = "tpf_mo_move_"
	BulkActionRemoveFolder = "tpf_mo_remove_folder"
	BulkActionSeparator    = "tpf_mo_separator"
)

type associationService struct {
	folderRepo     repos.FolderRepository
	assocRepo      repos.AssociationRepository
	attachmentRepo repos.AttachmentRepository
	folderService  svc.FolderService
	txManager      repositories.TransactionManager
	logger         *slog.Logger
}

// NewAssociationService creates a new association service
func NewAssociationService(
	folderRepo repos.FolderRepository,
	assocRepo repos.AssociationRepository,
	attachmentRepo repos.AttachmentRepository,
	folderService svc.FolderService,
	txManager repositories.TransactionManager,
	logger *slog.Logger,
) svc.AssociationService {
	return &associationService{
		folderRepo:     folderRepo,
		assocRepo:      assocRepo,
		attachmentRepo: attachmentRepo,
		folderService:  folderService,
		txManager:      txManager,
		logger:         logger,
	}
}

// Assign replaces the attachment's folders with folderID, or clears them for 0.
// Both the old and the new folders get their cached counts refreshed.
func (s *associationService) Assign(ctx context.Context, attachmentID, folderID int64) (bool, error) {
	if folderID < 0 {
		return false, &domain.ValidationError{Message: MsgInvalidFolderID}
	}
	if folderID != models.RootFolderID {
		if _, err := s.folderRepo.GetByID(ctx, folderID); err != nil {
			return false, err
		}
	}
	return s.assign(ctx, attachmentID, folderID)
}

// assign does the write for a folder already known to exist
func (s *associationService) assign(ctx context.Context, attachmentID, folderID int64) (bool, error) {
	exists, err := s.attachmentRepo.Exists(ctx, attachmentID)
	if err != nil {
		return false, err
	}
	if !exists {
		return false, nil
	}

	var target []int64
	if folderID != models.RootFolderID {
		target = []int64{folderID}
	}

	err = s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		previous, err := s.assocRepo.FolderIDs(txCtx, attachmentID)
		if err != nil {
			return err
		}
		if err := s.assocRepo.Replace(txCtx, attachmentID, target); err != nil {
			return err
		}
		return s.folderRepo.RecountItems(txCtx, append(previous, target...))
	})
	if err != nil {
		return false, err
	}

	s.logger.Debug("attachment assigned", "attachment_id", attachmentID, "folder_id", folderID)
	return true, nil
}

// addToFolder unions folderID into the attachment's folders.
// Returns false when the attachment is missing or already in the folder.
func (s *associationService) addToFolder(ctx context.Context, attachmentID, folderID int64) (bool, error) {
	exists, err := s.attachmentRepo.Exists(ctx, attachmentID)
	if err != nil {
		return false, err
	}
	if !exists {
		return false, nil
	}

	added := false
	err = s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		var err error
		added, err = s.assocRepo.Add(txCtx, attachmentID, folderID)
		if err != nil || !added {
			return err
		}
		return s.folderRepo.RecountItems(txCtx, []int64{folderID})
	})
	if err != nil {
		return false, err
	}

	return added, nil
}

// BulkAssign applies the mode to each attachment independently.
// Failed items are logged and skipped; nothing is rolled back.
func (s *associationService) BulkAssign(ctx context.Context, req *svc.BulkAssignRequest) (*svc.BulkAssignResult, error) {
	if req.Mode == "" {
		req.Mode = models.AssignModeMove
	}
	if !req.Mode.Valid() {
		return nil, &domain.ValidationError{Message: MsgInvalidAssignMode}
	}

	ids, err := normalizeAttachmentIDs(req.AttachmentIDs)
	if err != nil {
		return nil, err
	}
	if req.FolderID < 0 {
		return nil, &domain.ValidationError{Message: MsgInvalidFolderID}
	}
	if req.Mode == models.AssignModeAdd && req.FolderID == models.RootFolderID {
		return nil, &domain.ValidationError{Message: MsgAddNeedsFolder}
	}

	folderName, err := s.folderName(ctx, req.FolderID)
	if err != nil {
		return nil, err
	}

	processed := 0
	for _, attachmentID := range ids {
		var ok bool
		var err error
		if req.Mode == models.AssignModeAdd {
			ok, err = s.addToFolder(ctx, attachmentID, req.FolderID)
		} else {
			ok, err = s.assign(ctx, attachmentID, req.FolderID)
		}
		if err != nil {
			s.logger.Warn("bulk assign item failed",
				"attachment_id", attachmentID,
				"folder_id", req.FolderID,
				"mode", req.Mode,
				"error", err,
			)
			continue
		}
		if ok {
			processed++
		}
	}

	s.logger.Info("bulk assign finished",
		"folder_id", req.FolderID,
		"mode", req.Mode,
		"requested", len(ids),
		"processed", processed,
	)

	return &svc.BulkAssignResult{
		Message:    MovedMessage(processed, folderName),
		Processed:  processed,
		FolderName: folderName,
	}, nil
}

// CountInFolder counts inherit-status attachments in a folder (0 = uncategorized)
func (s *associationService) CountInFolder(ctx context.Context, folderID int64) (int, error) {
	if folderID < 0 {
		return 0, &domain.ValidationError{Message: MsgInvalidFolderID}
	}
	return s.assocRepo.CountInFolder(ctx, folderID)
}

// ListBulkActions builds the admin list menu: one "Move to" entry per folder in tree
// order, indented by depth, then "Remove from all folders". No folders, no entries.
func (s *associationService) ListBulkActions(ctx context.Context) ([]svc.BulkAction, error) {
	options, err := s.folderService.ListOptions(ctx)
	if err != nil {
		return nil, err
	}
	if len(options) == 0 {
		return []svc.BulkAction{}, nil
	}

	actions := make([]svc.BulkAction, 0, len(options)+1)
	for _, opt := range options {
		actions = append(actions, svc.BulkAction{
			Action: BulkActionMovePrefix + strconv.FormatInt(opt.ID, 10),
			Label:  fmt.Sprintf("Move to: %s%s", strings.Repeat("— ", opt.Depth), opt.Name),
		})
	}
	actions = append(actions, svc.BulkAction{
		Action: BulkActionRemoveFolder,
		Label:  "Remove from all folders",
	})

	return actions, nil
}

// RunBulkAction executes a menu action against the selected attachments
func (s *associationService) RunBulkAction(ctx context.Context, req *svc.BulkActionRequest) (*svc.BulkAssignResult, error) {
	switch {
	case req.Action == BulkActionSeparator:
		return &svc.BulkAssignResult{}, nil

	case req.Action == BulkActionRemoveFolder:
		result, err := s.BulkAssign(ctx, &svc.BulkAssignRequest{
			AttachmentIDs: req.AttachmentIDs,
			FolderID:      models.RootFolderID,
			Mode:          models.AssignModeMove,
		})
		if err != nil {
			return nil, err
		}
		result.Message = RemovedMessage(result.Processed)
		return result, nil

	case strings.HasPrefix(req.Action, BulkActionMovePrefix):
		folderID, err := strconv.ParseInt(strings.TrimPrefix(req.Action, BulkActionMovePrefix), 10, 64)
		if err != nil || folderID <= 0 {
			return nil, &domain.ValidationError{Message: MsgUnknownBulkAction}
		}
		return s.BulkAssign(ctx, &svc.BulkAssignRequest{
			AttachmentIDs: req.AttachmentIDs,
			FolderID:      folderID,
			Mode:          models.AssignModeMove,
		})
	}

	return nil, &domain.ValidationError{Message: MsgUnknownBulkAction}
}

func (s *associationService) folderName(ctx context.Context, folderID int64) (string, error) {
	if folderID == models.RootFolderID {
		return UncategorizedName, nil
	}
	folder, err := s.folderRepo.GetByID(ctx, folderID)
	if err != nil {
		return "", err
	}
	return folder.Name, nil
}

// normalizeAttachmentIDs drops non-positive and repeated ids, keeping request order
func normalizeAttachmentIDs(ids []int64) ([]int64, error) {
	out := make([]int64, 0, len(ids))
	seen := make(map[int64]bool, len(ids))
	for _, id := range ids {
		if id <= 0 || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	if len(out) == 0 {
		return nil, &domain.ValidationError{Message: MsgNoMediaSelected}
	}
	if len(out) > config.MaxBulkAttachmentIDs {
		return nil, &domain.ValidationError{Message: MsgTooManyItems}
	}
	return out, nil
}

// MovedMessage is the notice shown after moving attachments
func MovedMessage(processed int, folderName string) string {
	if processed == 1 {
		return fmt.Sprintf("%d item moved to %q.", processed, folderName)
	}
	return fmt.Sprintf("%d items moved to %q.", processed, folderName)
}

// RemovedMessage is the notice shown after removing attachments from every folder
func RemovedMessage(processed int) string {
	if processed == 1 {
		return fmt.Sprintf("%d item removed from folders.", processed)
	}
	return fmt.Sprintf("%d items removed from folders.", processed)
}
