package mediafolders

import (
	"context"
	"log/slog"
	"path/filepath"
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

type attachmentService struct {
	attachmentRepo  repos.AttachmentRepository
	assocRepo       repos.AssociationRepository
	folderRepo      repos.FolderRepository
	assocService    svc.AssociationService
	settingsService svc.SettingsService
	filter          svc.QueryFilter
	txManager       repositories.TransactionManager
	logger          *slog.Logger
}

// NewAttachmentService creates a new attachment service
func NewAttachmentService(
	attachmentRepo repos.AttachmentRepository,
	assocRepo repos.AssociationRepository,
	folderRepo repos.FolderRepository,
	assocService svc.AssociationService,
	settingsService svc.SettingsService,
	filter svc.QueryFilter,
	txManager repositories.TransactionManager,
	logger *slog.Logger,
) svc.AttachmentService {
	return &attachmentService{
		attachmentRepo:  attachmentRepo,
		assocRepo:       assocRepo,
		folderRepo:      folderRepo,
		assocService:    assocService,
		settingsService: settingsService,
		filter:          filter,
		txManager:       txManager,
		logger:          logger,
	}
}

// RegisterAttachment records a media item and files it under the default folder setting
func (s *attachmentService) RegisterAttachment(ctx context.Context, req *svc.RegisterAttachmentRequest) (*models.Attachment, error) {
	req.Filename = strings.TrimSpace(req.Filename)
	req.Title = strings.TrimSpace(req.Title)
	if req.Status == "" {
		req.Status = models.AttachmentStatusInherit
	}
	if req.Title == "" {
		req.Title = strings.TrimSuffix(req.Filename, filepath.Ext(req.Filename))
	}

	if err := s.validateRegisterRequest(req); err != nil {
		return nil, err
	}

	now := time.Now()
	attachment := &models.Attachment{
		Title:     req.Title,
		Filename:  req.Filename,
		MimeType:  req.MimeType,
		Status:    req.Status,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.attachmentRepo.Create(ctx, attachment); err != nil {
		return nil, err
	}

	settings, err := s.settingsService.GetSettings(ctx)
	if err != nil {
		s.logger.Warn("failed to load settings for new attachment", "attachment_id", attachment.ID, "error", err)
	} else if settings.DefaultFolder > 0 {
		if _, err := s.assocService.Assign(ctx, attachment.ID, settings.DefaultFolder); err != nil {
			// The default folder may have been deleted since it was chosen
			s.logger.Warn("failed to file attachment in default folder",
				"attachment_id", attachment.ID,
				"folder_id", settings.DefaultFolder,
				"error", err,
			)
		}
	}

	s.logger.Info("attachment registered",
		"attachment_id", attachment.ID,
		"filename", attachment.Filename,
		"mime_type", attachment.MimeType,
	)

	return s.GetAttachment(ctx, attachment.ID)
}

func (s *attachmentService) validateRegisterRequest(req *svc.RegisterAttachmentRequest) error {
	err := validation.ValidateStruct(req,
		validation.Field(&req.Filename,
			validation.Required.Error(MsgFilenameRequired),
			validation.RuneLength(1, config.MaxAttachmentFilenameLength),
		),
		validation.Field(&req.Title, validation.RuneLength(0, config.MaxAttachmentTitleLength)),
		validation.Field(&req.MimeType, validation.RuneLength(0, config.MaxMimeTypeLength)),
		validation.Field(&req.Status,
			validation.In(
				models.AttachmentStatusInherit,
				models.AttachmentStatusPrivate,
				models.AttachmentStatusTrash,
			).Error(MsgInvalidAttachStatus),
		),
	)
	return toValidationError(err)
}

// GetAttachment returns an attachment with its folders
func (s *attachmentService) GetAttachment(ctx context.Context, id int64) (*models.Attachment, error) {
	attachment, err := s.attachmentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	refs, err := s.assocRepo.FolderRefs(ctx, []int64{id})
	if err != nil {
		return nil, err
	}
	attachment.Folders = refsOrEmpty(refs[id])

	return attachment, nil
}

// DeleteAttachment removes an attachment and refreshes the counts of its folders
func (s *attachmentService) DeleteAttachment(ctx context.Context, id int64) error {
	err := s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		folderIDs, err := s.assocRepo.FolderIDs(txCtx, id)
		if err != nil {
			return err
		}
		if err := s.assocRepo.Replace(txCtx, id, nil); err != nil {
			return err
		}
		if err := s.attachmentRepo.Delete(txCtx, id); err != nil {
			return err
		}
		return s.folderRepo.RecountItems(txCtx, folderIDs)
	})
	if err != nil {
		return err
	}

	s.logger.Info("attachment deleted", "attachment_id", id)
	return nil
}

// ListAttachments runs one listing through the folder filter and decorates each
// attachment with its folders
func (s *attachmentService) ListAttachments(ctx context.Context, surface svc.Surface, selector models.FolderSelector, query *models.AttachmentQuery) (*models.AttachmentPage, error) {
	if query == nil {
		query = &models.AttachmentQuery{}
	}
	query.ApplyDefaults()
	if err := query.Validate(); err != nil {
		return nil, &domain.ValidationError{Message: err.Error()}
	}

	s.filter.Apply(surface, query, selector)

	attachments, total, err := s.attachmentRepo.List(ctx, query)
	if err != nil {
		return nil, err
	}

	ids := make([]int64, len(attachments))
	for i := range attachments {
		ids[i] = attachments[i].ID
	}

	refs, err := s.assocRepo.FolderRefs(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range attachments {
		attachments[i].Folders = refsOrEmpty(refs[attachments[i].ID])
	}

	return &models.AttachmentPage{
		Attachments: attachments,
		Total:       total,
	}, nil
}

func refsOrEmpty(refs []models.FolderRef) []models.FolderRef {
	if refs == nil {
		return []models.FolderRef{}
	}
	return refs
}
