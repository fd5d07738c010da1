package mediafolders

import (
	"context"

	models "mediafolders/internal/domain/models/mediafolders"
)

// AssociationRepository defines data access for attachment-folder associations
type AssociationRepository interface {
	// FolderIDs returns the folders an attachment is associated with
	FolderIDs(ctx context.Context, attachmentID int64) ([]int64, error)

	// Replace sets the attachment's associations to exactly folderIDs (empty clears them)
	Replace(ctx context.Context, attachmentID int64, folderIDs []int64) error

	// Add associates the attachment with one more folder.
	// Returns false when the association already existed.
	Add(ctx context.Context, attachmentID, folderID int64) (bool, error)

	// Remove drops a single association. Returns false when it did not exist.
	Remove(ctx context.Context, attachmentID, folderID int64) (bool, error)

	// AttachmentIDs lists every attachment associated with the folder
	AttachmentIDs(ctx context.Context, folderID int64) ([]int64, error)

	// DeleteByFolder drops every association to the folder
	DeleteByFolder(ctx context.Context, folderID int64) error

	// CountInFolder counts inherit-status attachments in the folder.
	// folderID 0 counts attachments with no association at all.
	CountInFolder(ctx context.Context, folderID int64) (int, error)

	// FolderRefs returns the folders of each attachment, keyed by attachment id
	FolderRefs(ctx context.Context, attachmentIDs []int64) (map[int64][]models.FolderRef, error)
}
