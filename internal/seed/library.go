package seed

import (
	"context"
	"fmt"
	"log/slog"

	models "mediafolders/internal/domain/models/mediafolders"
	svc "mediafolders/internal/domain/services/mediafolders"
)

// SeedFolder is one folder of the sample library. Parent refers to another
// SeedFolder by name and must appear earlier in the list.
type SeedFolder struct {
	Name   string
	Parent string
}

// SeedAttachment is one sample media item and the folders it belongs to.
// The first folder is assigned, the rest are added.
type SeedAttachment struct {
	Title    string
	Filename string
	MimeType string
	Status   string
	Folders  []string
}

// SampleFolders is the default sample folder tree
var SampleFolders = []SeedFolder{
	{Name: "Photos"},
	{Name: "Vacation", Parent: "Photos"},
	{Name: "Family", Parent: "Photos"},
	{Name: "Documents"},
	{Name: "Invoices", Parent: "Documents"},
	{Name: "Video"},
}

// SampleAttachments is the default sample media, including uncategorized and private items
var SampleAttachments = []SeedAttachment{
	{Title: "Beach sunset", Filename: "beach-sunset.jpg", MimeType: "image/jpeg", Folders: []string{"Vacation"}},
	{Title: "Mountain trail", Filename: "mountain-trail.jpg", MimeType: "image/jpeg", Folders: []string{"Vacation"}},
	{Title: "Family portrait", Filename: "portrait.png", MimeType: "image/png", Folders: []string{"Family", "Photos"}},
	{Title: "Invoice March", Filename: "invoice-2024-03.pdf", MimeType: "application/pdf", Folders: []string{"Invoices"}},
	{Title: "Road trip", Filename: "road-trip.mp4", MimeType: "video/mp4", Folders: []string{"Video", "Vacation"}},
	{Title: "Scanned notes", Filename: "notes.pdf", MimeType: "application/pdf"},
	{Title: "Logo draft", Filename: "logo-draft.svg", MimeType: "image/svg+xml"},
	{Title: "Private contract", Filename: "contract.pdf", MimeType: "application/pdf", Status: models.AttachmentStatusPrivate, Folders: []string{"Documents"}},
}

// LibrarySeeder fills an empty library through the services, so seeded data
// obeys the same rules (slugs, counts, associations) as API writes
type LibrarySeeder struct {
	folders     svc.FolderService
	attachments svc.AttachmentService
	assoc       svc.AssociationService
	logger      *slog.Logger
}

// NewLibrarySeeder creates a new library seeder
func NewLibrarySeeder(folders svc.FolderService, attachments svc.AttachmentService, assoc svc.AssociationService, logger *slog.Logger) *LibrarySeeder {
	return &LibrarySeeder{
		folders:     folders,
		attachments: attachments,
		assoc:       assoc,
		logger:      logger,
	}
}

// Result reports what a seed run created
type Result struct {
	Folders     map[string]int64
	Attachments int
}

// Seed creates the folders, then registers and files each attachment
func (s *LibrarySeeder) Seed(ctx context.Context, folders []SeedFolder, attachments []SeedAttachment) (*Result, error) {
	result := &Result{Folders: make(map[string]int64, len(folders))}

	for _, f := range folders {
		parentID := models.RootFolderID
		if f.Parent != "" {
			id, ok := result.Folders[f.Parent]
			if !ok {
				return nil, fmt.Errorf("folder %q: parent %q not seeded yet", f.Name, f.Parent)
			}
			parentID = id
		}

		folder, err := s.folders.CreateFolder(ctx, &svc.CreateFolderRequest{Name: f.Name, ParentID: parentID})
		if err != nil {
			return nil, fmt.Errorf("create folder %q: %w", f.Name, err)
		}
		result.Folders[f.Name] = folder.ID
		s.logger.Info("seeded folder", "name", folder.Name, "id", folder.ID, "parent_id", parentID)
	}

	for _, a := range attachments {
		attachment, err := s.attachments.RegisterAttachment(ctx, &svc.RegisterAttachmentRequest{
			Title:    a.Title,
			Filename: a.Filename,
			MimeType: a.MimeType,
			Status:   a.Status,
		})
		if err != nil {
			return nil, fmt.Errorf("register %q: %w", a.Filename, err)
		}

		for i, name := range a.Folders {
			folderID, ok := result.Folders[name]
			if !ok {
				return nil, fmt.Errorf("attachment %q: unknown folder %q", a.Filename, name)
			}
			if i == 0 {
				_, err = s.assoc.Assign(ctx, attachment.ID, folderID)
			} else {
				_, err = s.assoc.BulkAssign(ctx, &svc.BulkAssignRequest{
					AttachmentIDs: []int64{attachment.ID},
					FolderID:      folderID,
					Mode:          models.AssignModeAdd,
				})
			}
			if err != nil {
				return nil, fmt.Errorf("file %q into %q: %w", a.Filename, name, err)
			}
		}

		result.Attachments++
		s.logger.Info("seeded attachment", "filename", a.Filename, "id", attachment.ID, "folders", a.Folders)
	}

	return result, nil
}
