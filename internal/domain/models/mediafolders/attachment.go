package mediafolders

import "time"

// Attachment statuses. Only inherit attachments are counted and listed by default.
const (
	AttachmentStatusInherit = "inherit"
	AttachmentStatusPrivate = "private"
	AttachmentStatusTrash   = "trash"
)

// Attachment is a media record registered with the service. The service only
// tags attachments with folders; it never stores the media itself.
type Attachment struct {
	ID        int64       `json:"id" db:"id"`
	Title     string      `json:"title" db:"title"`
	Filename  string      `json:"filename" db:"filename"`
	MimeType  string      `json:"mime_type" db:"mime_type"`
	Status    string      `json:"status" db:"status"`
	CreatedAt time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt time.Time   `json:"updated_at" db:"updated_at"`
	Folders   []FolderRef `json:"folders"` // Computed from associations, not stored on the row
}

// AttachmentPage is one page of a filtered attachment listing
type AttachmentPage struct {
	Attachments []Attachment `json:"attachments"`
	Total       int          `json:"total"`
}

// AssignMode selects how a bulk assignment treats existing associations
type AssignMode string

const (
	// AssignModeMove replaces every existing association with the target folder
	AssignModeMove AssignMode = "move"
	// AssignModeAdd adds the target folder and keeps existing associations
	AssignModeAdd AssignMode = "add"
)

// Valid reports whether m is a known mode
func (m AssignMode) Valid() bool {
	return m == AssignModeMove || m == AssignModeAdd
}
