package mediafolders

import (
	"fmt"
	"strconv"
	"strings"
)

// FolderScope selects which part of the library a listing is constrained to
type FolderScope int

const (
	// FolderScopeAll applies no folder constraint
	FolderScopeAll FolderScope = iota

	// FolderScopeUncategorized keeps only attachments with no folder association at all
	FolderScopeUncategorized

	// FolderScopeFolder keeps only attachments associated with exactly FolderSelector.FolderID
	FolderScopeFolder
)

// UncategorizedSelector is the selector value for the virtual uncategorized folder
const UncategorizedSelector = "uncategorized"

// FolderSelector is the parsed form of the media_folder request parameter
type FolderSelector struct {
	Scope    FolderScope
	FolderID int64 // Only meaningful for FolderScopeFolder
}

// ParseFolderSelector parses the raw media_folder parameter.
//   - "" → all attachments
//   - "uncategorized" → attachments without any folder
//   - positive integer → that folder
//
// Anything else (non-numeric, zero, negative) is treated as absent.
func ParseFolderSelector(raw string) FolderSelector {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return FolderSelector{Scope: FolderScopeAll}
	}
	if strings.EqualFold(raw, UncategorizedSelector) {
		return FolderSelector{Scope: FolderScopeUncategorized}
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return FolderSelector{Scope: FolderScopeAll}
	}
	return FolderSelector{Scope: FolderScopeFolder, FolderID: id}
}

// String renders the selector back into its request form (round-trip)
func (s FolderSelector) String() string {
	switch s.Scope {
	case FolderScopeUncategorized:
		return UncategorizedSelector
	case FolderScopeFolder:
		return strconv.FormatInt(s.FolderID, 10)
	default:
		return ""
	}
}

// Attachment listing order fields
const (
	OrderByDate  = "date"
	OrderByTitle = "title"
	OrderByID    = "id"
)

// Default listing configuration values
const (
	DefaultAttachmentLimit = 40
	MaxAttachmentLimit     = 100
	DefaultAttachmentOrder = "DESC"
)

// AttachmentQuery describes one attachment listing request after parsing
type AttachmentQuery struct {
	// Folder is the folder constraint, set by the query filter
	Folder FolderSelector

	// Search matches attachment titles case-insensitively
	Search string

	// MimeType matches a full type ("image/png") or a type prefix ("image")
	MimeType string

	// Statuses limits the attachment status. Default: [inherit]
	Statuses []string

	OrderBy string // date, title or id (default: date)
	Order   string // ASC or DESC (default: DESC)

	// Pagination
	Limit  int // default 40, max 100
	Offset int
}

// ApplyDefaults fills in default values for unset fields
func (q *AttachmentQuery) ApplyDefaults() {
	if len(q.Statuses) == 0 {
		q.Statuses = []string{AttachmentStatusInherit}
	}
	if q.OrderBy == "" {
		q.OrderBy = OrderByDate
	}
	q.Order = strings.ToUpper(q.Order)
	if q.Order == "" {
		q.Order = DefaultAttachmentOrder
	}
	if q.Limit <= 0 {
		q.Limit = DefaultAttachmentLimit
	}
	if q.Offset < 0 {
		q.Offset = 0
	}
}

// Validate checks that values are reasonable
func (q *AttachmentQuery) Validate() error {
	if q.Limit > MaxAttachmentLimit {
		return fmt.Errorf("limit cannot exceed %d (requested: %d)", MaxAttachmentLimit, q.Limit)
	}
	switch q.OrderBy {
	case OrderByDate, OrderByTitle, OrderByID:
	default:
		return fmt.Errorf("invalid orderby: %q (supported: date, title, id)", q.OrderBy)
	}
	if q.Order != "ASC" && q.Order != "DESC" {
		return fmt.Errorf("invalid order: %q (supported: ASC, DESC)", q.Order)
	}
	for _, status := range q.Statuses {
		switch status {
		case AttachmentStatusInherit, AttachmentStatusPrivate, AttachmentStatusTrash:
		default:
			return fmt.Errorf("invalid attachment status: %q", status)
		}
	}
	return nil
}
