package mediafolders

import (
	"errors"
	"fmt"
	"sort"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"mediafolders/internal/domain"
)

// Messages shown to the media library user
const (
	MsgFolderNameRequired  = "Folder name is required."
	MsgFolderNameTooLong   = "Folder name is too long."
	MsgInvalidSlug         = "Folder slug must contain at least one letter or digit."
	MsgMoveToSelf          = "Cannot move folder to itself."
	MsgMoveToDescendant    = "Cannot move folder to its own descendant."
	MsgNoMediaSelected     = "No media items selected."
	MsgInvalidAssignMode   = "Assignment mode must be \"move\" or \"add\"."
	MsgAddNeedsFolder      = "Choose a folder to add the selected media to."
	MsgTooManyItems        = "Too many media items selected."
	MsgInvalidFolderID     = "Invalid folder."
	MsgUnknownBulkAction   = "Unknown bulk action."
	MsgFilenameRequired    = "Attachment filename is required."
	MsgInvalidAttachStatus = "Invalid attachment status."
)

// UncategorizedName is the display name of the virtual folder 0
const UncategorizedName = "Uncategorized"

// toValidationError converts ozzo validation output into a domain ValidationError.
// Field errors are reported in field-name order so messages are stable.
func toValidationError(err error) error {
	if err == nil {
		return nil
	}

	var fieldErrs validation.Errors
	if errors.As(err, &fieldErrs) {
		fields := make([]string, 0, len(fieldErrs))
		for field := range fieldErrs {
			fields = append(fields, field)
		}
		sort.Strings(fields)
		for _, field := range fields {
			if fieldErrs[field] != nil {
				return &domain.ValidationError{Message: fieldErrs[field].Error()}
			}
		}
	}

	var internal validation.InternalError
	if errors.As(err, &internal) {
		return fmt.Errorf("validate request: %w", err)
	}

	return &domain.ValidationError{Message: err.Error()}
}
