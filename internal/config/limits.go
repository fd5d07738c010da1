package config

const (
	// MaxFolderNameLength is the maximum length for folder names.
	// Limited to 200 to match the term name column of the media library
	// the folders were modeled on.
	MaxFolderNameLength = 200

	// MaxFolderSlugLength is the maximum length for folder slugs.
	MaxFolderSlugLength = 200

	// MaxAttachmentTitleLength is the maximum length for attachment titles.
	MaxAttachmentTitleLength = 255

	// MaxAttachmentFilenameLength is the maximum length for attachment filenames.
	MaxAttachmentFilenameLength = 255

	// MaxMimeTypeLength bounds the mime type string ("type/subtype").
	MaxMimeTypeLength = 100

	// MaxBulkAttachmentIDs caps a single bulk request.
	// Bulk writes are per-item, so very large batches hold the request open
	// for a long time without any rollback to show for it.
	MaxBulkAttachmentIDs = 1000

	// MaxDebugLogLines caps how many lines a debug log tail returns.
	MaxDebugLogLines = 5000

	// DefaultDebugLogLines is the tail size when none is requested.
	DefaultDebugLogLines = 100
)
