package mediafolders

import "time"

// Settings holds the media organizer options
type Settings struct {
	EnableDragDrop     bool      `json:"enable_drag_drop" yaml:"enable_drag_drop"`
	ShowFolderCount    bool      `json:"show_folder_count" yaml:"show_folder_count"`
	DefaultFolder      int64     `json:"default_folder" yaml:"default_folder"` // Folder newly registered attachments land in (0 = uncategorized)
	ShowUncategorized  bool      `json:"show_uncategorized" yaml:"show_uncategorized"`
	FolderTreeExpanded bool      `json:"folder_tree_expanded" yaml:"folder_tree_expanded"`
	EnableModalFilter  bool      `json:"enable_modal_filter" yaml:"enable_modal_filter"`
	UpdatedAt          time.Time `json:"updated_at,omitempty" yaml:"-"`
}

// UpdateSettingsRequest represents a partial settings update.
// Only non-nil fields are applied.
type UpdateSettingsRequest struct {
	EnableDragDrop     *bool  `json:"enable_drag_drop"`
	ShowFolderCount    *bool  `json:"show_folder_count"`
	DefaultFolder      *int64 `json:"default_folder"`
	ShowUncategorized  *bool  `json:"show_uncategorized"`
	FolderTreeExpanded *bool  `json:"folder_tree_expanded"`
	EnableModalFilter  *bool  `json:"enable_modal_filter"`
}

// IsEmpty reports whether the request changes nothing
func (r *UpdateSettingsRequest) IsEmpty() bool {
	return r.EnableDragDrop == nil &&
		r.ShowFolderCount == nil &&
		r.DefaultFolder == nil &&
		r.ShowUncategorized == nil &&
		r.FolderTreeExpanded == nil &&
		r.EnableModalFilter == nil
}

// Apply copies the present fields onto s
func (r *UpdateSettingsRequest) Apply(s *Settings) {
	if r.EnableDragDrop != nil {
		s.EnableDragDrop = *r.EnableDragDrop
	}
	if r.ShowFolderCount != nil {
		s.ShowFolderCount = *r.ShowFolderCount
	}
	if r.DefaultFolder != nil {
		s.DefaultFolder = *r.DefaultFolder
	}
	if r.ShowUncategorized != nil {
		s.ShowUncategorized = *r.ShowUncategorized
	}
	if r.FolderTreeExpanded != nil {
		s.FolderTreeExpanded = *r.FolderTreeExpanded
	}
	if r.EnableModalFilter != nil {
		s.EnableModalFilter = *r.EnableModalFilter
	}
}
