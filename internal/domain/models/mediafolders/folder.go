package mediafolders

import (
	"time"
)

// RootFolderID is the parent reference of top-level folders and the id of
// the virtual "uncategorized" folder.
const RootFolderID int64 = 0

type Folder struct {
	ID        int64     `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Slug      string    `json:"slug" db:"slug"`
	ParentID  int64     `json:"parent" db:"parent_id"` // 0 = root level
	Count     int       `json:"count" db:"item_count"` // Cached direct membership, refreshed on every membership write
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// IsRoot reports whether the folder sits at the top level
func (f *Folder) IsRoot() bool {
	return f.ParentID == RootFolderID
}

// FolderRef is the compact folder shape attached to attachment payloads
type FolderRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// Ref returns the compact reference for this folder
func (f *Folder) Ref() FolderRef {
	return FolderRef{ID: f.ID, Name: f.Name, Slug: f.Slug}
}

// FolderOption is a flat, depth-annotated folder entry for dropdowns
type FolderOption struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Depth int    `json:"depth"`
	Count int    `json:"count"`
}
