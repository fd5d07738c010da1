package mediafolders

// FolderTreeNode represents a folder in the tree with nested children.
// Count is the live direct membership; it does not include descendants.
type FolderTreeNode struct {
	ID       int64             `json:"id"`
	Name     string            `json:"name"`
	Slug     string            `json:"slug"`
	ParentID int64             `json:"parent"`
	Count    int               `json:"count"`
	Children []*FolderTreeNode `json:"children"` // Pointers for proper nesting
}

// FolderData is the sidebar payload: the full tree plus the uncategorized count
type FolderData struct {
	Folders            []*FolderTreeNode `json:"folders"`
	UncategorizedCount int               `json:"uncategorized_count"`
}
