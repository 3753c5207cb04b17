package model

// AssociationRecord links an item to a workspace. ForeignKey names the item
// column of the link table ("prompt_id"); at most one record exists per
// (item, workspace) pair.
type AssociationRecord struct {
	UserID      int64  `json:"user_id"`
	ItemID      int64  `json:"item_id"`
	WorkspaceID int64  `json:"workspace_id"`
	ForeignKey  string `json:"foreign_key"`
}
