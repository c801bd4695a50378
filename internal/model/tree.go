package model

// SiteTreeNode is one node of the derived site tree. It is rebuilt from the
// record list on every read and never persisted. A node carries a Page only
// when its path appears verbatim in the record list; such a node may still
// have children when another record's path extends it.
type SiteTreeNode struct {
	Segment  string          `json:"segment"`
	FullPath string          `json:"full_path"`
	Page     *PageRecord     `json:"page,omitempty"`
	Children []*SiteTreeNode `json:"children,omitempty"`

	// Rollups over every descendant (including self) that carries a page.
	TotalVolume int `json:"total_volume"`
	TotalPages  int `json:"total_pages"`
	LivePages   int `json:"live_pages"`
}
