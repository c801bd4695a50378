package model

// PageStatus represents the build status of a page in the site map.
// It is owned by the admin UI; imports never set it beyond the default.
type PageStatus string

const (
	StatusPlanned   PageStatus = "planned"
	StatusCopyReady PageStatus = "copy_ready"
	StatusInDesign  PageStatus = "in_design"
	StatusInDev     PageStatus = "in_dev"
	StatusLive      PageStatus = "live"
)

// AllPageStatuses returns all defined page statuses.
func AllPageStatuses() []PageStatus {
	return []PageStatus{
		StatusPlanned,
		StatusCopyReady,
		StatusInDesign,
		StatusInDev,
		StatusLive,
	}
}

// IsValid reports whether s is one of the defined statuses.
func (s PageStatus) IsValid() bool {
	switch s {
	case StatusPlanned, StatusCopyReady, StatusInDesign, StatusInDev, StatusLive:
		return true
	}
	return false
}

// InProgress reports whether s is one of the intermediate build states
// (anything that is neither planned nor live).
func (s PageStatus) InProgress() bool {
	switch s {
	case StatusCopyReady, StatusInDesign, StatusInDev:
		return true
	}
	return false
}

// PageRecord is one row of a tenant's site map: keyword-research metadata
// from the imported sheet plus admin-managed build state. FullURLPath is
// the natural unique key within a tenant's list.
type PageRecord struct {
	ClusterName       string     `json:"cluster_name"`
	PrimaryKeyword    string     `json:"primary_keyword"`
	SearchVolume      int        `json:"search_volume"`
	Intent            string     `json:"intent"`
	PageType          string     `json:"page_type"`
	FullURLPath       string     `json:"full_url_path"`
	Priority          string     `json:"priority,omitempty"`
	SecondaryKeywords []string   `json:"secondary_keywords,omitempty"`
	Status            PageStatus `json:"status"`
	Notes             string     `json:"notes,omitempty"`
}
