package model

// TypeCount is one page-type bucket. Label keeps the first original-case
// spelling seen for the type; grouping itself is case-insensitive.
type TypeCount struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// WebsiteStats holds flat descriptive statistics over a record list.
// Live, InProgress and Planned partition the status enum exhaustively,
// so Live + InProgress + Planned == Total always holds.
type WebsiteStats struct {
	Total           int                  `json:"total"`
	TotalVolume     int                  `json:"totalVolume"`
	Live            int                  `json:"live"`
	InProgress      int                  `json:"inProgress"`
	Planned         int                  `json:"planned"`
	ProgressPercent int                  `json:"progressPercent"`
	ByType          map[string]TypeCount `json:"byType"`
}
