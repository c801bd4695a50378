package sitemap

import (
	"math"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/sells-group/siteplan/internal/model"
)

// lowerCaser folds page-type labels for grouping. Page types are open
// vocabulary, so "Blog" and "blog" must land in the same bucket without
// mutating the stored value.
var lowerCaser = cases.Lower(language.Und)

// ComputeStats computes flat descriptive statistics over a record list.
// An empty list is legal and yields zero-valued stats.
func ComputeStats(records []model.PageRecord) model.WebsiteStats {
	stats := model.WebsiteStats{
		Total:  len(records),
		ByType: make(map[string]model.TypeCount),
	}

	for _, rec := range records {
		stats.TotalVolume += rec.SearchVolume

		switch {
		case rec.Status == model.StatusLive:
			stats.Live++
		case rec.Status.InProgress():
			stats.InProgress++
		default:
			stats.Planned++
		}

		key := lowerCaser.String(rec.PageType)
		tc, ok := stats.ByType[key]
		if !ok {
			tc.Label = rec.PageType
		}
		tc.Count++
		stats.ByType[key] = tc
	}

	if stats.Total > 0 {
		stats.ProgressPercent = int(math.Round(100 * float64(stats.Live) / float64(stats.Total)))
	}
	return stats
}
