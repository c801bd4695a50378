package sitemap

import (
	"strings"

	"github.com/sells-group/siteplan/internal/model"
)

// FilterOptions narrows a record list before tree building. Location keeps
// only records under /{location}/; Text is a case-insensitive substring
// match against the path, primary keyword or cluster name. Both conditions
// must hold when both are set.
type FilterOptions struct {
	Text     string
	Location string
}

// Filter returns a new list holding the records that satisfy opts. The
// input is never mutated, so the same base list can be filtered repeatedly
// with different predicates.
func Filter(records []model.PageRecord, opts FilterOptions) []model.PageRecord {
	text := strings.ToLower(strings.TrimSpace(opts.Text))
	location := strings.TrimSpace(opts.Location)

	out := make([]model.PageRecord, 0, len(records))
	for _, rec := range records {
		if location != "" && !strings.HasPrefix(rec.FullURLPath, "/"+location+"/") {
			continue
		}
		if text != "" && !matchesText(rec, text) {
			continue
		}
		out = append(out, rec)
	}
	return out
}

func matchesText(rec model.PageRecord, text string) bool {
	return strings.Contains(strings.ToLower(rec.FullURLPath), text) ||
		strings.Contains(strings.ToLower(rec.PrimaryKeyword), text) ||
		strings.Contains(strings.ToLower(rec.ClusterName), text)
}
